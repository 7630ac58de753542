package captions

import (
	"strconv"
	"strings"

	"captioner/internal/recognition"
)

// WordsPerCaption is the maximum number of words placed in one caption.
const WordsPerCaption = 10

// Caption is one subtitle block. Speaker is empty when unattributed.
type Caption struct {
	Index   int
	Start   float64
	End     float64
	Speaker string
	Text    string
}

// Document is an ordered sequence of captions.
type Document struct {
	Captions []Caption
}

// Options controls how a transcript is laid out into captions.
type Options struct {
	// Utterances keeps captions inside utterance boundaries when the
	// transcript carries utterances.
	Utterances bool
	// Diarize attributes captions to speakers and tags speaker changes.
	Diarize bool
	// UtteranceSplit starts a new caption when the silence between two words
	// exceeds this many seconds. Zero disables gap splitting.
	UtteranceSplit float64
}

// OptionsFromConfig derives the layout options from a recognition config.
func OptionsFromConfig(cfg recognition.Config) Options {
	return Options{
		Utterances:     cfg.Utterances,
		Diarize:        cfg.Diarize,
		UtteranceSplit: cfg.UtteranceSplit,
	}
}

// Build lays out a transcript as a subtitle document.
func Build(t recognition.Transcript, opts Options) Document {
	var groups [][]recognition.Word
	if opts.Utterances && len(t.Utterances) > 0 {
		for _, u := range t.Utterances {
			words := append([]recognition.Word(nil), u.Words...)
			if len(words) == 0 {
				words = []recognition.Word{{Text: u.Text, Start: u.Start, End: u.End, Speaker: u.Speaker}}
			}
			for i := range words {
				if words[i].Speaker == "" {
					words[i].Speaker = u.Speaker
				}
			}
			groups = append(groups, splitOnSilence(words, opts.UtteranceSplit)...)
		}
	} else if len(t.Words) > 0 {
		groups = [][]recognition.Word{t.Words}
	}

	var doc Document
	for _, group := range groups {
		for _, chunk := range chunkWords(group, opts.Diarize) {
			c := Caption{
				Index: len(doc.Captions) + 1,
				Start: chunk[0].Start,
				End:   chunk[len(chunk)-1].End,
				Text:  joinWords(chunk),
			}
			if opts.Diarize {
				c.Speaker = chunk[0].Speaker
			}
			if c.Text == "" {
				continue
			}
			doc.Captions = append(doc.Captions, c)
		}
	}
	return doc
}

// splitOnSilence breaks words wherever the gap between consecutive words
// exceeds threshold seconds.
func splitOnSilence(words []recognition.Word, threshold float64) [][]recognition.Word {
	if len(words) == 0 {
		return nil
	}
	if threshold <= 0 {
		return [][]recognition.Word{words}
	}
	var out [][]recognition.Word
	start := 0
	for i := 1; i < len(words); i++ {
		if words[i].Start-words[i-1].End > threshold {
			out = append(out, words[start:i])
			start = i
		}
	}
	return append(out, words[start:])
}

// chunkWords cuts words into runs of at most WordsPerCaption. With bySpeaker
// set, a change of speaker also starts a new run.
func chunkWords(words []recognition.Word, bySpeaker bool) [][]recognition.Word {
	var out [][]recognition.Word
	start := 0
	for i := 1; i <= len(words); i++ {
		if i == len(words) ||
			i-start >= WordsPerCaption ||
			(bySpeaker && words[i].Speaker != words[start].Speaker) {
			out = append(out, words[start:i])
			start = i
		}
	}
	return out
}

func joinWords(words []recognition.Word) string {
	parts := make([]string, 0, len(words))
	for _, w := range words {
		if text := strings.TrimSpace(w.Text); text != "" {
			parts = append(parts, text)
		}
	}
	return strings.Join(parts, " ")
}

// Render serializes the document as SRT. A "[speaker N]" line precedes the
// text of every caption whose speaker differs from the last tagged one.
func (d Document) Render() string {
	var b strings.Builder
	lastSpeaker := ""
	for i, c := range d.Captions {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(strconv.Itoa(i + 1))
		b.WriteByte('\n')
		b.WriteString(FormatTimestamp(c.Start))
		b.WriteString(timeSeparator)
		b.WriteString(FormatTimestamp(c.End))
		b.WriteByte('\n')
		if c.Speaker != "" && c.Speaker != lastSpeaker {
			b.WriteString("[speaker ")
			b.WriteString(c.Speaker)
			b.WriteString("]\n")
			lastSpeaker = c.Speaker
		}
		b.WriteString(c.Text)
		b.WriteByte('\n')
	}
	return b.String()
}
