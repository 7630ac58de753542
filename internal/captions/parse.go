package captions

import (
	"regexp"
	"strings"
)

const timeSeparator = " --> "

var (
	blockSeparator = regexp.MustCompile(`\n\n+`)
	speakerTag     = regexp.MustCompile(`^\[speaker (\d+)\](.*)`)
)

// Utterance is one parsed subtitle block with its attributed speaker.
// Speaker is empty when no tag has been seen yet.
type Utterance struct {
	StartTime string
	EndTime   string
	Speaker   string
	Text      string
}

// Parse converts an SRT document into utterances. Blocks with fewer than
// three lines or without a "start --> end" line are skipped. A leading
// "[speaker N]" tag sets the speaker for that block and every later block
// until the next tag.
func Parse(document string) []Utterance {
	normalized := strings.TrimSpace(strings.ReplaceAll(document, "\r\n", "\n"))
	if normalized == "" {
		return nil
	}

	var out []Utterance
	speaker := ""
	for _, block := range blockSeparator.Split(normalized, -1) {
		var u Utterance
		var ok bool
		u, speaker, ok = parseBlock(block, speaker)
		if ok {
			out = append(out, u)
		}
	}
	return out
}

// parseBlock folds one block into the running speaker state.
func parseBlock(block, speaker string) (Utterance, string, bool) {
	lines := strings.Split(block, "\n")
	if len(lines) < 3 {
		return Utterance{}, speaker, false
	}
	times := strings.Split(lines[1], timeSeparator)
	if len(times) != 2 {
		return Utterance{}, speaker, false
	}

	text := strings.Join(lines[2:], " ")
	if m := speakerTag.FindStringSubmatch(text); m != nil {
		speaker = m[1]
		text = strings.TrimSpace(m[2])
	}

	return Utterance{
		StartTime: strings.TrimSpace(times[0]),
		EndTime:   strings.TrimSpace(times[1]),
		Speaker:   speaker,
		Text:      text,
	}, speaker, true
}
