package captions

import (
	"fmt"
	"math"
	"reflect"
	"strings"
	"testing"

	"captioner/internal/recognition"
)

func TestParsePropagatesSpeaker(t *testing.T) {
	doc := strings.Join([]string{
		"1\n00:00:00,000 --> 00:00:01,000\n[speaker 1]\nHello",
		"2\n00:00:01,000 --> 00:00:02,000\nWorld",
		"3\n00:00:02,000 --> 00:00:03,000\n[speaker 2]\nHi",
		"4\n00:00:03,000 --> 00:00:04,000\nThere",
	}, "\n\n")

	got := Parse(doc)
	want := []Utterance{
		{StartTime: "00:00:00,000", EndTime: "00:00:01,000", Speaker: "1", Text: "Hello"},
		{StartTime: "00:00:01,000", EndTime: "00:00:02,000", Speaker: "1", Text: "World"},
		{StartTime: "00:00:02,000", EndTime: "00:00:03,000", Speaker: "2", Text: "Hi"},
		{StartTime: "00:00:03,000", EndTime: "00:00:04,000", Speaker: "2", Text: "There"},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("unexpected utterances:\n got %+v\nwant %+v", got, want)
	}
}

func TestParseSkipsMalformedBlocks(t *testing.T) {
	doc := "1\n00:00:00,000 --> 00:00:01,000\nKept\n\n" +
		"2\n00:00:01,000\n\n" +
		"3\n00:00:01,000 - 00:00:02,000\nBad separator\n\n" +
		"4\n00:00:02,000 --> 00:00:03,000\nAlso kept\n\n" +
		"5\n00:00:03,000 --> 00:00:04,000"

	got := Parse(doc)
	if len(got) != 2 {
		t.Fatalf("expected 2 utterances, got %d: %+v", len(got), got)
	}
	if got[0].Text != "Kept" || got[1].Text != "Also kept" {
		t.Fatalf("unexpected texts: %+v", got)
	}
	if got[0].Speaker != "" {
		t.Fatalf("expected absent speaker before any tag, got %q", got[0].Speaker)
	}
}

func TestParseJoinsLinesAndNormalizesNewlines(t *testing.T) {
	doc := "\r\n1\r\n00:00:00,000 --> 00:00:02,000\r\n[speaker 0] first line\r\nsecond line\r\n\r\n\r\n\r\n" +
		"2\r\n00:00:02,000 --> 00:00:03,000\r\nnext\r\n"

	got := Parse(doc)
	if len(got) != 2 {
		t.Fatalf("expected 2 utterances, got %+v", got)
	}
	if got[0].Speaker != "0" || got[0].Text != "first line second line" {
		t.Fatalf("unexpected first utterance: %+v", got[0])
	}
	if got[1].Speaker != "0" || got[1].Text != "next" {
		t.Fatalf("unexpected second utterance: %+v", got[1])
	}
	if Parse("  \n\n ") != nil {
		t.Fatal("expected nil for blank document")
	}
}

func TestTimestampRoundTrip(t *testing.T) {
	if got := FormatTimestamp(3723.4567); got != "01:02:03,457" {
		t.Fatalf("FormatTimestamp = %q", got)
	}
	if got := FormatTimestamp(-3); got != "00:00:00,000" {
		t.Fatalf("expected negative clamp, got %q", got)
	}
	secs, err := ParseTimestamp("01:02:03.457")
	if err != nil || math.Abs(secs-3723.457) > 1e-9 {
		t.Fatalf("ParseTimestamp = %v, %v", secs, err)
	}
	if _, err := ParseTimestamp("1:2"); err == nil {
		t.Fatal("expected error for malformed timestamp")
	}
}

func words(speaker string, start float64, texts ...string) []recognition.Word {
	out := make([]recognition.Word, 0, len(texts))
	for i, text := range texts {
		s := start + float64(i)*0.5
		out = append(out, recognition.Word{Text: text, Start: s, End: s + 0.4, Speaker: speaker})
	}
	return out
}

func TestBuildCapsWordsPerCaption(t *testing.T) {
	var texts []string
	for i := range 23 {
		texts = append(texts, fmt.Sprintf("w%d", i))
	}
	doc := Build(recognition.Transcript{Words: words("", 0, texts...)}, Options{})

	if len(doc.Captions) != 3 {
		t.Fatalf("expected 3 captions, got %d", len(doc.Captions))
	}
	if n := len(strings.Fields(doc.Captions[0].Text)); n != WordsPerCaption {
		t.Fatalf("expected %d words in first caption, got %d", WordsPerCaption, n)
	}
	if doc.Captions[2].Text != "w20 w21 w22" {
		t.Fatalf("unexpected tail caption %q", doc.Captions[2].Text)
	}
	if doc.Captions[1].Start != 5 || doc.Captions[1].End != 9.9 {
		t.Fatalf("unexpected timing %+v", doc.Captions[1])
	}
	if strings.Contains(doc.Render(), "[speaker") {
		t.Fatal("expected no speaker tags without diarization")
	}
}

func TestBuildUtterancesAndSpeakers(t *testing.T) {
	first := words("0", 0, "hello", "there")
	second := append(words("1", 2, "general"), words("1", 10, "kenobi")...)
	transcript := recognition.Transcript{
		Utterances: []recognition.Utterance{
			{Speaker: "0", Start: 0, End: 1, Text: "hello there", Words: first},
			{Speaker: "1", Start: 2, End: 10.4, Text: "general kenobi", Words: second},
		},
	}

	doc := Build(transcript, Options{Utterances: true, Diarize: true, UtteranceSplit: 1})
	if len(doc.Captions) != 3 {
		t.Fatalf("expected silence split into 3 captions, got %+v", doc.Captions)
	}
	rendered := doc.Render()
	if strings.Count(rendered, "[speaker 1]") != 1 || strings.Count(rendered, "[speaker 0]") != 1 {
		t.Fatalf("expected one tag per speaker change:\n%s", rendered)
	}

	parsed := Parse(rendered)
	gotSpeakers := make([]string, 0, len(parsed))
	for _, u := range parsed {
		gotSpeakers = append(gotSpeakers, u.Speaker)
	}
	if !reflect.DeepEqual(gotSpeakers, []string{"0", "1", "1"}) {
		t.Fatalf("unexpected speakers after round trip: %v", gotSpeakers)
	}
	if parsed[2].Text != "kenobi" || parsed[2].StartTime != "00:00:10,000" {
		t.Fatalf("unexpected last utterance: %+v", parsed[2])
	}
}

func TestBuildSplitsWordsOnSpeakerChange(t *testing.T) {
	all := append(words("0", 0, "a", "b"), words("1", 1, "c")...)
	doc := Build(recognition.Transcript{Words: all}, Options{Diarize: true})
	if len(doc.Captions) != 2 || doc.Captions[1].Speaker != "1" {
		t.Fatalf("expected a caption per speaker run, got %+v", doc.Captions)
	}
}

func TestBuildEmptyTranscript(t *testing.T) {
	doc := Build(recognition.Transcript{}, Options{Utterances: true})
	if len(doc.Captions) != 0 || doc.Render() != "" {
		t.Fatalf("expected empty document, got %+v", doc)
	}
}
