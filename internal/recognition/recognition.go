package recognition

import (
	"context"
	"io"
	"time"
)

// Config is the immutable set of options passed with each recognition call.
type Config struct {
	APIKey   string
	Model    string
	Language string

	Punctuate   bool
	SmartFormat bool
	Paragraphs  bool
	Utterances  bool
	Diarize     bool
	// UtteranceSplit is the silence gap in seconds that ends a caption
	// inside an utterance. Zero disables gap splitting.
	UtteranceSplit float64

	// Timeout bounds one recognition request. Zero means unbounded.
	Timeout time.Duration
}

// Word is a single recognized token. Speaker is empty when the backend did
// not attribute it.
type Word struct {
	Text    string
	Start   float64
	End     float64
	Speaker string
}

// Utterance is a contiguous run of speech attributed to one speaker.
type Utterance struct {
	Text    string
	Start   float64
	End     float64
	Speaker string
	Words   []Word
}

// Transcript is the structured recognition response.
type Transcript struct {
	ID         string
	Language   string
	Text       string
	Words      []Word
	Utterances []Utterance
}

// Recognizer submits audio and returns its transcript. Implementations must
// honour ctx cancellation and deadlines.
type Recognizer interface {
	Recognize(ctx context.Context, audio io.Reader, cfg Config) (Transcript, error)
}
