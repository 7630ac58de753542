package assemblyai

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"time"

	aai "github.com/AssemblyAI/assemblyai-go-sdk"
	"github.com/cenkalti/backoff/v4"

	"captioner/internal/logging"
	"captioner/internal/recognition"
)

// DefaultPollInterval is the initial delay between transcript status checks.
const DefaultPollInterval = 3 * time.Second

var errStillProcessing = errors.New("transcript still processing")

// Recognizer implements recognition.Recognizer against the AssemblyAI API.
type Recognizer struct {
	baseURL      string
	pollInterval time.Duration
	logger       *slog.Logger
}

// Option customizes a Recognizer.
type Option func(*Recognizer)

// WithBaseURL points the client at a different API endpoint.
func WithBaseURL(baseURL string) Option {
	return func(r *Recognizer) { r.baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/") }
}

// WithPollInterval sets the initial delay between status checks.
func WithPollInterval(interval time.Duration) Option {
	return func(r *Recognizer) {
		if interval > 0 {
			r.pollInterval = interval
		}
	}
}

// WithLogger attaches a logger.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Recognizer) { r.logger = logger }
}

// New constructs a Recognizer.
func New(opts ...Option) *Recognizer {
	r := &Recognizer{pollInterval: DefaultPollInterval}
	for _, opt := range opts {
		opt(r)
	}
	r.logger = logging.NewComponentLogger(r.logger, "assemblyai")
	return r
}

// Recognize uploads audio, submits a transcript job, and waits for it.
func (r *Recognizer) Recognize(ctx context.Context, audio io.Reader, cfg recognition.Config) (recognition.Transcript, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return recognition.Transcript{}, errors.New("assemblyai: api key required")
	}
	params, err := requestParams(cfg)
	if err != nil {
		return recognition.Transcript{}, err
	}
	client := r.client(cfg.APIKey)
	logger := logging.WithContext(ctx, r.logger)

	uploadURL, err := client.Upload(ctx, audio)
	if err != nil {
		return recognition.Transcript{}, fmt.Errorf("assemblyai: upload: %w", err)
	}
	logger.Debug("audio uploaded")

	submitted, err := client.Transcripts.SubmitFromURL(ctx, uploadURL, params)
	if err != nil {
		return recognition.Transcript{}, fmt.Errorf("assemblyai: submit: %w", err)
	}
	id := deref(submitted.ID)
	if id == "" {
		return recognition.Transcript{}, errors.New("assemblyai: submit returned no transcript id")
	}
	logger.Info("transcript submitted", logging.String("transcript_id", id), logging.String("model", cfg.Model))

	completed, err := r.await(ctx, client, id)
	if err != nil {
		return recognition.Transcript{}, err
	}
	return convertTranscript(completed), nil
}

func (r *Recognizer) client(apiKey string) *aai.Client {
	opts := []aai.ClientOption{aai.WithAPIKey(strings.TrimSpace(apiKey))}
	if r.baseURL != "" {
		opts = append(opts, aai.WithBaseURL(r.baseURL))
	}
	return aai.NewClientWithOptions(opts...)
}

// await polls the transcript until it leaves the queued/processing states.
// Context cancellation or deadline is returned unwrapped by the backoff.
func (r *Recognizer) await(ctx context.Context, client *aai.Client, id string) (aai.Transcript, error) {
	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = r.pollInterval
	bo.MaxInterval = 5 * r.pollInterval
	bo.MaxElapsedTime = 0

	var result aai.Transcript
	poll := func() error {
		t, err := client.Transcripts.Get(ctx, id)
		if err != nil {
			return backoff.Permanent(fmt.Errorf("assemblyai: get transcript %s: %w", id, err))
		}
		switch t.Status {
		case aai.TranscriptStatusCompleted:
			result = t
			return nil
		case aai.TranscriptStatusError:
			return backoff.Permanent(fmt.Errorf("assemblyai: transcript %s failed: %s", id, deref(t.Error)))
		default:
			return errStillProcessing
		}
	}
	if err := backoff.Retry(poll, backoff.WithContext(bo, ctx)); err != nil {
		return aai.Transcript{}, err
	}
	return result, nil
}

func requestParams(cfg recognition.Config) (*aai.TranscriptOptionalParams, error) {
	params := &aai.TranscriptOptionalParams{
		Punctuate:     aai.Bool(cfg.Punctuate),
		FormatText:    aai.Bool(cfg.SmartFormat),
		SpeakerLabels: aai.Bool(cfg.Diarize),
	}
	if model := strings.TrimSpace(cfg.Model); model != "" {
		params.SpeechModel = aai.SpeechModel(model)
	}
	if strings.TrimSpace(cfg.Language) != "" {
		code, err := recognition.NormalizeLanguage(cfg.Language)
		if err != nil {
			return nil, err
		}
		params.LanguageCode = aai.TranscriptLanguageCode(code)
	}
	return params, nil
}

func convertTranscript(t aai.Transcript) recognition.Transcript {
	speakers := newSpeakerIndex()
	out := recognition.Transcript{
		ID:       deref(t.ID),
		Language: string(t.LanguageCode),
		Text:     deref(t.Text),
		Words:    convertWords(t.Words, speakers),
	}
	for _, u := range t.Utterances {
		out.Utterances = append(out.Utterances, recognition.Utterance{
			Text:    deref(u.Text),
			Start:   millisToSeconds(u.Start),
			End:     millisToSeconds(u.End),
			Speaker: speakers.lookup(u.Speaker),
			Words:   convertWords(u.Words, speakers),
		})
	}
	return out
}

func convertWords(words []aai.TranscriptWord, speakers *speakerIndex) []recognition.Word {
	if len(words) == 0 {
		return nil
	}
	out := make([]recognition.Word, 0, len(words))
	for _, w := range words {
		out = append(out, recognition.Word{
			Text:    deref(w.Text),
			Start:   millisToSeconds(w.Start),
			End:     millisToSeconds(w.End),
			Speaker: speakers.lookup(w.Speaker),
		})
	}
	return out
}

func millisToSeconds(ms *int64) float64 {
	if ms == nil {
		return 0
	}
	return float64(*ms) / 1000.0
}

// speakerIndex maps backend speaker labels to decimal indices. Single letters
// map alphabetically, digits pass through, anything else is numbered in order
// of first appearance after the letters.
type speakerIndex struct {
	other map[string]string
}

func newSpeakerIndex() *speakerIndex {
	return &speakerIndex{other: map[string]string{}}
}

func (s *speakerIndex) lookup(label *string) string {
	value := strings.TrimSpace(deref(label))
	if value == "" {
		return ""
	}
	if len(value) == 1 {
		c := value[0]
		switch {
		case c >= 'A' && c <= 'Z':
			return strconv.Itoa(int(c - 'A'))
		case c >= 'a' && c <= 'z':
			return strconv.Itoa(int(c - 'a'))
		}
	}
	if _, err := strconv.Atoi(value); err == nil {
		return value
	}
	if idx, ok := s.other[value]; ok {
		return idx
	}
	idx := strconv.Itoa(26 + len(s.other))
	s.other[value] = idx
	return idx
}

func deref(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}
