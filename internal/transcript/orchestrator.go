package transcript

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"captioner/internal/captions"
	"captioner/internal/fileutil"
	"captioner/internal/logging"
	"captioner/internal/recognition"
	"captioner/internal/services"
)

// Result describes the transcript artifacts of one audio file.
type Result struct {
	SubtitlePath string
	TablePath    string
	Table        []captions.Utterance
}

// Orchestrator produces and caches transcript artifacts for audio files.
type Orchestrator struct {
	recognizer recognition.Recognizer
	logger     *slog.Logger
}

// NewOrchestrator constructs an orchestrator around a recognition backend.
func NewOrchestrator(recognizer recognition.Recognizer, logger *slog.Logger) *Orchestrator {
	return &Orchestrator{
		recognizer: recognizer,
		logger:     logging.NewComponentLogger(logger, "transcript"),
	}
}

// Process returns the subtitle and table artifacts for audioPath, creating
// whichever is missing. Existing artifacts are trusted as-is.
func (o *Orchestrator) Process(ctx context.Context, audioPath string, cfg recognition.Config) (Result, error) {
	ctx = services.WithStage(ctx, services.StageTranscribe)
	logger := logging.WithContext(ctx, o.logger)
	result := Result{SubtitlePath: SubtitlePath(audioPath), TablePath: TablePath(audioPath)}

	haveSubtitle, err := fileutil.FileExists(result.SubtitlePath)
	if err != nil {
		return Result{}, services.Wrap(services.ErrCorruptCache, services.StageTranscribe, "stat subtitle", result.SubtitlePath, err)
	}
	haveTable, err := fileutil.FileExists(result.TablePath)
	if err != nil {
		return Result{}, services.Wrap(services.ErrCorruptCache, services.StageTranscribe, "stat table", result.TablePath, err)
	}

	if haveSubtitle && haveTable {
		table, err := LoadTable(result.TablePath)
		if err != nil {
			return Result{}, err
		}
		result.Table = table
		logger.Info("transcript cache hit",
			logging.String("table_path", result.TablePath),
			logging.Int("utterances", len(table)),
		)
		return result, nil
	}

	if !haveSubtitle {
		if _, err := o.Transcribe(ctx, audioPath, cfg); err != nil {
			return Result{}, err
		}
	}

	// An existing table is never recomputed.
	if haveTable {
		table, err := LoadTable(result.TablePath)
		if err != nil {
			return Result{}, err
		}
		result.Table = table
		return result, nil
	}

	data, err := os.ReadFile(result.SubtitlePath)
	if err != nil {
		return Result{}, services.Wrap(services.ErrCorruptCache, services.StageTranscribe, "read subtitle", result.SubtitlePath, err)
	}
	table := captions.Parse(string(data))
	if err := SaveTable(result.TablePath, table); err != nil {
		return Result{}, services.Wrap(services.ErrDirectoryUnavailable, services.StageTranscribe, "write table", result.TablePath, err)
	}
	logger.Info("transcript table written",
		logging.String("table_path", result.TablePath),
		logging.Int("utterances", len(table)),
	)
	result.Table = table
	return result, nil
}

// Transcribe sends audioPath to the recognizer and writes the subtitle
// artifact. The request is bounded by cfg.Timeout and never retried.
func (o *Orchestrator) Transcribe(ctx context.Context, audioPath string, cfg recognition.Config) (string, error) {
	logger := logging.WithContext(ctx, o.logger)
	if o.recognizer == nil {
		return "", services.Wrap(services.ErrConfiguration, services.StageTranscribe, "transcribe", "no recognizer configured", nil)
	}

	audio, err := os.Open(audioPath)
	if err != nil {
		return "", services.Wrap(services.ErrCorruptCache, services.StageTranscribe, "open audio", audioPath, err)
	}
	defer audio.Close()

	callCtx := ctx
	if cfg.Timeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, cfg.Timeout)
		defer cancel()
	}

	started := time.Now()
	logger.Info("requesting transcript",
		logging.String("model", cfg.Model),
		logging.String("language", cfg.Language),
		logging.Bool("diarize", cfg.Diarize),
	)
	transcript, err := o.recognizer.Recognize(callCtx, audio, cfg)
	if err != nil {
		return "", classifyRecognitionError(callCtx, cfg.Timeout, err)
	}

	doc := captions.Build(transcript, captions.OptionsFromConfig(cfg))
	path := SubtitlePath(audioPath)
	if err := fileutil.WriteFileAtomic(path, []byte(doc.Render()), 0o644); err != nil {
		return "", services.Wrap(services.ErrDirectoryUnavailable, services.StageTranscribe, "write subtitle", path, err)
	}
	logger.Info("subtitle written",
		logging.String("subtitle_path", path),
		logging.Int("captions", len(doc.Captions)),
		logging.Duration("elapsed", time.Since(started)),
	)
	return path, nil
}

// classifyRecognitionError reports an expired deadline as a timeout and
// everything else, including caller cancellation, as a failed request.
func classifyRecognitionError(call context.Context, timeout time.Duration, err error) error {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(call.Err(), context.DeadlineExceeded) {
		return services.Wrap(services.ErrRecognitionTimeout, services.StageTranscribe, "recognize", fmt.Sprintf("no transcript after %s", timeout), err)
	}
	return services.Wrap(services.ErrRecognitionRequestFailed, services.StageTranscribe, "recognize", "", err)
}
