package pipeline

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"captioner/internal/assets"
	"captioner/internal/logging"
	"captioner/internal/recognition"
	"captioner/internal/services"
	"captioner/internal/transcript"
)

// Fetcher retrieves audio assets into a base directory.
type Fetcher interface {
	Fetch(ctx context.Context, locator, baseDir string) (assets.Record, error)
}

// Processor produces transcript artifacts for an audio file.
type Processor interface {
	Process(ctx context.Context, audioPath string, cfg recognition.Config) (transcript.Result, error)
}

// Pipeline runs fetch, transcription and export for one locator at a time.
type Pipeline struct {
	fetcher   Fetcher
	processor Processor
	baseDir   string
	cfg       recognition.Config
	logger    *slog.Logger
}

// New constructs a pipeline writing under baseDir with a fixed recognition
// configuration.
func New(fetcher Fetcher, processor Processor, baseDir string, cfg recognition.Config, logger *slog.Logger) *Pipeline {
	return &Pipeline{
		fetcher:   fetcher,
		processor: processor,
		baseDir:   baseDir,
		cfg:       cfg,
		logger:    logging.NewComponentLogger(logger, "pipeline"),
	}
}

// BaseDir returns the cache root the pipeline writes to.
func (p *Pipeline) BaseDir() string { return p.baseDir }

// Output is the artifact produced by a run.
type Output struct {
	Path   string
	Format Format
	Asset  assets.Record
}

// Run processes locator and returns the path of the requested artifact.
func (p *Pipeline) Run(ctx context.Context, locator string, format Format) (string, error) {
	out, err := p.Execute(ctx, locator, format)
	if err != nil {
		return "", err
	}
	return out.Path, nil
}

// Execute is Run with the fetched asset record included in the result.
// Stage failures are returned as *services.StageError.
func (p *Pipeline) Execute(ctx context.Context, locator string, format Format) (Output, error) {
	format, err := ParseFormat(string(format))
	if err != nil {
		return Output{}, services.WrapStage(services.StageValidate, locator, err)
	}

	requestID := uuid.NewString()
	ctx = services.WithRequestID(ctx, requestID)
	ctx = services.WithLocator(ctx, locator)
	logger := logging.WithContext(ctx, p.logger)
	started := time.Now()
	logger.Info("pipeline started", logging.String("format", string(format)))

	asset, err := p.fetcher.Fetch(ctx, locator, p.baseDir)
	if err != nil {
		return Output{}, p.fail(logger, services.StageFetch, locator, err)
	}

	res, err := p.processor.Process(ctx, asset.AudioPath, p.cfg)
	if err != nil {
		return Output{}, p.fail(logger, services.StageTranscribe, locator, err)
	}

	out := Output{Format: format, Asset: asset}
	switch format {
	case FormatSubtitle:
		out.Path = res.SubtitlePath
	case FormatTable:
		out.Path = res.TablePath
	case FormatRecords:
		out.Path = transcript.RecordsPath(asset.AudioPath)
		if err := transcript.WriteRecords(out.Path, res.Table); err != nil {
			return Output{}, p.fail(logger, services.StageExport, locator, err)
		}
	}

	logger.Info("pipeline finished",
		logging.String(logging.FieldVideoKey, asset.Key),
		logging.String("output_path", out.Path),
		logging.Duration("elapsed", time.Since(started)),
	)
	return out, nil
}

func (p *Pipeline) fail(logger *slog.Logger, stage, locator string, err error) error {
	logging.ErrorWithContext(logger, "pipeline stage failed", "pipeline_failure",
		logging.String(logging.FieldStage, stage),
		logging.Error(err),
	)
	return services.WrapStage(stage, locator, err)
}
