package main

import (
	"log/slog"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"captioner/internal/assets"
	"captioner/internal/config"
	"captioner/internal/logging"
	"captioner/internal/pipeline"
	"captioner/internal/recognition"
	"captioner/internal/services/assemblyai"
	"captioner/internal/services/ytdlp"
	"captioner/internal/transcript"
)

type commandContext struct {
	configFlag string

	configOnce sync.Once
	config     *config.Config
	configErr  error

	loggerOnce sync.Once
	logger     *slog.Logger
	loggerErr  error

	// downloader and recognizer override the yt-dlp and AssemblyAI clients.
	downloader assets.Downloader
	recognizer recognition.Recognizer
}

func newCommandContext() *commandContext {
	return &commandContext{}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		cfg, _, _, err := config.Load(strings.TrimSpace(c.configFlag))
		if err != nil {
			c.configErr = err
			return
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

func (c *commandContext) ensureLogger() (*slog.Logger, error) {
	c.loggerOnce.Do(func() {
		cfg, err := c.ensureConfig()
		if err != nil {
			c.loggerErr = err
			return
		}
		c.logger, c.loggerErr = logging.NewFromConfig(cfg)
	})
	return c.logger, c.loggerErr
}

func (c *commandContext) fetcher() (*assets.Fetcher, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	logger, err := c.ensureLogger()
	if err != nil {
		return nil, err
	}
	downloader := c.downloader
	if downloader == nil {
		downloader = ytdlp.New(cfg.Download.Binary)
	}
	return assets.NewFetcher(downloader, logger), nil
}

func (c *commandContext) pipeline() (*pipeline.Pipeline, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	logger, err := c.ensureLogger()
	if err != nil {
		return nil, err
	}
	fetcher, err := c.fetcher()
	if err != nil {
		return nil, err
	}
	recognizer := c.recognizer
	if recognizer == nil {
		recognizer = assemblyai.New(
			assemblyai.WithBaseURL(cfg.Recognition.BaseURL),
			assemblyai.WithPollInterval(cfg.PollInterval()),
			assemblyai.WithLogger(logger),
		)
	}
	orchestrator := transcript.NewOrchestrator(recognizer, logger)
	return pipeline.New(fetcher, orchestrator, cfg.Paths.VideoDir, recognitionConfig(cfg), logger), nil
}

// recognitionConfig snapshots the recognition section for one run.
func recognitionConfig(cfg *config.Config) recognition.Config {
	r := cfg.Recognition
	return recognition.Config{
		APIKey:         r.APIKey,
		Model:          r.Model,
		Language:       r.Language,
		Punctuate:      r.Punctuate,
		SmartFormat:    r.SmartFormat,
		Paragraphs:     r.Paragraphs,
		Utterances:     r.Utterances,
		Diarize:        r.Diarize,
		UtteranceSplit: r.UtteranceSplit,
		Timeout:        cfg.RecognitionTimeout(),
	}
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}
