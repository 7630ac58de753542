package config

import (
	"fmt"
	"strings"

	"github.com/kelseyhightower/envconfig"
)

// environment lists the variables consulted when the file leaves a value empty.
type environment struct {
	APIKey   string `envconfig:"ASSEMBLYAI_API_KEY"`
	VideoDir string `envconfig:"CAPTIONER_VIDEO_DIR"`
	LogLevel string `envconfig:"CAPTIONER_LOG_LEVEL"`
}

func (c *Config) normalize() error {
	var env environment
	if err := envconfig.Process("", &env); err != nil {
		return fmt.Errorf("read environment: %w", err)
	}
	if err := c.normalizePaths(env); err != nil {
		return err
	}
	c.normalizeRecognition(env)
	c.normalizeDownload()
	c.normalizeServer()
	c.normalizeLogging(env)
	return nil
}

func (c *Config) normalizePaths(env environment) error {
	if strings.TrimSpace(c.Paths.VideoDir) == "" {
		c.Paths.VideoDir = strings.TrimSpace(env.VideoDir)
	}
	if strings.TrimSpace(c.Paths.VideoDir) == "" {
		c.Paths.VideoDir = defaultVideoDir
	}
	var err error
	if c.Paths.VideoDir, err = expandPath(c.Paths.VideoDir); err != nil {
		return fmt.Errorf("paths.video_dir: %w", err)
	}
	if c.Paths.LogDir, err = expandPath(strings.TrimSpace(c.Paths.LogDir)); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeRecognition(env environment) {
	c.Recognition.APIKey = strings.TrimSpace(c.Recognition.APIKey)
	if c.Recognition.APIKey == "" {
		c.Recognition.APIKey = strings.TrimSpace(env.APIKey)
	}
	c.Recognition.BaseURL = strings.TrimRight(strings.TrimSpace(c.Recognition.BaseURL), "/")
	if c.Recognition.BaseURL == "" {
		c.Recognition.BaseURL = defaultRecognitionBaseURL
	}
	c.Recognition.Model = strings.ToLower(strings.TrimSpace(c.Recognition.Model))
	if c.Recognition.Model == "" {
		c.Recognition.Model = defaultRecognitionModel
	}
	c.Recognition.Language = strings.TrimSpace(c.Recognition.Language)
	if c.Recognition.Language == "" {
		c.Recognition.Language = defaultRecognitionLanguage
	}
	if c.Recognition.PollIntervalSeconds <= 0 {
		c.Recognition.PollIntervalSeconds = defaultRecognitionPollSecond
	}
}

func (c *Config) normalizeDownload() {
	c.Download.Binary = strings.TrimSpace(c.Download.Binary)
	if c.Download.Binary == "" {
		c.Download.Binary = defaultDownloaderBinary
	}
}

func (c *Config) normalizeServer() {
	c.Server.Bind = strings.TrimSpace(c.Server.Bind)
	if c.Server.Bind == "" {
		c.Server.Bind = defaultServerBind
	}
}

func (c *Config) normalizeLogging(env environment) {
	if level := strings.TrimSpace(env.LogLevel); level != "" {
		c.Logging.Level = level
	}
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
