package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pelletier/go-toml/v2"

	"captioner/internal/config"
)

func isolateEnv(t *testing.T) string {
	t.Helper()
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)
	for _, key := range []string{"ASSEMBLYAI_API_KEY", "CAPTIONER_VIDEO_DIR", "CAPTIONER_LOG_LEVEL"} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
	t.Chdir(t.TempDir())
	return tempHome
}

func TestLoadDefaultConfigExpandsPaths(t *testing.T) {
	tempHome := isolateEnv(t)

	cfg, resolved, exists, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if resolved == "" {
		t.Fatal("expected resolved path")
	}
	if exists {
		t.Fatal("expected config file to be absent in temp HOME")
	}

	wantVideos := filepath.Join(tempHome, ".local", "share", "captioner", "videos")
	if cfg.Paths.VideoDir != wantVideos {
		t.Fatalf("unexpected video dir: got %q want %q", cfg.Paths.VideoDir, wantVideos)
	}
	if cfg.Recognition.APIKey != "" {
		t.Fatalf("expected empty api key, got %q", cfg.Recognition.APIKey)
	}
	if err := cfg.RequireAPIKey(); err == nil {
		t.Fatal("expected RequireAPIKey to fail without a key")
	}
	if cfg.Recognition.Model != "best" {
		t.Fatalf("unexpected model: %q", cfg.Recognition.Model)
	}
	if !cfg.Recognition.Diarize || !cfg.Recognition.Utterances || !cfg.Recognition.SmartFormat {
		t.Fatalf("expected diarize, utterances and smart_format enabled by default: %+v", cfg.Recognition)
	}
	if got := cfg.RecognitionTimeout().Seconds(); got != 600 {
		t.Fatalf("unexpected recognition timeout: %v", got)
	}
	if cfg.Server.Bind != "127.0.0.1:5000" {
		t.Fatalf("unexpected bind: %q", cfg.Server.Bind)
	}
}

func TestLoadUsesEnvironmentFallbacks(t *testing.T) {
	isolateEnv(t)
	videoDir := t.TempDir()
	t.Setenv("ASSEMBLYAI_API_KEY", "env-key")
	t.Setenv("CAPTIONER_VIDEO_DIR", videoDir)
	t.Setenv("CAPTIONER_LOG_LEVEL", "DEBUG")

	cfg, _, _, err := config.Load(filepath.Join(t.TempDir(), "missing.toml"))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Recognition.APIKey != "env-key" {
		t.Fatalf("expected api key from env, got %q", cfg.Recognition.APIKey)
	}
	if cfg.Paths.VideoDir != videoDir {
		t.Fatalf("expected video dir from env, got %q", cfg.Paths.VideoDir)
	}
	if cfg.Logging.Level != "debug" {
		t.Fatalf("expected debug level, got %q", cfg.Logging.Level)
	}
}

func TestLoadReadsDotEnvWithoutOverriding(t *testing.T) {
	isolateEnv(t)
	if err := os.WriteFile(".env", []byte("ASSEMBLYAI_API_KEY=dotenv-key\n"), 0o644); err != nil {
		t.Fatalf("write .env: %v", err)
	}

	cfg, _, _, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Recognition.APIKey != "dotenv-key" {
		t.Fatalf("expected api key from .env, got %q", cfg.Recognition.APIKey)
	}

	t.Setenv("ASSEMBLYAI_API_KEY", "process-key")
	cfg, _, _, err = config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Recognition.APIKey != "process-key" {
		t.Fatalf("expected process environment to win over .env, got %q", cfg.Recognition.APIKey)
	}
}

func TestLoadCustomPath(t *testing.T) {
	isolateEnv(t)
	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "config.toml")

	payload := map[string]any{
		"paths": map[string]any{
			"video_dir": filepath.Join(tempDir, "videos"),
		},
		"recognition": map[string]any{
			"api_key":         "file-key",
			"language":        "en-US",
			"diarize":         false,
			"timeout_seconds": 30,
		},
		"logging": map[string]any{
			"format": "JSON",
		},
	}
	data, err := toml.Marshal(payload)
	if err != nil {
		t.Fatalf("marshal config: %v", err)
	}
	if err := os.WriteFile(configPath, data, 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, resolved, exists, err := config.Load(configPath)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists || resolved != configPath {
		t.Fatalf("expected %q to be loaded, got %q (exists=%v)", configPath, resolved, exists)
	}
	if cfg.Recognition.APIKey != "file-key" {
		t.Fatalf("unexpected api key: %q", cfg.Recognition.APIKey)
	}
	if cfg.Recognition.Diarize {
		t.Fatal("expected diarize disabled by file")
	}
	if !cfg.Recognition.Utterances {
		t.Fatal("expected utterances to keep its default")
	}
	if cfg.Recognition.Language != "en-US" {
		t.Fatalf("unexpected language: %q", cfg.Recognition.Language)
	}
	if cfg.Logging.Format != "json" {
		t.Fatalf("expected normalized json format, got %q", cfg.Logging.Format)
	}
	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories: %v", err)
	}
	if info, err := os.Stat(cfg.Paths.VideoDir); err != nil || !info.IsDir() {
		t.Fatalf("expected video dir to exist: %v", err)
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	cfg := config.Default()
	cfg.Recognition.TimeoutSeconds = 0
	if err := cfg.Validate(); err == nil || !strings.Contains(err.Error(), "timeout_seconds") {
		t.Fatalf("expected timeout validation error, got %v", err)
	}

	cfg = config.Default()
	cfg.Logging.Format = "xml"
	if err := cfg.Validate(); err == nil || !strings.Contains(err.Error(), "logging.format") {
		t.Fatalf("expected format validation error, got %v", err)
	}
}

func TestCreateSampleIsLoadable(t *testing.T) {
	isolateEnv(t)
	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	if err := config.CreateSample(path); err != nil {
		t.Fatalf("CreateSample: %v", err)
	}
	if _, _, exists, err := config.Load(path); err != nil || !exists {
		t.Fatalf("expected sample config to load, exists=%v err=%v", exists, err)
	}
}
