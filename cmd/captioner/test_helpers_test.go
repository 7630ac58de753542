package main

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"captioner/internal/recognition"
	"captioner/internal/services/ytdlp"
)

type cliTestEnv struct {
	configPath string
	videoDir   string
	downloader *stubDownloader
	recognizer *stubRecognizer
}

type stubDownloader struct {
	probes, downloads int
}

func (d *stubDownloader) Probe(context.Context, string) (ytdlp.Metadata, error) {
	d.probes++
	return ytdlp.Metadata{ID: "abc123", Title: "Test video"}, nil
}

func (d *stubDownloader) Download(_ context.Context, _ string, tmpl string) error {
	d.downloads++
	return os.WriteFile(strings.Replace(tmpl, "%(ext)s", "mp3", 1), []byte("audio"), 0o644)
}

type stubRecognizer struct{ calls int }

func (r *stubRecognizer) Recognize(context.Context, io.Reader, recognition.Config) (recognition.Transcript, error) {
	r.calls++
	return recognition.Transcript{Utterances: []recognition.Utterance{
		{Speaker: "0", Start: 0, End: 1, Words: []recognition.Word{{Text: "merhaba", Start: 0, End: 1, Speaker: "0"}}},
		{Speaker: "1", Start: 1.2, End: 2, Words: []recognition.Word{{Text: "selam", Start: 1.2, End: 2, Speaker: "1"}}},
	}}, nil
}

func setupCLITestEnv(t *testing.T) *cliTestEnv {
	t.Helper()

	base := t.TempDir()
	home := filepath.Join(base, "home")
	if err := os.MkdirAll(home, 0o755); err != nil {
		t.Fatalf("mkdir home: %v", err)
	}
	t.Setenv("HOME", home)
	for _, key := range []string{"ASSEMBLYAI_API_KEY", "CAPTIONER_VIDEO_DIR", "CAPTIONER_LOG_LEVEL"} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
	t.Chdir(base)

	env := &cliTestEnv{
		configPath: filepath.Join(base, "config.toml"),
		videoDir:   filepath.Join(base, "videos"),
		downloader: &stubDownloader{},
		recognizer: &stubRecognizer{},
	}
	content := fmt.Sprintf("[paths]\nvideo_dir = %q\nlog_dir = %q\n\n[recognition]\napi_key = \"test-key\"\n\n[logging]\nlevel = \"error\"\n",
		env.videoDir, filepath.Join(base, "logs"))
	if err := os.WriteFile(env.configPath, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return env
}

func runCLI(t *testing.T, env *cliTestEnv, args ...string) (string, string, error) {
	t.Helper()
	ctx := newCommandContext()
	ctx.downloader = env.downloader
	ctx.recognizer = env.recognizer
	cmd := newRootCommandWith(ctx)
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(append([]string{"--config", env.configPath}, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func requireContains(t *testing.T, output, substr string) {
	t.Helper()
	if !strings.Contains(output, substr) {
		t.Fatalf("expected %q to contain %q", output, substr)
	}
}
