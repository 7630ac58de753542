package pipeline

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"captioner/internal/assets"
	"captioner/internal/recognition"
	"captioner/internal/services"
	"captioner/internal/services/ytdlp"
	"captioner/internal/transcript"
)

type stubDownloader struct {
	probes, downloads int
}

func (d *stubDownloader) Probe(context.Context, string) (ytdlp.Metadata, error) {
	d.probes++
	return ytdlp.Metadata{ID: "abc123", Title: "Demo talk"}, nil
}

func (d *stubDownloader) Download(_ context.Context, _ string, tmpl string) error {
	d.downloads++
	path := strings.Replace(tmpl, "%(ext)s", "mp3", 1)
	return os.WriteFile(path, []byte("audio"), 0o644)
}

type stubRecognizer struct{ calls int }

func (r *stubRecognizer) Recognize(_ context.Context, _ io.Reader, _ recognition.Config) (recognition.Transcript, error) {
	r.calls++
	return recognition.Transcript{Words: []recognition.Word{
		{Text: "one", Start: 0, End: 0.3, Speaker: "0"},
		{Text: "two", Start: 0.4, End: 0.8, Speaker: "1"},
	}}, nil
}

func TestPipelineEndToEnd(t *testing.T) {
	base := t.TempDir()
	downloader := &stubDownloader{}
	recognizer := &stubRecognizer{}
	p := New(
		assets.NewFetcher(downloader, nil),
		transcript.NewOrchestrator(recognizer, nil),
		base,
		recognition.Config{Diarize: true},
		nil,
	)

	for range 2 {
		path, err := p.Run(context.Background(), locator, FormatRecords)
		if err != nil {
			t.Fatalf("Run: %v", err)
		}
		records, err := transcript.ReadRecords(path)
		if err != nil {
			t.Fatal(err)
		}
		if len(records) != 2 || records[0].Speaker != "0" || records[1].Speaker != "1" {
			t.Fatalf("unexpected records %+v", records)
		}
	}
	if downloader.probes != 1 || downloader.downloads != 1 || recognizer.calls != 1 {
		t.Fatalf("expected one call per collaborator, got probe=%d download=%d recognize=%d",
			downloader.probes, downloader.downloads, recognizer.calls)
	}
	title, err := os.ReadFile(filepath.Join(base, "abc123", assets.TitleFile))
	if err != nil || string(title) != "Demo talk" {
		t.Fatalf("title = %q, %v", title, err)
	}
}

func TestPipelineMissingBaseDir(t *testing.T) {
	downloader := &stubDownloader{}
	recognizer := &stubRecognizer{}
	base := filepath.Join(t.TempDir(), "missing")
	p := New(assets.NewFetcher(downloader, nil), transcript.NewOrchestrator(recognizer, nil), base, recognition.Config{}, nil)

	_, err := p.Run(context.Background(), locator, FormatSubtitle)
	if !errors.Is(err, services.ErrDirectoryUnavailable) || !errors.Is(err, services.ErrDirectoryNotFound) {
		t.Fatalf("expected directory not found, got %v", err)
	}
	if downloader.probes+downloader.downloads+recognizer.calls != 0 {
		t.Fatal("no collaborator may be called")
	}
	if _, statErr := os.Stat(base); !os.IsNotExist(statErr) {
		t.Fatal("base directory must not be created")
	}
}
