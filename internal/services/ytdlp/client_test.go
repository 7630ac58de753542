package ytdlp

import (
	"context"
	"errors"
	"slices"
	"strings"
	"testing"
)

func TestProbeParsesFirstJSONLine(t *testing.T) {
	client := New("")
	var gotName string
	var gotArgs []string
	client.WithCommandRunner(func(_ context.Context, name string, args ...string) ([]byte, error) {
		gotName = name
		gotArgs = args
		return []byte(`{"id":"abc123","title":"  A Talk  ","duration":61.5}` + "\n" + `{"id":"other"}`), nil
	})

	meta, err := client.Probe(context.Background(), "https://www.youtube.com/watch?v=abc123")
	if err != nil {
		t.Fatalf("Probe: %v", err)
	}
	if gotName != Command {
		t.Fatalf("expected default binary, got %q", gotName)
	}
	if !slices.Contains(gotArgs, "--skip-download") || !slices.Contains(gotArgs, "-j") {
		t.Fatalf("probe must not download media: %v", gotArgs)
	}
	if meta.ID != "abc123" || meta.Title != "A Talk" || meta.Duration != 61.5 {
		t.Fatalf("unexpected metadata: %+v", meta)
	}
}

func TestProbeRejectsGarbage(t *testing.T) {
	client := New("yt")
	client.WithCommandRunner(func(context.Context, string, ...string) ([]byte, error) {
		return []byte("not json"), nil
	})
	if _, err := client.Probe(context.Background(), "u"); err == nil {
		t.Fatal("expected decode error")
	}

	client.WithCommandRunner(func(context.Context, string, ...string) ([]byte, error) {
		return nil, nil
	})
	if _, err := client.Probe(context.Background(), "u"); err == nil {
		t.Fatal("expected empty output error")
	}
}

func TestDownloadArgs(t *testing.T) {
	args := DownloadArgs("https://www.youtube.com/watch?v=abc", "/videos/abc/audio.%(ext)s")
	joined := strings.Join(args, " ")
	for _, fragment := range []string{
		"-f bestaudio/best",
		"-x",
		"--audio-format mp3",
		"--audio-quality 192K",
		"-o /videos/abc/audio.%(ext)s",
	} {
		if !strings.Contains(joined, fragment) {
			t.Fatalf("expected %q in %q", fragment, joined)
		}
	}
	if args[len(args)-1] != "https://www.youtube.com/watch?v=abc" || args[len(args)-2] != "--" {
		t.Fatalf("expected locator last after --, got %v", args)
	}

	for _, args := range [][]string{
		ProbeArgs("--exec=touch /tmp/x?v=abc"),
		DownloadArgs("--exec=touch /tmp/x?v=abc", "/videos/abc/audio.%(ext)s"),
	} {
		n := len(args)
		if args[n-2] != "--" || args[n-1] != "--exec=touch /tmp/x?v=abc" {
			t.Fatalf("option-shaped locator must follow --, got %v", args)
		}
	}
}

func TestDownloadPropagatesRunnerError(t *testing.T) {
	client := New("custom-yt-dlp")
	boom := errors.New("exit status 1")
	client.WithCommandRunner(func(_ context.Context, name string, _ ...string) ([]byte, error) {
		if name != "custom-yt-dlp" {
			t.Fatalf("unexpected binary %q", name)
		}
		return nil, boom
	})
	if err := client.Download(context.Background(), "u", "t"); !errors.Is(err, boom) {
		t.Fatalf("expected runner error, got %v", err)
	}
}
