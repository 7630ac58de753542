package ytdlp

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os/exec"
	"strings"
)

const (
	// Command is the default yt-dlp executable name.
	Command = "yt-dlp"
	// AudioFormat is the fixed encoding requested from the extractor.
	AudioFormat = "mp3"
	// AudioQuality is the fixed bitrate requested from the extractor.
	AudioQuality = "192K"
	// FormatSelector prefers an audio-only stream and falls back to the best muxed one.
	FormatSelector = "bestaudio/best"
)

// Runner executes name with args and returns its standard output.
type Runner func(ctx context.Context, name string, args ...string) ([]byte, error)

// Metadata is the subset of the yt-dlp info JSON the fetch stage uses.
type Metadata struct {
	ID       string  `json:"id"`
	Title    string  `json:"title"`
	Duration float64 `json:"duration"`
	Uploader string  `json:"uploader"`
}

// Client invokes yt-dlp.
type Client struct {
	binary string
	runner Runner
}

// New creates a client for the given binary; an empty binary means Command.
func New(binary string) *Client {
	binary = strings.TrimSpace(binary)
	if binary == "" {
		binary = Command
	}
	return &Client{binary: binary}
}

// WithCommandRunner sets a custom command runner (for testing).
func (c *Client) WithCommandRunner(runner Runner) {
	c.runner = runner
}

// Binary returns the configured executable.
func (c *Client) Binary() string {
	return c.binary
}

// Probe reads video metadata without downloading media.
func (c *Client) Probe(ctx context.Context, locator string) (Metadata, error) {
	output, err := c.run(ctx, ProbeArgs(locator)...)
	if err != nil {
		return Metadata{}, err
	}
	return parseMetadata(output)
}

// Download transfers the audio track to outputTemplate, a yt-dlp output
// template such as "<dir>/audio.%(ext)s".
func (c *Client) Download(ctx context.Context, locator, outputTemplate string) error {
	_, err := c.run(ctx, DownloadArgs(locator, outputTemplate)...)
	return err
}

// ProbeArgs builds the arguments for a metadata-only invocation.
func ProbeArgs(locator string) []string {
	return []string{
		"--no-config",
		"-j",
		"--skip-download",
		"--no-playlist",
		"--no-warnings",
		"--no-progress",
		"--",
		locator,
	}
}

// DownloadArgs builds the arguments for an audio-only extraction.
func DownloadArgs(locator, outputTemplate string) []string {
	return []string{
		"--no-config",
		"--no-playlist",
		"--no-warnings",
		"--no-progress",
		"--quiet",
		"-f", FormatSelector,
		"-x",
		"--audio-format", AudioFormat,
		"--audio-quality", AudioQuality,
		"-o", outputTemplate,
		"--",
		locator,
	}
}

func parseMetadata(output []byte) (Metadata, error) {
	line := bytes.TrimSpace(output)
	if idx := bytes.IndexByte(line, '\n'); idx >= 0 {
		line = line[:idx]
	}
	if len(line) == 0 {
		return Metadata{}, errors.New("yt-dlp: empty metadata output")
	}
	var meta Metadata
	if err := json.Unmarshal(line, &meta); err != nil {
		return Metadata{}, fmt.Errorf("yt-dlp: decode metadata: %w", err)
	}
	meta.Title = strings.TrimSpace(meta.Title)
	return meta, nil
}

func (c *Client) run(ctx context.Context, args ...string) ([]byte, error) {
	if c.runner != nil {
		return c.runner(ctx, c.binary, args...)
	}
	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, c.binary, args...) //nolint:gosec
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("%s: %w: %s", c.binary, err, strings.TrimSpace(stderr.String()))
	}
	return stdout.Bytes(), nil
}
