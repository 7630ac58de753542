package preflight

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"os"
	"strings"
	"time"

	aai "github.com/AssemblyAI/assemblyai-go-sdk"
	"golang.org/x/sys/unix"

	"captioner/internal/config"
	"captioner/internal/deps"
	"captioner/internal/services"
)

// EnsureWritableDir verifies that path exists, is a directory, and can be
// written by this process. Failures carry ErrDirectoryUnavailable with the
// not-found or not-writable refinement.
func EnsureWritableDir(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return services.DirectoryError(services.ErrDirectoryNotFound, path, nil)
		}
		return services.DirectoryError(services.ErrDirectoryNotWritable, path, err)
	}
	if !info.IsDir() {
		return services.DirectoryError(services.ErrDirectoryNotWritable, path, errors.New("not a directory"))
	}
	if err := unix.Access(path, unix.W_OK|unix.X_OK); err != nil {
		return services.DirectoryError(services.ErrDirectoryNotWritable, path, err)
	}
	return nil
}

// CheckDirectoryAccess verifies that the directory exists and is readable/writable.
func CheckDirectoryAccess(name, path string) Result {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: does not exist)", path)}
		}
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: stat: %v)", path, err)}
	}
	if !info.IsDir() {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: is not a directory)", path)}
	}
	if err := unix.Access(path, unix.R_OK|unix.W_OK|unix.X_OK); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: insufficient permissions: %v)", path, err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (read/write ok)", path)}
}

// CheckRecognitionAPI verifies the recognition backend is reachable and the
// API key is accepted by listing a single transcript.
func CheckRecognitionAPI(ctx context.Context, baseURL, apiKey string) Result {
	const name = "AssemblyAI"

	base := strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if base == "" {
		return Result{Name: name, Detail: "missing base url"}
	}
	if strings.TrimSpace(apiKey) == "" {
		return Result{Name: name, Detail: "missing api key (set ASSEMBLYAI_API_KEY)"}
	}

	checkCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client := aai.NewClientWithOptions(
		aai.WithAPIKey(strings.TrimSpace(apiKey)),
		aai.WithBaseURL(base),
	)
	_, err := client.Transcripts.List(checkCtx, aai.ListTranscriptParams{Limit: aai.Int64(1)})
	if err == nil {
		return Result{Name: name, Passed: true, Detail: "Reachable"}
	}
	if status, ok := apiStatus(err); ok {
		if status == http.StatusUnauthorized || status == http.StatusForbidden {
			return Result{Name: name, Detail: "auth failed (invalid api key)"}
		}
		return Result{Name: name, Detail: fmt.Sprintf("auth check failed (%d)", status)}
	}
	return Result{Name: name, Detail: fmt.Sprintf("auth check failed (%v)", err)}
}

func apiStatus(err error) (int, bool) {
	var apiErr aai.APIError
	if errors.As(err, &apiErr) {
		return apiErr.Status, true
	}
	return 0, false
}

// CheckSystemDeps evaluates the binaries the fetch stage shells out to.
func CheckSystemDeps(cfg *config.Config) []deps.Status {
	return deps.CheckBinaries([]deps.Requirement{
		{
			Name:        "yt-dlp",
			Command:     cfg.Download.Binary,
			Description: "Required for metadata probes and audio downloads",
		},
		{
			Name:        "FFmpeg",
			Command:     cfg.FFmpegBinary(),
			Description: "Required by yt-dlp to extract mp3 audio",
		},
	})
}
