package services

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrInvalidLocator           = errors.New("invalid locator")
	ErrDirectoryUnavailable     = errors.New("directory unavailable")
	ErrDirectoryNotFound        = errors.New("directory not found")
	ErrDirectoryNotWritable     = errors.New("directory not writable")
	ErrDownloadFailed           = errors.New("download failed")
	ErrDownloadIncomplete       = errors.New("download incomplete")
	ErrRecognitionTimeout       = errors.New("recognition timeout")
	ErrRecognitionRequestFailed = errors.New("recognition request failed")
	ErrCorruptCache             = errors.New("corrupt cache")
	ErrUnsupportedFormat        = errors.New("unsupported format")
	ErrConfiguration            = errors.New("configuration error")
)

// kinds lists the top-level markers in the order Kind checks them. The
// directory refinements are deliberately absent: they always travel with
// ErrDirectoryUnavailable.
var kinds = []error{
	ErrInvalidLocator,
	ErrDirectoryUnavailable,
	ErrDownloadFailed,
	ErrDownloadIncomplete,
	ErrRecognitionTimeout,
	ErrRecognitionRequestFailed,
	ErrCorruptCache,
	ErrUnsupportedFormat,
	ErrConfiguration,
}

// Stage names reported in StageError and log fields.
const (
	StageValidate   = "validate"
	StageFetch      = "fetch"
	StageTranscribe = "transcribe"
	StageExport     = "export"
)

// Wrap builds an error message that includes stage context while tagging it with
// the provided marker for later classification. The marker should be one
// of the exported sentinel errors above.
func Wrap(marker error, stage, operation, message string, err error) error {
	detail := buildDetail(stage, operation, message)
	if marker == nil {
		marker = ErrRecognitionRequestFailed
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

// DirectoryError tags a base-directory precondition failure. reason must be
// ErrDirectoryNotFound or ErrDirectoryNotWritable.
func DirectoryError(reason error, path string, err error) error {
	if err != nil {
		return fmt.Errorf("%w: %w: %s: %w", ErrDirectoryUnavailable, reason, path, err)
	}
	return fmt.Errorf("%w: %w: %s", ErrDirectoryUnavailable, reason, path)
}

// Kind returns the sentinel marker carried by err, or nil when err is nil or
// carries none.
func Kind(err error) error {
	if err == nil {
		return nil
	}
	for _, kind := range kinds {
		if errors.Is(err, kind) {
			return kind
		}
	}
	return nil
}

// StageError records which pipeline stage failed for which locator. It
// unwraps to the stage's original error so the kind stays visible.
type StageError struct {
	Stage   string
	Locator string
	Err     error
}

func (e *StageError) Error() string {
	if e == nil {
		return "<nil>"
	}
	return fmt.Sprintf("%s %s: %v", e.Stage, e.Locator, e.Err)
}

func (e *StageError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// WrapStage attaches stage and locator context to err. A nil err stays nil.
func WrapStage(stage, locator string, err error) error {
	if err == nil {
		return nil
	}
	return &StageError{Stage: stage, Locator: locator, Err: err}
}

func buildDetail(stage, operation, message string) string {
	parts := make([]string, 0, 3)
	if stage = strings.TrimSpace(stage); stage != "" {
		parts = append(parts, stage)
	}
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "service failure"
	}
	return strings.Join(parts, ": ")
}
