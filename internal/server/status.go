package server

import (
	"errors"
	"net/http"

	"captioner/internal/services"
)

// StatusFor maps a pipeline error to an HTTP status code by kind.
func StatusFor(err error) int {
	switch services.Kind(err) {
	case nil:
		if err == nil {
			return http.StatusOK
		}
		return http.StatusInternalServerError
	case services.ErrInvalidLocator, services.ErrUnsupportedFormat:
		return http.StatusBadRequest
	case services.ErrDownloadFailed, services.ErrDownloadIncomplete, services.ErrRecognitionRequestFailed:
		return http.StatusBadGateway
	case services.ErrRecognitionTimeout:
		return http.StatusGatewayTimeout
	case services.ErrDirectoryUnavailable:
		return http.StatusInsufficientStorage
	default:
		return http.StatusInternalServerError
	}
}

// userMessage returns the text shown to the client. Input problems are
// reported verbatim; everything else names only the failing stage.
func userMessage(err error) string {
	kind := services.Kind(err)
	switch kind {
	case services.ErrInvalidLocator:
		return "That does not look like a YouTube watch URL (expected ...watch?v=<id>)."
	case services.ErrUnsupportedFormat:
		return "Unsupported format. Choose srt, csv or json."
	}
	stage := "request"
	var stageErr *services.StageError
	if errors.As(err, &stageErr) && stageErr.Stage != "" {
		stage = stageErr.Stage
	}
	if kind == nil {
		return "The " + stage + " stage failed."
	}
	return "The " + stage + " stage failed: " + kind.Error() + "."
}
