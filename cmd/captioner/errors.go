package main

import (
	"fmt"

	"captioner/internal/services"
)

// hints suggest a next step for each error kind.
var hints = map[error]string{
	services.ErrInvalidLocator:           "pass a watch URL such as https://www.youtube.com/watch?v=<id>",
	services.ErrUnsupportedFormat:        "use subtitle, table or records",
	services.ErrDirectoryUnavailable:     "check paths.video_dir exists and is writable (captioner doctor)",
	services.ErrDownloadFailed:           "check the URL and that yt-dlp is up to date",
	services.ErrDownloadIncomplete:       "yt-dlp finished without producing audio.mp3; check ffmpeg is installed",
	services.ErrRecognitionTimeout:       "raise recognition.timeout_seconds or retry later",
	services.ErrRecognitionRequestFailed: "check recognition.api_key and network access (captioner doctor)",
	services.ErrCorruptCache:             "remove the damaged transcript file from the video directory and rerun",
}

// describeFailure appends an operator hint to pipeline errors while keeping
// them unwrappable.
func describeFailure(err error) error {
	if err == nil {
		return nil
	}
	hint, ok := hints[services.Kind(err)]
	if !ok {
		return err
	}
	return fmt.Errorf("%w\nhint: %s", err, hint)
}
