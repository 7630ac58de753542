package transcript

import "path/filepath"

// Artifact names written beside the audio file.
const (
	SubtitleFile = "transcript.srt"
	TableFile    = "transcript.csv"
	RecordsFile  = "transcript.json"
)

// SubtitlePath returns the subtitle artifact path for an audio artifact.
func SubtitlePath(audioPath string) string {
	return filepath.Join(filepath.Dir(audioPath), SubtitleFile)
}

// TablePath returns the table artifact path for an audio artifact.
func TablePath(audioPath string) string {
	return filepath.Join(filepath.Dir(audioPath), TableFile)
}

// RecordsPath returns the records export path for an audio artifact.
func RecordsPath(audioPath string) string {
	return filepath.Join(filepath.Dir(audioPath), RecordsFile)
}
