// Package ytdlp wraps the yt-dlp binary for the two operations the fetch stage
// needs: a metadata probe that never transfers media, and an audio-only
// download that extracts an mp3 track through ffmpeg.
//
// The command runner is injectable so tests can assert argument construction
// and simulate tool output without yt-dlp installed.
package ytdlp
