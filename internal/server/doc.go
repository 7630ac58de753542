// Package server exposes the pipeline over HTTP.
//
// GET / renders a form asking for a YouTube URL and an output format
// (srt, csv or json). POST / runs the pipeline and streams the resulting file
// back as an attachment. Cache artifacts stay on disk after delivery; only the
// derived JSON export is removed. GET /health answers liveness probes.
//
// A server takes an exclusive lock on its cache root for its whole lifetime,
// so two instances never write the same cache concurrently.
package server
