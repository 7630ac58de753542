// Package assets owns the per-video audio cache: deriving the VideoKey from a
// locator, the on-disk layout under the cache root, and the idempotent fetch
// that populates it.
//
// A video directory is reused purely on the presence of audio.mp3 and
// title.txt. Nothing in this package deletes or rewrites a completed entry.
package assets
