// Package pipeline composes audio fetching, transcription and export into a
// single request: a locator and an output format in, a file path out.
package pipeline
