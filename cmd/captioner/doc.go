// Package main hosts the captioner CLI.
//
// Commands resolve configuration once, build the fetch and transcription
// collaborators from it, and hand off to the pipeline. `run` prints the path of
// the requested artifact, `serve` exposes the same operation over HTTP, and
// `show`, `fetch` and `doctor` cover inspection and troubleshooting.
package main
