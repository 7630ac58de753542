// Package recognition defines the contract between the transcription stage and
// a speech-recognition backend: the per-call Config, the Transcript payload
// (word and utterance timings in seconds, zero-based speaker indices), and the
// Recognizer interface implemented by backend adapters.
package recognition
