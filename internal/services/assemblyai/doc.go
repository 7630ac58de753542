// Package assemblyai adapts the AssemblyAI transcription API to the
// recognition.Recognizer contract.
//
// Audio is uploaded, a transcript job is submitted, and the job is polled with
// an exponential backoff until it completes, fails, or the caller's context
// ends. Millisecond timings become seconds and speaker letters become
// zero-based indices ("A" is "0").
package assemblyai
