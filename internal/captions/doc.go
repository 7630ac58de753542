// Package captions converts recognition output into SRT subtitle documents and
// parses SRT documents back into speaker-attributed utterances.
//
// Build applies a fixed layout policy (at most ten words per caption, optional
// utterance boundaries and silence splits, speaker tags on speaker change).
// Parse is a pure fold over SRT blocks that never fails: malformed blocks are
// dropped and the last seen speaker carries forward.
package captions
