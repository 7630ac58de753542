// Package transcript turns a cached audio artifact into subtitle and table
// artifacts stored next to it.
//
// The Orchestrator calls the recognition backend at most once per audio
// artifact. Once transcript.srt exists it is parsed into transcript.csv, and
// once both exist they are loaded as-is. Records exports (JSON lines) are
// derived from the table on demand.
package transcript
