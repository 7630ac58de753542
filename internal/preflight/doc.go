// Package preflight provides readiness checks for the filesystem paths,
// binaries, and external services captioner depends on.
//
// EnsureWritableDir is the hard precondition the fetch stage applies to the
// cache root before any network activity. The remaining checks report
// status for the CLI "doctor" command and never fail a run on their own.
package preflight
