// Package services defines the shared error taxonomy and context helpers used
// by the fetch, transcribe, and export stages and by their callers.
//
// Key responsibilities:
//   - Sentinel markers plus the Wrap helper so every failure carries a kind
//     that callers branch on with errors.Is.
//   - StageError, which records the stage and locator a pipeline failure
//     occurred in without hiding the underlying kind.
//   - Context helpers that stamp stage names and correlation identifiers for
//     logging.
package services
