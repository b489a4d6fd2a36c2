// Package pipeline orchestrates downloads end to end: tool discovery,
// metadata extraction, format selection, transcoding, verification, and
// history recording.
package pipeline
