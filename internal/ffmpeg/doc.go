// Package ffmpeg wraps the external transcoding binary: argument
// construction for download, merge, filter, and streaming jobs, named
// audio/video filter tables, -progress output parsing, and partial-output
// cleanup on failure.
package ffmpeg
