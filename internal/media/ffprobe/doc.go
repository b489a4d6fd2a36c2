// Package ffprobe shells out to the ffprobe binary and exposes typed
// container and stream metadata, plus the verification check the download
// pipeline runs on finished files.
package ffprobe
