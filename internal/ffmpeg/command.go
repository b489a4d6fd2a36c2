package ffmpeg

import (
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"
)

// Job describes one transcoding run: inputs from the engine, filters, and
// either a file destination or a streaming writer.
type Job struct {
	// Inputs holds one direct media URL, or a video URL followed by an
	// audio URL for a merge.
	Inputs []string
	// OutputPath is the destination file. Mutually exclusive with Writer.
	OutputPath string
	// Writer receives the muxed stream instead of a file when set.
	Writer io.Writer
	// Container selects the output format (mp3, m4a, opus, flac, wav,
	// mp4, mkv, webm).
	Container string
	// AudioOnly drops video streams entirely.
	AudioOnly bool
	// AudioFilter and VideoFilter are resolved ffmpeg filter expressions.
	AudioFilter string
	VideoFilter string
	// Metadata is written as container tags.
	Metadata map[string]string
	// DurationSeconds, when known, lets progress reporting compute percent.
	DurationSeconds float64
	// Overwrite replaces an existing output file instead of failing.
	Overwrite bool
}

var audioEncoders = map[string]string{
	"mp3":  "libmp3lame",
	"m4a":  "aac",
	"opus": "libopus",
	"flac": "flac",
	"wav":  "pcm_s16le",
}

var containerMuxers = map[string]string{
	"mp3":  "mp3",
	"m4a":  "ipod",
	"opus": "ogg",
	"flac": "flac",
	"wav":  "wav",
	"mp4":  "mp4",
	"mkv":  "matroska",
	"webm": "webm",
}

func (j *Job) validate() error {
	if len(j.Inputs) == 0 {
		return errors.New("ffmpeg job: no inputs")
	}
	if len(j.Inputs) > 2 {
		return fmt.Errorf("ffmpeg job: %d inputs, at most 2 supported", len(j.Inputs))
	}
	if (j.OutputPath == "") == (j.Writer == nil) {
		return errors.New("ffmpeg job: exactly one of OutputPath or Writer must be set")
	}
	if _, ok := containerMuxers[j.Container]; !ok {
		return fmt.Errorf("ffmpeg job: unsupported container %q", j.Container)
	}
	if j.AudioOnly && j.VideoFilter != "" {
		return errors.New("ffmpeg job: video filter set on an audio-only job")
	}
	return nil
}

func (j *Job) streaming() bool {
	return j.Writer != nil
}

// buildArgs assembles the full ffmpeg argument vector. Progress key/value
// blocks go to stdout for file outputs; when the media itself is piped to
// stdout, progress moves to stderr.
func (j *Job) buildArgs() []string {
	args := []string{"-hide_banner", "-loglevel", "error", "-nostats"}

	if !j.streaming() {
		if j.Overwrite {
			args = append(args, "-y")
		} else {
			args = append(args, "-n")
		}
	}

	for _, input := range j.Inputs {
		args = append(args, "-i", input)
	}
	if len(j.Inputs) == 2 {
		args = append(args, "-map", "0:v:0", "-map", "1:a:0")
	}

	args = append(args, j.codecArgs()...)

	if j.AudioFilter != "" {
		args = append(args, "-af", j.AudioFilter)
	}
	if j.VideoFilter != "" {
		args = append(args, "-vf", j.VideoFilter)
	}

	for _, key := range sortedMetadataKeys(j.Metadata) {
		args = append(args, "-metadata", key+"="+j.Metadata[key])
	}

	if j.streaming() {
		args = append(args, "-progress", "pipe:2")
		args = append(args, j.streamMuxerArgs()...)
		args = append(args, "pipe:1")
	} else {
		args = append(args, "-progress", "pipe:1")
		args = append(args, j.OutputPath)
	}
	return args
}

func (j *Job) codecArgs() []string {
	if j.AudioOnly {
		return []string{"-vn", "-c:a", audioEncoders[j.Container]}
	}

	args := make([]string, 0, 4)
	if j.VideoFilter != "" {
		args = append(args, "-c:v", videoEncoderFor(j.Container))
	} else {
		args = append(args, "-c:v", "copy")
	}
	if j.AudioFilter != "" {
		args = append(args, "-c:a", audioEncoderForVideo(j.Container))
	} else {
		args = append(args, "-c:a", "copy")
	}
	return args
}

func (j *Job) streamMuxerArgs() []string {
	muxer := containerMuxers[j.Container]
	// The mov-family muxers (mp4, ipod) cannot seek on a pipe; fragmenting
	// keeps them streamable.
	if muxer == "mp4" || muxer == "ipod" {
		return []string{"-movflags", "frag_keyframe+empty_moov", "-f", muxer}
	}
	return []string{"-f", muxer}
}

func videoEncoderFor(container string) string {
	if container == "webm" {
		return "libvpx-vp9"
	}
	return "libx264"
}

func audioEncoderForVideo(container string) string {
	if container == "webm" {
		return "libopus"
	}
	return "aac"
}

func sortedMetadataKeys(metadata map[string]string) []string {
	if len(metadata) == 0 {
		return nil
	}
	keys := make([]string, 0, len(metadata))
	for key := range metadata {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// ExtensionFor maps a container name to its file extension.
func ExtensionFor(container string) string {
	return "." + strings.ToLower(strings.TrimSpace(container))
}
