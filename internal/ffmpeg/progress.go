package ffmpeg

import (
	"strconv"
	"strings"
	"time"
)

// ProgressUpdate is one sample of ffmpeg's -progress output.
type ProgressUpdate struct {
	// Percent is derived from OutTime against the known duration, in the
	// 0..100 range. Negative when the duration is unknown.
	Percent   float64
	OutTime   time.Duration
	TotalSize int64
	Bitrate   string
	Speed     string
	Done      bool
}

// progressParser accumulates ffmpeg's key=value progress lines and emits an
// update at each block boundary (the "progress" key).
type progressParser struct {
	duration float64
	current  ProgressUpdate
	callback func(ProgressUpdate)
}

func newProgressParser(durationSeconds float64, callback func(ProgressUpdate)) *progressParser {
	return &progressParser{duration: durationSeconds, callback: callback}
}

// Line consumes one line of progress output. It reports whether the line was
// part of the progress stream; anything else belongs to ffmpeg's error text.
func (p *progressParser) Line(line string) bool {
	key, value, found := strings.Cut(strings.TrimSpace(line), "=")
	if !found {
		return false
	}
	value = strings.TrimSpace(value)

	switch key {
	case "out_time_us", "out_time_ms":
		if micros, err := strconv.ParseInt(value, 10, 64); err == nil {
			p.current.OutTime = time.Duration(micros) * time.Microsecond
		}
	case "out_time":
		if parsed, err := parseClock(value); err == nil {
			p.current.OutTime = parsed
		}
	case "total_size":
		if size, err := strconv.ParseInt(value, 10, 64); err == nil {
			p.current.TotalSize = size
		}
	case "bitrate":
		p.current.Bitrate = value
	case "speed":
		p.current.Speed = value
	case "progress":
		p.current.Done = value == "end"
		p.current.Percent = p.percent()
		if p.callback != nil {
			p.callback(p.current)
		}
	default:
		// Other progress keys (frame, fps, stream_0_0_q) are uninteresting
		// but still belong to the progress stream.
	}
	return true
}

func (p *progressParser) percent() float64 {
	if p.current.Done {
		return 100
	}
	if p.duration <= 0 {
		return -1
	}
	percent := p.current.OutTime.Seconds() / p.duration * 100
	if percent < 0 {
		return 0
	}
	if percent > 100 {
		return 100
	}
	return percent
}

// parseClock parses ffmpeg's HH:MM:SS.micro out_time form.
func parseClock(value string) (time.Duration, error) {
	parts := strings.Split(value, ":")
	if len(parts) != 3 {
		return 0, strconv.ErrSyntax
	}
	hours, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, err
	}
	minutes, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, err
	}
	seconds, err := strconv.ParseFloat(parts[2], 64)
	if err != nil {
		return 0, err
	}
	total := time.Duration(hours)*time.Hour + time.Duration(minutes)*time.Minute
	total += time.Duration(seconds * float64(time.Second))
	return total, nil
}
