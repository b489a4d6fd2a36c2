package ffmpeg

import (
	"testing"
	"time"
)

func TestProgressParserEmitsOnBlockBoundary(t *testing.T) {
	var updates []ProgressUpdate
	parser := newProgressParser(200, func(u ProgressUpdate) {
		updates = append(updates, u)
	})

	lines := []string{
		"bitrate= 128.0kbits/s",
		"total_size=1048576",
		"out_time_us=100000000",
		"speed=2.5x",
		"progress=continue",
		"out_time_us=200000000",
		"progress=end",
	}
	for _, line := range lines {
		if !parser.Line(line) {
			t.Fatalf("line %q should be recognized as progress", line)
		}
	}

	if len(updates) != 2 {
		t.Fatalf("expected 2 updates, got %d", len(updates))
	}
	first := updates[0]
	if first.Percent != 50 {
		t.Fatalf("expected 50%%, got %f", first.Percent)
	}
	if first.TotalSize != 1048576 {
		t.Fatalf("expected size carried, got %d", first.TotalSize)
	}
	if first.Speed != "2.5x" {
		t.Fatalf("expected speed carried, got %q", first.Speed)
	}
	if first.Done {
		t.Fatal("first update should not be done")
	}
	last := updates[1]
	if !last.Done || last.Percent != 100 {
		t.Fatalf("expected finished update, got %+v", last)
	}
}

func TestProgressParserUnknownDuration(t *testing.T) {
	var updates []ProgressUpdate
	parser := newProgressParser(0, func(u ProgressUpdate) {
		updates = append(updates, u)
	})
	parser.Line("out_time_us=1000000")
	parser.Line("progress=continue")
	if len(updates) != 1 {
		t.Fatalf("expected 1 update, got %d", len(updates))
	}
	if updates[0].Percent >= 0 {
		t.Fatalf("expected negative percent for unknown duration, got %f", updates[0].Percent)
	}
}

func TestProgressParserRejectsErrorText(t *testing.T) {
	parser := newProgressParser(100, nil)
	if parser.Line("Connection refused") {
		t.Fatal("plain error text should not be treated as progress")
	}
	if !parser.Line("frame=100") {
		t.Fatal("key=value lines belong to the progress stream")
	}
}

func TestParseClock(t *testing.T) {
	parsed, err := parseClock("01:02:03.500000")
	if err != nil {
		t.Fatalf("parseClock: %v", err)
	}
	want := time.Hour + 2*time.Minute + 3*time.Second + 500*time.Millisecond
	if parsed != want {
		t.Fatalf("expected %v, got %v", want, parsed)
	}
	if _, err := parseClock("12:00"); err == nil {
		t.Fatal("expected error for short clock value")
	}
}

func TestProgressPercentClamps(t *testing.T) {
	parser := newProgressParser(10, nil)
	parser.current.OutTime = 20 * time.Second
	if got := parser.percent(); got != 100 {
		t.Fatalf("expected clamp to 100, got %f", got)
	}
}
