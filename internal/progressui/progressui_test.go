package progressui

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"ytdlx/internal/ffmpeg"
)

func TestPlainReporterThrottlesUpdates(t *testing.T) {
	var buf bytes.Buffer
	reporter := New(&buf, "Test Track")
	if !reporter.plain {
		t.Fatal("expected plain mode for a buffer writer")
	}

	reporter.Start()
	reporter.Update(ffmpeg.ProgressUpdate{Percent: 2})
	reporter.Update(ffmpeg.ProgressUpdate{Percent: 3})
	reporter.Update(ffmpeg.ProgressUpdate{Percent: 10, TotalSize: 2 << 20, Speed: "2.5x"})
	reporter.Update(ffmpeg.ProgressUpdate{Percent: 12})
	reporter.Finish(nil)

	output := buf.String()
	lines := strings.Split(strings.TrimSpace(output), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines (2%%, 10%%, done), got %d:\n%s", len(lines), output)
	}
	if !strings.Contains(lines[1], "10%") || !strings.Contains(lines[1], "2.5x") {
		t.Fatalf("expected detail on 10%% line, got %q", lines[1])
	}
	if !strings.HasSuffix(lines[2], "done") {
		t.Fatalf("expected done line, got %q", lines[2])
	}
}

func TestPlainReporterUnknownDuration(t *testing.T) {
	var buf bytes.Buffer
	reporter := New(&buf, "Live Stream")
	reporter.Start()
	reporter.Update(ffmpeg.ProgressUpdate{Percent: -1, TotalSize: 5 << 20})
	if !strings.Contains(buf.String(), "processed") {
		t.Fatalf("expected processed-bytes line, got %q", buf.String())
	}
}

func TestPlainReporterFailure(t *testing.T) {
	var buf bytes.Buffer
	reporter := New(&buf, "Broken")
	reporter.Start()
	reporter.Finish(errors.New("exit status 1"))
	if !strings.Contains(buf.String(), "failed: exit status 1") {
		t.Fatalf("expected failure line, got %q", buf.String())
	}
}

func TestQuietReporterStaysSilent(t *testing.T) {
	reporter := NewQuiet()
	reporter.Start()
	reporter.Update(ffmpeg.ProgressUpdate{Percent: 50})
	reporter.Finish(nil)
}

func TestUpdateBeforeStartIgnored(t *testing.T) {
	var buf bytes.Buffer
	reporter := New(&buf, "Early")
	reporter.Update(ffmpeg.ProgressUpdate{Percent: 50})
	if buf.Len() != 0 {
		t.Fatalf("expected no output before Start, got %q", buf.String())
	}
}

func TestFormatDetail(t *testing.T) {
	if got := formatDetail(ffmpeg.ProgressUpdate{}); got != "" {
		t.Fatalf("expected empty detail, got %q", got)
	}
	if got := formatDetail(ffmpeg.ProgressUpdate{Speed: "1.5x"}); got != "1.5x" {
		t.Fatalf("expected speed only, got %q", got)
	}
	got := formatDetail(ffmpeg.ProgressUpdate{TotalSize: 1 << 20, Speed: "1.5x"})
	if !strings.Contains(got, "MiB") || !strings.Contains(got, "1.5x") {
		t.Fatalf("expected size and speed, got %q", got)
	}
}
