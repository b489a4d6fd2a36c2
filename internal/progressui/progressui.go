package progressui

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/jedib0t/go-pretty/v6/progress"
	"github.com/mattn/go-isatty"

	"ytdlx/internal/ffmpeg"
)

const (
	trackerLength   = 30
	updateFrequency = 250 * time.Millisecond
	plainStepPct    = 5
)

// Reporter renders transcode progress for one download. On a terminal it
// drives an animated tracker; everywhere else it falls back to occasional
// plain lines so logs stay readable.
type Reporter struct {
	out     io.Writer
	label   string
	plain   bool
	writer  progress.Writer
	tracker *progress.Tracker
	lastPct int
	started bool
}

// New builds a reporter writing to out. Pass the label shown next to the bar,
// usually the media title.
func New(out io.Writer, label string) *Reporter {
	return &Reporter{
		out:     out,
		label:   label,
		plain:   !isTerminal(out),
		lastPct: -100,
	}
}

// NewQuiet returns a reporter that renders nothing. Useful when media bytes
// occupy stdout and any decoration would corrupt the stream.
func NewQuiet() *Reporter {
	return &Reporter{out: io.Discard, plain: true, lastPct: 200}
}

// Start begins rendering. Safe to call once; Update before Start is ignored.
func (r *Reporter) Start() {
	if r.started {
		return
	}
	r.started = true
	if r.plain {
		return
	}

	writer := progress.NewWriter()
	writer.SetOutputWriter(r.out)
	writer.SetAutoStop(false)
	writer.SetTrackerLength(trackerLength)
	writer.SetUpdateFrequency(updateFrequency)
	writer.SetTrackerPosition(progress.PositionRight)
	writer.Style().Visibility.ETA = true
	writer.Style().Visibility.Speed = false

	tracker := &progress.Tracker{Message: r.label, Total: 100}
	writer.AppendTracker(tracker)
	go writer.Render()

	r.writer = writer
	r.tracker = tracker
}

// Update applies one parsed progress report.
func (r *Reporter) Update(update ffmpeg.ProgressUpdate) {
	if !r.started {
		return
	}
	if r.plain {
		r.updatePlain(update)
		return
	}
	if update.Percent >= 0 {
		r.tracker.SetValue(int64(update.Percent))
	}
	if detail := formatDetail(update); detail != "" {
		r.tracker.UpdateMessage(fmt.Sprintf("%s  %s", r.label, detail))
	}
}

// Finish stops rendering and prints the terminal line for the outcome.
func (r *Reporter) Finish(err error) {
	if !r.started {
		return
	}
	if r.plain {
		if r.out == io.Discard {
			return
		}
		if err != nil {
			fmt.Fprintf(r.out, "%s: failed: %v\n", r.label, err)
		} else {
			fmt.Fprintf(r.out, "%s: done\n", r.label)
		}
		return
	}

	if err != nil {
		r.tracker.MarkAsErrored()
	} else {
		r.tracker.MarkAsDone()
	}
	for r.writer.IsRenderInProgress() && r.writer.LengthActive() > 0 {
		time.Sleep(updateFrequency)
	}
	r.writer.Stop()
}

func (r *Reporter) updatePlain(update ffmpeg.ProgressUpdate) {
	if r.out == io.Discard {
		return
	}
	pct := int(update.Percent)
	if update.Percent < 0 {
		if update.TotalSize > 0 {
			fmt.Fprintf(r.out, "%s: %s processed\n", r.label, humanize.IBytes(uint64(update.TotalSize)))
		}
		return
	}
	if pct < r.lastPct+plainStepPct && !update.Done {
		return
	}
	r.lastPct = pct
	detail := formatDetail(update)
	if detail != "" {
		fmt.Fprintf(r.out, "%s: %d%%  %s\n", r.label, pct, detail)
	} else {
		fmt.Fprintf(r.out, "%s: %d%%\n", r.label, pct)
	}
}

func formatDetail(update ffmpeg.ProgressUpdate) string {
	parts := make([]string, 0, 2)
	if update.TotalSize > 0 {
		parts = append(parts, humanize.IBytes(uint64(update.TotalSize)))
	}
	if update.Speed != "" {
		parts = append(parts, update.Speed)
	}
	switch len(parts) {
	case 0:
		return ""
	case 1:
		return parts[0]
	default:
		return parts[0] + " at " + parts[1]
	}
}

func isTerminal(writer io.Writer) bool {
	file, ok := writer.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
