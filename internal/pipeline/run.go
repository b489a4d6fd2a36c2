package pipeline

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"ytdlx/internal/engine"
	"ytdlx/internal/ffmpeg"
	"ytdlx/internal/fileutil"
	"ytdlx/internal/history"
)

const mebibyte = 1 << 20

// run drives one download: locate tools, probe metadata, select formats,
// transcode, verify, and record the outcome.
func (p *Pipeline) run(ctx context.Context, opts Options, op operation) (*Result, error) {
	started := time.Now()

	if strings.TrimSpace(opts.Query) == "" {
		return nil, errors.New("query is empty")
	}
	if err := p.validateFilters(opts, op); err != nil {
		return nil, err
	}

	tools, err := p.resolveTools(ctx)
	if err != nil {
		return nil, fmt.Errorf("resolve tools: %w", err)
	}

	response, err := p.probe(ctx, tools.Engine.Path, opts.Query)
	if err != nil {
		return nil, err
	}

	selection, err := op.choose(response, opts)
	if err != nil {
		return nil, err
	}

	job, result, err := p.buildJob(opts, op, response, selection)
	if err != nil {
		return nil, err
	}

	p.logger.Info("starting download",
		"operation", op.name,
		"title", response.Metadata.Title,
		"format", selection.note,
		"streaming", result.Streamed)

	reporter := p.newProgress(response.Metadata.Title)
	reporter.Start()
	runErr := p.transcode(ctx, tools.FFmpeg.Path, job, reporter.Update)
	reporter.Finish(runErr)

	if runErr == nil && !result.Streamed {
		runErr = p.verifyOutput(ctx, tools.FFprobe.Path, result.OutputPath, op.video, result)
	}

	result.Elapsed = time.Since(started)
	// A cancelled run must still land in history, so the insert gets a
	// context that outlives the cancellation.
	p.record(context.WithoutCancel(ctx), opts, op, result, started, runErr)

	if runErr != nil {
		return nil, runErr
	}
	p.logger.Info("download finished",
		"operation", op.name,
		"title", result.Title,
		"output", result.OutputPath,
		"elapsed", result.Elapsed.Round(time.Millisecond))
	return result, nil
}

func (p *Pipeline) validateFilters(opts Options, op operation) error {
	if opts.AudioFilter != "" {
		if !op.audio {
			return fmt.Errorf("audio filter %q set on a video-only download", opts.AudioFilter)
		}
		if _, err := ffmpeg.AudioFilter(opts.AudioFilter); err != nil {
			return err
		}
	}
	if opts.VideoFilter != "" {
		if !op.video {
			return fmt.Errorf("video filter %q set on an audio-only download", opts.VideoFilter)
		}
		if _, err := ffmpeg.VideoFilter(opts.VideoFilter); err != nil {
			return err
		}
	}
	return nil
}

// buildJob translates a selection into the ffmpeg invocation and the result
// shell the transcode fills in.
func (p *Pipeline) buildJob(opts Options, op operation, response *engine.Response, selection picked) (ffmpeg.Job, *Result, error) {
	container := p.container(opts, op)
	job := ffmpeg.Job{
		Container:       container,
		AudioOnly:       !op.video,
		Metadata:        containerTags(response.Metadata),
		DurationSeconds: response.Metadata.Duration,
		Overwrite:       p.cfg.Output.Overwrite,
	}

	if selection.video != nil {
		job.Inputs = append(job.Inputs, selection.video.URL)
	}
	if selection.audio != nil {
		job.Inputs = append(job.Inputs, selection.audio.URL)
	}
	if opts.AudioFilter != "" {
		expression, err := ffmpeg.AudioFilter(opts.AudioFilter)
		if err != nil {
			return ffmpeg.Job{}, nil, err
		}
		job.AudioFilter = expression
	}
	if opts.VideoFilter != "" {
		expression, err := ffmpeg.VideoFilter(opts.VideoFilter)
		if err != nil {
			return ffmpeg.Job{}, nil, err
		}
		job.VideoFilter = expression
	}

	result := &Result{
		Query:           opts.Query,
		Operation:       op.name,
		Title:           response.Metadata.Title,
		Container:       container,
		FormatNote:      selection.note,
		DurationSeconds: response.Metadata.Duration,
	}

	if opts.Stream != nil {
		if opts.OutputDir != "" {
			p.logger.Warn("output directory ignored while streaming", "dir", opts.OutputDir)
		}
		job.Writer = opts.Stream
		result.Streamed = true
		return job, result, nil
	}

	outputPath, err := p.outputPath(opts, response.Metadata.Title, container)
	if err != nil {
		return ffmpeg.Job{}, nil, err
	}
	if err := p.checkFreeSpace(filepath.Dir(outputPath), selection); err != nil {
		return ffmpeg.Job{}, nil, err
	}
	job.OutputPath = outputPath
	result.OutputPath = outputPath
	return job, result, nil
}

func (p *Pipeline) container(opts Options, op operation) string {
	if opts.Container != "" {
		return strings.ToLower(strings.TrimSpace(opts.Container))
	}
	if op.video {
		return p.cfg.Output.VideoContainer
	}
	return p.cfg.Output.AudioContainer
}

func (p *Pipeline) outputPath(opts Options, title, container string) (string, error) {
	dir := opts.OutputDir
	if dir == "" {
		dir = p.cfg.Paths.OutputDir
	}
	if err := fileutil.EnsureDir(dir); err != nil {
		return "", err
	}

	stem := opts.Filename
	if stem == "" {
		stem = fileutil.SanitizeFilename(title, p.cfg.Output.RestrictFilenames)
	}
	path := filepath.Join(dir, stem+ffmpeg.ExtensionFor(container))

	if p.cfg.Output.Overwrite {
		return path, nil
	}
	return fileutil.UniquePath(path)
}

// checkFreeSpace refuses the download when the destination cannot hold the
// selected formats plus the configured floor. Unknown sizes only check the
// floor.
func (p *Pipeline) checkFreeSpace(dir string, selection picked) error {
	floor := uint64(p.cfg.Output.MinFreeSpaceMiB) * mebibyte
	var needed uint64
	if selection.video != nil && selection.video.Size() > 0 {
		needed += uint64(selection.video.Size())
	}
	if selection.audio != nil && selection.audio.Size() > 0 {
		needed += uint64(selection.audio.Size())
	}

	available, err := p.freeSpace(dir)
	if err != nil {
		p.logger.Warn("free space check failed", "dir", dir, "error", err)
		return nil
	}
	if available < needed+floor {
		return fmt.Errorf("not enough space in %s: %d MiB available, %d MiB needed",
			dir, available/mebibyte, (needed+floor)/mebibyte)
	}
	return nil
}

func (p *Pipeline) verifyOutput(ctx context.Context, ffprobePath, path string, wantVideo bool, result *Result) error {
	if info, err := os.Stat(path); err == nil {
		result.SizeBytes = info.Size()
	}
	if !p.cfg.Output.VerifyDownloads {
		return nil
	}
	probed, err := p.inspect(ctx, ffprobePath, path)
	if err != nil {
		return fmt.Errorf("verify download: %w", err)
	}
	if err := probed.Verify(wantVideo); err != nil {
		return fmt.Errorf("verify download: %w", err)
	}
	if size := probed.SizeBytes(); size > 0 {
		result.SizeBytes = size
	}
	return nil
}

func (p *Pipeline) record(ctx context.Context, opts Options, op operation, result *Result, started time.Time, runErr error) {
	if p.store == nil || !p.cfg.History.Enabled {
		return
	}
	entry := history.Entry{
		Query:           opts.Query,
		Operation:       op.name,
		Title:           result.Title,
		OutputPath:      result.OutputPath,
		FormatNote:      result.FormatNote,
		SizeBytes:       result.SizeBytes,
		DurationSeconds: result.DurationSeconds,
		Status:          history.StatusSucceeded,
		StartedAt:       started.UTC(),
		FinishedAt:      time.Now().UTC(),
	}
	if runErr != nil {
		entry.Status = history.StatusFailed
		entry.Error = runErr.Error()
	}
	if _, err := p.store.Record(ctx, entry); err != nil {
		p.logger.Warn("record history entry", "error", err)
	}
}

// containerTags maps resolved metadata onto the tags every produced container
// carries.
func containerTags(metadata engine.Metadata) map[string]string {
	tags := make(map[string]string, 4)
	if metadata.Title != "" {
		tags["title"] = metadata.Title
	}
	if metadata.Channel != "" {
		tags["artist"] = metadata.Channel
	}
	if metadata.WebpageURL != "" {
		tags["comment"] = metadata.WebpageURL
	}
	if len(metadata.UploadDate) == 8 {
		tags["date"] = metadata.UploadDate[:4]
	}
	return tags
}
