package ffmpeg

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"
)

var commandContext = exec.CommandContext

// errTailLimit bounds how much stderr text an error report carries.
const errTailLimit = 4096

// Client wraps the ffmpeg transcoding binary.
type Client struct {
	binary string
}

// Option configures the transcoder client.
type Option func(*Client)

// WithBinary overrides the default ffmpeg binary.
func WithBinary(binary string) Option {
	return func(c *Client) {
		if binary != "" {
			c.binary = binary
		}
	}
}

// NewClient constructs a Client using defaults.
func NewClient(opts ...Option) *Client {
	client := &Client{binary: "ffmpeg"}
	for _, opt := range opts {
		opt(client)
	}
	return client
}

// Run executes the job, invoking progress for each update block. On failure
// a partially written output file is removed.
func (c *Client) Run(ctx context.Context, job Job, progress func(ProgressUpdate)) error {
	if err := job.validate(); err != nil {
		return err
	}

	existedBefore := false
	if !job.streaming() {
		if _, err := os.Stat(job.OutputPath); err == nil {
			existedBefore = true
		}
	}

	cmd := commandContext(ctx, c.binary, job.buildArgs()...)
	parser := newProgressParser(job.DurationSeconds, progress)
	var errTail strings.Builder

	var runErr error
	if job.streaming() {
		runErr = c.runStreaming(cmd, job, parser, &errTail)
	} else {
		runErr = c.runToFile(cmd, parser, &errTail)
	}

	if runErr != nil {
		if !job.streaming() && !existedBefore {
			removePartialOutput(job.OutputPath)
		}
		if ctx.Err() != nil {
			return fmt.Errorf("transcode cancelled: %w", ctx.Err())
		}
		detail := strings.TrimSpace(errTail.String())
		if detail == "" {
			return fmt.Errorf("ffmpeg: %w", runErr)
		}
		return fmt.Errorf("ffmpeg: %w: %s", runErr, detail)
	}
	return nil
}

// runToFile writes the output path directly; progress arrives on stdout and
// error text on stderr.
func (c *Client) runToFile(cmd *exec.Cmd, parser *progressParser, errTail *strings.Builder) error {
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return fmt.Errorf("stdout pipe: %w", err)
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return fmt.Errorf("stderr pipe: %w", err)
	}
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("start ffmpeg: %w", err)
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		scanner := bufio.NewScanner(stderr)
		for scanner.Scan() {
			appendTail(errTail, scanner.Text())
		}
	}()

	scanner := bufio.NewScanner(stdout)
	for scanner.Scan() {
		parser.Line(scanner.Text())
	}
	<-done
	return cmd.Wait()
}

// runStreaming pipes the muxed media to the job writer; progress and error
// text share stderr, disambiguated by the key=value shape.
func (c *Client) runStreaming(cmd *exec.Cmd, job Job, parser *progressParser, errTail *strings.Builder) error {
	cmd.Stdout = job.Writer
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return fmt.Errorf("stderr pipe: %w", err)
	}
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("start ffmpeg: %w", err)
	}

	scanner := bufio.NewScanner(stderr)
	for scanner.Scan() {
		line := scanner.Text()
		if !parser.Line(line) {
			appendTail(errTail, line)
		}
	}
	return cmd.Wait()
}

func appendTail(tail *strings.Builder, line string) {
	line = strings.TrimSpace(line)
	if line == "" {
		return
	}
	if tail.Len() >= errTailLimit {
		return
	}
	if tail.Len() > 0 {
		tail.WriteString("; ")
	}
	tail.WriteString(line)
}

// removePartialOutput clears a file the failed run created. Callers only
// invoke this when the path did not exist before the run started.
func removePartialOutput(path string) {
	if path == "" {
		return
	}
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return
	}
	_ = os.Remove(path)
}
