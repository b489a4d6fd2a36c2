package ffmpeg

import (
	"bytes"
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
)

func stubFFmpeg(t *testing.T, mode string) *[]string {
	t.Helper()
	var captured []string
	original := commandContext
	commandContext = func(ctx context.Context, name string, args ...string) *exec.Cmd {
		captured = append([]string(nil), args...)
		cmd := exec.CommandContext(ctx, os.Args[0], "-test.run=TestHelperProcess")
		cmd.Env = append(os.Environ(), "GO_WANT_HELPER_PROCESS=1", "FFMPEG_HELPER_MODE="+mode)
		return cmd
	}
	t.Cleanup(func() { commandContext = original })
	return &captured
}

func TestClientRunReportsProgress(t *testing.T) {
	stubFFmpeg(t, "progress")
	client := NewClient(WithBinary("/opt/ffmpeg"))

	var updates []ProgressUpdate
	job := Job{
		Inputs:          []string{"https://example.com/audio"},
		OutputPath:      filepath.Join(t.TempDir(), "out.m4a"),
		Container:       "m4a",
		AudioOnly:       true,
		DurationSeconds: 100,
	}
	if err := client.Run(context.Background(), job, func(u ProgressUpdate) {
		updates = append(updates, u)
	}); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(updates) == 0 {
		t.Fatal("expected progress updates")
	}
	if !updates[len(updates)-1].Done {
		t.Fatal("expected final update to be done")
	}
}

func TestClientRunSurfacesStderrTail(t *testing.T) {
	stubFFmpeg(t, "fail")
	client := NewClient()

	job := Job{
		Inputs:     []string{"https://example.com/audio"},
		OutputPath: filepath.Join(t.TempDir(), "out.m4a"),
		Container:  "m4a",
		AudioOnly:  true,
	}
	err := client.Run(context.Background(), job, nil)
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "403 Forbidden") {
		t.Fatalf("expected stderr detail in error, got %v", err)
	}
}

func TestClientRunRemovesPartialOutput(t *testing.T) {
	stubFFmpeg(t, "partial")
	client := NewClient()

	outputPath := filepath.Join(t.TempDir(), "out.m4a")
	t.Setenv("FFMPEG_HELPER_OUTPUT", outputPath)

	job := Job{
		Inputs:     []string{"https://example.com/audio"},
		OutputPath: outputPath,
		Container:  "m4a",
		AudioOnly:  true,
	}
	if err := client.Run(context.Background(), job, nil); err == nil {
		t.Fatal("expected error")
	}
	if _, err := os.Stat(outputPath); !os.IsNotExist(err) {
		t.Fatalf("expected partial output to be removed, stat err: %v", err)
	}
}

func TestClientRunKeepsPreexistingFileOnFailure(t *testing.T) {
	stubFFmpeg(t, "fail")
	client := NewClient()

	outputPath := filepath.Join(t.TempDir(), "out.m4a")
	if err := os.WriteFile(outputPath, []byte("existing"), 0o644); err != nil {
		t.Fatalf("seed file: %v", err)
	}

	job := Job{
		Inputs:     []string{"https://example.com/audio"},
		OutputPath: outputPath,
		Container:  "m4a",
		AudioOnly:  true,
	}
	if err := client.Run(context.Background(), job, nil); err == nil {
		t.Fatal("expected error")
	}
	data, err := os.ReadFile(outputPath)
	if err != nil {
		t.Fatalf("pre-existing file should survive: %v", err)
	}
	if string(data) != "existing" {
		t.Fatalf("pre-existing file was modified: %q", string(data))
	}
}

func TestClientRunStreamingWritesMedia(t *testing.T) {
	stubFFmpeg(t, "stream")
	client := NewClient()

	var buf bytes.Buffer
	var updates []ProgressUpdate
	job := Job{
		Inputs:          []string{"https://example.com/audio"},
		Writer:          &buf,
		Container:       "m4a",
		AudioOnly:       true,
		DurationSeconds: 10,
	}
	if err := client.Run(context.Background(), job, func(u ProgressUpdate) {
		updates = append(updates, u)
	}); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if buf.String() != "MEDIA-BYTES" {
		t.Fatalf("expected media on writer, got %q", buf.String())
	}
	if len(updates) == 0 {
		t.Fatal("expected progress parsed from stderr")
	}
}

func TestClientRunValidatesJob(t *testing.T) {
	client := NewClient()
	err := client.Run(context.Background(), Job{}, nil)
	if err == nil {
		t.Fatal("expected validation error for empty job")
	}
}

func TestHelperProcess(t *testing.T) {
	if os.Getenv("GO_WANT_HELPER_PROCESS") != "1" {
		return
	}
	switch os.Getenv("FFMPEG_HELPER_MODE") {
	case "progress":
		os.Stdout.WriteString("out_time_us=50000000\nspeed=10x\nprogress=continue\nout_time_us=100000000\nprogress=end\n")
	case "fail":
		os.Stderr.WriteString("https://example.com/audio: Server returned 403 Forbidden (access denied)\n")
		os.Exit(1)
	case "partial":
		if path := os.Getenv("FFMPEG_HELPER_OUTPUT"); path != "" {
			_ = os.WriteFile(path, []byte("partial"), 0o644)
		}
		os.Stderr.WriteString("Connection reset by peer\n")
		os.Exit(1)
	case "stream":
		os.Stdout.WriteString("MEDIA-BYTES")
		os.Stderr.WriteString("out_time_us=5000000\nprogress=continue\nprogress=end\n")
	}
	os.Exit(0)
}
