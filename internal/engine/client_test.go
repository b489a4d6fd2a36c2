package engine

import (
	"context"
	"errors"
	"os"
	"os/exec"
	"strings"
	"testing"
)

func stubEngine(t *testing.T, mode string) *[]string {
	t.Helper()
	var captured []string
	original := commandContext
	commandContext = func(ctx context.Context, name string, args ...string) *exec.Cmd {
		captured = append([]string(nil), args...)
		cmd := exec.CommandContext(ctx, os.Args[0], "-test.run=TestHelperProcess")
		cmd.Env = append(os.Environ(), "GO_WANT_HELPER_PROCESS=1", "ENGINE_HELPER_MODE="+mode)
		return cmd
	}
	t.Cleanup(func() { commandContext = original })
	return &captured
}

const probePayload = `{
	"id": "abc123",
	"title": "Test Video",
	"channel": "Test Channel",
	"duration": 212,
	"formats": [
		{"format_id": "140", "ext": "m4a", "acodec": "mp4a.40.2", "vcodec": "none", "abr": 129.5, "url": "https://example.com/a"},
		{"format_id": "137", "ext": "mp4", "acodec": "none", "vcodec": "avc1", "height": 1080, "tbr": 4400, "url": "https://example.com/v"}
	]
}`

func TestProbeBuildsSearchTarget(t *testing.T) {
	captured := stubEngine(t, "probe")
	client := NewClient()

	response, err := client.Probe(context.Background(), "never gonna give you up")
	if err != nil {
		t.Fatalf("Probe: %v", err)
	}
	args := *captured
	if len(args) == 0 {
		t.Fatal("expected engine arguments to be captured")
	}
	target := args[len(args)-1]
	if target != "ytsearch1:never gonna give you up" {
		t.Fatalf("expected search target, got %q", target)
	}
	if response.Metadata.Title != "Test Video" {
		t.Fatalf("unexpected title %q", response.Metadata.Title)
	}
}

func TestProbePassesURLThrough(t *testing.T) {
	captured := stubEngine(t, "probe")
	client := NewClient()

	if _, err := client.Probe(context.Background(), "https://youtu.be/abc123"); err != nil {
		t.Fatalf("Probe: %v", err)
	}
	args := *captured
	if args[len(args)-1] != "https://youtu.be/abc123" {
		t.Fatalf("expected URL passthrough, got %q", args[len(args)-1])
	}
}

func TestProbeAppliesProxyAndCookies(t *testing.T) {
	captured := stubEngine(t, "probe")
	client := NewClient(WithProxy("socks5://127.0.0.1:9050"), WithCookies("/tmp/cookies.txt"))

	if _, err := client.Probe(context.Background(), "https://youtu.be/abc123"); err != nil {
		t.Fatalf("Probe: %v", err)
	}
	joined := strings.Join(*captured, " ")
	if !strings.Contains(joined, "--proxy socks5://127.0.0.1:9050") {
		t.Fatalf("expected proxy flag in args, got %q", joined)
	}
	if !strings.Contains(joined, "--cookies /tmp/cookies.txt") {
		t.Fatalf("expected cookies flag in args, got %q", joined)
	}
}

func TestProbeCategorizesFormats(t *testing.T) {
	stubEngine(t, "probe")
	client := NewClient()

	response, err := client.Probe(context.Background(), "https://youtu.be/abc123")
	if err != nil {
		t.Fatalf("Probe: %v", err)
	}
	if len(response.AudioOnly) != 1 {
		t.Fatalf("expected one audio-only format, got %d", len(response.AudioOnly))
	}
	if len(response.VideoOnly) != 1 {
		t.Fatalf("expected one video-only format, got %d", len(response.VideoOnly))
	}
}

func TestProbeNoFormats(t *testing.T) {
	stubEngine(t, "noformats")
	client := NewClient()

	_, err := client.Probe(context.Background(), "https://youtu.be/abc123")
	if err == nil {
		t.Fatal("expected error for format-less response")
	}
	if !strings.Contains(err.Error(), "Empty Video") {
		t.Fatalf("expected title in error, got %v", err)
	}
}

func TestRunRebrandsEngineErrors(t *testing.T) {
	stubEngine(t, "fail")
	client := NewClient()

	_, err := client.Probe(context.Background(), "https://youtu.be/abc123")
	if err == nil {
		t.Fatal("expected engine failure to surface")
	}
	if strings.Contains(err.Error(), "yt-dlp") {
		t.Fatalf("expected upstream name to be rewritten, got %v", err)
	}
	if !strings.Contains(err.Error(), "yt-dlx") {
		t.Fatalf("expected yt-dlx branding in error, got %v", err)
	}
}

func TestRunReportsCancellationDistinctFromTimeout(t *testing.T) {
	stubEngine(t, "probe")
	client := NewClient()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := client.Probe(ctx, "https://youtu.be/abc123")
	if err == nil {
		t.Fatal("expected error for cancelled context")
	}
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled in chain, got %v", err)
	}
	if strings.Contains(err.Error(), "timed out") {
		t.Fatalf("cancellation must not be reported as a timeout, got %v", err)
	}
}

func TestVersionRebrandsOutput(t *testing.T) {
	stubEngine(t, "version")
	client := NewClient()

	version, err := client.Version(context.Background())
	if err != nil {
		t.Fatalf("Version: %v", err)
	}
	if version != "yt-dlx 2025.08.20" {
		t.Fatalf("expected rebranded version string, got %q", version)
	}
}

func TestSearchParsesFlatListing(t *testing.T) {
	captured := stubEngine(t, "search")
	client := NewClient()

	entries, err := client.Search(context.Background(), "test query", 3)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	args := *captured
	if args[len(args)-1] != "ytsearch3:test query" {
		t.Fatalf("expected sized search target, got %q", args[len(args)-1])
	}
	if len(entries) != 2 {
		t.Fatalf("expected two entries, got %d", len(entries))
	}
	if entries[0].Title != "First" {
		t.Fatalf("unexpected first entry %+v", entries[0])
	}
	if entries[1].Channel != "Uploader Two" {
		t.Fatalf("expected uploader fallback for channel, got %q", entries[1].Channel)
	}
}

func TestPlaylistRequiresURL(t *testing.T) {
	client := NewClient()
	if _, err := client.Playlist(context.Background(), "not a url"); err == nil {
		t.Fatal("expected error for non-URL playlist target")
	}
}

func TestIsURL(t *testing.T) {
	cases := map[string]bool{
		"https://youtu.be/abc":            true,
		"http://example.com/watch?v=1":    true,
		"never gonna give you up":         false,
		"ftp://example.com/file":          false,
		"youtube.com/watch?v=dQw4w9WgXcQ": false,
	}
	for input, want := range cases {
		if got := isURL(input); got != want {
			t.Errorf("isURL(%q) = %v, want %v", input, got, want)
		}
	}
}

func TestHelperProcess(t *testing.T) {
	if os.Getenv("GO_WANT_HELPER_PROCESS") != "1" {
		return
	}
	switch os.Getenv("ENGINE_HELPER_MODE") {
	case "probe":
		os.Stdout.WriteString(probePayload)
	case "noformats":
		os.Stdout.WriteString(`{"id": "abc123", "title": "Empty Video", "formats": []}`)
	case "search":
		os.Stdout.WriteString(`{
			"id": "search-results",
			"title": "test query",
			"entries": [
				{"id": "one", "title": "First", "channel": "Channel One", "duration": 60, "url": "https://youtu.be/one"},
				{"id": "two", "title": "Second", "uploader": "Uploader Two", "duration": 90, "url": "https://youtu.be/two"}
			]
		}`)
	case "version":
		os.Stdout.WriteString("yt-dlp 2025.08.20\n")
	case "fail":
		os.Stderr.WriteString("ERROR: yt-dlp: unable to extract video data")
		os.Exit(1)
	}
	os.Exit(0)
}
