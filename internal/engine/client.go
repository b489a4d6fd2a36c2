package engine

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"os/exec"
	"regexp"
	"strconv"
	"strings"
	"time"
)

var commandContext = exec.CommandContext

// brandPattern rewrites the upstream extractor's name in surfaced output so
// error text matches the binary users actually invoked.
var brandPattern = regexp.MustCompile(`(?i)yt-dlp`)

// Client wraps the metadata extractor executable.
type Client struct {
	binary  string
	proxy   string
	cookies string
	timeout time.Duration
}

// Option configures the extractor client.
type Option func(*Client)

// WithBinary overrides the default engine binary.
func WithBinary(binary string) Option {
	return func(c *Client) {
		if binary != "" {
			c.binary = binary
		}
	}
}

// WithProxy routes extractor traffic through the given proxy URL.
func WithProxy(address string) Option {
	return func(c *Client) {
		c.proxy = strings.TrimSpace(address)
	}
}

// WithCookies forwards a Netscape-format cookies file to the extractor.
func WithCookies(path string) Option {
	return func(c *Client) {
		c.cookies = strings.TrimSpace(path)
	}
}

// WithTimeout bounds a single extractor invocation.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 {
			c.timeout = timeout
		}
	}
}

// NewClient constructs a Client using defaults.
func NewClient(opts ...Option) *Client {
	client := &Client{binary: "ytprobe", timeout: 2 * time.Minute}
	for _, opt := range opts {
		opt(client)
	}
	return client
}

// Probe resolves a query or URL to full metadata with categorized formats.
func (c *Client) Probe(ctx context.Context, query string) (*Response, error) {
	target, err := resolveTarget(query, 1)
	if err != nil {
		return nil, err
	}

	output, err := c.run(ctx, "--dump-single-json", "--no-warnings", "--no-playlist", target)
	if err != nil {
		return nil, err
	}

	var raw rawResponse
	if err := json.Unmarshal(output, &raw); err != nil {
		return nil, fmt.Errorf("parse engine response: %w", err)
	}
	// Search dumps wrap the hit in a one-entry playlist.
	if len(raw.Entries) > 0 {
		raw = raw.Entries[0]
	}

	response := shapeResponse(raw)
	if len(response.allFormats()) == 0 {
		label := response.Metadata.Title
		if label == "" {
			label = query
		}
		return nil, fmt.Errorf("%w for %q", ErrNoFormats, label)
	}
	return response, nil
}

// Search returns up to limit flat entries for a search query.
func (c *Client) Search(ctx context.Context, query string, limit int) ([]Entry, error) {
	if strings.TrimSpace(query) == "" {
		return nil, errors.New("search query is empty")
	}
	if limit <= 0 {
		limit = 10
	}
	target := "ytsearch" + strconv.Itoa(limit) + ":" + strings.TrimSpace(query)

	output, err := c.run(ctx, "--flat-playlist", "--dump-single-json", "--no-warnings", target)
	if err != nil {
		return nil, err
	}

	var listing flatListing
	if err := json.Unmarshal(output, &listing); err != nil {
		return nil, fmt.Errorf("parse search listing: %w", err)
	}
	return listing.entries(), nil
}

// Playlist returns flat metadata for every entry in a playlist URL.
func (c *Client) Playlist(ctx context.Context, playlistURL string) (*Playlist, error) {
	if !isURL(playlistURL) {
		return nil, fmt.Errorf("playlist target %q is not a URL", playlistURL)
	}

	output, err := c.run(ctx, "--flat-playlist", "--dump-single-json", "--no-warnings", playlistURL)
	if err != nil {
		return nil, err
	}

	var listing flatListing
	if err := json.Unmarshal(output, &listing); err != nil {
		return nil, fmt.Errorf("parse playlist listing: %w", err)
	}
	return &Playlist{
		ID:      listing.ID,
		Title:   listing.Title,
		Channel: listing.Channel,
		Entries: listing.entries(),
	}, nil
}

// Version reports the engine's version string.
func (c *Client) Version(ctx context.Context) (string, error) {
	output, err := c.run(ctx, "--version")
	if err != nil {
		return "", err
	}
	return rebrand(strings.TrimSpace(string(output))), nil
}

func (c *Client) run(ctx context.Context, args ...string) ([]byte, error) {
	runCtx := ctx
	if c.timeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	full := make([]string, 0, len(args)+4)
	if c.proxy != "" {
		full = append(full, "--proxy", c.proxy)
	}
	if c.cookies != "" {
		full = append(full, "--cookies", c.cookies)
	}
	full = append(full, args...)

	cmd := commandContext(runCtx, c.binary, full...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		switch {
		case errors.Is(runCtx.Err(), context.DeadlineExceeded):
			return nil, fmt.Errorf("engine request timed out: %w", runCtx.Err())
		case runCtx.Err() != nil:
			return nil, fmt.Errorf("engine request cancelled: %w", runCtx.Err())
		}
		detail := rebrand(strings.TrimSpace(stderr.String()))
		if detail == "" {
			return nil, fmt.Errorf("engine run: %w", err)
		}
		return nil, fmt.Errorf("engine run: %w: %s", err, detail)
	}
	return stdout.Bytes(), nil
}

// rebrand applies the yt-dlx naming to surfaced engine output. Parsed JSON
// payloads are never rewritten.
func rebrand(text string) string {
	return brandPattern.ReplaceAllString(text, "yt-dlx")
}

// resolveTarget passes URLs through untouched and turns anything else into a
// search target for the first n hits.
func resolveTarget(query string, n int) (string, error) {
	trimmed := strings.TrimSpace(query)
	if trimmed == "" {
		return "", errors.New("query is empty")
	}
	if isURL(trimmed) {
		return trimmed, nil
	}
	return "ytsearch" + strconv.Itoa(n) + ":" + trimmed, nil
}

func isURL(value string) bool {
	parsed, err := url.Parse(strings.TrimSpace(value))
	if err != nil {
		return false
	}
	return (parsed.Scheme == "http" || parsed.Scheme == "https") && parsed.Host != ""
}
