// Package ytdlx downloads audio and video from media sites by driving an
// external extractor engine and FFmpeg. The zero-configuration entry point is
// New followed by one of the download methods; everything is configurable
// through ~/.config/ytdlx/config.toml or a Config supplied by the caller.
package ytdlx

import (
	"context"
	"errors"
	"io"
	"log/slog"

	"ytdlx/internal/config"
	"ytdlx/internal/engine"
	"ytdlx/internal/history"
	"ytdlx/internal/locator"
	"ytdlx/internal/logging"
	"ytdlx/internal/pipeline"
)

// Options parameterizes a single download. See pipeline.Options.
type Options = pipeline.Options

// Result summarizes a finished download.
type Result = pipeline.Result

// Metadata, Format, Response, Entry, and Playlist mirror the extractor types.
type (
	Metadata = engine.Metadata
	Format   = engine.Format
	Response = engine.Response
	Entry    = engine.Entry
	Playlist = engine.Playlist
)

// Client is the library entry point. A Client is safe for sequential use;
// open one per process so the history store's lock is uncontended.
type Client struct {
	cfg      *config.Config
	logger   *slog.Logger
	store    *history.Store
	pipeline *pipeline.Pipeline
}

// Option configures a Client.
type Option func(*clientOptions)

type clientOptions struct {
	cfg        *config.Config
	configPath string
	logger     *slog.Logger
	progress   func(label string) pipeline.Progress
}

// WithConfig uses the given configuration instead of loading one from disk.
func WithConfig(cfg *config.Config) Option {
	return func(o *clientOptions) {
		o.cfg = cfg
	}
}

// WithConfigPath loads configuration from an explicit file.
func WithConfigPath(path string) Option {
	return func(o *clientOptions) {
		o.configPath = path
	}
}

// WithLogger routes client logging through the given logger. The default
// client logs nothing.
func WithLogger(logger *slog.Logger) Option {
	return func(o *clientOptions) {
		o.logger = logger
	}
}

// WithProgress overrides the progress reporter factory.
func WithProgress(factory func(label string) pipeline.Progress) Option {
	return func(o *clientOptions) {
		o.progress = factory
	}
}

// New constructs a Client. Without options the configuration is loaded from
// the default locations and history recording is enabled when configured.
func New(opts ...Option) (*Client, error) {
	var options clientOptions
	for _, opt := range opts {
		opt(&options)
	}

	cfg := options.cfg
	if cfg == nil {
		loaded, _, _, err := config.Load(options.configPath)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	logger := options.logger
	if logger == nil {
		logger = logging.NewNop()
	}

	client := &Client{cfg: cfg, logger: logger}

	pipelineOpts := make([]pipeline.Option, 0, 2)
	if cfg.History.Enabled {
		store, err := history.Open(cfg)
		switch {
		case err == nil:
			client.store = store
			pipelineOpts = append(pipelineOpts, pipeline.WithHistory(store))
		case errors.Is(err, history.ErrLocked):
			logger.Warn("history store locked, continuing without history")
		default:
			return nil, err
		}
	}
	if options.progress != nil {
		pipelineOpts = append(pipelineOpts, pipeline.WithProgress(options.progress))
	}

	client.pipeline = pipeline.New(cfg, logger, pipelineOpts...)
	return client, nil
}

// Close releases the history store.
func (c *Client) Close() error {
	if c.store != nil {
		return c.store.Close()
	}
	return nil
}

// Config returns the active configuration.
func (c *Client) Config() *config.Config {
	return c.cfg
}

// History returns the open history store, or nil when history is disabled.
func (c *Client) History() *history.Store {
	return c.store
}

// AudioHighest downloads the best available audio-only stream.
func (c *Client) AudioHighest(ctx context.Context, opts Options) (*Result, error) {
	return c.pipeline.AudioHighest(ctx, opts)
}

// AudioLowest downloads the smallest available audio-only stream.
func (c *Client) AudioLowest(ctx context.Context, opts Options) (*Result, error) {
	return c.pipeline.AudioLowest(ctx, opts)
}

// AudioCustom downloads the best audio stream within opts.AudioBitrateKbps.
func (c *Client) AudioCustom(ctx context.Context, opts Options) (*Result, error) {
	return c.pipeline.AudioCustom(ctx, opts)
}

// VideoHighest downloads the best available video stream without audio.
func (c *Client) VideoHighest(ctx context.Context, opts Options) (*Result, error) {
	return c.pipeline.VideoHighest(ctx, opts)
}

// VideoLowest downloads the smallest available video stream without audio.
func (c *Client) VideoLowest(ctx context.Context, opts Options) (*Result, error) {
	return c.pipeline.VideoLowest(ctx, opts)
}

// VideoCustom downloads the video stream matching opts.Resolution.
func (c *Client) VideoCustom(ctx context.Context, opts Options) (*Result, error) {
	return c.pipeline.VideoCustom(ctx, opts)
}

// AudioVideoHighest downloads and merges the best video and audio streams.
func (c *Client) AudioVideoHighest(ctx context.Context, opts Options) (*Result, error) {
	return c.pipeline.AudioVideoHighest(ctx, opts)
}

// AudioVideoLowest downloads and merges the smallest video and audio streams.
func (c *Client) AudioVideoLowest(ctx context.Context, opts Options) (*Result, error) {
	return c.pipeline.AudioVideoLowest(ctx, opts)
}

// AudioVideoCustom downloads opts.Resolution merged with the best audio.
func (c *Client) AudioVideoCustom(ctx context.Context, opts Options) (*Result, error) {
	return c.pipeline.AudioVideoCustom(ctx, opts)
}

// Probe resolves a query or URL to metadata and categorized formats without
// downloading anything.
func (c *Client) Probe(ctx context.Context, query string) (*Response, error) {
	return c.pipeline.MetadataOnly(ctx, query)
}

// Search returns up to limit flat entries for a free-text query. A limit of
// zero uses the configured default.
func (c *Client) Search(ctx context.Context, query string, limit int) ([]Entry, error) {
	return c.pipeline.Search(ctx, query, limit)
}

// Playlist returns flat metadata for every entry in a playlist URL.
func (c *Client) Playlist(ctx context.Context, playlistURL string) (*Playlist, error) {
	return c.pipeline.Playlist(ctx, playlistURL)
}

// StreamAudioHighest streams the best audio to w instead of a file.
func (c *Client) StreamAudioHighest(ctx context.Context, query string, w io.Writer) (*Result, error) {
	return c.pipeline.AudioHighest(ctx, Options{Query: query, Stream: w})
}

// StreamVideoHighest streams the best merged audio and video to w.
func (c *Client) StreamVideoHighest(ctx context.Context, query string, w io.Writer) (*Result, error) {
	return c.pipeline.AudioVideoHighest(ctx, Options{Query: query, Stream: w})
}

// EngineVersion reports the extractor engine's version string.
func (c *Client) EngineVersion(ctx context.Context) (string, error) {
	tools, err := c.LocateTools(ctx)
	if err != nil {
		return "", err
	}
	return engine.NewClient(engine.WithBinary(tools.Engine.Path)).Version(ctx)
}

// LocateTools reports where every external executable was found.
func (c *Client) LocateTools(ctx context.Context) (locator.Toolset, error) {
	loc := locator.New(locator.WithOverrides(locator.Overrides{
		Engine:  c.cfg.Tools.Engine,
		FFmpeg:  c.cfg.Tools.FFmpeg,
		FFprobe: c.cfg.Tools.FFprobe,
		Tor:     c.cfg.Tools.Tor,
	}))
	return loc.Resolve(ctx)
}
