package pipeline

import (
	"context"
	"io"
	"log/slog"
	"os"
	"time"

	"ytdlx/internal/config"
	"ytdlx/internal/engine"
	"ytdlx/internal/ffmpeg"
	"ytdlx/internal/fileutil"
	"ytdlx/internal/history"
	"ytdlx/internal/locator"
	"ytdlx/internal/logging"
	"ytdlx/internal/media/ffprobe"
	"ytdlx/internal/progressui"
)

// Options parameterizes a single download operation.
type Options struct {
	// Query is a media URL or free-text search. Required.
	Query string
	// OutputDir overrides the configured download directory.
	OutputDir string
	// Filename overrides the sanitized title as the output file stem.
	Filename string
	// Container overrides the configured output container.
	Container string
	// AudioBitrateKbps caps the audio bitrate for the custom audio selectors.
	AudioBitrateKbps int
	// Resolution names the wanted video height ("720p") for custom selectors.
	Resolution string
	// AudioFilter and VideoFilter name built-in filter presets.
	AudioFilter string
	VideoFilter string
	// Stream sends muxed media to the writer instead of a file.
	Stream io.Writer
}

// Result summarizes a finished download.
type Result struct {
	Query           string
	Operation       string
	Title           string
	OutputPath      string
	Container       string
	FormatNote      string
	SizeBytes       int64
	DurationSeconds float64
	Streamed        bool
	Elapsed         time.Duration
}

// Progress receives transcode updates for one download.
type Progress interface {
	Start()
	Update(ffmpeg.ProgressUpdate)
	Finish(error)
}

// Pipeline wires the locator, extractor engine, transcoder, and history store
// into the download operations the CLI and library expose.
type Pipeline struct {
	cfg         *config.Config
	logger      *slog.Logger
	store       *history.Store
	newProgress func(label string) Progress

	resolveTools func(ctx context.Context) (locator.Toolset, error)
	probe        func(ctx context.Context, enginePath, query string) (*engine.Response, error)
	transcode    func(ctx context.Context, ffmpegPath string, job ffmpeg.Job, update func(ffmpeg.ProgressUpdate)) error
	inspect      func(ctx context.Context, ffprobePath, path string) (ffprobe.Result, error)
	freeSpace    func(dir string) (uint64, error)
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithHistory records finished operations in the given store.
func WithHistory(store *history.Store) Option {
	return func(p *Pipeline) {
		p.store = store
	}
}

// WithProgress overrides the progress reporter factory.
func WithProgress(factory func(label string) Progress) Option {
	return func(p *Pipeline) {
		if factory != nil {
			p.newProgress = factory
		}
	}
}

// New constructs a Pipeline over the given configuration.
func New(cfg *config.Config, logger *slog.Logger, opts ...Option) *Pipeline {
	if logger == nil {
		logger = logging.NewNop()
	}
	p := &Pipeline{
		cfg:    cfg,
		logger: logging.WithComponent(logger, "pipeline"),
		newProgress: func(label string) Progress {
			return progressui.New(os.Stderr, label)
		},
	}
	p.resolveTools = p.defaultResolveTools
	p.probe = p.defaultProbe
	p.transcode = defaultTranscode
	p.inspect = ffprobe.Inspect
	p.freeSpace = fileutil.FreeSpace
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func (p *Pipeline) defaultResolveTools(ctx context.Context) (locator.Toolset, error) {
	loc := locator.New(locator.WithOverrides(locator.Overrides{
		Engine:  p.cfg.Tools.Engine,
		FFmpeg:  p.cfg.Tools.FFmpeg,
		FFprobe: p.cfg.Tools.FFprobe,
		Tor:     p.cfg.Tools.Tor,
	}))
	if timeout := p.cfg.Tools.LocateTimeout; timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, time.Duration(timeout)*time.Second)
		defer cancel()
	}
	return loc.Resolve(ctx)
}

func (p *Pipeline) engineClient(binary string) *engine.Client {
	opts := []engine.Option{engine.WithBinary(binary)}
	if p.cfg.Engine.ProxyEnabled {
		opts = append(opts, engine.WithProxy(p.cfg.Engine.ProxyAddress))
	}
	if p.cfg.Engine.CookiesFile != "" {
		opts = append(opts, engine.WithCookies(p.cfg.Engine.CookiesFile))
	}
	if p.cfg.Engine.RequestTimeout > 0 {
		opts = append(opts, engine.WithTimeout(time.Duration(p.cfg.Engine.RequestTimeout)*time.Second))
	}
	return engine.NewClient(opts...)
}

func (p *Pipeline) defaultProbe(ctx context.Context, enginePath, query string) (*engine.Response, error) {
	return p.engineClient(enginePath).Probe(ctx, query)
}

func defaultTranscode(ctx context.Context, ffmpegPath string, job ffmpeg.Job, update func(ffmpeg.ProgressUpdate)) error {
	return ffmpeg.NewClient(ffmpeg.WithBinary(ffmpegPath)).Run(ctx, job, update)
}
