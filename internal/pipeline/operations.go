package pipeline

import (
	"context"
	"errors"
	"fmt"

	"ytdlx/internal/engine"
)

// operation couples a history label with the format selection strategy.
type operation struct {
	name   string
	audio  bool
	video  bool
	choose func(response *engine.Response, opts Options) (picked, error)
}

// picked holds the chosen stream variants for one transcode.
type picked struct {
	video *engine.Format
	audio *engine.Format
	note  string
}

// AudioHighest downloads the best available audio-only stream.
func (p *Pipeline) AudioHighest(ctx context.Context, opts Options) (*Result, error) {
	return p.run(ctx, opts, operation{name: "audio-highest", audio: true, choose: pickAudioWith(engine.HighestAudio)})
}

// AudioLowest downloads the smallest available audio-only stream.
func (p *Pipeline) AudioLowest(ctx context.Context, opts Options) (*Result, error) {
	return p.run(ctx, opts, operation{name: "audio-lowest", audio: true, choose: pickAudioWith(engine.LowestAudio)})
}

// AudioCustom downloads the best audio stream within the requested bitrate.
func (p *Pipeline) AudioCustom(ctx context.Context, opts Options) (*Result, error) {
	if opts.AudioBitrateKbps <= 0 {
		return nil, errors.New("custom audio download requires a bitrate cap")
	}
	return p.run(ctx, opts, operation{name: "audio-custom", audio: true, choose: func(response *engine.Response, opts Options) (picked, error) {
		format, err := engine.CustomAudio(response.AudioCandidates(), opts.AudioBitrateKbps)
		if err != nil {
			return picked{}, err
		}
		return picked{audio: &format, note: formatNote(format)}, nil
	}})
}

// VideoHighest downloads the best available video stream without audio.
func (p *Pipeline) VideoHighest(ctx context.Context, opts Options) (*Result, error) {
	return p.run(ctx, opts, operation{name: "video-highest", video: true, choose: pickVideoWith(engine.HighestVideo)})
}

// VideoLowest downloads the smallest available video stream without audio.
func (p *Pipeline) VideoLowest(ctx context.Context, opts Options) (*Result, error) {
	return p.run(ctx, opts, operation{name: "video-lowest", video: true, choose: pickVideoWith(engine.LowestVideo)})
}

// VideoCustom downloads the video stream matching the requested resolution.
func (p *Pipeline) VideoCustom(ctx context.Context, opts Options) (*Result, error) {
	if opts.Resolution == "" {
		return nil, errors.New("custom video download requires a resolution")
	}
	return p.run(ctx, opts, operation{name: "video-custom", video: true, choose: func(response *engine.Response, opts Options) (picked, error) {
		format, err := engine.CustomVideo(response.VideoCandidates(), opts.Resolution)
		if err != nil {
			return picked{}, err
		}
		return picked{video: &format, note: formatNote(format)}, nil
	}})
}

// AudioVideoHighest downloads and merges the best video and audio streams.
func (p *Pipeline) AudioVideoHighest(ctx context.Context, opts Options) (*Result, error) {
	return p.run(ctx, opts, operation{name: "audiovideo-highest", audio: true, video: true, choose: pickMerged(engine.HighestVideo, engine.HighestAudio)})
}

// AudioVideoLowest downloads and merges the smallest video and audio streams.
func (p *Pipeline) AudioVideoLowest(ctx context.Context, opts Options) (*Result, error) {
	return p.run(ctx, opts, operation{name: "audiovideo-lowest", audio: true, video: true, choose: pickMerged(engine.LowestVideo, engine.LowestAudio)})
}

// AudioVideoCustom downloads the requested resolution merged with the best
// audio stream, optionally capped by bitrate.
func (p *Pipeline) AudioVideoCustom(ctx context.Context, opts Options) (*Result, error) {
	if opts.Resolution == "" {
		return nil, errors.New("custom download requires a resolution")
	}
	return p.run(ctx, opts, operation{name: "audiovideo-custom", audio: true, video: true, choose: func(response *engine.Response, opts Options) (picked, error) {
		video, err := engine.CustomVideo(response.VideoCandidates(), opts.Resolution)
		if err != nil {
			return picked{}, err
		}
		if video.HasAudio() {
			return picked{video: &video, note: formatNote(video)}, nil
		}
		audio, err := engine.CustomAudio(response.AudioCandidates(), opts.AudioBitrateKbps)
		if err != nil {
			return picked{}, err
		}
		return picked{video: &video, audio: &audio, note: mergedNote(video, audio)}, nil
	}})
}

// MetadataOnly resolves a query to metadata and categorized formats without
// downloading anything.
func (p *Pipeline) MetadataOnly(ctx context.Context, query string) (*engine.Response, error) {
	tools, err := p.resolveTools(ctx)
	if err != nil {
		return nil, err
	}
	return p.probe(ctx, tools.Engine.Path, query)
}

// Search returns flat entries for a free-text query.
func (p *Pipeline) Search(ctx context.Context, query string, limit int) ([]engine.Entry, error) {
	tools, err := p.resolveTools(ctx)
	if err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = p.cfg.Engine.SearchResults
	}
	return p.engineClient(tools.Engine.Path).Search(ctx, query, limit)
}

// Playlist returns flat metadata for every entry in a playlist URL.
func (p *Pipeline) Playlist(ctx context.Context, playlistURL string) (*engine.Playlist, error) {
	tools, err := p.resolveTools(ctx)
	if err != nil {
		return nil, err
	}
	return p.engineClient(tools.Engine.Path).Playlist(ctx, playlistURL)
}

func pickAudioWith(selector func([]engine.Format) (engine.Format, error)) func(*engine.Response, Options) (picked, error) {
	return func(response *engine.Response, _ Options) (picked, error) {
		format, err := selector(response.AudioCandidates())
		if err != nil {
			return picked{}, err
		}
		return picked{audio: &format, note: formatNote(format)}, nil
	}
}

func pickVideoWith(selector func([]engine.Format) (engine.Format, error)) func(*engine.Response, Options) (picked, error) {
	return func(response *engine.Response, _ Options) (picked, error) {
		format, err := selector(response.VideoCandidates())
		if err != nil {
			return picked{}, err
		}
		return picked{video: &format, note: formatNote(format)}, nil
	}
}

// pickMerged chooses a video stream plus a matching audio stream. When the
// best video candidate already carries audio, a single progressive download
// suffices.
func pickMerged(videoSelector, audioSelector func([]engine.Format) (engine.Format, error)) func(*engine.Response, Options) (picked, error) {
	return func(response *engine.Response, _ Options) (picked, error) {
		video, err := videoSelector(response.VideoCandidates())
		if err != nil {
			return picked{}, err
		}
		if video.HasAudio() {
			return picked{video: &video, note: formatNote(video)}, nil
		}
		audio, err := audioSelector(response.AudioCandidates())
		if err != nil {
			return picked{}, err
		}
		return picked{video: &video, audio: &audio, note: mergedNote(video, audio)}, nil
	}
}

func formatNote(format engine.Format) string {
	if format.Note != "" {
		return format.Note
	}
	return format.ID
}

func mergedNote(video, audio engine.Format) string {
	return fmt.Sprintf("%s + %s", formatNote(video), formatNote(audio))
}
