package engine

import (
	"errors"
	"strings"
)

// ErrNoFormats indicates the engine resolved metadata but no usable formats.
var ErrNoFormats = errors.New("engine returned no formats")

// Metadata carries the identity of a resolved video.
type Metadata struct {
	ID          string  `json:"id"`
	Title       string  `json:"title"`
	Channel     string  `json:"channel"`
	Description string  `json:"description"`
	Duration    float64 `json:"duration"`
	UploadDate  string  `json:"upload_date"`
	ViewCount   int64   `json:"view_count"`
	Thumbnail   string  `json:"thumbnail"`
	WebpageURL  string  `json:"webpage_url"`
}

// Format describes a single downloadable stream variant.
type Format struct {
	ID             string  `json:"format_id"`
	Note           string  `json:"format_note"`
	Ext            string  `json:"ext"`
	Resolution     string  `json:"resolution"`
	Width          int     `json:"width"`
	Height         int     `json:"height"`
	FPS            float64 `json:"fps"`
	VCodec         string  `json:"vcodec"`
	ACodec         string  `json:"acodec"`
	ABR            float64 `json:"abr"`
	VBR            float64 `json:"vbr"`
	TBR            float64 `json:"tbr"`
	Filesize       int64   `json:"filesize"`
	FilesizeApprox int64   `json:"filesize_approx"`
	DynamicRange   string  `json:"dynamic_range"`
	Protocol       string  `json:"protocol"`
	URL            string  `json:"url"`
}

// Response is the shaped engine answer: metadata plus categorized formats.
type Response struct {
	Metadata Metadata `json:"metadata"`

	AudioOnly    []Format `json:"audio_only"`
	AudioOnlyDRC []Format `json:"audio_only_drc"`
	VideoOnly    []Format `json:"video_only"`
	VideoOnlyHDR []Format `json:"video_only_hdr"`
	Progressive  []Format `json:"progressive"`
	Manifest     []Format `json:"manifest"`
}

// Entry is one flat search or playlist hit.
type Entry struct {
	ID       string  `json:"id"`
	Title    string  `json:"title"`
	Channel  string  `json:"channel"`
	Duration float64 `json:"duration"`
	URL      string  `json:"url"`
}

// Playlist is the flat dump of a playlist URL.
type Playlist struct {
	ID      string  `json:"id"`
	Title   string  `json:"title"`
	Channel string  `json:"channel"`
	Entries []Entry `json:"entries"`
}

// rawResponse mirrors the engine's single-JSON dump closely enough to shape.
type rawResponse struct {
	Metadata
	Formats []Format      `json:"formats"`
	Entries []rawResponse `json:"entries"`
}

type flatListing struct {
	ID      string `json:"id"`
	Title   string `json:"title"`
	Channel string `json:"channel"`
	Entries []struct {
		ID       string  `json:"id"`
		Title    string  `json:"title"`
		Channel  string  `json:"channel"`
		Uploader string  `json:"uploader"`
		Duration float64 `json:"duration"`
		URL      string  `json:"url"`
	} `json:"entries"`
}

func (l flatListing) entries() []Entry {
	entries := make([]Entry, 0, len(l.Entries))
	for _, raw := range l.Entries {
		channel := raw.Channel
		if channel == "" {
			channel = raw.Uploader
		}
		entries = append(entries, Entry{
			ID:       raw.ID,
			Title:    raw.Title,
			Channel:  channel,
			Duration: raw.Duration,
			URL:      raw.URL,
		})
	}
	return entries
}

// shapeResponse sorts the engine's flat format list into the categorized
// response shape callers select from.
func shapeResponse(raw rawResponse) *Response {
	response := &Response{Metadata: raw.Metadata}
	for _, format := range raw.Formats {
		if format.URL == "" {
			continue
		}
		switch {
		case isManifest(format):
			response.Manifest = append(response.Manifest, format)
		case isAudioOnly(format):
			if isDRC(format) {
				response.AudioOnlyDRC = append(response.AudioOnlyDRC, format)
			} else {
				response.AudioOnly = append(response.AudioOnly, format)
			}
		case isVideoOnly(format):
			if isHDR(format) {
				response.VideoOnlyHDR = append(response.VideoOnlyHDR, format)
			} else {
				response.VideoOnly = append(response.VideoOnly, format)
			}
		case hasAudio(format) && hasVideo(format):
			response.Progressive = append(response.Progressive, format)
		}
	}
	return response
}

func (r *Response) allFormats() []Format {
	total := len(r.AudioOnly) + len(r.AudioOnlyDRC) + len(r.VideoOnly) +
		len(r.VideoOnlyHDR) + len(r.Progressive) + len(r.Manifest)
	all := make([]Format, 0, total)
	all = append(all, r.AudioOnly...)
	all = append(all, r.AudioOnlyDRC...)
	all = append(all, r.VideoOnly...)
	all = append(all, r.VideoOnlyHDR...)
	all = append(all, r.Progressive...)
	all = append(all, r.Manifest...)
	return all
}

// AudioCandidates returns the audio-only pool, falling back to DRC variants
// and then progressive formats when the plain pool is empty.
func (r *Response) AudioCandidates() []Format {
	if len(r.AudioOnly) > 0 {
		return r.AudioOnly
	}
	if len(r.AudioOnlyDRC) > 0 {
		return r.AudioOnlyDRC
	}
	return r.Progressive
}

// VideoCandidates returns the video-only pool, falling back to HDR variants
// and then progressive formats when the plain pool is empty.
func (r *Response) VideoCandidates() []Format {
	if len(r.VideoOnly) > 0 {
		return r.VideoOnly
	}
	if len(r.VideoOnlyHDR) > 0 {
		return r.VideoOnlyHDR
	}
	return r.Progressive
}

// HasAudio reports whether the format carries an audio stream.
func (f Format) HasAudio() bool {
	return f.ACodec != "" && !strings.EqualFold(f.ACodec, "none")
}

// HasVideo reports whether the format carries a video stream.
func (f Format) HasVideo() bool {
	return f.VCodec != "" && !strings.EqualFold(f.VCodec, "none")
}

func hasAudio(f Format) bool { return f.HasAudio() }

func hasVideo(f Format) bool { return f.HasVideo() }

func isAudioOnly(f Format) bool {
	return hasAudio(f) && !hasVideo(f)
}

func isVideoOnly(f Format) bool {
	return hasVideo(f) && !hasAudio(f)
}

func isDRC(f Format) bool {
	return strings.Contains(strings.ToLower(f.ID), "drc") ||
		strings.Contains(strings.ToLower(f.Note), "drc")
}

func isHDR(f Format) bool {
	dr := strings.ToUpper(strings.TrimSpace(f.DynamicRange))
	return dr != "" && dr != "SDR"
}

func isManifest(f Format) bool {
	protocol := strings.ToLower(f.Protocol)
	return strings.Contains(protocol, "m3u8") || strings.Contains(protocol, "dash")
}

// Size returns the best known size for a format, preferring the exact value.
func (f Format) Size() int64 {
	if f.Filesize > 0 {
		return f.Filesize
	}
	return f.FilesizeApprox
}

// Bitrate returns the best known bitrate in kbps for ordering formats.
func (f Format) Bitrate() float64 {
	if f.ABR > 0 {
		return f.ABR
	}
	if f.VBR > 0 {
		return f.VBR
	}
	return f.TBR
}
