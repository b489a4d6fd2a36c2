package engine

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

var resolutionPattern = regexp.MustCompile(`^(\d{3,4})p$`)

// HighestAudio picks the best audio format by bitrate.
func HighestAudio(formats []Format) (Format, error) {
	return pickAudio(formats, func(best, candidate Format) bool {
		return candidate.Bitrate() > best.Bitrate()
	})
}

// LowestAudio picks the smallest audio format by bitrate.
func LowestAudio(formats []Format) (Format, error) {
	return pickAudio(formats, func(best, candidate Format) bool {
		return candidate.Bitrate() < best.Bitrate()
	})
}

// CustomAudio picks the best audio format at or below the given kbps ceiling,
// or the lowest available when everything exceeds it.
func CustomAudio(formats []Format, maxKbps int) (Format, error) {
	if len(formats) == 0 {
		return Format{}, fmt.Errorf("%w: no audio formats", ErrNoFormats)
	}
	if maxKbps <= 0 {
		return HighestAudio(formats)
	}

	var best Format
	found := false
	for _, format := range formats {
		if format.Bitrate() > float64(maxKbps) {
			continue
		}
		if !found || format.Bitrate() > best.Bitrate() {
			best = format
			found = true
		}
	}
	if found {
		return best, nil
	}
	return LowestAudio(formats)
}

// HighestVideo picks the best video format by resolution, then bitrate.
func HighestVideo(formats []Format) (Format, error) {
	return pickVideo(formats, func(best, candidate Format) bool {
		if candidate.Height != best.Height {
			return candidate.Height > best.Height
		}
		return candidate.Bitrate() > best.Bitrate()
	})
}

// LowestVideo picks the smallest video format by resolution, then bitrate.
func LowestVideo(formats []Format) (Format, error) {
	return pickVideo(formats, func(best, candidate Format) bool {
		if candidate.Height != best.Height {
			return candidate.Height < best.Height
		}
		return candidate.Bitrate() < best.Bitrate()
	})
}

// CustomVideo picks the best format whose height matches a resolution label
// such as "720p". A miss lists the heights that are available.
func CustomVideo(formats []Format, resolution string) (Format, error) {
	if len(formats) == 0 {
		return Format{}, fmt.Errorf("%w: no video formats", ErrNoFormats)
	}

	height, err := ParseResolution(resolution)
	if err != nil {
		return Format{}, err
	}

	matches := make([]Format, 0, len(formats))
	for _, format := range formats {
		if format.Height == height {
			matches = append(matches, format)
		}
	}
	if len(matches) == 0 {
		return Format{}, fmt.Errorf("no %s video format available (available: %s)", resolution, availableHeights(formats))
	}
	return HighestVideo(matches)
}

// ParseResolution converts a "720p" style label into a pixel height.
func ParseResolution(resolution string) (int, error) {
	match := resolutionPattern.FindStringSubmatch(strings.ToLower(strings.TrimSpace(resolution)))
	if match == nil {
		return 0, fmt.Errorf("resolution %q is invalid (expected e.g. 480p, 720p, 1080p)", resolution)
	}
	height, err := strconv.Atoi(match[1])
	if err != nil {
		return 0, fmt.Errorf("resolution %q is invalid: %w", resolution, err)
	}
	return height, nil
}

func availableHeights(formats []Format) string {
	seen := make(map[int]struct{}, len(formats))
	heights := make([]int, 0, len(formats))
	for _, format := range formats {
		if format.Height <= 0 {
			continue
		}
		if _, ok := seen[format.Height]; ok {
			continue
		}
		seen[format.Height] = struct{}{}
		heights = append(heights, format.Height)
	}
	sort.Ints(heights)
	labels := make([]string, 0, len(heights))
	for _, height := range heights {
		labels = append(labels, strconv.Itoa(height)+"p")
	}
	if len(labels) == 0 {
		return "none"
	}
	return strings.Join(labels, ", ")
}

func pickAudio(formats []Format, better func(best, candidate Format) bool) (Format, error) {
	if len(formats) == 0 {
		return Format{}, fmt.Errorf("%w: no audio formats", ErrNoFormats)
	}
	best := formats[0]
	for _, candidate := range formats[1:] {
		if better(best, candidate) {
			best = candidate
		}
	}
	return best, nil
}

func pickVideo(formats []Format, better func(best, candidate Format) bool) (Format, error) {
	if len(formats) == 0 {
		return Format{}, fmt.Errorf("%w: no video formats", ErrNoFormats)
	}
	best := formats[0]
	for _, candidate := range formats[1:] {
		if better(best, candidate) {
			best = candidate
		}
	}
	return best, nil
}
