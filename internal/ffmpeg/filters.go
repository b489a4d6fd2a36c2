package ffmpeg

import (
	"fmt"
	"sort"
	"strings"
)

// audioFilters maps user-facing filter names to ffmpeg -af expressions.
var audioFilters = map[string]string{
	"bassboost":  "bass=g=10,dynaudnorm",
	"echo":       "aecho=0.8:0.9:1000:0.3",
	"flanger":    "flanger",
	"nightcore":  "aresample=48000,asetrate=48000*1.25",
	"panning":    "apulsator=hz=0.08",
	"phaser":     "aphaser=in_gain=0.4",
	"reverse":    "areverse",
	"slow":       "atempo=0.8",
	"speed":      "atempo=2",
	"subboost":   "asubboost",
	"superslow":  "atempo=0.5",
	"superspeed": "atempo=3",
	"surround":   "surround",
	"vaporwave":  "aresample=48000,asetrate=48000*0.8",
	"vibrato":    "vibrato=f=6.5",
}

// videoFilters maps user-facing filter names to ffmpeg -vf expressions.
var videoFilters = map[string]string{
	"flipHorizontal": "hflip",
	"flipVertical":   "vflip",
	"grayscale":      "colorchannelmixer=.3:.4:.3:0:.3:.4:.3:0:.3:.4:.3",
	"invert":         "negate",
	"rotate90":       "transpose=1",
	"rotate180":      "transpose=1,transpose=1",
	"rotate270":      "transpose=2",
}

// AudioFilter resolves a named audio filter to its ffmpeg expression.
func AudioFilter(name string) (string, error) {
	expression, ok := audioFilters[strings.TrimSpace(name)]
	if !ok {
		return "", fmt.Errorf("unknown audio filter %q (valid: %s)", name, strings.Join(AudioFilterNames(), ", "))
	}
	return expression, nil
}

// VideoFilter resolves a named video filter to its ffmpeg expression.
func VideoFilter(name string) (string, error) {
	expression, ok := videoFilters[strings.TrimSpace(name)]
	if !ok {
		return "", fmt.Errorf("unknown video filter %q (valid: %s)", name, strings.Join(VideoFilterNames(), ", "))
	}
	return expression, nil
}

// AudioFilterNames lists the available audio filter names sorted.
func AudioFilterNames() []string {
	return sortedKeys(audioFilters)
}

// VideoFilterNames lists the available video filter names sorted.
func VideoFilterNames() []string {
	return sortedKeys(videoFilters)
}

func sortedKeys(filters map[string]string) []string {
	names := make([]string, 0, len(filters))
	for name := range filters {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
