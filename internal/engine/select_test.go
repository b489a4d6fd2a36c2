package engine

import (
	"errors"
	"strings"
	"testing"
)

var audioPool = []Format{
	{ID: "139", ABR: 48},
	{ID: "140", ABR: 128},
	{ID: "251", ABR: 160},
}

var videoPool = []Format{
	{ID: "160", Height: 144, TBR: 100},
	{ID: "136", Height: 720, TBR: 2200},
	{ID: "137", Height: 1080, TBR: 4400},
	{ID: "137-hi", Height: 1080, TBR: 5200},
}

func TestHighestAudio(t *testing.T) {
	format, err := HighestAudio(audioPool)
	if err != nil {
		t.Fatalf("HighestAudio: %v", err)
	}
	if format.ID != "251" {
		t.Fatalf("expected 251, got %q", format.ID)
	}
}

func TestLowestAudio(t *testing.T) {
	format, err := LowestAudio(audioPool)
	if err != nil {
		t.Fatalf("LowestAudio: %v", err)
	}
	if format.ID != "139" {
		t.Fatalf("expected 139, got %q", format.ID)
	}
}

func TestCustomAudioCeiling(t *testing.T) {
	format, err := CustomAudio(audioPool, 130)
	if err != nil {
		t.Fatalf("CustomAudio: %v", err)
	}
	if format.ID != "140" {
		t.Fatalf("expected 140 under 130kbps ceiling, got %q", format.ID)
	}
}

func TestCustomAudioBelowEverything(t *testing.T) {
	format, err := CustomAudio(audioPool, 10)
	if err != nil {
		t.Fatalf("CustomAudio: %v", err)
	}
	if format.ID != "139" {
		t.Fatalf("expected lowest fallback, got %q", format.ID)
	}
}

func TestCustomAudioEmpty(t *testing.T) {
	if _, err := CustomAudio(nil, 128); !errors.Is(err, ErrNoFormats) {
		t.Fatalf("expected ErrNoFormats, got %v", err)
	}
}

func TestHighestVideoPrefersResolutionThenBitrate(t *testing.T) {
	format, err := HighestVideo(videoPool)
	if err != nil {
		t.Fatalf("HighestVideo: %v", err)
	}
	if format.ID != "137-hi" {
		t.Fatalf("expected 137-hi, got %q", format.ID)
	}
}

func TestLowestVideo(t *testing.T) {
	format, err := LowestVideo(videoPool)
	if err != nil {
		t.Fatalf("LowestVideo: %v", err)
	}
	if format.ID != "160" {
		t.Fatalf("expected 160, got %q", format.ID)
	}
}

func TestCustomVideoMatch(t *testing.T) {
	format, err := CustomVideo(videoPool, "720p")
	if err != nil {
		t.Fatalf("CustomVideo: %v", err)
	}
	if format.ID != "136" {
		t.Fatalf("expected 136, got %q", format.ID)
	}
}

func TestCustomVideoMissListsHeights(t *testing.T) {
	_, err := CustomVideo(videoPool, "480p")
	if err == nil {
		t.Fatal("expected error for unavailable resolution")
	}
	for _, label := range []string{"144p", "720p", "1080p"} {
		if !strings.Contains(err.Error(), label) {
			t.Fatalf("expected %s in error, got %v", label, err)
		}
	}
}

func TestCustomVideoInvalidLabel(t *testing.T) {
	if _, err := CustomVideo(videoPool, "720"); err == nil {
		t.Fatal("expected error for malformed resolution")
	}
}

func TestParseResolution(t *testing.T) {
	height, err := ParseResolution("1080P")
	if err != nil {
		t.Fatalf("ParseResolution: %v", err)
	}
	if height != 1080 {
		t.Fatalf("expected 1080, got %d", height)
	}
	if _, err := ParseResolution("4k"); err == nil {
		t.Fatal("expected error for 4k label")
	}
}
