package ffmpeg

import (
	"strings"
	"testing"
)

func TestAudioFilterLookup(t *testing.T) {
	expression, err := AudioFilter("nightcore")
	if err != nil {
		t.Fatalf("AudioFilter: %v", err)
	}
	if !strings.Contains(expression, "asetrate") {
		t.Fatalf("unexpected nightcore expression %q", expression)
	}
}

func TestAudioFilterUnknownListsNames(t *testing.T) {
	_, err := AudioFilter("dubstep")
	if err == nil {
		t.Fatal("expected error for unknown filter")
	}
	if !strings.Contains(err.Error(), "bassboost") || !strings.Contains(err.Error(), "vibrato") {
		t.Fatalf("expected valid names in error, got %v", err)
	}
}

func TestVideoFilterLookup(t *testing.T) {
	expression, err := VideoFilter("rotate270")
	if err != nil {
		t.Fatalf("VideoFilter: %v", err)
	}
	if expression != "transpose=2" {
		t.Fatalf("unexpected rotate270 expression %q", expression)
	}
}

func TestVideoFilterUnknown(t *testing.T) {
	if _, err := VideoFilter("sepia"); err == nil {
		t.Fatal("expected error for unknown video filter")
	}
}

func TestFilterNamesSorted(t *testing.T) {
	names := AudioFilterNames()
	if len(names) != len(audioFilters) {
		t.Fatalf("expected %d names, got %d", len(audioFilters), len(names))
	}
	for i := 1; i < len(names); i++ {
		if names[i-1] >= names[i] {
			t.Fatalf("names not sorted: %v", names)
		}
	}
}
