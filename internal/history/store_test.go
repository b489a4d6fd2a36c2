package history_test

import (
	"context"
	"testing"
	"time"

	"ytdlx/internal/history"
	"ytdlx/internal/testsupport"
)

func TestRecordAndList(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	first, err := store.Record(ctx, history.Entry{
		Query:      "https://example.com/watch?v=abc",
		Operation:  "audio-highest",
		Title:      "First Track",
		OutputPath: "/tmp/first.m4a",
		SizeBytes:  1024,
		Status:     history.StatusSucceeded,
		FinishedAt: time.Now().UTC().Add(-time.Minute),
	})
	if err != nil {
		t.Fatalf("record first: %v", err)
	}
	if first.ID == "" {
		t.Fatal("expected generated entry ID")
	}

	second, err := store.Record(ctx, history.Entry{
		Query:     "lofi hip hop",
		Operation: "video-highest",
		Title:     "Second Track",
		Status:    history.StatusFailed,
		Error:     "no formats available",
	})
	if err != nil {
		t.Fatalf("record second: %v", err)
	}

	entries, err := store.List(ctx, 10)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	if entries[0].ID != second.ID {
		t.Fatalf("expected newest entry first, got %q", entries[0].Title)
	}
	if entries[1].ID != first.ID {
		t.Fatalf("expected oldest entry last, got %q", entries[1].Title)
	}
	if entries[0].Status != history.StatusFailed || entries[0].Error == "" {
		t.Fatalf("failure details lost: %+v", entries[0])
	}
}

func TestRecordRejectsUnknownStatus(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)

	_, err := store.Record(context.Background(), history.Entry{
		Query:     "something",
		Operation: "audio-highest",
		Status:    "pending",
	})
	if err == nil {
		t.Fatal("expected status validation error")
	}
}

func TestRecordPrunesToMaxEntries(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithHistoryLimit(3))
	store := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	base := time.Now().UTC().Add(-time.Hour)
	for i := 0; i < 5; i++ {
		_, err := store.Record(ctx, history.Entry{
			Query:      "query",
			Operation:  "audio-highest",
			Title:      string(rune('A' + i)),
			Status:     history.StatusSucceeded,
			FinishedAt: base.Add(time.Duration(i) * time.Minute),
		})
		if err != nil {
			t.Fatalf("record %d: %v", i, err)
		}
	}

	entries, err := store.List(ctx, 10)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("expected prune to 3 entries, got %d", len(entries))
	}
	if entries[0].Title != "E" || entries[2].Title != "C" {
		t.Fatalf("expected newest three retained, got %q..%q", entries[0].Title, entries[2].Title)
	}
}

func TestClear(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		if _, err := store.Record(ctx, history.Entry{
			Query:     "query",
			Operation: "audio-highest",
			Status:    history.StatusSucceeded,
		}); err != nil {
			t.Fatalf("record: %v", err)
		}
	}

	removed, err := store.Clear(ctx)
	if err != nil {
		t.Fatalf("clear: %v", err)
	}
	if removed != 2 {
		t.Fatalf("expected 2 removed, got %d", removed)
	}

	entries, err := store.List(ctx, 10)
	if err != nil {
		t.Fatalf("list after clear: %v", err)
	}
	if len(entries) != 0 {
		t.Fatalf("expected empty history, got %d entries", len(entries))
	}
}

func TestOpenRefusesSecondProcess(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	testsupport.MustOpenStore(t, cfg)

	if _, err := history.Open(cfg); err == nil {
		t.Fatal("expected lock contention error")
	} else if err != history.ErrLocked {
		t.Fatalf("expected ErrLocked, got %v", err)
	}
}
