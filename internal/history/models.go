package history

import "time"

// Status values for history entries.
const (
	StatusSucceeded = "succeeded"
	StatusFailed    = "failed"
)

// Entry is one recorded download operation.
type Entry struct {
	ID              string
	Query           string
	Operation       string
	Title           string
	OutputPath      string
	FormatNote      string
	SizeBytes       int64
	DurationSeconds float64
	Status          string
	Error           string
	StartedAt       time.Time
	FinishedAt      time.Time
}
