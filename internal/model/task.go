package model

import (
	"fmt"
	"time"
)

// FetchTask represents a single cancellable request issued on behalf of a view
type FetchTask struct {
	ID         string
	Name       string // what is being fetched, e.g. "home-feed"
	Status     FetchStatus
	LastError  string    // last error message if any
	StartedAt  time.Time // when the request was issued
	FinishedAt time.Time // when the task reached a terminal status
}

// Elapsed returns how long the task ran, or has been running so far
func (ft *FetchTask) Elapsed(now time.Time) time.Duration {
	if ft.StartedAt.IsZero() {
		return 0
	}
	if !ft.FinishedAt.IsZero() {
		return ft.FinishedAt.Sub(ft.StartedAt)
	}
	return now.Sub(ft.StartedAt)
}

// GetElapsedString returns elapsed time as mm:ss.mmm, or "—" if not started
func (ft *FetchTask) GetElapsedString(now time.Time) string {
	d := ft.Elapsed(now)
	if d <= 0 {
		return "—"
	}

	minutes := int(d / time.Minute)
	seconds := int((d % time.Minute) / time.Second)
	millis := int((d % time.Second) / time.Millisecond)
	return fmt.Sprintf("%02d:%02d.%03d", minutes, seconds, millis)
}

// GetDisplayName returns the task name, falling back to the ID
func (ft *FetchTask) GetDisplayName() string {
	if ft.Name != "" {
		return ft.Name
	}
	return ft.ID
}
