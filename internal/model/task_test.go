package model

import (
	"testing"
	"time"
)

func TestFetchTask_GetElapsedString(t *testing.T) {
	start := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		started  time.Time
		finished time.Time
		now      time.Time
		expected string
	}{
		{"not started", time.Time{}, time.Time{}, start, "—"},
		{"running", start, time.Time{}, start.Add(1500 * time.Millisecond), "00:01.500"},
		{"finished", start, start.Add(90 * time.Second), start.Add(time.Hour), "01:30.000"},
	}

	for _, test := range tests {
		task := &FetchTask{StartedAt: test.started, FinishedAt: test.finished}
		result := task.GetElapsedString(test.now)
		if result != test.expected {
			t.Errorf("%s: GetElapsedString() = %s, expected %s", test.name, result, test.expected)
		}
	}
}

func TestFetchTask_GetDisplayName(t *testing.T) {
	tests := []struct {
		id       string
		name     string
		expected string
	}{
		{"fetch-1", "home-feed", "home-feed"},
		{"fetch-2", "", "fetch-2"},
	}

	for _, test := range tests {
		task := &FetchTask{ID: test.id, Name: test.name}
		result := task.GetDisplayName()
		if result != test.expected {
			t.Errorf("GetDisplayName() with id='%s', name='%s' = '%s', expected '%s'",
				test.id, test.name, result, test.expected)
		}
	}
}
