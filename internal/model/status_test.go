package model

import "testing"

func TestFetchStatus_IsActive(t *testing.T) {
	tests := []struct {
		status   FetchStatus
		expected bool
	}{
		{FetchStatusPending, true},
		{FetchStatusLoading, true},
		{FetchStatusCompleted, false},
		{FetchStatusNotFound, false},
		{FetchStatusCancelled, false},
		{FetchStatusFailed, false},
	}

	for _, test := range tests {
		result := test.status.IsActive()
		if result != test.expected {
			t.Errorf("FetchStatus(%s).IsActive() = %v, expected %v", test.status, result, test.expected)
		}
	}
}

func TestFetchStatus_IsFinished(t *testing.T) {
	tests := []struct {
		status   FetchStatus
		expected bool
	}{
		{FetchStatusPending, false},
		{FetchStatusLoading, false},
		{FetchStatusCompleted, true},
		{FetchStatusNotFound, true},
		{FetchStatusCancelled, true},
		{FetchStatusFailed, true},
	}

	for _, test := range tests {
		result := test.status.IsFinished()
		if result != test.expected {
			t.Errorf("FetchStatus(%s).IsFinished() = %v, expected %v", test.status, result, test.expected)
		}
	}
}

func TestFetchStatus_String(t *testing.T) {
	status := FetchStatusLoading
	expected := "Loading"
	result := status.String()

	if result != expected {
		t.Errorf("FetchStatus.String() = %s, expected %s", result, expected)
	}
}
