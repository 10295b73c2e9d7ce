package model

// FetchStatus represents the lifecycle of an asynchronous fetch
type FetchStatus string

const (
	// FetchStatusPending means the task is registered but not started
	FetchStatusPending FetchStatus = "Pending"

	// FetchStatusLoading means the request is in flight
	FetchStatusLoading FetchStatus = "Loading"

	// FetchStatusCompleted means a response was received and delivered
	FetchStatusCompleted FetchStatus = "Completed"

	// FetchStatusNotFound means the remote side definitively reported no such resource
	FetchStatusNotFound FetchStatus = "NotFound"

	// FetchStatusCancelled means the owner tore the task down before completion
	FetchStatusCancelled FetchStatus = "Cancelled"

	// FetchStatusFailed means the transport failed
	FetchStatusFailed FetchStatus = "Failed"
)

// String returns the string representation of FetchStatus
func (fs FetchStatus) String() string {
	return string(fs)
}

// IsActive returns true if the task has not finished yet
func (fs FetchStatus) IsActive() bool {
	return fs == FetchStatusPending || fs == FetchStatusLoading
}

// IsFinished returns true if the task reached a terminal state
func (fs FetchStatus) IsFinished() bool {
	return fs == FetchStatusCompleted || fs == FetchStatusNotFound ||
		fs == FetchStatusCancelled || fs == FetchStatusFailed
}
