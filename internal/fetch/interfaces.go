package fetch

import (
	"github.com/ytget/social-client/internal/model"
)

// Tracker defines the task bookkeeping side of the fetch service.
type Tracker interface {
	SetUpdateCallback(func(*model.FetchTask))
	GetTask(id string) (*model.FetchTask, bool)
	GetAllTasks() []*model.FetchTask
	CancelTask(id string) error
	CancelAll()

	// Prune forgets finished tasks and returns how many were removed
	Prune() int
}

// Canceler is the part of a Handle owners keep for teardown
type Canceler interface {
	Cancel()
}
