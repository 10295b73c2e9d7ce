package fetch

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/ytget/social-client/internal/logging"
	"github.com/ytget/social-client/internal/model"
)

// TaskIDPrefix prefixes every generated task ID
const TaskIDPrefix = "fetch-"

// Service tracks and runs cancellable fetch tasks
type Service struct {
	tasks      map[string]*model.FetchTask
	handles    map[string]*Handle
	tasksMutex sync.RWMutex
	onUpdate   func(*model.FetchTask) // callback for UI updates
	log        *logrus.Entry
}

// NewService creates a new fetch service
func NewService(log *logrus.Entry) *Service {
	return &Service{
		tasks:   make(map[string]*model.FetchTask),
		handles: make(map[string]*Handle),
		log:     logging.OrDiscard(log),
	}
}

var _ Tracker = (*Service)(nil)

// Handle is the cancellation handle of one task
type Handle struct {
	id        string
	mu        sync.Mutex
	cancelled bool
	delivered bool
	cancel    context.CancelFunc
	done      chan struct{}
}

// ID returns the task ID
func (h *Handle) ID() string {
	if h == nil {
		return ""
	}
	return h.id
}

// Cancel aborts the task. Once Cancel returns the completion callback will
// not run, unless it had already started; owners that need a hard cutoff
// also gate what the callback does (see the views' lifecycle). Safe to call
// more than once and on a nil handle.
func (h *Handle) Cancel() {
	if h == nil {
		return
	}
	h.mu.Lock()
	if h.delivered {
		h.mu.Unlock()
		return
	}
	h.cancelled = true
	h.mu.Unlock()
	h.cancel()
}

// Cancelled reports whether Cancel won the race against completion
func (h *Handle) Cancelled() bool {
	if h == nil {
		return false
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.cancelled
}

// Done is closed when the task goroutine exits
func (h *Handle) Done() <-chan struct{} {
	return h.done
}

// claim marks the result as delivered unless the task was cancelled first
func (h *Handle) claim(ctx context.Context) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.cancelled || ctx.Err() != nil {
		h.cancelled = true
		return false
	}
	h.delivered = true
	return true
}

// Go runs do on its own goroutine and hands the outcome to done, unless the
// returned handle is cancelled (or parent is done) before do returns. done
// may be nil.
func Go[T any](s *Service, parent context.Context, name string, do func(context.Context) (T, error), done func(T, error)) *Handle {
	ctx, cancel := context.WithCancel(parent)

	task := &model.FetchTask{
		ID:        generateTaskID(),
		Name:      name,
		Status:    model.FetchStatusPending,
		StartedAt: time.Now(),
	}
	h := &Handle{
		id:     task.ID,
		cancel: cancel,
		done:   make(chan struct{}),
	}

	s.tasksMutex.Lock()
	s.tasks[task.ID] = task
	s.handles[task.ID] = h
	s.tasksMutex.Unlock()
	s.notifyUpdate(task)

	go func() {
		defer close(h.done)
		defer cancel()

		s.setStatus(task, model.FetchStatusLoading, nil)

		result, err := do(ctx)

		if !h.claim(ctx) {
			s.setStatus(task, model.FetchStatusCancelled, nil)
			s.log.WithField("task", task.GetDisplayName()).Debug("fetch cancelled, result dropped")
			return
		}

		status := statusFor(err)
		s.setStatus(task, status, err)
		if status == model.FetchStatusFailed {
			s.log.WithError(err).WithField("task", task.GetDisplayName()).Warn("fetch failed")
		}

		if done != nil {
			done(result, err)
		}
	}()

	return h
}

func statusFor(err error) model.FetchStatus {
	switch {
	case err == nil:
		return model.FetchStatusCompleted
	case errors.Is(err, model.ErrNotFound):
		return model.FetchStatusNotFound
	case errors.Is(err, context.Canceled):
		return model.FetchStatusCancelled
	default:
		return model.FetchStatusFailed
	}
}

// SetUpdateCallback sets the callback function for task updates
func (s *Service) SetUpdateCallback(callback func(*model.FetchTask)) {
	s.tasksMutex.Lock()
	defer s.tasksMutex.Unlock()
	s.onUpdate = callback
}

// GetTask returns a copy of a task by ID
func (s *Service) GetTask(id string) (*model.FetchTask, bool) {
	s.tasksMutex.RLock()
	defer s.tasksMutex.RUnlock()
	task, exists := s.tasks[id]
	if !exists {
		return nil, false
	}
	cp := *task
	return &cp, true
}

// GetAllTasks returns copies of all tasks
func (s *Service) GetAllTasks() []*model.FetchTask {
	s.tasksMutex.RLock()
	defer s.tasksMutex.RUnlock()

	tasks := make([]*model.FetchTask, 0, len(s.tasks))
	for _, task := range s.tasks {
		cp := *task
		tasks = append(tasks, &cp)
	}
	return tasks
}

// CancelTask cancels a running task by ID
func (s *Service) CancelTask(id string) error {
	s.tasksMutex.RLock()
	task, exists := s.tasks[id]
	h := s.handles[id]
	var status model.FetchStatus
	if exists {
		status = task.Status
	}
	s.tasksMutex.RUnlock()

	if !exists {
		return fmt.Errorf("task not found: %s", id)
	}
	if !status.IsActive() {
		return fmt.Errorf("task is not active: %s", status)
	}

	h.Cancel()
	return nil
}

// CancelAll cancels every active task; used on shutdown
func (s *Service) CancelAll() {
	s.tasksMutex.RLock()
	handles := make([]*Handle, 0, len(s.handles))
	for id, h := range s.handles {
		if s.tasks[id].Status.IsActive() {
			handles = append(handles, h)
		}
	}
	s.tasksMutex.RUnlock()

	for _, h := range handles {
		h.Cancel()
	}
}

// Prune forgets finished tasks
func (s *Service) Prune() int {
	s.tasksMutex.Lock()
	defer s.tasksMutex.Unlock()

	removed := 0
	for id, task := range s.tasks {
		if task.Status.IsFinished() {
			delete(s.tasks, id)
			delete(s.handles, id)
			removed++
		}
	}
	return removed
}

// ActiveCount returns the number of tasks still pending or loading
func (s *Service) ActiveCount() int {
	s.tasksMutex.RLock()
	defer s.tasksMutex.RUnlock()

	count := 0
	for _, task := range s.tasks {
		if task.Status.IsActive() {
			count++
		}
	}
	return count
}

func (s *Service) setStatus(task *model.FetchTask, status model.FetchStatus, err error) {
	s.tasksMutex.Lock()
	task.Status = status
	if err != nil {
		task.LastError = err.Error()
	}
	if status.IsFinished() {
		task.FinishedAt = time.Now()
	}
	s.tasksMutex.Unlock()

	s.notifyUpdate(task)
}

// notifyUpdate calls the update callback, if set, with a copy of the task
func (s *Service) notifyUpdate(task *model.FetchTask) {
	s.tasksMutex.RLock()
	callback := s.onUpdate
	cp := *task
	s.tasksMutex.RUnlock()

	if callback != nil {
		callback(&cp)
	}
}

// generateTaskID generates a unique task ID
func generateTaskID() string {
	return TaskIDPrefix + uuid.NewString()
}
