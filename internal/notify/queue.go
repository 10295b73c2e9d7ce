// Package notify turns the store's append-only notice list into what the
// user actually sees: notices disappear after a while or when dismissed,
// without the store's history ever being rewritten.
package notify

import (
	"sync"
	"time"

	"fyne.io/fyne/v2/data/binding"
	"github.com/sirupsen/logrus"

	"github.com/ytget/social-client/internal/logging"
	"github.com/ytget/social-client/internal/model"
	"github.com/ytget/social-client/internal/store"
)

// DefaultTTL is how long a notice stays visible
const DefaultTTL = 5 * time.Second

// VisibleNotice is a notice still on screen. Index is its position in the
// store's notice list and is what Dismiss takes.
type VisibleNotice struct {
	Index int
	Text  string
}

// Option configures a Queue
type Option func(*Queue)

// WithTTL sets the auto-dismiss delay; 0 keeps notices until dismissed
func WithTTL(ttl time.Duration) Option {
	return func(q *Queue) {
		if ttl < 0 {
			ttl = 0
		}
		q.ttl = ttl
	}
}

// WithLogger sets the queue's logger
func WithLogger(log *logrus.Entry) Option {
	return func(q *Queue) {
		q.log = logging.OrDiscard(log)
	}
}

// Queue is the notification queue
type Queue struct {
	st   store.Full
	ttl  time.Duration
	log  *logrus.Entry
	list binding.StringList

	mu        sync.Mutex
	notices   []model.Notice
	dismissed map[int]bool
	timers    map[int]*time.Timer
	closed    bool
	unsub     func()
}

// NewQueue creates a queue following st. Notices already in st are shown too.
func NewQueue(st store.Full, opts ...Option) *Queue {
	q := &Queue{
		st:        st,
		ttl:       DefaultTTL,
		log:       logging.Discard(),
		list:      binding.NewStringList(),
		dismissed: make(map[int]bool),
		timers:    make(map[int]*time.Timer),
	}
	for _, opt := range opts {
		opt(q)
	}

	q.observe(st.CurrentState())
	q.unsub = st.Subscribe(q.observe)
	return q
}

// Push submits a notice
func (q *Queue) Push(text string) error {
	return q.st.Dispatch(store.PushNotice(text))
}

// Visible returns undismissed notices, oldest first
func (q *Queue) Visible() []VisibleNotice {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.visibleLocked()
}

// Dismiss hides the notice at index. Unknown or already dismissed indexes are
// ignored.
func (q *Queue) Dismiss(index int) {
	q.mu.Lock()
	if index < 0 || index >= len(q.notices) || q.dismissed[index] {
		q.mu.Unlock()
		return
	}
	q.dismissed[index] = true
	if t, ok := q.timers[index]; ok {
		t.Stop()
		delete(q.timers, index)
	}
	texts := q.textsLocked()
	q.mu.Unlock()

	q.publish(texts)
}

// Binding returns the visible notice texts as a Fyne list binding
func (q *Queue) Binding() binding.StringList {
	return q.list
}

// Close stops following the store and cancels pending timers
func (q *Queue) Close() {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return
	}
	q.closed = true
	for i, t := range q.timers {
		t.Stop()
		delete(q.timers, i)
	}
	unsub := q.unsub
	q.mu.Unlock()

	if unsub != nil {
		unsub()
	}
}

func (q *Queue) observe(s model.State) {
	q.mu.Lock()
	if q.closed || len(s.Notices) == len(q.notices) {
		q.mu.Unlock()
		return
	}

	for i := len(q.notices); i < len(s.Notices); i++ {
		q.log.WithField("notice", s.Notices[i].Text).Debug("notice queued")
		if q.ttl > 0 {
			index := i
			q.timers[index] = time.AfterFunc(q.ttl, func() { q.Dismiss(index) })
		}
	}
	q.notices = s.Notices
	texts := q.textsLocked()
	q.mu.Unlock()

	q.publish(texts)
}

func (q *Queue) visibleLocked() []VisibleNotice {
	var out []VisibleNotice
	for i, n := range q.notices {
		if !q.dismissed[i] {
			out = append(out, VisibleNotice{Index: i, Text: n.Text})
		}
	}
	return out
}

func (q *Queue) textsLocked() []string {
	texts := make([]string, 0, len(q.notices))
	for _, v := range q.visibleLocked() {
		texts = append(texts, v.Text)
	}
	return texts
}

func (q *Queue) publish(texts []string) {
	if err := q.list.Set(texts); err != nil {
		q.log.WithError(err).Warn("failed to update notice binding")
	}
}
