package store

import (
	"fmt"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/ytget/social-client/internal/logging"
	"github.com/ytget/social-client/internal/model"
)

// Subscriber receives the snapshot produced by each applied transition
type Subscriber func(model.State)

// Reader exposes the current snapshot
type Reader interface {
	CurrentState() model.State
}

// Dispatcher submits transitions
type Dispatcher interface {
	Dispatch(t Transition) error
}

// ReadDispatcher is what collaborators outside the store hold: a way to read
// snapshots and submit transitions, never a reference into the mutable state.
type ReadDispatcher interface {
	Reader
	Dispatcher
}

// Observable is a Reader that also announces each new snapshot
type Observable interface {
	Reader
	Subscribe(fn Subscriber) func()
}

// Full is the whole surface of a Store
type Full interface {
	Observable
	Dispatcher
}

// Condition decides, against the state a transition would be applied to,
// whether it should be applied
type Condition func(model.State) bool

// GuardedDispatcher submits transitions that only apply while a condition
// still holds
type GuardedDispatcher interface {
	DispatchIf(cond Condition, ts ...Transition) error
}

// Guarded submits both plain and conditional transitions
type Guarded interface {
	Dispatcher
	GuardedDispatcher
}

// Option configures a Store
type Option func(*Store)

// WithLogger sets the logger used for transition diagnostics
func WithLogger(log *logrus.Entry) Option {
	return func(s *Store) {
		s.log = logging.OrDiscard(log)
	}
}

type subscription struct {
	id uint64
	fn Subscriber
}

// batch is one queued dispatch. A nil cond always holds.
type batch struct {
	cond Condition
	ts   []Transition
}

// Store owns the application state.
//
// Transitions are applied one at a time in dispatch order. A Dispatch that
// arrives while another one is still notifying subscribers (from inside a
// subscriber, or from another goroutine) is queued and applied by the
// in-progress call before it returns. The transitions of one DispatchIf are
// applied back to back; queued dispatches run after the whole group.
type Store struct {
	mu          sync.Mutex
	state       model.State
	pending     []batch
	delivering  bool
	subscribers []subscription
	nextID      uint64
	log         *logrus.Entry
}

// New creates a store seeded with initial
func New(initial model.State, opts ...Option) *Store {
	s := &Store{
		state: initial.Clone(),
		log:   logging.Discard(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CurrentState returns a snapshot of the current state
func (s *Store) CurrentState() model.State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Clone()
}

// Dispatch applies t and notifies subscribers with the resulting snapshot.
// Unknown transition kinds are rejected with ErrInvalidTransition and leave
// the state untouched.
//
// If another Dispatch is notifying subscribers at the time, t is only queued
// and Dispatch returns before it is applied; the in-progress call applies it.
// A CurrentState read right after such a Dispatch may not reflect t yet.
// Callers that must act on the state t produces should use DispatchIf or a
// subscriber instead of reading back.
func (s *Store) Dispatch(t Transition) error {
	return s.enqueue(batch{ts: []Transition{t}})
}

// DispatchIf applies ts in order, with nothing interleaved, if cond holds for
// the state the first of them would be applied to. Otherwise none of them is
// applied. The check happens under the same lock as the first reduction, so
// no other dispatch can land between the two.
func (s *Store) DispatchIf(cond Condition, ts ...Transition) error {
	if cond == nil {
		cond = func(model.State) bool { return true }
	}
	return s.enqueue(batch{cond: cond, ts: ts})
}

func (s *Store) enqueue(b batch) error {
	for _, t := range b.ts {
		if !t.Kind.Valid() {
			s.log.WithField("kind", t.Kind.String()).Error("rejected unknown transition")
			return fmt.Errorf("%w: %s", ErrInvalidTransition, t.Kind)
		}
	}
	if len(b.ts) == 0 {
		return nil
	}

	s.mu.Lock()
	s.pending = append(s.pending, b)
	if s.delivering {
		s.mu.Unlock()
		return nil
	}
	s.delivering = true
	s.mu.Unlock()

	s.drain()
	return nil
}

// Subscribe registers fn and returns a function that removes it. Subscribers
// are notified in registration order.
func (s *Store) Subscribe(fn Subscriber) func() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextID++
	id := s.nextID
	s.subscribers = append(s.subscribers, subscription{id: id, fn: fn})

	var once sync.Once
	return func() {
		once.Do(func() { s.unsubscribe(id) })
	}
}

func (s *Store) unsubscribe(id uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, sub := range s.subscribers {
		if sub.id == id {
			s.subscribers = append(s.subscribers[:i:i], s.subscribers[i+1:]...)
			return
		}
	}
}

// drain applies queued batches until none are left
func (s *Store) drain() {
	defer func() {
		if r := recover(); r != nil {
			s.mu.Lock()
			s.delivering = false
			s.mu.Unlock()
			panic(r)
		}
	}()

	for {
		s.mu.Lock()
		if len(s.pending) == 0 {
			s.delivering = false
			s.mu.Unlock()
			return
		}

		b := s.pending[0]
		s.pending = s.pending[1:]

		if b.cond != nil && !b.cond(s.state.Clone()) {
			s.mu.Unlock()
			s.log.WithField("transition", b.ts[0].String()).Debug("condition no longer holds, skipped")
			continue
		}

		for i, t := range b.ts {
			if i > 0 {
				s.mu.Lock()
			}
			s.apply(t)
		}
	}
}

// apply reduces t into the state and notifies subscribers. Called with s.mu
// held; returns with it released.
func (s *Store) apply(t Transition) {
	next, err := Reduce(s.state, t)
	if err != nil {
		s.mu.Unlock()
		s.log.WithError(err).Error("dropped queued transition")
		return
	}
	s.state = next

	subs := make([]Subscriber, len(s.subscribers))
	for i, sub := range s.subscribers {
		subs[i] = sub.fn
	}
	s.mu.Unlock()

	s.log.WithField("transition", t.String()).Debug("applied transition")

	for _, fn := range subs {
		fn(next.Clone())
	}
}
