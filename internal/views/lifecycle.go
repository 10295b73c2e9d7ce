package views

import (
	"sync"

	"github.com/ytget/social-client/internal/fetch"
)

// lifecycle tracks a view's in-flight fetches and its change listener.
//
// Every begin opens a generation and every end closes it. Fetch callbacks
// apply their results through deliver with the generation they were started
// in, so once end returns nothing started before it reaches the view.
type lifecycle struct {
	mu       sync.Mutex
	handles  []fetch.Canceler
	gen      uint64
	active   bool
	onChange func()

	// held while a result is being applied
	deliverMu sync.Mutex
}

// begin cancels earlier fetches and opens a new generation
func (l *lifecycle) begin() uint64 {
	l.mu.Lock()
	handles := l.handles
	l.handles = nil
	l.gen++
	l.active = true
	gen := l.gen
	l.mu.Unlock()

	cancelHandles(handles)
	return gen
}

// end cancels every tracked fetch and closes the generation. A result being
// applied concurrently finishes before end returns; none is applied after.
func (l *lifecycle) end() {
	l.mu.Lock()
	handles := l.handles
	l.handles = nil
	l.gen++
	l.active = false
	l.mu.Unlock()

	cancelHandles(handles)

	// wait out a delivery already under way
	l.deliverMu.Lock()
	defer l.deliverMu.Unlock()
}

// current returns the open generation, if any
func (l *lifecycle) current() (uint64, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.gen, l.active
}

func (l *lifecycle) live(gen uint64) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.active && l.gen == gen
}

// track records h under gen. A handle from a closed generation is cancelled
// on the spot.
func (l *lifecycle) track(gen uint64, h fetch.Canceler) {
	l.mu.Lock()
	if l.active && l.gen == gen {
		l.handles = append(l.handles, h)
		l.mu.Unlock()
		return
	}
	l.mu.Unlock()
	h.Cancel()
}

// deliver runs fn if gen is still open and reports whether it ran. fn must
// not end the view itself.
func (l *lifecycle) deliver(gen uint64, fn func()) bool {
	l.deliverMu.Lock()
	defer l.deliverMu.Unlock()

	if !l.live(gen) {
		return false
	}
	fn()
	return true
}

func cancelHandles(handles []fetch.Canceler) {
	for _, h := range handles {
		h.Cancel()
	}
}

// OnChange registers fn to run after the view's data changes
func (l *lifecycle) OnChange(fn func()) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.onChange = fn
}

func (l *lifecycle) changed() {
	l.mu.Lock()
	fn := l.onChange
	l.mu.Unlock()

	if fn != nil {
		fn()
	}
}
