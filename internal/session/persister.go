package session

import (
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/ytget/social-client/internal/logging"
	"github.com/ytget/social-client/internal/model"
	"github.com/ytget/social-client/internal/store"
)

// Persister mirrors authentication changes into durable storage. Storage is
// touched only when IsAuthenticated flips, or when a new identity replaces the
// current one while signed in; every other transition is ignored.
type Persister struct {
	durable *DurableStore
	log     *logrus.Entry

	mu           sync.Mutex
	last         bool
	lastIdentity model.Identity
}

// NewPersister creates a persister writing to durable
func NewPersister(durable *DurableStore, log *logrus.Entry) *Persister {
	return &Persister{durable: durable, log: logging.OrDiscard(log)}
}

// Attach starts following st. The current authentication flag is taken as
// already persisted. The returned function detaches.
func (p *Persister) Attach(st store.Observable) func() {
	current := st.CurrentState()

	p.mu.Lock()
	p.last = current.IsAuthenticated
	if current.Identity != nil {
		p.lastIdentity = *current.Identity
	}
	p.mu.Unlock()

	return st.Subscribe(p.observe)
}

func (p *Persister) observe(s model.State) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if s.IsAuthenticated == p.last {
		if !s.IsAuthenticated || *s.Identity == p.lastIdentity {
			return
		}
	}
	p.last = s.IsAuthenticated

	if !s.IsAuthenticated {
		p.lastIdentity = model.Identity{}
		p.durable.Clear()
		p.log.Info("session cleared from durable storage")
		return
	}

	p.lastIdentity = *s.Identity
	if err := p.durable.Persist(*s.Identity); err != nil {
		// never leave an earlier session behind for Restore to bring back
		p.durable.Clear()
		p.log.WithError(err).Error("failed to persist session, durable storage cleared")
		return
	}
	p.log.WithField("user", s.Identity.DisplayName).Info("session persisted")
}
