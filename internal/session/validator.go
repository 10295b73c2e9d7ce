package session

import (
	"context"
	"errors"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/ytget/social-client/internal/fetch"
	"github.com/ytget/social-client/internal/logging"
	"github.com/ytget/social-client/internal/model"
	"github.com/ytget/social-client/internal/store"
)

// SessionExpiredNotice is shown when the backend rejects a restored token
const SessionExpiredNotice = "Your session has expired. Please log in again."

// ErrStaleSession is the validator's negative verdict
var ErrStaleSession = errors.New("session: token rejected by backend")

// TokenChecker asks the remote authority whether a token is still valid
type TokenChecker interface {
	CheckToken(ctx context.Context, token string) (bool, error)
}

// SessionStore is the part of the store the validator reads and writes
type SessionStore interface {
	store.Reader
	store.GuardedDispatcher
}

// Validator confirms a restored session once per application lifetime
type Validator struct {
	checker TokenChecker
	store   SessionStore
	runner  *fetch.Service
	log     *logrus.Entry
	once    sync.Once
}

// NewValidator creates a validator
func NewValidator(checker TokenChecker, st SessionStore, runner *fetch.Service, log *logrus.Entry) *Validator {
	return &Validator{
		checker: checker,
		store:   st,
		runner:  runner,
		log:     logging.OrDiscard(log),
	}
}

// Start issues the validation call if the current snapshot is authenticated.
// Only the first call does anything; later calls return nil, as does a first
// call made while signed out. Cancelling the returned handle guarantees no
// transition is dispatched.
func (v *Validator) Start(ctx context.Context) *fetch.Handle {
	var h *fetch.Handle
	v.once.Do(func() {
		s := v.store.CurrentState()
		if !s.IsAuthenticated {
			v.log.Debug("no stored session to validate")
			return
		}

		token := s.Token()
		h = fetch.Go(v.runner, ctx, "check-token",
			func(ctx context.Context) (bool, error) {
				return v.checker.CheckToken(ctx, token)
			},
			func(valid bool, err error) {
				v.finish(token, valid, err)
			})
	})
	return h
}

func (v *Validator) finish(token string, valid bool, err error) {
	if err != nil {
		v.log.WithError(err).Warn("session check failed, keeping session")
		return
	}
	if valid {
		v.log.Debug("stored session is valid")
		return
	}

	// The logout and its notice apply only to the session that was checked.
	// A logout or a new login landing first makes them a no-op.
	stillChecked := func(s model.State) bool {
		return s.IsAuthenticated && s.Token() == token
	}
	v.log.WithError(ErrStaleSession).Info("forcing logout")
	if err := v.store.DispatchIf(stillChecked, store.Logout(), store.PushNotice(SessionExpiredNotice)); err != nil {
		v.log.WithError(err).Error("logout dispatch failed")
	}
}
