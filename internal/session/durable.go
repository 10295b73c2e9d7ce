package session

import (
	"errors"
	"sync"

	"github.com/ytget/social-client/internal/model"
)

// Durable storage keys. All three are present together or not at all.
const (
	KeyToken       = "token"
	KeyDisplayName = "displayName"
	KeyAvatarURL   = "avatarUrl"
)

// ErrEmptyToken is returned when persisting an identity without a token
var ErrEmptyToken = errors.New("session: identity has no token")

// KeyValueStore is a flat string key/value store. fyne.Preferences satisfies it.
type KeyValueStore interface {
	String(key string) string
	SetString(key string, value string)
	RemoveValue(key string)
}

// DurableStore persists the session identity.
//
// The token key acts as the commit marker: it is written last and removed
// first, and Load reports nothing unless it is present, so a reader never
// sees a half-written identity.
type DurableStore struct {
	mu sync.Mutex
	kv KeyValueStore
}

// NewDurableStore wraps kv
func NewDurableStore(kv KeyValueStore) *DurableStore {
	return &DurableStore{kv: kv}
}

// Persist writes identity's three fields
func (d *DurableStore) Persist(identity model.Identity) error {
	if identity.Token == "" {
		return ErrEmptyToken
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	d.kv.SetString(KeyAvatarURL, identity.AvatarURL)
	d.kv.SetString(KeyDisplayName, identity.DisplayName)
	d.kv.SetString(KeyToken, identity.Token)
	return nil
}

// Clear removes all three keys
func (d *DurableStore) Clear() {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.kv.RemoveValue(KeyToken)
	d.kv.RemoveValue(KeyDisplayName)
	d.kv.RemoveValue(KeyAvatarURL)
}

// Load returns the stored identity, if any
func (d *DurableStore) Load() (model.Identity, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()

	token := d.kv.String(KeyToken)
	if token == "" {
		return model.Identity{}, false
	}
	return model.Identity{
		Token:       token,
		DisplayName: d.kv.String(KeyDisplayName),
		AvatarURL:   d.kv.String(KeyAvatarURL),
	}, true
}

// Restore builds the startup state from durable storage: authenticated with
// the stored identity when one exists, anonymous otherwise.
func Restore(d *DurableStore) model.State {
	identity, ok := d.Load()
	if !ok {
		return model.State{}
	}
	return model.State{IsAuthenticated: true, Identity: &identity}
}
