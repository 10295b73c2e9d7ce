package store

import (
	"errors"
	"fmt"

	"github.com/ytget/social-client/internal/model"
)

// ErrInvalidTransition is returned for a transition kind outside the closed set
var ErrInvalidTransition = errors.New("store: invalid transition")

// Reduce applies t to s and returns the next state. s is not modified and the
// result shares no memory with it. On error the returned state is s.
func Reduce(s model.State, t Transition) (model.State, error) {
	if !t.Kind.Valid() {
		return s, fmt.Errorf("%w: %s", ErrInvalidTransition, t.Kind)
	}

	next := s.Clone()
	switch t.Kind {
	case KindLogin:
		id := t.Identity
		next.IsAuthenticated = true
		next.Identity = &id
	case KindLogout:
		next.IsAuthenticated = false
		next.Identity = nil
	case KindPushNotice:
		next.Notices = append(next.Notices, model.Notice{Text: t.Text})
	case KindOpenSearch:
		next.IsSearchOverlayOpen = true
	case KindCloseSearch:
		next.IsSearchOverlayOpen = false
	case KindToggleChat:
		next.IsChatOverlayOpen = !next.IsChatOverlayOpen
	case KindCloseChat:
		next.IsChatOverlayOpen = false
	case KindIncrementUnread:
		next.UnreadChatCount++
	case KindClearUnread:
		next.UnreadChatCount = 0
	}
	return next, nil
}
