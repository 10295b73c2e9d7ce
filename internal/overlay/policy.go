package overlay

import (
	"github.com/ytget/social-client/internal/chat"
	"github.com/ytget/social-client/internal/model"
	"github.com/ytget/social-client/internal/store"
)

// ChatPolicy composes overlay transitions the way the header and the chat
// connection use them. The store applies each transition on its own; the
// follow-ups here are conditioned on the state they land on, never on an
// earlier read.
type ChatPolicy struct {
	st store.Guarded
}

// NewChatPolicy creates a policy dispatching to st
func NewChatPolicy(st store.Guarded) *ChatPolicy {
	return &ChatPolicy{st: st}
}

func chatOpen(s model.State) bool   { return s.IsChatOverlayOpen }
func chatClosed(s model.State) bool { return !s.IsChatOverlayOpen }

// Toggle flips the chat overlay; opening it marks everything read
func (p *ChatPolicy) Toggle() error {
	if err := p.st.Dispatch(store.ToggleChat()); err != nil {
		return err
	}
	return p.st.DispatchIf(chatOpen, store.ClearUnread())
}

// Close closes the chat overlay
func (p *ChatPolicy) Close() error {
	return p.st.Dispatch(store.CloseChat())
}

// Received counts msg as unread unless the chat overlay is open
func (p *ChatPolicy) Received(chat.Message) error {
	return p.st.DispatchIf(chatClosed, store.IncrementUnread())
}

// OpenSearch shows the search overlay
func (p *ChatPolicy) OpenSearch() error {
	return p.st.Dispatch(store.OpenSearch())
}

// CloseSearch hides the search overlay
func (p *ChatPolicy) CloseSearch() error {
	return p.st.Dispatch(store.CloseSearch())
}
