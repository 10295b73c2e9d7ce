package store

import (
	"fmt"

	"github.com/ytget/social-client/internal/model"
)

// Kind identifies a transition
type Kind int

const (
	KindInvalid Kind = iota
	KindLogin
	KindLogout
	KindPushNotice
	KindOpenSearch
	KindCloseSearch
	KindToggleChat
	KindCloseChat
	KindIncrementUnread
	KindClearUnread
)

// String returns the name of the transition kind
func (k Kind) String() string {
	switch k {
	case KindLogin:
		return "Login"
	case KindLogout:
		return "Logout"
	case KindPushNotice:
		return "PushNotice"
	case KindOpenSearch:
		return "OpenSearch"
	case KindCloseSearch:
		return "CloseSearch"
	case KindToggleChat:
		return "ToggleChat"
	case KindCloseChat:
		return "CloseChat"
	case KindIncrementUnread:
		return "IncrementUnread"
	case KindClearUnread:
		return "ClearUnread"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Valid reports whether k is one of the known transitions
func (k Kind) Valid() bool {
	return k >= KindLogin && k <= KindClearUnread
}

// Transition is a request to change the state. Only the payload field that
// matches Kind is meaningful: Identity for Login, Text for PushNotice.
type Transition struct {
	Kind     Kind
	Identity model.Identity
	Text     string
}

// String renders the transition for logs; tokens are never included
func (t Transition) String() string {
	switch t.Kind {
	case KindLogin:
		return fmt.Sprintf("Login(%s)", t.Identity.DisplayName)
	case KindPushNotice:
		return fmt.Sprintf("PushNotice(%q)", t.Text)
	default:
		return t.Kind.String()
	}
}

// Login marks the session authenticated as identity
func Login(identity model.Identity) Transition {
	return Transition{Kind: KindLogin, Identity: identity}
}

// Logout clears the session identity
func Logout() Transition { return Transition{Kind: KindLogout} }

// PushNotice appends a user-visible notice
func PushNotice(text string) Transition { return Transition{Kind: KindPushNotice, Text: text} }

// OpenSearch shows the search overlay
func OpenSearch() Transition { return Transition{Kind: KindOpenSearch} }

// CloseSearch hides the search overlay
func CloseSearch() Transition { return Transition{Kind: KindCloseSearch} }

// ToggleChat flips the chat overlay visibility
func ToggleChat() Transition { return Transition{Kind: KindToggleChat} }

// CloseChat hides the chat overlay
func CloseChat() Transition { return Transition{Kind: KindCloseChat} }

// IncrementUnread adds one unread chat message
func IncrementUnread() Transition { return Transition{Kind: KindIncrementUnread} }

// ClearUnread resets the unread chat count
func ClearUnread() Transition { return Transition{Kind: KindClearUnread} }
