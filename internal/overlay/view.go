// Package overlay decides when the search and chat overlays are shown and
// keeps their surfaces mounted accordingly. Everything here is a function of
// the current snapshot.
package overlay

import (
	"strconv"

	"github.com/ytget/social-client/internal/model"
)

// MaxBadgeCount is the largest unread count shown as a number
const MaxBadgeCount = 9

// SearchVisible reports whether the search overlay is shown
func SearchVisible(s model.State) bool {
	return s.IsSearchOverlayOpen
}

// ChatAvailable reports whether chat can be used at all
func ChatAvailable(s model.State) bool {
	return s.IsAuthenticated
}

// ChatVisible reports whether the chat overlay is shown. An open flag left
// over from a previous session does not show chat to a signed-out user.
func ChatVisible(s model.State) bool {
	return s.IsAuthenticated && s.IsChatOverlayOpen
}

// UnreadBadge is the text of the unread chat badge; empty hides the badge
func UnreadBadge(s model.State) string {
	switch {
	case s.UnreadChatCount <= 0:
		return ""
	case s.UnreadChatCount > MaxBadgeCount:
		return strconv.Itoa(MaxBadgeCount) + "+"
	default:
		return strconv.Itoa(s.UnreadChatCount)
	}
}
