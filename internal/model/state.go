package model

// Identity is the authenticated user's session as returned by the login call.
// DisplayName doubles as the username used in profile routes.
type Identity struct {
	Token       string `json:"token"`
	DisplayName string `json:"username"`
	AvatarURL   string `json:"avatar"`
}

// Notice is a user-visible message queued for display
type Notice struct {
	Text string `json:"text"`
}

// State is a snapshot of the application state.
//
// Identity is non-nil if and only if IsAuthenticated is true. Notices only
// ever grows; entries are never rewritten.
type State struct {
	IsAuthenticated     bool      `json:"is_authenticated"`
	Identity            *Identity `json:"identity,omitempty"`
	Notices             []Notice  `json:"notices"`
	IsSearchOverlayOpen bool      `json:"is_search_overlay_open"`
	IsChatOverlayOpen   bool      `json:"is_chat_overlay_open"`
	UnreadChatCount     int       `json:"unread_chat_count"`
}

// Clone returns a copy that shares no memory with s
func (s State) Clone() State {
	out := s
	if s.Identity != nil {
		id := *s.Identity
		out.Identity = &id
	}
	if s.Notices != nil {
		out.Notices = make([]Notice, len(s.Notices))
		copy(out.Notices, s.Notices)
	}
	return out
}

// Token returns the session token, or "" when unauthenticated
func (s State) Token() string {
	if s.Identity == nil {
		return ""
	}
	return s.Identity.Token
}

// DisplayName returns the signed-in user's name, or "" when unauthenticated
func (s State) DisplayName() string {
	if s.Identity == nil {
		return ""
	}
	return s.Identity.DisplayName
}

// Consistent reports whether the snapshot satisfies the state invariants
func (s State) Consistent() bool {
	if s.IsAuthenticated != (s.Identity != nil) {
		return false
	}
	return s.UnreadChatCount >= 0
}
