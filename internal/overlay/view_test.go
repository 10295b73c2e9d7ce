package overlay

import (
	"testing"

	"github.com/ytget/social-client/internal/model"
)

func TestVisibility(t *testing.T) {
	identity := &model.Identity{Token: "t", DisplayName: "alice"}

	tests := []struct {
		name      string
		state     model.State
		search    bool
		available bool
		chatShown bool
	}{
		{"anonymous", model.State{}, false, false, false},
		{"anonymous search", model.State{IsSearchOverlayOpen: true}, true, false, false},
		{"stale chat flag", model.State{IsChatOverlayOpen: true}, false, false, false},
		{"signed in", model.State{IsAuthenticated: true, Identity: identity}, false, true, false},
		{"signed in chat", model.State{IsAuthenticated: true, Identity: identity, IsChatOverlayOpen: true}, false, true, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SearchVisible(tt.state); got != tt.search {
				t.Errorf("SearchVisible() = %v, want %v", got, tt.search)
			}
			if got := ChatAvailable(tt.state); got != tt.available {
				t.Errorf("ChatAvailable() = %v, want %v", got, tt.available)
			}
			if got := ChatVisible(tt.state); got != tt.chatShown {
				t.Errorf("ChatVisible() = %v, want %v", got, tt.chatShown)
			}
		})
	}
}

func TestUnreadBadge(t *testing.T) {
	tests := []struct {
		count int
		want  string
	}{
		{0, ""},
		{1, "1"},
		{9, "9"},
		{10, "9+"},
		{250, "9+"},
	}

	for _, tt := range tests {
		if got := UnreadBadge(model.State{UnreadChatCount: tt.count}); got != tt.want {
			t.Errorf("UnreadBadge(%d) = %q, want %q", tt.count, got, tt.want)
		}
	}
}
