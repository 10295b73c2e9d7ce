package overlay

import (
	"sync"

	"fyne.io/fyne/v2/data/binding"

	"github.com/ytget/social-client/internal/model"
	"github.com/ytget/social-client/internal/store"
)

// Surface is an overlay's UI. Mount and Unmount are called on visibility
// edges only, never twice in a row.
type Surface interface {
	Mount()
	Unmount()
}

// Coordinator mounts and unmounts the overlay surfaces as the store changes
type Coordinator struct {
	search Surface
	chat   Surface

	searchShown binding.Bool
	chatShown   binding.Bool
	badge       binding.String

	mu            sync.Mutex
	searchMounted bool
	chatMounted   bool
	closed        bool
	unsub         func()
}

// NewCoordinator starts following st. Either surface may be nil.
func NewCoordinator(st store.Observable, search, chat Surface) *Coordinator {
	c := &Coordinator{
		search:      search,
		chat:        chat,
		searchShown: binding.NewBool(),
		chatShown:   binding.NewBool(),
		badge:       binding.NewString(),
	}
	c.apply(st.CurrentState())
	c.unsub = st.Subscribe(c.apply)
	return c
}

// SearchShown is bound to the search overlay's visibility
func (c *Coordinator) SearchShown() binding.Bool { return c.searchShown }

// ChatShown is bound to the chat overlay's visibility
func (c *Coordinator) ChatShown() binding.Bool { return c.chatShown }

// Badge is bound to the unread badge text
func (c *Coordinator) Badge() binding.String { return c.badge }

// Close stops following the store and unmounts whatever is mounted
func (c *Coordinator) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	unsub := c.unsub
	c.mu.Unlock()

	if unsub != nil {
		unsub()
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.searchMounted = setMounted(c.search, c.searchMounted, false)
	c.chatMounted = setMounted(c.chat, c.chatMounted, false)
}

func (c *Coordinator) apply(s model.State) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.searchMounted = setMounted(c.search, c.searchMounted, SearchVisible(s))
	c.chatMounted = setMounted(c.chat, c.chatMounted, ChatVisible(s))
	c.mu.Unlock()

	_ = c.searchShown.Set(SearchVisible(s))
	_ = c.chatShown.Set(ChatVisible(s))
	_ = c.badge.Set(UnreadBadge(s))
}

func setMounted(surface Surface, mounted, want bool) bool {
	if surface == nil || mounted == want {
		return want
	}
	if want {
		surface.Mount()
	} else {
		surface.Unmount()
	}
	return want
}
