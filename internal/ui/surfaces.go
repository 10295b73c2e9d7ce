package ui

import (
	"context"
	"strconv"
	"sync"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/data/binding"
	"fyne.io/fyne/v2/widget"
	"github.com/sirupsen/logrus"

	"github.com/ytget/social-client/internal/chat"
	"github.com/ytget/social-client/internal/logging"
	"github.com/ytget/social-client/internal/model"
	"github.com/ytget/social-client/internal/overlay"
	"github.com/ytget/social-client/internal/views"
)

// SearchOverlay is the full-window search surface
type SearchOverlay struct {
	ctx    context.Context
	window fyne.Window
	view   *views.Search
	policy *overlay.ChatPolicy
	nav    views.Navigator
	log    *logrus.Entry

	mu      sync.Mutex
	results []model.Post

	popup  *widget.PopUp
	entry  *widget.Entry
	status *widget.Label
	list   *widget.List
}

// NewSearchOverlay creates the search surface
func NewSearchOverlay(ctx context.Context, window fyne.Window, view *views.Search, policy *overlay.ChatPolicy,
	nav views.Navigator, log *logrus.Entry) *SearchOverlay {
	s := &SearchOverlay{
		ctx:    ctx,
		window: window,
		view:   view,
		policy: policy,
		nav:    nav,
		log:    logging.OrDiscard(log),
	}
	view.OnChange(func() { fyne.Do(s.refresh) })
	return s
}

// Mount shows the overlay
func (s *SearchOverlay) Mount() {
	fyne.Do(func() {
		if s.popup == nil {
			s.build()
		}
		s.entry.SetText("")
		s.status.SetText("")
		s.popup.Resize(s.window.Canvas().Size())
		s.popup.Show()
		s.window.Canvas().Focus(s.entry)
	})
}

// Unmount hides the overlay and drops any search in flight
func (s *SearchOverlay) Unmount() {
	s.view.Unmount()
	fyne.Do(func() {
		if s.popup != nil {
			s.popup.Hide()
		}
	})
}

func (s *SearchOverlay) build() {
	s.entry = widget.NewEntry()
	s.entry.SetPlaceHolder("What are you interested in?")
	s.entry.OnChanged = func(text string) {
		s.view.Query(s.ctx, text)
		s.refresh()
	}

	s.status = widget.NewLabel("")
	s.list = widget.NewList(
		func() int {
			s.mu.Lock()
			defer s.mu.Unlock()
			return len(s.results)
		},
		func() fyne.CanvasObject { return widget.NewButton("", nil) },
		func(id widget.ListItemID, obj fyne.CanvasObject) {
			s.mu.Lock()
			if id >= len(s.results) {
				s.mu.Unlock()
				return
			}
			post := s.results[id]
			s.mu.Unlock()

			btn := obj.(*widget.Button)
			btn.SetText(post.Title + MiddleDotSeparator + post.Author.Username + MiddleDotSeparator + post.FormattedDate())
			btn.OnTapped = func() {
				if err := s.policy.CloseSearch(); err != nil {
					s.log.WithError(err).Error("close search failed")
				}
				s.nav.Navigate("/post/" + post.ID)
			}
		},
	)

	closeBtn := widget.NewButton(IconClose, func() {
		if err := s.policy.CloseSearch(); err != nil {
			s.log.WithError(err).Error("close search failed")
		}
	})
	top := container.NewBorder(nil, s.status, widget.NewLabel(IconSearch), closeBtn, s.entry)
	s.popup = widget.NewModalPopUp(container.NewBorder(top, nil, nil, nil, s.list), s.window.Canvas())
}

func (s *SearchOverlay) refresh() {
	results := s.view.Results()
	s.mu.Lock()
	s.results = results
	s.mu.Unlock()

	if s.status == nil {
		return
	}
	switch {
	case s.view.Loading():
		s.status.SetText(TextLoading)
	case s.entry.Text != "" && len(results) == 0:
		s.status.SetText("Sorry, we could not find any results for that search.")
	case len(results) > 0:
		s.status.SetText(searchSummary(len(results)))
	default:
		s.status.SetText("")
	}
	s.list.Refresh()
}

func searchSummary(n int) string {
	if n == 1 {
		return "1 item found"
	}
	return strconv.Itoa(n) + " items found"
}

// ChatOverlay is the chat window docked in the corner
type ChatOverlay struct {
	ctx    context.Context
	window fyne.Window
	mgr    *chat.Manager
	policy *overlay.ChatPolicy
	name   func() string
	log    *logrus.Entry

	lines binding.StringList

	popup *widget.PopUp
	entry *widget.Entry
}

// NewChatOverlay creates the chat surface; name returns the signed-in user
func NewChatOverlay(ctx context.Context, window fyne.Window, mgr *chat.Manager, policy *overlay.ChatPolicy,
	name func() string, log *logrus.Entry) *ChatOverlay {
	return &ChatOverlay{
		ctx:    ctx,
		window: window,
		mgr:    mgr,
		policy: policy,
		name:   name,
		log:    logging.OrDiscard(log),
		lines:  binding.NewStringList(),
	}
}

// Received records an incoming message in the log
func (c *ChatOverlay) Received(msg chat.Message) {
	if err := c.lines.Append(chatLine(msg.Username, msg.Body)); err != nil {
		c.log.WithError(err).Warn("chat log update failed")
	}
}

// Mount shows the chat window
func (c *ChatOverlay) Mount() {
	fyne.Do(func() {
		if c.popup == nil {
			c.build()
		}
		canvasSize := c.window.Canvas().Size()
		c.popup.Resize(fyne.NewSize(OverlayWidth, OverlayHeight))
		c.popup.ShowAtPosition(fyne.NewPos(canvasSize.Width-OverlayWidth, canvasSize.Height-OverlayHeight))
		c.window.Canvas().Focus(c.entry)
	})
}

// Unmount hides the chat window
func (c *ChatOverlay) Unmount() {
	fyne.Do(func() {
		if c.popup != nil {
			c.popup.Hide()
		}
	})
}

func (c *ChatOverlay) build() {
	list := widget.NewListWithData(c.lines,
		func() fyne.CanvasObject {
			l := widget.NewLabel("")
			l.Wrapping = fyne.TextWrapWord
			return l
		},
		func(item binding.DataItem, obj fyne.CanvasObject) {
			obj.(*widget.Label).Bind(item.(binding.String))
		},
	)

	c.entry = widget.NewEntry()
	c.entry.SetPlaceHolder("Type a message…")
	c.entry.OnSubmitted = func(text string) {
		c.entry.SetText("")
		go c.send(text)
	}

	closeBtn := widget.NewButton(IconClose, func() {
		if err := c.policy.Close(); err != nil {
			c.log.WithError(err).Error("close chat failed")
		}
	})
	top := container.NewBorder(nil, nil, widget.NewLabel(IconChat+" Chat"), closeBtn)
	c.popup = widget.NewPopUp(container.NewBorder(top, c.entry, nil, nil, list), c.window.Canvas())
}

func (c *ChatOverlay) send(text string) {
	if err := c.mgr.Send(c.ctx, text); err != nil {
		c.log.WithError(err).Warn("chat send failed")
		return
	}
	if err := c.lines.Append(chatLine(c.name(), text)); err != nil {
		c.log.WithError(err).Warn("chat log update failed")
	}
}

func chatLine(user, body string) string {
	return user + ": " + body
}

var (
	_ overlay.Surface = (*SearchOverlay)(nil)
	_ overlay.Surface = (*ChatOverlay)(nil)
)
