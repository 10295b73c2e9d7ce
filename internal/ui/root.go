package ui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/data/binding"
	"fyne.io/fyne/v2/widget"
	"github.com/sirupsen/logrus"

	"github.com/ytget/social-client/internal/api"
	"github.com/ytget/social-client/internal/config"
	"github.com/ytget/social-client/internal/fetch"
	"github.com/ytget/social-client/internal/logging"
	"github.com/ytget/social-client/internal/model"
	"github.com/ytget/social-client/internal/notify"
	"github.com/ytget/social-client/internal/overlay"
	"github.com/ytget/social-client/internal/store"
	"github.com/ytget/social-client/internal/views"
)

// Backend is everything the shell asks of the REST API
type Backend interface {
	views.FeedSource
	views.PostSource
	views.ProfileSource
	views.SearchSource
	Login(ctx context.Context, username, password string) (model.Identity, error)
}

// Deps are the services the shell renders and drives
type Deps struct {
	Store    *store.Store
	Backend  Backend
	Runner   *fetch.Service
	Notices  *notify.Queue
	Policy   *overlay.ChatPolicy
	Settings *config.Settings
	Router   *Router // optional; created when nil
	Log      *logrus.Entry
}

// mountable is a view currently on screen
type mountable interface {
	Unmount()
}

// RootUI is the main window's content
type RootUI struct {
	ctx    context.Context
	window fyne.Window
	deps   Deps
	log    *logrus.Entry

	router    *Router
	confirmer *DialogConfirmer
	activity  *ActivityPanel
	coord     *overlay.Coordinator

	header  *fyne.Container
	notices *fyne.Container
	body    *fyne.Container

	chatListener binding.DataListener

	mu       sync.Mutex
	current  mountable
	lastAuth bool
	unsub    func()
}

// NewRootUI builds the window content. search and chat are the overlay
// surfaces; the coordinator mounting them is created here.
func NewRootUI(ctx context.Context, window fyne.Window, deps Deps, search, chatSurface overlay.Surface) *RootUI {
	ui := &RootUI{
		ctx:    ctx,
		window: window,
		deps:   deps,
		log:    logging.OrDiscard(deps.Log),
	}
	ui.router = deps.Router
	if ui.router == nil {
		ui.router = NewRouter(nil)
	}
	ui.router.SetOnChange(func(r Route) { fyne.Do(func() { ui.show(r) }) })
	ui.confirmer = NewDialogConfirmer(window, TextDeleteTitle)
	ui.activity = NewActivityPanel(deps.Runner)
	ui.coord = overlay.NewCoordinator(deps.Store, search, chatSurface)

	ui.setupUI()
	return ui
}

// Router returns the navigator used by the shell and its overlays
func (ui *RootUI) Router() *Router {
	return ui.router
}

// Close unmounts the current view and stops following the store
func (ui *RootUI) Close() {
	ui.mu.Lock()
	unsub := ui.unsub
	ui.unsub = nil
	current := ui.current
	ui.current = nil
	ui.mu.Unlock()

	if unsub != nil {
		unsub()
	}
	if current != nil {
		current.Unmount()
	}
	ui.coord.Close()
}

func (ui *RootUI) setupUI() {
	ui.createMenu()

	ui.header = container.NewVBox()
	ui.notices = container.NewVBox()
	ui.body = container.NewStack()

	ui.deps.Notices.Binding().AddListener(binding.NewDataListener(func() {
		fyne.Do(ui.renderNotices)
	}))

	ui.lastAuth = ui.deps.Store.CurrentState().IsAuthenticated
	ui.unsub = ui.deps.Store.Subscribe(ui.onState)

	ui.renderHeader()
	ui.show(ui.router.Current())

	top := container.NewVBox(ui.header, widget.NewSeparator(), ui.notices)
	ui.window.SetContent(container.NewBorder(top, nil, nil, nil, ui.body))
}

func (ui *RootUI) createMenu() {
	settingsItem := fyne.NewMenuItem("Settings", ui.onShowSettings)
	activityItem := fyne.NewMenuItem("Activity", ui.onShowActivity)
	homeItem := fyne.NewMenuItem("Home", func() { ui.router.Navigate("/") })
	backItem := fyne.NewMenuItem("Back", func() { ui.router.Back() })

	ui.window.SetMainMenu(fyne.NewMainMenu(
		fyne.NewMenu("File", settingsItem, activityItem),
		fyne.NewMenu("Go", homeItem, backItem),
	))
}

// onState runs for every applied transition; only an authentication flip
// changes the shell itself.
func (ui *RootUI) onState(s model.State) {
	ui.mu.Lock()
	flipped := s.IsAuthenticated != ui.lastAuth
	ui.lastAuth = s.IsAuthenticated
	ui.mu.Unlock()

	if !flipped {
		return
	}
	fyne.Do(func() {
		ui.renderHeader()
		if ui.router.Current().Kind == RouteHome {
			ui.show(ui.router.Current())
		}
	})
}

func (ui *RootUI) renderHeader() {
	title := widget.NewButton("ComplexApp", func() { ui.router.Navigate("/") })
	title.Importance = widget.LowImportance

	var right fyne.CanvasObject
	s := ui.deps.Store.CurrentState()
	if s.IsAuthenticated {
		right = ui.loggedInControls(s)
	} else {
		right = ui.loginForm()
	}

	ui.header.Objects = []fyne.CanvasObject{container.NewBorder(nil, nil, title, right)}
	ui.header.Refresh()
}

func (ui *RootUI) loggedInControls(s model.State) fyne.CanvasObject {
	searchBtn := widget.NewButton(IconSearch, func() {
		if err := ui.deps.Policy.OpenSearch(); err != nil {
			ui.log.WithError(err).Error("open search failed")
		}
	})
	chatBtn := widget.NewButton(IconChat, func() {
		if err := ui.deps.Policy.Toggle(); err != nil {
			ui.log.WithError(err).Error("toggle chat failed")
		}
	})
	badge := widget.NewLabelWithData(ui.coord.Badge())
	badge.Importance = widget.DangerImportance

	if ui.chatListener != nil {
		ui.coord.ChatShown().RemoveListener(ui.chatListener)
	}
	ui.chatListener = binding.NewDataListener(func() {
		shown, _ := ui.coord.ChatShown().Get()
		fyne.Do(func() {
			if shown {
				chatBtn.Importance = widget.HighImportance
			} else {
				chatBtn.Importance = widget.MediumImportance
			}
			chatBtn.Refresh()
		})
	})
	ui.coord.ChatShown().AddListener(ui.chatListener)

	name := s.DisplayName()
	profileBtn := widget.NewButton(name, func() { ui.router.Navigate(model.ProfilePath(name)) })
	signOut := widget.NewButton("Sign Out", ui.onLogout)

	return container.NewHBox(searchBtn, container.NewHBox(chatBtn, badge), profileBtn, signOut)
}

func (ui *RootUI) loginForm() fyne.CanvasObject {
	username := widget.NewEntry()
	username.SetPlaceHolder("Username")
	password := widget.NewPasswordEntry()
	password.SetPlaceHolder("Password")

	var signIn *widget.Button
	submit := func() {
		signIn.Disable()
		ui.onLogin(username.Text, password.Text, func() { fyne.Do(signIn.Enable) })
	}
	signIn = widget.NewButton("Sign In", submit)
	password.OnSubmitted = func(string) { submit() }

	fields := container.NewGridWrap(fyne.NewSize(160, username.MinSize().Height), username, password)
	return container.NewHBox(fields, signIn)
}

func (ui *RootUI) onLogin(username, password string, finished func()) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		finished()
		return
	}

	fetch.Go(ui.deps.Runner, ui.ctx, "login",
		func(ctx context.Context) (model.Identity, error) {
			return ui.deps.Backend.Login(ctx, username, password)
		},
		func(identity model.Identity, err error) {
			defer finished()
			switch {
			case errors.Is(err, api.ErrInvalidCredentials):
				ui.push(TextBadCredentials)
			case err != nil:
				ui.log.WithError(err).Warn("login request failed")
			default:
				ui.dispatch(store.Login(identity))
				ui.push(TextLoggedIn)
			}
		})
}

func (ui *RootUI) onLogout() {
	ui.dispatch(store.Logout())
	ui.push(TextLoggedOut)
	ui.router.Navigate("/")
}

func (ui *RootUI) dispatch(t store.Transition) {
	if err := ui.deps.Store.Dispatch(t); err != nil {
		ui.log.WithError(err).WithField("transition", t.String()).Error("dispatch failed")
	}
}

func (ui *RootUI) push(text string) {
	if err := ui.deps.Notices.Push(text); err != nil {
		ui.log.WithError(err).Error("notice failed")
	}
}

func (ui *RootUI) renderNotices() {
	var objs []fyne.CanvasObject
	for _, n := range ui.deps.Notices.Visible() {
		index := n.Index
		btn := widget.NewButton(n.Text+"  "+IconClose, func() { ui.deps.Notices.Dismiss(index) })
		btn.Importance = widget.SuccessImportance
		objs = append(objs, btn)
	}
	ui.notices.Objects = objs
	ui.notices.Refresh()
}

// show swaps the body for route r. Must run on the Fyne main goroutine.
func (ui *RootUI) show(r Route) {
	ui.mu.Lock()
	prev := ui.current
	ui.current = nil
	ui.mu.Unlock()
	if prev != nil {
		prev.Unmount()
	}

	var content fyne.CanvasObject
	var next mountable
	switch r.Kind {
	case RouteHome:
		content, next = ui.homeScreen()
	case RoutePost:
		content, next = ui.postScreen(r.Param)
	case RouteProfile:
		content, next = ui.profileScreen(r.Param, r.Tab)
	default:
		content = centered(TextNotFound, "")
	}

	ui.mu.Lock()
	ui.current = next
	ui.mu.Unlock()

	ui.body.Objects = []fyne.CanvasObject{content}
	ui.body.Refresh()
}

func (ui *RootUI) homeScreen() (fyne.CanvasObject, mountable) {
	s := ui.deps.Store.CurrentState()
	if !s.IsAuthenticated {
		return centered(TextGuestHeading, TextGuestLead), nil
	}

	v := views.NewHomeFeed(ui.deps.Store, ui.deps.Backend, ui.deps.Runner, ui.log.WithField("view", "home"))
	holder := container.NewStack(loadingLabel())
	render := func() {
		switch {
		case v.Loading():
			holder.Objects = []fyne.CanvasObject{loadingLabel()}
		case v.Empty():
			holder.Objects = []fyne.CanvasObject{centered(fmt.Sprintf(TextFeedEmpty, s.DisplayName()), TextFeedEmptyLead)}
		default:
			heading := widget.NewLabelWithStyle(TextFeedHeading, fyne.TextAlignCenter, fyne.TextStyle{Bold: true})
			holder.Objects = []fyne.CanvasObject{container.NewBorder(heading, nil, nil, nil, ui.postList(v.Feed()))}
		}
		holder.Refresh()
	}
	v.OnChange(func() { fyne.Do(render) })
	v.Mount(ui.ctx)
	return holder, v
}

func (ui *RootUI) postScreen(id string) (fyne.CanvasObject, mountable) {
	v := views.NewSinglePost(id, ui.deps.Store, ui.deps.Backend, ui.deps.Runner, ui.confirmer, ui.router,
		ui.log.WithField("view", "post"))
	holder := container.NewStack(loadingLabel())
	render := func() {
		if v.NotFound() {
			holder.Objects = []fyne.CanvasObject{centered(TextNotFound, "")}
			holder.Refresh()
			return
		}
		post, ok := v.Post()
		if !ok {
			return
		}

		title := widget.NewLabelWithStyle(post.Title, fyne.TextAlignLeading, fyne.TextStyle{Bold: true})
		author := widget.NewButton("Posted by "+post.Author.Username+" on "+post.FormattedDate(), func() {
			ui.router.Navigate(post.ProfilePath())
		})
		author.Importance = widget.LowImportance
		body := widget.NewLabel(post.Body)
		body.Wrapping = fyne.TextWrapWord

		top := container.NewVBox(title, author)
		if v.IsOwner() {
			del := widget.NewButton("Delete", func() {
				go func() {
					if err := v.Delete(ui.ctx); err != nil {
						ui.log.WithError(err).Warn("delete post failed")
					}
				}()
			})
			del.Importance = widget.DangerImportance
			top = container.NewVBox(container.NewBorder(nil, nil, nil, del, title), author)
		}
		holder.Objects = []fyne.CanvasObject{container.NewBorder(top, nil, nil, nil, container.NewVScroll(body))}
		holder.Refresh()
	}
	v.OnChange(func() { fyne.Do(render) })
	v.Mount(ui.ctx)
	return holder, v
}

func (ui *RootUI) profileScreen(username string, tab views.ProfileKind) (fyne.CanvasObject, mountable) {
	v := views.NewProfileList(tab, username, ui.deps.Backend, ui.deps.Runner, ui.log.WithField("view", "profile"))

	tabs := container.NewHBox()
	for _, kind := range []views.ProfileKind{views.ProfilePosts, views.ProfileFollowers, views.ProfileFollowing} {
		path := model.ProfilePath(username)
		if kind != views.ProfilePosts {
			path += "/" + kind.String()
		}
		btn := widget.NewButton(strings.ToUpper(kind.String()[:1])+kind.String()[1:], func() { ui.router.Navigate(path) })
		if kind == tab {
			btn.Importance = widget.HighImportance
		}
		tabs.Add(btn)
	}

	name := widget.NewLabelWithStyle(username, fyne.TextAlignLeading, fyne.TextStyle{Bold: true})
	holder := container.NewStack(loadingLabel())
	render := func() {
		if v.Loading() {
			return
		}
		if v.Kind() == views.ProfilePosts {
			holder.Objects = []fyne.CanvasObject{ui.postList(v.Posts())}
		} else {
			holder.Objects = []fyne.CanvasObject{ui.peopleList(v.People())}
		}
		holder.Refresh()
	}
	v.OnChange(func() { fyne.Do(render) })
	v.Mount(ui.ctx)

	return container.NewBorder(container.NewVBox(name, tabs), nil, nil, nil, holder), v
}

func (ui *RootUI) postList(posts []model.Post) fyne.CanvasObject {
	return widget.NewList(
		func() int { return len(posts) },
		func() fyne.CanvasObject { return widget.NewButton("", nil) },
		func(id widget.ListItemID, obj fyne.CanvasObject) {
			post := posts[id]
			btn := obj.(*widget.Button)
			btn.Alignment = widget.ButtonAlignLeading
			btn.SetText(post.Title + MiddleDotSeparator + "by " + post.Author.Username + " on " + post.FormattedDate())
			btn.OnTapped = func() { ui.router.Navigate("/post/" + post.ID) }
		},
	)
}

func (ui *RootUI) peopleList(people []model.Follower) fyne.CanvasObject {
	return widget.NewList(
		func() int { return len(people) },
		func() fyne.CanvasObject { return widget.NewButton("", nil) },
		func(id widget.ListItemID, obj fyne.CanvasObject) {
			person := people[id]
			btn := obj.(*widget.Button)
			btn.Alignment = widget.ButtonAlignLeading
			btn.SetText(person.Username)
			btn.OnTapped = func() { ui.router.Navigate(model.ProfilePath(person.Username)) }
		},
	)
}

func (ui *RootUI) onShowSettings() {
	NewSettingsDialog(ui.deps.Settings, ui.window, func() {
		ui.push("Settings saved. Restart to apply connection changes.")
	}).Show()
}

func (ui *RootUI) onShowActivity() {
	w := fyne.CurrentApp().NewWindow(IconActivity + " Activity")
	w.SetContent(ui.activity.Container())
	w.Resize(fyne.NewSize(OverlayWidth, OverlayHeight))
	w.Show()
}

func loadingLabel() fyne.CanvasObject {
	return container.NewCenter(widget.NewLabel(TextLoading))
}

func centered(heading, lead string) fyne.CanvasObject {
	style := widget.RichTextStyleHeading
	style.Alignment = fyne.TextAlignCenter
	h := widget.NewRichText(&widget.TextSegment{Text: heading, Style: style})
	if lead == "" {
		return container.NewCenter(h)
	}
	l := widget.NewLabel(lead)
	l.Wrapping = fyne.TextWrapWord
	l.Alignment = fyne.TextAlignCenter
	return container.NewBorder(container.NewPadded(h), nil, nil, nil, l)
}
