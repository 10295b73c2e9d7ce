package main

import (
	"context"
	"fmt"
	"os"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"github.com/sirupsen/logrus"

	"github.com/ytget/social-client/internal/api"
	"github.com/ytget/social-client/internal/chat"
	"github.com/ytget/social-client/internal/config"
	"github.com/ytget/social-client/internal/fetch"
	"github.com/ytget/social-client/internal/logging"
	"github.com/ytget/social-client/internal/notify"
	"github.com/ytget/social-client/internal/overlay"
	"github.com/ytget/social-client/internal/session"
	"github.com/ytget/social-client/internal/store"
	"github.com/ytget/social-client/internal/ui"
	"github.com/ytget/social-client/internal/views"
)

// Version is set during build via -ldflags "-X main.version=X.Y.Z"
var version = "dev"

const (
	AppID   = "com.ytget.social-client"
	AppName = "ComplexApp"
)

func main() {
	myApp := app.NewWithID(AppID)
	myApp.Settings().SetTheme(ui.NewAppTheme())

	settings := config.NewSettings(myApp)
	logger := logging.New(settings.GetLogLevel(), os.Stderr)
	logger.WithField("version", version).Info("starting")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Session restore happens before anything can observe the store
	durable := session.NewDurableStore(myApp.Preferences())
	st := store.New(session.Restore(durable), store.WithLogger(logging.Component(logger, "store")))
	detach := session.NewPersister(durable, logging.Component(logger, "session")).Attach(st)
	defer detach()

	runner := fetch.NewService(logging.Component(logger, "fetch"))
	defer runner.CancelAll()

	backend := api.New(api.Config{
		BaseURL:           settings.GetBackendURL(),
		Timeout:           settings.GetRequestTimeout(),
		RequestsPerSecond: settings.GetRequestsPerSecond(),
	}, logging.Component(logger, "api"))

	validator := session.NewValidator(backend, st, runner, logging.Component(logger, "session"))
	if h := validator.Start(ctx); h != nil {
		defer h.Cancel()
	}

	notices := notify.NewQueue(st,
		notify.WithTTL(settings.GetNoticeTTL()),
		notify.WithLogger(logging.Component(logger, "notify")))
	defer notices.Close()

	policy := overlay.NewChatPolicy(st)

	window := myApp.NewWindow(fmt.Sprintf("%s v%s", AppName, version))
	window.Resize(fyne.NewSize(ui.WindowWidth, ui.WindowHeight))

	chatMgr := startChat(ctx, st, settings, logger)
	defer chatMgr.Close()

	router := ui.NewRouter(nil)
	search := ui.NewSearchOverlay(ctx, window,
		views.NewSearch(backend, runner, views.DefaultSearchDelay, logging.Component(logger, "search")),
		policy, router, logging.Component(logger, "search"))
	chatSurface := ui.NewChatOverlay(ctx, window, chatMgr, policy,
		func() string { return st.CurrentState().DisplayName() }, logging.Component(logger, "chat"))

	chatMgr.OnMessage(func(msg chat.Message) {
		chatSurface.Received(msg)
		if err := policy.Received(msg); err != nil {
			logger.WithError(err).Error("unread update failed")
		}
	})

	root := ui.NewRootUI(ctx, window, ui.Deps{
		Store:    st,
		Backend:  backend,
		Runner:   runner,
		Notices:  notices,
		Policy:   policy,
		Settings: settings,
		Router:   router,
		Log:      logging.Component(logger, "ui"),
	}, search, chatSurface)
	defer root.Close()

	window.ShowAndRun()
	logger.Info("shutting down")
}

func startChat(ctx context.Context, st *store.Store, settings *config.Settings, logger *logrus.Logger) *chat.Manager {
	log := logging.Component(logger, "chat")
	endpoint, err := chat.WebsocketURL(settings.GetBackendURL())
	if err != nil {
		log.WithError(err).Warn("chat disabled")
	}
	mgr := chat.NewManager(endpoint, nil, log)
	if err == nil {
		mgr.Start(ctx, st)
	}
	return mgr
}
