package views

import (
	"context"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/ytget/social-client/internal/fetch"
	"github.com/ytget/social-client/internal/logging"
	"github.com/ytget/social-client/internal/model"
	"github.com/ytget/social-client/internal/store"
)

// HomeFeed is the signed-in landing page: posts from followed users
type HomeFeed struct {
	lifecycle

	st     store.Reader
	source FeedSource
	runner *fetch.Service
	log    *logrus.Entry

	dataMu  sync.Mutex
	loading bool
	feed    []model.Post
}

// NewHomeFeed creates the home feed view
func NewHomeFeed(st store.Reader, source FeedSource, runner *fetch.Service, log *logrus.Entry) *HomeFeed {
	return &HomeFeed{
		st:      st,
		source:  source,
		runner:  runner,
		log:     logging.OrDiscard(log),
		loading: true,
	}
}

// Mount starts loading the feed. A signed-out mount loads nothing.
func (v *HomeFeed) Mount(ctx context.Context) {
	gen := v.begin()

	s := v.st.CurrentState()
	if !s.IsAuthenticated {
		v.set(false, nil)
		return
	}
	token := s.Token()

	v.dataMu.Lock()
	v.loading = true
	v.dataMu.Unlock()

	h := fetch.Go(v.runner, ctx, "home-feed",
		func(ctx context.Context) ([]model.Post, error) {
			return v.source.HomeFeed(ctx, token)
		},
		func(posts []model.Post, err error) {
			if err != nil {
				v.log.WithError(err).Warn("home feed request failed")
				return
			}
			v.deliver(gen, func() { v.set(false, posts) })
		})
	v.track(gen, h)
}

// Unmount cancels the outstanding request
func (v *HomeFeed) Unmount() {
	v.end()
}

// Loading reports whether the feed is still on its way
func (v *HomeFeed) Loading() bool {
	v.dataMu.Lock()
	defer v.dataMu.Unlock()
	return v.loading
}

// Feed returns a copy of the loaded posts
func (v *HomeFeed) Feed() []model.Post {
	v.dataMu.Lock()
	defer v.dataMu.Unlock()
	return append([]model.Post(nil), v.feed...)
}

// Empty reports a finished load with no posts, which the page shows as a
// prompt to follow someone.
func (v *HomeFeed) Empty() bool {
	v.dataMu.Lock()
	defer v.dataMu.Unlock()
	return !v.loading && len(v.feed) == 0
}

func (v *HomeFeed) set(loading bool, posts []model.Post) {
	v.dataMu.Lock()
	v.loading = loading
	v.feed = posts
	v.dataMu.Unlock()
	v.changed()
}
