package views

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/ytget/social-client/internal/fetch"
	"github.com/ytget/social-client/internal/logging"
	"github.com/ytget/social-client/internal/model"
)

// DefaultSearchDelay is how long typing must pause before a search is sent
const DefaultSearchDelay = 750 * time.Millisecond

// Search backs the search overlay. Each keystroke restarts the delay and
// cancels the previous request, so only the latest term ever delivers.
type Search struct {
	lifecycle

	source SearchSource
	runner *fetch.Service
	delay  time.Duration
	log    *logrus.Entry

	dataMu  sync.Mutex
	timer   *time.Timer
	term    string
	loading bool
	results []model.Post
}

// NewSearch creates the search view; delay <= 0 searches immediately
func NewSearch(source SearchSource, runner *fetch.Service, delay time.Duration, log *logrus.Entry) *Search {
	return &Search{
		source: source,
		runner: runner,
		delay:  delay,
		log:    logging.OrDiscard(log),
	}
}

// Query sets the search term
func (v *Search) Query(ctx context.Context, term string) {
	term = strings.TrimSpace(term)
	gen := v.begin()

	v.dataMu.Lock()
	if v.timer != nil {
		v.timer.Stop()
		v.timer = nil
	}
	v.term = term
	if term == "" {
		v.loading = false
		v.results = nil
		v.dataMu.Unlock()
		v.changed()
		return
	}
	v.loading = true
	if v.delay > 0 {
		v.timer = time.AfterFunc(v.delay, func() { v.run(ctx, gen, term) })
		v.dataMu.Unlock()
		return
	}
	v.dataMu.Unlock()
	v.run(ctx, gen, term)
}

func (v *Search) run(ctx context.Context, gen uint64, term string) {
	v.dataMu.Lock()
	current := v.term == term
	v.dataMu.Unlock()
	if !current {
		return
	}

	h := fetch.Go(v.runner, ctx, "search",
		func(ctx context.Context) ([]model.Post, error) {
			return v.source.Search(ctx, term)
		},
		func(posts []model.Post, err error) {
			if err != nil {
				v.log.WithError(err).Warn("search failed")
				return
			}
			v.deliver(gen, func() {
				v.dataMu.Lock()
				if v.term != term {
					v.dataMu.Unlock()
					return
				}
				v.loading = false
				v.results = posts
				v.dataMu.Unlock()
				v.changed()
			})
		})
	v.track(gen, h)
}

// Unmount stops any pending or in-flight search
func (v *Search) Unmount() {
	v.dataMu.Lock()
	if v.timer != nil {
		v.timer.Stop()
		v.timer = nil
	}
	v.term = ""
	v.dataMu.Unlock()
	v.end()
}

// Loading reports whether results for the current term are pending
func (v *Search) Loading() bool {
	v.dataMu.Lock()
	defer v.dataMu.Unlock()
	return v.loading
}

// Results returns the latest results
func (v *Search) Results() []model.Post {
	v.dataMu.Lock()
	defer v.dataMu.Unlock()
	return append([]model.Post(nil), v.results...)
}
