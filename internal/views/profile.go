package views

import (
	"context"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/ytget/social-client/internal/fetch"
	"github.com/ytget/social-client/internal/logging"
	"github.com/ytget/social-client/internal/model"
)

// ProfileKind selects which list of a profile is shown
type ProfileKind int

const (
	ProfilePosts ProfileKind = iota
	ProfileFollowers
	ProfileFollowing
)

func (k ProfileKind) String() string {
	switch k {
	case ProfilePosts:
		return "posts"
	case ProfileFollowers:
		return "followers"
	case ProfileFollowing:
		return "following"
	default:
		return "unknown"
	}
}

// profileResult carries whichever list the kind asked for
type profileResult struct {
	posts  []model.Post
	people []model.Follower
}

// ProfileList is one tab of a profile page
type ProfileList struct {
	lifecycle

	kind     ProfileKind
	username string
	source   ProfileSource
	runner   *fetch.Service
	log      *logrus.Entry

	dataMu  sync.Mutex
	loading bool
	posts   []model.Post
	people  []model.Follower
}

// NewProfileList creates the kind tab of username's profile
func NewProfileList(kind ProfileKind, username string, source ProfileSource, runner *fetch.Service, log *logrus.Entry) *ProfileList {
	return &ProfileList{
		kind:     kind,
		username: username,
		source:   source,
		runner:   runner,
		log:      logging.OrDiscard(log).WithFields(logrus.Fields{"profile": username, "tab": kind.String()}),
		loading:  true,
	}
}

// Mount starts loading the list
func (v *ProfileList) Mount(ctx context.Context) {
	gen := v.begin()

	v.dataMu.Lock()
	v.loading = true
	v.dataMu.Unlock()

	h := fetch.Go(v.runner, ctx, "profile "+v.username+" "+v.kind.String(), v.load,
		func(res profileResult, err error) {
			if err != nil {
				v.log.WithError(err).Warn("profile request failed")
				return
			}
			v.deliver(gen, func() {
				v.dataMu.Lock()
				v.loading = false
				v.posts = res.posts
				v.people = res.people
				v.dataMu.Unlock()
				v.changed()
			})
		})
	v.track(gen, h)
}

func (v *ProfileList) load(ctx context.Context) (profileResult, error) {
	var (
		res profileResult
		err error
	)
	switch v.kind {
	case ProfileFollowers:
		res.people, err = v.source.ProfileFollowers(ctx, v.username)
	case ProfileFollowing:
		res.people, err = v.source.ProfileFollowing(ctx, v.username)
	default:
		res.posts, err = v.source.ProfilePosts(ctx, v.username)
	}
	return res, err
}

// Unmount cancels the outstanding request
func (v *ProfileList) Unmount() {
	v.end()
}

// Kind returns the tab kind
func (v *ProfileList) Kind() ProfileKind {
	return v.kind
}

// Loading reports whether the list is still on its way
func (v *ProfileList) Loading() bool {
	v.dataMu.Lock()
	defer v.dataMu.Unlock()
	return v.loading
}

// Posts returns the loaded posts of a posts tab
func (v *ProfileList) Posts() []model.Post {
	v.dataMu.Lock()
	defer v.dataMu.Unlock()
	return append([]model.Post(nil), v.posts...)
}

// People returns the loaded users of a followers or following tab
func (v *ProfileList) People() []model.Follower {
	v.dataMu.Lock()
	defer v.dataMu.Unlock()
	return append([]model.Follower(nil), v.people...)
}
