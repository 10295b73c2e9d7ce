package views

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/ytget/social-client/internal/fetch"
	"github.com/ytget/social-client/internal/logging"
	"github.com/ytget/social-client/internal/model"
	"github.com/ytget/social-client/internal/store"
)

// User-facing texts of the delete flow
const (
	DeleteQuestion = "Do you really want to delete this post?"
	DeletedNotice  = "Post was successfully deleted."
)

var (
	// ErrNotOwner is returned when deleting someone else's post
	ErrNotOwner = errors.New("views: post belongs to another user")
	// ErrDeleteCancelled is returned when the view is unmounted mid-delete
	ErrDeleteCancelled = errors.New("views: delete cancelled")
)

// SinglePost shows one post and lets its author delete it
type SinglePost struct {
	lifecycle

	id      string
	st      store.ReadDispatcher
	source  PostSource
	runner  *fetch.Service
	confirm Confirmer
	nav     Navigator
	log     *logrus.Entry

	dataMu   sync.Mutex
	loading  bool
	notFound bool
	post     *model.Post
}

// NewSinglePost creates the view for post id
func NewSinglePost(id string, st store.ReadDispatcher, source PostSource, runner *fetch.Service,
	confirm Confirmer, nav Navigator, log *logrus.Entry) *SinglePost {
	return &SinglePost{
		id:      id,
		st:      st,
		source:  source,
		runner:  runner,
		confirm: confirm,
		nav:     nav,
		log:     logging.OrDiscard(log).WithField("post", id),
		loading: true,
	}
}

// Mount starts loading the post
func (v *SinglePost) Mount(ctx context.Context) {
	gen := v.begin()

	v.dataMu.Lock()
	v.loading = true
	v.notFound = false
	v.dataMu.Unlock()

	h := fetch.Go(v.runner, ctx, "post "+v.id,
		func(ctx context.Context) (model.Post, error) {
			return v.source.Post(ctx, v.id)
		},
		func(post model.Post, err error) {
			if err != nil && !errors.Is(err, model.ErrNotFound) {
				v.log.WithError(err).Warn("post request failed")
				return
			}
			v.deliver(gen, func() {
				v.dataMu.Lock()
				v.loading = false
				if err != nil {
					v.notFound = true
				} else {
					v.post = &post
				}
				v.dataMu.Unlock()
				v.changed()
			})
		})
	v.track(gen, h)
}

// Unmount cancels outstanding requests, including a delete in progress or
// one still waiting on its confirmation prompt.
func (v *SinglePost) Unmount() {
	v.end()
}

// Loading reports whether the post is still on its way
func (v *SinglePost) Loading() bool {
	v.dataMu.Lock()
	defer v.dataMu.Unlock()
	return v.loading
}

// NotFound is true only once the backend has said the post does not exist
func (v *SinglePost) NotFound() bool {
	v.dataMu.Lock()
	defer v.dataMu.Unlock()
	return v.notFound
}

// Post returns the loaded post
func (v *SinglePost) Post() (model.Post, bool) {
	v.dataMu.Lock()
	defer v.dataMu.Unlock()
	if v.post == nil {
		return model.Post{}, false
	}
	return *v.post, true
}

// IsOwner reports whether the signed-in user wrote the post
func (v *SinglePost) IsOwner() bool {
	post, ok := v.Post()
	return ok && post.IsOwnedBy(v.st.CurrentState())
}

// Delete asks for confirmation, deletes the post, then announces it and
// navigates to the author's profile. A declined prompt is not an error.
// Unmounting the view at any point before the delete completes returns
// ErrDeleteCancelled and leaves the store and the route untouched.
func (v *SinglePost) Delete(ctx context.Context) error {
	gen, mounted := v.current()
	if !mounted {
		return ErrDeleteCancelled
	}
	if !v.IsOwner() {
		return ErrNotOwner
	}

	ok, err := v.confirm.Confirm(ctx, DeleteQuestion)
	if err != nil {
		return fmt.Errorf("confirm delete: %w", err)
	}
	if !ok {
		v.log.Debug("delete declined")
		return nil
	}
	if !v.live(gen) {
		v.log.Debug("view closed during confirmation, delete dropped")
		return ErrDeleteCancelled
	}

	s := v.st.CurrentState()
	token, username := s.Token(), s.DisplayName()

	result := make(chan error, 1)
	h := fetch.Go(v.runner, ctx, "delete "+v.id,
		func(ctx context.Context) (struct{}, error) {
			return struct{}{}, v.source.DeletePost(ctx, v.id, token)
		},
		func(_ struct{}, err error) {
			v.deliver(gen, func() {
				if err != nil {
					v.log.WithError(err).Warn("delete failed")
					result <- err
					return
				}
				if err := v.st.Dispatch(store.PushNotice(DeletedNotice)); err != nil {
					v.log.WithError(err).Error("notice dispatch failed")
				}
				v.nav.Navigate(model.ProfilePath(username))
				result <- nil
			})
		})
	v.track(gen, h)

	<-h.Done()
	select {
	case err := <-result:
		if err != nil {
			return fmt.Errorf("delete post %s: %w", v.id, err)
		}
		return nil
	default:
		return ErrDeleteCancelled
	}
}
