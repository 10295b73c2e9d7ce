package views

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/ytget/social-client/internal/model"
)

// fakeBackend implements every source. A non-nil gate holds each answer
// until it closes or the request context ends.
type fakeBackend struct {
	mu        sync.Mutex
	feed      []model.Post
	posts     map[string]model.Post
	followers []model.Follower
	err       error
	deleteErr error
	gate      chan struct{}
	tokens    []string
	terms     []string
	deleted   []string
}

func (f *fakeBackend) wait(ctx context.Context) error {
	if f.gate == nil {
		return nil
	}
	select {
	case <-f.gate:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (f *fakeBackend) HomeFeed(ctx context.Context, token string) ([]model.Post, error) {
	f.mu.Lock()
	f.tokens = append(f.tokens, token)
	f.mu.Unlock()
	if err := f.wait(ctx); err != nil {
		return nil, err
	}
	return f.feed, f.err
}

func (f *fakeBackend) Post(ctx context.Context, id string) (model.Post, error) {
	if err := f.wait(ctx); err != nil {
		return model.Post{}, err
	}
	if f.err != nil {
		return model.Post{}, f.err
	}
	p, ok := f.posts[id]
	if !ok {
		return model.Post{}, model.ErrNotFound
	}
	return p, nil
}

func (f *fakeBackend) DeletePost(ctx context.Context, id, token string) error {
	if err := f.wait(ctx); err != nil {
		return err
	}
	if f.deleteErr != nil {
		return f.deleteErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.tokens = append(f.tokens, token)
	f.deleted = append(f.deleted, id)
	return nil
}

func (f *fakeBackend) Search(ctx context.Context, term string) ([]model.Post, error) {
	f.mu.Lock()
	f.terms = append(f.terms, term)
	f.mu.Unlock()
	if err := f.wait(ctx); err != nil {
		return nil, err
	}
	var out []model.Post
	for _, p := range f.feed {
		if strings.Contains(strings.ToLower(p.Title), strings.ToLower(term)) {
			out = append(out, p)
		}
	}
	return out, f.err
}

func (f *fakeBackend) Terms() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.terms...)
}

func (f *fakeBackend) ProfilePosts(ctx context.Context, username string) ([]model.Post, error) {
	if err := f.wait(ctx); err != nil {
		return nil, err
	}
	return f.feed, f.err
}

func (f *fakeBackend) ProfileFollowers(ctx context.Context, username string) ([]model.Follower, error) {
	if err := f.wait(ctx); err != nil {
		return nil, err
	}
	return f.followers, f.err
}

func (f *fakeBackend) ProfileFollowing(ctx context.Context, username string) ([]model.Follower, error) {
	return f.ProfileFollowers(ctx, username)
}

// fakeConfirmer answers every prompt with answer. A non-nil whilePrompting
// runs before the answer is given, as if the user did something else first.
type fakeConfirmer struct {
	answer         bool
	err            error
	question       string
	whilePrompting func()
}

func (c *fakeConfirmer) Confirm(_ context.Context, question string) (bool, error) {
	c.question = question
	if c.whilePrompting != nil {
		c.whilePrompting()
	}
	return c.answer, c.err
}

type recordingNavigator struct {
	mu    sync.Mutex
	paths []string
}

func (n *recordingNavigator) Navigate(path string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.paths = append(n.paths, path)
}

func (n *recordingNavigator) Paths() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]string(nil), n.paths...)
}

// changes returns a channel that receives once per OnChange call
func changes(l interface{ OnChange(func()) }) <-chan struct{} {
	ch := make(chan struct{}, 16)
	l.OnChange(func() { ch <- struct{}{} })
	return ch
}

const settle = 50 * time.Millisecond

func signedIn(name string) model.State {
	return model.State{IsAuthenticated: true, Identity: &model.Identity{Token: "tok-" + name, DisplayName: name}}
}

func samplePost(id, author string) model.Post {
	return model.Post{
		ID:          id,
		Title:       "Title " + id,
		Body:        "body",
		CreatedDate: time.Date(2021, 3, 7, 12, 0, 0, 0, time.UTC),
		Author:      model.Author{Username: author},
	}
}
