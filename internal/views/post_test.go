package views

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ytget/social-client/internal/api"
	"github.com/ytget/social-client/internal/fetch"
	"github.com/ytget/social-client/internal/model"
	"github.com/ytget/social-client/internal/store"
)

func mountPost(t *testing.T, v *SinglePost) {
	t.Helper()
	changed := changes(v)
	v.Mount(context.Background())
	select {
	case <-changed:
	case <-time.After(2 * time.Second):
		t.Fatal("post did not load")
	}
}

func TestSinglePost_Loads(t *testing.T) {
	backend := &fakeBackend{posts: map[string]model.Post{"p1": samplePost("p1", "alice")}}
	v := NewSinglePost("p1", store.New(signedIn("alice")), backend, fetch.NewService(nil), &fakeConfirmer{}, &recordingNavigator{}, nil)
	mountPost(t, v)

	post, ok := v.Post()
	require.True(t, ok)
	assert.Equal(t, "Title p1", post.Title)
	assert.False(t, v.Loading())
	assert.False(t, v.NotFound())
	assert.True(t, v.IsOwner())
}

func TestSinglePost_NotFoundOnlyOnDefinitiveAnswer(t *testing.T) {
	v := NewSinglePost("missing", store.New(model.State{}), &fakeBackend{}, fetch.NewService(nil), &fakeConfirmer{}, &recordingNavigator{}, nil)
	mountPost(t, v)
	assert.True(t, v.NotFound())
	assert.False(t, v.IsOwner())

	runner := fetch.NewService(nil)
	failing := &fakeBackend{err: &api.TransportError{Op: "post", Err: errors.New("connection reset")}}
	v = NewSinglePost("p1", store.New(model.State{}), failing, runner, &fakeConfirmer{}, &recordingNavigator{}, nil)
	v.Mount(context.Background())
	assert.Eventually(t, func() bool { return runner.ActiveCount() == 0 }, 2*time.Second, 5*time.Millisecond)
	assert.False(t, v.NotFound(), "transport failure is not not-found")
	assert.True(t, v.Loading())
}

func TestSinglePost_OwnershipFollowsSession(t *testing.T) {
	backend := &fakeBackend{posts: map[string]model.Post{"p1": samplePost("p1", "alice")}}
	st := store.New(signedIn("bob"))
	v := NewSinglePost("p1", st, backend, fetch.NewService(nil), &fakeConfirmer{}, &recordingNavigator{}, nil)
	mountPost(t, v)

	assert.False(t, v.IsOwner())
	require.NoError(t, st.Dispatch(store.Login(*signedIn("alice").Identity)))
	assert.True(t, v.IsOwner())
}

func TestSinglePost_DeleteFlow(t *testing.T) {
	backend := &fakeBackend{posts: map[string]model.Post{"p1": samplePost("p1", "alice")}}
	st := store.New(signedIn("alice"))
	confirm := &fakeConfirmer{answer: true}
	nav := &recordingNavigator{}
	v := NewSinglePost("p1", st, backend, fetch.NewService(nil), confirm, nav, nil)
	mountPost(t, v)

	var order []string
	st.Subscribe(func(s model.State) {
		if len(nav.Paths()) == 0 {
			order = append(order, "notice")
		}
	})

	require.NoError(t, v.Delete(context.Background()))

	assert.Equal(t, DeleteQuestion, confirm.question)
	assert.Equal(t, []string{"p1"}, backend.deleted)
	assert.Equal(t, []string{"tok-alice"}, backend.tokens)
	assert.Equal(t, []string{"/profile/alice"}, nav.Paths())
	assert.Equal(t, []string{"notice"}, order, "notice is pushed before navigating")

	notices := st.CurrentState().Notices
	require.Len(t, notices, 1)
	assert.Equal(t, DeletedNotice, notices[0].Text)
}

func TestSinglePost_DeleteDeclined(t *testing.T) {
	backend := &fakeBackend{posts: map[string]model.Post{"p1": samplePost("p1", "alice")}}
	st := store.New(signedIn("alice"))
	nav := &recordingNavigator{}
	v := NewSinglePost("p1", st, backend, fetch.NewService(nil), &fakeConfirmer{answer: false}, nav, nil)
	mountPost(t, v)

	require.NoError(t, v.Delete(context.Background()))
	assert.Empty(t, backend.deleted)
	assert.Empty(t, nav.Paths())
	assert.Empty(t, st.CurrentState().Notices)
}

func TestSinglePost_DeleteFailure(t *testing.T) {
	backend := &fakeBackend{
		posts:     map[string]model.Post{"p1": samplePost("p1", "alice")},
		deleteErr: api.ErrRejected,
	}
	st := store.New(signedIn("alice"))
	nav := &recordingNavigator{}
	v := NewSinglePost("p1", st, backend, fetch.NewService(nil), &fakeConfirmer{answer: true}, nav, nil)
	mountPost(t, v)

	err := v.Delete(context.Background())
	require.ErrorIs(t, err, api.ErrRejected)
	assert.Empty(t, nav.Paths())
	assert.Empty(t, st.CurrentState().Notices)
}

func TestSinglePost_DeleteNotOwner(t *testing.T) {
	backend := &fakeBackend{posts: map[string]model.Post{"p1": samplePost("p1", "alice")}}
	confirm := &fakeConfirmer{answer: true}
	v := NewSinglePost("p1", store.New(signedIn("bob")), backend, fetch.NewService(nil), confirm, &recordingNavigator{}, nil)
	mountPost(t, v)

	require.ErrorIs(t, v.Delete(context.Background()), ErrNotOwner)
	assert.Empty(t, confirm.question, "no prompt for someone else's post")
}

func TestSinglePost_UnmountCancelsDelete(t *testing.T) {
	backend := &fakeBackend{posts: map[string]model.Post{"p1": samplePost("p1", "alice")}}
	st := store.New(signedIn("alice"))
	nav := &recordingNavigator{}
	runner := fetch.NewService(nil)
	v := NewSinglePost("p1", st, backend, runner, &fakeConfirmer{answer: true}, nav, nil)
	mountPost(t, v)

	backend.gate = make(chan struct{})
	result := make(chan error, 1)
	go func() { result <- v.Delete(context.Background()) }()

	require.Eventually(t, func() bool { return runner.ActiveCount() == 1 }, 2*time.Second, time.Millisecond)
	time.Sleep(settle)
	v.Unmount()

	select {
	case err := <-result:
		require.ErrorIs(t, err, ErrDeleteCancelled)
	case <-time.After(2 * time.Second):
		t.Fatal("delete did not return after unmount")
	}
	assert.Empty(t, nav.Paths())
	assert.Empty(t, st.CurrentState().Notices)
}

func TestSinglePost_UnmountWhileConfirming(t *testing.T) {
	backend := &fakeBackend{posts: map[string]model.Post{"p1": samplePost("p1", "alice")}}
	st := store.New(signedIn("alice"))
	nav := &recordingNavigator{}
	confirm := &fakeConfirmer{answer: true}
	v := NewSinglePost("p1", st, backend, fetch.NewService(nil), confirm, nav, nil)
	mountPost(t, v)
	confirm.whilePrompting = v.Unmount

	require.ErrorIs(t, v.Delete(context.Background()), ErrDeleteCancelled)
	assert.Equal(t, DeleteQuestion, confirm.question)
	assert.Empty(t, backend.deleted, "no request after the view is gone")
	assert.Empty(t, nav.Paths())
	assert.Empty(t, st.CurrentState().Notices)
}

func TestSinglePost_DeleteAfterUnmount(t *testing.T) {
	backend := &fakeBackend{posts: map[string]model.Post{"p1": samplePost("p1", "alice")}}
	confirm := &fakeConfirmer{answer: true}
	v := NewSinglePost("p1", store.New(signedIn("alice")), backend, fetch.NewService(nil), confirm, &recordingNavigator{}, nil)
	mountPost(t, v)
	v.Unmount()

	require.ErrorIs(t, v.Delete(context.Background()), ErrDeleteCancelled)
	assert.Empty(t, confirm.question)
	assert.Empty(t, backend.deleted)
}
