package chat

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ytget/social-client/internal/model"
	"github.com/ytget/social-client/internal/store"
)

type dialRecorder struct {
	mu     sync.Mutex
	tokens []string
}

func (d *dialRecorder) dial(ctx context.Context, endpoint, token string, log *logrus.Entry) (*Client, error) {
	d.mu.Lock()
	d.tokens = append(d.tokens, token)
	d.mu.Unlock()
	return Dial(ctx, endpoint, token, log)
}

func (d *dialRecorder) Tokens() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]string(nil), d.tokens...)
}

func TestManager_FollowsAuthentication(t *testing.T) {
	srv := echoServer(t, "tok")
	defer srv.Close()

	rec := &dialRecorder{}
	m := NewManager("ws"+strings.TrimPrefix(srv.URL, "http"), rec.dial, nil)

	received := make(chan Message, 1)
	m.OnMessage(func(msg Message) { received <- msg })

	st := store.New(model.State{})
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	m.Start(ctx, st)
	defer m.Close()

	assert.False(t, m.Connected())
	assert.ErrorIs(t, m.Send(ctx, "hi"), ErrNotConnected)

	require.NoError(t, st.Dispatch(store.Login(model.Identity{Token: "tok", DisplayName: "alice"})))
	require.Eventually(t, m.Connected, 2*time.Second, 5*time.Millisecond)

	// unrelated transitions do not reconnect
	require.NoError(t, st.Dispatch(store.ToggleChat()))
	require.NoError(t, st.Dispatch(store.IncrementUnread()))

	require.NoError(t, m.Send(ctx, "hello"))
	select {
	case msg := <-received:
		assert.Equal(t, "re: hello", msg.Body)
	case <-time.After(2 * time.Second):
		t.Fatal("no message received")
	}

	require.NoError(t, st.Dispatch(store.Logout()))
	assert.False(t, m.Connected())
	assert.Equal(t, []string{"tok"}, rec.Tokens())
}

func TestManager_RestoredSessionConnectsOnStart(t *testing.T) {
	srv := echoServer(t, "tok")
	defer srv.Close()

	rec := &dialRecorder{}
	m := NewManager("ws"+strings.TrimPrefix(srv.URL, "http"), rec.dial, nil)

	identity := model.Identity{Token: "tok", DisplayName: "alice"}
	st := store.New(model.State{IsAuthenticated: true, Identity: &identity})

	ctx, cancel := context.WithCancel(context.Background())
	m.Start(ctx, st)
	require.Eventually(t, m.Connected, 2*time.Second, 5*time.Millisecond)

	cancel()
	require.Eventually(t, func() bool { return !m.Connected() }, 2*time.Second, 5*time.Millisecond)
}

func TestManager_CloseAbortsPendingDial(t *testing.T) {
	dialing := make(chan struct{})
	hang := func(ctx context.Context, _, _ string, _ *logrus.Entry) (*Client, error) {
		close(dialing)
		<-ctx.Done()
		return nil, ctx.Err()
	}
	m := NewManager("ws://unused", hang, nil)

	identity := model.Identity{Token: "tok", DisplayName: "alice"}
	m.Start(context.Background(), store.New(model.State{IsAuthenticated: true, Identity: &identity}))
	<-dialing

	closed := make(chan struct{})
	go func() {
		m.Close()
		close(closed)
	}()
	select {
	case <-closed:
	case <-time.After(2 * time.Second):
		t.Fatal("Close waited on a dial nobody cancelled")
	}
	assert.False(t, m.Connected())
}
