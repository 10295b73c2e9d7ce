package store

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ytget/social-client/internal/model"
)

func TestStore_DispatchNotifiesSynchronously(t *testing.T) {
	s := New(model.State{})

	var seen []model.State
	s.Subscribe(func(st model.State) { seen = append(seen, st) })

	require.NoError(t, s.Dispatch(OpenSearch()))
	require.Len(t, seen, 1)
	assert.True(t, seen[0].IsSearchOverlayOpen)
	assert.True(t, s.CurrentState().IsSearchOverlayOpen)
}

func TestStore_InvalidTransitionRejected(t *testing.T) {
	s := New(model.State{})

	calls := 0
	s.Subscribe(func(model.State) { calls++ })

	err := s.Dispatch(Transition{Kind: Kind(123)})
	require.ErrorIs(t, err, ErrInvalidTransition)
	assert.Zero(t, calls)
	assert.Equal(t, model.State{}, s.CurrentState())
}

func TestStore_SubscribersInOrderAndUnsubscribe(t *testing.T) {
	s := New(model.State{})

	var order []string
	s.Subscribe(func(model.State) { order = append(order, "first") })
	unsub := s.Subscribe(func(model.State) { order = append(order, "second") })

	require.NoError(t, s.Dispatch(IncrementUnread()))
	assert.Equal(t, []string{"first", "second"}, order)

	unsub()
	unsub()
	order = nil
	require.NoError(t, s.Dispatch(IncrementUnread()))
	assert.Equal(t, []string{"first"}, order)
}

func TestStore_SnapshotsAreIsolated(t *testing.T) {
	s := New(model.State{})
	s.Subscribe(func(st model.State) {
		if len(st.Notices) > 0 {
			st.Notices[0].Text = "tampered"
		}
	})

	require.NoError(t, s.Dispatch(PushNotice("original")))

	snap := s.CurrentState()
	assert.Equal(t, "original", snap.Notices[0].Text)

	snap.Notices[0].Text = "also tampered"
	assert.Equal(t, "original", s.CurrentState().Notices[0].Text)
}

func TestStore_LoginLogoutLoginKeepsLatest(t *testing.T) {
	bob := model.Identity{Token: "tok-b", DisplayName: "bob"}
	s := New(model.State{})

	require.NoError(t, s.Dispatch(Login(alice)))
	require.NoError(t, s.Dispatch(Logout()))
	require.NoError(t, s.Dispatch(Login(bob)))

	final := s.CurrentState()
	require.NotNil(t, final.Identity)
	assert.Equal(t, bob, *final.Identity)
}

func TestStore_ReentrantDispatchIsQueued(t *testing.T) {
	s := New(model.State{})

	var seen []int
	s.Subscribe(func(st model.State) {
		seen = append(seen, st.UnreadChatCount)
		if st.IsChatOverlayOpen && st.UnreadChatCount > 0 {
			require.NoError(t, s.Dispatch(ClearUnread()))
		}
	})

	require.NoError(t, s.Dispatch(IncrementUnread()))
	require.NoError(t, s.Dispatch(IncrementUnread()))
	require.NoError(t, s.Dispatch(ToggleChat()))

	// the ClearUnread issued from the subscriber lands after ToggleChat's round
	assert.Equal(t, []int{1, 2, 2, 0}, seen)
	assert.Zero(t, s.CurrentState().UnreadChatCount)
}

func TestStore_ConcurrentDispatchesAllApplied(t *testing.T) {
	s := New(model.State{})

	const workers, perWorker = 8, 100
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < perWorker; j++ {
				_ = s.Dispatch(IncrementUnread())
			}
		}()
	}
	wg.Wait()

	// the last drainer empties the queue before returning
	assert.Equal(t, workers*perWorker, s.CurrentState().UnreadChatCount)
}

func TestStore_PanickingSubscriberDoesNotWedge(t *testing.T) {
	s := New(model.State{})

	explode := true
	s.Subscribe(func(model.State) {
		if explode {
			explode = false
			panic("boom")
		}
	})

	assert.Panics(t, func() { _ = s.Dispatch(OpenSearch()) })
	require.NoError(t, s.Dispatch(CloseSearch()))
	assert.False(t, s.CurrentState().IsSearchOverlayOpen)
}

func TestStore_InitialStateIsCopied(t *testing.T) {
	initial := model.State{IsAuthenticated: true, Identity: &model.Identity{Token: "abc"}}
	s := New(initial)

	initial.Identity.Token = "mutated"
	assert.Equal(t, "abc", s.CurrentState().Token())
}

func TestStore_DispatchIfChecksStateAtApplyTime(t *testing.T) {
	alice := model.Identity{Token: "t-alice", DisplayName: "alice"}
	bob := model.Identity{Token: "t-bob", DisplayName: "bob"}
	s := New(model.State{IsAuthenticated: true, Identity: &alice})

	stillAlice := func(st model.State) bool { return st.Token() == alice.Token }

	// queue the guarded logout behind a switch to bob
	s.Subscribe(func(st model.State) {
		if st.IsSearchOverlayOpen && st.Token() == alice.Token {
			require.NoError(t, s.Dispatch(Logout()))
			require.NoError(t, s.Dispatch(Login(bob)))
			require.NoError(t, s.DispatchIf(stillAlice, Logout(), PushNotice("expired")))
		}
	})
	require.NoError(t, s.Dispatch(OpenSearch()))

	final := s.CurrentState()
	assert.True(t, final.IsAuthenticated)
	assert.Equal(t, "bob", final.DisplayName())
	assert.Empty(t, final.Notices)

	require.NoError(t, s.DispatchIf(func(st model.State) bool { return st.Token() == bob.Token },
		Logout(), PushNotice("expired")))
	final = s.CurrentState()
	assert.False(t, final.IsAuthenticated)
	require.Len(t, final.Notices, 1)
	assert.Equal(t, "expired", final.Notices[0].Text)
}

func TestStore_DispatchIfGroupIsNotInterleaved(t *testing.T) {
	s := New(model.State{})

	var kinds []bool
	s.Subscribe(func(st model.State) {
		kinds = append(kinds, st.IsSearchOverlayOpen)
		if st.IsSearchOverlayOpen && len(kinds) == 1 {
			require.NoError(t, s.Dispatch(CloseSearch()))
		}
	})

	require.NoError(t, s.DispatchIf(nil, OpenSearch(), IncrementUnread()))

	// CloseSearch from the first notification waits for IncrementUnread
	require.Len(t, kinds, 3)
	assert.Equal(t, []bool{true, true, false}, kinds)
	assert.Equal(t, 1, s.CurrentState().UnreadChatCount)
}

func TestStore_DispatchIfRejectsUnknownKind(t *testing.T) {
	s := New(model.State{})
	err := s.DispatchIf(nil, OpenSearch(), Transition{Kind: Kind(99)})
	require.ErrorIs(t, err, ErrInvalidTransition)
	assert.False(t, s.CurrentState().IsSearchOverlayOpen, "nothing of a rejected group applies")
}
