package notify

import (
	"testing"
	"time"

	"fyne.io/fyne/v2/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ytget/social-client/internal/model"
	"github.com/ytget/social-client/internal/store"
)

func texts(v []VisibleNotice) []string {
	out := make([]string, 0, len(v))
	for _, n := range v {
		out = append(out, n.Text)
	}
	return out
}

func TestQueue_PushIsVisibleInOrder(t *testing.T) {
	test.NewApp()
	st := store.New(model.State{})
	q := NewQueue(st, WithTTL(0))
	defer q.Close()

	require.NoError(t, q.Push("first"))
	require.NoError(t, st.Dispatch(store.PushNotice("second")))

	assert.Equal(t, []string{"first", "second"}, texts(q.Visible()))
	assert.Len(t, st.CurrentState().Notices, 2)
}

func TestQueue_DismissIsViewLocal(t *testing.T) {
	test.NewApp()
	st := store.New(model.State{})
	q := NewQueue(st, WithTTL(0))
	defer q.Close()

	require.NoError(t, q.Push("a"))
	require.NoError(t, q.Push("b"))
	require.NoError(t, q.Push("b"))

	q.Dismiss(1)
	q.Dismiss(1)
	q.Dismiss(42)

	assert.Equal(t, []VisibleNotice{{Index: 0, Text: "a"}, {Index: 2, Text: "b"}}, q.Visible())
	assert.Len(t, st.CurrentState().Notices, 3, "store history is untouched")

	items, err := q.Binding().Get()
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, items)
}

func TestQueue_ShowsExistingNotices(t *testing.T) {
	test.NewApp()
	initial := model.State{Notices: []model.Notice{{Text: "restored"}}}
	q := NewQueue(store.New(initial), WithTTL(0))
	defer q.Close()

	assert.Equal(t, []string{"restored"}, texts(q.Visible()))
}

func TestQueue_TTLExpiry(t *testing.T) {
	test.NewApp()
	st := store.New(model.State{})
	q := NewQueue(st, WithTTL(20*time.Millisecond))
	defer q.Close()

	require.NoError(t, q.Push("Post was successfully deleted."))
	assert.Len(t, q.Visible(), 1)

	assert.Eventually(t, func() bool { return len(q.Visible()) == 0 }, time.Second, 5*time.Millisecond)
}

func TestQueue_SessionExpiryScenario(t *testing.T) {
	test.NewApp()
	identity := model.Identity{Token: "abc", DisplayName: "alice"}
	st := store.New(model.State{IsAuthenticated: true, Identity: &identity})
	q := NewQueue(st, WithTTL(0))
	defer q.Close()

	require.NoError(t, st.Dispatch(store.Logout()))
	require.NoError(t, st.Dispatch(store.PushNotice("Your session has expired. Please log in again.")))

	assert.Equal(t, []string{"Your session has expired. Please log in again."}, texts(q.Visible()))
}

func TestQueue_CloseStopsFollowing(t *testing.T) {
	test.NewApp()
	st := store.New(model.State{})
	q := NewQueue(st, WithTTL(time.Hour))

	require.NoError(t, q.Push("before"))
	q.Close()
	q.Close()
	require.NoError(t, st.Dispatch(store.PushNotice("after")))

	assert.Equal(t, []string{"before"}, texts(q.Visible()))
}
