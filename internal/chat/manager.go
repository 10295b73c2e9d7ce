package chat

import (
	"context"
	"errors"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/ytget/social-client/internal/logging"
	"github.com/ytget/social-client/internal/model"
	"github.com/ytget/social-client/internal/store"
)

// ErrNotConnected is returned by Send while signed out
var ErrNotConnected = errors.New("chat: not connected")

// DialFunc opens a connection; Dial satisfies it
type DialFunc func(ctx context.Context, endpoint, token string, log *logrus.Entry) (*Client, error)

// Manager keeps a chat connection open exactly while the store is signed in
type Manager struct {
	endpoint string
	dial     DialFunc
	log      *logrus.Entry

	mu        sync.Mutex
	ctx       context.Context
	cancel    context.CancelFunc
	client    *Client
	token     string
	onMessage func(Message)
	unsub     func()
	wg        sync.WaitGroup
}

// NewManager creates a manager for endpoint; dial nil means Dial
func NewManager(endpoint string, dial DialFunc, log *logrus.Entry) *Manager {
	if dial == nil {
		dial = Dial
	}
	return &Manager{
		endpoint: endpoint,
		dial:     dial,
		log:      logging.OrDiscard(log),
	}
}

// OnMessage sets the handler for incoming chat lines
func (m *Manager) OnMessage(fn func(Message)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.onMessage = fn
}

// Start follows st until ctx ends or Close is called
func (m *Manager) Start(ctx context.Context, st store.Observable) {
	ctx, cancel := context.WithCancel(ctx)
	m.mu.Lock()
	m.ctx = ctx
	m.cancel = cancel
	m.mu.Unlock()

	m.sync(st.CurrentState())
	unsub := st.Subscribe(m.sync)

	m.mu.Lock()
	m.unsub = unsub
	m.mu.Unlock()

	go func() {
		<-ctx.Done()
		m.Close()
	}()
}

// Send posts text on the current connection
func (m *Manager) Send(ctx context.Context, text string) error {
	m.mu.Lock()
	c := m.client
	m.mu.Unlock()

	if c == nil {
		return ErrNotConnected
	}
	return c.Send(ctx, text)
}

// Connected reports whether a connection is open
func (m *Manager) Connected() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.client != nil
}

// Close drops the connection and stops following the store
func (m *Manager) Close() {
	m.mu.Lock()
	if m.cancel != nil {
		// aborts a dial still in its handshake
		m.cancel()
	}
	unsub := m.unsub
	m.unsub = nil
	c := m.client
	m.client = nil
	m.token = ""
	m.mu.Unlock()

	if unsub != nil {
		unsub()
	}
	if c != nil {
		_ = c.Close()
	}
	m.wg.Wait()
}

// sync connects on sign-in, reconnects on an identity swap and disconnects
// on sign-out.
func (m *Manager) sync(s model.State) {
	want := ""
	if s.IsAuthenticated {
		want = s.Token()
	}

	m.mu.Lock()
	if want == m.token || m.ctx == nil || m.ctx.Err() != nil {
		m.mu.Unlock()
		return
	}
	old := m.client
	m.client = nil
	m.token = want
	ctx := m.ctx
	m.mu.Unlock()

	if old != nil {
		_ = old.Close()
		m.log.Info("chat disconnected")
	}
	if want == "" {
		return
	}

	m.wg.Add(1)
	go m.connect(ctx, want)
}

func (m *Manager) connect(ctx context.Context, token string) {
	defer m.wg.Done()

	c, err := m.dial(ctx, m.endpoint, token, m.log)
	if err != nil {
		m.log.WithError(err).Warn("chat connection failed")
		return
	}

	m.mu.Lock()
	if m.token != token {
		m.mu.Unlock()
		_ = c.Close()
		return
	}
	m.client = c
	m.mu.Unlock()

	err = c.Listen(func(msg Message) {
		m.mu.Lock()
		fn := m.onMessage
		m.mu.Unlock()
		if fn != nil {
			fn(msg)
		}
	})
	if err != nil {
		m.log.WithError(err).Warn("chat connection lost")
	}

	m.mu.Lock()
	if m.client == c {
		m.client = nil
	}
	m.mu.Unlock()
}
