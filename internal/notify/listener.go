package notify

import (
	"context"
	"encoding/json"
	"io"
	"log"
	"sync"
	"time"

	"storefront-api/internal/domain"
	"storefront-api/internal/session"
	"github.com/gorilla/websocket"
)

// ListenerState models the channel lifecycle.
type ListenerState int

const (
	Disconnected ListenerState = iota
	Connecting
	Connected
)

func (s ListenerState) String() string {
	switch s {
	case Connecting:
		return "connecting"
	case Connected:
		return "connected"
	}
	return "disconnected"
}

const (
	backoffMin = time.Second
	backoffMax = 30 * time.Second
)

// TicketSource fetches a push-channel ticket for the current session.
type TicketSource interface {
	NotificationTicket(ctx context.Context) (string, error)
}

// Listener owns the push-channel connection for the lifetime of an
// authenticated session. It opens the channel the moment the session store
// reports a logged-in user, surfaces each inbound notification through the
// toast sink, keeps an unread history, and tears the connection down
// deterministically on logout or Close, whichever comes first.
type Listener struct {
	store   *session.Store
	tickets TicketSource
	wsURL   string
	toast   func(message string)
	logger  *log.Logger

	mu          sync.Mutex
	state       ListenerState
	conn        *websocket.Conn
	cancel      context.CancelFunc
	gen         uint64
	history     []domain.Notification
	unsubscribe func()
	closed      bool
}

// NewListener builds a Listener. wsURL is the channel endpoint, e.g.
// "ws://localhost:3333/ws". toast may be nil.
func NewListener(store *session.Store, tickets TicketSource, wsURL string, toast func(string), logger *log.Logger) *Listener {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	if toast == nil {
		toast = func(string) {}
	}
	return &Listener{
		store:   store,
		tickets: tickets,
		wsURL:   wsURL,
		toast:   toast,
		logger:  logger,
	}
}

// Start begins observing the session store. If a user is already logged in
// the channel opens immediately.
func (l *Listener) Start() {
	l.mu.Lock()
	if l.closed || l.unsubscribe != nil {
		l.mu.Unlock()
		return
	}
	l.unsubscribe = l.store.Subscribe(l.onSessionChange)
	l.mu.Unlock()

	l.onSessionChange(l.store.Snapshot())
}

// Close stops the listener and releases the channel. It is safe to call
// more than once and safe to race with a logout-triggered disconnect.
func (l *Listener) Close() {
	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		return
	}
	l.closed = true
	unsub := l.unsubscribe
	l.unsubscribe = nil
	l.mu.Unlock()

	if unsub != nil {
		unsub()
	}
	l.disconnect()
}

// State reports the current channel state.
func (l *Listener) State() ListenerState {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.state
}

// History returns received notifications, oldest first.
func (l *Listener) History() []domain.Notification {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]domain.Notification, len(l.history))
	copy(out, l.history)
	return out
}

// Unread counts notifications not yet marked read.
func (l *Listener) Unread() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	n := 0
	for _, item := range l.history {
		if !item.Read {
			n++
		}
	}
	return n
}

// MarkAllRead flips the whole history to read, as when the user opens the
// notification surface.
func (l *Listener) MarkAllRead() {
	l.mu.Lock()
	defer l.mu.Unlock()
	for i := range l.history {
		l.history[i].Read = true
	}
}

func (l *Listener) onSessionChange(st session.State) {
	if st.IsAuthenticated && st.User != nil {
		l.connect(st.User.ID)
		return
	}
	l.disconnect()
}

// connect starts the run loop for userID unless one is already active.
func (l *Listener) connect(userID string) {
	l.mu.Lock()
	if l.closed || l.cancel != nil {
		l.mu.Unlock()
		return
	}
	ctx, cancel := context.WithCancel(context.Background())
	l.cancel = cancel
	l.gen++
	gen := l.gen
	l.state = Connecting
	l.mu.Unlock()

	go l.run(ctx, userID, gen)
}

// disconnect cancels the run loop and closes the open connection exactly
// once, regardless of how many paths race into it.
func (l *Listener) disconnect() {
	l.mu.Lock()
	cancel := l.cancel
	conn := l.conn
	l.cancel = nil
	l.conn = nil
	l.state = Disconnected
	l.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	if conn != nil {
		conn.Close()
	}
}

// run dials the channel and pumps notifications until ctx is cancelled,
// reconnecting with capped exponential backoff. gen ties the loop to the
// connect call that spawned it; a loop that no longer owns the channel
// must not publish a connection or touch state.
func (l *Listener) run(ctx context.Context, userID string, gen uint64) {
	backoff := backoffMin
	for {
		if ctx.Err() != nil {
			return
		}
		conn, err := l.dial(ctx, userID)
		if err != nil {
			l.logger.Printf("listener: connect user_id=%s error=%v", userID, err)
			select {
			case <-ctx.Done():
				return
			case <-time.After(backoff):
			}
			backoff *= 2
			if backoff > backoffMax {
				backoff = backoffMax
			}
			continue
		}

		l.mu.Lock()
		if l.cancel == nil || l.gen != gen {
			// Disconnected, or superseded by a newer session, while dialing.
			l.mu.Unlock()
			conn.Close()
			return
		}
		l.conn = conn
		l.state = Connected
		l.mu.Unlock()
		l.logger.Printf("listener: connected user_id=%s", userID)
		backoff = backoffMin

		l.readLoop(conn)

		l.mu.Lock()
		if l.conn == conn {
			l.conn = nil
		}
		stopped := l.cancel == nil || l.gen != gen
		if !stopped {
			l.state = Connecting
		}
		l.mu.Unlock()
		conn.Close()
		if stopped {
			return
		}
	}
}

func (l *Listener) dial(ctx context.Context, userID string) (*websocket.Conn, error) {
	ticket, err := l.tickets.NotificationTicket(ctx)
	if err != nil {
		return nil, err
	}
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, l.wsURL+"?ticket="+ticket, nil)
	if err != nil {
		return nil, err
	}
	if err := conn.WriteJSON(Envelope{Event: EventRegister, UserID: userID}); err != nil {
		conn.Close()
		return nil, err
	}
	return conn, nil
}

func (l *Listener) readLoop(conn *websocket.Conn) {
	for {
		var env Envelope
		if err := conn.ReadJSON(&env); err != nil {
			return
		}
		if env.Event != EventNotification {
			continue
		}
		var n domain.Notification
		if err := json.Unmarshal(env.Payload, &n); err != nil {
			l.logger.Printf("listener: bad notification payload error=%v", err)
			continue
		}
		n.Read = false

		l.mu.Lock()
		l.history = append(l.history, n)
		if len(l.history) > historyLimit {
			l.history = l.history[len(l.history)-historyLimit:]
		}
		l.mu.Unlock()

		l.toast(n.Message)
	}
}
