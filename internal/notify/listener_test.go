package notify

import (
	"context"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"storefront-api/internal/session"
)

type stubTickets struct {
	ticket string
	err    error
}

func (s *stubTickets) NotificationTicket(_ context.Context) (string, error) {
	return s.ticket, s.err
}

func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(3 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatalf("timed out waiting for %s", what)
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func newChannelFixture(t *testing.T) (*Hub, *httptest.Server, *session.Store) {
	t.Helper()
	hub := NewHub(nil)
	ctx, cancel := context.WithCancel(context.Background())
	go hub.Run(ctx)
	t.Cleanup(cancel)

	srv := httptest.NewServer(hub.ServeWS(&stubVerifier{userID: "u1"}))
	t.Cleanup(srv.Close)

	return hub, srv, session.NewStore(session.NewMemoryStorage())
}

func TestListenerConnectsOnLogin(t *testing.T) {
	hub, srv, store := newChannelFixture(t)

	var mu sync.Mutex
	var toasts []string
	listener := NewListener(store, &stubTickets{ticket: "tkt"}, wsURL(srv), func(m string) {
		mu.Lock()
		toasts = append(toasts, m)
		mu.Unlock()
	}, nil)
	defer listener.Close()

	listener.Start()
	if listener.State() != Disconnected {
		t.Fatalf("logged-out listener should stay disconnected, got %s", listener.State())
	}

	store.LoginSuccess(session.Profile{ID: "u1", Token: "tok"})

	waitFor(t, "connection", func() bool { return listener.State() == Connected })

	hub.Notify("u1", "status changed")

	waitFor(t, "notification", func() bool { return listener.Unread() == 1 })

	history := listener.History()
	if len(history) != 1 || history[0].Message != "status changed" {
		t.Fatalf("unexpected history: %+v", history)
	}
	mu.Lock()
	gotToast := len(toasts) == 1 && toasts[0] == "status changed"
	mu.Unlock()
	if !gotToast {
		t.Fatalf("toast not surfaced: %v", toasts)
	}

	listener.MarkAllRead()
	if listener.Unread() != 0 {
		t.Fatalf("unread count not cleared")
	}
}

func TestListenerDisconnectsOnLogout(t *testing.T) {
	_, srv, store := newChannelFixture(t)

	store.LoginSuccess(session.Profile{ID: "u1", Token: "tok"})

	listener := NewListener(store, &stubTickets{ticket: "tkt"}, wsURL(srv), nil, nil)
	defer listener.Close()

	listener.Start()
	waitFor(t, "connection", func() bool { return listener.State() == Connected })

	store.LogoutSuccess()

	if listener.State() != Disconnected {
		t.Fatalf("logout should disconnect synchronously, got %s", listener.State())
	}
}

func TestListenerAlreadyLoggedIn(t *testing.T) {
	_, srv, store := newChannelFixture(t)
	store.LoginSuccess(session.Profile{ID: "u1", Token: "tok"})

	listener := NewListener(store, &stubTickets{ticket: "tkt"}, wsURL(srv), nil, nil)
	defer listener.Close()

	listener.Start()
	waitFor(t, "connection", func() bool { return listener.State() == Connected })
}

func TestListenerCloseIdempotent(t *testing.T) {
	_, srv, store := newChannelFixture(t)

	listener := NewListener(store, &stubTickets{ticket: "tkt"}, wsURL(srv), nil, nil)
	listener.Start()
	listener.Close()
	listener.Close()

	store.LoginSuccess(session.Profile{ID: "u1", Token: "tok"})
	time.Sleep(50 * time.Millisecond)

	if listener.State() != Disconnected {
		t.Fatalf("closed listener must not reconnect, got %s", listener.State())
	}
}

func TestStaleRunCannotAdoptConnection(t *testing.T) {
	_, srv, store := newChannelFixture(t)

	listener := NewListener(store, &stubTickets{ticket: "tkt"}, wsURL(srv), nil, nil)
	defer listener.Close()

	listener.Start()
	store.LoginSuccess(session.Profile{ID: "u1", Token: "tok"})
	waitFor(t, "connection", func() bool { return listener.State() == Connected })

	listener.mu.Lock()
	liveConn := listener.conn
	staleGen := listener.gen - 1
	listener.mu.Unlock()

	// A loop left over from an earlier session dials successfully but must
	// fail the ownership check, close its own connection, and exit without
	// touching the live one.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan struct{})
	go func() {
		listener.run(ctx, "u1", staleGen)
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(3 * time.Second):
		t.Fatalf("stale loop did not exit")
	}

	if listener.State() != Connected {
		t.Fatalf("stale loop changed channel state: %s", listener.State())
	}
	listener.mu.Lock()
	same := listener.conn == liveConn
	listener.mu.Unlock()
	if !same {
		t.Fatalf("stale loop replaced the live connection")
	}
}

func TestListenerRetriesAfterFailure(t *testing.T) {
	// A dead endpoint should leave the listener in Connecting, not give up.
	store := session.NewStore(session.NewMemoryStorage())

	listener := NewListener(store, &stubTickets{ticket: "tkt"}, "ws://127.0.0.1:1/ws", nil, nil)
	defer listener.Close()

	listener.Start()
	store.LoginSuccess(session.Profile{ID: "u1", Token: "tok"})

	waitFor(t, "connecting state", func() bool { return listener.State() == Connecting })
}
