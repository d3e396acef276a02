// Package notify implements the per-user push channel: the server-side Hub
// that fans notifications out to a user's open connections, and the
// client-side Listener that consumes them.
package notify

import (
	"context"
	"encoding/json"
	"io"
	"log"
	"net/http"
	"sync"
	"time"

	"storefront-api/internal/domain"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

const (
	// historyLimit bounds the per-user unread backlog kept in memory.
	historyLimit = 50

	writeWait      = 10 * time.Second
	registerWait   = 10 * time.Second
	sendBufferSize = 16
)

// Envelope is the wire frame exchanged on the channel.
type Envelope struct {
	Event   string          `json:"event"`
	UserID  string          `json:"userId,omitempty"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Channel event names.
const (
	EventRegister     = "register"
	EventNotification = "notification"
)

type hubClient struct {
	conn   *websocket.Conn
	userID string
	send   chan []byte
}

// Hub tracks connected clients per user id and keeps a bounded in-memory
// notification history with read/unread state. History is never persisted;
// it lives and dies with the process.
type Hub struct {
	logger *log.Logger

	register   chan *hubClient
	unregister chan *hubClient
	done       chan struct{}

	mu      sync.RWMutex
	clients map[string]map[*hubClient]bool
	history map[string][]domain.Notification
}

func NewHub(logger *log.Logger) *Hub {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Hub{
		logger:     logger,
		register:   make(chan *hubClient),
		unregister: make(chan *hubClient),
		done:       make(chan struct{}),
		clients:    make(map[string]map[*hubClient]bool),
		history:    make(map[string][]domain.Notification),
	}
}

// Run owns client registration. It returns when ctx is done.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			if _, ok := h.clients[client.userID]; !ok {
				h.clients[client.userID] = make(map[*hubClient]bool)
			}
			h.clients[client.userID][client] = true
			h.mu.Unlock()
			h.logger.Printf("hub: client registered user_id=%s", client.userID)

		case client := <-h.unregister:
			h.mu.Lock()
			if clients, ok := h.clients[client.userID]; ok {
				if _, ok := clients[client]; ok {
					delete(clients, client)
					close(client.send)
					if len(clients) == 0 {
						delete(h.clients, client.userID)
					}
				}
			}
			h.mu.Unlock()
			h.logger.Printf("hub: client unregistered user_id=%s", client.userID)

		case <-ctx.Done():
			close(h.done)
			h.mu.Lock()
			for _, clients := range h.clients {
				for client := range clients {
					close(client.send)
				}
			}
			h.clients = make(map[string]map[*hubClient]bool)
			h.mu.Unlock()
			return
		}
	}
}

// Notify records a notification for the user and pushes it to every open
// connection. Delivery to slow clients is dropped rather than blocking.
func (h *Hub) Notify(userID, message string) domain.Notification {
	n := domain.Notification{
		ID:        uuid.NewString(),
		UserID:    userID,
		Message:   message,
		Read:      false,
		CreatedAt: time.Now().UTC(),
	}

	payload, err := json.Marshal(n)
	if err != nil {
		h.logger.Printf("hub: marshal notification user_id=%s error=%v", userID, err)
		return n
	}
	frame, _ := json.Marshal(Envelope{Event: EventNotification, Payload: payload})

	h.mu.Lock()
	list := append(h.history[userID], n)
	if len(list) > historyLimit {
		list = list[len(list)-historyLimit:]
	}
	h.history[userID] = list

	for client := range h.clients[userID] {
		select {
		case client.send <- frame:
		default:
		}
	}
	h.mu.Unlock()

	h.logger.Printf("hub: notified user_id=%s id=%s", userID, n.ID)
	return n
}

// History returns the user's retained notifications, oldest first.
func (h *Hub) History(userID string) []domain.Notification {
	h.mu.RLock()
	defer h.mu.RUnlock()
	out := make([]domain.Notification, len(h.history[userID]))
	copy(out, h.history[userID])
	return out
}

// MarkAllRead flips every retained notification for the user to read.
func (h *Hub) MarkAllRead(userID string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	list := h.history[userID]
	for i := range list {
		list[i].Read = true
	}
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// ticketVerifier resolves a handshake ticket to a user id.
type ticketVerifier interface {
	Verify(ticket string) (string, error)
}

// ServeWS upgrades the connection and joins the caller to its user room.
// The handshake requires a valid ticket query parameter; the first frame
// must be a register event whose user id matches the ticket subject.
func (h *Hub) ServeWS(tickets ticketVerifier) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := tickets.Verify(r.URL.Query().Get("ticket"))
		if err != nil {
			http.Error(w, "invalid ticket", http.StatusUnauthorized)
			return
		}

		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			h.logger.Printf("hub: upgrade error=%v remote=%s", err, r.RemoteAddr)
			return
		}

		conn.SetReadDeadline(time.Now().Add(registerWait))
		var reg Envelope
		if err := conn.ReadJSON(&reg); err != nil || reg.Event != EventRegister || reg.UserID != userID {
			h.logger.Printf("hub: bad register frame user_id=%s remote=%s", userID, r.RemoteAddr)
			conn.Close()
			return
		}
		conn.SetReadDeadline(time.Time{})

		client := &hubClient{
			conn:   conn,
			userID: userID,
			send:   make(chan []byte, sendBufferSize),
		}
		select {
		case h.register <- client:
		case <-h.done:
			conn.Close()
			return
		}

		go h.writePump(client)
		h.readPump(client)
	}
}

func (h *Hub) writePump(c *hubClient) {
	for frame := range c.send {
		c.conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := c.conn.WriteMessage(websocket.TextMessage, frame); err != nil {
			break
		}
	}
	c.conn.Close()
}

func (h *Hub) readPump(c *hubClient) {
	defer func() {
		select {
		case h.unregister <- c:
		case <-h.done:
		}
		c.conn.Close()
	}()
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.logger.Printf("hub: read error user_id=%s error=%v", c.userID, err)
			}
			return
		}
	}
}
