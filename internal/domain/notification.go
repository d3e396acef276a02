package domain

import "time"

// Notification is a transient per-user message delivered over the push
// channel. It lives in memory only and is never persisted.
type Notification struct {
	ID        string    `json:"id"`
	UserID    string    `json:"-"`
	Message   string    `json:"message"`
	Read      bool      `json:"read"`
	CreatedAt time.Time `json:"createdAt"`
}
