package models

import "time"

// Message is a single entry in a room's append-only log. Token records the
// author's session token; it is kept so listings can mark the caller's own
// messages and is stripped before any broadcast or cross-user response.
type Message struct {
	ID        string    `json:"id"`
	RoomID    string    `json:"room_id"`
	Sender    string    `json:"sender"`
	Text      string    `json:"text"`
	Token     string    `json:"token,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// WithoutToken returns a copy safe to show to anyone but the author.
func (m Message) WithoutToken() Message {
	m.Token = ""
	return m
}
