package models

// Room event names delivered over the per-room channel.
const (
	EventUserJoined = "user_joined"
	EventUserLeft   = "user_left"
	EventMessage    = "chat.message"
	EventDestroy    = "chat.destroy"
)

// RoomEvent is broadcast through websockets to everyone subscribed to a
// room. Exactly one of the payload fields is set, matching Type.
type RoomEvent struct {
	Type        string   `json:"type"`
	DisplayName string   `json:"display_name,omitempty"`
	Message     *Message `json:"message,omitempty"`
	IsDestroyed bool     `json:"is_destroyed,omitempty"`
}
