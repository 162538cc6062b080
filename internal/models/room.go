package models

import "time"

// Room kinds. Private rooms admit at most two participants; group rooms
// carry no enforced cap.
const (
	KindGroup   = "group"
	KindPrivate = "private"
)

// RoomTTL is the fixed lifetime of a room. It is set once at creation and
// never refreshed; activity does not extend it.
const RoomTTL = 10 * time.Minute

// CapacityFor returns the admission cap for a room kind. Zero means
// unbounded.
func CapacityFor(kind string) int64 {
	if kind == KindPrivate {
		return 2
	}
	return 0
}

// Room is the registry record for a live room. Names and Tokens are parallel
// sequences in join order: Tokens[i] is the session token of the participant
// shown as Names[i]. Names may repeat; tokens never do.
type Room struct {
	ID        string    `json:"room_id"`
	Kind      string    `json:"kind"`
	CreatedAt time.Time `json:"created_at"`
	Names     []string  `json:"names"`
	Tokens    []string  `json:"-"`
}
