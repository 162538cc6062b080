package repositories

// Key layout for a room's TTL group. All four keys share the room's
// lifetime: metadata and the member set are expired at creation, the channel
// key carries its own TTL, and the message log is re-synced on every append.
func metaKey(roomID string) string     { return "room:" + roomID }
func membersKey(roomID string) string  { return "room:" + roomID + ":members" }
func messagesKey(roomID string) string { return "room:" + roomID + ":messages" }
func channelKey(roomID string) string  { return "room:" + roomID + ":channel" }
