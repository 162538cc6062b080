package ws

import (
	"testing"

	"ephemeral-chat/internal/models"
)

func TestHubAddAndRemoveClient(t *testing.T) {
	hub := NewHub()

	hub.AddClient("r1", nil, ConnInfo{ConnID: "c1"})
	if hub.Subscribers("r1") != 1 {
		t.Fatalf("expected room channel to be created")
	}

	hub.RemoveClient("r1", nil)
	if hub.Subscribers("r1") != 0 {
		t.Fatalf("expected room channel to be removed")
	}
	if len(hub.rooms) != 0 {
		t.Fatalf("expected empty room map to be dropped")
	}
}

func TestHubEmitToEmptyRoomIsNoop(t *testing.T) {
	hub := NewHub()

	hub.Emit("r1", models.RoomEvent{Type: models.EventDestroy, IsDestroyed: true})

	if len(hub.rooms) != 0 {
		t.Fatalf("emit must not create rooms")
	}
}
