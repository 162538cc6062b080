package repositories

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ephemeral-chat/internal/models"
	"ephemeral-chat/internal/store"
)

func TestAppendToMissingRoomFails(t *testing.T) {
	s := store.NewMemStore()
	repo := NewMessageRepo(s)
	ctx := context.Background()

	err := repo.Append(ctx, models.Message{ID: "m1", RoomID: "nope", Sender: "alice", Text: "hi"})
	assert.ErrorIs(t, err, ErrRoomNotFound)

	exists, err := s.Exists(ctx, "room:nope:messages")
	require.NoError(t, err)
	assert.False(t, exists, "no log entry may be written")
}

func TestListPreservesAppendOrder(t *testing.T) {
	s := store.NewMemStore()
	roomRepo := NewRoomRepo(s)
	repo := NewMessageRepo(s)
	ctx := context.Background()

	require.NoError(t, roomRepo.CreateRoom(ctx, testRoom("r1")))

	for i, text := range []string{"first", "second", "third"} {
		msg := models.Message{
			ID:        string(rune('a' + i)),
			RoomID:    "r1",
			Sender:    "alice",
			Text:      text,
			Token:     "tok-alice",
			CreatedAt: time.Now().UTC(),
		}
		require.NoError(t, repo.Append(ctx, msg))
	}

	msgs, err := repo.List(ctx, "r1")
	require.NoError(t, err)
	require.Len(t, msgs, 3)
	assert.Equal(t, "first", msgs[0].Text)
	assert.Equal(t, "second", msgs[1].Text)
	assert.Equal(t, "third", msgs[2].Text)
	assert.Equal(t, "tok-alice", msgs[0].Token)
}

func TestAppendSyncsLogTTLToRemainingRoomTTL(t *testing.T) {
	s := store.NewMemStore()
	roomRepo := NewRoomRepo(s)
	repo := NewMessageRepo(s)
	ctx := context.Background()

	base := time.Now()
	now := base
	s.SetClock(func() time.Time { return now })

	require.NoError(t, roomRepo.CreateRoom(ctx, testRoom("r1")))

	// Four minutes in, the room has six minutes left. The log must pick up
	// the remaining TTL, not the original full duration.
	now = base.Add(4 * time.Minute)
	require.NoError(t, repo.Append(ctx, models.Message{ID: "m1", RoomID: "r1", Sender: "alice", Text: "hi"}))

	logTTL, err := s.TTL(ctx, "room:r1:messages")
	require.NoError(t, err)
	assert.Equal(t, 6*time.Minute, logTTL)

	roomTTL, err := roomRepo.TTL(ctx, "r1")
	require.NoError(t, err)
	assert.Equal(t, roomTTL, logTTL)
}

func TestAppendDoesNotExtendRoomLife(t *testing.T) {
	s := store.NewMemStore()
	roomRepo := NewRoomRepo(s)
	repo := NewMessageRepo(s)
	ctx := context.Background()

	base := time.Now()
	now := base
	s.SetClock(func() time.Time { return now })

	require.NoError(t, roomRepo.CreateRoom(ctx, testRoom("r1")))

	now = base.Add(9 * time.Minute)
	require.NoError(t, repo.Append(ctx, models.Message{ID: "m1", RoomID: "r1", Sender: "alice", Text: "still here"}))

	remaining, err := roomRepo.TTL(ctx, "r1")
	require.NoError(t, err)
	assert.Equal(t, time.Minute, remaining)

	now = base.Add(models.RoomTTL + time.Second)
	_, err = roomRepo.GetRoom(ctx, "r1")
	assert.ErrorIs(t, err, ErrRoomNotFound)

	msgs, err := repo.List(ctx, "r1")
	require.NoError(t, err)
	assert.Empty(t, msgs, "log expires with the room")
}
