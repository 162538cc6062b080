package repositories

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"ephemeral-chat/internal/models"
	"ephemeral-chat/internal/store"
)

// MessageRepository owns a room's append-only message log.
type MessageRepository interface {
	Append(ctx context.Context, msg models.Message) error
	List(ctx context.Context, roomID string) ([]models.Message, error)
}

// MessageRepo is the store-backed MessageRepository.
type MessageRepo struct {
	store store.Store
}

// NewMessageRepo constructs a MessageRepo.
func NewMessageRepo(s store.Store) *MessageRepo {
	return &MessageRepo{store: s}
}

// Append pushes the message onto the room's log and re-syncs the log's TTL
// to the metadata record's remaining lifetime, read immediately before the
// reset. Messaging never extends a room's life; the sync only keeps the log
// from outliving the room. Rooms whose metadata is gone reject the append
// with ErrRoomNotFound and no log entry is written.
func (r *MessageRepo) Append(ctx context.Context, msg models.Message) error {
	remaining, err := r.store.TTL(ctx, metaKey(msg.RoomID))
	if errors.Is(err, store.ErrNotFound) {
		return ErrRoomNotFound
	}
	if err != nil {
		return fmt.Errorf("read room ttl: %w", err)
	}

	payload, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	if err := r.store.RPush(ctx, messagesKey(msg.RoomID), string(payload)); err != nil {
		return fmt.Errorf("append message: %w", err)
	}
	if remaining > 0 {
		if err := r.store.Expire(ctx, messagesKey(msg.RoomID), remaining); err != nil {
			return fmt.Errorf("sync log ttl: %w", err)
		}
	}
	return nil
}

// List returns the full log in append order. No pagination.
func (r *MessageRepo) List(ctx context.Context, roomID string) ([]models.Message, error) {
	raw, err := r.store.LRange(ctx, messagesKey(roomID))
	if err != nil {
		return nil, err
	}
	msgs := make([]models.Message, 0, len(raw))
	for _, entry := range raw {
		var msg models.Message
		if err := json.Unmarshal([]byte(entry), &msg); err != nil {
			return nil, fmt.Errorf("decode message: %w", err)
		}
		msgs = append(msgs, msg)
	}
	return msgs, nil
}

var _ MessageRepository = (*MessageRepo)(nil)
