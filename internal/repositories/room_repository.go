package repositories

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"ephemeral-chat/internal/models"
	"ephemeral-chat/internal/store"
)

var (
	ErrRoomNotFound = errors.New("room not found")
	ErrRoomFull     = errors.New("room full")
)

// RoomRepository owns room metadata and its TTL group.
type RoomRepository interface {
	CreateRoom(ctx context.Context, room models.Room) error
	GetRoom(ctx context.Context, roomID string) (models.Room, error)
	SaveMembers(ctx context.Context, roomID string, names, tokens []string) error
	DeleteRoom(ctx context.Context, roomID string) error
	Exists(ctx context.Context, roomID string) (bool, error)
	TTL(ctx context.Context, roomID string) (time.Duration, error)
}

// RoomRepo is the store-backed RoomRepository.
type RoomRepo struct {
	store store.Store
}

// NewRoomRepo constructs a RoomRepo.
func NewRoomRepo(s store.Store) *RoomRepo {
	return &RoomRepo{store: s}
}

// CreateRoom writes the metadata record, seeds the membership set with the
// creator's token, marks the channel key, and puts the whole TTL group on
// the fixed room lifetime. The room id is freshly generated, so no other
// writer can race these keys.
func (r *RoomRepo) CreateRoom(ctx context.Context, room models.Room) error {
	fields, err := metaFields(room)
	if err != nil {
		return err
	}
	if err := r.store.HSet(ctx, metaKey(room.ID), fields); err != nil {
		return fmt.Errorf("create room meta: %w", err)
	}
	for _, token := range room.Tokens {
		if err := r.store.SAdd(ctx, membersKey(room.ID), token); err != nil {
			return fmt.Errorf("seed member set: %w", err)
		}
	}
	if err := r.store.Set(ctx, channelKey(room.ID), "open", models.RoomTTL); err != nil {
		return fmt.Errorf("mark channel: %w", err)
	}
	if err := r.store.Expire(ctx, metaKey(room.ID), models.RoomTTL); err != nil {
		return fmt.Errorf("expire room meta: %w", err)
	}
	if err := r.store.Expire(ctx, membersKey(room.ID), models.RoomTTL); err != nil {
		return fmt.Errorf("expire member set: %w", err)
	}
	return nil
}

// GetRoom loads a room's metadata. Absence of the record means the room is
// gone, expired or destroyed alike.
func (r *RoomRepo) GetRoom(ctx context.Context, roomID string) (models.Room, error) {
	fields, err := r.store.HGetAll(ctx, metaKey(roomID))
	if err != nil {
		return models.Room{}, err
	}
	if len(fields) == 0 {
		return models.Room{}, ErrRoomNotFound
	}
	room := models.Room{ID: roomID, Kind: fields["kind"]}
	if raw := fields["created_at"]; raw != "" {
		if room.CreatedAt, err = time.Parse(time.RFC3339Nano, raw); err != nil {
			return models.Room{}, fmt.Errorf("parse created_at: %w", err)
		}
	}
	if err := json.Unmarshal([]byte(fields["names"]), &room.Names); err != nil {
		return models.Room{}, fmt.Errorf("parse names: %w", err)
	}
	if err := json.Unmarshal([]byte(fields["tokens"]), &room.Tokens); err != nil {
		return models.Room{}, fmt.Errorf("parse tokens: %w", err)
	}
	return room, nil
}

// SaveMembers rewrites the parallel name and token sequences. HSET keeps the
// key's existing TTL, so saving never extends the room's life.
func (r *RoomRepo) SaveMembers(ctx context.Context, roomID string, names, tokens []string) error {
	namesJSON, err := json.Marshal(names)
	if err != nil {
		return err
	}
	tokensJSON, err := json.Marshal(tokens)
	if err != nil {
		return err
	}
	return r.store.HSet(ctx, metaKey(roomID), map[string]string{
		"names":  string(namesJSON),
		"tokens": string(tokensJSON),
	})
}

// DeleteRoom removes the full TTL group in one call.
func (r *RoomRepo) DeleteRoom(ctx context.Context, roomID string) error {
	return r.store.Del(ctx, metaKey(roomID), membersKey(roomID), messagesKey(roomID), channelKey(roomID))
}

// Exists reports whether the metadata record is still present.
func (r *RoomRepo) Exists(ctx context.Context, roomID string) (bool, error) {
	return r.store.Exists(ctx, metaKey(roomID))
}

// TTL returns the room's remaining lifetime.
func (r *RoomRepo) TTL(ctx context.Context, roomID string) (time.Duration, error) {
	d, err := r.store.TTL(ctx, metaKey(roomID))
	if errors.Is(err, store.ErrNotFound) {
		return 0, ErrRoomNotFound
	}
	return d, err
}

func metaFields(room models.Room) (map[string]string, error) {
	namesJSON, err := json.Marshal(room.Names)
	if err != nil {
		return nil, err
	}
	tokensJSON, err := json.Marshal(room.Tokens)
	if err != nil {
		return nil, err
	}
	return map[string]string{
		"kind":       room.Kind,
		"created_at": room.CreatedAt.UTC().Format(time.RFC3339Nano),
		"names":      string(namesJSON),
		"tokens":     string(tokensJSON),
	}, nil
}

var _ RoomRepository = (*RoomRepo)(nil)
