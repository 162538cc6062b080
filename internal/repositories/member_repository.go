package repositories

import (
	"context"

	"ephemeral-chat/internal/store"
)

// MemberRepository owns the set of live session tokens for a room. Admit is
// the single capacity authority: both the entry gate and the join endpoint
// go through it.
type MemberRepository interface {
	Admit(ctx context.Context, roomID, token string, capacity int64) (bool, error)
	Remove(ctx context.Context, roomID, token string) error
	Count(ctx context.Context, roomID string) (int64, error)
	IsMember(ctx context.Context, roomID, token string) (bool, error)
}

// MemberRepo is the store-backed MemberRepository.
type MemberRepo struct {
	store store.Store
}

// NewMemberRepo constructs a MemberRepo.
func NewMemberRepo(s store.Store) *MemberRepo {
	return &MemberRepo{store: s}
}

// Admit inserts token into the room's membership set iff current cardinality
// is below capacity, as one indivisible store-side operation. Capacity 0
// admits unconditionally.
func (r *MemberRepo) Admit(ctx context.Context, roomID, token string, capacity int64) (bool, error) {
	return r.store.AdmitMember(ctx, membersKey(roomID), token, capacity)
}

// Remove drops a token from the membership set.
func (r *MemberRepo) Remove(ctx context.Context, roomID, token string) error {
	return r.store.SRem(ctx, membersKey(roomID), token)
}

// Count returns the number of live tokens.
func (r *MemberRepo) Count(ctx context.Context, roomID string) (int64, error) {
	return r.store.SCard(ctx, membersKey(roomID))
}

// IsMember reports whether token is live for the room.
func (r *MemberRepo) IsMember(ctx context.Context, roomID, token string) (bool, error) {
	return r.store.SIsMember(ctx, membersKey(roomID), token)
}

var _ MemberRepository = (*MemberRepo)(nil)
