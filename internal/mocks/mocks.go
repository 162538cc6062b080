package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"ephemeral-chat/internal/models"
	"ephemeral-chat/internal/repositories"
	"ephemeral-chat/internal/ws"
)

type RoomRepositoryMock struct {
	mock.Mock
}

func (m *RoomRepositoryMock) CreateRoom(ctx context.Context, room models.Room) error {
	args := m.Called(ctx, room)
	return args.Error(0)
}

func (m *RoomRepositoryMock) GetRoom(ctx context.Context, roomID string) (models.Room, error) {
	args := m.Called(ctx, roomID)
	var room models.Room
	if val := args.Get(0); val != nil {
		room = val.(models.Room)
	}
	return room, args.Error(1)
}

func (m *RoomRepositoryMock) SaveMembers(ctx context.Context, roomID string, names, tokens []string) error {
	args := m.Called(ctx, roomID, names, tokens)
	return args.Error(0)
}

func (m *RoomRepositoryMock) DeleteRoom(ctx context.Context, roomID string) error {
	args := m.Called(ctx, roomID)
	return args.Error(0)
}

func (m *RoomRepositoryMock) Exists(ctx context.Context, roomID string) (bool, error) {
	args := m.Called(ctx, roomID)
	return args.Bool(0), args.Error(1)
}

func (m *RoomRepositoryMock) TTL(ctx context.Context, roomID string) (time.Duration, error) {
	args := m.Called(ctx, roomID)
	var d time.Duration
	if val := args.Get(0); val != nil {
		d = val.(time.Duration)
	}
	return d, args.Error(1)
}

type MemberRepositoryMock struct {
	mock.Mock
}

func (m *MemberRepositoryMock) Admit(ctx context.Context, roomID, token string, capacity int64) (bool, error) {
	args := m.Called(ctx, roomID, token, capacity)
	return args.Bool(0), args.Error(1)
}

func (m *MemberRepositoryMock) Remove(ctx context.Context, roomID, token string) error {
	args := m.Called(ctx, roomID, token)
	return args.Error(0)
}

func (m *MemberRepositoryMock) Count(ctx context.Context, roomID string) (int64, error) {
	args := m.Called(ctx, roomID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MemberRepositoryMock) IsMember(ctx context.Context, roomID, token string) (bool, error) {
	args := m.Called(ctx, roomID, token)
	return args.Bool(0), args.Error(1)
}

type MessageRepositoryMock struct {
	mock.Mock
}

func (m *MessageRepositoryMock) Append(ctx context.Context, msg models.Message) error {
	args := m.Called(ctx, msg)
	return args.Error(0)
}

func (m *MessageRepositoryMock) List(ctx context.Context, roomID string) ([]models.Message, error) {
	args := m.Called(ctx, roomID)
	var msgs []models.Message
	if val := args.Get(0); val != nil {
		msgs = val.([]models.Message)
	}
	return msgs, args.Error(1)
}

type BroadcasterMock struct {
	mock.Mock
}

func (m *BroadcasterMock) Emit(roomID string, event models.RoomEvent) {
	m.Called(roomID, event)
}

var _ repositories.RoomRepository = (*RoomRepositoryMock)(nil)
var _ repositories.MemberRepository = (*MemberRepositoryMock)(nil)
var _ repositories.MessageRepository = (*MessageRepositoryMock)(nil)
var _ ws.Broadcaster = (*BroadcasterMock)(nil)
