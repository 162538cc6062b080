package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"ephemeral-chat/internal/middleware"
	"ephemeral-chat/internal/models"
	"ephemeral-chat/internal/observability"
	"ephemeral-chat/internal/repositories"
	"ephemeral-chat/internal/telemetry"
	"ephemeral-chat/internal/ws"
)

// RoomHandler manages room lifecycle endpoints.
type RoomHandler struct {
	roomRepo   repositories.RoomRepository
	memberRepo repositories.MemberRepository
	hub        ws.Broadcaster
	audit      *telemetry.AuditEmitter
}

// NewRoomHandler builds a RoomHandler.
func NewRoomHandler(roomRepo repositories.RoomRepository, memberRepo repositories.MemberRepository, hub ws.Broadcaster, audit *telemetry.AuditEmitter) *RoomHandler {
	return &RoomHandler{
		roomRepo:   roomRepo,
		memberRepo: memberRepo,
		hub:        hub,
		audit:      audit,
	}
}

// CreateRoom allocates a brand-new room with the caller as first member and
// puts the whole TTL group on the fixed ten-minute lifetime. Existing group
// rooms are never reused.
func (h *RoomHandler) CreateRoom(c *gin.Context) {
	var req struct {
		Kind        string `json:"kind" binding:"required,oneof=group private"`
		DisplayName string `json:"display_name" binding:"required,max=100"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	token := models.NewSessionToken()
	room := models.Room{
		ID:        uuid.NewString(),
		Kind:      req.Kind,
		CreatedAt: time.Now().UTC(),
		Names:     []string{req.DisplayName},
		Tokens:    []string{token},
	}

	if err := h.roomRepo.CreateRoom(c.Request.Context(), room); err != nil {
		observability.IncRoomOperation("create", "error")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not create room"})
		return
	}

	observability.IncRoomOperation("create", "ok")
	h.audit.Emit(c.Request.Context(), "INFO", "room created", requestIDFromContext(c), &room.ID)
	c.JSON(http.StatusCreated, gin.H{"room_id": room.ID, "token": token, "kind": room.Kind})
}

// JoinRoom admits a new participant. The entry gate may have already granted
// a slot through the atomic admission script; if so that token is reused,
// otherwise the same script decides here. There is no other capacity check.
func (h *RoomHandler) JoinRoom(c *gin.Context) {
	roomID := c.Param("room_id")

	room, err := h.roomRepo.GetRoom(c.Request.Context(), roomID)
	if err != nil {
		if errors.Is(err, repositories.ErrRoomNotFound) {
			observability.IncRoomOperation("join", "not_found")
			c.JSON(http.StatusNotFound, gin.H{"error": "room-not-found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "store unavailable"})
		return
	}

	var req struct {
		DisplayName string `json:"display_name" binding:"required,max=100"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	token := c.GetString(middleware.GateTokenKey)
	if token == "" {
		token = models.NewSessionToken()
		admitted, err := h.memberRepo.Admit(c.Request.Context(), roomID, token, models.CapacityFor(room.Kind))
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "store unavailable"})
			return
		}
		if !admitted {
			observability.IncAdmissionDenied()
			observability.IncRoomOperation("join", "full")
			c.JSON(http.StatusForbidden, gin.H{"error": "room-full"})
			return
		}
	}

	room.Names = append(room.Names, req.DisplayName)
	room.Tokens = append(room.Tokens, token)
	if err := h.roomRepo.SaveMembers(c.Request.Context(), roomID, room.Names, room.Tokens); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "store unavailable"})
		return
	}

	observability.IncRoomOperation("join", "ok")
	h.hub.Emit(roomID, models.RoomEvent{Type: models.EventUserJoined, DisplayName: req.DisplayName})
	c.JSON(http.StatusOK, gin.H{"room_id": roomID, "token": token, "kind": room.Kind})
}

// GetTTL returns the room's remaining lifetime in whole seconds.
func (h *RoomHandler) GetTTL(c *gin.Context) {
	roomID := c.GetString(middleware.RoomIDKey)

	remaining, err := h.roomRepo.TTL(c.Request.Context(), roomID)
	if err != nil {
		if errors.Is(err, repositories.ErrRoomNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "room-not-found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "store unavailable"})
		return
	}
	if remaining < 0 {
		remaining = 0
	}
	c.JSON(http.StatusOK, gin.H{"ttl_seconds": int64(remaining.Seconds())})
}

// GetUsers returns the display names of current members in join order.
func (h *RoomHandler) GetUsers(c *gin.Context) {
	roomID := c.GetString(middleware.RoomIDKey)

	room, err := h.roomRepo.GetRoom(c.Request.Context(), roomID)
	if err != nil {
		if errors.Is(err, repositories.ErrRoomNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "room-not-found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "store unavailable"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"users": room.Names, "kind": room.Kind})
}

// LeaveRoom removes the caller's name and token. The last member leaving
// destroys the room outright: metadata and log are deleted and a single
// chat.destroy event fires instead of user_left. A room that already expired
// is a successful no-op.
func (h *RoomHandler) LeaveRoom(c *gin.Context) {
	roomID := c.GetString(middleware.RoomIDKey)
	token := c.GetString(middleware.TokenKey)

	room, err := h.roomRepo.GetRoom(c.Request.Context(), roomID)
	if err != nil {
		if errors.Is(err, repositories.ErrRoomNotFound) {
			c.JSON(http.StatusOK, gin.H{"success": true})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "store unavailable"})
		return
	}

	departed := ""
	for i, t := range room.Tokens {
		if t == token {
			if i < len(room.Names) {
				departed = room.Names[i]
				room.Names = append(room.Names[:i], room.Names[i+1:]...)
			}
			room.Tokens = append(room.Tokens[:i], room.Tokens[i+1:]...)
			break
		}
	}

	if err := h.memberRepo.Remove(c.Request.Context(), roomID, token); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "store unavailable"})
		return
	}

	if len(room.Names) == 0 {
		if err := h.destroyRoom(c.Request.Context(), roomID); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "store unavailable"})
			return
		}
		observability.IncRoomOperation("leave", "destroyed")
		h.audit.Emit(c.Request.Context(), "INFO", "room destroyed by last leave", requestIDFromContext(c), &roomID)
		c.JSON(http.StatusOK, gin.H{"success": true})
		return
	}

	if err := h.roomRepo.SaveMembers(c.Request.Context(), roomID, room.Names, room.Tokens); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "store unavailable"})
		return
	}

	observability.IncRoomOperation("leave", "ok")
	h.hub.Emit(roomID, models.RoomEvent{Type: models.EventUserLeft, DisplayName: departed})
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// DestroyRoom tears the room down regardless of remaining members. Manual
// destruction is reserved for private rooms.
func (h *RoomHandler) DestroyRoom(c *gin.Context) {
	roomID := c.GetString(middleware.RoomIDKey)

	room, err := h.roomRepo.GetRoom(c.Request.Context(), roomID)
	if err != nil {
		if errors.Is(err, repositories.ErrRoomNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "room-not-found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "store unavailable"})
		return
	}
	if room.Kind == models.KindGroup {
		observability.IncRoomOperation("destroy", "forbidden")
		c.JSON(http.StatusForbidden, gin.H{"error": "forbidden"})
		return
	}

	if err := h.destroyRoom(c.Request.Context(), roomID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "store unavailable"})
		return
	}

	observability.IncRoomOperation("destroy", "ok")
	h.audit.Emit(c.Request.Context(), "INFO", "room destroyed", requestIDFromContext(c), &roomID)
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// destroyRoom announces the destruction, then deletes metadata, membership,
// message log, and channel state as one logical unit.
func (h *RoomHandler) destroyRoom(ctx context.Context, roomID string) error {
	h.hub.Emit(roomID, models.RoomEvent{Type: models.EventDestroy, IsDestroyed: true})
	return h.roomRepo.DeleteRoom(ctx, roomID)
}
