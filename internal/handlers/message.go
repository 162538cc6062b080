package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"ephemeral-chat/internal/middleware"
	"ephemeral-chat/internal/models"
	"ephemeral-chat/internal/repositories"
	"ephemeral-chat/internal/ws"
)

// MessageHandler manages the per-room message log endpoints.
type MessageHandler struct {
	roomRepo    repositories.RoomRepository
	messageRepo repositories.MessageRepository
	hub         ws.Broadcaster
}

// NewMessageHandler builds a MessageHandler.
func NewMessageHandler(roomRepo repositories.RoomRepository, messageRepo repositories.MessageRepository, hub ws.Broadcaster) *MessageHandler {
	return &MessageHandler{
		roomRepo:    roomRepo,
		messageRepo: messageRepo,
		hub:         hub,
	}
}

// PostMessage appends a message to the room's log and broadcasts it. The
// broadcast payload never carries the author's token.
func (h *MessageHandler) PostMessage(c *gin.Context) {
	roomID := c.GetString(middleware.RoomIDKey)
	token := c.GetString(middleware.TokenKey)

	var req struct {
		Sender string `json:"sender" binding:"required,max=100"`
		Text   string `json:"text" binding:"required,max=1000"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	msg := models.Message{
		ID:        uuid.NewString(),
		RoomID:    roomID,
		Sender:    req.Sender,
		Text:      req.Text,
		Token:     token,
		CreatedAt: time.Now().UTC(),
	}

	if err := h.messageRepo.Append(c.Request.Context(), msg); err != nil {
		if errors.Is(err, repositories.ErrRoomNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "room-not-found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "store unavailable"})
		return
	}

	broadcast := msg.WithoutToken()
	h.hub.Emit(roomID, models.RoomEvent{Type: models.EventMessage, Message: &broadcast})
	c.Status(http.StatusNoContent)
}

// ListMessages returns the full log in append order. A message's token is
// visible only to its author, so the UI can tell own messages from others'.
func (h *MessageHandler) ListMessages(c *gin.Context) {
	roomID := c.GetString(middleware.RoomIDKey)
	token := c.GetString(middleware.TokenKey)

	msgs, err := h.messageRepo.List(c.Request.Context(), roomID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "store unavailable"})
		return
	}

	out := make([]models.Message, 0, len(msgs))
	for _, msg := range msgs {
		if msg.Token != token {
			msg = msg.WithoutToken()
		}
		out = append(out, msg)
	}
	c.JSON(http.StatusOK, gin.H{"messages": out})
}
