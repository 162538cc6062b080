package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"ephemeral-chat/internal/models"
	"ephemeral-chat/internal/observability"
	"ephemeral-chat/internal/repositories"
)

// EntryGate guards room entry. It verifies the room exists, lets automated
// user agents through without consuming a capacity slot, and runs everyone
// else through the atomic admission primitive. A token granted here is
// handed to the join handler via the context and echoed in the
// X-Session-Token response header so the client can keep it.
func EntryGate(roomRepo repositories.RoomRepository, memberRepo repositories.MemberRepository, isAutomated func(string) bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		roomID := c.Param("room_id")
		room, err := roomRepo.GetRoom(c.Request.Context(), roomID)
		if err != nil {
			if errors.Is(err, repositories.ErrRoomNotFound) {
				c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "room-not-found"})
				return
			}
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "store unavailable"})
			return
		}

		if isAutomated(c.Request.UserAgent()) {
			c.Next()
			return
		}

		// A requester holding a live token keeps its slot.
		if token := TokenFromRequest(c); token != "" {
			live, err := memberRepo.IsMember(c.Request.Context(), roomID, token)
			if err != nil {
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "store unavailable"})
				return
			}
			if live {
				c.Set(GateTokenKey, token)
				c.Next()
				return
			}
		}

		token := models.NewSessionToken()
		admitted, err := memberRepo.Admit(c.Request.Context(), roomID, token, models.CapacityFor(room.Kind))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "store unavailable"})
			return
		}
		if !admitted {
			observability.IncAdmissionDenied()
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "room-full"})
			return
		}

		c.Set(GateTokenKey, token)
		c.Header("X-Session-Token", token)
		c.Next()
	}
}
