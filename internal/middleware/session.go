package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"ephemeral-chat/internal/repositories"
)

// Context keys populated by the middlewares in this package.
const (
	RoomIDKey    = "roomID"
	TokenKey     = "token"
	GateTokenKey = "gateToken"
)

// SessionMiddleware is the session validator: it rejects the request unless
// the room's metadata record still exists and the presented token is live in
// the room's membership set. Every mutating or room-scoped read endpoint
// sits behind it. No tokens are issued here, only verified.
func SessionMiddleware(roomRepo repositories.RoomRepository, memberRepo repositories.MemberRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := TokenFromRequest(c)
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		roomID := c.Param("room_id")
		exists, err := roomRepo.Exists(c.Request.Context(), roomID)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "store unavailable"})
			return
		}
		if !exists {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		live, err := memberRepo.IsMember(c.Request.Context(), roomID, token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "store unavailable"})
			return
		}
		if !live {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		c.Set(RoomIDKey, roomID)
		c.Set(TokenKey, token)
		c.Next()
	}
}

// TokenFromRequest extracts the session token from the Authorization header
// or, failing that, the X-Session-Token header. How the credential travels
// is the client's concern; both transports are accepted.
func TokenFromRequest(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if header != "" {
		parts := strings.SplitN(header, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "bearer") {
			return parts[1]
		}
	}
	return c.GetHeader("X-Session-Token")
}
