package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ephemeral-chat/internal/mocks"
	"github.com/stretchr/testify/mock"
)

func setupSessionRouter(roomRepo *mocks.RoomRepositoryMock, memberRepo *mocks.MemberRepositoryMock) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/rooms/:room_id/probe", SessionMiddleware(roomRepo, memberRepo), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"room_id": c.GetString(RoomIDKey),
			"token":   c.GetString(TokenKey),
		})
	})
	return r
}

func TestSessionMissingToken(t *testing.T) {
	router := setupSessionRouter(new(mocks.RoomRepositoryMock), new(mocks.MemberRepositoryMock))

	req := httptest.NewRequest(http.MethodGet, "/rooms/r1/probe", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestSessionRoomGone(t *testing.T) {
	roomRepo := new(mocks.RoomRepositoryMock)
	roomRepo.On("Exists", mock.Anything, "r1").Return(false, nil).Once()
	router := setupSessionRouter(roomRepo, new(mocks.MemberRepositoryMock))

	req := httptest.NewRequest(http.MethodGet, "/rooms/r1/probe", nil)
	req.Header.Set("Authorization", "Bearer tok")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusUnauthorized, rec.Code)
	roomRepo.AssertExpectations(t)
}

func TestSessionStaleToken(t *testing.T) {
	roomRepo := new(mocks.RoomRepositoryMock)
	memberRepo := new(mocks.MemberRepositoryMock)
	roomRepo.On("Exists", mock.Anything, "r1").Return(true, nil).Once()
	memberRepo.On("IsMember", mock.Anything, "r1", "stale").Return(false, nil).Once()
	router := setupSessionRouter(roomRepo, memberRepo)

	req := httptest.NewRequest(http.MethodGet, "/rooms/r1/probe", nil)
	req.Header.Set("Authorization", "Bearer stale")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusUnauthorized, rec.Code)
	memberRepo.AssertExpectations(t)
}

func TestSessionLiveToken(t *testing.T) {
	roomRepo := new(mocks.RoomRepositoryMock)
	memberRepo := new(mocks.MemberRepositoryMock)
	roomRepo.On("Exists", mock.Anything, "r1").Return(true, nil).Once()
	memberRepo.On("IsMember", mock.Anything, "r1", "tok").Return(true, nil).Once()
	router := setupSessionRouter(roomRepo, memberRepo)

	req := httptest.NewRequest(http.MethodGet, "/rooms/r1/probe", nil)
	req.Header.Set("X-Session-Token", "tok")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"token":"tok"`)
}
