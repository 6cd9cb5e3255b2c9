package handler

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/gridtalk/gridtalk/internal/ws"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newWSTestServer(t *testing.T, secret string) (*httptest.Server, *ws.Hub) {
	gin.SetMode(gin.TestMode)

	hub := ws.NewHub()
	dispatcher := ws.NewDispatcher(hub, nil, nil, nil)
	h := NewWSHandler(hub, dispatcher, secret)

	router := gin.New()
	router.GET("/api/ws", h.HandleWebSocket)

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)
	return srv, hub
}

func wsURL(srv *httptest.Server) string {
	return "ws" + strings.TrimPrefix(srv.URL, "http") + "/api/ws"
}

func signToken(t *testing.T, secret, subject string) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   subject,
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	})
	signed, err := token.SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}

func readCloseCode(t *testing.T, conn *websocket.Conn) int {
	t.Helper()
	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, _, err := conn.ReadMessage()
	closeErr, ok := err.(*websocket.CloseError)
	require.True(t, ok, "expected a close error, got %v", err)
	return closeErr.Code
}

func TestHandshakeMissingToken(t *testing.T) {
	srv, hub := newWSTestServer(t, "test-secret")

	conn, _, err := websocket.DefaultDialer.Dial(wsURL(srv), nil)
	require.NoError(t, err)
	defer conn.Close()

	// The close code arrives before any frame is processed.
	assert.Equal(t, ws.CloseMissingCredentials, readCloseCode(t, conn))
	assert.Equal(t, 0, hub.SessionCount())
}

func TestHandshakeInvalidToken(t *testing.T) {
	srv, hub := newWSTestServer(t, "test-secret")

	conn, _, err := websocket.DefaultDialer.Dial(wsURL(srv)+"?token=not-a-jwt", nil)
	require.NoError(t, err)
	defer conn.Close()

	assert.Equal(t, ws.CloseInvalidCredentials, readCloseCode(t, conn))
	assert.Equal(t, 0, hub.SessionCount())
}

func TestHandshakeWrongSecret(t *testing.T) {
	srv, _ := newWSTestServer(t, "test-secret")
	token := signToken(t, "another-secret", uuid.NewString())

	conn, _, err := websocket.DefaultDialer.Dial(wsURL(srv)+"?token="+token, nil)
	require.NoError(t, err)
	defer conn.Close()

	assert.Equal(t, ws.CloseInvalidCredentials, readCloseCode(t, conn))
}

func TestHandshakeValidToken(t *testing.T) {
	srv, hub := newWSTestServer(t, "test-secret")
	token := signToken(t, "test-secret", uuid.NewString())

	conn, _, err := websocket.DefaultDialer.Dial(wsURL(srv)+"?token="+token, nil)
	require.NoError(t, err)
	defer conn.Close()

	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var frame ws.Frame
	require.NoError(t, conn.ReadJSON(&frame))
	assert.Equal(t, ws.FrameConnection, frame.Type)
	assert.Equal(t, 1, hub.SessionCount())
}
