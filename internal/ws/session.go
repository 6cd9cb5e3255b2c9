package ws

import (
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/gridtalk/gridtalk/pkg/logger"
)

const (
	writeWait      = 10 * time.Second
	maxMessageSize = 8 * 1024
	sendBufferSize = 64
)

// Session is one authenticated live push connection and its subscription
// set. Subscriptions are only mutated through the hub while holding its lock;
// only the connection's own read loop triggers those mutations.
type Session struct {
	hub    *Hub
	conn   *websocket.Conn
	userID uuid.UUID
	send   chan Frame
	subs   map[uuid.UUID]struct{}
}

func newSession(hub *Hub, conn *websocket.Conn, userID uuid.UUID) *Session {
	return &Session{
		hub:    hub,
		conn:   conn,
		userID: userID,
		send:   make(chan Frame, sendBufferSize),
		subs:   make(map[uuid.UUID]struct{}),
	}
}

func (s *Session) UserID() uuid.UUID {
	return s.userID
}

// push queues a frame for this session only. Best effort: a slow consumer
// whose buffer is full loses the frame rather than stalling the sender.
func (s *Session) push(frame Frame) {
	select {
	case s.send <- frame:
	default:
		logger.S.Warnw("session send buffer full, dropping frame",
			"user", s.userID, "frame", frame.Type)
	}
}

// writePump drains the send channel onto the connection. A single writer per
// connection keeps delivery ordered per session.
func (s *Session) writePump() {
	defer s.conn.Close()

	for frame := range s.send {
		_ = s.conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := s.conn.WriteJSON(frame); err != nil {
			logger.S.Debugw("websocket write failed", "user", s.userID, "err", err)
			return
		}
	}

	// send channel closed by the hub on unregister
	_ = s.conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
		time.Now().Add(writeWait))
}

// readPump consumes inbound frames until the connection drops, then discards
// the session and all of its subscriptions.
func (s *Session) readPump(dispatcher *Dispatcher) {
	defer s.hub.Unregister(s)

	s.conn.SetReadLimit(maxMessageSize)
	for {
		_, data, err := s.conn.ReadMessage()
		if err != nil {
			return
		}
		dispatcher.Dispatch(s, data)
	}
}
