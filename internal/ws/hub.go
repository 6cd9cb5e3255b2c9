package ws

import (
	"sync"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

// Hub is the session registry and broadcast router. It is constructed
// explicitly and injected wherever fan-out is needed, so tests can build an
// isolated instance.
type Hub struct {
	mu       sync.RWMutex
	sessions map[*Session]struct{}
}

func NewHub() *Hub {
	return &Hub{sessions: make(map[*Session]struct{})}
}

// ServeSession takes ownership of an authenticated connection: it registers
// the session, acks the handshake and blocks pumping frames until the
// connection drops.
func (h *Hub) ServeSession(conn *websocket.Conn, userID uuid.UUID, dispatcher *Dispatcher) {
	session := newSession(h, conn, userID)
	h.register(session)

	go session.writePump()
	session.push(Frame{Type: FrameConnection, Data: map[string]string{"status": "connected"}})
	session.readPump(dispatcher)
}

func (h *Hub) register(s *Session) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.sessions[s] = struct{}{}
}

// Unregister drops the session and its entire subscription set. Safe to call
// more than once.
func (h *Hub) Unregister(s *Session) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.sessions[s]; !ok {
		return
	}
	delete(h.sessions, s)
	close(s.send)
}

func (h *Hub) Subscribe(s *Session, threadID uuid.UUID) {
	h.mu.Lock()
	defer h.mu.Unlock()
	s.subs[threadID] = struct{}{}
}

func (h *Hub) Unsubscribe(s *Session, threadID uuid.UUID) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(s.subs, threadID)
}

// Broadcast delivers the event to every live session subscribed to the
// thread, the originator included. Per-session failures are swallowed by the
// buffered push; one slow session never blocks the rest or the caller.
func (h *Hub) Broadcast(threadID uuid.UUID, event string, data any) {
	frame := Frame{Type: event, Data: data}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for session := range h.sessions {
		if _, ok := session.subs[threadID]; ok {
			session.push(frame)
		}
	}
}

// SessionCount reports live sessions, mainly for observability.
func (h *Hub) SessionCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.sessions)
}
