package service

import "github.com/google/uuid"

// Event kinds pushed to thread subscribers. REST handlers and the push
// dispatcher feed the same broadcaster, so clients converge on identical
// state regardless of which transport originated a mutation.
const (
	EventNewComment    = "new_comment"
	EventEditComment   = "edit_comment"
	EventDeleteComment = "delete_comment"
	EventVoteUpdate    = "vote_update"
	EventThreadUpdate  = "thread_update"
	EventThreadDelete  = "thread_delete"
)

// Broadcaster fans an event out to every live session subscribed to the
// thread. Delivery is best-effort: implementations must never return send
// failures to the mutation path.
type Broadcaster interface {
	Broadcast(threadID uuid.UUID, event string, data any)
}

// NopBroadcaster satisfies Broadcaster for wiring without a push channel.
type NopBroadcaster struct{}

func (NopBroadcaster) Broadcast(uuid.UUID, string, any) {}
