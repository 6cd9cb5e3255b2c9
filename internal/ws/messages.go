package ws

// Close codes sent when the handshake credential is rejected.
const (
	CloseMissingCredentials = 4001
	CloseInvalidCredentials = 4002
)

// Server-to-client frame kinds. Broadcast event kinds (new_comment,
// edit_comment, delete_comment, vote_update) come from the service layer.
const (
	FrameConnection = "connection"
	FrameThreadData = "thread_data"
	FrameError      = "error"
)

// Inbound command kinds, the closed set a client may send.
const (
	CmdSubscribeThread   = "subscribe_thread"
	CmdUnsubscribeThread = "unsubscribe_thread"
	CmdNewComment        = "new_comment"
	CmdEditComment       = "edit_comment"
	CmdDeleteComment     = "delete_comment"
	CmdVote              = "vote"
)

// Frame is the envelope for every frame in either direction.
type Frame struct {
	Type string `json:"type"`
	Data any    `json:"data,omitempty"`
}

type ErrorPayload struct {
	Message string `json:"message"`
}

// Command is an inbound frame decoded into the tagged union; Type
// discriminates which payload fields are meaningful. Unknown types are
// rejected explicitly by the dispatcher.
type Command struct {
	Type            string `json:"type"`
	ThreadID        string `json:"threadId,omitempty"`
	CommentID       string `json:"commentId,omitempty"`
	ParentCommentID string `json:"parentCommentId,omitempty"`
	Content         string `json:"content,omitempty"`
	TargetType      string `json:"targetType,omitempty"`
	TargetID        string `json:"targetId,omitempty"`
	VoteType        string `json:"voteType,omitempty"`
}

func errorFrame(message string) Frame {
	return Frame{Type: FrameError, Data: ErrorPayload{Message: message}}
}
