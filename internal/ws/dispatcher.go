package ws

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/gridtalk/gridtalk/internal/dto"
	"github.com/gridtalk/gridtalk/internal/service"
	"github.com/gridtalk/gridtalk/pkg/apperror"
	"github.com/gridtalk/gridtalk/pkg/logger"
)

// Dispatcher decodes inbound frames and routes them to the same services the
// REST handlers use. Protocol errors answer the originator with an error
// frame; the connection always stays open.
type Dispatcher struct {
	hub      *Hub
	threads  service.ThreadService
	comments service.CommentService
	votes    service.VoteService
}

func NewDispatcher(hub *Hub, threads service.ThreadService, comments service.CommentService, votes service.VoteService) *Dispatcher {
	return &Dispatcher{
		hub:      hub,
		threads:  threads,
		comments: comments,
		votes:    votes,
	}
}

func (d *Dispatcher) Dispatch(s *Session, raw []byte) {
	var cmd Command
	if err := json.Unmarshal(raw, &cmd); err != nil {
		s.push(errorFrame("malformed frame"))
		return
	}

	// Push commands run to completion; there is no cancellation tied to the
	// connection.
	ctx := context.Background()

	switch cmd.Type {
	case CmdSubscribeThread:
		d.subscribeThread(ctx, s, cmd)
	case CmdUnsubscribeThread:
		d.unsubscribeThread(s, cmd)
	case CmdNewComment:
		d.newComment(ctx, s, cmd)
	case CmdEditComment:
		d.editComment(ctx, s, cmd)
	case CmdDeleteComment:
		d.deleteComment(ctx, s, cmd)
	case CmdVote:
		d.vote(ctx, s, cmd)
	default:
		s.push(errorFrame(fmt.Sprintf("unknown frame type %q", cmd.Type)))
	}
}

// pushError answers the originator with a client-safe message; storage and
// driver errors are logged here and collapsed to the generic internal one.
func (d *Dispatcher) pushError(s *Session, err error) {
	s.push(errorFrame(clientMessage(err)))
}

func clientMessage(err error) string {
	var rateLimited *service.RateLimitError
	if errors.As(err, &rateLimited) {
		return rateLimited.Message
	}
	for _, known := range []error{
		apperror.ErrNotFound,
		apperror.ErrForbidden,
		apperror.ErrThreadLocked,
		apperror.ErrInvalidInput,
		apperror.ErrUnauthorized,
		apperror.ErrRateLimitExceeded,
	} {
		if errors.Is(err, known) {
			return known.Error()
		}
	}
	logger.S.Errorw("push command failed", "err", err)
	return apperror.ErrInternal.Error()
}

// subscribeThread adds the thread to the session's subscription set and
// pushes the full current snapshot to the requester only.
func (d *Dispatcher) subscribeThread(ctx context.Context, s *Session, cmd Command) {
	threadID, err := uuid.Parse(cmd.ThreadID)
	if err != nil {
		s.push(errorFrame("invalid thread id"))
		return
	}

	// Subscribe before reading the snapshot so an event committed in
	// between is delivered instead of falling into the gap. Clients
	// converge on duplicates, they cannot recover a missed event.
	d.hub.Subscribe(s, threadID)

	snapshot, err := d.threads.GetThread(ctx, threadID)
	if err != nil {
		d.hub.Unsubscribe(s, threadID)
		d.pushError(s, err)
		return
	}

	s.push(Frame{Type: FrameThreadData, Data: snapshot})
}

func (d *Dispatcher) unsubscribeThread(s *Session, cmd Command) {
	threadID, err := uuid.Parse(cmd.ThreadID)
	if err != nil {
		s.push(errorFrame("invalid thread id"))
		return
	}
	d.hub.Unsubscribe(s, threadID)
}

func (d *Dispatcher) newComment(ctx context.Context, s *Session, cmd Command) {
	threadID, err := uuid.Parse(cmd.ThreadID)
	if err != nil {
		s.push(errorFrame("invalid thread id"))
		return
	}

	req := dto.CreateCommentRequest{
		Content:         cmd.Content,
		ParentCommentID: cmd.ParentCommentID,
	}
	if req.Content == "" {
		s.push(errorFrame("content is required"))
		return
	}

	// Success is answered by the broadcast the service emits.
	if _, err := d.comments.CreateComment(ctx, s.UserID(), threadID, req); err != nil {
		d.pushError(s, err)
	}
}

func (d *Dispatcher) editComment(ctx context.Context, s *Session, cmd Command) {
	commentID, err := uuid.Parse(cmd.CommentID)
	if err != nil {
		s.push(errorFrame("invalid comment id"))
		return
	}

	req := dto.UpdateCommentRequest{Content: cmd.Content}
	if req.Content == "" {
		s.push(errorFrame("content is required"))
		return
	}

	if _, err := d.comments.UpdateComment(ctx, s.UserID(), commentID, req); err != nil {
		d.pushError(s, err)
	}
}

func (d *Dispatcher) deleteComment(ctx context.Context, s *Session, cmd Command) {
	commentID, err := uuid.Parse(cmd.CommentID)
	if err != nil {
		s.push(errorFrame("invalid comment id"))
		return
	}

	if _, err := d.comments.DeleteComment(ctx, s.UserID(), commentID); err != nil {
		d.pushError(s, err)
	}
}

func (d *Dispatcher) vote(ctx context.Context, s *Session, cmd Command) {
	req := dto.VoteRequest{
		TargetType: cmd.TargetType,
		TargetID:   cmd.TargetID,
		VoteType:   cmd.VoteType,
	}

	if _, err := d.votes.Vote(ctx, s.UserID(), req); err != nil {
		d.pushError(s, err)
	}
}
