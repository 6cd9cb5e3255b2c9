package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/gridtalk/gridtalk/internal/dto"
	"github.com/gridtalk/gridtalk/internal/model"
	"github.com/gridtalk/gridtalk/internal/repository"
	"github.com/gridtalk/gridtalk/pkg/apperror"
	"github.com/gridtalk/gridtalk/pkg/sanitize"
	"github.com/redis/go-redis/v9"
)

type CommentService interface {
	CreateComment(ctx context.Context, userID uuid.UUID, threadID uuid.UUID, req dto.CreateCommentRequest) (*dto.CommentResponse, error)
	UpdateComment(ctx context.Context, userID uuid.UUID, commentID uuid.UUID, req dto.UpdateCommentRequest) (*dto.CommentResponse, error)
	DeleteComment(ctx context.Context, userID uuid.UUID, commentID uuid.UUID) (*dto.DeletedCommentResponse, error)
}

type commentService struct {
	commentRepo    repository.CommentRepository
	threadRepo     repository.ThreadRepository
	broadcaster    Broadcaster
	redisClient    *redis.Client
	createCooldown time.Duration
}

func NewCommentService(commentRepo repository.CommentRepository, threadRepo repository.ThreadRepository, broadcaster Broadcaster, redisClient *redis.Client, createCooldown time.Duration) CommentService {
	return &commentService{
		commentRepo:    commentRepo,
		threadRepo:     threadRepo,
		broadcaster:    broadcaster,
		redisClient:    redisClient,
		createCooldown: createCooldown,
	}
}

func (s *commentService) CreateComment(ctx context.Context, userID uuid.UUID, threadID uuid.UUID, req dto.CreateCommentRequest) (*dto.CommentResponse, error) {
	thread, err := s.threadRepo.FindByID(ctx, threadID)
	if err != nil {
		return nil, err
	}
	if thread.Locked {
		return nil, apperror.ErrThreadLocked
	}

	if err := checkCooldown(ctx, s.redisClient, userID, "comment", s.createCooldown); err != nil {
		return nil, err
	}

	var parentID *uuid.UUID
	if req.ParentCommentID != "" {
		pid, err := uuid.Parse(req.ParentCommentID)
		if err != nil {
			return nil, apperror.ErrInvalidInput
		}
		// The parent may have been deleted between the client reading the
		// thread and this call. The reference is kept and the tree assembler
		// surfaces the reply at top level instead of losing it.
		parent, err := s.commentRepo.FindByID(ctx, pid)
		if err != nil && !errors.Is(err, apperror.ErrNotFound) {
			return nil, err
		}
		if parent != nil && parent.ThreadID != threadID {
			return nil, apperror.ErrInvalidInput
		}
		parentID = &pid
	}

	comment := &model.Comment{
		ThreadID: threadID,
		ParentID: parentID,
		AuthorID: userID,
		Content:  sanitize.Clean(req.Content),
	}

	if err := s.commentRepo.Create(ctx, comment); err != nil {
		return nil, err
	}

	resp := mapComment(comment)
	s.broadcaster.Broadcast(threadID, EventNewComment, resp)
	return resp, nil
}

func (s *commentService) UpdateComment(ctx context.Context, userID uuid.UUID, commentID uuid.UUID, req dto.UpdateCommentRequest) (*dto.CommentResponse, error) {
	comment, err := s.commentRepo.FindByID(ctx, commentID)
	if err != nil {
		return nil, err
	}

	if comment.AuthorID != userID {
		return nil, apperror.ErrForbidden
	}

	comment.Content = sanitize.Clean(req.Content)
	comment.Edited = true

	if err := s.commentRepo.Update(ctx, comment); err != nil {
		return nil, err
	}

	resp := mapComment(comment)
	s.broadcaster.Broadcast(comment.ThreadID, EventEditComment, resp)
	return resp, nil
}

// DeleteComment removes the comment and all descendant replies; the thread's
// comment counter is decremented by the full subtree size.
func (s *commentService) DeleteComment(ctx context.Context, userID uuid.UUID, commentID uuid.UUID) (*dto.DeletedCommentResponse, error) {
	comment, err := s.commentRepo.FindByID(ctx, commentID)
	if err != nil {
		return nil, err
	}

	if comment.AuthorID != userID {
		return nil, apperror.ErrForbidden
	}

	removed, err := s.commentRepo.DeleteWithReplies(ctx, commentID)
	if err != nil {
		return nil, err
	}

	resp := &dto.DeletedCommentResponse{
		ID:           commentID,
		ThreadID:     comment.ThreadID,
		RemovedCount: removed,
	}
	s.broadcaster.Broadcast(comment.ThreadID, EventDeleteComment, resp)
	return resp, nil
}
