package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/gridtalk/gridtalk/internal/dto"
	"github.com/gridtalk/gridtalk/internal/model"
	"github.com/gridtalk/gridtalk/internal/repository"
	"github.com/gridtalk/gridtalk/pkg/apperror"
)

type VoteService interface {
	Vote(ctx context.Context, userID uuid.UUID, req dto.VoteRequest) (*dto.VoteResponse, error)
}

type voteService struct {
	threadRepo  repository.ThreadRepository
	commentRepo repository.CommentRepository
	broadcaster Broadcaster
}

func NewVoteService(threadRepo repository.ThreadRepository, commentRepo repository.CommentRepository, broadcaster Broadcaster) VoteService {
	return &voteService{
		threadRepo:  threadRepo,
		commentRepo: commentRepo,
		broadcaster: broadcaster,
	}
}

// Vote applies a like/dislike to a thread or comment. The vote engine
// computes the intent from the current sets; the repository applies it as a
// single atomic set mutation. After the commit the target is re-read so the
// returned (and broadcast) score reflects the authoritative state.
func (s *voteService) Vote(ctx context.Context, userID uuid.UUID, req dto.VoteRequest) (*dto.VoteResponse, error) {
	targetID, err := uuid.Parse(req.TargetID)
	if err != nil {
		return nil, apperror.ErrInvalidInput
	}

	var action model.VoteAction
	switch req.VoteType {
	case "like":
		action = model.VoteLike
	case "dislike":
		action = model.VoteDislike
	default:
		return nil, apperror.ErrInvalidInput
	}

	switch req.TargetType {
	case "thread":
		return s.voteThread(ctx, userID, targetID, action)
	case "comment":
		return s.voteComment(ctx, userID, targetID, action)
	default:
		return nil, apperror.ErrInvalidInput
	}
}

func (s *voteService) voteThread(ctx context.Context, userID, threadID uuid.UUID, action model.VoteAction) (*dto.VoteResponse, error) {
	thread, err := s.threadRepo.FindByID(ctx, threadID)
	if err != nil {
		return nil, err
	}

	_, _, outcome := model.ApplyVote(thread.LikedBy, thread.DislikedBy, userID.String(), action)

	if err := s.threadRepo.ApplyVote(ctx, threadID, userID.String(), outcome); err != nil {
		return nil, err
	}

	updated, err := s.threadRepo.FindByID(ctx, threadID)
	if err != nil {
		return nil, err
	}

	resp := &dto.VoteResponse{
		TargetType: "thread",
		TargetID:   threadID,
		Outcome:    string(outcome),
		Score:      updated.Score(),
		Likes:      len(updated.LikedBy),
		Dislikes:   len(updated.DislikedBy),
	}
	s.broadcaster.Broadcast(threadID, EventVoteUpdate, resp)
	return resp, nil
}

func (s *voteService) voteComment(ctx context.Context, userID, commentID uuid.UUID, action model.VoteAction) (*dto.VoteResponse, error) {
	comment, err := s.commentRepo.FindByID(ctx, commentID)
	if err != nil {
		return nil, err
	}

	_, _, outcome := model.ApplyVote(comment.LikedBy, comment.DislikedBy, userID.String(), action)

	if err := s.commentRepo.ApplyVote(ctx, commentID, userID.String(), outcome); err != nil {
		return nil, err
	}

	updated, err := s.commentRepo.FindByID(ctx, commentID)
	if err != nil {
		return nil, err
	}

	resp := &dto.VoteResponse{
		TargetType: "comment",
		TargetID:   commentID,
		Outcome:    string(outcome),
		Score:      updated.Score(),
		Likes:      len(updated.LikedBy),
		Dislikes:   len(updated.DislikedBy),
	}
	s.broadcaster.Broadcast(comment.ThreadID, EventVoteUpdate, resp)
	return resp, nil
}
