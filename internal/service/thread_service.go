package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/gridtalk/gridtalk/internal/dto"
	"github.com/gridtalk/gridtalk/internal/model"
	"github.com/gridtalk/gridtalk/internal/repository"
	"github.com/gridtalk/gridtalk/pkg/apperror"
	"github.com/gridtalk/gridtalk/pkg/sanitize"
	"github.com/redis/go-redis/v9"
)

type ThreadService interface {
	CreateThread(ctx context.Context, userID uuid.UUID, req dto.CreateThreadRequest) (*dto.ThreadResponse, error)
	GetAllThreads(ctx context.Context, filter dto.ThreadFilter) (*dto.PaginatedThreadResponse, error)
	GetThread(ctx context.Context, threadID uuid.UUID) (*dto.ThreadDetailResponse, error)
	UpdateThread(ctx context.Context, userID uuid.UUID, threadID uuid.UUID, req dto.UpdateThreadRequest) (*dto.ThreadResponse, error)
	DeleteThread(ctx context.Context, userID uuid.UUID, threadID uuid.UUID) error
}

type threadService struct {
	threadRepo     repository.ThreadRepository
	commentRepo    repository.CommentRepository
	broadcaster    Broadcaster
	redisClient    *redis.Client
	createCooldown time.Duration
}

func NewThreadService(threadRepo repository.ThreadRepository, commentRepo repository.CommentRepository, broadcaster Broadcaster, redisClient *redis.Client, createCooldown time.Duration) ThreadService {
	return &threadService{
		threadRepo:     threadRepo,
		commentRepo:    commentRepo,
		broadcaster:    broadcaster,
		redisClient:    redisClient,
		createCooldown: createCooldown,
	}
}

func (s *threadService) CreateThread(ctx context.Context, userID uuid.UUID, req dto.CreateThreadRequest) (*dto.ThreadResponse, error) {
	if !model.ValidCategory(req.Category) {
		return nil, apperror.ErrInvalidInput
	}

	if err := checkCooldown(ctx, s.redisClient, userID, "thread", s.createCooldown); err != nil {
		return nil, err
	}

	thread := &model.Thread{
		AuthorID: userID,
		Title:    sanitize.Clean(req.Title),
		Content:  sanitize.Clean(req.Content),
		Category: req.Category,
		Tags:     normalizeTags(req.Tags),
	}

	if err := s.threadRepo.Create(ctx, thread); err != nil {
		return nil, err
	}

	resp := mapThread(thread)
	return &resp, nil
}

func (s *threadService) GetAllThreads(ctx context.Context, filter dto.ThreadFilter) (*dto.PaginatedThreadResponse, error) {
	if filter.Category != "" && !model.ValidCategory(filter.Category) {
		return nil, apperror.ErrInvalidInput
	}

	offset := (filter.Page - 1) * filter.Limit
	threads, total, err := s.threadRepo.FindAll(ctx, filter.Category, filter.Sort, offset, filter.Limit)
	if err != nil {
		return nil, err
	}

	responses := make([]dto.ThreadResponse, 0, len(threads))
	for _, thread := range threads {
		responses = append(responses, mapThread(thread))
	}

	return &dto.PaginatedThreadResponse{
		Data: responses,
		Meta: dto.PaginationMeta{
			CurrentPage: filter.Page,
			TotalPages:  totalPages(total, filter.Limit),
			TotalItems:  total,
			Limit:       filter.Limit,
		},
	}, nil
}

// GetThread returns the full snapshot: the thread plus its assembled comment
// forest. The tree is rebuilt from the flat list on every call.
func (s *threadService) GetThread(ctx context.Context, threadID uuid.UUID) (*dto.ThreadDetailResponse, error) {
	thread, err := s.threadRepo.FindByID(ctx, threadID)
	if err != nil {
		return nil, err
	}

	comments, err := s.commentRepo.FindAllByThreadID(ctx, threadID)
	if err != nil {
		return nil, err
	}

	return &dto.ThreadDetailResponse{
		Thread:   mapThread(thread),
		Comments: AssembleCommentTree(comments),
	}, nil
}

func (s *threadService) UpdateThread(ctx context.Context, userID uuid.UUID, threadID uuid.UUID, req dto.UpdateThreadRequest) (*dto.ThreadResponse, error) {
	thread, err := s.threadRepo.FindByID(ctx, threadID)
	if err != nil {
		return nil, err
	}

	if thread.AuthorID != userID {
		return nil, apperror.ErrForbidden
	}

	thread.Title = sanitize.Clean(req.Title)
	thread.Content = sanitize.Clean(req.Content)
	thread.Tags = normalizeTags(req.Tags)

	if err := s.threadRepo.Update(ctx, thread); err != nil {
		return nil, err
	}

	resp := mapThread(thread)
	s.broadcaster.Broadcast(thread.ID, EventThreadUpdate, resp)
	return &resp, nil
}

// DeleteThread removes the thread and cascades to all of its comments.
func (s *threadService) DeleteThread(ctx context.Context, userID uuid.UUID, threadID uuid.UUID) error {
	thread, err := s.threadRepo.FindByID(ctx, threadID)
	if err != nil {
		return err
	}

	if thread.AuthorID != userID {
		return apperror.ErrForbidden
	}

	if err := s.threadRepo.Delete(ctx, threadID); err != nil {
		return err
	}

	s.broadcaster.Broadcast(threadID, EventThreadDelete, map[string]any{"threadId": threadID})
	return nil
}
