package service

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/gridtalk/gridtalk/internal/repository"
	"github.com/gridtalk/gridtalk/pkg/logger"
	"github.com/redis/go-redis/v9"
)

// ViewService counts thread views. With redis available, increments are
// deduplicated per user-hour and batched; a background worker flushes them to
// the store. Without redis every view hits the store directly.
type ViewService interface {
	IncrementView(ctx context.Context, threadID uuid.UUID, userID uuid.UUID) error
	StartViewSyncWorker(ctx context.Context)
}

type viewService struct {
	redisClient *redis.Client
	threadRepo  repository.ThreadRepository
}

func NewViewService(redisClient *redis.Client, threadRepo repository.ThreadRepository) ViewService {
	return &viewService{
		redisClient: redisClient,
		threadRepo:  threadRepo,
	}
}

func (s *viewService) IncrementView(ctx context.Context, threadID uuid.UUID, userID uuid.UUID) error {
	if s.redisClient == nil {
		return s.threadRepo.IncrementViews(ctx, threadID, 1)
	}

	userViewKey := fmt.Sprintf("thread:user_view:%s:%s", threadID, userID)

	exists, err := s.redisClient.Exists(ctx, userViewKey).Result()
	if err != nil {
		return fmt.Errorf("failed to check user view: %w", err)
	}
	// Same user within the hour, don't count again
	if exists == 1 {
		return nil
	}

	viewKey := fmt.Sprintf("thread:views:%s", threadID)
	if err := s.redisClient.Incr(ctx, viewKey).Err(); err != nil {
		return fmt.Errorf("failed to increment view: %w", err)
	}

	if err := s.redisClient.SAdd(ctx, "pending:thread_views", threadID.String()).Err(); err != nil {
		return fmt.Errorf("failed to add to pending: %w", err)
	}

	if err := s.redisClient.SetEx(ctx, userViewKey, "viewed", time.Hour).Err(); err != nil {
		return fmt.Errorf("failed to set user view: %w", err)
	}

	return nil
}

func (s *viewService) syncViewsToDB(ctx context.Context) {
	pendingKey := "pending:thread_views"

	threadIDs, err := s.redisClient.SMembers(ctx, pendingKey).Result()
	if err != nil {
		logger.S.Errorw("failed to read pending thread views", "err", err)
		return
	}
	if len(threadIDs) == 0 {
		return
	}

	for _, threadIDStr := range threadIDs {
		threadID, err := uuid.Parse(threadIDStr)
		if err != nil {
			logger.S.Warnw("invalid thread id in pending views", "id", threadIDStr)
			continue
		}

		viewKey := fmt.Sprintf("thread:views:%s", threadID)
		viewCountStr, err := s.redisClient.Get(ctx, viewKey).Result()
		if err != nil && err != redis.Nil {
			logger.S.Errorw("failed to read view count", "thread", threadID, "err", err)
			continue
		}

		viewCount, _ := strconv.Atoi(viewCountStr)
		if viewCount <= 0 {
			continue
		}

		if err := s.threadRepo.IncrementViews(ctx, threadID, viewCount); err != nil {
			logger.S.Errorw("failed to flush views", "thread", threadID, "err", err)
			continue
		}

		if err := s.redisClient.Del(ctx, viewKey).Err(); err != nil {
			logger.S.Errorw("failed to reset view counter", "thread", threadID, "err", err)
		}
	}

	if err := s.redisClient.Del(ctx, pendingKey).Err(); err != nil {
		logger.S.Errorw("failed to clear pending view set", "err", err)
	}
}

func (s *viewService) StartViewSyncWorker(ctx context.Context) {
	ticker := time.NewTicker(1 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.syncViewsToDB(ctx)
		case <-ctx.Done():
			return
		}
	}
}
