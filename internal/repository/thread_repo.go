package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/gridtalk/gridtalk/internal/model"
	"github.com/gridtalk/gridtalk/pkg/apperror"
	"gorm.io/gorm"
)

type ThreadRepository interface {
	Create(ctx context.Context, thread *model.Thread) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Thread, error)
	FindAll(ctx context.Context, category, sort string, offset, limit int) ([]*model.Thread, int64, error)
	Update(ctx context.Context, thread *model.Thread) error
	Delete(ctx context.Context, id uuid.UUID) error
	IncrementViews(ctx context.Context, id uuid.UUID, delta int) error
	ApplyVote(ctx context.Context, id uuid.UUID, userID string, outcome model.VoteOutcome) error
}

type threadRepository struct {
	db *gorm.DB
}

func NewThreadRepository(db *gorm.DB) ThreadRepository {
	return &threadRepository{db: db}
}

func (r *threadRepository) Create(ctx context.Context, thread *model.Thread) error {
	return r.db.WithContext(ctx).Create(thread).Error
}

func (r *threadRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Thread, error) {
	var thread model.Thread
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&thread).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.ErrNotFound
		}
		return nil, err
	}
	return &thread, nil
}

func (r *threadRepository) FindAll(ctx context.Context, category, sort string, offset, limit int) ([]*model.Thread, int64, error) {
	var threads []*model.Thread
	var total int64

	query := r.db.WithContext(ctx).Model(&model.Thread{})

	if category != "" {
		query = query.Where("category = ?", category)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	// Score is derived from the vote sets, so "popular" orders on
	// cardinality directly instead of a stored counter that could drift.
	if sort == "popular" {
		query = query.Order("pinned DESC").
			Order("(COALESCE(cardinality(liked_by), 0) - COALESCE(cardinality(disliked_by), 0)) DESC").
			Order("created_at DESC")
	} else {
		query = query.Order("pinned DESC").Order("created_at DESC")
	}

	if err := query.Offset(offset).Limit(limit).Find(&threads).Error; err != nil {
		return nil, 0, err
	}

	return threads, total, nil
}

// Update writes the author-editable columns only. Vote sets, views and
// counters are mutated concurrently by their own atomic statements; writing
// the whole row here would overwrite them with the caller's stale read.
func (r *threadRepository) Update(ctx context.Context, thread *model.Thread) error {
	res := r.db.WithContext(ctx).Model(&model.Thread{}).
		Where("id = ?", thread.ID).
		Select("title", "content", "tags").
		Updates(thread)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperror.ErrNotFound
	}
	return nil
}

// Delete removes a thread and all of its comments in one transaction.
func (r *threadRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("thread_id = ?", id).Delete(&model.Comment{}).Error; err != nil {
			return err
		}

		res := tx.Delete(&model.Thread{}, "id = ?", id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return apperror.ErrNotFound
		}
		return nil
	})
}

func (r *threadRepository) IncrementViews(ctx context.Context, id uuid.UUID, delta int) error {
	return r.db.WithContext(ctx).Model(&model.Thread{}).Where("id = ?", id).
		UpdateColumn("views", gorm.Expr("views + ?", delta)).Error
}

// ApplyVote mutates the membership sets in a single UPDATE so concurrent
// votes by different users cannot be lost to a read-modify-write race.
func (r *threadRepository) ApplyVote(ctx context.Context, id uuid.UUID, userID string, outcome model.VoteOutcome) error {
	var res *gorm.DB
	switch outcome {
	case model.VoteOutcomeLiked:
		res = r.db.WithContext(ctx).Exec(
			`UPDATE threads
			 SET liked_by = array_append(array_remove(liked_by, ?::text), ?::text),
			     disliked_by = array_remove(disliked_by, ?::text)
			 WHERE id = ?`, userID, userID, userID, id)
	case model.VoteOutcomeDisliked:
		res = r.db.WithContext(ctx).Exec(
			`UPDATE threads
			 SET disliked_by = array_append(array_remove(disliked_by, ?::text), ?::text),
			     liked_by = array_remove(liked_by, ?::text)
			 WHERE id = ?`, userID, userID, userID, id)
	case model.VoteOutcomeRemoved:
		res = r.db.WithContext(ctx).Exec(
			`UPDATE threads
			 SET liked_by = array_remove(liked_by, ?::text),
			     disliked_by = array_remove(disliked_by, ?::text)
			 WHERE id = ?`, userID, userID, id)
	default:
		return apperror.ErrInvalidInput
	}

	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperror.ErrNotFound
	}
	return nil
}
