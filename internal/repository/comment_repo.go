package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/gridtalk/gridtalk/internal/model"
	"github.com/gridtalk/gridtalk/pkg/apperror"
	"gorm.io/gorm"
)

type CommentRepository interface {
	Create(ctx context.Context, comment *model.Comment) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Comment, error)
	FindAllByThreadID(ctx context.Context, threadID uuid.UUID) ([]*model.Comment, error)
	Update(ctx context.Context, comment *model.Comment) error
	DeleteWithReplies(ctx context.Context, id uuid.UUID) (int64, error)
	ApplyVote(ctx context.Context, id uuid.UUID, userID string, outcome model.VoteOutcome) error
}

type commentRepository struct {
	db *gorm.DB
}

func NewCommentRepository(db *gorm.DB) CommentRepository {
	return &commentRepository{db: db}
}

// Create inserts the comment and bumps the owning thread's comment counter
// and last-activity timestamp in the same transaction.
func (r *commentRepository) Create(ctx context.Context, comment *model.Comment) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(comment).Error; err != nil {
			return err
		}
		return tx.Model(&model.Thread{}).Where("id = ?", comment.ThreadID).
			UpdateColumns(map[string]interface{}{
				"comment_count":    gorm.Expr("comment_count + ?", 1),
				"last_activity_at": gorm.Expr("NOW()"),
			}).Error
	})
}

func (r *commentRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Comment, error) {
	var comment model.Comment
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&comment).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.ErrNotFound
		}
		return nil, err
	}
	return &comment, nil
}

func (r *commentRepository) FindAllByThreadID(ctx context.Context, threadID uuid.UUID) ([]*model.Comment, error) {
	var comments []*model.Comment
	err := r.db.WithContext(ctx).
		Where("thread_id = ?", threadID).
		Order("created_at ASC").
		Find(&comments).Error
	return comments, err
}

// Update writes the author-editable columns only, so concurrent vote
// mutations on the row are never clobbered by the caller's stale read.
func (r *commentRepository) Update(ctx context.Context, comment *model.Comment) error {
	res := r.db.WithContext(ctx).Model(&model.Comment{}).
		Where("id = ?", comment.ID).
		Select("content", "edited").
		Updates(comment)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperror.ErrNotFound
	}
	return nil
}

// DeleteWithReplies removes the comment and every descendant reply, then
// decrements the thread's comment counter by the number of rows actually
// removed. Returns that count.
func (r *commentRepository) DeleteWithReplies(ctx context.Context, id uuid.UUID) (int64, error) {
	var removed int64
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var comment model.Comment
		if err := tx.Select("id", "thread_id").First(&comment, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperror.ErrNotFound
			}
			return err
		}

		res := tx.Exec(`
			WITH RECURSIVE subtree AS (
				SELECT id FROM comments WHERE id = ?
				UNION ALL
				SELECT c.id FROM comments c JOIN subtree s ON c.parent_id = s.id
			)
			DELETE FROM comments WHERE id IN (SELECT id FROM subtree)`, id)
		if res.Error != nil {
			return res.Error
		}
		removed = res.RowsAffected

		return tx.Model(&model.Thread{}).Where("id = ?", comment.ThreadID).
			UpdateColumn("comment_count", gorm.Expr("GREATEST(comment_count - ?, 0)", removed)).Error
	})
	return removed, err
}

// ApplyVote mirrors the thread variant: a single atomic UPDATE on the sets.
func (r *commentRepository) ApplyVote(ctx context.Context, id uuid.UUID, userID string, outcome model.VoteOutcome) error {
	var res *gorm.DB
	switch outcome {
	case model.VoteOutcomeLiked:
		res = r.db.WithContext(ctx).Exec(
			`UPDATE comments
			 SET liked_by = array_append(array_remove(liked_by, ?::text), ?::text),
			     disliked_by = array_remove(disliked_by, ?::text)
			 WHERE id = ?`, userID, userID, userID, id)
	case model.VoteOutcomeDisliked:
		res = r.db.WithContext(ctx).Exec(
			`UPDATE comments
			 SET disliked_by = array_append(array_remove(disliked_by, ?::text), ?::text),
			     liked_by = array_remove(liked_by, ?::text)
			 WHERE id = ?`, userID, userID, userID, id)
	case model.VoteOutcomeRemoved:
		res = r.db.WithContext(ctx).Exec(
			`UPDATE comments
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
