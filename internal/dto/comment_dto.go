package dto

import (
	"time"

	"github.com/google/uuid"
)

type CreateCommentRequest struct {
	Content         string `json:"content" binding:"required,min=1"`
	ParentCommentID string `json:"parentCommentId" binding:"omitempty,uuid"`
}

type UpdateCommentRequest struct {
	Content string `json:"content" binding:"required,min=1"`
}

type CommentResponse struct {
	ID              uuid.UUID          `json:"id"`
	ThreadID        uuid.UUID          `json:"threadId"`
	ParentCommentID *uuid.UUID         `json:"parentCommentId,omitempty"`
	AuthorID        uuid.UUID          `json:"authorId"`
	Content         string             `json:"content"`
	Score           int                `json:"score"`
	Likes           int                `json:"likes"`
	Dislikes        int                `json:"dislikes"`
	Edited          bool               `json:"edited"`
	CreatedAt       time.Time          `json:"createdAt"`
	Replies         []*CommentResponse `json:"replies"`
}

// DeletedCommentResponse describes a removed subtree so subscribers can
// prune their local state.
type DeletedCommentResponse struct {
	ID           uuid.UUID `json:"id"`
	ThreadID     uuid.UUID `json:"threadId"`
	RemovedCount int64     `json:"removedCount"`
}
