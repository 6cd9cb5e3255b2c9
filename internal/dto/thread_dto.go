package dto

import (
	"time"

	"github.com/google/uuid"
)

type CreateThreadRequest struct {
	Title    string   `json:"title" binding:"required,min=3,max=255"`
	Content  string   `json:"content" binding:"required,min=1"`
	Category string   `json:"category" binding:"required,oneof=race-discussion drivers teams technical off-topic"`
	Tags     []string `json:"tags" binding:"omitempty,max=10"`
}

type UpdateThreadRequest struct {
	Title   string   `json:"title" binding:"required,min=3,max=255"`
	Content string   `json:"content" binding:"required,min=1"`
	Tags    []string `json:"tags" binding:"omitempty,max=10"`
}

type ThreadFilter struct {
	Category string `form:"category"`
	Sort     string `form:"sort"` // "latest" (default) or "popular"
	Page     int    `form:"page"`
	Limit    int    `form:"limit"`
}

type ThreadResponse struct {
	ID             uuid.UUID `json:"id"`
	AuthorID       uuid.UUID `json:"authorId"`
	Title          string    `json:"title"`
	Content        string    `json:"content"`
	Category       string    `json:"category"`
	Tags           []string  `json:"tags"`
	Score          int       `json:"score"`
	Likes          int       `json:"likes"`
	Dislikes       int       `json:"dislikes"`
	Views          int       `json:"views"`
	CommentCount   int       `json:"commentCount"`
	Pinned         bool      `json:"pinned"`
	Locked         bool      `json:"locked"`
	CreatedAt      time.Time `json:"createdAt"`
	LastActivityAt time.Time `json:"lastActivityAt"`
}

// ThreadDetailResponse is the full snapshot pushed on subscribe and
// returned by the single-thread fetch: the thread plus its comment forest.
type ThreadDetailResponse struct {
	Thread   ThreadResponse     `json:"thread"`
	Comments []*CommentResponse `json:"comments"`
}

type PaginationMeta struct {
	CurrentPage int   `json:"currentPage"`
	TotalPages  int   `json:"totalPages"`
	TotalItems  int64 `json:"totalItems"`
	Limit       int   `json:"limit"`
}

type PaginatedThreadResponse struct {
	Data []ThreadResponse `json:"data"`
	Meta PaginationMeta   `json:"meta"`
}
