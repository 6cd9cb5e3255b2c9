package service

import (
	"strings"

	"github.com/gridtalk/gridtalk/internal/dto"
	"github.com/gridtalk/gridtalk/internal/model"
)

func mapThread(t *model.Thread) dto.ThreadResponse {
	tags := []string(t.Tags)
	if tags == nil {
		tags = []string{}
	}

	return dto.ThreadResponse{
		ID:             t.ID,
		AuthorID:       t.AuthorID,
		Title:          t.Title,
		Content:        t.Content,
		Category:       t.Category,
		Tags:           tags,
		Score:          t.Score(),
		Likes:          len(t.LikedBy),
		Dislikes:       len(t.DislikedBy),
		Views:          t.Views,
		CommentCount:   t.CommentCount,
		Pinned:         t.Pinned,
		Locked:         t.Locked,
		CreatedAt:      t.CreatedAt,
		LastActivityAt: t.LastActivityAt,
	}
}

func mapComment(c *model.Comment) *dto.CommentResponse {
	return &dto.CommentResponse{
		ID:              c.ID,
		ThreadID:        c.ThreadID,
		ParentCommentID: c.ParentID,
		AuthorID:        c.AuthorID,
		Content:         c.Content,
		Score:           c.Score(),
		Likes:           len(c.LikedBy),
		Dislikes:        len(c.DislikedBy),
		Edited:          c.Edited,
		CreatedAt:       c.CreatedAt,
		Replies:         []*dto.CommentResponse{},
	}
}

// normalizeTags strips blank entries and duplicates, preserving the order of
// first occurrence.
func normalizeTags(tags []string) []string {
	seen := make(map[string]struct{}, len(tags))
	out := make([]string, 0, len(tags))
	for _, tag := range tags {
		tag = strings.TrimSpace(tag)
		if tag == "" {
			continue
		}
		if _, ok := seen[tag]; ok {
			continue
		}
		seen[tag] = struct{}{}
		out = append(out, tag)
	}
	return out
}

func totalPages(total int64, limit int) int {
	pages := int(total) / limit
	if int(total)%limit != 0 {
		pages++
	}
	return pages
}
