package service

import (
	"github.com/google/uuid"
	"github.com/gridtalk/gridtalk/internal/dto"
	"github.com/gridtalk/gridtalk/internal/model"
)

// AssembleCommentTree builds the comment forest for one thread from a flat
// list sorted ascending by creation time. Reply order within a parent follows
// that input order. A comment whose parent is missing from the list (deleted
// concurrently) is surfaced at top level instead of being dropped.
//
// The result is a pure function of the input; it is rebuilt on every
// full-thread fetch rather than maintained incrementally.
func AssembleCommentTree(comments []*model.Comment) []*dto.CommentResponse {
	index := make(map[uuid.UUID]*dto.CommentResponse, len(comments))
	for _, c := range comments {
		index[c.ID] = mapComment(c)
	}

	roots := []*dto.CommentResponse{}
	for _, c := range comments {
		node := index[c.ID]
		if c.ParentID != nil {
			if parent, ok := index[*c.ParentID]; ok {
				parent.Replies = append(parent.Replies, node)
				continue
			}
			// orphan: parent no longer exists
		}
		roots = append(roots, node)
	}

	return roots
}
