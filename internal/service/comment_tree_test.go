package service

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/gridtalk/gridtalk/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func makeComment(threadID uuid.UUID, parentID *uuid.UUID, content string, createdAt time.Time) *model.Comment {
	return &model.Comment{
		ID:        uuid.New(),
		ThreadID:  threadID,
		ParentID:  parentID,
		AuthorID:  uuid.New(),
		Content:   content,
		CreatedAt: createdAt,
	}
}

func TestAssembleCommentTree(t *testing.T) {
	threadID := uuid.New()
	base := time.Now()

	t.Run("empty input yields empty forest", func(t *testing.T) {
		forest := AssembleCommentTree(nil)
		assert.NotNil(t, forest)
		assert.Empty(t, forest)
	})

	t.Run("nesting follows parent references", func(t *testing.T) {
		root := makeComment(threadID, nil, "root", base)
		reply := makeComment(threadID, &root.ID, "reply", base.Add(time.Minute))
		nested := makeComment(threadID, &reply.ID, "nested", base.Add(2*time.Minute))
		other := makeComment(threadID, nil, "another root", base.Add(3*time.Minute))

		forest := AssembleCommentTree([]*model.Comment{root, reply, nested, other})

		require.Len(t, forest, 2)
		assert.Equal(t, "root", forest[0].Content)
		assert.Equal(t, "another root", forest[1].Content)

		require.Len(t, forest[0].Replies, 1)
		assert.Equal(t, "reply", forest[0].Replies[0].Content)
		require.Len(t, forest[0].Replies[0].Replies, 1)
		assert.Equal(t, "nested", forest[0].Replies[0].Replies[0].Content)
	})

	t.Run("sibling replies keep creation order", func(t *testing.T) {
		root := makeComment(threadID, nil, "root", base)
		first := makeComment(threadID, &root.ID, "first", base.Add(1*time.Minute))
		second := makeComment(threadID, &root.ID, "second", base.Add(2*time.Minute))
		third := makeComment(threadID, &root.ID, "third", base.Add(3*time.Minute))

		forest := AssembleCommentTree([]*model.Comment{root, first, second, third})

		require.Len(t, forest, 1)
		require.Len(t, forest[0].Replies, 3)
		assert.Equal(t, "first", forest[0].Replies[0].Content)
		assert.Equal(t, "second", forest[0].Replies[1].Content)
		assert.Equal(t, "third", forest[0].Replies[2].Content)
	})

	t.Run("orphaned reply surfaces at top level", func(t *testing.T) {
		deletedParentID := uuid.New()
		root := makeComment(threadID, nil, "root", base)
		orphan := makeComment(threadID, &deletedParentID, "orphan", base.Add(time.Minute))

		forest := AssembleCommentTree([]*model.Comment{root, orphan})

		require.Len(t, forest, 2)
		assert.Equal(t, "orphan", forest[1].Content)
		// The dangling reference is preserved for the client.
		require.NotNil(t, forest[1].ParentCommentID)
		assert.Equal(t, deletedParentID, *forest[1].ParentCommentID)
	})

	t.Run("pure function of its input", func(t *testing.T) {
		root := makeComment(threadID, nil, "root", base)
		reply := makeComment(threadID, &root.ID, "reply", base.Add(time.Minute))
		input := []*model.Comment{root, reply}

		first := AssembleCommentTree(input)
		second := AssembleCommentTree(input)

		assert.Equal(t, first, second)
	})
}
