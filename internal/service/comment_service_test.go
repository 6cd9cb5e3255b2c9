package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/gridtalk/gridtalk/internal/dto"
	"github.com/gridtalk/gridtalk/internal/model"
	"github.com/gridtalk/gridtalk/pkg/apperror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCommentServiceForTest(threadRepo *fakeThreadRepo, commentRepo *fakeCommentRepo, bc *fakeBroadcaster) CommentService {
	return NewCommentService(commentRepo, threadRepo, bc, nil, 5*time.Second)
}

func TestCreateComment(t *testing.T) {
	userID := uuid.New()
	thread := &model.Thread{ID: uuid.New()}
	commentRepo := newFakeCommentRepo()
	bc := &fakeBroadcaster{}
	svc := newCommentServiceForTest(newFakeThreadRepo(thread), commentRepo, bc)

	resp, err := svc.CreateComment(context.Background(), userID, thread.ID, dto.CreateCommentRequest{
		Content: "Hamilton had the pace all weekend",
	})
	require.NoError(t, err)
	assert.Equal(t, thread.ID, resp.ThreadID)
	assert.Equal(t, userID, resp.AuthorID)
	assert.Nil(t, resp.ParentCommentID)

	require.Len(t, bc.calls, 1)
	assert.Equal(t, thread.ID, bc.calls[0].threadID)
	assert.Equal(t, EventNewComment, bc.calls[0].event)
}

func TestCreateCommentSanitizesContent(t *testing.T) {
	thread := &model.Thread{ID: uuid.New()}
	svc := newCommentServiceForTest(newFakeThreadRepo(thread), newFakeCommentRepo(), &fakeBroadcaster{})

	resp, err := svc.CreateComment(context.Background(), uuid.New(), thread.ID, dto.CreateCommentRequest{
		Content: `<script>alert("xss")</script>great race`,
	})
	require.NoError(t, err)
	assert.NotContains(t, resp.Content, "<script>")
	assert.Contains(t, resp.Content, "great race")
}

func TestCreateCommentLockedThread(t *testing.T) {
	thread := &model.Thread{ID: uuid.New(), Locked: true}
	bc := &fakeBroadcaster{}
	svc := newCommentServiceForTest(newFakeThreadRepo(thread), newFakeCommentRepo(), bc)

	_, err := svc.CreateComment(context.Background(), uuid.New(), thread.ID, dto.CreateCommentRequest{Content: "hi"})
	assert.ErrorIs(t, err, apperror.ErrThreadLocked)
	assert.Empty(t, bc.calls)
}

func TestCreateCommentMissingThread(t *testing.T) {
	svc := newCommentServiceForTest(newFakeThreadRepo(), newFakeCommentRepo(), &fakeBroadcaster{})

	_, err := svc.CreateComment(context.Background(), uuid.New(), uuid.New(), dto.CreateCommentRequest{Content: "hi"})
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}

func TestCreateCommentParentFromAnotherThread(t *testing.T) {
	thread := &model.Thread{ID: uuid.New()}
	foreign := &model.Comment{ID: uuid.New(), ThreadID: uuid.New()}
	svc := newCommentServiceForTest(newFakeThreadRepo(thread), newFakeCommentRepo(foreign), &fakeBroadcaster{})

	_, err := svc.CreateComment(context.Background(), uuid.New(), thread.ID, dto.CreateCommentRequest{
		Content:         "reply",
		ParentCommentID: foreign.ID.String(),
	})
	assert.ErrorIs(t, err, apperror.ErrInvalidInput)
}

func TestCreateCommentDeletedParentTolerated(t *testing.T) {
	thread := &model.Thread{ID: uuid.New()}
	deletedParentID := uuid.New()
	svc := newCommentServiceForTest(newFakeThreadRepo(thread), newFakeCommentRepo(), &fakeBroadcaster{})

	resp, err := svc.CreateComment(context.Background(), uuid.New(), thread.ID, dto.CreateCommentRequest{
		Content:         "reply into the void",
		ParentCommentID: deletedParentID.String(),
	})
	require.NoError(t, err)
	// The dangling reference is kept; the tree assembler surfaces the reply
	// at top level.
	require.NotNil(t, resp.ParentCommentID)
	assert.Equal(t, deletedParentID, *resp.ParentCommentID)
}

func TestUpdateComment(t *testing.T) {
	authorID := uuid.New()
	comment := &model.Comment{ID: uuid.New(), ThreadID: uuid.New(), AuthorID: authorID, Content: "before"}
	bc := &fakeBroadcaster{}
	svc := newCommentServiceForTest(newFakeThreadRepo(), newFakeCommentRepo(comment), bc)

	resp, err := svc.UpdateComment(context.Background(), authorID, comment.ID, dto.UpdateCommentRequest{Content: "after"})
	require.NoError(t, err)
	assert.Equal(t, "after", resp.Content)
	assert.True(t, resp.Edited)

	require.Len(t, bc.calls, 1)
	assert.Equal(t, comment.ThreadID, bc.calls[0].threadID)
	assert.Equal(t, EventEditComment, bc.calls[0].event)
}

func TestUpdateCommentPreservesConcurrentVotes(t *testing.T) {
	authorID := uuid.New()
	voter := uuid.NewString()
	comment := &model.Comment{
		ID:       uuid.New(),
		ThreadID: uuid.New(),
		AuthorID: authorID,
		Content:  "before",
		LikedBy:  []string{voter},
	}
	commentRepo := newFakeCommentRepo(comment)
	svc := newCommentServiceForTest(newFakeThreadRepo(), commentRepo, &fakeBroadcaster{})

	_, err := svc.UpdateComment(context.Background(), authorID, comment.ID, dto.UpdateCommentRequest{Content: "after"})
	require.NoError(t, err)

	stored, err := commentRepo.FindByID(context.Background(), comment.ID)
	require.NoError(t, err)
	assert.Equal(t, "after", stored.Content)
	assert.Equal(t, []string{voter}, []string(stored.LikedBy))
}

func TestUpdateCommentNotAuthor(t *testing.T) {
	comment := &model.Comment{ID: uuid.New(), ThreadID: uuid.New(), AuthorID: uuid.New()}
	bc := &fakeBroadcaster{}
	svc := newCommentServiceForTest(newFakeThreadRepo(), newFakeCommentRepo(comment), bc)

	_, err := svc.UpdateComment(context.Background(), uuid.New(), comment.ID, dto.UpdateCommentRequest{Content: "hijack"})
	assert.ErrorIs(t, err, apperror.ErrForbidden)
	assert.Empty(t, bc.calls)
}

func TestDeleteComment(t *testing.T) {
	authorID := uuid.New()
	comment := &model.Comment{ID: uuid.New(), ThreadID: uuid.New(), AuthorID: authorID}
	commentRepo := newFakeCommentRepo(comment)
	commentRepo.removed = 4
	bc := &fakeBroadcaster{}
	svc := newCommentServiceForTest(newFakeThreadRepo(), commentRepo, bc)

	resp, err := svc.DeleteComment(context.Background(), authorID, comment.ID)
	require.NoError(t, err)
	assert.Equal(t, comment.ID, resp.ID)
	assert.Equal(t, comment.ThreadID, resp.ThreadID)
	assert.Equal(t, int64(4), resp.RemovedCount)

	require.Len(t, bc.calls, 1)
	assert.Equal(t, EventDeleteComment, bc.calls[0].event)
	assert.Equal(t, resp, bc.calls[0].data)
}

func TestDeleteCommentNotAuthor(t *testing.T) {
	comment := &model.Comment{ID: uuid.New(), ThreadID: uuid.New(), AuthorID: uuid.New()}
	bc := &fakeBroadcaster{}
	svc := newCommentServiceForTest(newFakeThreadRepo(), newFakeCommentRepo(comment), bc)

	_, err := svc.DeleteComment(context.Background(), uuid.New(), comment.ID)
	assert.ErrorIs(t, err, apperror.ErrForbidden)
	assert.Empty(t, bc.calls)

	// Nothing was removed.
	_, err = svc.DeleteComment(context.Background(), comment.AuthorID, comment.ID)
	assert.NoError(t, err)
}
