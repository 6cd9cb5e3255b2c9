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

func newThreadServiceForTest(threadRepo *fakeThreadRepo, commentRepo *fakeCommentRepo, bc *fakeBroadcaster) ThreadService {
	return NewThreadService(threadRepo, commentRepo, bc, nil, time.Minute)
}

func TestCreateThread(t *testing.T) {
	userID := uuid.New()
	threadRepo := newFakeThreadRepo()
	svc := newThreadServiceForTest(threadRepo, newFakeCommentRepo(), &fakeBroadcaster{})

	resp, err := svc.CreateThread(context.Background(), userID, dto.CreateThreadRequest{
		Title:    "Monza race thread",
		Content:  "Lights out in 10 minutes",
		Category: model.CategoryRaceDiscussion,
		Tags:     []string{"monza", "", "monza", " italy "},
	})
	require.NoError(t, err)
	assert.Equal(t, userID, resp.AuthorID)
	assert.Equal(t, []string{"monza", "italy"}, resp.Tags)
	assert.Equal(t, 0, resp.Score)
	assert.Equal(t, 0, resp.CommentCount)
}

func TestCreateThreadInvalidCategory(t *testing.T) {
	svc := newThreadServiceForTest(newFakeThreadRepo(), newFakeCommentRepo(), &fakeBroadcaster{})

	_, err := svc.CreateThread(context.Background(), uuid.New(), dto.CreateThreadRequest{
		Title:    "title",
		Content:  "content",
		Category: "paddock-gossip",
	})
	assert.ErrorIs(t, err, apperror.ErrInvalidInput)
}

func TestGetThreadAssemblesCommentTree(t *testing.T) {
	thread := &model.Thread{ID: uuid.New(), Title: "quali"}
	root := &model.Comment{ID: uuid.New(), ThreadID: thread.ID, Content: "P1"}
	reply := &model.Comment{ID: uuid.New(), ThreadID: thread.ID, ParentID: &root.ID, Content: "P2"}
	svc := newThreadServiceForTest(newFakeThreadRepo(thread), newFakeCommentRepo(root, reply), &fakeBroadcaster{})

	resp, err := svc.GetThread(context.Background(), thread.ID)
	require.NoError(t, err)
	assert.Equal(t, thread.ID, resp.Thread.ID)
	require.Len(t, resp.Comments, 1)
	require.Len(t, resp.Comments[0].Replies, 1)
	assert.Equal(t, "P2", resp.Comments[0].Replies[0].Content)
}

func TestGetThreadMissing(t *testing.T) {
	svc := newThreadServiceForTest(newFakeThreadRepo(), newFakeCommentRepo(), &fakeBroadcaster{})

	_, err := svc.GetThread(context.Background(), uuid.New())
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}

func TestUpdateThread(t *testing.T) {
	authorID := uuid.New()
	thread := &model.Thread{ID: uuid.New(), AuthorID: authorID, Title: "old"}
	bc := &fakeBroadcaster{}
	svc := newThreadServiceForTest(newFakeThreadRepo(thread), newFakeCommentRepo(), bc)

	resp, err := svc.UpdateThread(context.Background(), authorID, thread.ID, dto.UpdateThreadRequest{
		Title:   "new title",
		Content: "new content",
	})
	require.NoError(t, err)
	assert.Equal(t, "new title", resp.Title)

	require.Len(t, bc.calls, 1)
	assert.Equal(t, thread.ID, bc.calls[0].threadID)
	assert.Equal(t, EventThreadUpdate, bc.calls[0].event)
}

func TestUpdateThreadPreservesConcurrentVotes(t *testing.T) {
	authorID := uuid.New()
	voter := uuid.NewString()
	thread := &model.Thread{
		ID:           uuid.New(),
		AuthorID:     authorID,
		Title:        "old",
		LikedBy:      []string{voter},
		Views:        7,
		CommentCount: 2,
	}
	threadRepo := newFakeThreadRepo(thread)
	svc := newThreadServiceForTest(threadRepo, newFakeCommentRepo(), &fakeBroadcaster{})

	_, err := svc.UpdateThread(context.Background(), authorID, thread.ID, dto.UpdateThreadRequest{
		Title:   "new",
		Content: "new content",
	})
	require.NoError(t, err)

	// An edit must not write back the vote sets or counters it read.
	stored, err := threadRepo.FindByID(context.Background(), thread.ID)
	require.NoError(t, err)
	assert.Equal(t, "new", stored.Title)
	assert.Equal(t, []string{voter}, []string(stored.LikedBy))
	assert.Equal(t, 7, stored.Views)
	assert.Equal(t, 2, stored.CommentCount)
}

func TestUpdateThreadNotAuthor(t *testing.T) {
	thread := &model.Thread{ID: uuid.New(), AuthorID: uuid.New()}
	bc := &fakeBroadcaster{}
	svc := newThreadServiceForTest(newFakeThreadRepo(thread), newFakeCommentRepo(), bc)

	_, err := svc.UpdateThread(context.Background(), uuid.New(), thread.ID, dto.UpdateThreadRequest{
		Title:   "hijack",
		Content: "hijack",
	})
	assert.ErrorIs(t, err, apperror.ErrForbidden)
	assert.Empty(t, bc.calls)
}

func TestDeleteThread(t *testing.T) {
	authorID := uuid.New()
	thread := &model.Thread{ID: uuid.New(), AuthorID: authorID}
	threadRepo := newFakeThreadRepo(thread)
	bc := &fakeBroadcaster{}
	svc := newThreadServiceForTest(threadRepo, newFakeCommentRepo(), bc)

	require.NoError(t, svc.DeleteThread(context.Background(), authorID, thread.ID))

	_, err := threadRepo.FindByID(context.Background(), thread.ID)
	assert.ErrorIs(t, err, apperror.ErrNotFound)

	require.Len(t, bc.calls, 1)
	assert.Equal(t, EventThreadDelete, bc.calls[0].event)
}

func TestDeleteThreadNotAuthor(t *testing.T) {
	thread := &model.Thread{ID: uuid.New(), AuthorID: uuid.New()}
	threadRepo := newFakeThreadRepo(thread)
	svc := newThreadServiceForTest(threadRepo, newFakeCommentRepo(), &fakeBroadcaster{})

	err := svc.DeleteThread(context.Background(), uuid.New(), thread.ID)
	assert.ErrorIs(t, err, apperror.ErrForbidden)

	_, err = threadRepo.FindByID(context.Background(), thread.ID)
	assert.NoError(t, err, "thread must survive a rejected delete")
}
