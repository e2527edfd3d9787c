package services

import (
	"context"
	"testing"
	"time"

	"pulse/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddCommentEmptyText(t *testing.T) {
	setupTestDB(t)
	cs := NewCommentService()
	author := createTestUser(t)
	post := createTestPost(t, author.ID, "post", time.Now())

	_, err := cs.Add(context.Background(), author.ID, post.ID, "   \t\n ")
	assert.ErrorIs(t, err, ErrEmptyComment)

	assert.EqualValues(t, 0, countRows(t, &models.Comment{}, "post_id = ?", post.ID))
}

func TestAddCommentUnknownPost(t *testing.T) {
	setupTestDB(t)
	cs := NewCommentService()
	user := createTestUser(t)

	_, err := cs.Add(context.Background(), user.ID, 999, "text")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestAddCommentNotifiesPostAuthor(t *testing.T) {
	setupTestDB(t)
	cs := NewCommentService()
	author := createTestUser(t)
	commenter := createTestUser(t)
	post := createTestPost(t, author.ID, "post", time.Now())

	comment, err := cs.Add(context.Background(), commenter.ID, post.ID, "  nice post  ")
	require.NoError(t, err)
	assert.Equal(t, "nice post", comment.Content)

	assert.EqualValues(t, 1, countRows(t, &models.Notification{},
		"actor_id = ? AND recipient_id = ? AND verb = ? AND target_kind = ? AND target_id = ?",
		commenter.ID, author.ID, models.VerbCommented, models.TargetPost, post.ID))

	// Каждый комментарий - отдельное уведомление
	_, err = cs.Add(context.Background(), commenter.ID, post.ID, "again")
	require.NoError(t, err)
	assert.EqualValues(t, 2, countRows(t, &models.Notification{},
		"actor_id = ? AND verb = ?", commenter.ID, models.VerbCommented))
}

func TestAddCommentSelfNoNotification(t *testing.T) {
	setupTestDB(t)
	cs := NewCommentService()
	author := createTestUser(t)
	post := createTestPost(t, author.ID, "post", time.Now())

	_, err := cs.Add(context.Background(), author.ID, post.ID, "note to self")
	require.NoError(t, err)

	assert.EqualValues(t, 0, countRows(t, &models.Notification{}, "recipient_id = ?", author.ID))
}

func TestListCommentsThreadOrder(t *testing.T) {
	setupTestDB(t)
	cs := NewCommentService()
	author := createTestUser(t)
	commenter := createTestUser(t)
	post := createTestPost(t, author.ID, "post", time.Now())

	first, err := cs.Add(context.Background(), commenter.ID, post.ID, "first")
	require.NoError(t, err)
	second, err := cs.Add(context.Background(), commenter.ID, post.ID, "second")
	require.NoError(t, err)

	comments, err := cs.List(context.Background(), post.ID)
	require.NoError(t, err)
	require.Len(t, comments, 2)
	assert.Equal(t, first.ID, comments[0].ID)
	assert.Equal(t, second.ID, comments[1].ID)
}

func TestUpdateCommentOwnerOnly(t *testing.T) {
	setupTestDB(t)
	cs := NewCommentService()
	author := createTestUser(t)
	commenter := createTestUser(t)
	stranger := createTestUser(t)
	post := createTestPost(t, author.ID, "post", time.Now())

	comment, err := cs.Add(context.Background(), commenter.ID, post.ID, "original")
	require.NoError(t, err)

	_, err = cs.Update(context.Background(), stranger.ID, comment.ID, "hacked")
	assert.ErrorIs(t, err, ErrForbidden)

	updated, err := cs.Update(context.Background(), commenter.ID, comment.ID, "edited")
	require.NoError(t, err)
	assert.Equal(t, "edited", updated.Content)
}

func TestDeleteCommentOwnerOnly(t *testing.T) {
	setupTestDB(t)
	cs := NewCommentService()
	author := createTestUser(t)
	commenter := createTestUser(t)
	post := createTestPost(t, author.ID, "post", time.Now())

	comment, err := cs.Add(context.Background(), commenter.ID, post.ID, "temp")
	require.NoError(t, err)

	err = cs.Delete(context.Background(), author.ID, comment.ID)
	assert.ErrorIs(t, err, ErrForbidden)

	require.NoError(t, cs.Delete(context.Background(), commenter.ID, comment.ID))
	assert.EqualValues(t, 0, countRows(t, &models.Comment{}, "id = ?", comment.ID))

	assert.ErrorIs(t, cs.Delete(context.Background(), commenter.ID, comment.ID), ErrNotFound)
}
