package services

import (
	"context"
	"testing"
	"time"

	"pulse/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToggleLikeTwice(t *testing.T) {
	setupTestDB(t)
	ls := NewLikeService()
	author := createTestUser(t)
	liker := createTestUser(t)
	post := createTestPost(t, author.ID, "hello", time.Now())

	status, err := ls.Toggle(context.Background(), liker.ID, post.ID)
	require.NoError(t, err)
	assert.Equal(t, ToggleLiked, status)

	// Автор получил ровно одно уведомление о лайке
	assert.EqualValues(t, 1, countRows(t, &models.Notification{},
		"actor_id = ? AND recipient_id = ? AND verb = ? AND target_id = ?",
		liker.ID, author.ID, models.VerbLiked, post.ID))

	status, err = ls.Toggle(context.Background(), liker.ID, post.ID)
	require.NoError(t, err)
	assert.Equal(t, ToggleUnliked, status)

	// Лайка нет, уведомление зачищено
	assert.EqualValues(t, 0, countRows(t, &models.Like{},
		"post_id = ? AND user_id = ?", post.ID, liker.ID))
	assert.EqualValues(t, 0, countRows(t, &models.Notification{},
		"actor_id = ? AND verb = ?", liker.ID, models.VerbLiked))
}

func TestToggleLikeSelfNoNotification(t *testing.T) {
	setupTestDB(t)
	ls := NewLikeService()
	author := createTestUser(t)
	post := createTestPost(t, author.ID, "my own post", time.Now())

	status, err := ls.Toggle(context.Background(), author.ID, post.ID)
	require.NoError(t, err)
	assert.Equal(t, ToggleLiked, status)

	assert.EqualValues(t, 1, countRows(t, &models.Like{}, "post_id = ?", post.ID))
	assert.EqualValues(t, 0, countRows(t, &models.Notification{}, "recipient_id = ?", author.ID))
}

func TestToggleLikeUnknownPost(t *testing.T) {
	setupTestDB(t)
	ls := NewLikeService()
	user := createTestUser(t)

	_, err := ls.Toggle(context.Background(), user.ID, 12345)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestLikersAndCount(t *testing.T) {
	setupTestDB(t)
	ls := NewLikeService()
	author := createTestUser(t)
	first := createTestUser(t)
	second := createTestUser(t)
	post := createTestPost(t, author.ID, "popular", time.Now())

	_, err := ls.Toggle(context.Background(), first.ID, post.ID)
	require.NoError(t, err)
	_, err = ls.Toggle(context.Background(), second.ID, post.ID)
	require.NoError(t, err)

	likers, err := ls.Likers(context.Background(), post.ID)
	require.NoError(t, err)
	assert.ElementsMatch(t, []int64{first.ID, second.ID}, likers)

	count, err := ls.Count(context.Background(), post.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 2, count)
}
