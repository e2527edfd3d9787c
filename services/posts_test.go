package services

import (
	"context"
	"testing"
	"time"

	"pulse/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreatePostEmptyContent(t *testing.T) {
	setupTestDB(t)
	ps := NewPostService()
	author := createTestUser(t)

	_, err := ps.CreatePost(context.Background(), author.ID, "  \n ")
	assert.ErrorIs(t, err, ErrEmptyPost)
}

func TestUpdatePostOwnerOnly(t *testing.T) {
	setupTestDB(t)
	ps := NewPostService()
	author := createTestUser(t)
	stranger := createTestUser(t)

	post, err := ps.CreatePost(context.Background(), author.ID, "original")
	require.NoError(t, err)

	_, err = ps.UpdatePost(context.Background(), stranger.ID, post.ID, "hacked")
	assert.ErrorIs(t, err, ErrForbidden)

	updated, err := ps.UpdatePost(context.Background(), author.ID, post.ID, "edited")
	require.NoError(t, err)
	assert.Equal(t, "edited", updated.Content)
	// Авторство не меняется
	assert.Equal(t, author.ID, updated.AuthorID)
}

func TestDeletePostOwnerOnlyWithCascade(t *testing.T) {
	setupTestDB(t)
	ps := NewPostService()
	cs := NewCommentService()
	ls := NewLikeService()
	author := createTestUser(t)
	other := createTestUser(t)

	post, err := ps.CreatePost(context.Background(), author.ID, "to be deleted")
	require.NoError(t, err)

	_, err = cs.Add(context.Background(), other.ID, post.ID, "comment")
	require.NoError(t, err)
	_, err = ls.Toggle(context.Background(), other.ID, post.ID)
	require.NoError(t, err)

	err = ps.DeletePost(context.Background(), other.ID, post.ID)
	assert.ErrorIs(t, err, ErrForbidden)

	require.NoError(t, ps.DeletePost(context.Background(), author.ID, post.ID))

	// Пост, комментарии, лайки и уведомления на него удалены вместе
	assert.EqualValues(t, 0, countRows(t, &models.Post{}, "id = ?", post.ID))
	assert.EqualValues(t, 0, countRows(t, &models.Comment{}, "post_id = ?", post.ID))
	assert.EqualValues(t, 0, countRows(t, &models.Like{}, "post_id = ?", post.ID))
	assert.EqualValues(t, 0, countRows(t, &models.Notification{},
		"target_kind = ? AND target_id = ?", models.TargetPost, post.ID))

	assert.ErrorIs(t, ps.DeletePost(context.Background(), author.ID, post.ID), ErrNotFound)
}

func TestFeedEmptyWithoutFollows(t *testing.T) {
	setupTestDB(t)
	ps := NewPostService()
	user := createTestUser(t)
	author := createTestUser(t)
	createTestPost(t, author.ID, "unseen", time.Now())

	feed, err := ps.GetUserFeed(context.Background(), user.ID, 0, 20)
	require.NoError(t, err)
	assert.Empty(t, feed.Posts)
	assert.False(t, feed.HasMore)
}

func TestFeedScenario(t *testing.T) {
	setupTestDB(t)
	ps := NewPostService()
	fs := NewFollowService()
	a := createTestUser(t)
	b := createTestUser(t)

	require.NoError(t, fs.Follow(context.Background(), a.ID, b.ID))

	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	p1 := createTestPost(t, b.ID, "P1", base)
	p2 := createTestPost(t, b.ID, "P2", base.Add(time.Hour))

	feed, err := ps.GetUserFeed(context.Background(), a.ID, 0, 20)
	require.NoError(t, err)
	require.Len(t, feed.Posts, 2)
	assert.Equal(t, p2.ID, feed.Posts[0].ID)
	assert.Equal(t, p1.ID, feed.Posts[1].ID)

	// Собственные посты в ленту не попадают
	feed, err = ps.GetUserFeed(context.Background(), b.ID, 0, 20)
	require.NoError(t, err)
	assert.Empty(t, feed.Posts)

	// После отписки лента пустая
	require.NoError(t, fs.Unfollow(context.Background(), a.ID, b.ID))
	feed, err = ps.GetUserFeed(context.Background(), a.ID, 0, 20)
	require.NoError(t, err)
	assert.Empty(t, feed.Posts)
}

func TestFeedTieBreakByPostID(t *testing.T) {
	setupTestDB(t)
	ps := NewPostService()
	fs := NewFollowService()
	reader := createTestUser(t)
	author := createTestUser(t)

	require.NoError(t, fs.Follow(context.Background(), reader.ID, author.ID))

	sameTime := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	first := createTestPost(t, author.ID, "first", sameTime)
	second := createTestPost(t, author.ID, "second", sameTime)

	feed, err := ps.GetUserFeed(context.Background(), reader.ID, 0, 20)
	require.NoError(t, err)
	require.Len(t, feed.Posts, 2)
	// Равные created_at: выигрывает вставленный позже (id DESC)
	assert.Equal(t, second.ID, feed.Posts[0].ID)
	assert.Equal(t, first.ID, feed.Posts[1].ID)
}

func TestFeedPagination(t *testing.T) {
	setupTestDB(t)
	ps := NewPostService()
	fs := NewFollowService()
	reader := createTestUser(t)
	author := createTestUser(t)

	require.NoError(t, fs.Follow(context.Background(), reader.ID, author.ID))

	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		createTestPost(t, author.ID, "post", base.Add(time.Duration(i)*time.Minute))
	}

	feed, err := ps.GetUserFeed(context.Background(), reader.ID, 0, 2)
	require.NoError(t, err)
	require.Len(t, feed.Posts, 2)
	assert.True(t, feed.HasMore)

	next, err := ps.GetUserFeed(context.Background(), reader.ID, feed.LastID, 2)
	require.NoError(t, err)
	require.Len(t, next.Posts, 2)
	assert.Less(t, next.Posts[0].ID, feed.Posts[1].ID)
}

func TestListByAuthor(t *testing.T) {
	setupTestDB(t)
	ps := NewPostService()
	author := createTestUser(t)

	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	createTestPost(t, author.ID, "old", base)
	newest := createTestPost(t, author.ID, "new", base.Add(time.Hour))

	posts, err := ps.ListByAuthor(context.Background(), author.ID)
	require.NoError(t, err)
	require.Len(t, posts, 2)
	assert.Equal(t, newest.ID, posts[0].ID)
}
