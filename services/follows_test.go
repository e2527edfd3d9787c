package services

import (
	"context"
	"testing"

	"pulse/db"
	"pulse/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFollowSelfRejected(t *testing.T) {
	setupTestDB(t)
	fs := NewFollowService()
	user := createTestUser(t)

	err := fs.Follow(context.Background(), user.ID, user.ID)
	assert.ErrorIs(t, err, ErrSelfFollow)

	assert.EqualValues(t, 0, countRows(t, &models.Follow{}, "follower_id = ?", user.ID))
}

func TestFollowUnknownUser(t *testing.T) {
	setupTestDB(t)
	fs := NewFollowService()
	user := createTestUser(t)

	err := fs.Follow(context.Background(), user.ID, user.ID+1000)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestFollowIdempotent(t *testing.T) {
	setupTestDB(t)
	fs := NewFollowService()
	alice := createTestUser(t)
	bob := createTestUser(t)

	require.NoError(t, fs.Follow(context.Background(), alice.ID, bob.ID))
	require.NoError(t, fs.Follow(context.Background(), alice.ID, bob.ID))

	// Ровно одно ребро и не больше одного уведомления о подписке
	assert.EqualValues(t, 1, countRows(t, &models.Follow{},
		"follower_id = ? AND followee_id = ?", alice.ID, bob.ID))
	assert.EqualValues(t, 1, countRows(t, &models.Notification{},
		"actor_id = ? AND recipient_id = ? AND verb = ?", alice.ID, bob.ID, models.VerbFollowed))
}

func TestFollowEmitsNotification(t *testing.T) {
	setupTestDB(t)
	fs := NewFollowService()
	alice := createTestUser(t)
	bob := createTestUser(t)

	require.NoError(t, fs.Follow(context.Background(), alice.ID, bob.ID))

	var notification models.Notification
	require.NoError(t, db.ORM.
		Where("actor_id = ? AND recipient_id = ?", alice.ID, bob.ID).
		First(&notification).Error)
	assert.Equal(t, models.VerbFollowed, notification.Verb)
	assert.Equal(t, models.TargetUser, notification.TargetKind)
	assert.Equal(t, alice.ID, notification.TargetID)
	assert.False(t, notification.IsRead)
}

func TestUnfollowRemovesEdgeAndNotification(t *testing.T) {
	setupTestDB(t)
	fs := NewFollowService()
	alice := createTestUser(t)
	bob := createTestUser(t)

	require.NoError(t, fs.Follow(context.Background(), alice.ID, bob.ID))
	require.NoError(t, fs.Unfollow(context.Background(), alice.ID, bob.ID))

	assert.EqualValues(t, 0, countRows(t, &models.Follow{},
		"follower_id = ? AND followee_id = ?", alice.ID, bob.ID))
	assert.EqualValues(t, 0, countRows(t, &models.Notification{},
		"actor_id = ? AND recipient_id = ? AND verb = ?", alice.ID, bob.ID, models.VerbFollowed))
}

func TestUnfollowWithoutEdgeIsNoop(t *testing.T) {
	setupTestDB(t)
	fs := NewFollowService()
	alice := createTestUser(t)
	bob := createTestUser(t)

	require.NoError(t, fs.Unfollow(context.Background(), alice.ID, bob.ID))
}

func TestFollowingList(t *testing.T) {
	setupTestDB(t)
	fs := NewFollowService()
	alice := createTestUser(t)
	bob := createTestUser(t)
	carol := createTestUser(t)

	require.NoError(t, fs.Follow(context.Background(), alice.ID, bob.ID))
	require.NoError(t, fs.Follow(context.Background(), alice.ID, carol.ID))

	ids, err := fs.Following(context.Background(), alice.ID)
	require.NoError(t, err)
	assert.ElementsMatch(t, []int64{bob.ID, carol.ID}, ids)

	// Подписка направленная: у Боба подписок нет
	ids, err = fs.Following(context.Background(), bob.ID)
	require.NoError(t, err)
	assert.Empty(t, ids)

	ok, err := fs.IsFollowing(context.Background(), alice.ID, bob.ID)
	require.NoError(t, err)
	assert.True(t, ok)
	ok, err = fs.IsFollowing(context.Background(), bob.ID, alice.ID)
	require.NoError(t, err)
	assert.False(t, ok)
}
