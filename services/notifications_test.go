package services

import (
	"context"
	"testing"
	"time"

	"pulse/db"
	"pulse/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func insertNotification(t *testing.T, actorID, recipientID int64, verb models.Verb, createdAt time.Time) *models.Notification {
	t.Helper()

	n := &models.Notification{
		ActorID:     actorID,
		RecipientID: recipientID,
		Verb:        verb,
		TargetKind:  models.TargetUser,
		TargetID:    actorID,
		CreatedAt:   createdAt,
	}
	require.NoError(t, db.ORM.Create(n).Error)
	return n
}

func TestListNotificationsNewestFirst(t *testing.T) {
	setupTestDB(t)
	ns := NewNotificationService()
	actor := createTestUser(t)
	recipient := createTestUser(t)

	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	old := insertNotification(t, actor.ID, recipient.ID, models.VerbFollowed, base)
	newer := insertNotification(t, actor.ID, recipient.ID, models.VerbLiked, base.Add(time.Hour))
	// Одинаковый timestamp: первым идет вставленный позже
	tieFirst := insertNotification(t, actor.ID, recipient.ID, models.VerbCommented, base.Add(2*time.Hour))
	tieSecond := insertNotification(t, actor.ID, recipient.ID, models.VerbCommented, base.Add(2*time.Hour))

	notifications, err := ns.List(context.Background(), recipient.ID)
	require.NoError(t, err)
	require.Len(t, notifications, 4)

	assert.Equal(t, tieSecond.ID, notifications[0].ID)
	assert.Equal(t, tieFirst.ID, notifications[1].ID)
	assert.Equal(t, newer.ID, notifications[2].ID)
	assert.Equal(t, old.ID, notifications[3].ID)
}

func TestListNotificationsOnlyRecipient(t *testing.T) {
	setupTestDB(t)
	ns := NewNotificationService()
	actor := createTestUser(t)
	recipient := createTestUser(t)
	other := createTestUser(t)

	insertNotification(t, actor.ID, recipient.ID, models.VerbFollowed, time.Now())

	notifications, err := ns.List(context.Background(), other.ID)
	require.NoError(t, err)
	assert.Empty(t, notifications)
}

func TestMarkReadForbiddenForOthers(t *testing.T) {
	setupTestDB(t)
	ns := NewNotificationService()
	actor := createTestUser(t)
	recipient := createTestUser(t)
	stranger := createTestUser(t)

	n := insertNotification(t, actor.ID, recipient.ID, models.VerbFollowed, time.Now())

	// Чужое уведомление пометить нельзя
	err := ns.MarkRead(context.Background(), stranger.ID, n.ID)
	assert.ErrorIs(t, err, ErrForbidden)

	// Владелец помечает успешно
	require.NoError(t, ns.MarkRead(context.Background(), recipient.ID, n.ID))

	var reloaded models.Notification
	require.NoError(t, db.ORM.First(&reloaded, n.ID).Error)
	assert.True(t, reloaded.IsRead)

	// Повторный вызов - no-op успех
	require.NoError(t, ns.MarkRead(context.Background(), recipient.ID, n.ID))
}

func TestMarkReadUnknownNotification(t *testing.T) {
	setupTestDB(t)
	ns := NewNotificationService()
	user := createTestUser(t)

	err := ns.MarkRead(context.Background(), user.ID, 424242)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUnreadCount(t *testing.T) {
	setupTestDB(t)
	ns := NewNotificationService()
	actor := createTestUser(t)
	recipient := createTestUser(t)

	first := insertNotification(t, actor.ID, recipient.ID, models.VerbFollowed, time.Now())
	insertNotification(t, actor.ID, recipient.ID, models.VerbLiked, time.Now())

	count, err := ns.UnreadCount(context.Background(), recipient.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 2, count)

	require.NoError(t, ns.MarkRead(context.Background(), recipient.ID, first.ID))

	count, err = ns.UnreadCount(context.Background(), recipient.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)
}

func TestFanoutPersistsNotification(t *testing.T) {
	setupTestDB(t)
	ns := NewNotificationService()
	actor := createTestUser(t)
	recipient := createTestUser(t)

	n, err := ns.Fanout(context.Background(), actor.ID, recipient.ID, models.VerbLiked, models.TargetPost, 7)
	require.NoError(t, err)
	require.NotZero(t, n.ID)
	assert.Equal(t, models.TargetPost, n.TargetKind)
	assert.EqualValues(t, 7, n.TargetID)
	assert.False(t, n.IsRead)
}
