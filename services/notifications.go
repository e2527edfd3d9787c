package services

import (
	"context"
	"errors"
	"fmt"
	"log"

	"pulse/db"
	"pulse/models"

	"gorm.io/gorm"
)

type NotificationService struct{}

func NewNotificationService() *NotificationService {
	return &NotificationService{}
}

// Fanout создает уведомление как побочный эффект действия (follow/like/comment),
// обновляет счетчик непрочитанных и пушит событие получателю.
// Доставка push-событий best-effort: ошибка RabbitMQ не откатывает уведомление,
// а переключает на прямую отправку через WebSocket.
func (ns *NotificationService) Fanout(ctx context.Context, actorID, recipientID int64, verb models.Verb, targetKind models.TargetKind, targetID int64) (*models.Notification, error) {
	notification := &models.Notification{
		ActorID:     actorID,
		RecipientID: recipientID,
		Verb:        verb,
		TargetKind:  targetKind,
		TargetID:    targetID,
	}

	err := db.GetWriteDB(ctx).Create(notification).Error
	if err != nil {
		return nil, fmt.Errorf("failed to create notification: %w", err)
	}

	if RedisClient != nil {
		if _, err := GetCounterService().AdjustUnread(ctx, recipientID, 1); err != nil {
			log.Printf("Warning: failed to bump unread counter for user %d: %v", recipientID, err)
		}
	}

	event := NotifyEvent{
		NotificationID: notification.ID,
		RecipientID:    notification.RecipientID,
		ActorID:        notification.ActorID,
		Verb:           notification.Verb,
		TargetKind:     notification.TargetKind,
		TargetID:       notification.TargetID,
		CreatedAt:      notification.CreatedAt,
	}
	if err := PublishNotifyEvent(ctx, event); err != nil {
		// Fallback: RabbitMQ недоступен, пушим напрямую
		pushNotifyEvent(event)
	}

	return notification, nil
}

// List возвращает уведомления получателя, новые сверху.
// При равных created_at первыми идут вставленные позже (id DESC).
func (ns *NotificationService) List(ctx context.Context, recipientID int64) ([]models.Notification, error) {
	var notifications []models.Notification
	err := db.GetReadOnlyDB(ctx).
		Where("recipient_id = ?", recipientID).
		Order("created_at DESC, id DESC").
		Find(&notifications).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list notifications: %w", err)
	}
	return notifications, nil
}

// MarkRead помечает уведомление прочитанным.
// Чужое уведомление - ErrForbidden; повторный вызов - no-op успех.
func (ns *NotificationService) MarkRead(ctx context.Context, callerID, notificationID int64) error {
	var notification models.Notification
	err := db.GetWriteDB(ctx).First(&notification, notificationID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to load notification: %w", err)
	}

	if notification.RecipientID != callerID {
		return ErrForbidden
	}

	if notification.IsRead {
		return nil
	}

	err = db.GetWriteDB(ctx).
		Model(&models.Notification{}).
		Where("id = ?", notification.ID).
		Update("is_read", true).Error
	if err != nil {
		return fmt.Errorf("failed to mark notification read: %w", err)
	}

	if RedisClient != nil {
		if _, err := GetCounterService().AdjustUnread(ctx, callerID, -1); err != nil {
			log.Printf("Warning: failed to decrement unread counter for user %d: %v", callerID, err)
		}
	}

	return nil
}

// UnreadCount возвращает число непрочитанных уведомлений получателя
func (ns *NotificationService) UnreadCount(ctx context.Context, recipientID int64) (int64, error) {
	if RedisClient != nil {
		return GetCounterService().GetUnread(ctx, recipientID)
	}

	var count int64
	err := db.GetReadOnlyDB(ctx).
		Model(&models.Notification{}).
		Where("recipient_id = ? AND is_read = ?", recipientID, false).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count unread notifications: %w", err)
	}
	return count, nil
}

// Cleanup удаляет уведомление о действии, которое было отменено
// (unfollow или повторный toggleLike). Явная зачистка, не каскад.
func (ns *NotificationService) Cleanup(ctx context.Context, actorID, recipientID int64, verb models.Verb, targetKind models.TargetKind, targetID int64) error {
	var stale []models.Notification
	err := db.GetWriteDB(ctx).
		Where("actor_id = ? AND recipient_id = ? AND verb = ? AND target_kind = ? AND target_id = ?",
			actorID, recipientID, verb, targetKind, targetID).
		Find(&stale).Error
	if err != nil {
		return fmt.Errorf("failed to find stale notifications: %w", err)
	}
	if len(stale) == 0 {
		return nil
	}

	unread := int64(0)
	ids := make([]int64, 0, len(stale))
	for _, n := range stale {
		ids = append(ids, n.ID)
		if !n.IsRead {
			unread++
		}
	}

	err = db.GetWriteDB(ctx).Delete(&models.Notification{}, ids).Error
	if err != nil {
		return fmt.Errorf("failed to delete stale notifications: %w", err)
	}

	if unread > 0 && RedisClient != nil {
		if _, err := GetCounterService().AdjustUnread(ctx, recipientID, -unread); err != nil {
			log.Printf("Warning: failed to decrement unread counter for user %d: %v", recipientID, err)
		}
	}
	return nil
}
