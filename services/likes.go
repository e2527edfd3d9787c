package services

import (
	"context"
	"errors"
	"fmt"

	"pulse/db"
	"pulse/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Результаты переключения лайка
const (
	ToggleLiked   = "liked"
	ToggleUnliked = "unliked"
)

type LikeService struct {
	notifications *NotificationService
}

func NewLikeService() *LikeService {
	return &LikeService{notifications: NewNotificationService()}
}

// Toggle переключает лайк актора на посте.
// Существующий лайк удаляется вместе с уведомлением о нем, новый создается
// через INSERT .. ON CONFLICT DO NOTHING: проигрыш гонки за уникальную пару
// (post, user) трактуется как "уже лайкнуто", а не ошибка.
// Лайк собственного поста уведомления не порождает.
func (ls *LikeService) Toggle(ctx context.Context, actorID, postID int64) (string, error) {
	var post models.Post
	err := db.GetReadOnlyDB(ctx).First(&post, postID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("failed to load post: %w", err)
	}

	// Наличие лайка читаем через мастер: toggle обязан видеть собственную
	// запись из предыдущего вызова, реплика может отставать.
	var existing models.Like
	err = db.GetWriteDB(ctx).
		Where("post_id = ? AND user_id = ?", postID, actorID).
		First(&existing).Error
	if err == nil {
		// Лайк есть - снимаем и зачищаем уведомление
		if err := db.GetWriteDB(ctx).Delete(&existing).Error; err != nil {
			return "", fmt.Errorf("failed to delete like: %w", err)
		}
		if err := ls.notifications.Cleanup(ctx, actorID, post.AuthorID, models.VerbLiked, models.TargetPost, postID); err != nil {
			return "", err
		}
		return ToggleUnliked, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return "", fmt.Errorf("failed to check like: %w", err)
	}

	like := &models.Like{PostID: postID, UserID: actorID}
	result := db.GetWriteDB(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(like)
	if result.Error != nil {
		return "", fmt.Errorf("failed to create like: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		// Параллельный Toggle успел первым - уже лайкнуто
		return ToggleLiked, nil
	}

	if actorID != post.AuthorID {
		if _, err := ls.notifications.Fanout(ctx, actorID, post.AuthorID, models.VerbLiked, models.TargetPost, postID); err != nil {
			return "", err
		}
	}
	return ToggleLiked, nil
}

// Likers возвращает id пользователей, лайкнувших пост
func (ls *LikeService) Likers(ctx context.Context, postID int64) ([]int64, error) {
	var ids []int64
	err := db.GetReadOnlyDB(ctx).Model(&models.Like{}).
		Where("post_id = ?", postID).
		Order("created_at").
		Pluck("user_id", &ids).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get likers: %w", err)
	}
	return ids, nil
}

// Count возвращает количество лайков поста
func (ls *LikeService) Count(ctx context.Context, postID int64) (int64, error) {
	var count int64
	err := db.GetReadOnlyDB(ctx).Model(&models.Like{}).
		Where("post_id = ?", postID).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count likes: %w", err)
	}
	return count, nil
}
