package services

import (
	"context"
	"errors"
	"fmt"
	"log"

	"pulse/db"
	"pulse/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type FollowService struct {
	notifications *NotificationService
	posts         *PostService
}

func NewFollowService() *FollowService {
	return &FollowService{
		notifications: NewNotificationService(),
		posts:         NewPostService(),
	}
}

// invalidateActorFeed сбрасывает кеш ленты актора: после изменения графа
// подписок закешированная лента ему больше не соответствует.
func (fs *FollowService) invalidateActorFeed(ctx context.Context, actorID int64) {
	if RedisClient == nil {
		return
	}
	if err := fs.posts.InvalidateUserFeed(ctx, actorID); err != nil {
		log.Printf("Warning: failed to invalidate feed cache for user %d: %v", actorID, err)
	}
}

// Follow подписывает актора на пользователя target.
// Самоподписка запрещена, повторная подписка идемпотентна: ребро одно,
// уведомление о подписке не дублируется.
func (fs *FollowService) Follow(ctx context.Context, actorID, targetID int64) error {
	if actorID == targetID {
		return ErrSelfFollow
	}

	// Проверяем, что оба пользователя существуют
	var userCount int64
	err := db.GetReadOnlyDB(ctx).Model(&models.User{}).
		Where("id IN (?)", []int64{actorID, targetID}).
		Count(&userCount).Error
	if err != nil {
		return fmt.Errorf("error checking users: %w", err)
	}
	if userCount != 2 {
		return ErrNotFound
	}

	edge := &models.Follow{
		FollowerID: actorID,
		FolloweeID: targetID,
	}

	// Гонка с параллельным follow того же ребра гасится уникальным
	// ограничением: DO NOTHING и ноль затронутых строк значит,
	// что ребро уже есть и уведомление слать не нужно.
	result := db.GetWriteDB(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(edge)
	if result.Error != nil {
		return fmt.Errorf("failed to create follow edge: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return nil
	}

	fs.invalidateActorFeed(ctx, actorID)

	_, err = fs.notifications.Fanout(ctx, actorID, targetID, models.VerbFollowed, models.TargetUser, actorID)
	if err != nil {
		return err
	}
	return nil
}

// Unfollow убирает подписку. Отсутствующее ребро не ошибка.
// Висящее уведомление о подписке удаляется как зачистка.
func (fs *FollowService) Unfollow(ctx context.Context, actorID, targetID int64) error {
	err := db.GetWriteDB(ctx).
		Where("follower_id = ? AND followee_id = ?", actorID, targetID).
		Delete(&models.Follow{}).Error
	if err != nil {
		return fmt.Errorf("failed to delete follow edge: %w", err)
	}

	fs.invalidateActorFeed(ctx, actorID)

	return fs.notifications.Cleanup(ctx, actorID, targetID, models.VerbFollowed, models.TargetUser, actorID)
}

// Following возвращает id пользователей, на которых подписан userID
func (fs *FollowService) Following(ctx context.Context, userID int64) ([]int64, error) {
	var ids []int64
	err := db.GetReadOnlyDB(ctx).Model(&models.Follow{}).
		Where("follower_id = ?", userID).
		Pluck("followee_id", &ids).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get following: %w", err)
	}
	return ids, nil
}

// FollowingUsers возвращает профили пользователей, на которых подписан userID
func (fs *FollowService) FollowingUsers(ctx context.Context, userID int64) ([]models.User, error) {
	var users []models.User
	err := db.GetReadOnlyDB(ctx).
		Table("users u").
		Joins("JOIN follows f ON f.followee_id = u.id").
		Where("f.follower_id = ?", userID).
		Select("u.id, u.nickname, u.first_name, u.last_name, u.created_at").
		Find(&users).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get following users: %w", err)
	}
	return users, nil
}

// Followers возвращает профили подписчиков userID
func (fs *FollowService) Followers(ctx context.Context, userID int64) ([]models.User, error) {
	var users []models.User
	err := db.GetReadOnlyDB(ctx).
		Table("users u").
		Joins("JOIN follows f ON f.follower_id = u.id").
		Where("f.followee_id = ?", userID).
		Select("u.id, u.nickname, u.first_name, u.last_name, u.created_at").
		Find(&users).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get followers: %w", err)
	}
	return users, nil
}

// IsFollowing проверяет наличие ребра подписки
func (fs *FollowService) IsFollowing(ctx context.Context, followerID, followeeID int64) (bool, error) {
	var edge models.Follow
	err := db.GetReadOnlyDB(ctx).
		Where("follower_id = ? AND followee_id = ?", followerID, followeeID).
		First(&edge).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("failed to check follow edge: %w", err)
	}
	return true, nil
}
