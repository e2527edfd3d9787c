package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"pulse/db"
	"pulse/models"

	"gorm.io/gorm"
)

type CommentService struct {
	notifications *NotificationService
}

func NewCommentService() *CommentService {
	return &CommentService{notifications: NewNotificationService()}
}

// Add создает комментарий к посту. Пустой после обрезки пробелов текст
// отклоняется. Автор поста получает уведомление, если комментирует не он сам.
func (cs *CommentService) Add(ctx context.Context, actorID, postID int64, text string) (*models.Comment, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, ErrEmptyComment
	}

	var post models.Post
	err := db.GetReadOnlyDB(ctx).First(&post, postID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to load post: %w", err)
	}

	comment := &models.Comment{
		PostID:   postID,
		AuthorID: actorID,
		Content:  text,
	}
	if err := db.GetWriteDB(ctx).Create(comment).Error; err != nil {
		return nil, fmt.Errorf("failed to create comment: %w", err)
	}

	if actorID != post.AuthorID {
		if _, err := cs.notifications.Fanout(ctx, actorID, post.AuthorID, models.VerbCommented, models.TargetPost, postID); err != nil {
			return nil, err
		}
	}
	return comment, nil
}

// List возвращает комментарии поста в порядке треда (старые сверху)
func (cs *CommentService) List(ctx context.Context, postID int64) ([]models.Comment, error) {
	var comments []models.Comment
	err := db.GetReadOnlyDB(ctx).
		Where("post_id = ?", postID).
		Order("created_at, id").
		Find(&comments).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list comments: %w", err)
	}
	return comments, nil
}

// Update меняет текст комментария. Только для автора.
func (cs *CommentService) Update(ctx context.Context, actorID, commentID int64, text string) (*models.Comment, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, ErrEmptyComment
	}

	var comment models.Comment
	err := db.GetWriteDB(ctx).First(&comment, commentID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to load comment: %w", err)
	}

	if err := mustOwn(actorID, ownedComment(comment)); err != nil {
		return nil, err
	}

	comment.Content = text
	if err := db.GetWriteDB(ctx).Save(&comment).Error; err != nil {
		return nil, fmt.Errorf("failed to update comment: %w", err)
	}
	return &comment, nil
}

// Delete удаляет комментарий. Только для автора.
func (cs *CommentService) Delete(ctx context.Context, actorID, commentID int64) error {
	var comment models.Comment
	err := db.GetWriteDB(ctx).First(&comment, commentID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to load comment: %w", err)
	}

	if err := mustOwn(actorID, ownedComment(comment)); err != nil {
		return err
	}

	if err := db.GetWriteDB(ctx).Delete(&comment).Error; err != nil {
		return fmt.Errorf("failed to delete comment: %w", err)
	}
	return nil
}
