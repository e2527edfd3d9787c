package db

import (
	"fmt"

	"gorm.io/gorm"
)

// CreateSocialIndexes создает составные индексы под основные запросы:
// лента (посты по авторам, новые сверху) и список уведомлений получателя.
// Уникальные ограничения на ребро подписки и пару (post, user) лайка
// создаются автомиграцией из тегов моделей.
func CreateSocialIndexes(db *gorm.DB) error {
	indexes := []struct {
		name string
		sql  string
	}{
		{
			"idx_posts_author_id_created_at",
			"CREATE INDEX IF NOT EXISTS idx_posts_author_id_created_at ON posts (author_id, created_at DESC, id DESC)",
		},
		{
			"idx_notifications_recipient_created_at",
			"CREATE INDEX IF NOT EXISTS idx_notifications_recipient_created_at ON notifications (recipient_id, created_at DESC, id DESC)",
		},
		{
			"idx_comments_post_id_created_at",
			"CREATE INDEX IF NOT EXISTS idx_comments_post_id_created_at ON comments (post_id, created_at)",
		},
	}

	for _, idx := range indexes {
		if err := db.Exec(idx.sql).Error; err != nil {
			return fmt.Errorf("failed to create index %s: %w", idx.name, err)
		}
	}
	return nil
}
