package services

import (
	"testing"
	"time"

	"pulse/db"
	"pulse/models"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// setupTestDB инициализирует in-memory SQLite и сбрасывает глобальное состояние.
// Redis и RabbitMQ в юнит-тестах не используются: сервисы переходят на
// синхронные fallback-пути.
func setupTestDB(t *testing.T) {
	t.Helper()

	database, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	require.NoError(t, db.Migrate(database))

	db.ORM = database
	RedisClient = nil
	QueueServiceInstance = nil
}

func createTestUser(t *testing.T) *models.User {
	t.Helper()

	user := &models.User{
		Nickname:  gofakeit.Username(),
		FirstName: gofakeit.FirstName(),
		LastName:  gofakeit.LastName(),
		Password:  "x",
	}
	require.NoError(t, db.ORM.Create(user).Error)
	return user
}

func createTestPost(t *testing.T, authorID int64, content string, createdAt time.Time) *models.Post {
	t.Helper()

	post := &models.Post{
		AuthorID:  authorID,
		Content:   content,
		CreatedAt: createdAt,
		UpdatedAt: createdAt,
	}
	require.NoError(t, db.ORM.Create(post).Error)
	return post
}

func countRows(t *testing.T, model interface{}, query string, args ...interface{}) int64 {
	t.Helper()

	var count int64
	require.NoError(t, db.ORM.Model(model).Where(query, args...).Count(&count).Error)
	return count
}
