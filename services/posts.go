package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	"pulse/db"
	"pulse/models"

	"github.com/go-redis/redis/v8"
	"gorm.io/gorm"
)

const (
	FEED_CACHE_TTL  = 24 * time.Hour // TTL для кеша ленты
	MAX_FEED_SIZE   = 1000           // Максимальное количество постов в ленте
	FEED_KEY_PREFIX = "user_feed:"   // Префикс для ключей ленты в Redis
	POST_KEY_PREFIX = "post:"        // Префикс для кеша постов
)

type PostService struct{}

func NewPostService() *PostService {
	return &PostService{}
}

// feedMember кодирует id поста для sorted set ленты. Ширина фиксирована:
// при равном score Redis сортирует member-ы лексикографически, и дополнение
// нулями дает тот же порядок по id, что и выборка из БД.
func feedMember(postID int64) string {
	return fmt.Sprintf("%019d", postID)
}

// CreatePost создает новый пост и раскладывает его по лентам подписчиков
func (ps *PostService) CreatePost(ctx context.Context, authorID int64, content string) (*models.Post, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, ErrEmptyPost
	}

	post := &models.Post{
		AuthorID: authorID,
		Content:  content,
	}

	err := db.GetWriteDB(ctx).Create(post).Error
	if err != nil {
		return nil, fmt.Errorf("failed to create post: %w", err)
	}

	// Обновление лент подписчиков уходит в очередь; без очереди - синхронно
	if QueueServiceInstance != nil && RedisClient != nil {
		go QueueServiceInstance.EnqueueFeedUpdate(context.Background(), authorID, *post, "create")
	} else {
		ps.updateFollowerFeeds(ctx, authorID, post)
	}

	return post, nil
}

// GetPost возвращает пост по id. Чтение доступно всем.
func (ps *PostService) GetPost(ctx context.Context, postID int64) (*models.Post, error) {
	var post models.Post
	err := db.GetReadOnlyDB(ctx).First(&post, postID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to load post: %w", err)
	}
	return &post, nil
}

// UpdatePost меняет текст поста. Только для автора, авторство не переносится.
func (ps *PostService) UpdatePost(ctx context.Context, actorID, postID int64, content string) (*models.Post, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, ErrEmptyPost
	}

	var post models.Post
	err := db.GetWriteDB(ctx).First(&post, postID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to load post: %w", err)
	}

	if err := mustOwn(actorID, ownedPost(post)); err != nil {
		return nil, err
	}

	post.Content = content
	if err := db.GetWriteDB(ctx).Save(&post).Error; err != nil {
		return nil, fmt.Errorf("failed to update post: %w", err)
	}
	return &post, nil
}

// DeletePost удаляет пост вместе с комментариями, лайками и уведомлениями,
// указывающими на него, и убирает его из кешей лент. Только для автора.
func (ps *PostService) DeletePost(ctx context.Context, actorID int64, postID int64) error {
	var post models.Post
	err := db.GetWriteDB(ctx).First(&post, postID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to load post: %w", err)
	}

	if err := mustOwn(actorID, ownedPost(post)); err != nil {
		return err
	}

	// Получатели уведомлений, счетчики которых надо сбросить после каскада
	var recipients []int64
	err = db.GetWriteDB(ctx).Model(&models.Notification{}).
		Where("target_kind = ? AND target_id = ? AND is_read = ?", models.TargetPost, postID, false).
		Distinct().
		Pluck("recipient_id", &recipients).Error
	if err != nil {
		return fmt.Errorf("failed to collect notification recipients: %w", err)
	}

	err = db.GetWriteDB(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("post_id = ?", postID).Delete(&models.Comment{}).Error; err != nil {
			return fmt.Errorf("failed to delete comments: %w", err)
		}
		if err := tx.Where("post_id = ?", postID).Delete(&models.Like{}).Error; err != nil {
			return fmt.Errorf("failed to delete likes: %w", err)
		}
		if err := tx.Where("target_kind = ? AND target_id = ?", models.TargetPost, postID).
			Delete(&models.Notification{}).Error; err != nil {
			return fmt.Errorf("failed to delete notifications: %w", err)
		}
		if err := tx.Delete(&post).Error; err != nil {
			return fmt.Errorf("failed to delete post: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	if RedisClient != nil {
		counterService := GetCounterService()
		for _, recipientID := range recipients {
			if err := counterService.InvalidateUnread(ctx, recipientID); err != nil {
				log.Printf("Warning: failed to invalidate unread counter for user %d: %v", recipientID, err)
			}
		}
	}

	// Убираем пост из кешей лент
	if QueueServiceInstance != nil && RedisClient != nil {
		go QueueServiceInstance.EnqueueFeedUpdate(context.Background(), post.AuthorID, post, "delete")
	} else {
		ps.removePostFromAllFeeds(ctx, post.AuthorID, postID)
	}

	return nil
}

// ListByAuthor возвращает посты автора, новые сверху
func (ps *PostService) ListByAuthor(ctx context.Context, authorID int64) ([]models.Post, error) {
	var posts []models.Post
	err := db.GetReadOnlyDB(ctx).
		Where("author_id = ?", authorID).
		Order("created_at DESC, id DESC").
		Find(&posts).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list posts: %w", err)
	}
	return posts, nil
}

// GetUserFeed получает ленту пользователя с пагинацией
func (ps *PostService) GetUserFeed(ctx context.Context, userID int64, lastID int64, limit int) (*models.FeedResponse, error) {
	if limit <= 0 || limit > 100 {
		limit = 20 // Дефолтный лимит
	}

	feedKey := fmt.Sprintf("%s%d", FEED_KEY_PREFIX, userID)

	// Пытаемся получить из кеша
	feedPosts, err := ps.getFeedFromCache(ctx, feedKey, lastID, limit)
	if err == nil && len(feedPosts) > 0 {
		return &models.FeedResponse{
			Posts:   feedPosts,
			HasMore: len(feedPosts) == limit,
			LastID:  getLastID(feedPosts),
		}, nil
	}

	// Если в кеше нет или ошибка, строим ленту из БД
	feedPosts, err = ps.buildFeedFromDB(ctx, userID, lastID, limit)
	if err != nil {
		return nil, err
	}

	// Кешируем результат
	go ps.cacheFeed(context.Background(), feedKey, feedPosts)

	return &models.FeedResponse{
		Posts:   feedPosts,
		HasMore: len(feedPosts) == limit,
		LastID:  getLastID(feedPosts),
	}, nil
}

// buildFeedFromDB строит ленту из базы данных.
// Лента - посты тех, на кого подписан пользователь; собственные посты
// в нее не входят. Пустой список подписок дает пустую ленту.
func (ps *PostService) buildFeedFromDB(ctx context.Context, userID int64, lastID int64, limit int) ([]models.FeedPost, error) {
	var followeeIDs []int64

	err := db.GetReadOnlyDB(ctx).
		Model(&models.Follow{}).
		Where("follower_id = ?", userID).
		Pluck("followee_id", &followeeIDs).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get followees: %w", err)
	}

	if len(followeeIDs) == 0 {
		return []models.FeedPost{}, nil
	}

	query := db.GetReadOnlyDB(ctx).
		Table("posts p").
		Select("p.id, p.author_id, u.first_name || ' ' || u.last_name as author_name, p.content, p.created_at").
		Joins("JOIN users u ON p.author_id = u.id").
		Where("p.author_id IN ?", followeeIDs).
		Order("p.created_at DESC, p.id DESC").
		Limit(limit)

	if lastID > 0 {
		query = query.Where("p.id < ?", lastID)
	}

	var feedPosts []models.FeedPost
	err = query.Scan(&feedPosts).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get feed posts: %w", err)
	}

	return feedPosts, nil
}

// getFeedFromCache получает ленту из Redis кеша
func (ps *PostService) getFeedFromCache(ctx context.Context, feedKey string, lastID int64, limit int) ([]models.FeedPost, error) {
	if RedisClient == nil {
		return nil, fmt.Errorf("redis not available")
	}

	// Используем Redis Sorted Set для хранения ленты (score = timestamp)
	var start, stop int64 = 0, int64(limit - 1)

	if lastID > 0 {
		// Находим позицию lastID в отсортированном множестве
		rank := RedisClient.ZRevRank(ctx, feedKey, feedMember(lastID)).Val()
		start = rank + 1
		stop = start + int64(limit) - 1
	}

	members, err := RedisClient.ZRevRange(ctx, feedKey, start, stop).Result()
	if err != nil {
		return nil, err
	}

	if len(members) == 0 {
		return []models.FeedPost{}, nil
	}

	// Получаем данные постов из кеша
	var feedPosts []models.FeedPost
	pipe := RedisClient.Pipeline()

	cmds := make([]*redis.StringCmd, 0, len(members))
	for _, member := range members {
		postID, err := strconv.ParseInt(member, 10, 64)
		if err != nil {
			continue
		}
		cmds = append(cmds, pipe.Get(ctx, fmt.Sprintf("%s%d", POST_KEY_PREFIX, postID)))
	}

	_, err = pipe.Exec(ctx)
	if err != nil && err != redis.Nil {
		return nil, err
	}

	for _, cmd := range cmds {
		val, err := cmd.Result()
		if err != nil {
			continue
		}

		var feedPost models.FeedPost
		if err := json.Unmarshal([]byte(val), &feedPost); err == nil {
			feedPosts = append(feedPosts, feedPost)
		}
	}

	return feedPosts, nil
}

// cacheFeed кеширует ленту в Redis
func (ps *PostService) cacheFeed(ctx context.Context, feedKey string, posts []models.FeedPost) {
	if len(posts) == 0 || RedisClient == nil {
		return
	}

	pipe := RedisClient.Pipeline()

	// Очищаем старую ленту
	pipe.Del(ctx, feedKey)

	// Добавляем посты в sorted set (score = unix timestamp)
	for _, post := range posts {
		score := float64(post.CreatedAt.Unix())
		pipe.ZAdd(ctx, feedKey, &redis.Z{
			Score:  score,
			Member: feedMember(post.ID),
		})

		// Кешируем сам пост
		postKey := fmt.Sprintf("%s%d", POST_KEY_PREFIX, post.ID)
		postData, _ := json.Marshal(post)
		pipe.Set(ctx, postKey, postData, FEED_CACHE_TTL)
	}

	// Ограничиваем размер ленты
	pipe.ZRemRangeByRank(ctx, feedKey, 0, -MAX_FEED_SIZE-1)

	// Устанавливаем TTL для ленты
	pipe.Expire(ctx, feedKey, FEED_CACHE_TTL)

	pipe.Exec(ctx)
}

// updateFollowerFeeds обновляет кеши лент подписчиков при создании поста
func (ps *PostService) updateFollowerFeeds(ctx context.Context, authorID int64, post *models.Post) {
	if RedisClient == nil {
		return
	}

	var followerIDs []int64
	err := db.GetReadOnlyDB(ctx).
		Model(&models.Follow{}).
		Where("followee_id = ?", authorID).
		Pluck("follower_id", &followerIDs).Error
	if err != nil {
		log.Printf("ERROR: Failed to get followers for user %d: %v", authorID, err)
		return
	}

	var author models.User
	if err := db.GetReadOnlyDB(ctx).First(&author, authorID).Error; err != nil {
		log.Printf("ERROR: Failed to get author data for user %d: %v", authorID, err)
		return
	}

	feedPost := models.FeedPost{
		ID:         post.ID,
		AuthorID:   post.AuthorID,
		AuthorName: author.FirstName + " " + author.LastName,
		Content:    post.Content,
		CreatedAt:  post.CreatedAt,
	}

	for _, followerID := range followerIDs {
		ps.addPostToUserFeed(ctx, followerID, feedPost)
	}
}

// addPostToUserFeed добавляет пост в кеш ленты конкретного пользователя
func (ps *PostService) addPostToUserFeed(ctx context.Context, userID int64, post models.FeedPost) {
	if RedisClient == nil {
		return
	}

	feedKey := fmt.Sprintf("%s%d", FEED_KEY_PREFIX, userID)
	postKey := fmt.Sprintf("%s%d", POST_KEY_PREFIX, post.ID)

	pipe := RedisClient.Pipeline()

	score := float64(post.CreatedAt.Unix())
	pipe.ZAdd(ctx, feedKey, &redis.Z{
		Score:  score,
		Member: feedMember(post.ID),
	})

	postData, err := json.Marshal(post)
	if err != nil {
		log.Println("failed to marshal post for caching:", err)
		return
	}
	pipe.Set(ctx, postKey, postData, FEED_CACHE_TTL)

	// Ограничиваем размер ленты
	pipe.ZRemRangeByRank(ctx, feedKey, 0, -MAX_FEED_SIZE-1)

	pipe.Expire(ctx, feedKey, FEED_CACHE_TTL)

	pipe.Exec(ctx)
}

// InvalidateUserFeed инвалидирует кеш ленты пользователя
func (ps *PostService) InvalidateUserFeed(ctx context.Context, userID int64) error {
	if RedisClient == nil {
		return fmt.Errorf("redis not available")
	}
	feedKey := fmt.Sprintf("%s%d", FEED_KEY_PREFIX, userID)
	return RedisClient.Del(ctx, feedKey).Err()
}

// RebuildUserFeedFromDB перестраивает кеш ленты пользователя из БД
func (ps *PostService) RebuildUserFeedFromDB(ctx context.Context, userID int64) error {
	if RedisClient == nil {
		return fmt.Errorf("redis not available")
	}

	feedKey := fmt.Sprintf("%s%d", FEED_KEY_PREFIX, userID)

	RedisClient.Del(ctx, feedKey)

	feedPosts, err := ps.buildFeedFromDB(ctx, userID, 0, MAX_FEED_SIZE)
	if err != nil {
		return err
	}

	ps.cacheFeed(ctx, feedKey, feedPosts)

	return nil
}

// RebuildAllFeeds перестраивает кеши всех лент из БД
func (ps *PostService) RebuildAllFeeds(ctx context.Context) error {
	var userIDs []int64
	err := db.GetReadOnlyDB(ctx).Model(&models.User{}).Pluck("id", &userIDs).Error
	if err != nil {
		return err
	}

	for _, userID := range userIDs {
		if err := ps.RebuildUserFeedFromDB(ctx, userID); err != nil {
			// Логируем ошибку, но продолжаем
			log.Printf("Warning: failed to rebuild feed for user %d: %v", userID, err)
			continue
		}
	}

	return nil
}

func getLastID(posts []models.FeedPost) int64 {
	if len(posts) == 0 {
		return 0
	}
	return posts[len(posts)-1].ID
}

// removePostFromAllFeeds удаляет пост из кешей лент всех подписчиков
func (ps *PostService) removePostFromAllFeeds(ctx context.Context, authorID int64, postID int64) {
	if RedisClient == nil {
		return
	}

	var followerIDs []int64
	err := db.GetReadOnlyDB(ctx).
		Model(&models.Follow{}).
		Where("followee_id = ?", authorID).
		Pluck("follower_id", &followerIDs).Error
	if err != nil {
		return
	}

	for _, followerID := range followerIDs {
		ps.removePostFromUserFeed(ctx, followerID, postID)
	}
}

// removePostFromUserFeed удаляет пост из кеша ленты конкретного пользователя
func (ps *PostService) removePostFromUserFeed(ctx context.Context, userID int64, postID int64) {
	if RedisClient == nil {
		return
	}

	feedKey := fmt.Sprintf("%s%d", FEED_KEY_PREFIX, userID)
	postKey := fmt.Sprintf("%s%d", POST_KEY_PREFIX, postID)

	pipe := RedisClient.Pipeline()

	pipe.ZRem(ctx, feedKey, feedMember(postID))
	pipe.Del(ctx, postKey)

	pipe.Exec(ctx)
}
