package services

import (
	"context"
	"fmt"
	"log"
	"strconv"
	"sync"
	"time"

	"pulse/db"
	"pulse/models"

	"github.com/go-redis/redis/v8"
)

const (
	UNREAD_KEY_PREFIX = "unread_notifications:" // Ключ счетчика непрочитанных уведомлений
	COUNTER_TTL       = 24 * time.Hour
)

// CounterService - кеш счетчика непрочитанных уведомлений в Redis.
// Счетчик инкрементируется при fan-out, декрементируется при mark read;
// источник истины - таблица notifications, кеш можно пересчитать в любой момент.
type CounterService struct {
	redisClient *redis.Client
}

var (
	counterServiceInstance *CounterService
	counterServiceOnce     sync.Once
)

// GetCounterService возвращает singleton инстанс CounterService
func GetCounterService() *CounterService {
	counterServiceOnce.Do(func() {
		counterServiceInstance = NewCounterService(RedisClient)
		counterServiceInstance.loadLuaScripts()
	})
	return counterServiceInstance
}

func NewCounterService(redisClient *redis.Client) *CounterService {
	return &CounterService{redisClient: redisClient}
}

// Lua скрипт для атомарного инкремента с нижней границей 0
var adjustCounterScript = `
	local key = KEYS[1]
	local delta = tonumber(ARGV[1])

	local current = tonumber(redis.call('GET', key) or '0')
	local new_count = math.max(0, current + delta)

	redis.call('SET', key, new_count)
	redis.call('EXPIRE', key, tonumber(ARGV[2]))

	return new_count
`

var adjustCounterSHA string

// loadLuaScripts загружает Lua скрипты в Redis
func (s *CounterService) loadLuaScripts() {
	if s.redisClient == nil {
		return
	}
	var err error
	adjustCounterSHA, err = s.redisClient.ScriptLoad(context.Background(), adjustCounterScript).Result()
	if err != nil {
		log.Printf("Warning: Failed to load adjustCounter script: %v", err)
	}
}

func (s *CounterService) unreadKey(userID int64) string {
	return fmt.Sprintf("%s%d", UNREAD_KEY_PREFIX, userID)
}

// AdjustUnread атомарно изменяет счетчик непрочитанных на delta
func (s *CounterService) AdjustUnread(ctx context.Context, userID int64, delta int64) (int64, error) {
	if s.redisClient == nil {
		return 0, fmt.Errorf("redis not available")
	}

	key := s.unreadKey(userID)
	ttl := strconv.FormatInt(int64(COUNTER_TTL.Seconds()), 10)

	result, err := s.redisClient.EvalSha(ctx, adjustCounterSHA, []string{key}, delta, ttl).Result()
	if err != nil {
		// Fallback - скрипт мог не загрузиться
		result, err = s.redisClient.Eval(ctx, adjustCounterScript, []string{key}, delta, ttl).Result()
		if err != nil {
			return 0, fmt.Errorf("failed to adjust counter: %w", err)
		}
	}

	count, ok := result.(int64)
	if !ok {
		return 0, fmt.Errorf("unexpected counter script result: %v", result)
	}
	return count, nil
}

// GetUnread возвращает количество непрочитанных уведомлений.
// Промах кеша пересчитывается из БД.
func (s *CounterService) GetUnread(ctx context.Context, userID int64) (int64, error) {
	if s.redisClient != nil {
		val, err := s.redisClient.Get(ctx, s.unreadKey(userID)).Result()
		if err == nil {
			if count, convErr := strconv.ParseInt(val, 10, 64); convErr == nil {
				return count, nil
			}
		} else if err != redis.Nil {
			log.Printf("Warning: failed to read unread counter from redis: %v", err)
		}
	}

	return s.SyncUnreadFromDB(ctx, userID)
}

// SyncUnreadFromDB пересчитывает счетчик из таблицы уведомлений и кеширует его
func (s *CounterService) SyncUnreadFromDB(ctx context.Context, userID int64) (int64, error) {
	var count int64
	err := db.GetReadOnlyDB(ctx).
		Model(&models.Notification{}).
		Where("recipient_id = ? AND is_read = ?", userID, false).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count unread notifications: %w", err)
	}

	if s.redisClient != nil {
		if err := s.redisClient.Set(ctx, s.unreadKey(userID), count, COUNTER_TTL).Err(); err != nil {
			log.Printf("Warning: failed to cache unread counter: %v", err)
		}
	}
	return count, nil
}

// InvalidateUnread сбрасывает кеш счетчика (пересчитается при следующем чтении)
func (s *CounterService) InvalidateUnread(ctx context.Context, userID int64) error {
	if s.redisClient == nil {
		return nil
	}
	return s.redisClient.Del(ctx, s.unreadKey(userID)).Err()
}
