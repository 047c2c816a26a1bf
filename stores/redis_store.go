package stores

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
)

// Key pattern: sessions:{sessionId}
const sessionKeyPrefix = "sessions:"

// RedisSessionStore implements SessionStore on Redis with a sliding TTL.
// Reads refresh the TTL via EXPIRE; writes reset it via SET with expiry.
type RedisSessionStore struct {
	client *redis.Client
	ttl    time.Duration
	logger *log.Logger
}

// NewRedisSessionStore connects to Redis using a redis:// URL.
func NewRedisSessionStore(redisURL string, ttl time.Duration, logger *log.Logger) (*RedisSessionStore, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("invalid redis URL: %w", err)
	}
	if logger == nil {
		logger = log.Default()
	}
	return &RedisSessionStore{
		client: redis.NewClient(opts),
		ttl:    ttl,
		logger: logger,
	}, nil
}

func (s *RedisSessionStore) Load(ctx context.Context, id string) (*Session, bool) {
	key := sessionKeyPrefix + id

	val, err := s.client.Get(ctx, key).Result()
	if err == redis.Nil {
		return nil, false
	}
	if err != nil {
		s.logger.Printf("Redis session load failed for %s, degrading gracefully: %v", id, err)
		return nil, false
	}

	var session Session
	if err := json.Unmarshal([]byte(val), &session); err != nil {
		s.logger.Printf("Corrupt session payload for %s, discarding: %v", id, err)
		return nil, false
	}

	// Sliding window: reads push the expiry out again.
	if err := s.client.Expire(ctx, key, s.ttl).Err(); err != nil {
		s.logger.Printf("Redis TTL refresh failed for %s: %v", id, err)
	}
	return &session, true
}

func (s *RedisSessionStore) Save(ctx context.Context, id string, session *Session) {
	val, err := json.Marshal(session)
	if err != nil {
		s.logger.Printf("Session marshal failed for %s: %v", id, err)
		return
	}
	if err := s.client.Set(ctx, sessionKeyPrefix+id, val, s.ttl).Err(); err != nil {
		s.logger.Printf("Redis session save failed for %s: %v", id, err)
	}
}

func (s *RedisSessionStore) Close() error {
	return s.client.Close()
}
