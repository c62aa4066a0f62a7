package store

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/tenantwave/tenantwave-demo/common/models"
)

// RedisStore writes processed requests to Redis with a short TTL, so the
// receiver's database spans measure real I/O. Entries are throwaway demo
// data; the TTL keeps the keyspace bounded under sustained load.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisStore connects to Redis and verifies the connection.
func NewRedisStore(redisURL string, ttl time.Duration) (*RedisStore, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("invalid redis URL: %w", err)
	}

	client := redis.NewClient(opt)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis connection failed: %w", err)
	}

	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &RedisStore{client: client, ttl: ttl}, nil
}

func (s *RedisStore) Save(ctx context.Context, req *models.ProcessRequest) (*models.DatabaseResult, error) {
	buf, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("serialize request: %w", err)
	}

	key := "request:" + req.TenantID + ":" + req.RequestID
	if err := s.client.Set(ctx, key, buf, s.ttl).Err(); err != nil {
		return nil, fmt.Errorf("store request: %w", err)
	}

	return &models.DatabaseResult{
		Records: rand.Intn(10) + 1,
		Status:  "success",
	}, nil
}

func (s *RedisStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

func (s *RedisStore) System() string {
	return "redis"
}

func (s *RedisStore) Close() error {
	return s.client.Close()
}
