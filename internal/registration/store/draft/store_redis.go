package draft

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"portal/internal/registration/models"
	"portal/pkg/platform/sentinel"
)

const draftKeyPrefix = "registration:draft:"

// RedisStore keeps drafts as JSON values that Redis expires on its own.
type RedisStore struct {
	client *redis.Client
}

// NewRedis constructs a Redis-backed draft store.
func NewRedis(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func (s *RedisStore) Save(ctx context.Context, d *models.Draft, ttl time.Duration) error {
	if ttl <= 0 {
		return fmt.Errorf("draft ttl must be positive, got %s", ttl)
	}
	data, err := json.Marshal(d)
	if err != nil {
		return fmt.Errorf("marshal draft: %w", err)
	}
	if err := s.client.Set(ctx, draftKeyPrefix+d.ID, data, ttl).Err(); err != nil {
		return fmt.Errorf("save draft: %w: %w", sentinel.ErrUnavailable, err)
	}
	return nil
}

func (s *RedisStore) Find(ctx context.Context, id string) (*models.Draft, error) {
	data, err := s.client.Get(ctx, draftKeyPrefix+id).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, sentinel.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find draft: %w: %w", sentinel.ErrUnavailable, err)
	}
	var d models.Draft
	if err := json.Unmarshal(data, &d); err != nil {
		return nil, fmt.Errorf("unmarshal draft: %w", err)
	}
	return &d, nil
}

func (s *RedisStore) Delete(ctx context.Context, id string) error {
	if err := s.client.Del(ctx, draftKeyPrefix+id).Err(); err != nil {
		return fmt.Errorf("delete draft: %w: %w", sentinel.ErrUnavailable, err)
	}
	return nil
}
