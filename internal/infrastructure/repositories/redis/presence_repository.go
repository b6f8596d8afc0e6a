package redis

import (
	"context"
	"encoding/json"
	"fmt"

	"springboard/internal/core/domain"
	"springboard/internal/core/ports"

	"github.com/redis/go-redis/v9"
)

type RedisPresenceRepository struct {
	client *redis.Client
	prefix string
}

func NewRedisPresenceRepository(client *redis.Client) ports.PresenceRepository {
	return &RedisPresenceRepository{
		client: client,
		prefix: "springboard:presence:",
	}
}

func (r *RedisPresenceRepository) presenceKey(userID domain.UserID) string {
	return r.prefix + string(userID)
}

func (r *RedisPresenceRepository) Set(ctx context.Context, userID domain.UserID, state *domain.PresenceState) error {
	data, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("failed to marshal presence: %w", err)
	}

	if err := r.client.Set(ctx, r.presenceKey(userID), data, 0).Err(); err != nil {
		return fmt.Errorf("failed to set presence in Redis: %w", err)
	}
	return nil
}

func (r *RedisPresenceRepository) Get(ctx context.Context, userID domain.UserID) (*domain.PresenceState, error) {
	data, err := r.client.Get(ctx, r.presenceKey(userID)).Result()
	if err == redis.Nil {
		return nil, domain.ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get presence from Redis: %w", err)
	}

	var state domain.PresenceState
	if err := json.Unmarshal([]byte(data), &state); err != nil {
		return nil, fmt.Errorf("failed to unmarshal presence: %w", err)
	}

	return &state, nil
}
