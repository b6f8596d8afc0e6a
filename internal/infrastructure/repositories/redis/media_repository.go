package redis

import (
	"context"
	"encoding/json"
	"fmt"

	"springboard/internal/core/domain"
	"springboard/internal/core/ports"

	"github.com/redis/go-redis/v9"
)

// RedisMediaRepository resolves playback tokens against a catalog held in
// Redis, one JSON document per key/token pair.
type RedisMediaRepository struct {
	client *redis.Client
	prefix string
}

func NewRedisMediaRepository(client *redis.Client) *RedisMediaRepository {
	return &RedisMediaRepository{
		client: client,
		prefix: "springboard:media:",
	}
}

var _ ports.MediaRepository = (*RedisMediaRepository)(nil)

func (r *RedisMediaRepository) mediaKey(key domain.PlaybackKey, token string) string {
	return r.prefix + string(key) + ":" + token
}

// Register seeds the catalog with a resolvable token.
func (r *RedisMediaRepository) Register(ctx context.Context, key domain.PlaybackKey, token string, session *domain.PlaybackSession) error {
	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("failed to marshal media: %w", err)
	}

	if err := r.client.Set(ctx, r.mediaKey(key, token), data, 0).Err(); err != nil {
		return fmt.Errorf("failed to set media in Redis: %w", err)
	}
	return nil
}

func (r *RedisMediaRepository) StartPlayback(ctx context.Context, key domain.PlaybackKey, token string, userID domain.UserID) (*domain.PlaybackSession, error) {
	data, err := r.client.Get(ctx, r.mediaKey(key, token)).Result()
	if err == redis.Nil {
		return nil, domain.ErrMediaNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get media from Redis: %w", err)
	}

	var session domain.PlaybackSession
	if err := json.Unmarshal([]byte(data), &session); err != nil {
		return nil, fmt.Errorf("failed to unmarshal media: %w", err)
	}

	return &session, nil
}
