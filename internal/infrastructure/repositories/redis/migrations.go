package redis

import (
	"context"
	"fmt"
	"strconv"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	schemaVersionKey = "springboard:schema_version"
	schemaVersion    = 1
)

// Migrate brings the keyspace up to the current schema version. Version 1
// only stamps the version key; later versions rewrite stale layouts.
func Migrate(ctx context.Context, client *redis.Client, logger *zap.SugaredLogger) error {
	current, err := client.Get(ctx, schemaVersionKey).Result()
	if err != nil && err != redis.Nil {
		return fmt.Errorf("failed to read schema version: %w", err)
	}

	version := 0
	if err == nil {
		version, err = strconv.Atoi(current)
		if err != nil {
			return fmt.Errorf("corrupt schema version %q: %w", current, err)
		}
	}

	if version > schemaVersion {
		return fmt.Errorf("keyspace schema version %d is newer than supported %d", version, schemaVersion)
	}

	if version == schemaVersion {
		return nil
	}

	if err := client.Set(ctx, schemaVersionKey, strconv.Itoa(schemaVersion), 0).Err(); err != nil {
		return fmt.Errorf("failed to stamp schema version: %w", err)
	}

	if logger != nil {
		logger.Infow("migrated Redis keyspace", "from", version, "to", schemaVersion)
	}
	return nil
}
