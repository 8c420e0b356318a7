package timeout

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/scrimworks/scrimbot/internal/models"
)

// Key prefix for the per-guild timeout hash
const timeoutKeyPrefix = "timeouts:"

// Config holds configuration for the Redis timeout repository
type Config struct {
	// Redis client
	RedisClient *redis.Client
}

// redisRepository implements the Repository interface using Redis
type redisRepository struct {
	client *redis.Client
}

// NewRedis creates a new Redis-backed timeout repository
func NewRedis(cfg *Config) (*redisRepository, error) {
	if cfg == nil {
		return nil, errors.New("config cannot be nil")
	}

	if cfg.RedisClient == nil {
		return nil, errors.New("redis client cannot be nil")
	}

	if err := cfg.RedisClient.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &redisRepository{
		client: cfg.RedisClient,
	}, nil
}

// Save persists a timeout record in the guild's hash
func (r *redisRepository) Save(ctx context.Context, input *SaveInput) error {
	if input == nil || input.Timeout == nil {
		return errors.New("input and timeout cannot be nil")
	}

	data, err := json.Marshal(input.Timeout)
	if err != nil {
		return fmt.Errorf("failed to marshal timeout: %w", err)
	}

	key := timeoutKeyPrefix + input.Timeout.GuildID
	if err := r.client.HSet(ctx, key, input.Timeout.UserID, data).Err(); err != nil {
		return fmt.Errorf("failed to save timeout: %w", err)
	}

	return nil
}

// Delete removes a user's timeout record
func (r *redisRepository) Delete(ctx context.Context, input *DeleteInput) error {
	if input == nil || input.UserID == "" {
		return errors.New("input and user id cannot be empty")
	}

	key := timeoutKeyPrefix + input.GuildID
	if err := r.client.HDel(ctx, key, input.UserID).Err(); err != nil {
		return fmt.Errorf("failed to delete timeout: %w", err)
	}

	return nil
}

// ListByGuild returns every timeout record for a guild
func (r *redisRepository) ListByGuild(ctx context.Context, input *ListByGuildInput) (*ListByGuildOutput, error) {
	if input == nil || input.GuildID == "" {
		return nil, errors.New("input and guild id cannot be empty")
	}

	entries, err := r.client.HGetAll(ctx, timeoutKeyPrefix+input.GuildID).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list timeouts: %w", err)
	}

	out := &ListByGuildOutput{Timeouts: make([]*models.Timeout, 0, len(entries))}
	for _, data := range entries {
		var t models.Timeout
		if err := json.Unmarshal([]byte(data), &t); err != nil {
			return nil, fmt.Errorf("failed to unmarshal timeout: %w", err)
		}
		out.Timeouts = append(out.Timeouts, &t)
	}

	return out, nil
}
