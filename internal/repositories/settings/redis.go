package settings

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// Key prefix for per-guild settings documents
const settingsKeyPrefix = "settings:"

// Config holds configuration for the Redis settings repository
type Config struct {
	// Redis client
	RedisClient *redis.Client
}

// redisRepository implements the Repository interface using Redis
type redisRepository struct {
	client *redis.Client
}

// NewRedis creates a new Redis-backed settings repository
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

// Save persists the guild's settings document
func (r *redisRepository) Save(ctx context.Context, input *SaveInput) error {
	if input == nil || input.GuildID == "" {
		return errors.New("input and guild id cannot be empty")
	}

	data, err := json.Marshal(input.Document)
	if err != nil {
		return fmt.Errorf("failed to marshal settings: %w", err)
	}

	if err := r.client.Set(ctx, settingsKeyPrefix+input.GuildID, data, 0).Err(); err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}

	return nil
}

// Get retrieves the guild's settings document, nil when none is stored
func (r *redisRepository) Get(ctx context.Context, input *GetInput) (*GetOutput, error) {
	if input == nil || input.GuildID == "" {
		return nil, errors.New("input and guild id cannot be empty")
	}

	data, err := r.client.Get(ctx, settingsKeyPrefix+input.GuildID).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return &GetOutput{}, nil
		}
		return nil, fmt.Errorf("failed to get settings: %w", err)
	}

	var doc map[string]any
	if err := json.Unmarshal([]byte(data), &doc); err != nil {
		return nil, fmt.Errorf("failed to unmarshal settings: %w", err)
	}

	return &GetOutput{Document: doc}, nil
}
