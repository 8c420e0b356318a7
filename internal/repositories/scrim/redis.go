package scrim

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/scrimworks/scrimbot/internal/models"
)

const (
	// Key prefixes for Redis
	scrimKeyPrefix   = "scrim:"
	guildIndexPrefix = "guild_scrims:"
)

// ErrScrimNotFound is returned when a scrim is not found
var ErrScrimNotFound = errors.New("scrim not found")

// Config holds configuration for the Redis scrim repository
type Config struct {
	// Redis client
	RedisClient *redis.Client
}

// redisRepository implements the Repository interface using Redis
type redisRepository struct {
	client *redis.Client
}

// NewRedis creates a new Redis-backed scrim repository
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

// Save persists a scrim and indexes it under its guild
func (r *redisRepository) Save(ctx context.Context, input *SaveInput) error {
	if input == nil || input.Scrim == nil {
		return errors.New("input and scrim cannot be nil")
	}

	scrimJSON, err := json.Marshal(input.Scrim)
	if err != nil {
		return fmt.Errorf("failed to marshal scrim: %w", err)
	}

	pipe := r.client.Pipeline()
	pipe.Set(ctx, scrimKeyPrefix+input.Scrim.ThreadID, scrimJSON, 0)
	pipe.SAdd(ctx, guildIndexPrefix+input.Scrim.GuildID, input.Scrim.ThreadID)

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to save scrim: %w", err)
	}

	return nil
}

// Get retrieves a scrim by its thread id
func (r *redisRepository) Get(ctx context.Context, input *GetInput) (*GetOutput, error) {
	if input == nil || input.ThreadID == "" {
		return nil, errors.New("input and thread id cannot be empty")
	}

	data, err := r.client.Get(ctx, scrimKeyPrefix+input.ThreadID).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrScrimNotFound
		}
		return nil, fmt.Errorf("failed to get scrim: %w", err)
	}

	var s models.Scrim
	if err := json.Unmarshal([]byte(data), &s); err != nil {
		return nil, fmt.Errorf("failed to unmarshal scrim: %w", err)
	}

	return &GetOutput{Scrim: &s}, nil
}

// ListByGuild returns all scrims indexed under a guild
func (r *redisRepository) ListByGuild(ctx context.Context, input *ListByGuildInput) (*ListByGuildOutput, error) {
	if input == nil || input.GuildID == "" {
		return nil, errors.New("input and guild id cannot be empty")
	}

	ids, err := r.client.SMembers(ctx, guildIndexPrefix+input.GuildID).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list guild scrims: %w", err)
	}

	out := &ListByGuildOutput{Scrims: make([]*models.Scrim, 0, len(ids))}
	for _, id := range ids {
		record, err := r.Get(ctx, &GetInput{ThreadID: id})
		if errors.Is(err, ErrScrimNotFound) {
			// Stale index entry, drop it
			r.client.SRem(ctx, guildIndexPrefix+input.GuildID, id)
			continue
		}
		if err != nil {
			return nil, err
		}
		out.Scrims = append(out.Scrims, record.Scrim)
	}

	return out, nil
}

// Delete removes a scrim and its guild index entry
func (r *redisRepository) Delete(ctx context.Context, input *DeleteInput) error {
	if input == nil || input.ThreadID == "" {
		return errors.New("input and thread id cannot be empty")
	}

	pipe := r.client.Pipeline()
	pipe.Del(ctx, scrimKeyPrefix+input.ThreadID)
	pipe.SRem(ctx, guildIndexPrefix+input.GuildID, input.ThreadID)

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to delete scrim: %w", err)
	}

	return nil
}
