package participation

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
	participationKeyPrefix = "participation:"
	guildIndexPrefix       = "guild_participation:"
)

// Config holds configuration for the Redis participation repository
type Config struct {
	// Redis client
	RedisClient *redis.Client
}

// redisRepository implements the Repository interface using Redis
type redisRepository struct {
	client *redis.Client
}

// NewRedis creates a new Redis-backed participation repository
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

// Save persists one participation record and indexes it under its guild
func (r *redisRepository) Save(ctx context.Context, input *SaveInput) error {
	if input == nil || input.Participation == nil {
		return errors.New("input and participation cannot be nil")
	}

	data, err := json.Marshal(input.Participation)
	if err != nil {
		return fmt.Errorf("failed to marshal participation: %w", err)
	}

	pipe := r.client.Pipeline()
	pipe.Set(ctx, participationKeyPrefix+input.Participation.ID, data, 0)
	pipe.SAdd(ctx, guildIndexPrefix+input.Participation.GuildID, input.Participation.ID)

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to save participation: %w", err)
	}

	return nil
}

// ListByGuild returns every participation record for a guild
func (r *redisRepository) ListByGuild(ctx context.Context, input *ListByGuildInput) (*ListByGuildOutput, error) {
	if input == nil || input.GuildID == "" {
		return nil, errors.New("input and guild id cannot be empty")
	}

	ids, err := r.client.SMembers(ctx, guildIndexPrefix+input.GuildID).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list participation index: %w", err)
	}

	out := &ListByGuildOutput{Participations: make([]*models.Participation, 0, len(ids))}
	for _, id := range ids {
		data, err := r.client.Get(ctx, participationKeyPrefix+id).Result()
		if errors.Is(err, redis.Nil) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("failed to get participation: %w", err)
		}

		var p models.Participation
		if err := json.Unmarshal([]byte(data), &p); err != nil {
			return nil, fmt.Errorf("failed to unmarshal participation: %w", err)
		}
		out.Participations = append(out.Participations, &p)
	}

	return out, nil
}
