package scrim

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/scrimworks/scrimbot/internal/chat"
	"github.com/scrimworks/scrimbot/internal/common/clock"
	"github.com/scrimworks/scrimbot/internal/common/uuid"
	participationRepo "github.com/scrimworks/scrimbot/internal/repositories/participation"
	scrimRepo "github.com/scrimworks/scrimbot/internal/repositories/scrim"
	settingsRepo "github.com/scrimworks/scrimbot/internal/repositories/settings"
	timeoutRepo "github.com/scrimworks/scrimbot/internal/repositories/timeout"
	"github.com/scrimworks/scrimbot/internal/services/settings"
)

// RegistryConfig holds the shared dependencies guild engines are built
// from.
type RegistryConfig struct {
	// Client is the chat platform adapter
	Client chat.Client

	// Clock supplies time, mockable in tests
	Clock clock.Clock

	// UUID generates participation record ids
	UUID uuid.UUID

	// ScrimRepo persists scrims
	ScrimRepo scrimRepo.Repository

	// TimeoutRepo persists timeout entries
	TimeoutRepo timeoutRepo.Repository

	// ParticipationRepo persists participation rows. Optional.
	ParticipationRepo participationRepo.Repository

	// SettingsRepo persists per-guild settings documents
	SettingsRepo settingsRepo.Repository

	// BroadcastRetryDelay overrides the broadcasters' deferred retry
	// delay, zero meaning their default
	BroadcastRetryDelay time.Duration
}

// Registry lazily builds and caches one Guild engine per guild id.
type Registry struct {
	cfg *RegistryConfig

	mu     sync.Mutex
	guilds map[string]*Guild
}

// NewRegistry creates a registry.
func NewRegistry(cfg *RegistryConfig) (*Registry, error) {
	if cfg == nil {
		return nil, ErrNilConfig
	}
	if cfg.Client == nil {
		return nil, ErrNilClient
	}
	if cfg.Clock == nil {
		return nil, ErrNilClock
	}
	if cfg.UUID == nil {
		return nil, ErrNilUUID
	}
	if cfg.ScrimRepo == nil {
		return nil, ErrNilScrimRepo
	}
	if cfg.TimeoutRepo == nil {
		return nil, ErrNilTimeoutRepo
	}
	if cfg.SettingsRepo == nil {
		return nil, ErrNilSettings
	}

	return &Registry{
		cfg:    cfg,
		guilds: make(map[string]*Guild),
	}, nil
}

// Guild returns the engine for the guild, building and initializing it
// on first use.
func (r *Registry) Guild(ctx context.Context, guildID string) (*Guild, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if g, ok := r.guilds[guildID]; ok {
		return g, nil
	}

	svc, err := settings.New(ctx, &settings.Config{
		GuildID: guildID,
		Repo:    r.cfg.SettingsRepo,
		Channels: func() map[string]struct{} {
			ids, err := r.cfg.Client.GuildChannelIDs(context.Background(), guildID)
			if err != nil {
				log.Printf("guild %s: failed to list channels: %v", guildID, err)
				return map[string]struct{}{}
			}
			return ids
		},
		Roles: func() map[string]struct{} {
			ids, err := r.cfg.Client.GuildRoleIDs(context.Background(), guildID)
			if err != nil {
				log.Printf("guild %s: failed to list roles: %v", guildID, err)
				return map[string]struct{}{}
			}
			return ids
		},
	})
	if err != nil {
		return nil, err
	}

	g, err := NewGuild(ctx, &Config{
		GuildID:             guildID,
		Client:              r.cfg.Client,
		Clock:               r.cfg.Clock,
		UUID:                r.cfg.UUID,
		ScrimRepo:           r.cfg.ScrimRepo,
		TimeoutRepo:         r.cfg.TimeoutRepo,
		ParticipationRepo:   r.cfg.ParticipationRepo,
		Settings:            svc,
		BroadcastRetryDelay: r.cfg.BroadcastRetryDelay,
	})
	if err != nil {
		return nil, err
	}
	g.Init(ctx)

	r.guilds[guildID] = g
	return g, nil
}

// Guilds returns a snapshot of the engines built so far.
func (r *Registry) Guilds() []*Guild {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*Guild, 0, len(r.guilds))
	for _, g := range r.guilds {
		out = append(out, g)
	}
	return out
}

// RefreshBroadcasts refreshes every known guild's broadcast listings.
// Run periodically so listings drop scrims whose start time passed.
func (r *Registry) RefreshBroadcasts(ctx context.Context) {
	for _, g := range r.Guilds() {
		g.UpdateBroadcasts(ctx)
	}
}
