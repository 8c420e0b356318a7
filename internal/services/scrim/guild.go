package scrim

import (
	"context"
	"fmt"
	"log"
	"sort"
	"sync"
	"time"

	"github.com/scrimworks/scrimbot/internal/chat"
	"github.com/scrimworks/scrimbot/internal/models"
	participationRepo "github.com/scrimworks/scrimbot/internal/repositories/participation"
	scrimRepo "github.com/scrimworks/scrimbot/internal/repositories/scrim"
	"github.com/scrimworks/scrimbot/internal/services/broadcast"
	"github.com/scrimworks/scrimbot/internal/services/settings"
	"github.com/scrimworks/scrimbot/internal/services/timeout"
)

// Guild holds one guild's live scrim engine: the managers for its
// scrims, the broadcasters for its listing channels and the timeout
// ledger. It is the composition point the chat handlers talk to.
type Guild struct {
	cfg    *Config
	ledger *timeout.Ledger

	mu           sync.Mutex
	managers     map[string]*Manager
	broadcasters map[string]*broadcast.Broadcaster
}

// NewGuild builds the engine for one guild from its persisted state:
// every stored scrim gets a manager, every configured broadcast channel
// a broadcaster, and the timeout ledger resumes its countdowns.
func NewGuild(ctx context.Context, cfg *Config) (*Guild, error) {
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
	if cfg.Settings == nil {
		return nil, ErrNilSettings
	}

	g := &Guild{
		cfg:          cfg,
		managers:     make(map[string]*Manager),
		broadcasters: make(map[string]*broadcast.Broadcaster),
	}

	ledger, err := timeout.New(ctx, &timeout.Config{
		GuildID: cfg.GuildID,
		Client:  cfg.Client,
		Clock:   cfg.Clock,
		Repo:    cfg.TimeoutRepo,
		TimeoutRole: func() string {
			return cfg.Settings.Server().TimeoutRole
		},
		Ejector: g,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to build timeout ledger: %w", err)
	}
	g.ledger = ledger

	listOutput, err := cfg.ScrimRepo.ListByGuild(ctx, &scrimRepo.ListByGuildInput{
		GuildID: cfg.GuildID,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to load scrims: %w", err)
	}
	for _, s := range listOutput.Scrims {
		g.managers[s.ThreadID] = newManager(g, s)
	}

	for _, cs := range cfg.Settings.Channels() {
		if cs.BroadcastChannel != "" {
			g.ensureBroadcaster(cs.BroadcastChannel)
		}
	}

	return g, nil
}

// Init brings every loaded manager online. Each resyncs against the
// platform and the clock, so restarts converge without special casing.
func (g *Guild) Init(ctx context.Context) {
	for _, m := range g.Managers() {
		m.Init(ctx)
	}
	g.UpdateBroadcasts(ctx)
}

// Now returns the current time from the injected clock.
func (g *Guild) Now() time.Time {
	return g.cfg.Clock.Now()
}

// Ledger exposes the guild's timeout ledger.
func (g *Guild) Ledger() *timeout.Ledger {
	return g.ledger
}

// Settings exposes the guild's settings service.
func (g *Guild) Settings() *settings.Service {
	return g.cfg.Settings
}

// CreateScrim creates a scrim: announcement message in the channel, a
// thread on it, and the roster message inside the thread. The thread id
// becomes the scrim's identity and equals the announcement message id.
func (g *Guild) CreateScrim(ctx context.Context, input *CreateScrimInput) (*Manager, error) {
	if g.IsOnTimeout(input.Organizer.UserID) {
		return nil, ErrOrganizerOnTimeout
	}

	cs := g.cfg.Settings.Channel(input.ChannelID)

	capacity := input.Capacity
	if capacity == 0 {
		capacity = cs.Capacity
	}
	if capacity <= 0 {
		return nil, ErrInvalidCapacity
	}

	s := &models.Scrim{
		GuildID:   g.cfg.GuildID,
		ChannelID: input.ChannelID,
		Name:      input.Name,
		Capacity:  capacity,
		Time:      input.Time,
		Organizer: models.Organizer{
			UserID: input.Organizer.UserID,
			Name:   input.Organizer.Name,
			Avatar: input.Organizer.Avatar,
		},
		Defaults: &models.ChannelDefaults{
			Capacity:            cs.Capacity,
			Prefix:              cs.Prefix,
			PingCooldownMinutes: cs.PingCooldown,
			BroadcastChannel:    cs.BroadcastChannel,
			Role:                cs.ScrimmerRole,
		},
	}

	header, err := g.cfg.Client.SendMessage(ctx, input.ChannelID, s.HeaderMessage(), nil, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to post announcement: %w", err)
	}

	thread, err := g.cfg.Client.CreateThread(ctx, input.ChannelID, header.ID, s.ThreadName())
	if err != nil {
		return nil, fmt.Errorf("failed to create thread: %w", err)
	}
	s.ThreadID = thread.ID

	content, err := g.cfg.Client.SendMessage(ctx, thread.ID, "Setting up the scrim...", nil, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to post roster message: %w", err)
	}
	s.ContentMessageID = content.ID

	if err := g.cfg.ScrimRepo.Save(ctx, &scrimRepo.SaveInput{Scrim: s}); err != nil {
		return nil, fmt.Errorf("failed to persist scrim: %w", err)
	}

	m := newManager(g, s)
	m.thread.Set(thread)
	m.announce.Set(header)
	m.content.Set(content)

	g.mu.Lock()
	g.managers[m.id] = m
	g.mu.Unlock()

	m.Init(ctx)
	return m, nil
}

// ManagerByThread returns the manager hosting its scrim in the thread.
func (g *Guild) ManagerByThread(threadID string) (*Manager, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	m, ok := g.managers[threadID]
	if !ok {
		return nil, ErrScrimNotFound
	}
	return m, nil
}

// Managers returns a snapshot of the live managers.
func (g *Guild) Managers() []*Manager {
	g.mu.Lock()
	defer g.mu.Unlock()
	out := make([]*Manager, 0, len(g.managers))
	for _, m := range g.managers {
		out = append(out, m)
	}
	return out
}

// UpcomingScrims returns the scrims that have not started yet, soonest
// first, capped at limit.
func (g *Guild) UpcomingScrims(limit int) []*models.Scrim {
	now := g.cfg.Clock.Now()
	scrims := make([]*models.Scrim, 0)
	for _, m := range g.Managers() {
		s := m.Scrim()
		if s.Time.Before(now) {
			continue
		}
		scrims = append(scrims, s)
	}
	sort.Slice(scrims, func(i, j int) bool {
		return scrims[i].Time.Before(scrims[j].Time)
	})
	if len(scrims) > limit {
		scrims = scrims[:limit]
	}
	return scrims
}

// HasOverlapping reports whether the channel already hosts a scrim
// starting within the overlap window of t.
func (g *Guild) HasOverlapping(channelID string, t time.Time) bool {
	probe := &models.Scrim{Time: t}
	for _, m := range g.Managers() {
		s := m.Scrim()
		if s.ChannelID == channelID && s.OverlapsWith(probe) {
			return true
		}
	}
	return false
}

// IsOnTimeout reports whether the user is currently on a timeout.
func (g *Guild) IsOnTimeout(userID string) bool {
	return g.ledger.Contains(userID)
}

// EjectUser removes a timed-out user from every not-yet-started scrim
// whose start falls inside the timeout window. Implements the ledger's
// ejector.
func (g *Guild) EjectUser(ctx context.Context, userID string, until time.Time) {
	for _, m := range g.Managers() {
		m.Eject(ctx, userID, until)
	}
}

// ReconcileMember resyncs the timeout ledger when a member's roles
// changed out of band: a manually removed timeout role clears the entry.
func (g *Guild) ReconcileMember(ctx context.Context, userID string, roleIDs []string) {
	roleID := g.cfg.Settings.Server().TimeoutRole
	if roleID == "" || !g.ledger.Contains(userID) {
		return
	}
	for _, r := range roleIDs {
		if r == roleID {
			return
		}
	}
	log.Printf("guild %s: timeout role removed out of band for %s, clearing ledger entry", g.cfg.GuildID, userID)
	g.ledger.Drop(ctx, userID)
}

// Upcoming returns the future scrims targeting the broadcast channel,
// soonest first. Implements the broadcaster's source.
func (g *Guild) Upcoming(channelID string) []broadcast.Listing {
	now := g.cfg.Clock.Now()

	scrims := make([]*models.Scrim, 0)
	for _, m := range g.Managers() {
		s := m.Scrim()
		if s.Defaults == nil || s.Defaults.BroadcastChannel != channelID {
			continue
		}
		if s.Time.Before(now) {
			continue
		}
		scrims = append(scrims, s)
	}
	sort.Slice(scrims, func(i, j int) bool {
		return scrims[i].Time.Before(scrims[j].Time)
	})

	listings := make([]broadcast.Listing, 0, len(scrims))
	for _, s := range scrims {
		listings = append(listings, broadcast.Listing{
			ID:   s.ThreadID,
			Full: s.Full(),
			Embed: chat.Embed{
				Description: s.BroadcastListing(),
				Fields: []chat.EmbedField{{
					Name:  "Players",
					Value: fmt.Sprintf("%d/%d", s.NumPlayers(), s.Capacity),
				}},
			},
		})
	}
	return listings
}

// UpdateBroadcasts refreshes every broadcast listing the guild maintains.
func (g *Guild) UpdateBroadcasts(ctx context.Context) {
	g.mu.Lock()
	broadcasters := make([]*broadcast.Broadcaster, 0, len(g.broadcasters))
	for _, b := range g.broadcasters {
		broadcasters = append(broadcasters, b)
	}
	g.mu.Unlock()

	for _, b := range broadcasters {
		b.Update(ctx)
	}
}

// ensureBroadcaster makes sure a broadcaster exists for the channel.
func (g *Guild) ensureBroadcaster(channelID string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if _, ok := g.broadcasters[channelID]; ok {
		return
	}
	b, err := broadcast.New(&broadcast.Config{
		ChannelID:  channelID,
		Client:     g.cfg.Client,
		Clock:      g.cfg.Clock,
		Source:     g,
		RetryDelay: g.cfg.BroadcastRetryDelay,
	})
	if err != nil {
		log.Printf("guild %s: failed to build broadcaster for %s: %v", g.cfg.GuildID, channelID, err)
		return
	}
	g.broadcasters[channelID] = b
}

// LogParticipation records one participation row per rostered player, so
// leaderboards can be derived later.
func (g *Guild) LogParticipation(ctx context.Context, snapshot *models.Scrim) {
	if g.cfg.ParticipationRepo == nil {
		return
	}
	for _, p := range snapshot.Players {
		err := g.cfg.ParticipationRepo.Save(ctx, &participationRepo.SaveInput{
			Participation: &models.Participation{
				ID:        g.cfg.UUID.NewUUID(),
				GuildID:   snapshot.GuildID,
				ChannelID: snapshot.ChannelID,
				ScrimID:   snapshot.ThreadID,
				UserID:    p.UserID,
				PlayedAt:  snapshot.Time,
			},
		})
		if err != nil {
			log.Printf("guild %s: failed to log participation for %s: %v", g.cfg.GuildID, p.UserID, err)
		}
	}
}

// removeManager drops a finished manager and its persisted record.
func (g *Guild) removeManager(ctx context.Context, m *Manager) {
	g.mu.Lock()
	delete(g.managers, m.id)
	g.mu.Unlock()

	if err := g.cfg.ScrimRepo.Delete(ctx, &scrimRepo.DeleteInput{
		GuildID:  g.cfg.GuildID,
		ThreadID: m.id,
	}); err != nil {
		log.Printf("guild %s: failed to delete scrim %s: %v", g.cfg.GuildID, m.id, err)
	}

	g.UpdateBroadcasts(ctx)
}
