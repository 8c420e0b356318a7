package timeout

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/scrimworks/scrimbot/internal/chat"
	"github.com/scrimworks/scrimbot/internal/common/clock"
	"github.com/scrimworks/scrimbot/internal/models"
	timeoutRepo "github.com/scrimworks/scrimbot/internal/repositories/timeout"
)

// Ejector removes a user from the not-yet-started scrims that fall
// inside a timeout window.
type Ejector interface {
	EjectUser(ctx context.Context, userID string, until time.Time)
}

// Config holds configuration for a timeout Ledger
type Config struct {
	// GuildID scopes the ledger to one guild
	GuildID string

	// Client is the chat platform adapter
	Client chat.Client

	// Clock supplies time, mockable in tests
	Clock clock.Clock

	// Repo persists entries across restarts
	Repo timeoutRepo.Repository

	// TimeoutRole resolves the configured timeout role id, empty when
	// none is configured
	TimeoutRole func() string

	// Ejector removes timed-out users from affected scrims. Optional.
	Ejector Ejector
}

type entry struct {
	timeout *models.Timeout
	cancel  context.CancelFunc
}

// Ledger tracks per-user timeouts for one guild. Entries persist their
// absolute expiry, so a restart resumes countdowns with the remaining
// time and clears entries that lapsed while the process was down.
type Ledger struct {
	cfg *Config

	mu      sync.Mutex
	entries map[string]*entry
}

// New creates a ledger and resumes countdowns for persisted entries.
// Entries that expired while the process was down are lifted immediately.
func New(ctx context.Context, cfg *Config) (*Ledger, error) {
	if cfg == nil {
		return nil, ErrNilConfig
	}
	if cfg.Client == nil {
		return nil, ErrNilClient
	}
	if cfg.Clock == nil {
		return nil, ErrNilClock
	}
	if cfg.Repo == nil {
		return nil, ErrNilRepository
	}

	l := &Ledger{
		cfg:     cfg,
		entries: make(map[string]*entry),
	}

	listOutput, err := cfg.Repo.ListByGuild(ctx, &timeoutRepo.ListByGuildInput{
		GuildID: cfg.GuildID,
	})
	if err != nil {
		return nil, err
	}

	resume := make([]*models.Timeout, 0, len(listOutput.Timeouts))
	roleID := cfg.TimeoutRole()
	for _, t := range listOutput.Timeouts {
		// A role removed while the process was down lifts the timeout
		if roleID != "" && !l.hasRole(ctx, t.UserID, roleID) {
			log.Printf("timeout: role removed while down, dropping entry for %s", t.UserID)
			if err := cfg.Repo.Delete(ctx, &timeoutRepo.DeleteInput{
				GuildID: cfg.GuildID,
				UserID:  t.UserID,
			}); err != nil {
				log.Printf("timeout: failed to delete entry for %s: %v", t.UserID, err)
			}
			continue
		}
		resume = append(resume, t)
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	for _, t := range resume {
		l.startCountdownLocked(t)
	}

	return l, nil
}

// hasRole errs on the side of keeping the entry when the member lookup
// fails.
func (l *Ledger) hasRole(ctx context.Context, userID, roleID string) bool {
	roles, err := l.cfg.Client.MemberRoles(ctx, l.cfg.GuildID, userID)
	if err != nil {
		log.Printf("timeout: failed to fetch roles for %s: %v", userID, err)
		return true
	}
	for _, r := range roles {
		if r == roleID {
			return true
		}
	}
	return false
}

// AddUser puts a user on a timeout for the given duration. The timeout
// role is applied, the user is ejected from affected scrims, and the
// entry is persisted with its absolute expiry.
func (l *Ledger) AddUser(ctx context.Context, userID string, duration time.Duration, reason string) (*models.Timeout, error) {
	if duration <= 0 {
		return nil, ErrNonPositiveDuration
	}

	t := &models.Timeout{
		UserID:  userID,
		GuildID: l.cfg.GuildID,
		Expiry:  l.cfg.Clock.Now().Add(duration),
		Reason:  reason,
	}

	l.mu.Lock()
	if _, ok := l.entries[userID]; ok {
		l.mu.Unlock()
		return nil, ErrAlreadyOnTimeout
	}
	l.startCountdownLocked(t)
	l.mu.Unlock()

	if roleID := l.cfg.TimeoutRole(); roleID != "" {
		if err := l.cfg.Client.AddRole(ctx, l.cfg.GuildID, userID, roleID, reason); err != nil {
			log.Printf("timeout: failed to apply role to %s: %v", userID, err)
		}
	}
	if l.cfg.Ejector != nil {
		l.cfg.Ejector.EjectUser(ctx, userID, t.Expiry)
	}

	if err := l.cfg.Repo.Save(ctx, &timeoutRepo.SaveInput{Timeout: t}); err != nil {
		log.Printf("timeout: failed to persist entry for %s: %v", userID, err)
	}

	return t, nil
}

// RemoveUser lifts a user's timeout: the role is removed, the countdown
// is cancelled and the persisted entry is deleted.
func (l *Ledger) RemoveUser(ctx context.Context, userID string, reason string) error {
	l.mu.Lock()
	e, ok := l.entries[userID]
	if !ok {
		l.mu.Unlock()
		return ErrNotOnTimeout
	}
	e.cancel()
	delete(l.entries, userID)
	l.mu.Unlock()

	if roleID := l.cfg.TimeoutRole(); roleID != "" {
		if err := l.cfg.Client.RemoveRole(ctx, l.cfg.GuildID, userID, roleID, reason); err != nil {
			log.Printf("timeout: failed to remove role from %s: %v", userID, err)
		}
	}

	if err := l.cfg.Repo.Delete(ctx, &timeoutRepo.DeleteInput{
		GuildID: l.cfg.GuildID,
		UserID:  userID,
	}); err != nil {
		log.Printf("timeout: failed to delete entry for %s: %v", userID, err)
	}

	return nil
}

// Drop clears a user's entry without touching roles. Used when the role
// was already removed out of band and the ledger is reconciling.
func (l *Ledger) Drop(ctx context.Context, userID string) {
	l.mu.Lock()
	e, ok := l.entries[userID]
	if ok {
		e.cancel()
		delete(l.entries, userID)
	}
	l.mu.Unlock()
	if !ok {
		return
	}

	if err := l.cfg.Repo.Delete(ctx, &timeoutRepo.DeleteInput{
		GuildID: l.cfg.GuildID,
		UserID:  userID,
	}); err != nil {
		log.Printf("timeout: failed to delete entry for %s: %v", userID, err)
	}
}

// Contains returns whether the user is currently on a timeout.
func (l *Ledger) Contains(userID string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	_, ok := l.entries[userID]
	return ok
}

// TimeRemaining returns how long a user's timeout still has to run.
func (l *Ledger) TimeRemaining(userID string) (time.Duration, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	e, ok := l.entries[userID]
	if !ok {
		return 0, false
	}
	return clock.Until(l.cfg.Clock, e.timeout.Expiry), true
}

// List returns the current entries, order unspecified.
func (l *Ledger) List() []*models.Timeout {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]*models.Timeout, 0, len(l.entries))
	for _, e := range l.entries {
		out = append(out, e.timeout)
	}
	return out
}

// startCountdownLocked registers the entry and starts its countdown
// goroutine. An already-expired entry fires immediately.
func (l *Ledger) startCountdownLocked(t *models.Timeout) {
	ctx, cancel := context.WithCancel(context.Background())
	l.entries[t.UserID] = &entry{timeout: t, cancel: cancel}

	go func() {
		select {
		case <-ctx.Done():
			return
		case <-time.After(clock.Until(l.cfg.Clock, t.Expiry)):
		}
		if err := l.RemoveUser(context.Background(), t.UserID, "timeout expired"); err != nil {
			log.Printf("timeout: failed to lift expired timeout for %s: %v", t.UserID, err)
		}
	}()
}
