package broadcast

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"

	"github.com/scrimworks/scrimbot/internal/chat"
	"github.com/scrimworks/scrimbot/internal/common/clock"
)

const (
	// maxListings caps how many upcoming scrims one listing shows
	maxListings = 10

	// editWindow and editInterval bound external writes: at most one
	// edit per editInterval over the trailing editWindow
	editWindow   = time.Hour
	editInterval = 2 * time.Minute

	// maxEditsInPlace is how often the listing is edited before it is
	// deleted and recreated to resurface it
	maxEditsInPlace = 3

	// historyScanLimit bounds the rediscovery scan for a prior listing
	historyScanLimit = 4

	// defaultRetryDelay is the deferred retry delay when the edit
	// budget is exhausted
	defaultRetryDelay = time.Minute
)

// Listing is one upcoming scrim as the broadcaster shows it.
type Listing struct {
	// ID is the scrim's thread id
	ID string

	// Full feeds the change-suppression fingerprint
	Full bool

	// Embed is the rendered summary card
	Embed chat.Embed
}

// Source supplies the upcoming scrims targeting a channel, soonest first.
type Source interface {
	Upcoming(channelID string) []Listing
}

// Config holds configuration for a Broadcaster
type Config struct {
	// ChannelID is the channel the listing is published to
	ChannelID string

	// Client is the chat platform adapter
	Client chat.Client

	// Clock supplies time, mockable in tests
	Clock clock.Clock

	// Source supplies the upcoming scrims
	Source Source

	// RetryDelay overrides the deferred retry delay, zero meaning the
	// default
	RetryDelay time.Duration
}

// Broadcaster keeps one channel's upcoming-scrims listing fresh. External
// writes are change-suppressed by fingerprint and budgeted to one edit
// per two minutes over the trailing hour; when the budget is out, a
// single deferred retry is scheduled instead of queueing.
type Broadcaster struct {
	cfg        *Config
	retryDelay time.Duration

	// mu serializes whole update cycles, so external writes never race
	mu           sync.Mutex
	message      *chat.Message
	edits        int
	start        time.Time
	editLog      []time.Time
	fingerprint  map[string]struct{}
	retryPending bool
}

// New creates a broadcaster for one channel. The rate window is anchored
// at creation time.
func New(cfg *Config) (*Broadcaster, error) {
	if cfg == nil {
		return nil, errors.New("config cannot be nil")
	}
	if cfg.Client == nil || cfg.Clock == nil || cfg.Source == nil {
		return nil, errors.New("client, clock and source cannot be nil")
	}
	if cfg.ChannelID == "" {
		return nil, errors.New("channel id cannot be empty")
	}

	retryDelay := cfg.RetryDelay
	if retryDelay <= 0 {
		retryDelay = defaultRetryDelay
	}

	return &Broadcaster{
		cfg:        cfg,
		retryDelay: retryDelay,
		start:      cfg.Clock.Now(),
	}, nil
}

// Update recomputes the listing and republishes it if its fingerprint
// changed and the edit budget allows. Safe to invoke from any goroutine.
func (b *Broadcaster) Update(ctx context.Context) {
	b.mu.Lock()
	defer b.mu.Unlock()

	listings := b.cfg.Source.Upcoming(b.cfg.ChannelID)
	if len(listings) > maxListings {
		listings = listings[:maxListings]
	}

	fp := fingerprintOf(listings)
	if equalFingerprint(fp, b.fingerprint) {
		return
	}

	b.pruneEditLog()
	if !b.canUpdate() {
		// Out of budget: one deferred retry, never a queue. The
		// fingerprint stays uncommitted so the retry sees the change.
		if !b.retryPending {
			b.retryPending = true
			time.AfterFunc(b.retryDelay, func() {
				b.mu.Lock()
				b.retryPending = false
				b.mu.Unlock()
				b.Update(context.Background())
			})
		}
		return
	}

	if b.message == nil {
		b.discover(ctx)
	}

	content := ""
	if len(listings) == 0 {
		content = "No scrims planned at the moment."
	}
	embeds := make([]chat.Embed, 0, len(listings))
	for _, l := range listings {
		embeds = append(embeds, l.Embed)
	}

	if b.message == nil || b.edits >= maxEditsInPlace {
		if b.message != nil {
			// Best effort, the replacement supersedes it anyway
			if err := b.cfg.Client.DeleteMessage(ctx, b.cfg.ChannelID, b.message.ID); err != nil {
				log.Printf("broadcast %s: failed to delete stale listing: %v", b.cfg.ChannelID, err)
			}
		}
		msg, err := b.cfg.Client.SendMessage(ctx, b.cfg.ChannelID, content, embeds, nil)
		if err != nil {
			log.Printf("broadcast %s: failed to post listing: %v", b.cfg.ChannelID, err)
			return
		}
		if err := b.cfg.Client.PublishMessage(ctx, b.cfg.ChannelID, msg.ID); err != nil {
			log.Printf("broadcast %s: failed to publish listing: %v", b.cfg.ChannelID, err)
		}
		b.message = msg
		b.edits = 0
	} else {
		if err := b.cfg.Client.EditMessage(ctx, b.cfg.ChannelID, b.message.ID, content, embeds, nil); err != nil {
			// Treat as message gone; rediscover next cycle
			log.Printf("broadcast %s: failed to edit listing, clearing handle: %v", b.cfg.ChannelID, err)
			b.message = nil
			return
		}
		b.edits++
	}

	b.fingerprint = fp
	b.editLog = append(b.editLog, b.cfg.Clock.Now())
}

// discover scans recent channel history for the broadcaster's own prior
// listing, so a restarted process edits instead of reposting. A found
// message counts as fully edited so the next write resurfaces it.
func (b *Broadcaster) discover(ctx context.Context) {
	history, err := b.cfg.Client.ChannelHistory(ctx, b.cfg.ChannelID, historyScanLimit)
	if err != nil {
		log.Printf("broadcast %s: failed to scan history: %v", b.cfg.ChannelID, err)
		return
	}
	self := b.cfg.Client.BotUserID()
	for _, msg := range history {
		if msg.AuthorID == self {
			b.message = msg
			b.edits = maxEditsInPlace
			return
		}
	}
}

// canUpdate checks the rate budget: allowed edits in the trailing window
// are the elapsed seconds since the window start divided by the edit
// interval, with the window anchored no earlier than creation time.
func (b *Broadcaster) canUpdate() bool {
	now := b.cfg.Clock.Now()
	limit := now.Add(-editWindow)
	if b.start.After(limit) {
		limit = b.start
	}
	allowed := now.Sub(limit).Seconds() / editInterval.Seconds()
	return float64(len(b.editLog)) < allowed
}

func (b *Broadcaster) pruneEditLog() {
	limit := b.cfg.Clock.Now().Add(-editWindow)
	kept := b.editLog[:0]
	for _, t := range b.editLog {
		if t.After(limit) {
			kept = append(kept, t)
		}
	}
	b.editLog = kept
}

func fingerprintOf(listings []Listing) map[string]struct{} {
	fp := make(map[string]struct{}, len(listings))
	for _, l := range listings {
		key := l.ID + ":N"
		if l.Full {
			key = l.ID + ":F"
		}
		fp[key] = struct{}{}
	}
	return fp
}

func equalFingerprint(a, b map[string]struct{}) bool {
	if b == nil || len(a) != len(b) {
		return false
	}
	for k := range a {
		if _, ok := b[k]; !ok {
			return false
		}
	}
	return true
}
