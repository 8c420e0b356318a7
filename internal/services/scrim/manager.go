package scrim

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/scrimworks/scrimbot/internal/chat"
	"github.com/scrimworks/scrimbot/internal/common/clock"
	"github.com/scrimworks/scrimbot/internal/models"
	scrimRepo "github.com/scrimworks/scrimbot/internal/repositories/scrim"
)

// Manager drives one scrim through its lifecycle. All platform resources
// are held behind lazy proxies, so a manager for a deleted thread quietly
// tears itself down the first time it touches the platform.
type Manager struct {
	id    string
	guild *Guild

	// mu guards scrim and state. Platform and repository I/O happens
	// outside the lock against a cloned snapshot.
	mu    sync.Mutex
	scrim *models.Scrim
	state State

	thread   *Proxy[*chat.Thread]
	announce *Proxy[*chat.Message]
	content  *Proxy[*chat.Message]

	pingLimiter *rate.Limiter

	endOnce sync.Once
	cancel  context.CancelFunc
}

func newManager(guild *Guild, s *models.Scrim) *Manager {
	m := &Manager{
		id:          s.ThreadID,
		guild:       guild,
		scrim:       s,
		pingLimiter: rate.NewLimiter(rate.Every(DefaultPingCooldown), 1),
	}

	classify := func(err error) bool {
		if chat.IsFatal(err) {
			log.Printf("scrim %s: platform resource gone, shutting down: %v", m.id, err)
			go m.end(context.Background())
			return true
		}
		log.Printf("scrim %s: transient platform error: %v", m.id, err)
		return false
	}

	m.thread = NewProxy(func(ctx context.Context) (*chat.Thread, error) {
		return guild.cfg.Client.FetchThread(ctx, m.id)
	}, m.onThreadResolved, classify)

	m.announce = NewProxy(func(ctx context.Context) (*chat.Message, error) {
		m.mu.Lock()
		channelID := m.scrim.ChannelID
		m.mu.Unlock()
		// The thread was created on the announcement message, so they
		// share an id.
		return guild.cfg.Client.FetchMessage(ctx, channelID, m.id)
	}, nil, classify)

	m.content = NewProxy(func(ctx context.Context) (*chat.Message, error) {
		m.mu.Lock()
		messageID := m.scrim.ContentMessageID
		m.mu.Unlock()
		return guild.cfg.Client.FetchMessage(ctx, m.id, messageID)
	}, nil, classify)

	return m
}

// onThreadResolved attaches the channel-configuration snapshot once the
// hosting thread is known and primes the message proxies.
func (m *Manager) onThreadResolved(ctx context.Context, th *chat.Thread) {
	cs := m.guild.cfg.Settings.Channel(th.ParentID)

	cooldown := DefaultPingCooldown
	if cs.PingCooldown > 0 {
		cooldown = time.Duration(cs.PingCooldown) * time.Minute
	}

	m.mu.Lock()
	m.scrim.ChannelID = th.ParentID
	m.scrim.Defaults = &models.ChannelDefaults{
		Capacity:            cs.Capacity,
		Prefix:              cs.Prefix,
		PingCooldownMinutes: cs.PingCooldown,
		BroadcastChannel:    cs.BroadcastChannel,
		Role:                cs.ScrimmerRole,
	}
	m.pingLimiter = rate.NewLimiter(rate.Every(cooldown), 1)
	m.mu.Unlock()

	if cs.BroadcastChannel != "" {
		m.guild.ensureBroadcaster(cs.BroadcastChannel)
	}

	m.announce.Fetch(ctx)
	m.content.Fetch(ctx)
}

// ID returns the scrim's thread id.
func (m *Manager) ID() string {
	return m.id
}

// Scrim returns a snapshot of the scrim's current data.
func (m *Manager) Scrim() *models.Scrim {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.scrim.Clone()
}

// State returns the current lifecycle state.
func (m *Manager) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// ContainsPlayer reports whether the user is on the roster.
func (m *Manager) ContainsPlayer(userID string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.scrim.ContainsPlayer(userID)
}

// Init resolves the thread and starts the lifecycle timers. Also the
// resync entry point after a restart: deriving state from the persisted
// record and the clock converges on the same outcome as if the process
// had never been down.
func (m *Manager) Init(ctx context.Context) {
	runCtx, cancel := context.WithCancel(context.Background())
	m.cancel = cancel

	m.thread.Fetch(ctx)
	m.Update(ctx)
	go m.runTimers(runCtx)
}

// runTimers sleeps to the scheduled start, fires the start transition,
// then sleeps to the archive deadline and resyncs once more.
func (m *Manager) runTimers(ctx context.Context) {
	m.mu.Lock()
	start := m.scrim.Time
	m.mu.Unlock()

	if !m.sleepUntil(ctx, start) {
		return
	}
	m.startScrim(ctx)
	m.Update(ctx)

	if !m.sleepUntil(ctx, start.Add(ArchiveAfter)) {
		return
	}
	m.Update(ctx)
}

func (m *Manager) sleepUntil(ctx context.Context, t time.Time) bool {
	d := clock.Until(m.guild.cfg.Clock, t)
	if d == 0 {
		return true
	}
	select {
	case <-ctx.Done():
		return false
	case <-time.After(d):
		return true
	}
}

// startScrim runs the start transition exactly once: announce in the
// thread, flip the persistent started flag, and log participation when
// the scrim filled up.
func (m *Manager) startScrim(ctx context.Context) {
	m.mu.Lock()
	if m.scrim.Started || m.state == StateEnded {
		m.mu.Unlock()
		return
	}
	m.scrim.Started = true
	snapshot := m.scrim.Clone()
	m.mu.Unlock()

	m.persist(ctx, snapshot)

	startMsg := snapshot.StartMessage()
	m.thread.Wait(ctx, func(ctx context.Context, th *chat.Thread) error {
		_, err := m.guild.cfg.Client.SendMessage(ctx, th.ID, startMsg, nil, nil)
		return err
	})
	if snapshot.NumPlayers() > 0 {
		m.announce.Wait(ctx, func(ctx context.Context, msg *chat.Message) error {
			_, err := m.guild.cfg.Client.ReplyMessage(ctx, msg.ChannelID, msg.ID, "Scrim is starting!")
			return err
		})
	}

	if snapshot.Full() {
		m.guild.LogParticipation(ctx, snapshot)
	}
}

// Update derives the lifecycle state from the clock and the roster,
// rerenders the thread content and the announcement, and tears the
// manager down when the scrim is over. Idempotent.
func (m *Manager) Update(ctx context.Context) {
	if archived, ok := Map(ctx, m.thread, func(th *chat.Thread) bool { return th.Archived }); ok && archived {
		m.end(ctx)
		return
	}

	now := m.guild.cfg.Clock.Now()

	m.mu.Lock()
	if m.state == StateEnded {
		m.mu.Unlock()
		return
	}
	past := !now.Before(m.scrim.Time)
	stale := now.After(m.scrim.Time.Add(DormantAfter))
	switch {
	case stale:
		m.state = StateDormant
	case (past || m.scrim.Started) && m.scrim.NumPlayers() > 0:
		m.state = StateRunning
	case past || m.scrim.Started:
		m.state = StateDormant
	default:
		m.state = StateBefore
	}
	state := m.state
	snapshot := m.scrim.Clone()
	m.mu.Unlock()

	m.render(ctx, snapshot, state)

	if stale || (snapshot.Started && snapshot.NumPlayers() == 0) {
		m.end(ctx)
		return
	}

	m.guild.UpdateBroadcasts(ctx)
}

// render rewrites the thread's roster message and the announcement in
// the parent channel from the given snapshot.
func (m *Manager) render(ctx context.Context, snapshot *models.Scrim, state State) {
	embed := rosterEmbed(snapshot)
	controls := state.Controls(m.id)

	m.content.Wait(ctx, func(ctx context.Context, msg *chat.Message) error {
		return m.guild.cfg.Client.EditMessage(ctx, msg.ChannelID, msg.ID, "", []chat.Embed{embed}, controls)
	})
	header := snapshot.HeaderMessage()
	m.announce.Wait(ctx, func(ctx context.Context, msg *chat.Message) error {
		return m.guild.cfg.Client.EditMessage(ctx, msg.ChannelID, msg.ID, header, nil, nil)
	})
}

func rosterEmbed(s *models.Scrim) chat.Embed {
	fields := []chat.EmbedField{
		{
			Name:  fmt.Sprintf("Players (%d/%d)", s.NumPlayers(), s.Capacity),
			Value: orDash(s.PlayerList("\n")),
		},
	}
	if s.NumReserves() > 0 {
		fields = append(fields, chat.EmbedField{
			Name:  fmt.Sprintf("Reserves (%d)", s.NumReserves()),
			Value: s.ReserveList("\n"),
		})
	}
	return chat.Embed{
		Title:       s.Title(),
		Description: fmt.Sprintf("Starts at %s", s.TimeText(" / ")),
		Fields:      fields,
	}
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

// end tears the manager down exactly once: proxies go silent, the thread
// is archived and the persisted record is removed.
func (m *Manager) end(ctx context.Context) {
	m.endOnce.Do(func() {
		m.mu.Lock()
		m.state = StateEnded
		m.mu.Unlock()

		if m.cancel != nil {
			m.cancel()
		}

		m.thread.Silence()
		m.announce.Silence()
		m.content.Silence()

		m.thread.Wait(ctx, func(ctx context.Context, th *chat.Thread) error {
			return m.guild.cfg.Client.ArchiveThread(ctx, th.ID)
		})

		m.guild.removeManager(ctx, m)
	})
}

// Archive ends the scrim early: the thread is archived and the manager
// torn down, for organizers and moderators.
func (m *Manager) Archive(ctx context.Context) {
	m.end(ctx)
}

// Join puts the user on the roster, or on the reserve queue with
// auto-join when the scrim is full. Returns the reply for the user.
func (m *Manager) Join(ctx context.Context, user User) string {
	if m.guild.IsOnTimeout(user.ID) {
		return "Sorry buddy, you are on a timeout!"
	}
	m.addThreadMember(ctx, user.ID)

	m.mu.Lock()
	if !m.scrim.Full() {
		if m.scrim.ContainsPlayer(user.ID) {
			m.mu.Unlock()
			return "Whoops, you are already in there!"
		}
		m.scrim.RemoveReserve(user.ID)
		m.scrim.AddPlayer(participant(user))
		snapshot := m.scrim.Clone()
		m.mu.Unlock()

		m.sync(ctx, snapshot)
		return "Great, I added you to the scrim!"
	}

	if m.scrim.ContainsPlayer(user.ID) {
		m.mu.Unlock()
		return "Whoops, you are already in there!"
	}

	// Full: fall back to the reserve queue with auto-join armed
	m.scrim.AddReserve(participant(user))
	m.scrim.SetAutoPromote(user.ID, true)
	snapshot := m.scrim.Clone()
	m.mu.Unlock()

	m.sync(ctx, snapshot)
	return "It's full! I put you on the reserve list with auto-join, " +
		"you will move into the scrim if a spot opens up."
}

// Reserve puts the user on the reserve queue, or toggles auto-join off
// if they already are on it.
func (m *Manager) Reserve(ctx context.Context, user User) string {
	if m.guild.IsOnTimeout(user.ID) {
		return "Sorry buddy, you are on a timeout!"
	}
	m.addThreadMember(ctx, user.ID)

	m.mu.Lock()
	if m.scrim.Started && m.scrim.ContainsPlayer(user.ID) {
		m.mu.Unlock()
		return "You can't switch to reserve after the scrim started!"
	}

	if m.scrim.ContainsReserve(user.ID) {
		m.scrim.SetAutoPromote(user.ID, false)
		snapshot := m.scrim.Clone()
		m.mu.Unlock()

		m.sync(ctx, snapshot)
		return "You are already on the reserve list, I turned auto-join off for you."
	}

	promoted := m.scrim.AddReserve(participant(user))
	snapshot := m.scrim.Clone()
	m.mu.Unlock()

	m.sync(ctx, snapshot)
	if promoted != nil {
		m.notifyPromotion(ctx, promoted)
	}
	return "Put you on the reserve list!"
}

// Leave removes the user from the roster and the reserve queue. A freed
// roster spot auto-promotes the first reserve with auto-join armed.
func (m *Manager) Leave(ctx context.Context, user User) string {
	m.mu.Lock()
	if !m.scrim.ContainsUser(user.ID) {
		m.mu.Unlock()
		return "You are not in this scrim!"
	}
	promoted := m.scrim.RemovePlayer(user.ID)
	m.scrim.RemoveReserve(user.ID)
	snapshot := m.scrim.Clone()
	m.mu.Unlock()

	m.sync(ctx, snapshot)
	if promoted != nil {
		m.notifyPromotion(ctx, promoted)
	}
	return "Okay, removed you from the scrim."
}

// Kick force-removes a user, for moderators. Roster members can not be
// removed once the scrim started. The second return marks replies that
// should stay private to the caller.
func (m *Manager) Kick(ctx context.Context, userID string) (string, bool) {
	m.mu.Lock()
	if !m.scrim.ContainsUser(userID) {
		m.mu.Unlock()
		return "That user is not in this scrim.", true
	}
	if m.scrim.Started && m.scrim.ContainsPlayer(userID) {
		m.mu.Unlock()
		return "This scrim has already started, the player can not be removed anymore.", true
	}
	promoted := m.scrim.RemovePlayer(userID)
	m.scrim.RemoveReserve(userID)
	snapshot := m.scrim.Clone()
	m.mu.Unlock()

	m.sync(ctx, snapshot)
	if promoted != nil {
		m.notifyPromotion(ctx, promoted)
	}
	return fmt.Sprintf("Removed %s from the scrim.", chat.UserTag(userID)), false
}

// CallReserve summons the next uncalled reserve into the thread. Only
// roster members may call. The second return marks replies that should
// stay private to the caller.
func (m *Manager) CallReserve(ctx context.Context, caller User) (string, bool) {
	m.mu.Lock()
	if !m.scrim.ContainsPlayer(caller.ID) {
		m.mu.Unlock()
		return "You are not in this scrim!", true
	}
	called := m.scrim.CallNextReserve()
	if called == nil {
		m.mu.Unlock()
		return "No reserve available", true
	}
	snapshot := m.scrim.Clone()
	m.mu.Unlock()

	m.sync(ctx, snapshot)
	return fmt.Sprintf("%s you are needed! Get online if you can!", chat.UserTag(called.UserID)), false
}

// Ping mentions the whole roster on behalf of a roster member, bounded
// by the channel's ping cooldown. The second return marks replies that
// should stay private to the caller.
func (m *Manager) Ping(userID, text string) (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.scrim.ContainsPlayer(userID) {
		return "You are not in this scrim!", true
	}
	if !m.pingLimiter.Allow() {
		return "Don't ping that often!", true
	}

	reply := fmt.Sprintf("%s, you have been pinged by %s!", m.scrim.PlayerList(", "), chat.UserTag(userID))
	if text != "" {
		reply += "\n" + text
	}
	return reply, false
}

// Eject removes a timed-out user if the scrim has not started and its
// start falls inside the timeout window.
func (m *Manager) Eject(ctx context.Context, userID string, until time.Time) {
	m.mu.Lock()
	affected := !m.scrim.Started && !m.scrim.Time.After(until) && m.scrim.ContainsUser(userID)
	m.mu.Unlock()
	if !affected {
		return
	}
	m.Leave(ctx, User{ID: userID})
}

func (m *Manager) notifyPromotion(ctx context.Context, p *models.Participant) {
	m.thread.Wait(ctx, func(ctx context.Context, th *chat.Thread) error {
		msg := fmt.Sprintf("%s a spot opened up, you are in the scrim now!", chat.UserTag(p.UserID))
		_, err := m.guild.cfg.Client.SendMessage(ctx, th.ID, msg, nil, nil)
		return err
	})
}

func (m *Manager) addThreadMember(ctx context.Context, userID string) {
	m.thread.Wait(ctx, func(ctx context.Context, th *chat.Thread) error {
		return m.guild.cfg.Client.AddThreadMember(ctx, th.ID, userID)
	})
}

// sync persists the snapshot and refreshes all rendered surfaces.
func (m *Manager) sync(ctx context.Context, snapshot *models.Scrim) {
	m.persist(ctx, snapshot)
	m.Update(ctx)
}

func (m *Manager) persist(ctx context.Context, snapshot *models.Scrim) {
	if err := m.guild.cfg.ScrimRepo.Save(ctx, &scrimRepo.SaveInput{Scrim: snapshot}); err != nil {
		log.Printf("scrim %s: failed to persist: %v", m.id, err)
	}
}

func participant(user User) *models.Participant {
	mention := user.Mention
	if mention == "" {
		mention = chat.UserTag(user.ID)
	}
	return &models.Participant{
		UserID:  user.ID,
		Name:    user.Name,
		Mention: mention,
	}
}
