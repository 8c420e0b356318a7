package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/scrimworks/scrimbot/internal/chat"
)

// OverlapWindow is how close two scrim start times in the same channel may
// be before they are reported as overlapping.
const OverlapWindow = time.Hour

// ChannelDefaults is the resolved configuration snapshot a scrim picks up
// from its hosting channel once the thread is resolved.
type ChannelDefaults struct {
	// Capacity is the default roster size for scrims in the channel
	Capacity int

	// Prefix is the display name used for unnamed scrims
	Prefix string

	// PingCooldownMinutes limits how often the roster may be pinged
	PingCooldownMinutes int

	// BroadcastChannel receives the upcoming-scrims listing, empty to disable
	BroadcastChannel string

	// Role is the role mentioned in announcements, empty to disable
	Role string
}

// Scrim represents one scheduled, capacity-limited group session. Its
// identity is the id of the thread hosting it; the announcement message in
// the parent channel shares that id because the thread is created on it.
type Scrim struct {
	// ThreadID is the hosting thread id and the scrim's identity
	ThreadID string

	// GuildID is the guild the scrim belongs to
	GuildID string

	// ChannelID is the channel the thread was created in
	ChannelID string

	// ContentMessageID is the roster message inside the thread
	ContentMessageID string

	// Name is an optional label given by the organizer
	Name string

	// Capacity is the maximum roster size
	Capacity int

	// Time is the scheduled start, carrying the organizer-local timezone
	Time time.Time

	// Started flips to true when the start timer fires. Never reverts.
	Started bool

	// Organizer is the user that created the scrim
	Organizer Organizer

	// Players is the accepted roster, unique by user id, len <= Capacity
	Players []*Participant

	// Reserve is the ordered waitlist, disjoint from Players
	Reserve []*Participant

	// Defaults is the channel configuration snapshot, attached after the
	// hosting thread is resolved
	Defaults *ChannelDefaults
}

// NumPlayers returns the roster length.
func (s *Scrim) NumPlayers() int {
	return len(s.Players)
}

// NumReserves returns the reserve queue length.
func (s *Scrim) NumReserves() int {
	return len(s.Reserve)
}

// Full is the single full predicate used by the join path, the broadcaster
// fingerprint and the start announcement.
func (s *Scrim) Full() bool {
	return len(s.Players) >= s.Capacity
}

// ContainsPlayer reports whether the user is on the roster.
func (s *Scrim) ContainsPlayer(userID string) bool {
	return findParticipant(s.Players, userID) != nil
}

// ContainsReserve reports whether the user is on the reserve queue.
func (s *Scrim) ContainsReserve(userID string) bool {
	return findParticipant(s.Reserve, userID) != nil
}

// ContainsUser reports whether the user is on the roster or the reserve.
func (s *Scrim) ContainsUser(userID string) bool {
	return s.ContainsPlayer(userID) || s.ContainsReserve(userID)
}

// AddPlayer appends the participant to the roster and drops any reserve
// entry for the same user. Refused when the roster is full or the user is
// already rostered.
func (s *Scrim) AddPlayer(p *Participant) bool {
	if s.Full() || s.ContainsPlayer(p.UserID) {
		return false
	}
	s.Players = append(s.Players, p)
	s.RemoveReserve(p.UserID)
	return true
}

// RemovePlayer removes the user from the roster. If that opens a slot, the
// first reserve flagged auto-promote moves into it with the flag cleared;
// the promoted participant is returned so the caller can notify them.
func (s *Scrim) RemovePlayer(userID string) *Participant {
	s.Players = removeParticipant(s.Players, userID)
	if s.Full() {
		return nil
	}
	for _, r := range s.Reserve {
		if r.AutoPromote {
			r.AutoPromote = false
			s.AddPlayer(r)
			return r
		}
	}
	return nil
}

// AddReserve appends the participant to the reserve queue and removes any
// roster entry for the same user. Removing the roster entry may promote
// another auto-promote reserve, which is returned.
func (s *Scrim) AddReserve(p *Participant) *Participant {
	if s.ContainsReserve(p.UserID) {
		return nil
	}
	s.Reserve = append(s.Reserve, p)
	return s.RemovePlayer(p.UserID)
}

// RemoveReserve removes the user from the reserve queue.
func (s *Scrim) RemoveReserve(userID string) {
	s.Reserve = removeParticipant(s.Reserve, userID)
}

// SetAutoPromote sets or clears the auto-promote flag on a reserve entry.
func (s *Scrim) SetAutoPromote(userID string, auto bool) {
	if p := findParticipant(s.Reserve, userID); p != nil {
		p.AutoPromote = auto
	}
}

// NextUncalledReserve returns the first reserve that has not been paged yet.
func (s *Scrim) NextUncalledReserve() *Participant {
	for _, r := range s.Reserve {
		if !r.Called {
			return r
		}
	}
	return nil
}

// CallNextReserve marks the first uncalled reserve as called and returns
// it, or nil when the queue is exhausted. Called is sticky.
func (s *Scrim) CallNextReserve() *Participant {
	r := s.NextUncalledReserve()
	if r != nil {
		r.Called = true
	}
	return r
}

// OverlapsWith reports whether the other scrim's start time falls within
// the overlap window of this one. Channel scoping is up to the caller.
func (s *Scrim) OverlapsWith(other *Scrim) bool {
	d := s.Time.Sub(other.Time)
	if d < 0 {
		d = -d
	}
	return d < OverlapWindow
}

// Clone returns a deep copy safe to hand to another goroutine.
func (s *Scrim) Clone() *Scrim {
	out := *s
	out.Players = cloneParticipants(s.Players)
	out.Reserve = cloneParticipants(s.Reserve)
	if s.Defaults != nil {
		d := *s.Defaults
		out.Defaults = &d
	}
	return &out
}

// Title returns the scrim's display name.
func (s *Scrim) Title() string {
	prefix := "Scrim"
	if s.Defaults != nil && s.Defaults.Prefix != "" {
		prefix = s.Defaults.Prefix
	}
	if s.Name != "" {
		return fmt.Sprintf("%s *%s*", prefix, s.Name)
	}
	return prefix
}

// ThreadName generates the thread title from the start time and the
// optional scrim name.
func (s *Scrim) ThreadName() string {
	name := s.Time.Format("15.04")
	if s.Name != "" {
		name += " " + s.Name
	}
	return name
}

// TimeText renders the start time as server time plus a local-time tag.
func (s *Scrim) TimeText(separator string) string {
	return fmt.Sprintf("%s (server)%s%s (your local time)",
		s.Time.Format("15:04"), separator, chat.TimeTag(s.Time))
}

// HeaderMessage generates the announcement text in the parent channel.
func (s *Scrim) HeaderMessage() string {
	var b strings.Builder
	if s.Defaults != nil && s.Defaults.Role != "" {
		b.WriteString(chat.RoleTag(s.Defaults.Role))
		b.WriteString("! ")
	}
	fmt.Fprintf(&b, "Scrim at %s ", s.TimeText(" / "))
	if s.NumPlayers() > 0 {
		fmt.Fprintf(&b, "**(%d/%d)** ", s.NumPlayers(), s.Capacity)
	}
	fmt.Fprintf(&b, "started by %s\n", chat.UserTag(s.Organizer.UserID))
	return b.String()
}

// PlayerList renders the roster mentions joined by sep.
func (s *Scrim) PlayerList(sep string) string {
	mentions := make([]string, 0, len(s.Players))
	for _, p := range s.Players {
		mentions = append(mentions, p.Mention)
	}
	return strings.Join(mentions, sep)
}

// ReserveList renders the reserve queue with auto-join and called markers.
// The auto-join marker is only shown while the scrim has not started.
func (s *Scrim) ReserveList(sep string) string {
	lines := make([]string, 0, len(s.Reserve))
	for _, r := range s.Reserve {
		extra := ""
		if r.AutoPromote && !s.Started {
			extra = " (auto-join)"
		}
		if r.Called {
			extra = " (called)"
		}
		lines = append(lines, r.Mention+extra)
	}
	return strings.Join(lines, sep)
}

// StartMessage generates the announcement posted to the thread when the
// start timer fires.
func (s *Scrim) StartMessage() string {
	if s.NumPlayers() == 0 {
		return "Sad moment, nobody signed up! Archiving the thread."
	}

	players := tagList(s.Players)
	reserves := tagList(s.Reserve)

	if s.Full() {
		return fmt.Sprintf("Scrim starting, get online!\n%s", players)
	}

	if s.NumPlayers()+s.NumReserves() >= s.Capacity {
		return fmt.Sprintf("Scrim starting, get online!\n%s\nReserves, we need you!\n%s",
			players, reserves)
	}

	msg := fmt.Sprintf("Not enough players, feel free to get online and try to get it started anyway!\n%s\n", players)
	if s.NumReserves() > 0 {
		msg += fmt.Sprintf("Reserves, feel free to join in.\n%s\n", reserves)
	}

	shortage := s.Capacity - s.NumPlayers() - s.NumReserves()
	if shortage > 0 && shortage <= 2 && s.Defaults != nil && s.Defaults.Role != "" {
		msg += fmt.Sprintf("\n%s, you might be able to make this a full scrim.\nWe need at least %d player(s).",
			chat.RoleTag(s.Defaults.Role), shortage)
	}
	return msg
}

// BroadcastListing renders the one-line summary used by the broadcaster.
func (s *Scrim) BroadcastListing() string {
	full := ""
	if s.Full() {
		full = " **FULL**"
	}
	return fmt.Sprintf("%s %s%s", chat.TimeTag(s.Time), s.Title(), full)
}

func tagList(ps []*Participant) string {
	tags := make([]string, 0, len(ps))
	for _, p := range ps {
		tags = append(tags, chat.UserTag(p.UserID))
	}
	return strings.Join(tags, " ")
}

func findParticipant(ps []*Participant, userID string) *Participant {
	for _, p := range ps {
		if p.UserID == userID {
			return p
		}
	}
	return nil
}

func removeParticipant(ps []*Participant, userID string) []*Participant {
	for i, p := range ps {
		if p.UserID == userID {
			return append(ps[:i], ps[i+1:]...)
		}
	}
	return ps
}

func cloneParticipants(ps []*Participant) []*Participant {
	out := make([]*Participant, 0, len(ps))
	for _, p := range ps {
		c := *p
		out = append(out, &c)
	}
	return out
}
