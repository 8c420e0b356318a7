package scrim

import (
	"time"

	"github.com/scrimworks/scrimbot/internal/chat"
	"github.com/scrimworks/scrimbot/internal/common/clock"
	"github.com/scrimworks/scrimbot/internal/common/uuid"
	participationRepo "github.com/scrimworks/scrimbot/internal/repositories/participation"
	scrimRepo "github.com/scrimworks/scrimbot/internal/repositories/scrim"
	timeoutRepo "github.com/scrimworks/scrimbot/internal/repositories/timeout"
	"github.com/scrimworks/scrimbot/internal/services/settings"
)

// State is the manager's derived lifecycle state, re-evaluated on every
// resynchronization.
type State int

const (
	// StateBefore shows join/reserve/leave controls
	StateBefore State = iota

	// StateRunning shows reserve/call-reserve controls
	StateRunning

	// StateDormant shows no controls
	StateDormant

	// StateEnded is terminal: thread archived, manager deregistered
	StateEnded
)

// Interactive button actions, suffixed onto the thread id as callback ids
const (
	ActionJoin        = "join"
	ActionReserve     = "reserve"
	ActionLeave       = "leave"
	ActionCallReserve = "call"
)

// Controls returns the button set shown for the state.
func (s State) Controls(threadID string) []chat.Control {
	switch s {
	case StateBefore:
		return []chat.Control{
			{Label: "Join", Style: chat.ControlStyleSuccess, ID: threadID + ":" + ActionJoin},
			{Label: "Reserve", Style: chat.ControlStylePrimary, ID: threadID + ":" + ActionReserve},
			{Label: "Leave", Style: chat.ControlStyleDanger, ID: threadID + ":" + ActionLeave},
		}
	case StateRunning:
		return []chat.Control{
			{Label: "Reserve", Style: chat.ControlStylePrimary, ID: threadID + ":" + ActionReserve},
			{Label: "Call reserve", Style: chat.ControlStyleSecondary, ID: threadID + ":" + ActionCallReserve},
		}
	}
	return nil
}

// String returns the state name for logging.
func (s State) String() string {
	switch s {
	case StateBefore:
		return "before"
	case StateRunning:
		return "running"
	case StateDormant:
		return "dormant"
	case StateEnded:
		return "ended"
	}
	return "unknown"
}

// Interactive-window constants of the session lifecycle
const (
	// DormantAfter is how long past the scheduled time a scrim stays
	// interactive
	DormantAfter = 2 * time.Hour

	// ArchiveAfter is when the archive timer fires
	ArchiveAfter = 2*time.Hour + 5*time.Minute

	// DefaultPingCooldown applies when channel settings carry none
	DefaultPingCooldown = 5 * time.Minute
)

// Config holds the injected dependencies of a Guild
type Config struct {
	// GuildID is the guild this instance manages
	GuildID string

	// Client is the chat platform adapter
	Client chat.Client

	// Clock supplies time, mockable in tests
	Clock clock.Clock

	// UUID generates participation record ids
	UUID uuid.UUID

	// ScrimRepo persists scrim records
	ScrimRepo scrimRepo.Repository

	// TimeoutRepo persists timeout records
	TimeoutRepo timeoutRepo.Repository

	// ParticipationRepo records full-roster starts for the leaderboard
	ParticipationRepo participationRepo.Repository

	// Settings is the guild's settings store
	Settings *settings.Service

	// BroadcastRetryDelay overrides the deferred broadcast retry delay,
	// zero meaning the default
	BroadcastRetryDelay time.Duration
}

// CreateScrimInput describes a new scrim to set up
type CreateScrimInput struct {
	// ChannelID is the channel to announce in and thread under
	ChannelID string

	// Time is the scheduled start
	Time time.Time

	// Name is an optional label
	Name string

	// Capacity overrides the channel default when positive
	Capacity int

	// Organizer identifies the creating user
	Organizer OrganizerInput
}

// OrganizerInput carries the organizer's display metadata
type OrganizerInput struct {
	UserID string
	Name   string
	Avatar string
}

// User identifies an acting user in join/reserve/leave calls
type User struct {
	ID      string
	Name    string
	Mention string
}
