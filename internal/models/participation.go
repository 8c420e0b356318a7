package models

import (
	"time"
)

// Participation records one player being part of a scrim that started with
// a full roster. Used for leaderboard standings.
type Participation struct {
	// ID is the unique identifier for the record
	ID string

	// GuildID is the guild the scrim belonged to
	GuildID string

	// ChannelID is the channel the scrim was hosted in
	ChannelID string

	// ScrimID is the thread id of the scrim
	ScrimID string

	// UserID is the rostered player
	UserID string

	// PlayedAt is the scheduled start of the scrim
	PlayedAt time.Time
}
