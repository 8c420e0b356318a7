package models

import (
	"time"
)

// Timeout records one user under a temporary scrim restriction
type Timeout struct {
	// UserID is the restricted user
	UserID string

	// GuildID is the guild the restriction applies to
	GuildID string

	// Expiry is the absolute instant the restriction runs out. Persisting
	// the absolute time keeps countdowns correct across process restarts.
	Expiry time.Time

	// Reason is the free-form reason given when the restriction was set
	Reason string
}
