package scrim

import (
	"github.com/scrimworks/scrimbot/internal/models"
)

// SaveInput holds the scrim to persist
type SaveInput struct {
	Scrim *models.Scrim
}

// GetInput identifies a scrim by thread id
type GetInput struct {
	ThreadID string
}

// GetOutput holds the retrieved scrim
type GetOutput struct {
	Scrim *models.Scrim
}

// ListByGuildInput identifies the guild to list
type ListByGuildInput struct {
	GuildID string
}

// ListByGuildOutput holds the retrieved scrims
type ListByGuildOutput struct {
	Scrims []*models.Scrim
}

// DeleteInput identifies the scrim to remove
type DeleteInput struct {
	GuildID  string
	ThreadID string
}
