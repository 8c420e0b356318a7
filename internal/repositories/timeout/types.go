package timeout

import (
	"github.com/scrimworks/scrimbot/internal/models"
)

// SaveInput holds the timeout record to persist
type SaveInput struct {
	Timeout *models.Timeout
}

// DeleteInput identifies the record to remove
type DeleteInput struct {
	GuildID string
	UserID  string
}

// ListByGuildInput identifies the guild to list
type ListByGuildInput struct {
	GuildID string
}

// ListByGuildOutput holds the retrieved records
type ListByGuildOutput struct {
	Timeouts []*models.Timeout
}
