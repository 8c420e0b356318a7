package participation

import (
	"context"

	"github.com/scrimworks/scrimbot/internal/models"
)

//go:generate mockgen -package=mocks -destination=mocks/mock_repository.go github.com/scrimworks/scrimbot/internal/repositories/participation Repository

// Repository defines the interface for leaderboard participation records
type Repository interface {
	// Save persists one participation record
	Save(ctx context.Context, input *SaveInput) error

	// ListByGuild returns all participation records for a guild
	ListByGuild(ctx context.Context, input *ListByGuildInput) (*ListByGuildOutput, error)
}

// SaveInput holds the record to persist
type SaveInput struct {
	Participation *models.Participation
}

// ListByGuildInput identifies the guild to list
type ListByGuildInput struct {
	GuildID string
}

// ListByGuildOutput holds the retrieved records
type ListByGuildOutput struct {
	Participations []*models.Participation
}
