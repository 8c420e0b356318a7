package scrim

import "context"

//go:generate mockgen -package=mocks -destination=mocks/mock_repository.go github.com/scrimworks/scrimbot/internal/repositories/scrim Repository

// Repository defines the interface for scrim persistence
type Repository interface {
	// Save persists a scrim record
	Save(ctx context.Context, input *SaveInput) error

	// Get retrieves a scrim by its thread id
	Get(ctx context.Context, input *GetInput) (*GetOutput, error)

	// ListByGuild returns all scrims recorded for a guild
	ListByGuild(ctx context.Context, input *ListByGuildInput) (*ListByGuildOutput, error)

	// Delete removes a scrim record
	Delete(ctx context.Context, input *DeleteInput) error
}
