package timeout

import "context"

//go:generate mockgen -package=mocks -destination=mocks/mock_repository.go github.com/scrimworks/scrimbot/internal/repositories/timeout Repository

// Repository defines the interface for timeout persistence
type Repository interface {
	// Save persists a timeout record
	Save(ctx context.Context, input *SaveInput) error

	// Delete removes a timeout record
	Delete(ctx context.Context, input *DeleteInput) error

	// ListByGuild returns all timeout records for a guild
	ListByGuild(ctx context.Context, input *ListByGuildInput) (*ListByGuildOutput, error)
}
