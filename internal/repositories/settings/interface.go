package settings

import "context"

//go:generate mockgen -package=mocks -destination=mocks/mock_repository.go github.com/scrimworks/scrimbot/internal/repositories/settings Repository

// Repository defines the interface for settings-document persistence.
// One document is stored per guild.
type Repository interface {
	// Save persists the guild's settings document
	Save(ctx context.Context, input *SaveInput) error

	// Get retrieves the guild's settings document
	Get(ctx context.Context, input *GetInput) (*GetOutput, error)
}

// SaveInput holds the document to persist
type SaveInput struct {
	GuildID  string
	Document map[string]any
}

// GetInput identifies the guild
type GetInput struct {
	GuildID string
}

// GetOutput holds the retrieved document. Document is nil when the guild
// has no settings saved yet.
type GetOutput struct {
	Document map[string]any
}
