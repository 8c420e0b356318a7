package chat

import "context"

//go:generate mockgen -package=mocks -destination=mocks/mock_client.go github.com/scrimworks/scrimbot/internal/chat Client

// Client abstracts the hosting chat platform. The engine only ever talks to
// the platform through this interface so it can run against a mock in tests.
type Client interface {
	// FetchThread resolves a thread-like container by id
	FetchThread(ctx context.Context, threadID string) (*Thread, error)

	// ArchiveThread requests the thread be closed
	ArchiveThread(ctx context.Context, threadID string) error

	// CreateThread starts a thread on an existing message
	CreateThread(ctx context.Context, channelID, messageID, name string) (*Thread, error)

	// AddThreadMember adds a user to a thread
	AddThreadMember(ctx context.Context, threadID, userID string) error

	// FetchMessage fetches a single message
	FetchMessage(ctx context.Context, channelID, messageID string) (*Message, error)

	// SendMessage posts a new message with optional embeds and controls
	SendMessage(ctx context.Context, channelID, content string, embeds []Embed, controls []Control) (*Message, error)

	// EditMessage rewrites an existing message in place
	EditMessage(ctx context.Context, channelID, messageID, content string, embeds []Embed, controls []Control) error

	// DeleteMessage removes a message
	DeleteMessage(ctx context.Context, channelID, messageID string) error

	// ReplyMessage posts a message referencing an existing one
	ReplyMessage(ctx context.Context, channelID, messageID, content string) (*Message, error)

	// ChannelHistory returns the most recent messages in a channel, newest first
	ChannelHistory(ctx context.Context, channelID string, limit int) ([]*Message, error)

	// PublishMessage crossposts/pins a message so it stays visible
	PublishMessage(ctx context.Context, channelID, messageID string) error

	// AddRole applies a role marker to a member
	AddRole(ctx context.Context, guildID, userID, roleID, reason string) error

	// RemoveRole removes a role marker from a member
	RemoveRole(ctx context.Context, guildID, userID, roleID, reason string) error

	// MemberRoles returns the member's current role ids
	MemberRoles(ctx context.Context, guildID, userID string) ([]string, error)

	// GuildChannelIDs returns the set of valid channel ids for a guild
	GuildChannelIDs(ctx context.Context, guildID string) (map[string]struct{}, error)

	// GuildRoleIDs returns the set of valid role ids for a guild
	GuildRoleIDs(ctx context.Context, guildID string) (map[string]struct{}, error)

	// BotUserID returns the id the client is connected as
	BotUserID() string
}
