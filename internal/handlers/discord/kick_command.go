package discord

import (
	"context"
	"fmt"

	"github.com/bwmarrin/discordgo"

	"github.com/scrimworks/scrimbot/internal/services/scrim"
)

// KickCommand force-removes a user from the scrim hosted in the current
// thread. Moderators only.
type KickCommand struct {
	BaseCommand
	registry *scrim.Registry
}

// NewKickCommand creates a new kick command handler
func NewKickCommand(registry *scrim.Registry) *KickCommand {
	return &KickCommand{
		BaseCommand: BaseCommand{
			Name:        "kick-scrim",
			Description: "Remove a user from this scrim",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionUser,
					Name:        "user",
					Description: "User to remove",
					Required:    true,
				},
			},
		},
		registry: registry,
	}
}

// Handle processes the kick command
func (c *KickCommand) Handle(s *discordgo.Session, i *discordgo.InteractionCreate) error {
	ctx := context.Background()

	if i.Member == nil || i.Member.Permissions&discordgo.PermissionManageMessages == 0 {
		return RespondWithEphemeralMessage(s, i, "You are not allowed to do that!")
	}

	guild, err := c.registry.Guild(ctx, i.GuildID)
	if err != nil {
		return RespondWithError(s, i, fmt.Sprintf("Error: %v", err))
	}

	manager, err := guild.ManagerByThread(i.ChannelID)
	if err != nil {
		return RespondWithEphemeralMessage(s, i, "This isn't a scrim thread!")
	}

	target := commandOptions(i)["user"].UserValue(s)
	reply, private := manager.Kick(ctx, target.ID)
	if private {
		return RespondWithEphemeralMessage(s, i, reply)
	}
	return RespondWithMessage(s, i, reply)
}
