package discord

import (
	"context"
	"fmt"

	"github.com/bwmarrin/discordgo"

	"github.com/scrimworks/scrimbot/internal/services/scrim"
)

// ArchiveScrimCommand ends the scrim hosted in the current thread early.
// Allowed for the organizer and for moderators.
type ArchiveScrimCommand struct {
	BaseCommand
	registry *scrim.Registry
}

// NewArchiveScrimCommand creates a new archive-scrim command handler
func NewArchiveScrimCommand(registry *scrim.Registry) *ArchiveScrimCommand {
	return &ArchiveScrimCommand{
		BaseCommand: BaseCommand{
			Name:        "archive-scrim",
			Description: "End this scrim and archive its thread",
		},
		registry: registry,
	}
}

// Handle processes the archive-scrim command
func (c *ArchiveScrimCommand) Handle(s *discordgo.Session, i *discordgo.InteractionCreate) error {
	ctx := context.Background()

	guild, err := c.registry.Guild(ctx, i.GuildID)
	if err != nil {
		return RespondWithError(s, i, fmt.Sprintf("Error: %v", err))
	}

	manager, err := guild.ManagerByThread(i.ChannelID)
	if err != nil {
		return RespondWithEphemeralMessage(s, i, "This isn't a scrim thread!")
	}

	caller := interactionUser(i)
	isMod := i.Member != nil && i.Member.Permissions&discordgo.PermissionManageMessages != 0
	if manager.Scrim().Organizer.UserID != caller.ID && !isMod {
		return RespondWithEphemeralMessage(s, i, "Only the organizer can archive this scrim!")
	}

	if err := RespondWithMessage(s, i, "Okay, wrapping this one up!"); err != nil {
		return err
	}
	manager.Archive(ctx)
	return nil
}
