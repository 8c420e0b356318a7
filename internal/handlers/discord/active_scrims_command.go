package discord

import (
	"context"
	"fmt"

	"github.com/bwmarrin/discordgo"

	"github.com/scrimworks/scrimbot/internal/chat"
	"github.com/scrimworks/scrimbot/internal/services/scrim"
)

// ActiveScrimsCommand lists the guild's live scrims
type ActiveScrimsCommand struct {
	BaseCommand
	registry *scrim.Registry
}

// NewActiveScrimsCommand creates a new active-scrims command handler
func NewActiveScrimsCommand(registry *scrim.Registry) *ActiveScrimsCommand {
	return &ActiveScrimsCommand{
		BaseCommand: BaseCommand{
			Name:        "active-scrims",
			Description: "List the scrims that have not started yet (10 max)",
		},
		registry: registry,
	}
}

// Handle processes the active-scrims command
func (c *ActiveScrimsCommand) Handle(s *discordgo.Session, i *discordgo.InteractionCreate) error {
	ctx := context.Background()

	guild, err := c.registry.Guild(ctx, i.GuildID)
	if err != nil {
		return RespondWithError(s, i, fmt.Sprintf("Error: %v", err))
	}

	scrims := guild.UpcomingScrims(10)
	if len(scrims) == 0 {
		return RespondWithEphemeralMessage(s, i, "No scrims planned at the moment.")
	}

	fields := make([]*discordgo.MessageEmbedField, 0, len(scrims))
	for _, sc := range scrims {
		fields = append(fields, &discordgo.MessageEmbedField{
			Name: sc.Title(),
			Value: fmt.Sprintf("%s in %s (%d/%d players)",
				chat.TimeTag(sc.Time), chat.ChannelTag(sc.ThreadID), sc.NumPlayers(), sc.Capacity),
		})
	}

	return RespondWithEmbed(s, i, "Active scrims", "", fields)
}
