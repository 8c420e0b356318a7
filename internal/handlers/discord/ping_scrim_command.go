package discord

import (
	"context"
	"fmt"

	"github.com/bwmarrin/discordgo"

	"github.com/scrimworks/scrimbot/internal/services/scrim"
)

// PingScrimCommand pings the roster of the scrim hosted in the current
// thread, bounded by the channel's ping cooldown
type PingScrimCommand struct {
	BaseCommand
	registry *scrim.Registry
}

// NewPingScrimCommand creates a new ping-scrim command handler
func NewPingScrimCommand(registry *scrim.Registry) *PingScrimCommand {
	return &PingScrimCommand{
		BaseCommand: BaseCommand{
			Name:        "ping-scrim",
			Description: "Ping everyone in this scrim",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "message",
					Description: "Optional message to go with the ping",
				},
			},
		},
		registry: registry,
	}
}

// Handle processes the ping-scrim command
func (c *PingScrimCommand) Handle(s *discordgo.Session, i *discordgo.InteractionCreate) error {
	ctx := context.Background()

	guild, err := c.registry.Guild(ctx, i.GuildID)
	if err != nil {
		return RespondWithError(s, i, fmt.Sprintf("Error: %v", err))
	}

	manager, err := guild.ManagerByThread(i.ChannelID)
	if err != nil {
		return RespondWithEphemeralMessage(s, i, "This isn't a scrim thread!")
	}

	text := ""
	if opt, ok := commandOptions(i)["message"]; ok {
		text = opt.StringValue()
	}

	reply, private := manager.Ping(interactionUser(i).ID, text)
	if private {
		return RespondWithEphemeralMessage(s, i, reply)
	}
	return RespondWithMessage(s, i, reply)
}
