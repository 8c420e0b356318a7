package discord

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/bwmarrin/discordgo"

	"github.com/scrimworks/scrimbot/internal/chat"
	"github.com/scrimworks/scrimbot/internal/services/scrim"
	"github.com/scrimworks/scrimbot/internal/services/timeout"
)

// TimeoutCommand manages the guild's scrim timeouts. Moderators only.
type TimeoutCommand struct {
	BaseCommand
	registry *scrim.Registry
}

// NewTimeoutCommand creates a new scrim-timeout command handler
func NewTimeoutCommand(registry *scrim.Registry) *TimeoutCommand {
	return &TimeoutCommand{
		BaseCommand: BaseCommand{
			Name:        "scrim-timeout",
			Description: "Manage scrim timeouts",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "set",
					Description: "Put a user on a scrim timeout",
					Options: []*discordgo.ApplicationCommandOption{
						{
							Type:        discordgo.ApplicationCommandOptionUser,
							Name:        "user",
							Description: "User to put on a timeout",
							Required:    true,
						},
						{
							Type:        discordgo.ApplicationCommandOptionString,
							Name:        "duration",
							Description: "How long, like 1d 5h 30m",
							Required:    true,
						},
						{
							Type:        discordgo.ApplicationCommandOptionString,
							Name:        "reason",
							Description: "Why the timeout is given",
						},
					},
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "remove",
					Description: "Lift a user's scrim timeout",
					Options: []*discordgo.ApplicationCommandOption{
						{
							Type:        discordgo.ApplicationCommandOptionUser,
							Name:        "user",
							Description: "User to release",
							Required:    true,
						},
					},
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "list",
					Description: "List the current scrim timeouts",
				},
			},
		},
		registry: registry,
	}
}

// Handle processes the scrim-timeout command
func (c *TimeoutCommand) Handle(s *discordgo.Session, i *discordgo.InteractionCreate) error {
	ctx := context.Background()

	if i.Member == nil || i.Member.Permissions&discordgo.PermissionModerateMembers == 0 {
		return RespondWithEphemeralMessage(s, i, "You are not allowed to do that!")
	}

	guild, err := c.registry.Guild(ctx, i.GuildID)
	if err != nil {
		return RespondWithError(s, i, fmt.Sprintf("Error: %v", err))
	}

	sub := i.ApplicationCommandData().Options[0]
	switch sub.Name {
	case "set":
		return c.handleSet(ctx, s, i, guild, sub)
	case "remove":
		return c.handleRemove(ctx, s, i, guild, sub)
	case "list":
		return c.handleList(s, i, guild)
	default:
		return RespondWithError(s, i, fmt.Sprintf("Unknown subcommand: %s", sub.Name))
	}
}

func (c *TimeoutCommand) handleSet(ctx context.Context, s *discordgo.Session, i *discordgo.InteractionCreate, guild *scrim.Guild, sub *discordgo.ApplicationCommandInteractionDataOption) error {
	options := subcommandOptions(sub)

	duration, err := timeout.ParseDuration(options["duration"].StringValue())
	if err != nil {
		return RespondWithEphemeralMessage(s, i, err.Error())
	}

	reason := ""
	if opt, ok := options["reason"]; ok {
		reason = opt.StringValue()
	}

	target := options["user"].UserValue(s)
	entry, err := guild.Ledger().AddUser(ctx, target.ID, duration, reason)
	if err != nil {
		return RespondWithEphemeralMessage(s, i, err.Error())
	}

	return RespondWithMessage(s, i, fmt.Sprintf("Put %s on a timeout until %s.",
		chat.UserTag(target.ID), chat.TimeTag(entry.Expiry)))
}

func (c *TimeoutCommand) handleRemove(ctx context.Context, s *discordgo.Session, i *discordgo.InteractionCreate, guild *scrim.Guild, sub *discordgo.ApplicationCommandInteractionDataOption) error {
	target := subcommandOptions(sub)["user"].UserValue(s)

	moderator := interactionUser(i)
	reason := fmt.Sprintf("lifted by %s", moderator.Username)
	if err := guild.Ledger().RemoveUser(ctx, target.ID, reason); err != nil {
		return RespondWithEphemeralMessage(s, i, err.Error())
	}

	return RespondWithMessage(s, i, fmt.Sprintf("Lifted the timeout for %s.", chat.UserTag(target.ID)))
}

func (c *TimeoutCommand) handleList(s *discordgo.Session, i *discordgo.InteractionCreate, guild *scrim.Guild) error {
	entries := guild.Ledger().List()
	if len(entries) == 0 {
		return RespondWithEphemeralMessage(s, i, "Nobody is on a timeout.")
	}
	sort.Slice(entries, func(a, b int) bool {
		return entries[a].Expiry.Before(entries[b].Expiry)
	})

	lines := make([]string, 0, len(entries))
	for _, t := range entries {
		line := fmt.Sprintf("%s until %s", chat.UserTag(t.UserID), chat.TimeTag(t.Expiry))
		if t.Reason != "" {
			line += fmt.Sprintf(" (%s)", t.Reason)
		}
		lines = append(lines, line)
	}

	return RespondWithEmbed(s, i, "Scrim timeouts", strings.Join(lines, "\n"), nil)
}
