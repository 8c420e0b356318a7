package discord

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/bwmarrin/discordgo"

	"github.com/scrimworks/scrimbot/internal/services/scrim"
)

// SettingsCommand shows or replaces the guild's settings document.
// Administrators only.
type SettingsCommand struct {
	BaseCommand
	registry *scrim.Registry
}

// NewSettingsCommand creates a new scrim-settings command handler
func NewSettingsCommand(registry *scrim.Registry) *SettingsCommand {
	return &SettingsCommand{
		BaseCommand: BaseCommand{
			Name:        "scrim-settings",
			Description: "Show or replace the scrim settings",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "show",
					Description: "Show the current settings as YAML",
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "replace",
					Description: "Replace the settings with an uploaded YAML document",
					Options: []*discordgo.ApplicationCommandOption{
						{
							Type:        discordgo.ApplicationCommandOptionAttachment,
							Name:        "document",
							Description: "YAML settings document",
							Required:    true,
						},
					},
				},
			},
		},
		registry: registry,
	}
}

// Handle processes the scrim-settings command
func (c *SettingsCommand) Handle(s *discordgo.Session, i *discordgo.InteractionCreate) error {
	ctx := context.Background()

	if i.Member == nil || i.Member.Permissions&discordgo.PermissionAdministrator == 0 {
		return RespondWithEphemeralMessage(s, i, "You are not allowed to do that!")
	}

	guild, err := c.registry.Guild(ctx, i.GuildID)
	if err != nil {
		return RespondWithError(s, i, fmt.Sprintf("Error: %v", err))
	}

	sub := i.ApplicationCommandData().Options[0]
	switch sub.Name {
	case "show":
		data, err := guild.Settings().ExportYAML()
		if err != nil {
			return RespondWithError(s, i, fmt.Sprintf("Error: %v", err))
		}
		return RespondWithEphemeralMessage(s, i, fmt.Sprintf("```yaml\n%s```", data))
	case "replace":
		return c.handleReplace(ctx, s, i, guild, sub)
	default:
		return RespondWithError(s, i, fmt.Sprintf("Unknown subcommand: %s", sub.Name))
	}
}

func (c *SettingsCommand) handleReplace(ctx context.Context, s *discordgo.Session, i *discordgo.InteractionCreate, guild *scrim.Guild, sub *discordgo.ApplicationCommandInteractionDataOption) error {
	attachmentID, ok := subcommandOptions(sub)["document"].Value.(string)
	if !ok {
		return RespondWithEphemeralMessage(s, i, "No document attached.")
	}
	attachment, ok := i.ApplicationCommandData().Resolved.Attachments[attachmentID]
	if !ok {
		return RespondWithEphemeralMessage(s, i, "No document attached.")
	}

	data, err := fetchAttachment(ctx, attachment.URL)
	if err != nil {
		return RespondWithError(s, i, fmt.Sprintf("Failed to download the document: %v", err))
	}

	if err := guild.Settings().ReplaceYAML(ctx, data); err != nil {
		// The previous settings stay in effect on any validation failure
		return RespondWithEphemeralMessage(s, i, err.Error())
	}
	return RespondWithEphemeralMessage(s, i, "Settings updated!")
}

func fetchAttachment(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %s", resp.Status)
	}
	return io.ReadAll(io.LimitReader(resp.Body, 1<<20))
}
