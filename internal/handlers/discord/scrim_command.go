package discord

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/scrimworks/scrimbot/internal/services/scrim"
)

// ScrimCommand creates a new scrim in the current channel
type ScrimCommand struct {
	BaseCommand
	registry *scrim.Registry
}

// NewScrimCommand creates a new scrim command handler
func NewScrimCommand(registry *scrim.Registry) *ScrimCommand {
	return &ScrimCommand{
		BaseCommand: BaseCommand{
			Name:        "scrim",
			Description: "Plan a scrim in this channel",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "time",
					Description: "Start time in server time, like 14:00, 14.00 or 1400",
					Required:    true,
				},
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "timezone",
					Description: "Timezone of the given time, if it is not in server time",
				},
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "name",
					Description: "Optional name for the scrim",
				},
				{
					Type:        discordgo.ApplicationCommandOptionInteger,
					Name:        "capacity",
					Description: "Number of players, defaults to the channel setting",
				},
			},
		},
		registry: registry,
	}
}

// Handle processes the scrim command
func (c *ScrimCommand) Handle(s *discordgo.Session, i *discordgo.InteractionCreate) error {
	ctx := context.Background()

	guild, err := c.registry.Guild(ctx, i.GuildID)
	if err != nil {
		log.Printf("Error getting guild %s: %v", i.GuildID, err)
		return RespondWithError(s, i, fmt.Sprintf("Error: %v", err))
	}

	user := interactionUser(i)
	if guild.IsOnTimeout(user.ID) {
		return RespondWithEphemeralMessage(s, i, "Sorry buddy, you are on a timeout!")
	}

	options := commandOptions(i)

	loc := guild.Settings().Location()
	if opt, ok := options["timezone"]; ok {
		loc, err = time.LoadLocation(opt.StringValue())
		if err != nil {
			return RespondWithEphemeralMessage(s, i,
				fmt.Sprintf("`%s` is not a valid timezone", opt.StringValue()))
		}
	}

	startAt, err := scrim.ParseClock(options["time"].StringValue(), guild.Now(), loc)
	if err != nil {
		return RespondWithEphemeralMessage(s, i, err.Error())
	}
	// Thread names and replies render the start in server time
	startAt = startAt.In(guild.Settings().Location())

	name := ""
	if opt, ok := options["name"]; ok {
		name = opt.StringValue()
	}
	capacity := 0
	if opt, ok := options["capacity"]; ok {
		capacity = int(opt.IntValue())
	}

	warning := ""
	if guild.HasOverlapping(i.ChannelID, startAt) {
		warning = "Heads up, there is already a scrim within an hour of that time!\n"
	}

	manager, err := guild.CreateScrim(ctx, &scrim.CreateScrimInput{
		ChannelID: i.ChannelID,
		Time:      startAt,
		Name:      name,
		Capacity:  capacity,
		Organizer: scrim.OrganizerInput{
			UserID: user.ID,
			Name:   displayName(i),
			Avatar: user.AvatarURL(""),
		},
	})
	if err != nil {
		log.Printf("Error creating scrim: %v", err)
		return RespondWithError(s, i, fmt.Sprintf("Error: %v", err))
	}

	reply := fmt.Sprintf("%sScrim planned for %s, see the thread!", warning, manager.Scrim().TimeText(" / "))
	return RespondWithEphemeralMessage(s, i, reply)
}
