package discord

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/bwmarrin/discordgo"

	"github.com/scrimworks/scrimbot/internal/services/scrim"
)

// Bot represents the Discord bot instance
type Bot struct {
	session    *discordgo.Session
	commands   map[string]CommandHandler
	commandIDs map[string]string // Maps command name to command ID
	registry   *scrim.Registry
	config     *Config
}

// Config holds the configuration for the bot
type Config struct {
	// Session is the Discord session the bot runs on. Created by the
	// caller so the chat adapter can share it.
	Session *discordgo.Session

	// Application ID for the bot
	ApplicationID string

	// Optional guild ID for development (server-specific commands)
	GuildID string

	// Scrim engine registry
	Registry *scrim.Registry
}

// New creates a new Discord bot
func New(cfg *Config) (*Bot, error) {
	if cfg == nil {
		return nil, errors.New("config cannot be nil")
	}

	if cfg.Session == nil {
		return nil, errors.New("session cannot be nil")
	}

	if cfg.Registry == nil {
		return nil, errors.New("registry cannot be nil")
	}

	session := cfg.Session
	session.Identify.Intents |= discordgo.IntentGuildMembers

	bot := &Bot{
		session:    session,
		commands:   make(map[string]CommandHandler),
		commandIDs: make(map[string]string),
		registry:   cfg.Registry,
		config:     cfg,
	}

	session.AddHandler(bot.handleInteraction)
	session.AddHandler(bot.handleGuildCreate)
	session.AddHandler(bot.handleMemberUpdate)

	return bot, nil
}

// Start opens the Discord connection and registers the commands
func (b *Bot) Start() error {
	if err := b.session.Open(); err != nil {
		return fmt.Errorf("failed to open Discord connection: %w", err)
	}

	handlers := []CommandHandler{
		NewScrimCommand(b.registry),
		NewActiveScrimsCommand(b.registry),
		NewPingScrimCommand(b.registry),
		NewKickCommand(b.registry),
		NewArchiveScrimCommand(b.registry),
		NewTimeoutCommand(b.registry),
		NewSettingsCommand(b.registry),
	}
	for _, h := range handlers {
		if err := b.RegisterCommand(h); err != nil {
			return fmt.Errorf("failed to register %s command: %w", h.GetName(), err)
		}
	}

	log.Println("Bot is now running. Press CTRL-C to exit.")
	return nil
}

// Stop gracefully shuts down the Discord connection
func (b *Bot) Stop() error {
	appID := b.config.ApplicationID
	if appID == "" {
		appID = b.session.State.User.ID
	}

	for cmdName, cmdID := range b.commandIDs {
		if err := b.session.ApplicationCommandDelete(appID, b.config.GuildID, cmdID); err != nil {
			log.Printf("Failed to delete command %s (ID: %s): %v", cmdName, cmdID, err)
		}
	}

	return b.session.Close()
}

// RegisterCommand registers a command with Discord
func (b *Bot) RegisterCommand(cmd CommandHandler) error {
	appID := b.config.ApplicationID
	if appID == "" {
		// Fall back to session user ID if application ID is not provided
		appID = b.session.State.User.ID
	}

	createdCmd, err := b.session.ApplicationCommandCreate(appID, b.config.GuildID, cmd.GetCommand())
	if err != nil {
		return fmt.Errorf("failed to create command %s: %w", cmd.GetName(), err)
	}

	b.commands[cmd.GetName()] = cmd
	b.commandIDs[cmd.GetName()] = createdCmd.ID
	log.Printf("Registered command: %s with ID: %s", cmd.GetName(), createdCmd.ID)

	return nil
}

// handleInteraction handles Discord interactions
func (b *Bot) handleInteraction(s *discordgo.Session, i *discordgo.InteractionCreate) {
	switch i.Type {
	case discordgo.InteractionApplicationCommand:
		if h, ok := b.commands[i.ApplicationCommandData().Name]; ok {
			if err := h.Handle(s, i); err != nil {
				log.Printf("Error handling command %s: %v", i.ApplicationCommandData().Name, err)
			}
		}
	case discordgo.InteractionMessageComponent:
		if err := b.handleComponentInteraction(s, i); err != nil {
			log.Printf("Error handling component interaction: %v", err)
		}
	}
}

// handleComponentInteraction routes scrim button clicks. Custom IDs carry
// the scrim's thread id and the action, joined by a colon.
func (b *Bot) handleComponentInteraction(s *discordgo.Session, i *discordgo.InteractionCreate) error {
	customID := i.MessageComponentData().CustomID
	threadID, action, found := strings.Cut(customID, ":")
	if !found {
		return RespondWithError(s, i, fmt.Sprintf("Unknown button: %s", customID))
	}

	ctx := context.Background()
	guild, err := b.registry.Guild(ctx, i.GuildID)
	if err != nil {
		return RespondWithError(s, i, fmt.Sprintf("Error: %v", err))
	}

	manager, err := guild.ManagerByThread(threadID)
	if err != nil {
		return RespondWithEphemeralMessage(s, i, "That scrim is over.")
	}

	user := scrim.User{
		ID:      interactionUser(i).ID,
		Name:    displayName(i),
		Mention: interactionUser(i).Mention(),
	}

	switch action {
	case scrim.ActionJoin:
		return RespondWithEphemeralMessage(s, i, manager.Join(ctx, user))
	case scrim.ActionReserve:
		return RespondWithEphemeralMessage(s, i, manager.Reserve(ctx, user))
	case scrim.ActionLeave:
		return RespondWithEphemeralMessage(s, i, manager.Leave(ctx, user))
	case scrim.ActionCallReserve:
		reply, private := manager.CallReserve(ctx, user)
		if private {
			return RespondWithEphemeralMessage(s, i, reply)
		}
		return RespondWithMessage(s, i, reply)
	default:
		return RespondWithError(s, i, fmt.Sprintf("Unknown button: %s", customID))
	}
}

// handleGuildCreate brings the guild's engine online when Discord
// announces the guild, which also covers reconnects.
func (b *Bot) handleGuildCreate(s *discordgo.Session, g *discordgo.GuildCreate) {
	if _, err := b.registry.Guild(context.Background(), g.ID); err != nil {
		log.Printf("Failed to initialize guild %s: %v", g.ID, err)
	}
}

// handleMemberUpdate reconciles the timeout ledger when member roles
// change out of band.
func (b *Bot) handleMemberUpdate(s *discordgo.Session, m *discordgo.GuildMemberUpdate) {
	ctx := context.Background()
	guild, err := b.registry.Guild(ctx, m.GuildID)
	if err != nil {
		log.Printf("Failed to get guild %s: %v", m.GuildID, err)
		return
	}
	guild.ReconcileMember(ctx, m.User.ID, m.Roles)
}
