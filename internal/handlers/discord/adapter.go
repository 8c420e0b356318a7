package discord

import (
	"context"
	"errors"
	"fmt"

	"github.com/bwmarrin/discordgo"

	"github.com/scrimworks/scrimbot/internal/chat"
)

// Adapter implements the chat client against a live discordgo session.
type Adapter struct {
	session *discordgo.Session
}

// NewAdapter wraps a discordgo session.
func NewAdapter(session *discordgo.Session) *Adapter {
	return &Adapter{session: session}
}

// wrapErr maps discordgo REST failures onto chat errors so the engine
// can tell a deleted resource from a transient failure.
func wrapErr(op string, err error) error {
	if err == nil {
		return nil
	}
	var restErr *discordgo.RESTError
	if errors.As(err, &restErr) && restErr.Message != nil {
		return &chat.Error{Code: restErr.Message.Code, Op: op, Err: err}
	}
	return fmt.Errorf("%s: %w", op, err)
}

// FetchThread resolves a thread channel by id
func (a *Adapter) FetchThread(ctx context.Context, threadID string) (*chat.Thread, error) {
	ch, err := a.session.Channel(threadID, discordgo.WithContext(ctx))
	if err != nil {
		return nil, wrapErr("fetch thread", err)
	}
	return threadFromChannel(ch), nil
}

// ArchiveThread closes a thread
func (a *Adapter) ArchiveThread(ctx context.Context, threadID string) error {
	archived := true
	_, err := a.session.ChannelEditComplex(threadID, &discordgo.ChannelEdit{
		Archived: &archived,
	}, discordgo.WithContext(ctx))
	return wrapErr("archive thread", err)
}

// CreateThread starts a thread on an existing message
func (a *Adapter) CreateThread(ctx context.Context, channelID, messageID, name string) (*chat.Thread, error) {
	ch, err := a.session.MessageThreadStartComplex(channelID, messageID, &discordgo.ThreadStart{
		Name:                name,
		AutoArchiveDuration: 1440,
	}, discordgo.WithContext(ctx))
	if err != nil {
		return nil, wrapErr("create thread", err)
	}
	return threadFromChannel(ch), nil
}

// AddThreadMember adds a user to a thread
func (a *Adapter) AddThreadMember(ctx context.Context, threadID, userID string) error {
	err := a.session.ThreadMemberAdd(threadID, userID, discordgo.WithContext(ctx))
	return wrapErr("add thread member", err)
}

// FetchMessage fetches a single message
func (a *Adapter) FetchMessage(ctx context.Context, channelID, messageID string) (*chat.Message, error) {
	msg, err := a.session.ChannelMessage(channelID, messageID, discordgo.WithContext(ctx))
	if err != nil {
		return nil, wrapErr("fetch message", err)
	}
	return messageFromDiscord(msg), nil
}

// SendMessage posts a new message
func (a *Adapter) SendMessage(ctx context.Context, channelID, content string, embeds []chat.Embed, controls []chat.Control) (*chat.Message, error) {
	msg, err := a.session.ChannelMessageSendComplex(channelID, &discordgo.MessageSend{
		Content:    content,
		Embeds:     embedsToDiscord(embeds),
		Components: controlsToDiscord(controls),
	}, discordgo.WithContext(ctx))
	if err != nil {
		return nil, wrapErr("send message", err)
	}
	return messageFromDiscord(msg), nil
}

// EditMessage rewrites a message in place
func (a *Adapter) EditMessage(ctx context.Context, channelID, messageID, content string, embeds []chat.Embed, controls []chat.Control) error {
	discordEmbeds := embedsToDiscord(embeds)
	components := controlsToDiscord(controls)
	_, err := a.session.ChannelMessageEditComplex(&discordgo.MessageEdit{
		Channel:    channelID,
		ID:         messageID,
		Content:    &content,
		Embeds:     &discordEmbeds,
		Components: &components,
	}, discordgo.WithContext(ctx))
	return wrapErr("edit message", err)
}

// DeleteMessage removes a message
func (a *Adapter) DeleteMessage(ctx context.Context, channelID, messageID string) error {
	err := a.session.ChannelMessageDelete(channelID, messageID, discordgo.WithContext(ctx))
	return wrapErr("delete message", err)
}

// ReplyMessage posts a message referencing an existing one
func (a *Adapter) ReplyMessage(ctx context.Context, channelID, messageID, content string) (*chat.Message, error) {
	msg, err := a.session.ChannelMessageSendComplex(channelID, &discordgo.MessageSend{
		Content: content,
		Reference: &discordgo.MessageReference{
			ChannelID: channelID,
			MessageID: messageID,
		},
	}, discordgo.WithContext(ctx))
	if err != nil {
		return nil, wrapErr("reply message", err)
	}
	return messageFromDiscord(msg), nil
}

// ChannelHistory returns the most recent messages, newest first
func (a *Adapter) ChannelHistory(ctx context.Context, channelID string, limit int) ([]*chat.Message, error) {
	msgs, err := a.session.ChannelMessages(channelID, limit, "", "", "", discordgo.WithContext(ctx))
	if err != nil {
		return nil, wrapErr("channel history", err)
	}
	out := make([]*chat.Message, 0, len(msgs))
	for _, m := range msgs {
		out = append(out, messageFromDiscord(m))
	}
	return out, nil
}

// PublishMessage crossposts a message in an announcement channel
func (a *Adapter) PublishMessage(ctx context.Context, channelID, messageID string) error {
	_, err := a.session.ChannelMessageCrosspost(channelID, messageID, discordgo.WithContext(ctx))
	return wrapErr("publish message", err)
}

// AddRole applies a role to a member
func (a *Adapter) AddRole(ctx context.Context, guildID, userID, roleID, reason string) error {
	opts := []discordgo.RequestOption{discordgo.WithContext(ctx)}
	if reason != "" {
		opts = append(opts, discordgo.WithAuditLogReason(reason))
	}
	err := a.session.GuildMemberRoleAdd(guildID, userID, roleID, opts...)
	return wrapErr("add role", err)
}

// RemoveRole removes a role from a member
func (a *Adapter) RemoveRole(ctx context.Context, guildID, userID, roleID, reason string) error {
	opts := []discordgo.RequestOption{discordgo.WithContext(ctx)}
	if reason != "" {
		opts = append(opts, discordgo.WithAuditLogReason(reason))
	}
	err := a.session.GuildMemberRoleRemove(guildID, userID, roleID, opts...)
	return wrapErr("remove role", err)
}

// MemberRoles returns a member's current role ids
func (a *Adapter) MemberRoles(ctx context.Context, guildID, userID string) ([]string, error) {
	member, err := a.session.GuildMember(guildID, userID, discordgo.WithContext(ctx))
	if err != nil {
		return nil, wrapErr("member roles", err)
	}
	return member.Roles, nil
}

// GuildChannelIDs returns the set of channel ids in a guild
func (a *Adapter) GuildChannelIDs(ctx context.Context, guildID string) (map[string]struct{}, error) {
	channels, err := a.session.GuildChannels(guildID, discordgo.WithContext(ctx))
	if err != nil {
		return nil, wrapErr("guild channels", err)
	}
	out := make(map[string]struct{}, len(channels))
	for _, ch := range channels {
		out[ch.ID] = struct{}{}
	}
	return out, nil
}

// GuildRoleIDs returns the set of role ids in a guild
func (a *Adapter) GuildRoleIDs(ctx context.Context, guildID string) (map[string]struct{}, error) {
	roles, err := a.session.GuildRoles(guildID, discordgo.WithContext(ctx))
	if err != nil {
		return nil, wrapErr("guild roles", err)
	}
	out := make(map[string]struct{}, len(roles))
	for _, r := range roles {
		out[r.ID] = struct{}{}
	}
	return out, nil
}

// BotUserID returns the connected bot user id
func (a *Adapter) BotUserID() string {
	if a.session.State != nil && a.session.State.User != nil {
		return a.session.State.User.ID
	}
	return ""
}

func threadFromChannel(ch *discordgo.Channel) *chat.Thread {
	archived := false
	if ch.ThreadMetadata != nil {
		archived = ch.ThreadMetadata.Archived
	}
	return &chat.Thread{
		ID:       ch.ID,
		ParentID: ch.ParentID,
		Name:     ch.Name,
		Archived: archived,
	}
}

func messageFromDiscord(msg *discordgo.Message) *chat.Message {
	authorID := ""
	if msg.Author != nil {
		authorID = msg.Author.ID
	}
	return &chat.Message{
		ID:        msg.ID,
		ChannelID: msg.ChannelID,
		AuthorID:  authorID,
		Content:   msg.Content,
	}
}

func embedsToDiscord(embeds []chat.Embed) []*discordgo.MessageEmbed {
	out := make([]*discordgo.MessageEmbed, 0, len(embeds))
	for _, e := range embeds {
		embed := &discordgo.MessageEmbed{
			Title:       e.Title,
			Description: e.Description,
			URL:         e.URL,
			Color:       0x00ff00, // Green color
		}
		if e.AuthorName != "" {
			embed.Author = &discordgo.MessageEmbedAuthor{
				Name:    e.AuthorName,
				IconURL: e.AuthorIcon,
			}
		}
		for _, f := range e.Fields {
			embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
				Name:   f.Name,
				Value:  f.Value,
				Inline: f.Inline,
			})
		}
		out = append(out, embed)
	}
	return out
}

func controlsToDiscord(controls []chat.Control) []discordgo.MessageComponent {
	if len(controls) == 0 {
		return []discordgo.MessageComponent{}
	}
	buttons := make([]discordgo.MessageComponent, 0, len(controls))
	for _, c := range controls {
		buttons = append(buttons, discordgo.Button{
			Label:    c.Label,
			Style:    buttonStyle(c.Style),
			CustomID: c.ID,
		})
	}
	return []discordgo.MessageComponent{
		discordgo.ActionsRow{Components: buttons},
	}
}

func buttonStyle(style chat.ControlStyle) discordgo.ButtonStyle {
	switch style {
	case chat.ControlStyleSuccess:
		return discordgo.SuccessButton
	case chat.ControlStyleDanger:
		return discordgo.DangerButton
	case chat.ControlStyleSecondary:
		return discordgo.SecondaryButton
	default:
		return discordgo.PrimaryButton
	}
}
