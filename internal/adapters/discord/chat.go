package discord

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/jose-valero/music-panel-bot/internal/app/service"
)

// Chat implementa service.Chat sobre la sesión de discordgo.
type Chat struct {
	s *discordgo.Session
}

func NewChat(s *discordgo.Session) *Chat { return &Chat{s: s} }

var _ service.Chat = (*Chat)(nil)

func (c *Chat) Send(ctx context.Context, channelID, content string) (string, error) {
	m, err := c.s.ChannelMessageSend(channelID, content, discordgo.WithContext(ctx))
	if err != nil {
		return "", err
	}
	return m.ID, nil
}

func (c *Chat) SendEmbed(ctx context.Context, channelID string, e service.Embed) (string, error) {
	m, err := c.s.ChannelMessageSendEmbed(channelID, toEmbed(e), discordgo.WithContext(ctx))
	if err != nil {
		return "", err
	}
	return m.ID, nil
}

func (c *Chat) EditEmbed(ctx context.Context, channelID, messageID string, e service.Embed) (service.Outcome, error) {
	edit := discordgo.NewMessageEdit(channelID, messageID).SetEmbed(toEmbed(e))
	_, err := c.s.ChannelMessageEditComplex(edit, discordgo.WithContext(ctx))
	return outcome(err)
}

func (c *Chat) Delete(ctx context.Context, channelID, messageID string) (service.Outcome, error) {
	return outcome(c.s.ChannelMessageDelete(channelID, messageID, discordgo.WithContext(ctx)))
}

func (c *Chat) Typing(ctx context.Context, channelID string) error {
	return c.s.ChannelTyping(channelID, discordgo.WithContext(ctx))
}

func (c *Chat) AddReaction(ctx context.Context, channelID, messageID, emoji string) error {
	return c.s.MessageReactionAdd(channelID, messageID, emoji, discordgo.WithContext(ctx))
}

func (c *Chat) RemoveReaction(ctx context.Context, channelID, messageID, emoji, userID string) (service.Outcome, error) {
	return outcome(c.s.MessageReactionRemove(channelID, messageID, emoji, userID, discordgo.WithContext(ctx)))
}

// BotColor: color del rol más alto del bot en ese canal (0 si no hay).
func (c *Chat) BotColor(channelID string) int {
	if c.s.State.User == nil {
		return 0
	}
	return c.s.State.UserColor(c.s.State.User.ID, channelID)
}

func toEmbed(e service.Embed) *discordgo.MessageEmbed {
	out := &discordgo.MessageEmbed{
		Title:       e.Title,
		Description: e.Description,
		Color:       e.Color,
	}
	if !e.Timestamp.IsZero() {
		out.Timestamp = e.Timestamp.Format(time.RFC3339)
	}
	return out
}

// outcome traduce "el mensaje ya no está" en OutcomeAbsent en vez de error.
func outcome(err error) (service.Outcome, error) {
	if err == nil {
		return service.OutcomeDone, nil
	}
	if isAbsent(err) {
		return service.OutcomeAbsent, nil
	}
	return service.OutcomeDone, err
}

func isAbsent(err error) bool {
	var re *discordgo.RESTError
	if !errors.As(err, &re) {
		return false
	}
	if re.Message != nil {
		switch re.Message.Code {
		case discordgo.ErrCodeUnknownMessage, discordgo.ErrCodeUnknownChannel:
			return true
		}
	}
	return re.Response != nil && re.Response.StatusCode == http.StatusNotFound
}
