package discord

import (
	"context"
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/jose-valero/music-panel-bot/internal/app/service"
)

// cubre la respuesta temporal (3.5s) más el re-render
const reactionTimeout = 20 * time.Second

func (r *Router) onReactionAdd(s *discordgo.Session, ev *discordgo.MessageReactionAdd) {
	if ev.MessageReaction == nil || ev.GuildID == "" {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), reactionTimeout)
	defer cancel()

	err := r.panels.OnReactionAdd(ctx, service.ReactionEvent{
		GuildID:   ev.GuildID,
		ChannelID: ev.ChannelID,
		MessageID: ev.MessageID,
		UserID:    ev.UserID,
		Bot:       r.isBot(ev),
		Emoji:     ev.Emoji.APIName(),
	})
	if err != nil {
		r.log.Error("[discord.reaction] handle failed", "guild", ev.GuildID, "emoji", ev.Emoji.Name, "err", err)
	}
}

func (r *Router) onMessageDelete(s *discordgo.Session, ev *discordgo.MessageDelete) {
	if ev.Message == nil {
		return
	}
	r.panels.OnMessageDelete(context.Background(), ev.ID)
}

func (r *Router) isBot(ev *discordgo.MessageReactionAdd) bool {
	if ev.Member != nil && ev.Member.User != nil {
		return ev.Member.User.Bot
	}
	if r.s.State.User != nil && r.s.State.User.ID == ev.UserID {
		return true
	}
	if m, err := r.s.State.Member(ev.GuildID, ev.UserID); err == nil && m.User != nil {
		return m.User.Bot
	}
	return false
}
