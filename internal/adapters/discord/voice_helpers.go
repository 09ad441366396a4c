package discord

import (
	"context"
	"time"

	"github.com/bwmarrin/discordgo"
)

func (r *Router) userVoiceChannel(guildID, userID string) (string, bool) {
	vs, err := r.s.State.VoiceState(guildID, userID)
	if err != nil || vs == nil || vs.ChannelID == "" {
		return "", false
	}
	return vs.ChannelID, true
}

// onVoiceStateUpdate: sólo interesa el propio bot (sessionId para lavalink).
func (r *Router) onVoiceStateUpdate(s *discordgo.Session, vs *discordgo.VoiceStateUpdate) {
	if vs.VoiceState == nil || s.State.User == nil || vs.UserID != s.State.User.ID {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Sin canal -> nos sacaron (o /leave)
	if vs.ChannelID == "" {
		r.panels.Remove(vs.GuildID)
		if err := r.players.Destroy(ctx, vs.GuildID); err != nil {
			r.log.Warn("[discord.voice] destroy player", "guild", vs.GuildID, "err", err)
		}
		return
	}
	r.players.VoiceState(ctx, vs.GuildID, vs.ChannelID, vs.SessionID)
}

func (r *Router) onVoiceServerUpdate(s *discordgo.Session, ev *discordgo.VoiceServerUpdate) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	r.players.VoiceServer(ctx, ev.GuildID, ev.Token, ev.Endpoint)
}
