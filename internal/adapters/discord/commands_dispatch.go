// InteractionApplicationCommand de discordgo: acá sólo se lee la interacción y se despacha al servicio.
package discord

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/jose-valero/music-panel-bot/internal/adapters/lavalink"
	"github.com/jose-valero/music-panel-bot/internal/app/service"
)

func (r *Router) handleSlashCommand(s *discordgo.Session, ic *discordgo.InteractionCreate) {
	cmd := ic.ApplicationCommandData()
	uid := interactionUserID(ic)
	r.log.Info("[discord.cmd] received", "cmd", cmd.Name, "by", uid, "guild", ic.GuildID)

	defer func() {
		if rec := recover(); rec != nil {
			r.log.Error("[discord.cmd] panic", "cmd", cmd.Name, "err", fmt.Errorf("panic: %v", rec))
			ReplyEphemeral(s, ic, "❌ An unexpected error occurred while processing the command.")
		}
	}()

	_ = DeferEphemeral(s, ic)
	ctx, cancel := context.WithTimeout(context.Background(), 12*time.Second)
	defer cancel()

	if ic.GuildID == "" && cmd.Name != "ping" {
		ReplyEphemeral(s, ic, "🚫 This command only works inside a server.")
		return
	}

	switch cmd.Name {

	case "ping":
		ReplyEphemeral(s, ic, "🏓 Pong!")

	//--> panel de control (y sus alias)
	case "control", "cp", "panel":
		defer step("cmd.control")()
		msg, err := r.panels.Control(ctx, service.Invocation{
			GuildID:   ic.GuildID,
			ChannelID: ic.ChannelID,
			UserID:    uid,
		})
		if err != nil {
			r.log.Error("[discord.cmd] control failed", "guild", ic.GuildID, "err", err)
			msg = "⚠️ Could not create the control panel: " + err.Error()
		}
		ReplyEphemeral(s, ic, msg)

	case "play":
		query, _ := optStr(ic, "query")
		ReplyEphemeral(s, ic, r.play(ctx, ic.GuildID, uid, query))

	case "leave":
		r.panels.Remove(ic.GuildID)
		if err := r.players.Destroy(ctx, ic.GuildID); err != nil {
			r.log.Warn("[discord.cmd] destroy player", "guild", ic.GuildID, "err", err)
		}
		if err := s.ChannelVoiceJoinManual(ic.GuildID, "", false, false); err != nil {
			ReplyEphemeral(s, ic, "⚠️ Could not leave the voice channel: "+err.Error())
			return
		}
		ReplyEphemeral(s, ic, "👋 Disconnected.")

	//--> sólo admins
	case "incidents":
		if !r.requireAdminOrRoles(s, ic) {
			return
		}
		limit, _ := optInt(ic, "limit")
		msg, err := r.incidents.Recent(ctx, limit)
		if err != nil {
			msg = "⚠️ Could not read incidents: " + err.Error()
		}
		ReplyEphemeral(s, ic, msg)
	}
}

// play mete al bot en el canal de voz del usuario y encola lo que encuentre.
func (r *Router) play(ctx context.Context, guildID, userID, query string) string {
	chID, ok := r.userVoiceChannel(guildID, userID)
	if !ok {
		return "🎧 You need to be in a voice channel."
	}

	tracks, err := r.tracks.LoadTracks(ctx, query)
	if errors.Is(err, lavalink.ErrNoMatches) {
		return "🔍 Nothing found for `" + query + "`."
	}
	if err != nil {
		r.log.Error("[discord.play] load tracks", "guild", guildID, "err", err)
		return "⚠️ Could not load the track: " + err.Error()
	}

	p := r.players.GetOrCreate(guildID)
	if p.ChannelID() != chID {
		if err := r.s.ChannelVoiceJoinManual(guildID, chID, false, true); err != nil {
			return "⚠️ Could not join your voice channel: " + err.Error()
		}
	}

	started, err := p.Play(ctx, tracks...)
	if err != nil {
		r.log.Error("[discord.play] play", "guild", guildID, "err", err)
		return "⚠️ Could not start playback: " + err.Error()
	}
	switch {
	case started:
		return "🎶 Now playing **" + tracks[0].Title + "**"
	case len(tracks) == 1:
		return fmt.Sprintf("➕ Queued **%s** (#%d in queue)", tracks[0].Title, p.QueueLen())
	default:
		return fmt.Sprintf("➕ Queued %d tracks.", len(tracks))
	}
}
