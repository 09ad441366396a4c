package discord

import (
	"context"
	"log/slog"

	"github.com/bwmarrin/discordgo"

	"github.com/jose-valero/music-panel-bot/internal/adapters/lavalink"
	"github.com/jose-valero/music-panel-bot/internal/app/service"
	"github.com/jose-valero/music-panel-bot/internal/domain"
)

// Tracks resuelve una búsqueda en temas. Lo implementa lavalink.Client
type Tracks interface {
	LoadTracks(ctx context.Context, query string) ([]domain.Track, error)
}

type Router struct {
	s       *discordgo.Session
	guildID string
	log     *slog.Logger

	adminRoleIDs []string

	panels    *service.Registry
	players   *lavalink.Manager
	tracks    Tracks
	incidents *service.IncidentService
}

func NewRouter(
	s *discordgo.Session,
	guildID string,
	adminRoleIDs []string,
	panels *service.Registry,
	players *lavalink.Manager,
	tracks Tracks,
	incidents *service.IncidentService,
	log *slog.Logger,
) *Router {
	if log == nil {
		log = slog.Default()
	}
	return &Router{
		s:            s,
		guildID:      guildID,
		log:          log,
		adminRoleIDs: adminRoleIDs,
		panels:       panels,
		players:      players,
		tracks:       tracks,
		incidents:    incidents,
	}
}

// Register crea los slash commands (en el guild si hay guildID, si no globales).
func (r *Router) Register() error {
	appID := r.s.State.User.ID
	for _, cmd := range Commands {
		if _, err := r.s.ApplicationCommandCreate(appID, r.guildID, cmd); err != nil {
			return err
		}
	}
	return nil
}

func (r *Router) Handlers() {
	r.s.AddHandler(func(s *discordgo.Session, ic *discordgo.InteractionCreate) {
		if ic.Type != discordgo.InteractionApplicationCommand {
			return
		}
		r.handleSlashCommand(s, ic)
	})

	// panel
	r.s.AddHandler(r.onReactionAdd)
	r.s.AddHandler(r.onMessageDelete)

	// voz -> lavalink
	r.s.AddHandler(r.onVoiceStateUpdate)
	r.s.AddHandler(r.onVoiceServerUpdate)
}
