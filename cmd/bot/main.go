package main

import (
	"context"
	"database/sql"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/joho/godotenv"

	discordrouter "github.com/jose-valero/music-panel-bot/internal/adapters/discord"
	"github.com/jose-valero/music-panel-bot/internal/adapters/httpstatus"
	"github.com/jose-valero/music-panel-bot/internal/adapters/lavalink"
	"github.com/jose-valero/music-panel-bot/internal/app/service"
	"github.com/jose-valero/music-panel-bot/internal/infra/config"
	"github.com/jose-valero/music-panel-bot/internal/infra/logging"
	"github.com/jose-valero/music-panel-bot/internal/infra/storage"
)

func main() {
	_ = godotenv.Load()
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	cfg := config.Load()

	// DB (opcional): sólo el incident store
	var db *sql.DB
	var incidents *storage.IncidentRepo
	if cfg.DatabaseURL != "" {
		var err error
		db, err = storage.Open(context.Background(), cfg.DatabaseURL)
		if err != nil {
			log.Fatal(err)
		}
		defer db.Close()
		if err := storage.Migrate(context.Background(), db); err != nil {
			log.Fatal("migrate:", err)
		}
		incidents = storage.NewIncidentRepo(db)
		log.Println("✅ DB lista y migrada")
	}

	// Logger
	lopts := logging.Options{
		Dir:      cfg.LogDir,
		Prefix:   cfg.LogPrefix,
		MinLevel: logging.ParseLevel(cfg.LogLevel),
	}
	if incidents != nil {
		lopts.Sink = incidents
	}
	if cfg.ErrorWebhookURL != "" {
		al, err := logging.NewWebhookAlerter(cfg.ErrorWebhookURL)
		if err != nil {
			log.Fatal(err)
		}
		lopts.Alerter = al
	}
	logger, err := logging.New(lopts)
	if err != nil {
		log.Fatal(err)
	}
	defer logger.Close()
	slog.SetDefault(slog.New(logger.Handler()))

	// Discord session
	auth := cfg.DiscordToken
	if !strings.HasPrefix(strings.ToLower(strings.TrimSpace(auth)), "bot ") {
		auth = "Bot " + strings.TrimSpace(auth)
	}
	s, err := discordgo.New(auth)
	if err != nil {
		logger.Critical("discord session", err)
		return
	}
	s.Identify.Intents = discordgo.IntentsGuilds |
		discordgo.IntentsGuildMembers |
		discordgo.IntentsGuildVoiceStates |
		discordgo.IntentsGuildMessages |
		discordgo.IntentsGuildMessageReactions
	if err := s.Open(); err != nil {
		logger.Critical("discord open", err)
		return
	}
	defer s.Close()
	slog.Info("✅ Conectado", "user", s.State.User.Username, "id", s.State.User.ID)

	ctx, stopRun := context.WithCancel(context.Background())
	defer stopRun()

	// Lavalink
	ll := lavalink.New(cfg.LavalinkURL, cfg.LavalinkPassword)
	players := lavalink.NewManager(ll, slog.Default())
	go func() {
		if err := ll.Run(ctx, s.State.User.ID, players); err != nil && ctx.Err() == nil {
			slog.Error("[lavalink] websocket stopped", "err", err)
		}
	}()

	// Services
	pcfg := service.DefaultPanelConfig()
	pcfg.VolumeMax = cfg.PanelVolumeMax
	pcfg.Refresh = cfg.PanelRefresh
	pcfg.ResponseTTL = cfg.PanelResponseTTL
	panels := service.NewRegistry(discordrouter.NewChat(s), players, pcfg, slog.Default())
	defer panels.CloseAll()

	incidentSvc := service.NewIncidentService(nil)
	if incidents != nil {
		incidentSvc = service.NewIncidentService(incidents)
	}

	// Status HTTP
	web := httpstatus.New(panels, func() bool { return ll.SessionID() != "" })
	go web.Start(cfg.HTTPAddr)
	defer func() {
		sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = web.Shutdown(sctx)
	}()

	// Router
	r := discordrouter.NewRouter(
		s,
		cfg.DiscordGuild,
		cfg.AdminRoleIDs,
		panels,
		players,
		ll,
		incidentSvc,
		slog.Default(),
	)
	if err := r.Register(); err != nil {
		logger.Critical("registrando comandos", err)
		return
	}
	r.Handlers()
	slog.Info("✅ comandos registrados", "guild", cfg.DiscordGuild)

	// Esperar señal
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM, os.Interrupt)
	<-stop
	slog.Info("👋 apagando")
}
