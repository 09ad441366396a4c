package config

import (
	"log"
	"time"

	"github.com/caarlos0/env/v11"
)

type Config struct {
	DiscordToken string `env:"DISCORD_BOT_TOKEN,required,notEmpty"`
	DiscordGuild string `env:"DISCORD_GUILD_ID"` // vacío = comandos globales

	LavalinkURL      string `env:"LAVALINK_URL,required,notEmpty"` // ej: http://localhost:2333
	LavalinkPassword string `env:"LAVALINK_PASSWORD,required,notEmpty"`

	// opcionales
	ErrorWebhookURL string   `env:"ERROR_WEBHOOK_URL"`
	DatabaseURL     string   `env:"DATABASE_URL"` // vacío = sin incident store
	HTTPAddr        string   `env:"HTTP_ADDR" envDefault:":8080"`
	AdminRoleIDs    []string `env:"ADMIN_ROLE_IDS" envSeparator:","`

	LogDir    string `env:"LOG_DIR" envDefault:"logs"`
	LogPrefix string `env:"LOG_PREFIX" envDefault:"obstBot"`
	LogLevel  string `env:"LOG_LEVEL" envDefault:"INFO"`

	PanelVolumeMax   int           `env:"PANEL_VOLUME_MAX" envDefault:"150"`
	PanelRefresh     time.Duration `env:"PANEL_REFRESH" envDefault:"10s"`
	PanelResponseTTL time.Duration `env:"PANEL_RESPONSE_TTL" envDefault:"3500ms"`
}

// Parse lee el entorno (ya cargado con godotenv en main).
func Parse() (Config, error) {
	return env.ParseAs[Config]()
}

func Load() Config {
	cfg, err := Parse()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	if cfg.PanelVolumeMax <= 0 {
		cfg.PanelVolumeMax = 150
	}
	return cfg
}
