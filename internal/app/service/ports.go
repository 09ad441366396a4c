package service

import (
	"context"
	"time"

	"github.com/jose-valero/music-panel-bot/internal/domain"
	"github.com/jose-valero/music-panel-bot/internal/infra/storage"
)

// Outcome de una operación sobre un mensaje que quizás ya no existe.
type Outcome int

const (
	OutcomeDone Outcome = iota
	OutcomeAbsent
)

// Embed es el subconjunto de un rich message que usamos.
type Embed struct {
	Title       string
	Description string
	Color       int
	Timestamp   time.Time
}

// Lo implementa internal/adapters/discord.Chat
type Chat interface {
	Send(ctx context.Context, channelID, content string) (string, error)
	SendEmbed(ctx context.Context, channelID string, e Embed) (string, error)
	EditEmbed(ctx context.Context, channelID, messageID string, e Embed) (Outcome, error)
	Delete(ctx context.Context, channelID, messageID string) (Outcome, error)
	Typing(ctx context.Context, channelID string) error
	AddReaction(ctx context.Context, channelID, messageID, emoji string) error
	RemoveReaction(ctx context.Context, channelID, messageID, emoji, userID string) (Outcome, error)
	BotColor(channelID string) int
}

// Lo implementa internal/adapters/lavalink.Player
type Player interface {
	Playing() bool
	Paused() bool
	Repeat() bool
	Shuffle() bool
	Volume() int
	Position() time.Duration
	Current() *domain.Track

	SetPause(ctx context.Context, pause bool) error
	Skip(ctx context.Context) error
	Stop(ctx context.Context) error
	Seek(ctx context.Context, pos time.Duration) error
	SetVolume(ctx context.Context, vol int) error
	SetRepeat(on bool)
	SetShuffle(on bool)
	ClearQueue()
}

// Lo implementa internal/adapters/lavalink.Manager
type Players interface {
	Get(guildID string) (Player, bool)
}

// Lo implementa internal/infra/storage.IncidentRepo
type IncidentRepo interface {
	Recent(ctx context.Context, limit int, levels []string) ([]storage.Incident, error)
}
