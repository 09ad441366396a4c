package service

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"

	"github.com/jose-valero/music-panel-bot/internal/domain"
)

const (
	msgNotPlaying   = "🚫 I'm not playing."
	msgPanelReady   = "✅ Control panel ready."
	loadingTitle    = "Control Panel - Loading"
	loadingSubtitle = "⏳ Please wait while the control panel is loading"
)

// Invocation: quién pidió el panel y dónde.
type Invocation struct {
	GuildID   string
	ChannelID string
	UserID    string
}

type ReactionEvent struct {
	GuildID   string
	ChannelID string
	MessageID string
	UserID    string
	Bot       bool
	Emoji     string
}

// PanelInfo es una foto de un panel activo (para /panels).
type PanelInfo struct {
	GuildID   string `json:"guild_id"`
	ChannelID string `json:"channel_id"`
	MessageID string `json:"message_id"`
	OwnerID   string `json:"owner_id"`
}

// Registry: un panel por guild. Se construye una vez en main y se inyecta al router.
type Registry struct {
	chat    Chat
	players Players
	cfg     PanelConfig
	log     *slog.Logger
	limiter *userLimiter

	mu        sync.Mutex
	panels    map[string]*Panel // guild -> panel
	byMessage map[string]string // message -> guild
}

func NewRegistry(chat Chat, players Players, cfg PanelConfig, log *slog.Logger) *Registry {
	if log == nil {
		log = slog.Default()
	}
	return &Registry{
		chat:      chat,
		players:   players,
		cfg:       cfg,
		log:       log,
		limiter:   newUserLimiter(cfg.ReactionGap, cfg.Now),
		panels:    map[string]*Panel{},
		byMessage: map[string]string{},
	}
}

// Control publica un panel nuevo para el guild y reemplaza (cerrando) el anterior.
func (r *Registry) Control(ctx context.Context, inv Invocation) (string, error) {
	pl, ok := r.players.Get(inv.GuildID)
	if !ok || !pl.Playing() {
		return msgNotPlaying, nil
	}

	msgID, err := r.chat.SendEmbed(ctx, inv.ChannelID, Embed{
		Title:       loadingTitle,
		Description: loadingSubtitle,
	})
	if err != nil {
		return "", fmt.Errorf("send panel: %w", err)
	}
	for _, g := range domain.Glyphs {
		if err := r.chat.AddReaction(ctx, inv.ChannelID, msgID, string(g)); err != nil {
			return "", fmt.Errorf("add reaction %s: %w", g, err)
		}
	}

	p := NewPanel(r.cfg, r.chat, pl, r.log, inv, msgID)
	p.onClose = r.forget

	r.mu.Lock()
	old := r.panels[inv.GuildID]
	if old != nil {
		delete(r.byMessage, old.MessageID)
	}
	r.panels[inv.GuildID] = p
	r.byMessage[msgID] = inv.GuildID
	r.mu.Unlock()

	if old != nil {
		r.log.Info("[registry] replacing panel", "guild", inv.GuildID, "old", old.MessageID, "new", msgID)
		old.Close()
	}

	if err := p.Render(ctx); err != nil {
		r.log.Error("[registry] first render failed", "guild", inv.GuildID, "err", err)
	}
	p.Start()
	return msgPanelReady, nil
}

// OnReactionAdd: el botón siempre "vuelve" (se quita la reacción) y sólo el dueño opera.
func (r *Registry) OnReactionAdd(ctx context.Context, ev ReactionEvent) error {
	if ev.Bot {
		return nil
	}
	p := r.byMessageID(ev.MessageID)
	if p == nil {
		return nil
	}

	if _, err := r.chat.RemoveReaction(ctx, ev.ChannelID, ev.MessageID, ev.Emoji, ev.UserID); err != nil {
		r.log.Warn("[registry] remove reaction", "message", ev.MessageID, "err", err)
	}
	g, ok := domain.ParseGlyph(ev.Emoji)
	if !ok {
		return nil
	}
	if ev.UserID != p.OwnerID {
		return nil
	}
	if !r.limiter.Allow(ev.UserID) {
		return nil
	}
	return p.HandleReaction(ctx, g)
}

// OnMessageDelete desarma el panel dueño del mensaje, si lo hay.
func (r *Registry) OnMessageDelete(_ context.Context, messageID string) {
	r.mu.Lock()
	var p *Panel
	if guild, ok := r.byMessage[messageID]; ok {
		p = r.panels[guild]
		delete(r.byMessage, messageID)
		if p != nil && p.MessageID == messageID {
			delete(r.panels, guild)
		} else {
			p = nil
		}
	}
	r.mu.Unlock()

	if p != nil {
		p.Close()
	}
}

// Remove cierra el panel del guild (p.ej. al hacer /leave).
func (r *Registry) Remove(guildID string) {
	r.mu.Lock()
	p := r.panels[guildID]
	if p != nil {
		delete(r.panels, guildID)
		delete(r.byMessage, p.MessageID)
	}
	r.mu.Unlock()

	if p != nil {
		p.Close()
	}
}

func (r *Registry) Get(guildID string) (*Panel, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.panels[guildID]
	return p, ok
}

func (r *Registry) Panels() []PanelInfo {
	r.mu.Lock()
	out := make([]PanelInfo, 0, len(r.panels))
	for _, p := range r.panels {
		out = append(out, PanelInfo{GuildID: p.GuildID, ChannelID: p.ChannelID, MessageID: p.MessageID, OwnerID: p.OwnerID})
	}
	r.mu.Unlock()
	sort.Slice(out, func(i, j int) bool { return out[i].GuildID < out[j].GuildID })
	return out
}

func (r *Registry) CloseAll() {
	r.mu.Lock()
	all := make([]*Panel, 0, len(r.panels))
	for _, p := range r.panels {
		all = append(all, p)
	}
	r.panels = map[string]*Panel{}
	r.byMessage = map[string]string{}
	r.mu.Unlock()

	for _, p := range all {
		p.Close()
	}
}

func (r *Registry) byMessageID(messageID string) *Panel {
	r.mu.Lock()
	defer r.mu.Unlock()
	guild, ok := r.byMessage[messageID]
	if !ok {
		return nil
	}
	return r.panels[guild]
}

// forget se llama desde Panel.Close; nunca con r.mu tomado.
func (r *Registry) forget(p *Panel) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if cur, ok := r.panels[p.GuildID]; ok && cur == p {
		delete(r.panels, p.GuildID)
	}
	delete(r.byMessage, p.MessageID)
}
