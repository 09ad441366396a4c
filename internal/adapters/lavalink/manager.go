package lavalink

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/jose-valero/music-panel-bot/internal/app/service"
)

// Manager: un Player por guild sobre un único nodo.
type Manager struct {
	client *Client
	log    *slog.Logger

	mu      sync.Mutex
	players map[string]*Player

	opTimeout time.Duration
}

func NewManager(c *Client, log *slog.Logger) *Manager {
	if log == nil {
		log = slog.Default()
	}
	return &Manager{
		client:    c,
		log:       log,
		players:   map[string]*Player{},
		opTimeout: 10 * time.Second,
	}
}

// Get sólo devuelve players existentes (no crea).
func (m *Manager) Get(guildID string) (service.Player, bool) {
	p, ok := m.Player(guildID)
	if !ok {
		return nil, false
	}
	return p, true
}

func (m *Manager) Player(guildID string) (*Player, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.players[guildID]
	return p, ok
}

func (m *Manager) GetOrCreate(guildID string) *Player {
	m.mu.Lock()
	defer m.mu.Unlock()
	if p, ok := m.players[guildID]; ok {
		return p
	}
	p := newPlayer(guildID, m.client, m.log)
	m.players[guildID] = p
	return p
}

// Destroy borra el player local y el del nodo.
func (m *Manager) Destroy(ctx context.Context, guildID string) error {
	m.mu.Lock()
	_, ok := m.players[guildID]
	delete(m.players, guildID)
	m.mu.Unlock()
	if !ok {
		return nil
	}
	return m.client.DestroyPlayer(ctx, guildID)
}

// VoiceState llega con el VOICE_STATE_UPDATE del propio bot.
func (m *Manager) VoiceState(ctx context.Context, guildID, channelID, sessionID string) {
	p := m.GetOrCreate(guildID)
	p.setVoiceSession(channelID, sessionID)
	if err := p.pushVoice(ctx); err != nil {
		m.log.Error("[lavalink.voice] state update failed", "guild", guildID, "err", err)
	}
}

// VoiceServer llega con el VOICE_SERVER_UPDATE.
func (m *Manager) VoiceServer(ctx context.Context, guildID, token, endpoint string) {
	p := m.GetOrCreate(guildID)
	p.setVoiceServer(token, endpoint)
	if err := p.pushVoice(ctx); err != nil {
		m.log.Error("[lavalink.voice] server update failed", "guild", guildID, "err", err)
	}
}

// --- Handler del websocket ---

func (m *Manager) OnReady(sessionID string, resumed bool) {
	m.log.Info("[lavalink.ws] ready", "session", sessionID, "resumed", resumed)
	m.mu.Lock()
	all := make([]*Player, 0, len(m.players))
	for _, p := range m.players {
		all = append(all, p)
	}
	m.mu.Unlock()
	for _, p := range all {
		go func(p *Player) {
			ctx, cancel := context.WithTimeout(context.Background(), m.opTimeout)
			defer cancel()
			if resumed {
				m.resync(ctx, p)
				return
			}
			// sesión nueva: el nodo no conoce a nadie, reenviamos la voz
			if err := p.pushVoice(ctx); err != nil {
				m.log.Warn("[lavalink.ws] voice resend failed", "guild", p.guildID, "err", err)
			}
		}(p)
	}
}

// resync trae el player del nodo después de una sesión reanudada.
func (m *Manager) resync(ctx context.Context, p *Player) {
	dto, err := m.client.GetPlayer(ctx, p.guildID)
	if errors.Is(err, ErrNotFound) {
		if err := p.pushVoice(ctx); err != nil {
			m.log.Warn("[lavalink.ws] voice resend failed", "guild", p.guildID, "err", err)
		}
		return
	}
	if err != nil {
		m.log.Warn("[lavalink.ws] resync failed", "guild", p.guildID, "err", err)
		return
	}
	if p.resync(dto) {
		if err := p.trackEnded(ctx, "finished"); err != nil {
			m.log.Error("[lavalink.player] advance failed", "guild", p.guildID, "err", err)
		}
	}
}

func (m *Manager) OnPlayerUpdate(guildID string, st PlayerState) {
	if p, ok := m.Player(guildID); ok {
		p.playerUpdate(st)
	}
}

// OnTrackEnd corre fuera del loop de lectura: avanzar la cola es otra llamada HTTP.
func (m *Manager) OnTrackEnd(guildID, reason string) {
	p, ok := m.Player(guildID)
	if !ok {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), m.opTimeout)
		defer cancel()
		if err := p.trackEnded(ctx, reason); err != nil {
			m.log.Error("[lavalink.player] advance failed", "guild", guildID, "err", err)
		}
	}()
}

func (m *Manager) OnTrackException(guildID, message string) {
	m.log.Warn("[lavalink.player] track exception", "guild", guildID, "message", message)
}

func (m *Manager) OnSocketClosed(guildID string, code int, reason string) {
	m.log.Warn("[lavalink.player] voice socket closed", "guild", guildID, "code", code, "reason", reason)
}
