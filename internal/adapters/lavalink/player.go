package lavalink

import (
	"context"
	"log/slog"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/jose-valero/music-panel-bot/internal/domain"
)

// lo que el player necesita del Client (los tests lo reemplazan)
type playerAPI interface {
	UpdatePlayer(ctx context.Context, guildID string, up UpdatePlayer, noReplace bool) (*PlayerDTO, error)
}

// Player es la sesión de reproducción de un guild: cola local + estado del nodo.
type Player struct {
	guildID string
	api     playerAPI
	log     *slog.Logger
	now     func() time.Time
	pick    func(n int) int

	// serializa las operaciones que hablan con el nodo
	opMu sync.Mutex

	mu       sync.Mutex
	queue    []domain.Track
	current  *domain.Track
	paused   bool
	repeat   bool
	shuffle  bool
	volume   int
	position time.Duration
	posAt    time.Time
	voice    VoiceState
	channel  string
}

func newPlayer(guildID string, api playerAPI, log *slog.Logger) *Player {
	if log == nil {
		log = slog.Default()
	}
	return &Player{
		guildID: guildID,
		api:     api,
		log:     log.With("guild", guildID),
		now:     time.Now,
		pick:    rand.IntN,
		volume:  100,
	}
}

func (p *Player) Playing() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.current != nil
}

func (p *Player) Paused() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.paused
}

func (p *Player) Repeat() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.repeat
}

func (p *Player) Shuffle() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.shuffle
}

func (p *Player) Volume() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.volume
}

func (p *Player) Current() *domain.Track {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.current == nil {
		return nil
	}
	t := *p.current
	return &t
}

func (p *Player) QueueLen() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.queue)
}

// Position estima la posición desde el último playerUpdate.
func (p *Player) Position() time.Duration {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.positionLocked()
}

func (p *Player) positionLocked() time.Duration {
	if p.current == nil {
		return 0
	}
	pos := p.position
	if !p.paused && !p.posAt.IsZero() {
		pos += p.now().Sub(p.posAt)
	}
	if !p.current.Stream && p.current.Duration > 0 && pos > p.current.Duration {
		pos = p.current.Duration
	}
	if pos < 0 {
		pos = 0
	}
	return pos
}

func (p *Player) SetRepeat(on bool) {
	p.mu.Lock()
	p.repeat = on
	p.mu.Unlock()
}

func (p *Player) SetShuffle(on bool) {
	p.mu.Lock()
	p.shuffle = on
	p.mu.Unlock()
}

func (p *Player) ClearQueue() {
	p.mu.Lock()
	p.queue = nil
	p.mu.Unlock()
}

// Play encola y, si no suena nada, arranca el primero.
func (p *Player) Play(ctx context.Context, tracks ...domain.Track) (started bool, err error) {
	p.opMu.Lock()
	defer p.opMu.Unlock()

	p.mu.Lock()
	p.queue = append(p.queue, tracks...)
	idle := p.current == nil
	p.mu.Unlock()

	if !idle {
		return false, nil
	}
	return true, p.advance(ctx)
}

func (p *Player) SetPause(ctx context.Context, pause bool) error {
	p.opMu.Lock()
	defer p.opMu.Unlock()

	if _, err := p.api.UpdatePlayer(ctx, p.guildID, UpdatePlayer{Paused: &pause}, false); err != nil {
		return err
	}
	p.mu.Lock()
	p.position = p.positionLocked()
	p.posAt = p.now()
	p.paused = pause
	p.mu.Unlock()
	return nil
}

// Skip pasa al siguiente de la cola (o para si no hay). El modo loop no aplica acá.
func (p *Player) Skip(ctx context.Context) error {
	p.opMu.Lock()
	defer p.opMu.Unlock()
	return p.advance(ctx)
}

func (p *Player) Stop(ctx context.Context) error {
	p.opMu.Lock()
	defer p.opMu.Unlock()
	return p.stopLocked(ctx)
}

func (p *Player) Seek(ctx context.Context, pos time.Duration) error {
	p.opMu.Lock()
	defer p.opMu.Unlock()

	ms := pos.Milliseconds()
	if _, err := p.api.UpdatePlayer(ctx, p.guildID, UpdatePlayer{Position: &ms}, false); err != nil {
		return err
	}
	p.mu.Lock()
	p.position = pos
	p.posAt = p.now()
	p.mu.Unlock()
	return nil
}

func (p *Player) SetVolume(ctx context.Context, vol int) error {
	p.opMu.Lock()
	defer p.opMu.Unlock()

	if _, err := p.api.UpdatePlayer(ctx, p.guildID, UpdatePlayer{Volume: &vol}, false); err != nil {
		return err
	}
	p.mu.Lock()
	p.volume = vol
	p.mu.Unlock()
	return nil
}

// trackEnded: sólo "finished" y "loadFailed" dejan arrancar el siguiente.
func (p *Player) trackEnded(ctx context.Context, reason string) error {
	if reason != "finished" && reason != "loadFailed" {
		return nil
	}
	p.opMu.Lock()
	defer p.opMu.Unlock()

	p.mu.Lock()
	cur := p.current
	again := p.repeat && cur != nil && reason == "finished"
	p.mu.Unlock()

	if again {
		return p.start(ctx, *cur)
	}
	return p.advance(ctx)
}

// resync copia el estado del nodo tras reanudar la sesión. Devuelve true si el nodo
// ya no tiene tema pero localmente seguimos con uno (terminó mientras no había socket).
func (p *Player) resync(dto *PlayerDTO) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.paused = dto.Paused
	p.volume = dto.Volume
	p.position = time.Duration(dto.State.Position) * time.Millisecond
	p.posAt = p.now()
	return dto.Track == nil && p.current != nil
}

func (p *Player) playerUpdate(st PlayerState) {
	p.mu.Lock()
	p.position = time.Duration(st.Position) * time.Millisecond
	p.posAt = p.now()
	p.mu.Unlock()
}

// advance saca el próximo tema (al azar con shuffle) y lo manda al nodo. Requiere opMu.
func (p *Player) advance(ctx context.Context) error {
	p.mu.Lock()
	if len(p.queue) == 0 {
		p.mu.Unlock()
		return p.stopLocked(ctx)
	}
	i := 0
	if p.shuffle && len(p.queue) > 1 {
		i = p.pick(len(p.queue))
	}
	next := p.queue[i]
	p.queue = append(p.queue[:i], p.queue[i+1:]...)
	p.mu.Unlock()

	return p.start(ctx, next)
}

func (p *Player) start(ctx context.Context, t domain.Track) error {
	enc := t.Encoded
	paused := false
	if _, err := p.api.UpdatePlayer(ctx, p.guildID, UpdatePlayer{
		Track:  &UpdateTrack{Encoded: &enc},
		Paused: &paused,
	}, false); err != nil {
		return err
	}
	p.mu.Lock()
	p.current = &t
	p.paused = false
	p.position = 0
	p.posAt = p.now()
	p.mu.Unlock()
	p.log.Info("[lavalink.player] now playing", "title", t.Title)
	return nil
}

func (p *Player) stopLocked(ctx context.Context) error {
	if _, err := p.api.UpdatePlayer(ctx, p.guildID, UpdatePlayer{Track: &UpdateTrack{}}, false); err != nil {
		return err
	}
	p.mu.Lock()
	p.current = nil
	p.position = 0
	p.posAt = time.Time{}
	p.mu.Unlock()
	return nil
}

// voz: el nodo necesita sessionId (VOICE_STATE_UPDATE) y token+endpoint (VOICE_SERVER_UPDATE).
func (p *Player) setVoiceSession(channelID, sessionID string) {
	p.mu.Lock()
	p.channel = channelID
	p.voice.SessionID = sessionID
	p.mu.Unlock()
}

func (p *Player) setVoiceServer(token, endpoint string) {
	p.mu.Lock()
	p.voice.Token = token
	p.voice.Endpoint = endpoint
	p.mu.Unlock()
}

// ChannelID es el canal de voz donde está el bot ("" si no está).
func (p *Player) ChannelID() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.channel
}

// pushVoice manda la voz al nodo si ya están las tres piezas.
func (p *Player) pushVoice(ctx context.Context) error {
	p.mu.Lock()
	v := p.voice
	p.mu.Unlock()
	if v.SessionID == "" || v.Token == "" || v.Endpoint == "" {
		return nil
	}

	p.opMu.Lock()
	defer p.opMu.Unlock()
	_, err := p.api.UpdatePlayer(ctx, p.guildID, UpdatePlayer{Voice: &v}, true)
	return err
}
