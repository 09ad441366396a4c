package service

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/jose-valero/music-panel-bot/internal/domain"
)

// tiempos y límites del panel (se pisan desde config)
type PanelConfig struct {
	Refresh       time.Duration
	ResponseTTL   time.Duration
	RenderTimeout time.Duration
	VolumeMax     int
	ReactionGap   time.Duration
	Now           func() time.Time
}

func DefaultPanelConfig() PanelConfig {
	return PanelConfig{
		Refresh:       10 * time.Second,
		ResponseTTL:   3500 * time.Millisecond,
		RenderTimeout: 8 * time.Second,
		VolumeMax:     domain.VolumeMax,
		ReactionGap:   750 * time.Millisecond,
		Now:           time.Now,
	}
}

const (
	msgStoppedPlaying = "✅ Successfully stopped playing!"
	msgUnderDev       = ":warning: **This feature is currently under development!**"
	msgVolumeAtMax    = ":no_entry: The volume is already at the maximum!"
	msgVolumeAtMin    = ":no_entry: The volume is already at the minimum!"
)

// Panel es la UI viva de una sesión: un dueño, un mensaje y el player del guild.
type Panel struct {
	OwnerID   string
	GuildID   string
	ChannelID string
	MessageID string

	cfg    PanelConfig
	chat   Chat
	player Player
	log    *slog.Logger

	renderMu  sync.Mutex
	closed    atomic.Bool
	closeOnce sync.Once
	startOnce sync.Once
	ctx       context.Context
	cancel    context.CancelFunc
	done      chan struct{}
	onClose   func(*Panel)
}

func NewPanel(cfg PanelConfig, chat Chat, player Player, log *slog.Logger, inv Invocation, messageID string) *Panel {
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if log == nil {
		log = slog.Default()
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Panel{
		OwnerID:   inv.UserID,
		GuildID:   inv.GuildID,
		ChannelID: inv.ChannelID,
		MessageID: messageID,
		cfg:       cfg,
		chat:      chat,
		player:    player,
		log:       log.With("guild", inv.GuildID, "message", messageID),
		ctx:       ctx,
		cancel:    cancel,
		done:      make(chan struct{}),
	}
}

// Start lanza el refresco periódico. Termina con Close o cuando el panel se desarma solo.
func (p *Panel) Start() {
	p.startOnce.Do(func() {
		go p.loop()
	})
}

func (p *Panel) loop() {
	defer close(p.done)
	if p.cfg.Refresh <= 0 {
		return
	}
	t := time.NewTicker(p.cfg.Refresh)
	defer t.Stop()
	for {
		select {
		case <-p.ctx.Done():
			return
		case <-t.C:
			ctx, cancel := context.WithTimeout(p.ctx, p.renderTimeout())
			err := p.Render(ctx)
			cancel()
			if err != nil && p.ctx.Err() == nil {
				p.log.Error("[panel.refresh] render failed", "err", err)
			}
		}
	}
}

// Close corta el loop; es idempotente.
func (p *Panel) Close() {
	p.closeOnce.Do(func() {
		p.closed.Store(true)
		p.cancel()
		p.startOnce.Do(func() { close(p.done) })
		if p.onClose != nil {
			p.onClose(p)
		}
	})
}

func (p *Panel) Closed() bool { return p.closed.Load() }

// Done se cierra cuando el loop de refresco terminó.
func (p *Panel) Done() <-chan struct{} { return p.done }

// HandleReaction aplica un glifo al player, avisa al canal y re-renderiza una vez.
// Si el player falla igual se re-renderiza y se devuelve el error del player.
func (p *Panel) HandleReaction(ctx context.Context, g domain.Glyph) error {
	if p.Closed() {
		return nil
	}

	var err error
	switch g {
	case domain.GlyphPlayPause:
		paused := p.player.Paused()
		msg := "✅ Successfully paused music!"
		if paused {
			msg = "✅ Successfully resumed the music!"
		}
		if err = p.player.SetPause(ctx, !paused); err != nil {
			err = fmt.Errorf("set pause: %w", err)
			break
		}
		p.respond(ctx, msg)

	case domain.GlyphSkip:
		if err = p.player.Skip(ctx); err != nil {
			err = fmt.Errorf("skip: %w", err)
			break
		}
		p.respond(ctx, "✅ Successfully skipped current song!")

	case domain.GlyphStop:
		p.player.ClearQueue()
		if err = p.player.Stop(ctx); err != nil {
			err = fmt.Errorf("stop: %w", err)
			break
		}
		p.respond(ctx, "⏹ Successfully stopped the music!")

	case domain.GlyphLoop:
		on := !p.player.Repeat()
		p.player.SetRepeat(on)
		if on {
			p.respond(ctx, "✅ Successfully enabled loop mode!")
		} else {
			p.respond(ctx, "✅ Successfully disabled loop mode!")
		}

	case domain.GlyphRepeatAll:
		p.respond(ctx, msgUnderDev)

	case domain.GlyphShuffle:
		on := !p.player.Shuffle()
		p.player.SetShuffle(on)
		if on {
			p.respond(ctx, "✅ Successfully enabled shuffle mode!")
		} else {
			p.respond(ctx, "✅ Successfully disabled shuffle mode!")
		}

	case domain.GlyphRestart:
		if err = p.player.Seek(ctx, 0); err != nil {
			err = fmt.Errorf("seek: %w", err)
			break
		}
		p.respond(ctx, "✅ Successfully reset the current progress!")

	case domain.GlyphVolUp, domain.GlyphVolDown:
		up := g == domain.GlyphVolUp
		next, ok := stepVolume(p.player.Volume(), p.volumeMax(), up)
		if !ok {
			if up {
				p.respond(ctx, msgVolumeAtMax)
			} else {
				p.respond(ctx, msgVolumeAtMin)
			}
			return nil
		}
		if err = p.player.SetVolume(ctx, next); err != nil {
			err = fmt.Errorf("set volume: %w", err)
			break
		}
		p.respond(ctx, fmt.Sprintf("✅ Successfully set volume to `%d`!", next))

	default:
		return nil
	}

	rerr := p.Render(ctx)
	if err != nil {
		if rerr != nil {
			p.log.Warn("[panel.reaction] render after failure", "err", rerr)
		}
		return err
	}
	return rerr
}

func (p *Panel) respond(ctx context.Context, text string) {
	if err := p.SendResponse(ctx, text); err != nil {
		p.log.Warn("[panel.respond] failed", "err", err)
	}
}

// SendResponse publica un aviso, lo deja visible ResponseTTL y lo borra.
func (p *Panel) SendResponse(ctx context.Context, text string) error {
	if err := p.chat.Typing(ctx, p.ChannelID); err != nil {
		p.log.Debug("[panel.respond] typing", "err", err)
	}
	id, err := p.chat.Send(ctx, p.ChannelID, text)
	if err != nil {
		return fmt.Errorf("send response: %w", err)
	}

	if p.cfg.ResponseTTL > 0 {
		t := time.NewTimer(p.cfg.ResponseTTL)
		select {
		case <-t.C:
		case <-ctx.Done():
			t.Stop()
		}
	}

	// el borrado tiene que ocurrir aunque el ctx del evento ya haya vencido
	dctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), p.renderTimeout())
	defer cancel()
	if _, err := p.chat.Delete(dctx, p.ChannelID, id); err != nil {
		return fmt.Errorf("delete response: %w", err)
	}
	return nil
}

// Render edita el mensaje con el estado actual. Sin tema actual avisa, borra el panel y lo desarma.
func (p *Panel) Render(ctx context.Context) error {
	p.renderMu.Lock()
	defer p.renderMu.Unlock()

	if p.Closed() {
		return nil
	}

	cur := p.player.Current()
	if cur == nil {
		defer p.Close()
		if _, err := p.chat.Send(ctx, p.ChannelID, msgStoppedPlaying); err != nil {
			p.log.Warn("[panel.render] stopped notice", "err", err)
		}
		if _, err := p.chat.Delete(ctx, p.ChannelID, p.MessageID); err != nil {
			return fmt.Errorf("delete panel: %w", err)
		}
		return nil
	}

	out, err := p.chat.EditEmbed(ctx, p.ChannelID, p.MessageID, p.statusEmbed(cur))
	if err != nil {
		return fmt.Errorf("edit panel: %w", err)
	}
	if out == OutcomeAbsent {
		// alguien borró el mensaje y no nos llegó el evento
		p.log.Debug("[panel.render] message gone, closing")
		defer p.Close()
	}
	return nil
}

func (p *Panel) statusEmbed(cur *domain.Track) Embed {
	play := "▶"
	if p.player.Paused() {
		play = "⏸"
	}
	loop := ""
	if p.player.Repeat() {
		loop = string(domain.GlyphLoop)
	}
	shuffle := ""
	if p.player.Shuffle() {
		shuffle = string(domain.GlyphShuffle)
	}

	posD := p.player.Position()
	pos := FormatClock(posD)
	dur := "LIVE"
	full := time.Duration(0)
	if !cur.Stream {
		dur = FormatClock(cur.Duration)
		full = cur.Duration
	}

	return Embed{
		Title:       cur.Title,
		Description: fmt.Sprintf("%s%s%s %s **[%s / %s]**", play, loop, shuffle, ProgressBar(posD, full), pos, dur),
		Color:       p.chat.BotColor(p.ChannelID),
		Timestamp:   p.cfg.Now(),
	}
}

func (p *Panel) volumeMax() int {
	if p.cfg.VolumeMax <= 0 {
		return domain.VolumeMax
	}
	return p.cfg.VolumeMax
}

func (p *Panel) renderTimeout() time.Duration {
	if p.cfg.RenderTimeout <= 0 {
		return 8 * time.Second
	}
	return p.cfg.RenderTimeout
}
