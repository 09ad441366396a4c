package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/jose-valero/music-panel-bot/internal/domain"
	"github.com/jose-valero/music-panel-bot/internal/infra/storage"
)

type fakeChat struct {
	mu        sync.Mutex
	seq       int
	sent      []string
	embeds    []Embed
	edits     []Embed
	deleted   []string
	reactions []string
	removed   []string
	typing    int

	editOutcome Outcome
	editErr     error
}

func (c *fakeChat) id() string {
	c.seq++
	return fmt.Sprintf("m%d", c.seq)
}

func (c *fakeChat) Send(_ context.Context, _, content string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sent = append(c.sent, content)
	return c.id(), nil
}

func (c *fakeChat) SendEmbed(_ context.Context, _ string, e Embed) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.embeds = append(c.embeds, e)
	return c.id(), nil
}

func (c *fakeChat) EditEmbed(_ context.Context, _, _ string, e Embed) (Outcome, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.edits = append(c.edits, e)
	return c.editOutcome, c.editErr
}

func (c *fakeChat) Delete(_ context.Context, _, messageID string) (Outcome, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.deleted = append(c.deleted, messageID)
	return OutcomeDone, nil
}

func (c *fakeChat) Typing(context.Context, string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.typing++
	return nil
}

func (c *fakeChat) AddReaction(_ context.Context, _, _, emoji string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.reactions = append(c.reactions, emoji)
	return nil
}

func (c *fakeChat) RemoveReaction(_ context.Context, _, _, emoji, _ string) (Outcome, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.removed = append(c.removed, emoji)
	return OutcomeDone, nil
}

func (c *fakeChat) BotColor(string) int { return 0x5865f2 }

func (c *fakeChat) snapshot() fakeChat {
	c.mu.Lock()
	defer c.mu.Unlock()
	return fakeChat{
		sent:      append([]string(nil), c.sent...),
		embeds:    append([]Embed(nil), c.embeds...),
		edits:     append([]Embed(nil), c.edits...),
		deleted:   append([]string(nil), c.deleted...),
		reactions: append([]string(nil), c.reactions...),
		removed:   append([]string(nil), c.removed...),
		typing:    c.typing,
	}
}

type fakePlayer struct {
	mu      sync.Mutex
	current *domain.Track
	queue   int
	paused  bool
	repeat  bool
	shuffle bool
	volume  int
	pos     time.Duration
	calls   []string
	fail    error // lo devuelven los mutadores que van al nodo
}

func playingTrack() *fakePlayer {
	return &fakePlayer{
		current: &domain.Track{Title: "Song A", Duration: time.Minute},
		queue:   2,
		volume:  100,
		pos:     30 * time.Second,
	}
}

func (p *fakePlayer) record(c string) { p.calls = append(p.calls, c) }

func (p *fakePlayer) Playing() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.current != nil
}
func (p *fakePlayer) Paused() bool  { p.mu.Lock(); defer p.mu.Unlock(); return p.paused }
func (p *fakePlayer) Repeat() bool  { p.mu.Lock(); defer p.mu.Unlock(); return p.repeat }
func (p *fakePlayer) Shuffle() bool { p.mu.Lock(); defer p.mu.Unlock(); return p.shuffle }
func (p *fakePlayer) Volume() int   { p.mu.Lock(); defer p.mu.Unlock(); return p.volume }

func (p *fakePlayer) Position() time.Duration {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.pos
}

func (p *fakePlayer) Current() *domain.Track {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.current == nil {
		return nil
	}
	t := *p.current
	return &t
}

func (p *fakePlayer) SetPause(_ context.Context, pause bool) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.record(fmt.Sprintf("pause=%v", pause))
	if p.fail != nil {
		return p.fail
	}
	p.paused = pause
	return nil
}

func (p *fakePlayer) Skip(context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.record("skip")
	if p.fail != nil {
		return p.fail
	}
	if p.queue == 0 {
		p.current = nil
		return nil
	}
	p.queue--
	p.current = &domain.Track{Title: "Next", Duration: 2 * time.Minute}
	p.pos = 0
	return nil
}

func (p *fakePlayer) Stop(context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.record("stop")
	if p.fail != nil {
		return p.fail
	}
	p.current = nil
	return nil
}

func (p *fakePlayer) Seek(_ context.Context, pos time.Duration) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.record(fmt.Sprintf("seek=%s", pos))
	if p.fail != nil {
		return p.fail
	}
	p.pos = pos
	return nil
}

func (p *fakePlayer) SetVolume(_ context.Context, vol int) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.record(fmt.Sprintf("volume=%d", vol))
	if p.fail != nil {
		return p.fail
	}
	p.volume = vol
	return nil
}

func (p *fakePlayer) SetRepeat(on bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.record(fmt.Sprintf("repeat=%v", on))
	p.repeat = on
}

func (p *fakePlayer) SetShuffle(on bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.record(fmt.Sprintf("shuffle=%v", on))
	p.shuffle = on
}

func (p *fakePlayer) ClearQueue() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.record("clear")
	p.queue = 0
}

func (p *fakePlayer) callList() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.calls...)
}

type fakePlayers map[string]*fakePlayer

func (f fakePlayers) Get(guildID string) (Player, bool) {
	p, ok := f[guildID]
	if !ok {
		return nil, false
	}
	return p, true
}

type fakeIncidents struct {
	items  []storage.Incident
	limit  int
	levels []string
	err    error
}

func (f *fakeIncidents) Recent(_ context.Context, limit int, levels []string) ([]storage.Incident, error) {
	f.limit = limit
	f.levels = levels
	return f.items, f.err
}

var testNow = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

func testConfig() PanelConfig {
	return PanelConfig{
		Refresh:       time.Hour,
		ResponseTTL:   0,
		RenderTimeout: time.Second,
		VolumeMax:     150,
		ReactionGap:   0,
		Now:           func() time.Time { return testNow },
	}
}
