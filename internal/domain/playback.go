package domain

import (
	"strings"
	"time"
)

// Track es lo mínimo que el panel necesita del tema actual.
type Track struct {
	Encoded  string // id opaco del backend de audio
	Title    string
	Author   string
	URI      string
	Duration time.Duration
	Stream   bool
}

// Glyph es una reacción reconocida por el panel.
type Glyph string

const (
	GlyphPlayPause Glyph = "⏯"
	GlyphSkip      Glyph = "⏭"
	GlyphStop      Glyph = "⏹"
	GlyphLoop      Glyph = "🔂"
	GlyphRepeatAll Glyph = "🔁"
	GlyphShuffle   Glyph = "🔀"
	GlyphRestart   Glyph = "🔄"
	GlyphVolDown   Glyph = "🔉"
	GlyphVolUp     Glyph = "🔊"
)

// Glyphs en el orden en que se agregan al mensaje.
var Glyphs = []Glyph{
	GlyphPlayPause,
	GlyphSkip,
	GlyphStop,
	GlyphLoop,
	GlyphRepeatAll,
	GlyphShuffle,
	GlyphRestart,
	GlyphVolDown,
	GlyphVolUp,
}

// ParseGlyph ignora el selector de variación (U+FE0F) que Discord agrega a veces.
func ParseGlyph(emoji string) (Glyph, bool) {
	emoji = strings.ReplaceAll(emoji, "\uFE0F", "")
	for _, g := range Glyphs {
		if string(g) == emoji {
			return g, true
		}
	}
	return "", false
}

const (
	VolumeMin  = 0
	VolumeMax  = 150
	VolumeStep = 10
)
