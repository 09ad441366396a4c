package domain

import "testing"

func TestParseGlyph(t *testing.T) {
	for _, g := range Glyphs {
		got, ok := ParseGlyph(string(g))
		if !ok || got != g {
			t.Errorf("ParseGlyph(%s) = %q, %v", g, got, ok)
		}
		if got, ok := ParseGlyph(string(g) + "\ufe0f"); !ok || got != g {
			t.Errorf("ParseGlyph(%s+FE0F) = %q, %v", g, got, ok)
		}
	}
	for _, s := range []string{"", "👍", "▶", "⏯⏯"} {
		if _, ok := ParseGlyph(s); ok {
			t.Errorf("ParseGlyph(%q) should not match", s)
		}
	}
	if len(Glyphs) != 9 {
		t.Errorf("Expected 9 glyphs, got %d", len(Glyphs))
	}
}
