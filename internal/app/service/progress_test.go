package service

import (
	"strings"
	"testing"
	"time"
)

func nodeIndex(bar string) int {
	idx := 0
	for _, r := range bar {
		if string(r) == barNode {
			return idx
		}
		idx++
	}
	return -1
}

func TestProgressBar(t *testing.T) {
	full := 3 * time.Minute

	cases := []struct {
		name     string
		progress time.Duration
		full     time.Duration
		want     int
	}{
		{"start", 0, full, 0},
		{"half", full / 2, full, 7},
		{"end", full, full, 14},
		{"past end", full + time.Minute, full, 14},
		{"no duration", time.Minute, 0, 0},
		{"negative", -time.Second, full, 0},
	}
	for _, tc := range cases {
		bar := ProgressBar(tc.progress, tc.full)
		if n := len([]rune(bar)); n != barSegments {
			t.Errorf("%s: expected %d segments, got %d", tc.name, barSegments, n)
		}
		if got := nodeIndex(bar); got != tc.want {
			t.Errorf("%s: expected node at %d, got %d (%s)", tc.name, tc.want, got, bar)
		}
		if c := strings.Count(bar, barNode); c != 1 {
			t.Errorf("%s: expected exactly one node, got %d", tc.name, c)
		}
	}
}

func TestFormatClock(t *testing.T) {
	cases := map[time.Duration]string{
		0:                                         "00:00:00",
		75 * time.Second:                          "00:01:15",
		time.Hour + 2*time.Minute + 3*time.Second: "01:02:03",
		-5 * time.Second:                          "00:00:00",
		1500 * time.Millisecond:                   "00:00:01",
	}
	for d, want := range cases {
		if got := FormatClock(d); got != want {
			t.Errorf("FormatClock(%s) = %q, want %q", d, got, want)
		}
	}
}
