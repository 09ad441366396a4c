package service

import (
	"fmt"
	"math"
	"strings"
	"time"
)

const (
	barSegments = 15
	barNode     = "🔘"
	barLine     = "▬"
)

// ProgressBar arma la barra de 15 segmentos con el nodo en la posición actual.
// Con full <= 0 (stream o tema sin cargar) el nodo queda al inicio.
func ProgressBar(progress, full time.Duration) string {
	idx := 0
	if full > 0 {
		percent := math.Round(float64(progress)/float64(full)*100) / 100
		idx = int(percent*barSegments + 1e-9)
	}
	if idx < 0 {
		idx = 0
	}
	if idx > barSegments-1 {
		idx = barSegments - 1
	}

	var b strings.Builder
	for i := 0; i < barSegments; i++ {
		if i == idx {
			b.WriteString(barNode)
		} else {
			b.WriteString(barLine)
		}
	}
	return b.String()
}

// FormatClock: HH:MM:SS
func FormatClock(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	s := int(d / time.Second)
	return fmt.Sprintf("%02d:%02d:%02d", s/3600, (s%3600)/60, s%60)
}
