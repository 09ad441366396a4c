package discord

import (
	"log/slog"
	"time"
)

func step(label string) func() {
	start := time.Now()
	return func() { slog.Debug("[trace] "+label, "took", time.Since(start)) }
}
