package logging

import (
	"log/slog"
	"strings"
)

type Level int

const (
	LevelDebug    Level = 10
	LevelInfo     Level = 20
	LevelWarn     Level = 30
	LevelError    Level = 40
	LevelCritical Level = 50
)

// SlogCritical es el nivel slog que mapeamos a CRITICAL.
const SlogCritical = slog.LevelError + 4

func (l Level) String() string {
	switch {
	case l >= LevelCritical:
		return "CRITICAL"
	case l >= LevelError:
		return "ERROR"
	case l >= LevelWarn:
		return "WARN"
	case l >= LevelInfo:
		return "INFO"
	default:
		return "DEBUG"
	}
}

func ParseLevel(s string) Level {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "DEBUG":
		return LevelDebug
	case "WARN", "WARNING":
		return LevelWarn
	case "ERROR":
		return LevelError
	case "CRITICAL":
		return LevelCritical
	default:
		return LevelInfo
	}
}

func fromSlog(l slog.Level) Level {
	switch {
	case l >= SlogCritical:
		return LevelCritical
	case l >= slog.LevelError:
		return LevelError
	case l >= slog.LevelWarn:
		return LevelWarn
	case l >= slog.LevelInfo:
		return LevelInfo
	default:
		return LevelDebug
	}
}

func (l Level) slog() slog.Level {
	switch {
	case l >= LevelCritical:
		return SlogCritical
	case l >= LevelError:
		return slog.LevelError
	case l >= LevelWarn:
		return slog.LevelWarn
	case l >= LevelInfo:
		return slog.LevelInfo
	default:
		return slog.LevelDebug
	}
}
