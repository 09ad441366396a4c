package storage

import "time"

// Incident es un registro de log que vino con error adjunto.
type Incident struct {
	ID        string
	Level     string // ERROR | CRITICAL
	Message   string
	ErrorType string
	ErrorText string
	CreatedAt time.Time
}
