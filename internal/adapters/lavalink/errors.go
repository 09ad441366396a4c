package lavalink

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound  = errors.New("not found")
	ErrNoSession = errors.New("lavalink session not ready")
	ErrNoMatches = errors.New("no matches")
)

type APIError struct {
	Status int
	Body   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("lavalink api status %d: %s", e.Status, e.Body)
}
