package service

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/jose-valero/music-panel-bot/internal/infra/storage"
)

var incidentLevels = []string{"ERROR", "CRITICAL"}

// Discord corta el contenido en 2000; margen para la línea "…and N more"
const incidentReplyMax = 1900

type IncidentService struct {
	repo IncidentRepo
}

// repo puede ser nil cuando no hay DATABASE_URL.
func NewIncidentService(r IncidentRepo) *IncidentService { return &IncidentService{repo: r} }

func (s *IncidentService) Enabled() bool { return s != nil && s.repo != nil }

// Recent arma el listado para /incidents.
func (s *IncidentService) Recent(ctx context.Context, limit int) (string, error) {
	if !s.Enabled() {
		return "ℹ️ The incident store is disabled (no `DATABASE_URL`).", nil
	}
	if limit <= 0 || limit > 25 {
		limit = 10
	}
	items, err := s.repo.Recent(ctx, limit, incidentLevels)
	if err != nil {
		return "", err
	}
	if len(items) == 0 {
		return "ℹ️ No incidents recorded.", nil
	}

	var b strings.Builder
	b.WriteString("📋 **Recent incidents**\n")
	n := utf8.RuneCountInString(b.String())
	for i, it := range items {
		line := incidentLine(it)
		if n+utf8.RuneCountInString(line) > incidentReplyMax {
			fmt.Fprintf(&b, "…and %d more\n", len(items)-i)
			break
		}
		b.WriteString(line)
		n += utf8.RuneCountInString(line)
	}
	return b.String(), nil
}

func incidentLine(it storage.Incident) string {
	id := it.ID
	if len(id) > 8 {
		id = id[:8]
	}
	line := fmt.Sprintf("`%s` <t:%d:R> **%s** %s", id, it.CreatedAt.Unix(), it.Level, truncate(it.Message, 300))
	if it.ErrorType != "" || it.ErrorText != "" {
		line += fmt.Sprintf(" · `%s: %s`", it.ErrorType, truncate(it.ErrorText, 120))
	}
	return line + "\n"
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
