package logging

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/bwmarrin/discordgo"
)

const (
	alertTitle = ":no_entry_sign: An internal error occurred!"
	alertColor = 0xf22b2b
)

type webhookExecutor interface {
	WebhookExecute(webhookID, token string, wait bool, data *discordgo.WebhookParams, options ...discordgo.RequestOption) (*discordgo.Message, error)
}

// WebhookAlerter manda las alertas a un webhook de Discord.
type WebhookAlerter struct {
	id, token string
	exec      webhookExecutor
}

// NewWebhookAlerter acepta la URL completa del webhook
// (https://discord.com/api/webhooks/<id>/<token>).
func NewWebhookAlerter(rawURL string) (*WebhookAlerter, error) {
	id, token, err := ParseWebhookURL(rawURL)
	if err != nil {
		return nil, err
	}
	// sin token de bot: los webhooks se autentican con su propio token
	s, err := discordgo.New("")
	if err != nil {
		return nil, fmt.Errorf("webhook session: %w", err)
	}
	return &WebhookAlerter{id: id, token: token, exec: s}, nil
}

func ParseWebhookURL(rawURL string) (id, token string, err error) {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil {
		return "", "", fmt.Errorf("webhook url: %w", err)
	}
	parts := strings.Split(strings.Trim(u.Path, "/"), "/")
	for i := 0; i+2 < len(parts); i++ {
		if parts[i] == "webhooks" && parts[i+1] != "" && parts[i+2] != "" {
			return parts[i+1], parts[i+2], nil
		}
	}
	return "", "", fmt.Errorf("webhook url: missing id/token in %q", u.Path)
}

func (w *WebhookAlerter) Alert(ctx context.Context, a Alert) error {
	_, err := w.exec.WebhookExecute(w.id, w.token, false, &discordgo.WebhookParams{
		Embeds: []*discordgo.MessageEmbed{alertEmbed(a)},
	}, discordgo.WithContext(ctx))
	return err
}

func alertEmbed(a Alert) *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title:       alertTitle,
		Color:       alertColor,
		Description: "```" + clip(a.Exception, 4000) + "```",
		Timestamp:   a.Time.Format("2006-01-02T15:04:05Z07:00"),
		Footer:      &discordgo.MessageEmbedFooter{Text: clip(fmt.Sprintf("%s · %s · %s", a.Level, a.ID, a.Message), 2048)},
	}
}

// límites de Discord para embeds
func clip(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
