package lavalink

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/jose-valero/music-panel-bot/internal/domain"
)

// LoadTracks resuelve una URL o una búsqueda. Texto libre se busca en YouTube
// y se queda con el primer resultado; una playlist trae todos sus temas.
func (c *Client) LoadTracks(ctx context.Context, query string) ([]domain.Track, error) {
	q := url.Values{}
	q.Set("identifier", identifier(query))

	var res loadResultDTO
	if err := c.doJSON(ctx, http.MethodGet, "/loadtracks", q, nil, &res); err != nil {
		return nil, err
	}

	switch res.LoadType {
	case "track":
		var t trackDTO
		if err := json.Unmarshal(res.Data, &t); err != nil {
			return nil, fmt.Errorf("decode track: %w", err)
		}
		return []domain.Track{t.toDomain()}, nil
	case "search":
		var ts []trackDTO
		if err := json.Unmarshal(res.Data, &ts); err != nil {
			return nil, fmt.Errorf("decode search: %w", err)
		}
		if len(ts) == 0 {
			return nil, ErrNoMatches
		}
		return []domain.Track{ts[0].toDomain()}, nil
	case "playlist":
		var pl playlistDTO
		if err := json.Unmarshal(res.Data, &pl); err != nil {
			return nil, fmt.Errorf("decode playlist: %w", err)
		}
		if len(pl.Tracks) == 0 {
			return nil, ErrNoMatches
		}
		out := make([]domain.Track, 0, len(pl.Tracks))
		for _, t := range pl.Tracks {
			out = append(out, t.toDomain())
		}
		return out, nil
	case "empty":
		return nil, ErrNoMatches
	case "error":
		var ex exceptionDTO
		_ = json.Unmarshal(res.Data, &ex)
		return nil, fmt.Errorf("load failed (%s): %s", ex.Severity, ex.Message)
	default:
		return nil, fmt.Errorf("unknown loadType %q", res.LoadType)
	}
}

func identifier(query string) string {
	query = strings.TrimSpace(query)
	if strings.HasPrefix(query, "http://") || strings.HasPrefix(query, "https://") {
		return query
	}
	if i := strings.Index(query, ":"); i > 0 && strings.HasSuffix(query[:i], "search") {
		return query
	}
	return "ytsearch:" + query
}

func (c *Client) playerPath(guildID string) (string, error) {
	sid := c.SessionID()
	if sid == "" {
		return "", ErrNoSession
	}
	return "/sessions/" + sid + "/players/" + guildID, nil
}

func (c *Client) UpdatePlayer(ctx context.Context, guildID string, up UpdatePlayer, noReplace bool) (*PlayerDTO, error) {
	path, err := c.playerPath(guildID)
	if err != nil {
		return nil, err
	}
	q := url.Values{}
	q.Set("noReplace", strconv.FormatBool(noReplace))

	var out PlayerDTO
	if err := c.doJSON(ctx, http.MethodPatch, path, q, up, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) GetPlayer(ctx context.Context, guildID string) (*PlayerDTO, error) {
	path, err := c.playerPath(guildID)
	if err != nil {
		return nil, err
	}
	var out PlayerDTO
	if err := c.doJSON(ctx, http.MethodGet, path, nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DestroyPlayer: un player que ya no existe no es error.
func (c *Client) DestroyPlayer(ctx context.Context, guildID string) error {
	path, err := c.playerPath(guildID)
	if err != nil {
		return err
	}
	err = c.doJSON(ctx, http.MethodDelete, path, nil, nil, nil)
	if errors.Is(err, ErrNotFound) {
		return nil
	}
	return err
}
