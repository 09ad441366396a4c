package lavalink

import (
	"encoding/json"
	"time"

	"github.com/jose-valero/music-panel-bot/internal/domain"
)

// --- Tracks ---
type trackDTO struct {
	Encoded string `json:"encoded"`
	Info    struct {
		Identifier string `json:"identifier"`
		IsSeekable bool   `json:"isSeekable"`
		Author     string `json:"author"`
		Length     int64  `json:"length"`
		IsStream   bool   `json:"isStream"`
		Title      string `json:"title"`
		URI        string `json:"uri"`
		SourceName string `json:"sourceName"`
	} `json:"info"`
}

func (t trackDTO) toDomain() domain.Track {
	return domain.Track{
		Encoded:  t.Encoded,
		Title:    t.Info.Title,
		Author:   t.Info.Author,
		URI:      t.Info.URI,
		Duration: time.Duration(t.Info.Length) * time.Millisecond,
		Stream:   t.Info.IsStream,
	}
}

// loadType: track | playlist | search | empty | error
type loadResultDTO struct {
	LoadType string          `json:"loadType"`
	Data     json.RawMessage `json:"data"`
}

type playlistDTO struct {
	Info struct {
		Name string `json:"name"`
	} `json:"info"`
	Tracks []trackDTO `json:"tracks"`
}

type exceptionDTO struct {
	Message  string `json:"message"`
	Severity string `json:"severity"`
	Cause    string `json:"cause"`
}

// --- Players ---
type PlayerState struct {
	Time      int64 `json:"time"`
	Position  int64 `json:"position"`
	Connected bool  `json:"connected"`
	Ping      int64 `json:"ping"`
}

type VoiceState struct {
	Token     string `json:"token"`
	Endpoint  string `json:"endpoint"`
	SessionID string `json:"sessionId"`
}

type PlayerDTO struct {
	GuildID string      `json:"guildId"`
	Track   *trackDTO   `json:"track"`
	Volume  int         `json:"volume"`
	Paused  bool        `json:"paused"`
	State   PlayerState `json:"state"`
	Voice   VoiceState  `json:"voice"`
}

// UpdateTrack.Encoded nil se serializa como null = parar.
type UpdateTrack struct {
	Encoded *string `json:"encoded"`
}

type UpdatePlayer struct {
	Track    *UpdateTrack `json:"track,omitempty"`
	Position *int64       `json:"position,omitempty"`
	Volume   *int         `json:"volume,omitempty"`
	Paused   *bool        `json:"paused,omitempty"`
	Voice    *VoiceState  `json:"voice,omitempty"`
}

// --- Websocket ---
type wsMessage struct {
	Op        string          `json:"op"`
	Type      string          `json:"type"`
	GuildID   string          `json:"guildId"`
	SessionID string          `json:"sessionId"`
	Resumed   bool            `json:"resumed"`
	State     PlayerState     `json:"state"`
	Track     *trackDTO       `json:"track"`
	Reason    string          `json:"reason"`
	Exception *exceptionDTO   `json:"exception"`
	Code      int             `json:"code"`
}
