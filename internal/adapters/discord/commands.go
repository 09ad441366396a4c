package discord

import "github.com/bwmarrin/discordgo"

var minLimit = 1.0

var Commands = []*discordgo.ApplicationCommand{
	{
		Name:        "control",
		Description: "Publica el panel de control del reproductor en este canal",
	},
	{
		Name:        "cp",
		Description: "Alias de /control",
	},
	{
		Name:        "panel",
		Description: "Alias de /control",
	},
	{
		Name:        "play",
		Description: "Reproduce (o encola) un tema por URL o búsqueda",
		Options: []*discordgo.ApplicationCommandOption{{
			Type:        discordgo.ApplicationCommandOptionString,
			Name:        "query",
			Description: "URL o texto a buscar",
			Required:    true,
		}},
	},
	{
		Name:        "leave",
		Description: "Corta la música y saca al bot del canal de voz",
	},
	{
		Name:        "incidents",
		Description: "Últimos errores registrados (admins)",
		Options: []*discordgo.ApplicationCommandOption{{
			Type:        discordgo.ApplicationCommandOptionInteger,
			Name:        "limit",
			Description: "Cuántos mostrar (1-25)",
			MinValue:    &minLimit,
			MaxValue:    25,
		}},
	},
	{
		Name:        "ping",
		Description: "Pong",
	},
}
