package discord

import "github.com/bwmarrin/discordgo"

// Invocation es lo que necesita cada comando de la interacción.
type Invocation struct {
	Data discordgo.ApplicationCommandInteractionData
	// GuildKey: guild id, o "dm:<user>" fuera de un servidor
	GuildKey string
	UserID   string
	UserName string
}
