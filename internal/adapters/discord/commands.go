package discord

import (
	"strings"

	"github.com/bwmarrin/discordgo"
)

// Commands es la única fuente del catálogo: registro, GET /api/discord/commands y /help.
var Commands = []*discordgo.ApplicationCommand{
	{
		Name:        "play",
		Description: "Play a song or add it to the queue",
		Options: []*discordgo.ApplicationCommandOption{{
			Type:        discordgo.ApplicationCommandOptionString,
			Name:        "query",
			Description: "Song name or URL (YouTube, Spotify, SoundCloud)",
			Required:    true,
		}},
	},
	{Name: "skip", Description: "Skip the current song"},
	{Name: "queue", Description: "View the current music queue"},
	{Name: "stop", Description: "Stop the music and clear the queue"},
	{Name: "pause", Description: "Pause the current song"},
	{Name: "resume", Description: "Resume the paused song"},
	{Name: "nowplaying", Description: "Show the currently playing song"},
	{Name: "help", Description: "Show all available commands"},
}

func CommandNames() []string {
	out := make([]string, 0, len(Commands))
	for _, c := range Commands {
		out = append(out, c.Name)
	}
	return out
}

// helpFields arma "/play <query>" etc. a partir de la tabla.
func helpFields() []*discordgo.MessageEmbedField {
	fields := make([]*discordgo.MessageEmbedField, 0, len(Commands))
	for _, c := range Commands {
		var b strings.Builder
		b.WriteString("/" + c.Name)
		for _, o := range c.Options {
			b.WriteString(" <" + o.Name + ">")
		}
		fields = append(fields, &discordgo.MessageEmbedField{Name: b.String(), Value: c.Description})
	}
	return fields
}
