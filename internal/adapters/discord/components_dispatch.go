package discord

import (
	"context"

	"github.com/bwmarrin/discordgo"
)

// No publicamos botones todavía; cualquier click recibe el ack genérico.
func (r *Router) handleMessageComponent(ctx context.Context, ic *discordgo.Interaction) *discordgo.InteractionResponse {
	data, _ := ic.Data.(discordgo.MessageComponentInteractionData)
	r.logger(ctx).Info("component", "custom_id", data.CustomID, "guild", ic.GuildID)
	return message("Button clicked!")
}
