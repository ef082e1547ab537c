package discord

import (
	"context"

	"github.com/bwmarrin/discordgo"
)

// CommandRegistrar lo implementa *discordgo.Session.
type CommandRegistrar interface {
	ApplicationCommandBulkOverwrite(appID string, guildID string, commands []*discordgo.ApplicationCommand, options ...discordgo.RequestOption) ([]*discordgo.ApplicationCommand, error)
}

// RegisterCommands hace PUT del catálogo completo: guildID vacío = global
// (tarda hasta una hora en propagar), con guild es inmediato.
func RegisterCommands(ctx context.Context, reg CommandRegistrar, appID, guildID string) ([]*discordgo.ApplicationCommand, error) {
	return reg.ApplicationCommandBulkOverwrite(appID, guildID, Commands, discordgo.WithContext(ctx))
}

func NewSession(botAuth string) (*discordgo.Session, error) {
	return discordgo.New(botAuth)
}
