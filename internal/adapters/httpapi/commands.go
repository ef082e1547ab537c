package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/bwmarrin/discordgo"

	"github.com/jose-valero/discord-music-bot/internal/adapters/discord"
	"github.com/jose-valero/discord-music-bot/internal/infra/logging"
)

const msgMissingCreds = "Missing DISCORD_BOT_TOKEN or DISCORD_CLIENT_ID environment variables"

func (s *Server) handleCommands(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		writeJSON(w, http.StatusOK, obj{"commands": discord.Commands})
	case http.MethodPost:
		s.registerCommands(w, r)
	default:
		methodNotAllowed(w)
	}
}

func (s *Server) registerCommands(w http.ResponseWriter, r *http.Request) {
	var in struct {
		GuildID string `json:"guildId"`
	}
	raw, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if len(strings.TrimSpace(string(raw))) > 0 {
		if err := json.Unmarshal(raw, &in); err != nil {
			writeError(w, http.StatusBadRequest, "Invalid JSON body")
			return
		}
	}

	if s.cfg.NewRegistrar == nil || s.cfg.AppID == "" {
		writeError(w, http.StatusBadRequest, msgMissingCreds)
		return
	}
	log := logging.FromContext(r.Context()).With("guild", in.GuildID)

	reg, err := s.cfg.NewRegistrar()
	if err == nil {
		var cmds []*discordgo.ApplicationCommand
		cmds, err = discord.RegisterCommands(r.Context(), reg, s.cfg.AppID, in.GuildID)
		if err == nil {
			msg := fmt.Sprintf("Successfully registered %d global commands", len(cmds))
			if in.GuildID != "" {
				msg = fmt.Sprintf("Successfully registered %d commands to guild %s", len(cmds), in.GuildID)
			}
			log.Info("commands registered", "count", len(cmds))
			writeJSON(w, http.StatusOK, obj{"success": true, "message": msg, "commands": cmds})
			return
		}
	}

	log.Error("command registration failed", "err", err)
	msg, details := restDetails(err)
	writeJSON(w, http.StatusInternalServerError, obj{"success": false, "error": msg, "details": details})
}

// restDetails saca el mensaje y el JSON crudo que devolvió Discord, si lo hay.
func restDetails(err error) (string, json.RawMessage) {
	msg := err.Error()
	var details json.RawMessage
	var rest *discordgo.RESTError
	if errors.As(err, &rest) {
		if rest.Message != nil && rest.Message.Message != "" {
			msg = rest.Message.Message
		}
		if json.Valid(rest.ResponseBody) {
			details = rest.ResponseBody
		}
	}
	if details == nil {
		details = json.RawMessage("null")
	}
	return msg, details
}
