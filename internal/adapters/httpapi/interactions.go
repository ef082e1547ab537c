package httpapi

import (
	"crypto/ed25519"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/bwmarrin/discordgo"

	"github.com/jose-valero/discord-music-bot/internal/adapters/discord"
	"github.com/jose-valero/discord-music-bot/internal/infra/logging"
)

func (s *Server) handleInteractions(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w)
		return
	}
	// headers primero: sin firma no leemos el body
	if r.Header.Get("X-Signature-Ed25519") == "" || r.Header.Get("X-Signature-Timestamp") == "" {
		writeError(w, http.StatusUnauthorized, "Missing signature headers")
		return
	}
	log := logging.FromContext(r.Context())

	if len(s.cfg.PublicKey) != ed25519.PublicKeySize {
		log.Error("DISCORD_PUBLIC_KEY not configured, rejecting interaction")
		writeError(w, http.StatusUnauthorized, "Invalid request signature")
		return
	}
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	// VerifyInteraction firma timestamp+body crudo y deja el body rearmado en r.Body
	if !discordgo.VerifyInteraction(r, s.cfg.PublicKey) {
		log.Warn("invalid interaction signature")
		writeError(w, http.StatusUnauthorized, "Invalid request signature")
		return
	}
	body, err := io.ReadAll(r.Body)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	var ic discordgo.Interaction
	if err := json.Unmarshal(body, &ic); err != nil {
		log.Warn("bad interaction payload", "err", err)
		writeError(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}

	resp, err := s.router.HandleInteraction(r.Context(), &ic)
	if errors.Is(err, discord.ErrUnknownInteractionType) {
		writeError(w, http.StatusBadRequest, "Unknown interaction type")
		return
	}
	if err != nil {
		log.Error("interaction failed", "err", err)
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	writeJSON(w, http.StatusOK, resp)
}
