package httpapi

import "net/http"

// mismo formato que toISOString (milisegundos, Z)
const isoMillis = "2006-01-02T15:04:05.000Z07:00"

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, obj{
		"status":       "ok",
		"timestamp":    s.now().UTC().Format(isoMillis),
		"service":      "Discord Music Bot API",
		"version":      Version,
		"queueBackend": s.cfg.QueueBackend,
	})
}
