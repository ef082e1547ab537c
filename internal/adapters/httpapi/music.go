package httpapi

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/jose-valero/discord-music-bot/internal/app/service"
	"github.com/jose-valero/discord-music-bot/internal/infra/logging"
)

// param lee ?key= y, en POST, cae al campo JSON del body.
func param(w http.ResponseWriter, r *http.Request, key, field string) string {
	if v := strings.TrimSpace(r.URL.Query().Get(key)); v != "" {
		return v
	}
	if r.Method != http.MethodPost || r.Body == nil {
		return ""
	}
	var body map[string]any
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&body); err != nil {
		return ""
	}
	v, _ := body[field].(string)
	return strings.TrimSpace(v)
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodPost {
		methodNotAllowed(w)
		return
	}
	q := param(w, r, "q", "query")
	if q == "" {
		writeError(w, http.StatusBadRequest, "Query parameter is required")
		return
	}

	out := s.lookup.Search(r.Context(), q)
	switch {
	case out.Status == service.StatusInvalidInput:
		writeJSON(w, http.StatusBadRequest, obj{"success": false, "status": out.Status, "error": out.Err.Error()})
	case out.Status == service.StatusUpstreamError && !out.Fallback:
		logging.FromContext(r.Context()).Error("search upstream failed", "query", q, "err", out.Err)
		writeJSON(w, http.StatusBadGateway, obj{"success": false, "status": out.Status, "error": "Search service unavailable"})
	default:
		res := obj{"success": true, "status": out.Status, "query": q, "results": out.Results}
		if out.Fallback {
			logging.FromContext(r.Context()).Warn("search upstream failed, serving demo result", "query", q, "err", out.Err)
			res["fallback"] = true
		}
		writeJSON(w, http.StatusOK, res)
	}
}

func (s *Server) handleInfo(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodPost {
		methodNotAllowed(w)
		return
	}
	u := param(w, r, "url", "url")
	if u == "" {
		writeError(w, http.StatusBadRequest, "URL parameter is required")
		return
	}

	out := s.lookup.Info(r.Context(), u)
	switch {
	case out.Status == service.StatusInvalidInput:
		writeJSON(w, http.StatusBadRequest, obj{"success": false, "status": out.Status, "error": "Not a YouTube video URL"})
	case out.Status == service.StatusNotFound:
		writeJSON(w, http.StatusNotFound, obj{"success": false, "status": out.Status, "error": "Video not found"})
	case out.Status == service.StatusUpstreamError && !out.Fallback:
		logging.FromContext(r.Context()).Error("info upstream failed", "url", u, "err", out.Err)
		writeJSON(w, http.StatusBadGateway, obj{"success": false, "status": out.Status, "error": "Video service unavailable"})
	default:
		res := obj{"success": true, "status": out.Status, "info": out.Info}
		if out.Fallback {
			logging.FromContext(r.Context()).Warn("info upstream failed, serving demo info", "url", u, "err", out.Err)
			res["fallback"] = true
		}
		writeJSON(w, http.StatusOK, res)
	}
}
