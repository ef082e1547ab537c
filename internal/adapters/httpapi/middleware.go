package httpapi

import (
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/jose-valero/discord-music-bot/internal/infra/logging"
)

// HeaderRequestID lo setea lambdahttp con el request id de API Gateway.
const HeaderRequestID = "X-Request-Id"

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (s *Server) withRequest(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(HeaderRequestID)
		if id == "" {
			id = uuid.NewString()
		}
		ctx, log := logging.WithRequest(r.Context(), s.log, id)
		w.Header().Set(HeaderRequestID, id)

		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		start := time.Now()
		defer func() {
			if p := recover(); p != nil {
				log.Error("panic in handler", "panic", p, "path", r.URL.Path)
				writeError(rec, http.StatusInternalServerError, "Internal server error")
			}
			log.Info("http request", "method", r.Method, "path", r.URL.Path, "status", rec.status, "dur", time.Since(start))
		}()
		next.ServeHTTP(rec, r.WithContext(ctx))
	})
}
