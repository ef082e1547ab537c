package httpapi

import (
	"context"
	"crypto/ed25519"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/jose-valero/discord-music-bot/internal/adapters/discord"
	"github.com/jose-valero/discord-music-bot/internal/app/service"
)

// Version se reporta en /api/health.
const Version = "1.0.0"

// 1 MiB alcanza de sobra para cualquier interacción.
const maxBodyBytes = 1 << 20

type Config struct {
	PublicKey ed25519.PublicKey
	AppID     string
	// NewRegistrar es nil cuando falta token o client id.
	NewRegistrar func() (discord.CommandRegistrar, error)
	QueueBackend string
}

type Server struct {
	router *discord.Router
	lookup *service.LookupService
	cfg    Config
	log    *slog.Logger
	mux    *http.ServeMux
	now    func() time.Time
}

func New(router *discord.Router, lookup *service.LookupService, cfg Config, log *slog.Logger) *Server {
	if log == nil {
		log = slog.Default()
	}
	s := &Server{router: router, lookup: lookup, cfg: cfg, log: log, mux: http.NewServeMux(), now: time.Now}
	s.routes()
	return s
}

func (s *Server) routes() {
	s.mux.HandleFunc("/api/health", s.handleHealth)
	s.mux.HandleFunc("/api/discord/commands", s.handleCommands)
	s.mux.HandleFunc("/api/discord/interactions", s.handleInteractions)
	s.mux.HandleFunc("/api/music/search", cors(s.handleSearch))
	s.mux.HandleFunc("/api/music/info", cors(s.handleInfo))
}

// Handler es el mismo para el server local y para Lambda.
func (s *Server) Handler() http.Handler {
	return s.withRequest(s.mux)
}

// Start escucha hasta que ctx se cancela y luego hace shutdown ordenado.
func (s *Server) Start(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	errc := make(chan error, 1)
	go func() { errc <- srv.ListenAndServe() }()
	s.log.Info("🌐 HTTP listening", "addr", addr)

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	sctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	s.log.Info("shutting down http server")
	return srv.Shutdown(sctx)
}
