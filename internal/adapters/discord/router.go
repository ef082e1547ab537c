package discord

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/jose-valero/discord-music-bot/internal/app/service"
	"github.com/jose-valero/discord-music-bot/internal/infra/logging"
)

var ErrUnknownInteractionType = errors.New("unknown interaction type")

type RouterConfig struct {
	// LookupTimeout acota la búsqueda de /play para contestar dentro de la ventana de 3s.
	LookupTimeout     time.Duration
	PlayRatePerMinute int
}

// Router traduce una interacción ya verificada en su respuesta síncrona.
type Router struct {
	queue   *service.QueueService
	finder  service.TrackFinder
	limiter *userLimiter
	cfg     RouterConfig
	now     func() time.Time
}

func NewRouter(queue *service.QueueService, finder service.TrackFinder, cfg RouterConfig) *Router {
	if cfg.LookupTimeout <= 0 {
		cfg.LookupTimeout = 2500 * time.Millisecond
	}
	return &Router{
		queue:   queue,
		finder:  finder,
		limiter: newUserLimiter(cfg.PlayRatePerMinute),
		cfg:     cfg,
		now:     time.Now,
	}
}

func (r *Router) HandleInteraction(ctx context.Context, ic *discordgo.Interaction) (*discordgo.InteractionResponse, error) {
	switch ic.Type {
	case discordgo.InteractionPing:
		return pong(), nil
	case discordgo.InteractionApplicationCommand:
		return r.handleSlashCommand(ctx, ic), nil
	case discordgo.InteractionMessageComponent:
		return r.handleMessageComponent(ctx, ic), nil
	default:
		return nil, fmt.Errorf("%w: %d", ErrUnknownInteractionType, ic.Type)
	}
}

func (r *Router) timestamp() string {
	return r.now().UTC().Format(time.RFC3339)
}

func (r *Router) logger(ctx context.Context) *slog.Logger {
	return logging.FromContext(ctx)
}
