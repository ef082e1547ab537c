package discord

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// maxTracked: tope de usuarios en memoria antes de resetear el mapa.
const maxTracked = 10_000

// userLimiter: token bucket por usuario (por instancia, no global).
type userLimiter struct {
	mu    sync.Mutex
	users map[string]*rate.Limiter
	every rate.Limit
	burst int
}

// newUserLimiter: perMinute <= 0 desactiva el límite.
func newUserLimiter(perMinute int) *userLimiter {
	if perMinute <= 0 {
		return nil
	}
	return &userLimiter{
		users: map[string]*rate.Limiter{},
		every: rate.Every(time.Minute / time.Duration(perMinute)),
		burst: perMinute,
	}
}

func (l *userLimiter) Allow(userID string) bool {
	if l == nil {
		return true
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	lim, ok := l.users[userID]
	if !ok {
		if len(l.users) >= maxTracked {
			l.users = map[string]*rate.Limiter{}
		}
		lim = rate.NewLimiter(l.every, l.burst)
		l.users[userID] = lim
	}
	return lim.Allow()
}
