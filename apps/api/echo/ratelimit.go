package echoapi

import (
	"sync"
	"time"

	"github.com/labstack/echo/v4"
	"golang.org/x/time/rate"
)

type rateLimitClient struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// rateLimiter throttles requests per client IP. It is used on the auth
// endpoints to slow down credential stuffing.
type rateLimiter struct {
	rpm     int
	mu      sync.Mutex
	clients map[string]*rateLimitClient
}

func newRateLimiter(rpm int) *rateLimiter {
	if rpm <= 0 {
		rpm = 10
	}
	return &rateLimiter{
		rpm:     rpm,
		clients: make(map[string]*rateLimitClient),
	}
}

func (rl *rateLimiter) middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			if !rl.get(ctx.RealIP()).limiter.Allow() {
				ctx.Response().Header().Set("Retry-After", "60")
				return errTooManyRequests
			}
			return next(ctx)
		}
	}
}

func (rl *rateLimiter) get(ip string) *rateLimitClient {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	if client, ok := rl.clients[ip]; ok {
		client.lastSeen = time.Now()
		return client
	}

	client := &rateLimitClient{
		limiter:  rate.NewLimiter(rate.Every(time.Minute/time.Duration(rl.rpm)), rl.rpm),
		lastSeen: time.Now(),
	}
	rl.clients[ip] = client
	rl.gcLocked()
	return client
}

// gcLocked evicts stale clients; rl.mu must be held.
func (rl *rateLimiter) gcLocked() {
	if len(rl.clients) < 1000 {
		return
	}
	cutoff := time.Now().Add(-10 * time.Minute)
	for ip, client := range rl.clients {
		if client.lastSeen.Before(cutoff) {
			delete(rl.clients, ip)
		}
	}
}
