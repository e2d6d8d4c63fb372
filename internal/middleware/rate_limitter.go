package middleware

import (
	"UIAnnotator/pkg/handlerUtil"
	"UIAnnotator/pkg/log"
	"UIAnnotator/pkg/response"
	"github.com/gofiber/fiber/v2"
	"golang.org/x/time/rate"
	"net/http"
	"sync"
	"time"
)

var (
	ErrTooManyRequests = response.NewError(http.StatusTooManyRequests, "TOO_MANY_REQUESTS", "too many requests")
)

type client struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

type rateLimiter struct {
	bucket    map[string]*client
	rate      rate.Limit
	burstSize int
	mutex     *sync.Mutex
	now       func() time.Time
}

func newRateLimiter(reqRate rate.Limit, burstSize int) *rateLimiter {
	return &rateLimiter{
		bucket:    make(map[string]*client),
		rate:      reqRate,
		burstSize: burstSize,
		mutex:     &sync.Mutex{},
		now:       time.Now,
	}
}

func (r *rateLimiter) GetLimiterFrom(ip string) *rate.Limiter {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	c, exist := r.bucket[ip]
	if !exist {
		c = &client{limiter: rate.NewLimiter(r.rate, r.burstSize)}
		r.bucket[ip] = c
	}
	c.lastSeen = r.now()

	return c.limiter
}

// Prune drops limiters of clients not seen since before and returns how
// many were removed.
func (r *rateLimiter) Prune(before time.Time) int {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	removed := 0
	for ip, c := range r.bucket {
		if c.lastSeen.Before(before) {
			delete(r.bucket, ip)
			removed++
		}
	}
	return removed
}

func (r *rateLimiter) Len() int {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	return len(r.bucket)
}

func (m *middleware) NewRateLimiter(ctx *fiber.Ctx) error {
	clientIP := ctx.IP()
	limiter := m.rateLimitter.GetLimiterFrom(clientIP)

	if !limiter.Allow() {
		m.log.WithFields(logFields(ctx, clientIP)).Warn("Rate limit exceeded")
		return handlerUtil.New(m.log).Handle(ctx, m.GetRequestID(ctx), ErrTooManyRequests, ctx.Path(), "rate_limit")
	}

	return ctx.Next()
}

func logFields(ctx *fiber.Ctx, clientIP string) log.Fields {
	return log.Fields{
		"path":      ctx.Path(),
		"method":    ctx.Method(),
		"client_ip": clientIP,
	}
}

// PruneRateLimiters forgets clients idle for longer than idle.
func (m *middleware) PruneRateLimiters(idle time.Duration) int {
	removed := m.rateLimitter.Prune(m.rateLimitter.now().Add(-idle))
	if removed > 0 {
		m.log.WithField("removed", removed).Debug("Pruned idle rate limiters")
	}
	return removed
}
