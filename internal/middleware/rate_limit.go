package middleware

import (
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/BruksfildServices01/weekly-signup/internal/httperr"
)

// limiterIdle is how long a bucket may go unused before it is dropped. A
// bucket refills completely within a minute, so a dropped one is recreated
// in the same state.
const limiterIdle = 5 * time.Minute

// RateLimiter keeps one token bucket per client IP.
type RateLimiter struct {
	perMin int
	log    *zap.Logger
	now    func() time.Time

	mu        sync.Mutex
	limiters  map[string]*ipLimiter
	lastSweep time.Time
}

type ipLimiter struct {
	lim      *rate.Limiter
	lastSeen time.Time
}

// NewRateLimiter allows perMin requests per minute per IP, with a burst of
// the same size so a drag across a whole day goes through at once.
func NewRateLimiter(perMin int, log *zap.Logger) *RateLimiter {
	if log == nil {
		log = zap.NewNop()
	}
	if perMin < 1 {
		perMin = 1
	}
	return &RateLimiter{
		perMin:    perMin,
		log:       log,
		now:       time.Now,
		limiters:  make(map[string]*ipLimiter),
		lastSweep: time.Now(),
	}
}

func (l *RateLimiter) limiter(ip string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	if now.Sub(l.lastSweep) >= limiterIdle {
		l.sweep(now)
	}

	e, ok := l.limiters[ip]
	if !ok {
		e = &ipLimiter{lim: rate.NewLimiter(rate.Every(time.Minute/time.Duration(l.perMin)), l.perMin)}
		l.limiters[ip] = e
	}
	e.lastSeen = now
	return e.lim
}

// sweep drops buckets idle for limiterIdle or longer. Caller holds mu.
func (l *RateLimiter) sweep(now time.Time) {
	for ip, e := range l.limiters {
		if now.Sub(e.lastSeen) >= limiterIdle {
			delete(l.limiters, ip)
		}
	}
	l.lastSweep = now
}


func (l *RateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		ip := clientIP(c)
		if !l.limiter(ip).Allow() {
			l.log.Warn("rate limit exceeded", zap.String("ip", ip), zap.String("path", c.FullPath()))
			httperr.TooManyRequests(c, "rate_limited", "Too many requests. Try again later.")
			return
		}
		c.Next()
	}
}
