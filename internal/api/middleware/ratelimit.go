package middleware

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"github.com/d60-Lab/shelf/pkg/response"
)

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter keeps one token bucket per client key (user id or IP).
type RateLimiter struct {
	mu       sync.Mutex
	visitors map[string]*visitor
	rps      rate.Limit
	burst    int
	idle     time.Duration
}

func NewRateLimiter(rps float64, burst int) *RateLimiter {
	if burst <= 0 {
		burst = 1
	}
	return &RateLimiter{visitors: map[string]*visitor{}, rps: rate.Limit(rps), burst: burst, idle: 3 * time.Minute}
}

func (l *RateLimiter) allow(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	v, ok := l.visitors[key]
	if !ok {
		v = &visitor{limiter: rate.NewLimiter(l.rps, l.burst)}
		l.visitors[key] = v
	}
	v.lastSeen = time.Now()
	return v.limiter.Allow()
}

// StartSweeper evicts idle visitors until the returned stop func is called.
func (l *RateLimiter) StartSweeper(every time.Duration) func() {
	stop := make(chan struct{})
	go func() {
		ticker := time.NewTicker(every)
		defer ticker.Stop()
		for {
			select {
			case <-stop:
				return
			case <-ticker.C:
				l.sweep()
			}
		}
	}()
	var once sync.Once
	return func() { once.Do(func() { close(stop) }) }
}

func (l *RateLimiter) sweep() {
	l.mu.Lock()
	defer l.mu.Unlock()
	for k, v := range l.visitors {
		if time.Since(v.lastSeen) > l.idle {
			delete(l.visitors, k)
		}
	}
}

// Middleware 超限返回 429
func (l *RateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		key := "ip:" + c.ClientIP()
		if id, ok := CurrentUserID(c); ok {
			key = "user:" + strconv.FormatInt(id, 10)
		}
		if !l.allow(key) {
			c.AbortWithStatusJSON(http.StatusTooManyRequests,
				response.Response{Code: http.StatusTooManyRequests, Message: "too many requests"})
			return
		}
		c.Next()
	}
}
