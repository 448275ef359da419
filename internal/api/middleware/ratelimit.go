package middleware

import (
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"github.com/d60-Lab/blog-admin/pkg/response"
)

// IPRateLimiter 按客户端 IP 的令牌桶
type IPRateLimiter struct {
	mu       sync.Mutex
	limiters map[string]*ipLimiter
	rps      rate.Limit
	burst    int
	idle     time.Duration
}

type ipLimiter struct {
	lim  *rate.Limiter
	seen time.Time
}

func NewIPRateLimiter(rps float64, burst int) *IPRateLimiter {
	return &IPRateLimiter{
		limiters: make(map[string]*ipLimiter),
		rps:      rate.Limit(rps),
		burst:    burst,
		idle:     10 * time.Minute,
	}
}

func (rl *IPRateLimiter) Allow(ip string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	l, ok := rl.limiters[ip]
	if !ok {
		// 顺带清理长时间没有请求的 IP
		for k, v := range rl.limiters {
			if now.Sub(v.seen) > rl.idle {
				delete(rl.limiters, k)
			}
		}
		l = &ipLimiter{lim: rate.NewLimiter(rl.rps, rl.burst)}
		rl.limiters[ip] = l
	}
	l.seen = now
	return l.lim.AllowN(now, 1)
}

func RateLimit(rl *IPRateLimiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !rl.Allow(c.ClientIP()) {
			response.TooManyRequests(c)
			return
		}
		c.Next()
	}
}
