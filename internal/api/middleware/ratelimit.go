package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"github.com/d60-Lab/techblog/pkg/response"
)

// ipLimiter 按客户端 IP 的令牌桶集合，闲置桶定期回收。
type ipLimiter struct {
	mu      sync.Mutex
	buckets map[string]*bucketEntry
	r       rate.Limit
	burst   int
}

type bucketEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

func newIPLimiter(r rate.Limit, burst int) *ipLimiter {
	l := &ipLimiter{buckets: make(map[string]*bucketEntry), r: r, burst: burst}
	go l.gcLoop()
	return l
}

func (l *ipLimiter) get(ip string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()
	e, ok := l.buckets[ip]
	if !ok {
		e = &bucketEntry{limiter: rate.NewLimiter(l.r, l.burst)}
		l.buckets[ip] = e
	}
	e.lastSeen = time.Now()
	return e.limiter
}

func (l *ipLimiter) gcLoop() {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()
	for range ticker.C {
		cutoff := time.Now().Add(-10 * time.Minute)
		l.mu.Lock()
		for ip, e := range l.buckets {
			if e.lastSeen.Before(cutoff) {
				delete(l.buckets, ip)
			}
		}
		l.mu.Unlock()
	}
}

// RateLimit 按 IP 限流：每秒 r 个请求、突发 burst。
// 写接口（留言、注册、下单）挂这个挡脚本。
func RateLimit(r float64, burst int) gin.HandlerFunc {
	limiter := newIPLimiter(rate.Limit(r), burst)
	return func(c *gin.Context) {
		if !limiter.get(c.ClientIP()).Allow() {
			response.Error(c, http.StatusTooManyRequests, "too many requests")
			c.Abort()
			return
		}
		c.Next()
	}
}
