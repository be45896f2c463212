package middleware

import (
	"fmt"
	"net/http"
	"time"

	"github.com/codemastery/codemastery-api/application/port/inbound"
	"github.com/codemastery/codemastery-api/infrastructure/http/response"
	"github.com/codemastery/codemastery-api/infrastructure/service/logger"
)

// RateLimitRule caps requests per client IP for one route group.
type RateLimitRule struct {
	Name          string
	Limit         int
	Window        time.Duration
	BlockDuration time.Duration
}

var (
	RefreshRateLimit = RateLimitRule{Name: "refresh", Limit: 30, Window: time.Hour, BlockDuration: 15 * time.Minute}
	GeneralRateLimit = RateLimitRule{Name: "general", Limit: 100, Window: time.Minute, BlockDuration: 5 * time.Minute}
)

type RateLimitMiddleware struct {
	rateLimitService inbound.RateLimitService
	logger           logger.Logger
}

func NewRateLimitMiddleware(rateLimitService inbound.RateLimitService, logger logger.Logger) *RateLimitMiddleware {
	return &RateLimitMiddleware{
		rateLimitService: rateLimitService,
		logger:           logger,
	}
}

// Limit fails open: a rate limiter outage never rejects traffic.
func (m *RateLimitMiddleware) Limit(rule RateLimitRule) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if m.rateLimitService == nil {
				next.ServeHTTP(w, r)
				return
			}

			ctx := r.Context()
			clientIP := ClientIP(r)
			key := fmt.Sprintf("%s:ip:%s", rule.Name, clientIP)
			fields := map[string]interface{}{
				"ip":   clientIP,
				"path": r.URL.Path,
				"key":  key,
			}

			blocked, err := m.rateLimitService.IsBlocked(ctx, key)
			if err != nil {
				m.logger.Error(ctx, "Failed to check block status", err, fields)
			}
			if blocked {
				logger.LogSecurityEvent(ctx, m.logger, "rate_limit_blocked", "MEDIUM", fields)
				w.Header().Set("Retry-After", fmt.Sprintf("%d", int(rule.BlockDuration.Seconds())))
				response.TooManyRequests(w, "Too many requests. Please try again later.")
				return
			}

			allowed, err := m.rateLimitService.CheckLimit(ctx, key, rule.Limit, rule.Window)
			if err != nil {
				m.logger.Error(ctx, "Failed to check rate limit", err, fields)
				allowed = true
			}
			if !allowed {
				if err := m.rateLimitService.Block(ctx, key, rule.BlockDuration, "Rate limit exceeded"); err != nil {
					m.logger.Error(ctx, "Failed to block IP", err, fields)
				}
				logger.LogSecurityEvent(ctx, m.logger, "rate_limit_exceeded", "HIGH", fields)
				w.Header().Set("Retry-After", fmt.Sprintf("%d", int(rule.BlockDuration.Seconds())))
				response.TooManyRequests(w, "Too many requests. Please try again later.")
				return
			}

			if err := m.rateLimitService.Increment(ctx, key, rule.Window); err != nil {
				m.logger.Error(ctx, "Failed to increment rate limit", err, fields)
			}

			next.ServeHTTP(w, r)
		})
	}
}
