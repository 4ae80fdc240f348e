// Package ratelimit implements a sliding fixed-window rate limiter with a
// swappable backing store.
package ratelimit

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/aitoolhub/search-service/logger"
)

const unknownIdentifier = "unknown"

type Config struct {
	MaxRequests int
	Window      time.Duration
}

// Per-endpoint-class presets, expressed as requests per minute.
var (
	Public       = Config{MaxRequests: 60, Window: time.Minute}
	Search       = Config{MaxRequests: 30, Window: time.Minute}
	Heavy        = Config{MaxRequests: 10, Window: time.Minute}
	Autocomplete = Config{MaxRequests: 120, Window: time.Minute}
)

type Result struct {
	Allowed    bool
	Remaining  int
	ResetAt    time.Time
	RetryAfter time.Duration // zero when allowed
}

type Limiter struct {
	store  Store
	logger logger.Logger
}

func New(store Store, logger logger.Logger) *Limiter {
	return &Limiter{store: store, logger: logger}
}

// Check records one request for identifier and reports whether it is within
// the configured window budget. It never fails a request on store trouble:
// a broken store admits the request and logs.
func (l *Limiter) Check(ctx context.Context, identifier string, cfg Config) Result {
	count, resetAt, err := l.store.Increment(ctx, identifier, cfg.Window)
	if err != nil {
		l.logger.Warn("rate limit store unavailable, admitting request", "err", err.Error())
		return Result{Allowed: true, Remaining: cfg.MaxRequests - 1, ResetAt: time.Now().Add(cfg.Window)}
	}

	remaining := cfg.MaxRequests - count
	if remaining < 0 {
		remaining = 0
	}

	if count > cfg.MaxRequests {
		retryAfter := time.Until(resetAt)
		if retryAfter < time.Second {
			retryAfter = time.Second
		}
		return Result{Allowed: false, Remaining: 0, ResetAt: resetAt, RetryAfter: retryAfter}
	}

	return Result{Allowed: true, Remaining: remaining, ResetAt: resetAt}
}

// ClientIdentifier resolves the identity a request is budgeted under:
// caller override, first forwarded-for hop, real-ip header, and finally a
// shared bucket for traffic with no attributable address.
func ClientIdentifier(override string, header http.Header) string {
	if len(override) > 0 {
		return override
	}

	if forwarded := header.Get("X-Forwarded-For"); len(forwarded) > 0 {
		first, _, _ := strings.Cut(forwarded, ",")
		if first = strings.TrimSpace(first); len(first) > 0 {
			return first
		}
	}

	if realIP := strings.TrimSpace(header.Get("X-Real-IP")); len(realIP) > 0 {
		return realIP
	}

	return unknownIdentifier
}
