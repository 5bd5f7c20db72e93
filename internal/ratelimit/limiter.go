// Package ratelimit throttles mutating requests per user and per client IP.
package ratelimit

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"
)

// Config holds rate limit configuration.
type Config struct {
	Window     time.Duration // Counting window (default: 1m)
	MaxPerUser int           // Max requests per user per window (default: 30)
	MaxPerIP   int           // Max requests per client IP per window (default: 120)

	// Clock for testing (nil uses real time)
	Clock clockwork.Clock
}

// DefaultConfig returns production-ready defaults.
func DefaultConfig() *Config {
	return &Config{
		Window:     time.Minute,
		MaxPerUser: 30,
		MaxPerIP:   120,
	}
}

// LimitResult contains the result of a rate limit check.
type LimitResult struct {
	Allowed    bool
	RetryAfter time.Duration
	Reason     string // For logging
}

// entry tracks the request count of one fixed window.
type entry struct {
	count   int
	firstAt time.Time
	lastAt  time.Time
}

type Limiter struct {
	config *Config
	clock  clockwork.Clock
	mu     sync.Mutex
	// Keyed by hash of user id or IP
	byUser map[string]*entry
	byIP   map[string]*entry

	// Cleanup goroutine management
	cleanupCtx    context.Context
	cleanupCancel context.CancelFunc
	cleanupOnce   sync.Once
	cleanupWg     sync.WaitGroup
}

// New creates a new rate limiter with the given config. Zero fields take
// the defaults.
func New(cfg *Config) *Limiter {
	defaults := DefaultConfig()
	if cfg == nil {
		cfg = defaults
	}
	if cfg.Window <= 0 {
		cfg.Window = defaults.Window
	}
	if cfg.MaxPerUser <= 0 {
		cfg.MaxPerUser = defaults.MaxPerUser
	}
	if cfg.MaxPerIP <= 0 {
		cfg.MaxPerIP = defaults.MaxPerIP
	}
	clock := cfg.Clock
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Limiter{
		config:        cfg,
		clock:         clock,
		byUser:        make(map[string]*entry),
		byIP:          make(map[string]*entry),
		cleanupCtx:    ctx,
		cleanupCancel: cancel,
	}
}

// Close stops the cleanup goroutine and releases resources.
func (l *Limiter) Close() {
	l.cleanupCancel()
	l.cleanupWg.Wait()
}

// Allow checks both limits and, when the request passes, counts it against
// both. Rejected requests are not counted.
func (l *Limiter) Allow(userID, ip string) LimitResult {
	l.startCleanup()
	now := l.clock.Now()
	userKey := hashKey("user:", strings.TrimSpace(userID))
	ipKey := hashKey("ip:", ip)

	l.mu.Lock()
	defer l.mu.Unlock()

	if result := l.check(l.byUser[userKey], l.config.MaxPerUser, now, "user_limit"); !result.Allowed {
		return result
	}
	if result := l.check(l.byIP[ipKey], l.config.MaxPerIP, now, "ip_limit"); !result.Allowed {
		return result
	}

	l.record(l.byUser, userKey, now)
	l.record(l.byIP, ipKey, now)
	return LimitResult{Allowed: true}
}

func (l *Limiter) check(e *entry, max int, now time.Time, reason string) LimitResult {
	if e == nil {
		return LimitResult{Allowed: true}
	}
	elapsed := now.Sub(e.firstAt)
	if elapsed < l.config.Window && e.count >= max {
		return LimitResult{
			Allowed:    false,
			RetryAfter: l.config.Window - elapsed,
			Reason:     reason,
		}
	}
	return LimitResult{Allowed: true}
}

func (l *Limiter) record(entries map[string]*entry, key string, now time.Time) {
	e := entries[key]
	if e == nil || now.Sub(e.firstAt) >= l.config.Window {
		entries[key] = &entry{count: 1, firstAt: now, lastAt: now}
		return
	}
	e.count++
	e.lastAt = now
}

func hashKey(prefix, value string) string {
	hash := sha256.Sum256([]byte(value))
	return prefix + hex.EncodeToString(hash[:8])
}

func (l *Limiter) startCleanup() {
	l.cleanupOnce.Do(func() {
		l.cleanupWg.Add(1)
		go func() {
			defer l.cleanupWg.Done()
			ticker := l.clock.NewTicker(5 * time.Minute)
			defer ticker.Stop()
			for {
				select {
				case <-l.cleanupCtx.Done():
					return
				case <-ticker.Chan():
					l.cleanup()
				}
			}
		}()
	})
}

func (l *Limiter) cleanup() {
	now := l.clock.Now()
	l.mu.Lock()
	defer l.mu.Unlock()

	for _, entries := range []map[string]*entry{l.byUser, l.byIP} {
		for k, e := range entries {
			if now.Sub(e.lastAt) > l.config.Window {
				delete(entries, k)
			}
		}
	}
}

// size reports the number of tracked keys.
func (l *Limiter) size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.byUser) + len(l.byIP)
}

// GetClientIP extracts the client IP from a request.
// When trustProxy is true, uses the rightmost public IP from X-Forwarded-For.
// When trustProxy is false, ignores forwarding headers entirely.
func GetClientIP(r *http.Request, trustProxy bool) string {
	if trustProxy {
		if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
			// Rightmost entries are appended by our own proxies.
			parts := strings.Split(xff, ",")
			for i := len(parts) - 1; i >= 0; i-- {
				ip := strings.TrimSpace(parts[i])
				if ip != "" && !isPrivateIP(ip) {
					return ip
				}
			}
			return strings.TrimSpace(parts[len(parts)-1])
		}

		if xri := r.Header.Get("X-Real-IP"); xri != "" {
			return strings.TrimSpace(xri)
		}
	}

	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}

var privateNetworks = mustParseCIDRs(
	"10.0.0.0/8",
	"172.16.0.0/12",
	"192.168.0.0/16",
	"127.0.0.0/8",
	"::1/128",
	"fc00::/7",
	"fe80::/10",
)

func mustParseCIDRs(cidrs ...string) []*net.IPNet {
	networks := make([]*net.IPNet, 0, len(cidrs))
	for _, cidr := range cidrs {
		_, network, err := net.ParseCIDR(cidr)
		if err != nil {
			panic("invalid private CIDR: " + cidr)
		}
		networks = append(networks, network)
	}
	return networks
}

// isPrivateIP also matches IPv4-mapped IPv6 addresses.
func isPrivateIP(ipStr string) bool {
	ip := net.ParseIP(ipStr)
	if ip == nil {
		return false
	}
	if ipv4 := ip.To4(); ipv4 != nil {
		ip = ipv4
	}
	for _, network := range privateNetworks {
		if network.Contains(ip) {
			return true
		}
	}
	return false
}

// LogRateLimitExceeded logs a rejected request.
func LogRateLimitExceeded(ctx context.Context, userID, ip string, result LimitResult) {
	log.Ctx(ctx).Warn().
		Str("event", "rate_limit_exceeded").
		Str("user_id", userID).
		Str("ip", ip).
		Str("reason", result.Reason).
		Dur("retry_after", result.RetryAfter).
		Msg("Write rate limit exceeded")
}
