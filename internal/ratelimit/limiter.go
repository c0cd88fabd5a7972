// Package ratelimit paces outbound Drive API calls with a token bucket.
package ratelimit

import (
	"context"
	"sync"
	"time"

	"github.com/videogen/outputs-preview/internal/logging"
)

// RateLimiter implements a token bucket rate limiter.
// It allows bursts up to maxTokens, then refills at refillRate tokens/second.
// A cooldown blocks every caller until it expires regardless of tokens.
type RateLimiter struct {
	tokens        float64   // Current number of tokens available
	maxTokens     float64   // Maximum bucket capacity
	refillRate    float64   // Tokens added per second
	lastRefill    time.Time // Last time tokens were refilled
	cooldownUntil time.Time
	lastWarnTime  time.Time
	logger        *logging.Logger
	mu            sync.Mutex
}

// NewRateLimiter creates a new rate limiter with a full bucket.
func NewRateLimiter(tokensPerSecond, burstSize float64, logger *logging.Logger) *RateLimiter {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &RateLimiter{
		tokens:     burstSize,
		maxTokens:  burstSize,
		refillRate: tokensPerSecond,
		lastRefill: time.Now(),
		logger:     logger,
	}
}

// NewDriveRateLimiter creates the limiter shared by every Drive call of a process.
func NewDriveRateLimiter(logger *logging.Logger) *RateLimiter {
	return NewRateLimiter(DriveRatePerSec, DriveBurstCapacity, logger)
}

// Wait blocks until a token is available or ctx is cancelled.
func (rl *RateLimiter) Wait(ctx context.Context) error {
	startTime := time.Now()

	for {
		if d := rl.CooldownRemaining(); d > 0 {
			rl.warn(d)
			if err := sleep(ctx, d); err != nil {
				return err
			}
			continue
		}

		if rl.tryAcquire() {
			if waited := time.Since(startTime); waited > 5*time.Second {
				rl.logger.Info().Dur("waited", waited).Msg("Rate limit wait completed")
			}
			return nil
		}

		d := rl.timeUntilNextToken()
		rl.warn(d)
		if err := sleep(ctx, d); err != nil {
			return err
		}
	}
}

// SetCooldown blocks all callers for d. A shorter cooldown never replaces a
// longer one that is already running.
func (rl *RateLimiter) SetCooldown(d time.Duration) {
	if d > MaxCooldown {
		d = MaxCooldown
	}
	rl.mu.Lock()
	defer rl.mu.Unlock()

	until := time.Now().Add(d)
	if until.After(rl.cooldownUntil) {
		rl.cooldownUntil = until
	}
}

// CooldownRemaining returns how long the current cooldown has left.
func (rl *RateLimiter) CooldownRemaining() time.Duration {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	if d := time.Until(rl.cooldownUntil); d > 0 {
		return d
	}
	return 0
}

// GetCurrentTokens returns the current number of tokens (for testing/debugging).
func (rl *RateLimiter) GetCurrentTokens() float64 {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	rl.refill(time.Now())
	return rl.tokens
}

// tryAcquire attempts to acquire one token without blocking.
func (rl *RateLimiter) tryAcquire() bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	rl.refill(time.Now())
	if rl.tokens >= 1.0 {
		rl.tokens -= 1.0
		return true
	}
	return false
}

// refill must be called with mu held.
func (rl *RateLimiter) refill(now time.Time) {
	rl.tokens += now.Sub(rl.lastRefill).Seconds() * rl.refillRate
	if rl.tokens > rl.maxTokens {
		rl.tokens = rl.maxTokens
	}
	rl.lastRefill = now
}

// timeUntilNextToken calculates how long to wait until at least one token is available.
func (rl *RateLimiter) timeUntilNextToken() time.Duration {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	tokensNeeded := 1.0 - rl.tokens
	if tokensNeeded <= 0 {
		return 0
	}
	return time.Duration(tokensNeeded / rl.refillRate * float64(time.Second))
}

func (rl *RateLimiter) warn(wait time.Duration) {
	if wait <= warnThreshold {
		return
	}
	rl.mu.Lock()
	defer rl.mu.Unlock()

	if time.Since(rl.lastWarnTime) > warnInterval {
		rl.logger.Warn().Dur("wait", wait).Msg("Rate limited: waiting for Drive API capacity")
		rl.lastWarnTime = time.Now()
	}
}

func sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
