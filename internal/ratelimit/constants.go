package ratelimit

import "time"

// Drive API quota
//
// Drive allows 12,000 queries per 60 seconds per user. Every files.list page
// and every media download counts as one query. The limiter targets a small
// fraction of that because a single browser process only needs a few dozen
// calls per search pass.
const (
	// DriveRatePerSec is the steady-state request rate.
	DriveRatePerSec = 10.0

	// DriveBurstCapacity lets a full pass over every prompt folder start
	// without waiting.
	DriveBurstCapacity = 100.0

	// DefaultCooldown is applied after a rate-limit response that carries no
	// Retry-After header.
	DefaultCooldown = 5 * time.Second

	// MaxCooldown caps server-requested cooldowns.
	MaxCooldown = 60 * time.Second

	// warnThreshold is the expected wait above which Wait logs a warning.
	warnThreshold = 2 * time.Second

	// warnInterval limits rate-limit warnings to one per interval.
	warnInterval = 10 * time.Second
)
