// timing.go - Drive call timing for diagnostics.
//
// Enable timing output by setting PREVIEW_TIMING=1.
// Output format: [TIMING] phase_name: duration (optional_details)
//
// Example output:
//
//	[TIMING] Token exchange: 212ms
//	[TIMING] List children 1AbC: 180ms
//	[TIMING] Download 1XyZ: 1.4s (total 12.3 MB at 8.8 MB/s)
package drive

import (
	"fmt"
	"io"
	"os"
	"sync/atomic"
	"time"
)

// EnvTiming enables [TIMING] lines when set to "1".
const EnvTiming = "PREVIEW_TIMING"

// TimingEnabled returns true if PREVIEW_TIMING=1 is set.
func TimingEnabled() bool {
	return os.Getenv(EnvTiming) == "1"
}

// Timer tracks elapsed time for a named phase.
// Stop can be called more than once; only the first call logs.
type Timer struct {
	name    string
	start   time.Time
	w       io.Writer
	stopped int32 // atomic flag
}

// StartTimer creates a new timer. os.Stderr is used if w is nil.
func StartTimer(w io.Writer, name string) *Timer {
	if w == nil {
		w = os.Stderr
	}
	return &Timer{
		name:  name,
		start: time.Now(),
		w:     w,
	}
}

// Stop logs the elapsed time and returns it.
func (t *Timer) Stop() time.Duration {
	elapsed := time.Since(t.start)
	if atomic.CompareAndSwapInt32(&t.stopped, 0, 1) && TimingEnabled() {
		fmt.Fprintf(t.w, "[TIMING] %s: %v\n", t.name, elapsed)
	}
	return elapsed
}

// StopWithThroughput logs elapsed time with the transfer rate for bytes.
func (t *Timer) StopWithThroughput(bytes int64) time.Duration {
	elapsed := time.Since(t.start)
	if atomic.CompareAndSwapInt32(&t.stopped, 0, 1) && TimingEnabled() {
		bytesPerSec := float64(bytes) / elapsed.Seconds()
		fmt.Fprintf(t.w, "[TIMING] %s: %v (total %s at %s)\n",
			t.name, elapsed, FormatBytes(bytes), FormatSpeed(bytesPerSec))
	}
	return elapsed
}

// FormatBytes returns a human-readable byte count.
func FormatBytes(bytes int64) string {
	const unit = 1024
	if bytes < unit {
		return fmt.Sprintf("%d B", bytes)
	}
	div, exp := int64(unit), 0
	for n := bytes / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(bytes)/float64(div), "KMGTPE"[exp])
}

// FormatSpeed returns a human-readable speed in bytes/second.
func FormatSpeed(bytesPerSec float64) string {
	if bytesPerSec < 1024 {
		return fmt.Sprintf("%.1f B/s", bytesPerSec)
	}
	if bytesPerSec < 1024*1024 {
		return fmt.Sprintf("%.1f KB/s", bytesPerSec/1024)
	}
	return fmt.Sprintf("%.1f MB/s", bytesPerSec/(1024*1024))
}
