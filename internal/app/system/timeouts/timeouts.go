// Package timeouts holds the per-operation deadlines used with
// context.WithTimeout around store calls.
//
//   - Ping: health checks
//   - Short: single-document reads, membership checks
//   - Medium: roster and game lists, single writes
//   - Long: cascading deletes, transactional writes
//   - Export: season summaries and CSV export
package timeouts

import (
	"context"
	"os"
	"sync"
	"time"

	"go.uber.org/zap"
)

const (
	DefaultPing   = 2 * time.Second
	DefaultShort  = 5 * time.Second
	DefaultMedium = 10 * time.Second
	DefaultLong   = 30 * time.Second
	DefaultExport = 60 * time.Second
)

// Config holds deadline overrides. Zero fields keep the current value.
type Config struct {
	Ping   time.Duration
	Short  time.Duration
	Medium time.Duration
	Long   time.Duration
	Export time.Duration
}

var defaults = Config{
	Ping:   DefaultPing,
	Short:  DefaultShort,
	Medium: DefaultMedium,
	Long:   DefaultLong,
	Export: DefaultExport,
}

var (
	mu  sync.RWMutex
	cur = defaults
)

func get(f func(Config) time.Duration) time.Duration {
	mu.RLock()
	defer mu.RUnlock()
	return f(cur)
}

func Ping() time.Duration   { return get(func(c Config) time.Duration { return c.Ping }) }
func Short() time.Duration  { return get(func(c Config) time.Duration { return c.Short }) }
func Medium() time.Duration { return get(func(c Config) time.Duration { return c.Medium }) }
func Long() time.Duration   { return get(func(c Config) time.Duration { return c.Long }) }
func Export() time.Duration { return get(func(c Config) time.Duration { return c.Export }) }

// Configure applies the non-zero fields of cfg. Call it during startup.
func Configure(cfg Config) {
	mu.Lock()
	defer mu.Unlock()
	merge(&cur, cfg)
}

func merge(dst *Config, src Config) {
	for _, p := range []struct {
		dst *time.Duration
		src time.Duration
	}{
		{&dst.Ping, src.Ping},
		{&dst.Short, src.Short},
		{&dst.Medium, src.Medium},
		{&dst.Long, src.Long},
		{&dst.Export, src.Export},
	} {
		if p.src > 0 {
			*p.dst = p.src
		}
	}
}

// Reset restores the defaults.
func Reset() {
	mu.Lock()
	defer mu.Unlock()
	cur = defaults
}

// Current returns a snapshot of the active deadlines.
func Current() Config {
	mu.RLock()
	defer mu.RUnlock()
	return cur
}

// ConfigureFromEnv reads TEAMSTATS_TIMEOUT_{PING,SHORT,MEDIUM,LONG,EXPORT}
// as Go durations. Invalid or non-positive values are skipped. It returns
// how many values were applied.
func ConfigureFromEnv() int {
	var cfg Config
	n := 0
	for _, e := range []struct {
		key string
		dst *time.Duration
	}{
		{"TEAMSTATS_TIMEOUT_PING", &cfg.Ping},
		{"TEAMSTATS_TIMEOUT_SHORT", &cfg.Short},
		{"TEAMSTATS_TIMEOUT_MEDIUM", &cfg.Medium},
		{"TEAMSTATS_TIMEOUT_LONG", &cfg.Long},
		{"TEAMSTATS_TIMEOUT_EXPORT", &cfg.Export},
	} {
		v := os.Getenv(e.key)
		if v == "" {
			continue
		}
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			*e.dst = d
			n++
		}
	}
	Configure(cfg)
	return n
}

// WithTimeout is context.WithTimeout whose cancel func logs a warning when
// the deadline was what ended the operation.
func WithTimeout(parent context.Context, timeout time.Duration, log *zap.Logger, operation string) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithTimeout(parent, timeout)
	return ctx, func() {
		if ctx.Err() == context.DeadlineExceeded && log != nil {
			log.Warn("operation timed out",
				zap.String("operation", operation),
				zap.Duration("timeout", timeout),
			)
		}
		cancel()
	}
}
