// Package config loads the small set of process-scope settings the
// engine consults once per pass: date-format preference, the
// multi-value stats separator, antimode display budget, string display
// cap, memory headroom, and a default delimiter override.
package config

import (
	"os"
	"strconv"
	"sync"

	"colstats/domain/field"
	"colstats/internal/errors"

	"github.com/joho/godotenv"
)

// DatePreference selects how an ambiguous D/M vs M/D date token is
// resolved during calendar parsing.
type DatePreference int

const (
	MonthFirst DatePreference = iota
	DayFirst
)

// Config holds the environment-derived settings shared across a pass.
// It is loaded once (see Load) and treated as read-only thereafter.
type Config struct {
	DatePreference     DatePreference
	StatsSeparator     string
	AntimodeByteBudget int
	StringDisplayCap   int
	MemoryHeadroomPct  int
	DefaultDelimiter   rune
	BoolPatterns       []field.BoolPattern
}

var (
	once    sync.Once
	loaded  *Config
	loadErr error
)

// Load reads configuration from environment variables, applying
// defaults for anything unset. It is idempotent: the first call reads
// the environment and caches the result for the lifetime of the
// process, matching the once-per-pass initialization the engine
// expects.
func Load() (*Config, error) {
	once.Do(func() {
		_ = godotenv.Load() // optional .env; absence is not an error

		cfg := &Config{
			DatePreference:     parseDatePreference(getEnvOrDefault("COLSTATS_DATE_PREFERENCE", "month")),
			StatsSeparator:     getEnvOrDefault("COLSTATS_STATS_SEPARATOR", "|"),
			AntimodeByteBudget: getEnvIntOrDefault("COLSTATS_ANTIMODE_BYTE_BUDGET", 100),
			StringDisplayCap:   getEnvIntOrDefault("COLSTATS_STRING_DISPLAY_CAP", 100),
			MemoryHeadroomPct:  getEnvIntOrDefault("COLSTATS_MEMORY_HEADROOM_PCT", 20),
			DefaultDelimiter:   ',',
			BoolPatterns:       field.DefaultBoolPatterns,
		}

		if d := os.Getenv("COLSTATS_DELIMITER"); d != "" {
			r := []rune(d)
			cfg.DefaultDelimiter = r[0]
		}

		if p := os.Getenv("COLSTATS_BOOL_PATTERN"); p != "" {
			if bp, ok := field.ParseBoolPattern(p); ok {
				cfg.BoolPatterns = append([]field.BoolPattern{bp}, field.DefaultBoolPatterns...)
			} else {
				loadErr = errors.UsageError("invalid COLSTATS_BOOL_PATTERN, expected \"true:false\"")
				return
			}
		}

		if cfg.AntimodeByteBudget < 0 {
			loadErr = errors.UsageError("COLSTATS_ANTIMODE_BYTE_BUDGET must be >= 0")
			return
		}
		if cfg.MemoryHeadroomPct < 0 || cfg.MemoryHeadroomPct > 100 {
			loadErr = errors.UsageError("COLSTATS_MEMORY_HEADROOM_PCT must be within [0, 100]")
			return
		}

		loaded = cfg
	})
	return loaded, loadErr
}

func parseDatePreference(s string) DatePreference {
	if s == "day" {
		return DayFirst
	}
	return MonthFirst
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}
