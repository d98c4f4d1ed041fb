package runtimeconfig

import (
	"errors"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// ErrDefaultLocaleRequired indicates the module cannot scope fetches without a locale.
var ErrDefaultLocaleRequired = errors.New("overlay config: default locale is required")

// ErrCacheTTLInvalid rejects negative cache lifetimes.
var ErrCacheTTLInvalid = errors.New("overlay config: cache ttl must be zero or positive")
var ErrLoggingLevelInvalid = errors.New("overlay config: logging level is invalid")
var ErrLoggingFormatInvalid = errors.New("overlay config: logging format is invalid")

// Config aggregates toggles and adapter bindings for the overlay module.
// Fields intentionally use simple types so host applications can extend them later.
type Config struct {
	DefaultLocale string
	RTLLocales    []string
	Cache         CacheConfig
	Logging       LoggingConfig
	Sanitizer     SanitizerConfig
}

// CacheConfig captures repository cache behaviour toggles.
type CacheConfig struct {
	Enabled    bool
	DefaultTTL time.Duration
}

// LoggingConfig selects the logger provider behaviour.
type LoggingConfig struct {
	Enabled   bool
	Level     string
	Format    string
	AddSource bool
}

// SanitizerConfig controls write-path sanitization of captured markup.
type SanitizerConfig struct {
	Enabled bool
	Strict  bool
}

// DefaultConfig returns the configuration used when the host supplies none.
func DefaultConfig() Config {
	return Config{
		DefaultLocale: "en",
		RTLLocales:    []string{"ar", "he"},
		Cache: CacheConfig{
			Enabled:    false,
			DefaultTTL: 5 * time.Minute,
		},
		Logging: LoggingConfig{
			Enabled: true,
			Level:   "info",
			Format:  "json",
		},
		Sanitizer: SanitizerConfig{
			Enabled: true,
		},
	}
}

// Validate enforces config invariants before the container wires anything.
func (c Config) Validate() error {
	if err := validation.ValidateStruct(&c,
		validation.Field(&c.DefaultLocale, validation.Required.Error(ErrDefaultLocaleRequired.Error())),
	); err != nil {
		return err
	}
	if c.Cache.DefaultTTL < 0 {
		return ErrCacheTTLInvalid
	}
	if c.Logging.Enabled {
		switch c.Logging.Level {
		case "", "trace", "debug", "info", "warn", "warning", "error", "fatal":
		default:
			return ErrLoggingLevelInvalid
		}
		switch c.Logging.Format {
		case "", "json", "console", "pretty":
		default:
			return ErrLoggingFormatInvalid
		}
	}
	return nil
}
