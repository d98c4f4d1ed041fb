package overlay

import "github.com/goliatone/go-overlay/internal/runtimeconfig"

var (
	ErrDefaultLocaleRequired = runtimeconfig.ErrDefaultLocaleRequired
	ErrCacheTTLInvalid       = runtimeconfig.ErrCacheTTLInvalid
	ErrLoggingLevelInvalid   = runtimeconfig.ErrLoggingLevelInvalid
	ErrLoggingFormatInvalid  = runtimeconfig.ErrLoggingFormatInvalid
)

type (
	Config          = runtimeconfig.Config
	CacheConfig     = runtimeconfig.CacheConfig
	LoggingConfig   = runtimeconfig.LoggingConfig
	SanitizerConfig = runtimeconfig.SanitizerConfig
)

func DefaultConfig() Config {
	return runtimeconfig.DefaultConfig()
}
