package runtimeconfig

import (
	"errors"
	"testing"
)

func TestDefaultConfigIsValid(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("DefaultConfig().Validate() error = %v", err)
	}
	if cfg.DefaultLocale != "en" {
		t.Fatalf("DefaultLocale = %q", cfg.DefaultLocale)
	}
	if len(cfg.RTLLocales) != 2 {
		t.Fatalf("RTLLocales = %v", cfg.RTLLocales)
	}
}

func TestValidate_RequiresDefaultLocale(t *testing.T) {
	cfg := DefaultConfig()
	cfg.DefaultLocale = ""
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected validation error for missing default locale")
	}
}

func TestValidate_RejectsNegativeCacheTTL(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Cache.DefaultTTL = -1
	if err := cfg.Validate(); !errors.Is(err, ErrCacheTTLInvalid) {
		t.Fatalf("expected ErrCacheTTLInvalid, got %v", err)
	}
}

func TestValidate_RejectsUnknownLoggingLevel(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Logging.Level = "loud"
	if err := cfg.Validate(); !errors.Is(err, ErrLoggingLevelInvalid) {
		t.Fatalf("expected ErrLoggingLevelInvalid, got %v", err)
	}
}

func TestValidate_RejectsUnknownLoggingFormat(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Logging.Format = "xml"
	if err := cfg.Validate(); !errors.Is(err, ErrLoggingFormatInvalid) {
		t.Fatalf("expected ErrLoggingFormatInvalid, got %v", err)
	}
}

func TestValidate_SkipsLoggingChecksWhenDisabled(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Logging.Enabled = false
	cfg.Logging.Format = "xml"
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
}
