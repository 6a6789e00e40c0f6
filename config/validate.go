package config

import (
	"fmt"

	klog "github.com/Klingon-tech/klingseed/internal/log"
	"github.com/Klingon-tech/klingseed/internal/wallet"
)

// Validate checks runtime config for operator mistakes and normalizes the
// locale name.
func Validate(cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("config is nil")
	}
	if cfg.DataDir == "" {
		return fmt.Errorf("datadir must not be empty")
	}

	locale, err := wallet.ParseLocale(string(cfg.Locale))
	if err != nil {
		return err
	}
	if _, err := wallet.WordList(locale); err != nil {
		return fmt.Errorf("locale %s: %w", locale, err)
	}
	cfg.Locale = locale

	if _, err := wallet.WordCountFromSize(int(cfg.WordCount)); err != nil {
		return fmt.Errorf("words: %w", err)
	}

	if err := cfg.Vault.KDFParams().Validate(); err != nil {
		return fmt.Errorf("vault.argon2: %w", err)
	}

	if !klog.ValidLevel(cfg.Log.Level) {
		return fmt.Errorf("log.level must be debug, info, warn, or error")
	}
	return nil
}
