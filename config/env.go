package config

import (
	"fmt"
	"os"
)

// Environment variables read by ApplyEnv.
const (
	EnvDataDir  = "KLINGSEED_DATADIR"
	EnvLocale   = "KLINGSEED_LOCALE"
	EnvWords    = "KLINGSEED_WORDS"
	EnvLogLevel = "KLINGSEED_LOG_LEVEL"
)

var envKeys = []struct {
	env string
	key string
}{
	{EnvDataDir, "datadir"},
	{EnvLocale, "locale"},
	{EnvWords, "words"},
	{EnvLogLevel, "log.level"},
}

// ApplyEnv applies KLINGSEED_* environment overrides. Empty variables are
// treated as unset.
func ApplyEnv(cfg *Config) error {
	for _, e := range envKeys {
		value, ok := os.LookupEnv(e.env)
		if !ok || value == "" {
			continue
		}
		if err := setConfigValue(cfg, e.key, value); err != nil {
			return fmt.Errorf("%s: %w", e.env, err)
		}
	}
	return nil
}
