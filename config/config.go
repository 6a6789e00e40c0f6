// Package config handles klingseed runtime configuration.
//
// Settings are layered: built-in defaults, then the klingseed.conf file in
// the data directory, then KLINGSEED_* environment variables, then
// command-line flags.
package config

import (
	"os"
	"path/filepath"
	"runtime"

	"github.com/Klingon-tech/klingseed/internal/wallet"
)

// Config holds klingseed runtime configuration.
type Config struct {
	DataDir string `conf:"datadir"`

	// Word list used for new mnemonics.
	Locale wallet.Locale `conf:"locale"`

	// Default mnemonic length for new mnemonics.
	WordCount wallet.WordCount `conf:"words"`

	// Encrypted seed vault
	Vault VaultConfig

	// Logging
	Log LogConfig
}

// VaultConfig holds seed vault settings.
type VaultConfig struct {
	Dir        string `conf:"vault.dir"`            // Empty means <datadir>/vault
	KDFMemory  uint32 `conf:"vault.argon2.memory"`  // KiB
	KDFTime    uint32 `conf:"vault.argon2.time"`    // Passes
	KDFThreads uint8  `conf:"vault.argon2.threads"` // Lanes
}

// KDFParams returns the Argon2id parameters for new vault entries.
func (v VaultConfig) KDFParams() wallet.KDFParams {
	return wallet.KDFParams{
		Memory:  v.KDFMemory,
		Time:    v.KDFTime,
		Threads: v.KDFThreads,
	}
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level string `conf:"log.level"`
	File  string `conf:"log.file"`
	JSON  bool   `conf:"log.json"`
}

// DefaultDataDir returns the platform-specific default data directory.
//
//	Linux:   ~/.klingseed
//	macOS:   ~/Library/Application Support/Klingseed
//	Windows: %APPDATA%\Klingseed
func DefaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".klingseed"
	}
	switch runtime.GOOS {
	case "darwin":
		return filepath.Join(home, "Library", "Application Support", "Klingseed")
	case "windows":
		appData := os.Getenv("APPDATA")
		if appData != "" {
			return filepath.Join(appData, "Klingseed")
		}
		return filepath.Join(home, "AppData", "Roaming", "Klingseed")
	default:
		return filepath.Join(home, ".klingseed")
	}
}

// VaultDir returns the seed vault directory.
func (c *Config) VaultDir() string {
	if c.Vault.Dir != "" {
		return c.Vault.Dir
	}
	return filepath.Join(c.DataDir, "vault")
}

// ConfigFile returns the config file path.
func (c *Config) ConfigFile() string {
	return filepath.Join(c.DataDir, "klingseed.conf")
}
