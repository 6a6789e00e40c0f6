package config

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/Klingon-tech/klingseed/internal/wallet"
)

// LoadFile loads configuration from a .conf file.
// Format: key = value (one per line, # for comments)
func LoadFile(path string) (map[string]string, error) {
	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return make(map[string]string), nil
		}
		return nil, err
	}
	defer file.Close()

	values := make(map[string]string)
	scanner := bufio.NewScanner(file)
	lineNum := 0

	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())

		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		parts := strings.SplitN(line, "=", 2)
		if len(parts) != 2 {
			return nil, fmt.Errorf("line %d: invalid format (expected key = value)", lineNum)
		}

		key := strings.TrimSpace(parts[0])
		value := strings.TrimSpace(parts[1])

		// Remove quotes if present
		if len(value) >= 2 {
			if (value[0] == '"' && value[len(value)-1] == '"') ||
				(value[0] == '\'' && value[len(value)-1] == '\'') {
				value = value[1 : len(value)-1]
			}
		}

		values[key] = value
	}

	return values, scanner.Err()
}

// ApplyFileConfig applies file configuration to a Config struct.
func ApplyFileConfig(cfg *Config, values map[string]string) error {
	for key, value := range values {
		if err := setConfigValue(cfg, key, value); err != nil {
			return fmt.Errorf("config key %q: %w", key, err)
		}
	}
	return nil
}

// setConfigValue sets a config value by key. Values are range-checked
// later by Validate.
func setConfigValue(cfg *Config, key, value string) error {
	switch key {
	case "datadir":
		cfg.DataDir = value
	case "locale":
		cfg.Locale = wallet.Locale(value)
	case "words":
		n, err := strconv.Atoi(value)
		if err != nil {
			return err
		}
		cfg.WordCount = wallet.WordCount(n)

	// Vault
	case "vault.dir":
		cfg.Vault.Dir = value
	case "vault.argon2.memory":
		n, err := strconv.ParseUint(value, 10, 32)
		if err != nil {
			return err
		}
		cfg.Vault.KDFMemory = uint32(n)
	case "vault.argon2.time":
		n, err := strconv.ParseUint(value, 10, 32)
		if err != nil {
			return err
		}
		cfg.Vault.KDFTime = uint32(n)
	case "vault.argon2.threads":
		n, err := strconv.ParseUint(value, 10, 8)
		if err != nil {
			return err
		}
		cfg.Vault.KDFThreads = uint8(n)

	// Logging
	case "log.level":
		cfg.Log.Level = value
	case "log.file":
		cfg.Log.File = value
	case "log.json":
		cfg.Log.JSON = parseBool(value)

	default:
		// Unknown keys are ignored
	}
	return nil
}

// parseBool parses a boolean value.
func parseBool(s string) bool {
	s = strings.ToLower(s)
	return s == "true" || s == "1" || s == "yes" || s == "on"
}

// WriteDefaultConfig writes a default configuration file.
func WriteDefaultConfig(path string) error {
	content := `# klingseed configuration
#
# Environment variables (KLINGSEED_LOCALE, KLINGSEED_WORDS,
# KLINGSEED_DATADIR, KLINGSEED_LOG_LEVEL) and command-line flags
# override the values below.

# Data directory (default: ~/.klingseed)
# datadir = ~/.klingseed

# ============================================================================
# Mnemonics
# ============================================================================

# Word list for new mnemonics: english, chinese_simplified,
# chinese_traditional, czech, french, italian, japanese, korean, spanish
locale = english

# Mnemonic length for new mnemonics: 12, 15, 18, 21 or 24
words = 24

# ============================================================================
# Seed Vault
# ============================================================================

# Vault directory (default: <datadir>/vault)
# vault.dir =

# Argon2id cost for new vault entries
# vault.argon2.memory = 65536
# vault.argon2.time = 3
# vault.argon2.threads = 4

# ============================================================================
# Logging
# ============================================================================

log.level = warn
# log.file =
log.json = false
`
	return os.WriteFile(path, []byte(content), 0600)
}
