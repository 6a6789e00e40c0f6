package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/Klingon-tech/klingseed/internal/wallet"
)

// clearEnv blanks every KLINGSEED_* variable for the duration of the test.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, e := range envKeys {
		t.Setenv(e.env, "")
	}
}

func TestDefault_Valid(t *testing.T) {
	cfg := Default()
	if err := Validate(cfg); err != nil {
		t.Fatalf("Validate(Default()) error: %v", err)
	}
	if cfg.Locale != wallet.English || cfg.WordCount != wallet.TwentyFour {
		t.Errorf("defaults = %s/%d, want english/24", cfg.Locale, cfg.WordCount)
	}
	if cfg.Vault.KDFParams() != wallet.DefaultKDFParams() {
		t.Errorf("vault KDF = %+v, want %+v", cfg.Vault.KDFParams(), wallet.DefaultKDFParams())
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.conf")
	content := `# comment
locale = french

words = "12"
log.level = 'debug'
`
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}

	values, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile() error: %v", err)
	}
	want := map[string]string{"locale": "french", "words": "12", "log.level": "debug"}
	if len(values) != len(want) {
		t.Fatalf("got %d values, want %d: %v", len(values), len(want), values)
	}
	for k, v := range want {
		if values[k] != v {
			t.Errorf("values[%q] = %q, want %q", k, values[k], v)
		}
	}
}

func TestLoadFile_Missing(t *testing.T) {
	values, err := LoadFile(filepath.Join(t.TempDir(), "nope.conf"))
	if err != nil {
		t.Fatalf("LoadFile() error: %v", err)
	}
	if len(values) != 0 {
		t.Errorf("missing file should yield no values, got %v", values)
	}
}

func TestLoadFile_BadLine(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.conf")
	if err := os.WriteFile(path, []byte("locale english\n"), 0600); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadFile(path); err == nil {
		t.Error("line without '=' should fail")
	}
}

func TestApplyFileConfig(t *testing.T) {
	cfg := Default()
	err := ApplyFileConfig(cfg, map[string]string{
		"locale":               "spanish",
		"words":                "18",
		"vault.dir":            "/tmp/vault",
		"vault.argon2.memory":  "1024",
		"vault.argon2.time":    "2",
		"vault.argon2.threads": "1",
		"log.json":             "yes",
		"unknown.key":          "ignored",
	})
	if err != nil {
		t.Fatalf("ApplyFileConfig() error: %v", err)
	}
	if cfg.Locale != wallet.Spanish || cfg.WordCount != wallet.Eighteen {
		t.Errorf("locale/words = %s/%d", cfg.Locale, cfg.WordCount)
	}
	if cfg.VaultDir() != "/tmp/vault" {
		t.Errorf("VaultDir() = %s", cfg.VaultDir())
	}
	want := wallet.KDFParams{Memory: 1024, Time: 2, Threads: 1}
	if cfg.Vault.KDFParams() != want {
		t.Errorf("KDFParams() = %+v, want %+v", cfg.Vault.KDFParams(), want)
	}
	if !cfg.Log.JSON {
		t.Error("log.json should be true")
	}
}

func TestApplyFileConfig_OnlyLocaleKey(t *testing.T) {
	cfg := Default()
	if err := ApplyFileConfig(cfg, map[string]string{"language": "french"}); err != nil {
		t.Fatalf("ApplyFileConfig() error: %v", err)
	}
	if cfg.Locale != wallet.English {
		t.Errorf("Locale = %s, want %s (only the locale key selects a word list)", cfg.Locale, wallet.English)
	}
}

func TestApplyFileConfig_BadNumber(t *testing.T) {
	for _, key := range []string{"words", "vault.argon2.memory", "vault.argon2.time", "vault.argon2.threads"} {
		t.Run(key, func(t *testing.T) {
			if err := ApplyFileConfig(Default(), map[string]string{key: "many"}); err == nil {
				t.Errorf("%s = many should fail", key)
			}
		})
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{name: "defaults", mutate: func(*Config) {}},
		{name: "locale normalized", mutate: func(c *Config) { c.Locale = "Chinese-Simplified" }},
		{name: "unknown locale", mutate: func(c *Config) { c.Locale = "klingon" }, wantErr: true},
		{name: "unavailable locale", mutate: func(c *Config) { c.Locale = wallet.Portuguese }, wantErr: true},
		{name: "bad words", mutate: func(c *Config) { c.WordCount = 13 }, wantErr: true},
		{name: "empty datadir", mutate: func(c *Config) { c.DataDir = "" }, wantErr: true},
		{name: "zero kdf time", mutate: func(c *Config) { c.Vault.KDFTime = 0 }, wantErr: true},
		{name: "zero kdf threads", mutate: func(c *Config) { c.Vault.KDFThreads = 0 }, wantErr: true},
		{name: "tiny kdf memory", mutate: func(c *Config) { c.Vault.KDFMemory = 8 }, wantErr: true},
		{name: "huge kdf memory", mutate: func(c *Config) { c.Vault.KDFMemory = wallet.MaxKDFMemory + 1 }, wantErr: true},
		{name: "huge kdf time", mutate: func(c *Config) { c.Vault.KDFTime = wallet.MaxKDFTime + 1 }, wantErr: true},
		{name: "bad log level", mutate: func(c *Config) { c.Log.Level = "loud" }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := Validate(cfg)
			if tt.wantErr {
				if err == nil {
					t.Error("Validate() should fail")
				}
				return
			}
			if err != nil {
				t.Fatalf("Validate() error: %v", err)
			}
		})
	}
}

func TestValidate_WordCountError(t *testing.T) {
	cfg := Default()
	cfg.WordCount = 11
	if err := Validate(cfg); !errors.Is(err, wallet.ErrInvalidWordCount) {
		t.Errorf("error = %v, want ErrInvalidWordCount", err)
	}
}

func TestParseFlags(t *testing.T) {
	f, err := ParseFlags([]string{"--datadir", "/data", "--words=12", "--log-json", "new", "--save", "cold"})
	if err != nil {
		t.Fatalf("ParseFlags() error: %v", err)
	}
	if f.DataDir != "/data" || f.Words != 12 || !f.SetLogJSON || !f.LogJSON {
		t.Errorf("unexpected flags: %+v", f)
	}
	want := []string{"new", "--save", "cold"}
	if len(f.Args) != len(want) {
		t.Fatalf("Args = %v, want %v", f.Args, want)
	}
	for i := range want {
		if f.Args[i] != want[i] {
			t.Errorf("Args[%d] = %q, want %q", i, f.Args[i], want[i])
		}
	}
}

func TestParseFlags_Help(t *testing.T) {
	f, err := ParseFlags([]string{"-h"})
	if err != nil {
		t.Fatalf("ParseFlags() error: %v", err)
	}
	if !f.Help {
		t.Error("Help should be set")
	}
}

func TestParseFlags_Unknown(t *testing.T) {
	if _, err := ParseFlags([]string{"--network", "mainnet"}); err == nil {
		t.Error("unknown flag should fail")
	}
}

func TestLoad_CreatesDefaultConfig(t *testing.T) {
	clearEnv(t)
	dir := filepath.Join(t.TempDir(), "data")

	cfg, err := Load(&Flags{DataDir: dir})
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	info, err := os.Stat(cfg.ConfigFile())
	if err != nil {
		t.Fatalf("default config not written: %v", err)
	}
	if perm := info.Mode().Perm(); perm != 0600 {
		t.Errorf("config mode = %o, want 600", perm)
	}

	// The written defaults must round-trip to the built-in defaults.
	def := Default()
	if cfg.Locale != def.Locale || cfg.WordCount != def.WordCount || cfg.Log != def.Log {
		t.Errorf("loaded %+v, want defaults %+v", cfg, def)
	}
	if cfg.VaultDir() != filepath.Join(dir, "vault") {
		t.Errorf("VaultDir() = %s", cfg.VaultDir())
	}
}

func TestLoad_Precedence(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	conf := "locale = french\nwords = 12\nlog.level = info\n"
	if err := os.WriteFile(filepath.Join(dir, "klingseed.conf"), []byte(conf), 0600); err != nil {
		t.Fatal(err)
	}

	// File only.
	cfg, err := Load(&Flags{DataDir: dir})
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Locale != wallet.French || cfg.WordCount != wallet.Twelve || cfg.Log.Level != "info" {
		t.Errorf("file layer: %s/%d/%s", cfg.Locale, cfg.WordCount, cfg.Log.Level)
	}

	// Environment beats file.
	t.Setenv(EnvLocale, "italian")
	t.Setenv(EnvWords, "15")
	cfg, err = Load(&Flags{DataDir: dir})
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Locale != wallet.Italian || cfg.WordCount != wallet.Fifteen || cfg.Log.Level != "info" {
		t.Errorf("env layer: %s/%d/%s", cfg.Locale, cfg.WordCount, cfg.Log.Level)
	}

	// Flags beat environment.
	cfg, err = Load(&Flags{DataDir: dir, Locale: "korean", Words: 21, LogLevel: "error"})
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Locale != wallet.Korean || cfg.WordCount != wallet.TwentyOne || cfg.Log.Level != "error" {
		t.Errorf("flag layer: %s/%d/%s", cfg.Locale, cfg.WordCount, cfg.Log.Level)
	}
}

func TestLoad_EnvDataDir(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	t.Setenv(EnvDataDir, dir)

	cfg, err := Load(&Flags{})
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.DataDir != dir {
		t.Errorf("DataDir = %s, want %s", cfg.DataDir, dir)
	}
}

func TestLoad_Invalid(t *testing.T) {
	clearEnv(t)
	t.Setenv(EnvWords, "13")
	if _, err := Load(&Flags{DataDir: t.TempDir()}); err == nil {
		t.Error("Load() with KLINGSEED_WORDS=13 should fail")
	}
}
