package wallet

import (
	"bytes"
	"errors"
	"strings"
	"testing"
)

func TestGenerateConfig(t *testing.T) {
	for _, wc := range WordCounts {
		cfg, err := GenerateConfig(wc, "")
		if err != nil {
			t.Fatalf("GenerateConfig(%d) error: %v", wc, err)
		}
		if n := len(strings.Fields(cfg.Mnemonic)); n != int(wc) {
			t.Errorf("word count = %d, want %d", n, wc)
		}
		if cfg.WordCount != wc {
			t.Errorf("WordCount = %d, want %d", cfg.WordCount, wc)
		}
		if len(cfg.SeedHex()) != SeedSize*2 {
			t.Errorf("seed hex length = %d, want %d", len(cfg.SeedHex()), SeedSize*2)
		}
	}
}

func TestGenerateConfig_InvalidWordCount(t *testing.T) {
	_, err := GenerateConfig(WordCount(16), "")
	if !errors.Is(err, ErrInvalidWordCount) {
		t.Errorf("error = %v, want ErrInvalidWordCount", err)
	}
}

func TestGenerator_FixedRandom(t *testing.T) {
	g := &Generator{
		WordList: englishWords(t),
		Rand:     bytes.NewReader(make([]byte, 16)),
	}
	cfg, err := g.GenerateConfig(Twelve, "")
	if err != nil {
		t.Fatalf("GenerateConfig() error: %v", err)
	}
	if cfg.Mnemonic != abandonAbout {
		t.Errorf("mnemonic = %q, want %q", cfg.Mnemonic, abandonAbout)
	}
	if cfg.SeedHex() != abandonAboutSeed {
		t.Errorf("seed = %s, want %s", cfg.SeedHex(), abandonAboutSeed)
	}
}

func TestGenerator_Locale(t *testing.T) {
	g, err := NewGenerator(Spanish)
	if err != nil {
		t.Fatalf("NewGenerator(Spanish) error: %v", err)
	}
	g.Rand = bytes.NewReader(make([]byte, 16))

	cfg, err := g.GenerateConfig(Twelve, "")
	if err != nil {
		t.Fatalf("GenerateConfig() error: %v", err)
	}
	words := strings.Fields(cfg.Mnemonic)
	if words[0] != g.WordList[0] {
		t.Errorf("first word = %q, want %q", words[0], g.WordList[0])
	}
	if words[11] != g.WordList[3] {
		t.Errorf("last word = %q, want %q", words[11], g.WordList[3])
	}
}

func TestRecreateConfig(t *testing.T) {
	cfg, err := RecreateConfig(abandonAbout, Twelve, "TREZOR")
	if err != nil {
		t.Fatalf("RecreateConfig() error: %v", err)
	}
	if cfg.Mnemonic != abandonAbout {
		t.Errorf("mnemonic = %q, want %q", cfg.Mnemonic, abandonAbout)
	}
	if cfg.SeedHex() != abandonAboutTrezorSeed {
		t.Errorf("seed = %s, want %s", cfg.SeedHex(), abandonAboutTrezorSeed)
	}
}

func TestRecreateConfig_NormalizesWhitespace(t *testing.T) {
	messy := "  abandon abandon  abandon abandon abandon abandon\tabandon abandon abandon abandon abandon about\n"
	cfg, err := RecreateConfig(messy, Twelve, "")
	if err != nil {
		t.Fatalf("RecreateConfig() error: %v", err)
	}
	if cfg.SeedHex() != abandonAboutSeed {
		t.Errorf("seed = %s, want %s", cfg.SeedHex(), abandonAboutSeed)
	}
}

func TestRecreateConfig_NoChecksumValidation(t *testing.T) {
	// Twelve copies of "abandon" fail the BIP-39 checksum but are accepted.
	phrase := strings.TrimSpace(strings.Repeat("abandon ", 12))
	if _, err := RecreateConfig(phrase, Twelve, ""); err != nil {
		t.Errorf("RecreateConfig() error: %v", err)
	}
}

func TestRecreateConfig_WordCountMismatch(t *testing.T) {
	_, err := RecreateConfig(abandonAbout, TwentyFour, "")
	if !errors.Is(err, ErrWordCountMismatch) {
		t.Fatalf("error = %v, want ErrWordCountMismatch", err)
	}
	var mismatch *WordCountMismatchError
	if !errors.As(err, &mismatch) {
		t.Fatalf("error should be *WordCountMismatchError, got %T", err)
	}
	if mismatch.Got != 12 || mismatch.Want != TwentyFour {
		t.Errorf("mismatch = %+v, want Got=12 Want=24", mismatch)
	}
}

func TestRecreateConfig_InvalidWordCount(t *testing.T) {
	_, err := RecreateConfig(abandonAbout, WordCount(11), "")
	if !errors.Is(err, ErrInvalidWordCount) {
		t.Errorf("error = %v, want ErrInvalidWordCount", err)
	}
}

func TestConfig_SaltNotExposed(t *testing.T) {
	a, _ := RecreateConfig(abandonAbout, Twelve, "one")
	b, _ := RecreateConfig(abandonAbout, Twelve, "two")
	if a.Mnemonic != b.Mnemonic {
		t.Fatal("mnemonics should match")
	}
	if a.SeedHex() == b.SeedHex() {
		t.Error("passphrase must reach the seed through the salt")
	}
}
