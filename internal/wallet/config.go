package wallet

import (
	"errors"
	"fmt"
	"io"
	"strings"
)

// saltPrefix is prepended to the passphrase to form the PBKDF2 salt.
const saltPrefix = "mnemonic"

// ErrWordCountMismatch is matched by every *WordCountMismatchError.
var ErrWordCountMismatch = errors.New("mnemonic word count mismatch")

// WordCountMismatchError reports a recovered phrase whose length differs
// from the declared WordCount.
type WordCountMismatchError struct {
	Want WordCount
	Got  int
}

func (e *WordCountMismatchError) Error() string {
	return fmt.Sprintf("mnemonic has %d words, expected %d", e.Got, int(e.Want))
}

// Is lets errors.Is match ErrWordCountMismatch.
func (e *WordCountMismatchError) Is(target error) bool {
	return target == ErrWordCountMismatch
}

// Config is the input to seed derivation: a mnemonic phrase and the salt
// built from the passphrase. It can only be built by GenerateConfig,
// RecreateConfig or a Generator.
type Config struct {
	Mnemonic  string
	WordCount WordCount

	salt string
}

// Generator builds fresh Configs from a word list and random source.
type Generator struct {
	// WordList is the 2048-entry table mnemonics are drawn from.
	WordList []string
	// Rand supplies entropy. Nil means the default CSPRNG.
	Rand io.Reader
}

// NewGenerator returns a Generator for the given locale using the default
// random source.
func NewGenerator(l Locale) (*Generator, error) {
	words, err := WordList(l)
	if err != nil {
		return nil, err
	}
	return &Generator{WordList: words}, nil
}

// GenerateConfig creates a Config around a new random mnemonic.
func (g *Generator) GenerateConfig(wc WordCount, passphrase string) (*Config, error) {
	mnemonic, err := GenerateMnemonic(wc, g.WordList, g.Rand)
	if err != nil {
		return nil, err
	}
	return &Config{
		Mnemonic:  mnemonic,
		WordCount: wc,
		salt:      saltFor(passphrase),
	}, nil
}

// GenerateConfig creates a Config around a new random English mnemonic.
func GenerateConfig(wc WordCount, passphrase string) (*Config, error) {
	g, err := NewGenerator(DefaultLocale)
	if err != nil {
		return nil, err
	}
	return g.GenerateConfig(wc, passphrase)
}

// RecreateConfig builds a Config from a previously recorded mnemonic. Only
// the word count is checked; the words and their checksum are trusted.
// Runs of whitespace between words collapse to a single space.
func RecreateConfig(mnemonic string, wc WordCount, passphrase string) (*Config, error) {
	if !wc.Valid() {
		return nil, &InvalidWordCountError{Size: int(wc)}
	}
	words := strings.Fields(mnemonic)
	if len(words) != int(wc) {
		return nil, &WordCountMismatchError{Want: wc, Got: len(words)}
	}
	return &Config{
		Mnemonic:  strings.Join(words, " "),
		WordCount: wc,
		salt:      saltFor(passphrase),
	}, nil
}

// Seed derives the 64-byte BIP-39 seed.
func (c *Config) Seed() Seed {
	return DeriveSeed(c.Mnemonic, c.salt)
}

// SeedHex derives the seed and returns it as lowercase hex.
func (c *Config) SeedHex() string {
	return c.Seed().String()
}

func saltFor(passphrase string) string {
	return saltPrefix + passphrase
}
