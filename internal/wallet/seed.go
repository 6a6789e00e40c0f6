package wallet

import (
	"crypto/sha512"
	"encoding/hex"
	"fmt"

	"golang.org/x/crypto/pbkdf2"
	"golang.org/x/text/unicode/norm"
)

// SeedSize is the length of a derived seed in bytes (512 bits).
const SeedSize = 64

// PBKDF2 iteration count fixed by BIP-39.
const seedIterations = 2048

// Seed is a BIP-39 seed.
type Seed [SeedSize]byte

// DeriveSeed stretches a mnemonic and salt into a seed using
// PBKDF2-HMAC-SHA512 with 2048 iterations. Both inputs are NFKD-normalized
// first, which leaves ASCII untouched.
func DeriveSeed(mnemonic, salt string) Seed {
	key := pbkdf2.Key(
		[]byte(norm.NFKD.String(mnemonic)),
		[]byte(norm.NFKD.String(salt)),
		seedIterations,
		SeedSize,
		sha512.New,
	)
	var s Seed
	copy(s[:], key)
	zero(key)
	return s
}

// ParseSeedHex decodes a 128-character hex seed.
func ParseSeedHex(s string) (Seed, error) {
	var seed Seed
	b, err := hex.DecodeString(s)
	if err != nil {
		return seed, fmt.Errorf("decode seed: %w", err)
	}
	if len(b) != SeedSize {
		return seed, fmt.Errorf("seed must be %d bytes, got %d", SeedSize, len(b))
	}
	copy(seed[:], b)
	return seed, nil
}

// String returns the seed as lowercase hex.
func (s Seed) String() string {
	return hex.EncodeToString(s[:])
}

// Bytes returns a copy of the seed.
func (s Seed) Bytes() []byte {
	b := make([]byte, SeedSize)
	copy(b, s[:])
	return b
}
