package wallet

import (
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/decred/dcrd/crypto/rand"
	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/chacha20poly1305"
)

// kdfSaltSize is the Argon2id salt length.
const kdfSaltSize = 32

// Sealed layout: salt(32) | memory(4) | time(4) | threads(1) | nonce(24) | ciphertext
const sealHeaderSize = kdfSaltSize + 4 + 4 + 1

// ErrWrongPassword is returned when a sealed seed cannot be authenticated.
var ErrWrongPassword = errors.New("wrong password or corrupted vault entry")

// KDFParams holds Argon2id cost parameters.
type KDFParams struct {
	Memory  uint32 // KiB
	Time    uint32
	Threads uint8
}

// Argon2id cost ceilings. Sealed entries are parsed before they are
// authenticated, so costs above these are rejected rather than attempted.
const (
	MaxKDFMemory = 4 * 1024 * 1024 // KiB (4 GiB)
	MaxKDFTime   = 64
)

// DefaultKDFParams returns the parameters used for new vault entries.
func DefaultKDFParams() KDFParams {
	return KDFParams{
		Memory:  64 * 1024,
		Time:    3,
		Threads: 4,
	}
}

// Validate checks p against the Argon2id limits accepted by the vault.
func (p KDFParams) Validate() error {
	switch {
	case p.Time < 1 || p.Time > MaxKDFTime:
		return fmt.Errorf("argon2 time must be in [1, %d], got %d", MaxKDFTime, p.Time)
	case p.Threads < 1:
		return fmt.Errorf("argon2 threads must be at least 1")
	case p.Memory < 8*uint32(p.Threads):
		return fmt.Errorf("argon2 memory must be at least 8 KiB per thread, got %d KiB", p.Memory)
	case p.Memory > MaxKDFMemory:
		return fmt.Errorf("argon2 memory must be at most %d KiB, got %d KiB", MaxKDFMemory, p.Memory)
	}
	return nil
}

func (p KDFParams) key(password, salt []byte) []byte {
	return argon2.IDKey(password, salt, p.Time, p.Memory, p.Threads, chacha20poly1305.KeySize)
}

// sealSeed encrypts seed under password with XChaCha20-Poly1305.
func sealSeed(seed Seed, password []byte, params KDFParams) ([]byte, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	salt := make([]byte, kdfSaltSize)
	rand.Read(salt)

	key := params.key(password, salt)
	defer zero(key)

	aead, err := chacha20poly1305.NewX(key)
	if err != nil {
		return nil, fmt.Errorf("create cipher: %w", err)
	}
	nonce := make([]byte, aead.NonceSize())
	rand.Read(nonce)

	header := make([]byte, 0, sealHeaderSize)
	header = append(header, salt...)
	header = binary.LittleEndian.AppendUint32(header, params.Memory)
	header = binary.LittleEndian.AppendUint32(header, params.Time)
	header = append(header, params.Threads)

	out := make([]byte, 0, sealHeaderSize+len(nonce)+SeedSize+aead.Overhead())
	out = append(out, header...)
	out = append(out, nonce...)
	// The header is authenticated so cost parameters can't be swapped.
	return aead.Seal(out, nonce, seed[:], header), nil
}

// openSeed reverses sealSeed.
func openSeed(sealed, password []byte) (Seed, error) {
	var seed Seed
	want := sealHeaderSize + chacha20poly1305.NonceSizeX + SeedSize + chacha20poly1305.Overhead
	if len(sealed) != want {
		return seed, fmt.Errorf("sealed seed is %d bytes, want %d", len(sealed), want)
	}

	salt := sealed[:kdfSaltSize]
	params := KDFParams{
		Memory:  binary.LittleEndian.Uint32(sealed[kdfSaltSize:]),
		Time:    binary.LittleEndian.Uint32(sealed[kdfSaltSize+4:]),
		Threads: sealed[kdfSaltSize+8],
	}
	if err := params.Validate(); err != nil {
		return seed, fmt.Errorf("%w: %v", ErrWrongPassword, err)
	}
	nonce := sealed[sealHeaderSize : sealHeaderSize+chacha20poly1305.NonceSizeX]
	ciphertext := sealed[sealHeaderSize+chacha20poly1305.NonceSizeX:]

	key := params.key(password, salt)
	defer zero(key)

	aead, err := chacha20poly1305.NewX(key)
	if err != nil {
		return seed, fmt.Errorf("create cipher: %w", err)
	}
	plain, err := aead.Open(nil, nonce, ciphertext, sealed[:sealHeaderSize])
	if err != nil {
		return seed, ErrWrongPassword
	}
	copy(seed[:], plain)
	zero(plain)
	return seed, nil
}
