package wallet

import (
	"bytes"
	"crypto/hmac"
	"crypto/sha256"
	"crypto/sha512"
	"errors"
	"fmt"

	"github.com/decred/base58"
	"github.com/decred/dcrd/dcrec/secp256k1/v4"
)

// BIP-32 serialization constants.
const (
	// masterHMACKey keys the HMAC that turns a seed into the master key.
	masterHMACKey = "Bitcoin seed"

	// SerializedKeySize is the version..key payload length.
	SerializedKeySize = 78

	// checksumSize is the double-SHA-256 prefix appended before base58.
	checksumSize = 4

	keySize       = 32
	chainCodeSize = 32
)

// Mainnet extended key versions.
var (
	PrivateVersion = [4]byte{0x04, 0x88, 0xAD, 0xE4} // xprv
	PublicVersion  = [4]byte{0x04, 0x88, 0xB2, 0x1E} // xpub
)

var (
	// ErrUnusableSeed is returned when a seed yields a master key outside
	// the secp256k1 group order.
	ErrUnusableSeed = errors.New("seed produces an unusable master key")

	// ErrInvalidChecksum is returned when an extended key's trailing
	// double-SHA-256 checksum does not match its payload.
	ErrInvalidChecksum = errors.New("extended key checksum mismatch")
)

// RootKey is a BIP-32 master (depth 0) extended private key.
type RootKey struct {
	key       [keySize]byte
	chainCode [chainCodeSize]byte
}

// DeriveRootKey computes the master key and chain code from seed.
func DeriveRootKey(seed Seed) (*RootKey, error) {
	mac := hmac.New(sha512.New, []byte(masterHMACKey))
	mac.Write(seed[:])
	sum := mac.Sum(nil)
	defer zero(sum)

	il, ir := sum[:keySize], sum[keySize:]
	if !validPrivateKey(il) {
		return nil, ErrUnusableSeed
	}

	var rk RootKey
	copy(rk.key[:], il)
	copy(rk.chainCode[:], ir)
	return &rk, nil
}

// RootKeyFromBytes is DeriveRootKey for a raw seed slice. It panics if seed
// is not exactly SeedSize bytes.
func RootKeyFromBytes(seed []byte) (*RootKey, error) {
	if len(seed) != SeedSize {
		panic(fmt.Sprintf("wallet: seed must be %d bytes, got %d", SeedSize, len(seed)))
	}
	var s Seed
	copy(s[:], seed)
	return DeriveRootKey(s)
}

// ParseRootKey decodes an xprv string produced by RootKey.String.
func ParseRootKey(s string) (*RootKey, error) {
	payload, err := decodeCheck(s)
	if err != nil {
		return nil, err
	}
	if !bytes.Equal(payload[:4], PrivateVersion[:]) {
		return nil, fmt.Errorf("not a mainnet extended private key (version %x)", payload[:4])
	}
	// depth(1) | fingerprint(4) | child number(4) must all be zero for a root.
	for _, b := range payload[4:13] {
		if b != 0 {
			return nil, fmt.Errorf("extended key is not a root key")
		}
	}
	if payload[45] != 0 {
		return nil, fmt.Errorf("missing private key marker")
	}

	var rk RootKey
	copy(rk.chainCode[:], payload[13:45])
	copy(rk.key[:], payload[46:78])
	if !validPrivateKey(rk.key[:]) {
		return nil, fmt.Errorf("invalid private key")
	}
	return &rk, nil
}

// Serialize returns the 78-byte BIP-32 payload.
func (k *RootKey) Serialize() []byte {
	return k.serialize(PrivateVersion, append([]byte{0x00}, k.key[:]...))
}

// String returns the base58check extended private key ("xprv...").
func (k *RootKey) String() string {
	return encodeCheck(k.Serialize())
}

// PublicString returns the base58check extended public key ("xpub...") of
// the root.
func (k *RootKey) PublicString() string {
	return encodeCheck(k.serialize(PublicVersion, k.PublicKeyBytes()))
}

// PublicKeyBytes returns the compressed 33-byte public key.
func (k *RootKey) PublicKeyBytes() []byte {
	return secp256k1.PrivKeyFromBytes(k.key[:]).PubKey().SerializeCompressed()
}

// PrivateKey returns a copy of the 32-byte master private key.
func (k *RootKey) PrivateKey() []byte {
	b := make([]byte, keySize)
	copy(b, k.key[:])
	return b
}

// ChainCode returns a copy of the 32-byte master chain code.
func (k *RootKey) ChainCode() []byte {
	b := make([]byte, chainCodeSize)
	copy(b, k.chainCode[:])
	return b
}

// serialize lays out version | depth | fingerprint | child | chain code |
// key data. Depth, fingerprint and child number are zero for the root.
func (k *RootKey) serialize(version [4]byte, keyData []byte) []byte {
	out := make([]byte, 0, SerializedKeySize)
	out = append(out, version[:]...)
	out = append(out, 0x00)                   // depth
	out = append(out, 0x00, 0x00, 0x00, 0x00) // parent fingerprint
	out = append(out, 0x00, 0x00, 0x00, 0x00) // child number
	out = append(out, k.chainCode[:]...)
	out = append(out, keyData...)
	return out
}

// validPrivateKey reports whether b is a scalar in [1, n-1].
func validPrivateKey(b []byte) bool {
	var s secp256k1.ModNScalar
	overflow := s.SetByteSlice(b)
	return !overflow && !s.IsZero()
}

func checksum(payload []byte) []byte {
	first := sha256.Sum256(payload)
	second := sha256.Sum256(first[:])
	return second[:checksumSize]
}

func encodeCheck(payload []byte) string {
	buf := make([]byte, 0, len(payload)+checksumSize)
	buf = append(buf, payload...)
	buf = append(buf, checksum(payload)...)
	return base58.Encode(buf)
}

// decodeCheck base58-decodes s and verifies its trailing checksum. The
// returned payload is SerializedKeySize bytes.
func decodeCheck(s string) ([]byte, error) {
	raw := base58.Decode(s)
	if len(raw) != SerializedKeySize+checksumSize {
		return nil, fmt.Errorf("extended key must decode to %d bytes, got %d",
			SerializedKeySize+checksumSize, len(raw))
	}
	payload, sum := raw[:SerializedKeySize], raw[SerializedKeySize:]
	if !bytes.Equal(checksum(payload), sum) {
		return nil, ErrInvalidChecksum
	}
	return payload, nil
}
