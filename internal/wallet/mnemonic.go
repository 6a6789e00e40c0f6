// Package wallet derives BIP-39 mnemonics and seeds and the BIP-32 root key.
package wallet

import (
	"crypto/sha256"
	"fmt"
	"io"
	"strings"

	"github.com/decred/dcrd/crypto/rand"
)

// NewEntropy reads wc.EntropyLen() bytes from r. A nil r selects the
// default CSPRNG.
func NewEntropy(wc WordCount, r io.Reader) ([]byte, error) {
	if !wc.Valid() {
		return nil, &InvalidWordCountError{Size: int(wc)}
	}
	if r == nil {
		r = rand.Reader()
	}
	entropy := make([]byte, wc.EntropyLen())
	if _, err := io.ReadFull(r, entropy); err != nil {
		return nil, fmt.Errorf("read entropy: %w", err)
	}
	return entropy, nil
}

// EncodeMnemonic converts entropy into a mnemonic using words as the index
// table. The word count follows from len(entropy).
func EncodeMnemonic(entropy []byte, words []string) (string, error) {
	wc, err := WordCountForEntropy(len(entropy))
	if err != nil {
		return "", err
	}
	if len(words) != WordListSize {
		return "", fmt.Errorf("word list has %d entries, want %d", len(words), WordListSize)
	}

	// entropy || checksum byte. Only the top ChecksumBits of the last byte
	// are ever read.
	sum := sha256.Sum256(entropy)
	stream := make([]byte, len(entropy)+1)
	copy(stream, entropy)
	stream[len(entropy)] = sum[0]

	cur := newBitCursor(stream)
	out := make([]string, int(wc))
	for i := range out {
		out[i] = words[cur.Read(bitsPerWord)]
	}
	return strings.Join(out, " "), nil
}

// GenerateMnemonic creates a fresh mnemonic of wc words from r.
func GenerateMnemonic(wc WordCount, words []string, r io.Reader) (string, error) {
	entropy, err := NewEntropy(wc, r)
	if err != nil {
		return "", fmt.Errorf("generate entropy: %w", err)
	}
	defer zero(entropy)

	mnemonic, err := EncodeMnemonic(entropy, words)
	if err != nil {
		return "", fmt.Errorf("generate mnemonic: %w", err)
	}
	return mnemonic, nil
}

func zero(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
