package wallet

import (
	"errors"
	"fmt"
	"strconv"
)

// WordCount is the length of a BIP-39 mnemonic. Only the five values
// declared below are valid; build one from an integer with WordCountFromSize.
type WordCount int

// Supported mnemonic lengths.
const (
	Twelve     WordCount = 12
	Fifteen    WordCount = 15
	Eighteen   WordCount = 18
	TwentyOne  WordCount = 21
	TwentyFour WordCount = 24
)

// bitsPerWord is log2 of the word list size.
const bitsPerWord = 11

// WordCounts lists every valid WordCount in ascending order.
var WordCounts = []WordCount{Twelve, Fifteen, Eighteen, TwentyOne, TwentyFour}

// ErrInvalidWordCount is matched by every *InvalidWordCountError.
var ErrInvalidWordCount = errors.New("invalid mnemonic word count")

// InvalidWordCountError reports a rejected mnemonic length.
type InvalidWordCountError struct {
	Size int
}

func (e *InvalidWordCountError) Error() string {
	return fmt.Sprintf("invalid mnemonic word count %d (want 12, 15, 18, 21 or 24)", e.Size)
}

// Is lets errors.Is match ErrInvalidWordCount.
func (e *InvalidWordCountError) Is(target error) bool {
	return target == ErrInvalidWordCount
}

// WordCountFromSize validates n and returns the matching WordCount.
func WordCountFromSize(n int) (WordCount, error) {
	switch wc := WordCount(n); wc {
	case Twelve, Fifteen, Eighteen, TwentyOne, TwentyFour:
		return wc, nil
	}
	return 0, &InvalidWordCountError{Size: n}
}

// WordCountForEntropy returns the WordCount produced by entropy of n bytes.
func WordCountForEntropy(n int) (WordCount, error) {
	// 11 * words = 8n + n/4 = 33n/4
	wc := WordCount(n * 3 / 4)
	if n%4 != 0 || !wc.Valid() {
		return 0, fmt.Errorf("entropy length %d bytes: %w", n, ErrInvalidWordCount)
	}
	return wc, nil
}

// Valid reports whether wc is one of the supported lengths.
func (wc WordCount) Valid() bool {
	_, err := WordCountFromSize(int(wc))
	return err == nil
}

// EntropyLen returns the entropy length in bytes (16 to 32).
func (wc WordCount) EntropyLen() int {
	return int(wc) * 4 / 3
}

// ChecksumBits returns the number of SHA-256 bits appended to the entropy.
func (wc WordCount) ChecksumBits() int {
	return wc.EntropyLen() * 8 / 32
}

func (wc WordCount) String() string {
	return strconv.Itoa(int(wc))
}
