package wallet

import (
	"errors"
	"fmt"
	"strings"

	"github.com/tyler-smith/go-bip39/wordlists"
)

// WordListSize is the number of entries every BIP-39 word list must have.
const WordListSize = 1 << bitsPerWord

// Locale selects a BIP-39 word list.
type Locale string

const (
	English            Locale = "english"
	ChineseSimplified  Locale = "chinese_simplified"
	ChineseTraditional Locale = "chinese_traditional"
	Czech              Locale = "czech"
	French             Locale = "french"
	Italian            Locale = "italian"
	Japanese           Locale = "japanese"
	Korean             Locale = "korean"
	Spanish            Locale = "spanish"
	Portuguese         Locale = "portuguese"
)

// DefaultLocale is used when no locale is configured.
const DefaultLocale = English

// Locales lists every recognised locale.
var Locales = []Locale{
	English, ChineseSimplified, ChineseTraditional, Czech, French,
	Italian, Japanese, Korean, Spanish, Portuguese,
}

// ErrLocaleUnavailable is returned for a recognised locale whose word list
// is not bundled.
var ErrLocaleUnavailable = errors.New("word list not available")

var localeLists = map[Locale][]string{
	English:            wordlists.English,
	ChineseSimplified:  wordlists.ChineseSimplified,
	ChineseTraditional: wordlists.ChineseTraditional,
	Czech:              wordlists.Czech,
	French:             wordlists.French,
	Italian:            wordlists.Italian,
	Japanese:           wordlists.Japanese,
	Korean:             wordlists.Korean,
	Spanish:            wordlists.Spanish,
}

// ParseLocale converts a configuration string to a Locale. Matching is
// case-insensitive and accepts '-' in place of '_'.
func ParseLocale(s string) (Locale, error) {
	norm := Locale(strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), "-", "_"))
	if norm == "" {
		return DefaultLocale, nil
	}
	for _, l := range Locales {
		if l == norm {
			return l, nil
		}
	}
	return "", fmt.Errorf("unknown locale %q", s)
}

// WordList returns the 2048-word list for l. The returned slice is shared
// and must not be modified.
func WordList(l Locale) ([]string, error) {
	list, ok := localeLists[l]
	if !ok {
		for _, known := range Locales {
			if known == l {
				return nil, fmt.Errorf("locale %s: %w", l, ErrLocaleUnavailable)
			}
		}
		return nil, fmt.Errorf("unknown locale %q", string(l))
	}
	if len(list) != WordListSize {
		return nil, fmt.Errorf("locale %s: word list has %d entries, want %d", l, len(list), WordListSize)
	}
	return list, nil
}
