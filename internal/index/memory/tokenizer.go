package memory

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/ikawaha/kagome-dict/ipa"
	"github.com/ikawaha/kagome/v2/tokenizer"
)

// Tokenizer splits text into lowercase index terms.
type Tokenizer interface {
	Tokenize(text string) []string
}

// WordTokenizer splits on anything that is not a letter or a digit.
type WordTokenizer struct{}

func (WordTokenizer) Tokenize(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

// KagomeTokenizer segments Japanese text morphologically so that words inside
// unspaced sentences become individually searchable. Text without kana or
// kanji goes through the word tokenizer unchanged.
type KagomeTokenizer struct {
	t    *tokenizer.Tokenizer
	word WordTokenizer
}

// NewKagomeTokenizer loads the IPA dictionary.
func NewKagomeTokenizer() (*KagomeTokenizer, error) {
	t, err := tokenizer.New(ipa.Dict(), tokenizer.OmitBosEos())
	if err != nil {
		return nil, fmt.Errorf("kagome tokenizer: %w", err)
	}
	return &KagomeTokenizer{t: t}, nil
}

func (k *KagomeTokenizer) Tokenize(text string) []string {
	if !containsJapanese(text) {
		return k.word.Tokenize(text)
	}
	var terms []string
	for _, surface := range k.t.Wakati(text) {
		terms = append(terms, k.word.Tokenize(surface)...)
	}
	return terms
}

func containsJapanese(text string) bool {
	for _, r := range text {
		if unicode.In(r, unicode.Hiragana, unicode.Katakana, unicode.Han) {
			return true
		}
	}
	return false
}

// NewTokenizer returns the tokenizer registered under name: "word" (default)
// or "kagome".
func NewTokenizer(name string) (Tokenizer, error) {
	switch name {
	case "", "word":
		return WordTokenizer{}, nil
	case "kagome":
		k, err := NewKagomeTokenizer()
		if err != nil {
			return nil, err
		}
		return k, nil
	default:
		return nil, fmt.Errorf("unknown tokenizer %q", name)
	}
}
