// Package stem reduces words to their root form so inflected forms of a
// keyword compare equal.
package stem

import (
	"fmt"
	"strings"

	"github.com/kljensen/snowball"
)

// Stemmer maps a word to its stem.
type Stemmer interface {
	Stem(word string) string
}

// Func adapts a plain function to the Stemmer interface.
type Func func(word string) string

func (f Func) Stem(word string) string {
	return f(word)
}

// Snowball stems words with the Snowball algorithm for one language.
// The English variant is Porter2.
type Snowball struct {
	language string
}

// New returns a Snowball stemmer, or an error if the language is not supported.
func New(language string) (*Snowball, error) {
	language = strings.ToLower(strings.TrimSpace(language))
	if _, err := snowball.Stem("probe", language, true); err != nil {
		return nil, fmt.Errorf("unsupported stemmer language %q: %w", language, err)
	}

	return &Snowball{language: language}, nil
}

// English returns the Porter2 English stemmer.
func English() *Snowball {
	return &Snowball{language: "english"}
}

// Stem returns the stem of word. Stop words are stemmed as well.
func (s *Snowball) Stem(word string) string {
	stemmed, err := snowball.Stem(word, s.language, true)
	if err != nil {
		// only reachable for an unsupported language
		return strings.ToLower(word)
	}
	return stemmed
}

// Language reports the stemmer language.
func (s *Snowball) Language() string {
	return s.language
}
