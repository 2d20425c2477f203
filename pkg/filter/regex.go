package filter

import (
	"regexp"
	"strings"

	"mentions/pkg/textnorm"
)

// RegexStrategy matches patterns against text cleaned by textnorm.Clean.
// Since Clean removes every punctuation character, patterns should be
// written against the punctuation-free form ("bitly" rather than `bit\.ly`).
type RegexStrategy struct {
	patterns []*regexp.Regexp
}

// NewRegexStrategy returns a strategy over a copy of patterns.
func NewRegexStrategy(patterns []*regexp.Regexp) (*RegexStrategy, error) {
	p, err := checkPatterns(patterns)
	if err != nil {
		return nil, err
	}

	return &RegexStrategy{patterns: p}, nil
}

// Filter returns true if any pattern matches the cleaned text.
// Blank text never matches.
func (s *RegexStrategy) Filter(text string) bool {
	if strings.TrimSpace(text) == "" {
		return false
	}

	return matchAny(s.patterns, textnorm.Clean(text))
}

func matchAny(patterns []*regexp.Regexp, text string) bool {
	for _, p := range patterns {
		if p.MatchString(text) {
			return true
		}
	}
	return false
}
