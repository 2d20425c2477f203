// Package filter decides whether a piece of text mentions a brand.
//
// A ContentFilter delegates every decision to a Strategy that can be swapped
// at runtime. Two strategies are provided: RegexStrategy matches patterns
// against punctuation-free text, RegexKeywordNLPStrategy chains a regex
// pre-filter, a stemmed keyword match and a polarity gate.
package filter

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// Strategy reports whether text is a relevant mention.
type Strategy interface {
	Filter(text string) bool
}

// PolarityGate passes texts whose tone is acceptable.
type PolarityGate interface {
	Allow(text string) bool
}

var (
	ErrNoPatterns      = errors.New("at least one pattern is required")
	ErrNilPattern      = errors.New("pattern must not be nil")
	ErrInvalidPattern  = errors.New("invalid pattern")
	ErrUnknownStrategy = errors.New("unknown strategy")
)

// checkPatterns validates patterns and returns a private copy.
func checkPatterns(patterns []*regexp.Regexp) ([]*regexp.Regexp, error) {
	if len(patterns) == 0 {
		return nil, ErrNoPatterns
	}

	out := make([]*regexp.Regexp, len(patterns))
	for i, p := range patterns {
		if p == nil {
			return nil, fmt.Errorf("pattern #%d: %w", i, ErrNilPattern)
		}
		out[i] = p
	}
	return out, nil
}

// CompilePatterns compiles pattern sources in order. Unless caseSensitive is
// set every pattern gets the (?i) flag.
func CompilePatterns(sources []string, caseSensitive bool) ([]*regexp.Regexp, error) {
	if len(sources) == 0 {
		return nil, ErrNoPatterns
	}

	patterns := make([]*regexp.Regexp, len(sources))
	for i, src := range sources {
		expr := src
		if !caseSensitive {
			expr = "(?i)" + src
		}

		re, err := regexp.Compile(expr)
		if err != nil {
			return nil, fmt.Errorf("%w %q: %w", ErrInvalidPattern, src, err)
		}
		patterns[i] = re
	}
	return patterns, nil
}

// KeywordsFromPatterns turns pattern sources into plain keywords by
// unescaping dots and lowercasing: `bit\.ly` becomes "bit.ly".
func KeywordsFromPatterns(sources []string) []string {
	keywords := make([]string, 0, len(sources))
	for _, src := range sources {
		kw := strings.ToLower(strings.ReplaceAll(src, `\.`, "."))
		if kw = strings.TrimSpace(kw); kw != "" {
			keywords = append(keywords, kw)
		}
	}
	return keywords
}
