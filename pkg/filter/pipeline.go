package filter

import (
	"regexp"
	"strings"

	log "github.com/sirupsen/logrus"

	"mentions/pkg/sentiment"
	"mentions/pkg/stem"
	"mentions/pkg/textnorm"
)

// RegexKeywordNLPStrategy accepts text only when all three stages pass:
//  1. a pattern matches the canonical text (textnorm.Canonicalize),
//  2. a stemmed keyword equals one of the stemmed words,
//  3. the polarity gate allows the canonical text.
//
// Canonical text keeps dots, so `bit\.ly` style patterns work here.
type RegexKeywordNLPStrategy struct {
	patterns []*regexp.Regexp
	keywords map[string]struct{}
	stemmer  stem.Stemmer
	gate     PolarityGate
}

// Option configures a RegexKeywordNLPStrategy.
type Option func(*RegexKeywordNLPStrategy)

// WithStemmer replaces the default English Porter2 stemmer.
func WithStemmer(st stem.Stemmer) Option {
	return func(s *RegexKeywordNLPStrategy) {
		if st != nil {
			s.stemmer = st
		}
	}
}

// WithGate replaces the default polarity gate.
func WithGate(g PolarityGate) Option {
	return func(s *RegexKeywordNLPStrategy) {
		if g != nil {
			s.gate = g
		}
	}
}

// NewRegexKeywordNLPStrategy validates patterns, then lowercases and stems
// keywords once. Without WithGate the gate is a sentiment.Analyzer over the
// embedded AFINN subset using the strategy's stemmer.
func NewRegexKeywordNLPStrategy(patterns []*regexp.Regexp, keywords []string, opts ...Option) (*RegexKeywordNLPStrategy, error) {
	p, err := checkPatterns(patterns)
	if err != nil {
		return nil, err
	}

	s := &RegexKeywordNLPStrategy{
		patterns: p,
		stemmer:  stem.English(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.gate == nil {
		s.gate = sentiment.NewAnalyzer(sentiment.AFINNSubset(), s.stemmer)
	}

	s.keywords = make(map[string]struct{}, len(keywords))
	for _, kw := range keywords {
		kw = strings.ToLower(strings.TrimSpace(kw))
		if kw == "" {
			continue
		}
		s.keywords[s.stemmer.Stem(kw)] = struct{}{}
	}

	return s, nil
}

func (s *RegexKeywordNLPStrategy) Filter(text string) bool {
	normalized := textnorm.Canonicalize(text)
	if normalized == "" {
		return false
	}

	if !matchAny(s.patterns, normalized) {
		return false
	}

	if !s.matchKeyword(normalized) {
		log.Debugf("[pipeline] regex matched but no keyword in %q", normalized)
		return false
	}

	if !s.gate.Allow(normalized) {
		log.Debugf("[pipeline] polarity gate rejected %q", normalized)
		return false
	}

	return true
}

func (s *RegexKeywordNLPStrategy) matchKeyword(normalized string) bool {
	for _, w := range textnorm.Words(normalized) {
		if _, ok := s.keywords[s.stemmer.Stem(w)]; ok {
			return true
		}
	}
	return false
}
