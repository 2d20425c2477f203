package filter

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"mentions/pkg/sentiment"
)

const (
	StrategyRegex           = "regex"
	StrategyRegexKeywordNLP = "regex-keyword-nlp"

	// PolarityOff disables the polarity stage of the pipeline.
	PolarityOff = "off"
)

// Rules describes a strategy in a form that can live in a JSON file or
// travel over the API.
type Rules struct {
	Strategy      string   `json:"strategy"`
	Patterns      []string `json:"patterns"`
	Keywords      []string `json:"keywords,omitempty"`
	CaseSensitive bool     `json:"caseSensitive,omitempty"`
	Polarity      string   `json:"polarity,omitempty"`
}

// LoadRules reads rules from a JSON file.
func LoadRules(path string) (Rules, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Rules{}, err
	}

	var r Rules
	if err := json.Unmarshal(data, &r); err != nil {
		return Rules{}, fmt.Errorf("failed to parse rules %s: %w", path, err)
	}
	return r, nil
}

// Name returns the strategy name, defaulting to StrategyRegex.
func (r Rules) Name() string {
	name := strings.ToLower(strings.TrimSpace(r.Strategy))
	if name == "" {
		return StrategyRegex
	}
	return name
}

// Build compiles the patterns and constructs the named strategy. Options only
// apply to the pipeline strategy. Keywords default to the unescaped pattern
// sources.
func (r Rules) Build(opts ...Option) (Strategy, error) {
	patterns, err := CompilePatterns(r.Patterns, r.CaseSensitive)
	if err != nil {
		return nil, err
	}

	switch r.Name() {
	case StrategyRegex:
		return NewRegexStrategy(patterns)

	case StrategyRegexKeywordNLP:
		keywords := r.Keywords
		if len(keywords) == 0 {
			keywords = KeywordsFromPatterns(r.Patterns)
		}
		if strings.EqualFold(r.Polarity, PolarityOff) {
			opts = append(opts[:len(opts):len(opts)], WithGate(sentiment.AlwaysAllow{}))
		}
		return NewRegexKeywordNLPStrategy(patterns, keywords, opts...)

	default:
		return nil, fmt.Errorf("%w %q", ErrUnknownStrategy, r.Strategy)
	}
}
