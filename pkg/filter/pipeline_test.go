package filter

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"mentions/pkg/sentiment"
	"mentions/pkg/stem"
)

type testCase struct {
	Text     string `json:"text"`
	Expected bool   `json:"expected"`
}

type testResult struct {
	Text     string `json:"text"`
	Expected bool   `json:"expected"`
	Result   bool   `json:"result"`
}

// recordingGate remembers what it was asked and answers with allow.
type recordingGate struct {
	allow bool
	seen  []string
}

func (g *recordingGate) Allow(text string) bool {
	g.seen = append(g.seen, text)
	return g.allow
}

func loadJSON(t *testing.T, path string, v any) {
	t.Helper()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read %s: %v", path, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		t.Fatalf("failed to parse %s: %v", path, err)
	}
}

func TestContentFilter_RegexKeywordNLPFixtures(t *testing.T) {
	var sources []string
	loadJSON(t, filepath.Join("test_data", "regex-patterns.json"), &sources)

	var cases []testCase
	loadJSON(t, filepath.Join("test_data", "test-cases.json"), &cases)

	patterns, err := CompilePatterns(sources, false)
	if err != nil {
		t.Fatalf("failed to compile patterns: %v", err)
	}
	strategy, err := NewRegexKeywordNLPStrategy(patterns, KeywordsFromPatterns(sources))
	if err != nil {
		t.Fatalf("failed to create strategy: %v", err)
	}
	bitlyFilter := New(strategy)

	results := make([]testResult, 0, len(cases))
	for i, tc := range cases {
		result := bitlyFilter.FilterText(tc.Text)
		results = append(results, testResult{Text: tc.Text, Expected: tc.Expected, Result: result})

		verb := "should not"
		if tc.Expected {
			verb = "should"
		}
		t.Run(fmt.Sprintf("Test case %d %s find mentions", i+1, verb), func(t *testing.T) {
			if result != tc.Expected {
				t.Errorf("FilterText(%q) = %v; want %v", tc.Text, result, tc.Expected)
			}
		})
	}

	b, err := json.MarshalIndent(results, "", "  ")
	if err != nil {
		t.Fatalf("failed to marshal results: %v", err)
	}
	outPath := filepath.Join(t.TempDir(), "results.json")
	if err := os.WriteFile(outPath, b, 0o644); err != nil {
		t.Fatalf("failed to write results: %v", err)
	}

	var written []testResult
	loadJSON(t, outPath, &written)
	if len(written) != len(cases) {
		t.Errorf("want %d results written, got %d", len(cases), len(written))
	}
}

func TestRegexKeywordNLPStrategy_ShortCircuit(t *testing.T) {
	tests := []struct {
		name      string
		text      string
		allow     bool
		want      bool
		wantGated bool
	}{
		{"Regex stage fails", "nothing to see", true, false, false},
		{"Keyword stage fails", "bitlyfication of everything", true, false, false},
		{"Gate rejects", "bitly is here", false, false, true},
		{"All stages pass", "bitly is here", true, true, true},
		{"Blank", "  ", true, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gate := &recordingGate{allow: tt.allow}
			s, err := NewRegexKeywordNLPStrategy(bitlyPatterns(t), []string{"bitly"}, WithGate(gate))
			if err != nil {
				t.Fatalf("failed to create strategy: %v", err)
			}

			if got := s.Filter(tt.text); got != tt.want {
				t.Errorf("Filter(%q) = %v; want %v", tt.text, got, tt.want)
			}
			if gated := len(gate.seen) > 0; gated != tt.wantGated {
				t.Errorf("want gate consulted = %v, got %v", tt.wantGated, gated)
			}
		})
	}
}

func TestRegexKeywordNLPStrategy_GateSeesNormalizedText(t *testing.T) {
	gate := &recordingGate{allow: true}
	s, err := NewRegexKeywordNLPStrategy(bitlyPatterns(t), []string{"bit.ly"}, WithGate(gate))
	if err != nil {
		t.Fatalf("failed to create strategy: %v", err)
	}

	if !s.Filter("  Check out   BIT.LY!  ") {
		t.Fatal("want mention to pass")
	}
	want := "check out bit.ly"
	if len(gate.seen) != 1 || gate.seen[0] != want {
		t.Errorf("want gate to see %q, got %v", want, gate.seen)
	}
}

func TestRegexKeywordNLPStrategy_Stemming(t *testing.T) {
	identity := stem.Func(strings.ToLower)

	plain, err := NewRegexKeywordNLPStrategy(bitlyPatterns(t), []string{"Bitly"},
		WithStemmer(identity), WithGate(sentiment.AlwaysAllow{}))
	if err != nil {
		t.Fatalf("failed to create strategy: %v", err)
	}
	if plain.Filter("Bitlys everywhere") {
		t.Error("want plural form rejected without stemming")
	}
	if !plain.Filter("Bitly everywhere") {
		t.Error("want exact keyword accepted without stemming")
	}

	stemmed, err := NewRegexKeywordNLPStrategy(bitlyPatterns(t), []string{"Bitly"},
		WithGate(sentiment.AlwaysAllow{}))
	if err != nil {
		t.Fatalf("failed to create strategy: %v", err)
	}
	if !stemmed.Filter("Bitlys everywhere") {
		t.Error("want plural form accepted with the English stemmer")
	}
}

func TestRegexKeywordNLPStrategy_DefaultGate(t *testing.T) {
	s, err := NewRegexKeywordNLPStrategy(bitlyPatterns(t), []string{"bitly"})
	if err != nil {
		t.Fatalf("failed to create strategy: %v", err)
	}

	tests := []struct {
		text string
		want bool
	}{
		{"Bitly is great", true},
		{"Bitly is a link shortener", true},
		{"Bitly is terrible", false},
		{"Bitly sucks", false},
		{"Bitly ruined my campaign", false},
		{"Bitly saved my campaign, thanks!", true},
	}
	for _, tt := range tests {
		if got := s.Filter(tt.text); got != tt.want {
			t.Errorf("Filter(%q) = %v; want %v", tt.text, got, tt.want)
		}
	}
}

func TestRegexKeywordNLPStrategy_DottedPatterns(t *testing.T) {
	patterns := []*regexp.Regexp{regexp.MustCompile(`(?i)bit\.ly`)}
	s, err := NewRegexKeywordNLPStrategy(patterns, []string{"bit.ly"}, WithGate(sentiment.AlwaysAllow{}))
	if err != nil {
		t.Fatalf("failed to create strategy: %v", err)
	}

	// The pipeline keeps dots, so a dotted pattern still matches here while
	// RegexStrategy would only ever see "bitly".
	if !s.Filter("Shortened with Bit.ly.") {
		t.Error("want dotted pattern to match canonical text")
	}
	if s.Filter("Shortened with bitly") {
		t.Error("want undotted text rejected by a dotted pattern")
	}
}

func TestNewRegexKeywordNLPStrategy_Errors(t *testing.T) {
	if _, err := NewRegexKeywordNLPStrategy(nil, []string{"bitly"}); !errors.Is(err, ErrNoPatterns) {
		t.Errorf("want ErrNoPatterns, got %v", err)
	}
	if _, err := NewRegexKeywordNLPStrategy([]*regexp.Regexp{nil}, []string{"bitly"}); !errors.Is(err, ErrNilPattern) {
		t.Errorf("want ErrNilPattern, got %v", err)
	}
}

func TestRegexKeywordNLPStrategy_TrailingPeriod(t *testing.T) {
	s, err := NewRegexKeywordNLPStrategy(bitlyPatterns(t), KeywordsFromPatterns(bitlySources),
		WithGate(sentiment.AlwaysAllow{}))
	if err != nil {
		t.Fatalf("failed to create strategy: %v", err)
	}

	tests := []struct {
		text string
		want bool
	}{
		{"I use bit.ly.", true},
		{"I use bit.ly.\n", false},
		{"I use bit.ly. ", false},
	}
	for _, tt := range tests {
		if got := s.Filter(tt.text); got != tt.want {
			t.Errorf("Filter(%q) = %v; want %v", tt.text, got, tt.want)
		}
	}
}
