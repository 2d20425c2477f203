// Package sentiment scores the polarity of short texts with a word lexicon.
//
// Tokens are stemmed and looked up in a stemmed copy of the lexicon; the
// score is the mean over all tokens, so words missing from the lexicon pull
// it towards zero. There is no negation or intensifier handling.
package sentiment

import (
	"fmt"
	"sort"
	"strings"

	log "github.com/sirupsen/logrus"

	"mentions/pkg/stem"
	"mentions/pkg/textnorm"
)

// Result holds the outcome of one analysis.
type Result struct {
	Score    float64 `json:"score"`
	Positive int     `json:"positive"`
	Negative int     `json:"negative"`
	Total    int     `json:"total"`
}

func (r Result) String() string {
	return fmt.Sprintf("score=%.2f pos=%d neg=%d total=%d", r.Score, r.Positive, r.Negative, r.Total)
}

// Analyzer scores texts against a stemmed lexicon. It is safe for concurrent use.
type Analyzer struct {
	scores  map[string]int
	stemmer stem.Stemmer
}

// NewAnalyzer stems every lexicon entry with st. When several entries share a
// stem, the entry equal to the stem wins, otherwise the alphabetically first.
// A nil stemmer means English Porter2.
func NewAnalyzer(lex Lexicon, st stem.Stemmer) *Analyzer {
	if st == nil {
		st = stem.English()
	}

	words := make([]string, 0, len(lex))
	for w := range lex {
		words = append(words, w)
	}
	sort.Strings(words)

	scores := make(map[string]int, len(words))
	exact := make(map[string]bool, len(words))
	for _, w := range words {
		s := st.Stem(w)
		if _, ok := scores[s]; ok && (exact[s] || w != s) {
			continue
		}
		scores[s] = lex[w]
		exact[s] = w == s
	}

	return &Analyzer{scores: scores, stemmer: st}
}

// Analyze tokenizes text and averages the lexicon score of its stems.
func (a *Analyzer) Analyze(text string) Result {
	tokens := textnorm.Tokens(strings.ToLower(text))
	if len(tokens) == 0 {
		return Result{}
	}

	var (
		res Result
		sum int
	)
	for _, tok := range tokens {
		score, ok := a.scores[a.stemmer.Stem(tok)]
		if !ok {
			continue
		}
		sum += score
		switch {
		case score > 0:
			res.Positive++
		case score < 0:
			res.Negative++
		}
	}
	res.Total = len(tokens)
	res.Score = float64(sum) / float64(res.Total)

	return res
}

// Allow reports whether text is neutral or positive.
func (a *Analyzer) Allow(text string) bool {
	res := a.Analyze(text)
	if res.Score < 0 {
		log.Debugf("[sentiment] negative polarity (%s) for %q", res, text)
		return false
	}
	return true
}

// AlwaysAllow is a polarity gate that never rejects. It stands in when no
// lexicon should be consulted.
type AlwaysAllow struct{}

func (AlwaysAllow) Allow(string) bool {
	return true
}
