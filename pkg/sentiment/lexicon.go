package sentiment

import (
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"
)

const fetchTimeout = 10 * time.Second

// Lexicon maps lowercase words to an integer polarity score, AFINN style:
// -5 (very negative) to +5 (very positive).
type Lexicon map[string]int

var ErrEmptyLexicon = errors.New("lexicon has no entries")

//go:embed afinn_subset.json
var afinnSubsetJSON []byte

// AFINNSubset returns a copy of the embedded lexicon: about 400 common
// entries taken from AFINN-165 with their original scores. It is not the
// full list; load AFINN-165 through LoadLexicon or FetchLexicon when
// coverage matters.
func AFINNSubset() Lexicon {
	lex, err := ParseLexicon(afinnSubsetJSON)
	if err != nil {
		panic(fmt.Sprintf("embedded lexicon is broken: %v", err))
	}
	return lex
}

// ParseLexicon decodes a JSON object of word/score pairs.
func ParseLexicon(data []byte) (Lexicon, error) {
	var raw map[string]int
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, err
	}
	if len(raw) == 0 {
		return nil, ErrEmptyLexicon
	}

	lex := make(Lexicon, len(raw))
	for word, score := range raw {
		lex[strings.ToLower(strings.TrimSpace(word))] = score
	}
	return lex, nil
}

// LoadLexicon reads a JSON lexicon from disk.
func LoadLexicon(path string) (Lexicon, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	lex, err := ParseLexicon(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse lexicon %s: %w", path, err)
	}
	return lex, nil
}

// FetchLexicon downloads a JSON lexicon over HTTP.
func FetchLexicon(ctx context.Context, url string) (Lexicon, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	client := &http.Client{Timeout: fetchTimeout}
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status fetching lexicon %s: %s", url, resp.Status)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	lex, err := ParseLexicon(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse lexicon %s: %w", url, err)
	}
	return lex, nil
}

// OpenLexicon resolves a lexicon source: empty means the embedded AFINN subset,
// an http(s) URL is fetched, anything else is read as a file path.
func OpenLexicon(ctx context.Context, source string) (lex Lexicon, err error) {
	switch {
	case source == "":
		lex, source = AFINNSubset(), "embedded AFINN subset"
	case strings.HasPrefix(source, "http://"), strings.HasPrefix(source, "https://"):
		lex, err = FetchLexicon(ctx, source)
	default:
		lex, err = LoadLexicon(source)
	}
	if err != nil {
		return nil, err
	}

	log.Debugf("[lexicon] loaded %d entries from %s", len(lex), source)
	return lex, nil
}
