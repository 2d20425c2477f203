// Package textnorm cleans free text before it is matched against brand patterns.
//
// Two cleanup contracts exist. Clean drops every punctuation character, so
// "bit.ly" becomes "bitly". Canonicalize keeps dots and slashes, so patterns
// such as `bit\.ly` still see the dot.
package textnorm

import (
	"regexp"
	"strings"

	"golang.org/x/text/unicode/norm"
)

var (
	urlRegexp      = regexp.MustCompile(`(?i)https?://\S+`)
	punctRegexp    = regexp.MustCompile(`[^\w\s\v\p{Z}\x{FEFF}]`)
	disallowRegexp = regexp.MustCompile(`[^a-zA-Z0-9./ ]`)
	spaceRegexp    = regexp.MustCompile(`\s+`)
	tokenRegexp    = regexp.MustCompile(`[a-z0-9]+`)
)

// Fold applies NFKC so that full-width letters and compatibility dots
// collapse to their ASCII forms before matching.
func Fold(text string) string {
	return norm.NFKC.String(text)
}

// StripURLs removes every http(s):// token, including any domain inside it.
func StripURLs(text string) string {
	return urlRegexp.ReplaceAllString(text, "")
}

// Clean trims, lowercases, strips URLs and removes every character that is
// neither a word character nor whitespace. Whitespace includes \v, the
// Unicode separators (\p{Z}, e.g. U+2028) and U+FEFF, not only ASCII \s.
func Clean(text string) string {
	text = strings.ToLower(strings.TrimSpace(Fold(text)))
	text = StripURLs(text)
	return punctRegexp.ReplaceAllString(text, "")
}

// Canonicalize strips URLs, turns every character outside [a-zA-Z0-9./ ]
// into a space, collapses whitespace, drops a single trailing period and
// lowercases the result. Collapsing does not trim, so a period followed by
// whitespace survives: "bit.ly. " becomes "bit.ly.".
func Canonicalize(text string) string {
	text = StripURLs(Fold(text))
	text = disallowRegexp.ReplaceAllString(text, " ")
	text = spaceRegexp.ReplaceAllString(text, " ")
	text = strings.TrimSuffix(text, ".")
	return strings.TrimSpace(strings.ToLower(text))
}

// Words splits text on whitespace.
func Words(text string) []string {
	return strings.Fields(text)
}

// Tokens returns the alphanumeric runs of already lowercased text.
func Tokens(text string) []string {
	return tokenRegexp.FindAllString(text, -1)
}
