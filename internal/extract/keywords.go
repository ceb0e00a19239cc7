package extract

import (
	"strings"
	"unicode/utf8"

	"github.com/kailas-cloud/geosearch/internal/domain/search/shape"
)

// Keywords splits residual text into search keywords: punctuation-trimmed,
// lowercased, longer than three characters, unique, at most eight.
func Keywords(text string) []string {
	out := []string{}
	seen := make(map[string]struct{})
	for _, tok := range strings.Fields(text) {
		tok = strings.ToLower(strings.TrimFunc(tok, func(r rune) bool {
			return !isWordRune(r)
		}))
		if utf8.RuneCountInString(tok) <= shape.MinKeywordLength {
			continue
		}
		if _, ok := seen[tok]; ok {
			continue
		}
		seen[tok] = struct{}{}
		out = append(out, tok)
		if len(out) == shape.MaxKeywords {
			break
		}
	}
	return out
}
