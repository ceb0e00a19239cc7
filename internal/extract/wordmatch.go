package extract

import (
	"cmp"
	"regexp"
	"slices"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Span is a half-open byte range [Start, End) into a string.
type Span struct {
	Start, End int
}

func (s Span) overlaps(o Span) bool {
	return s.Start < o.End && o.Start < s.End
}

// WordPattern matches any of a fixed set of terms as whole words,
// case-insensitively. It is immutable after construction.
type WordPattern struct {
	re *regexp.Regexp
}

// NewWordPattern compiles one alternation over terms, longest first so that
// "grass-fed beef" wins over "beef". Word boundaries are part of the
// expression, so a longer term that fails a boundary falls back to a shorter
// one at the same position. Empty terms are ignored; with no terms the
// pattern matches nothing.
func NewWordPattern(terms []string) *WordPattern {
	clean := make([]string, 0, len(terms))
	seen := make(map[string]struct{}, len(terms))
	for _, t := range terms {
		t = strings.ToLower(strings.TrimSpace(t))
		if t == "" {
			continue
		}
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		clean = append(clean, t)
	}
	if len(clean) == 0 {
		return &WordPattern{}
	}
	slices.SortStableFunc(clean, func(a, b string) int {
		return cmp.Compare(len(b), len(a))
	})
	quoted := make([]string, len(clean))
	for i, t := range clean {
		quoted[i] = regexp.QuoteMeta(t)
	}
	return &WordPattern{re: regexp.MustCompile(
		`(?i)(?:^|[^\p{L}\p{N}])(` + strings.Join(quoted, "|") + `)(?:[^\p{L}\p{N}]|$)`,
	)}
}

// Spans returns the byte ranges of every whole-word match in text.
func (p *WordPattern) Spans(text string) []Span {
	if p == nil || p.re == nil {
		return nil
	}
	var out []Span
	// The trailing boundary rune is consumed by a match, so the next search
	// restarts at the end of the term itself rather than of the match.
	for start := 0; start < len(text); {
		loc := p.re.FindStringSubmatchIndex(text[start:])
		if loc == nil {
			break
		}
		s, e := start+loc[2], start+loc[3]
		if isBoundary(text, s, e) {
			out = append(out, Span{Start: s, End: e})
		}
		start = e
	}
	return out
}

// FindAll returns every whole-word match, lowercased and trimmed, in order.
func (p *WordPattern) FindAll(text string) []string {
	spans := p.Spans(text)
	out := make([]string, 0, len(spans))
	for _, s := range spans {
		out = append(out, strings.ToLower(strings.TrimSpace(text[s.Start:s.End])))
	}
	return out
}

// MatchString reports whether text contains any whole-word match.
func (p *WordPattern) MatchString(text string) bool {
	return len(p.Spans(text)) > 0
}

// Remove deletes every whole-word match from text, except those overlapping
// a protected span, and collapses the remaining whitespace.
func (p *WordPattern) Remove(text string, protected ...Span) string {
	spans := p.Spans(text)
	if len(spans) == 0 {
		return text
	}
	var b strings.Builder
	last := 0
	for _, s := range spans {
		if overlapsAny(s, protected) {
			continue
		}
		b.WriteString(text[last:s.Start])
		b.WriteByte(' ')
		last = s.End
	}
	b.WriteString(text[last:])
	return collapseSpaces(b.String())
}

func overlapsAny(s Span, others []Span) bool {
	for _, o := range others {
		if s.overlaps(o) {
			return true
		}
	}
	return false
}

// isBoundary reports whether text[start:end] is neither preceded nor followed
// by a letter or digit.
func isBoundary(text string, start, end int) bool {
	if start > 0 {
		r, _ := utf8.DecodeLastRuneInString(text[:start])
		if isWordRune(r) {
			return false
		}
	}
	if end < len(text) {
		r, _ := utf8.DecodeRuneInString(text[end:])
		if isWordRune(r) {
			return false
		}
	}
	return true
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}

func collapseSpaces(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
