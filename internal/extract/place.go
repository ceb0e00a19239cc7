package extract

import (
	"cmp"
	"context"
	"slices"
	"strings"
	"unicode"
	"unicode/utf8"
)

// PlaceNameRecognizer finds candidate location mentions in free text.
type PlaceNameRecognizer interface {
	Recognize(ctx context.Context, text string) ([]string, error)
}

// CountryResolver maps a place name or country code to an ISO 3166-1 alpha-2 code.
type CountryResolver interface {
	ResolveCountry(name string) (string, bool)
}

// DefaultAmbiguousPlaces are place names that generic NER models tend to tag
// as persons.
var DefaultAmbiguousPlaces = []string{
	"Austin", "Jackson", "Madison", "Charlotte", "Florence", "Paris",
}

type placeMatch struct {
	names   []string
	country string
	text    string
}

// matchPlaces merges recognizer output with capitalized ambiguous names found
// in text, drops candidates made only of nonPlaces words, orders them by
// first occurrence, and strips the first candidate that resolves to a
// country.
func matchPlaces(
	text string,
	recognized []string,
	ambiguous, nonPlaces *WordPattern,
	countries CountryResolver,
) placeMatch {
	type candidate struct {
		name string
		pos  int
	}
	lower := strings.ToLower(text)
	seen := make(map[string]struct{})
	var cands []candidate
	add := func(name string, pos int) {
		name = strings.TrimSpace(name)
		if name == "" {
			return
		}
		key := strings.ToLower(name)
		if _, ok := seen[key]; ok {
			return
		}
		if strings.IndexFunc(nonPlaces.Remove(name), isWordRune) < 0 {
			return
		}
		if pos < 0 {
			pos = strings.Index(lower, key)
		}
		if pos < 0 {
			// Recognizers may normalize; keep it, after anything found verbatim.
			pos = len(text)
		}
		seen[key] = struct{}{}
		cands = append(cands, candidate{name: name, pos: pos})
	}
	for _, n := range recognized {
		add(n, -1)
	}
	for _, s := range ambiguous.Spans(text) {
		word := text[s.Start:s.End]
		if r, _ := utf8.DecodeRuneInString(word); unicode.IsUpper(r) {
			add(word, s.Start)
		}
	}

	slices.SortStableFunc(cands, func(a, b candidate) int {
		return cmp.Compare(a.pos, b.pos)
	})

	out := placeMatch{names: make([]string, 0, len(cands)), text: text}
	for _, c := range cands {
		out.names = append(out.names, c.name)
	}
	if countries == nil {
		return out
	}
	for _, c := range cands {
		code, ok := countries.ResolveCountry(c.name)
		if !ok {
			continue
		}
		out.country = code
		out.text = NewWordPattern([]string{c.name}).Remove(text)
		break
	}
	return out
}
