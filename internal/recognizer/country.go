package recognizer

import (
	"strings"
	"unicode"

	"github.com/pariz/gountries"
)

// Countries resolves country names and ISO codes through gountries.
type Countries struct {
	query *gountries.Query
}

// NewCountries loads the country database.
func NewCountries() *Countries {
	return &Countries{query: gountries.New()}
}

// ResolveCountry tries the full name, then an alpha-3 code, then an alpha-2
// code. Codes only match when written in upper case so that short words
// like "in" or "me" never resolve. It returns the alpha-2 code.
func (c *Countries) ResolveCountry(name string) (string, bool) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", false
	}
	if country, err := c.query.FindCountryByName(name); err == nil {
		return country.Alpha2, true
	}
	if !isUpperCode(name) {
		return "", false
	}
	if n := len(name); n != 2 && n != 3 {
		return "", false
	}
	country, err := c.query.FindCountryByAlpha(name)
	if err != nil {
		return "", false
	}
	return country.Alpha2, true
}

func isUpperCode(s string) bool {
	for _, r := range s {
		if r > unicode.MaxASCII || !unicode.IsUpper(r) {
			return false
		}
	}
	return true
}
