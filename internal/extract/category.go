package extract

import (
	"slices"

	"github.com/kailas-cloud/geosearch/internal/domain/listing"
)

// categoryAliases are the singular/plural words that select a category.
var categoryAliases = map[listing.Category][]string{
	listing.Farm: {
		"farm", "farms", "farmstead", "farmsteads", "homestead", "homesteads",
		"orchard", "orchards", "dairy", "dairies",
	},
	listing.Ranch: {"ranch", "ranches"},
	listing.Eatery: {
		"eatery", "eateries", "restaurant", "restaurants", "cafe", "cafes",
		"café", "cafés", "diner", "diners", "bistro", "bistros",
		"bakery", "bakeries", "bbq joint", "bbq joints",
	},
}

// categoryExceptions are idioms that contain a category word without
// meaning that category.
var categoryExceptions = []string{
	"farm to table",
	"farm-to-table",
	"farm fresh",
	"farm-fresh",
	"farmers market",
	"farmers markets",
	"farmer's market",
	"farmers' market",
	"ranch dressing",
	"ranch style",
	"ranch-style",
}

var (
	categoryPatterns = compileCategoryPatterns()
	exceptionPattern = NewWordPattern(categoryExceptions)
)

// categoryTerms returns every alias and exception phrase.
func categoryTerms() []string {
	out := slices.Clone(categoryExceptions)
	for _, c := range listing.Categories {
		out = append(out, categoryAliases[c]...)
	}
	return out
}

func compileCategoryPatterns() map[listing.Category]*WordPattern {
	out := make(map[listing.Category]*WordPattern, len(categoryAliases))
	for c, aliases := range categoryAliases {
		out[c] = NewWordPattern(aliases)
	}
	return out
}

// MatchCategory finds the first category, in priority order, with an alias
// in text outside any exception phrase. It returns the category and text
// with every occurrence of that category's aliases removed. Exception
// phrases are left in place. No match returns "" and text unchanged.
func MatchCategory(text string) (listing.Category, string) {
	protected := exceptionPattern.Spans(text)
	for _, c := range listing.Categories {
		p := categoryPatterns[c]
		for _, s := range p.Spans(text) {
			if overlapsAny(s, protected) {
				continue
			}
			return c, p.Remove(text, protected...)
		}
	}
	return "", text
}
