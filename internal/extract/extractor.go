// Package extract turns a free-form search string into structured search
// intent: local-intent flag, place names and country, category, product
// mentions, organic flag and the residual keywords.
package extract

import (
	"context"

	"go.uber.org/zap"

	"github.com/kailas-cloud/geosearch/internal/domain/listing"
)

// Result is the outcome of one extraction pass.
type Result struct {
	LocalIntent bool
	PlaceNames  []string
	Country     string
	Category    listing.Category
	Commodities []string
	Variants    []string
	Organic     bool
	Residual    string
	Keywords    []string
}

// Extractor runs the extraction stages in order. It is safe for concurrent
// use once built.
type Extractor struct {
	logger      *zap.Logger
	places      PlaceNameRecognizer
	countries   CountryResolver
	commodities *Vocabulary
	variants    *Vocabulary
	ambiguous   *WordPattern
	nonPlaces   *WordPattern
}

// New creates an Extractor with the default vocabularies and no place
// recognizer.
func New(logger *zap.Logger) *Extractor {
	if logger == nil {
		logger = zap.NewNop()
	}
	e := &Extractor{
		logger:      logger,
		commodities: NewVocabulary(DefaultCommodities),
		variants:    NewVocabulary(DefaultVariants),
		ambiguous:   NewWordPattern(DefaultAmbiguousPlaces),
	}
	e.compileNonPlaces()
	return e
}

// compileNonPlaces collects the words other stages own. A recognizer
// candidate made only of these words is not a place ("Organic", "Ranch").
func (e *Extractor) compileNonPlaces() {
	terms := categoryTerms()
	terms = append(terms, localIntentPhrases...)
	terms = append(terms, organicWord)
	terms = append(terms, e.commodities.Terms()...)
	terms = append(terms, e.variants.Terms()...)
	e.nonPlaces = NewWordPattern(terms)
}

// WithPlaces sets the place recognizer and country resolver.
func (e *Extractor) WithPlaces(r PlaceNameRecognizer, c CountryResolver) *Extractor {
	e.places = r
	e.countries = c
	return e
}

// WithCommodities replaces the commodity vocabulary.
func (e *Extractor) WithCommodities(terms []string) *Extractor {
	e.commodities = NewVocabulary(terms)
	e.compileNonPlaces()
	return e
}

// WithVariants replaces the variant vocabulary.
func (e *Extractor) WithVariants(terms []string) *Extractor {
	e.variants = NewVocabulary(terms)
	e.compileNonPlaces()
	return e
}

// WithAmbiguousPlaces replaces the list of place names that are picked up
// even when the recognizer misses them.
func (e *Extractor) WithAmbiguousPlaces(names []string) *Extractor {
	e.ambiguous = NewWordPattern(names)
	return e
}

// Extract runs local intent, place, category, commodity/variant/organic and
// keyword stages over raw. Each stage reads the previous stage's residual.
func (e *Extractor) Extract(ctx context.Context, raw string) Result {
	text, local := StripLocalIntent(raw)
	res := Result{LocalIntent: local, PlaceNames: []string{}}

	if e.places == nil {
		e.logger.Debug("place recognizer not configured")
	} else {
		recognized, err := e.places.Recognize(ctx, text)
		if err != nil {
			e.logger.Warn("place recognition failed, continuing without places", zap.Error(err))
		} else {
			m := matchPlaces(text, recognized, e.ambiguous, e.nonPlaces, e.countries)
			res.PlaceNames = m.names
			res.Country = m.country
			text = m.text
		}
	}

	res.Category, text = MatchCategory(text)

	res.Commodities = e.commodities.FindAll(text)
	text = e.commodities.Remove(text)
	res.Variants = e.variants.FindAll(text)
	text = e.variants.Remove(text)
	if IsOrganic(text) {
		res.Organic = true
		text = organicPattern.Remove(text)
	}

	res.Residual = collapseSpaces(text)
	res.Keywords = Keywords(res.Residual)
	return res
}
