package extract

import "slices"

// DefaultCommodities is the product vocabulary used when none is configured.
var DefaultCommodities = []string{
	"beef", "pork", "lamb", "goat", "chicken", "turkey", "duck", "bison",
	"eggs", "duck eggs", "milk", "raw milk", "cheese", "butter", "yogurt",
	"honey", "maple syrup", "vegetables", "produce", "fruit", "berries",
	"strawberries", "blueberries", "apples", "peaches", "pumpkins",
	"flowers", "lavender", "hay", "wool", "microgreens", "mushrooms",
	"christmas trees", "sourdough", "coffee", "brisket", "barbecue",
}

// DefaultVariants is the product-variant vocabulary used when none is configured.
var DefaultVariants = []string{
	"grass-fed", "grass fed", "grass-finished", "pasture-raised",
	"pasture raised", "free-range", "free range", "heritage", "heirloom",
	"wagyu", "angus", "a2", "non-gmo", "regenerative", "pick-your-own", "u-pick",
}

// Vocabulary matches a known list of product terms.
type Vocabulary struct {
	terms   []string
	pattern *WordPattern
}

// NewVocabulary compiles a vocabulary. An empty list matches nothing.
func NewVocabulary(terms []string) *Vocabulary {
	return &Vocabulary{terms: slices.Clone(terms), pattern: NewWordPattern(terms)}
}

// Terms returns a copy of the vocabulary's terms.
func (v *Vocabulary) Terms() []string {
	if v == nil {
		return nil
	}
	return slices.Clone(v.terms)
}

// FindAll returns every distinct term found in text, lowercased, in the order
// of first occurrence. The result is non-nil.
func (v *Vocabulary) FindAll(text string) []string {
	out := []string{}
	if v == nil {
		return out
	}
	seen := make(map[string]struct{})
	for _, m := range v.pattern.FindAll(text) {
		if _, ok := seen[m]; ok {
			continue
		}
		seen[m] = struct{}{}
		out = append(out, m)
	}
	return out
}

// Remove deletes every vocabulary term from text.
func (v *Vocabulary) Remove(text string) string {
	if v == nil {
		return text
	}
	return v.pattern.Remove(text)
}
