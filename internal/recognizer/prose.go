// Package recognizer provides place-name recognizers and a country resolver
// for the extraction pipeline.
package recognizer

import (
	"context"
	"fmt"

	"github.com/jdkato/prose/v2"
)

// placeLabel is the prose NER label for geopolitical entities.
const placeLabel = "GPE"

// Prose recognizes place names with the prose NER model.
type Prose struct{}

// NewProse creates a prose-backed recognizer.
func NewProse() *Prose {
	return &Prose{}
}

// Recognize returns GPE entities in text, in document order.
func (p *Prose) Recognize(ctx context.Context, text string) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	doc, err := prose.NewDocument(text, prose.WithSegmentation(false))
	if err != nil {
		return nil, fmt.Errorf("prose document: %w", err)
	}
	return placesFromEntities(doc.Entities()), nil
}

func placesFromEntities(ents []prose.Entity) []string {
	out := make([]string, 0, len(ents))
	for _, e := range ents {
		if e.Label == placeLabel && e.Text != "" {
			out = append(out, e.Text)
		}
	}
	return out
}
