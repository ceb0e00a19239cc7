package recognizer

import (
	"context"
	"errors"

	"github.com/kailas-cloud/geosearch/internal/extract"
)

// Chain concatenates the output of several recognizers. A failing member is
// skipped; Chain fails only when every member fails.
type Chain []extract.PlaceNameRecognizer

func (c Chain) Recognize(ctx context.Context, text string) ([]string, error) {
	var (
		out  []string
		errs []error
	)
	for _, r := range c {
		names, err := r.Recognize(ctx, text)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		out = append(out, names...)
	}
	if len(c) > 0 && len(errs) == len(c) {
		return nil, errors.Join(errs...)
	}
	return out, nil
}
