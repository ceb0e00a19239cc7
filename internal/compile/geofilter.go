package compile

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/kailas-cloud/geosearch/internal/domain"
	"github.com/kailas-cloud/geosearch/internal/domain/geo"
)

// LocationField is the indexed geopoint field.
const LocationField = "location"

// GeoClause converts a geo spec into a filter_by clause. A nil spec yields "".
// The spec is validated first; invalid specs are rejected, never corrected.
func GeoClause(spec *geo.Spec) (string, error) {
	if spec == nil {
		return "", nil
	}
	if err := spec.Validate(); err != nil {
		return "", fmt.Errorf("%w: %w", domain.ErrInvalidGeo, err)
	}

	if spec.Circle != nil {
		c := spec.Circle
		return fmt.Sprintf("%s:(%s, %s, %s km)",
			LocationField, formatFloat(c.Lat), formatFloat(c.Lon), formatFloat(c.RadiusKm)), nil
	}

	ring := spec.Bounds.Ring()
	parts := make([]string, 0, len(ring)*2)
	for _, p := range ring {
		parts = append(parts, formatFloat(p.Lat), formatFloat(p.Lon))
	}
	return fmt.Sprintf("%s:(%s)", LocationField, strings.Join(parts, ", ")), nil
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
