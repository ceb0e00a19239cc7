package query

// Wildcard is the backend's match-everything query text.
const Wildcard = "*"

// Tier is the sort strategy selected for a compiled query.
type Tier string

// Sort tiers in evaluation priority order.
const (
	// TierGeo sorts by distance from a circle center.
	TierGeo Tier = "geo"
	// TierText sorts by text relevance.
	TierText Tier = "text"
	// TierBrowse sorts by paid-tier rank and rating.
	TierBrowse Tier = "browse"
)

// Compiled is the fully specified backend query.
type Compiled struct {
	Text     string `json:"q"`
	FilterBy string `json:"filter_by,omitempty"`
	SortBy   string `json:"sort_by"`
	Page     int    `json:"page"`
	PerPage  int    `json:"per_page"`
	Tier     Tier   `json:"-"`
}

// HasFilter reports whether a filter clause must be sent.
func (c *Compiled) HasFilter() bool { return c.FilterBy != "" }

// IsWildcard reports whether the text matches everything.
func (c *Compiled) IsWildcard() bool { return c.Text == Wildcard }
