package listing

import "fmt"

// Category is the listing type of a directory entry.
type Category string

// Category constants.
const (
	Farm   Category = "farm"
	Ranch  Category = "ranch"
	Eatery Category = "eatery"
)

// Categories lists every category in alias-matching priority order.
var Categories = []Category{Farm, Ranch, Eatery}

// IsValid checks if the category is one of the supported values.
func (c Category) IsValid() bool {
	return c == Farm || c == Ranch || c == Eatery
}

// Parse validates a raw category string.
func Parse(s string) (Category, error) {
	c := Category(s)
	if !c.IsValid() {
		return "", fmt.Errorf("unknown category %q", s)
	}
	return c, nil
}
