package extractor

import "fmt"

// Placement says where a file editor should insert the extracted function.
// It never changes the generated text.
type Placement string

const (
	PlacementBefore Placement = "before"
	PlacementAfter  Placement = "after"
	PlacementTop    Placement = "top"
)

// ParsePlacement accepts before, after or top; empty means before.
func ParsePlacement(s string) (Placement, error) {
	switch Placement(s) {
	case "", PlacementBefore:
		return PlacementBefore, nil
	case PlacementAfter, PlacementTop:
		return Placement(s), nil
	}
	return "", fmt.Errorf("invalid placement %q: must be before, after or top", s)
}
