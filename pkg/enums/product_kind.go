package enums

import "fmt"

// ProductKind distinguishes pre-made design listings from buyer-configured
// custom garments.
type ProductKind string

const (
	ProductKindDesign ProductKind = "design"
	ProductKindCustom ProductKind = "custom"
)

var validProductKinds = []ProductKind{
	ProductKindDesign,
	ProductKindCustom,
}

// String implements fmt.Stringer.
func (k ProductKind) String() string {
	return string(k)
}

// IsValid reports whether the value is a known ProductKind.
func (k ProductKind) IsValid() bool {
	for _, candidate := range validProductKinds {
		if candidate == k {
			return true
		}
	}
	return false
}

// ParseProductKind converts raw input into a ProductKind.
func ParseProductKind(value string) (ProductKind, error) {
	for _, candidate := range validProductKinds {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid product kind %q", value)
}
