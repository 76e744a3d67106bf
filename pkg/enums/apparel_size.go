package enums

import "fmt"

// ApparelSize enumerates the garment sizes a mockup variant can be cut in.
type ApparelSize string

const (
	ApparelSizeXS   ApparelSize = "XS"
	ApparelSizeS    ApparelSize = "S"
	ApparelSizeM    ApparelSize = "M"
	ApparelSizeL    ApparelSize = "L"
	ApparelSizeXL   ApparelSize = "XL"
	ApparelSizeXXL  ApparelSize = "XXL"
	ApparelSizeXXXL ApparelSize = "XXXL"
)

var validApparelSizes = []ApparelSize{
	ApparelSizeXS,
	ApparelSizeS,
	ApparelSizeM,
	ApparelSizeL,
	ApparelSizeXL,
	ApparelSizeXXL,
	ApparelSizeXXXL,
}

// String implements fmt.Stringer.
func (s ApparelSize) String() string {
	return string(s)
}

// IsValid reports whether the value is a known ApparelSize.
func (s ApparelSize) IsValid() bool {
	for _, candidate := range validApparelSizes {
		if candidate == s {
			return true
		}
	}
	return false
}

// ParseApparelSize converts raw input into an ApparelSize.
func ParseApparelSize(value string) (ApparelSize, error) {
	for _, candidate := range validApparelSizes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid apparel size %q", value)
}
