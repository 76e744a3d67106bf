package enums

import "fmt"

// CommissionStatus tracks the lifecycle of a design commission. Only pending
// rows participate in settlement; completed rows back the owner's balance.
type CommissionStatus string

const (
	CommissionStatusPending   CommissionStatus = "pending"
	CommissionStatusCompleted CommissionStatus = "completed"
	CommissionStatusCancelled CommissionStatus = "cancelled"
)

var validCommissionStatuses = []CommissionStatus{
	CommissionStatusPending,
	CommissionStatusCompleted,
	CommissionStatusCancelled,
}

// String implements fmt.Stringer.
func (s CommissionStatus) String() string {
	return string(s)
}

// IsValid reports whether the value is a known CommissionStatus.
func (s CommissionStatus) IsValid() bool {
	for _, candidate := range validCommissionStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// ParseCommissionStatus converts raw input into a CommissionStatus.
func ParseCommissionStatus(value string) (CommissionStatus, error) {
	for _, candidate := range validCommissionStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid commission status %q", value)
}
