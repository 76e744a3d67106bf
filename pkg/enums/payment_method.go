package enums

import "fmt"

// PaymentMethod enumerates how an order is paid. Only cash on delivery is
// supported today; the amount is recorded, never charged.
type PaymentMethod string

const (
	PaymentMethodCOD PaymentMethod = "cod"
)

var validPaymentMethods = []PaymentMethod{
	PaymentMethodCOD,
}

// String implements fmt.Stringer.
func (m PaymentMethod) String() string {
	return string(m)
}

// IsValid reports whether the value is a known PaymentMethod.
func (m PaymentMethod) IsValid() bool {
	for _, candidate := range validPaymentMethods {
		if candidate == m {
			return true
		}
	}
	return false
}

// ParsePaymentMethod converts raw input into a PaymentMethod.
func ParsePaymentMethod(value string) (PaymentMethod, error) {
	for _, candidate := range validPaymentMethods {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid payment method %q", value)
}
