package enums

import "fmt"

// Availability is the stock axis of a product, independent of moderation.
type Availability string

const (
	AvailabilityActive     Availability = "active"
	AvailabilityOutOfStock Availability = "out_of_stock"
)

var validAvailabilities = []Availability{
	AvailabilityActive,
	AvailabilityOutOfStock,
}

// String implements fmt.Stringer.
func (a Availability) String() string {
	return string(a)
}

// IsValid reports whether the value is a known Availability.
func (a Availability) IsValid() bool {
	for _, candidate := range validAvailabilities {
		if candidate == a {
			return true
		}
	}
	return false
}

// ParseAvailability converts raw input into an Availability.
func ParseAvailability(value string) (Availability, error) {
	for _, candidate := range validAvailabilities {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid availability %q", value)
}
