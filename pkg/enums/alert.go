package enums

import "fmt"

// AlertKind maps to the alert_kind enum in Postgres.
type AlertKind string

const (
	AlertKindLowStock AlertKind = "low_stock"
	AlertKindExpired  AlertKind = "expired"
	AlertKindInfo     AlertKind = "info"
	AlertKindWarning  AlertKind = "warning"
)

var validAlertKinds = []AlertKind{
	AlertKindLowStock,
	AlertKindExpired,
	AlertKindInfo,
	AlertKindWarning,
}

// AlertKindValues returns every kind in declaration order.
func AlertKindValues() []AlertKind {
	out := make([]AlertKind, len(validAlertKinds))
	copy(out, validAlertKinds)
	return out
}

// IsValid checks whether the given kind matches the canonical enum.
func (a AlertKind) IsValid() bool {
	for _, candidate := range validAlertKinds {
		if candidate == a {
			return true
		}
	}
	return false
}

// ParseAlertKind converts raw strings into AlertKind.
func ParseAlertKind(value string) (AlertKind, error) {
	for _, candidate := range validAlertKinds {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid alert kind %q", value)
}
