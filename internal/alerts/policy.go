package alerts

import (
	"fmt"
	"time"

	"github.com/inventag/inventag-backend/pkg/enums"
)

// Evaluation is the outcome of running the alert policy against an item
// snapshot. A nil result from Evaluate means no alert is warranted.
type Evaluation struct {
	Kind    enums.AlertKind
	Title   string
	Message string
}

// Policy decides whether an item's post-checkout state warrants an alert.
// Expiry takes priority over low stock; an expired item never raises a low
// stock alert in the same pass.
type Policy struct {
	lowStockThreshold int
	now               func() time.Time
}

// NewPolicy builds an alert policy. A non-positive threshold falls back to 5.
func NewPolicy(lowStockThreshold int, now func() time.Time) *Policy {
	if lowStockThreshold <= 0 {
		lowStockThreshold = 5
	}
	if now == nil {
		now = func() time.Time { return time.Now().UTC() }
	}
	return &Policy{
		lowStockThreshold: lowStockThreshold,
		now:               now,
	}
}

// Evaluate inspects the item state and returns the alert to raise, if any.
func (p *Policy) Evaluate(name string, quantity int, expiresAt *time.Time) *Evaluation {
	if expiresAt != nil && expiresAt.Before(p.now()) {
		return &Evaluation{
			Kind:    enums.AlertKindExpired,
			Title:   "Expired Item Alert",
			Message: fmt.Sprintf("Item '%s' has expired.", name),
		}
	}
	if quantity < p.lowStockThreshold {
		return &Evaluation{
			Kind:    enums.AlertKindLowStock,
			Title:   "Low Stock Alert",
			Message: fmt.Sprintf("Item '%s' is running low on stock (%d remaining).", name, quantity),
		}
	}
	return nil
}
