package checkout

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/inventag/inventag-backend/internal/alerts"
	"github.com/inventag/inventag-backend/internal/cart"
	"github.com/inventag/inventag-backend/internal/inventory"
	"github.com/inventag/inventag-backend/internal/scans"
	pkgerrors "github.com/inventag/inventag-backend/pkg/errors"
	"github.com/inventag/inventag-backend/pkg/logger"
)

// ProcessedLine describes one cart line that was committed to stock.
type ProcessedLine struct {
	ItemID    uuid.UUID `json:"item_id"`
	Name      string    `json:"name"`
	Quantity  int       `json:"quantity"`
	Remaining int       `json:"remaining"`
}

// Result summarizes a completed checkout.
type Result struct {
	Lines      []ProcessedLine   `json:"lines"`
	TotalCents int               `json:"total_cents"`
	Alerts     []alerts.AlertDTO `json:"alerts"`
}

type cartStore interface {
	Get(ctx context.Context, userID uuid.UUID) (*cart.CartDTO, error)
	Clear(ctx context.Context, userID uuid.UUID) error
}

type stockStore interface {
	GetItem(ctx context.Context, id uuid.UUID) (*inventory.ItemDTO, error)
	Decrement(ctx context.Context, itemID uuid.UUID, amount int) (int, error)
}

type alertRaiser interface {
	Raise(ctx context.Context, dto alerts.CreateAlertDTO) (*alerts.AlertDTO, error)
}

type scanAppender interface {
	Append(ctx context.Context, dto scans.AppendDTO) (*scans.RecordDTO, error)
}

type deviceNotifier interface {
	SendAlert(ctx context.Context, kind, message string) error
}

// Coordinator drives the checkout flow: each cart line is decremented from
// stock, evaluated against the alert policy, and recorded in the scan feed.
// Lines commit one at a time; a failure aborts the rest but leaves already
// committed lines in place. The cart is only cleared when every line went
// through.
type Coordinator struct {
	carts  cartStore
	stock  stockStore
	alerts alertRaiser
	scans  scanAppender
	policy *alerts.Policy
	device deviceNotifier
	logg   *logger.Logger
}

// CoordinatorParams bundles the dependencies required to build a checkout
// coordinator. Device is optional; all other fields are required.
type CoordinatorParams struct {
	Carts  cartStore
	Stock  stockStore
	Alerts alertRaiser
	Scans  scanAppender
	Policy *alerts.Policy
	Device deviceNotifier
	Logger *logger.Logger
}

// NewCoordinator constructs a checkout coordinator.
func NewCoordinator(params CoordinatorParams) (*Coordinator, error) {
	if params.Carts == nil {
		return nil, fmt.Errorf("cart service is required")
	}
	if params.Stock == nil {
		return nil, fmt.Errorf("inventory service is required")
	}
	if params.Alerts == nil {
		return nil, fmt.Errorf("alerts service is required")
	}
	if params.Scans == nil {
		return nil, fmt.Errorf("scans service is required")
	}
	if params.Policy == nil {
		return nil, fmt.Errorf("alert policy is required")
	}
	if params.Logger == nil {
		return nil, fmt.Errorf("logger is required")
	}
	return &Coordinator{
		carts:  params.Carts,
		stock:  params.Stock,
		alerts: params.Alerts,
		scans:  params.Scans,
		policy: params.Policy,
		device: params.Device,
		logg:   params.Logger,
	}, nil
}

// Checkout commits the user's cart against stock. Quantities clamp at zero;
// a missing item aborts the run without undoing earlier lines.
func (c *Coordinator) Checkout(ctx context.Context, userID uuid.UUID, userName string) (*Result, error) {
	current, err := c.carts.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(current.Lines) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart is empty")
	}

	result := &Result{
		Lines:  make([]ProcessedLine, 0, len(current.Lines)),
		Alerts: []alerts.AlertDTO{},
	}

	for _, line := range current.Lines {
		processed, raised, err := c.commitLine(ctx, userID, userName, line)
		if err != nil {
			// Earlier lines stay committed; the cart keeps its
			// remaining lines for a retry.
			return nil, pkgerrors.Wrap(pkgerrors.CodeConflict, err,
				fmt.Sprintf("checkout aborted at item %q; %d line(s) already committed", line.Name, len(result.Lines)),
			)
		}
		result.Lines = append(result.Lines, *processed)
		result.TotalCents += line.PriceCents * line.Quantity
		if raised != nil {
			result.Alerts = append(result.Alerts, *raised)
		}
	}

	if err := c.carts.Clear(ctx, userID); err != nil {
		return nil, err
	}
	return result, nil
}

func (c *Coordinator) commitLine(ctx context.Context, userID uuid.UUID, userName string, line cart.LineDTO) (*ProcessedLine, *alerts.AlertDTO, error) {
	remaining, err := c.stock.Decrement(ctx, line.ItemID, line.Quantity)
	if err != nil {
		return nil, nil, err
	}

	var raised *alerts.AlertDTO
	item, err := c.stock.GetItem(ctx, line.ItemID)
	if err != nil {
		// The decrement already committed; log and carry on with the
		// line snapshot.
		c.logg.Error(ctx, "re-read after decrement failed", err)
	} else if eval := c.policy.Evaluate(item.Name, item.Quantity, item.ExpiresAt); eval != nil {
		itemID := item.ID
		raised, err = c.alerts.Raise(ctx, alerts.CreateAlertDTO{
			UserID:  userID,
			Kind:    eval.Kind,
			Title:   eval.Title,
			Message: eval.Message,
			ItemID:  &itemID,
		})
		if err != nil {
			return nil, nil, err
		}
		c.notifyDevice(ctx, eval)
	}

	if _, err := c.scans.Append(ctx, scans.AppendDTO{
		ItemID:   line.ItemID,
		ItemName: line.Name,
		Quantity: line.Quantity,
		Valid:    true,
		UserID:   userID,
		UserName: userName,
	}); err != nil {
		return nil, nil, err
	}

	return &ProcessedLine{
		ItemID:    line.ItemID,
		Name:      line.Name,
		Quantity:  line.Quantity,
		Remaining: remaining,
	}, raised, nil
}

// notifyDevice forwards the alert to the reader display. Device failures are
// logged and never fail the checkout.
func (c *Coordinator) notifyDevice(ctx context.Context, eval *alerts.Evaluation) {
	if c.device == nil {
		return
	}
	notifyCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer cancel()
	if err := c.device.SendAlert(notifyCtx, string(eval.Kind), eval.Message); err != nil {
		c.logg.Warn(ctx, fmt.Sprintf("device alert failed: %v", err))
	}
}
