package inventory

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/inventag/inventag-backend/pkg/config"
	pkgerrors "github.com/inventag/inventag-backend/pkg/errors"
)

func newTestService(t *testing.T) (Service, *Repository) {
	t.Helper()
	repo := NewRepository(newTestDB(t))
	svc, err := NewService(ServiceParams{
		Repo:         repo,
		AlertsConfig: config.AlertsConfig{LowStockThreshold: 5},
	})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc, repo
}

func TestCreateAndGetItem(t *testing.T) {
	t.Parallel()

	svc, _ := newTestService(t)
	ctx := context.Background()

	created, err := svc.CreateItem(ctx, CreateItemDTO{
		Name:       "  Milk  ",
		Quantity:   12,
		PriceCents: 349,
		Category:   "dairy",
	})
	if err != nil {
		t.Fatalf("create item: %v", err)
	}
	if created.Name != "Milk" {
		t.Fatalf("expected trimmed name, got %q", created.Name)
	}
	if created.LowStock {
		t.Fatalf("12 units should not be low stock")
	}

	got, err := svc.GetItem(ctx, created.ID)
	if err != nil {
		t.Fatalf("get item: %v", err)
	}
	if got.Quantity != 12 || got.PriceCents != 349 {
		t.Fatalf("unexpected item %+v", got)
	}
}

func TestGetItemNotFound(t *testing.T) {
	t.Parallel()

	svc, _ := newTestService(t)

	_, err := svc.GetItem(context.Background(), uuid.New())
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestCreateItemValidation(t *testing.T) {
	t.Parallel()

	svc, _ := newTestService(t)
	ctx := context.Background()

	cases := []CreateItemDTO{
		{Name: "   ", Quantity: 1},
		{Name: "Milk", Quantity: -1},
		{Name: "Milk", PriceCents: -10},
	}
	for _, dto := range cases {
		_, err := svc.CreateItem(ctx, dto)
		typed := pkgerrors.As(err)
		if typed == nil || typed.Code() != pkgerrors.CodeValidation {
			t.Fatalf("expected validation error for %+v, got %v", dto, err)
		}
	}
}

func TestUpdateItemPartial(t *testing.T) {
	t.Parallel()

	svc, _ := newTestService(t)
	ctx := context.Background()

	created, err := svc.CreateItem(ctx, CreateItemDTO{Name: "Milk", Quantity: 4, PriceCents: 349})
	if err != nil {
		t.Fatalf("create item: %v", err)
	}

	newQty := 2
	updated, err := svc.UpdateItem(ctx, created.ID, UpdateItemDTO{Quantity: &newQty})
	if err != nil {
		t.Fatalf("update item: %v", err)
	}
	if updated.Quantity != 2 {
		t.Fatalf("expected quantity 2, got %d", updated.Quantity)
	}
	if updated.Name != "Milk" || updated.PriceCents != 349 {
		t.Fatalf("untouched fields changed: %+v", updated)
	}
	if !updated.LowStock {
		t.Fatalf("2 units should be low stock")
	}
}

func TestResolveTag(t *testing.T) {
	t.Parallel()

	svc, _ := newTestService(t)
	ctx := context.Background()

	created, err := svc.CreateItem(ctx, CreateItemDTO{Name: "Yogurt", Quantity: 6})
	if err != nil {
		t.Fatalf("create item: %v", err)
	}
	if err := svc.AssociateTag(ctx, created.ID, "04A1B2C3"); err != nil {
		t.Fatalf("associate tag: %v", err)
	}

	resolved, err := svc.ResolveTag(ctx, "04A1B2C3")
	if err != nil {
		t.Fatalf("resolve tag: %v", err)
	}
	if resolved.ID != created.ID {
		t.Fatalf("expected item %s, got %s", created.ID, resolved.ID)
	}

	for _, tag := range []string{"", "   ", "null", "NULL"} {
		_, err := svc.ResolveTag(ctx, tag)
		typed := pkgerrors.As(err)
		if typed == nil || typed.Code() != pkgerrors.CodeValidation {
			t.Fatalf("expected validation error for tag %q, got %v", tag, err)
		}
	}

	_, err = svc.ResolveTag(ctx, "unknown-tag")
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestServiceDecrement(t *testing.T) {
	t.Parallel()

	svc, _ := newTestService(t)
	ctx := context.Background()

	created, err := svc.CreateItem(ctx, CreateItemDTO{Name: "Bread", Quantity: 3})
	if err != nil {
		t.Fatalf("create item: %v", err)
	}

	remaining, err := svc.Decrement(ctx, created.ID, 5)
	if err != nil {
		t.Fatalf("decrement: %v", err)
	}
	if remaining != 0 {
		t.Fatalf("expected clamp to zero, got %d", remaining)
	}

	_, err = svc.Decrement(ctx, created.ID, 0)
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestWatchItemsBroadcastsOnChange(t *testing.T) {
	t.Parallel()

	svc, _ := newTestService(t)
	ctx := context.Background()

	itemsCh, cancel := svc.WatchItems()
	defer cancel()

	if _, err := svc.CreateItem(ctx, CreateItemDTO{Name: "Milk", Quantity: 2}); err != nil {
		t.Fatalf("create item: %v", err)
	}

	select {
	case items := <-itemsCh:
		if len(items) != 1 || items[0].Name != "Milk" {
			t.Fatalf("unexpected snapshot %+v", items)
		}
	case <-time.After(time.Second):
		t.Fatalf("expected snapshot broadcast")
	}
}

func TestExpiredFlag(t *testing.T) {
	t.Parallel()

	svc, _ := newTestService(t)
	ctx := context.Background()

	past := time.Now().Add(-24 * time.Hour)
	created, err := svc.CreateItem(ctx, CreateItemDTO{Name: "Old Cheese", Quantity: 9, ExpiresAt: &past})
	if err != nil {
		t.Fatalf("create item: %v", err)
	}
	if !created.Expired {
		t.Fatalf("expected expired flag")
	}

	future := time.Now().Add(24 * time.Hour)
	fresh, err := svc.CreateItem(ctx, CreateItemDTO{Name: "Fresh Cheese", Quantity: 9, ExpiresAt: &future})
	if err != nil {
		t.Fatalf("create item: %v", err)
	}
	if fresh.Expired {
		t.Fatalf("expected not expired")
	}
}
