package alerts

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/inventag/inventag-backend/pkg/db/models"
	"github.com/inventag/inventag-backend/pkg/enums"
	pkgerrors "github.com/inventag/inventag-backend/pkg/errors"
)

func newTestService(t *testing.T) Service {
	t.Helper()
	dsn := "file:alerts_" + uuid.NewString() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := db.AutoMigrate(&models.Alert{}); err != nil {
		t.Fatalf("migrate alerts: %v", err)
	}

	svc, err := NewService(ServiceParams{Repo: NewRepository(db)})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc
}

func raise(t *testing.T, svc Service, userID uuid.UUID, kind enums.AlertKind, title string) *AlertDTO {
	t.Helper()
	alert, err := svc.Raise(context.Background(), CreateAlertDTO{
		UserID:  userID,
		Kind:    kind,
		Title:   title,
		Message: "message",
	})
	if err != nil {
		t.Fatalf("raise alert: %v", err)
	}
	return alert
}

func TestRaiseAndList(t *testing.T) {
	t.Parallel()

	svc := newTestService(t)
	ctx := context.Background()
	userID := uuid.New()

	raise(t, svc, userID, enums.AlertKindLowStock, "first")
	time.Sleep(5 * time.Millisecond)
	raise(t, svc, userID, enums.AlertKindExpired, "second")
	raise(t, svc, uuid.New(), enums.AlertKindLowStock, "someone else")

	alerts, err := svc.List(ctx, userID, false)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(alerts) != 2 {
		t.Fatalf("expected 2 alerts, got %d", len(alerts))
	}
	if alerts[0].Title != "second" {
		t.Fatalf("expected newest first, got %q", alerts[0].Title)
	}
}

func TestRaiseDoesNotDeduplicate(t *testing.T) {
	t.Parallel()

	svc := newTestService(t)
	userID := uuid.New()

	raise(t, svc, userID, enums.AlertKindLowStock, "Low Stock Alert")
	raise(t, svc, userID, enums.AlertKindLowStock, "Low Stock Alert")

	alerts, err := svc.List(context.Background(), userID, false)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(alerts) != 2 {
		t.Fatalf("expected duplicate alerts preserved, got %d", len(alerts))
	}
}

func TestMarkReadFlow(t *testing.T) {
	t.Parallel()

	svc := newTestService(t)
	ctx := context.Background()
	userID := uuid.New()

	first := raise(t, svc, userID, enums.AlertKindLowStock, "first")
	raise(t, svc, userID, enums.AlertKindExpired, "second")

	count, err := svc.CountUnread(ctx, userID)
	if err != nil {
		t.Fatalf("count unread: %v", err)
	}
	if count != 2 {
		t.Fatalf("expected 2 unread, got %d", count)
	}

	if err := svc.MarkRead(ctx, userID, first.ID); err != nil {
		t.Fatalf("mark read: %v", err)
	}

	unread, err := svc.List(ctx, userID, true)
	if err != nil {
		t.Fatalf("list unread: %v", err)
	}
	if len(unread) != 1 || unread[0].Title != "second" {
		t.Fatalf("unexpected unread alerts %+v", unread)
	}

	if err := svc.MarkAllRead(ctx, userID); err != nil {
		t.Fatalf("mark all read: %v", err)
	}
	count, err = svc.CountUnread(ctx, userID)
	if err != nil {
		t.Fatalf("count unread: %v", err)
	}
	if count != 0 {
		t.Fatalf("expected 0 unread, got %d", count)
	}
}

func TestMarkReadScopedToUser(t *testing.T) {
	t.Parallel()

	svc := newTestService(t)
	ctx := context.Background()
	owner := uuid.New()

	alert := raise(t, svc, owner, enums.AlertKindLowStock, "mine")

	err := svc.MarkRead(ctx, uuid.New(), alert.ID)
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found for foreign user, got %v", err)
	}
}

func TestRaiseValidation(t *testing.T) {
	t.Parallel()

	svc := newTestService(t)
	ctx := context.Background()

	cases := []CreateAlertDTO{
		{Kind: enums.AlertKindLowStock, Title: "t", Message: "m"},
		{UserID: uuid.New(), Kind: "bogus", Title: "t", Message: "m"},
		{UserID: uuid.New(), Kind: enums.AlertKindLowStock},
	}
	for _, dto := range cases {
		_, err := svc.Raise(ctx, dto)
		typed := pkgerrors.As(err)
		if typed == nil || typed.Code() != pkgerrors.CodeValidation {
			t.Fatalf("expected validation error for %+v, got %v", dto, err)
		}
	}
}
