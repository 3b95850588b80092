package scans

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/inventag/inventag-backend/pkg/db/models"
	pkgerrors "github.com/inventag/inventag-backend/pkg/errors"
)

func newTestService(t *testing.T) Service {
	t.Helper()
	dsn := "file:scans_" + uuid.NewString() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := db.AutoMigrate(&models.ScanRecord{}); err != nil {
		t.Fatalf("migrate scans: %v", err)
	}

	svc, err := NewService(NewRepository(db))
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc
}

func TestAppendAndList(t *testing.T) {
	t.Parallel()

	svc := newTestService(t)
	ctx := context.Background()
	userID := uuid.New()

	first, err := svc.Append(ctx, AppendDTO{
		ItemID:   uuid.New(),
		ItemName: "Milk",
		Quantity: 2,
		Valid:    true,
		UserID:   userID,
		UserName: "Ana",
	})
	if err != nil {
		t.Fatalf("append: %v", err)
	}
	if first.ItemName != "Milk" || first.Quantity != 2 || !first.Valid {
		t.Fatalf("unexpected record %+v", first)
	}

	time.Sleep(5 * time.Millisecond)
	if _, err := svc.Append(ctx, AppendDTO{
		ItemID:   uuid.New(),
		ItemName: "Bread",
		Quantity: 1,
		Valid:    true,
		UserID:   userID,
		UserName: "Ana",
	}); err != nil {
		t.Fatalf("append second: %v", err)
	}

	records, err := svc.ListByUser(ctx, userID, 0)
	if err != nil {
		t.Fatalf("list by user: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}
	if records[0].ItemName != "Bread" {
		t.Fatalf("expected newest first, got %q", records[0].ItemName)
	}

	limited, err := svc.ListAll(ctx, 1)
	if err != nil {
		t.Fatalf("list all: %v", err)
	}
	if len(limited) != 1 {
		t.Fatalf("expected limit applied, got %d records", len(limited))
	}
}

func TestAppendValidation(t *testing.T) {
	t.Parallel()

	svc := newTestService(t)
	ctx := context.Background()

	cases := []AppendDTO{
		{ItemName: "Milk", Quantity: 1, UserID: uuid.New()},
		{ItemID: uuid.New(), ItemName: "Milk", Quantity: 1},
		{ItemID: uuid.New(), ItemName: "Milk", Quantity: 0, UserID: uuid.New()},
	}
	for _, dto := range cases {
		_, err := svc.Append(ctx, dto)
		typed := pkgerrors.As(err)
		if typed == nil || typed.Code() != pkgerrors.CodeValidation {
			t.Fatalf("expected validation error for %+v, got %v", dto, err)
		}
	}
}
