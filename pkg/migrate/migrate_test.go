package migrate

import (
	"context"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/inventag/inventag-backend/pkg/config"
	"github.com/inventag/inventag-backend/pkg/db"
	"github.com/inventag/inventag-backend/pkg/db/models"
	"github.com/inventag/inventag-backend/pkg/enums"
)

func newTestClient(t *testing.T) *db.Client {
	t.Helper()
	cfg := config.DBConfig{
		Driver: "sqlite",
		DSN:    "file:migrate_" + uuid.NewString() + "?mode=memory&cache=shared",
	}
	client, err := db.New(context.Background(), cfg, nil)
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { _ = client.Close() })
	return client
}

func TestRunCreatesSchema(t *testing.T) {
	t.Parallel()

	client := newTestClient(t)
	ctx := context.Background()

	if err := Run(ctx, client); err != nil {
		t.Fatalf("run migrations: %v", err)
	}

	migrator := client.DB().Migrator()
	for _, model := range Models() {
		if !migrator.HasTable(model) {
			t.Fatalf("expected table for %T after migration", model)
		}
	}

	// Running again must be a no-op, not an error.
	if err := Run(ctx, client); err != nil {
		t.Fatalf("re-run migrations: %v", err)
	}
}

func TestRunAllowsAlertWrites(t *testing.T) {
	t.Parallel()

	client := newTestClient(t)
	ctx := context.Background()

	if err := Run(ctx, client); err != nil {
		t.Fatalf("run migrations: %v", err)
	}

	alert := models.Alert{
		ID:      uuid.New(),
		UserID:  uuid.New(),
		Kind:    enums.AlertKindExpired,
		Title:   "Expired Item Alert",
		Message: "Item 'Milk' has expired.",
	}
	if err := client.DB().WithContext(ctx).Create(&alert).Error; err != nil {
		t.Fatalf("insert alert: %v", err)
	}
}

func TestAlertKindTypeDDLListsEveryKind(t *testing.T) {
	t.Parallel()

	ddl := alertKindTypeDDL()
	if !strings.Contains(ddl, "CREATE TYPE alert_kind AS ENUM") {
		t.Fatalf("ddl missing enum creation: %s", ddl)
	}
	if !strings.Contains(ddl, "pg_type") {
		t.Fatalf("ddl missing existence guard: %s", ddl)
	}
	for _, kind := range enums.AlertKindValues() {
		if !strings.Contains(ddl, "'"+string(kind)+"'") {
			t.Fatalf("ddl missing kind %q: %s", kind, ddl)
		}
	}
}

func TestRunRejectsNilClient(t *testing.T) {
	t.Parallel()

	if err := Run(context.Background(), nil); err == nil {
		t.Fatal("expected error for nil client")
	}
}
