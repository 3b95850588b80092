package migrate

import (
	"context"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/inventag/inventag-backend/pkg/config"
	"github.com/inventag/inventag-backend/pkg/db"
	"github.com/inventag/inventag-backend/pkg/db/models"
	"github.com/inventag/inventag-backend/pkg/enums"
	"github.com/inventag/inventag-backend/pkg/logger"
)

// Models lists every table the service owns, in dependency order.
func Models() []any {
	return []any{
		&models.User{},
		&models.InventoryItem{},
		&models.CartLine{},
		&models.ScanRecord{},
		&models.Alert{},
	}
}

// Run applies the schema for all owned models inside a single transaction.
// On Postgres the alert_kind enum type is created first; AutoMigrate manages
// tables and indexes but never custom types.
func Run(ctx context.Context, client *db.Client) error {
	if client == nil {
		return fmt.Errorf("db client is required")
	}
	return client.WithTx(ctx, func(tx *gorm.DB) error {
		if tx.Dialector.Name() == "postgres" {
			if err := tx.Exec(alertKindTypeDDL()).Error; err != nil {
				return fmt.Errorf("creating alert_kind type: %w", err)
			}
		}
		if err := tx.AutoMigrate(Models()...); err != nil {
			return fmt.Errorf("auto-migrating schema: %w", err)
		}
		return nil
	})
}

// alertKindTypeDDL builds an idempotent statement creating the alert_kind
// enum. Postgres has no CREATE TYPE IF NOT EXISTS, so the guard checks
// pg_type before creating.
func alertKindTypeDDL() string {
	kinds := enums.AlertKindValues()
	quoted := make([]string, len(kinds))
	for i, kind := range kinds {
		quoted[i] = "'" + string(kind) + "'"
	}
	return fmt.Sprintf(`DO $$
BEGIN
    IF NOT EXISTS (SELECT 1 FROM pg_type WHERE typname = 'alert_kind') THEN
        CREATE TYPE alert_kind AS ENUM (%s);
    END IF;
END
$$;`, strings.Join(quoted, ", "))
}

// MaybeRunDev executes migrations automatically when the app is running in dev
// mode and the feature flag is enabled.
func MaybeRunDev(ctx context.Context, cfg *config.Config, logg *logger.Logger, client *db.Client) error {
	if !cfg.App.IsDev() || !cfg.FeatureFlags.AutoMigrate {
		return nil
	}

	ctx = logg.WithFields(ctx, map[string]any{"env": cfg.App.Env})
	logg.Info(ctx, "running schema migrations (dev auto-run)")

	if err := Run(ctx, client); err != nil {
		return err
	}

	logg.Info(ctx, "schema migrations completed")
	return nil
}
