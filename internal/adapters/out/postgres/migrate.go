package postgres

import (
	"fmt"

	"orderdesk/internal/adapters/out/postgres/auditrepo"
	"orderdesk/internal/adapters/out/postgres/entryrepo"
	"orderdesk/internal/adapters/out/postgres/masterdatarepo"
	"orderdesk/internal/adapters/out/postgres/orderrepo"

	"gorm.io/gorm"
)

// Migrate brings the schema up to date. Master data tables are created only
// when missing so a shared catalogue schema is left untouched.
func Migrate(db *gorm.DB) error {
	for _, model := range []any{&masterdatarepo.CustomerDTO{}, &masterdatarepo.ProductDTO{}} {
		if db.Migrator().HasTable(model) {
			continue
		}
		if err := db.Migrator().CreateTable(model); err != nil {
			return fmt.Errorf("create master data table: %w", err)
		}
	}

	if err := db.AutoMigrate(
		&entryrepo.EntryDTO{},
		&orderrepo.OrderDTO{},
		&orderrepo.OrderLineDTO{},
		&auditrepo.AssemblyReturnDTO{},
		&auditrepo.OrderDeletionDTO{},
	); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}

	// One entry per order line; unlinked entries carry NULL.
	err := db.Exec(fmt.Sprintf(
		"CREATE UNIQUE INDEX IF NOT EXISTS %s ON summary_entries (order_line_id) WHERE order_line_id IS NOT NULL",
		entryrepo.OrderLineIndexName,
	)).Error
	if err != nil {
		return fmt.Errorf("create %s: %w", entryrepo.OrderLineIndexName, err)
	}
	return nil
}
