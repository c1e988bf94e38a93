package sqlite

import (
	"github.com/aussiebroadwan/credvault/internal/vault/store"
	"github.com/aussiebroadwan/credvault/internal/vault/store/drivers/sqlite/migrations"

	"github.com/golang-migrate/migrate/v4/database/sqlite"
)

// ApplyMigrations brings the schema embedded in the binary up to date. The
// migrate driver shares the store's single connection and is not closed.
func (s *Store) ApplyMigrations() error {
	driver, err := sqlite.WithInstance(s.db, &sqlite.Config{})
	if err != nil {
		return err
	}
	return store.Migrate(migrations.Migrations, "sqlite", driver)
}
