package mysql

import (
	"github.com/aussiebroadwan/credvault/internal/vault/store"
	"github.com/aussiebroadwan/credvault/internal/vault/store/drivers/mysql/migrations"

	migratemysql "github.com/golang-migrate/migrate/v4/database/mysql"
)

// ApplyMigrations brings the schema embedded in the binary up to date. The
// migrate driver pins one pooled connection for its advisory lock.
func (s *Store) ApplyMigrations() error {
	driver, err := migratemysql.WithInstance(s.db, &migratemysql.Config{})
	if err != nil {
		return err
	}
	return store.Migrate(migrations.Migrations, "mysql", driver)
}
