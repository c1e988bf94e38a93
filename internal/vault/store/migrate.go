package store

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database"
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

// Migrate runs every pending up migration found at the root of migrations
// against driver. A schema that is already current is not an error.
func Migrate(migrations fs.FS, dialect string, driver database.Driver) error {
	src, err := iofs.New(migrations, ".")
	if err != nil {
		return fmt.Errorf("store: open %s migrations: %w", dialect, err)
	}

	m, err := migrate.NewWithInstance("iofs", src, dialect, driver)
	if err != nil {
		return fmt.Errorf("store: prepare %s migrations: %w", dialect, err)
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("store: apply %s migrations: %w", dialect, err)
	}
	return nil
}
