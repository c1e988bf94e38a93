package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/aussiebroadwan/credvault/internal/vault/domain"
	"github.com/aussiebroadwan/credvault/internal/vault/store"
	_ "modernc.org/sqlite"
)

// DBTX is satisfied by both *sql.DB and *sql.Tx.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

type Store struct {
	db  *sql.DB
	dsn string
}

// DSN builds the connection string for a database file. Transactions take the
// write lock when they begin so concurrent writers queue instead of failing
// with SQLITE_BUSY halfway through.
func DSN(path string) string {
	return fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)&_txlock=immediate", path)
}

// NewStore opens the database. SQLite allows a single writer, so the pool is
// pinned to one connection; this also keeps ":memory:" databases alive for the
// lifetime of the Store.
func NewStore(dsn string) (*Store, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)

	// Enforce FKs
	if _, err := db.ExecContext(context.Background(), `PRAGMA foreign_keys = ON;`); err != nil {
		_ = db.Close()
		return nil, err
	}

	return &Store{db: db, dsn: dsn}, nil
}

func (s *Store) Close() error { return s.db.Close() }

// Ping verifies the database connection is still alive.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Tx starts a read/write transaction and returns a Tx-scoped Store.
func (s *Store) Tx(ctx context.Context) (store.Tx, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	return &txStore{tx: tx}, nil
}

// WithTx executes fn within a transaction, automatically handling commit/rollback.
// fn must only use tx: the pool holds a single connection, so touching s from
// inside fn blocks forever.
func (s *Store) WithTx(ctx context.Context, fn func(tx store.Tx) error) error {
	tx, err := s.Tx(ctx)
	if err != nil {
		return err
	}

	defer func() {
		_ = tx.Rollback() // safe to call even after commit
	}()

	if err := fn(tx); err != nil {
		return err
	}

	return tx.Commit()
}

func (s *Store) Administrators() store.Administrators { return &administratorsRepo{db: s.db} }
func (s *Store) Accounts() store.Accounts             { return &accountsRepo{db: s.db} }

func mapNotFound(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return store.ErrNotFound
	}
	return err
}

// mapConstraint turns sqlite constraint failures into store sentinels.
func mapConstraint(err error) error {
	if err == nil {
		return nil
	}
	msg := err.Error()
	switch {
	case strings.Contains(msg, "UNIQUE constraint"):
		return fmt.Errorf("%w: %v", store.ErrAlreadyExists, err)
	case strings.Contains(msg, "FOREIGN KEY constraint"):
		return fmt.Errorf("%w: %v", store.ErrNotFound, err)
	}
	return err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAdministrator(row rowScanner) (domain.Administrator, error) {
	var a domain.Administrator
	if err := row.Scan(&a.ID, &a.Name, &a.Username, &a.PasswordHash, &a.CreatedAt); err != nil {
		return domain.Administrator{}, err
	}
	a.CreatedAt = a.CreatedAt.UTC()
	return a, nil
}

func scanAccount(row rowScanner) (domain.Account, error) {
	var a domain.Account
	if err := row.Scan(
		&a.ID,
		&a.AdministratorID,
		&a.Appname,
		&a.Username,
		&a.Password,
		&a.CreatedAt,
		&a.UpdatedAt,
	); err != nil {
		return domain.Account{}, err
	}
	a.CreatedAt = a.CreatedAt.UTC()
	a.UpdatedAt = a.UpdatedAt.UTC()
	return a, nil
}

func now() time.Time { return time.Now().UTC() }
