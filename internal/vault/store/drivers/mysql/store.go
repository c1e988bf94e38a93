package mysql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/aussiebroadwan/credvault/internal/vault/domain"
	"github.com/aussiebroadwan/credvault/internal/vault/store"
	gomysql "github.com/go-sql-driver/mysql"
)

// MySQL server error numbers we translate.
const (
	errDupEntry          = 1062
	errNoReferencedRow   = 1452
	errNoReferencedRowV2 = 1216
)

// DBTX is satisfied by both *sql.DB and *sql.Tx.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

type Store struct {
	db *sql.DB
}

// NormalizeDSN forces the driver options the store relies on. DATETIME
// columns scan into time.Time in UTC, and UPDATE reports matched rows rather
// than changed rows.
func NormalizeDSN(dsn string) (string, error) {
	cfg, err := gomysql.ParseDSN(dsn)
	if err != nil {
		return "", fmt.Errorf("mysql: parse dsn: %w", err)
	}
	cfg.ParseTime = true
	cfg.Loc = time.UTC
	cfg.ClientFoundRows = true
	return cfg.FormatDSN(), nil
}

// NewStore opens a connection pool for dsn and checks it is reachable.
func NewStore(ctx context.Context, dsn string) (*Store, error) {
	dsn, err := NormalizeDSN(dsn)
	if err != nil {
		return nil, err
	}

	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(16)
	db.SetMaxIdleConns(4)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("mysql: ping: %w", err)
	}

	return NewStoreFromDB(db), nil
}

// NewStoreFromDB wraps an existing pool.
func NewStoreFromDB(db *sql.DB) *Store {
	return &Store{db: db}
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
func (s *Store) Accounts() store.Accounts             { return &accountsRepo{db: s.db, pool: s.db} }

func mapNotFound(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return store.ErrNotFound
	}
	return err
}

// mapConstraint turns MySQL constraint failures into store sentinels.
func mapConstraint(err error) error {
	var me *gomysql.MySQLError
	if !errors.As(err, &me) {
		return err
	}
	switch me.Number {
	case errDupEntry:
		return fmt.Errorf("%w: %v", store.ErrAlreadyExists, err)
	case errNoReferencedRow, errNoReferencedRowV2:
		return fmt.Errorf("%w: %v", store.ErrNotFound, err)
	}
	return err
}

// requireAffected maps an UPDATE that matched nothing to ErrNotFound.
func requireAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAdministrator(row rowScanner) (domain.Administrator, error) {
	var a domain.Administrator
	if err := row.Scan(&a.ID, &a.Name, &a.Username, &a.PasswordHash, &a.CreatedAt); err != nil {
		return domain.Administrator{}, err
	}
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
	return a, nil
}

func now() time.Time { return time.Now().UTC() }
