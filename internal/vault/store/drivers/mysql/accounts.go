package mysql

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/aussiebroadwan/credvault/internal/vault/domain"
	"github.com/aussiebroadwan/credvault/internal/vault/store"
)

type accountsRepo struct {
	db DBTX

	// pool is set when the repo is not bound to a transaction, so
	// CreateAccount can open one for the capacity lock.
	pool *sql.DB
}

const accountColumns = `id, administrator_id, appname, username, password, created_at, updated_at`

// CreateAccount serialises writers per owner by locking the administrator row,
// then counts and inserts under that lock.
func (r *accountsRepo) CreateAccount(ctx context.Context, acc domain.Account, maxAccounts int) error {
	if r.pool == nil {
		return createAccountLocked(ctx, r.db, acc, maxAccounts)
	}

	tx, err := r.pool.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if err := createAccountLocked(ctx, tx, acc, maxAccounts); err != nil {
		return err
	}
	return tx.Commit()
}

func createAccountLocked(ctx context.Context, db DBTX, acc domain.Account, maxAccounts int) error {
	// 1. Lock the owner
	var ownerID string
	err := db.QueryRowContext(ctx,
		`SELECT id FROM administrators WHERE id = ? FOR UPDATE`, acc.AdministratorID).Scan(&ownerID)
	if err != nil {
		return mapNotFound(err)
	}

	// 2. Check capacity
	var n int
	if err := db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM accounts WHERE administrator_id = ?`, acc.AdministratorID).Scan(&n); err != nil {
		return fmt.Errorf("count accounts: %w", err)
	}
	if n >= maxAccounts {
		return store.ErrCapacityExceeded
	}

	// 3. Insert
	createdAt := acc.CreatedAt
	if createdAt.IsZero() {
		createdAt = now()
	}
	updatedAt := acc.UpdatedAt
	if updatedAt.IsZero() {
		updatedAt = createdAt
	}
	_, err = db.ExecContext(ctx,
		`INSERT INTO accounts (id, administrator_id, appname, username, password, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		acc.ID, acc.AdministratorID, acc.Appname, acc.Username, acc.Password, createdAt.UTC(), updatedAt.UTC(),
	)
	return mapConstraint(err)
}

func (r *accountsRepo) CountAccountsByOwner(ctx context.Context, administratorID string) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM accounts WHERE administrator_id = ?`, administratorID).Scan(&n)
	return n, err
}

func (r *accountsRepo) ListAccountsByOwner(ctx context.Context, administratorID string) ([]domain.Account, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+accountColumns+` FROM accounts WHERE administrator_id = ? ORDER BY created_at, id`,
		administratorID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	accounts := make([]domain.Account, 0)
	for rows.Next() {
		a, err := scanAccount(rows)
		if err != nil {
			return nil, err
		}
		accounts = append(accounts, a)
	}
	return accounts, rows.Err()
}

func (r *accountsRepo) GetAccountByAppname(ctx context.Context, administratorID, appname string) (domain.Account, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+accountColumns+` FROM accounts WHERE administrator_id = ? AND appname = ?`,
		administratorID, appname)
	a, err := scanAccount(row)
	if err != nil {
		return domain.Account{}, mapNotFound(err)
	}
	return a, nil
}

func (r *accountsRepo) UpdateAccountCredentials(
	ctx context.Context,
	administratorID, accountID, username, password string,
) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE accounts SET username = ?, password = ?, updated_at = ? WHERE id = ? AND administrator_id = ?`,
		username, password, now(), accountID, administratorID)
	if err != nil {
		return err
	}
	return requireAffected(res)
}

