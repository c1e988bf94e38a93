package sqlite

import (
	"context"

	"github.com/aussiebroadwan/credvault/internal/vault/domain"
	"github.com/aussiebroadwan/credvault/internal/vault/store"
)

type accountsRepo struct {
	db DBTX
}

const accountColumns = `id, administrator_id, appname, username, password, created_at, updated_at`

// createAccountIfRoom inserts only while the owner is below the limit. The
// count and the insert are a single statement, and SQLite runs statements
// one writer at a time, so two callers cannot both see the last free slot.
const createAccountIfRoom = `
INSERT INTO accounts (id, administrator_id, appname, username, password, created_at, updated_at)
SELECT ?, ?, ?, ?, ?, ?, ?
WHERE (SELECT COUNT(*) FROM accounts WHERE administrator_id = ?) < ?`

func (r *accountsRepo) CreateAccount(ctx context.Context, acc domain.Account, maxAccounts int) error {
	createdAt := acc.CreatedAt
	if createdAt.IsZero() {
		createdAt = now()
	}
	updatedAt := acc.UpdatedAt
	if updatedAt.IsZero() {
		updatedAt = createdAt
	}

	res, err := r.db.ExecContext(ctx, createAccountIfRoom,
		acc.ID, acc.AdministratorID, acc.Appname, acc.Username, acc.Password,
		createdAt.UTC(), updatedAt.UTC(),
		acc.AdministratorID, maxAccounts,
	)
	if err != nil {
		return mapConstraint(err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrCapacityExceeded
	}
	return nil
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
