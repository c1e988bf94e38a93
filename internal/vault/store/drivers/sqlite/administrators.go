package sqlite

import (
	"context"
	"database/sql"

	"github.com/aussiebroadwan/credvault/internal/vault/domain"
	"github.com/aussiebroadwan/credvault/internal/vault/store"
)

type administratorsRepo struct {
	db DBTX
}

const administratorColumns = `id, name, username, password_hash, created_at`

func (r *administratorsRepo) CreateAdministrator(ctx context.Context, a domain.Administrator) error {
	createdAt := a.CreatedAt
	if createdAt.IsZero() {
		createdAt = now()
	}
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO administrators (id, name, username, password_hash, created_at) VALUES (?, ?, ?, ?, ?)`,
		a.ID, a.Name, a.Username, a.PasswordHash, createdAt.UTC(),
	)
	return mapConstraint(err)
}

func (r *administratorsRepo) GetAdministratorByUsername(ctx context.Context, username string) (domain.Administrator, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+administratorColumns+` FROM administrators WHERE username = ?`, username)
	a, err := scanAdministrator(row)
	if err != nil {
		return domain.Administrator{}, mapNotFound(err)
	}
	return a, nil
}

func (r *administratorsRepo) GetAdministratorByID(ctx context.Context, id string) (domain.Administrator, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+administratorColumns+` FROM administrators WHERE id = ?`, id)
	a, err := scanAdministrator(row)
	if err != nil {
		return domain.Administrator{}, mapNotFound(err)
	}
	return a, nil
}

func (r *administratorsRepo) CountAdministrators(ctx context.Context) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM administrators`).Scan(&n)
	return n, err
}

func (r *administratorsRepo) UpdatePasswordHash(ctx context.Context, id, hash string) error {
	res, err := r.db.ExecContext(ctx, `UPDATE administrators SET password_hash = ? WHERE id = ?`, hash, id)
	if err != nil {
		return err
	}
	return requireAffected(res)
}

// requireAffected maps an UPDATE that touched nothing to ErrNotFound.
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
