package mysql

import (
	"context"

	"github.com/aussiebroadwan/credvault/internal/vault/domain"
)

type administratorsRepo struct {
	db DBTX

	// locking is set inside a transaction; counts then take next-key locks
	// so concurrent registrations queue behind each other.
	locking bool
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
	query := `SELECT COUNT(*) FROM administrators`
	if r.locking {
		query += ` FOR UPDATE`
	}
	var n int
	err := r.db.QueryRowContext(ctx, query).Scan(&n)
	return n, err
}

func (r *administratorsRepo) UpdatePasswordHash(ctx context.Context, id, hash string) error {
	res, err := r.db.ExecContext(ctx, `UPDATE administrators SET password_hash = ? WHERE id = ?`, hash, id)
	if err != nil {
		return err
	}
	return requireAffected(res)
}
