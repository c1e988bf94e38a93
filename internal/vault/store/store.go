package store

import (
	"context"
	"errors"

	"github.com/aussiebroadwan/credvault/internal/vault/domain"
)

var (
	ErrNotFound         = errors.New("store: not found")
	ErrAlreadyExists    = errors.New("store: already exists")
	ErrCapacityExceeded = errors.New("store: capacity exceeded")

	// ErrNestedTx is returned when Tx or WithTx is called on a Tx.
	ErrNestedTx = errors.New("store: transactions do not nest")
)

// Store is the root data access interface. Concrete drivers (sqlite, mysql)
// implement this. Sub-repositories are exposed as methods so that code inside
// WithTx only ever reaches the database through the transaction.
type Store interface {
	Administrators() Administrators
	Accounts() Accounts

	// ApplyMigrations brings the schema up to date.
	ApplyMigrations() error

	// Tx starts a read/write transaction and returns a Tx-scoped Store.
	// The caller MUST call Commit() or Rollback() on the returned Tx.
	Tx(ctx context.Context) (Tx, error)

	// WithTx executes fn within a transaction. The transaction commits iff fn
	// returns nil.
	WithTx(ctx context.Context, fn func(tx Tx) error) error

	// Close releases the underlying connection pool.
	Close() error

	// Ping verifies the database connection is still alive.
	Ping(ctx context.Context) error
}

// Tx is a transactional store. It embeds the same repos but adds Commit/Rollback.
// Transactions do not nest.
type Tx interface {
	Store
	Commit() error
	Rollback() error
}

type Administrators interface {
	// CreateAdministrator inserts a (id is provided by the caller via ULID).
	// Returns ErrAlreadyExists when the username is taken.
	CreateAdministrator(ctx context.Context, a domain.Administrator) error

	// GetAdministratorByUsername is used during login and authentication.
	GetAdministratorByUsername(ctx context.Context, username string) (domain.Administrator, error)

	GetAdministratorByID(ctx context.Context, id string) (domain.Administrator, error)

	// CountAdministrators returns the number of registered administrators.
	// Inside a transaction the count stays valid until commit, so a
	// count-then-create sequence cannot be interleaved with another.
	CountAdministrators(ctx context.Context) (int, error)

	// UpdatePasswordHash replaces the stored hash, used to upgrade legacy hashes.
	UpdatePasswordHash(ctx context.Context, id, hash string) error
}

type Accounts interface {
	// CreateAccount inserts acc unless its owner already holds maxAccounts
	// accounts (ErrCapacityExceeded) or already has an account with the same
	// appname (ErrAlreadyExists). The count and the insert are atomic with
	// respect to concurrent callers for the same owner.
	CreateAccount(ctx context.Context, acc domain.Account, maxAccounts int) error

	// CountAccountsByOwner returns how many accounts administratorID owns.
	CountAccountsByOwner(ctx context.Context, administratorID string) (int, error)

	// ListAccountsByOwner returns every account owned by administratorID in
	// creation order. An empty result is not an error.
	ListAccountsByOwner(ctx context.Context, administratorID string) ([]domain.Account, error)

	// GetAccountByAppname looks up an account by its owner and appname.
	GetAccountByAppname(ctx context.Context, administratorID, appname string) (domain.Account, error)

	// UpdateAccountCredentials overwrites username and password in place and
	// bumps updated_at. Returns ErrNotFound unless the account belongs to
	// administratorID.
	UpdateAccountCredentials(ctx context.Context, administratorID, accountID, username, password string) error
}
