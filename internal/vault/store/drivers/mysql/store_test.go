package mysql_test

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/aussiebroadwan/credvault/internal/vault/domain"
	"github.com/aussiebroadwan/credvault/internal/vault/store"
	"github.com/aussiebroadwan/credvault/internal/vault/store/drivers/mysql"
	gomysql "github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/require"
)

const (
	ownerID   = "01JAAAAAAAAAAAAAAAAAAAAAAA"
	accountID = "01JBBBBBBBBBBBBBBBBBBBBBBB"
)

var (
	lockOwner    = regexp.QuoteMeta(`SELECT id FROM administrators WHERE id = ? FOR UPDATE`)
	countByOwner = regexp.QuoteMeta(`SELECT COUNT(*) FROM accounts WHERE administrator_id = ?`)
	insertAcct   = regexp.QuoteMeta(`INSERT INTO accounts`)
)

func newMockStore(t *testing.T) (*mysql.Store, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, mock.ExpectationsWereMet())
		_ = db.Close()
	})
	return mysql.NewStoreFromDB(db), mock
}

func testAccount() domain.Account {
	return domain.Account{
		ID:              accountID,
		AdministratorID: ownerID,
		Appname:         "mail",
		Username:        "v1.sealed-user",
		Password:        "v1.sealed-pass",
	}
}

func TestNormalizeDSN(t *testing.T) {
	dsn, err := mysql.NormalizeDSN("vault:secret@tcp(db:3306)/credvault")
	require.NoError(t, err)

	cfg, err := gomysql.ParseDSN(dsn)
	require.NoError(t, err)
	require.True(t, cfg.ParseTime)
	require.True(t, cfg.ClientFoundRows)
	require.Equal(t, time.UTC, cfg.Loc)
	require.Equal(t, "credvault", cfg.DBName)

	_, err = mysql.NormalizeDSN("this is not a dsn")
	require.Error(t, err)
}

func TestCreateAccount_LocksOwnerAndInserts(t *testing.T) {
	st, mock := newMockStore(t)

	mock.ExpectBegin()
	mock.ExpectQuery(lockOwner).WithArgs(ownerID).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(ownerID))
	mock.ExpectQuery(countByOwner).WithArgs(ownerID).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))
	mock.ExpectExec(insertAcct).
		WithArgs(accountID, ownerID, "mail", "v1.sealed-user", "v1.sealed-pass", sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	require.NoError(t, st.Accounts().CreateAccount(context.Background(), testAccount(), 3))
}

func TestCreateAccount_CapacityExceeded(t *testing.T) {
	st, mock := newMockStore(t)

	mock.ExpectBegin()
	mock.ExpectQuery(lockOwner).WithArgs(ownerID).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(ownerID))
	mock.ExpectQuery(countByOwner).WithArgs(ownerID).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))
	mock.ExpectRollback()

	err := st.Accounts().CreateAccount(context.Background(), testAccount(), 3)
	require.ErrorIs(t, err, store.ErrCapacityExceeded)
}

func TestCreateAccount_DuplicateAppname(t *testing.T) {
	st, mock := newMockStore(t)

	mock.ExpectBegin()
	mock.ExpectQuery(lockOwner).WithArgs(ownerID).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(ownerID))
	mock.ExpectQuery(countByOwner).WithArgs(ownerID).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectExec(insertAcct).
		WillReturnError(&gomysql.MySQLError{Number: 1062, Message: "Duplicate entry"})
	mock.ExpectRollback()

	err := st.Accounts().CreateAccount(context.Background(), testAccount(), 3)
	require.ErrorIs(t, err, store.ErrAlreadyExists)
}

func TestCreateAccount_UnknownOwner(t *testing.T) {
	st, mock := newMockStore(t)

	mock.ExpectBegin()
	mock.ExpectQuery(lockOwner).WithArgs(ownerID).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectRollback()

	err := st.Accounts().CreateAccount(context.Background(), testAccount(), 3)
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestCreateAccount_InsideTxUsesIt(t *testing.T) {
	st, mock := newMockStore(t)
	ctx := context.Background()

	mock.ExpectBegin()
	mock.ExpectQuery(lockOwner).WithArgs(ownerID).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(ownerID))
	mock.ExpectQuery(countByOwner).WithArgs(ownerID).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectExec(insertAcct).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := st.WithTx(ctx, func(tx store.Tx) error {
		return tx.Accounts().CreateAccount(ctx, testAccount(), 3)
	})
	require.NoError(t, err)
}

func TestWithTx_RollsBackOnError(t *testing.T) {
	st, mock := newMockStore(t)
	boom := errors.New("boom")

	mock.ExpectBegin()
	mock.ExpectRollback()

	err := st.WithTx(context.Background(), func(store.Tx) error { return boom })
	require.ErrorIs(t, err, boom)
}

func TestCreateAdministrator_Duplicate(t *testing.T) {
	st, mock := newMockStore(t)

	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO administrators`)).
		WithArgs("01JCCCCCCCCCCCCCCCCCCCCCCC", "Alice", "alice", "$argon2id$x", sqlmock.AnyArg()).
		WillReturnError(&gomysql.MySQLError{Number: 1062, Message: "Duplicate entry 'alice'"})

	err := st.Administrators().CreateAdministrator(context.Background(), domain.Administrator{
		ID:           "01JCCCCCCCCCCCCCCCCCCCCCCC",
		Name:         "Alice",
		Username:     "alice",
		PasswordHash: "$argon2id$x",
	})
	require.ErrorIs(t, err, store.ErrAlreadyExists)
}

func TestGetAdministratorByUsername(t *testing.T) {
	st, mock := newMockStore(t)
	created := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)
	query := regexp.QuoteMeta(`SELECT id, name, username, password_hash, created_at FROM administrators WHERE username = ?`)

	mock.ExpectQuery(query).WithArgs("alice").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "username", "password_hash", "created_at"}).
			AddRow(ownerID, "Alice", "alice", "$argon2id$x", created))
	mock.ExpectQuery(query).WithArgs("nobody").WillReturnError(sql.ErrNoRows)

	a, err := st.Administrators().GetAdministratorByUsername(context.Background(), "alice")
	require.NoError(t, err)
	require.Equal(t, ownerID, a.ID)
	require.Equal(t, created, a.CreatedAt)

	_, err = st.Administrators().GetAdministratorByUsername(context.Background(), "nobody")
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestListAccountsByOwner_Empty(t *testing.T) {
	st, mock := newMockStore(t)

	mock.ExpectQuery(regexp.QuoteMeta(`FROM accounts WHERE administrator_id = ? ORDER BY created_at, id`)).
		WithArgs(ownerID).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "administrator_id", "appname", "username", "password", "created_at", "updated_at",
		}))

	accounts, err := st.Accounts().ListAccountsByOwner(context.Background(), ownerID)
	require.NoError(t, err)
	require.NotNil(t, accounts)
	require.Empty(t, accounts)
}

func TestUpdateAccountCredentials(t *testing.T) {
	st, mock := newMockStore(t)
	update := regexp.QuoteMeta(`UPDATE accounts SET username = ?, password = ?, updated_at = ? WHERE id = ? AND administrator_id = ?`)

	mock.ExpectExec(update).
		WithArgs("u", "p", sqlmock.AnyArg(), accountID, ownerID).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(update).
		WithArgs("u", "p", sqlmock.AnyArg(), accountID, "someone-else").
		WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, st.Accounts().UpdateAccountCredentials(context.Background(), ownerID, accountID, "u", "p"))

	err := st.Accounts().UpdateAccountCredentials(context.Background(), "someone-else", accountID, "u", "p")
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestCountAdministrators_LocksInsideTx(t *testing.T) {
	st, mock := newMockStore(t)
	ctx := context.Background()

	mock.ExpectQuery(`^SELECT COUNT\(\*\) FROM administrators$`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(4))
	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT COUNT(*) FROM administrators FOR UPDATE`)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(4))
	mock.ExpectCommit()

	n, err := st.Administrators().CountAdministrators(ctx)
	require.NoError(t, err)
	require.Equal(t, 4, n)

	err = st.WithTx(ctx, func(tx store.Tx) error {
		n, err := tx.Administrators().CountAdministrators(ctx)
		require.Equal(t, 4, n)
		return err
	})
	require.NoError(t, err)
}
