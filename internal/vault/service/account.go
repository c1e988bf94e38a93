package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/aussiebroadwan/credvault/internal/vault/domain"
	"github.com/aussiebroadwan/credvault/internal/vault/metrics"
	"github.com/aussiebroadwan/credvault/internal/vault/store"
	"github.com/aussiebroadwan/credvault/pkg/cryptox"
	"github.com/aussiebroadwan/credvault/pkg/idx"
	"github.com/aussiebroadwan/credvault/pkg/slogx"
)

// AccountService manages the accounts of an authenticated administrator.
// Every method acts only on accounts owned by the administrator passed in.
type AccountService struct {
	Store   store.Store
	Box     *cryptox.SecretBox
	Limits  domain.Limits // zero value means domain.DefaultLimits
	Metrics *metrics.Metrics
}

// ModifyInput replaces the credentials of the account named Appname.
type ModifyInput struct {
	Appname     string
	NewUsername string
	NewPassword string
}

// Save stores a new account for admin.
func (s *AccountService) Save(ctx context.Context, admin domain.Administrator, in AccountInput) (err error) {
	log := slogx.FromContext(ctx).With(
		slog.String("administrator_id", admin.ID),
		slog.String("appname", in.Appname),
	)
	defer func() { s.Metrics.ObserveOperation("save", Kind(err)) }()
	lim := effectiveLimits(s.Limits)

	// 1. Validate input
	if err := validateAccountInput(lim, in); err != nil {
		return err
	}

	// 2. Seal secrets
	acc, err := sealAccount(s.Box, admin.ID, in, time.Now().UTC())
	if err != nil {
		log.Error("failed to seal account", slog.Any("error", err))
		return err
	}

	// 3. Insert under the capacity limit
	if err := s.Store.Accounts().CreateAccount(ctx, acc, lim.MaxAccounts); err != nil {
		err = mapCreateAccountError(err)
		if Kind(err) == KindServerError {
			log.Error("failed to save account", slog.Any("error", err))
		}
		return err
	}

	log.Info("account saved", slog.String("account_id", acc.ID))
	return nil
}

// List returns every account admin owns with secrets in plaintext. Owning no
// accounts is not an error.
func (s *AccountService) List(ctx context.Context, admin domain.Administrator) (out []domain.AccountCredentials, err error) {
	log := slogx.FromContext(ctx).With(slog.String("administrator_id", admin.ID))
	defer func() { s.Metrics.ObserveOperation("list", Kind(err)) }()

	accounts, err := s.Store.Accounts().ListAccountsByOwner(ctx, admin.ID)
	if err != nil {
		log.Error("failed to list accounts", slog.Any("error", err))
		return nil, fmt.Errorf("list accounts: %w", err)
	}

	out = make([]domain.AccountCredentials, 0, len(accounts))
	for _, acc := range accounts {
		opened, err := openAccount(s.Box, acc)
		if err != nil {
			log.Error("failed to open account", slog.String("account_id", acc.ID), slog.Any("error", err))
			return nil, err
		}
		out = append(out, opened.Credentials())
	}
	return out, nil
}

// Modify overwrites the username and password of one of admin's accounts.
func (s *AccountService) Modify(ctx context.Context, admin domain.Administrator, in ModifyInput) (err error) {
	log := slogx.FromContext(ctx).With(
		slog.String("administrator_id", admin.ID),
		slog.String("appname", in.Appname),
	)
	defer func() { s.Metrics.ObserveOperation("modify", Kind(err)) }()
	lim := effectiveLimits(s.Limits)

	// 1. Validate input
	if err := validateAccountInput(lim, AccountInput{
		Appname:  in.Appname,
		Username: in.NewUsername,
		Password: in.NewPassword,
	}); err != nil {
		return err
	}

	// 2. Find the owned account
	acc, err := s.Store.Accounts().GetAccountByAppname(ctx, admin.ID, in.Appname)
	if errors.Is(err, store.ErrNotFound) {
		return ErrAccountNotFound
	}
	if err != nil {
		log.Error("failed to load account", slog.Any("error", err))
		return fmt.Errorf("load account: %w", err)
	}

	// 3. Seal and persist the new credentials
	username, err := s.Box.SealString(in.NewUsername)
	if err != nil {
		return fmt.Errorf("seal username: %w", err)
	}
	password, err := s.Box.SealString(in.NewPassword)
	if err != nil {
		return fmt.Errorf("seal password: %w", err)
	}

	err = s.Store.Accounts().UpdateAccountCredentials(ctx, admin.ID, acc.ID, username, password)
	if errors.Is(err, store.ErrNotFound) {
		return ErrAccountNotFound
	}
	if err != nil {
		log.Error("failed to update account", slog.Any("error", err))
		return fmt.Errorf("update account: %w", err)
	}

	log.Info("account modified", slog.String("account_id", acc.ID))
	return nil
}

func validateAccountInput(lim domain.Limits, in AccountInput) error {
	if !lim.NameOK(in.Appname) {
		return invalid(fmt.Sprintf("appname must be 1-%d characters", lim.MaxNameLength))
	}
	if !lim.NameOK(in.Username) {
		return invalid(fmt.Sprintf("username must be 1-%d characters", lim.MaxNameLength))
	}
	if !lim.PasswordOK(in.Password) {
		return invalid(fmt.Sprintf("password must be 1-%d characters", lim.MaxPasswordLength))
	}
	return nil
}

func sealAccount(box *cryptox.SecretBox, ownerID string, in AccountInput, now time.Time) (domain.Account, error) {
	username, err := box.SealString(in.Username)
	if err != nil {
		return domain.Account{}, fmt.Errorf("seal username: %w", err)
	}
	password, err := box.SealString(in.Password)
	if err != nil {
		return domain.Account{}, fmt.Errorf("seal password: %w", err)
	}
	return domain.Account{
		ID:              idx.NewAt(now).String(),
		AdministratorID: ownerID,
		Appname:         in.Appname,
		Username:        username,
		Password:        password,
		CreatedAt:       now,
		UpdatedAt:       now,
	}, nil
}

func openAccount(box *cryptox.SecretBox, acc domain.Account) (domain.Account, error) {
	username, err := box.OpenString(acc.Username)
	if err != nil {
		return domain.Account{}, fmt.Errorf("open username: %w", err)
	}
	password, err := box.OpenString(acc.Password)
	if err != nil {
		return domain.Account{}, fmt.Errorf("open password: %w", err)
	}
	acc.Username = username
	acc.Password = password
	return acc, nil
}

func mapCreateAccountError(err error) error {
	switch {
	case errors.Is(err, store.ErrCapacityExceeded):
		return ErrVaultFull
	case errors.Is(err, store.ErrAlreadyExists):
		return ErrAppnameTaken
	case errors.Is(err, store.ErrNotFound):
		return ErrAdministratorNotFound
	default:
		return fmt.Errorf("create account: %w", err)
	}
}

func effectiveLimits(l domain.Limits) domain.Limits {
	if l == (domain.Limits{}) {
		return domain.DefaultLimits
	}
	return l
}
