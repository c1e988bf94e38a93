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

type AdministratorService struct {
	Store   store.Store
	Hasher  *cryptox.PasswordHasher
	Box     *cryptox.SecretBox
	Limits  domain.Limits // zero value means domain.DefaultLimits
	Metrics *metrics.Metrics
}

// RegisterInput describes a new administrator and the accounts they start with.
type RegisterInput struct {
	Name     string
	Username string
	Password string
	Accounts []AccountInput
}

// AccountInput is one credential supplied by a caller.
type AccountInput struct {
	Appname  string
	Username string
	Password string
}

func (s *AdministratorService) limits() domain.Limits {
	return effectiveLimits(s.Limits)
}

// Register creates an administrator together with its initial accounts. Either
// everything is stored or nothing is.
func (s *AdministratorService) Register(ctx context.Context, in RegisterInput) (admin domain.Administrator, err error) {
	log := slogx.FromContext(ctx).With(slog.String("username", in.Username))
	defer func() { s.Metrics.ObserveOperation("register", Kind(err)) }()
	lim := s.limits()

	// 1. Validate input
	if err := validateRegistration(lim, in); err != nil {
		return domain.Administrator{}, err
	}

	// 2. Hash password and seal account secrets before taking the write lock
	hash, err := s.Hasher.Hash(in.Password)
	if err != nil {
		log.Error("failed to hash password", slog.Any("error", err))
		return domain.Administrator{}, fmt.Errorf("hash password: %w", err)
	}

	now := time.Now().UTC()
	admin = domain.Administrator{
		ID:           idx.NewAt(now).String(),
		Name:         in.Name,
		Username:     in.Username,
		PasswordHash: hash,
		CreatedAt:    now,
	}

	accounts := make([]domain.Account, 0, len(in.Accounts))
	for _, a := range in.Accounts {
		acc, err := sealAccount(s.Box, admin.ID, a, now)
		if err != nil {
			log.Error("failed to seal account", slog.Any("error", err))
			return domain.Administrator{}, err
		}
		accounts = append(accounts, acc)
	}

	// 3. Enforce the administrator limit and create everything atomically
	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		n, err := tx.Administrators().CountAdministrators(ctx)
		if err != nil {
			return fmt.Errorf("count administrators: %w", err)
		}
		if n >= lim.MaxAdministrators {
			return ErrRegistrationClosed
		}

		if err := tx.Administrators().CreateAdministrator(ctx, admin); err != nil {
			if errors.Is(err, store.ErrAlreadyExists) {
				return ErrUsernameTaken
			}
			return fmt.Errorf("create administrator: %w", err)
		}

		for _, acc := range accounts {
			if err := tx.Accounts().CreateAccount(ctx, acc, lim.MaxAccounts); err != nil {
				return mapCreateAccountError(err)
			}
		}
		return nil
	})
	if err != nil {
		if Kind(err) == KindServerError {
			log.Error("failed to register administrator", slog.Any("error", err))
		} else {
			log.Info("registration rejected", slog.String("reason", err.Error()))
		}
		return domain.Administrator{}, err
	}

	log.Info("administrator registered",
		slog.String("administrator_id", admin.ID),
		slog.Int("accounts", len(accounts)),
	)
	return admin, nil
}

func validateRegistration(lim domain.Limits, in RegisterInput) error {
	if !lim.NameOK(in.Name) {
		return invalid(fmt.Sprintf("name must be 1-%d characters", lim.MaxNameLength))
	}
	if !lim.NameOK(in.Username) {
		return invalid(fmt.Sprintf("username must be 1-%d characters", lim.MaxNameLength))
	}
	if !lim.PasswordOK(in.Password) {
		return invalid(fmt.Sprintf("password must be 1-%d characters", lim.MaxPasswordLength))
	}
	if len(in.Accounts) > lim.MaxAccounts {
		return ErrVaultFull
	}

	seen := make(map[string]struct{}, len(in.Accounts))
	for _, a := range in.Accounts {
		if err := validateAccountInput(lim, a); err != nil {
			return err
		}
		if _, dup := seen[a.Appname]; dup {
			return ErrAppnameTaken
		}
		seen[a.Appname] = struct{}{}
	}
	return nil
}
