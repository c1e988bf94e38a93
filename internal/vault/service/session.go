package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/aussiebroadwan/credvault/internal/vault/domain"
	"github.com/aussiebroadwan/credvault/internal/vault/metrics"
	"github.com/aussiebroadwan/credvault/internal/vault/store"
	"github.com/aussiebroadwan/credvault/pkg/cryptox"
	"github.com/aussiebroadwan/credvault/pkg/slogx"
)

type SessionService struct {
	Store   store.Store
	Hasher  *cryptox.PasswordHasher
	Tokens  *TokenService
	Metrics *metrics.Metrics
	Now     func() time.Time // defaults to time.Now

	dummyOnce sync.Once
	dummyHash string
}

func (s *SessionService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// Login checks username and password and issues a session token. Unknown
// usernames and wrong passwords are indistinguishable to the caller.
func (s *SessionService) Login(ctx context.Context, username, password string) (sess domain.Session, err error) {
	log := slogx.FromContext(ctx).With(slog.String("username", username))
	defer func() { s.Metrics.ObserveOperation("login", Kind(err)) }()

	// 1. Lookup administrator
	admin, err := s.Store.Administrators().GetAdministratorByUsername(ctx, username)
	if errors.Is(err, store.ErrNotFound) {
		// Burn the same time a real verification takes.
		s.Hasher.Verify(password, s.dummy())
		log.Info("login failed", slog.String("reason", "unknown username"))
		return domain.Session{}, ErrInvalidCredentials
	}
	if err != nil {
		log.Error("failed to load administrator", slog.Any("error", err))
		return domain.Session{}, fmt.Errorf("load administrator: %w", err)
	}

	// 2. Verify password
	if !s.Hasher.Verify(password, admin.PasswordHash) {
		log.Info("login failed", slog.String("reason", "wrong password"))
		return domain.Session{}, ErrInvalidCredentials
	}

	// 3. Upgrade legacy or outdated hashes
	if s.Hasher.NeedsRehash(admin.PasswordHash) {
		s.rehash(ctx, admin, password)
	}

	// 4. Issue token
	sess, err = s.Tokens.Issue(admin.Username, s.now())
	if err != nil {
		log.Error("failed to issue session token", slog.Any("error", err))
		return domain.Session{}, err
	}

	log.Info("administrator logged in", slog.String("administrator_id", admin.ID))
	return sess, nil
}

// rehash replaces admin's stored hash. Failures are logged and otherwise
// ignored; the old hash keeps working.
func (s *SessionService) rehash(ctx context.Context, admin domain.Administrator, password string) {
	log := slogx.FromContext(ctx)

	hash, err := s.Hasher.Hash(password)
	if err != nil {
		log.Warn("failed to rehash password", slog.Any("error", err))
		return
	}
	if err := s.Store.Administrators().UpdatePasswordHash(ctx, admin.ID, hash); err != nil {
		log.Warn("failed to store upgraded password hash", slog.Any("error", err))
		return
	}
	log.Info("upgraded password hash", slog.String("administrator_id", admin.ID))
}

func (s *SessionService) dummy() string {
	s.dummyOnce.Do(func() {
		seed, err := cryptox.RandomString(32)
		if err != nil {
			seed = "credvault-dummy"
		}
		s.dummyHash, _ = s.Hasher.Hash(seed)
	})
	return s.dummyHash
}

// Authenticate resolves a bearer token to the administrator it names.
func (s *SessionService) Authenticate(ctx context.Context, token string) (domain.Administrator, error) {
	username, ok := s.Tokens.Verify(token, s.now())
	if !ok {
		return domain.Administrator{}, ErrUnauthorized
	}

	admin, err := s.Store.Administrators().GetAdministratorByUsername(ctx, username)
	if errors.Is(err, store.ErrNotFound) {
		return domain.Administrator{}, ErrAdministratorNotFound
	}
	if err != nil {
		return domain.Administrator{}, fmt.Errorf("load administrator: %w", err)
	}
	return admin, nil
}
