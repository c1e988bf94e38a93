package vault_test

import (
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/aussiebroadwan/credvault/pkg/vaultsdk"
	"github.com/stretchr/testify/require"
)

func TestHealthEndpoints(t *testing.T) {
	client := vaultsdk.NewClient(setupVaultContainer(t, nil))

	health, err := client.GetLiveness(t.Context())
	assertHealthy(t, health, err)

	health, err = client.GetReadiness(t.Context())
	assertHealthy(t, health, err)
	require.Equal(t, "ok", health.Checks.Database)
	require.Equal(t, "ok", health.Checks.Signer)
}

func TestRegisterLoginSaveListModify(t *testing.T) {
	ctx := t.Context()
	client := vaultsdk.NewClient(setupVaultContainer(t, nil))
	session := registerAndLogin(t, client, "alice")

	accounts, err := session.ListAccounts(ctx)
	require.NoError(t, err)
	require.Empty(t, accounts)

	_, err = session.SaveAccount(ctx, vaultsdk.AccountRequest{Appname: "mail", Username: "alice@mail", Password: "s3cret"})
	require.NoError(t, err)

	_, err = session.SaveAccount(ctx, vaultsdk.AccountRequest{Appname: "mail", Username: "x", Password: "y"})
	assertAPIError(t, err, vaultsdk.ErrAppnameTaken)

	_, err = session.ModifyAccount(ctx, vaultsdk.ModifyAccountRequest{Appname: "mail", NewUsername: "alice2", NewPassword: "n3w"})
	require.NoError(t, err)

	accounts, err = session.ListAccounts(ctx)
	require.NoError(t, err)
	require.Equal(t, []vaultsdk.Account{{Appname: "mail", Username: "alice2", Password: "n3w"}}, accounts)

	_, err = client.Login(ctx, "alice", "wrong")
	assertAPIError(t, err, vaultsdk.ErrUnauthorized)
}

func TestOwnershipIsolation(t *testing.T) {
	ctx := t.Context()
	client := vaultsdk.NewClient(setupVaultContainer(t, nil))
	alice := registerAndLogin(t, client, "alice")
	bob := registerAndLogin(t, client, "bob")

	_, err := alice.SaveAccount(ctx, vaultsdk.AccountRequest{Appname: "mail", Username: "a", Password: "a"})
	require.NoError(t, err)

	accounts, err := bob.ListAccounts(ctx)
	require.NoError(t, err)
	require.Empty(t, accounts)

	_, err = bob.ModifyAccount(ctx, vaultsdk.ModifyAccountRequest{Appname: "mail", NewUsername: "b", NewPassword: "b"})
	assertAPIError(t, err, vaultsdk.ErrAccountNotFound)
}

func TestConcurrentSavesRespectCapacity(t *testing.T) {
	ctx := t.Context()
	client := vaultsdk.NewClient(setupVaultContainer(t, map[string]string{"VAULT_MAX_ACCOUNTS": "5"}))
	session := registerAndLogin(t, client, "alice")

	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		ok   int
		full int
	)
	for i := range 20 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := session.SaveAccount(ctx, vaultsdk.AccountRequest{
				Appname: fmt.Sprintf("app-%d", i), Username: "u", Password: "p",
			})
			mu.Lock()
			defer mu.Unlock()
			if err == nil {
				ok++
			} else if errors.Is(err, vaultsdk.ErrVaultFull) {
				full++
			} else {
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	wg.Wait()

	require.Equal(t, 5, ok)
	require.Equal(t, 15, full)

	accounts, err := session.ListAccounts(ctx)
	require.NoError(t, err)
	require.Len(t, accounts, 5)
}

func TestSessionsEndOnRestart(t *testing.T) {
	ctx := t.Context()
	first := vaultsdk.NewClient(setupVaultContainer(t, nil))
	session := registerAndLogin(t, first, "alice")

	// A second process has its own signing key.
	second := vaultsdk.NewClient(setupVaultContainer(t, nil))
	foreign := second.NewSessionFromToken(session.AccessToken(), 1800)

	_, err := foreign.ListAccounts(ctx)
	assertAPIError(t, err, vaultsdk.ErrUnauthorized)
}
