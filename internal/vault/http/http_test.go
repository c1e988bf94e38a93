package http

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/aussiebroadwan/credvault/internal/vault/domain"
	"github.com/aussiebroadwan/credvault/internal/vault/metrics"
	"github.com/aussiebroadwan/credvault/internal/vault/service"
	"github.com/aussiebroadwan/credvault/internal/vault/store/drivers/sqlite"
	"github.com/aussiebroadwan/credvault/pkg/cryptox"
	"github.com/aussiebroadwan/credvault/pkg/jwtx"
	"github.com/aussiebroadwan/credvault/pkg/slogx"
	"github.com/aussiebroadwan/credvault/pkg/vaultsdk"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
)

type testServer struct {
	*httptest.Server
	client   *vaultsdk.Client
	sessions *service.SessionService
}

func newTestServer(t *testing.T, limits domain.Limits) *testServer {
	t.Helper()

	st, err := sqlite.NewStore(":memory:")
	require.NoError(t, err)
	require.NoError(t, st.ApplyMigrations())
	t.Cleanup(func() { _ = st.Close() })

	km, err := jwtx.NewEphemeralKeyManager(jwtx.KeyManagerOptions{Issuer: "credvault-test"})
	require.NoError(t, err)
	box, err := cryptox.NewSecretBox([]byte("http-test-master-key"))
	require.NoError(t, err)
	hasher := cryptox.NewPasswordHasher("http-test-pepper")

	reg := prometheus.NewRegistry()
	m := metrics.New(reg)

	sessions := &service.SessionService{
		Store:   st,
		Hasher:  hasher,
		Tokens:  service.NewTokenService(km, "credvault-test", 30*time.Minute),
		Metrics: m,
	}

	router := NewRouter(km, "test", st, slogx.Discard())
	router.Metrics = m
	router.MetricsHandler = metrics.Handler(reg)
	router.SessionService = sessions
	router.AdministratorService = &service.AdministratorService{Store: st, Hasher: hasher, Box: box, Limits: limits, Metrics: m}
	router.AccountService = &service.AccountService{Store: st, Box: box, Limits: limits, Metrics: m}
	router.ApplyRoutes()

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)

	return &testServer{Server: srv, client: vaultsdk.NewClient(srv.URL), sessions: sessions}
}

func (s *testServer) do(t *testing.T, method, path, token, body string) (*http.Response, []byte) {
	t.Helper()
	req, err := http.NewRequest(method, s.URL+path, strings.NewReader(body))
	require.NoError(t, err)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := s.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, raw
}

func register(t *testing.T, s *testServer, username string, accounts ...vaultsdk.AccountRequest) *vaultsdk.Session {
	t.Helper()
	ctx := context.Background()
	_, err := s.client.RegisterAdministrator(ctx, vaultsdk.RegisterAdministratorRequest{
		Name: "Admin " + username, Username: username, Password: "pw-" + username, Accounts: accounts,
	})
	require.NoError(t, err)
	session, err := s.client.Authenticate(ctx, username, "pw-"+username)
	require.NoError(t, err)
	return session
}

func TestVaultFlow(t *testing.T) {
	ctx := context.Background()
	s := newTestServer(t, domain.Limits{})

	msg, err := s.client.RegisterAdministrator(ctx, vaultsdk.RegisterAdministratorRequest{
		Name: "Alice", Username: "alice", Password: "correct horse",
		Accounts: []vaultsdk.AccountRequest{{Appname: "mail", Username: "alice@mail", Password: "m41l"}},
	})
	require.NoError(t, err)
	require.NotEmpty(t, msg.Message)

	login, err := s.client.Login(ctx, "alice", "correct horse")
	require.NoError(t, err)
	require.Equal(t, "bearer", login.TokenType)
	require.Equal(t, 1800, login.ExpiresIn)
	require.Equal(t, 2, strings.Count(login.AccessToken, "."))

	session := s.client.NewSessionFromToken(login.AccessToken, login.ExpiresIn)

	_, err = session.SaveAccount(ctx, vaultsdk.AccountRequest{Appname: "bank", Username: "alice01", Password: "b4nk"})
	require.NoError(t, err)

	accounts, err := session.ListAccounts(ctx)
	require.NoError(t, err)
	require.Equal(t, []vaultsdk.Account{
		{Appname: "mail", Username: "alice@mail", Password: "m41l"},
		{Appname: "bank", Username: "alice01", Password: "b4nk"},
	}, accounts)

	_, err = session.ModifyAccount(ctx, vaultsdk.ModifyAccountRequest{Appname: "bank", NewUsername: "alice02", NewPassword: "n3w"})
	require.NoError(t, err)

	accounts, err = session.ListAccounts(ctx)
	require.NoError(t, err)
	require.Contains(t, accounts, vaultsdk.Account{Appname: "bank", Username: "alice02", Password: "n3w"})
}

func TestEmptyListIsSuccess(t *testing.T) {
	s := newTestServer(t, domain.Limits{})
	session := register(t, s, "alice")

	resp, body := s.do(t, http.MethodGet, "/v1/accounts", session.AccessToken(), "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.JSONEq(t, `{"accounts":[]}`, string(body))
}

func TestLoginFailures(t *testing.T) {
	ctx := context.Background()
	s := newTestServer(t, domain.Limits{})
	register(t, s, "alice")

	_, err := s.client.Login(ctx, "alice", "wrong")
	require.ErrorIs(t, err, vaultsdk.ErrUnauthorized)

	_, err = s.client.Login(ctx, "mallory", "pw-alice")
	require.ErrorIs(t, err, vaultsdk.ErrUnauthorized)
}

func TestRegisterConflictsAndLimits(t *testing.T) {
	ctx := context.Background()
	s := newTestServer(t, domain.Limits{MaxAdministrators: 2, MaxAccounts: 2, MaxNameLength: 100, MaxPasswordLength: 100})
	register(t, s, "alice")

	_, err := s.client.RegisterAdministrator(ctx, vaultsdk.RegisterAdministratorRequest{Name: "A", Username: "alice", Password: "x"})
	require.ErrorIs(t, err, vaultsdk.ErrUsernameTaken)

	_, err = s.client.RegisterAdministrator(ctx, vaultsdk.RegisterAdministratorRequest{
		Name: "B", Username: "bob", Password: "x",
		Accounts: []vaultsdk.AccountRequest{
			{Appname: "a", Username: "u", Password: "p"},
			{Appname: "b", Username: "u", Password: "p"},
			{Appname: "c", Username: "u", Password: "p"},
		},
	})
	require.ErrorIs(t, err, vaultsdk.ErrVaultFull)

	register(t, s, "carol")

	_, err = s.client.RegisterAdministrator(ctx, vaultsdk.RegisterAdministratorRequest{Name: "D", Username: "dave", Password: "x"})
	require.ErrorIs(t, err, vaultsdk.ErrRegistrationClosed)
}

func TestAccountErrors(t *testing.T) {
	ctx := context.Background()
	s := newTestServer(t, domain.Limits{MaxAdministrators: 10, MaxAccounts: 1, MaxNameLength: 100, MaxPasswordLength: 100})
	session := register(t, s, "alice")

	_, err := session.SaveAccount(ctx, vaultsdk.AccountRequest{Appname: "mail", Username: "u", Password: "p"})
	require.NoError(t, err)

	_, err = session.SaveAccount(ctx, vaultsdk.AccountRequest{Appname: "mail", Username: "u", Password: "p"})
	require.ErrorIs(t, err, vaultsdk.ErrAppnameTaken)

	_, err = session.SaveAccount(ctx, vaultsdk.AccountRequest{Appname: "bank", Username: "u", Password: "p"})
	require.ErrorIs(t, err, vaultsdk.ErrVaultFull)

	_, err = session.ModifyAccount(ctx, vaultsdk.ModifyAccountRequest{Appname: "bank", NewUsername: "u", NewPassword: "p"})
	require.ErrorIs(t, err, vaultsdk.ErrAccountNotFound)
}

func TestOwnershipOverHTTP(t *testing.T) {
	ctx := context.Background()
	s := newTestServer(t, domain.Limits{})
	alice := register(t, s, "alice", vaultsdk.AccountRequest{Appname: "mail", Username: "alice", Password: "a"})
	bob := register(t, s, "bob")

	accounts, err := bob.ListAccounts(ctx)
	require.NoError(t, err)
	require.Empty(t, accounts)

	_, err = bob.ModifyAccount(ctx, vaultsdk.ModifyAccountRequest{Appname: "mail", NewUsername: "bob", NewPassword: "b"})
	require.ErrorIs(t, err, vaultsdk.ErrAccountNotFound)

	accounts, err = alice.ListAccounts(ctx)
	require.NoError(t, err)
	require.Equal(t, []vaultsdk.Account{{Appname: "mail", Username: "alice", Password: "a"}}, accounts)
}

func TestBearerRequired(t *testing.T) {
	s := newTestServer(t, domain.Limits{})

	for _, token := range []string{"", "not-a-jwt", "a.b.c"} {
		resp, body := s.do(t, http.MethodGet, "/v1/accounts", token, "")
		require.Equal(t, http.StatusUnauthorized, resp.StatusCode, "token %q", token)
		require.Contains(t, resp.Header.Get("WWW-Authenticate"), "Bearer")

		var e vaultsdk.ErrorResponse
		require.NoError(t, json.Unmarshal(body, &e))
		require.Equal(t, vaultsdk.ErrorCodeUnauthorized, e.Error)
	}
}

func TestTokenForMissingAdministrator(t *testing.T) {
	s := newTestServer(t, domain.Limits{})

	sess, err := s.sessions.Tokens.Issue("ghost", time.Now())
	require.NoError(t, err)

	resp, body := s.do(t, http.MethodGet, "/v1/accounts", sess.AccessToken, "")
	require.Equal(t, http.StatusNotFound, resp.StatusCode)

	var e vaultsdk.ErrorResponse
	require.NoError(t, json.Unmarshal(body, &e))
	require.Equal(t, vaultsdk.ErrorCodeNotFound, e.Error)
}

func TestRequestValidation(t *testing.T) {
	s := newTestServer(t, domain.Limits{})
	session := register(t, s, "alice")
	token := session.AccessToken()

	t.Run("malformed json", func(t *testing.T) {
		resp, body := s.do(t, http.MethodPost, "/v1/accounts", token, `{"appname":`)
		require.Equal(t, http.StatusBadRequest, resp.StatusCode)
		require.Contains(t, string(body), vaultsdk.ErrorCodeInvalidRequest)
	})

	t.Run("missing and oversized fields", func(t *testing.T) {
		long := strings.Repeat("x", 101)
		resp, body := s.do(t, http.MethodPost, "/v1/accounts", token, `{"appname":"`+long+`","username":"u"}`)
		require.Equal(t, http.StatusBadRequest, resp.StatusCode)

		var v vaultsdk.ValidationErrorResponse
		require.NoError(t, json.Unmarshal(body, &v))
		require.Equal(t, vaultsdk.ErrorCodeValidation, v.Code)
		require.Contains(t, v.Details, "appname")
		require.Contains(t, v.Details, "password")
		require.NotContains(t, v.Details, "username")
	})

	t.Run("nested account fields", func(t *testing.T) {
		resp, body := s.do(t, http.MethodPost, "/v1/administrators", "",
			`{"name":"n","username":"u","password":"p","accounts":[{"appname":"a","username":"u"}]}`)
		require.Equal(t, http.StatusBadRequest, resp.StatusCode)

		var v vaultsdk.ValidationErrorResponse
		require.NoError(t, json.Unmarshal(body, &v))
		require.Contains(t, v.Details, "accounts.0.password")
	})

	t.Run("wrong content type", func(t *testing.T) {
		req, err := http.NewRequest(http.MethodPost, s.URL+"/v1/login", strings.NewReader("username=a"))
		require.NoError(t, err)
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		resp, err := s.Client().Do(req)
		require.NoError(t, err)
		defer resp.Body.Close()
		require.Equal(t, http.StatusUnsupportedMediaType, resp.StatusCode)
	})
}

func TestLegacyRoutes(t *testing.T) {
	s := newTestServer(t, domain.Limits{})

	resp, _ := s.do(t, http.MethodPost, "/register_admin", "", `{"name":"Alice","username":"alice","password":"pw"}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp, body := s.do(t, http.MethodPost, "/login", "", `{"username":"alice","password":"pw"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var login vaultsdk.LoginResponse
	require.NoError(t, json.Unmarshal(body, &login))

	// Pre-v1 callers see an empty vault as not found; v1 lists it as empty.
	resp, body = s.do(t, http.MethodGet, "/show_accounts", login.AccessToken, "")
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
	require.JSONEq(t, `{"error":"not_found","error_description":"no accounts found"}`, string(body))

	resp, body = s.do(t, http.MethodGet, "/v1/accounts", login.AccessToken, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.JSONEq(t, `{"accounts":[]}`, string(body))

	resp, _ = s.do(t, http.MethodPost, "/save_account", login.AccessToken, `{"appname":"mail","username":"u","password":"p"}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp, _ = s.do(t, http.MethodPut, "/modify_account", login.AccessToken, `{"appname":"mail","new_username":"u2","new_password":"p2"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, body = s.do(t, http.MethodGet, "/show_accounts", login.AccessToken, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.JSONEq(t, `{"accounts":[{"appname":"mail","username":"u2","password":"p2"}]}`, string(body))
}

func TestCORSPreflight(t *testing.T) {
	s := newTestServer(t, domain.Limits{})

	req, err := http.NewRequest(http.MethodOptions, s.URL+"/v1/accounts", nil)
	require.NoError(t, err)
	req.Header.Set("Origin", "https://example.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)

	resp, err := s.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusNoContent, resp.StatusCode)
	require.Equal(t, "*", resp.Header.Get("Access-Control-Allow-Origin"))
	require.Contains(t, resp.Header.Get("Access-Control-Allow-Headers"), "Authorization")
}

func TestSystemRoutes(t *testing.T) {
	ctx := context.Background()
	s := newTestServer(t, domain.Limits{})

	live, err := s.client.GetLiveness(ctx)
	require.NoError(t, err)
	require.Equal(t, "ok", live.Status)
	require.Equal(t, "test", live.Version)

	ready, err := s.client.GetReadiness(ctx)
	require.NoError(t, err)
	require.Equal(t, "ok", ready.Status)
	require.Equal(t, "ok", ready.Checks.Database)
	require.Equal(t, "ok", ready.Checks.Signer)

	_, err = s.client.Login(ctx, "nobody", "x")
	require.Error(t, err)

	resp, body := s.do(t, http.MethodGet, "/metrics", "", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Contains(t, string(body), `credvault_http_requests_total{code="200",route="GET /livez"} 1`)
	require.Contains(t, string(body), `credvault_operations_total{operation="login",outcome="unauthorized"} 1`)

	resp, _ = s.do(t, http.MethodGet, "/swagger/doc.json", "", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestReadyzReportsDatabaseFailure(t *testing.T) {
	st, err := sqlite.NewStore(":memory:")
	require.NoError(t, err)
	require.NoError(t, st.Close())

	km, err := jwtx.NewEphemeralKeyManager(jwtx.KeyManagerOptions{Issuer: "credvault-test"})
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	ReadyzHandler(time.Now(), "test", st, km).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))

	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
	var health vaultsdk.HealthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &health))
	require.Equal(t, "degraded", health.Status)
	require.Equal(t, "ok", health.Checks.Signer)
}
