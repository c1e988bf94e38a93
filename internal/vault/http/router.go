package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/aussiebroadwan/credvault/internal/vault/domain"
	"github.com/aussiebroadwan/credvault/internal/vault/metrics"
	"github.com/aussiebroadwan/credvault/internal/vault/service"
	"github.com/aussiebroadwan/credvault/internal/vault/store"
	"github.com/aussiebroadwan/credvault/pkg/httpx"
	"github.com/aussiebroadwan/credvault/pkg/jwtx"
	"github.com/aussiebroadwan/credvault/pkg/slogx"

	_ "github.com/aussiebroadwan/credvault/api/vault" // Swagger docs
	httpSwagger "github.com/swaggo/http-swagger"
)

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware
	handler     http.Handler

	keys         *jwtx.KeyManager
	buildVersion string
	startTime    time.Time
	logger       *slog.Logger
	store        store.Store

	CORS           httpx.CORSConfig
	Metrics        *metrics.Metrics // nil disables request metrics
	MetricsHandler http.Handler     // nil disables GET /metrics

	SessionService       *service.SessionService
	AdministratorService *service.AdministratorService
	AccountService       *service.AccountService
}

func NewRouter(
	keys *jwtx.KeyManager,
	buildVersion string,
	st store.Store,
	logger *slog.Logger,
) *Router {
	return &Router{
		Mux:          http.NewServeMux(),
		keys:         keys,
		buildVersion: buildVersion,
		startTime:    time.Now(),
		store:        st,
		logger:       logger,
		CORS:         httpx.DefaultCORSConfig,
	}
}

// ApplyRoutes registers every route and builds the middleware chain. Set the
// exported fields before calling it.
func (r *Router) ApplyRoutes() {
	r.registerSession()
	r.registerAdministrators()
	r.registerAccounts()
	r.registerSystem()

	r.Mux.Handle("/swagger/", httpSwagger.Handler())

	r.middlewares = []httpx.Middleware{
		slogx.HTTPMiddleware(r.logger),
		httpx.CORS(r.CORS),
	}
	// Metrics read the matched pattern, so they sit directly on the mux.
	r.handler = httpx.Chain(r.Metrics.HTTPMiddleware(r.Mux), r.middlewares...)
}

// ServeHTTP implements http.Handler for Router and applies the global middleware chain.
//
//	@title			Credvault API
//	@version		0.1.0
//	@description	Credential vault for administrators. Administrators register, log in for a short lived bearer token and manage the application accounts they own.
//	@description
//	@description				Session tokens are HS256 JWTs signed with a per-process key; they do not survive a restart.
//
//	@contact.name				AussieBroadWAN Team
//	@contact.url				https://github.com/aussiebroadwan/credvault
//
//	@license.name				MIT
//	@license.url				https://opensource.org/licenses/MIT
//
//	@host						localhost:8080
//	@BasePath					/
//
//	@schemes					http https
//
//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				Session token from /v1/login. Format: "Bearer {token}".
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.handler.ServeHTTP(w, req)
}

func (r *Router) authn() httpx.Middleware {
	return httpx.AuthnMiddleware[domain.Administrator](r.SessionService, writeAuthnError)
}

func (r *Router) registerSession() {
	h := &LoginHandler{SessionService: r.SessionService}

	r.Mux.Handle("POST /v1/login", h)
	r.Mux.Handle("POST /login", h)
}

func (r *Router) registerAdministrators() {
	h := &AdministratorsHandler{AdministratorService: r.AdministratorService}

	r.Mux.Handle("POST /v1/administrators", h)
	r.Mux.Handle("POST /register_admin", h)
}

func (r *Router) registerAccounts() {
	h := &AccountsHandler{AccountService: r.AccountService}

	save := httpx.Chain(http.HandlerFunc(h.HandleSave), r.authn())
	list := httpx.Chain(http.HandlerFunc(h.HandleList), r.authn())
	modify := httpx.Chain(http.HandlerFunc(h.HandleModify), r.authn())
	legacyList := httpx.Chain(http.HandlerFunc(h.HandleLegacyList), r.authn())

	r.Mux.Handle("POST /v1/accounts", save)
	r.Mux.Handle("GET /v1/accounts", list)
	r.Mux.Handle("PUT /v1/accounts", modify)

	// Unversioned routes kept for clients of the pre-v1 API.
	r.Mux.Handle("POST /save_account", save)
	r.Mux.Handle("GET /show_accounts", legacyList)
	r.Mux.Handle("PUT /modify_account", modify)
}

func (r *Router) registerSystem() {
	r.Mux.Handle("GET /livez", LivezHandler(r.startTime, r.buildVersion))
	r.Mux.Handle("GET /readyz", ReadyzHandler(r.startTime, r.buildVersion, r.store, r.keys))

	if r.MetricsHandler != nil {
		r.Mux.Handle("GET /metrics", r.MetricsHandler)
	}
}
