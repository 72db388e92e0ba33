package handler

import (
	"net/http"

	"bankweb/internal/auth"
	"bankweb/internal/config"
	"bankweb/internal/service"
)

// Handler holds all dependencies needed by the HTTP handlers.
type Handler struct {
	cfg           *config.Config
	ledgerService *service.LedgerService
	queryService  *service.QueryService
	userService   *service.UserService
	tokens        *auth.TokenManager
}

// Deps contains all dependencies required to construct a Handler.
type Deps struct {
	Cfg           *config.Config
	LedgerService *service.LedgerService
	QueryService  *service.QueryService
	UserService   *service.UserService
	Tokens        *auth.TokenManager
}

// New creates a new Handler from the provided dependencies.
func New(deps Deps) *Handler {
	return &Handler{
		cfg:           deps.Cfg,
		ledgerService: deps.LedgerService,
		queryService:  deps.QueryService,
		userService:   deps.UserService,
		tokens:        deps.Tokens,
	}
}

// Register attaches all routes to the mux. Routes other than signup and
// login require the authenticated user loaded by authed.
func (h *Handler) Register(mux *http.ServeMux, authed func(http.Handler) http.Handler) {
	mux.HandleFunc("POST /signup", h.Signup)
	mux.HandleFunc("POST /login", h.Login)

	protected := func(fn http.HandlerFunc) http.Handler { return authed(fn) }

	mux.Handle("GET /profile", protected(h.Profile))
	mux.Handle("POST /profile", protected(h.UpdateProfile))
	mux.Handle("POST /accounts", protected(h.CreateAccount))
	mux.Handle("POST /deposit", protected(h.Deposit))
	mux.Handle("POST /withdraw", protected(h.Withdraw))
	mux.Handle("POST /transfer", protected(h.Transfer))
	mux.Handle("GET /transactions", protected(h.Transactions))
}
