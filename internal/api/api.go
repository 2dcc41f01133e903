// internal/api/api.go

// Package api assembles the HTTP surface: routes, middleware and the wiring
// between handlers, services and the storage gateway.
package api

import (
	"database/sql"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"bookstack/internal/auth"
	"bookstack/internal/catalog"
	"bookstack/internal/circulation"
	"bookstack/internal/membership"
	"bookstack/internal/storage"
)

// New builds the router with all services wired against the database.
func New(db *sql.DB, tokens *auth.TokenManager) http.Handler {
	books := storage.NewBookStore(db)
	ledger := storage.NewLedger(db)
	loans := storage.NewLoanStore(db)
	users := storage.NewUserStore(db)

	catalogHandler := catalog.NewHandler(catalog.NewService(books))
	circulationHandler := circulation.NewHandler(circulation.NewService(books, ledger, loans))
	membershipHandler := membership.NewHandler(membership.NewService(users, tokens))

	authenticate := auth.Authenticate(tokens)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Route("/api", func(r chi.Router) {
		r.Route("/users", func(r chi.Router) {
			r.Post("/signup", membershipHandler.HandleSignUp)
			r.Post("/login", membershipHandler.HandleLogin)
			r.With(authenticate).Get("/profile", membershipHandler.HandleProfile)
		})

		r.Route("/books", func(r chi.Router) {
			r.Get("/", catalogHandler.HandleList)
			r.Group(func(r chi.Router) {
				r.Use(authenticate, auth.RequireAdmin)
				r.Post("/", catalogHandler.HandleCreate)
				r.Put("/{id}", catalogHandler.HandleUpdate)
				r.Delete("/{id}", catalogHandler.HandleDelete)
			})
		})

		r.Route("/transactions", func(r chi.Router) {
			r.Use(authenticate)
			r.Post("/borrow", circulationHandler.HandleBorrow)
			r.Put("/return", circulationHandler.HandleReturn)
			r.Get("/user", circulationHandler.HandleListForUser)
		})
	})

	return r
}
