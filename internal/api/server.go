// Package api provides the HTTP server for Roomtab: a JSON API over the
// ledger, member registry, notifications and grocery list.
package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/roomtab/roomtab/internal/auth"
	"github.com/roomtab/roomtab/internal/middleware"
	"github.com/roomtab/roomtab/internal/service"
)

// Server is the Roomtab HTTP API server.
type Server struct {
	authSvc    *service.AuthService
	groupSvc   *service.GroupService
	ledgerSvc  *service.LedgerService
	notifySvc  *service.NotifyService
	grocerySvc *service.GroceryService
	jwtManager *auth.JWTManager
	corsOrigin string
}

// NewServer wires the services behind the HTTP surface.
func NewServer(
	authSvc *service.AuthService,
	groupSvc *service.GroupService,
	ledgerSvc *service.LedgerService,
	notifySvc *service.NotifyService,
	grocerySvc *service.GroceryService,
	jwtManager *auth.JWTManager,
	corsOrigin string,
) *Server {
	return &Server{
		authSvc:    authSvc,
		groupSvc:   groupSvc,
		ledgerSvc:  ledgerSvc,
		notifySvc:  notifySvc,
		grocerySvc: grocerySvc,
		jwtManager: jwtManager,
		corsOrigin: corsOrigin,
	}
}

// Handler returns the chi router with all routes mounted.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	r.Use(chimw.Timeout(30 * time.Second))
	r.Use(s.cors)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", s.handleRegister)
			r.Post("/login", s.handleLogin)
		})

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAuth(s.jwtManager))
			r.Use(middleware.RequestLogger)

			r.Post("/groups", s.handleCreateGroup)
			r.Route("/groups/{groupID}", func(r chi.Router) {
				r.Post("/join", s.handleJoinGroup)
				r.Post("/leave", s.handleLeaveGroup)
				r.Get("/members", s.handleListMembers)

				r.Get("/expenses", s.handleListExpenses)
				r.Post("/expenses", s.handleAddExpense)
				r.Delete("/expenses/{expenseID}", s.handleRemoveExpense)

				r.Get("/balances", s.handleBalances)
				r.Get("/settlements", s.handleListSettlements)
				r.Post("/settlements", s.handleSettleAll)

				r.Get("/notifications", s.handleListNotifications)
				r.Post("/notifications/read", s.handleMarkNotificationsRead)

				r.Get("/grocery", s.handleListGrocery)
				r.Post("/grocery", s.handleAddGrocery)
				r.Patch("/grocery/{itemID}", s.handleSetGroceryBought)
				r.Delete("/grocery/{itemID}", s.handleDeleteGrocery)
			})
		})
	})

	return r
}

// cors adds CORS headers for browser access.
func (s *Server) cors(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", s.corsOrigin)
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PATCH, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}
