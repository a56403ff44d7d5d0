// File: internal/infra/web/server.go
package web

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"society-maintenance-platform/internal/domain/ports/adapter"
	"society-maintenance-platform/internal/domain/ports/repository"
	"society-maintenance-platform/internal/infra/logging"
	"society-maintenance-platform/internal/usecase"
)

type Server struct {
	orders   usecase.OrderUseCase
	verify   usecase.VerifyUseCase
	settle   usecase.SettlementUseCase
	checkout usecase.CheckoutUseCase // nil outside dev mode
	payments repository.PaymentRepository
	backend  adapter.SettlementClient
	auth     *AuthManager
	log      *zerolog.Logger
}

func NewServer(
	orders usecase.OrderUseCase,
	verify usecase.VerifyUseCase,
	settle usecase.SettlementUseCase,
	checkout usecase.CheckoutUseCase,
	payments repository.PaymentRepository,
	backend adapter.SettlementClient,
	auth *AuthManager,
	logger *zerolog.Logger,
) *Server {
	srvLog := logger.With().Str("component", "web").Logger()
	return &Server{
		orders:   orders,
		verify:   verify,
		settle:   settle,
		checkout: checkout,
		payments: payments,
		backend:  backend,
		auth:     auth,
		log:      &srvLog,
	}
}

// Router assembles the full HTTP surface. Session minting and the probes are
// open; everything touching payments or bills requires a resident session.
func (s *Server) Router() *chi.Mux {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(s.traceMiddleware)

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})
	r.Handle("/metrics", promhttp.Handler())

	r.Post("/api/v1/session", sessionHandler(s.backend, s.auth, s.log))

	r.Group(func(pr chi.Router) {
		pr.Use(s.authMiddleware)
		pr.Post("/payment", orderCreateHandler(s.orders, s.log))
		pr.Put("/payment", verifyHandler(s.verify, s.settle, s.payments, s.log))
		if s.checkout != nil {
			pr.Post("/payment/checkout", checkoutHandler(s.checkout, s.log))
		}
		pr.Get("/api/v1/bills/unpaid", billsHandler(s.backend, false, s.log))
		pr.Get("/api/v1/bills/paid", billsHandler(s.backend, true, s.log))
	})

	return r
}

type claimsCtxKey struct{}

// ClaimsFromContext returns the session claims deposited by the auth guard,
// or nil on unguarded routes.
func ClaimsFromContext(ctx context.Context) *ResidentClaims {
	c, _ := ctx.Value(claimsCtxKey{}).(*ResidentClaims)
	return c
}

// authMiddleware requires a valid resident session and threads the resident
// identity into the request context.
func (s *Server) authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, err := s.auth.ParseFromRequest(r)
		if err != nil {
			writeError(w, http.StatusUnauthorized, "Unauthorized")
			return
		}
		ctx := context.WithValue(r.Context(), claimsCtxKey{}, claims)
		ctx = logging.WithUserID(ctx, claims.UserID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// traceMiddleware carries the chi request id into the logging context.
func (s *Server) traceMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if id := middleware.GetReqID(ctx); id != "" {
			ctx = logging.WithTraceID(ctx, id)
		}
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
