package api

import (
	"net/http"
	"time"

	appmw "mt_annotate/internal/api/middleware"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/jwtauth/v5"
	"go.uber.org/zap"
)

// RouteRegistrar is implemented by every handler; the router mounts them all
// under /api/v1.
type RouteRegistrar interface {
	RegisterRoutes(r chi.Router)
}

func NewRouter(logger *zap.Logger, tokenAuth *jwtauth.JWTAuth, handlers ...RouteRegistrar) http.Handler {
	r := chi.NewRouter()

	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(appmw.RequestLogger(logger))
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Timeout(60 * time.Second))

	// Verifier only parses and validates the token when present; the
	// per-group Authenticator decides whether one is required.
	r.Use(jwtauth.Verifier(tokenAuth))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status": "ok"}`))
	})

	r.Route("/api/v1", func(r chi.Router) {
		for _, h := range handlers {
			h.RegisterRoutes(r)
		}
	})

	return r
}
