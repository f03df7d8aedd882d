/*
Package handler provides the HTTP handlers and routing setup for the Frenguin server.

This file defines the main Router, applying logging, CORS and recovery
middleware before delegating to the presence, verification and name handlers.
The presence endpoints stay unthrottled since the whole protocol is sub-second
polling; only the expensive verifier relay gets a per-IP rate limit.
*/
package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"
	"golang.org/x/time/rate"

	"frenguin/internal/pkg/limiter"
	"frenguin/internal/pkg/logx"
	"frenguin/internal/pkg/resp"
)

const (
	// VerifyRate and VerifyBurst throttle proof relays per IP.
	VerifyRate  = 0.2
	VerifyBurst = 3
)

// Router builds the HTTP routing table for the application.
func Router(deps *AppDeps) http.Handler {
	verifyLimiter := limiter.NewIPRateLimiter(rate.Limit(VerifyRate), VerifyBurst)

	r := chi.NewRouter()

	corsAllowedOrigins := []string{}
	if deps.Config.Environment == "development" {
		corsAllowedOrigins = []string{"*"}
	} else if len(deps.Config.AllowedOrigins) > 0 {
		corsAllowedOrigins = deps.Config.AllowedOrigins
	}

	c := cors.New(cors.Options{
		AllowedOrigins:   corsAllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", AgeBadgeHeader},
		AllowCredentials: true,
		MaxAge:           300,
	})
	r.Use(c.Handler)

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(logx.RequestLogger())
	r.Use(middleware.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		resp.RespondSuccess(w, r, map[string]string{
			"status":  "ok",
			"service": "Frenguin Server",
		})
	})

	r.Route("/api", func(api chi.Router) {
		api.Post("/presence", HandlePresencePush(deps))
		api.Get("/presence", HandlePresenceSnapshot(deps))

		rateLimitedVerify := verifyLimiter.Middleware(HandleVerifyProof(deps))
		api.Post("/verify", rateLimitedVerify.ServeHTTP)
		api.Get("/verify/qr", HandleVerificationQR(deps))

		api.Post("/verification-status", HandleSetVerificationStatus(deps))
		api.Get("/verification-status", HandleGetVerificationStatus(deps))

		api.Post("/names", HandleRegisterName(deps))
		api.Get("/names/{name}", HandleNameAvailability(deps))
	})

	return r
}
