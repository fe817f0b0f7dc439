// Package server assembles the HTTP router of the EventMate API.
package server

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/hlog"

	"github.com/eventmate/eventmate-go/internal/config"
	"github.com/eventmate/eventmate-go/internal/handler"
	"github.com/eventmate/eventmate-go/internal/middleware"
	"github.com/eventmate/eventmate-go/internal/model"
	"github.com/eventmate/eventmate-go/internal/service"
)

// Pinger reports database reachability.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// Deps are the collaborators the router serves.
type Deps struct {
	Config        *config.Config
	Logger        zerolog.Logger
	Auth          *service.AuthService
	Events        *service.EventService
	Registrations *service.RegistrationService
	// DB backs /health/db. Nil reports the database as unavailable.
	DB Pinger
}

// NewRouter builds the API router. The routes are served at the root and
// under /api. ctx bounds background work such as rate limiter eviction.
// Forwarded client addresses are honoured only when Config.TrustProxy is set,
// so the auth rate limit keys on the socket address by default.
func NewRouter(ctx context.Context, d Deps) http.Handler {
	authHandler := handler.NewAuthHandler(d.Auth)
	eventHandler := handler.NewEventHandler(d.Events)
	regHandler := handler.NewRegistrationHandler(d.Registrations)

	r := chi.NewRouter()
	if d.Config.TrustProxy {
		r.Use(chimw.RealIP)
	}
	r.Use(hlog.NewHandler(d.Logger))
	r.Use(hlog.RequestIDHandler("request_id", "X-Request-Id"))
	r.Use(hlog.AccessHandler(func(r *http.Request, status, size int, duration time.Duration) {
		hlog.FromRequest(r).Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", status).
			Int("size", size).
			Dur("duration", duration).
			Msg("request")
	}))
	r.Use(chimw.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: d.Config.CORSOrigins,
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
		MaxAge:         300,
	}))
	r.Use(middleware.Metrics)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeStatus(w, http.StatusOK, true, "ok")
	})
	r.Get("/health/db", healthDB(d.DB))
	r.Handle("/metrics", promhttp.Handler())

	authLimit := middleware.RateLimit(ctx, d.Config.AuthRateLimitRPS, d.Config.AuthRateLimitBurst)
	requireAuth := middleware.JWTAuth(d.Config.JWTSecret)
	requireAdmin := middleware.RequireRole(model.RoleAdmin)

	routes := func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(authLimit)
			r.Post("/auth/register", authHandler.HandleRegister)
			r.Post("/auth/login", authHandler.HandleLogin)
		})

		r.Get("/events", eventHandler.HandleList)
		r.Get("/events/{id}", eventHandler.HandleGet)

		r.Group(func(r chi.Router) {
			r.Use(requireAuth)
			r.Post("/events/{id}/register", regHandler.HandleRegister)
			r.Get("/user/events", regHandler.HandleUserEvents)
			r.Delete("/user/events/{id}/cancel", regHandler.HandleCancel)

			r.Group(func(r chi.Router) {
				r.Use(requireAdmin)
				r.Post("/events", eventHandler.HandleCreate)
				r.Put("/events/{id}", eventHandler.HandleUpdate)
				r.Delete("/events/{id}", eventHandler.HandleDelete)
				r.Get("/events/{id}/registrations", regHandler.HandleEventRegistrations)
			})
		})
	}

	r.Group(routes)
	r.Route("/api", routes)

	return r
}

func healthDB(db Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if db == nil {
			writeStatus(w, http.StatusServiceUnavailable, false, "database not configured")
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := db.PingContext(ctx); err != nil {
			hlog.FromRequest(r).Warn().Err(err).Msg("database ping failed")
			writeStatus(w, http.StatusServiceUnavailable, false, "database unreachable")
			return
		}
		writeStatus(w, http.StatusOK, true, "database reachable")
	}
}

func writeStatus(w http.ResponseWriter, status int, ok bool, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(model.MessageResponse{OK: ok, Message: msg})
}
