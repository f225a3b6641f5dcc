// Statindo - Statistics Publication and Administration Platform
// Copyright 2026 Statindo Authors
// SPDX-License-Identifier: Apache-2.0
// https://github.com/statindo/statindo

package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/statindo/statindo/internal/audit"
	"github.com/statindo/statindo/internal/auth"
	"github.com/statindo/statindo/internal/config"
	"github.com/statindo/statindo/internal/database"
	"github.com/statindo/statindo/internal/middleware"
	"github.com/statindo/statindo/internal/policy"
)

// Server holds the handler dependencies.
type Server struct {
	db       *database.DB
	policy   *policy.Policy
	issuer   *auth.Issuer
	authn    *auth.Authenticator
	activity *audit.Logger
	cfg      *config.Config
}

// NewServer creates the API server.
func NewServer(db *database.DB, pol *policy.Policy, issuer *auth.Issuer,
	authn *auth.Authenticator, activity *audit.Logger, cfg *config.Config) *Server {
	return &Server{
		db:       db,
		policy:   pol,
		issuer:   issuer,
		authn:    authn,
		activity: activity,
		cfg:      cfg,
	}
}

// Router builds the chi router with the full middleware stack and route
// tree. The admin surface sits behind RequireAuth; the public surface and
// login do not.
func (s *Server) Router() chi.Router {
	r := chi.NewRouter()

	r.Use(chimw.RealIP)
	r.Use(middleware.RequestID)
	r.Use(chimw.Recoverer)
	r.Use(middleware.Metrics)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   s.cfg.Server.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	apiLimiter := middleware.NewRateLimiter(s.cfg.Security.RateLimitReqs, s.cfg.Security.RateLimitWindow)
	r.Use(apiLimiter.Handler)

	r.Route("/api/v1", func(r chi.Router) {
		// Login carries its own tighter limit against brute force.
		r.Group(func(r chi.Router) {
			r.Use(httprate.LimitByIP(s.cfg.Security.LoginRateLimitReqs, s.cfg.Security.LoginRateLimitWindow))
			r.Post("/auth/login", s.handleLogin)
		})

		// Public, unauthenticated surface.
		r.Route("/public", func(r chi.Router) {
			r.Get("/categories", s.handlePublicCategories)
			r.Get("/indicators", s.handlePublicIndicators)
			r.Get("/indicators/{id}/data", s.handlePublicIndicatorData)
			r.Get("/articles", s.handlePublicArticles)
			r.Get("/articles/{slug}", s.handlePublicArticleBySlug)
			r.Get("/faqs", s.handlePublicFAQs)
			r.Post("/faqs", s.handlePublicSubmitFAQ)
		})

		r.Get("/health", s.handleHealth)

		// Authenticated surface.
		r.Group(func(r chi.Router) {
			r.Use(s.authn.RequireAuth)

			r.Post("/auth/logout", s.handleLogout)
			r.Get("/auth/me", s.handleMe)
			r.Put("/auth/password", s.handleChangePassword)

			r.Get("/categories", s.handleCategories)
			r.Get("/dashboard", s.handleDashboard)
			r.Get("/export/indicators.csv", s.handleExportIndicators)

			r.Route("/indicators", func(r chi.Router) {
				r.Get("/", s.handleListIndicators)
				r.Post("/", s.handleCreateIndicator)
				r.Get("/{id}", s.handleGetIndicator)
				r.Put("/{id}", s.handleUpdateIndicator)
				r.Delete("/{id}", s.handleDeleteIndicator)
				r.Get("/{id}/data", s.handleListDataPoints)
				r.Post("/{id}/data", s.handleCreateDataPoint)
			})

			r.Route("/data", func(r chi.Router) {
				r.Put("/{id}", s.handleUpdateDataPoint)
				r.Delete("/{id}", s.handleDeleteDataPoint)
				r.Post("/{id}/verify", s.handleVerifyDataPoint)
			})

			r.Route("/articles", func(r chi.Router) {
				r.Get("/", s.handleListArticles)
				r.Post("/", s.handleCreateArticle)
				r.Get("/{id}", s.handleGetArticle)
				r.Put("/{id}", s.handleUpdateArticle)
				r.Delete("/{id}", s.handleDeleteArticle)
				r.Post("/{id}/publish", s.handlePublishArticle)
			})

			r.Route("/faqs", func(r chi.Router) {
				r.Get("/", s.handleListFAQs)
				r.Put("/{id}", s.handleAnswerFAQ)
				r.Delete("/{id}", s.handleDeleteFAQ)
			})

			r.Route("/users", func(r chi.Router) {
				r.Get("/", s.handleListUsers)
				r.Post("/", s.handleCreateUser)
				r.Put("/{id}", s.handleUpdateUser)
				r.Delete("/{id}", s.handleDeactivateUser)
			})

			r.Get("/activity", s.handleListActivity)
		})
	})

	r.Handle("/metrics", promhttp.Handler())

	return r
}

// HTTPServer builds the http.Server around the router.
func (s *Server) HTTPServer(addr string) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       s.cfg.Server.Timeout,
		WriteTimeout:      s.cfg.Server.Timeout,
		IdleTimeout:       2 * time.Minute,
	}
}
