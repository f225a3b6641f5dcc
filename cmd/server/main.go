// Statindo - Statistics Publication and Administration Platform
// Copyright 2026 Statindo Authors
// SPDX-License-Identifier: Apache-2.0
// https://github.com/statindo/statindo

// Package main is the entry point for the Statindo server.
//
// Statindo publishes regional statistics (demography, economy, environment)
// and provides the administration backend where category admins enter,
// verify and publish indicator data and articles.
//
// Startup order:
//
//  1. Configuration: Koanf v2 layered defaults, YAML file, STATINDO_* env vars
//  2. Logging: zerolog, JSON or console format
//  3. Database: DuckDB (file-backed, or in-memory for tests)
//  4. Superadmin seed: first account when the users table is empty
//  5. Policy engine: casbin with the embedded role table
//  6. Auth: HS256 token manager, badger token denylist, issuer
//  7. Supervisor tree: audit logger, activity pruner, denylist GC, HTTP server
//
// The server handles graceful shutdown on SIGINT and SIGTERM: it stops
// accepting connections, drains in-flight requests (10s timeout), flushes
// buffered activity entries and closes the database.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/statindo/statindo/internal/api"
	"github.com/statindo/statindo/internal/audit"
	"github.com/statindo/statindo/internal/auth"
	"github.com/statindo/statindo/internal/config"
	"github.com/statindo/statindo/internal/database"
	"github.com/statindo/statindo/internal/logging"
	"github.com/statindo/statindo/internal/models"
	"github.com/statindo/statindo/internal/policy"
	"github.com/statindo/statindo/internal/supervisor"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		// Default logger; config is not available yet.
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
	})

	logging.Info().
		Str("environment", cfg.Server.Environment).
		Str("db_path", cfg.Database.Path).
		Msg("Starting Statindo")

	if cfg.Security.AllowLegacyPlaintext {
		logging.Warn().Msg("Legacy plaintext credential verification is ENABLED")
		logging.Warn().Msg("Rows are upgraded to bcrypt on first successful login; disable this flag once migration completes")
	}

	db, err := database.New(&cfg.Database)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to initialize database")
	}
	defer func() {
		if err := db.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing database")
		}
	}()
	logging.Info().Msg("Database initialized")

	if err := seedSuperadmin(context.Background(), db, cfg); err != nil {
		logging.Fatal().Err(err).Msg("Failed to seed superadmin account")
	}

	pol, err := policy.New()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to initialize policy engine")
	}

	denylist, err := auth.NewDenylist(cfg.Security.DenylistPath)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to open token denylist")
	}
	defer func() {
		if err := denylist.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing token denylist")
		}
	}()

	tokens := auth.NewTokenManager(cfg.Security.JWTSecret, cfg.Security.TokenTTL)
	issuer := auth.NewIssuer(db, tokens, cfg.Security.AllowLegacyPlaintext)
	authn := auth.NewAuthenticator(db, tokens, denylist)

	activityLogger := audit.NewLogger(db, cfg.Audit.BufferSize)
	pruner := audit.NewPruner(db, cfg.Audit.RetentionDays)

	server := api.NewServer(db, pol, issuer, authn, activityLogger, cfg)
	httpServer := server.HTTPServer(fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	tree := supervisor.NewTree(logging.NewSlogLogger(), supervisor.DefaultTreeConfig())
	tree.AddBackground(activityLogger)
	tree.AddBackground(pruner)
	tree.AddBackground(denylist)
	tree.AddAPI(supervisor.NewHTTPService(httpServer, 10*time.Second))
	logging.Info().Str("addr", httpServer.Addr).Msg("HTTP server added to supervisor tree")

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logging.Info().Str("signal", sig.String()).Msg("Received shutdown signal")
		cancel()
	}()

	errCh := tree.ServeBackground(ctx)

	select {
	case <-ctx.Done():
		logging.Info().Msg("Context canceled, waiting for supervisor to finish")
	case err := <-errCh:
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor tree error")
		}
	}

	// Drain the error channel; it closes when the supervisor is done.
	for err := range errCh {
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor shutdown error")
		}
	}

	unstopped, _ := tree.UnstoppedServiceReport()
	for _, svc := range unstopped {
		logging.Warn().Str("service", svc.Name).Msg("Service failed to stop within timeout")
	}

	if dropped := activityLogger.Dropped(); dropped > 0 {
		logging.Warn().Int64("dropped", dropped).Msg("Activity entries dropped under load")
	}

	logging.Info().Msg("Server stopped gracefully")
}

// seedSuperadmin creates the first account when the users table is empty.
// Without it a fresh deployment would have no way to log in.
func seedSuperadmin(ctx context.Context, db *database.DB, cfg *config.Config) error {
	count, err := db.CountUsers(ctx)
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	if cfg.Security.SeedAdminEmail == "" {
		logging.Warn().Msg("Users table is empty and no seed admin is configured; nobody can log in")
		return nil
	}

	hash, err := auth.HashPassword(cfg.Security.SeedAdminPassword)
	if err != nil {
		return err
	}

	created, err := db.CreateUser(ctx, &models.User{
		Email:            cfg.Security.SeedAdminEmail,
		Name:             "Superadmin",
		Role:             models.RoleSuperadmin,
		PasswordHash:     hash,
		CredentialScheme: models.CredentialBcrypt,
		IsActive:         true,
	})
	if err != nil {
		return err
	}

	logging.Info().Str("email", created.Email).Msg("Seeded superadmin account")
	return nil
}
