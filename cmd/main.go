/*
Package main is the entry point for the Frenguin server.

It loads configuration, initializes the global logging system, wires the
presence store, verification store, proof verifier and name ledger into the
HTTP handlers, and handles operating system interrupt signals (SIGINT,
SIGTERM) for a graceful shutdown. The presence and verification stores are
in-memory: a restart discards them, which the presence protocol tolerates by
design, so only the name ledger needs the database.
*/
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"frenguin/internal/app/ledger"
	"frenguin/internal/app/presence"
	"frenguin/internal/app/verification"
	"frenguin/internal/configs"
	"frenguin/internal/handler"
	"frenguin/internal/pkg/logx"
)

func main() {
	cfg, err := configs.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logx.InitGlobalLogger(cfg.Environment == "development")
	logx.Logger().Info().
		Str("environment", cfg.Environment).
		Int("port", cfg.Port).
		Strs("allowed_origins", cfg.AllowedOrigins).
		Bool("age_gate_enabled", cfg.AgeGateEnabled).
		Msg("Configuration loaded successfully")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool, err := ledger.NewPool(cfg.DatabaseDSN)
	if err != nil {
		logx.Fatal(err, "Failed to connect to the name ledger database")
	}
	defer pool.Close()

	deps := &handler.AppDeps{
		Presence:      presence.NewStore(),
		Verifications: verification.NewStore(),
		Verifier: verification.NewProofVerifier(verification.VerifierConfig{
			Endpoint: cfg.VerifierEndpoint,
			Scope:    cfg.VerifierScope,
		}),
		Names:  ledger.NewRegistry(pool),
		Config: cfg,
	}

	router := handler.Router(deps)

	serverAddr := fmt.Sprintf(":%d", cfg.Port)
	server := &http.Server{
		Addr:         serverAddr,
		Handler:      router,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		logx.Info(fmt.Sprintf("Frenguin Server starting on http://localhost%s", serverAddr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logx.Fatal(err, "Server failed to start")
		}
	}()

	<-ctx.Done()
	logx.Info("Received shutdown signal. Starting graceful shutdown...")

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logx.Fatal(err, "Server forced to shutdown")
	}

	logx.Info("Server gracefully stopped.")
}
