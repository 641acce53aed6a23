// Package main demonstrates running the elevation service without a database
// using the in-memory registry and a logging base dispatcher.
// This is useful for:
// - Quick development and testing
// - Demo/prototype environments
// - Learning the API without database setup
//
// Note: All state is lost when the server stops. For production, use
// cmd/elevate-server with PostgreSQL.
package main

import (
	"context"
	"log/slog"
	"os"
	"strings"

	"github.com/tendant/chi-demo/app"
	"github.com/tendant/simple-elevate/pkg/dispatch"
	"github.com/tendant/simple-elevate/pkg/elevate"
	"github.com/tendant/simple-elevate/pkg/elevate/api"
	"github.com/tendant/simple-elevate/pkg/identity"
	"github.com/tendant/simple-elevate/pkg/params"
	"github.com/tendant/simple-elevate/pkg/session"
)

func main() {
	// Setup logger
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		AddSource: false,
		Level:     slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	slog.Info("Starting In-Memory Elevation Service (no database required)")
	slog.Info(strings.Repeat("=", 60))

	// Seed the identity registry
	registry := identity.NewInMemoryRegistry()
	appRole := registry.AddIdentity("app", false)
	registry.AddIdentity("alice", false)
	registry.AddIdentity("admin", true)

	store := params.NewInMemoryStore()
	store.DefineString(elevate.LogStatementParameter, "Sets the type of statements logged", "none", params.PrivilegeSuperuser)
	elevate.DefinePolicyParameters(store)

	sess := session.New(appRole)
	elevateService := elevate.NewService(registry, store, sess)

	// Base dispatcher just logs what would have been executed.
	base := dispatch.DispatcherFunc(func(ctx context.Context, stmt dispatch.Statement) error {
		slog.Info("Executing statement", "sql", stmt.SQL())
		return nil
	})
	chain := dispatch.NewChain(base)
	chain.Install(elevate.NewGate(elevateService, store))

	// Setup HTTP server
	appConfig := app.DefaultAppConfig()
	appConfig.Port = 4000
	server := app.NewApp(app.WithAppConfig(appConfig))

	handler := api.NewHandler(elevateService, chain)
	server.R.Route("/elevation", handler.RegisterRoutes)

	slog.Info(strings.Repeat("=", 60))
	slog.Info("In-Memory Elevation Service Ready")
	slog.Info("")
	slog.Info("Seeded roles: app (session), alice, admin (superuser)")
	slog.Info("")
	slog.Info("API Endpoints:")
	slog.Info("  POST /elevation/elevate  - Elevate to a named role")
	slog.Info("  POST /elevation/revert   - Revert to the original role")
	slog.Info("  POST /elevation/exec     - Run a statement through the gate")
	slog.Info("  GET  /elevation/status   - Show elevation state")
	slog.Info(strings.Repeat("=", 60))

	server.Run()
}
