package main

//
//  @title           garchcast API
//  @version         1.0
//  @description     GARCH(p,q) volatility model fitting and forecasting service.
//  @termsOfService  https://github.com/guttosm/garchcast
//  @contact.name    API Support
//  @contact.url     https://github.com/guttosm/garchcast
//  @contact.email   support@example.com
//  @license.name    MIT
//  @license.url     https://opensource.org/licenses/MIT
//  @host            localhost:8080
//  @BasePath        /
//  @schemes         http
//
//  @tag.name        models
//  @tag.description Fit GARCH models and forecast volatility
//
//  @tag.name        health
//  @tag.description Liveness and readiness probes

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	goose "github.com/pressly/goose/v3"

	"github.com/guttosm/garchcast/config"
	_ "github.com/guttosm/garchcast/docs" // swagger docs
	"github.com/guttosm/garchcast/internal/app"
	"github.com/guttosm/garchcast/internal/ingestion"
	"github.com/guttosm/garchcast/internal/logger"
)

// startServer initializes and starts the HTTP server in a separate goroutine.
//
// Parameters:
//   - router (http.Handler): The HTTP router (Gin Engine) configured with all routes.
//   - port (string): The port where the server will listen for incoming requests.
//
// Returns:
//   - *http.Server: The initialized HTTP server instance.
func startServer(router http.Handler, port string) *http.Server {
	server := &http.Server{
		Addr:              ":" + port,
		Handler:           router,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      3 * time.Minute, // fits can run for a while
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		logger.L().Info().Str("port", port).Msg("server starting")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.L().Fatal().Err(err).Msg("server failed to start")
		}
	}()

	return server
}

// gracefulShutdown gracefully terminates the HTTP server and cleans up resources
// when an OS interrupt signal (SIGINT, SIGTERM) is received.
//
// Parameters:
//   - ctx (context.Context): A context with timeout for graceful shutdown.
//   - server (*http.Server): The HTTP server instance to shut down.
//   - cleanup (func()): Cleanup callback to release resources (DB, Redis, Kafka).
func gracefulShutdown(ctx context.Context, server *http.Server, cleanup func()) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	<-quit
	logger.L().Info().Msg("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.L().Fatal().Err(err).Msg("server forced to shutdown")
	}

	cleanup()
	logger.L().Info().Msg("server exited gracefully")
}

// migrationsDir returns dir, or the driver's directory under ./db/migrations.
func migrationsDir(dir, driver string) string {
	if dir != "" {
		return dir
	}
	return filepath.Join("db", "migrations", driver)
}

// runMigrate applies ("up"), rolls back one ("down") or reports ("status")
// goose migrations on the configured database.
func runMigrate(cfg config.Config, dir, command string) error {
	db, err := app.InitDB(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	driver := cfg.Database.Driver
	if driver == "" {
		driver = config.DriverPostgres
	}
	if err := goose.SetDialect(driver); err != nil {
		return fmt.Errorf("goose dialect: %w", err)
	}
	dir = migrationsDir(dir, driver)

	switch command {
	case "up":
		return goose.Up(db, dir)
	case "down":
		return goose.Down(db, dir)
	case "status":
		return goose.Status(db, dir)
	default:
		return fmt.Errorf("unknown migrate command %q (up|down|status)", command)
	}
}

// parseTickers splits a comma separated list, upper-cased and de-duplicated.
func parseTickers(s string) []string {
	seen := map[string]bool{}
	var out []string
	for _, t := range strings.Split(s, ",") {
		t = strings.ToUpper(strings.TrimSpace(t))
		if t == "" || seen[t] {
			continue
		}
		seen[t] = true
		out = append(out, t)
	}
	return out
}

// runIngest refreshes tickers from the upstream source. With no tickers it
// refreshes every ticker already in the price store.
func runIngest(ctx context.Context, cfg config.Config, tickers []string, parallel int) (int, error) {
	db, err := app.InitDB(cfg)
	if err != nil {
		return 0, err
	}
	defer func() { _ = db.Close() }()

	repo, err := app.NewPriceRepository(cfg, db)
	if err != nil {
		return 0, err
	}
	if len(tickers) == 0 {
		if tickers, err = repo.Tickers(ctx); err != nil {
			return 0, err
		}
	}
	if len(tickers) == 0 {
		logger.L().Warn().Msg("no tickers to refresh")
		return 0, nil
	}
	return ingestion.RefreshAll(ctx, repo, tickers, parallel)
}

// main is the entry point of the garchcast application.
//
// Modes (selected via --mode flag):
//   - api:     Starts the REST API to fit models and serve forecasts.
//   - ingest:  Refreshes prices of --tickers (or every stored ticker) from the upstream source.
//   - migrate: Applies database migrations with goose.
//
// Flags:
//   - --mode:       Execution mode ("api", "ingest" or "migrate"). Default: "api".
//   - --tickers:    Comma separated tickers for ingest mode.
//   - --parallel:   How many tickers to refresh concurrently (0=auto up to CPU, max 7).
//   - --migrations: Migrations directory. Default: ./db/migrations/<driver>.
//   - --migrate:    Migrate command: up, down or status. Default: "up".
//   - --port:       Port for the API server. Defaults to value from config (SERVER_PORT).
func main() {
	ctx := context.Background()

	// Load configuration from environment or .env file
	config.LoadConfig()

	logger.Init()
	defer logger.Close()

	mode := flag.String("mode", "api", "Mode: api, ingest or migrate")
	tickers := flag.String("tickers", "", "Comma separated tickers to refresh (ingest mode; default: every stored ticker)")
	parallel := flag.Int("parallel", 0, "How many tickers to refresh concurrently (0=auto up to CPU, max 7)")
	migrations := flag.String("migrations", "", "Migrations directory (default ./db/migrations/<driver>)")
	migrateCmd := flag.String("migrate", "up", "Migrate command: up, down or status")
	port := flag.String("port", config.AppConfig.Server.Port, "Port for API mode")
	flag.Parse()

	switch *mode {
	case "migrate":
		logger.L().Info().Str("command", *migrateCmd).Msg("running migrations")
		if err := runMigrate(config.AppConfig, *migrations, *migrateCmd); err != nil {
			logger.L().Fatal().Err(err).Msg("migration failed")
		}
		logger.L().Info().Msg("migrations completed successfully")

	case "ingest":
		logger.L().Info().Msg("running ingestion")
		sigCtx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
		defer stop()

		rows, err := runIngest(sigCtx, config.AppConfig, parseTickers(*tickers), *parallel)
		if err != nil {
			logger.L().Fatal().Err(err).Int("rows", rows).Msg("ingestion failed")
		}
		logger.L().Info().Int("rows", rows).Msg("ingestion completed successfully")

	case "api":
		logger.L().Info().Msg("starting API server")

		router, cleanup, err := app.InitializeApp()
		if err != nil {
			logger.L().Fatal().Err(err).Msg("app init error")
		}

		server := startServer(router, *port)
		gracefulShutdown(ctx, server, cleanup)

	default:
		logger.L().Fatal().Str("mode", *mode).Msg("unknown mode")
	}
}
