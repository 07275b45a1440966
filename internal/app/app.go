package app

import (
	"context"
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/guttosm/garchcast/config"
	"github.com/guttosm/garchcast/internal/api"
)

// InitializeApp sets up all application dependencies and returns
// a fully configured Gin router, a cleanup function for graceful shutdown,
// and any error encountered during initialization.
//
// Responsibilities:
//   - Connects to the price store using InitDB().
//   - Wires the model lifecycle (prices, artifact store, fit lock, events, metrics).
//   - Configures the Gin router with all API routes.
//   - Registers health and readiness probes.
//   - Provides a cleanup function to close resources (DB, Redis, Kafka).
//
// Returns:
//   - *gin.Engine: the configured Gin HTTP router.
//   - func(): cleanup function to be executed on shutdown.
//   - error: any initialization error that occurred.
func InitializeApp() (*gin.Engine, func(), error) {
	cfg := config.AppConfig
	ctx := context.Background()

	// indirection for unit testing
	db, err := dbOpener(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	lc, err := newLifecycle(ctx, cfg, db, reg)
	if err != nil {
		_ = db.Close()
		return nil, nil, fmt.Errorf("failed to wire model lifecycle: %w", err)
	}

	router := api.NewRouter(api.NewHandler(lc.manager), api.RouterOptions{
		RequestTimeout: cfg.Server.RequestTimeout,
		RateLimitRPS:   cfg.Server.RateLimitRPS,
		RateLimitBurst: cfg.Server.RateLimitBurst,
		Registry:       reg,
	})

	api.NewHealthHandler(lc.checks...).Register(router)

	cleanup := func() {
		lc.close()
		_ = db.Close()
	}

	return router, cleanup, nil
}
