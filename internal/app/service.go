package app

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/guttosm/garchcast/config"
	"github.com/guttosm/garchcast/internal/api"
	"github.com/guttosm/garchcast/internal/artifact"
	"github.com/guttosm/garchcast/internal/calendar"
	"github.com/guttosm/garchcast/internal/events"
	"github.com/guttosm/garchcast/internal/garch"
	"github.com/guttosm/garchcast/internal/ingestion"
	"github.com/guttosm/garchcast/internal/lock"
	"github.com/guttosm/garchcast/internal/logger"
	"github.com/guttosm/garchcast/internal/metrics"
	"github.com/guttosm/garchcast/internal/service"
	"github.com/guttosm/garchcast/internal/storage"
)

// NewPriceRepository composes the relational price store with the configured
// upstream source. UPSTREAM_SOURCE=none makes refreshes a no-op.
func NewPriceRepository(cfg config.Config, db *sql.DB) (*ingestion.Repository, error) {
	driver := dbDriver(cfg)
	if err := storage.CheckDriver(driver); err != nil {
		return nil, err
	}
	src, err := newSource(cfg.Upstream)
	if err != nil {
		return nil, err
	}
	return ingestion.NewRepository(storage.NewPricesRepository(db, driver), src), nil
}

func newSource(u config.UpstreamConfig) (ingestion.Source, error) {
	switch u.Source {
	case config.SourceAlphaVantage:
		return ingestion.NewAlphaVantage(u.BaseURL, u.APIKey, &http.Client{Timeout: u.Timeout}), nil
	case config.SourceCSV:
		return ingestion.NewCSVSource(u.CSVDir), nil
	case config.SourceNone, "":
		return nil, nil
	default:
		return nil, fmt.Errorf("unknown upstream source %q", u.Source)
	}
}

func newModelStore(ctx context.Context, cfg config.Config, db *sql.DB) (artifact.Store, error) {
	switch cfg.Model.Store {
	case artifact.StoreFS, "":
		return artifact.NewFSStore(cfg.Model.Dir)
	case artifact.StoreSQL, artifact.StorePostgres:
		return artifact.NewSQLStore(db, dbDriver(cfg)), nil
	case artifact.StoreS3:
		client, err := artifact.NewS3Client(ctx, artifact.S3Options{
			Region:          cfg.S3.Region,
			Endpoint:        cfg.S3.Endpoint,
			AccessKeyID:     cfg.S3.AccessKeyID,
			SecretAccessKey: cfg.S3.SecretAccessKey,
			PathStyle:       cfg.S3.PathStyle,
		})
		if err != nil {
			return nil, fmt.Errorf("s3 client: %w", err)
		}
		return artifact.NewS3Store(client, cfg.S3.Bucket, cfg.S3.Prefix), nil
	default:
		return nil, fmt.Errorf("unknown model store %q", cfg.Model.Store)
	}
}

// lifecycle is the wired model lifecycle plus what the HTTP layer and
// shutdown need to know about its optional collaborators.
type lifecycle struct {
	manager *service.Manager
	checks  []api.Check
	closers []func() error
}

func (l *lifecycle) close() {
	for i := len(l.closers) - 1; i >= 0; i-- {
		if err := l.closers[i](); err != nil {
			logger.L().Warn().Err(err).Msg("close failed")
		}
	}
}

// newLifecycle wires the manager. Redis and Kafka are only dialled when
// REDIS_ADDR and KAFKA_BROKERS are set.
func newLifecycle(ctx context.Context, cfg config.Config, db *sql.DB, reg prometheus.Registerer) (*lifecycle, error) {
	repo, err := NewPriceRepository(cfg, db)
	if err != nil {
		return nil, err
	}
	store, err := newModelStore(ctx, cfg, db)
	if err != nil {
		return nil, err
	}
	cal, err := calendar.New(cfg.Model.Calendar)
	if err != nil {
		return nil, err
	}

	l := &lifecycle{checks: []api.Check{{Name: "database", Ping: db.PingContext}}}
	opts := []service.Option{
		service.WithRecorder(metrics.New(reg)),
		service.WithFitTimeout(cfg.Model.FitTimeout),
	}

	if cfg.Redis.Addr != "" {
		rc := lock.NewRedisClient(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		opts = append(opts, service.WithLocker(lock.NewRedis(rc, "garchcast:fit", cfg.Redis.LockTTL)))
		l.checks = append(l.checks, api.Check{Name: "redis", Ping: func(ctx context.Context) error { return rc.Ping(ctx).Err() }})
		l.closers = append(l.closers, rc.Close)
	}
	if len(cfg.Kafka.Brokers) > 0 {
		pub, err := events.NewKafka(events.NewKafkaWriter(cfg.Kafka.Brokers), cfg.Kafka.Topic)
		if err != nil {
			l.close()
			return nil, err
		}
		opts = append(opts, service.WithPublisher(pub))
		l.closers = append(l.closers, pub.Close)
	}

	fitter := service.NewFitter(garch.Options{
		MinObsPerParam: cfg.Model.MinObsPerParam,
		MaxIterations:  cfg.Model.MaxIterations,
		MaxEvaluations: cfg.Model.MaxEvaluations,
	})
	forecaster := service.NewForecaster(cal, cfg.Model.MaxHorizon)
	l.manager = service.NewManager(repo, artifact.NewPersister(store), fitter, forecaster, opts...)

	logger.L().Info().
		Str("db_driver", dbDriver(cfg)).
		Str("model_store", cfg.Model.Store).
		Str("upstream", cfg.Upstream.Source).
		Str("calendar", cal.Name()).
		Bool("redis_lock", cfg.Redis.Addr != "").
		Bool("kafka_events", len(cfg.Kafka.Brokers) > 0).
		Msg("model lifecycle wired")
	return l, nil
}
