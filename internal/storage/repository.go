package storage

import (
	"context"
	"database/sql"
	"fmt"
	"math"
	"time"

	"github.com/guttosm/garchcast/internal/domain/errs"
	"github.com/guttosm/garchcast/internal/domain/models"
	pq "github.com/lib/pq"
)

// PricesRepository defines contract for price storage.
//
// ReadPrices returns errs.ErrTickerNotFound when the ticker has no rows at
// all, so "unknown ticker" is never confused with an empty window. Driver
// failures are wrapped with errs.ErrRepository.
type PricesRepository interface {
	ReadPrices(ctx context.Context, ticker string, limit int) ([]models.Observation, error)
	UpsertPrices(ctx context.Context, ticker string, rows []models.Observation) (int, error)
	Tickers(ctx context.Context) ([]string, error)
}

type pricesRepository struct {
	db     *sql.DB
	driver string
}

// NewPricesRepository returns a repository over db. driver selects the SQL
// dialect (DriverPostgres or DriverSQLite).
func NewPricesRepository(db *sql.DB, driver string) PricesRepository {
	return &pricesRepository{db: db, driver: driver}
}

// ReadPrices returns at most limit of the most recent rows of ticker in
// ascending timestamp order. A non-positive limit reads every row.
func (r *pricesRepository) ReadPrices(ctx context.Context, ticker string, limit int) ([]models.Observation, error) {
	if limit <= 0 {
		limit = math.MaxInt32
	}
	query := Rebind(r.driver, `
		SELECT ts, close FROM (
			SELECT ts, close FROM prices
			WHERE ticker = $1
			ORDER BY ts DESC
			LIMIT $2
		) recent
		ORDER BY ts ASC`)

	rows, err := r.db.QueryContext(ctx, query, ticker, limit)
	if err != nil {
		return nil, fmt.Errorf("read prices %s: %w: %w", ticker, errs.ErrRepository, err)
	}
	defer func() { _ = rows.Close() }()

	var out []models.Observation
	for rows.Next() {
		var o models.Observation
		if err := rows.Scan(&o.Timestamp, &o.Price); err != nil {
			return nil, fmt.Errorf("scan price row %s: %w: %w", ticker, errs.ErrRepository, err)
		}
		out = append(out, o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate prices %s: %w: %w", ticker, errs.ErrRepository, err)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("no prices stored for %s: %w", ticker, errs.ErrTickerNotFound)
	}
	return out, nil
}

// UpsertPrices writes rows for ticker, replacing the close of rows whose
// timestamp already exists. It returns the number of rows written.
func (r *pricesRepository) UpsertPrices(ctx context.Context, ticker string, rows []models.Observation) (int, error) {
	if len(rows) == 0 {
		return 0, nil
	}
	var (
		n   int
		err error
	)
	if r.driver == DriverSQLite {
		n, err = r.upsertRows(ctx, ticker, rows)
	} else {
		n, err = r.copyUpsert(ctx, ticker, rows)
	}
	if err != nil {
		return 0, fmt.Errorf("upsert prices %s: %w: %w", ticker, errs.ErrRepository, err)
	}
	return n, nil
}

// copyUpsert bulk loads rows into a transaction-scoped staging table with
// COPY and merges them into prices in one statement.
func (r *pricesRepository) copyUpsert(ctx context.Context, ticker string, rows []models.Observation) (int, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}

	if _, err := tx.ExecContext(ctx, `CREATE TEMP TABLE prices_stage (ticker TEXT, ts TIMESTAMPTZ, close DOUBLE PRECISION) ON COMMIT DROP`); err != nil {
		_ = tx.Rollback()
		return 0, err
	}

	stmt, err := tx.PrepareContext(ctx, pq.CopyIn("prices_stage", "ticker", "ts", "close"))
	if err != nil {
		_ = tx.Rollback()
		return 0, err
	}
	for _, o := range rows {
		if _, err := stmt.ExecContext(ctx, ticker, o.Timestamp.UTC(), o.Price); err != nil {
			_ = stmt.Close()
			_ = tx.Rollback()
			return 0, err
		}
	}
	if _, err := stmt.ExecContext(ctx); err != nil {
		_ = stmt.Close()
		_ = tx.Rollback()
		return 0, err
	}
	if err := stmt.Close(); err != nil {
		_ = tx.Rollback()
		return 0, err
	}

	res, err := tx.ExecContext(ctx, `
		INSERT INTO prices (ticker, ts, close)
		SELECT DISTINCT ON (ticker, ts) ticker, ts, close FROM prices_stage
		ON CONFLICT (ticker, ts)
		DO UPDATE SET close = EXCLUDED.close,
					  updated_at = NOW()`)
	if err != nil {
		_ = tx.Rollback()
		return 0, err
	}
	if err := tx.Commit(); err != nil {
		return 0, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return len(rows), nil
	}
	return int(n), nil
}

// upsertRows is the row-at-a-time path for drivers without COPY.
func (r *pricesRepository) upsertRows(ctx context.Context, ticker string, rows []models.Observation) (int, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	stmt, err := tx.PrepareContext(ctx, Rebind(r.driver, `
		INSERT INTO prices (ticker, ts, close, updated_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (ticker, ts)
		DO UPDATE SET close = excluded.close,
					  updated_at = excluded.updated_at`))
	if err != nil {
		_ = tx.Rollback()
		return 0, err
	}
	now := time.Now().UTC()
	for _, o := range rows {
		if _, err := stmt.ExecContext(ctx, ticker, o.Timestamp.UTC(), o.Price, now); err != nil {
			_ = stmt.Close()
			_ = tx.Rollback()
			return 0, err
		}
	}
	if err := stmt.Close(); err != nil {
		_ = tx.Rollback()
		return 0, err
	}
	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return len(rows), nil
}

// Tickers lists every ticker with at least one stored price.
func (r *pricesRepository) Tickers(ctx context.Context) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT DISTINCT ticker FROM prices ORDER BY ticker`)
	if err != nil {
		return nil, fmt.Errorf("list tickers: %w: %w", errs.ErrRepository, err)
	}
	defer func() { _ = rows.Close() }()

	var out []string
	for rows.Next() {
		var t string
		if err := rows.Scan(&t); err != nil {
			return nil, fmt.Errorf("scan ticker: %w: %w", errs.ErrRepository, err)
		}
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate tickers: %w: %w", errs.ErrRepository, err)
	}
	return out, nil
}
