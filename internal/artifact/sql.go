package artifact

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/guttosm/garchcast/internal/domain/errs"
	"github.com/guttosm/garchcast/internal/domain/models"
	"github.com/guttosm/garchcast/internal/storage"
)

// SQLStore keeps artifacts in the model_artifacts table.
type SQLStore struct {
	db     *sql.DB
	driver string
}

// NewSQLStore returns a store over db using the dialect of driver.
func NewSQLStore(db *sql.DB, driver string) *SQLStore {
	return &SQLStore{db: db, driver: driver}
}

func (s *SQLStore) Put(ctx context.Context, info models.ArtifactInfo, payload []byte) error {
	query := storage.Rebind(s.driver, `INSERT INTO model_artifacts (id, ticker, fitted_at, payload) VALUES ($1, $2, $3, $4)`)
	if _, err := s.db.ExecContext(ctx, query, info.ID, info.Ticker, info.FittedAt.UTC(), string(payload)); err != nil {
		return fmt.Errorf("insert artifact %s: %w: %w", info.ID, errs.ErrRepository, err)
	}
	return nil
}

func (s *SQLStore) Get(ctx context.Context, id string) ([]byte, error) {
	var payload string
	err := s.db.QueryRowContext(ctx, storage.Rebind(s.driver, `SELECT payload FROM model_artifacts WHERE id = $1`), id).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, notFound(id)
	}
	if err != nil {
		return nil, fmt.Errorf("select artifact %s: %w: %w", id, errs.ErrRepository, err)
	}
	return []byte(payload), nil
}

// List reads ids only; the fit time is recovered from the id so it is exact
// regardless of the column precision of the driver.
func (s *SQLStore) List(ctx context.Context, ticker string) ([]models.ArtifactInfo, error) {
	rows, err := s.db.QueryContext(ctx, storage.Rebind(s.driver, `SELECT id FROM model_artifacts WHERE ticker = $1 ORDER BY fitted_at DESC, id DESC`), ticker)
	if err != nil {
		return nil, fmt.Errorf("list artifacts %s: %w: %w", ticker, errs.ErrRepository, err)
	}
	defer func() { _ = rows.Close() }()

	out := []models.ArtifactInfo{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan artifact %s: %w: %w", ticker, errs.ErrRepository, err)
		}
		if a, ok := info(id); ok {
			out = append(out, a)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate artifacts %s: %w: %w", ticker, errs.ErrRepository, err)
	}
	return out, nil
}
