package artifact

import (
	"context"
	"fmt"

	"github.com/guttosm/garchcast/internal/domain/errs"
	"github.com/guttosm/garchcast/internal/domain/models"
)

// Store keeps encoded artifacts. Get returns errs.ErrArtifactNotFound for an
// unknown id; List returns a ticker's artifacts newest first and an empty
// slice when there are none. I/O failures wrap errs.ErrRepository.
type Store interface {
	Put(ctx context.Context, info models.ArtifactInfo, payload []byte) error
	Get(ctx context.Context, id string) ([]byte, error)
	List(ctx context.Context, ticker string) ([]models.ArtifactInfo, error)
}

// Store backends selectable by configuration.
const (
	StoreFS       = "fs"
	StorePostgres = "postgres"
	StoreSQL      = "sql"
	StoreS3       = "s3"
)

// checkTicker rejects tickers that are not in normalised form, so a ticker
// never escapes its own directory or key prefix.
func checkTicker(ticker string) error {
	t, err := models.NormalizeTicker(ticker)
	if err != nil {
		return fmt.Errorf("artifact store: %w", err)
	}
	if t != ticker {
		return fmt.Errorf("artifact store: ticker %q is not normalised: %w", ticker, errs.ErrInvalidParameter)
	}
	return nil
}

func info(id string) (models.ArtifactInfo, bool) {
	ticker, at, err := ParseID(id)
	if err != nil {
		return models.ArtifactInfo{}, false
	}
	return models.ArtifactInfo{ID: id, Ticker: ticker, FittedAt: at}, true
}

func newestFirst(a, b models.ArtifactInfo) int {
	return b.FittedAt.Compare(a.FittedAt)
}
