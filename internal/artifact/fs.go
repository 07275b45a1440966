package artifact

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/guttosm/garchcast/internal/domain/errs"
	"github.com/guttosm/garchcast/internal/domain/models"
)

const fileExt = ".json"

// FSStore keeps artifacts as "<dir>/<TICKER>/<stamp>.json".
type FSStore struct {
	dir string
}

// NewFSStore creates dir if needed.
func NewFSStore(dir string) (*FSStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create model dir %s: %w: %w", dir, errs.ErrRepository, err)
	}
	return &FSStore{dir: dir}, nil
}

func (s *FSStore) path(id string) (string, error) {
	ticker, at, err := ParseID(id)
	if err != nil {
		return "", err
	}
	return filepath.Join(s.dir, ticker, at.Format(stampLayout)+fileExt), nil
}

// Put writes through a temporary file and renames it into place, so readers
// never observe a partial artifact.
func (s *FSStore) Put(_ context.Context, info models.ArtifactInfo, payload []byte) error {
	target, err := s.path(info.ID)
	if err != nil {
		return fmt.Errorf("put artifact: %w: %w", errs.ErrRepository, err)
	}
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return fmt.Errorf("put artifact %s: %w: %w", info.ID, errs.ErrRepository, err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(target), ".tmp-*")
	if err != nil {
		return fmt.Errorf("put artifact %s: %w: %w", info.ID, errs.ErrRepository, err)
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	if _, err := tmp.Write(payload); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write artifact %s: %w: %w", info.ID, errs.ErrRepository, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close artifact %s: %w: %w", info.ID, errs.ErrRepository, err)
	}
	if err := os.Rename(tmp.Name(), target); err != nil {
		return fmt.Errorf("rename artifact %s: %w: %w", info.ID, errs.ErrRepository, err)
	}
	return nil
}

func (s *FSStore) Get(_ context.Context, id string) ([]byte, error) {
	p, err := s.path(id)
	if err != nil {
		return nil, notFound(id)
	}
	b, err := os.ReadFile(p)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, notFound(id)
		}
		return nil, fmt.Errorf("read artifact %s: %w: %w", id, errs.ErrRepository, err)
	}
	return b, nil
}

func (s *FSStore) List(_ context.Context, ticker string) ([]models.ArtifactInfo, error) {
	if err := checkTicker(ticker); err != nil {
		return nil, err
	}
	entries, err := os.ReadDir(filepath.Join(s.dir, ticker))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return []models.ArtifactInfo{}, nil
		}
		return nil, fmt.Errorf("list artifacts %s: %w: %w", ticker, errs.ErrRepository, err)
	}

	out := make([]models.ArtifactInfo, 0, len(entries))
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasSuffix(name, fileExt) {
			continue
		}
		if a, ok := info(ticker + "_" + strings.TrimSuffix(name, fileExt)); ok {
			out = append(out, a)
		}
	}
	slices.SortFunc(out, newestFirst)
	return out, nil
}
