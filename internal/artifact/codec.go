// Package artifact persists fitted GARCH models as versioned, self-describing
// JSON documents and resolves them back by ticker or artifact id.
package artifact

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/guttosm/garchcast/internal/domain/errs"
	"github.com/guttosm/garchcast/internal/domain/models"
	"github.com/guttosm/garchcast/internal/garch"
)

const (
	// Format tags every artifact written by this package.
	Format = "garchcast/garch"
	// Version is the only artifact layout this build reads and writes.
	Version = 1

	stampLayout = "20060102T150405.000000Z"
)

type envelope struct {
	Format  string          `json:"format"`
	Version int             `json:"version"`
	Model   json.RawMessage `json:"model"`
}

// Encode serialises m. Floats use the shortest representation that parses
// back to the same value, so decoding is exact.
func Encode(m *garch.Model) ([]byte, error) {
	body, err := json.Marshal(m)
	if err != nil {
		return nil, fmt.Errorf("encode %s: %w", m.Spec, err)
	}
	return json.Marshal(envelope{Format: Format, Version: Version, Model: body})
}

// Decode parses an artifact. Unknown formats, other versions and documents
// that do not describe a usable model fail with errs.ErrArtifactVersion.
func Decode(b []byte) (*garch.Model, error) {
	var env envelope
	if err := json.Unmarshal(b, &env); err != nil {
		return nil, fmt.Errorf("decode artifact: %w: %w", errs.ErrArtifactVersion, err)
	}
	if env.Format != Format || env.Version != Version {
		return nil, fmt.Errorf("artifact format %q version %d is not supported: %w", env.Format, env.Version, errs.ErrArtifactVersion)
	}

	var m garch.Model
	if err := json.Unmarshal(env.Model, &m); err != nil {
		return nil, fmt.Errorf("decode model: %w: %w", errs.ErrArtifactVersion, err)
	}
	if err := m.Validate(); err != nil {
		return nil, fmt.Errorf("artifact model is unusable: %w: %w", errs.ErrArtifactVersion, err)
	}
	return &m, nil
}

// NewID builds "<TICKER>_<stamp>" for a fit at t.
func NewID(ticker string, t time.Time) string {
	return strings.ToUpper(ticker) + "_" + t.UTC().Format(stampLayout)
}

// ParseID splits an artifact id into its ticker and fit timestamp. The ticker
// must already be in normalised form.
func ParseID(id string) (string, time.Time, error) {
	i := strings.LastIndexByte(id, '_')
	if i <= 0 || i == len(id)-1 {
		return "", time.Time{}, fmt.Errorf("%q is not an artifact id", id)
	}
	if ticker, err := models.NormalizeTicker(id[:i]); err != nil || ticker != id[:i] {
		return "", time.Time{}, fmt.Errorf("%q is not an artifact id: bad ticker", id)
	}
	t, err := time.Parse(stampLayout, id[i+1:])
	if err != nil {
		return "", time.Time{}, fmt.Errorf("%q is not an artifact id: %w", id, err)
	}
	return id[:i], t, nil
}
