package models

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/guttosm/garchcast/internal/domain/errs"
)

// Tickers start with a letter, digit or '^' (indices) and may contain '.',
// '-', '=' and '_' after that. Path separators never match, so a ticker is
// always safe as a single directory or object key segment.
var tickerPattern = regexp.MustCompile(`^[A-Z0-9^][A-Z0-9.\-=_^]{0,31}$`)

// NormalizeTicker trims and upper-cases t and checks it against the ticker
// charset. Failures wrap errs.ErrInvalidParameter.
func NormalizeTicker(t string) (string, error) {
	t = strings.ToUpper(strings.TrimSpace(t))
	if t == "" {
		return "", fmt.Errorf("ticker is required: %w", errs.ErrInvalidParameter)
	}
	if !tickerPattern.MatchString(t) {
		return "", fmt.Errorf("ticker %q: only letters, digits and . - = _ ^ are allowed: %w", t, errs.ErrInvalidParameter)
	}
	return t, nil
}
