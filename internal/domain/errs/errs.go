// Package errs holds the error taxonomy shared by the model lifecycle.
//
// Every failure path wraps exactly one of the sentinels below with context, e.g.
//
//	return fmt.Errorf("ticker %s: %d observations: %w", ticker, n, errs.ErrInsufficientData)
//
// so callers can branch with errors.Is and the HTTP layer can map a failure to a
// stable error code with Code.
package errs

import "errors"

var (
	ErrInsufficientData = errors.New("insufficient data")
	ErrDataQuality      = errors.New("data quality")
	ErrInvalidParameter = errors.New("invalid parameter")
	ErrConvergence      = errors.New("model did not converge")
	ErrArtifactNotFound = errors.New("model artifact not found")
	ErrArtifactVersion  = errors.New("unsupported model artifact version")
	ErrInvalidHorizon   = errors.New("invalid forecast horizon")
	ErrRepository       = errors.New("repository failure")
	ErrTickerNotFound   = errors.New("unknown ticker")
	ErrFitInProgress    = errors.New("fit already in progress")
)

// Error codes returned to API clients.
const (
	CodeInsufficientData = "insufficient_data"
	CodeDataQuality      = "data_quality"
	CodeInvalidParameter = "invalid_parameter"
	CodeConvergence      = "convergence"
	CodeArtifactNotFound = "artifact_not_found"
	CodeArtifactVersion  = "artifact_version"
	CodeInvalidHorizon   = "invalid_horizon"
	CodeRepository       = "repository"
	CodeTickerNotFound   = "unknown_ticker"
	CodeFitInProgress    = "fit_in_progress"
	CodeInternal         = "internal"
)

var codes = []struct {
	err  error
	code string
}{
	{ErrInvalidParameter, CodeInvalidParameter},
	{ErrInvalidHorizon, CodeInvalidHorizon},
	{ErrTickerNotFound, CodeTickerNotFound},
	{ErrInsufficientData, CodeInsufficientData},
	{ErrDataQuality, CodeDataQuality},
	{ErrConvergence, CodeConvergence},
	{ErrArtifactNotFound, CodeArtifactNotFound},
	{ErrArtifactVersion, CodeArtifactVersion},
	{ErrFitInProgress, CodeFitInProgress},
	{ErrRepository, CodeRepository},
}

// Code returns the stable code of the first taxonomy sentinel found in err's
// chain, or CodeInternal.
func Code(err error) string {
	if err == nil {
		return ""
	}
	for _, c := range codes {
		if errors.Is(err, c.err) {
			return c.code
		}
	}
	return CodeInternal
}
