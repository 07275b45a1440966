package garch

import (
	"context"
	"fmt"
	"math"

	"gonum.org/v1/gonum/optimize"
	"gonum.org/v1/gonum/stat"

	"github.com/guttosm/garchcast/internal/domain/errs"
	"github.com/guttosm/garchcast/internal/domain/models"
)

// minVariance below which a return series is treated as constant.
const minVariance = 1e-12

// Options bound the maximum-likelihood search.
type Options struct {
	// MinObsPerParam is the minimum number of returns required per estimated
	// parameter.
	MinObsPerParam int
	// MaxIterations caps Nelder-Mead major iterations per pass.
	MaxIterations int
	// MaxEvaluations caps likelihood evaluations per pass.
	MaxEvaluations int
}

// DefaultOptions returns the bounds used when a field is left at zero.
func DefaultOptions() Options {
	return Options{MinObsPerParam: 10, MaxIterations: 5000, MaxEvaluations: 20000}
}

func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if o.MinObsPerParam <= 0 {
		o.MinObsPerParam = d.MinObsPerParam
	}
	if o.MaxIterations <= 0 {
		o.MaxIterations = d.MaxIterations
	}
	if o.MaxEvaluations <= 0 {
		o.MaxEvaluations = d.MaxEvaluations
	}
	return o
}

// Fit estimates a GARCH(spec.P, spec.Q) model on series by maximum likelihood.
//
// The search always starts from the same point and runs single-threaded, so
// identical inputs give identical estimates. Fit returns errs.ErrInvalidParameter
// for a bad spec, errs.ErrDataQuality for non-finite returns and
// errs.ErrConvergence when the series is too short or degenerate, the
// optimizer exhausts its budget, or ctx ends first.
func Fit(ctx context.Context, series models.ReturnSeries, spec Spec, opts Options) (*Model, error) {
	if err := spec.Validate(); err != nil {
		return nil, err
	}
	opts = opts.withDefaults()

	r := series.Values()
	n := len(r)
	if n == 0 {
		return nil, fmt.Errorf("%s: empty return series: %w", spec, errs.ErrInsufficientData)
	}
	for i, v := range r {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, fmt.Errorf("%s: return %d is not finite: %w", spec, i, errs.ErrDataQuality)
		}
	}
	k := spec.NumParams()
	if need := opts.MinObsPerParam * k; n < need {
		return nil, fmt.Errorf("%s: %d returns for %d parameters, need at least %d: %w",
			spec, n, k, need, errs.ErrConvergence)
	}

	mean, variance := stat.MeanVariance(r, nil)
	if !(variance > minVariance) {
		return nil, fmt.Errorf("%s: return series is constant: %w", spec, errs.ErrConvergence)
	}

	demeaned := make([]float64, n)
	for i, v := range r {
		demeaned[i] = v - mean
	}
	bc := backcast(demeaned)

	eps := make([]float64, n)
	sigma2 := make([]float64, n)
	objective := func(x []float64) float64 {
		nll := recursion(r, transform(x, spec.Q, spec.P), bc, eps, sigma2)
		if math.IsNaN(nll) || math.IsInf(nll, 0) {
			return math.Inf(1)
		}
		return nll
	}
	problem := optimize.Problem{
		Func: objective,
		Status: func() (optimize.Status, error) {
			if err := ctx.Err(); err != nil {
				return optimize.Failure, err
			}
			return optimize.NotTerminated, nil
		},
	}

	x := inverse(startingParams(mean, variance, spec))
	iterations := 0
	// A second pass restarted from the first optimum rebuilds the simplex and
	// guards against Nelder-Mead stalling on a collapsed simplex.
	for pass := 0; pass < 2; pass++ {
		settings := &optimize.Settings{
			MajorIterations: opts.MaxIterations,
			FuncEvaluations: opts.MaxEvaluations,
			Converger: &optimize.FunctionConverge{
				Absolute:   1e-9,
				Relative:   1e-12,
				Iterations: 200,
			},
		}
		res, err := optimize.Minimize(problem, x, settings, &optimize.NelderMead{SimplexSize: 0.25})
		if err != nil {
			return nil, fmt.Errorf("%s: optimizer failed: %w: %w", spec, errs.ErrConvergence, err)
		}
		iterations += res.MajorIterations
		if res.Status.Early() {
			return nil, fmt.Errorf("%s: optimizer stopped with status %s after %d iterations: %w",
				spec, res.Status, iterations, errs.ErrConvergence)
		}
		x = res.X
	}

	params := transform(x, spec.Q, spec.P)
	nll := recursion(r, params, bc, eps, sigma2)
	if math.IsNaN(nll) || math.IsInf(nll, 0) || math.IsNaN(params.Mu) || !(params.Omega > 0) {
		return nil, fmt.Errorf("%s: optimum is not finite: %w", spec, errs.ErrConvergence)
	}

	ll := -nll
	fk, fn := float64(k), float64(n)
	return &Model{
		Spec:   spec,
		Params: params,
		Diagnostics: models.Diagnostics{
			AIC:           2*fk - 2*ll,
			BIC:           fk*math.Log(fn) - 2*ll,
			LogLikelihood: ll,
			NumObs:        n,
		},
		Iterations: iterations,
		State: State{
			LastTimestamp: series.LastTimestamp().UTC(),
			Residuals:     tail(eps, spec.Q, math.Sqrt(bc)),
			Variances:     tail(sigma2, spec.P, bc),
			Backcast:      bc,
		},
		Residuals: eps,
		Variances: sigma2,
	}, nil
}

// startingParams puts 0.1 of persistence on the ARCH terms (0.3 without
// GARCH terms) and 0.8 on the GARCH terms, split evenly across lags, with
// omega matching the sample variance.
func startingParams(mean, variance float64, spec Spec) Params {
	alphaTotal, betaTotal := 0.1, 0.8
	switch {
	case spec.P == 0:
		alphaTotal, betaTotal = 0.3, 0
	case spec.Q == 0:
		alphaTotal, betaTotal = 0, 0.8
	}
	p := Params{
		Mu:    mean,
		Alpha: make([]float64, spec.Q),
		Beta:  make([]float64, spec.P),
	}
	for i := range p.Alpha {
		p.Alpha[i] = alphaTotal / float64(spec.Q)
	}
	for j := range p.Beta {
		p.Beta[j] = betaTotal / float64(spec.P)
	}
	p.Omega = variance * (1 - alphaTotal - betaTotal)
	return p
}

// tail copies the last n values of s, left-padded with pad when s is shorter.
func tail(s []float64, n int, pad float64) []float64 {
	out := make([]float64, n)
	for i := 0; i < n; i++ {
		src := len(s) - n + i
		if src >= 0 {
			out[i] = s[src]
		} else {
			out[i] = pad
		}
	}
	return out
}
