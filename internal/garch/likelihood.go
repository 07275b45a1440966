package garch

import (
	"math"
)

const (
	backcastWindow = 75
	backcastDecay  = 0.94
	log2Pi         = 1.8378770664093453 // ln(2*pi)
)

// backcast is the exponentially weighted mean of the first squared
// residuals; it stands in for pre-sample eps^2 and sigma2.
func backcast(resids []float64) float64 {
	tau := len(resids)
	if tau > backcastWindow {
		tau = backcastWindow
	}
	var num, den float64
	w := 1.0
	for i := 0; i < tau; i++ {
		num += w * resids[i] * resids[i]
		den += w
		w *= backcastDecay
	}
	return num / den
}

// recursion fills sigma2 (len(returns)) and eps for the given parameters and
// returns the negative log-likelihood.
func recursion(returns []float64, p Params, bc float64, eps, sigma2 []float64) float64 {
	q, pp := len(p.Alpha), len(p.Beta)
	nll := 0.0
	for t := range returns {
		eps[t] = returns[t] - p.Mu
		v := p.Omega
		for i := 1; i <= q; i++ {
			if t-i >= 0 {
				v += p.Alpha[i-1] * eps[t-i] * eps[t-i]
			} else {
				v += p.Alpha[i-1] * bc
			}
		}
		for j := 1; j <= pp; j++ {
			if t-j >= 0 {
				v += p.Beta[j-1] * sigma2[t-j]
			} else {
				v += p.Beta[j-1] * bc
			}
		}
		sigma2[t] = v
		nll += 0.5 * (log2Pi + math.Log(v) + eps[t]*eps[t]/v)
	}
	return nll
}

// transform maps an unconstrained vector onto valid parameters:
// x = [mu, log(omega), z_1..z_{q+p}], where the lag weights are
// exp(z_i) / (1 + sum_j exp(z_j)). Every weight is positive and their sum
// stays below one, so the variance process is stationary.
func transform(x []float64, q, p int) Params {
	out := Params{
		Mu:    x[0],
		Omega: math.Exp(x[1]),
		Alpha: make([]float64, q),
		Beta:  make([]float64, p),
	}
	z := x[2:]
	m := 0.0
	for _, v := range z {
		if v > m {
			m = v
		}
	}
	den := math.Exp(-m)
	ez := make([]float64, len(z))
	for i, v := range z {
		ez[i] = math.Exp(v - m)
		den += ez[i]
	}
	for i := 0; i < q; i++ {
		out.Alpha[i] = ez[i] / den
	}
	for j := 0; j < p; j++ {
		out.Beta[j] = ez[q+j] / den
	}
	return out
}

// inverse is the inverse of transform for parameters with positive weights
// summing to less than one.
func inverse(p Params) []float64 {
	x := make([]float64, 0, 2+len(p.Alpha)+len(p.Beta))
	x = append(x, p.Mu, math.Log(p.Omega))
	slack := 1 - p.Persistence()
	for _, a := range p.Alpha {
		x = append(x, math.Log(a/slack))
	}
	for _, b := range p.Beta {
		x = append(x, math.Log(b/slack))
	}
	return x
}
