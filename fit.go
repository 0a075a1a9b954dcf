/*
Copyright © 2026 the Aquifer authors.
This file is part of Aquifer.

Aquifer is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

Aquifer is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with Aquifer.  If not, see <http://www.gnu.org/licenses/>.
*/

package aquifer

import (
	"context"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// FitConfig holds the settings of the Gauss-Newton fitter.
type FitConfig struct {
	// MaxIterations caps the number of parameter updates.
	MaxIterations int

	// PerturbationRatio is the relative step used for the
	// forward-difference jacobian: parameter p is perturbed to
	// p·(1+PerturbationRatio).
	PerturbationRatio float64

	// ConvergenceTolerance is the Euclidean norm of the parameter
	// update below which the fit is converged.
	ConvergenceTolerance float64

	// InitialGuess is the starting parameter vector.
	InitialGuess []float64
}

// TheisPreset returns the fitter settings for the Theis model:
// 30 iterations starting from T=3000, S=1e-4.
func TheisPreset() FitConfig {
	return FitConfig{
		MaxIterations:        30,
		PerturbationRatio:    0.001,
		ConvergenceTolerance: 1e-6,
		InitialGuess:         []float64{3000, 1e-4},
	}
}

// NeumanPreset returns the fitter settings for the Neuman model:
// 40 iterations starting from T=3000, Sy=0.15, A=0.1.
func NeumanPreset() FitConfig {
	return FitConfig{
		MaxIterations:        40,
		PerturbationRatio:    0.001,
		ConvergenceTolerance: 1e-6,
		InitialGuess:         []float64{3000, 0.15, 0.1},
	}
}

// Validate checks that c can be used by Fit.
func (c FitConfig) Validate() error {
	if c.MaxIterations < 1 {
		return invalidf("MaxIterations=%d but should be >= 1", c.MaxIterations)
	}
	if !(c.PerturbationRatio > 0) {
		return invalidf("PerturbationRatio=%g but should be > 0", c.PerturbationRatio)
	}
	if !(c.ConvergenceTolerance > 0) {
		return invalidf("ConvergenceTolerance=%g but should be > 0", c.ConvergenceTolerance)
	}
	if len(c.InitialGuess) == 0 {
		return invalidf("InitialGuess is empty")
	}
	if !allFinite(c.InitialGuess) {
		return invalidf("InitialGuess %v is not finite", c.InitialGuess)
	}
	return nil
}

// Fit finds the parameters p that minimize Σ(s - f(p))² using
// undamped Gauss-Newton iteration with a forward-difference jacobian.
// Each step solves the linear least-squares problem J·Δ ≈ s - f(p) for
// the minimum-norm Δ and stops once ‖Δ‖ < cfg.ConvergenceTolerance.
// f must return a slice the length of s.
//
// Poor initial guesses or ill-conditioned jacobians can make the
// iteration diverge; that is reported as Failed with ErrNonFinite once
// values stop being finite, or as MaxIterationsReached.
// RMSE and R2 are left for the caller to fill in.
func Fit(ctx context.Context, f func(p []float64) []float64, s []float64, cfg FitConfig) FitResult {
	p := append([]float64(nil), cfg.InitialGuess...)
	res := FitResult{Params: p, RMSE: math.NaN(), R2: math.NaN()}
	fail := func(kind error, iteration int, err error) FitResult {
		res.Status = Failed
		res.Err = &FitError{Kind: kind, Iteration: iteration, Err: err}
		return res
	}
	if err := cfg.Validate(); err != nil {
		return fail(ErrInvalidInput, 0, err)
	}
	if len(s) == 0 || !allFinite(s) {
		return fail(ErrInvalidInput, 0, invalidf("observed drawdown is empty or not finite"))
	}

	m, n := len(s), len(p)
	jac := mat.NewDense(m, n, nil)
	perturbed := make([]float64, n)
	residual := make([]float64, m)

	for iter := 1; iter <= cfg.MaxIterations; iter++ {
		if err := ctx.Err(); err != nil {
			return fail(ErrCanceled, iter, err)
		}
		model := f(p)
		if len(model) != m {
			return fail(ErrInvalidInput, iter, invalidf("model returned %d values for %d observations", len(model), m))
		}
		if !allFinite(model) {
			return fail(ErrNonFinite, iter, nil)
		}

		// Forward-difference jacobian: rows are observations,
		// columns are parameters.
		for j := range p {
			copy(perturbed, p)
			perturbed[j] = p[j] * (1 + cfg.PerturbationRatio)
			h := cfg.PerturbationRatio * p[j]
			fp := f(perturbed)
			if len(fp) != m {
				return fail(ErrInvalidInput, iter, invalidf("model returned %d values for %d observations", len(fp), m))
			}
			for i := range fp {
				jac.Set(i, j, (fp[i]-model[i])/h)
			}
		}
		if !allFinite(jac.RawMatrix().Data) {
			return fail(ErrNonFinite, iter, nil)
		}

		floats.SubTo(residual, s, model)
		delta, err := lstsq(jac, residual)
		if err != nil {
			return fail(ErrSingular, iter, err)
		}
		if !allFinite(delta) {
			return fail(ErrNonFinite, iter, nil)
		}
		floats.Add(p, delta)
		res.Iterations = iter

		if floats.Norm(delta, 2) < cfg.ConvergenceTolerance {
			res.Status = Converged
			return res
		}
	}
	res.Status = MaxIterationsReached
	return res
}

// lstsq returns the minimum-norm solution x of a·x ≈ b. Singular values
// smaller than eps·max(m,n) times the largest are treated as zero, as
// LAPACK's dgelsd does by default.
func lstsq(a *mat.Dense, b []float64) ([]float64, error) {
	m, n := a.Dims()
	var svd mat.SVD
	if ok := svd.Factorize(a, mat.SVDThin); !ok {
		return nil, ErrSingular
	}
	values := svd.Values(nil)
	var u, v mat.Dense
	svd.UTo(&u)
	svd.VTo(&v)

	x := make([]float64, n)
	if len(values) == 0 {
		return x, nil
	}
	const eps = 0x1p-52
	cutoff := eps * float64(max(m, n)) * values[0]
	bv := mat.NewVecDense(m, b)
	for k, sk := range values {
		if sk <= cutoff {
			break // values are in decreasing order
		}
		c := mat.Dot(u.ColView(k), bv) / sk
		for j := range x {
			x[j] += c * v.At(j, k)
		}
	}
	return x, nil
}

func allFinite(x []float64) bool {
	for _, v := range x {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}
