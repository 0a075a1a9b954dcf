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
)

// A Method estimates aquifer parameters for a single observation point.
type Method interface {
	// Name returns the label for this method.
	Name() string

	// ParamNames returns the names of the estimated parameters.
	ParamNames() []string

	// Estimate estimates the parameters from observation o at distance
	// r from a well pumping at rate q.
	Estimate(ctx context.Context, r, q float64, o ObservationPoint) FitResult
}

// GaussNewton fits Model to observed drawdown with Fit.
type GaussNewton struct {
	Model  Model
	Config FitConfig

	// Seed, if not nil, is run first and its estimates replace the
	// entries of Config.InitialGuess whose parameter names match
	// position for position. A failed seed leaves the guess unchanged.
	Seed Method
}

// TheisMethod returns the Theis model with the TheisPreset settings.
func TheisMethod() GaussNewton {
	return GaussNewton{Model: Theis{}, Config: TheisPreset()}
}

// NeumanMethod returns the Neuman model with the NeumanPreset settings.
func NeumanMethod() GaussNewton {
	return GaussNewton{Model: Neuman{}, Config: NeumanPreset()}
}

// Name returns the name of the model.
func (g GaussNewton) Name() string { return g.Model.Name() }

// ParamNames returns the parameter names of the model.
func (g GaussNewton) ParamNames() []string { return g.Model.ParamNames() }

// Estimate implements Method.
func (g GaussNewton) Estimate(ctx context.Context, r, q float64, o ObservationPoint) FitResult {
	names := g.Model.ParamNames()
	if err := checkInputs(r, o); err != nil {
		return failed(err)
	}
	cfg := g.Config
	cfg.InitialGuess = append([]float64(nil), g.Config.InitialGuess...)
	if len(cfg.InitialGuess) != len(names) {
		return failed(invalidf("%s model has %d parameters but the initial guess has %d",
			g.Model.Name(), len(names), len(cfg.InitialGuess)))
	}
	if g.Seed != nil {
		if seed := g.Seed.Estimate(ctx, r, q, o); seed.OK() {
			for i, name := range g.Seed.ParamNames() {
				if i < len(names) && names[i] == name && seed.Params[i] > 0 {
					cfg.InitialGuess[i] = seed.Params[i]
				}
			}
		}
	}

	f := func(p []float64) []float64 { return g.Model.Drawdown(r, o.T, q, p) }
	res := Fit(ctx, f, o.S, cfg)
	if res.OK() {
		res.RMSE, res.R2 = GoodnessOfFit(o.S, f(res.Params))
	}
	return res
}

func checkInputs(r float64, o ObservationPoint) error {
	if err := checkDistance(r); err != nil {
		return err
	}
	return o.Validate()
}

// failed returns a Failed result, without parameters, for an error
// detected before fitting.
func failed(err error) FitResult {
	return FitResult{
		Status: Failed,
		RMSE:   math.NaN(),
		R2:     math.NaN(),
		Err:    &FitError{Kind: ErrInvalidInput, Err: err},
	}
}
