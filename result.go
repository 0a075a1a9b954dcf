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

import "fmt"

// Status is the outcome of a parameter estimate.
type Status int

const (
	// Converged means the parameter update fell below the
	// convergence tolerance.
	Converged Status = iota

	// MaxIterationsReached means the iteration cap was hit first.
	// The parameters are the last iterate and may not be trustworthy.
	MaxIterationsReached

	// Failed means no parameters could be estimated. See FitResult.Err.
	Failed
)

func (s Status) String() string {
	switch s {
	case Converged:
		return "converged"
	case MaxIterationsReached:
		return "max iterations reached"
	case Failed:
		return "solver failed"
	default:
		return fmt.Sprintf("Status(%d)", int(s))
	}
}

// FitResult holds the outcome of fitting one model to one observation
// point.
type FitResult struct {
	// Params are the estimated parameters, in the model's ParamNames
	// order. For failed fits they are the last finite iterate, if any.
	Params []float64

	Status Status

	// Iterations is the number of update steps taken.
	Iterations int

	// RMSE is the root mean square difference between observed and
	// predicted drawdown, and R2 the coefficient of determination of a
	// linear regression between the two. Both are NaN for failed fits.
	RMSE, R2 float64

	// Err is a *FitError when Status is Failed, and nil otherwise.
	Err error
}

// OK reports whether the fit produced parameters (converged or not).
func (r FitResult) OK() bool { return r.Status != Failed }
