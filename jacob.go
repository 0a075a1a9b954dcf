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

	"github.com/GaryBoone/GoStats/stats"
)

// Jacob is the Cooper-Jacob (1946) straight-line method. For small u
// the Theis solution is linear in log10(t):
//
//	s = 2.303·Q/(4πT)·log10(2.25·T·t/(r²S))
//
// so a regression of drawdown on log10(t) gives T from the slope Δs per
// log cycle, and S from the time t0 where the line crosses zero
// drawdown. Jacob does not iterate; its result is Converged unless the
// data cannot define a line of positive slope.
type Jacob struct {
	// MinTime excludes earlier observations, where u is too large for
	// the straight-line approximation. Zero uses every observation.
	MinTime float64
}

// Name returns "Jacob".
func (Jacob) Name() string { return "Jacob" }

// ParamNames returns T and S.
func (Jacob) ParamNames() []string { return []string{"T", "S"} }

// Estimate implements Method.
func (j Jacob) Estimate(ctx context.Context, r, q float64, o ObservationPoint) FitResult {
	if err := checkInputs(r, o); err != nil {
		return failed(err)
	}
	if err := ctx.Err(); err != nil {
		return FitResult{Status: Failed, RMSE: math.NaN(), R2: math.NaN(),
			Err: &FitError{Kind: ErrCanceled, Err: err}}
	}
	var logT, s []float64
	for i, t := range o.T {
		if t >= j.MinTime {
			logT = append(logT, math.Log10(t))
			s = append(s, o.S[i])
		}
	}
	if len(logT) < 2 {
		return failed(invalidf("Jacob method needs at least 2 observations at or after time %g, but there are %d",
			j.MinTime, len(logT)))
	}
	slope, intercept, r2, _, _, _ := stats.LinearRegression(logT, s)
	if !(slope > 0) || math.IsInf(slope, 0) {
		return failed(invalidf("drawdown per log cycle is %g but should be > 0", slope))
	}
	T := math.Ln10 * q / (4 * math.Pi * slope)
	t0 := math.Pow(10, -intercept/slope)
	S := 2.25 * T * t0 / (r * r)

	pred := make([]float64, len(logT))
	for i, x := range logT {
		pred[i] = intercept + slope*x
	}
	rmse, _ := GoodnessOfFit(s, pred)
	return FitResult{
		Params: []float64{T, S},
		Status: Converged,
		RMSE:   rmse,
		R2:     r2,
	}
}
