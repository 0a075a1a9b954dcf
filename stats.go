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
	"math"

	"github.com/GaryBoone/GoStats/stats"
	"gonum.org/v1/gonum/floats"
)

// GoodnessOfFit returns the root mean square error between observed and
// predicted drawdown, and the coefficient of determination of a linear
// regression of observed on predicted values. R2 is NaN when there are
// fewer than two points.
func GoodnessOfFit(observed, predicted []float64) (rmse, r2 float64) {
	if len(observed) == 0 || len(observed) != len(predicted) {
		return math.NaN(), math.NaN()
	}
	diff := make([]float64, len(observed))
	floats.SubTo(diff, observed, predicted)
	rmse = floats.Norm(diff, 2) / math.Sqrt(float64(len(diff)))
	if len(observed) < 2 {
		return rmse, math.NaN()
	}
	_, _, r2, _, _, _ = stats.LinearRegression(predicted, observed)
	return rmse, r2
}
