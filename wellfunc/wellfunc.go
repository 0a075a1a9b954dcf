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

// Package wellfunc evaluates the Theis well function W(u), the exponential
// integral E1(u) as it is written in groundwater hydraulics:
//
// Theis, C. V. (1935). The relation between the lowering of the
// piezometric surface and the rate and duration of discharge of a well
// using ground-water storage. Transactions, American Geophysical Union,
// 16(2), 519–524.
package wellfunc

import "math"

// EulerGamma is the Euler–Mascheroni constant.
const EulerGamma = 0.5772156649

// SmallU is the argument below which the asymptotic expansion is used
// instead of the series.
const SmallU = 1e-5

// NumTerms is the number of series terms summed for u >= SmallU.
// No convergence check is made, so accuracy degrades for large u
// (roughly u > 20), which is outside the range met in well-test analysis.
const NumTerms = 50

// W returns the Theis well function for u > 0. It does not check u;
// u <= 0 yields NaN or +Inf.
func W(u float64) float64 {
	if u < SmallU {
		return -EulerGamma - math.Log(u) + u - u*u/4
	}
	var sum float64
	term := 1.0 // uⁿ/n!
	for n := 1; n <= NumTerms; n++ {
		term *= u / float64(n)
		if n%2 == 1 {
			sum += term / float64(n)
		} else {
			sum -= term / float64(n)
		}
	}
	return -EulerGamma - math.Log(u) + sum
}

// Ws applies W element-wise to u, storing the result in dst, which
// is allocated if nil. It panics if dst is not nil and its length
// differs from u.
func Ws(dst, u []float64) []float64 {
	if dst == nil {
		dst = make([]float64, len(u))
	}
	if len(dst) != len(u) {
		panic("wellfunc: length mismatch")
	}
	for i, ui := range u {
		dst[i] = W(ui)
	}
	return dst
}
