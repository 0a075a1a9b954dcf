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
	"fmt"
	"math"

	"github.com/spatialmodel/aquifer/wellfunc"
	"gonum.org/v1/gonum/floats"
)

// delayedYieldScale sets the time scale of the delayed-yield term
// in NeumanDrawdown relative to the effective storativity.
const delayedYieldScale = 50.

// A Model is a forward drawdown solution with a fixed set of
// unknown parameters.
type Model interface {
	// Name returns the label for this model.
	Name() string

	// ParamNames returns the parameter names in the order Drawdown
	// expects them.
	ParamNames() []string

	// Drawdown returns the drawdown at distance r and times t caused by
	// pumping rate q, given parameters p.
	Drawdown(r float64, t []float64, q float64, p []float64) []float64
}

// TheisDrawdown returns the Theis (1935) confined-aquifer drawdown
//
//	s = Q/(4πT)·W(u),  u = r²S/(4Tt)
//
// at distance r and times t, for pumping rate Q, transmissivity T and
// storativity S.
func TheisDrawdown(r float64, t []float64, Q, T, S float64) []float64 {
	s := make([]float64, len(t))
	for i, ti := range t {
		s[i] = r * r * S / (4 * T * ti)
	}
	wellfunc.Ws(s, s)
	floats.Scale(Q/(4*math.Pi*T), s)
	return s
}

// NeumanDrawdown returns drawdown in an unconfined aquifer using a
// simplified delayed-yield approximation: the Theis solution evaluated
// with effective storativity Seff = Sy·(1+A), plus the delayed-yield term
// Sy·(1 - exp(-t/(50·Seff))). A is the ratio of vertical to horizontal
// hydraulic conductivity. This is not the Neuman (1974) solution.
func NeumanDrawdown(r float64, t []float64, Q, T, Sy, A float64) []float64 {
	sEff := Sy * (1 + A)
	s := TheisDrawdown(r, t, Q, T, sEff)
	for i, ti := range t {
		s[i] += Sy * (1 - math.Exp(-ti/(sEff*delayedYieldScale)))
	}
	return s
}

// Theis is the confined-aquifer model with parameters (T, S).
type Theis struct{}

// Name returns "Theis".
func (Theis) Name() string { return "Theis" }

// ParamNames returns T and S.
func (Theis) ParamNames() []string { return []string{"T", "S"} }

// Drawdown implements Model. It panics if len(p) != 2.
func (Theis) Drawdown(r float64, t []float64, q float64, p []float64) []float64 {
	mustParams("Theis", p, 2)
	return TheisDrawdown(r, t, q, p[0], p[1])
}

// Neuman is the unconfined delayed-yield model with parameters (T, Sy, A).
type Neuman struct{}

// Name returns "Neuman".
func (Neuman) Name() string { return "Neuman" }

// ParamNames returns T, Sy and A.
func (Neuman) ParamNames() []string { return []string{"T", "Sy", "A"} }

// Drawdown implements Model. It panics if len(p) != 3.
func (Neuman) Drawdown(r float64, t []float64, q float64, p []float64) []float64 {
	mustParams("Neuman", p, 3)
	return NeumanDrawdown(r, t, q, p[0], p[1], p[2])
}

func mustParams(model string, p []float64, n int) {
	if len(p) != n {
		panic(fmt.Errorf("aquifer: %s model takes %d parameters but got %d", model, n, len(p)))
	}
}
