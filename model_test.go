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
	"testing"

	"github.com/spatialmodel/aquifer/wellfunc"
)

func TestTheisDrawdown(t *testing.T) {
	const (
		r = 100.
		q = 500 * gpm
		T = 4000.
		S = 1e-3
	)
	times := []float64{1, 10}
	s := TheisDrawdown(r, times, q, T, S)
	if len(s) != len(times) {
		t.Fatalf("len = %d", len(s))
	}
	for i, ti := range times {
		want := q / (4 * math.Pi * T) * wellfunc.W(r*r*S/(4*T*ti))
		if absDifferent(s[i], want, 1e-12) {
			t.Errorf("t=%g: %g != %g", ti, s[i], want)
		}
	}
	if absDifferent(s[0], 13.0231, 1e-3) {
		t.Errorf("s(1 day) = %g, want 13.0231", s[0])
	}
}

func TestTheisMonotonicInTime(t *testing.T) {
	for _, r := range []float64{10, 100, 200} {
		s := TheisDrawdown(r, logTimes(0, 4, 200), 500*gpm, 4000, 1e-3)
		for i := 1; i < len(s); i++ {
			if s[i] < s[i-1] {
				t.Fatalf("r=%g: drawdown decreased from %g to %g at step %d", r, s[i-1], s[i], i)
			}
		}
	}
}

func TestNeumanDrawdown(t *testing.T) {
	const (
		r  = 100.
		q  = 500 * gpm
		T  = 4000.
		Sy = 0.2
		A  = 0.3
	)
	times := logTimes(0, 3, 10)
	s := NeumanDrawdown(r, times, q, T, Sy, A)
	theis := TheisDrawdown(r, times, q, T, Sy*(1+A))
	for i, ti := range times {
		delayed := Sy * (1 - math.Exp(-ti/(Sy*(1+A)*50)))
		if absDifferent(s[i], theis[i]+delayed, 1e-12) {
			t.Errorf("t=%g: %g != %g", ti, s[i], theis[i]+delayed)
		}
	}
}

func TestModels(t *testing.T) {
	times := []float64{1, 2}
	var tests = []struct {
		m     Model
		names []string
		p     []float64
		want  []float64
	}{
		{
			m:     Theis{},
			names: []string{"T", "S"},
			p:     []float64{4000, 1e-3},
			want:  TheisDrawdown(50, times, 10, 4000, 1e-3),
		},
		{
			m:     Neuman{},
			names: []string{"T", "Sy", "A"},
			p:     []float64{4000, 0.2, 0.1},
			want:  NeumanDrawdown(50, times, 10, 4000, 0.2, 0.1),
		},
	}
	for _, test := range tests {
		t.Run(test.m.Name(), func(t *testing.T) {
			names := test.m.ParamNames()
			if len(names) != len(test.names) {
				t.Fatalf("names %v != %v", names, test.names)
			}
			for i := range names {
				if names[i] != test.names[i] {
					t.Errorf("names %v != %v", names, test.names)
				}
			}
			have := test.m.Drawdown(50, times, 10, test.p)
			for i := range have {
				if have[i] != test.want[i] {
					t.Errorf("%d: %g != %g", i, have[i], test.want[i])
				}
			}
			func() {
				defer func() {
					if recover() == nil {
						t.Error("expected a panic for the wrong number of parameters")
					}
				}()
				test.m.Drawdown(50, times, 10, []float64{1})
			}()
		})
	}
}

func TestNonPhysicalParameters(t *testing.T) {
	// Parameters that drift negative during a fit give NaN, not a panic.
	s := TheisDrawdown(100, []float64{1, 2}, 1000, -10, 1e-3)
	if !math.IsNaN(s[0]) {
		t.Errorf("s = %v, want NaN", s)
	}
	s = NeumanDrawdown(100, []float64{1, 2}, 1000, 4000, -0.1, 0.1)
	if !math.IsNaN(s[0]) {
		t.Errorf("s = %v, want NaN", s)
	}
}
