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
	"errors"
	"math"
	"testing"
)

// gpm is the number of cubic feet per day in one US gallon per minute.
const gpm = 192.5

// logTimes returns n times evenly spaced in log10 between 10^a and 10^b.
func logTimes(a, b float64, n int) []float64 {
	t := make([]float64, n)
	for i := range t {
		t[i] = math.Pow(10, a+(b-a)*float64(i)/float64(n-1))
	}
	return t
}

func different(a, b, tolerance float64) bool {
	if 2*math.Abs(a-b)/math.Abs(a+b) > tolerance || math.IsNaN(a) || math.IsNaN(b) {
		return true
	}
	return false
}

func absDifferent(a, b, tolerance float64) bool {
	return math.Abs(a-b) > tolerance
}

func TestDistance(t *testing.T) {
	w := PumpingWell{X: 10, Y: 20, Q: 1}
	o := ObservationPoint{X: 13, Y: 24}
	if d := Distance(w, o); d != 5 {
		t.Errorf("distance = %g, want 5", d)
	}
}

func TestValidate(t *testing.T) {
	var tests = []struct {
		name    string
		o       ObservationPoint
		invalid bool
	}{
		{name: "ok", o: ObservationPoint{T: []float64{1, 2, 3}, S: []float64{0, 1, 2}}},
		{name: "empty", o: ObservationPoint{}, invalid: true},
		{name: "length", o: ObservationPoint{T: []float64{1, 2}, S: []float64{1}}, invalid: true},
		{name: "zero time", o: ObservationPoint{T: []float64{0, 1}, S: []float64{1, 2}}, invalid: true},
		{name: "negative time", o: ObservationPoint{T: []float64{-1, 1}, S: []float64{1, 2}}, invalid: true},
		{name: "NaN time", o: ObservationPoint{T: []float64{math.NaN()}, S: []float64{1}}, invalid: true},
		{name: "not increasing", o: ObservationPoint{T: []float64{1, 1}, S: []float64{1, 2}}, invalid: true},
		{name: "infinite drawdown", o: ObservationPoint{T: []float64{1}, S: []float64{math.Inf(1)}}, invalid: true},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			err := test.o.Validate()
			if test.invalid {
				if !errors.Is(err, ErrInvalidInput) {
					t.Errorf("err = %v, want ErrInvalidInput", err)
				}
			} else if err != nil {
				t.Error(err)
			}
		})
	}
}

func TestFitError(t *testing.T) {
	cause := errors.New("boom")
	err := error(&FitError{Kind: ErrSingular, Iteration: 3, Err: cause})
	if !errors.Is(err, ErrSingular) {
		t.Error("kind not matched")
	}
	if !errors.Is(err, cause) {
		t.Error("cause not matched")
	}
	if errors.Is(err, ErrNonFinite) {
		t.Error("matched the wrong kind")
	}
	want := "aquifer: jacobian could not be factorized (iteration 3): boom"
	if err.Error() != want {
		t.Errorf("%q != %q", err.Error(), want)
	}
	var fe *FitError
	if !errors.As(err, &fe) || fe.Iteration != 3 {
		t.Errorf("errors.As: %#v", fe)
	}
}

func TestFitErrorMessage(t *testing.T) {
	err := &FitError{Kind: ErrInvalidInput, Err: invalidf("no data")}
	if want := "aquifer: invalid input: no data (iteration 0)"; err.Error() != want {
		t.Errorf("%q != %q", err.Error(), want)
	}
	err = &FitError{Kind: ErrNonFinite, Iteration: 2}
	if want := "aquifer: non-finite value (iteration 2)"; err.Error() != want {
		t.Errorf("%q != %q", err.Error(), want)
	}
}
