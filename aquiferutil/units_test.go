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

package aquiferutil

import (
	"math"
	"testing"
)

func TestRate(t *testing.T) {
	var tests = []struct {
		units Units
		q     float64
		want  float64
	}{
		{units: Units{Length: "m", Time: "s", PumpingRate: "m3/s"}, q: 2, want: 2},
		{units: Units{Length: "ft", Time: "day", PumpingRate: "gal/min"}, q: 500, want: 96249.95},
		{units: Units{Length: "ft", Time: "day", PumpingRate: "ft3/day"}, q: 1, want: 1},
		{units: Units{Length: "m", Time: "day", PumpingRate: "L/s"}, q: 1, want: 86.4},
		{units: Units{Length: "m", Time: "hour", PumpingRate: "m3/min"}, q: 1, want: 60},
	}
	for _, test := range tests {
		t.Run(test.units.PumpingRate+" to "+test.units.Transmissivity(), func(t *testing.T) {
			have, err := test.units.Rate(test.q)
			if err != nil {
				t.Fatal(err)
			}
			if math.Abs(have-test.want)/test.want > 1e-5 {
				t.Errorf("have %g, want %g", have, test.want)
			}
		})
	}
}

func TestUnitsInvalid(t *testing.T) {
	for _, u := range []Units{
		{Length: "yd", Time: "day", PumpingRate: "gal/min"},
		{Length: "ft", Time: "week", PumpingRate: "gal/min"},
		{Length: "ft", Time: "day", PumpingRate: "gal"},
		{Length: "ft", Time: "day", PumpingRate: "gal/fortnight"},
		{Length: "ft", Time: "day", PumpingRate: "acre-ft/day"},
	} {
		if _, err := u.Rate(1); err == nil {
			t.Errorf("%+v: expected an error", u)
		}
	}
}

func TestTransmissivityUnits(t *testing.T) {
	u := Units{Length: "ft", Time: "day"}
	if have := u.Transmissivity(); have != "ft²/day" {
		t.Errorf("have %s", have)
	}
}
