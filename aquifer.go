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

// Package aquifer estimates aquifer hydraulic parameters (transmissivity,
// storativity or specific yield, and anisotropy) by fitting analytical
// drawdown models to observation-well data from a constant-rate pumping
// test.
package aquifer

import (
	"math"
)

// Version gives the version number.
const Version = "0.1.0"

// PumpingWell is the well discharging at a constant rate during the test.
type PumpingWell struct {
	X, Y float64 // planar coordinates [L]

	// Q is the pumping rate [L³/T], in the same length and time units
	// as the observation data.
	Q float64
}

// ObservationPoint holds the drawdown record of a single observation well.
type ObservationPoint struct {
	// Name is an optional identifier used in reports.
	Name string

	X, Y float64 // planar coordinates [L]

	T []float64 // elapsed time since pumping started [T]; > 0 and increasing
	S []float64 // drawdown at each time [L]
}

// Distance returns the radial distance between the pumping well and
// the observation point.
func Distance(w PumpingWell, o ObservationPoint) float64 {
	return math.Hypot(w.X-o.X, w.Y-o.Y)
}

// Validate checks that the record can be fit: the time and drawdown
// series must be non-empty and of equal length, all values must be
// finite, and times must be positive and strictly increasing.
func (o ObservationPoint) Validate() error {
	if len(o.T) == 0 {
		return invalidf("observation %q has no data", o.Name)
	}
	if len(o.T) != len(o.S) {
		return invalidf("observation %q has %d times but %d drawdowns", o.Name, len(o.T), len(o.S))
	}
	for i, t := range o.T {
		if !(t > 0) || math.IsInf(t, 0) {
			return invalidf("observation %q: time[%d]=%g must be positive and finite", o.Name, i, t)
		}
		if i > 0 && t <= o.T[i-1] {
			return invalidf("observation %q: times must increase; time[%d]=%g <= time[%d]=%g",
				o.Name, i, t, i-1, o.T[i-1])
		}
		if s := o.S[i]; math.IsNaN(s) || math.IsInf(s, 0) {
			return invalidf("observation %q: drawdown[%d] is not finite", o.Name, i)
		}
	}
	return nil
}

// checkDistance makes sure r can be used in the well function.
func checkDistance(r float64) error {
	if !(r > 0) || math.IsInf(r, 0) {
		return invalidf("distance between wells is %g but should be > 0", r)
	}
	return nil
}
