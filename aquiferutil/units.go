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
	"fmt"
	"sort"
	"strings"

	"github.com/ctessum/unit"
	"github.com/ctessum/unit/badunit"
	"github.com/lnashier/viper"
)

// lengthUnits, timeUnits, and volumeUnits create SI quantities from
// amounts in the supported units of measure.
var (
	lengthUnits = map[string]func(float64) *unit.Unit{
		"m":  func(v float64) *unit.Unit { return unit.New(v, unit.Meter) },
		"ft": badunit.Foot,
		"mi": badunit.Mile,
	}
	timeUnits = map[string]func(float64) *unit.Unit{
		"s":    func(v float64) *unit.Unit { return unit.New(v, unit.Second) },
		"min":  badunit.Minute,
		"hour": badunit.Hour,
		"day":  func(v float64) *unit.Unit { return badunit.Hour(v * 24) },
	}
	volumeUnits = map[string]func(float64) *unit.Unit{
		"m3":  func(v float64) *unit.Unit { return unit.New(v, unit.Meter3) },
		"ft3": badunit.Foot3,
		"gal": badunit.Gallon,
		"L":   func(v float64) *unit.Unit { return unit.New(v*1.e-3, unit.Meter3) },
	}
)

// Units are the units of measure of a pumping test. Coordinates and
// drawdown are in Length and times are in Time; PumpingRate is
// volume/time.
type Units struct {
	Length, Time, PumpingRate string
}

// unitsFromConfig unmarshals the Units section of a viper configuration.
func unitsFromConfig(cfg *viper.Viper) (Units, error) {
	u := Units{
		Length:      cfg.GetString("Units.Length"),
		Time:        cfg.GetString("Units.Time"),
		PumpingRate: cfg.GetString("Units.PumpingRate"),
	}
	return u, u.check()
}

func (u Units) check() error {
	if _, ok := lengthUnits[u.Length]; !ok {
		return fmt.Errorf("aquifer: Units.Length should be one of %s, but is `%s`",
			keys(lengthUnits), u.Length)
	}
	if _, ok := timeUnits[u.Time]; !ok {
		return fmt.Errorf("aquifer: Units.Time should be one of %s, but is `%s`",
			keys(timeUnits), u.Time)
	}
	_, _, err := u.rateUnits()
	return err
}

// rateUnits splits PumpingRate into its volume and time units.
func (u Units) rateUnits() (vol, per func(float64) *unit.Unit, err error) {
	parts := strings.Split(u.PumpingRate, "/")
	if len(parts) == 2 {
		v, vOK := volumeUnits[strings.TrimSpace(parts[0])]
		t, tOK := timeUnits[strings.TrimSpace(parts[1])]
		if vOK && tOK {
			return v, t, nil
		}
	}
	return nil, nil, fmt.Errorf("aquifer: Units.PumpingRate should be volume/time, where "+
		"volume is one of %s and time is one of %s, but it is `%s`",
		keys(volumeUnits), keys(timeUnits), u.PumpingRate)
}

// Rate converts pumping rate q from PumpingRate units to Length³/Time,
// the units the drawdown models need it in.
func (u Units) Rate(q float64) (float64, error) {
	if err := u.check(); err != nil {
		return 0, err
	}
	vol, per, _ := u.rateUnits()
	qSI := unit.Div(vol(q), per(1))
	if err := qSI.Check(unit.Meter3PerSecond); err != nil {
		return 0, fmt.Errorf("aquifer: pumping rate: %v", err)
	}
	l := lengthUnits[u.Length](1)
	dataUnit := unit.Div(unit.Mul(l, l, l), timeUnits[u.Time](1))
	r := unit.Div(qSI, dataUnit)
	if err := r.Check(unit.Dimless); err != nil {
		return 0, fmt.Errorf("aquifer: pumping rate: %v", err)
	}
	return r.Value(), nil
}

// Transmissivity returns the units of estimated transmissivity.
func (u Units) Transmissivity() string {
	return u.Length + "²/" + u.Time
}

func keys(m map[string]func(float64) *unit.Unit) string {
	k := make([]string, 0, len(m))
	for key := range m {
		k = append(k, key)
	}
	sort.Strings(k)
	return strings.Join(k, ", ")
}
