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
	"fmt"
	"io"
	"runtime"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// Estimator runs a set of estimation methods against every observation
// point of a pumping test. The zero value runs the Theis and Neuman
// methods on GOMAXPROCS workers with no time limit.
type Estimator struct {
	// Methods are run, in order, for each observation point.
	// If empty, DefaultMethods is used.
	Methods []Method

	// Workers is the maximum number of fits run concurrently.
	// If < 1, runtime.GOMAXPROCS(0) is used.
	Workers int

	// Timeout bounds the wall-clock time of the whole batch. Fits still
	// running when it expires fail with ErrCanceled. Zero means no limit.
	Timeout time.Duration

	// Log receives per-fit messages. If nil, nothing is logged.
	Log logrus.FieldLogger
}

// DefaultMethods returns the Theis and Neuman methods with their preset
// settings.
func DefaultMethods() []Method {
	return []Method{TheisMethod(), NeumanMethod()}
}

// Result is the outcome of one (observation point, method) pair.
type Result struct {
	// Label identifies the pair, for example "Obs Well 1 — Theis".
	Label string

	// Observation is the index of the observation point in the input.
	Observation int

	// Method is the name of the estimation method.
	Method string

	// ParamNames names the entries of Params.
	ParamNames []string

	FitResult
}

// Named returns the estimated parameters keyed by name, or nil if the
// estimate failed.
func (r Result) Named() map[string]float64 {
	if !r.OK() || len(r.Params) != len(r.ParamNames) {
		return nil
	}
	o := make(map[string]float64, len(r.Params))
	for i, name := range r.ParamNames {
		o[name] = r.Params[i]
	}
	return o
}

// Results are ordered by observation point and then by method.
type Results []Result

// Map returns the results keyed by label.
func (rs Results) Map() map[string]Result {
	o := make(map[string]Result, len(rs))
	for _, r := range rs {
		o[r.Label] = r
	}
	return o
}

// Get returns the result with the given label.
func (rs Results) Get(label string) (Result, bool) {
	for _, r := range rs {
		if r.Label == label {
			return r, true
		}
	}
	return Result{}, false
}

// Failed returns the results whose estimates failed.
func (rs Results) Failed() Results {
	var o Results
	for _, r := range rs {
		if !r.OK() {
			o = append(o, r)
		}
	}
	return o
}

// Label returns the label of observation point i (zero-based) and the
// given method.
func Label(i int, method string) string {
	return fmt.Sprintf("Obs Well %d — %s", i+1, method)
}

// Estimate runs every method for every observation point. The fits are
// independent of each other: a failure is recorded in its own Result and
// does not affect the others, and the results do not depend on Workers.
func (e *Estimator) Estimate(ctx context.Context, well PumpingWell, obs []ObservationPoint) Results {
	methods := e.Methods
	if len(methods) == 0 {
		methods = DefaultMethods()
	}
	workers := e.Workers
	if workers < 1 {
		workers = runtime.GOMAXPROCS(0)
	}
	log := e.Log
	if log == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		log = l
	}
	if e.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.Timeout)
		defer cancel()
	}

	results := make(Results, len(obs)*len(methods))
	var g errgroup.Group
	g.SetLimit(workers)
	for i, o := range obs {
		i, o := i, o // per-iteration copies (go 1.21 loop semantics)
		r := Distance(well, o)
		for j, m := range methods {
			m := m
			k := i*len(methods) + j
			g.Go(func() error {
				res := m.Estimate(ctx, r, well.Q, o)
				results[k] = Result{
					Label:       Label(i, m.Name()),
					Observation: i,
					Method:      m.Name(),
					ParamNames:  m.ParamNames(),
					FitResult:   res,
				}
				entry := log.WithFields(logrus.Fields{
					"well":       results[k].Label,
					"method":     m.Name(),
					"status":     res.Status.String(),
					"iterations": res.Iterations,
				})
				if res.OK() {
					entry.Debug("estimate complete")
				} else {
					entry.WithError(res.Err).Warn("estimate failed")
				}
				return nil
			})
		}
	}
	g.Wait() // Fits record their own failures and never return errors.
	return results
}

// Estimate runs the Theis and Neuman methods for every observation point
// using the default Estimator settings.
func Estimate(ctx context.Context, well PumpingWell, obs []ObservationPoint) Results {
	var e Estimator
	return e.Estimate(ctx, well, obs)
}
