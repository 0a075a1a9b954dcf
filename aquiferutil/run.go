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
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spatialmodel/aquifer"
	"github.com/spatialmodel/aquifer/internal/hash"
	"github.com/spf13/cobra"
	"gonum.org/v1/gonum/floats"
)

// newLogger returns a logger writing to w and, if logFile is not empty,
// to logFile. The returned function closes the log file.
func newLogger(w io.Writer, logFile, level string) (*logrus.Logger, func() error, error) {
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return nil, nil, fmt.Errorf("aquifer: LogLevel: %v", err)
	}
	l := logrus.New()
	l.SetLevel(lvl)
	l.SetFormatter(&logrus.TextFormatter{
		DisableColors:   true,
		FullTimestamp:   true,
		TimestampFormat: time.RFC3339,
		DisableSorting:  true,
	})
	if logFile == "" {
		l.SetOutput(w)
		return l, func() error { return nil }, nil
	}
	f, err := os.Create(logFile)
	if err != nil {
		return nil, nil, fmt.Errorf("aquifer: problem creating log file: %v", err)
	}
	l.SetOutput(io.MultiWriter(w, f))
	return l, f.Close, nil
}

// Fit estimates aquifer properties for the pumping test in TestFile and
// prints the results.
//
// CobraCommand is the cobra.Command instance where Fit is called from.
// Results and log messages are written to its output.
//
// OutputFile is the path to the desired report location, ending in .xlsx
// or .csv. If it is empty, no report is written.
//
// LogFile is the path to the desired logfile location. If it is empty,
// log messages are only written to the command output. LogLevel is the
// minimum level of messages to log, for example "info" or "debug".
//
// DataUnits gives the units of the test data; the pumping rate is converted
// to match the observation data before fitting.
//
// Methods, Workers, and Timeout configure the aquifer.Estimator.
//
// SaturatedThickness and OutputVariables specify additional values to
// calculate from each estimate.
//
// Fits that fail are reported in the results and do not cause an error.
func Fit(CobraCommand *cobra.Command, TestFile, OutputFile, LogFile, LogLevel string, DataUnits Units,
	Methods []aquifer.Method, Workers int, Timeout time.Duration,
	SaturatedThickness float64, OutputVariables map[string]string) error {

	startTime := time.Now()
	out := CobraCommand.OutOrStdout()

	log, closeLog, err := newLogger(out, LogFile, LogLevel)
	if err != nil {
		return err
	}
	defer closeLog()

	d, err := newDeriver(OutputVariables)
	if err != nil {
		return err
	}
	test, err := ReadTestFile(TestFile)
	if err != nil {
		return err
	}
	digest := hash.Digest(test)
	well := test.Well
	if well.Q, err = DataUnits.Rate(test.Well.Q); err != nil {
		return err
	}
	log.WithFields(logrus.Fields{
		"test":         test.Name,
		"observations": len(test.Observations),
		"Q":            well.Q,
		"digest":       digest,
	}).Infof("read pumping test; transmissivity is in %s", DataUnits.Transmissivity())

	ctx := CobraCommand.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	e := aquifer.Estimator{Methods: Methods, Workers: Workers, Timeout: Timeout, Log: log}
	results := e.Estimate(ctx, well, test.Observations)

	rep := newReport(well, test.Observations, results, d, SaturatedThickness)
	if err := rep.Print(out); err != nil {
		return err
	}
	if OutputFile != "" {
		info := [][2]string{
			{"Test", test.Name},
			{"TestFile", TestFile},
			{"Digest", digest},
			{"Version", aquifer.Version},
			{"Length units", DataUnits.Length},
			{"Time units", DataUnits.Time},
			{"Pumping rate units", DataUnits.PumpingRate},
			{"Created", startTime.Format(time.RFC3339)},
		}
		if err := rep.Write(OutputFile, info); err != nil {
			return err
		}
	}
	log.WithFields(logrus.Fields{
		"estimates": len(results),
		"failed":    len(results.Failed()),
		"duration":  time.Since(startTime).String(),
	}).Info("estimation complete")
	return nil
}

// Drawdown writes to w the drawdown predicted by model with parameters
// params at distance r from a well pumping at rate q (in units.PumpingRate),
// at n times evenly spaced in log(time) between start and end.
func Drawdown(w io.Writer, model aquifer.Model, params []float64, r, q float64, units Units,
	start, end float64, n int) error {
	names := model.ParamNames()
	if len(params) != len(names) {
		return fmt.Errorf("aquifer: the %s model needs %d parameters (%s) but %d were given",
			model.Name(), len(names), strings.Join(names, ", "), len(params))
	}
	if !(r > 0) {
		return fmt.Errorf("aquifer: Drawdown.Distance=%g but should be > 0", r)
	}
	if !(start > 0) || !(end > start) {
		return fmt.Errorf("aquifer: drawdown times should satisfy 0 < StartTime < EndTime but are %g and %g", start, end)
	}
	if n < 2 {
		return fmt.Errorf("aquifer: Drawdown.NumTimes=%d but should be >= 2", n)
	}
	qd, err := units.Rate(q)
	if err != nil {
		return err
	}
	t := floats.LogSpan(make([]float64, n), start, end)
	s := model.Drawdown(r, t, qd, params)

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "Time (%s)\tDrawdown (%s)\n", units.Time, units.Length)
	for i := range t {
		fmt.Fprintf(tw, "%.6g\t%.6g\n", t[i], s[i])
	}
	return tw.Flush()
}
