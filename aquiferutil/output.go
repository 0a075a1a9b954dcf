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
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/Knetic/govaluate"
	"github.com/spatialmodel/aquifer"
	"github.com/xuri/excelize/v2"
)

// outputFunctions are the functions available in OutputVariables
// expressions.
var outputFunctions = map[string]govaluate.ExpressionFunction{
	"exp":   unaryFunc("exp", math.Exp),
	"log":   unaryFunc("log", math.Log),
	"log10": unaryFunc("log10", math.Log10),
	"sqrt":  unaryFunc("sqrt", math.Sqrt),
}

func unaryFunc(name string, f func(float64) float64) govaluate.ExpressionFunction {
	return func(arg ...interface{}) (interface{}, error) {
		if len(arg) != 1 {
			return nil, fmt.Errorf("aquifer: got %d arguments for function '%s', but needs 1", len(arg), name)
		}
		v, ok := arg[0].(float64)
		if !ok {
			return nil, fmt.Errorf("aquifer: argument of function '%s' is %T, not a number", name, arg[0])
		}
		return f(v), nil
	}
}

// deriver calculates OutputVariables from estimated parameters.
type deriver struct {
	names       []string
	expressions map[string]*govaluate.EvaluableExpression
}

// newDeriver parses the expressions in vars, a map of output names
// to expressions.
func newDeriver(vars map[string]string) (*deriver, error) {
	d := &deriver{expressions: make(map[string]*govaluate.EvaluableExpression, len(vars))}
	for name, expr := range vars {
		e, err := govaluate.NewEvaluableExpressionWithFunctions(expr, outputFunctions)
		if err != nil {
			return nil, fmt.Errorf("aquifer: parsing OutputVariables %s: %v", name, err)
		}
		d.names = append(d.names, name)
		d.expressions[name] = e
	}
	sort.Strings(d.names)
	return d, nil
}

// evaluate returns the output variables for result r at distance
// r from the pumping well in an aquifer of saturated thickness b.
// Variables that cannot be calculated, for example because they
// refer to a parameter the method does not estimate, are NaN.
func (d *deriver) evaluate(res aquifer.Result, r, b float64) map[string]float64 {
	if len(d.names) == 0 {
		return nil
	}
	o := make(map[string]float64, len(d.names))
	params := res.Named()
	if params == nil {
		for _, name := range d.names {
			o[name] = math.NaN()
		}
		return o
	}
	vars := map[string]interface{}{"r": r, "b": b}
	for k, v := range params {
		vars[k] = v
	}
	for _, name := range d.names {
		v, err := d.expressions[name].Evaluate(vars)
		if f, ok := v.(float64); ok && err == nil {
			o[name] = f
		} else {
			o[name] = math.NaN()
		}
	}
	return o
}

// report is a table of estimation results.
type report struct {
	columns []string
	rows    [][]interface{}
}

// newReport arranges results into a table with one row per result.
// Parameter columns appear in the order the methods name them.
func newReport(well aquifer.PumpingWell, obs []aquifer.ObservationPoint, results aquifer.Results,
	d *deriver, thickness float64) *report {
	var params []string
	seen := make(map[string]bool)
	for _, r := range results {
		for _, p := range r.ParamNames {
			if !seen[p] {
				seen[p] = true
				params = append(params, p)
			}
		}
	}
	rep := &report{columns: []string{"Label", "Well", "Distance", "Method", "Status", "Iterations"}}
	rep.columns = append(rep.columns, params...)
	rep.columns = append(rep.columns, "RMSE", "R2")
	rep.columns = append(rep.columns, d.names...)
	rep.columns = append(rep.columns, "Error")

	for _, r := range results {
		o := obs[r.Observation]
		dist := aquifer.Distance(well, o)
		row := []interface{}{r.Label, o.Name, dist, r.Method, r.Status.String(), r.Iterations}
		named := r.Named()
		for _, p := range params {
			if v, ok := named[p]; ok {
				row = append(row, v)
			} else {
				row = append(row, nil)
			}
		}
		row = append(row, r.RMSE, r.R2)
		derived := d.evaluate(r, dist, thickness)
		for _, name := range d.names {
			row = append(row, derived[name])
		}
		if r.Err != nil {
			row = append(row, r.Err.Error())
		} else {
			row = append(row, "")
		}
		rep.rows = append(rep.rows, row)
	}
	return rep
}

// format returns the text representation of a table cell.
func format(v interface{}, precision int) string {
	switch x := v.(type) {
	case nil:
		return ""
	case float64:
		if math.IsNaN(x) {
			return ""
		}
		return strconv.FormatFloat(x, 'g', precision, 64)
	default:
		return fmt.Sprint(x)
	}
}

// Print writes the report as an aligned text table.
func (rep *report) Print(w io.Writer) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, strings.Join(rep.columns, "\t"))
	for _, row := range rep.rows {
		cells := make([]string, len(row))
		for i, v := range row {
			cells[i] = format(v, 6)
		}
		fmt.Fprintln(tw, strings.Join(cells, "\t"))
	}
	return tw.Flush()
}

// Write saves the report to path as XLSX or CSV, depending on its
// extension. info is written to the XLSX Info sheet.
func (rep *report) Write(path string, info [][2]string) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx":
		return rep.writeXLSX(path, info)
	case ".csv":
		return rep.writeCSV(path)
	default:
		return fmt.Errorf("aquifer: unsupported report type %s", path)
	}
}

func (rep *report) writeCSV(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("aquifer: creating report: %w", err)
	}
	w := csv.NewWriter(f)
	w.Write(rep.columns)
	for _, row := range rep.rows {
		cells := make([]string, len(row))
		for i, v := range row {
			cells[i] = format(v, -1)
		}
		w.Write(cells)
	}
	w.Flush()
	if err := w.Error(); err != nil {
		f.Close()
		return fmt.Errorf("aquifer: writing report: %w", err)
	}
	return f.Close()
}

// writeXLSX writes all results to the Summary sheet, the results of
// each method to a sheet named after it, and info to the Info sheet.
func (rep *report) writeXLSX(path string, info [][2]string) error {
	f := excelize.NewFile()
	defer f.Close()

	const summary = "Summary"
	f.SetSheetName("Sheet1", summary)

	writeSheet := func(sheet string, keep func(row []interface{}) bool) error {
		for col, name := range rep.columns {
			cell, _ := excelize.CoordinatesToCellName(col+1, 1)
			if err := f.SetCellValue(sheet, cell, name); err != nil {
				return err
			}
		}
		row := 2
		for _, r := range rep.rows {
			if !keep(r) {
				continue
			}
			for col, v := range r {
				if x, ok := v.(float64); v == nil || (ok && (math.IsNaN(x) || math.IsInf(x, 0))) {
					continue
				}
				cell, _ := excelize.CoordinatesToCellName(col+1, row)
				if err := f.SetCellValue(sheet, cell, v); err != nil {
					return err
				}
			}
			row++
		}
		return nil
	}

	if err := writeSheet(summary, func([]interface{}) bool { return true }); err != nil {
		return fmt.Errorf("aquifer: writing report: %w", err)
	}
	methodCol := indexOf(rep.columns, "Method")
	var methods []string
	for _, r := range rep.rows {
		m := r[methodCol].(string)
		if indexOf(methods, m) < 0 {
			methods = append(methods, m)
		}
	}
	for _, m := range methods {
		if _, err := f.NewSheet(m); err != nil {
			return fmt.Errorf("aquifer: writing report: %w", err)
		}
		if err := writeSheet(m, func(r []interface{}) bool { return r[methodCol] == m }); err != nil {
			return fmt.Errorf("aquifer: writing report: %w", err)
		}
	}

	const infoSheet = "Info"
	if _, err := f.NewSheet(infoSheet); err != nil {
		return fmt.Errorf("aquifer: writing report: %w", err)
	}
	for i, kv := range info {
		f.SetCellValue(infoSheet, fmt.Sprintf("A%d", i+1), kv[0])
		f.SetCellValue(infoSheet, fmt.Sprintf("B%d", i+1), kv[1])
	}
	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("aquifer: saving report: %w", err)
	}
	return nil
}

func indexOf(s []string, v string) int {
	for i, x := range s {
		if x == v {
			return i
		}
	}
	return -1
}
