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
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/spatialmodel/aquifer"
	"github.com/xuri/excelize/v2"
)

// PumpingTest holds the data of a constant-rate pumping test.
type PumpingTest struct {
	// Name identifies the test in reports.
	Name string

	// Well is the pumping well. Its rate is in the units of
	// Units.PumpingRate until it is converted.
	Well aquifer.PumpingWell

	Observations []aquifer.ObservationPoint
}

// testFile is the TOML representation of a PumpingTest.
type testFile struct {
	Name        string
	PumpingWell struct {
		X, Y, Q float64
	}
	Observation []struct {
		Name           string
		X, Y           float64
		Time, Drawdown []float64

		// DataFile holds time and drawdown in its first two columns
		// in CSV or XLSX format, instead of Time and Drawdown.
		DataFile string

		// Sheet is the XLSX sheet to read; the first sheet if empty.
		Sheet string
	}
}

// ReadTestFile reads a pumping test from the TOML file at path. Data
// file paths are relative to the directory of the test file and can
// include environment variables.
func ReadTestFile(path string) (*PumpingTest, error) {
	if path == "" {
		return nil, fmt.Errorf("aquifer: you need to specify a TestFile configuration variable")
	}
	var tf testFile
	md, err := toml.DecodeFile(path, &tf)
	if err != nil {
		return nil, fmt.Errorf("aquifer: reading test file: %w", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, fmt.Errorf("aquifer: test file %s has unknown keys: %s", path, strings.Join(keys, ", "))
	}
	if len(tf.Observation) == 0 {
		return nil, fmt.Errorf("aquifer: test file %s has no observation wells", path)
	}
	t := &PumpingTest{
		Name: tf.Name,
		Well: aquifer.PumpingWell{X: tf.PumpingWell.X, Y: tf.PumpingWell.Y, Q: tf.PumpingWell.Q},
	}
	dir := filepath.Dir(path)
	for i, o := range tf.Observation {
		p := aquifer.ObservationPoint{Name: o.Name, X: o.X, Y: o.Y, T: o.Time, S: o.Drawdown}
		if p.Name == "" {
			p.Name = fmt.Sprintf("Observation %d", i+1)
		}
		if o.DataFile != "" {
			if len(o.Time) != 0 || len(o.Drawdown) != 0 {
				return nil, fmt.Errorf("aquifer: observation %q has both a DataFile and Time or Drawdown values", p.Name)
			}
			f := os.ExpandEnv(o.DataFile)
			if !filepath.IsAbs(f) {
				f = filepath.Join(dir, f)
			}
			p.T, p.S, err = readDataFile(f, o.Sheet)
			if err != nil {
				return nil, fmt.Errorf("aquifer: observation %q: %w", p.Name, err)
			}
		}
		t.Observations = append(t.Observations, p)
	}
	return t, nil
}

// readDataFile reads time and drawdown columns from a CSV or XLSX file.
func readDataFile(path, sheet string) (time, drawdown []float64, err error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".csv":
		f, err := os.Open(path)
		if err != nil {
			return nil, nil, err
		}
		defer f.Close()
		return readCSV(f)
	case ".xlsx":
		return readXLSX(path, sheet)
	default:
		return nil, nil, fmt.Errorf("unsupported data file type `%s`; it should be .csv or .xlsx", ext)
	}
}

// readCSV reads time and drawdown from the first two columns of
// comma-separated data.
func readCSV(r io.Reader) (time, drawdown []float64, err error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	cr.Comment = '#'
	rows, err := cr.ReadAll()
	if err != nil {
		return nil, nil, fmt.Errorf("reading CSV: %w", err)
	}
	return parseColumns(rows)
}

// readXLSX reads time and drawdown from the first two columns of the
// named sheet, or the first sheet if sheet is empty.
func readXLSX(path, sheet string) (time, drawdown []float64, err error) {
	rows, err := readSheet(path, sheet)
	if err != nil {
		return nil, nil, err
	}
	return parseColumns(rows)
}

// readSheet returns the text of every populated row of the named sheet
// of an XLSX file, or of its first sheet if sheet is empty. Rows are
// found by scanning the sheet, so a stale dimension record does not
// truncate them.
func readSheet(path, sheet string) ([][]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("opening xlsx file: %v", err)
	}
	defer f.Close()
	sheets := f.GetSheetList()
	if sheet == "" {
		if len(sheets) == 0 {
			return nil, fmt.Errorf("xlsx file %s has no sheets", path)
		}
		sheet = sheets[0]
	} else if indexOf(sheets, sheet) < 0 {
		return nil, fmt.Errorf("xlsx file %s has no sheet %s", path, sheet)
	}
	rows, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("reading sheet %s of %s: %v", sheet, path, err)
	}
	return rows, nil
}

// parseColumns converts rows of text into time and drawdown values,
// skipping blank rows and an optional header row.
func parseColumns(rows [][]string) (time, drawdown []float64, err error) {
	for i, row := range rows {
		if len(row) == 0 || (len(row) == 1 && strings.TrimSpace(row[0]) == "") {
			continue
		}
		if len(row) < 2 {
			return nil, nil, fmt.Errorf("row %d has %d columns but should have 2", i+1, len(row))
		}
		t, errT := strconv.ParseFloat(strings.TrimSpace(row[0]), 64)
		s, errS := strconv.ParseFloat(strings.TrimSpace(row[1]), 64)
		if errT != nil || errS != nil {
			if len(time) == 0 && i == firstRow(rows) {
				continue // header
			}
			return nil, nil, fmt.Errorf("row %d: invalid time or drawdown (%q, %q)", i+1, row[0], row[1])
		}
		time = append(time, t)
		drawdown = append(drawdown, s)
	}
	if len(time) == 0 {
		return nil, nil, fmt.Errorf("no data")
	}
	return time, drawdown, nil
}

// firstRow returns the index of the first non-blank row.
func firstRow(rows [][]string) int {
	for i, row := range rows {
		if len(row) > 1 || (len(row) == 1 && strings.TrimSpace(row[0]) != "") {
			return i
		}
	}
	return -1
}
