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
	"bytes"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/spf13/pflag"
)

// execute runs the root command with args and returns its output.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var buf bytes.Buffer
	Root.SetOut(&buf)
	Root.SetArgs(args)
	err := Root.Execute()
	return buf.String(), err
}

func TestVersion(t *testing.T) {
	out, err := execute(t, "version")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "Aquifer v0.1.0") {
		t.Errorf("output = %q", out)
	}
}

func TestFitCommand(t *testing.T) {
	dir := t.TempDir()
	report := filepath.Join(dir, "report.xlsx")
	Cfg.Set("config", "testdata/config.toml")
	Cfg.Set("TestFile", "testdata/site.toml")
	Cfg.Set("OutputFile", report)
	Cfg.Set("LogFile", "")

	out, err := execute(t, "fit")
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"Obs Well 1 — Theis", "Obs Well 2 — Neuman", "Obs Well 2 — Jacob", "estimation complete"} {
		if !strings.Contains(out, want) {
			t.Errorf("output is missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "solver failed") {
		t.Errorf("unexpected failure:\n%s", out)
	}
	if _, err := os.Stat(filepath.Join(dir, "report.log")); err != nil {
		t.Errorf("log file: %v", err)
	}

	summary, err := readSheet(report, "Summary")
	if err != nil {
		t.Fatal(err)
	}
	if n := len(summary); n != 7 {
		t.Fatalf("Summary has %d rows, want 7", n)
	}
	col := make(map[string]int)
	for i, name := range summary[0] {
		col[name] = i
	}
	cell := func(row []string, name string) string {
		if i, ok := col[name]; ok && i < len(row) {
			return row[i]
		}
		return ""
	}
	for _, r := range summary[1:] {
		if cell(r, "Method") != "Neuman" {
			continue
		}
		T, err := strconv.ParseFloat(cell(r, "T"), 64)
		if err != nil {
			t.Fatal(err)
		}
		if math.Abs(T-4000)/4000 > 0.001 {
			t.Errorf("%s: T = %g", r[0], T)
		}
		K, err := strconv.ParseFloat(cell(r, "K"), 64)
		if err != nil {
			t.Fatal(err)
		}
		if math.Abs(K-T/50) > 1e-9 {
			t.Errorf("%s: K = %g", r[0], K)
		}
	}
}

func TestFitCommandPartialFailure(t *testing.T) {
	Cfg.Set("config", "testdata/config.toml")
	Cfg.Set("TestFile", "testdata/bad.toml")
	Cfg.Set("OutputFile", "")
	Cfg.Set("LogFile", "")

	out, err := execute(t, "fit")
	if err != nil {
		t.Fatal(err)
	}
	var failed int
	for _, line := range strings.Split(out, "\n") {
		if !strings.HasPrefix(line, "Obs Well") || !strings.Contains(line, "solver failed") {
			continue
		}
		failed++
		if !strings.HasPrefix(line, "Obs Well 2") || !strings.Contains(line, "invalid input") {
			t.Errorf("unexpected failure: %s", line)
		}
	}
	if failed != 3 {
		t.Errorf("%d failures, want 3:\n%s", failed, out)
	}
}

func TestFitCommandMissingTestFile(t *testing.T) {
	Cfg.Set("config", "testdata/config.toml")
	Cfg.Set("TestFile", "testdata/missing.toml")
	Cfg.Set("OutputFile", "")
	Cfg.Set("LogFile", "")
	if _, err := execute(t, "fit"); err == nil {
		t.Error("expected an error")
	}
}

func TestDrawdownCommand(t *testing.T) {
	Cfg.Set("config", "")
	Cfg.Set("Units.Length", "ft")
	Cfg.Set("Units.Time", "day")
	Cfg.Set("Units.PumpingRate", "gal/min")
	Cfg.Set("Drawdown.Model", "Theis")
	Cfg.Set("Drawdown.Params", []float64{4000, 1e-3})
	Cfg.Set("Drawdown.Distance", 100.0)
	Cfg.Set("Drawdown.Q", 500.0)
	Cfg.Set("Drawdown.StartTime", 1.0)
	Cfg.Set("Drawdown.EndTime", 1000.0)
	Cfg.Set("Drawdown.NumTimes", 4)

	out, err := execute(t, "drawdown")
	if err != nil {
		t.Fatal(err)
	}
	want := [][]string{
		{"Time", "(day)", "Drawdown", "(ft)"},
		{"1", "13.0231"},
		{"10", "17.4311"},
		{"100", "21.84"},
		{"1000", "26.2491"},
	}
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != len(want) {
		t.Fatalf("output:\n%s", out)
	}
	for i, line := range lines {
		if have := strings.Fields(line); strings.Join(have, " ") != strings.Join(want[i], " ") {
			t.Errorf("line %d: have %q, want %q", i, have, want[i])
		}
	}

	Cfg.Set("Drawdown.Params", []float64{4000})
	if _, err := execute(t, "drawdown"); err == nil {
		t.Error("expected an error for the wrong number of parameters")
	}
}

func TestAddFlag(t *testing.T) {
	set := pflag.NewFlagSet("test", pflag.ContinueOnError)
	addFlag(set, "Name", "n", "", "x")
	addFlag(set, "List", "", "", []string{"a", "b"})
	addFlag(set, "On", "", "", true)
	addFlag(set, "Count", "", "", 3)
	addFlag(set, "Ratio", "", "", 0.5)
	addFlag(set, "Guess", "", "", []float64{3000, 1e-4})
	addFlag(set, "Vars", "", "", map[string]string{"K": "T / b"})

	var tests = []struct {
		name, want string
	}{
		{name: "Name", want: "x"},
		{name: "List", want: "[a,b]"},
		{name: "On", want: "true"},
		{name: "Count", want: "3"},
		{name: "Ratio", want: "0.5"},
		{name: "Guess", want: "[3000,0.0001]"},
		{name: "Vars", want: `{"K":"T / b"}`},
	}
	for _, test := range tests {
		f := set.Lookup(test.name)
		if f == nil {
			t.Errorf("%s: not registered", test.name)
			continue
		}
		if f.DefValue != test.want {
			t.Errorf("%s: default = %s, want %s", test.name, f.DefValue, test.want)
		}
	}
	if f := set.ShorthandLookup("n"); f == nil || f.Name != "Name" {
		t.Error("shorthand n is not registered")
	}
	guess, err := toFloat64SliceE(set.Lookup("Guess").DefValue)
	if err != nil || len(guess) != 2 || guess[1] != 1e-4 {
		t.Errorf("guess = %v: %v", guess, err)
	}

	defer func() {
		if recover() == nil {
			t.Error("expected a panic for an unsupported type")
		}
	}()
	addFlag(set, "Bad", "", "", struct{}{})
}
