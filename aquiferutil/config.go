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
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/lnashier/viper"
	"github.com/spatialmodel/aquifer"
	"github.com/spf13/cast"
)

// expandPath expands environment variables in a file path.
func expandPath(f string) string {
	return os.ExpandEnv(f)
}

// checkOutputFile makes sure that the output file, if specified, has a
// supported extension and that its directory exists, and expands any
// environment variables.
func checkOutputFile(f string) (string, error) {
	if f == "" {
		return "", nil
	}
	f = os.ExpandEnv(f)
	switch ext := strings.ToLower(filepath.Ext(f)); ext {
	case ".xlsx", ".csv":
	default:
		return f, fmt.Errorf("aquifer: OutputFile must end in .xlsx or .csv, but it is `%s`", f)
	}
	outdir := filepath.Dir(f)
	if _, err := os.Stat(outdir); err != nil {
		return f, fmt.Errorf("aquifer: the OutputFile directory doesn't exist: %v", err)
	}
	return f, nil
}

// checkLogFile fills in a default value for the log file path if one isn't
// specified. If neither is specified, there is no log file.
func checkLogFile(logFile, outputFile string) string {
	if logFile == "" && outputFile != "" {
		logFile = strings.TrimSuffix(outputFile, filepath.Ext(outputFile)) + ".log"
	}
	return logFile
}

// checkOutputVars removes end lines and expands environment
// variables in the output variables.
func checkOutputVars(vars map[string]string) map[string]string {
	o := make(map[string]string, len(vars))
	for k, v := range vars {
		v = strings.Replace(v, "\r\n", " ", -1)
		v = strings.Replace(v, "\n", " ", -1)
		o[os.ExpandEnv(k)] = os.ExpandEnv(v)
	}
	return o
}

// modelFromName returns the drawdown model with the given name.
func modelFromName(name string) (aquifer.Model, error) {
	for _, m := range []aquifer.Model{aquifer.Theis{}, aquifer.Neuman{}} {
		if strings.EqualFold(name, m.Name()) {
			return m, nil
		}
	}
	return nil, fmt.Errorf("aquifer: invalid model `%s`; it should be Theis or Neuman", name)
}

// fitConfig unmarshals the fitter settings for the named model from
// the Fit.<model> section of a viper configuration.
func fitConfig(cfg *viper.Viper, model string) (aquifer.FitConfig, error) {
	prefix := "Fit." + model + "."
	guess, err := toFloat64SliceE(cfg.Get(prefix + "InitialGuess"))
	if err != nil {
		return aquifer.FitConfig{}, fmt.Errorf("aquifer: reading %sInitialGuess: %v", prefix, err)
	}
	c := aquifer.FitConfig{
		MaxIterations:        cfg.GetInt(prefix + "MaxIterations"),
		PerturbationRatio:    cfg.GetFloat64(prefix + "PerturbationRatio"),
		ConvergenceTolerance: cfg.GetFloat64(prefix + "ConvergenceTolerance"),
		InitialGuess:         guess,
	}
	if err := c.Validate(); err != nil {
		return c, fmt.Errorf("aquifer: parsing %s fit configuration: %w", model, err)
	}
	return c, nil
}

// methodsFromConfig returns the estimation methods named in the Methods
// configuration variable.
func methodsFromConfig(cfg *viper.Viper) ([]aquifer.Method, error) {
	names := cfg.GetStringSlice("Methods")
	if len(names) == 0 {
		return nil, fmt.Errorf("aquifer: there are no estimation methods specified. Please fill in " +
			"the Methods configuration and try again")
	}
	jacob := aquifer.Jacob{MinTime: cfg.GetFloat64("Jacob.MinTime")}
	var methods []aquifer.Method
	for _, name := range names {
		name = strings.TrimSpace(name)
		switch {
		case strings.EqualFold(name, "Theis"):
			c, err := fitConfig(cfg, "Theis")
			if err != nil {
				return nil, err
			}
			m := aquifer.GaussNewton{Model: aquifer.Theis{}, Config: c}
			if cfg.GetBool("Fit.JacobInitialGuess") {
				m.Seed = jacob
			}
			methods = append(methods, m)
		case strings.EqualFold(name, "Neuman"):
			c, err := fitConfig(cfg, "Neuman")
			if err != nil {
				return nil, err
			}
			methods = append(methods, aquifer.GaussNewton{Model: aquifer.Neuman{}, Config: c})
		case strings.EqualFold(name, "Jacob"):
			methods = append(methods, jacob)
		default:
			return nil, fmt.Errorf("aquifer: invalid method `%s`; it should be Theis, Neuman, or Jacob", name)
		}
	}
	return methods, nil
}

// timeoutFromConfig returns the Timeout configuration variable.
func timeoutFromConfig(cfg *viper.Viper) (time.Duration, error) {
	d, err := cast.ToDurationE(cfg.Get("Timeout"))
	if err != nil {
		return 0, fmt.Errorf("aquifer: reading Timeout: %v", err)
	}
	if d < 0 {
		return 0, fmt.Errorf("aquifer: Timeout=%v but should be >= 0", d)
	}
	return d, nil
}

// toFloat64SliceE returns a []float64 from a configuration value, which
// may be a list from a configuration file or a JSON array from a
// command-line argument or environment variable.
func toFloat64SliceE(s interface{}) ([]float64, error) {
	switch v := s.(type) {
	case []float64:
		return v, nil
	case []interface{}:
		o := make([]float64, len(v))
		for i, val := range v {
			f, err := cast.ToFloat64E(val)
			if err != nil {
				return nil, err
			}
			o[i] = f
		}
		return o, nil
	case string:
		var o []float64
		if err := json.Unmarshal([]byte(v), &o); err != nil {
			return nil, err
		}
		return o, nil
	default:
		return nil, fmt.Errorf("invalid type %T for a list of numbers", s)
	}
}

// GetStringMapString returns a map[string]string from a viper configuration,
// accounting for the fact that it might be a json object if it was set
// from a command line argument.
func GetStringMapString(varName string, cfg *viper.Viper) (map[string]string, error) {
	i := cfg.Get(varName)
	switch v := i.(type) {
	case map[string]string:
		return v, nil
	case map[string]interface{}:
		return cast.ToStringMapStringE(v)
	case string:
		o := make(map[string]string)
		if v == "" {
			return o, nil
		}
		d := json.NewDecoder(bytes.NewBufferString(v))
		if err := d.Decode(&o); err != nil {
			return nil, fmt.Errorf("aquifer: parsing %s: %v", varName, err)
		}
		return o, nil
	default:
		return nil, fmt.Errorf("aquifer: invalid type for %s: %#v", varName, i)
	}
}
