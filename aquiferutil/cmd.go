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
	"encoding/json"
	"fmt"
	"strings"

	"github.com/lnashier/viper"
	"github.com/spatialmodel/aquifer"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// Cfg holds configuration information.
var Cfg *viper.Viper

var options []struct {
	name, usage, shorthand string
	defaultVal             interface{}
	flagsets               []*pflag.FlagSet
}

func init() {
	// Options are the configuration options available to Aquifer.
	options = []struct {
		name, usage, shorthand string
		defaultVal             interface{}
		flagsets               []*pflag.FlagSet
	}{
		{
			name: "config",
			usage: `
              config specifies the configuration file location.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{Root.PersistentFlags()},
		},
		{
			name: "TestFile",
			usage: `
              TestFile is the path to the TOML file describing the pumping test:
              the pumping well location and rate and the drawdown records of the
              observation wells. It can include environment variables.`,
			shorthand:  "t",
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{fitCmd.Flags()},
		},
		{
			name: "OutputFile",
			usage: `
              OutputFile is the path to the desired report location. Reports
              ending in .xlsx are written as spreadsheets and reports ending in .csv
              as comma-separated text. If empty, results are only printed.`,
			shorthand:  "o",
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{fitCmd.Flags()},
		},
		{
			name: "LogFile",
			usage: `
              LogFile is the path to the desired logfile location. If it is
              not specified and OutputFile is, the log is written next to OutputFile.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{fitCmd.Flags()},
		},
		{
			name: "LogLevel",
			usage: `
              LogLevel is the minimum level of log messages to print: one of
              panic, fatal, error, warn, info, debug, and trace. At the debug
              level, the outcome of each fit is logged.`,
			defaultVal: "info",
			flagsets:   []*pflag.FlagSet{fitCmd.Flags()},
		},
		{
			name: "Methods",
			usage: `
              Methods lists the estimation methods to run for each observation
              well. Available methods are Theis, Neuman, and Jacob.`,
			shorthand:  "m",
			defaultVal: []string{"Theis", "Neuman"},
			flagsets:   []*pflag.FlagSet{fitCmd.Flags()},
		},
		{
			name: "Workers",
			usage: `
              Workers is the maximum number of fits to run at once. Values
              less than 1 use the number of available processors.`,
			defaultVal: 0,
			flagsets:   []*pflag.FlagSet{fitCmd.Flags()},
		},
		{
			name: "Timeout",
			usage: `
              Timeout limits the time spent on all fits, for example "30s".
              Fits still running when it expires fail. "0s" means no limit.`,
			defaultVal: "0s",
			flagsets:   []*pflag.FlagSet{fitCmd.Flags()},
		},
		{
			name: "Units.Length",
			usage: `
              Units.Length gives the units of well coordinates and drawdown.
              Acceptable values are m, ft, and mi.`,
			defaultVal: "ft",
			flagsets:   []*pflag.FlagSet{fitCmd.Flags(), drawdownCmd.Flags()},
		},
		{
			name: "Units.Time",
			usage: `
              Units.Time gives the units of observation times. Acceptable
              values are s, min, hour, and day.`,
			defaultVal: "day",
			flagsets:   []*pflag.FlagSet{fitCmd.Flags(), drawdownCmd.Flags()},
		},
		{
			name: "Units.PumpingRate",
			usage: `
              Units.PumpingRate gives the units of the pumping rate as
              volume/time, where volume is one of m3, ft3, gal, and L, and time
              is one of the Units.Time values. The rate is converted to the
              length and time units of the observations before fitting, so
              estimated transmissivity is in Units.Length²/Units.Time.`,
			defaultVal: "gal/min",
			flagsets:   []*pflag.FlagSet{fitCmd.Flags(), drawdownCmd.Flags()},
		},
		{
			name: "Fit.Theis.MaxIterations",
			usage: `
              Fit.Theis.MaxIterations is the maximum number of Gauss-Newton
              updates for the Theis model.`,
			defaultVal: aquifer.TheisPreset().MaxIterations,
			flagsets:   []*pflag.FlagSet{fitCmd.Flags()},
		},
		{
			name: "Fit.Theis.PerturbationRatio",
			usage: `
              Fit.Theis.PerturbationRatio is the relative parameter step used to
              calculate the jacobian of the Theis model.`,
			defaultVal: aquifer.TheisPreset().PerturbationRatio,
			flagsets:   []*pflag.FlagSet{fitCmd.Flags()},
		},
		{
			name: "Fit.Theis.ConvergenceTolerance",
			usage: `
              Fit.Theis.ConvergenceTolerance is the size of the parameter update
              below which the Theis fit is considered converged.`,
			defaultVal: aquifer.TheisPreset().ConvergenceTolerance,
			flagsets:   []*pflag.FlagSet{fitCmd.Flags()},
		},
		{
			name: "Fit.Theis.InitialGuess",
			usage: `
              Fit.Theis.InitialGuess is the starting point [T, S] of the Theis fit.`,
			defaultVal: aquifer.TheisPreset().InitialGuess,
			flagsets:   []*pflag.FlagSet{fitCmd.Flags()},
		},
		{
			name: "Fit.Neuman.MaxIterations",
			usage: `
              Fit.Neuman.MaxIterations is the maximum number of Gauss-Newton
              updates for the Neuman model.`,
			defaultVal: aquifer.NeumanPreset().MaxIterations,
			flagsets:   []*pflag.FlagSet{fitCmd.Flags()},
		},
		{
			name: "Fit.Neuman.PerturbationRatio",
			usage: `
              Fit.Neuman.PerturbationRatio is the relative parameter step used to
              calculate the jacobian of the Neuman model.`,
			defaultVal: aquifer.NeumanPreset().PerturbationRatio,
			flagsets:   []*pflag.FlagSet{fitCmd.Flags()},
		},
		{
			name: "Fit.Neuman.ConvergenceTolerance",
			usage: `
              Fit.Neuman.ConvergenceTolerance is the size of the parameter update
              below which the Neuman fit is considered converged.`,
			defaultVal: aquifer.NeumanPreset().ConvergenceTolerance,
			flagsets:   []*pflag.FlagSet{fitCmd.Flags()},
		},
		{
			name: "Fit.Neuman.InitialGuess",
			usage: `
              Fit.Neuman.InitialGuess is the starting point [T, Sy, A] of the
              Neuman fit.`,
			defaultVal: aquifer.NeumanPreset().InitialGuess,
			flagsets:   []*pflag.FlagSet{fitCmd.Flags()},
		},
		{
			name: "Fit.JacobInitialGuess",
			usage: `
              Fit.JacobInitialGuess specifies whether the Theis fit should start
              from the Cooper-Jacob estimate instead of Fit.Theis.InitialGuess
              when the Cooper-Jacob estimate succeeds.`,
			defaultVal: false,
			flagsets:   []*pflag.FlagSet{fitCmd.Flags()},
		},
		{
			name: "Jacob.MinTime",
			usage: `
              Jacob.MinTime excludes observations made before this time from the
              Cooper-Jacob straight line, in Units.Time.`,
			defaultVal: 0.0,
			flagsets:   []*pflag.FlagSet{fitCmd.Flags()},
		},
		{
			name: "SaturatedThickness",
			usage: `
              SaturatedThickness is the saturated thickness of the aquifer, in
              Units.Length. It is available as the variable 'b' in OutputVariables.`,
			defaultVal: 0.0,
			flagsets:   []*pflag.FlagSet{fitCmd.Flags()},
		},
		{
			name: "OutputVariables",
			usage: `
              OutputVariables specifies additional values to report for each
              estimate, as a map of names to expressions of the estimated
              parameters (for example T, S, Sy, and A), the distance to the pumping
              well 'r', and the saturated thickness 'b'. For example,
              {"K": "T / b"} reports hydraulic conductivity. Functions exp, log,
              log10, and sqrt are available.`,
			defaultVal: map[string]string{},
			flagsets:   []*pflag.FlagSet{fitCmd.Flags()},
		},
		{
			name: "Drawdown.Model",
			usage: `
              Drawdown.Model is the model to evaluate: Theis or Neuman.`,
			defaultVal: "Theis",
			flagsets:   []*pflag.FlagSet{drawdownCmd.Flags()},
		},
		{
			name: "Drawdown.Params",
			usage: `
              Drawdown.Params are the model parameters: [T, S] for Theis or
              [T, Sy, A] for Neuman.`,
			defaultVal: []float64{4000, 1e-3},
			flagsets:   []*pflag.FlagSet{drawdownCmd.Flags()},
		},
		{
			name: "Drawdown.Distance",
			usage: `
              Drawdown.Distance is the distance from the pumping well, in Units.Length.`,
			defaultVal: 100.0,
			flagsets:   []*pflag.FlagSet{drawdownCmd.Flags()},
		},
		{
			name: "Drawdown.Q",
			usage: `
              Drawdown.Q is the pumping rate, in Units.PumpingRate.`,
			defaultVal: 500.0,
			flagsets:   []*pflag.FlagSet{drawdownCmd.Flags()},
		},
		{
			name: "Drawdown.StartTime",
			usage: `
              Drawdown.StartTime is the first time to evaluate, in Units.Time.`,
			defaultVal: 1.0,
			flagsets:   []*pflag.FlagSet{drawdownCmd.Flags()},
		},
		{
			name: "Drawdown.EndTime",
			usage: `
              Drawdown.EndTime is the last time to evaluate, in Units.Time.`,
			defaultVal: 1000.0,
			flagsets:   []*pflag.FlagSet{drawdownCmd.Flags()},
		},
		{
			name: "Drawdown.NumTimes",
			usage: `
              Drawdown.NumTimes is the number of times, evenly spaced in
              log(time), to evaluate.`,
			defaultVal: 10,
			flagsets:   []*pflag.FlagSet{drawdownCmd.Flags()},
		},
	}

	Cfg = viper.New()

	// Set the prefix for configuration environment variables.
	Cfg.SetEnvPrefix("AQUIFER")
	Cfg.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	Cfg.AutomaticEnv()

	for _, option := range options {
		for i, set := range option.flagsets {
			if i != 0 { // We don't want to create the same flag twice.
				set.AddFlag(option.flagsets[0].Lookup(option.name))
				continue
			}
			addFlag(set, option.name, option.shorthand, option.usage, option.defaultVal)
			Cfg.BindPFlag(option.name, set.Lookup(option.name))
		}
	}
}

// addFlag registers a flag of the type of defaultVal. Lists of numbers
// and maps are passed as JSON on the command line.
func addFlag(set *pflag.FlagSet, name, shorthand, usage string, defaultVal interface{}) {
	switch v := defaultVal.(type) {
	case string:
		set.StringP(name, shorthand, v, usage)
	case []string:
		set.StringSliceP(name, shorthand, v, usage)
	case bool:
		set.BoolP(name, shorthand, v, usage)
	case int:
		set.IntP(name, shorthand, v, usage)
	case float64:
		set.Float64P(name, shorthand, v, usage)
	case []float64, map[string]string:
		b, err := json.Marshal(v)
		if err != nil {
			panic(err)
		}
		set.StringP(name, shorthand, string(b), usage)
	default:
		panic(fmt.Errorf("aquifer: option %s has unsupported type %T", name, defaultVal))
	}
}

func init() {
	// Link the commands together.
	Root.AddCommand(versionCmd)
	Root.AddCommand(fitCmd)
	Root.AddCommand(drawdownCmd)
}

// setConfig finds and reads in the configuration file, if there is one.
func setConfig() error {
	if cfgpath := Cfg.GetString("config"); cfgpath != "" {
		Cfg.SetConfigFile(cfgpath)
		if err := Cfg.ReadInConfig(); err != nil {
			return fmt.Errorf("aquifer: problem reading configuration file: %v", err)
		}
	}
	return nil
}

// Root is the main command.
var Root = &cobra.Command{
	Use:   "aquifer",
	Short: "Estimate aquifer properties from pumping tests.",
	Long: `Aquifer estimates transmissivity, storativity, specific yield, and
anisotropy by fitting the Theis and Neuman drawdown models to observation-well
data from a constant-rate pumping test.
Use the subcommands specified below to access the model functionality.

Refer to the subcommand documentation for configuration options and default settings.
Configuration can be changed by using a configuration file (and providing the
path to the file using the --config flag), by using command-line arguments,
or by setting environment variables in the format 'AQUIFER_var' where 'var' is the
name of the variable to be set, with dots replaced by underscores.
Refer to https://github.com/spf13/viper for additional configuration information.`,
	DisableAutoGenTag: true,
	PersistentPreRunE: func(*cobra.Command, []string) error { return setConfig() },
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	Long:  "version prints the version number of this version of Aquifer.",
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Printf("Aquifer v%s\n", aquifer.Version)
	},
	DisableAutoGenTag: true,
}

// fitCmd is a command that estimates aquifer properties.
var fitCmd = &cobra.Command{
	Use:   "fit",
	Short: "Estimate aquifer properties.",
	Long: `fit reads the pumping test in TestFile and estimates aquifer properties
for every observation well with every method in Methods. Each estimate is
independent: a well whose data cannot be fit is reported as failed without
affecting the others.

	Output columns:
	Label: Observation well number and method, e.g. "Obs Well 1 — Theis"
	Status: converged, max iterations reached, or solver failed
	T: Transmissivity [Units.Length²/Units.Time]
	S: Storativity (Theis and Jacob) [-]
	Sy: Specific yield (Neuman) [-]
	A: Anisotropy ratio (Neuman) [-]
	RMSE: Root mean square drawdown misfit [Units.Length]
	R2: Coefficient of determination of observed vs. predicted drawdown`,
	RunE: func(cmd *cobra.Command, args []string) error {
		outputFile, err := checkOutputFile(Cfg.GetString("OutputFile"))
		if err != nil {
			return err
		}
		units, err := unitsFromConfig(Cfg)
		if err != nil {
			return err
		}
		methods, err := methodsFromConfig(Cfg)
		if err != nil {
			return err
		}
		timeout, err := timeoutFromConfig(Cfg)
		if err != nil {
			return err
		}
		outputVars, err := GetStringMapString("OutputVariables", Cfg)
		if err != nil {
			return err
		}
		return Fit(
			cmd,
			expandPath(Cfg.GetString("TestFile")),
			outputFile,
			checkLogFile(expandPath(Cfg.GetString("LogFile")), outputFile),
			Cfg.GetString("LogLevel"),
			units,
			methods,
			Cfg.GetInt("Workers"),
			timeout,
			Cfg.GetFloat64("SaturatedThickness"),
			checkOutputVars(outputVars),
		)
	},
	DisableAutoGenTag: true,
}

// drawdownCmd is a command that evaluates a drawdown model.
var drawdownCmd = &cobra.Command{
	Use:   "drawdown",
	Short: "Calculate drawdown.",
	Long: `drawdown prints the drawdown predicted by the model in Drawdown.Model
with parameters Drawdown.Params at Drawdown.Distance from a well pumping at
rate Drawdown.Q, for Drawdown.NumTimes times between Drawdown.StartTime and
Drawdown.EndTime.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		units, err := unitsFromConfig(Cfg)
		if err != nil {
			return err
		}
		model, err := modelFromName(Cfg.GetString("Drawdown.Model"))
		if err != nil {
			return err
		}
		params, err := toFloat64SliceE(Cfg.Get("Drawdown.Params"))
		if err != nil {
			return fmt.Errorf("aquifer: reading Drawdown.Params: %v", err)
		}
		return Drawdown(
			cmd.OutOrStdout(),
			model,
			params,
			Cfg.GetFloat64("Drawdown.Distance"),
			Cfg.GetFloat64("Drawdown.Q"),
			units,
			Cfg.GetFloat64("Drawdown.StartTime"),
			Cfg.GetFloat64("Drawdown.EndTime"),
			Cfg.GetInt("Drawdown.NumTimes"),
		)
	},
	DisableAutoGenTag: true,
}
