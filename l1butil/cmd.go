/*
Copyright © 2022 the l1b authors.
This file is part of l1b.

l1b is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

l1b is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with l1b.  If not, see <http://www.gnu.org/licenses/>.
*/

// Package l1butil provides the command-line interface and configuration
// for reading and calibrating MODIS Level-1B swath files.
package l1butil

import (
	"fmt"
	"os"
	"strings"

	"github.com/a301/l1b"
	"github.com/lnashier/viper"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// Cfg holds configuration information.
type Cfg struct {
	*viper.Viper

	// Root is the main command.
	Root *cobra.Command

	versionCmd, infoCmd, bandsCmd, calibrateCmd, quicklookCmd, subsetCmd *cobra.Command

	// Log receives progress and diagnostic messages.
	Log *logrus.Logger

	options []option
}

type option struct {
	name, usage, shorthand string
	defaultVal             interface{}
	flagsets               []*pflag.FlagSet
}

// InitializeConfig creates the commands and configuration options.
func InitializeConfig() *Cfg {
	cfg := &Cfg{
		Viper: viper.New(),
		Log:   logrus.New(),
	}
	cfg.Log.Out = os.Stderr
	cfg.Log.Formatter = &logrus.TextFormatter{
		FullTimestamp:  true,
		DisableSorting: true,
	}

	cfg.Root = &cobra.Command{
		Use:   "l1b",
		Short: "Read and calibrate MODIS Level-1B swath files.",
		Long: `l1b reads raw sensor counts from MODIS Level-1B swath files stored in
NetCDF format and converts them to radiance using the scale and offset for each band.
Use the subcommands specified below to access the functionality.

Configuration can be changed by using a configuration file (and providing the
path to the file using the --config flag), by using command-line arguments,
or by setting environment variables in the format 'L1B_var' where 'var' is the
name of the variable to be set. Path variables are additionally
allowed to contain environment variables within them.
Refer to https://github.com/spf13/viper for additional configuration information.`,
		DisableAutoGenTag: true,
		SilenceUsage:      true,
		PersistentPreRunE: func(*cobra.Command, []string) error { return cfg.setConfig() },
	}

	cfg.versionCmd = &cobra.Command{
		Use:   "version",
		Short: "Print the version number",
		Long:  "version prints the version number of this version of l1b.",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "l1b v%s\n", l1b.Version)
		},
		DisableAutoGenTag: true,
	}

	cfg.infoCmd = &cobra.Command{
		Use:   "info",
		Short: "List the datasets in a swath file",
		Long: `info lists the datasets in the input file along with their dimensions.
If --dataset is given, the attributes of that dataset are printed as well.
Use --dataset=global for the global attributes.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cfg.withFile(func(f *l1b.File) error {
				return Info(cmd.OutOrStdout(), f, cfg.GetString("dataset"))
			})
		},
		DisableAutoGenTag: true,
	}

	cfg.bandsCmd = &cobra.Command{
		Use:   "bands",
		Short: "Print the band table of a swath group",
		Long: `bands prints the band numbers of the swath group given by --group
along with the calibration scale and offset of each band.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cfg.withFile(func(f *l1b.File) error {
				r, err := cfg.reader(f, cfg.GetFloat64("band"))
				if err != nil {
					return err
				}
				return Bands(cmd.OutOrStdout(), r)
			})
		},
		DisableAutoGenTag: true,
	}

	cfg.calibrateCmd = &cobra.Command{
		Use:   "calibrate",
		Short: "Calibrate a band and save it",
		Long: `calibrate converts the counts of the band given by --band to radiance
and writes the result to OutputFile as a (row, col) dataset called OutputName.
If the band is not in the band table, the next band above it is used
unless --exact is set.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cfg.withFile(func(f *l1b.File) error {
				band := cfg.GetFloat64("band")
				r, err := cfg.reader(f, band)
				if err != nil {
					return err
				}
				output, err := checkOutputFile(cfg.GetString("OutputFile"), selectedBand(r, band), ".nc")
				if err != nil {
					return err
				}
				return cfg.writeOutput(output, func(local string) error {
					return Calibrate(cmd.OutOrStdout(), r, band, local, cfg.GetString("OutputName"))
				})
			})
		},
		DisableAutoGenTag: true,
	}

	cfg.quicklookCmd = &cobra.Command{
		Use:   "quicklook",
		Short: "Draw a preview image of a band",
		Long: `quicklook calibrates the band given by --band and saves a PNG image of it
to OutputFile. --kind=hist draws a histogram of the radiances, --kind=image
draws the swath as a heat map and --kind=counts draws the uncalibrated counts
as a heat map.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cfg.withFile(func(f *l1b.File) error {
				band := cfg.GetFloat64("band")
				r, err := cfg.reader(f, band)
				if err != nil {
					return err
				}
				output, err := checkOutputFile(cfg.GetString("OutputFile"), selectedBand(r, band), ".png")
				if err != nil {
					return err
				}
				return cfg.writeOutput(output, func(local string) error {
					return Quicklook(r, band, local, cfg.GetString("kind"),
						cfg.GetInt("bins"), cfg.GetFloat64("vmin"), cfg.GetFloat64("vmax"))
				})
			})
		},
		DisableAutoGenTag: true,
	}

	cfg.subsetCmd = &cobra.Command{
		Use:   "subset",
		Short: "Save a subset of the bands in a swath file",
		Long: `subset copies the counts and calibration coefficients of the bands given
by --bands from the swath group given by --group into a new swath file.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cfg.withFile(func(f *l1b.File) error {
				bands, err := parseBands(cfg.Get("bands"))
				if err != nil {
					return err
				}
				r, err := cfg.reader(f, bands[0])
				if err != nil {
					return err
				}
				output, err := checkOutputFile(cfg.GetString("OutputFile"), selectedBand(r, bands[0]), ".nc")
				if err != nil {
					return err
				}
				return cfg.writeOutput(output, func(local string) error {
					return Subset(cmd.OutOrStdout(), f, r, bands, local)
				})
			})
		},
		DisableAutoGenTag: true,
	}

	fileCmds := func() []*pflag.FlagSet {
		return []*pflag.FlagSet{cfg.infoCmd.Flags(), cfg.bandsCmd.Flags(), cfg.calibrateCmd.Flags(),
			cfg.quicklookCmd.Flags(), cfg.subsetCmd.Flags()}
	}
	readCmds := func() []*pflag.FlagSet {
		return []*pflag.FlagSet{cfg.bandsCmd.Flags(), cfg.calibrateCmd.Flags(),
			cfg.quicklookCmd.Flags(), cfg.subsetCmd.Flags()}
	}

	// Options are the configuration options available to l1b.
	cfg.options = []option{
		{
			name: "config",
			usage: `
              config specifies the configuration file location.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{cfg.Root.PersistentFlags()},
		},
		{
			name: "LogLevel",
			usage: `
              LogLevel specifies the minimum level of log messages to print:
              one of debug, info, warning, or error.`,
			defaultVal: "info",
			flagsets:   []*pflag.FlagSet{cfg.Root.PersistentFlags()},
		},
		{
			name: "InputFile",
			usage: `
              InputFile is the path to the swath file to read. It can also be a
              URL starting with http://, https://, file://, gs://, or s3://, in which
              case the file is downloaded first. If it is empty, the first file
              in DataDir.SatData matching InputPattern is used.`,
			shorthand:  "i",
			defaultVal: "",
			flagsets:   fileCmds(),
		},
		{
			name: "InputPattern",
			usage: `
              InputPattern is the glob pattern used to find the input file in
              DataDir.SatData when InputFile is not set.`,
			defaultVal: "*.nc",
			flagsets:   fileCmds(),
		},
		{
			name: "DataDir.Work",
			usage: `
              DataDir.Work is the base working directory.`,
			defaultVal: "${HOME}/work",
			flagsets:   fileCmds(),
		},
		{
			name: "DataDir.Share",
			usage: `
              DataDir.Share is the directory holding shared files. If it is
              empty, the shared_files directory in DataDir.Work is used.`,
			defaultVal: "",
			flagsets:   fileCmds(),
		},
		{
			name: "DataDir.SatData",
			usage: `
              DataDir.SatData is the directory holding satellite data. If it is
              empty, the sat_data directory in DataDir.Work is used.`,
			defaultVal: "",
			flagsets:   fileCmds(),
		},
		{
			name: "group",
			usage: `
              group is the name of the swath group holding the requested band:
              one of emissive, refsb, 250m, 500m, a group defined in GroupFile,
              or auto to use the first group whose band table contains the band.`,
			shorthand:  "g",
			defaultVal: "emissive",
			flagsets:   readCmds(),
		},
		{
			name: "GroupFile",
			usage: `
              GroupFile is the path to a TOML file with additional swath group
              definitions. Groups in this file take precedence over the built-in
              groups with the same name.`,
			defaultVal: "",
			flagsets:   readCmds(),
		},
		{
			name: "band",
			usage: `
              band is the band number to read.`,
			shorthand:  "b",
			defaultVal: 30.0,
			flagsets: []*pflag.FlagSet{cfg.bandsCmd.Flags(), cfg.calibrateCmd.Flags(),
				cfg.quicklookCmd.Flags()},
		},
		{
			name: "bands",
			usage: `
              bands is a list of band numbers to copy.`,
			defaultVal: []string{},
			flagsets:   []*pflag.FlagSet{cfg.subsetCmd.Flags()},
		},
		{
			name: "exact",
			usage: `
              exact specifies whether requesting a band that is not in the
              band table is an error. If false, the next band above the requested
              band is used.`,
			defaultVal: false,
			flagsets:   readCmds(),
		},
		{
			name: "MaskInvalid",
			usage: `
              MaskInvalid specifies whether counts outside of the valid_range
              of the counts dataset should be set to NaN.`,
			defaultVal: false,
			flagsets:   []*pflag.FlagSet{cfg.calibrateCmd.Flags(), cfg.quicklookCmd.Flags()},
		},
		{
			name: "OutputFile",
			usage: `
              OutputFile is the path to the output file. If it is empty, a
              file named after the band is created in the current directory.`,
			shorthand:  "o",
			defaultVal: "",
			flagsets: []*pflag.FlagSet{cfg.calibrateCmd.Flags(), cfg.quicklookCmd.Flags(),
				cfg.subsetCmd.Flags()},
		},
		{
			name: "OutputName",
			usage: `
              OutputName is the name of the output dataset. If it is empty,
              the dataset is named after the band, e.g. ch30.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{cfg.calibrateCmd.Flags()},
		},
		{
			name: "kind",
			usage: `
              kind is the kind of image to draw: hist, image or counts.`,
			defaultVal: "hist",
			flagsets:   []*pflag.FlagSet{cfg.quicklookCmd.Flags()},
		},
		{
			name: "bins",
			usage: `
              bins is the number of histogram bins.`,
			defaultVal: 50,
			flagsets:   []*pflag.FlagSet{cfg.quicklookCmd.Flags()},
		},
		{
			name: "vmin",
			usage: `
              vmin is the radiance drawn in the lowest color. If vmin is not
              less than vmax, the range of the data is used.`,
			defaultVal: 0.0,
			flagsets:   []*pflag.FlagSet{cfg.quicklookCmd.Flags()},
		},
		{
			name: "vmax",
			usage: `
              vmax is the radiance drawn in the highest color.`,
			defaultVal: 0.0,
			flagsets:   []*pflag.FlagSet{cfg.quicklookCmd.Flags()},
		},
		{
			name: "dataset",
			usage: `
              dataset is the name of a dataset whose attributes should be printed.`,
			shorthand:  "d",
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{cfg.infoCmd.Flags()},
		},
	}

	// Set the prefix for configuration environment variables.
	cfg.SetEnvPrefix("L1B")
	cfg.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	cfg.AutomaticEnv()

	for _, option := range cfg.options {
		for i, set := range option.flagsets {
			if i != 0 { // We don't want to create the same flag twice.
				set.AddFlag(option.flagsets[0].Lookup(option.name))
				continue
			}
			switch option.defaultVal.(type) {
			case string:
				if option.shorthand == "" {
					set.String(option.name, option.defaultVal.(string), option.usage)
				} else {
					set.StringP(option.name, option.shorthand, option.defaultVal.(string), option.usage)
				}
			case []string:
				if option.shorthand == "" {
					set.StringSlice(option.name, option.defaultVal.([]string), option.usage)
				} else {
					set.StringSliceP(option.name, option.shorthand, option.defaultVal.([]string), option.usage)
				}
			case bool:
				if option.shorthand == "" {
					set.Bool(option.name, option.defaultVal.(bool), option.usage)
				} else {
					set.BoolP(option.name, option.shorthand, option.defaultVal.(bool), option.usage)
				}
			case int:
				if option.shorthand == "" {
					set.Int(option.name, option.defaultVal.(int), option.usage)
				} else {
					set.IntP(option.name, option.shorthand, option.defaultVal.(int), option.usage)
				}
			case float64:
				if option.shorthand == "" {
					set.Float64(option.name, option.defaultVal.(float64), option.usage)
				} else {
					set.Float64P(option.name, option.shorthand, option.defaultVal.(float64), option.usage)
				}
			default:
				panic("invalid argument type")
			}
			cfg.BindPFlag(option.name, set.Lookup(option.name))
		}
	}

	// Link the commands together.
	cfg.Root.AddCommand(cfg.versionCmd)
	cfg.Root.AddCommand(cfg.infoCmd)
	cfg.Root.AddCommand(cfg.bandsCmd)
	cfg.Root.AddCommand(cfg.calibrateCmd)
	cfg.Root.AddCommand(cfg.quicklookCmd)
	cfg.Root.AddCommand(cfg.subsetCmd)

	return cfg
}

// setConfig finds and reads in the configuration file, if there is one,
// and sets the log level.
func (cfg *Cfg) setConfig() error {
	if cfgpath := cfg.GetString("config"); cfgpath != "" {
		cfg.SetConfigFile(os.ExpandEnv(cfgpath))
		if err := cfg.ReadInConfig(); err != nil {
			return fmt.Errorf("l1b: problem reading configuration file: %v", err)
		}
	}
	level, err := logrus.ParseLevel(cfg.GetString("LogLevel"))
	if err != nil {
		return fmt.Errorf("l1b: invalid LogLevel: %v", err)
	}
	cfg.Log.Level = level
	return nil
}
