/*
Copyright © 2020 the RasterNC authors.
This file is part of RasterNC.

RasterNC is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

RasterNC is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with RasterNC.  If not, see <http://www.gnu.org/licenses/>.
*/

// Package rasterncutil holds the rasternc command-line interface.
package rasterncutil

import (
	"fmt"

	"github.com/lnashier/viper"
	"github.com/spatialmodel/rasternc"
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
	// Options are the configuration options available to rasternc.
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
			name: "tilewidth",
			usage: `
              tilewidth specifies the width in samples of the tiles used
              for chunked writing.`,
			defaultVal: 512,
			flagsets:   []*pflag.FlagSet{copyCmd.Flags()},
		},
		{
			name: "tileheight",
			usage: `
              tileheight specifies the height in samples of the tiles used
              for chunked writing.`,
			defaultVal: 512,
			flagsets:   []*pflag.FlagSet{copyCmd.Flags()},
		},
		{
			name: "workers",
			usage: `
              workers specifies the number of tiles to compute and write
              concurrently. The default of 0 means the number of available
              CPUs.`,
			defaultVal: 0,
			flagsets:   []*pflag.FlagSet{copyCmd.Flags()},
		},
		{
			name: "yflip",
			usage: `
              yflip specifies whether to flip the copied raster variables
              vertically, so that the first row of the input becomes the
              last row of the output.`,
			defaultVal: false,
			flagsets:   []*pflag.FlagSet{copyCmd.Flags()},
		},
		{
			name: "stats",
			usage: `
              stats specifies whether to calculate summary statistics for
              each raster variable.`,
			shorthand:  "s",
			defaultVal: false,
			flagsets:   []*pflag.FlagSet{infoCmd.Flags(), copyCmd.Flags()},
		},
		{
			name: "cachesize",
			usage: `
              cachesize specifies the number of raster blocks to hold in
              the read cache.`,
			defaultVal: 100,
			flagsets:   []*pflag.FlagSet{copyCmd.Flags()},
		},
	}

	Cfg = viper.New()

	// Set the prefix for configuration environment variables.
	Cfg.SetEnvPrefix("RASTERNC")

	for _, option := range options {
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
			default:
				panic("invalid argument type")
			}
			Cfg.BindPFlag(option.name, set.Lookup(option.name))
		}
	}
}

func init() {
	// Link the commands together.
	Root.AddCommand(versionCmd)
	Root.AddCommand(infoCmd)
	Root.AddCommand(copyCmd)
	Root.AddCommand(createCmd)
}

// setConfig finds and reads in the configuration file, if there is one.
func setConfig() error {
	if cfgpath := Cfg.GetString("config"); cfgpath != "" {
		Cfg.SetConfigFile(cfgpath)
		if err := Cfg.ReadInConfig(); err != nil {
			return fmt.Errorf("rasternc: problem reading configuration file: %v", err)
		}
	}
	return nil
}

// Root is the main command.
var Root = &cobra.Command{
	Use:   "rasternc",
	Short: "A chunked writer and reader for raster scenes in NetCDF files.",
	Long: `rasternc reads and writes two-dimensional raster scenes stored as
variables in classic-format NetCDF files.
Use the subcommands specified below to access the functionality.

Refer to the subcommand documentation for configuration options and default
settings. Configuration can be changed by using a configuration file (and
providing the path to the file using the --config flag), by using command-line
arguments, or by setting environment variables in the format 'RASTERNC_var'
where 'var' is the name of the variable to be set.
Refer to https://github.com/spf13/viper for additional configuration information.`,
	DisableAutoGenTag: true,
	PersistentPreRunE: func(*cobra.Command, []string) error { return setConfig() },
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	Long:  "version prints the version number of this version of rasternc.",
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Printf("rasternc v%s\n", rasternc.Version)
	},
	DisableAutoGenTag: true,
}

var infoCmd = &cobra.Command{
	Use:   "info",
	Short: "Describe the contents of a raster file.",
	Long: `info prints the dimensions, variables and attributes of a raster
file. With --stats, it also prints the minimum, maximum and mean sample
values of each numeric variable.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) != 1 {
			return fmt.Errorf("rasternc: info requires one file argument")
		}
		return Info(cmd.OutOrStdout(), args[0], Cfg.GetBool("stats"))
	},
	DisableAutoGenTag: true,
}

var copyCmd = &cobra.Command{
	Use:   "copy",
	Short: "Copy a raster file tile by tile.",
	Long: `copy reads the raster variables of one file and writes them to a new
file tile by tile. With --yflip, two-dimensional variables are flipped
vertically. With --stats, each two-dimensional numeric variable in the new
file is given an actual_range attribute calculated from its samples.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) != 2 {
			return fmt.Errorf("rasternc: copy requires input and output file arguments")
		}
		return Copy(args[0], args[1],
			Cfg.GetInt("tilewidth"), Cfg.GetInt("tileheight"),
			Cfg.GetInt("workers"), Cfg.GetInt("cachesize"),
			Cfg.GetBool("yflip"), Cfg.GetBool("stats"))
	},
	DisableAutoGenTag: true,
}

var createCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a raster file from a manifest.",
	Long: `create writes a new raster file with the dimensions, variables and
attributes listed in a TOML manifest file. Every variable is filled with its
fill value, or zero if none is given.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) != 2 {
			return fmt.Errorf("rasternc: create requires manifest and output file arguments")
		}
		return Create(args[0], args[1])
	},
	DisableAutoGenTag: true,
}
