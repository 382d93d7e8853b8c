/*
Copyright © 2025 riad@rsworld.eu

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package cmd

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"ttconvert/config"
)

var (
	cfgFile string
	verbose bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "ttconvert",
	Short: "Convert weekly Workforce timesheet exports into Dynamics import files.",
	Long: `
**********************************************
*        WORKFORCE -> DYNAMICS               *
**********************************************

This CLI reads a Workforce timesheet export (Excel or CSV), extracts the clock-in and
clock-out entries from their fixed cell positions, sums worked hours per day of one ISO
week and writes the two-row Dynamics import file (work + lunch) as CSV or Excel.

Supported input formats:
- Excel: .xlsx, .xlsm
- Legacy Excel: .xls (BIFF8)
- CSV: .csv (comma, semicolon or tab separated; UTF-8 or UTF-16 with BOM)
`,
	Example: `
  # Create configuration file with Dynamics identifiers
  ttconvert config create

  # Convert the current week (or the earliest week in the file) to CSV
  ttconvert convert -i Timeliste.xlsx -o import.csv

  # Convert a specific week to Excel
  ttconvert convert -i Timeliste.xlsx -w 2025-10-27 -o import.xlsx

  # Show what would be converted
  ttconvert preview -i Timeliste.xlsx -w 2025-10-27

  # Start the local upload UI
  ttconvert serve
`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	config.SetDefaults()

	rootCmd.PersistentFlags().StringVar(&cfgFile, "configFile", "", "Config file override (default discovery: $HOME/.ttconvert.yaml, then ./.ttconvert.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		// Use config file from the flag.
		viper.SetConfigFile(cfgFile)
	} else {
		// Find home directory.
		home, err := os.UserHomeDir()
		cobra.CheckErr(err)

		// Search config in home directory with name ".ttconvert" (without extension).
		viper.AddConfigPath(home)
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName(".ttconvert")
	}

	viper.SetEnvPrefix("TTCONVERT")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv() // read in environment variables that match

	// Defaults cover every key, so a missing file only earns a hint.
	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) || errors.Is(err, os.ErrNotExist) {
			fmt.Fprintln(os.Stderr, "No config file found, using defaults. Create one with: ttconvert config create")
			return
		}
		fmt.Fprintf(os.Stderr, "Error reading config file: %v\n", err)
	}
}
