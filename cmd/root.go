// Package cmd provides the command-line interface for the Template Kit
// export tool with configuration management supporting multiple sources.
//
// Configuration System:
//
//	The CLI supports flexible configuration with clear precedence:
//	1. Command-line flags (--config, --store, etc.) - highest priority
//	2. KITPACK_CONFIG_FILE environment variable - custom config file path
//	3. Individual environment variables (KITPACK_STORE_PATH, etc.)
//	4. Configuration files (.kitpack.yml) - lowest priority
//
// Environment Variables:
//
//	KITPACK_CONFIG_FILE: Path to custom configuration file
//	KITPACK_STORE_PATH: Override site store location
//	KITPACK_LOGGING_LEVEL: Override log level
//	And more following the KITPACK_<SECTION>_<OPTION> pattern
package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var cfgFile string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "kitpack",
	Short: "Package page-builder templates into distributable Template Kits",
	Long: `Kitpack packages a set of page-builder templates, their screenshots and
image licensing metadata into a distributable Template Kit ZIP archive with
a manifest.json describing the kit contents.

Key Features:
  • Template catalog enumeration across builder sources
  • Image discovery with licensing metadata
  • Compliance validation against the kit review rule set
  • Manifest generation and ZIP packaging
  • Interactive five-step export wizard

Quick Start:
  kitpack wizard                  Run the interactive export wizard
  kitpack list                    List all templates in the kit
  kitpack validate                Run the compliance validator
  kitpack export                  Validate and build the export ZIP

Command Aliases (for faster typing):
  list (l), images (i), validate (v), export (e), wizard (w)`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is .kitpack.yml, can also use KITPACK_CONFIG_FILE env var)")
	rootCmd.PersistentFlags().String("store", "", "path to the site store JSON file")
	rootCmd.PersistentFlags().StringP("log-level", "l", "info", "log level (debug, info, warn, error)")
	viper.BindPFlag("store.path", rootCmd.PersistentFlags().Lookup("store"))
	viper.BindPFlag("logging.level", rootCmd.PersistentFlags().Lookup("log-level"))
}

// initConfig initializes the configuration system.
//
// Configuration Loading Priority (highest to lowest):
//  1. --config flag: Explicitly specified config file path
//  2. KITPACK_CONFIG_FILE environment variable: Custom config file path
//  3. Default: .kitpack.yml in current directory
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else if envConfigFile := os.Getenv("KITPACK_CONFIG_FILE"); envConfigFile != "" {
		viper.SetConfigFile(envConfigFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName(".kitpack")
	}

	// Enable automatic environment variable binding with KITPACK_ prefix
	// Examples: KITPACK_STORE_PATH, KITPACK_LOGGING_LEVEL
	viper.SetEnvPrefix("KITPACK")
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// If the file doesn't exist or has errors, Viper uses defaults without
	// failing so the CLI still works in a bare directory.
	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}
