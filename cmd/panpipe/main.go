// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the panpipe CLI, a command-line
// front end for the pandoc conversion engine.
package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/panpipe/internal/engine"
	"github.com/pdiddy/panpipe/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

// rootCmd is the base command for the panpipe CLI.
var rootCmd = &cobra.Command{
	Use:   "panpipe",
	Short: "Command-line front end for the pandoc conversion engine",
	Long: `panpipe builds pandoc invocations from validated option selections,
dispatches the engine process, and routes its output: a produced output
file is opened, captured text lands in a scratch view named for the
source and target format, and a failing engine has its output surfaced
verbatim.

Each invocation is recorded in a local history database so the next
conversion can default to the last-used formats.`,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./panpipe.yaml or ~/.config/panpipe/config.yaml)")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("panpipe")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "panpipe"))
		}
	}

	viper.SetDefault("engine.binary", "pandoc")
	viper.SetDefault("convert.scratch_dir", "scratch")
	viper.SetDefault("convert.separator", "-")
	viper.SetDefault("fetch.user_agent", "panpipe/"+version)
	viper.SetDefault("history.history_dir", "history")
	viper.SetDefault("history.max_results", 20)

	viper.SetEnvPrefix("PANPIPE")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// loadConfig materializes the viper state into the typed config.
func loadConfig() types.Config {
	return types.Config{
		Engine: types.EngineConfig{
			Binary:       viper.GetString("engine.binary"),
			DefaultFlags: viper.GetStringSlice("engine.default_flags"),
		},
		Convert: types.ConvertConfig{
			ScratchDir: viper.GetString("convert.scratch_dir"),
			Separator:  viper.GetString("convert.separator"),
		},
		Fetch: types.FetchConfig{
			Timeout:   viper.GetDuration("fetch.timeout"),
			UserAgent: viper.GetString("fetch.user_agent"),
		},
		History: types.HistoryConfig{
			HistoryDir: viper.GetString("history.history_dir"),
			MaxResults: viper.GetInt("history.max_results"),
		},
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		// Mirror the engine's exit status when it failed.
		var exitErr *engine.ExitError
		if errors.As(err, &exitErr) {
			os.Exit(exitErr.Code)
		}
		os.Exit(1)
	}
}
