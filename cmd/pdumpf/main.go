// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the pdumpf CLI.
package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/taogaetz/pdumpf/internal/rasterize"
)

// version is set at build time via ldflags.
var version = "dev"

// Exit codes per failure kind. Anything unclassified exits 1.
const (
	exitInputNotFound  = 2
	exitToolMissing    = 3
	exitToolFailure    = 4
	exitNoPageCount    = 5
	exitGenericFailure = 1
)

// rootCmd is the base command for the pdumpf CLI.
var rootCmd = &cobra.Command{
	Use:   "pdumpf",
	Short: "Dump PDF pages to raster image files",
	Long: `pdumpf converts a PDF document into a sequence of raster image files by
invoking an external rasterizer (ImageMagick for JPEG, pdftoppm for PPM)
and normalizing its output into a consistent page-numbered naming pattern.

Each output format is a subcommand: jpg and ppm. All rendering is done by
the external tool; pdumpf only orchestrates the run and verifies its
result.`,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./pdumpf.yaml or ~/.config/pdumpf/config.yaml)")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("pdumpf")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "pdumpf"))
		}
	}

	viper.SetEnvPrefix("PDUMPF")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// exitCode maps a conversion error to the process exit status.
func exitCode(err error) int {
	switch {
	case errors.Is(err, rasterize.ErrInputNotFound):
		return exitInputNotFound
	case errors.Is(err, rasterize.ErrToolMissing):
		return exitToolMissing
	case errors.Is(err, rasterize.ErrPageCountUnavailable):
		return exitNoPageCount
	}
	var toolErr *rasterize.ToolError
	if errors.As(err, &toolErr) {
		return exitToolFailure
	}
	return exitGenericFailure
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(exitCode(err))
	}
}
