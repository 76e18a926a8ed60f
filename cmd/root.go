// Package cmd holds the hrdash command line: the dashboard server and the
// offline prediction tools.
package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"hrdash/config"
)

var (
	configPath string

	rootCmd = &cobra.Command{
		Use:           "hrdash",
		Short:         "HR attrition dashboard and risk predictor",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "",
		fmt.Sprintf("config file (default $%s or %s)", config.EnvPath, config.DefaultPath))

	rootCmd.AddCommand(serveCmd, predictCmd, domainsCmd)
	// bare "hrdash" starts the server
	rootCmd.RunE = runServe
}

// Execute runs the command line and exits non-zero on failure.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// loadConfig reads the resolved config file. A missing default file falls
// back to the built-in defaults; a missing explicit file is an error.
func loadConfig() (*config.Config, string, error) {
	path := config.Resolve(configPath)
	cfg, err := config.Load(path)
	if err == nil {
		return cfg, path, nil
	}
	if errors.Is(err, os.ErrNotExist) && configPath == "" && os.Getenv(config.EnvPath) == "" {
		return config.Default(), "", nil
	}
	return nil, "", fmt.Errorf("load config: %w", err)
}
