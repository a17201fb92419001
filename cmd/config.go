// ABOUTME: Config command to inspect and write the config file
// ABOUTME: Shows the effective settings after files, environment and flags are merged

package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/ptit-library/libctl/internal/config"
	"github.com/ptit-library/libctl/internal/session"
)

var configForce bool

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect or create the config file",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the effective configuration",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		return runConfigShow(cfg, configFilePath(), os.Stdout, IsJSONOutput())
	},
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write the effective configuration to the config file",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		return runConfigInit(cfg, configFilePath(), configForce, os.Stdout)
	},
}

func init() {
	configInitCmd.Flags().BoolVar(&configForce, "force", false, "Overwrite an existing file")

	configCmd.AddCommand(configShowCmd, configInitCmd)
	rootCmd.AddCommand(configCmd)
}

func configFilePath() string {
	return config.ResolvePath(config.Options{Path: configPath, Dir: session.DefaultConfigDir()})
}

// runConfigShow prints the effective configuration
func runConfigShow(cfg *config.Config, path string, w io.Writer, jsonOut bool) error {
	if jsonOut {
		return writeJSON(w, map[string]any{
			"file":       path,
			"api_url":    cfg.APIURL,
			"lang":       cfg.Lang,
			"timeout":    cfg.Timeout.String(),
			"page_size":  cfg.PageSize,
			"log_level":  cfg.LogLevel,
			"log_format": cfg.LogFormat,
		})
	}
	timeout := "none"
	if cfg.Timeout > 0 {
		timeout = cfg.Timeout.String()
	}
	fmt.Fprintf(w, "File:        %s\n", orDash(path))
	fmt.Fprintf(w, "API URL:     %s\n", cfg.APIURL)
	fmt.Fprintf(w, "Language:    %s\n", cfg.Lang)
	fmt.Fprintf(w, "Timeout:     %s\n", timeout)
	fmt.Fprintf(w, "Page size:   %d\n", cfg.PageSize)
	fmt.Fprintf(w, "Log level:   %s\n", cfg.LogLevel)
	fmt.Fprintf(w, "Log format:  %s\n", cfg.LogFormat)
	return nil
}

// runConfigInit writes cfg to path, refusing to overwrite unless forced
func runConfigInit(cfg *config.Config, path string, force bool, w io.Writer) error {
	if path == "" {
		return errors.New("cannot determine config file location, use --config")
	}
	if _, err := os.Stat(path); err == nil && !force {
		return fmt.Errorf("%s already exists, use --force to overwrite", path)
	}
	if err := cfg.Save(path); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	fmt.Fprintf(w, "Wrote %s\n", path)
	return nil
}
