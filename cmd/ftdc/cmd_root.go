package main

import (
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

var (
	cfg    Config
	logger = slog.New(slog.NewTextHandler(io.Discard, nil))
)

var rootCmd = &cobra.Command{
	Use:   appName,
	Short: "Compile ftd documents to markup",
	Long: appName + " compiles YAML-encoded ftd documents into an element tree and renders it.\n\n" +
		"Configuration is read from config.yml in the config directory:\n" +
		"  $FTDC_CONFIG_DIR > $XDG_CONFIG_HOME/ftdc > ~/.config/ftdc\n" +
		"Documents under <config>/lib, lib-dirs and --lib-dir are available through aliases.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		dir, err := resolveConfigDir()
		if err != nil {
			return err
		}
		c, err := loadConfig(dir)
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("log-level") {
			c.LogLevel = flagLogLevel
		}
		if cmd.Flags().Changed("log-format") {
			c.LogFormat = flagLogFormat
		}
		if err := c.validate(); err != nil {
			return err
		}
		cfg = c
		logger = newLogger(cfg.LogLevel, cfg.LogFormat, os.Stderr)
		return nil
	},
}
