package main

import (
	"github.com/AyushiJais/ftd/pkg/lib"
)

var (
	flagLogLevel  string
	flagLogFormat string
	flagLibDirs   []string
)

func main() {
	rootCmd.AddCommand(buildCmd, treeCmd, containersCmd, queryCmd, initCmd)

	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "",
		"log level: debug, info, warn or error (default from config, else warn)")
	rootCmd.PersistentFlags().StringVar(&flagLogFormat, "log-format", "",
		"log format: text or json")
	rootCmd.PersistentFlags().StringArrayVar(&flagLibDirs, "lib-dir", nil,
		"additional library directory of YAML documents (repeatable)")

	rootCmd.SilenceErrors = true
	rootCmd.SilenceUsage = true

	if err := rootCmd.Execute(); err != nil {
		lib.Exit(err)
	}
}
