package main

import (
	"github.com/spf13/cobra"
)

var (
	cfgPath  string
	logLevel string
	noColor  bool
)

var rootCmd = &cobra.Command{
	Use:   "scrobstash",
	Short: "Send playback events to repository archives and Last.fm",
	Long: `scrobstash reports what you are listening to.

Every configured scrobbler receives each event:

  - contents   Writes the event as a JSON file into one or more repositories
  - lastfm     Calls the Last.fm scrobbling API

Configuration is read from ~/.config/scrobstash/config.toml unless --config
is given. A .env file in the working directory is loaded first.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", "", "path to config file (TOML or YAML)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "override log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")
}
