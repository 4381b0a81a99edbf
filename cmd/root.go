package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

const (
	FlagConfig   = "config"
	FlagEndpoint = "endpoint"
	FlagApiKey   = "api-key"
	FlagLogLevel = "log-level"
)

// errNotified is returned by commands which already delivered the failure message to the user.
var errNotified = errors.New("user notified")

// rootCmd is a base command.
var rootCmd = &cobra.Command{
	Use:           "notes",
	Short:         "Notes client for the managed GraphQL backend",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		if !errors.Is(err, errNotified) {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().String(FlagConfig, "./notes.yaml", "(optional) config file path")
	rootCmd.PersistentFlags().String(FlagEndpoint, "", "(optional) GraphQL endpoint (overrides config)")
	rootCmd.PersistentFlags().String(FlagApiKey, "", "(optional) backend API key (overrides config)")
	rootCmd.PersistentFlags().String(FlagLogLevel, "", "(optional) log level (overrides config)")
}
