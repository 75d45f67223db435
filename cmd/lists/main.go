// Package main implements the lists CLI tool.
package main

import (
	"errors"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		var exitErr interface{ ExitCode() int }
		if errors.As(err, &exitErr) {
			os.Exit(exitErr.ExitCode())
		}
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:          "lists",
	Short:        "Lists - personal lists and notes",
	SilenceUsage: true,
}

var (
	rootURL   string
	rootDebug bool
)

func init() {
	rootCmd.PersistentFlags().StringVar(&rootURL, "url", "", "Server URL (defaults to [client] url or $LISTS_URL)")
	rootCmd.PersistentFlags().BoolVar(&rootDebug, "debug", false, "Enable debug logging")
}
