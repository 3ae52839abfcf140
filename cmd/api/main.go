package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "traintrace",
	Short: "Training roster and certificate service",
	Long: `traintrace keeps training programs and their trainees, issues PDF
certificates with a QR verification link when a trainee passes, and answers
public certificate verification lookups.

Running without a subcommand starts the HTTP server.`,
	SilenceUsage: true,
	RunE:         runServe,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", os.Getenv("TRAINTRACE_CONFIG"), "optional config file (yaml, json or toml)")
	rootCmd.AddCommand(serveCmd, migrateCmd, hashPasswordCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
