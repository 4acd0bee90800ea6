// dispatchctl is the command line client for the dispatch API.
//
// Usage:
//
//	dispatchctl [--api-url URL] [--json] <command> [flags]
//
// The API address comes from --api-url, then DISPATCH_API_URL, then the
// local default.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mvolkov/dispatch/internal/cli"
)

// version is set via ldflags at build time.
var version = "dev"

func main() {
	var apiURL string
	var jsonOutput bool

	rootCmd := &cobra.Command{
		Use:           "dispatchctl",
		Short:         "dispatchctl controls a dispatch server",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVar(&apiURL, "api-url", defaultAPIURL(), "API server URL")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output in JSON format")

	clientFn := func() *cli.Client { return cli.NewClient(apiURL) }
	outputFn := func() *cli.Output { return cli.NewOutput(jsonOutput) }

	rootCmd.AddCommand(
		cli.NewExecutorCmd(clientFn, outputFn),
		cli.NewRequestCmd(clientFn, outputFn),
		cli.NewPullCmd(clientFn, outputFn),
		cli.NewAutoCmd(clientFn, outputFn),
		cli.NewStatsCmd(clientFn, outputFn),
		cli.NewSeedCmd(clientFn, outputFn),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func defaultAPIURL() string {
	if v := os.Getenv("DISPATCH_API_URL"); v != "" {
		return v
	}
	return "http://localhost:8080"
}
