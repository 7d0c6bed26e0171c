// dealdesk api-service
//
// REST backend for the real-estate investment dashboard: properties, buy
// boxes and their match counts, the deal pipeline, leads, vendors and
// notifications. A gRPC health service mirrors PostgreSQL/Redis
// reachability and cron jobs send buy-box alert digests.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

const (
	serviceName = "api-service"
	version     = "1.0.0"
)

// rootCmd runs the server when invoked without a subcommand.
var rootCmd = &cobra.Command{
	Use:           "dealdesk",
	Short:         "Real-estate investment dashboard API",
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(migrateCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "[%s] %v\n", serviceName, err)
		os.Exit(1)
	}
}
