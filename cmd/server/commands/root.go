// Package commands implements the server's command line.
package commands

import (
    "github.com/spf13/cobra"

    "github.com/iliyamo/vehicle-advertisement/internal/config"
)

var (
    envFile string
    cfg     config.Config
)

// Execute runs the root command.  Without a subcommand the HTTP server is
// started.
func Execute() error {
    root := &cobra.Command{
        Use:          "server",
        Short:        "Vehicle advertisement API",
        SilenceUsage: true,
        PersistentPreRun: func(cmd *cobra.Command, args []string) {
            if envFile != "" {
                config.LoadDotEnv(envFile)
            } else {
                config.LoadDotEnv()
            }
            cfg = config.Load()
        },
        RunE: func(cmd *cobra.Command, args []string) error {
            return serve(cmd)
        },
    }
    root.PersistentFlags().StringVar(&envFile, "env-file", "", "file to load environment variables from (default .env)")

    root.AddCommand(serveCmd(), migrateCmd(), consumeCmd())
    return root.Execute()
}
