package commands

import (
    "os/signal"
    "syscall"

    "github.com/spf13/cobra"

    "github.com/iliyamo/vehicle-advertisement/internal/app"
)

func serveCmd() *cobra.Command {
    return &cobra.Command{
        Use:   "serve",
        Short: "Start the HTTP API",
        RunE: func(cmd *cobra.Command, args []string) error {
            return serve(cmd)
        },
    }
}

func serve(cmd *cobra.Command) error {
    ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
    defer stop()

    a, err := app.New(ctx, cfg)
    if err != nil {
        return err
    }
    defer a.Close()
    return a.Run(ctx)
}
