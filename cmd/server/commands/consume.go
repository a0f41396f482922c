package commands

import (
    "context"
    "errors"
    "os/signal"
    "syscall"

    "github.com/spf13/cobra"

    "github.com/iliyamo/vehicle-advertisement/internal/queue"
)

func consumeCmd() *cobra.Command {
    var logPath string
    cmd := &cobra.Command{
        Use:   "consume",
        Short: "Append listing events from RabbitMQ to a log file",
        RunE: func(cmd *cobra.Command, args []string) error {
            ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
            defer stop()
            if logPath == "" {
                logPath = cfg.EventsLogPath
            }
            err := queue.StartListingConsumer(ctx, cfg.AMQPURL, cfg.EventsQueue, logPath)
            if errors.Is(err, context.Canceled) {
                return nil
            }
            return err
        },
    }
    cmd.Flags().StringVar(&logPath, "log", "", "event log file (default EVENTS_LOG_PATH)")
    return cmd
}
