package commands

import (
    "fmt"
    "log"

    "github.com/spf13/cobra"

    "github.com/iliyamo/vehicle-advertisement/internal/app"
    "github.com/iliyamo/vehicle-advertisement/internal/config"
    "github.com/iliyamo/vehicle-advertisement/internal/database"
)

func migrateCmd() *cobra.Command {
    return &cobra.Command{
        Use:   "migrate",
        Short: "Create the MySQL tables",
        RunE: func(cmd *cobra.Command, args []string) error {
            if cfg.StoreDriver != config.DriverMySQL {
                return fmt.Errorf("migrate needs STORE_DRIVER=mysql, got %q", cfg.StoreDriver)
            }
            db, err := app.OpenDB(cmd.Context(), cfg)
            if err != nil {
                return err
            }
            defer db.Close()
            if err := database.Migrate(cmd.Context(), db); err != nil {
                return err
            }
            log.Printf("migrate: schema is up to date (%s)", cfg.DBName)
            return nil
        },
    }
}
