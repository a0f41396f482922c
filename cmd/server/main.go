package main // Entry point package

import (
    "os"

    "github.com/iliyamo/vehicle-advertisement/cmd/server/commands"
)

func main() {
    if err := commands.Execute(); err != nil {
        os.Exit(1)
    }
}
