// Command scout generates scouting reports from the terminal.
//
// Usage:
//
//	scout report --name "Bukayo Saka" --name "Cole Palmer" --out reports
//	scout chart --file record.json
//	scout import --html saka.html --out reports
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load(".env")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}
