// Command scout extracts structured job records from scraped postings using
// Cloudflare Workers AI.
//
// Configuration comes from the environment (a .env file in the working
// directory is loaded automatically):
//
//	WORKER_ENDPOINT_URI, WORKER_API_KEY          worker mode
//	CLOUDFLARE_ACCOUNT_ID, CLOUDFLARE_API_TOKEN  direct mode
//	SCOUT_LOG_LEVEL, SCOUT_LOG_FORMAT            logging
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/fatih/color"
	_ "github.com/joho/godotenv/autoload"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := newRootCmd().ExecuteContext(ctx)
	stop()
	if err != nil {
		color.New(color.FgRed).Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
