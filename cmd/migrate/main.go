// migrate applies the embedded goose migrations to DATABASE_URL.
// Run: go run ./cmd/migrate [up|down|status|redo|reset]
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/ErlanBelekov/passauth/config"
	"github.com/ErlanBelekov/passauth/internal/infrastructure/postgres"
)

func main() {
	command := "up"
	if len(os.Args) > 1 {
		command = os.Args[1]
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool, err := postgres.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("db: %v", err)
	}
	defer pool.Close()

	if err := postgres.Migrate(ctx, pool, command); err != nil {
		log.Fatalf("migrate: %v", err)
	}
	log.Printf("migrate %s: done", command)
}
