// seed registers a demo user in the local dev database and prints a reset
// link for it.
// Run: go run ./cmd/seed
package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"

	"github.com/ErlanBelekov/passauth/internal/domain"
	"github.com/ErlanBelekov/passauth/internal/infrastructure/postgres"
	"github.com/ErlanBelekov/passauth/internal/password"
	"github.com/ErlanBelekov/passauth/internal/token"
	"github.com/ErlanBelekov/passauth/internal/usecase"
)

const (
	seedName     = "Seed User"
	seedEmail    = "seed@test.local"
	seedPassword = "seed-password"
)

func main() {
	ctx := context.Background()

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		log.Fatal("DATABASE_URL is not set (run: direnv allow)")
	}
	secret := os.Getenv("JWT_SECRET")
	if len(secret) < 32 {
		log.Fatal("JWT_SECRET must be at least 32 characters")
	}

	pool, err := postgres.NewPool(ctx, dbURL)
	if err != nil {
		log.Fatalf("db connect: %v", err)
	}
	defer pool.Close()

	if err := postgres.Migrate(ctx, pool, "up"); err != nil {
		log.Fatalf("migrate: %v", err)
	}

	auth := usecase.NewAuthUsecase(
		postgres.NewUserRepository(pool),
		password.NewBcryptHasher(password.DefaultCost),
		token.NewService([]byte(secret)),
		usecase.AuthOptions{ResetLinkBase: os.Getenv("RESET_LINK_BASE_URL")},
	)

	_, err = auth.Register(ctx, usecase.RegisterInput{Name: seedName, Email: seedEmail, Password: seedPassword})
	switch {
	case errors.Is(err, domain.ErrEmailTaken):
		fmt.Printf("user %s already exists\n", seedEmail)
	case err != nil:
		log.Fatalf("register: %v", err)
	default:
		fmt.Printf("created %s / %s\n", seedEmail, seedPassword)
	}

	fp, err := auth.ForgotPassword(ctx, seedEmail)
	if err != nil {
		log.Fatalf("forgot password: %v", err)
	}
	fmt.Printf("reset link: %s\n", fp.Link)
}
