package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"time"

	"github.com/lista-app/lista/internal/application/auth"
	"github.com/lista-app/lista/internal/clock"
	"github.com/lista-app/lista/internal/config"
	"github.com/lista-app/lista/internal/idgen"
	"github.com/lista-app/lista/internal/infrastructure/persistence/postgres"
)

// Command-line tool to provision a user account directly in the database.
// This is not a production-grade tool, just a simple utility for bootstrap
// and development.
func main() {
	email := flag.String("email", "", "Email for the new account (required)")
	password := flag.String("password", "", "Password for the new account (required)")
	name := flag.String("name", "", "Display name")

	flag.Parse()

	if *email == "" || *password == "" {
		flag.Usage()
		log.Fatal("both -email and -password are required")
	}

	cfg, err := config.LoadServerConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if cfg.Storage.Type != config.StoragePostgres {
		log.Fatal("useradd requires LISTA_STORAGE_TYPE=postgres")
	}

	ctx := context.Background()

	store, err := postgres.NewStoreWithConfig(ctx, postgres.DBConfig{
		DSN:             cfg.Storage.DSN,
		MaxOpenConns:    cfg.Storage.MaxOpenConns,
		MaxIdleConns:    cfg.Storage.MaxIdleConns,
		ConnMaxLifetime: time.Duration(cfg.Storage.ConnMaxLifetime) * time.Second,
		ConnMaxIdleTime: time.Duration(cfg.Storage.ConnMaxIdleTime) * time.Second,
	})
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer func() {
		if err := store.Close(); err != nil {
			log.Printf("Failed to close store: %v", err)
		}
	}()

	authService := auth.NewService(store, idgen.UUIDv7(), clock.System(), auth.Config{
		SigningKey: cfg.Auth.JWTSecret,
		TokenTTL:   cfg.Auth.TokenTTL,
	})

	profile, err := authService.Register(ctx, *email, *password, *name)
	if err != nil {
		log.Fatalf("Failed to create user: %v", err)
	}

	fmt.Printf("User created:\n  id:    %s\n  email: %s\n", profile.ID, profile.Email)
}
