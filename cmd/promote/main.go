// Command promote assigns a role to a user by email address. It is used to
// bootstrap the first admin, who then receives platform-wide notifications.
//
// Usage:
//
//	promote --email=user@example.com [--role=admin]
//
// Reads the same configuration as the server.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/heartmarshall/notify-backend/internal/adapter/postgres"
	"github.com/heartmarshall/notify-backend/internal/adapter/postgres/directory"
	"github.com/heartmarshall/notify-backend/internal/config"
)

func main() {
	email := flag.String("email", "", "email of user to promote")
	role := flag.String("role", "admin", "role to assign")
	configPath := flag.String("config", os.Getenv("CONFIG_PATH"), "path to config.yaml")
	flag.Parse()

	if *email == "" {
		fmt.Fprintln(os.Stderr, "Usage: promote --email=user@example.com [--role=admin]")
		os.Exit(1)
	}

	cfg, err := config.LoadFrom(*configPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	pool, err := postgres.NewPool(ctx, cfg.Database)
	if err != nil {
		log.Fatalf("connect to database: %v", err)
	}
	defer pool.Close()

	changed, err := directory.New(pool).SetRole(ctx, *email, *role)
	if err != nil {
		log.Fatalf("update role: %v", err)
	}

	if !changed {
		fmt.Printf("No user found with email %q, or already %s.\n", *email, *role)
		os.Exit(1)
	}

	fmt.Printf("User %q promoted to %s.\n", *email, *role)
}
