// Command dev-token prints a signed access token for local testing of the
// user API.
//
// Usage:
//
//	dev-token --email=user@example.com [--id=u-1] [--role=admin] [--ttl=1h]
//
// Reads the same configuration as the server; only the auth section is used.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/heartmarshall/notify-backend/internal/auth"
	"github.com/heartmarshall/notify-backend/internal/config"
	"github.com/heartmarshall/notify-backend/internal/domain"
)

func main() {
	email := flag.String("email", "", "email claim")
	id := flag.String("id", "", "subject (user id)")
	role := flag.String("role", "user", "role claim")
	ttl := flag.Duration("ttl", time.Hour, "token lifetime")
	configPath := flag.String("config", os.Getenv("CONFIG_PATH"), "path to config.yaml")
	flag.Parse()

	if *email == "" && *id == "" {
		fmt.Fprintln(os.Stderr, "Usage: dev-token --email=user@example.com [--id=u-1] [--role=admin] [--ttl=1h]")
		os.Exit(1)
	}

	cfg, err := config.LoadFrom(*configPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	mgr := auth.NewJWTManager(cfg.Auth.JWTSecret, cfg.Auth.JWTIssuer, *ttl)
	token, err := mgr.GenerateAccessToken(domain.Principal{UserID: *id, Email: *email, Role: *role})
	if err != nil {
		log.Fatalf("generate token: %v", err)
	}

	fmt.Println(token)
}
