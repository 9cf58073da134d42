package testhelper

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/heartmarshall/notify-backend/internal/domain"
)

// uniqueSuffix returns a short unique string for generating non-conflicting test data.
func uniqueSuffix() string {
	return uuid.New().String()[:8]
}

// SeedUser is a row of the users table.
type SeedUser struct {
	ID    string
	Email string
	Role  string
}

// InsertUser creates a user with the given role and a unique email.
func InsertUser(t *testing.T, pool *pgxpool.Pool, role string) SeedUser {
	t.Helper()

	suffix := uniqueSuffix()
	u := SeedUser{
		ID:    "user-" + suffix,
		Email: "user-" + suffix + "@example.com",
		Role:  role,
	}

	_, err := pool.Exec(context.Background(),
		`INSERT INTO users (id, email, role) VALUES ($1, $2, $3)`,
		u.ID, u.Email, u.Role,
	)
	if err != nil {
		t.Fatalf("testhelper: InsertUser: %v", err)
	}
	return u
}

// InsertEntity stores a snapshot in the entities table and returns its id.
func InsertEntity(t *testing.T, pool *pgxpool.Pool, entityType string, data domain.Snapshot) string {
	t.Helper()

	id := entityType + "-" + uniqueSuffix()
	raw, err := json.Marshal(data)
	if err != nil {
		t.Fatalf("testhelper: InsertEntity marshal: %v", err)
	}

	_, err = pool.Exec(context.Background(),
		`INSERT INTO entities (entity_type, id, data) VALUES ($1, $2, $3::jsonb)`,
		entityType, id, string(raw),
	)
	if err != nil {
		t.Fatalf("testhelper: InsertEntity: %v", err)
	}
	return id
}

// UniqueEmail returns a fresh address for recipient-scoped tests.
func UniqueEmail() string {
	return "recipient-" + uniqueSuffix() + "@example.com"
}
