// Package testdb connects store integration tests to a real PostgreSQL
// database. Tests skip when DATABASE_URL is not set, so the default
// `go test ./...` run stays self-contained.
package testdb

import (
	"context"
	"database/sql"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v5/stdlib" // pgx driver
	"github.com/pressly/goose/v3"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/taskmaster/taskmaster-api/migrations"
)

// Timeout bounds each database operation inside a test.
const Timeout = 5 * time.Second

var (
	openOnce sync.Once
	sharedDB *sql.DB
	openErr  error
)

// Get returns a migrated connection to the database named by DATABASE_URL,
// skipping the calling test when the variable is not set. The connection is
// shared across tests; callers isolate themselves through per-test users
// created with InsertUser.
func Get(t *testing.T) *sql.DB {
	t.Helper()

	url := os.Getenv("DATABASE_URL")
	if url == "" {
		t.Skip("DATABASE_URL not set, skipping database integration test")
	}

	openOnce.Do(func() {
		sharedDB, openErr = open(url)
	})
	require.NoError(t, openErr, "connecting to test database")

	return sharedDB
}

func open(url string) (*sql.DB, error) {
	db, err := sql.Open("pgx", url)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), Timeout)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		return nil, err
	}

	goose.SetBaseFS(migrations.FS)
	goose.SetLogger(goose.NopLogger())
	if err := goose.SetDialect("postgres"); err != nil {
		return nil, err
	}
	if err := goose.Up(db, "."); err != nil {
		return nil, err
	}

	return db, nil
}

// InsertUser creates a user row with a unique username and registers a
// cleanup that deletes it. The schema cascades that delete to the user's
// categories, tags and tasks, so each test leaves the database as it
// found it.
func InsertUser(ctx context.Context, t *testing.T, db *sql.DB) uuid.UUID {
	t.Helper()

	id := uuid.New()
	username := "user-" + id.String()

	hash, err := bcrypt.GenerateFromPassword([]byte("s3cret-password"), bcrypt.MinCost)
	require.NoError(t, err)

	_, err = db.ExecContext(ctx, `
		INSERT INTO users (id, username, email, hashed_password)
		VALUES ($1, $2, $3, $4)`,
		id, username, username+"@example.com", string(hash))
	require.NoError(t, err, "inserting test user")

	t.Cleanup(func() {
		_, _ = db.Exec(`DELETE FROM users WHERE id = $1`, id)
	})

	return id
}
