package main

import (
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"github.com/taskmaster/taskmaster-api/internal/api"
	apimiddleware "github.com/taskmaster/taskmaster-api/internal/api/middleware"
	"github.com/taskmaster/taskmaster-api/internal/config"
	"github.com/taskmaster/taskmaster-api/internal/platform/postgres"
	"github.com/taskmaster/taskmaster-api/internal/service/auth"
	"github.com/taskmaster/taskmaster-api/migrations"
)

// application bundles the server's wired dependencies.
type application struct {
	cfg *config.Config
	log *slog.Logger
	db  *sql.DB

	authHandler     *api.AuthHandler
	taskHandler     *api.TaskHandler
	categoryHandler *api.CategoryHandler
	tagHandler      *api.TagHandler
	authMiddleware  *apimiddleware.AuthMiddleware
}

// newApplication connects to the database, runs pending migrations and
// wires stores, services and handlers together.
func newApplication(cfg *config.Config, log *slog.Logger) (*application, error) {
	db, err := connectDatabase(cfg.Database.URL)
	if err != nil {
		return nil, fmt.Errorf("connecting to database: %w", err)
	}

	if err := runMigrations(db, log); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	userStore := postgres.NewPostgresUserStore(db, log)
	tokenStore := postgres.NewPostgresAuthTokenStore(db, log)
	taskStore := postgres.NewPostgresTaskStore(db, log)
	categoryStore := postgres.NewPostgresCategoryStore(db, log)
	tagStore := postgres.NewPostgresTagStore(db, log)

	tokenService := auth.NewTokenService(tokenStore, log)
	passwordHasher := auth.NewBcryptHasher(cfg.Auth.BcryptCost)
	passwordVerifier := auth.NewBcryptVerifier()

	return &application{
		cfg: cfg,
		log: log,
		db:  db,
		authHandler: api.NewAuthHandler(
			userStore, tokenService, passwordHasher, passwordVerifier),
		taskHandler:     api.NewTaskHandler(taskStore, categoryStore, tagStore),
		categoryHandler: api.NewCategoryHandler(categoryStore),
		tagHandler:      api.NewTagHandler(tagStore),
		authMiddleware:  apimiddleware.NewAuthMiddleware(tokenService),
	}, nil
}

// Close releases the application's resources.
func (app *application) Close() {
	if app.db != nil {
		app.db.Close()
	}
}

// connectDatabase opens a pgx-backed database handle and verifies
// connectivity.
func connectDatabase(url string) (*sql.DB, error) {
	db, err := sql.Open("pgx", url)
	if err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(25)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

// runMigrations applies all pending schema migrations from the embedded
// filesystem.
func runMigrations(db *sql.DB, log *slog.Logger) error {
	goose.SetBaseFS(migrations.FS)
	goose.SetLogger(goose.NopLogger())

	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("setting goose dialect: %w", err)
	}

	if err := goose.Up(db, "."); err != nil {
		return fmt.Errorf("applying migrations: %w", err)
	}

	version, err := goose.GetDBVersion(db)
	if err != nil {
		return fmt.Errorf("reading schema version: %w", err)
	}

	log.Info("database migrations applied", "version", version)
	return nil
}
