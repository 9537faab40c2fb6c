package postgres

import (
	"context"
	_ "embed"
	"fmt"
	"strings"
	"time"

	"agrovision/internal/config"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"go.uber.org/zap"
)

//go:embed schema.sql
var schemaSQL string

// DSN builds a lib/pq connection string for the named database. DATABASE_URL
// wins when it is set.
func DSN(cfg config.PostgresConfig, dbname string) string {
	if cfg.URL != "" {
		return cfg.URL
	}
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host, cfg.Port, cfg.Username, cfg.Password, dbname, cfg.SSLMode)
}

// ConnectAndCreateDB opens the target database, creating it first when the
// discrete settings are in use, then applies the schema.
func ConnectAndCreateDB(ctx context.Context, cfg config.PostgresConfig, log *zap.Logger) (*sqlx.DB, error) {
	if cfg.URL == "" {
		if err := ensureDatabase(ctx, cfg, log); err != nil {
			return nil, err
		}
	}

	log.Info("connecting to PostgreSQL",
		zap.String("host", cfg.Host),
		zap.String("port", cfg.Port),
		zap.String("dbname", cfg.DBname),
		zap.Bool("from_url", cfg.URL != ""))

	db, err := sqlx.ConnectContext(ctx, "postgres", DSN(cfg, cfg.DBname))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to target database: %w", err)
	}

	if err := ExecuteSchema(ctx, db, log); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

func ensureDatabase(ctx context.Context, cfg config.PostgresConfig, log *zap.Logger) error {
	admin, err := sqlx.ConnectContext(ctx, "postgres", DSN(cfg, "postgres"))
	if err != nil {
		return fmt.Errorf("failed to connect to default postgres db: %w", err)
	}
	defer admin.Close()

	var exists bool
	if err := admin.GetContext(ctx, &exists, `SELECT EXISTS(SELECT 1 FROM pg_database WHERE datname = $1)`, cfg.DBname); err != nil {
		return fmt.Errorf("failed to check if database exists: %w", err)
	}
	if exists {
		log.Debug("database already exists", zap.String("dbname", cfg.DBname))
		return nil
	}

	if _, err := admin.ExecContext(ctx, fmt.Sprintf(`CREATE DATABASE "%s"`, cfg.DBname)); err != nil {
		return fmt.Errorf("failed to create database %s: %w", cfg.DBname, err)
	}
	log.Info("database created", zap.String("dbname", cfg.DBname))
	return nil
}

// ExecuteSchema runs the embedded schema statement by statement. Every
// statement is idempotent, so this is safe on each start.
func ExecuteSchema(ctx context.Context, db *sqlx.DB, log *zap.Logger) error {
	statements := splitStatements(schemaSQL)
	for i, statement := range statements {
		if _, err := db.ExecContext(ctx, statement); err != nil {
			return fmt.Errorf("failed to execute schema statement %d: %w", i+1, err)
		}
	}
	log.Info("schema applied", zap.Int("statements", len(statements)))
	return nil
}

func splitStatements(schema string) []string {
	var statements []string
	for _, raw := range strings.Split(schema, ";") {
		var lines []string
		for _, line := range strings.Split(raw, "\n") {
			if trimmed := strings.TrimSpace(line); trimmed != "" && !strings.HasPrefix(trimmed, "--") {
				lines = append(lines, line)
			}
		}
		if statement := strings.TrimSpace(strings.Join(lines, "\n")); statement != "" {
			statements = append(statements, statement)
		}
	}
	return statements
}

// ConnectWithRetry keeps calling ConnectAndCreateDB until it succeeds, the
// attempts run out, or ctx is cancelled.
func ConnectWithRetry(ctx context.Context, cfg config.PostgresConfig, attempts int, wait time.Duration, log *zap.Logger) (*sqlx.DB, error) {
	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		db, err := ConnectAndCreateDB(ctx, cfg, log)
		if err == nil {
			return db, nil
		}
		lastErr = err
		log.Warn("failed to connect database, retrying",
			zap.Int("attempt", attempt),
			zap.Duration("wait", wait),
			zap.Error(err))

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(wait):
		}
	}
	return nil, fmt.Errorf("database unavailable after %d attempts: %w", attempts, lastErr)
}
