package database

import (
	"database/sql"
	"fmt"
	"os"
	"strings"
	"time"

	_ "github.com/lib/pq"
)

// PostgreSQLClient is a thin wrapper over database/sql for direct
// PostgreSQL access.
type PostgreSQLClient struct {
	DB *sql.DB
}

// NewPostgreSQLClient connects using DATABASE_URL. When no direct URL is
// configured it falls back to building a Supabase connection string from
// SUPABASE_URL and SUPABASE_DB_PASSWORD (pooler port 6543).
func NewPostgreSQLClient() (*PostgreSQLClient, error) {
	connStr := os.Getenv("DATABASE_URL")
	if connStr == "" {
		supabaseURL := os.Getenv("SUPABASE_URL")
		supabasePassword := os.Getenv("SUPABASE_DB_PASSWORD")
		if supabaseURL == "" || supabasePassword == "" {
			return nil, fmt.Errorf("DATABASE_URL (or SUPABASE_URL and SUPABASE_DB_PASSWORD) is not set")
		}

		host := strings.TrimPrefix(supabaseURL, "https://")
		connStr = fmt.Sprintf(
			"host=db.%s port=6543 user=postgres password=%s dbname=postgres sslmode=require",
			host, supabasePassword,
		)
	}

	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize PostgreSQL connection: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to reach PostgreSQL: %w", err)
	}

	return &PostgreSQLClient{DB: db}, nil
}

// NewPostgreSQLClientWithRetry retries the initial connection, for
// environments where the database comes up after the application.
func NewPostgreSQLClientWithRetry(attempts int, interval time.Duration) (*PostgreSQLClient, error) {
	var lastErr error
	for i := 0; i < attempts; i++ {
		client, err := NewPostgreSQLClient()
		if err == nil {
			return client, nil
		}
		lastErr = err
		time.Sleep(interval)
	}
	return nil, fmt.Errorf("PostgreSQL connection failed after %d attempts: %w", attempts, lastErr)
}

// Close closes the underlying connection pool.
func (c *PostgreSQLClient) Close() error {
	return c.DB.Close()
}
