package postgres

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/iamasit07/c4-minimax/internal/logging"
	_ "github.com/lib/pq"
)

// Open connects to Postgres and applies the pool settings.
func Open(connStr string, maxOpenConns, maxIdleConns, connMaxLifetimeMin int) (*sql.DB, error) {
	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(maxOpenConns)
	db.SetMaxIdleConns(maxIdleConns)
	db.SetConnMaxLifetime(time.Duration(connMaxLifetimeMin) * time.Minute)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("unable to connect to database: %w", err)
	}

	logging.Component("db").Info().Msg("database connected successfully")
	return db, nil
}
