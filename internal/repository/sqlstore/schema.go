package sqlstore

import (
	"context"
	"fmt"
)

var mysqlSchema = []string{`
CREATE TABLE IF NOT EXISTS users (
	id INT AUTO_INCREMENT PRIMARY KEY,
	fullname VARCHAR(255) NOT NULL,
	email VARCHAR(255) NOT NULL UNIQUE,
	password VARCHAR(255) NOT NULL
)`, `
CREATE TABLE IF NOT EXISTS bookings (
	id INT AUTO_INCREMENT PRIMARY KEY,
	email VARCHAR(255) NOT NULL,
	seva VARCHAR(255) NOT NULL,
	date DATE NOT NULL,
	INDEX idx_bookings_email (email)
)`,
}

var sqliteSchema = []string{`
CREATE TABLE IF NOT EXISTS users (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	fullname TEXT NOT NULL,
	email TEXT NOT NULL UNIQUE,
	password TEXT NOT NULL
)`, `
CREATE TABLE IF NOT EXISTS bookings (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	email TEXT NOT NULL,
	seva TEXT NOT NULL,
	date DATE NOT NULL
)`,
	`CREATE INDEX IF NOT EXISTS idx_bookings_email ON bookings (email)`,
}

// Migrate creates the users and bookings tables when they do not exist yet.
// Deployments that manage their own schema never need to call it.
func (s *Store) Migrate(ctx context.Context) error {
	stmts := mysqlSchema
	if s.driver == DriverSQLite {
		stmts = sqliteSchema
	}
	for _, stmt := range stmts {
		if _, err := s.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("create schema: %w", err)
		}
	}
	return nil
}
