package sqlstore

import (
	"context"
	"database/sql"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/sirupsen/logrus"
	_ "modernc.org/sqlite"
)

const (
	DriverMySQL  = "mysql"
	DriverSQLite = "sqlite"
)

// Options describes how to reach the relational store.
type Options struct {
	Driver string

	Host     string
	Port     string
	User     string
	Password string
	Name     string

	// Path is the sqlite database file; ":memory:" keeps it in process.
	Path string

	MaxOpenConns int
}

// Store owns the database handle shared by all repositories.
// Every statement goes through Exec or Query with positional placeholders.
type Store struct {
	db     *sql.DB
	driver string
	logger logrus.FieldLogger
}

// Open connects to the store described by opts and verifies the connection with a ping.
func Open(ctx context.Context, opts Options, logger logrus.FieldLogger) (*Store, error) {
	if logger == nil {
		logger = logrus.StandardLogger()
	}

	driver, dsn, err := dataSource(opts)
	if err != nil {
		return nil, err
	}

	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s db: %w", driver, err)
	}

	maxOpen := opts.MaxOpenConns
	if driver == DriverSQLite || maxOpen <= 0 {
		// in-memory sqlite databases live and die with their connection
		maxOpen = 1
	}
	db.SetMaxOpenConns(maxOpen)
	db.SetMaxIdleConns(maxOpen)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("connect %s db: %w", driver, err)
	}

	return &Store{db: db, driver: driver, logger: logger}, nil
}

func dataSource(opts Options) (string, string, error) {
	switch strings.ToLower(strings.TrimSpace(opts.Driver)) {
	case "", DriverMySQL:
		cfg := mysql.NewConfig()
		cfg.User = opts.User
		cfg.Passwd = opts.Password
		cfg.Net = "tcp"
		cfg.Addr = net.JoinHostPort(opts.Host, opts.Port)
		cfg.DBName = opts.Name
		cfg.ParseTime = true
		return DriverMySQL, cfg.FormatDSN(), nil
	case DriverSQLite:
		path := opts.Path
		if path == "" {
			return "", "", fmt.Errorf("sqlite path is required")
		}
		if path != ":memory:" && !strings.HasPrefix(path, "file:") {
			if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
				return "", "", fmt.Errorf("create db dir: %w", err)
			}
		}
		return DriverSQLite, path, nil
	default:
		return "", "", fmt.Errorf("unsupported db driver %q", opts.Driver)
	}
}

// Driver reports which database/sql driver backs the store.
func (s *Store) Driver() string {
	return s.driver
}

// exact returns a column expression that compares byte for byte. MySQL's
// default collations ignore case; sqlite's BINARY collation already does not.
func (s *Store) exact(column string) string {
	if s.driver == DriverMySQL {
		return "BINARY " + column
	}
	return column
}

// Exec runs a statement that returns no rows and reports the affected row count.
func (s *Store) Exec(ctx context.Context, query string, args ...any) (int64, error) {
	start := time.Now()
	res, err := s.db.ExecContext(ctx, query, args...)
	s.trace(query, time.Since(start), err)
	if err != nil {
		return 0, wrap("exec", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return 0, wrap("rows affected", err)
	}
	return n, nil
}

// Query runs a statement that returns rows. The caller must close them.
func (s *Store) Query(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	start := time.Now()
	rows, err := s.db.QueryContext(ctx, query, args...)
	s.trace(query, time.Since(start), err)
	if err != nil {
		return nil, wrap("query", err)
	}
	return rows, nil
}

// Ping checks that the store is still reachable.
func (s *Store) Ping(ctx context.Context) error {
	if err := s.db.PingContext(ctx); err != nil {
		return wrap("ping", err)
	}
	return nil
}

// Close releases the underlying connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) trace(query string, elapsed time.Duration, err error) {
	entry := s.logger.WithFields(logrus.Fields{
		"query":    compactQuery(query),
		"duration": elapsed,
	})
	if err != nil {
		entry.WithError(err).Warn("sql statement failed")
		return
	}
	entry.Debug("sql statement")
}

func compactQuery(q string) string {
	q = strings.Join(strings.Fields(q), " ")
	if len(q) > 200 {
		return q[:200] + "..."
	}
	return q
}
