// Package sqlstore persists the finance records in a SQL database.
//
// SQLite (modernc.org/sqlite, no cgo) is the default embedded engine, PostgreSQL
// (lib/pq) can be used instead. Queries are written once with "?"
// placeholders and rebound for the engine in use.
package sqlstore

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/etnz/finance"
	"github.com/etnz/finance/logging"
	"go.uber.org/zap"

	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
)

// Driver names accepted in Config.
const (
	SQLite   = "sqlite"
	Postgres = "postgres"
)

// Config holds the database connection configuration.
type Config struct {
	// Driver is either "sqlite" (default) or "postgres".
	Driver string
	// DSN is a file path (or ":memory:") for sqlite, a connection string for postgres.
	DSN string
	// Currency of the amounts, which are stored without currency.
	Currency string
	// Logger defaults to the global logger.
	Logger *zap.Logger
}

// Store implements finance.Store on a *sql.DB.
type Store struct {
	db       *sql.DB
	dialect  dialect
	currency string
	log      *zap.Logger
}

var _ finance.Store = (*Store)(nil)

// Open connects to the database and brings its schema to the current version.
func Open(ctx context.Context, cfg Config) (*Store, error) {
	if cfg.Driver == "" {
		cfg.Driver = SQLite
	}
	if cfg.Currency == "" {
		cfg.Currency = finance.DefaultCurrency
	}
	if cfg.Logger == nil {
		cfg.Logger = logging.L()
	}
	d, err := dialectOf(cfg.Driver)
	if err != nil {
		return nil, err
	}

	db, err := sql.Open(cfg.Driver, cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("open %s database: %w", cfg.Driver, err)
	}
	if cfg.Driver == SQLite {
		// a single connection: sqlite has a single writer, and ":memory:"
		// databases are per connection.
		db.SetMaxOpenConns(1)
	} else {
		db.SetMaxOpenConns(5)
		db.SetConnMaxLifetime(5 * time.Minute)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping %s database: %w", cfg.Driver, err)
	}

	s := &Store{
		db:       db,
		dialect:  d,
		currency: strings.ToUpper(cfg.Currency),
		log:      cfg.Logger.Named("sqlstore"),
	}
	if err := s.migrate(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate schema: %w", err)
	}
	return s, nil
}

// Close closes the database.
func (s *Store) Close() error { return s.db.Close() }

// dialect captures the few differences between engines.
type dialect struct {
	name string
	// numbered placeholders ($1, $2...) instead of "?"
	numbered bool
	// primary key column definition
	serial string
	// query counting tables with a given name
	tableExists string
	// amount column type
	amount string
}

func dialectOf(driver string) (dialect, error) {
	switch driver {
	case SQLite:
		return dialect{
			name:        SQLite,
			serial:      "INTEGER PRIMARY KEY AUTOINCREMENT",
			tableExists: "SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = ?",
			amount:      "TEXT",
		}, nil
	case Postgres:
		return dialect{
			name:        Postgres,
			numbered:    true,
			serial:      "BIGSERIAL PRIMARY KEY",
			tableExists: "SELECT COUNT(*) FROM information_schema.tables WHERE table_schema = current_schema() AND table_name = ?",
			amount:      "NUMERIC",
		}, nil
	default:
		return dialect{}, fmt.Errorf("unsupported driver %q (use %s|%s)", driver, SQLite, Postgres)
	}
}

// rebind rewrites "?" placeholders for the dialect.
func (d dialect) rebind(query string) string {
	if !d.numbered {
		return query
	}
	var b strings.Builder
	n := 0
	for _, c := range query {
		if c == '?' {
			n++
			b.WriteString("$" + strconv.Itoa(n))
			continue
		}
		b.WriteRune(c)
	}
	return b.String()
}

// querier is implemented by *sql.DB and *sql.Tx.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func (s *Store) exec(ctx context.Context, q querier, query string, args ...any) error {
	_, err := q.ExecContext(ctx, s.dialect.rebind(query), args...)
	return err
}

// insert runs an INSERT statement and returns the new row id.
func (s *Store) insert(ctx context.Context, query string, args ...any) (int64, error) {
	var id int64
	err := s.db.QueryRowContext(ctx, s.dialect.rebind(query+" RETURNING id"), args...).Scan(&id)
	return id, err
}

func (s *Store) query(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	return s.db.QueryContext(ctx, s.dialect.rebind(query), args...)
}

// timestamps are stored in unix milliseconds.
func toMillis(t time.Time) int64    { return t.UnixMilli() }
func fromMillis(ms int64) time.Time { return time.UnixMilli(ms) }

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
