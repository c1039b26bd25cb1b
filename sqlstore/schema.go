package sqlstore

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/etnz/finance"
	"go.uber.org/zap"
)

// SchemaVersion is the current version of the database schema.
//
// Version 1 only had a transactions table, version 2 introduced wallets,
// debts and investment snapshots, and moved every transaction to a wallet.
const SchemaVersion = 2

// mainWalletID is the wallet legacy transactions are moved to.
const mainWalletID = 1

func (s *Store) createWallets(ctx context.Context, q querier) error {
	return s.exec(ctx, q, `CREATE TABLE wallets (
		id `+s.dialect.serial+`,
		name TEXT,
		type TEXT,
		creation_date BIGINT
	)`)
}

func (s *Store) createTransactions(ctx context.Context, q querier) error {
	return s.exec(ctx, q, `CREATE TABLE transactions (
		id `+s.dialect.serial+`,
		wallet_id BIGINT,
		amount `+s.dialect.amount+`,
		is_expense INTEGER,
		category TEXT,
		date BIGINT,
		description TEXT
	)`)
}

func (s *Store) createDebts(ctx context.Context, q querier) error {
	return s.exec(ctx, q, `CREATE TABLE debts (
		id `+s.dialect.serial+`,
		transaction_id BIGINT,
		debtor TEXT,
		creditor TEXT,
		amount `+s.dialect.amount+`,
		is_settled INTEGER
	)`)
}

func (s *Store) createSnapshots(ctx context.Context, q querier) error {
	return s.exec(ctx, q, `CREATE TABLE investment_snapshots (
		id `+s.dialect.serial+`,
		wallet_id BIGINT,
		date BIGINT,
		total_value `+s.dialect.amount+`,
		invested_amount `+s.dialect.amount+`
	)`)
}

func (s *Store) tableExists(ctx context.Context, q querier, name string) (bool, error) {
	var n int
	if err := q.QueryRowContext(ctx, s.dialect.rebind(s.dialect.tableExists), name).Scan(&n); err != nil {
		return false, fmt.Errorf("check table %s: %w", name, err)
	}
	return n > 0, nil
}

// version returns the schema version of the database, 0 if it is empty.
// tracked is false when the version is inferred from the tables because
// schema_meta does not exist yet.
func (s *Store) version(ctx context.Context, q querier) (v int, tracked bool, err error) {
	meta, err := s.tableExists(ctx, q, "schema_meta")
	if err != nil {
		return 0, false, err
	}
	if meta {
		err := q.QueryRowContext(ctx, "SELECT version FROM schema_meta").Scan(&v)
		if err != nil && err != sql.ErrNoRows {
			return 0, false, fmt.Errorf("read schema version: %w", err)
		}
		return v, true, nil
	}
	// databases created before versioning: wallets came with version 2, before
	// that there were only transactions.
	wallets, err := s.tableExists(ctx, q, "wallets")
	if err != nil {
		return 0, false, err
	}
	if wallets {
		return 2, false, nil
	}
	legacy, err := s.tableExists(ctx, q, "transactions")
	if err != nil {
		return 0, false, err
	}
	if legacy {
		return 1, false, nil
	}
	return 0, false, nil
}

// Version returns the schema version of the database.
func (s *Store) Version(ctx context.Context) (int, error) {
	v, _, err := s.version(ctx, s.db)
	return v, err
}

// migrate brings the schema to SchemaVersion in a single transaction.
func (s *Store) migrate(ctx context.Context) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	v, tracked, err := s.version(ctx, tx)
	if err != nil {
		return err
	}
	switch {
	case v == SchemaVersion && tracked:
		return nil
	case v == SchemaVersion:
		err = s.adopt(ctx, tx)
	case v > SchemaVersion:
		return fmt.Errorf("database schema version %d is newer than supported version %d", v, SchemaVersion)
	case v == 0:
		err = s.create(ctx, tx)
	case v == 1:
		err = s.upgradeV1(ctx, tx)
	}
	if err != nil {
		return err
	}
	if err := s.setVersion(ctx, tx, SchemaVersion); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	s.log.Info("schema migrated", zap.Int("from", v), zap.Int("to", SchemaVersion))
	return nil
}

// create initializes an empty database with a default wallet.
func (s *Store) create(ctx context.Context, tx *sql.Tx) error {
	for _, create := range []func(context.Context, querier) error{s.createWallets, s.createTransactions, s.createDebts, s.createSnapshots} {
		if err := create(ctx, tx); err != nil {
			return err
		}
	}
	return s.exec(ctx, tx, "INSERT INTO wallets (name, type, creation_date) VALUES (?, ?, ?)",
		finance.MainWalletName, finance.Normal.String(), toMillis(time.Now()))
}

// upgradeV1 adds the support tables and moves existing transactions to the
// main wallet.
func (s *Store) upgradeV1(ctx context.Context, tx *sql.Tx) error {
	for _, create := range []func(context.Context, querier) error{s.createWallets, s.createDebts, s.createSnapshots} {
		if err := create(ctx, tx); err != nil {
			return err
		}
	}
	err := s.exec(ctx, tx, "INSERT INTO wallets (id, name, type, creation_date) VALUES (?, ?, ?, ?)",
		mainWalletID, finance.MainWalletName, finance.Normal.String(), toMillis(time.Now()))
	if err != nil {
		return err
	}
	if s.dialect.name == Postgres {
		// explicit ids do not advance the sequence.
		if err := s.exec(ctx, tx, "SELECT setval(pg_get_serial_sequence('wallets', 'id'), (SELECT MAX(id) FROM wallets))"); err != nil {
			return err
		}
	}
	return s.exec(ctx, tx, fmt.Sprintf("ALTER TABLE transactions ADD COLUMN wallet_id BIGINT DEFAULT %d", mainWalletID))
}

// adopt completes an unversioned version 2 database with the support tables
// it may lack.
func (s *Store) adopt(ctx context.Context, tx *sql.Tx) error {
	tables := []struct {
		name   string
		create func(context.Context, querier) error
	}{
		{"transactions", s.createTransactions},
		{"debts", s.createDebts},
		{"investment_snapshots", s.createSnapshots},
	}
	for _, t := range tables {
		exists, err := s.tableExists(ctx, tx, t.name)
		if err != nil {
			return err
		}
		if exists {
			continue
		}
		if err := t.create(ctx, tx); err != nil {
			return err
		}
	}
	return nil
}

func (s *Store) setVersion(ctx context.Context, tx *sql.Tx, v int) error {
	exists, err := s.tableExists(ctx, tx, "schema_meta")
	if err != nil {
		return err
	}
	if !exists {
		if err := s.exec(ctx, tx, "CREATE TABLE schema_meta (version INTEGER NOT NULL)"); err != nil {
			return err
		}
	}
	if err := s.exec(ctx, tx, "DELETE FROM schema_meta"); err != nil {
		return err
	}
	return s.exec(ctx, tx, "INSERT INTO schema_meta (version) VALUES (?)", v)
}
