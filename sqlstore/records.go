package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/etnz/finance"
	"github.com/shopspring/decimal"
)

// rowScanner is implemented by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func (s *Store) money(text sql.NullString) (finance.Money, error) {
	if !text.Valid || text.String == "" {
		return finance.M(0, s.currency), nil
	}
	d, err := decimal.NewFromString(text.String)
	if err != nil {
		return finance.Money{}, fmt.Errorf("invalid amount %q: %w", text.String, err)
	}
	return finance.M(d, s.currency), nil
}

func amountText(m finance.Money) string { return m.Decimal().String() }

// --- Wallets ---

const walletColumns = "id, name, type, creation_date"

func (s *Store) scanWallet(r rowScanner) (finance.Wallet, error) {
	var (
		w       finance.Wallet
		name    sql.NullString
		typ     sql.NullString
		created sql.NullInt64
	)
	if err := r.Scan(&w.ID, &name, &typ, &created); err != nil {
		return finance.Wallet{}, err
	}
	t, err := finance.ParseWalletType(typ.String)
	if err != nil {
		return finance.Wallet{}, err
	}
	w.Name, w.Type, w.CreatedAt = name.String, t, fromMillis(created.Int64)
	return w, nil
}

func (s *Store) AddWallet(ctx context.Context, w finance.Wallet) (int64, error) {
	return s.insert(ctx, "INSERT INTO wallets (name, type, creation_date) VALUES (?, ?, ?)",
		w.Name, w.Type.String(), toMillis(w.CreatedAt))
}

func (s *Store) Wallets(ctx context.Context) ([]finance.Wallet, error) {
	rows, err := s.query(ctx, "SELECT "+walletColumns+" FROM wallets ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("query wallets: %w", err)
	}
	defer rows.Close()
	list := []finance.Wallet{}
	for rows.Next() {
		w, err := s.scanWallet(rows)
		if err != nil {
			return nil, fmt.Errorf("scan wallet: %w", err)
		}
		list = append(list, w)
	}
	return list, rows.Err()
}

func (s *Store) Wallet(ctx context.Context, id int64) (finance.Wallet, error) {
	row := s.db.QueryRowContext(ctx, s.dialect.rebind("SELECT "+walletColumns+" FROM wallets WHERE id = ?"), id)
	w, err := s.scanWallet(row)
	if errors.Is(err, sql.ErrNoRows) {
		return finance.Wallet{}, fmt.Errorf("wallet %d: %w", id, finance.ErrNotFound)
	}
	return w, err
}

// --- Transactions ---

const transactionColumns = "id, wallet_id, amount, is_expense, category, date, description"

func (s *Store) scanTransaction(r rowScanner) (finance.Transaction, error) {
	var (
		tx          finance.Transaction
		wallet      sql.NullInt64
		amount      sql.NullString
		isExpense   sql.NullInt64
		category    sql.NullString
		on          sql.NullInt64
		description sql.NullString
	)
	if err := r.Scan(&tx.ID, &wallet, &amount, &isExpense, &category, &on, &description); err != nil {
		return finance.Transaction{}, err
	}
	m, err := s.money(amount)
	if err != nil {
		return finance.Transaction{}, err
	}
	tx.WalletID = wallet.Int64
	tx.Amount = m
	tx.IsExpense = isExpense.Int64 == 1
	tx.Category = category.String
	tx.Date = fromMillis(on.Int64)
	tx.Description = description.String
	return tx, nil
}

func (s *Store) AddTransaction(ctx context.Context, tx finance.Transaction) (int64, error) {
	return s.insert(ctx, "INSERT INTO transactions (wallet_id, amount, is_expense, category, date, description) VALUES (?, ?, ?, ?, ?, ?)",
		tx.WalletID, amountText(tx.Amount), boolToInt(tx.IsExpense), tx.Category, toMillis(tx.Date), tx.Description)
}

func (s *Store) transactions(ctx context.Context, query string, args ...any) ([]finance.Transaction, error) {
	rows, err := s.query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query transactions: %w", err)
	}
	defer rows.Close()
	list := []finance.Transaction{}
	for rows.Next() {
		tx, err := s.scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		list = append(list, tx)
	}
	return list, rows.Err()
}

func (s *Store) TransactionsForWallet(ctx context.Context, walletID int64) ([]finance.Transaction, error) {
	return s.transactions(ctx, "SELECT "+transactionColumns+" FROM transactions WHERE wallet_id = ? ORDER BY date DESC, id DESC", walletID)
}

func (s *Store) AllTransactions(ctx context.Context) ([]finance.Transaction, error) {
	return s.transactions(ctx, "SELECT "+transactionColumns+" FROM transactions ORDER BY date DESC, id DESC")
}

// --- Debts ---

func (s *Store) AddDebt(ctx context.Context, d finance.Debt) (int64, error) {
	return s.insert(ctx, "INSERT INTO debts (transaction_id, debtor, creditor, amount, is_settled) VALUES (?, ?, ?, ?, ?)",
		d.TransactionID, d.Debtor, d.Creditor, amountText(d.Amount), boolToInt(d.Settled))
}

func (s *Store) debts(ctx context.Context, query string, args ...any) ([]finance.Debt, error) {
	rows, err := s.query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query debts: %w", err)
	}
	defer rows.Close()
	list := []finance.Debt{}
	for rows.Next() {
		var (
			d        finance.Debt
			txID     sql.NullInt64
			debtor   sql.NullString
			creditor sql.NullString
			amount   sql.NullString
			settled  sql.NullInt64
		)
		if err := rows.Scan(&d.ID, &txID, &debtor, &creditor, &amount, &settled); err != nil {
			return nil, fmt.Errorf("scan debt: %w", err)
		}
		if d.Amount, err = s.money(amount); err != nil {
			return nil, err
		}
		d.TransactionID = txID.Int64
		d.Debtor, d.Creditor = debtor.String, creditor.String
		d.Settled = settled.Int64 == 1
		list = append(list, d)
	}
	return list, rows.Err()
}

func (s *Store) DebtsForWallet(ctx context.Context, walletID int64) ([]finance.Debt, error) {
	return s.debts(ctx, `SELECT d.id, d.transaction_id, d.debtor, d.creditor, d.amount, d.is_settled
		FROM debts d
		INNER JOIN transactions t ON d.transaction_id = t.id
		WHERE t.wallet_id = ?
		ORDER BY d.id`, walletID)
}

// Debts lists every debt.
func (s *Store) Debts(ctx context.Context) ([]finance.Debt, error) {
	return s.debts(ctx, "SELECT id, transaction_id, debtor, creditor, amount, is_settled FROM debts ORDER BY id")
}

func (s *Store) SettleDebt(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, s.dialect.rebind("UPDATE debts SET is_settled = 1 WHERE id = ?"), id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("debt %d: %w", id, finance.ErrNotFound)
	}
	return nil
}

// --- Snapshots ---

func (s *Store) AddSnapshot(ctx context.Context, snap finance.InvestmentSnapshot) (int64, error) {
	return s.insert(ctx, "INSERT INTO investment_snapshots (wallet_id, date, total_value, invested_amount) VALUES (?, ?, ?, ?)",
		snap.WalletID, toMillis(snap.Date), amountText(snap.TotalValue), amountText(snap.InvestedAmount))
}

func (s *Store) Snapshots(ctx context.Context, walletID int64) ([]finance.InvestmentSnapshot, error) {
	rows, err := s.query(ctx, "SELECT id, wallet_id, date, total_value, invested_amount FROM investment_snapshots WHERE wallet_id = ? ORDER BY date, id", walletID)
	if err != nil {
		return nil, fmt.Errorf("query snapshots: %w", err)
	}
	defer rows.Close()
	list := []finance.InvestmentSnapshot{}
	for rows.Next() {
		var (
			snap     finance.InvestmentSnapshot
			wallet   sql.NullInt64
			on       sql.NullInt64
			total    sql.NullString
			invested sql.NullString
		)
		if err := rows.Scan(&snap.ID, &wallet, &on, &total, &invested); err != nil {
			return nil, fmt.Errorf("scan snapshot: %w", err)
		}
		if snap.TotalValue, err = s.money(total); err != nil {
			return nil, err
		}
		if snap.InvestedAmount, err = s.money(invested); err != nil {
			return nil, err
		}
		snap.WalletID = wallet.Int64
		snap.Date = fromMillis(on.Int64)
		list = append(list, snap)
	}
	return list, rows.Err()
}
