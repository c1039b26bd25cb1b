package finance

import (
	"bufio"
	"cmp"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// this file contains functions to handle the import/export format.
// It should remain human readable, single file and be easy to merge into a database.
//
// The format is a JSONL file. Each line is a JSON object whose property
// "record" tells what it holds: one "export" header first, then wallets,
// transactions, debts and snapshots. Amounts are plain numbers in the header
// currency, times are RFC 3339.

// DumpVersion is the version of the import/export format.
const DumpVersion = 1

// Record kinds of the import/export format.
const (
	recordExport      = "export"
	recordWallet      = "wallet"
	recordTransaction = "transaction"
	recordDebt        = "debt"
	recordSnapshot    = "snapshot"
)

// Dump is the whole content of a repository.
type Dump struct {
	Batch        string // unique ID of the export
	Currency     string
	ExportedAt   time.Time
	Wallets      []Wallet
	Transactions []Transaction
	Debts        []Debt
	Snapshots    []InvestmentSnapshot
}

// ImportSummary counts the records created by an import.
type ImportSummary struct {
	Batch         string `json:"batch"`
	Wallets       int    `json:"wallets"`
	ReusedWallets int    `json:"reusedWallets"`
	Transactions  int    `json:"transactions"`
	Debts         int    `json:"debts"`
	Snapshots     int    `json:"snapshots"`
}

// Dump reads every record of the repository.
//
// Transactions and snapshots are ordered oldest first.
func (r *Repository) Dump(ctx context.Context) (*Dump, error) {
	d := &Dump{
		Batch:      uuid.NewString(),
		Currency:   r.currency,
		ExportedAt: r.now(),
	}
	var err error
	if d.Wallets, err = r.store.Wallets(ctx); err != nil {
		return nil, err
	}
	if d.Transactions, err = r.store.AllTransactions(ctx); err != nil {
		return nil, err
	}
	slices.SortStableFunc(d.Transactions, func(a, b Transaction) int {
		if c := a.Date.Compare(b.Date); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})
	for _, w := range d.Wallets {
		debts, err := r.store.DebtsForWallet(ctx, w.ID)
		if err != nil {
			return nil, fmt.Errorf("wallet %d: %w", w.ID, err)
		}
		d.Debts = append(d.Debts, debts...)
		snaps, err := r.store.Snapshots(ctx, w.ID)
		if err != nil {
			return nil, fmt.Errorf("wallet %d: %w", w.ID, err)
		}
		d.Snapshots = append(d.Snapshots, snaps...)
	}
	slices.SortStableFunc(d.Debts, func(a, b Debt) int { return cmp.Compare(a.ID, b.ID) })
	return d, nil
}

// EncodeDump writes d to w in the import/export format.
func EncodeDump(w io.Writer, d *Dump) error {
	decimal.MarshalJSONWithoutQuotes = true

	lines := make([]*jsonObjectWriter, 0, 1+len(d.Wallets)+len(d.Transactions)+len(d.Debts)+len(d.Snapshots))
	record := func(kind string) *jsonObjectWriter {
		l := new(jsonObjectWriter)
		l.Append("record", kind)
		lines = append(lines, l)
		return l
	}

	record(recordExport).
		Append("version", DumpVersion).
		Append("batch", d.Batch).
		Append("currency", d.Currency).
		Append("exportedAt", d.ExportedAt)
	for _, wa := range d.Wallets {
		record(recordWallet).
			Append("id", wa.ID).
			Append("name", wa.Name).
			Append("type", wa.Type).
			Append("createdAt", wa.CreatedAt)
	}
	for _, tx := range d.Transactions {
		record(recordTransaction).
			Append("id", tx.ID).
			Append("walletId", tx.WalletID).
			Append("date", tx.Date).
			Append("expense", tx.IsExpense).
			Append("amount", tx.Amount.Decimal()).
			Append("category", tx.Category).
			Optional("description", tx.Description)
	}
	for _, debt := range d.Debts {
		record(recordDebt).
			Append("id", debt.ID).
			Append("transactionId", debt.TransactionID).
			Append("debtor", debt.Debtor).
			Append("creditor", debt.Creditor).
			Append("amount", debt.Amount.Decimal()).
			Optional("settled", debt.Settled)
	}
	for _, s := range d.Snapshots {
		record(recordSnapshot).
			Append("id", s.ID).
			Append("walletId", s.WalletID).
			Append("date", s.Date).
			Append("totalValue", s.TotalValue.Decimal()).
			Append("investedAmount", s.InvestedAmount.Decimal())
	}

	for _, l := range lines {
		data, err := l.MarshalJSON()
		if err != nil {
			return err
		}
		if _, err := w.Write(append(data, '\n')); err != nil {
			return fmt.Errorf("cannot write export format: %w", err)
		}
	}
	return nil
}

// DecodeDump reads the import/export format.
//
// Amounts get the currency of the export header, or currency if the header
// has none.
func DecodeDump(r io.Reader, currency string) (*Dump, error) {
	d := &Dump{Currency: strings.ToUpper(currency)}
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	n := 0
	for scanner.Scan() {
		n++
		line := scanner.Bytes()
		if len(strings.TrimSpace(string(line))) == 0 {
			continue
		}

		var identifier struct {
			Record string `json:"record"`
		}
		if err := json.Unmarshal(line, &identifier); err != nil {
			return nil, fmt.Errorf("line %d: not a correct json: %w", n, err)
		}

		var err error
		switch identifier.Record {
		case recordExport:
			var temp struct {
				Version    int       `json:"version"`
				Batch      string    `json:"batch"`
				Currency   string    `json:"currency"`
				ExportedAt time.Time `json:"exportedAt"`
			}
			if err = json.Unmarshal(line, &temp); err != nil {
				break
			}
			if temp.Version > DumpVersion {
				return nil, fmt.Errorf("line %d: %w: export version %d is newer than %d", n, ErrInvalid, temp.Version, DumpVersion)
			}
			d.Batch, d.ExportedAt = temp.Batch, temp.ExportedAt
			if temp.Currency != "" {
				d.Currency = strings.ToUpper(temp.Currency)
			}
		case recordWallet:
			var wa Wallet
			if err = json.Unmarshal(line, &wa); err != nil {
				break
			}
			d.Wallets = append(d.Wallets, wa)
		case recordTransaction:
			var temp struct {
				ID          int64           `json:"id"`
				WalletID    int64           `json:"walletId"`
				Date        time.Time       `json:"date"`
				Expense     bool            `json:"expense"`
				Amount      decimal.Decimal `json:"amount"`
				Category    string          `json:"category"`
				Description string          `json:"description"`
			}
			if err = json.Unmarshal(line, &temp); err != nil {
				break
			}
			d.Transactions = append(d.Transactions, Transaction{
				ID:          temp.ID,
				WalletID:    temp.WalletID,
				Amount:      M(temp.Amount.Abs(), d.Currency),
				IsExpense:   temp.Expense,
				Category:    temp.Category,
				Description: temp.Description,
				Date:        temp.Date,
			})
		case recordDebt:
			var temp struct {
				ID            int64           `json:"id"`
				TransactionID int64           `json:"transactionId"`
				Debtor        string          `json:"debtor"`
				Creditor      string          `json:"creditor"`
				Amount        decimal.Decimal `json:"amount"`
				Settled       bool            `json:"settled"`
			}
			if err = json.Unmarshal(line, &temp); err != nil {
				break
			}
			d.Debts = append(d.Debts, Debt{
				ID:            temp.ID,
				TransactionID: temp.TransactionID,
				Debtor:        temp.Debtor,
				Creditor:      temp.Creditor,
				Amount:        M(temp.Amount.Abs(), d.Currency),
				Settled:       temp.Settled,
			})
		case recordSnapshot:
			var temp struct {
				ID             int64           `json:"id"`
				WalletID       int64           `json:"walletId"`
				Date           time.Time       `json:"date"`
				TotalValue     decimal.Decimal `json:"totalValue"`
				InvestedAmount decimal.Decimal `json:"investedAmount"`
			}
			if err = json.Unmarshal(line, &temp); err != nil {
				break
			}
			d.Snapshots = append(d.Snapshots, InvestmentSnapshot{
				ID:             temp.ID,
				WalletID:       temp.WalletID,
				Date:           temp.Date,
				TotalValue:     M(temp.TotalValue, d.Currency),
				InvestedAmount: M(temp.InvestedAmount, d.Currency),
			})
		default:
			err = fmt.Errorf("%w: unknown record %q", ErrInvalid, identifier.Record)
		}
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", n, err)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading from input: %w", err)
	}
	return d, nil
}

// check verifies that every reference of the dump points to a record of the
// dump.
func (d *Dump) check() error {
	wallets := make(map[int64]bool, len(d.Wallets))
	for _, w := range d.Wallets {
		if _, err := validateWalletName(w.Name); err != nil {
			return fmt.Errorf("wallet %d: %w", w.ID, err)
		}
		wallets[w.ID] = true
	}
	txs := make(map[int64]bool, len(d.Transactions))
	for _, tx := range d.Transactions {
		if !wallets[tx.WalletID] {
			return fmt.Errorf("%w: transaction %d refers to unknown wallet %d", ErrInvalid, tx.ID, tx.WalletID)
		}
		txs[tx.ID] = true
	}
	for _, debt := range d.Debts {
		if !txs[debt.TransactionID] {
			return fmt.Errorf("%w: debt %d refers to unknown transaction %d", ErrInvalid, debt.ID, debt.TransactionID)
		}
	}
	for _, s := range d.Snapshots {
		if !wallets[s.WalletID] {
			return fmt.Errorf("%w: snapshot %d refers to unknown wallet %d", ErrInvalid, s.ID, s.WalletID)
		}
	}
	return nil
}

// Restore appends the records of d to the repository.
//
// IDs are reassigned by the store. A wallet with the same name and type as an
// existing one is reused instead of created, so that the default wallet is
// merged. The dump is checked before anything is written, and must be in the
// repository currency: amounts are never converted.
func (r *Repository) Restore(ctx context.Context, d *Dump) (ImportSummary, error) {
	sum := ImportSummary{Batch: d.Batch}
	if d.Currency != "" && !strings.EqualFold(d.Currency, r.currency) {
		return sum, fmt.Errorf("%w: dump amounts are in %s, not %s", ErrInvalid, strings.ToUpper(d.Currency), r.currency)
	}
	if err := d.check(); err != nil {
		return sum, err
	}

	existing, err := r.store.Wallets(ctx)
	if err != nil {
		return sum, err
	}
	wallets := make(map[int64]int64, len(d.Wallets))
	for _, w := range d.Wallets {
		name, _ := validateWalletName(w.Name)
		i := slices.IndexFunc(existing, func(e Wallet) bool { return e.Name == name && e.Type == w.Type })
		if i >= 0 {
			wallets[w.ID] = existing[i].ID
			sum.ReusedWallets++
			continue
		}
		w.Name = name
		id, err := r.store.AddWallet(ctx, w)
		if err != nil {
			return sum, fmt.Errorf("add wallet %q: %w", name, err)
		}
		wallets[w.ID] = id
		existing = append(existing, Wallet{ID: id, Name: name, Type: w.Type})
		sum.Wallets++
	}

	txs := make(map[int64]int64, len(d.Transactions))
	for _, tx := range d.Transactions {
		old := tx.ID
		tx.WalletID = wallets[tx.WalletID]
		id, err := r.AddTransaction(ctx, tx)
		if err != nil {
			return sum, err
		}
		txs[old] = id
		sum.Transactions++
	}

	for _, debt := range d.Debts {
		debt.TransactionID = txs[debt.TransactionID]
		id, err := r.AddDebt(ctx, debt)
		if err != nil {
			return sum, err
		}
		if debt.Settled {
			if err := r.store.SettleDebt(ctx, id); err != nil {
				return sum, fmt.Errorf("settle debt %d: %w", id, err)
			}
		}
		sum.Debts++
	}

	for _, s := range d.Snapshots {
		s.WalletID = wallets[s.WalletID]
		if _, err := r.AddSnapshot(ctx, s); err != nil {
			return sum, err
		}
		sum.Snapshots++
	}

	r.log.Info("import done",
		zap.String("batch", sum.Batch),
		zap.Int("wallets", sum.Wallets),
		zap.Int("transactions", sum.Transactions),
		zap.Int("debts", sum.Debts),
		zap.Int("snapshots", sum.Snapshots))
	return sum, nil
}

// Export writes the whole repository to w in the import/export format.
func (r *Repository) Export(ctx context.Context, w io.Writer) (*Dump, error) {
	d, err := r.Dump(ctx)
	if err != nil {
		return nil, err
	}
	if err := EncodeDump(w, d); err != nil {
		return nil, err
	}
	r.log.Info("export done", zap.String("batch", d.Batch), zap.Int("transactions", len(d.Transactions)))
	return d, nil
}

// Import reads the import/export format from rd and appends its records to
// the repository.
func (r *Repository) Import(ctx context.Context, rd io.Reader) (ImportSummary, error) {
	d, err := DecodeDump(rd, r.currency)
	if err != nil {
		return ImportSummary{}, err
	}
	return r.Restore(ctx, d)
}
