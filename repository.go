package finance

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/etnz/finance/date"
	"github.com/etnz/finance/logging"
	"go.uber.org/zap"
)

// Store is the persistence of wallets, transactions, debts and snapshots.
//
// Implementations return ErrNotFound (possibly wrapped) when a record addressed
// by ID does not exist, and empty lists when there is nothing to list.
type Store interface {
	AddWallet(ctx context.Context, w Wallet) (int64, error)
	Wallets(ctx context.Context) ([]Wallet, error)
	Wallet(ctx context.Context, id int64) (Wallet, error)

	AddTransaction(ctx context.Context, tx Transaction) (int64, error)
	// TransactionsForWallet lists a wallet transactions, most recent first.
	TransactionsForWallet(ctx context.Context, walletID int64) ([]Transaction, error)
	// AllTransactions lists all transactions, most recent first.
	AllTransactions(ctx context.Context) ([]Transaction, error)

	AddDebt(ctx context.Context, d Debt) (int64, error)
	// DebtsForWallet lists debts created by transactions of the wallet.
	DebtsForWallet(ctx context.Context, walletID int64) ([]Debt, error)
	SettleDebt(ctx context.Context, id int64) error

	AddSnapshot(ctx context.Context, s InvestmentSnapshot) (int64, error)
	// Snapshots lists a wallet snapshots, oldest first.
	Snapshots(ctx context.Context, walletID int64) ([]InvestmentSnapshot, error)
}

// Repository is the entry point to the finance data: a thin layer over the
// Store that adds the derived figures (balances, net worth, spending,
// performance) and the multi-record workflows (splitting an expense,
// recording a valuation).
type Repository struct {
	store    Store
	currency string
	now      func() time.Time
	log      *zap.Logger
}

// Option configures a Repository.
type Option func(*Repository)

// WithCurrency sets the currency of amounts read from the store.
func WithCurrency(cur string) Option {
	return func(r *Repository) { r.currency = strings.ToUpper(cur) }
}

// WithClock replaces time.Now, mostly for tests.
func WithClock(now func() time.Time) Option {
	return func(r *Repository) { r.now = now }
}

// WithLogger sets the logger, the global one is used otherwise.
func WithLogger(l *zap.Logger) Option {
	return func(r *Repository) { r.log = l }
}

// NewRepository creates a repository on top of store.
func NewRepository(store Store, opts ...Option) *Repository {
	r := &Repository{
		store:    store,
		currency: DefaultCurrency,
		now:      time.Now,
		log:      logging.L(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Currency returns the currency used by the repository.
func (r *Repository) Currency() string { return r.currency }

// Now returns the current time according to the repository clock.
func (r *Repository) Now() time.Time { return r.now() }

// --- Wallets ---

// AddWallet creates a wallet and returns its ID.
func (r *Repository) AddWallet(ctx context.Context, name string, t WalletType) (int64, error) {
	name, err := validateWalletName(name)
	if err != nil {
		return 0, err
	}
	id, err := r.store.AddWallet(ctx, Wallet{Name: name, Type: t, CreatedAt: r.now()})
	if err != nil {
		return 0, fmt.Errorf("add wallet %q: %w", name, err)
	}
	r.log.Info("wallet created", zap.Int64("wallet", id), zap.String("name", name), zap.Stringer("type", t))
	return id, nil
}

// Wallets lists all wallets in creation order.
func (r *Repository) Wallets(ctx context.Context) ([]Wallet, error) {
	return r.store.Wallets(ctx)
}

// Wallet returns a wallet by ID.
func (r *Repository) Wallet(ctx context.Context, id int64) (Wallet, error) {
	return r.store.Wallet(ctx, id)
}

// --- Transactions ---

// AddTransaction appends a transaction and returns its ID.
//
// A zero date is replaced by the current time.
func (r *Repository) AddTransaction(ctx context.Context, tx Transaction) (int64, error) {
	if _, err := r.store.Wallet(ctx, tx.WalletID); err != nil {
		return 0, fmt.Errorf("wallet %d: %w", tx.WalletID, err)
	}
	tx.Amount = tx.Amount.Abs().WithCurrency(r.currency)
	if tx.Date.IsZero() {
		tx.Date = r.now()
	}
	id, err := r.store.AddTransaction(ctx, tx)
	if err != nil {
		return 0, fmt.Errorf("add transaction: %w", err)
	}
	r.log.Debug("transaction added", zap.Int64("wallet", tx.WalletID), zap.Int64("transaction", id), zap.Stringer("amount", tx.Signed()))
	return id, nil
}

// TransactionsForWallet lists the transactions of a wallet, most recent first.
func (r *Repository) TransactionsForWallet(ctx context.Context, walletID int64) ([]Transaction, error) {
	return r.store.TransactionsForWallet(ctx, walletID)
}

// AllTransactions lists every transaction, most recent first.
func (r *Repository) AllTransactions(ctx context.Context) ([]Transaction, error) {
	return r.store.AllTransactions(ctx)
}

// --- Debts ---

// AddDebt records a debt and returns its ID.
func (r *Repository) AddDebt(ctx context.Context, d Debt) (int64, error) {
	d.Amount = d.Amount.Abs().WithCurrency(r.currency)
	if d.Creditor == "" {
		d.Creditor = Me
	}
	id, err := r.store.AddDebt(ctx, d)
	if err != nil {
		return 0, fmt.Errorf("add debt of %q: %w", d.Debtor, err)
	}
	return id, nil
}

// DebtsForWallet lists debts created by the wallet transactions.
func (r *Repository) DebtsForWallet(ctx context.Context, walletID int64) ([]Debt, error) {
	return r.store.DebtsForWallet(ctx, walletID)
}

// SettleDebt marks a debt as settled.
func (r *Repository) SettleDebt(ctx context.Context, id int64) error {
	if err := r.store.SettleDebt(ctx, id); err != nil {
		return fmt.Errorf("settle debt %d: %w", id, err)
	}
	r.log.Info("debt settled", zap.Int64("debt", id))
	return nil
}

// --- Investment Snapshots ---

// AddSnapshot appends a valuation snapshot and returns its ID.
func (r *Repository) AddSnapshot(ctx context.Context, s InvestmentSnapshot) (int64, error) {
	s.TotalValue = s.TotalValue.WithCurrency(r.currency)
	s.InvestedAmount = s.InvestedAmount.WithCurrency(r.currency)
	if s.Date.IsZero() {
		s.Date = r.now()
	}
	id, err := r.store.AddSnapshot(ctx, s)
	if err != nil {
		return 0, fmt.Errorf("add snapshot: %w", err)
	}
	return id, nil
}

// Snapshots lists the snapshots of a wallet, oldest first.
func (r *Repository) Snapshots(ctx context.Context, walletID int64) ([]InvestmentSnapshot, error) {
	return r.store.Snapshots(ctx, walletID)
}

// --- Stats & Calculations ---

// WalletBalance returns incomes minus expenses of a wallet.
func (r *Repository) WalletBalance(ctx context.Context, walletID int64) (Money, error) {
	txs, err := r.store.TransactionsForWallet(ctx, walletID)
	if err != nil {
		return Money{}, err
	}
	return Balance(txs).WithCurrency(r.currency), nil
}

// Holding computes the figures of a wallet.
func (r *Repository) Holding(ctx context.Context, w Wallet) (Holding, error) {
	txs, err := r.store.TransactionsForWallet(ctx, w.ID)
	if err != nil {
		return Holding{}, err
	}
	var snaps []InvestmentSnapshot
	if w.Type == Investment {
		if snaps, err = r.store.Snapshots(ctx, w.ID); err != nil {
			return Holding{}, err
		}
	}
	h := NewHolding(w, txs, snaps)
	h.Balance = h.Balance.WithCurrency(r.currency)
	h.Value = h.Value.WithCurrency(r.currency)
	return h, nil
}

// Holdings computes the figures of all wallets.
func (r *Repository) Holdings(ctx context.Context) ([]Holding, error) {
	wallets, err := r.store.Wallets(ctx)
	if err != nil {
		return nil, err
	}
	holdings := make([]Holding, 0, len(wallets))
	for _, w := range wallets {
		h, err := r.Holding(ctx, w)
		if err != nil {
			return nil, fmt.Errorf("wallet %d: %w", w.ID, err)
		}
		holdings = append(holdings, h)
	}
	return holdings, nil
}

// NetWorth sums normal wallet balances and investment wallet current values.
func (r *Repository) NetWorth(ctx context.Context) (Money, error) {
	holdings, err := r.Holdings(ctx)
	if err != nil {
		return Money{}, err
	}
	return NetWorth(holdings).WithCurrency(r.currency), nil
}

// MonthlySpend sums the current calendar month expenses, of one wallet if
// walletID is not nil, of all wallets otherwise.
func (r *Repository) MonthlySpend(ctx context.Context, walletID *int64) (Money, error) {
	var txs []Transaction
	var err error
	if walletID != nil {
		txs, err = r.store.TransactionsForWallet(ctx, *walletID)
	} else {
		txs, err = r.store.AllTransactions(ctx)
	}
	if err != nil {
		return Money{}, err
	}
	return MonthlySpend(txs, r.now()).WithCurrency(r.currency), nil
}

// InvestmentPerformance returns the profit and return of the latest snapshot
// of a wallet, zero when it has none.
func (r *Repository) InvestmentPerformance(ctx context.Context, walletID int64) (Performance, error) {
	snaps, err := r.store.Snapshots(ctx, walletID)
	if err != nil {
		return Performance{}, err
	}
	p := EvaluatePerformance(snaps)
	p.Invested = p.Invested.WithCurrency(r.currency)
	p.Value = p.Value.WithCurrency(r.currency)
	p.Profit = p.Profit.WithCurrency(r.currency)
	return p, nil
}

// --- Workflows ---

// RecordTransaction appends an expense or an income dated now.
func (r *Repository) RecordTransaction(ctx context.Context, walletID int64, amount Money, isExpense bool, category, description string) (Transaction, error) {
	tx := Transaction{
		WalletID:    walletID,
		Amount:      amount,
		IsExpense:   isExpense,
		Category:    strings.TrimSpace(category),
		Description: strings.TrimSpace(description),
		Date:        r.now(),
	}
	id, err := r.AddTransaction(ctx, tx)
	if err != nil {
		return Transaction{}, err
	}
	tx.ID = id
	tx.Amount = tx.Amount.Abs().WithCurrency(r.currency)
	return tx, nil
}

// RecordSplitExpense records an expense paid in full and shared equally with
// friends: the full amount leaves the wallet, and each friend owes me a share.
//
// With no friend it is a plain expense.
func (r *Repository) RecordSplitExpense(ctx context.Context, walletID int64, amount Money, category, description string, friends []string) (Transaction, []Debt, error) {
	friends = normalizeFriends(friends)
	if len(friends) == 0 {
		tx, err := r.RecordTransaction(ctx, walletID, amount, true, category, description)
		return tx, nil, err
	}
	w, err := r.store.Wallet(ctx, walletID)
	if err != nil {
		return Transaction{}, nil, fmt.Errorf("wallet %d: %w", walletID, err)
	}
	if w.Type != Normal {
		return Transaction{}, nil, fmt.Errorf("%w: cannot split an expense in %s wallet %q", ErrInvalid, w.Type, w.Name)
	}

	desc := fmt.Sprintf("%s (Split with %s)", strings.TrimSpace(description), strings.Join(friends, ", "))
	tx, err := r.RecordTransaction(ctx, walletID, amount, true, category, desc)
	if err != nil {
		return Transaction{}, nil, err
	}

	_, debts := SplitExpense(tx.Amount, friends)
	for i := range debts {
		debts[i].TransactionID = tx.ID
		id, err := r.AddDebt(ctx, debts[i])
		if err != nil {
			return tx, debts[:i], err
		}
		debts[i].ID = id
		debts[i].Amount = debts[i].Amount.WithCurrency(r.currency)
	}
	r.log.Info("expense split", zap.Int64("transaction", tx.ID), zap.Strings("friends", friends), zap.Stringer("amount", tx.Amount))
	return tx, debts, nil
}

// investmentWallet returns the wallet if it is an investment one.
func (r *Repository) investmentWallet(ctx context.Context, walletID int64) (Wallet, error) {
	w, err := r.store.Wallet(ctx, walletID)
	if err != nil {
		return Wallet{}, fmt.Errorf("wallet %d: %w", walletID, err)
	}
	if w.Type != Investment {
		return Wallet{}, fmt.Errorf("%w: wallet %q is not an investment wallet", ErrInvalid, w.Name)
	}
	return w, nil
}

// DepositCapital records money put into an investment wallet.
func (r *Repository) DepositCapital(ctx context.Context, walletID int64, amount Money) (Transaction, error) {
	return r.moveCapital(ctx, NewDeposit(walletID, r.now(), amount))
}

// WithdrawCapital records money taken out of an investment wallet.
func (r *Repository) WithdrawCapital(ctx context.Context, walletID int64, amount Money) (Transaction, error) {
	return r.moveCapital(ctx, NewWithdrawal(walletID, r.now(), amount))
}

func (r *Repository) moveCapital(ctx context.Context, tx Transaction) (Transaction, error) {
	if _, err := r.investmentWallet(ctx, tx.WalletID); err != nil {
		return Transaction{}, err
	}
	id, err := r.AddTransaction(ctx, tx)
	if err != nil {
		return Transaction{}, err
	}
	tx.ID = id
	tx.Amount = tx.Amount.WithCurrency(r.currency)
	return tx, nil
}

// UpdateValuation records the current total value of an investment wallet.
// The invested amount is captured from the wallet balance at this moment.
func (r *Repository) UpdateValuation(ctx context.Context, walletID int64, value Money) (InvestmentSnapshot, error) {
	if _, err := r.investmentWallet(ctx, walletID); err != nil {
		return InvestmentSnapshot{}, err
	}
	invested, err := r.WalletBalance(ctx, walletID)
	if err != nil {
		return InvestmentSnapshot{}, err
	}
	s := InvestmentSnapshot{
		WalletID:       walletID,
		Date:           r.now(),
		TotalValue:     value.WithCurrency(r.currency),
		InvestedAmount: invested,
	}
	id, err := r.AddSnapshot(ctx, s)
	if err != nil {
		return InvestmentSnapshot{}, err
	}
	s.ID = id
	r.log.Info("valuation updated", zap.Int64("wallet", walletID), zap.Stringer("value", s.TotalValue), zap.Stringer("invested", s.InvestedAmount))
	return s, nil
}

// --- Screens ---

// Home is the finance home screen: every wallet and the net worth.
type Home struct {
	Holdings     []Holding `json:"holdings"`
	NetWorth     Money     `json:"netWorth"`
	MonthlySpend Money     `json:"monthlySpend"`
}

// Home computes the finance home screen.
func (r *Repository) Home(ctx context.Context) (Home, error) {
	holdings, err := r.Holdings(ctx)
	if err != nil {
		return Home{}, err
	}
	spend, err := r.MonthlySpend(ctx, nil)
	if err != nil {
		return Home{}, err
	}
	return Home{
		Holdings:     holdings,
		NetWorth:     NetWorth(holdings).WithCurrency(r.currency),
		MonthlySpend: spend,
	}, nil
}

// WalletDetail is the content of a wallet screen.
type WalletDetail struct {
	Holding      Holding              `json:"holding"`
	Transactions []Transaction        `json:"transactions"`
	Debts        []Debt               `json:"debts,omitempty"`
	Snapshots    []InvestmentSnapshot `json:"snapshots,omitempty"`
	MonthlySpend Money                `json:"monthlySpend"`
}

// WalletDetail computes the content of a wallet screen.
func (r *Repository) WalletDetail(ctx context.Context, walletID int64) (WalletDetail, error) {
	w, err := r.store.Wallet(ctx, walletID)
	if err != nil {
		return WalletDetail{}, fmt.Errorf("wallet %d: %w", walletID, err)
	}
	d := WalletDetail{}
	if d.Transactions, err = r.store.TransactionsForWallet(ctx, walletID); err != nil {
		return WalletDetail{}, err
	}
	switch w.Type {
	case Normal:
		if d.Debts, err = r.store.DebtsForWallet(ctx, walletID); err != nil {
			return WalletDetail{}, err
		}
	case Investment:
		if d.Snapshots, err = r.store.Snapshots(ctx, walletID); err != nil {
			return WalletDetail{}, err
		}
	}
	d.Holding = NewHolding(w, d.Transactions, d.Snapshots)
	d.Holding.Balance = d.Holding.Balance.WithCurrency(r.currency)
	d.Holding.Value = d.Holding.Value.WithCurrency(r.currency)
	d.MonthlySpend = MonthlySpend(d.Transactions, r.now()).WithCurrency(r.currency)
	return d, nil
}

// Stats is the spending statistics screen.
type Stats struct {
	Range      *date.Range     `json:"range,omitempty"`
	Total      Money           `json:"total"`
	Categories []CategoryTotal `json:"categories"`
}

// SpendingStats breaks down the expenses of normal wallets by category.
// Investment wallets only move capital and are left out.
//
// If within is not nil only transactions dated in that range are counted.
func (r *Repository) SpendingStats(ctx context.Context, within *date.Range) (Stats, error) {
	wallets, err := r.store.Wallets(ctx)
	if err != nil {
		return Stats{}, err
	}
	var txs []Transaction
	for _, w := range wallets {
		if w.Type != Normal {
			continue
		}
		wtxs, err := r.store.TransactionsForWallet(ctx, w.ID)
		if err != nil {
			return Stats{}, fmt.Errorf("wallet %d: %w", w.ID, err)
		}
		for _, tx := range wtxs {
			if within == nil || within.Contains(date.FromTime(tx.Date.In(r.now().Location()))) {
				txs = append(txs, tx)
			}
		}
	}
	cats := CategorySpend(txs)
	for i := range cats {
		cats[i].Amount = cats[i].Amount.WithCurrency(r.currency)
	}
	return Stats{
		Range:      within,
		Total:      TotalSpend(txs).WithCurrency(r.currency),
		Categories: cats,
	}, nil
}
