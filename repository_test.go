package finance

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/etnz/finance/date"
)

func newTestRepository(t *testing.T) (*Repository, *memStore) {
	t.Helper()
	store := newMemStore()
	return NewRepository(store, WithClock(func() time.Time { return march })), store
}

func mustAddWallet(t *testing.T, r *Repository, name string, typ WalletType) int64 {
	t.Helper()
	id, err := r.AddWallet(context.Background(), name, typ)
	if err != nil {
		t.Fatalf("AddWallet(%q) failed: %v", name, err)
	}
	return id
}

func TestRepository_AddWallet(t *testing.T) {
	ctx := context.Background()
	r, _ := newTestRepository(t)

	id := mustAddWallet(t, r, "  Broker  ", Investment)
	w, err := r.Wallet(ctx, id)
	if err != nil {
		t.Fatalf("Wallet(%d) failed: %v", id, err)
	}
	if w.Name != "Broker" || w.Type != Investment || !w.CreatedAt.Equal(march) {
		t.Errorf("Wallet(%d) = %+v, want trimmed investment wallet created at %v", id, w, march)
	}

	if _, err := r.AddWallet(ctx, "   ", Normal); !errors.Is(err, ErrInvalid) {
		t.Errorf("AddWallet(blank) error = %v, want ErrInvalid", err)
	}

	wallets, err := r.Wallets(ctx)
	if err != nil {
		t.Fatalf("Wallets() failed: %v", err)
	}
	if len(wallets) != 2 || wallets[0].Name != MainWalletName {
		t.Errorf("Wallets() = %+v, want main wallet then Broker", wallets)
	}

	if _, err := r.Wallet(ctx, 99); !errors.Is(err, ErrNotFound) {
		t.Errorf("Wallet(99) error = %v, want ErrNotFound", err)
	}
}

func TestRepository_RecordTransaction(t *testing.T) {
	ctx := context.Background()
	r, _ := newTestRepository(t)

	if _, err := r.RecordTransaction(ctx, 1, USD(100), false, "Salary", ""); err != nil {
		t.Fatal(err)
	}
	tx, err := r.RecordTransaction(ctx, 1, M(-40, ""), true, " Food ", " lunch ")
	if err != nil {
		t.Fatal(err)
	}
	if tx.ID == 0 || !tx.Amount.Equal(USD(40)) || tx.Category != "Food" || tx.Description != "lunch" || !tx.Date.Equal(march) {
		t.Errorf("RecordTransaction() = %+v", tx)
	}

	got, err := r.WalletBalance(ctx, 1)
	if err != nil {
		t.Fatal(err)
	}
	if !got.Equal(USD(60)) {
		t.Errorf("WalletBalance() = %v, want 60", got)
	}

	if _, err := r.RecordTransaction(ctx, 42, USD(1), true, "Food", ""); !errors.Is(err, ErrNotFound) {
		t.Errorf("RecordTransaction(unknown wallet) error = %v, want ErrNotFound", err)
	}

	txs, err := r.TransactionsForWallet(ctx, 1)
	if err != nil {
		t.Fatal(err)
	}
	if len(txs) != 2 || txs[0].ID != tx.ID {
		t.Errorf("TransactionsForWallet() = %+v, want the expense first", txs)
	}
}

func TestRepository_AddTransaction_DefaultsDate(t *testing.T) {
	ctx := context.Background()
	r, store := newTestRepository(t)
	if _, err := r.AddTransaction(ctx, Transaction{WalletID: 1, Amount: USD(3), Category: "Gift"}); err != nil {
		t.Fatal(err)
	}
	if got := store.txs[0].Date; !got.Equal(march) {
		t.Errorf("stored date = %v, want %v", got, march)
	}
}

func TestRepository_NetWorth(t *testing.T) {
	ctx := context.Background()
	r, _ := newTestRepository(t)
	broker := mustAddWallet(t, r, "Broker", Investment)

	r.RecordTransaction(ctx, 1, USD(100), false, "Salary", "")
	r.RecordTransaction(ctx, 1, USD(40), true, "Food", "")
	r.DepositCapital(ctx, broker, USD(1000))
	r.DepositCapital(ctx, broker, USD(500))
	r.WithdrawCapital(ctx, broker, USD(200))

	got, err := r.NetWorth(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if !got.Equal(USD(1360)) {
		t.Errorf("NetWorth() before valuation = %v, want 1360", got)
	}

	snap, err := r.UpdateValuation(ctx, broker, USD(1400))
	if err != nil {
		t.Fatal(err)
	}
	if !snap.InvestedAmount.Equal(USD(1300)) || !snap.TotalValue.Equal(USD(1400)) {
		t.Errorf("UpdateValuation() = %+v, want invested 1300 and value 1400", snap)
	}

	got, err = r.NetWorth(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if !got.Equal(USD(1460)) {
		t.Errorf("NetWorth() = %v, want 1460", got)
	}

	perf, err := r.InvestmentPerformance(ctx, broker)
	if err != nil {
		t.Fatal(err)
	}
	if !perf.Profit.Equal(USD(100)) || !perf.ROI.Equal(7.6923) {
		t.Errorf("InvestmentPerformance() = %+v, want profit 100 and ROI 7.69%%", perf)
	}
}

func TestRepository_CapitalNeedsInvestmentWallet(t *testing.T) {
	ctx := context.Background()
	r, _ := newTestRepository(t)

	if _, err := r.DepositCapital(ctx, 1, USD(10)); !errors.Is(err, ErrInvalid) {
		t.Errorf("DepositCapital(normal wallet) error = %v, want ErrInvalid", err)
	}
	if _, err := r.WithdrawCapital(ctx, 1, USD(10)); !errors.Is(err, ErrInvalid) {
		t.Errorf("WithdrawCapital(normal wallet) error = %v, want ErrInvalid", err)
	}
	if _, err := r.UpdateValuation(ctx, 1, USD(10)); !errors.Is(err, ErrInvalid) {
		t.Errorf("UpdateValuation(normal wallet) error = %v, want ErrInvalid", err)
	}
	if _, err := r.DepositCapital(ctx, 77, USD(10)); !errors.Is(err, ErrNotFound) {
		t.Errorf("DepositCapital(unknown wallet) error = %v, want ErrNotFound", err)
	}
}

func TestRepository_Capital(t *testing.T) {
	ctx := context.Background()
	r, _ := newTestRepository(t)
	broker := mustAddWallet(t, r, "Broker", Investment)

	dep, err := r.DepositCapital(ctx, broker, USD(-250))
	if err != nil {
		t.Fatal(err)
	}
	if dep.IsExpense || dep.Category != CategoryInvestmentCapital || dep.Description != "Deposit" || !dep.Amount.Equal(USD(250)) {
		t.Errorf("DepositCapital() = %+v", dep)
	}
	wd, err := r.WithdrawCapital(ctx, broker, USD(50))
	if err != nil {
		t.Fatal(err)
	}
	if !wd.IsExpense || wd.Description != "Withdrawal" || wd.Kind() != "Withdrawn" {
		t.Errorf("WithdrawCapital() = %+v", wd)
	}
	bal, err := r.WalletBalance(ctx, broker)
	if err != nil {
		t.Fatal(err)
	}
	if !bal.Equal(USD(200)) {
		t.Errorf("WalletBalance() = %v, want 200", bal)
	}
}

func TestRepository_RecordSplitExpense(t *testing.T) {
	ctx := context.Background()
	r, _ := newTestRepository(t)

	tx, debts, err := r.RecordSplitExpense(ctx, 1, USD(100), "Food", "Dinner", []string{"Alice", "Bob"})
	if err != nil {
		t.Fatal(err)
	}
	if !tx.Amount.Equal(USD(100)) || !tx.IsExpense {
		t.Errorf("split transaction = %+v, want an expense of the full amount", tx)
	}
	if tx.Description != "Dinner (Split with Alice, Bob)" {
		t.Errorf("description = %q", tx.Description)
	}
	if len(debts) != 2 {
		t.Fatalf("got %d debts, want 2", len(debts))
	}

	// debts must be persisted, not only returned.
	stored, err := r.DebtsForWallet(ctx, 1)
	if err != nil {
		t.Fatal(err)
	}
	if len(stored) != 2 {
		t.Fatalf("DebtsForWallet() = %+v, want 2 debts", stored)
	}
	third := USD(100).DivInt(3)
	for i, d := range stored {
		if d.ID != debts[i].ID || d.TransactionID != tx.ID || d.Creditor != Me || d.Settled || !d.Amount.Equal(third) {
			t.Errorf("stored debt %d = %+v, want %+v", i, d, debts[i])
		}
	}

	if err := r.SettleDebt(ctx, stored[0].ID); err != nil {
		t.Fatal(err)
	}
	stored, _ = r.DebtsForWallet(ctx, 1)
	if !stored[0].Settled || stored[1].Settled {
		t.Errorf("after settle, debts = %+v", stored)
	}
	if got := Outstanding(stored); !got.Equal(third) {
		t.Errorf("Outstanding() = %v, want %v", got, third)
	}

	if err := r.SettleDebt(ctx, 999); !errors.Is(err, ErrNotFound) {
		t.Errorf("SettleDebt(999) error = %v, want ErrNotFound", err)
	}
}

func TestRepository_RecordSplitExpense_NoFriend(t *testing.T) {
	ctx := context.Background()
	r, store := newTestRepository(t)

	tx, debts, err := r.RecordSplitExpense(ctx, 1, USD(12), "Food", "Snack", []string{" ", "Me"})
	if err != nil {
		t.Fatal(err)
	}
	if len(debts) != 0 || len(store.debts) != 0 {
		t.Errorf("got debts %+v, want none", debts)
	}
	if tx.Description != "Snack" {
		t.Errorf("description = %q, want plain description", tx.Description)
	}
}

func TestRepository_RecordSplitExpense_InvestmentWallet(t *testing.T) {
	ctx := context.Background()
	r, store := newTestRepository(t)
	broker := mustAddWallet(t, r, "Broker", Investment)

	_, _, err := r.RecordSplitExpense(ctx, broker, USD(12), "Food", "", []string{"Alice"})
	if !errors.Is(err, ErrInvalid) {
		t.Errorf("RecordSplitExpense(investment) error = %v, want ErrInvalid", err)
	}
	if len(store.txs) != 0 {
		t.Errorf("a transaction was recorded: %+v", store.txs)
	}
}

func TestRepository_MonthlySpend(t *testing.T) {
	ctx := context.Background()
	r, _ := newTestRepository(t)
	savings := mustAddWallet(t, r, "Savings", Normal)

	r.AddTransaction(ctx, NewExpense(1, at(2025, time.March, 2), USD(30), "Food", ""))
	r.AddTransaction(ctx, NewExpense(1, at(2025, time.March, 3), USD(500), CategoryInvestment, ""))
	r.AddTransaction(ctx, NewExpense(1, at(2025, time.February, 3), USD(70), "Food", ""))
	r.AddTransaction(ctx, NewExpense(savings, at(2025, time.March, 9), USD(12), "Bank", ""))

	all, err := r.MonthlySpend(ctx, nil)
	if err != nil {
		t.Fatal(err)
	}
	if !all.Equal(USD(42)) {
		t.Errorf("MonthlySpend(all) = %v, want 42", all)
	}
	main := int64(1)
	one, err := r.MonthlySpend(ctx, &main)
	if err != nil {
		t.Fatal(err)
	}
	if !one.Equal(USD(30)) {
		t.Errorf("MonthlySpend(main) = %v, want 30", one)
	}
}

func TestRepository_Home(t *testing.T) {
	ctx := context.Background()
	r, _ := newTestRepository(t)
	broker := mustAddWallet(t, r, "Broker", Investment)
	r.RecordTransaction(ctx, 1, USD(100), false, "Salary", "")
	r.RecordTransaction(ctx, 1, USD(40), true, "Food", "")
	r.DepositCapital(ctx, broker, USD(1300))
	r.UpdateValuation(ctx, broker, USD(1400))

	home, err := r.Home(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(home.Holdings) != 2 {
		t.Fatalf("Home().Holdings = %+v, want 2", home.Holdings)
	}
	if h := home.Holdings[0]; h.Performance != nil || !h.Value.Equal(USD(60)) {
		t.Errorf("main holding = %+v", h)
	}
	if h := home.Holdings[1]; h.Performance == nil || !h.Value.Equal(USD(1400)) || !h.Balance.Equal(USD(1300)) {
		t.Errorf("broker holding = %+v", h)
	}
	if !home.NetWorth.Equal(USD(1460)) || !home.MonthlySpend.Equal(USD(40)) {
		t.Errorf("Home() = net worth %v, spend %v; want 1460 and 40", home.NetWorth, home.MonthlySpend)
	}
}

func TestRepository_WalletDetail(t *testing.T) {
	ctx := context.Background()
	r, _ := newTestRepository(t)
	broker := mustAddWallet(t, r, "Broker", Investment)
	r.RecordSplitExpense(ctx, 1, USD(60), "Food", "Pizza", []string{"Alice"})
	r.DepositCapital(ctx, broker, USD(100))
	r.UpdateValuation(ctx, broker, USD(90))

	main, err := r.WalletDetail(ctx, 1)
	if err != nil {
		t.Fatal(err)
	}
	if len(main.Transactions) != 1 || len(main.Debts) != 1 || len(main.Snapshots) != 0 {
		t.Errorf("WalletDetail(main) = %+v", main)
	}
	if !main.MonthlySpend.Equal(USD(60)) || !main.Holding.Balance.Equal(USD(-60)) {
		t.Errorf("WalletDetail(main) spend %v balance %v", main.MonthlySpend, main.Holding.Balance)
	}

	inv, err := r.WalletDetail(ctx, broker)
	if err != nil {
		t.Fatal(err)
	}
	if len(inv.Snapshots) != 1 || len(inv.Debts) != 0 || inv.Holding.Performance == nil {
		t.Fatalf("WalletDetail(broker) = %+v", inv)
	}
	if !inv.Holding.Performance.ROI.Equal(-10) {
		t.Errorf("ROI = %v, want -10%%", inv.Holding.Performance.ROI)
	}

	if _, err := r.WalletDetail(ctx, 1234); !errors.Is(err, ErrNotFound) {
		t.Errorf("WalletDetail(1234) error = %v, want ErrNotFound", err)
	}
}

func TestRepository_SpendingStats(t *testing.T) {
	ctx := context.Background()
	r, _ := newTestRepository(t)
	broker := mustAddWallet(t, r, "Broker", Investment)
	r.AddTransaction(ctx, NewExpense(1, at(2025, time.March, 2), USD(30), "Food", ""))
	r.AddTransaction(ctx, NewExpense(1, at(2025, time.March, 5), USD(80), "Rent", ""))
	r.AddTransaction(ctx, NewExpense(1, at(2025, time.January, 5), USD(20), "Food", ""))
	r.AddTransaction(ctx, NewIncome(1, at(2025, time.March, 1), USD(900), "Salary", ""))
	r.WithdrawCapital(ctx, broker, USD(1000))

	stats, err := r.SpendingStats(ctx, nil)
	if err != nil {
		t.Fatal(err)
	}
	if !stats.Total.Equal(USD(130)) || len(stats.Categories) != 2 {
		t.Fatalf("SpendingStats(nil) = %+v", stats)
	}
	if stats.Categories[0].Category != "Rent" || !stats.Categories[1].Amount.Equal(USD(50)) {
		t.Errorf("categories = %+v, want Rent 80 then Food 50", stats.Categories)
	}

	month := date.MonthOf(date.FromTime(march))
	stats, err = r.SpendingStats(ctx, &month)
	if err != nil {
		t.Fatal(err)
	}
	if !stats.Total.Equal(USD(110)) {
		t.Errorf("SpendingStats(March) total = %v, want 110", stats.Total)
	}
	for _, c := range stats.Categories {
		if strings.Contains(c.Category, "Capital") {
			t.Errorf("investment wallet category %q in stats", c.Category)
		}
	}
}

func TestNewRepository_Currency(t *testing.T) {
	ctx := context.Background()
	r := NewRepository(newMemStore(), WithCurrency("eur"), WithClock(func() time.Time { return march }))
	if r.Currency() != "EUR" {
		t.Errorf("Currency() = %q, want EUR", r.Currency())
	}
	tx, err := r.RecordTransaction(ctx, 1, M(5, ""), false, "Gift", "")
	if err != nil {
		t.Fatal(err)
	}
	if tx.Amount.Currency() != "EUR" {
		t.Errorf("amount currency = %q, want EUR", tx.Amount.Currency())
	}
	if !r.Now().Equal(march) {
		t.Errorf("Now() = %v, want %v", r.Now(), march)
	}
}
