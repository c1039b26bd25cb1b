package finance

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"
)

func seedRepository(t *testing.T, r *Repository) (broker int64) {
	t.Helper()
	ctx := context.Background()
	broker = mustAddWallet(t, r, "Broker", Investment)
	if _, err := r.RecordTransaction(ctx, 1, USD(100), false, "Salary", ""); err != nil {
		t.Fatal(err)
	}
	_, debts, err := r.RecordSplitExpense(ctx, 1, USD(90), "Food", "Dinner", []string{"Alice", "Bob"})
	if err != nil {
		t.Fatal(err)
	}
	if err := r.SettleDebt(ctx, debts[0].ID); err != nil {
		t.Fatal(err)
	}
	if _, err := r.DepositCapital(ctx, broker, USD(1300)); err != nil {
		t.Fatal(err)
	}
	if _, err := r.UpdateValuation(ctx, broker, USD(1400)); err != nil {
		t.Fatal(err)
	}
	return broker
}

// TestExportImport checks that an export imported into an empty repository
// gives the same figures.
func TestExportImport(t *testing.T) {
	ctx := context.Background()
	src, _ := newTestRepository(t)
	seedRepository(t, src)

	var buf bytes.Buffer
	dump, err := src.Export(ctx, &buf)
	if err != nil {
		t.Fatalf("Export() failed: %v", err)
	}
	if dump.Batch == "" {
		t.Error("Export() has no batch ID")
	}
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	// header, 2 wallets, 3 transactions, 2 debts, 1 snapshot
	if len(lines) != 9 {
		t.Fatalf("Export() wrote %d lines, want 9:\n%s", len(lines), buf.String())
	}
	if !strings.HasPrefix(lines[0], `{"record":"export","version":1,"batch":"`+dump.Batch+`"`) {
		t.Errorf("header = %s", lines[0])
	}
	if want := `{"record":"wallet","id":1,"name":"Main Wallet","type":"NORMAL",`; !strings.HasPrefix(lines[1], want) {
		t.Errorf("wallet line = %s, want prefix %s", lines[1], want)
	}

	dst, store := newTestRepository(t)
	sum, err := dst.Import(ctx, &buf)
	if err != nil {
		t.Fatalf("Import() failed: %v", err)
	}
	want := ImportSummary{Batch: dump.Batch, Wallets: 1, ReusedWallets: 1, Transactions: 3, Debts: 2, Snapshots: 1}
	if sum != want {
		t.Errorf("Import() = %+v, want %+v", sum, want)
	}

	home, err := dst.Home(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if !home.NetWorth.Equal(USD(1410)) {
		t.Errorf("imported net worth = %v, want 1410", home.NetWorth)
	}
	debts, err := dst.DebtsForWallet(ctx, 1)
	if err != nil {
		t.Fatal(err)
	}
	if len(debts) != 2 || !debts[0].Settled || debts[1].Settled {
		t.Errorf("imported debts = %+v, want first one settled", debts)
	}
	for _, d := range store.debts {
		linked := false
		for _, tx := range store.txs {
			linked = linked || tx.ID == d.TransactionID
		}
		if !linked {
			t.Errorf("debt %+v is not linked to an imported transaction", d)
		}
	}
}

func TestDecodeDump(t *testing.T) {
	input := `
{"record":"export","version":1,"batch":"b1","currency":"eur","exportedAt":"2025-03-15T10:00:00Z"}
{"record":"wallet","id":7,"name":"Broker","type":"INVESTMENT","createdAt":"2025-01-01T00:00:00Z"}

{"record":"transaction","id":3,"walletId":7,"date":"2025-03-01T12:00:00Z","expense":false,"amount":1300,"category":"Investment Capital","description":"Deposit"}
{"record":"snapshot","id":4,"walletId":7,"date":"2025-03-02T12:00:00Z","totalValue":1400,"investedAmount":1300}
`
	d, err := DecodeDump(strings.NewReader(input), "usd")
	if err != nil {
		t.Fatalf("DecodeDump() failed: %v", err)
	}
	if d.Batch != "b1" || d.Currency != "EUR" {
		t.Errorf("header = %q %q, want b1 EUR", d.Batch, d.Currency)
	}
	if len(d.Wallets) != 1 || d.Wallets[0].Type != Investment {
		t.Errorf("wallets = %+v", d.Wallets)
	}
	if len(d.Transactions) != 1 || !d.Transactions[0].Amount.Equal(M(1300, "EUR")) {
		t.Errorf("transactions = %+v", d.Transactions)
	}
	wantDate := time.Date(2025, time.March, 2, 12, 0, 0, 0, time.UTC)
	if len(d.Snapshots) != 1 || !d.Snapshots[0].Date.Equal(wantDate) || !d.Snapshots[0].Profit().Equal(M(100, "EUR")) {
		t.Errorf("snapshots = %+v", d.Snapshots)
	}
}

func TestDecodeDump_Errors(t *testing.T) {
	testCases := []struct {
		name  string
		input string
	}{
		{"not json", `{"record":`},
		{"unknown record", `{"record":"budget"}`},
		{"newer version", `{"record":"export","version":99}`},
		{"bad amount", `{"record":"transaction","amount":"lots"}`},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := DecodeDump(strings.NewReader(tc.input), "USD"); err == nil {
				t.Errorf("DecodeDump(%s) succeeded, want an error", tc.input)
			}
		})
	}
}

func TestRestore_DanglingReference(t *testing.T) {
	ctx := context.Background()
	r, store := newTestRepository(t)
	d := &Dump{
		Wallets:      []Wallet{{ID: 1, Name: "Cash", Type: Normal}},
		Transactions: []Transaction{NewExpense(2, march, USD(5), "Food", "")},
	}
	if _, err := r.Restore(ctx, d); !errors.Is(err, ErrInvalid) {
		t.Errorf("Restore() error = %v, want ErrInvalid", err)
	}
	if len(store.wallets) != 1 {
		t.Errorf("Restore() wrote wallets before failing: %+v", store.wallets)
	}
}

func TestImport_CurrencyMismatch(t *testing.T) {
	ctx := context.Background()
	r, store := newTestRepository(t)
	input := `{"record":"export","version":1,"batch":"b1","currency":"EUR","exportedAt":"2025-03-15T10:00:00Z"}
{"record":"wallet","id":1,"name":"Main Wallet","type":"NORMAL","createdAt":"2025-03-15T10:00:00Z"}
{"record":"transaction","id":1,"walletId":1,"date":"2025-03-15T10:00:00Z","expense":true,"amount":40,"category":"Food"}
`
	if _, err := r.Import(ctx, strings.NewReader(input)); !errors.Is(err, ErrInvalid) {
		t.Errorf("Import() error = %v, want ErrInvalid", err)
	}
	if len(store.txs) != 0 {
		t.Errorf("Import() wrote %d transactions in %s", len(store.txs), r.Currency())
	}

	// same currency, whatever the case.
	input = strings.Replace(input, `"currency":"EUR"`, `"currency":"`+strings.ToLower(r.Currency())+`"`, 1)
	if _, err := r.Import(ctx, strings.NewReader(input)); err != nil {
		t.Errorf("Import() in the repository currency error = %v", err)
	}
}
