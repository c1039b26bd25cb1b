package finance

import (
	"cmp"
	"context"
	"fmt"
	"slices"
)

// memStore is an in-memory Store for tests.
type memStore struct {
	wallets []Wallet
	txs     []Transaction
	debts   []Debt
	snaps   []InvestmentSnapshot
	next    int64
}

func newMemStore() *memStore {
	m := &memStore{}
	m.AddWallet(context.Background(), Wallet{Name: MainWalletName, Type: Normal})
	return m
}

func (m *memStore) id() int64 {
	m.next++
	return m.next
}

func (m *memStore) AddWallet(_ context.Context, w Wallet) (int64, error) {
	w.ID = m.id()
	m.wallets = append(m.wallets, w)
	return w.ID, nil
}

func (m *memStore) Wallets(context.Context) ([]Wallet, error) {
	return slices.Clone(m.wallets), nil
}

func (m *memStore) Wallet(_ context.Context, id int64) (Wallet, error) {
	for _, w := range m.wallets {
		if w.ID == id {
			return w, nil
		}
	}
	return Wallet{}, fmt.Errorf("wallet %d: %w", id, ErrNotFound)
}

func (m *memStore) AddTransaction(_ context.Context, tx Transaction) (int64, error) {
	tx.ID = m.id()
	m.txs = append(m.txs, tx)
	return tx.ID, nil
}

func recentFirst(txs []Transaction) []Transaction {
	slices.SortStableFunc(txs, func(a, b Transaction) int {
		if c := b.Date.Compare(a.Date); c != 0 {
			return c
		}
		return cmp.Compare(b.ID, a.ID)
	})
	return txs
}

func (m *memStore) TransactionsForWallet(_ context.Context, walletID int64) ([]Transaction, error) {
	list := []Transaction{}
	for _, tx := range m.txs {
		if tx.WalletID == walletID {
			list = append(list, tx)
		}
	}
	return recentFirst(list), nil
}

func (m *memStore) AllTransactions(context.Context) ([]Transaction, error) {
	return recentFirst(slices.Clone(m.txs)), nil
}

func (m *memStore) AddDebt(_ context.Context, d Debt) (int64, error) {
	d.ID = m.id()
	m.debts = append(m.debts, d)
	return d.ID, nil
}

func (m *memStore) DebtsForWallet(_ context.Context, walletID int64) ([]Debt, error) {
	list := []Debt{}
	for _, d := range m.debts {
		for _, tx := range m.txs {
			if tx.ID == d.TransactionID && tx.WalletID == walletID {
				list = append(list, d)
			}
		}
	}
	return list, nil
}

func (m *memStore) SettleDebt(_ context.Context, id int64) error {
	for i := range m.debts {
		if m.debts[i].ID == id {
			m.debts[i].Settle()
			return nil
		}
	}
	return fmt.Errorf("debt %d: %w", id, ErrNotFound)
}

func (m *memStore) AddSnapshot(_ context.Context, s InvestmentSnapshot) (int64, error) {
	s.ID = m.id()
	m.snaps = append(m.snaps, s)
	return s.ID, nil
}

func (m *memStore) Snapshots(_ context.Context, walletID int64) ([]InvestmentSnapshot, error) {
	list := []InvestmentSnapshot{}
	for _, s := range m.snaps {
		if s.WalletID == walletID {
			list = append(list, s)
		}
	}
	return list, nil
}
