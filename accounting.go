package finance

import (
	"cmp"
	"slices"
	"time"

	"github.com/etnz/finance/date"
)

// This file holds the stateless calculations. They work on in-memory lists
// and never touch the storage.

// Performance summarizes the latest valuation of an investment wallet.
type Performance struct {
	Invested Money   `json:"invested"`
	Value    Money   `json:"value"`
	Profit   Money   `json:"profit"`
	ROI      Percent `json:"roi"` // in percent of Invested
}

// Holding is a wallet with its computed figures.
type Holding struct {
	Wallet      Wallet       `json:"wallet"`
	Balance     Money        `json:"balance"`
	Value       Money        `json:"value"`
	Performance *Performance `json:"performance,omitempty"` // investment wallets only
}

// CategoryTotal is the total spent in a category.
type CategoryTotal struct {
	Category string `json:"category"`
	Amount   Money  `json:"amount"`
}

// Balance returns the sum of incomes minus the sum of expenses.
func Balance(txs []Transaction) Money {
	var total Money
	for _, tx := range txs {
		total = total.Add(tx.Signed())
	}
	return total
}

// CurrentValue returns the value of a wallet: its balance for normal wallets,
// the latest snapshot total for investment wallets, falling back to the
// balance when no valuation has been recorded yet.
func CurrentValue(w Wallet, txs []Transaction, snaps []InvestmentSnapshot) Money {
	if w.Type == Investment {
		if latest, ok := Latest(snaps); ok {
			return latest.TotalValue
		}
	}
	return Balance(txs)
}

// EvaluatePerformance computes the profit and return of the latest snapshot.
//
// With no snapshot the performance is zero.
func EvaluatePerformance(snaps []InvestmentSnapshot) Performance {
	latest, ok := Latest(snaps)
	if !ok {
		return Performance{}
	}
	return Performance{
		Invested: latest.InvestedAmount,
		Value:    latest.TotalValue,
		Profit:   latest.Profit(),
		ROI:      latest.ROI(),
	}
}

// NewHolding computes the figures of a wallet.
func NewHolding(w Wallet, txs []Transaction, snaps []InvestmentSnapshot) Holding {
	h := Holding{
		Wallet:  w,
		Balance: Balance(txs),
		Value:   CurrentValue(w, txs, snaps),
	}
	if w.Type == Investment {
		p := EvaluatePerformance(snaps)
		h.Performance = &p
	}
	return h
}

// NetWorth sums the value of all holdings.
func NetWorth(holdings []Holding) Money {
	var total Money
	for _, h := range holdings {
		total = total.Add(h.Value)
	}
	return total
}

// MonthlySpend sums expenses of the calendar month containing now.
//
// Transfers to investments (category "Investment") are not spending. Dates are
// compared in now's location.
func MonthlySpend(txs []Transaction, now time.Time) Money {
	month := date.MonthOf(date.FromTime(now))
	var total Money
	for _, tx := range txs {
		if !tx.IsExpense || tx.Category == CategoryInvestment {
			continue
		}
		if !month.Contains(date.FromTime(tx.Date.In(now.Location()))) {
			continue
		}
		total = total.Add(tx.Amount)
	}
	return total
}

// TotalSpend sums all expenses.
func TotalSpend(txs []Transaction) Money {
	var total Money
	for _, tx := range txs {
		if tx.IsExpense {
			total = total.Add(tx.Amount)
		}
	}
	return total
}

// CategorySpend groups expenses by category, largest first.
func CategorySpend(txs []Transaction) []CategoryTotal {
	index := make(map[string]int)
	var totals []CategoryTotal
	for _, tx := range txs {
		if !tx.IsExpense {
			continue
		}
		i, ok := index[tx.Category]
		if !ok {
			i = len(totals)
			index[tx.Category] = i
			totals = append(totals, CategoryTotal{Category: tx.Category})
		}
		totals[i].Amount = totals[i].Amount.Add(tx.Amount)
	}
	slices.SortStableFunc(totals, func(a, b CategoryTotal) int {
		if c := b.Amount.Decimal().Cmp(a.Amount.Decimal()); c != 0 {
			return c
		}
		return cmp.Compare(a.Category, b.Category)
	})
	return totals
}

// SplitExpense shares amount equally between me and friends.
//
// It returns my share and the debts of each friend towards me. The debts are
// not linked to any transaction yet.
func SplitExpense(amount Money, friends []string) (Money, []Debt) {
	friends = normalizeFriends(friends)
	share := amount.Abs().DivInt(len(friends) + 1)
	debts := make([]Debt, 0, len(friends))
	for _, f := range friends {
		debts = append(debts, Debt{Debtor: f, Creditor: Me, Amount: share})
	}
	return share, debts
}
