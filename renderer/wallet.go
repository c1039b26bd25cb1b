package renderer

import (
	"bytes"
	"slices"
	"strconv"

	"github.com/etnz/finance"
	md "github.com/nao1215/markdown"
)

func itoa(id int64) string { return strconv.FormatInt(id, 10) }

// owedFirst returns the debts still owed before the settled ones, each group
// in ID order.
func owedFirst(debts []finance.Debt) []finance.Debt {
	sorted := slices.Clone(debts)
	slices.SortStableFunc(sorted, func(a, b finance.Debt) int {
		switch {
		case a.Settled == b.Settled:
			return 0
		case a.Settled:
			return 1
		default:
			return -1
		}
	})
	return sorted
}

// WalletMarkdown renders a wallet screen, normal or investment.
func WalletMarkdown(d finance.WalletDetail) string {
	if d.Holding.Wallet.Type == finance.Investment {
		return InvestmentWalletMarkdown(d)
	}
	return NormalWalletMarkdown(d)
}

// NormalWalletMarkdown renders the balance, transactions and debts of a
// normal wallet.
func NormalWalletMarkdown(d finance.WalletDetail) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)

	doc.H1(d.Holding.Wallet.Name)
	doc.Table(md.TableSet{
		Alignment: []md.TableAlignment{md.AlignLeft, md.AlignRight},
		Header:    []string{md.Bold("Balance"), md.Bold(d.Holding.Balance.String())},
		Rows: [][]string{
			{"Spent this month", d.MonthlySpend.String()},
			{"Owed to me", finance.Outstanding(d.Debts).String()},
		},
	})

	doc.H2("Transactions")
	if len(d.Transactions) == 0 {
		doc.PlainText("No transactions yet.")
	} else {
		table := md.TableSet{
			Alignment: []md.TableAlignment{md.AlignLeft, md.AlignLeft, md.AlignLeft, md.AlignRight},
			Header:    []string{"Date", "Category", "Description", "Amount"},
		}
		for _, tx := range d.Transactions {
			table.Rows = append(table.Rows, []string{
				tx.Date.Format(dateLayout),
				orDash(tx.Category),
				orDash(tx.Description),
				tx.Signed().SignedString(),
			})
		}
		doc.Table(table)
	}

	if len(d.Debts) > 0 {
		doc.H2("Debts")
		table := md.TableSet{
			Alignment: []md.TableAlignment{md.AlignRight, md.AlignLeft, md.AlignRight, md.AlignLeft},
			Header:    []string{"#", "Debtor", "Amount", "Status"},
		}
		for _, debt := range owedFirst(d.Debts) {
			status := "Owed"
			if debt.Settled {
				status = "Settled"
			}
			table.Rows = append(table.Rows, []string{itoa(debt.ID), debt.Debtor, debt.Amount.String(), status})
		}
		doc.Table(table)
	}
	return doc.String()
}

// InvestmentWalletMarkdown renders the value, performance, capital movements
// and valuation history of an investment wallet.
func InvestmentWalletMarkdown(d finance.WalletDetail) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)

	var perf finance.Performance
	if d.Holding.Performance != nil {
		perf = *d.Holding.Performance
	}

	doc.H1(d.Holding.Wallet.Name)
	doc.Table(md.TableSet{
		Alignment: []md.TableAlignment{md.AlignLeft, md.AlignRight},
		Header:    []string{md.Bold("Current Value"), md.Bold(d.Holding.Value.String())},
		Rows: [][]string{
			{"Net Deposits", d.Holding.Balance.String()},
			{"Profit", perf.Profit.SignedString()},
			{"Return", perf.ROI.SignedString()},
		},
	})

	doc.H2("Capital")
	if len(d.Transactions) == 0 {
		doc.PlainText("No deposit yet.")
	} else {
		table := md.TableSet{
			Alignment: []md.TableAlignment{md.AlignLeft, md.AlignLeft, md.AlignRight},
			Header:    []string{"Date", "Movement", "Amount"},
		}
		for _, tx := range d.Transactions {
			table.Rows = append(table.Rows, []string{tx.Date.Format(dateLayout), tx.Kind(), tx.Signed().SignedString()})
		}
		doc.Table(table)
	}

	doc.H2("Valuations")
	if len(d.Snapshots) == 0 {
		doc.PlainText("No valuation yet, record one with `fin valuation`.")
		return doc.String()
	}
	table := md.TableSet{
		Alignment: []md.TableAlignment{md.AlignLeft, md.AlignRight, md.AlignRight, md.AlignRight, md.AlignRight},
		Header:    []string{"Date", "Value", "Invested", "Profit", "Return"},
	}
	// most recent first, like transactions.
	for i := len(d.Snapshots) - 1; i >= 0; i-- {
		s := d.Snapshots[i]
		table.Rows = append(table.Rows, []string{
			s.Date.Format(dateLayout),
			s.TotalValue.String(),
			s.InvestedAmount.String(),
			s.Profit().SignedString(),
			s.ROI().SignedString(),
		})
	}
	doc.Table(table)
	return doc.String()
}
