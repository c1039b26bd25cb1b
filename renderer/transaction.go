package renderer

import (
	"fmt"
	"strings"

	"github.com/etnz/finance"
)

const dateLayout = "2006-01-02"

// Transaction renders a transaction to a one line sentence.
func Transaction(tx finance.Transaction) string {
	var s string
	switch tx.Kind() {
	case "Deposited":
		s = fmt.Sprintf("Deposited %s", tx.Amount)
	case "Withdrawn":
		s = fmt.Sprintf("Withdrew %s", tx.Amount)
	case "Expense":
		s = fmt.Sprintf("Spent %s on %s", tx.Amount, tx.Category)
	default:
		s = fmt.Sprintf("Received %s as %s", tx.Amount, tx.Category)
	}
	if tx.Description != "" && tx.Category != finance.CategoryInvestmentCapital {
		s += fmt.Sprintf(" (%s)", tx.Description)
	}
	return s + " on " + tx.Date.Format(dateLayout)
}

// Debt renders a debt to a one line sentence.
func Debt(d finance.Debt) string {
	status := "owes"
	if d.Settled {
		status = "owed"
	}
	return fmt.Sprintf("%s %s %s to %s", d.Debtor, status, d.Amount, d.Creditor)
}

// orDash returns s or "-" if it is blank, empty cells are ambiguous in tables.
func orDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return s
}
