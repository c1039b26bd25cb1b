package finance

import "time"

// Well known categories.
const (
	// CategoryInvestment marks money moved into investments from a normal
	// wallet; it is not spending and is excluded from the monthly spend.
	CategoryInvestment = "Investment"
	// CategoryInvestmentCapital is the category of deposits and withdrawals
	// recorded on investment wallets.
	CategoryInvestmentCapital = "Investment Capital"
)

// Transaction is a money movement in a wallet.
//
// Amount is always a magnitude, IsExpense carries the direction: an expense or
// a withdrawal when true, an income or a deposit otherwise.
type Transaction struct {
	ID          int64     `json:"id"`
	WalletID    int64     `json:"walletId"`
	Amount      Money     `json:"amount"`
	IsExpense   bool      `json:"isExpense"`
	Category    string    `json:"category"`
	Description string    `json:"description,omitempty"`
	Date        time.Time `json:"date"`
}

// NewExpense creates an expense transaction.
func NewExpense(wallet int64, on time.Time, amount Money, category, description string) Transaction {
	return Transaction{WalletID: wallet, Amount: amount.Abs(), IsExpense: true, Category: category, Description: description, Date: on}
}

// NewIncome creates an income transaction.
func NewIncome(wallet int64, on time.Time, amount Money, category, description string) Transaction {
	return Transaction{WalletID: wallet, Amount: amount.Abs(), Category: category, Description: description, Date: on}
}

// NewDeposit creates a capital deposit into an investment wallet.
func NewDeposit(wallet int64, on time.Time, amount Money) Transaction {
	return NewIncome(wallet, on, amount, CategoryInvestmentCapital, "Deposit")
}

// NewWithdrawal creates a capital withdrawal from an investment wallet.
func NewWithdrawal(wallet int64, on time.Time, amount Money) Transaction {
	return NewExpense(wallet, on, amount, CategoryInvestmentCapital, "Withdrawal")
}

// Signed returns the amount with its direction: negative for expenses.
func (t Transaction) Signed() Money {
	if t.IsExpense {
		return t.Amount.Neg()
	}
	return t.Amount
}

// Kind returns a human label for the direction of the transaction.
func (t Transaction) Kind() string {
	switch {
	case t.Category == CategoryInvestmentCapital && t.IsExpense:
		return "Withdrawn"
	case t.Category == CategoryInvestmentCapital:
		return "Deposited"
	case t.IsExpense:
		return "Expense"
	default:
		return "Income"
	}
}
