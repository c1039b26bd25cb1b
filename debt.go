package finance

// Me is the creditor name of debts created when splitting an expense.
const Me = "Me"

// Debt records that Debtor owes Amount to Creditor, because of the
// transaction TransactionID.
type Debt struct {
	ID            int64  `json:"id"`
	TransactionID int64  `json:"transactionId"`
	Debtor        string `json:"debtor"`
	Creditor      string `json:"creditor"`
	Amount        Money  `json:"amount"`
	Settled       bool   `json:"settled"`
}

// Settle marks the debt as settled. There is no way back.
func (d *Debt) Settle() { d.Settled = true }

// Outstanding returns the total of unsettled debts.
func Outstanding(debts []Debt) Money {
	var total Money
	for _, d := range debts {
		if !d.Settled {
			total = total.Add(d.Amount)
		}
	}
	return total
}
