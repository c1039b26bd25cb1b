package finance

import "time"

// InvestmentSnapshot is a point in time valuation of an investment wallet.
//
// TotalValue is declared by the user, InvestedAmount is the wallet balance
// (net deposits) computed when the snapshot was taken.
type InvestmentSnapshot struct {
	ID             int64     `json:"id"`
	WalletID       int64     `json:"walletId"`
	Date           time.Time `json:"date"`
	TotalValue     Money     `json:"totalValue"`
	InvestedAmount Money     `json:"investedAmount"`
}

// Profit returns the gain (or loss) of the snapshot.
func (s InvestmentSnapshot) Profit() Money { return s.TotalValue.Sub(s.InvestedAmount) }

// ROI returns the profit as a percentage of the invested amount, 0 if nothing is invested.
func (s InvestmentSnapshot) ROI() Percent { return ratio(s.Profit(), s.InvestedAmount) }

// Latest returns the most recent snapshot in insertion order.
func Latest(snaps []InvestmentSnapshot) (InvestmentSnapshot, bool) {
	if len(snaps) == 0 {
		return InvestmentSnapshot{}, false
	}
	latest := snaps[0]
	for _, s := range snaps[1:] {
		if s.ID >= latest.ID {
			latest = s
		}
	}
	return latest, true
}
