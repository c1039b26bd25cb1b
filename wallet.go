package finance

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// WalletType tells how a wallet is valued.
type WalletType int

const (
	// Normal wallets track day to day cash flows, their value is their balance.
	Normal WalletType = iota
	// Investment wallets track capital put into an investment, their value is
	// the latest valuation snapshot.
	Investment
)

func (t WalletType) String() string {
	switch t {
	case Normal:
		return "NORMAL"
	case Investment:
		return "INVESTMENT"
	default:
		return "UNKNOWN"
	}
}

// ParseWalletType parses a wallet type name, case insensitive.
func ParseWalletType(s string) (WalletType, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "NORMAL", "":
		return Normal, nil
	case "INVESTMENT":
		return Investment, nil
	default:
		return Normal, fmt.Errorf("%w: unknown wallet type %q (use normal|investment)", ErrInvalid, s)
	}
}

func (t WalletType) MarshalJSON() ([]byte, error) { return json.Marshal(t.String()) }

func (t *WalletType) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	v, err := ParseWalletType(s)
	if err != nil {
		return err
	}
	*t = v
	return nil
}

// Wallet is a named money container.
//
// Wallets are never updated nor deleted once created.
type Wallet struct {
	ID        int64      `json:"id"`
	Name      string     `json:"name"`
	Type      WalletType `json:"type"`
	CreatedAt time.Time  `json:"createdAt"`
}

// MainWalletName is the name of the wallet every new database starts with.
const MainWalletName = "Main Wallet"
