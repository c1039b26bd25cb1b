package cmd

import (
	"github.com/etnz/finance"
	"github.com/etnz/finance/prefs"
)

// Screen is a screen of the application, each one is printed by a command.
type Screen int

const (
	Onboarding Screen = iota
	Start
	FinanceHome
	NormalWallet
	InvestmentWallet
	Stats
	Settings
)

var screenNames = [...]string{"Onboarding", "Start", "Finance", "Normal Wallet", "Investment Wallet", "Stats", "Settings"}
var screenCommands = [...]string{"onboard", "menu", "home", "wallet", "wallet", "stats", "settings"}

func (s Screen) String() string {
	if s < 0 || int(s) >= len(screenNames) {
		return "Unknown"
	}
	return screenNames[s]
}

// Command returns the name of the command printing the screen.
func (s Screen) Command() string {
	if s < 0 || int(s) >= len(screenCommands) {
		return ""
	}
	return screenCommands[s]
}

// Next returns the screens reachable from s.
func (s Screen) Next() []Screen {
	switch s {
	case Onboarding:
		return []Screen{Start}
	case Start:
		return []Screen{FinanceHome, Settings}
	case FinanceHome:
		return []Screen{NormalWallet, InvestmentWallet, Stats}
	case Settings:
		// clearing the preferences goes back to onboarding.
		return []Screen{Onboarding}
	default:
		return nil
	}
}

// InitialScreen is the screen the application starts on: onboarding until the
// user gave a name, the start menu afterwards.
func InitialScreen(p prefs.Prefs) Screen {
	if !p.HasName() {
		return Onboarding
	}
	return Start
}

// WalletScreen returns the screen showing a wallet of type t.
func WalletScreen(t finance.WalletType) Screen {
	if t == finance.Investment {
		return InvestmentWallet
	}
	return NormalWallet
}
