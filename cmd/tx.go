package cmd

import (
	"context"
	"flag"
	"fmt"
	"strings"

	"github.com/etnz/finance"
	"github.com/etnz/finance/renderer"
	"github.com/google/subcommands"
)

type txCmd struct {
	wallet      int64
	amount      string
	category    string
	description string
	income      bool
}

func (*txCmd) Name() string     { return "tx" }
func (*txCmd) Synopsis() string { return "record an expense or an income" }
func (*txCmd) Usage() string {
	return `fin tx [-w <id>] -a <amount> -c <category> [-m <description>] [-income]

  Records an expense (or an income with -income) dated now in a wallet.
  A malformed amount is recorded as zero.

Usage Examples:
$ fin tx -a 12.50 -c Food -m lunch
$ fin tx -a 2500 -c Salary -income
`
}

func (c *txCmd) SetFlags(f *flag.FlagSet) {
	f.Int64Var(&c.wallet, "w", 1, "Wallet ID, the main wallet by default.")
	f.StringVar(&c.amount, "a", "", "Amount.")
	f.StringVar(&c.category, "c", "", "Category.")
	f.StringVar(&c.description, "m", "", "Description.")
	f.BoolVar(&c.income, "income", false, "Record an income instead of an expense.")
}

func (c *txCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	repo, closer, err := openRepository(ctx)
	if err != nil {
		return fail(err)
	}
	defer closer()

	amount := finance.ParseAmount(c.amount, repo.Currency())
	tx, err := repo.RecordTransaction(ctx, c.wallet, amount, !c.income, c.category, c.description)
	if err != nil {
		return fail(err)
	}
	fmt.Fprintln(stdout, renderer.Transaction(tx))
	return subcommands.ExitSuccess
}

type splitCmd struct {
	wallet      int64
	amount      string
	category    string
	description string
	with        string
}

func (*splitCmd) Name() string     { return "split" }
func (*splitCmd) Synopsis() string { return "record an expense shared with friends" }
func (*splitCmd) Usage() string {
	return `fin split [-w <id>] -a <amount> -c <category> [-m <description>] -with <name,name...>

  Records an expense you paid in full and shares it equally between you and
  your friends: each friend owes you a share, see 'fin wallet' and 'fin settle'.

Usage Examples:
$ fin split -a 90 -c Food -m Dinner -with Alice,Bob
`
}

func (c *splitCmd) SetFlags(f *flag.FlagSet) {
	f.Int64Var(&c.wallet, "w", 1, "Wallet ID, the main wallet by default.")
	f.StringVar(&c.amount, "a", "", "Total amount paid.")
	f.StringVar(&c.category, "c", "", "Category.")
	f.StringVar(&c.description, "m", "", "Description.")
	f.StringVar(&c.with, "with", "", "Comma separated friends to split with.")
}

func (c *splitCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	repo, closer, err := openRepository(ctx)
	if err != nil {
		return fail(err)
	}
	defer closer()

	amount := finance.ParseAmount(c.amount, repo.Currency())
	tx, debts, err := repo.RecordSplitExpense(ctx, c.wallet, amount, c.category, c.description, strings.Split(c.with, ","))
	if err != nil {
		return fail(err)
	}
	fmt.Fprintln(stdout, renderer.Transaction(tx))
	for _, d := range debts {
		fmt.Fprintf(stdout, "  #%d %s\n", d.ID, renderer.Debt(d))
	}
	return subcommands.ExitSuccess
}

type settleCmd struct {
	id int64
}

func (*settleCmd) Name() string     { return "settle" }
func (*settleCmd) Synopsis() string { return "mark a debt as paid back" }
func (*settleCmd) Usage() string {
	return `fin settle -id <debt id>

  Marks a debt as settled. Debt IDs are listed in 'fin wallet'.
`
}

func (c *settleCmd) SetFlags(f *flag.FlagSet) {
	f.Int64Var(&c.id, "id", 0, "Debt ID.")
}

func (c *settleCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.id <= 0 {
		return usage("-id is required")
	}
	repo, closer, err := openRepository(ctx)
	if err != nil {
		return fail(err)
	}
	defer closer()

	if err := repo.SettleDebt(ctx, c.id); err != nil {
		return fail(err)
	}
	fmt.Fprintf(stdout, "Debt %d settled\n", c.id)
	return subcommands.ExitSuccess
}
