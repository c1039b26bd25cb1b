package cmd

import (
	"context"
	"flag"
	"fmt"

	"github.com/etnz/finance"
	"github.com/etnz/finance/date"
	"github.com/etnz/finance/renderer"
	"github.com/google/subcommands"
)

type homeCmd struct{}

func (*homeCmd) Name() string     { return "home" }
func (*homeCmd) Synopsis() string { return "show every wallet and your net worth" }
func (*homeCmd) Usage() string {
	return `fin home

  Shows the finance home: every wallet with its value, the performance of
  investment wallets, the net worth and the spending of the current month.
`
}

func (*homeCmd) SetFlags(f *flag.FlagSet) {}

func (*homeCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	repo, closer, err := openRepository(ctx)
	if err != nil {
		return fail(err)
	}
	defer closer()

	home, err := repo.Home(ctx)
	if err != nil {
		return fail(err)
	}
	printMarkdown(renderer.HomeMarkdown(home))
	return subcommands.ExitSuccess
}

type walletCmd struct {
	wallet int64
}

func (*walletCmd) Name() string     { return "wallet" }
func (*walletCmd) Synopsis() string { return "show a wallet" }
func (*walletCmd) Usage() string {
	return `fin wallet [-w <id>]

  Shows a wallet. Normal wallets show their balance, transactions and debts,
  investment wallets their value, performance, capital and valuations.
`
}

func (c *walletCmd) SetFlags(f *flag.FlagSet) {
	f.Int64Var(&c.wallet, "w", 1, "Wallet ID, the main wallet by default.")
}

func (c *walletCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	repo, closer, err := openRepository(ctx)
	if err != nil {
		return fail(err)
	}
	defer closer()

	d, err := repo.WalletDetail(ctx, c.wallet)
	if err != nil {
		return fail(err)
	}
	printMarkdown(renderer.WalletMarkdown(d))
	return subcommands.ExitSuccess
}

type walletAddCmd struct {
	name string
	typ  string
}

func (*walletAddCmd) Name() string     { return "wallet-add" }
func (*walletAddCmd) Synopsis() string { return "create a wallet" }
func (*walletAddCmd) Usage() string {
	return `fin wallet-add -name <name> [-type normal|investment]

  Creates a wallet. Normal wallets record expenses and incomes, investment
  wallets record capital movements and valuations.
`
}

func (c *walletAddCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.name, "name", "", "Wallet name.")
	f.StringVar(&c.typ, "type", "normal", "Wallet type: normal or investment.")
}

func (c *walletAddCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	typ, err := finance.ParseWalletType(c.typ)
	if err != nil {
		return fail(err)
	}
	repo, closer, err := openRepository(ctx)
	if err != nil {
		return fail(err)
	}
	defer closer()

	id, err := repo.AddWallet(ctx, c.name, typ)
	if err != nil {
		return fail(err)
	}
	fmt.Fprintf(stdout, "Created %s wallet %q with ID %d\n", typ, c.name, id)
	return subcommands.ExitSuccess
}

type statsCmd struct {
	period string
	on     string
}

func (*statsCmd) Name() string     { return "stats" }
func (*statsCmd) Synopsis() string { return "break down spending by category" }
func (*statsCmd) Usage() string {
	return `fin stats [-p day|week|month|quarter|year] [-d <date>]

  Breaks down the expenses of normal wallets by category, largest first.
  Without -p every expense is counted, otherwise only those in the period
  containing -d (today by default).
`
}

func (c *statsCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.period, "p", "", "Period to report on.")
	f.StringVar(&c.on, "d", "", "A date in the period, today by default.")
}

func (c *statsCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	var period date.Period
	if c.period != "" {
		p, err := date.ParsePeriod(c.period)
		if err != nil {
			return usage("%v", err)
		}
		period = p
	}

	repo, closer, err := openRepository(ctx)
	if err != nil {
		return fail(err)
	}
	defer closer()

	var within *date.Range
	if c.period != "" {
		on := date.FromTime(repo.Now())
		if c.on != "" {
			if on, err = date.Parse(c.on); err != nil {
				return usage("%v", err)
			}
		}
		r := date.NewRange(on, period)
		within = &r
	}

	stats, err := repo.SpendingStats(ctx, within)
	if err != nil {
		return fail(err)
	}
	printMarkdown(renderer.StatsMarkdown(stats))
	return subcommands.ExitSuccess
}
