package cmd

import (
	"context"
	"flag"
	"fmt"

	"github.com/etnz/finance"
	"github.com/etnz/finance/renderer"
	"github.com/google/subcommands"
)

// capitalCmd is either "deposit" or "withdraw".
type capitalCmd struct {
	deposit bool
	wallet  int64
	amount  string
}

func (c *capitalCmd) Name() string {
	if c.deposit {
		return "deposit"
	}
	return "withdraw"
}

func (c *capitalCmd) Synopsis() string {
	if c.deposit {
		return "put capital into an investment wallet"
	}
	return "take capital out of an investment wallet"
}

func (c *capitalCmd) Usage() string {
	return fmt.Sprintf(`fin %s -w <id> -a <amount>

  %s. The net deposits are the invested amount
  captured by the next valuation.
`, c.Name(), c.Synopsis())
}

func (c *capitalCmd) SetFlags(f *flag.FlagSet) {
	f.Int64Var(&c.wallet, "w", 0, "Investment wallet ID.")
	f.StringVar(&c.amount, "a", "", "Amount.")
}

func (c *capitalCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.wallet <= 0 {
		return usage("-w is required")
	}
	repo, closer, err := openRepository(ctx)
	if err != nil {
		return fail(err)
	}
	defer closer()

	amount := finance.ParseAmount(c.amount, repo.Currency())
	var tx finance.Transaction
	if c.deposit {
		tx, err = repo.DepositCapital(ctx, c.wallet, amount)
	} else {
		tx, err = repo.WithdrawCapital(ctx, c.wallet, amount)
	}
	if err != nil {
		return fail(err)
	}
	fmt.Fprintln(stdout, renderer.Transaction(tx))
	return subcommands.ExitSuccess
}

type valuationCmd struct {
	wallet int64
	value  string
}

func (*valuationCmd) Name() string     { return "valuation" }
func (*valuationCmd) Synopsis() string { return "record the current value of an investment wallet" }
func (*valuationCmd) Usage() string {
	return `fin valuation -w <id> -v <value>

  Records the total value of an investment wallet now. The wallet net
  deposits are captured as the invested amount, the difference is the profit.
`
}

func (c *valuationCmd) SetFlags(f *flag.FlagSet) {
	f.Int64Var(&c.wallet, "w", 0, "Investment wallet ID.")
	f.StringVar(&c.value, "v", "", "Total value of the wallet.")
}

func (c *valuationCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.wallet <= 0 {
		return usage("-w is required")
	}
	repo, closer, err := openRepository(ctx)
	if err != nil {
		return fail(err)
	}
	defer closer()

	s, err := repo.UpdateValuation(ctx, c.wallet, finance.ParseAmount(c.value, repo.Currency()))
	if err != nil {
		return fail(err)
	}
	fmt.Fprintf(stdout, "Valued at %s for %s invested: %s (%s)\n", s.TotalValue, s.InvestedAmount, s.Profit().SignedString(), s.ROI().SignedString())
	return subcommands.ExitSuccess
}
