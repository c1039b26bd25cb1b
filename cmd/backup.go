package cmd

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/google/subcommands"
)

type exportCmd struct {
	output string
}

func (*exportCmd) Name() string     { return "export" }
func (*exportCmd) Synopsis() string { return "back up every record to a JSONL file" }
func (*exportCmd) Usage() string {
	return `fin export [-o <file>]

  Writes every wallet, transaction, debt and valuation in the import/export
  format, one JSON object per line. See 'fin topic backup'.
`
}

func (c *exportCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.output, "o", "", "Output file, standard output by default.")
}

func (c *exportCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	repo, closer, err := openRepository(ctx)
	if err != nil {
		return fail(err)
	}
	defer closer()

	var w io.Writer = stdout
	if c.output != "" {
		file, err := os.Create(c.output)
		if err != nil {
			return fail(err)
		}
		defer file.Close()
		w = file
	}
	d, err := repo.Export(ctx, w)
	if err != nil {
		return fail(err)
	}
	if c.output != "" {
		fmt.Fprintf(stderr, "Exported batch %s to %s\n", d.Batch, c.output)
	}
	return subcommands.ExitSuccess
}

type importCmd struct{}

func (*importCmd) Name() string     { return "import" }
func (*importCmd) Synopsis() string { return "restore records from a JSONL backup" }
func (*importCmd) Usage() string {
	return `fin import [<file>]

  Appends the records of a backup made by 'fin export', read from a file or the
  standard input. IDs are reassigned, wallets with the same name and type as an
  existing one are merged into it.
`
}

func (*importCmd) SetFlags(f *flag.FlagSet) {}

func (*importCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	var r io.Reader = os.Stdin
	switch f.NArg() {
	case 0:
	case 1:
		file, err := os.Open(f.Arg(0))
		if err != nil {
			return fail(err)
		}
		defer file.Close()
		r = file
	default:
		return usage("import takes at most one file")
	}

	repo, closer, err := openRepository(ctx)
	if err != nil {
		return fail(err)
	}
	defer closer()

	sum, err := repo.Import(ctx, r)
	if err != nil {
		return fail(err)
	}
	fmt.Fprintf(stdout, "Imported %d wallets (%d merged), %d transactions, %d debts, %d valuations\n",
		sum.Wallets, sum.ReusedWallets, sum.Transactions, sum.Debts, sum.Snapshots)
	return subcommands.ExitSuccess
}
