// Command fin tracks wallets, shared expenses and investments from the terminal.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/finance/cmd"
	"github.com/etnz/finance/logging"
	"github.com/google/subcommands"
)

func main() {
	// shell completion, when invoked by the shell.
	cmd.Completion().Complete("fin")

	logger, err := logging.New(logging.FromEnv(logging.DefaultConfig()))
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid logging configuration: %v\n", err)
		os.Exit(int(subcommands.ExitFailure))
	}
	logging.SetGlobal(logger)

	commander := subcommands.NewCommander(flag.CommandLine, "fin")
	commander.Register(commander.HelpCommand(), "help")
	commander.Register(commander.FlagsCommand(), "help")
	commander.Register(commander.CommandsCommand(), "help")
	cmd.Register(commander)

	flag.Parse()

	if flag.NArg() == 0 {
		// no command: start where the user left off.
		flag.CommandLine.Parse(append(os.Args[1:], "menu"))
	}
	if name := flag.Arg(0); !known(commander, name) {
		if found, code := cmd.RunExtension(name, flag.Args()[1:]); found {
			logger.Sync()
			os.Exit(code)
		}
	}

	status := commander.Execute(context.Background())
	logger.Sync()
	os.Exit(int(status))
}

// known returns true if name is a registered subcommand.
func known(c *subcommands.Commander, name string) bool {
	found := false
	c.VisitCommands(func(_ *subcommands.CommandGroup, cmd subcommands.Command) {
		if cmd.Name() == name {
			found = true
		}
	})
	return found
}
