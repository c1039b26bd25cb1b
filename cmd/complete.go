package cmd

import (
	"flag"

	"github.com/etnz/finance/docs"
	"github.com/google/subcommands"
	"github.com/posener/complete/v2"
	"github.com/posener/complete/v2/predict"
)

// flagPredictors suggests values for flags by name. Flags not listed accept
// anything.
var flagPredictors = map[string]complete.Predictor{
	"db":       predict.Files("*.db"),
	"prefs":    predict.Files("*.yaml"),
	"o":        predict.Files("*.jsonl"),
	"driver":   predict.Set{"sqlite", "postgres"},
	"currency": predict.Set{"USD", "EUR", "GBP", "CHF", "JPY"},
	"type":     predict.Set{"normal", "investment"},
	"p":        predict.Set{"day", "week", "month", "quarter", "year"},
	"dark":     predict.Set{"true", "false"},
}

// argPredictors suggests positional arguments by command name.
var argPredictors = map[string]complete.Predictor{
	"import": predict.Files("*.jsonl"),
	"topic":  predict.Set(docs.Names()),
}

// Completion returns the shell completion tree of fin: the global flags and
// every registered command with its own flags.
func Completion() *complete.Command {
	root := &complete.Command{
		Sub:   make(map[string]*complete.Command),
		Flags: flagsOf(flag.CommandLine),
	}
	for _, group := range Commands {
		for _, c := range group {
			root.Sub[c.Name()] = commandCompletion(c)
		}
	}
	for _, name := range []string{"help", "flags", "commands"} {
		root.Sub[name] = &complete.Command{}
	}
	return root
}

func commandCompletion(c subcommands.Command) *complete.Command {
	fs := flag.NewFlagSet(c.Name(), flag.ContinueOnError)
	c.SetFlags(fs)
	return &complete.Command{
		Flags: flagsOf(fs),
		Args:  argPredictors[c.Name()],
	}
}

// flagsOf maps every flag of fs to its predictor. Boolean flags take no value.
func flagsOf(fs *flag.FlagSet) map[string]complete.Predictor {
	flags := make(map[string]complete.Predictor)
	fs.VisitAll(func(f *flag.Flag) {
		if b, ok := f.Value.(interface{ IsBoolFlag() bool }); ok && b.IsBoolFlag() {
			flags[f.Name] = nil
			return
		}
		if p, ok := flagPredictors[f.Name]; ok {
			flags[f.Name] = p
			return
		}
		flags[f.Name] = predict.Something
	})
	return flags
}
