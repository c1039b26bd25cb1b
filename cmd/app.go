// Package cmd implements the fin command line application.
package cmd

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/glamour"
	"github.com/etnz/finance"
	"github.com/etnz/finance/logging"
	"github.com/etnz/finance/prefs"
	"github.com/etnz/finance/sqlstore"
	"github.com/google/subcommands"
)

// Environment variables used as defaults for the global flags.
const (
	EnvDB       = "FIN_DB"
	EnvDriver   = "FIN_DRIVER"
	EnvPrefs    = "FIN_PREFS"
	EnvCurrency = "FIN_CURRENCY"
	EnvRaw      = "FIN_RAW"
	// EnvNow freezes the clock, for reproducible documentation examples.
	EnvNow = "FIN_TESTING_NOW"
)

// as a CLI application, it has a very short lived lifecycle, so it is ok to use global variables.

var (
	dbPath    = flag.String("db", envOr(EnvDB, defaultDBPath()), "Database file for sqlite, connection string for postgres")
	driver    = flag.String("driver", envOr(EnvDriver, sqlstore.SQLite), "Database driver: sqlite or postgres")
	prefsPath = flag.String("prefs", envOr(EnvPrefs, prefs.DefaultPath()), "Preferences file")
	currency  = flag.String("currency", envOr(EnvCurrency, finance.DefaultCurrency), "Currency of all amounts")
	raw       = flag.Bool("raw", os.Getenv(EnvRaw) != "", "Print markdown as is, without terminal styling")
)

// stdout and stderr are where commands print.
var (
	stdout io.Writer = os.Stdout
	stderr io.Writer = os.Stderr
)

// Commands lists every fin subcommand, by group.
var Commands = map[string][]subcommands.Command{
	"screens": {
		&onboardCmd{},
		&menuCmd{},
		&settingsCmd{},
		&homeCmd{},
		&walletCmd{},
		&statsCmd{},
	},
	"wallets": {
		&walletAddCmd{},
		&txCmd{},
		&splitCmd{},
		&settleCmd{},
		&capitalCmd{deposit: true},
		&capitalCmd{},
		&valuationCmd{},
	},
	"data": {
		&exportCmd{},
		&importCmd{},
		&serveCmd{},
	},
	"help": {
		&topicCmd{},
	},
}

// Register the subcommands.
// A main package will call Register() to allow subcommands, and Execute() on the user-selected one.
func Register(c *subcommands.Commander) {
	for _, group := range []string{"screens", "wallets", "data", "help"} {
		for _, cmd := range Commands[group] {
			c.Register(cmd, group)
		}
	}
}

func envOr(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func defaultDBPath() string {
	return filepath.Join(filepath.Dir(prefs.DefaultPath()), "finance.db")
}

// openRepository opens the store selected by the global flags.
// The returned func closes it.
func openRepository(ctx context.Context) (*finance.Repository, func(), error) {
	if *driver == sqlstore.SQLite && *dbPath != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(*dbPath), 0o755); err != nil {
			return nil, nil, fmt.Errorf("cannot create database directory: %w", err)
		}
	}
	store, err := sqlstore.Open(ctx, sqlstore.Config{
		Driver:   *driver,
		DSN:      *dbPath,
		Currency: *currency,
		Logger:   logging.L(),
	})
	if err != nil {
		return nil, nil, err
	}
	opts := []finance.Option{finance.WithCurrency(*currency), finance.WithLogger(logging.L())}
	if now := os.Getenv(EnvNow); now != "" {
		t, err := time.Parse(time.DateTime, now)
		if err != nil {
			store.Close()
			return nil, nil, fmt.Errorf("invalid %s: %w", EnvNow, err)
		}
		opts = append(opts, finance.WithClock(func() time.Time { return t }))
	}
	repo := finance.NewRepository(store, opts...)
	return repo, func() { store.Close() }, nil
}

// loadPrefs reads the preferences file selected by the global flags.
func loadPrefs() (*prefs.File, error) { return prefs.Load(*prefsPath) }

// printMarkdown renders md for the terminal, with the theme chosen in the
// preferences.
func printMarkdown(md string) {
	if *raw {
		fmt.Fprint(stdout, md)
		return
	}
	style := "light"
	if p, err := loadPrefs(); err == nil && p.DarkMode {
		style = "dark"
	}
	r, err := glamour.NewTermRenderer(glamour.WithStandardStyle(style), glamour.WithWordWrap(100))
	if err != nil {
		fmt.Fprint(stdout, md)
		return
	}
	out, err := r.Render(md)
	if err != nil {
		fmt.Fprint(stdout, md)
		return
	}
	fmt.Fprint(stdout, out)
}

// fail reports err and returns the matching exit status: invalid input is a
// usage error, anything else a failure.
func fail(err error) subcommands.ExitStatus {
	fmt.Fprintf(stderr, "Error: %v\n", err)
	if errors.Is(err, finance.ErrInvalid) || errors.Is(err, prefs.ErrBlankName) {
		return subcommands.ExitUsageError
	}
	return subcommands.ExitFailure
}

// usage reports a flag error.
func usage(format string, args ...any) subcommands.ExitStatus {
	fmt.Fprintf(stderr, "Error: "+format+"\n", args...)
	return subcommands.ExitUsageError
}
