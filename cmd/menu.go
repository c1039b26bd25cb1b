package cmd

import (
	"context"
	"flag"
	"strings"

	"github.com/etnz/finance/prefs"
	"github.com/etnz/finance/renderer"
	"github.com/google/subcommands"
)

type onboardCmd struct {
	name string
}

func (*onboardCmd) Name() string     { return "onboard" }
func (*onboardCmd) Synopsis() string { return "tell fin what to call you" }
func (*onboardCmd) Usage() string {
	return `fin onboard -name <name>

  Stores your name and shows the start menu. Without -name it shows the welcome screen.
`
}

func (c *onboardCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.name, "name", "", "What should we call you?")
}

func (c *onboardCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if strings.TrimSpace(c.name) == "" {
		printMarkdown(renderer.OnboardingMarkdown())
		return usage("%v", prefs.ErrBlankName)
	}
	p, err := loadPrefs()
	if err != nil {
		return fail(err)
	}
	if err := p.SetUserName(c.name); err != nil {
		return fail(err)
	}
	printMarkdown(renderer.StartMarkdown(p.UserName))
	return subcommands.ExitSuccess
}

type menuCmd struct{}

func (*menuCmd) Name() string     { return "menu" }
func (*menuCmd) Synopsis() string { return "show the start menu" }
func (*menuCmd) Usage() string {
	return `fin menu

  Shows the start menu, or the welcome screen if fin does not know your name yet.
  This is what fin does when run without a command.
`
}

func (*menuCmd) SetFlags(f *flag.FlagSet) {}

func (*menuCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	p, err := loadPrefs()
	if err != nil {
		return fail(err)
	}
	switch InitialScreen(p.Prefs) {
	case Onboarding:
		printMarkdown(renderer.OnboardingMarkdown())
	default:
		printMarkdown(renderer.StartMarkdown(p.UserName))
	}
	return subcommands.ExitSuccess
}

type settingsCmd struct {
	name  string
	dark  string
	reset bool
}

func (*settingsCmd) Name() string     { return "settings" }
func (*settingsCmd) Synopsis() string { return "show or change your preferences" }
func (*settingsCmd) Usage() string {
	return `fin settings [-name <name>] [-dark true|false] [-reset]

  Shows the preferences, after applying the changes given by flags.
  -reset forgets your name and theme, fin starts over with the welcome screen.
`
}

func (c *settingsCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.name, "name", "", "Change your name.")
	f.StringVar(&c.dark, "dark", "", "Use the dark theme: true or false.")
	f.BoolVar(&c.reset, "reset", false, "Clear all preferences.")
}

func (c *settingsCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	p, err := loadPrefs()
	if err != nil {
		return fail(err)
	}
	if c.reset {
		if err := p.Clear(); err != nil {
			return fail(err)
		}
		printMarkdown(renderer.OnboardingMarkdown())
		return subcommands.ExitSuccess
	}
	if c.name != "" {
		if err := p.SetUserName(c.name); err != nil {
			return fail(err)
		}
	}
	switch strings.ToLower(c.dark) {
	case "":
	case "true", "on", "yes":
		if err := p.SetDarkMode(true); err != nil {
			return fail(err)
		}
	case "false", "off", "no":
		if err := p.SetDarkMode(false); err != nil {
			return fail(err)
		}
	default:
		return usage("-dark must be true or false, got %q", c.dark)
	}
	printMarkdown(renderer.SettingsMarkdown(p.Prefs))
	return subcommands.ExitSuccess
}
