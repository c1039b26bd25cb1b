package renderer

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/etnz/finance/prefs"
	md "github.com/nao1215/markdown"
)

// StartMarkdown renders the start menu greeting the user.
func StartMarkdown(userName string) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)

	doc.H1(fmt.Sprintf("HELLO %s.", strings.ToUpper(strings.TrimSpace(userName))))
	doc.PlainText("WELCOME BACK")
	doc.BulletList(
		md.Bold("Get Started")+": `fin home`",
		md.Bold("Settings")+": `fin settings`",
	)
	return doc.String()
}

// OnboardingMarkdown renders the first screen, asking for the user name.
func OnboardingMarkdown() string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)

	doc.H1("Welcome.")
	doc.PlainText("What should we call you?")
	doc.PlainText("Run `fin onboard -name <your name>` to continue.")
	return doc.String()
}

// SettingsMarkdown renders the user preferences.
func SettingsMarkdown(p prefs.Prefs) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)

	theme := "Light"
	if p.DarkMode {
		theme = "Dark"
	}
	doc.H1("Settings")
	doc.Table(md.TableSet{
		Alignment: []md.TableAlignment{md.AlignLeft, md.AlignLeft},
		Header:    []string{"Setting", "Value"},
		Rows: [][]string{
			{"Name", orDash(p.UserName)},
			{"Theme", theme},
		},
	})
	doc.PlainText("Use `fin settings -reset` to forget everything about you.")
	return doc.String()
}
