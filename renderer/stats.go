package renderer

import (
	"bytes"
	"fmt"

	"github.com/etnz/finance"
	md "github.com/nao1215/markdown"
)

// StatsMarkdown renders the spending breakdown by category.
func StatsMarkdown(s finance.Stats) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)

	title := "Spending Statistics"
	if s.Range != nil {
		title = fmt.Sprintf("Spending Statistics %s", s.Range)
	}
	doc.H1(title)
	doc.Table(md.TableSet{
		Alignment: []md.TableAlignment{md.AlignLeft, md.AlignRight},
		Header:    []string{md.Bold("Total Spent"), md.Bold(s.Total.String())},
		Rows:      [][]string{{"Categories", fmt.Sprint(len(s.Categories))}},
	})

	if len(s.Categories) == 0 {
		doc.PlainText("No expenses recorded.")
		return doc.String()
	}
	doc.H2("By Category")
	table := md.TableSet{
		Alignment: []md.TableAlignment{md.AlignLeft, md.AlignRight, md.AlignRight},
		Header:    []string{"Category", "Amount", "Share"},
	}
	total := s.Total.InexactFloat64()
	for _, c := range s.Categories {
		var share finance.Percent
		if total != 0 {
			share = finance.Percent(c.Amount.InexactFloat64() / total * 100)
		}
		table.Rows = append(table.Rows, []string{orDash(c.Category), c.Amount.String(), share.String()})
	}
	doc.Table(table)
	return doc.String()
}
