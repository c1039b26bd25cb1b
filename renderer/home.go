package renderer

import (
	"bytes"

	"github.com/etnz/finance"
	md "github.com/nao1215/markdown"
)

// HomeMarkdown renders the finance home: every wallet with its value and the
// net worth.
func HomeMarkdown(h finance.Home) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)

	doc.H1("Finance")
	doc.Table(md.TableSet{
		Alignment: []md.TableAlignment{md.AlignLeft, md.AlignRight},
		Header:    []string{md.Bold("Net Worth"), md.Bold(h.NetWorth.String())},
		Rows: [][]string{
			{"Spent this month", h.MonthlySpend.String()},
		},
	})

	doc.H2("Wallets")
	if len(h.Holdings) == 0 {
		doc.PlainText("No wallet yet, create one with `fin wallet-add`.")
		return doc.String()
	}
	table := md.TableSet{
		Alignment: []md.TableAlignment{md.AlignRight, md.AlignLeft, md.AlignLeft, md.AlignRight, md.AlignRight, md.AlignRight},
		Header:    []string{"#", "Wallet", "Type", "Value", "Profit", "Return"},
	}
	for _, hold := range h.Holdings {
		profit, roi := "", ""
		if p := hold.Performance; p != nil {
			profit, roi = p.Profit.SignedString(), p.ROI.SignedString()
		}
		table.Rows = append(table.Rows, []string{
			itoa(hold.Wallet.ID),
			hold.Wallet.Name,
			hold.Wallet.Type.String(),
			hold.Value.String(),
			orDash(profit),
			orDash(roi),
		})
	}
	doc.Table(table)
	return doc.String()
}
