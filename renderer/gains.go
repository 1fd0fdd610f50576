package renderer

import (
	"fmt"
	"io"
	"strings"

	"github.com/ukfin/planner"
)

// GainsMarkdown renders the capital gains report for one tax year, with the
// unrealised position appended when present.
func GainsMarkdown(h *planner.Household, g planner.TaxYearGains, unrealised []planner.UnrealisedGain) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# Capital Gains Report %s\n\n", g.Year)

	if len(g.Disposals) == 0 {
		fmt.Fprint(&b, "No disposals in this tax year.\n\n")
	} else {
		fmt.Fprint(&b, "## Disposals\n\n")
		fmt.Fprintln(&b, "| Date | Account | Fund | Rule | Units | Proceeds | Cost | Gain |")
		fmt.Fprintln(&b, "|:---|:---|:---|:---|---:|---:|---:|---:|")
		for _, d := range g.Disposals {
			row(&b, d.Date.String(), h.AccountLabel(d.AccountID), h.FundLabel(d.FundID),
				ruleLabel(d.Rule), d.Units.String(),
				d.Proceeds.String(), d.Cost.String(), d.Gain.SignedString())
		}
		fmt.Fprintln(&b)
	}

	fmt.Fprint(&b, "## Summary\n\n")
	fmt.Fprintln(&b, "| | |")
	fmt.Fprintln(&b, "|:---|---:|")
	row(&b, "Total gains", g.TotalGains.String())
	row(&b, "Total losses", g.TotalLosses.String())
	row(&b, "Net gain", g.NetGain.SignedString())
	row(&b, "**Taxable gain after exemption**", "**"+g.TaxableGain.String()+"**")
	fmt.Fprintln(&b)

	ConditionalBlock(&b, func(w io.Writer) bool {
		fmt.Fprint(w, "## Unrealised Positions\n\n")
		fmt.Fprintln(w, "| Account | Fund | Units | Market Value | Cost | Gain |")
		fmt.Fprintln(w, "|:---|:---|---:|---:|---:|---:|")
		for _, u := range unrealised {
			row(w, h.AccountLabel(u.AccountID), h.FundLabel(u.FundID), u.Units.String(),
				u.MarketValue.String(), u.Cost.String(), u.Gain.SignedString())
		}
		fmt.Fprintln(w)
		return len(unrealised) > 0
	})

	return b.String()
}

func ruleLabel(r planner.MatchingRule) string {
	switch r {
	case planner.RuleSameDay:
		return "same day"
	case planner.RuleBedAndBreakfast:
		return "bed & breakfast"
	default:
		return "section 104"
	}
}
