package renderer

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/ukfin/planner"
)

// DrawdownMarkdown renders a full drawdown plan, one row per simulated year.
func DrawdownMarkdown(plan planner.DrawdownPlan) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# Drawdown Plan (%s)\n\n", strategyLabel(plan.Strategy))

	fmt.Fprintln(&b, "| Age | State Pension | Pension | ISA | GIA | Cash | Tax | Net Income | Remaining |")
	fmt.Fprintln(&b, "|---:|---:|---:|---:|---:|---:|---:|---:|---:|")
	for _, y := range plan.Years {
		remaining := y.EndBalances.Total().String()
		if y.Exhausted {
			remaining = "exhausted"
		}
		row(&b, strconv.Itoa(y.Age), y.StatePension.String(),
			y.PensionDrawn.String(), y.ISADrawn.String(), y.GIADrawn.String(), y.CashDrawn.String(),
			y.TaxPaid.String(), y.NetIncome.String(), remaining)
	}
	fmt.Fprintln(&b)

	fmt.Fprintf(&b, "Total tax paid: **%s** over %d years, total net income %s.\n",
		plan.TotalTax, len(plan.Years), plan.TotalNetIncome)
	if plan.ExhaustionAge != nil {
		fmt.Fprintf(&b, "\n⚠️ Funds run out at age %d.\n", *plan.ExhaustionAge)
	}

	return b.String()
}

// ComparisonMarkdown renders the two strategies side by side with the
// tax-saved headline.
func ComparisonMarkdown(cmp planner.StrategyComparison) string {
	var b strings.Builder

	fmt.Fprint(&b, "# Strategy Comparison\n\n")
	fmt.Fprintln(&b, "| | Tax Optimal | Proportional |")
	fmt.Fprintln(&b, "|:---|---:|---:|")
	row(&b, "Total tax", cmp.TaxOptimal.TotalTax.String(), cmp.Proportional.TotalTax.String())
	row(&b, "Total net income", cmp.TaxOptimal.TotalNetIncome.String(), cmp.Proportional.TotalNetIncome.String())
	row(&b, "Funds last until", exhaustionLabel(cmp.TaxOptimal), exhaustionLabel(cmp.Proportional))
	fmt.Fprintln(&b)

	fmt.Fprintf(&b, "Tax saved by sequencing withdrawals: **%s**.\n", cmp.TaxSaved)
	return b.String()
}

func strategyLabel(s planner.Strategy) string {
	if s == planner.StrategyProportional {
		return "proportional"
	}
	return "tax optimal"
}

func exhaustionLabel(plan planner.DrawdownPlan) string {
	if plan.ExhaustionAge == nil {
		return "end of plan"
	}
	return fmt.Sprintf("age %d", *plan.ExhaustionAge)
}
