package renderer

import (
	"fmt"
	"io"
	"strings"

	"github.com/ukfin/planner"
)

// ScenarioMarkdown renders a before/after comparison of two household states.
// Sections with no changes are left out entirely.
func ScenarioMarkdown(before, after planner.Household) string {
	var b strings.Builder

	fmt.Fprint(&b, "# Scenario Comparison\n\n")

	ConditionalBlock(&b, func(w io.Writer) bool {
		changed := false
		fmt.Fprint(w, "## Accounts\n\n")
		fmt.Fprintln(w, "| Account | Before | After | Change |")
		fmt.Fprintln(w, "|:---|---:|---:|---:|")
		for _, a := range before.Accounts {
			na := after.Account(a.ID)
			if na == nil || na.CurrentValue.Equal(a.CurrentValue) {
				continue
			}
			changed = true
			row(w, before.AccountLabel(a.ID), a.CurrentValue.String(), na.CurrentValue.String(),
				na.CurrentValue.Sub(a.CurrentValue).SignedString())
		}
		fmt.Fprintln(w)
		return changed
	})

	ConditionalBlock(&b, func(w io.Writer) bool {
		changed := false
		fmt.Fprint(w, "## Incomes\n\n")
		fmt.Fprintln(w, "| Person | Before | After |")
		fmt.Fprintln(w, "|:---|---:|---:|")
		for _, in := range before.Incomes {
			ni := after.Income(in.PersonID)
			if ni == nil || ni.Gross().Equal(in.Gross()) {
				continue
			}
			changed = true
			row(w, personLabel(before, in.PersonID), in.Gross().String(), ni.Gross().String())
		}
		fmt.Fprintln(w)
		return changed
	})

	ConditionalBlock(&b, func(w io.Writer) bool {
		if contributionsKey(before) == contributionsKey(after) {
			return false
		}
		fmt.Fprint(w, "## Contributions\n\n")
		fmt.Fprint(w, "Before:\n\n")
		fmt.Fprint(w, contributionsTable(before.Contributions))
		fmt.Fprint(w, "\nAfter:\n\n")
		fmt.Fprint(w, contributionsTable(after.Contributions))
		fmt.Fprintln(w)
		return true
	})

	if b.Len() < len("# Scenario Comparison\n\n")+1 {
		fmt.Fprint(&b, "No differences.\n")
	}
	return b.String()
}

// ContributionsMarkdown renders a contribution plan, for instance the output
// of the savings-rate scaler.
func ContributionsMarkdown(contributions []planner.Contribution) string {
	var b strings.Builder
	fmt.Fprint(&b, "# Contribution Plan\n\n")
	if len(contributions) == 0 {
		fmt.Fprint(&b, "No contributions.\n")
		return b.String()
	}
	fmt.Fprint(&b, contributionsTable(contributions))

	var total planner.Money
	for _, c := range contributions {
		total = total.Add(c.Annual)
	}
	fmt.Fprintf(&b, "\nTotal: **%s** per year.\n", total)
	return b.String()
}

// ImpactMarkdown renders the per-person tax and take-home change of a
// pension contribution scenario.
func ImpactMarkdown(impacts []planner.ScenarioImpact) string {
	var b strings.Builder
	fmt.Fprint(&b, "# Tax Impact\n\n")
	if len(impacts) == 0 {
		fmt.Fprint(&b, "Nobody is affected.\n")
		return b.String()
	}
	fmt.Fprintln(&b, "| Person | Tax | NI | Take Home |")
	fmt.Fprintln(&b, "|:---|---:|---:|---:|")
	for _, i := range impacts {
		row(&b, i.PersonID, i.TaxDelta.SignedString(), i.NIDelta.SignedString(),
			i.TakeHomeDelta.SignedString())
	}
	return b.String()
}

func contributionsTable(contributions []planner.Contribution) string {
	var b strings.Builder
	fmt.Fprintln(&b, "| Person | Wrapper | Annual |")
	fmt.Fprintln(&b, "|:---|:---|---:|")
	for _, c := range contributions {
		row(&b, c.PersonID, string(c.Wrapper), c.Annual.String())
	}
	return b.String()
}

func contributionsKey(h planner.Household) string {
	var b strings.Builder
	for _, c := range h.Contributions {
		fmt.Fprintf(&b, "%s/%s/%s;", c.PersonID, c.Wrapper, c.Annual)
	}
	return b.String()
}

func personLabel(h planner.Household, id string) string {
	if p := h.Person(id); p != nil && p.Name != "" {
		return p.Name
	}
	return id
}
