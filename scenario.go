package planner

// PersonOverride is a sparse, by-id partial edit of one person. Nil fields
// leave the existing value untouched.
type PersonOverride struct {
	ID            string  `json:"id"`
	Name          *string `json:"name,omitempty"`
	RetirementAge *int    `json:"retirementAge,omitempty"`
}

// IncomeOverride is a sparse, by-person partial edit of one income record.
type IncomeOverride struct {
	PersonID    string `json:"person"`
	GrossSalary *Money `json:"grossSalary,omitempty"`
	Bonus       *Money `json:"bonus,omitempty"`
}

// ContributionOverride replaces one person's whole contribution mix. Each
// non-nil positive amount becomes one synthetic record; everything the person
// had before is dropped.
type ContributionOverride struct {
	PersonID string `json:"person"`
	ISA      *Money `json:"isa,omitempty"`
	Pension  *Money `json:"pension,omitempty"`
	GIA      *Money `json:"gia,omitempty"`
}

// RetirementOverride is a sparse partial edit of the retirement config.
type RetirementOverride struct {
	AnnualSpendingNeed *Money   `json:"annualSpendingNeed,omitempty"`
	StatePensionAnnual *Money   `json:"statePensionAnnual,omitempty"`
	StatePensionAge    *int     `json:"statePensionAge,omitempty"`
	GrowthRate         *Percent `json:"growthRate,omitempty"`
	EndAge             *int     `json:"endAge,omitempty"`
}

// ScenarioOverrides describes a hypothetical household variant as a sparse
// set of deltas against a base household.
type ScenarioOverrides struct {
	Persons            []PersonOverride       `json:"persons,omitempty"`
	Incomes            []IncomeOverride       `json:"incomes,omitempty"`
	Contributions      []ContributionOverride `json:"contributions,omitempty"`
	Retirement         *RetirementOverride    `json:"retirement,omitempty"`
	MarketShockPercent *Percent               `json:"marketShockPercent,omitempty"`
	AccountValues      map[string]Money       `json:"accountValues,omitempty"`
}

// ScenarioImpact is the tax position change of one person under a pension
// contribution delta, computed against the unmodified household.
type ScenarioImpact struct {
	PersonID      string `json:"person"`
	TaxDelta      Money  `json:"taxDelta"`
	NIDelta       Money  `json:"niDelta"`
	TakeHomeDelta Money  `json:"takeHomeDelta"`
}

// contributions returns the synthetic records of a contribution override, in
// ISA, pension, GIA order. Only positive amounts yield a record.
func (o ContributionOverride) contributions() []Contribution {
	var out []Contribution
	add := func(w Wrapper, amount *Money) {
		if amount != nil && amount.IsPositive() {
			out = append(out, Contribution{PersonID: o.PersonID, Wrapper: w, Annual: *amount})
		}
	}
	add(WrapperISA, o.ISA)
	add(WrapperPension, o.Pension)
	add(WrapperGIA, o.GIA)
	return out
}

// ApplyScenarioOverrides derives a new household by applying the overrides in
// a fixed order: persons, incomes, contributions, retirement config, then
// account values with the market shock applied before explicit replacements.
// The base household is never modified.
func ApplyScenarioOverrides(h Household, o ScenarioOverrides) Household {
	out := h.Clone()

	for _, po := range o.Persons {
		p := out.Person(po.ID)
		if p == nil {
			continue
		}
		if po.Name != nil {
			p.Name = *po.Name
		}
		if po.RetirementAge != nil {
			p.RetirementAge = *po.RetirementAge
		}
	}

	for _, no := range o.Incomes {
		in := out.Income(no.PersonID)
		if in == nil {
			continue
		}
		if no.GrossSalary != nil {
			in.GrossSalary = *no.GrossSalary
		}
		if no.Bonus != nil {
			in.Bonus = *no.Bonus
		}
	}

	if len(o.Contributions) > 0 {
		affected := map[string]bool{}
		var replaced []Contribution
		for _, co := range o.Contributions {
			affected[co.PersonID] = true
			replaced = append(replaced, co.contributions()...)
		}
		var kept []Contribution
		for _, c := range out.Contributions {
			if !affected[c.PersonID] {
				kept = append(kept, c)
			}
		}
		out.Contributions = append(kept, replaced...)
	}

	if ro := o.Retirement; ro != nil {
		if ro.AnnualSpendingNeed != nil {
			out.Retirement.AnnualSpendingNeed = *ro.AnnualSpendingNeed
		}
		if ro.StatePensionAnnual != nil {
			out.Retirement.StatePensionAnnual = *ro.StatePensionAnnual
		}
		if ro.StatePensionAge != nil {
			out.Retirement.StatePensionAge = *ro.StatePensionAge
		}
		if ro.GrowthRate != nil {
			out.Retirement.GrowthRate = *ro.GrowthRate
		}
		if ro.EndAge != nil {
			out.Retirement.EndAge = *ro.EndAge
		}
	}

	if o.MarketShockPercent != nil {
		for i := range out.Accounts {
			shocked := out.Accounts[i].CurrentValue.MulPercent(*o.MarketShockPercent)
			out.Accounts[i].CurrentValue = out.Accounts[i].CurrentValue.Add(shocked).FloorZero()
		}
	}
	for i := range out.Accounts {
		if v, ok := o.AccountValues[out.Accounts[i].ID]; ok {
			out.Accounts[i].CurrentValue = v
		}
	}
	return out
}

// ScaleSavingsRateContributions returns the contribution plan hitting a
// target household savings rate. Each person's target is their income share
// of the household total; their existing ISA/pension/GIA mix is scaled
// proportionally, with ISA hard-capped at the annual allowance and the excess
// spilled into GIA. A person with no existing contributions gets ISA up to
// the cap, remainder to GIA. A household with no gross income yields nil.
func ScaleSavingsRateContributions(h Household, targetRate Percent, c TaxConstants) []Contribution {
	var totalGross Money
	for _, in := range h.Incomes {
		totalGross = totalGross.Add(in.Gross())
	}
	if !totalGross.IsPositive() {
		return nil
	}
	householdTarget := totalGross.MulPercent(targetRate)

	var out []Contribution
	for _, p := range h.Persons {
		in := h.Income(p.ID)
		if in == nil || !in.Gross().IsPositive() {
			continue
		}
		target := Money{value: householdTarget.Decimal().Mul(in.Gross().Ratio(totalGross))}

		var isa, pension, gia, existing Money
		for _, co := range h.ContributionsOf(p.ID) {
			switch co.Wrapper {
			case WrapperISA:
				isa = isa.Add(co.Annual)
			case WrapperPension:
				pension = pension.Add(co.Annual)
			case WrapperGIA:
				gia = gia.Add(co.Annual)
			}
			existing = existing.Add(co.Annual)
		}

		if existing.IsPositive() {
			scale := target.Ratio(existing)
			isa = Money{value: isa.Decimal().Mul(scale)}
			pension = Money{value: pension.Decimal().Mul(scale)}
			gia = Money{value: gia.Decimal().Mul(scale)}
		} else {
			isa = target
		}
		if spill := isa.Sub(c.ISAAllowance); spill.IsPositive() {
			isa = c.ISAAllowance
			gia = gia.Add(spill)
		}

		add := func(w Wrapper, amount Money) {
			if amount.IsPositive() {
				out = append(out, Contribution{PersonID: p.ID, Wrapper: w, Annual: amount})
			}
		}
		add(WrapperISA, isa)
		add(WrapperPension, pension)
		add(WrapperGIA, gia)
	}
	return out
}

// pensionContribution sums a person's existing pension contributions.
func pensionContribution(h Household, personID string) Money {
	var total Money
	for _, c := range h.ContributionsOf(personID) {
		if c.Wrapper == WrapperPension {
			total = total.Add(c.Annual)
		}
	}
	return total
}

// CalculateScenarioImpact previews the tax, NI and take-home change for each
// person whose pension contribution is moved by the given delta. Deltas are
// modelled as salary sacrifice on top of the existing contribution.
func CalculateScenarioImpact(h Household, pensionDeltas map[string]Money, c TaxConstants) []ScenarioImpact {
	var out []ScenarioImpact
	for _, p := range h.Persons {
		delta, ok := pensionDeltas[p.ID]
		if !ok {
			continue
		}
		in := h.Income(p.ID)
		if in == nil {
			continue
		}
		base := pensionContribution(h, p.ID)
		before := CalculateIncomeTax(in.Gross(), base, SalarySacrifice, c)
		after := CalculateIncomeTax(in.Gross(), base.Add(delta), SalarySacrifice, c)
		out = append(out, ScenarioImpact{
			PersonID:      p.ID,
			TaxDelta:      after.Tax.Sub(before.Tax),
			NIDelta:       after.NI.Sub(before.NI),
			TakeHomeDelta: after.TakeHome.Sub(before.TakeHome),
		})
	}
	return out
}

// BuildAvoidTaperPreset returns the contribution overrides bringing each
// person's adjusted income down to the allowance taper threshold through
// extra salary-sacrifice pension contributions. Only persons strictly between
// the taper threshold and the higher-rate limit are touched, and the extra is
// capped by their remaining annual allowance headroom.
func BuildAvoidTaperPreset(h Household, c TaxConstants) ScenarioOverrides {
	var o ScenarioOverrides
	for _, p := range h.Persons {
		in := h.Income(p.ID)
		if in == nil {
			continue
		}
		base := pensionContribution(h, p.ID)
		adjusted := in.Gross().Sub(base)
		if !adjusted.GreaterThan(c.TaperThreshold) || !adjusted.LessThan(c.HigherRateLimit) {
			continue
		}
		headroom := c.PensionAnnualAllowance.Sub(base).FloorZero()
		extra := adjusted.Sub(c.TaperThreshold).Min(headroom)
		if !extra.IsPositive() {
			continue
		}

		// Contribution overrides replace the whole mix, so carry the
		// person's existing ISA and GIA amounts through unchanged.
		var isa, gia Money
		for _, co := range h.ContributionsOf(p.ID) {
			switch co.Wrapper {
			case WrapperISA:
				isa = isa.Add(co.Annual)
			case WrapperGIA:
				gia = gia.Add(co.Annual)
			}
		}
		pension := base.Add(extra)
		co := ContributionOverride{PersonID: p.ID, Pension: &pension}
		if isa.IsPositive() {
			co.ISA = &isa
		}
		if gia.IsPositive() {
			co.GIA = &gia
		}
		o.Contributions = append(o.Contributions, co)
	}
	return o
}
