package planner

import (
	"testing"
)

func sampleHousehold() Household {
	return Household{
		Persons: []Person{
			{ID: "alex", Name: "Alex", RetirementAge: 65},
			{ID: "sam", Name: "Sam", RetirementAge: 67},
		},
		Incomes: []Income{
			{PersonID: "alex", GrossSalary: M(120000)},
			{PersonID: "sam", GrossSalary: M(80000)},
		},
		Contributions: []Contribution{
			{PersonID: "alex", Wrapper: WrapperISA, Annual: M(10000)},
			{PersonID: "alex", Wrapper: WrapperPension, Annual: M(5000)},
			{PersonID: "sam", Wrapper: WrapperISA, Annual: M(4000)},
		},
		Accounts: []Account{
			{ID: "isa-1", Wrapper: WrapperISA, PersonID: "alex", CurrentValue: M(100000)},
			{ID: "gia-1", Wrapper: WrapperGIA, PersonID: "alex", CurrentValue: M(50000)},
		},
		Retirement: RetirementConfig{AnnualSpendingNeed: M(40000), EndAge: 95},
	}
}

func TestApplyScenarioOverridesDoesNotMutate(t *testing.T) {
	h := sampleHousehold()
	age := 60
	shock := Percent(-30)
	ApplyScenarioOverrides(h, ScenarioOverrides{
		Persons:            []PersonOverride{{ID: "alex", RetirementAge: &age}},
		Contributions:      []ContributionOverride{{PersonID: "alex"}},
		MarketShockPercent: &shock,
		AccountValues:      map[string]Money{"gia-1": M(1)},
	})

	if h.Persons[0].RetirementAge != 65 {
		t.Error("source person was mutated")
	}
	if len(h.Contributions) != 3 {
		t.Error("source contributions were mutated")
	}
	if !h.Accounts[0].CurrentValue.Equal(M(100000)) || !h.Accounts[1].CurrentValue.Equal(M(50000)) {
		t.Error("source account values were mutated")
	}
}

func TestApplyScenarioOverridesMerge(t *testing.T) {
	h := sampleHousehold()
	age := 60
	salary := M(90000)
	need := M(35000)
	isa := M(15000)
	out := ApplyScenarioOverrides(h, ScenarioOverrides{
		Persons:       []PersonOverride{{ID: "alex", RetirementAge: &age}},
		Incomes:       []IncomeOverride{{PersonID: "alex", GrossSalary: &salary}},
		Contributions: []ContributionOverride{{PersonID: "alex", ISA: &isa}},
		Retirement:    &RetirementOverride{AnnualSpendingNeed: &need},
	})

	if out.Person("alex").RetirementAge != 60 {
		t.Errorf("retirement age = %d, want 60", out.Person("alex").RetirementAge)
	}
	if out.Person("alex").Name != "Alex" {
		t.Error("unset override field should leave name alone")
	}
	if out.Person("sam").RetirementAge != 67 {
		t.Error("unmatched person should pass through")
	}
	if !out.Income("alex").GrossSalary.Equal(salary) {
		t.Errorf("gross = %s, want %s", out.Income("alex").GrossSalary, salary)
	}

	// Full replacement: the pension record is gone, Sam's untouched.
	alex := out.ContributionsOf("alex")
	if len(alex) != 1 || alex[0].Wrapper != WrapperISA || !alex[0].Annual.Equal(isa) {
		t.Errorf("contributions = %+v, want single £15,000 ISA", alex)
	}
	if sam := out.ContributionsOf("sam"); len(sam) != 1 || !sam[0].Annual.Equal(M(4000)) {
		t.Errorf("sam's contributions = %+v, want untouched", sam)
	}

	if !out.Retirement.AnnualSpendingNeed.Equal(need) || out.Retirement.EndAge != 95 {
		t.Errorf("retirement = %+v, want need merged and end age kept", out.Retirement)
	}
}

func TestMarketShockComposition(t *testing.T) {
	h := sampleHousehold()

	shock := Percent(-30)
	out := ApplyScenarioOverrides(h, ScenarioOverrides{MarketShockPercent: &shock})
	if want := M(70000); !out.Account("isa-1").CurrentValue.Equal(want) {
		t.Errorf("-30%% on £100,000 = %s, want %s", out.Account("isa-1").CurrentValue, want)
	}

	crash := Percent(-150)
	out = ApplyScenarioOverrides(h, ScenarioOverrides{MarketShockPercent: &crash})
	if !out.Account("isa-1").CurrentValue.IsZero() {
		t.Errorf("-150%% = %s, want floored at 0", out.Account("isa-1").CurrentValue)
	}

	// An explicit value wins over the shock.
	out = ApplyScenarioOverrides(h, ScenarioOverrides{
		MarketShockPercent: &shock,
		AccountValues:      map[string]Money{"isa-1": M(123456)},
	})
	if want := M(123456); !out.Account("isa-1").CurrentValue.Equal(want) {
		t.Errorf("explicit value = %s, want %s", out.Account("isa-1").CurrentValue, want)
	}
	if want := M(35000); !out.Account("gia-1").CurrentValue.Equal(want) {
		t.Errorf("shocked sibling = %s, want %s", out.Account("gia-1").CurrentValue, want)
	}
}

func TestScaleSavingsRateISACapSpillover(t *testing.T) {
	c := constants2025(t)
	h := Household{
		Persons:       []Person{{ID: "alex"}},
		Incomes:       []Income{{PersonID: "alex", GrossSalary: M(200000)}},
		Contributions: []Contribution{{PersonID: "alex", Wrapper: WrapperISA, Annual: M(10000)}},
	}
	out := ScaleSavingsRateContributions(h, Percent(50), c)
	if len(out) != 2 {
		t.Fatalf("got %d contributions, want 2", len(out))
	}
	if out[0].Wrapper != WrapperISA || !out[0].Annual.Equal(M(20000)) {
		t.Errorf("isa = %+v, want capped at £20,000", out[0])
	}
	if out[1].Wrapper != WrapperGIA || !out[1].Annual.Equal(M(80000)) {
		t.Errorf("gia = %+v, want the £80,000 spill", out[1])
	}
}

func TestScaleSavingsRateProportionalMix(t *testing.T) {
	c := constants2025(t)
	h := sampleHousehold()
	// Alex earns 120k of 200k, so targets 20% of 120k = 24k over a 10k ISA
	// + 5k pension mix. Sam has a 4k ISA mix toward a 16k target.
	out := ScaleSavingsRateContributions(h, Percent(20), c)
	if len(out) != 3 {
		t.Fatalf("got %d contributions, want 3", len(out))
	}
	if !out[0].Annual.Equal(M(16000)) || out[0].Wrapper != WrapperISA {
		t.Errorf("alex isa = %+v, want £16,000", out[0])
	}
	if !out[1].Annual.Equal(M(8000)) || out[1].Wrapper != WrapperPension {
		t.Errorf("alex pension = %+v, want £8,000", out[1])
	}
	if out[2].PersonID != "sam" || !out[2].Annual.Equal(M(16000)) {
		t.Errorf("sam isa = %+v, want £16,000", out[2])
	}
}

func TestScaleSavingsRateFreshAllocation(t *testing.T) {
	c := constants2025(t)
	h := Household{
		Persons: []Person{{ID: "alex"}},
		Incomes: []Income{{PersonID: "alex", GrossSalary: M(100000)}},
	}
	out := ScaleSavingsRateContributions(h, Percent(30), c)
	if len(out) != 2 {
		t.Fatalf("got %d contributions, want 2", len(out))
	}
	if out[0].Wrapper != WrapperISA || !out[0].Annual.Equal(M(20000)) {
		t.Errorf("isa = %+v, want £20,000", out[0])
	}
	if out[1].Wrapper != WrapperGIA || !out[1].Annual.Equal(M(10000)) {
		t.Errorf("gia = %+v, want £10,000", out[1])
	}
}

func TestScaleSavingsRateZeroIncome(t *testing.T) {
	c := constants2025(t)
	h := Household{Persons: []Person{{ID: "alex"}}}
	if out := ScaleSavingsRateContributions(h, Percent(30), c); out != nil {
		t.Errorf("got %+v, want nil on zero gross income", out)
	}
}

func TestCalculateScenarioImpact(t *testing.T) {
	c := constants2025(t)
	h := Household{
		Persons: []Person{{ID: "alex"}},
		Incomes: []Income{{PersonID: "alex", GrossSalary: M(60000)}},
	}
	out := CalculateScenarioImpact(h, map[string]Money{"alex": M(10000)}, c)
	if len(out) != 1 {
		t.Fatalf("got %d impacts, want 1", len(out))
	}
	i := out[0]
	if want := M(-3946); !i.TaxDelta.Equal(want) {
		t.Errorf("tax delta = %s, want %s", i.TaxDelta, want)
	}
	if want := M(-216.20); !i.NIDelta.Equal(want) {
		t.Errorf("ni delta = %s, want %s", i.NIDelta, want)
	}
	if want := M(-5837.80); !i.TakeHomeDelta.Equal(want) {
		t.Errorf("take-home delta = %s, want %s", i.TakeHomeDelta, want)
	}
}

func TestBuildAvoidTaperPreset(t *testing.T) {
	c := constants2025(t)
	h := Household{
		Persons: []Person{{ID: "alex"}, {ID: "sam"}, {ID: "kim"}},
		Incomes: []Income{
			{PersonID: "alex", GrossSalary: M(120000)},
			{PersonID: "sam", GrossSalary: M(90000)},  // below the taper band
			{PersonID: "kim", GrossSalary: M(130000)}, // above the band
		},
		Contributions: []Contribution{
			{PersonID: "alex", Wrapper: WrapperISA, Annual: M(6000)},
		},
	}
	o := BuildAvoidTaperPreset(h, c)
	if len(o.Contributions) != 1 {
		t.Fatalf("got %d overrides, want only alex: %+v", len(o.Contributions), o.Contributions)
	}
	co := o.Contributions[0]
	if co.PersonID != "alex" {
		t.Fatalf("override person = %s, want alex", co.PersonID)
	}
	if co.Pension == nil || !co.Pension.Equal(M(20000)) {
		t.Errorf("pension = %v, want £20,000 to reach the threshold", co.Pension)
	}
	if co.ISA == nil || !co.ISA.Equal(M(6000)) {
		t.Errorf("isa = %v, want the existing £6,000 carried through", co.ISA)
	}
}

func TestAvoidTaperHeadroomCap(t *testing.T) {
	c := constants2025(t)
	h := Household{
		Persons: []Person{{ID: "alex"}},
		Incomes: []Income{{PersonID: "alex", GrossSalary: M(175000)}},
		Contributions: []Contribution{
			{PersonID: "alex", Wrapper: WrapperPension, Annual: M(55000)},
		},
	}
	// Adjusted income 120,000 needs 20,000 more, but only 5,000 allowance
	// headroom remains.
	o := BuildAvoidTaperPreset(h, c)
	if len(o.Contributions) != 1 {
		t.Fatalf("got %d overrides, want 1", len(o.Contributions))
	}
	if p := o.Contributions[0].Pension; p == nil || !p.Equal(M(60000)) {
		t.Errorf("pension = %v, want capped at the £60,000 allowance", p)
	}
}
