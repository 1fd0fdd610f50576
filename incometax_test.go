package planner

import (
	"strings"
	"testing"

	"github.com/ukfin/planner/date"
)

func constants2025(t *testing.T) TaxConstants {
	t.Helper()
	return DefaultTaxTable().ConstantsFor(date.MustParseTaxYear("2025-26"))
}

func TestCalculateIncomeTax(t *testing.T) {
	c := constants2025(t)

	tests := []struct {
		name    string
		gross   Money
		pension Money
		method  PensionMethod
		tax     Money
		ni      Money
	}{
		{"zero income", M(0), M(0), SalarySacrifice, M(0), M(0)},
		{"below allowance", M(10000), M(0), SalarySacrifice, M(0), M(0)},
		{"basic rate only", M(50000), M(0), SalarySacrifice, M(7486), M(2994.40)},
		{"higher rate", M(60000), M(0), SalarySacrifice, M(11432), M(3210.60)},
		{"tapered allowance", M(110000), M(0), SalarySacrifice, M(33432), M(4210.60)},
		{"sacrifice restores allowance", M(110000), M(10000), SalarySacrifice, M(27432), M(4010.60)},
		{"relief at source extends band", M(60000), M(10000), ReliefAtSource, M(9486), M(3210.60)},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			r := CalculateIncomeTax(tc.gross, tc.pension, tc.method, c)
			if !r.Tax.Equal(tc.tax) {
				t.Errorf("tax = %s, want %s", r.Tax, tc.tax)
			}
			if !r.NI.Equal(tc.ni) {
				t.Errorf("ni = %s, want %s", r.NI, tc.ni)
			}
			want := tc.gross.Sub(tc.pension).Sub(tc.tax).Sub(tc.ni)
			if !r.TakeHome.Equal(want) {
				t.Errorf("takeHome = %s, want %s", r.TakeHome, want)
			}
		})
	}
}

func TestIncomeTaxInvariants(t *testing.T) {
	c := constants2025(t)

	prev := M(0)
	for gross := 0; gross <= 200000; gross += 1000 {
		r := CalculateIncomeTax(M(gross), M(0), SalarySacrifice, c)
		total := r.Tax.Add(r.NI)
		if total.IsNegative() {
			t.Fatalf("negative tax at gross %d: %s", gross, total)
		}
		if total.GreaterThan(M(gross)) {
			t.Fatalf("tax %s exceeds gross %d", total, gross)
		}
		if total.LessThan(prev) {
			t.Fatalf("tax not monotonic at gross %d: %s < %s", gross, total, prev)
		}
		prev = total
	}

	// Past the higher-rate limit the taper has fully removed the allowance.
	r := CalculateIncomeTax(c.HigherRateLimit, M(0), SalarySacrifice, c)
	if !r.PersonalAllowance.IsZero() {
		t.Errorf("allowance at higher-rate limit = %s, want 0", r.PersonalAllowance)
	}
}

func TestMarginalSaving(t *testing.T) {
	c := constants2025(t)

	// A higher-rate taxpayer sacrificing 1000 saves 40% tax plus 2% NI.
	got := MarginalSaving(M(80000), M(0), M(1000), SalarySacrifice, c)
	if want := M(420); !got.Equal(want) {
		t.Errorf("MarginalSaving = %s, want %s", got, want)
	}

	// In the taper band the marginal rate includes the allowance claw-back.
	got = MarginalSaving(M(110000), M(0), M(1000), SalarySacrifice, c)
	if want := M(620); !got.Equal(want) {
		t.Errorf("MarginalSaving in taper band = %s, want %s", got, want)
	}
}

func TestTaxTableFallback(t *testing.T) {
	table := DefaultTaxTable()

	latest := table.ConstantsFor(table.Latest())
	future := table.ConstantsFor(date.NewTaxYear(2031))
	if !future.ISAAllowance.Equal(latest.ISAAllowance) || !future.CGTExemption.Equal(latest.CGTExemption) {
		t.Errorf("unknown year did not fall back to latest entry")
	}

	c := table.ConstantsFor(date.MustParseTaxYear("2022-23"))
	if want := M(12300); !c.CGTExemption.Equal(want) {
		t.Errorf("2022-23 CGT exemption = %s, want %s", c.CGTExemption, want)
	}
	if want := M(40000); !c.PensionAnnualAllowance.Equal(want) {
		t.Errorf("2022-23 annual allowance = %s, want %s", c.PensionAnnualAllowance, want)
	}
}

func TestLoadTaxTable(t *testing.T) {
	const src = `
years:
  2030-31:
    isa_allowance: 25000
    personal_allowance: 15000
`
	table, err := LoadTaxTable(strings.NewReader(src))
	if err != nil {
		t.Fatal(err)
	}
	c := table.ConstantsFor(date.MustParseTaxYear("2030-31"))
	if want := M(25000); !c.ISAAllowance.Equal(want) {
		t.Errorf("isa allowance = %s, want %s", c.ISAAllowance, want)
	}

	if _, err := LoadTaxTable(strings.NewReader("years: {}")); err == nil {
		t.Error("empty table should not load")
	}
	if _, err := LoadTaxTable(strings.NewReader("years: {bogus: {}}")); err == nil {
		t.Error("invalid year label should not load")
	}
}
