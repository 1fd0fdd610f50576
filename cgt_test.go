package planner

import (
	"testing"

	"github.com/ukfin/planner/date"
)

func buy(day string, units, amount float64) Transaction {
	return Transaction{
		AccountID: "gia-1", FundID: "vwrl", Type: TxBuy,
		Date: date.MustParse(day), Units: Q(units), Amount: M(amount),
	}
}

func sell(day string, units, amount float64) Transaction {
	return Transaction{
		AccountID: "gia-1", FundID: "vwrl", Type: TxSell,
		Date: date.MustParse(day), Units: Q(units), Amount: M(amount),
	}
}

func TestMatchDisposalsPrecedence(t *testing.T) {
	t.Run("same day beats the pool", func(t *testing.T) {
		txs := []Transaction{
			buy("2024-01-10", 100, 1000), // pool at £10
			buy("2024-06-01", 50, 1000),  // same day at £20
			sell("2024-06-01", 50, 1100),
		}
		d := MatchDisposals(txs)
		if len(d) != 1 {
			t.Fatalf("got %d disposals, want 1", len(d))
		}
		if d[0].Rule != RuleSameDay {
			t.Errorf("rule = %s, want %s", d[0].Rule, RuleSameDay)
		}
		if want := M(100); !d[0].Gain.Equal(want) {
			t.Errorf("gain = %s, want %s", d[0].Gain, want)
		}
	})

	t.Run("buy within 30 days matches forward", func(t *testing.T) {
		txs := []Transaction{
			buy("2024-01-10", 100, 1000),
			sell("2024-06-01", 50, 1100),
			buy("2024-06-11", 50, 900), // 10 days later
		}
		d := MatchDisposals(txs)
		if len(d) != 1 {
			t.Fatalf("got %d disposals, want 1", len(d))
		}
		if d[0].Rule != RuleBedAndBreakfast {
			t.Errorf("rule = %s, want %s", d[0].Rule, RuleBedAndBreakfast)
		}
		if want := M(200); !d[0].Gain.Equal(want) {
			t.Errorf("gain = %s, want %s", d[0].Gain, want)
		}
	})

	t.Run("buy beyond 30 days falls to the pool", func(t *testing.T) {
		txs := []Transaction{
			buy("2024-01-10", 100, 1000),
			sell("2024-06-01", 50, 1100),
			buy("2024-07-02", 50, 900), // 31 days later
		}
		d := MatchDisposals(txs)
		if len(d) != 1 {
			t.Fatalf("got %d disposals, want 1", len(d))
		}
		if d[0].Rule != RuleSection104 {
			t.Errorf("rule = %s, want %s", d[0].Rule, RuleSection104)
		}
		// Costed at the £10 pool average.
		if want := M(600); !d[0].Gain.Equal(want) {
			t.Errorf("gain = %s, want %s", d[0].Gain, want)
		}
	})
}

func TestMatchDisposalsSplitsAcrossRules(t *testing.T) {
	txs := []Transaction{
		buy("2024-01-10", 100, 1000),
		buy("2024-06-01", 20, 400),
		sell("2024-06-01", 100, 2000),
		buy("2024-06-15", 30, 540),
	}
	d := MatchDisposals(txs)
	if len(d) != 3 {
		t.Fatalf("got %d disposals, want 3", len(d))
	}
	checks := []struct {
		rule  MatchingRule
		units Quantity
		cost  Money
	}{
		{RuleSameDay, Q(20), M(400)},
		{RuleBedAndBreakfast, Q(30), M(540)},
		{RuleSection104, Q(50), M(500)},
	}
	for i, want := range checks {
		if d[i].Rule != want.rule {
			t.Errorf("disposal %d rule = %s, want %s", i, d[i].Rule, want.rule)
		}
		if !d[i].Units.Equal(want.units) {
			t.Errorf("disposal %d units = %s, want %s", i, d[i].Units, want.units)
		}
		if !d[i].Cost.Equal(want.cost) {
			t.Errorf("disposal %d cost = %s, want %s", i, d[i].Cost, want.cost)
		}
	}
}

func TestSellWithEmptyPool(t *testing.T) {
	txs := []Transaction{sell("2024-06-01", 50, 1100)}
	d := MatchDisposals(txs)
	if len(d) != 1 {
		t.Fatalf("got %d disposals, want 1", len(d))
	}
	if !d[0].Cost.IsZero() {
		t.Errorf("cost = %s, want 0", d[0].Cost)
	}
	if !d[0].Gain.Equal(M(1100)) {
		t.Errorf("gain = %s, want full proceeds", d[0].Gain)
	}
}

func TestSection104PoolArithmetic(t *testing.T) {
	txs := []Transaction{
		buy("2024-01-10", 100, 1000),
		buy("2024-02-10", 100, 2000),
	}
	pools := PoolsAt(txs, date.MustParse("2024-03-01"))
	if len(pools) != 1 {
		t.Fatalf("got %d pools, want 1", len(pools))
	}
	if want := M(15); !pools[0].AvgCost().Equal(want) {
		t.Errorf("avg cost = %s, want %s", pools[0].AvgCost(), want)
	}

	txs = append(txs, sell("2024-03-10", 50, 900))
	pools = PoolsAt(txs, date.MustParse("2024-04-01"))
	if len(pools) != 1 {
		t.Fatalf("got %d pools, want 1", len(pools))
	}
	p := pools[0]
	if !p.Units.Equal(Q(150)) {
		t.Errorf("units = %s, want 150", p.Units)
	}
	if want := M(2250); !p.Cost.Equal(want) {
		t.Errorf("cost = %s, want %s", p.Cost, want)
	}
	if want := M(15); !p.AvgCost().Equal(want) {
		t.Errorf("avg cost = %s, want %s", p.AvgCost(), want)
	}
}

func TestPoolsAtIgnoresLaterHistory(t *testing.T) {
	txs := []Transaction{
		buy("2024-01-10", 100, 1000),
		sell("2025-01-10", 100, 1500),
	}
	pools := PoolsAt(txs, date.MustParse("2024-06-01"))
	if len(pools) != 1 || !pools[0].Units.Equal(Q(100)) {
		t.Fatalf("pools = %+v, want the 100-unit pool", pools)
	}
	if pools := PoolsAt(txs, date.MustParse("2025-06-01")); len(pools) != 0 {
		t.Fatalf("pools = %+v, want none after full disposal", pools)
	}
}

func TestGainsForTaxYear(t *testing.T) {
	c := constants2025(t)
	txs := []Transaction{
		buy("2023-01-10", 100, 1000),
		sell("2025-06-01", 40, 4400), // gain 4000, in 2025-26
		sell("2026-03-01", 20, 100),  // loss 100, in 2025-26
		sell("2026-04-06", 20, 2200), // gain 2000, in 2026-27
	}
	g := GainsForTaxYear(txs, date.MustParseTaxYear("2025-26"), c)
	if len(g.Disposals) != 2 {
		t.Fatalf("got %d disposals, want 2", len(g.Disposals))
	}
	if !g.TotalGains.Equal(M(4000)) || !g.TotalLosses.Equal(M(100)) {
		t.Errorf("gains/losses = %s/%s, want £4,000/£100", g.TotalGains, g.TotalLosses)
	}
	if want := M(3900); !g.NetGain.Equal(want) {
		t.Errorf("net gain = %s, want %s", g.NetGain, want)
	}
	// £3,000 exemption in 2025-26.
	if want := M(900); !g.TaxableGain.Equal(want) {
		t.Errorf("taxable gain = %s, want %s", g.TaxableGain, want)
	}
}

func TestGainsBelowExemption(t *testing.T) {
	c := constants2025(t)
	txs := []Transaction{
		buy("2023-01-10", 100, 1000),
		sell("2025-06-01", 10, 600),
	}
	g := GainsForTaxYear(txs, date.MustParseTaxYear("2025-26"), c)
	if !g.TaxableGain.IsZero() {
		t.Errorf("taxable gain = %s, want 0", g.TaxableGain)
	}
}

func TestUnrealisedGains(t *testing.T) {
	accounts := []Account{{ID: "gia-1", Wrapper: WrapperGIA}}
	funds := []Fund{{ID: "vwrl", Name: "FTSE All-World", CurrentPrice: M(20)}}
	txs := []Transaction{buy("2024-01-10", 100, 1000)}

	gains := UnrealisedGains(accounts, funds, txs)
	if len(gains) != 1 {
		t.Fatalf("got %d positions, want 1", len(gains))
	}
	u := gains[0]
	if !u.MarketValue.Equal(M(2000)) {
		t.Errorf("market value = %s, want £2,000", u.MarketValue)
	}
	if !u.Gain.Equal(M(1000)) {
		t.Errorf("gain = %s, want £1,000", u.Gain)
	}
}

func TestMatchDisposalsDoesNotMutateInput(t *testing.T) {
	txs := []Transaction{
		sell("2024-06-01", 50, 1100),
		buy("2024-01-10", 100, 1000),
	}
	MatchDisposals(txs)
	if txs[0].Date != date.MustParse("2024-06-01") {
		t.Error("input order was mutated")
	}
	if !txs[1].Units.Equal(Q(100)) {
		t.Error("input units were mutated")
	}
}
