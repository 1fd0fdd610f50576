package planner

import (
	"slices"
	"strings"

	"github.com/ukfin/planner/date"
)

// MatchingRule identifies which HMRC share-matching rule produced a disposal.
type MatchingRule string

const (
	RuleSameDay         MatchingRule = "same_day"
	RuleBedAndBreakfast MatchingRule = "bed_and_breakfast"
	RuleSection104      MatchingRule = "section_104"
)

// Disposal is the gain outcome of one sell under one matching rule. A single
// sell decomposes into up to three disposals when its units are split across
// rules.
type Disposal struct {
	SellID    string       `json:"sell,omitempty"`
	AccountID string       `json:"account"`
	FundID    string       `json:"fund"`
	Date      date.Date    `json:"date"`
	Rule      MatchingRule `json:"rule"`
	Units     Quantity     `json:"units"`
	Proceeds  Money        `json:"proceeds"`
	Cost      Money        `json:"cost"`
	Gain      Money        `json:"gain"`
}

// Section104Pool is the pooled holding of one fund in one account: total
// units held and their aggregate cost. Pools are always rebuilt from the
// ordered transaction history, never persisted.
type Section104Pool struct {
	AccountID string   `json:"account"`
	FundID    string   `json:"fund"`
	Units     Quantity `json:"units"`
	Cost      Money    `json:"cost"`
}

// AvgCost returns the pool's average cost per unit, zero for an empty pool.
func (p Section104Pool) AvgCost() Money { return p.Cost.Div(p.Units) }

// TaxYearGains aggregates the disposals realised in one UK tax year.
type TaxYearGains struct {
	Year        date.TaxYear `json:"year"`
	Disposals   []Disposal   `json:"disposals,omitempty"`
	TotalGains  Money        `json:"totalGains"`
	TotalLosses Money        `json:"totalLosses"`
	NetGain     Money        `json:"netGain"`
	TaxableGain Money        `json:"taxableGain"`
}

// UnrealisedGain is the paper gain of one currently held position against its
// Section 104 average cost.
type UnrealisedGain struct {
	AccountID   string   `json:"account"`
	FundID      string   `json:"fund"`
	Units       Quantity `json:"units"`
	MarketValue Money    `json:"marketValue"`
	Cost        Money    `json:"cost"`
	Gain        Money    `json:"gain"`
}

// holding is one fund's history within one account, in date order.
type holding struct {
	accountID string
	fundID    string
	txs       []Transaction
}

// groupHoldings splits buy/sell transactions per (account, fund), keeping
// first-appearance order so output ordering is deterministic.
func groupHoldings(txs []Transaction) []*holding {
	var order []*holding
	index := map[string]*holding{}
	for _, tx := range SortTransactions(txs) {
		if tx.Type != TxBuy && tx.Type != TxSell {
			continue
		}
		key := tx.AccountID + "\x00" + tx.FundID
		h, ok := index[key]
		if !ok {
			h = &holding{accountID: tx.AccountID, fundID: tx.FundID}
			index[key] = h
			order = append(order, h)
		}
		h.txs = append(h.txs, tx)
	}
	return order
}

// match applies the HMRC matching rules to one holding's history. It returns
// the disposals in sell order and the closing Section 104 pool.
func (h *holding) match() ([]Disposal, Section104Pool) {
	type matched struct {
		units Quantity
		cost  Money
	}
	// Per-transaction remaining units available for same-day and
	// bed-and-breakfast matching.
	buyLeft := make([]Quantity, len(h.txs))
	sellLeft := make([]Quantity, len(h.txs))
	sameDay := make([]matched, len(h.txs))
	bnb := make([]matched, len(h.txs))
	for i, tx := range h.txs {
		if tx.Type == TxBuy {
			buyLeft[i] = tx.Units
		} else {
			sellLeft[i] = tx.Units
		}
	}

	consume := func(si, bi int) matched {
		units := sellLeft[si].Min(buyLeft[bi])
		if !units.IsPositive() {
			return matched{}
		}
		sellLeft[si] = sellLeft[si].Sub(units)
		buyLeft[bi] = buyLeft[bi].Sub(units)
		buy := h.txs[bi]
		return matched{units: units, cost: buy.Amount.Div(buy.Units).Mul(units)}
	}

	// Same-day claims take precedence over bed-and-breakfast, so resolve
	// them for every sell before any forward matching.
	for si, sell := range h.txs {
		if sell.Type != TxSell {
			continue
		}
		for bi, buy := range h.txs {
			if buy.Type != TxBuy || buy.Date != sell.Date || !sellLeft[si].IsPositive() {
				continue
			}
			m := consume(si, bi)
			sameDay[si].units = sameDay[si].units.Add(m.units)
			sameDay[si].cost = sameDay[si].cost.Add(m.cost)
		}
	}

	// Bed and breakfast: earliest sell first, against the earliest buy in
	// the 30 calendar days after the sell.
	for si, sell := range h.txs {
		if sell.Type != TxSell {
			continue
		}
		window := sell.Date.Add(30)
		for bi, buy := range h.txs {
			if buy.Type != TxBuy || !sellLeft[si].IsPositive() {
				continue
			}
			if !buy.Date.After(sell.Date) || buy.Date.After(window) {
				continue
			}
			m := consume(si, bi)
			bnb[si].units = bnb[si].units.Add(m.units)
			bnb[si].cost = bnb[si].cost.Add(m.cost)
		}
	}

	// Replay chronologically: unmatched buy units enter the pool, each
	// sell's unmatched remainder is costed at the pool's average.
	var disposals []Disposal
	pool := Section104Pool{AccountID: h.accountID, FundID: h.fundID}
	for i, tx := range h.txs {
		if tx.Type == TxBuy {
			if buyLeft[i].IsPositive() {
				pool.Units = pool.Units.Add(buyLeft[i])
				pool.Cost = pool.Cost.Add(tx.Amount.Div(tx.Units).Mul(buyLeft[i]))
			}
			continue
		}

		unitProceeds := tx.Amount.Div(tx.Units)
		record := func(rule MatchingRule, units Quantity, cost Money) {
			if !units.IsPositive() {
				return
			}
			proceeds := unitProceeds.Mul(units)
			disposals = append(disposals, Disposal{
				SellID:    tx.ID,
				AccountID: h.accountID,
				FundID:    h.fundID,
				Date:      tx.Date,
				Rule:      rule,
				Units:     units,
				Proceeds:  proceeds,
				Cost:      cost,
				Gain:      proceeds.Sub(cost),
			})
		}

		record(RuleSameDay, sameDay[i].units, sameDay[i].cost)
		record(RuleBedAndBreakfast, bnb[i].units, bnb[i].cost)

		if remainder := sellLeft[i]; remainder.IsPositive() {
			// Selling more than the pool holds costs only the pooled
			// units; the excess carries zero basis.
			pooled := remainder.Min(pool.Units)
			cost := pool.AvgCost().Mul(pooled)
			pool.Units = pool.Units.Sub(pooled)
			pool.Cost = pool.Cost.Sub(cost)
			record(RuleSection104, remainder, cost)
		}
	}
	return disposals, pool
}

// MatchDisposals applies the HMRC share-matching rules (same-day, then 30-day
// bed-and-breakfast, then Section 104 pooling) to the transaction history and
// returns every disposal, ordered by holding then sell date.
func MatchDisposals(txs []Transaction) []Disposal {
	var out []Disposal
	for _, h := range groupHoldings(txs) {
		d, _ := h.match()
		out = append(out, d...)
	}
	return out
}

// PoolsAt rebuilds every Section 104 pool from the history up to and
// including the given day. Empty pools are omitted.
func PoolsAt(txs []Transaction, on date.Date) []Section104Pool {
	var upTo []Transaction
	for _, tx := range txs {
		if !tx.Date.After(on) {
			upTo = append(upTo, tx)
		}
	}
	var pools []Section104Pool
	for _, h := range groupHoldings(upTo) {
		_, pool := h.match()
		if pool.Units.IsPositive() {
			pools = append(pools, pool)
		}
	}
	return pools
}

// GainsForTaxYear aggregates the disposals realised in the given UK tax year
// and applies the annual CGT exemption.
func GainsForTaxYear(txs []Transaction, year date.TaxYear, c TaxConstants) TaxYearGains {
	g := TaxYearGains{Year: year}
	for _, d := range MatchDisposals(txs) {
		if !year.Contains(d.Date) {
			continue
		}
		g.Disposals = append(g.Disposals, d)
		if d.Gain.IsNegative() {
			g.TotalLosses = g.TotalLosses.Add(d.Gain.Neg())
		} else {
			g.TotalGains = g.TotalGains.Add(d.Gain)
		}
	}
	g.NetGain = g.TotalGains.Sub(g.TotalLosses)
	g.TaxableGain = g.NetGain.Sub(c.CGTExemption).FloorZero()
	return g
}

// UnrealisedGains compares each open position's market value, at the fund's
// current price, against its Section 104 average cost. Positions are ordered
// by the accounts' declared order, unknown accounts last.
func UnrealisedGains(accounts []Account, funds []Fund, txs []Transaction) []UnrealisedGain {
	price := map[string]Money{}
	for _, f := range funds {
		price[f.ID] = f.CurrentPrice
	}
	rank := map[string]int{}
	for i, a := range accounts {
		rank[a.ID] = i
	}

	pools := PoolsAt(txs, date.Today())
	slices.SortStableFunc(pools, func(a, b Section104Pool) int {
		ra, oka := rank[a.AccountID]
		rb, okb := rank[b.AccountID]
		switch {
		case oka && !okb:
			return -1
		case !oka && okb:
			return 1
		case oka && okb && ra != rb:
			return ra - rb
		}
		if c := strings.Compare(a.AccountID, b.AccountID); c != 0 {
			return c
		}
		return strings.Compare(a.FundID, b.FundID)
	})

	var out []UnrealisedGain
	for _, p := range pools {
		mv := price[p.FundID].Mul(p.Units)
		out = append(out, UnrealisedGain{
			AccountID:   p.AccountID,
			FundID:      p.FundID,
			Units:       p.Units,
			MarketValue: mv,
			Cost:        p.Cost,
			Gain:        mv.Sub(p.Cost),
		})
	}
	return out
}
