package planner

import (
	"encoding/json"
	"fmt"
	"io"
	"slices"

	"github.com/ukfin/planner/date"
)

// Wrapper is the tax treatment category of an account.
type Wrapper string

const (
	WrapperPension      Wrapper = "pension"
	WrapperISA          Wrapper = "isa"
	WrapperGIA          Wrapper = "gia"
	WrapperCash         Wrapper = "cash"
	WrapperPremiumBonds Wrapper = "premium_bonds"
)

// ParseWrapper parses a wrapper from its string form.
func ParseWrapper(s string) (Wrapper, error) {
	switch Wrapper(s) {
	case WrapperPension, WrapperISA, WrapperGIA, WrapperCash, WrapperPremiumBonds:
		return Wrapper(s), nil
	default:
		return "", fmt.Errorf("unknown wrapper %q", s)
	}
}

// Person is a member of the household.
type Person struct {
	ID            string    `json:"id"`
	Name          string    `json:"name,omitempty"`
	DateOfBirth   date.Date `json:"dateOfBirth,omitempty"`
	RetirementAge int       `json:"retirementAge,omitempty"`
}

// Income is a person's annual employment income.
type Income struct {
	PersonID    string `json:"person"`
	GrossSalary Money  `json:"grossSalary"`
	Bonus       Money  `json:"bonus,omitempty"`
}

// Gross returns salary plus bonus.
func (i Income) Gross() Money { return i.GrossSalary.Add(i.Bonus) }

// Contribution is a person's recurring annual contribution into one wrapper.
type Contribution struct {
	PersonID string  `json:"person"`
	Wrapper  Wrapper `json:"wrapper"`
	Annual   Money   `json:"annual"`
}

// Fund is an investable fund referenced by transactions.
type Fund struct {
	ID           string `json:"id"`
	Name         string `json:"name,omitempty"`
	CurrentPrice Money  `json:"currentPrice,omitempty"`
}

// Account is a wrapped account belonging to one person.
type Account struct {
	ID           string  `json:"id"`
	Name         string  `json:"name,omitempty"`
	Wrapper      Wrapper `json:"wrapper"`
	PersonID     string  `json:"person,omitempty"`
	CurrentValue Money   `json:"currentValue"`
}

// RetirementConfig holds the household's retirement planning settings.
type RetirementConfig struct {
	AnnualSpendingNeed Money   `json:"annualSpendingNeed,omitempty"`
	StatePensionAnnual Money   `json:"statePensionAnnual,omitempty"`
	StatePensionAge    int     `json:"statePensionAge,omitempty"`
	GrowthRate         Percent `json:"growthRate,omitempty"`
	EndAge             int     `json:"endAge,omitempty"`
}

// Household is the full input state of the planner: people, their incomes and
// contributions, accounts, funds, the transaction history, and retirement
// settings. All planner functions treat it as immutable.
type Household struct {
	Persons       []Person         `json:"persons,omitempty"`
	Incomes       []Income         `json:"incomes,omitempty"`
	Contributions []Contribution   `json:"contributions,omitempty"`
	Accounts      []Account        `json:"accounts,omitempty"`
	Funds         []Fund           `json:"funds,omitempty"`
	Transactions  []Transaction    `json:"transactions,omitempty"`
	Retirement    RetirementConfig `json:"retirement,omitempty"`
}

// Person returns the person with the given id, or nil.
func (h *Household) Person(id string) *Person {
	for i := range h.Persons {
		if h.Persons[i].ID == id {
			return &h.Persons[i]
		}
	}
	return nil
}

// Income returns the income record for the given person, or nil.
func (h *Household) Income(personID string) *Income {
	for i := range h.Incomes {
		if h.Incomes[i].PersonID == personID {
			return &h.Incomes[i]
		}
	}
	return nil
}

// Account returns the account with the given id, or nil.
func (h *Household) Account(id string) *Account {
	for i := range h.Accounts {
		if h.Accounts[i].ID == id {
			return &h.Accounts[i]
		}
	}
	return nil
}

// Fund returns the fund with the given id, or nil.
func (h *Household) Fund(id string) *Fund {
	for i := range h.Funds {
		if h.Funds[i].ID == id {
			return &h.Funds[i]
		}
	}
	return nil
}

// FundLabel returns the fund's display name, degrading to the raw id when the
// fund is not declared.
func (h *Household) FundLabel(id string) string {
	if f := h.Fund(id); f != nil && f.Name != "" {
		return f.Name
	}
	return id
}

// AccountLabel returns the account's display name, degrading to the raw id
// when the account is not declared.
func (h *Household) AccountLabel(id string) string {
	if a := h.Account(id); a != nil && a.Name != "" {
		return a.Name
	}
	return id
}

// ContributionsOf returns the contributions of the given person, in their
// declared order.
func (h *Household) ContributionsOf(personID string) []Contribution {
	var out []Contribution
	for _, c := range h.Contributions {
		if c.PersonID == personID {
			out = append(out, c)
		}
	}
	return out
}

// Pots aggregates current account values by wrapper into simulation input.
// Premium bonds count as cash for drawdown purposes.
func (h *Household) Pots() Pots {
	var p Pots
	for _, a := range h.Accounts {
		switch a.Wrapper {
		case WrapperPension:
			p.Pension = p.Pension.Add(a.CurrentValue)
		case WrapperISA:
			p.ISA = p.ISA.Add(a.CurrentValue)
		case WrapperGIA:
			p.GIA = p.GIA.Add(a.CurrentValue)
		case WrapperCash, WrapperPremiumBonds:
			p.Cash = p.Cash.Add(a.CurrentValue)
		}
	}
	return p
}

// Clone returns a structurally independent deep copy of the household.
// Scenario composition edits the clone, never the source.
func (h Household) Clone() Household {
	return Household{
		Persons:       slices.Clone(h.Persons),
		Incomes:       slices.Clone(h.Incomes),
		Contributions: slices.Clone(h.Contributions),
		Accounts:      slices.Clone(h.Accounts),
		Funds:         slices.Clone(h.Funds),
		Transactions:  slices.Clone(h.Transactions),
		Retirement:    h.Retirement,
	}
}

// MarshalJSON implements the json.Marshaler interface with a stable field order.
func (h Household) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	if len(h.Persons) > 0 {
		w.Append("persons", h.Persons)
	}
	if len(h.Incomes) > 0 {
		w.Append("incomes", h.Incomes)
	}
	if len(h.Contributions) > 0 {
		w.Append("contributions", h.Contributions)
	}
	if len(h.Accounts) > 0 {
		w.Append("accounts", h.Accounts)
	}
	if len(h.Funds) > 0 {
		w.Append("funds", h.Funds)
	}
	if len(h.Transactions) > 0 {
		w.Append("transactions", SortTransactions(h.Transactions))
	}
	if h.Retirement != (RetirementConfig{}) {
		w.Append("retirement", h.Retirement)
	}
	return w.MarshalJSON()
}

// DecodeHousehold decodes a household from JSON.
func DecodeHousehold(r io.Reader) (Household, error) {
	var h Household
	dec := json.NewDecoder(r)
	if err := dec.Decode(&h); err != nil {
		return Household{}, fmt.Errorf("could not decode household: %w", err)
	}
	for _, tx := range h.Transactions {
		if err := tx.Validate(); err != nil {
			return Household{}, fmt.Errorf("invalid household transaction: %w", err)
		}
	}
	h.Transactions = SortTransactions(h.Transactions)
	return h, nil
}

// EncodeHousehold writes the household in canonical indented JSON.
func EncodeHousehold(w io.Writer, h Household) error {
	data, err := json.MarshalIndent(h, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal household: %w", err)
	}
	if _, err := w.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("failed to write household: %w", err)
	}
	return nil
}
