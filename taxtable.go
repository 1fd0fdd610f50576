package planner

import (
	_ "embed"
	"fmt"
	"io"
	"sort"

	"github.com/shopspring/decimal"
	"github.com/ukfin/planner/date"
	"gopkg.in/yaml.v3"
)

//go:embed taxtable.yaml
var defaultTaxTableYAML []byte

// TaxConstants is the set of UK thresholds and rates for one tax year. The
// engines read these as configuration; nothing here is hard-coded inline.
type TaxConstants struct {
	Year                   date.TaxYear
	ISAAllowance           Money
	PensionAnnualAllowance Money
	CGTExemption           Money
	CGTBasicRate           decimal.Decimal
	CGTHigherRate          decimal.Decimal
	PersonalAllowance      Money
	TaperThreshold         Money
	TaperRate              decimal.Decimal
	BasicRateLimit         Money
	HigherRateLimit        Money
	BasicRate              decimal.Decimal
	HigherRate             decimal.Decimal
	AdditionalRate         decimal.Decimal
	NIPrimaryThreshold     Money
	NIUpperLimit           Money
	NIMainRate             decimal.Decimal
	NIUpperRate            decimal.Decimal
}

// yamlTaxConstants mirrors TaxConstants in the YAML file's flat form.
type yamlTaxConstants struct {
	ISAAllowance           float64 `yaml:"isa_allowance"`
	PensionAnnualAllowance float64 `yaml:"pension_annual_allowance"`
	CGTExemption           float64 `yaml:"cgt_exemption"`
	CGTBasicRate           float64 `yaml:"cgt_basic_rate"`
	CGTHigherRate          float64 `yaml:"cgt_higher_rate"`
	PersonalAllowance      float64 `yaml:"personal_allowance"`
	TaperThreshold         float64 `yaml:"taper_threshold"`
	TaperRate              float64 `yaml:"taper_rate"`
	BasicRateLimit         float64 `yaml:"basic_rate_limit"`
	HigherRateLimit        float64 `yaml:"higher_rate_limit"`
	BasicRate              float64 `yaml:"basic_rate"`
	HigherRate             float64 `yaml:"higher_rate"`
	AdditionalRate         float64 `yaml:"additional_rate"`
	NIPrimaryThreshold     float64 `yaml:"ni_primary_threshold"`
	NIUpperLimit           float64 `yaml:"ni_upper_limit"`
	NIMainRate             float64 `yaml:"ni_main_rate"`
	NIUpperRate            float64 `yaml:"ni_upper_rate"`
}

func (y yamlTaxConstants) constants(year date.TaxYear) TaxConstants {
	return TaxConstants{
		Year:                   year,
		ISAAllowance:           M(y.ISAAllowance),
		PensionAnnualAllowance: M(y.PensionAnnualAllowance),
		CGTExemption:           M(y.CGTExemption),
		CGTBasicRate:           decimal.NewFromFloat(y.CGTBasicRate),
		CGTHigherRate:          decimal.NewFromFloat(y.CGTHigherRate),
		PersonalAllowance:      M(y.PersonalAllowance),
		TaperThreshold:         M(y.TaperThreshold),
		TaperRate:              decimal.NewFromFloat(y.TaperRate),
		BasicRateLimit:         M(y.BasicRateLimit),
		HigherRateLimit:        M(y.HigherRateLimit),
		BasicRate:              decimal.NewFromFloat(y.BasicRate),
		HigherRate:             decimal.NewFromFloat(y.HigherRate),
		AdditionalRate:         decimal.NewFromFloat(y.AdditionalRate),
		NIPrimaryThreshold:     M(y.NIPrimaryThreshold),
		NIUpperLimit:           M(y.NIUpperLimit),
		NIMainRate:             decimal.NewFromFloat(y.NIMainRate),
		NIUpperRate:            decimal.NewFromFloat(y.NIUpperRate),
	}
}

// TaxTable holds the versioned tax constants, keyed by tax year.
type TaxTable struct {
	years  map[date.TaxYear]TaxConstants
	latest date.TaxYear
}

// LoadTaxTable reads a tax table from YAML.
func LoadTaxTable(r io.Reader) (*TaxTable, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("could not read tax table: %w", err)
	}
	return parseTaxTable(data)
}

func parseTaxTable(data []byte) (*TaxTable, error) {
	var raw struct {
		Years map[string]yamlTaxConstants `yaml:"years"`
	}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("could not parse tax table: %w", err)
	}
	if len(raw.Years) == 0 {
		return nil, fmt.Errorf("tax table has no years")
	}

	table := &TaxTable{years: make(map[date.TaxYear]TaxConstants, len(raw.Years))}
	labels := make([]string, 0, len(raw.Years))
	for label := range raw.Years {
		labels = append(labels, label)
	}
	sort.Strings(labels)

	for _, label := range labels {
		year, err := date.ParseTaxYear(label)
		if err != nil {
			return nil, fmt.Errorf("tax table year: %w", err)
		}
		table.years[year] = raw.Years[label].constants(year)
		table.latest = year
	}
	return table, nil
}

// DefaultTaxTable returns the table embedded in the binary.
func DefaultTaxTable() *TaxTable {
	table, err := parseTaxTable(defaultTaxTableYAML)
	if err != nil {
		panic("embedded tax table is invalid: " + err.Error())
	}
	return table
}

// ConstantsFor returns the constants for the given tax year. An unknown year
// falls back to the latest entry in the table, so projections past the last
// published year keep working.
func (t *TaxTable) ConstantsFor(year date.TaxYear) TaxConstants {
	if c, ok := t.years[year]; ok {
		return c
	}
	return t.years[t.latest]
}

// Latest returns the most recent tax year in the table.
func (t *TaxTable) Latest() date.TaxYear { return t.latest }
