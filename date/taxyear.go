package date

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"time"
)

// TaxYear represents a UK tax year, running 6 April to the following 5 April.
// The zero value is not a valid tax year.
type TaxYear struct {
	start int // calendar year in which the tax year starts
}

// TaxYearOf returns the tax year containing the day d.
func TaxYearOf(d Date) TaxYear {
	start := d.Year()
	boundary := New(d.Year(), time.April, 6)
	if d.Before(boundary) {
		start--
	}
	return TaxYear{start: start}
}

// NewTaxYear returns the tax year starting 6 April of the given calendar year.
func NewTaxYear(startYear int) TaxYear { return TaxYear{start: startYear} }

var taxYearRe = regexp.MustCompile(`^(\d{4})-(\d{2})$`)

// ParseTaxYear parses a tax year label such as "2024-25".
func ParseTaxYear(str string) (TaxYear, error) {
	m := taxYearRe.FindStringSubmatch(str)
	if m == nil {
		return TaxYear{}, fmt.Errorf("invalid tax year %q want format like %q", str, "2024-25")
	}
	start, _ := strconv.Atoi(m[1])
	end, _ := strconv.Atoi(m[2])
	if (start+1)%100 != end {
		return TaxYear{}, fmt.Errorf("invalid tax year %q: %d is not followed by %q", str, start, m[2])
	}
	return TaxYear{start: start}, nil
}

// MustParseTaxYear is like ParseTaxYear but panics on error.
func MustParseTaxYear(str string) TaxYear {
	y, err := ParseTaxYear(str)
	if err != nil {
		panic(err.Error())
	}
	return y
}

// Start returns 6 April, the first day of the tax year.
func (y TaxYear) Start() Date { return New(y.start, time.April, 6) }

// End returns 5 April, the last day of the tax year.
func (y TaxYear) End() Date { return New(y.start+1, time.April, 5) }

// Range returns the inclusive date range of the tax year.
func (y TaxYear) Range() Range { return Range{From: y.Start(), To: y.End()} }

// Contains reports whether day d falls within the tax year.
func (y TaxYear) Contains(d Date) bool { return y.Range().Contains(d) }

// Prev returns the preceding tax year.
func (y TaxYear) Prev() TaxYear { return TaxYear{start: y.start - 1} }

// Next returns the following tax year.
func (y TaxYear) Next() TaxYear { return TaxYear{start: y.start + 1} }

// StartYear returns the calendar year in which the tax year starts.
func (y TaxYear) StartYear() int { return y.start }

// String returns the usual label, e.g. "2024-25".
func (y TaxYear) String() string { return fmt.Sprintf("%04d-%02d", y.start, (y.start+1)%100) }

func (y TaxYear) MarshalJSON() ([]byte, error) {
	str := y.String()
	return json.Marshal(&str)
}

func (y *TaxYear) UnmarshalJSON(bytes []byte) error {
	var str string
	if err := json.Unmarshal(bytes, &str); err != nil {
		return err
	}
	parsed, err := ParseTaxYear(str)
	if err != nil {
		return err
	}
	*y = parsed
	return nil
}

var _ json.Marshaler = (*TaxYear)(nil)
var _ json.Unmarshaler = (*TaxYear)(nil)
