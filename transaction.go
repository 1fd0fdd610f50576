package planner

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"slices"

	"github.com/shopspring/decimal"
	"github.com/ukfin/planner/date"
)

func init() {
	decimal.MarshalJSONWithoutQuotes = true
}

// TransactionType is a typed string for identifying transaction kinds.
type TransactionType string

// Transaction types recorded in the ledger.
const (
	TxBuy          TransactionType = "buy"
	TxSell         TransactionType = "sell"
	TxDividend     TransactionType = "dividend"
	TxContribution TransactionType = "contribution"
)

// ParseTransactionType parses a transaction type from its string form.
func ParseTransactionType(s string) (TransactionType, error) {
	switch TransactionType(s) {
	case TxBuy, TxSell, TxDividend, TxContribution:
		return TransactionType(s), nil
	default:
		return "", fmt.Errorf("unknown transaction type %q", s)
	}
}

// Transaction is a single immutable event in an account's history: a purchase
// or sale of fund units, a dividend, or a cash contribution. Records are only
// ever appended or removed, never mutated.
type Transaction struct {
	ID        string          `json:"id,omitempty"`
	AccountID string          `json:"account"`
	FundID    string          `json:"fund,omitempty"`
	Type      TransactionType `json:"type"`
	Date      date.Date       `json:"date"`
	Units     Quantity        `json:"units,omitempty"`
	Price     Money           `json:"price,omitempty"` // per unit
	Amount    Money           `json:"amount"`          // total value of the event
}

// When returns the calendar day of the transaction.
func (t Transaction) When() date.Date { return t.Date }

// Validate checks the structural fields of a transaction.
func (t Transaction) Validate() error {
	if _, err := ParseTransactionType(string(t.Type)); err != nil {
		return err
	}
	if t.AccountID == "" {
		return fmt.Errorf("transaction account is missing")
	}
	if t.Date.IsZero() {
		return fmt.Errorf("transaction date is missing")
	}
	switch t.Type {
	case TxBuy, TxSell:
		if t.FundID == "" {
			return fmt.Errorf("%s transaction fund is missing", t.Type)
		}
		if !t.Units.IsPositive() {
			return fmt.Errorf("%s transaction units must be positive, got %s", t.Type, t.Units)
		}
		if t.Amount.IsNegative() {
			return fmt.Errorf("%s transaction amount must not be negative, got %s", t.Type, t.Amount)
		}
	}
	return nil
}

// MarshalJSON implements the json.Marshaler interface with a stable field order.
func (t Transaction) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Optional("id", t.ID)
	w.Append("account", t.AccountID)
	w.Optional("fund", t.FundID)
	w.Append("type", t.Type)
	w.Append("date", t.Date)
	if !t.Units.IsZero() {
		w.Append("units", t.Units)
	}
	if !t.Price.IsZero() {
		w.Append("price", t.Price)
	}
	w.Append("amount", t.Amount)
	return w.MarshalJSON()
}

// SortTransactions returns a date-ordered copy of the given transactions.
// The sort is stable, so same-day records keep their original relative order.
// The input slice is left untouched.
func SortTransactions(txs []Transaction) []Transaction {
	sorted := slices.Clone(txs)
	slices.SortStableFunc(sorted, func(a, b Transaction) int {
		switch {
		case a.Date.Before(b.Date):
			return -1
		case a.Date.After(b.Date):
			return 1
		default:
			return 0
		}
	})
	return sorted
}

// DecodeTransactions decodes a stream of JSONL transaction records and
// returns them sorted by date.
func DecodeTransactions(r io.Reader) ([]Transaction, error) {
	var txs []Transaction
	scanner := bufio.NewScanner(r)

	for scanner.Scan() {
		lineBytes := scanner.Bytes()
		if len(lineBytes) == 0 {
			continue // Skip empty lines
		}

		var tx Transaction
		if err := json.Unmarshal(lineBytes, &tx); err != nil {
			return nil, fmt.Errorf("could not decode transaction line %q: %w", string(lineBytes), err)
		}
		if err := tx.Validate(); err != nil {
			return nil, fmt.Errorf("invalid transaction line %q: %w", string(lineBytes), err)
		}
		txs = append(txs, tx)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading from input: %w", err)
	}

	return SortTransactions(txs), nil
}

// EncodeTransaction marshals a single transaction to JSON and writes it to the
// writer, followed by a newline, in JSONL format.
func EncodeTransaction(w io.Writer, tx Transaction) error {
	data, err := json.Marshal(tx)
	if err != nil {
		return fmt.Errorf("failed to marshal transaction: %w", err)
	}
	if _, err := w.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("failed to write transaction: %w", err)
	}
	return nil
}

// EncodeTransactions writes transactions date-ordered to an io.Writer in
// canonical JSONL format.
func EncodeTransactions(w io.Writer, txs []Transaction) error {
	for _, tx := range SortTransactions(txs) {
		if err := EncodeTransaction(w, tx); err != nil {
			return err
		}
	}
	return nil
}
