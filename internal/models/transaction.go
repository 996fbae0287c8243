// Package models defines the data structures shared across the migration
// pipeline: the Mint transaction record and the Lunch Money account and
// category descriptors persisted in the mapping documents.
package models

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// TransactionType is the direction of a Mint transaction.
type TransactionType string

const (
	TypeDebit  TransactionType = "debit"
	TypeCredit TransactionType = "credit"
)

// Tags is a set of Lunch Money tag names. Insertion order is kept for
// stable CSV output; duplicates are rejected on insert.
type Tags []string

// Add appends a tag if it is not already present.
func (t *Tags) Add(tag string) {
	for _, existing := range *t {
		if existing == tag {
			return
		}
	}
	*t = append(*t, tag)
}

// MarshalCSV renders the tag set as a comma separated list.
func (t Tags) MarshalCSV() (string, error) {
	return strings.Join(t, ","), nil
}

// UnmarshalCSV parses a comma separated tag list.
func (t *Tags) UnmarshalCSV(value string) error {
	*t = nil
	for _, tag := range strings.Split(value, ",") {
		if tag = strings.TrimSpace(tag); tag != "" {
			t.Add(tag)
		}
	}
	return nil
}

// TransactionRecord is one row of the Mint transaction export plus the
// Lunch Money fields filled in by the reconcilers and the normalizer.
// The csv tags match the Mint header names after whitespace stripping
// ("Original Description" becomes "OriginalDescription").
type TransactionRecord struct {
	AccountName         string `csv:"AccountName"`
	Amount              string `csv:"Amount"`
	Category            string `csv:"Category"`
	Date                string `csv:"Date"`
	Description         string `csv:"Description"`
	Labels              string `csv:"Labels"`
	Notes               string `csv:"Notes"`
	OriginalDescription string `csv:"OriginalDescription"`
	TransactionType     string `csv:"TransactionType"`

	// Lunch Money annotations, empty until the pipeline sets them.
	LunchMoneyAccountName  string `csv:"LunchMoneyAccountName"`
	LunchMoneyAccountID    int64  `csv:"LunchMoneyAccountId"`
	LunchMoneyCategoryName string `csv:"LunchMoneyCategoryName"`
	LunchMoneyCategoryID   int64  `csv:"LunchMoneyCategoryId"`
	LunchMoneyCurrency     string `csv:"LunchMoneyCurrency"`
	LunchMoneyTags         Tags   `csv:"LunchMoneyTags"`
	LunchMoneyAmount       string `csv:"LunchMoneyAmount"`
	LunchMoneyDate         string `csv:"LunchMoneyDate"`
	LunchMoneyExtID        string `csv:"LunchMoneyExtId"`
}

// IsDebit reports whether the transaction is a debit.
func (t *TransactionRecord) IsDebit() bool {
	return TransactionType(t.TransactionType) == TypeDebit
}

// ParsedAmount returns the source amount as a decimal. Mint exports store
// the magnitude only; the sign is carried by TransactionType.
func (t *TransactionRecord) ParsedAmount() (decimal.Decimal, error) {
	amount, err := decimal.NewFromString(strings.TrimSpace(t.Amount))
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid amount '%s': %w", t.Amount, err)
	}
	return amount, nil
}

// AppendNote adds a provenance line to the record's notes.
func (t *TransactionRecord) AppendNote(line string) {
	if t.Notes == "" {
		t.Notes = line
		return
	}
	t.Notes += "\n\n" + line
}
