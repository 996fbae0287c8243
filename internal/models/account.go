package models

import (
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"
)

// AccountType is the Lunch Money asset type. The API accepts exactly this
// closed set.
type AccountType string

const (
	AccountTypeEmployeeCompensation AccountType = "employee compensation"
	AccountTypeCash                 AccountType = "cash"
	AccountTypeVehicle              AccountType = "vehicle"
	AccountTypeLoan                 AccountType = "loan"
	AccountTypeCryptocurrency       AccountType = "cryptocurrency"
	AccountTypeInvestment           AccountType = "investment"
	AccountTypeOther                AccountType = "other"
	AccountTypeCredit               AccountType = "credit"
	AccountTypeRealEstate           AccountType = "real estate"
)

// AccountDescriptor describes the Lunch Money asset a Mint account maps to.
// Balance is the signed running balance derived from the transaction
// history; Currency is stored as given and lower-cased at the API boundary.
type AccountDescriptor struct {
	Name            string          `json:"name"`
	Type            AccountType     `json:"type"`
	Balance         decimal.Decimal `json:"balance"`
	InstitutionName string          `json:"institutionName"`
	Currency        string          `json:"currency"`
}

// AccountMappingEntry pairs a Mint account name with its descriptor. The
// JSON form is a two element array so the document stays compatible with
// hand-edited mapping files.
type AccountMappingEntry struct {
	SourceName string
	Account    AccountDescriptor
}

// MarshalJSON renders the entry as [name, descriptor].
func (e AccountMappingEntry) MarshalJSON() ([]byte, error) {
	return json.Marshal([]any{e.SourceName, e.Account})
}

// UnmarshalJSON parses a [name, descriptor] pair.
func (e *AccountMappingEntry) UnmarshalJSON(data []byte) error {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if len(raw) != 2 {
		return fmt.Errorf("account mapping entry must be a [name, account] pair, got %d elements", len(raw))
	}
	if err := json.Unmarshal(raw[0], &e.SourceName); err != nil {
		return fmt.Errorf("invalid account mapping key: %w", err)
	}
	if err := json.Unmarshal(raw[1], &e.Account); err != nil {
		return fmt.Errorf("invalid account descriptor for '%s': %w", e.SourceName, err)
	}
	return nil
}

// AccountMapping is the persisted account mapping document. Entries keep
// first-appearance order so regenerated documents diff cleanly.
type AccountMapping struct {
	Accounts []AccountMappingEntry `json:"accounts"`
}

// Lookup returns the descriptor mapped to a Mint account name.
func (m *AccountMapping) Lookup(name string) (AccountDescriptor, bool) {
	for _, entry := range m.Accounts {
		if entry.SourceName == name {
			return entry.Account, true
		}
	}
	return AccountDescriptor{}, false
}

// Has reports whether a Mint account name is already mapped.
func (m *AccountMapping) Has(name string) bool {
	_, ok := m.Lookup(name)
	return ok
}

// Set updates the descriptor for a Mint account name, appending a new
// entry when the name is not mapped yet.
func (m *AccountMapping) Set(name string, account AccountDescriptor) {
	for i, entry := range m.Accounts {
		if entry.SourceName == name {
			m.Accounts[i].Account = account
			return
		}
	}
	m.Accounts = append(m.Accounts, AccountMappingEntry{SourceName: name, Account: account})
}

// Len returns the number of mapped accounts.
func (m *AccountMapping) Len() int {
	return len(m.Accounts)
}
