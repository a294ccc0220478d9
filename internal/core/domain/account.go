package domain

import (
	"github.com/shopspring/decimal"
)

// AccountType distinguishes physical cash boxes from bank accounts.
type AccountType string

const (
	Bank AccountType = "BANK"
	Cash AccountType = "CASH"
)

// Account represents a church fund account (bank or cash box).
//
// Balance is denormalized: it must always equal OpeningBalance plus the sum of
// signed amounts of every ledger entry referencing the account. Incremental
// updates keep it current; RecalculateBalance is the source of truth whenever
// an incremental path is unreliable.
type Account struct {
	AccountID      string          `json:"accountID"` // Primary key (UUID)
	Name           string          `json:"name"`
	AccountType    AccountType     `json:"accountType"`
	OpeningBalance decimal.Decimal `json:"openingBalance"`
	Balance        decimal.Decimal `json:"balance"`
	Description    string          `json:"description"`
	IsActive       bool            `json:"isActive"`
	AuditFields
}
