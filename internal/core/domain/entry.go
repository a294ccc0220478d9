package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// EntryTable names the ledger table a financial entry lives in.
type EntryTable string

const (
	TableIncome      EntryTable = "income_entries"
	TableExpenditure EntryTable = "expenditure_entries"
)

// Valid reports whether t names one of the two ledger tables.
func (t EntryTable) Valid() bool {
	return t == TableIncome || t == TableExpenditure
}

// SignedSign returns the sign applied to amounts from this table when summing
// account activity: income counts positive, expenditure negative.
func (t EntryTable) SignedSign() decimal.Decimal {
	if t == TableIncome {
		return decimal.NewFromInt(1)
	}
	return decimal.NewFromInt(-1)
}

// PaymentMethodReconciliation marks entries synthesized by the reconciliation
// subsystem. Historic data also records this linkage in the description text
// or a join table; see the resolver.
const PaymentMethodReconciliation = "reconciliation"

// FinancialEntry is a single posted income or expenditure row.
//
// Optional references are empty strings when absent. ReconciliationID is only
// set on entries created as reconciliation adjustments by recent code paths;
// older adjustment rows carry the linkage in Description or a link table.
type FinancialEntry struct {
	EntryID          string          `json:"entryID"` // Primary key (UUID)
	Table            EntryTable      `json:"table"`
	EntryDate        time.Time       `json:"entryDate"`
	Amount           decimal.Decimal `json:"amount"` // Always positive
	Category         string          `json:"category"`
	AccountID        string          `json:"accountID"`    // Optional
	BudgetItemID     string          `json:"budgetItemID"` // Optional
	LiabilityID      string          `json:"liabilityID"`  // Optional, expenditure only
	ReconciliationID string          `json:"reconciliationID"`
	IsAdjustment     bool            `json:"isAdjustment"` // Explicit adjustment flag
	PaymentMethod    string          `json:"paymentMethod"`
	Description      string          `json:"description"`
	AuditFields
}

// TransactionLog is an append-only audit row recorded alongside each posted
// entry. Log rows are cleaned up best-effort when the entry is deleted.
type TransactionLog struct {
	LogID     string          `json:"logID"`
	EntryID   string          `json:"entryID"`
	Table     EntryTable      `json:"table"`
	Action    string          `json:"action"` // "created" or "deleted"
	Amount    decimal.Decimal `json:"amount"`
	AccountID string          `json:"accountID"`
	CreatedAt time.Time       `json:"createdAt"`
}
