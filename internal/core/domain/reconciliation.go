package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// BankReconciliation compares an account's book balance against a bank
// statement figure for a period.
//
// BookBalance is the system figure, possibly corrected by manual adjustment
// entries. While HasManualAdjustments is true, the recorded book balance is
// authoritative and must not be recomputed as long as any adjustment entry
// for this reconciliation still exists.
type BankReconciliation struct {
	ReconciliationID     string          `json:"reconciliationID"` // Primary key (UUID)
	AccountID            string          `json:"accountID"`
	StatementDate        time.Time       `json:"statementDate"`
	BankBalance          decimal.Decimal `json:"bankBalance"` // User-entered statement figure
	BookBalance          decimal.Decimal `json:"bookBalance"`
	HasManualAdjustments bool            `json:"hasManualAdjustments"`
	Reconciled           bool            `json:"reconciled"`
	AuditFields
}

// TransactionReconciliationLink maps a ledger entry to the reconciliation it
// was created for. This is the authoritative linkage; its absence is
// tolerated and compensated by heuristic lookups.
type TransactionReconciliationLink struct {
	LinkID           string     `json:"linkID"`
	EntryID          string     `json:"entryID"`
	Table            EntryTable `json:"table"`
	ReconciliationID string     `json:"reconciliationID"`
	CreatedAt        time.Time  `json:"createdAt"`
}
