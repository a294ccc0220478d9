package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Budget groups planned spending lines for a period.
type Budget struct {
	BudgetID    string    `json:"budgetID"` // Primary key (UUID)
	Name        string    `json:"name"`
	PeriodStart time.Time `json:"periodStart"`
	PeriodEnd   time.Time `json:"periodEnd"`
	AuditFields
}

// BudgetItem is one planned line within a budget.
//
// ActualAmount must equal the sum of amounts of all ledger entries whose
// BudgetItemID references this item; Variance = PlannedAmount - ActualAmount.
// Both are transiently wrong whenever an entry mutation happens without the
// budget updater running, and are repaired by it on the next pass.
type BudgetItem struct {
	BudgetItemID  string          `json:"budgetItemID"` // Primary key (UUID)
	BudgetID      string          `json:"budgetID"`
	Name          string          `json:"name"`
	Category      string          `json:"category"`
	PlannedAmount decimal.Decimal `json:"plannedAmount"`
	ActualAmount  decimal.Decimal `json:"actualAmount"`
	Variance      decimal.Decimal `json:"variance"`
	AuditFields
}
