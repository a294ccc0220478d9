package dto

import (
	"time"

	"github.com/chapelworks/chms_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateReconciliationRequest starts a bank reconciliation for an account.
type CreateReconciliationRequest struct {
	AccountID     string          `json:"accountID" binding:"required"`
	StatementDate time.Time       `json:"statementDate" binding:"required"`
	BankBalance   decimal.Decimal `json:"bankBalance" binding:"required"`
}

// ManualAdjustmentRequest records a manual correction against a
// reconciliation's book balance. The adjustment is realized as a synthetic
// ledger entry in the given table.
type ManualAdjustmentRequest struct {
	Table       domain.EntryTable `json:"table" binding:"required,oneof=income_entries expenditure_entries"`
	Amount      decimal.Decimal   `json:"amount" binding:"required"`
	Description string            `json:"description"`
}

// ReconciliationResponse defines the data returned for a reconciliation.
type ReconciliationResponse struct {
	ReconciliationID     string          `json:"reconciliationID"`
	AccountID            string          `json:"accountID"`
	StatementDate        time.Time       `json:"statementDate"`
	BankBalance          decimal.Decimal `json:"bankBalance"`
	BookBalance          decimal.Decimal `json:"bookBalance"`
	HasManualAdjustments bool            `json:"hasManualAdjustments"`
	Reconciled           bool            `json:"reconciled"`
	CreatedAt            time.Time       `json:"createdAt"`
	LastUpdatedAt        time.Time       `json:"lastUpdatedAt"`
}

// ToReconciliationResponse converts a domain.BankReconciliation.
func ToReconciliationResponse(r *domain.BankReconciliation) ReconciliationResponse {
	return ReconciliationResponse{
		ReconciliationID:     r.ReconciliationID,
		AccountID:            r.AccountID,
		StatementDate:        r.StatementDate,
		BankBalance:          r.BankBalance,
		BookBalance:          r.BookBalance,
		HasManualAdjustments: r.HasManualAdjustments,
		Reconciled:           r.Reconciled,
		CreatedAt:            r.CreatedAt,
		LastUpdatedAt:        r.LastUpdatedAt,
	}
}
