package dto

import (
	"time"

	"github.com/chapelworks/chms_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateEntryRequest defines the data needed to post an income or
// expenditure entry.
type CreateEntryRequest struct {
	Table         domain.EntryTable `json:"table" binding:"required,oneof=income_entries expenditure_entries"`
	EntryDate     time.Time         `json:"entryDate" binding:"required"`
	Amount        decimal.Decimal   `json:"amount" binding:"required,dgt0"`
	Category      string            `json:"category" binding:"required"`
	AccountID     *string           `json:"accountID"`
	BudgetItemID  *string           `json:"budgetItemID"`
	LiabilityID   *string           `json:"liabilityID"` // Expenditure only
	PaymentMethod string            `json:"paymentMethod"`
	Description   string            `json:"description"`
}

// EntryResponse defines the data returned for a posted entry.
type EntryResponse struct {
	EntryID          string            `json:"entryID"`
	Table            domain.EntryTable `json:"table"`
	EntryDate        time.Time         `json:"entryDate"`
	Amount           decimal.Decimal   `json:"amount"`
	Category         string            `json:"category"`
	AccountID        string            `json:"accountID,omitempty"`
	BudgetItemID     string            `json:"budgetItemID,omitempty"`
	LiabilityID      string            `json:"liabilityID,omitempty"`
	ReconciliationID string            `json:"reconciliationID,omitempty"`
	IsAdjustment     bool              `json:"isAdjustment"`
	PaymentMethod    string            `json:"paymentMethod,omitempty"`
	Description      string            `json:"description"`
	CreatedAt        time.Time         `json:"createdAt"`
}

// ToEntryResponse converts a domain.FinancialEntry to its response DTO.
func ToEntryResponse(e *domain.FinancialEntry) EntryResponse {
	return EntryResponse{
		EntryID:          e.EntryID,
		Table:            e.Table,
		EntryDate:        e.EntryDate,
		Amount:           e.Amount,
		Category:         e.Category,
		AccountID:        e.AccountID,
		BudgetItemID:     e.BudgetItemID,
		LiabilityID:      e.LiabilityID,
		ReconciliationID: e.ReconciliationID,
		IsAdjustment:     e.IsAdjustment,
		PaymentMethod:    e.PaymentMethod,
		Description:      e.Description,
		CreatedAt:        e.CreatedAt,
	}
}

// DeletionResponse reports the outcome of a financial entry deletion.
type DeletionResponse struct {
	Deleted  bool                     `json:"deleted"`
	Warnings []domain.DeletionWarning `json:"warnings,omitempty"`
}

// ToDeletionResponse converts a domain.DeletionResult.
func ToDeletionResponse(r domain.DeletionResult) DeletionResponse {
	return DeletionResponse{Deleted: r.Deleted, Warnings: r.Warnings}
}
