package dto

import (
	"time"

	"github.com/chapelworks/chms_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateBudgetItemRequest defines one planned line inside a new budget.
type CreateBudgetItemRequest struct {
	Name          string          `json:"name" binding:"required"`
	Category      string          `json:"category"`
	PlannedAmount decimal.Decimal `json:"plannedAmount" binding:"required,dgte0"`
}

// CreateBudgetRequest defines the data needed to create a budget.
type CreateBudgetRequest struct {
	Name        string                    `json:"name" binding:"required"`
	PeriodStart time.Time                 `json:"periodStart" binding:"required"`
	PeriodEnd   time.Time                 `json:"periodEnd" binding:"required"`
	Items       []CreateBudgetItemRequest `json:"items" binding:"required,min=1,dive"`
}

// BudgetItemResponse defines the data returned for a budget line.
type BudgetItemResponse struct {
	BudgetItemID  string          `json:"budgetItemID"`
	BudgetID      string          `json:"budgetID"`
	Name          string          `json:"name"`
	Category      string          `json:"category"`
	PlannedAmount decimal.Decimal `json:"plannedAmount"`
	ActualAmount  decimal.Decimal `json:"actualAmount"`
	Variance      decimal.Decimal `json:"variance"`
}

// BudgetResponse defines the data returned for a budget with its lines.
type BudgetResponse struct {
	BudgetID    string               `json:"budgetID"`
	Name        string               `json:"name"`
	PeriodStart time.Time            `json:"periodStart"`
	PeriodEnd   time.Time            `json:"periodEnd"`
	Items       []BudgetItemResponse `json:"items"`
}

// ToBudgetResponse converts a budget and its items to the response DTO.
func ToBudgetResponse(b *domain.Budget, items []domain.BudgetItem) BudgetResponse {
	resp := BudgetResponse{
		BudgetID:    b.BudgetID,
		Name:        b.Name,
		PeriodStart: b.PeriodStart,
		PeriodEnd:   b.PeriodEnd,
		Items:       make([]BudgetItemResponse, 0, len(items)),
	}
	for _, item := range items {
		resp.Items = append(resp.Items, BudgetItemResponse{
			BudgetItemID:  item.BudgetItemID,
			BudgetID:      item.BudgetID,
			Name:          item.Name,
			Category:      item.Category,
			PlannedAmount: item.PlannedAmount,
			ActualAmount:  item.ActualAmount,
			Variance:      item.Variance,
		})
	}
	return resp
}

// BudgetSyncResponse reports the outcome of a budget line re-sync.
type BudgetSyncResponse struct {
	Updated bool `json:"updated"`
}
