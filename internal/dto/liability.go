package dto

import (
	"time"

	"github.com/chapelworks/chms_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateLiabilityRequest defines the data needed to record a liability.
type CreateLiabilityRequest struct {
	Creditor    string          `json:"creditor" binding:"required"`
	TotalAmount decimal.Decimal `json:"totalAmount" binding:"required,dgt0"`
	DueDate     time.Time       `json:"dueDate" binding:"required"`
	Description string          `json:"description"`
}

// LiabilityResponse defines the data returned for a liability.
type LiabilityResponse struct {
	LiabilityID     string                 `json:"liabilityID"`
	Creditor        string                 `json:"creditor"`
	TotalAmount     decimal.Decimal        `json:"totalAmount"`
	AmountPaid      decimal.Decimal        `json:"amountPaid"`
	AmountRemaining decimal.Decimal        `json:"amountRemaining"`
	DueDate         time.Time              `json:"dueDate"`
	Status          domain.LiabilityStatus `json:"status"`
	Description     string                 `json:"description"`
}

// ToLiabilityResponse converts a domain.Liability to its response DTO.
func ToLiabilityResponse(l *domain.Liability) LiabilityResponse {
	return LiabilityResponse{
		LiabilityID:     l.LiabilityID,
		Creditor:        l.Creditor,
		TotalAmount:     l.TotalAmount,
		AmountPaid:      l.AmountPaid,
		AmountRemaining: l.AmountRemaining,
		DueDate:         l.DueDate,
		Status:          l.Status,
		Description:     l.Description,
	}
}
