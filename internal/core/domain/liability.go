package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// LiabilityStatus tracks repayment progress of a liability.
type LiabilityStatus string

const (
	LiabilityUnpaid  LiabilityStatus = "UNPAID"
	LiabilityPartial LiabilityStatus = "PARTIAL"
	LiabilityPaid    LiabilityStatus = "PAID"
)

// Liability is money the church owes a creditor. Payments against it are
// posted as expenditure entries carrying a LiabilityID back-reference;
// AmountPaid and AmountRemaining are derived from those payments.
type Liability struct {
	LiabilityID     string          `json:"liabilityID"` // Primary key (UUID)
	Creditor        string          `json:"creditor"`
	TotalAmount     decimal.Decimal `json:"totalAmount"`
	AmountPaid      decimal.Decimal `json:"amountPaid"`
	AmountRemaining decimal.Decimal `json:"amountRemaining"`
	DueDate         time.Time       `json:"dueDate"`
	Status          LiabilityStatus `json:"status"`
	Description     string          `json:"description"`
	AuditFields
}

// StatusFor derives the liability status from paid vs total.
func StatusFor(total, paid decimal.Decimal) LiabilityStatus {
	switch {
	case paid.LessThanOrEqual(decimal.Zero):
		return LiabilityUnpaid
	case paid.GreaterThanOrEqual(total):
		return LiabilityPaid
	default:
		return LiabilityPartial
	}
}
