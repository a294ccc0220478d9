package repositories

import (
	"context"
	"time"

	"github.com/chapelworks/chms_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// LiabilityRepository persists liabilities and their derived payment totals.
type LiabilityRepository interface {
	SaveLiability(ctx context.Context, liability domain.Liability) error
	FindLiabilityByID(ctx context.Context, liabilityID string) (*domain.Liability, error)
	ListLiabilities(ctx context.Context, limit int, offset int) ([]domain.Liability, error)
	UpdatePaymentTotals(ctx context.Context, liabilityID string, paid, remaining decimal.Decimal, status domain.LiabilityStatus, updatedBy string, now time.Time) error
}
