package repositories

import (
	"context"
	"time"

	"github.com/chapelworks/chms_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// AccountRepository persists fund accounts and their denormalized balances.
type AccountRepository interface {
	SaveAccount(ctx context.Context, account domain.Account) error
	FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error)
	ListAccounts(ctx context.Context, limit int, offset int) ([]domain.Account, error)
	UpdateBalance(ctx context.Context, accountID string, balance decimal.Decimal, updatedBy string, now time.Time) error
	DeactivateAccount(ctx context.Context, accountID string, userID string, now time.Time) error

	// RecalculateBalanceRPC invokes the server-side aggregate function.
	// Implementations return apperrors.ErrUnavailable (possibly wrapped) when
	// the function is missing or errors, so callers can fall back to a
	// client-side sum.
	RecalculateBalanceRPC(ctx context.Context, accountID string) (decimal.Decimal, error)
}
