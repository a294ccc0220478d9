package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/chapelworks/chms_backend/internal/apperrors"
	"github.com/chapelworks/chms_backend/internal/core/domain"
	portsrepo "github.com/chapelworks/chms_backend/internal/core/ports/repositories"
	portssvc "github.com/chapelworks/chms_backend/internal/core/ports/services"
	"github.com/chapelworks/chms_backend/internal/dto"
	"github.com/chapelworks/chms_backend/internal/middleware"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// LiabilityService tracks creditor liabilities. Payments arrive as
// expenditure entries with a liability back-reference; this service keeps the
// derived paid/remaining/status fields consistent.
type LiabilityService struct {
	liabilityRepo portsrepo.LiabilityRepository
}

// NewLiabilityService creates a new LiabilityService.
func NewLiabilityService(liabilityRepo portsrepo.LiabilityRepository) *LiabilityService {
	return &LiabilityService{liabilityRepo: liabilityRepo}
}

var _ portssvc.LiabilitySvcFacade = (*LiabilityService)(nil)

// CreateLiability records a new liability.
func (s *LiabilityService) CreateLiability(ctx context.Context, req dto.CreateLiabilityRequest, userID string) (*domain.Liability, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if req.TotalAmount.LessThanOrEqual(decimal.Zero) {
		return nil, fmt.Errorf("%w: liability total must be positive", apperrors.ErrValidation)
	}

	now := time.Now().UTC()
	liability := domain.Liability{
		LiabilityID:     uuid.NewString(),
		Creditor:        req.Creditor,
		TotalAmount:     req.TotalAmount,
		AmountPaid:      decimal.Zero,
		AmountRemaining: req.TotalAmount,
		DueDate:         req.DueDate,
		Status:          domain.LiabilityUnpaid,
		Description:     req.Description,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		},
	}

	if err := s.liabilityRepo.SaveLiability(ctx, liability); err != nil {
		logger.Error("Failed to save liability", slog.String("error", err.Error()), slog.String("liability_id", liability.LiabilityID))
		return nil, err
	}

	logger.Info("Liability created", slog.String("liability_id", liability.LiabilityID), slog.String("creditor", liability.Creditor))
	return &liability, nil
}

// GetLiabilityByID retrieves a single liability.
func (s *LiabilityService) GetLiabilityByID(ctx context.Context, liabilityID string) (*domain.Liability, error) {
	return s.liabilityRepo.FindLiabilityByID(ctx, liabilityID)
}

// ListLiabilities retrieves a page of liabilities.
func (s *LiabilityService) ListLiabilities(ctx context.Context, limit int, offset int) ([]domain.Liability, error) {
	liabilities, err := s.liabilityRepo.ListLiabilities(ctx, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list liabilities: %w", err)
	}
	if liabilities == nil {
		return []domain.Liability{}, nil
	}
	return liabilities, nil
}

// ApplyPayment records a payment against a liability and rederives the
// remaining amount and status.
func (s *LiabilityService) ApplyPayment(ctx context.Context, liabilityID string, amount decimal.Decimal, userID string) error {
	logger := middleware.GetLoggerFromCtx(ctx)

	liability, err := s.liabilityRepo.FindLiabilityByID(ctx, liabilityID)
	if err != nil {
		return fmt.Errorf("failed to fetch liability %s: %w", liabilityID, err)
	}

	paid := liability.AmountPaid.Add(amount)
	remaining := liability.TotalAmount.Sub(paid)
	if remaining.IsNegative() {
		remaining = decimal.Zero
	}
	status := domain.StatusFor(liability.TotalAmount, paid)

	if err := s.liabilityRepo.UpdatePaymentTotals(ctx, liabilityID, paid, remaining, status, userID, time.Now().UTC()); err != nil {
		return fmt.Errorf("failed to update payment totals for liability %s: %w", liabilityID, err)
	}

	logger.Info("Liability payment applied", slog.String("liability_id", liabilityID), slog.String("paid", paid.String()), slog.String("status", string(status)))
	return nil
}

// ReversePayment undoes a payment when its expenditure entry is deleted.
// Paid is clamped at zero; a liability that no longer exists is a no-op
// because the deletion must not be blocked by it.
func (s *LiabilityService) ReversePayment(ctx context.Context, liabilityID string, amount decimal.Decimal, userID string) error {
	logger := middleware.GetLoggerFromCtx(ctx)

	liability, err := s.liabilityRepo.FindLiabilityByID(ctx, liabilityID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			logger.Debug("Liability gone, skipping payment reversal", slog.String("liability_id", liabilityID))
			return nil
		}
		return fmt.Errorf("failed to fetch liability %s: %w", liabilityID, err)
	}

	paid := liability.AmountPaid.Sub(amount)
	if paid.IsNegative() {
		paid = decimal.Zero
	}
	remaining := liability.TotalAmount.Sub(paid)
	status := domain.StatusFor(liability.TotalAmount, paid)

	if err := s.liabilityRepo.UpdatePaymentTotals(ctx, liabilityID, paid, remaining, status, userID, time.Now().UTC()); err != nil {
		return fmt.Errorf("failed to update payment totals for liability %s: %w", liabilityID, err)
	}

	logger.Info("Liability payment reversed", slog.String("liability_id", liabilityID), slog.String("paid", paid.String()), slog.String("status", string(status)))
	return nil
}
