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

// AccountService manages fund accounts and their denormalized balances.
type AccountService struct {
	accountRepo portsrepo.AccountRepository
	entryRepo   portsrepo.EntryRepository
}

// NewAccountService creates a new AccountService.
func NewAccountService(accountRepo portsrepo.AccountRepository, entryRepo portsrepo.EntryRepository) *AccountService {
	return &AccountService{accountRepo: accountRepo, entryRepo: entryRepo}
}

var _ portssvc.AccountSvcFacade = (*AccountService)(nil)

// CreateAccount creates a new fund account with its opening balance.
func (s *AccountService) CreateAccount(ctx context.Context, req dto.CreateAccountRequest, userID string) (*domain.Account, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if req.OpeningBalance.IsNegative() {
		return nil, fmt.Errorf("%w: opening balance cannot be negative", apperrors.ErrValidation)
	}

	now := time.Now().UTC()
	account := domain.Account{
		AccountID:      uuid.NewString(),
		Name:           req.Name,
		AccountType:    req.AccountType,
		OpeningBalance: req.OpeningBalance,
		Balance:        req.OpeningBalance,
		Description:    req.Description,
		IsActive:       true,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		},
	}

	if err := s.accountRepo.SaveAccount(ctx, account); err != nil {
		logger.Error("Failed to save account", slog.String("error", err.Error()), slog.String("account_id", account.AccountID))
		return nil, err
	}

	logger.Info("Account created", slog.String("account_id", account.AccountID))
	return &account, nil
}

// GetAccountByID retrieves a single account.
func (s *AccountService) GetAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	logger := middleware.GetLoggerFromCtx(ctx)
	account, err := s.accountRepo.FindAccountByID(ctx, accountID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			logger.Error("Failed to find account by ID", slog.String("error", err.Error()), slog.String("account_id", accountID))
		}
		return nil, err
	}
	return account, nil
}

// ListAccounts retrieves a page of accounts.
func (s *AccountService) ListAccounts(ctx context.Context, limit int, offset int) ([]domain.Account, error) {
	logger := middleware.GetLoggerFromCtx(ctx)
	accounts, err := s.accountRepo.ListAccounts(ctx, limit, offset)
	if err != nil {
		logger.Error("Failed to list accounts", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}
	if accounts == nil {
		return []domain.Account{}, nil
	}
	return accounts, nil
}

// DeactivateAccount marks an account as inactive.
func (s *AccountService) DeactivateAccount(ctx context.Context, accountID string, userID string) error {
	logger := middleware.GetLoggerFromCtx(ctx)
	if err := s.accountRepo.DeactivateAccount(ctx, accountID, userID, time.Now().UTC()); err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			logger.Error("Failed to deactivate account", slog.String("error", err.Error()), slog.String("account_id", accountID))
		}
		return err
	}
	logger.Info("Account deactivated", slog.String("account_id", accountID))
	return nil
}

// ApplyBalanceDelta incrementally adjusts the persisted account balance.
// Used on entry creation; deletion paths prefer RecalculateBalance.
func (s *AccountService) ApplyBalanceDelta(ctx context.Context, accountID string, delta decimal.Decimal, userID string) error {
	logger := middleware.GetLoggerFromCtx(ctx)

	account, err := s.accountRepo.FindAccountByID(ctx, accountID)
	if err != nil {
		return fmt.Errorf("failed to fetch account %s for balance delta: %w", accountID, err)
	}

	newBalance := account.Balance.Add(delta)
	if err := s.accountRepo.UpdateBalance(ctx, accountID, newBalance, userID, time.Now().UTC()); err != nil {
		return fmt.Errorf("failed to apply balance delta to account %s: %w", accountID, err)
	}

	logger.Debug("Applied balance delta", slog.String("account_id", accountID), slog.String("delta", delta.String()), slog.String("balance", newBalance.String()))
	return nil
}

// RecalculateBalance recomputes the account balance from the full set of
// ledger entries referencing it and persists the result.
//
// The server-side aggregate is tried first. Any failure there degrades to the
// client-side fetch-and-sum path; the aggregate being missing or broken must
// never become a fatal error for the caller.
func (s *AccountService) RecalculateBalance(ctx context.Context, accountID string, userID string) (decimal.Decimal, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	balance, err := s.accountRepo.RecalculateBalanceRPC(ctx, accountID)
	if err == nil {
		logger.Debug("Account balance recalculated via aggregate", slog.String("account_id", accountID), slog.String("balance", balance.String()))
		return balance, nil
	}
	if !errors.Is(err, apperrors.ErrUnavailable) {
		logger.Warn("Balance aggregate failed, falling back to client-side sum", slog.String("account_id", accountID), slog.String("error", err.Error()))
	}

	return s.recalculateClientSide(ctx, accountID, userID)
}

// recalculateClientSide sums signed entry amounts on top of the opening
// balance and persists the result.
func (s *AccountService) recalculateClientSide(ctx context.Context, accountID string, userID string) (decimal.Decimal, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	account, err := s.accountRepo.FindAccountByID(ctx, accountID)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to fetch account %s for recalculation: %w", accountID, err)
	}

	entries, err := s.entryRepo.FindEntriesByAccount(ctx, accountID)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to fetch entries for account %s: %w", accountID, err)
	}

	balance := account.OpeningBalance
	for _, entry := range entries {
		balance = balance.Add(entry.Amount.Mul(entry.Table.SignedSign()))
	}

	if err := s.accountRepo.UpdateBalance(ctx, accountID, balance, userID, time.Now().UTC()); err != nil {
		return decimal.Zero, fmt.Errorf("failed to persist recalculated balance for account %s: %w", accountID, err)
	}

	logger.Info("Account balance recalculated client-side", slog.String("account_id", accountID), slog.String("balance", balance.String()), slog.Int("entry_count", len(entries)))
	return balance, nil
}
