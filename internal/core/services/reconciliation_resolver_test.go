package services_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/chapelworks/chms_backend/internal/apperrors"
	"github.com/chapelworks/chms_backend/internal/core/domain"
	"github.com/chapelworks/chms_backend/internal/core/services"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type ReconciliationResolverTestSuite struct {
	suite.Suite
	mockReconRepo *MockReconciliationRepository
	resolver      *services.ReconciliationResolver
	ctx           context.Context
}

func (suite *ReconciliationResolverTestSuite) SetupTest() {
	suite.mockReconRepo = new(MockReconciliationRepository)
	suite.resolver = services.NewReconciliationResolver(suite.mockReconRepo)
	suite.ctx = context.Background()
}

// --- Classifier ---

func (suite *ReconciliationResolverTestSuite) TestIsReconciliationAdjustment() {
	cases := []struct {
		name  string
		entry domain.FinancialEntry
		want  bool
	}{
		{"explicit flag", domain.FinancialEntry{IsAdjustment: true}, true},
		{"explicit field", domain.FinancialEntry{ReconciliationID: uuid.NewString()}, true},
		{"payment method", domain.FinancialEntry{PaymentMethod: "reconciliation"}, true},
		{"payment method case insensitive", domain.FinancialEntry{PaymentMethod: "RECONCILIATION"}, true},
		{"description marker", domain.FinancialEntry{Description: "[RECONCILIATION] Manual adjustment"}, true},
		{"description phrase", domain.FinancialEntry{Description: "reconciliation adjustment for March"}, true},
		{"description fragment", domain.FinancialEntry{Description: "Fixing reconciled balance"}, true},
		{"ordinary entry", domain.FinancialEntry{Description: "Sunday offering", PaymentMethod: "cash"}, false},
		{"empty entry", domain.FinancialEntry{}, false},
	}

	for _, tc := range cases {
		suite.Run(tc.name, func() {
			assert.Equal(suite.T(), tc.want, suite.resolver.IsReconciliationAdjustment(tc.entry))
		})
	}
}

// --- Resolution cascade ---

func (suite *ReconciliationResolverTestSuite) TestResolve_ExplicitFieldWinsWithoutLookups() {
	reconciliationID := uuid.NewString()
	entry := domain.FinancialEntry{EntryID: uuid.NewString(), ReconciliationID: reconciliationID}

	id, ok := suite.resolver.ResolveReconciliationID(suite.ctx, entry)

	assert.True(suite.T(), ok)
	assert.Equal(suite.T(), reconciliationID, id)
	suite.mockReconRepo.AssertNotCalled(suite.T(), "FindLinkByEntryID", mock.Anything, mock.Anything)
}

func (suite *ReconciliationResolverTestSuite) TestResolve_LinkTable() {
	entryID := uuid.NewString()
	reconciliationID := uuid.NewString()
	entry := domain.FinancialEntry{EntryID: entryID}

	suite.mockReconRepo.On("FindLinkByEntryID", suite.ctx, entryID).Return(&domain.TransactionReconciliationLink{
		EntryID:          entryID,
		ReconciliationID: reconciliationID,
	}, nil)

	id, ok := suite.resolver.ResolveReconciliationID(suite.ctx, entry)

	assert.True(suite.T(), ok)
	assert.Equal(suite.T(), reconciliationID, id)
	suite.mockReconRepo.AssertNotCalled(suite.T(), "FindLegacyItemReconciliationID", mock.Anything, mock.Anything)
}

func (suite *ReconciliationResolverTestSuite) TestResolve_LegacyItemsTable() {
	entryID := uuid.NewString()
	reconciliationID := uuid.NewString()
	entry := domain.FinancialEntry{EntryID: entryID}

	suite.mockReconRepo.On("FindLinkByEntryID", suite.ctx, entryID).Return(nil, apperrors.ErrNotFound)
	suite.mockReconRepo.On("FindLegacyItemReconciliationID", suite.ctx, entryID).Return(reconciliationID, nil)

	id, ok := suite.resolver.ResolveReconciliationID(suite.ctx, entry)

	assert.True(suite.T(), ok)
	assert.Equal(suite.T(), reconciliationID, id)
}

func (suite *ReconciliationResolverTestSuite) TestResolve_DescriptionReconciliationID_Verified() {
	entryID := uuid.NewString()
	reconciliationID := uuid.NewString()
	entry := domain.FinancialEntry{
		EntryID:     entryID,
		Description: fmt.Sprintf("Manual adjustment for reconciliation id: %s on account x", reconciliationID),
	}

	suite.mockReconRepo.On("FindLinkByEntryID", suite.ctx, entryID).Return(nil, apperrors.ErrNotFound)
	suite.mockReconRepo.On("FindLegacyItemReconciliationID", suite.ctx, entryID).Return("", apperrors.ErrNotFound)
	suite.mockReconRepo.On("FindReconciliationByID", suite.ctx, reconciliationID).Return(&domain.BankReconciliation{ReconciliationID: reconciliationID}, nil)

	id, ok := suite.resolver.ResolveReconciliationID(suite.ctx, entry)

	assert.True(suite.T(), ok)
	assert.Equal(suite.T(), reconciliationID, id)
}

func (suite *ReconciliationResolverTestSuite) TestResolve_DescriptionIDStale_FallsThrough() {
	entryID := uuid.NewString()
	staleID := uuid.NewString()
	accountID := uuid.NewString()
	latestID := uuid.NewString()
	entry := domain.FinancialEntry{
		EntryID:     entryID,
		AccountID:   accountID,
		Description: fmt.Sprintf("reconciliation id: %s", staleID),
	}

	suite.mockReconRepo.On("FindLinkByEntryID", suite.ctx, entryID).Return(nil, apperrors.ErrNotFound)
	suite.mockReconRepo.On("FindLegacyItemReconciliationID", suite.ctx, entryID).Return("", apperrors.ErrNotFound)
	// Parsed id no longer exists, so the cascade continues to the account strategies.
	suite.mockReconRepo.On("FindReconciliationByID", suite.ctx, staleID).Return(nil, apperrors.ErrNotFound)
	suite.mockReconRepo.On("FindLatestByAccount", suite.ctx, accountID).Return(&domain.BankReconciliation{ReconciliationID: latestID}, nil)

	id, ok := suite.resolver.ResolveReconciliationID(suite.ctx, entry)

	assert.True(suite.T(), ok)
	assert.Equal(suite.T(), latestID, id)
}

func (suite *ReconciliationResolverTestSuite) TestResolve_DescriptionAccountID() {
	entryID := uuid.NewString()
	accountID := uuid.NewString()
	reconciliationID := uuid.NewString()
	entry := domain.FinancialEntry{
		EntryID:     entryID,
		Description: fmt.Sprintf("adjustment on account %s for March", accountID),
	}

	suite.mockReconRepo.On("FindLinkByEntryID", suite.ctx, entryID).Return(nil, apperrors.ErrNotFound)
	suite.mockReconRepo.On("FindLegacyItemReconciliationID", suite.ctx, entryID).Return("", apperrors.ErrNotFound)
	suite.mockReconRepo.On("FindLatestByAccount", suite.ctx, accountID).Return(&domain.BankReconciliation{ReconciliationID: reconciliationID}, nil)

	id, ok := suite.resolver.ResolveReconciliationID(suite.ctx, entry)

	assert.True(suite.T(), ok)
	assert.Equal(suite.T(), reconciliationID, id)
}

func (suite *ReconciliationResolverTestSuite) TestResolve_EntryAccountFallback() {
	entryID := uuid.NewString()
	accountID := uuid.NewString()
	reconciliationID := uuid.NewString()
	entry := domain.FinancialEntry{EntryID: entryID, AccountID: accountID, Description: "no ids here"}

	suite.mockReconRepo.On("FindLinkByEntryID", suite.ctx, entryID).Return(nil, apperrors.ErrNotFound)
	suite.mockReconRepo.On("FindLegacyItemReconciliationID", suite.ctx, entryID).Return("", apperrors.ErrNotFound)
	suite.mockReconRepo.On("FindLatestByAccount", suite.ctx, accountID).Return(&domain.BankReconciliation{ReconciliationID: reconciliationID}, nil)

	id, ok := suite.resolver.ResolveReconciliationID(suite.ctx, entry)

	assert.True(suite.T(), ok)
	assert.Equal(suite.T(), reconciliationID, id)
}

func (suite *ReconciliationResolverTestSuite) TestResolve_LatestOverallIsLastResort() {
	entryID := uuid.NewString()
	reconciliationID := uuid.NewString()
	entry := domain.FinancialEntry{EntryID: entryID}

	suite.mockReconRepo.On("FindLinkByEntryID", suite.ctx, entryID).Return(nil, apperrors.ErrNotFound)
	suite.mockReconRepo.On("FindLegacyItemReconciliationID", suite.ctx, entryID).Return("", apperrors.ErrNotFound)
	suite.mockReconRepo.On("FindLatest", suite.ctx).Return(&domain.BankReconciliation{ReconciliationID: reconciliationID}, nil)

	id, ok := suite.resolver.ResolveReconciliationID(suite.ctx, entry)

	assert.True(suite.T(), ok)
	assert.Equal(suite.T(), reconciliationID, id)
}

func (suite *ReconciliationResolverTestSuite) TestResolve_StrategyErrorsAreSkipped() {
	entryID := uuid.NewString()
	reconciliationID := uuid.NewString()
	entry := domain.FinancialEntry{EntryID: entryID}

	// Both early lookups fail hard; the cascade must still reach the last resort.
	suite.mockReconRepo.On("FindLinkByEntryID", suite.ctx, entryID).Return(nil, fmt.Errorf("link table unreachable"))
	suite.mockReconRepo.On("FindLegacyItemReconciliationID", suite.ctx, entryID).Return("", fmt.Errorf("legacy table unreachable"))
	suite.mockReconRepo.On("FindLatest", suite.ctx).Return(&domain.BankReconciliation{ReconciliationID: reconciliationID}, nil)

	id, ok := suite.resolver.ResolveReconciliationID(suite.ctx, entry)

	assert.True(suite.T(), ok)
	assert.Equal(suite.T(), reconciliationID, id)
}

func (suite *ReconciliationResolverTestSuite) TestResolve_AllStrategiesExhausted() {
	entryID := uuid.NewString()
	entry := domain.FinancialEntry{EntryID: entryID}

	suite.mockReconRepo.On("FindLinkByEntryID", suite.ctx, entryID).Return(nil, apperrors.ErrNotFound)
	suite.mockReconRepo.On("FindLegacyItemReconciliationID", suite.ctx, entryID).Return("", apperrors.ErrNotFound)
	suite.mockReconRepo.On("FindLatest", suite.ctx).Return(nil, apperrors.ErrNotFound)

	id, ok := suite.resolver.ResolveReconciliationID(suite.ctx, entry)

	assert.False(suite.T(), ok)
	assert.Empty(suite.T(), id)
}

func TestReconciliationResolverTestSuite(t *testing.T) {
	suite.Run(t, new(ReconciliationResolverTestSuite))
}
