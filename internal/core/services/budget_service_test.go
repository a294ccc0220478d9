package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/chapelworks/chms_backend/internal/apperrors"
	"github.com/chapelworks/chms_backend/internal/core/domain"
	"github.com/chapelworks/chms_backend/internal/core/services"
	"github.com/chapelworks/chms_backend/internal/dto"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type BudgetServiceTestSuite struct {
	suite.Suite
	mockBudgetRepo *MockBudgetRepository
	mockEntryRepo  *MockEntryRepository
	service        *services.BudgetService
	ctx            context.Context
	userID         string
}

func (suite *BudgetServiceTestSuite) SetupTest() {
	suite.mockBudgetRepo = new(MockBudgetRepository)
	suite.mockEntryRepo = new(MockEntryRepository)
	suite.service = services.NewBudgetService(suite.mockBudgetRepo, suite.mockEntryRepo)
	suite.ctx = context.Background()
	suite.userID = uuid.NewString()
}

func (suite *BudgetServiceTestSuite) TestCreateBudget_Success() {
	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	req := dto.CreateBudgetRequest{
		Name:        "2025 Operating Budget",
		PeriodStart: start,
		PeriodEnd:   start.AddDate(1, 0, 0),
		Items: []dto.CreateBudgetItemRequest{
			{Name: "Utilities", Category: "Facilities", PlannedAmount: decimal.NewFromInt(1200)},
			{Name: "Outreach", Category: "Missions", PlannedAmount: decimal.NewFromInt(800)},
		},
	}

	suite.mockBudgetRepo.On("SaveBudget", suite.ctx, mock.MatchedBy(func(b domain.Budget) bool {
		return b.Name == req.Name && b.CreatedBy == suite.userID
	})).Return(nil)
	suite.mockBudgetRepo.On("SaveBudgetItem", suite.ctx, mock.MatchedBy(func(item domain.BudgetItem) bool {
		return item.ActualAmount.IsZero() && item.Variance.Equal(item.PlannedAmount)
	})).Return(nil).Twice()

	budget, items, err := suite.service.CreateBudget(suite.ctx, req, suite.userID)

	assert.NoError(suite.T(), err)
	assert.NotNil(suite.T(), budget)
	assert.Len(suite.T(), items, 2)
	suite.mockBudgetRepo.AssertExpectations(suite.T())
}

func (suite *BudgetServiceTestSuite) TestCreateBudget_PeriodEndBeforeStart() {
	start := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	req := dto.CreateBudgetRequest{
		Name:        "Backwards",
		PeriodStart: start,
		PeriodEnd:   start.AddDate(0, -1, 0),
	}

	_, _, err := suite.service.CreateBudget(suite.ctx, req, suite.userID)

	assert.ErrorIs(suite.T(), err, apperrors.ErrValidation)
	suite.mockBudgetRepo.AssertNotCalled(suite.T(), "SaveBudget", mock.Anything, mock.Anything)
}

func (suite *BudgetServiceTestSuite) TestCreateBudget_NegativePlannedAmount() {
	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	req := dto.CreateBudgetRequest{
		Name:        "Bad Line",
		PeriodStart: start,
		PeriodEnd:   start.AddDate(1, 0, 0),
		Items: []dto.CreateBudgetItemRequest{
			{Name: "Utilities", PlannedAmount: decimal.NewFromInt(-10)},
		},
	}

	_, _, err := suite.service.CreateBudget(suite.ctx, req, suite.userID)

	assert.ErrorIs(suite.T(), err, apperrors.ErrValidation)
	suite.mockBudgetRepo.AssertNotCalled(suite.T(), "SaveBudget", mock.Anything, mock.Anything)
}

func (suite *BudgetServiceTestSuite) TestApplyEntryToBudgetItem() {
	budgetItemID := uuid.NewString()
	item := &domain.BudgetItem{
		BudgetItemID:  budgetItemID,
		PlannedAmount: decimal.NewFromInt(1000),
		ActualAmount:  decimal.NewFromInt(250),
	}

	suite.mockBudgetRepo.On("FindBudgetItemByID", suite.ctx, budgetItemID).Return(item, nil)
	// actual 250 + 100 = 350, variance 1000 - 350 = 650
	suite.mockBudgetRepo.On("UpdateBudgetItemActuals", suite.ctx, budgetItemID,
		decimal.NewFromInt(350), decimal.NewFromInt(650), suite.userID, mock.AnythingOfType("time.Time")).Return(nil)

	err := suite.service.ApplyEntryToBudgetItem(suite.ctx, budgetItemID, decimal.NewFromInt(100), suite.userID)

	assert.NoError(suite.T(), err)
	suite.mockBudgetRepo.AssertExpectations(suite.T())
}

func (suite *BudgetServiceTestSuite) TestRemoveEntryFromBudgetItem_Subtracts() {
	budgetItemID := uuid.NewString()
	item := &domain.BudgetItem{
		BudgetItemID:  budgetItemID,
		PlannedAmount: decimal.NewFromInt(1000),
		ActualAmount:  decimal.NewFromInt(350),
	}

	suite.mockBudgetRepo.On("FindBudgetItemByID", suite.ctx, budgetItemID).Return(item, nil)
	suite.mockBudgetRepo.On("UpdateBudgetItemActuals", suite.ctx, budgetItemID,
		decimal.NewFromInt(250), decimal.NewFromInt(750), suite.userID, mock.AnythingOfType("time.Time")).Return(nil)

	err := suite.service.RemoveEntryFromBudgetItem(suite.ctx, budgetItemID, decimal.NewFromInt(100), suite.userID)

	assert.NoError(suite.T(), err)
	suite.mockBudgetRepo.AssertExpectations(suite.T())
}

func (suite *BudgetServiceTestSuite) TestRemoveEntryFromBudgetItem_ClampsAtZero() {
	budgetItemID := uuid.NewString()
	item := &domain.BudgetItem{
		BudgetItemID:  budgetItemID,
		PlannedAmount: decimal.NewFromInt(500),
		ActualAmount:  decimal.NewFromInt(50),
	}

	suite.mockBudgetRepo.On("FindBudgetItemByID", suite.ctx, budgetItemID).Return(item, nil)
	// 50 - 80 would go negative, so the actual clamps to zero and the
	// variance resets to the full planned amount.
	suite.mockBudgetRepo.On("UpdateBudgetItemActuals", suite.ctx, budgetItemID,
		mock.MatchedBy(func(actual decimal.Decimal) bool { return actual.IsZero() }),
		mock.MatchedBy(func(variance decimal.Decimal) bool { return variance.Equal(decimal.NewFromInt(500)) }),
		suite.userID, mock.AnythingOfType("time.Time")).Return(nil)

	err := suite.service.RemoveEntryFromBudgetItem(suite.ctx, budgetItemID, decimal.NewFromInt(80), suite.userID)

	assert.NoError(suite.T(), err)
	suite.mockBudgetRepo.AssertExpectations(suite.T())
}

func (suite *BudgetServiceTestSuite) TestRemoveEntryFromBudgetItem_MissingItemIsNoOp() {
	budgetItemID := uuid.NewString()

	suite.mockBudgetRepo.On("FindBudgetItemByID", suite.ctx, budgetItemID).Return(nil, apperrors.ErrNotFound)

	err := suite.service.RemoveEntryFromBudgetItem(suite.ctx, budgetItemID, decimal.NewFromInt(100), suite.userID)

	assert.NoError(suite.T(), err)
	suite.mockBudgetRepo.AssertNotCalled(suite.T(), "UpdateBudgetItemActuals",
		mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *BudgetServiceTestSuite) TestUpdateBudgetItemForExpenditure_NoLinkage() {
	entryID := uuid.NewString()
	entry := &domain.FinancialEntry{EntryID: entryID, Table: domain.TableExpenditure}

	suite.mockEntryRepo.On("FindEntryByID", suite.ctx, domain.TableExpenditure, entryID).Return(entry, nil)

	updated, err := suite.service.UpdateBudgetItemForExpenditure(suite.ctx, entryID, suite.userID)

	assert.NoError(suite.T(), err)
	assert.False(suite.T(), updated)
	suite.mockBudgetRepo.AssertNotCalled(suite.T(), "FindBudgetItemByID", mock.Anything, mock.Anything)
}

func (suite *BudgetServiceTestSuite) TestUpdateBudgetItemForExpenditure_ItemGone() {
	entryID := uuid.NewString()
	budgetItemID := uuid.NewString()
	entry := &domain.FinancialEntry{EntryID: entryID, Table: domain.TableExpenditure, BudgetItemID: budgetItemID}

	suite.mockEntryRepo.On("FindEntryByID", suite.ctx, domain.TableExpenditure, entryID).Return(entry, nil)
	suite.mockBudgetRepo.On("FindBudgetItemByID", suite.ctx, budgetItemID).Return(nil, apperrors.ErrNotFound)

	updated, err := suite.service.UpdateBudgetItemForExpenditure(suite.ctx, entryID, suite.userID)

	assert.NoError(suite.T(), err)
	assert.False(suite.T(), updated)
}

func (suite *BudgetServiceTestSuite) TestUpdateBudgetItemForExpenditure_ResyncsFromLedger() {
	entryID := uuid.NewString()
	budgetItemID := uuid.NewString()
	entry := &domain.FinancialEntry{EntryID: entryID, Table: domain.TableExpenditure, BudgetItemID: budgetItemID}
	item := &domain.BudgetItem{
		BudgetItemID:  budgetItemID,
		PlannedAmount: decimal.NewFromInt(1000),
		ActualAmount:  decimal.NewFromInt(999),
	}
	linked := []domain.FinancialEntry{
		{Amount: decimal.NewFromInt(120)},
		{Amount: decimal.NewFromInt(80)},
		{Amount: decimal.NewFromInt(300)},
	}

	suite.mockEntryRepo.On("FindEntryByID", suite.ctx, domain.TableExpenditure, entryID).Return(entry, nil)
	suite.mockBudgetRepo.On("FindBudgetItemByID", suite.ctx, budgetItemID).Return(item, nil)
	suite.mockEntryRepo.On("FindEntriesByBudgetItem", suite.ctx, budgetItemID).Return(linked, nil)
	// Actual recomputed from scratch: 120 + 80 + 300 = 500, variance 500.
	suite.mockBudgetRepo.On("UpdateBudgetItemActuals", suite.ctx, budgetItemID,
		mock.MatchedBy(func(actual decimal.Decimal) bool { return actual.Equal(decimal.NewFromInt(500)) }),
		mock.MatchedBy(func(variance decimal.Decimal) bool { return variance.Equal(decimal.NewFromInt(500)) }),
		suite.userID, mock.AnythingOfType("time.Time")).Return(nil)

	updated, err := suite.service.UpdateBudgetItemForExpenditure(suite.ctx, entryID, suite.userID)

	assert.NoError(suite.T(), err)
	assert.True(suite.T(), updated)
	suite.mockBudgetRepo.AssertExpectations(suite.T())
}

func TestBudgetServiceTestSuite(t *testing.T) {
	suite.Run(t, new(BudgetServiceTestSuite))
}
