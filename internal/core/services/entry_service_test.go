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

type EntryServiceTestSuite struct {
	suite.Suite
	mockEntryRepo    *MockEntryRepository
	mockLogRepo      *MockTransactionLogRepository
	mockAccountSvc   *MockAccountSvc
	mockBudgetSvc    *MockBudgetSvc
	mockLiabilitySvc *MockLiabilitySvc
	mockPublisher    *MockEventPublisher
	service          *services.EntryService
	ctx              context.Context
	userID           string
}

func (suite *EntryServiceTestSuite) SetupTest() {
	suite.mockEntryRepo = new(MockEntryRepository)
	suite.mockLogRepo = new(MockTransactionLogRepository)
	suite.mockAccountSvc = new(MockAccountSvc)
	suite.mockBudgetSvc = new(MockBudgetSvc)
	suite.mockLiabilitySvc = new(MockLiabilitySvc)
	suite.mockPublisher = new(MockEventPublisher)
	suite.service = services.NewEntryService(
		suite.mockEntryRepo,
		suite.mockLogRepo,
		suite.mockAccountSvc,
		suite.mockBudgetSvc,
		suite.mockLiabilitySvc,
		suite.mockPublisher,
	)
	suite.ctx = context.Background()
	suite.userID = uuid.NewString()
}

func (suite *EntryServiceTestSuite) baseRequest(table domain.EntryTable, amount int64) dto.CreateEntryRequest {
	return dto.CreateEntryRequest{
		Table:         table,
		EntryDate:     time.Date(2025, 3, 9, 0, 0, 0, 0, time.UTC),
		Amount:        decimal.NewFromInt(amount),
		Category:      "Offering",
		PaymentMethod: "cash",
		Description:   "Sunday offering",
	}
}

func (suite *EntryServiceTestSuite) TestCreateEntry_IncomeIncreasesAccountBalance() {
	accountID := uuid.NewString()
	req := suite.baseRequest(domain.TableIncome, 200)
	req.AccountID = &accountID

	suite.mockEntryRepo.On("SaveEntry", suite.ctx, mock.MatchedBy(func(e domain.FinancialEntry) bool {
		return e.Table == domain.TableIncome && e.Amount.Equal(decimal.NewFromInt(200)) && e.AccountID == accountID
	})).Return(nil)
	suite.mockLogRepo.On("SaveLog", suite.ctx, mock.AnythingOfType("domain.TransactionLog")).Return(nil)
	suite.mockAccountSvc.On("ApplyBalanceDelta", suite.ctx, accountID, decimal.NewFromInt(200), suite.userID).Return(nil)
	suite.mockPublisher.On("PublishFinancialEvent", suite.ctx, mock.AnythingOfType("services.FinancialEvent")).Return(nil)

	entry, err := suite.service.CreateEntry(suite.ctx, req, suite.userID)

	assert.NoError(suite.T(), err)
	assert.NotNil(suite.T(), entry)
	suite.mockAccountSvc.AssertExpectations(suite.T())
	suite.mockBudgetSvc.AssertNotCalled(suite.T(), "ApplyEntryToBudgetItem", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *EntryServiceTestSuite) TestCreateEntry_ExpenditureDecreasesAccountBalance() {
	accountID := uuid.NewString()
	req := suite.baseRequest(domain.TableExpenditure, 75)
	req.AccountID = &accountID

	suite.mockEntryRepo.On("SaveEntry", suite.ctx, mock.AnythingOfType("domain.FinancialEntry")).Return(nil)
	suite.mockLogRepo.On("SaveLog", suite.ctx, mock.AnythingOfType("domain.TransactionLog")).Return(nil)
	suite.mockAccountSvc.On("ApplyBalanceDelta", suite.ctx, accountID, decimal.NewFromInt(-75), suite.userID).Return(nil)
	suite.mockPublisher.On("PublishFinancialEvent", suite.ctx, mock.AnythingOfType("services.FinancialEvent")).Return(nil)

	_, err := suite.service.CreateEntry(suite.ctx, req, suite.userID)

	assert.NoError(suite.T(), err)
	suite.mockAccountSvc.AssertExpectations(suite.T())
}

func (suite *EntryServiceTestSuite) TestCreateEntry_ExpenditureWithLinkages() {
	accountID := uuid.NewString()
	budgetItemID := uuid.NewString()
	liabilityID := uuid.NewString()
	req := suite.baseRequest(domain.TableExpenditure, 300)
	req.AccountID = &accountID
	req.BudgetItemID = &budgetItemID
	req.LiabilityID = &liabilityID

	suite.mockEntryRepo.On("SaveEntry", suite.ctx, mock.AnythingOfType("domain.FinancialEntry")).Return(nil)
	suite.mockLogRepo.On("SaveLog", suite.ctx, mock.AnythingOfType("domain.TransactionLog")).Return(nil)
	suite.mockAccountSvc.On("ApplyBalanceDelta", suite.ctx, accountID, decimal.NewFromInt(-300), suite.userID).Return(nil)
	suite.mockBudgetSvc.On("ApplyEntryToBudgetItem", suite.ctx, budgetItemID, decimal.NewFromInt(300), suite.userID).Return(nil)
	suite.mockLiabilitySvc.On("ApplyPayment", suite.ctx, liabilityID, decimal.NewFromInt(300), suite.userID).Return(nil)
	suite.mockPublisher.On("PublishFinancialEvent", suite.ctx, mock.AnythingOfType("services.FinancialEvent")).Return(nil)

	_, err := suite.service.CreateEntry(suite.ctx, req, suite.userID)

	assert.NoError(suite.T(), err)
	suite.mockBudgetSvc.AssertExpectations(suite.T())
	suite.mockLiabilitySvc.AssertExpectations(suite.T())
}

func (suite *EntryServiceTestSuite) TestCreateEntry_LiabilityOnIncomeRejected() {
	liabilityID := uuid.NewString()
	req := suite.baseRequest(domain.TableIncome, 100)
	req.LiabilityID = &liabilityID

	_, err := suite.service.CreateEntry(suite.ctx, req, suite.userID)

	assert.ErrorIs(suite.T(), err, apperrors.ErrValidation)
	suite.mockEntryRepo.AssertNotCalled(suite.T(), "SaveEntry", mock.Anything, mock.Anything)
}

func (suite *EntryServiceTestSuite) TestCreateEntry_NonPositiveAmountRejected() {
	req := suite.baseRequest(domain.TableIncome, 0)

	_, err := suite.service.CreateEntry(suite.ctx, req, suite.userID)

	assert.ErrorIs(suite.T(), err, apperrors.ErrValidation)
	suite.mockEntryRepo.AssertNotCalled(suite.T(), "SaveEntry", mock.Anything, mock.Anything)
}

func (suite *EntryServiceTestSuite) TestCreateEntry_BookkeepingFailuresDoNotFailCreation() {
	accountID := uuid.NewString()
	req := suite.baseRequest(domain.TableIncome, 50)
	req.AccountID = &accountID

	suite.mockEntryRepo.On("SaveEntry", suite.ctx, mock.AnythingOfType("domain.FinancialEntry")).Return(nil)
	suite.mockLogRepo.On("SaveLog", suite.ctx, mock.AnythingOfType("domain.TransactionLog")).Return(assert.AnError)
	suite.mockAccountSvc.On("ApplyBalanceDelta", suite.ctx, accountID, decimal.NewFromInt(50), suite.userID).Return(assert.AnError)
	suite.mockPublisher.On("PublishFinancialEvent", suite.ctx, mock.AnythingOfType("services.FinancialEvent")).Return(assert.AnError)

	entry, err := suite.service.CreateEntry(suite.ctx, req, suite.userID)

	assert.NoError(suite.T(), err)
	assert.NotNil(suite.T(), entry)
}

func (suite *EntryServiceTestSuite) TestCreateEntry_SaveFailureStopsBookkeeping() {
	req := suite.baseRequest(domain.TableIncome, 50)

	suite.mockEntryRepo.On("SaveEntry", suite.ctx, mock.AnythingOfType("domain.FinancialEntry")).Return(assert.AnError)

	_, err := suite.service.CreateEntry(suite.ctx, req, suite.userID)

	assert.Error(suite.T(), err)
	suite.mockLogRepo.AssertNotCalled(suite.T(), "SaveLog", mock.Anything, mock.Anything)
}

func (suite *EntryServiceTestSuite) TestGetEntry_UnknownTable() {
	_, err := suite.service.GetEntry(suite.ctx, domain.EntryTable("members"), uuid.NewString())

	assert.ErrorIs(suite.T(), err, apperrors.ErrValidation)
}

func TestEntryServiceTestSuite(t *testing.T) {
	suite.Run(t, new(EntryServiceTestSuite))
}
