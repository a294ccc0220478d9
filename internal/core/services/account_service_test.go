package services_test

import (
	"context"
	"fmt"
	"testing"

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

type AccountServiceTestSuite struct {
	suite.Suite
	mockAccountRepo *MockAccountRepository
	mockEntryRepo   *MockEntryRepository
	service         *services.AccountService
	ctx             context.Context
	userID          string
}

func (suite *AccountServiceTestSuite) SetupTest() {
	suite.mockAccountRepo = new(MockAccountRepository)
	suite.mockEntryRepo = new(MockEntryRepository)
	suite.service = services.NewAccountService(suite.mockAccountRepo, suite.mockEntryRepo)
	suite.ctx = context.Background()
	suite.userID = uuid.NewString()
}

func (suite *AccountServiceTestSuite) TestCreateAccount_Success() {
	req := dto.CreateAccountRequest{
		Name:           "Main Bank Account",
		AccountType:    domain.Bank,
		OpeningBalance: decimal.NewFromInt(1000),
	}
	suite.mockAccountRepo.On("SaveAccount", suite.ctx, mock.MatchedBy(func(acc domain.Account) bool {
		return acc.Name == req.Name &&
			acc.Balance.Equal(req.OpeningBalance) &&
			acc.IsActive &&
			acc.CreatedBy == suite.userID
	})).Return(nil)

	account, err := suite.service.CreateAccount(suite.ctx, req, suite.userID)

	assert.NoError(suite.T(), err)
	assert.NotNil(suite.T(), account)
	assert.True(suite.T(), account.Balance.Equal(decimal.NewFromInt(1000)))
	suite.mockAccountRepo.AssertExpectations(suite.T())
}

func (suite *AccountServiceTestSuite) TestCreateAccount_NegativeOpeningBalance() {
	req := dto.CreateAccountRequest{
		Name:           "Bad",
		AccountType:    domain.Cash,
		OpeningBalance: decimal.NewFromInt(-5),
	}

	_, err := suite.service.CreateAccount(suite.ctx, req, suite.userID)

	assert.ErrorIs(suite.T(), err, apperrors.ErrValidation)
	suite.mockAccountRepo.AssertNotCalled(suite.T(), "SaveAccount", mock.Anything, mock.Anything)
}

func (suite *AccountServiceTestSuite) TestRecalculateBalance_AggregatePreferred() {
	accountID := uuid.NewString()
	suite.mockAccountRepo.On("RecalculateBalanceRPC", suite.ctx, accountID).Return(decimal.NewFromInt(1234), nil)

	balance, err := suite.service.RecalculateBalance(suite.ctx, accountID, suite.userID)

	assert.NoError(suite.T(), err)
	assert.True(suite.T(), balance.Equal(decimal.NewFromInt(1234)))
	suite.mockAccountRepo.AssertNotCalled(suite.T(), "FindAccountByID", mock.Anything, mock.Anything)
	suite.mockEntryRepo.AssertNotCalled(suite.T(), "FindEntriesByAccount", mock.Anything, mock.Anything)
}

func (suite *AccountServiceTestSuite) TestRecalculateBalance_AggregateUnavailable_FallsBack() {
	accountID := uuid.NewString()
	account := &domain.Account{
		AccountID:      accountID,
		OpeningBalance: decimal.NewFromInt(100),
	}
	entries := []domain.FinancialEntry{
		{Table: domain.TableIncome, Amount: decimal.NewFromInt(500)},
		{Table: domain.TableIncome, Amount: decimal.NewFromInt(250)},
		{Table: domain.TableExpenditure, Amount: decimal.NewFromInt(150)},
	}

	suite.mockAccountRepo.On("RecalculateBalanceRPC", suite.ctx, accountID).
		Return(decimal.Zero, fmt.Errorf("%w: function missing", apperrors.ErrUnavailable))
	suite.mockAccountRepo.On("FindAccountByID", suite.ctx, accountID).Return(account, nil)
	suite.mockEntryRepo.On("FindEntriesByAccount", suite.ctx, accountID).Return(entries, nil)
	// 100 + 500 + 250 - 150
	suite.mockAccountRepo.On("UpdateBalance", suite.ctx, accountID, decimal.NewFromInt(700), suite.userID, mock.AnythingOfType("time.Time")).Return(nil)

	balance, err := suite.service.RecalculateBalance(suite.ctx, accountID, suite.userID)

	assert.NoError(suite.T(), err)
	assert.True(suite.T(), balance.Equal(decimal.NewFromInt(700)))
	suite.mockAccountRepo.AssertExpectations(suite.T())
}

func (suite *AccountServiceTestSuite) TestRecalculateBalance_AnyAggregateErrorFallsBack() {
	accountID := uuid.NewString()
	account := &domain.Account{AccountID: accountID, OpeningBalance: decimal.NewFromInt(50)}

	suite.mockAccountRepo.On("RecalculateBalanceRPC", suite.ctx, accountID).
		Return(decimal.Zero, fmt.Errorf("aggregate timed out"))
	suite.mockAccountRepo.On("FindAccountByID", suite.ctx, accountID).Return(account, nil)
	suite.mockEntryRepo.On("FindEntriesByAccount", suite.ctx, accountID).Return([]domain.FinancialEntry{}, nil)
	suite.mockAccountRepo.On("UpdateBalance", suite.ctx, accountID, decimal.NewFromInt(50), suite.userID, mock.AnythingOfType("time.Time")).Return(nil)

	balance, err := suite.service.RecalculateBalance(suite.ctx, accountID, suite.userID)

	assert.NoError(suite.T(), err)
	assert.True(suite.T(), balance.Equal(decimal.NewFromInt(50)))
}

func (suite *AccountServiceTestSuite) TestRecalculateBalance_FallbackAccountMissing() {
	accountID := uuid.NewString()

	suite.mockAccountRepo.On("RecalculateBalanceRPC", suite.ctx, accountID).
		Return(decimal.Zero, fmt.Errorf("%w: function missing", apperrors.ErrUnavailable))
	suite.mockAccountRepo.On("FindAccountByID", suite.ctx, accountID).Return(nil, apperrors.ErrNotFound)

	_, err := suite.service.RecalculateBalance(suite.ctx, accountID, suite.userID)

	assert.ErrorIs(suite.T(), err, apperrors.ErrNotFound)
}

func (suite *AccountServiceTestSuite) TestApplyBalanceDelta() {
	accountID := uuid.NewString()
	account := &domain.Account{AccountID: accountID, Balance: decimal.NewFromInt(200)}

	suite.mockAccountRepo.On("FindAccountByID", suite.ctx, accountID).Return(account, nil)
	suite.mockAccountRepo.On("UpdateBalance", suite.ctx, accountID, decimal.NewFromInt(150), suite.userID, mock.AnythingOfType("time.Time")).Return(nil)

	err := suite.service.ApplyBalanceDelta(suite.ctx, accountID, decimal.NewFromInt(-50), suite.userID)

	assert.NoError(suite.T(), err)
	suite.mockAccountRepo.AssertExpectations(suite.T())
}

func TestAccountServiceTestSuite(t *testing.T) {
	suite.Run(t, new(AccountServiceTestSuite))
}
