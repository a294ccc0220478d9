// Package seed fills a development database with plausible records.
package seed

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/bxcodec/faker/v3"
	"github.com/chapelworks/chms_backend/internal/core/domain"
	portsrepo "github.com/chapelworks/chms_backend/internal/core/ports/repositories"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const seedUserID = "seeder"

var incomeCategories = []string{"Tithes", "Offerings", "Donations", "Fundraising", "Rent"}
var expenditureCategories = []string{"Utilities", "Salaries", "Maintenance", "Outreach", "Supplies"}

// Run inserts a small data set: accounts, members and a spread of ledger
// entries. Intended for local development only.
func Run(ctx context.Context, repos *portsrepo.Container, memberCount, entryCount int) error {
	now := time.Now()
	audit := domain.AuditFields{
		CreatedAt:     now,
		CreatedBy:     seedUserID,
		LastUpdatedAt: now,
		LastUpdatedBy: seedUserID,
	}

	accountIDs := make([]string, 0, 2)
	for _, spec := range []struct {
		name    string
		accType domain.AccountType
		opening decimal.Decimal
	}{
		{"Main Bank Account", domain.Bank, decimal.NewFromInt(10000)},
		{"Petty Cash", domain.Cash, decimal.NewFromInt(500)},
	} {
		acc := domain.Account{
			AccountID:      uuid.NewString(),
			Name:           spec.name,
			AccountType:    spec.accType,
			OpeningBalance: spec.opening,
			Balance:        spec.opening,
			IsActive:       true,
			AuditFields:    audit,
		}
		if err := repos.Account.SaveAccount(ctx, acc); err != nil {
			return fmt.Errorf("failed to seed account %q: %w", spec.name, err)
		}
		accountIDs = append(accountIDs, acc.AccountID)
	}

	for i := 0; i < memberCount; i++ {
		member := domain.Member{
			MemberID:    uuid.NewString(),
			FirstName:   faker.FirstName(),
			LastName:    faker.LastName(),
			Phone:       faker.Phonenumber(),
			Email:       faker.Email(),
			JoinedAt:    now.AddDate(0, -rand.Intn(36), 0),
			IsActive:    true,
			AuditFields: audit,
		}
		if err := repos.Member.SaveMember(ctx, member); err != nil {
			return fmt.Errorf("failed to seed member: %w", err)
		}
	}

	for i := 0; i < entryCount; i++ {
		table := domain.TableIncome
		category := incomeCategories[rand.Intn(len(incomeCategories))]
		if i%3 == 0 {
			table = domain.TableExpenditure
			category = expenditureCategories[rand.Intn(len(expenditureCategories))]
		}
		entry := domain.FinancialEntry{
			EntryID:       uuid.NewString(),
			Table:         table,
			EntryDate:     now.AddDate(0, 0, -rand.Intn(180)),
			Amount:        decimal.NewFromInt(int64(rand.Intn(9900) + 100)).Div(decimal.NewFromInt(10)),
			Category:      category,
			AccountID:     accountIDs[rand.Intn(len(accountIDs))],
			PaymentMethod: "cash",
			Description:   faker.Sentence(),
			AuditFields:   audit,
		}
		if err := repos.Entry.SaveEntry(ctx, entry); err != nil {
			return fmt.Errorf("failed to seed entry: %w", err)
		}
	}

	return nil
}
