package pgsql

import (
	portsrepo "github.com/chapelworks/chms_backend/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

// NewRepositoryContainer wires every pgx-backed repository over one shared
// pool.
func NewRepositoryContainer(pool *pgxpool.Pool) *portsrepo.Container {
	return &portsrepo.Container{
		Account:        NewPgxAccountRepository(pool),
		Entry:          NewPgxEntryRepository(pool),
		TransactionLog: NewPgxTransactionLogRepository(pool),
		Budget:         NewPgxBudgetRepository(pool),
		Liability:      NewPgxLiabilityRepository(pool),
		Reconciliation: NewPgxReconciliationRepository(pool),
		Member:         NewPgxMemberRepository(pool),
	}
}
