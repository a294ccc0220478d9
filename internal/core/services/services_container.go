package services

import (
	portsrepo "github.com/chapelworks/chms_backend/internal/core/ports/repositories"
	portssvc "github.com/chapelworks/chms_backend/internal/core/ports/services"
)

// NewServiceContainer wires every service from the repository container.
// publisher may be nil when no event stream is configured.
func NewServiceContainer(repos *portsrepo.Container, publisher portssvc.EventPublisher) *portssvc.ServiceContainer {
	accountSvc := NewAccountService(repos.Account, repos.Entry)
	budgetSvc := NewBudgetService(repos.Budget, repos.Entry)
	liabilitySvc := NewLiabilityService(repos.Liability)
	resolver := NewReconciliationResolver(repos.Reconciliation)
	reconSvc := NewReconciliationService(repos.Reconciliation, repos.Entry, accountSvc)
	entrySvc := NewEntryService(repos.Entry, repos.TransactionLog, accountSvc, budgetSvc, liabilitySvc, publisher)
	deletionSvc := NewDeletionService(repos.Entry, repos.TransactionLog, repos.Reconciliation, resolver, reconSvc, accountSvc, budgetSvc, liabilitySvc, publisher)
	memberSvc := NewMemberService(repos.Member)

	return &portssvc.ServiceContainer{
		Account:        accountSvc,
		Entry:          entrySvc,
		Deletion:       deletionSvc,
		Budget:         budgetSvc,
		Liability:      liabilitySvc,
		Reconciliation: reconSvc,
		Member:         memberSvc,
	}
}
