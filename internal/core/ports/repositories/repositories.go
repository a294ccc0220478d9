package repositories

// Container bundles every repository implementation for wiring at startup.
type Container struct {
	Account        AccountRepository
	Entry          EntryRepository
	TransactionLog TransactionLogRepository
	Budget         BudgetRepository
	Liability      LiabilityRepository
	Reconciliation ReconciliationRepository
	Member         MemberRepository
}
