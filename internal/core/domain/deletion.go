package domain

// DeletionStep names a stage of the financial entry deletion sequence for
// warning attribution.
type DeletionStep string

const (
	StepTransactionLog DeletionStep = "transaction_log_cleanup"
	StepReconciliation DeletionStep = "reconciliation_update"
	StepAccountBalance DeletionStep = "account_balance_resync"
	StepBudgetItem     DeletionStep = "budget_item_resync"
	StepLiability      DeletionStep = "liability_reversal"
	StepAuditEvent     DeletionStep = "audit_event_publish"
)

// DeletionWarning reports a non-fatal failure in one deletion sub-step.
type DeletionWarning struct {
	Step    DeletionStep `json:"step"`
	Message string       `json:"message"`
}

// DeletionResult is the outcome of deleting a financial entry. Deleted is
// true iff the row delete itself succeeded; every secondary bookkeeping
// failure is carried as a warning so the caller can show "deleted, but
// balance may need review".
type DeletionResult struct {
	Deleted  bool              `json:"deleted"`
	Warnings []DeletionWarning `json:"warnings,omitempty"`
}

// Warn appends a warning for the given step.
func (r *DeletionResult) Warn(step DeletionStep, msg string) {
	r.Warnings = append(r.Warnings, DeletionWarning{Step: step, Message: msg})
}
