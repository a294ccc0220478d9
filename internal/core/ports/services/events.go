package services

import "context"

// FinancialEvent is an audit record of one ledger mutation, published
// best-effort to an external stream when one is configured.
type FinancialEvent struct {
	EventID   string `json:"event_id"`
	EntryID   string `json:"entry_id"`
	Table     string `json:"table"`
	Action    string `json:"action"` // "created" or "deleted"
	Amount    string `json:"amount"`
	AccountID string `json:"account_id,omitempty"`
	Timestamp string `json:"timestamp"`
}

// EventPublisher emits financial audit events. Publish failures are the
// caller's to downgrade to warnings; they never fail the mutation itself.
type EventPublisher interface {
	PublishFinancialEvent(ctx context.Context, event FinancialEvent) error
	Close() error
}
