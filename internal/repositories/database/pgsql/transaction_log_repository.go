package pgsql

import (
	"context"
	"fmt"

	"github.com/chapelworks/chms_backend/internal/core/domain"
	portsrepo "github.com/chapelworks/chms_backend/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgxTransactionLogRepository struct {
	BaseRepository
}

// NewPgxTransactionLogRepository creates a new repository for audit log rows.
func NewPgxTransactionLogRepository(pool *pgxpool.Pool) portsrepo.TransactionLogRepository {
	return &PgxTransactionLogRepository{BaseRepository{Pool: pool}}
}

var _ portsrepo.TransactionLogRepository = (*PgxTransactionLogRepository)(nil)

// SaveLog appends one audit log row.
func (r *PgxTransactionLogRepository) SaveLog(ctx context.Context, log domain.TransactionLog) error {
	query := `
		INSERT INTO transaction_logs (log_id, entry_id, entry_table, action, amount, account_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7);
	`
	_, err := r.Pool.Exec(ctx, query,
		log.LogID,
		log.EntryID,
		log.Table,
		log.Action,
		log.Amount,
		nullable(log.AccountID),
		log.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save transaction log for entry %s: %w", log.EntryID, err)
	}
	return nil
}

// DeleteLogsForEntry removes every log row referencing the entry. Zero rows
// affected is not an error; many entries predate logging.
func (r *PgxTransactionLogRepository) DeleteLogsForEntry(ctx context.Context, table domain.EntryTable, entryID string) error {
	query := `DELETE FROM transaction_logs WHERE entry_table = $1 AND entry_id = $2;`
	if _, err := r.Pool.Exec(ctx, query, table, entryID); err != nil {
		return fmt.Errorf("failed to delete transaction logs for entry %s: %w", entryID, err)
	}
	return nil
}
