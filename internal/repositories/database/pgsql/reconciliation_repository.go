package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/chapelworks/chms_backend/internal/apperrors"
	"github.com/chapelworks/chms_backend/internal/core/domain"
	portsrepo "github.com/chapelworks/chms_backend/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

type PgxReconciliationRepository struct {
	BaseRepository
}

// NewPgxReconciliationRepository creates a new repository for bank
// reconciliations and entry link rows.
func NewPgxReconciliationRepository(pool *pgxpool.Pool) portsrepo.ReconciliationRepository {
	return &PgxReconciliationRepository{BaseRepository{Pool: pool}}
}

var _ portsrepo.ReconciliationRepository = (*PgxReconciliationRepository)(nil)

const reconciliationColumns = `reconciliation_id, account_id, statement_date, bank_balance, book_balance, has_manual_adjustments, reconciled, created_at, created_by, last_updated_at, last_updated_by`

func scanReconciliation(row pgx.Row) (*domain.BankReconciliation, error) {
	var rec domain.BankReconciliation
	err := row.Scan(
		&rec.ReconciliationID,
		&rec.AccountID,
		&rec.StatementDate,
		&rec.BankBalance,
		&rec.BookBalance,
		&rec.HasManualAdjustments,
		&rec.Reconciled,
		&rec.CreatedAt,
		&rec.CreatedBy,
		&rec.LastUpdatedAt,
		&rec.LastUpdatedBy,
	)
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

// SaveReconciliation inserts a new reconciliation.
func (r *PgxReconciliationRepository) SaveReconciliation(ctx context.Context, rec domain.BankReconciliation) error {
	query := `
		INSERT INTO bank_reconciliations (` + reconciliationColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11);
	`
	_, err := r.Pool.Exec(ctx, query,
		rec.ReconciliationID,
		rec.AccountID,
		rec.StatementDate,
		rec.BankBalance,
		rec.BookBalance,
		rec.HasManualAdjustments,
		rec.Reconciled,
		rec.CreatedAt,
		rec.CreatedBy,
		rec.LastUpdatedAt,
		rec.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to save reconciliation %s: %w", rec.ReconciliationID, err)
	}
	return nil
}

// FindReconciliationByID retrieves a reconciliation by its ID.
func (r *PgxReconciliationRepository) FindReconciliationByID(ctx context.Context, reconciliationID string) (*domain.BankReconciliation, error) {
	query := `SELECT ` + reconciliationColumns + ` FROM bank_reconciliations WHERE reconciliation_id = $1;`
	rec, err := scanReconciliation(r.Pool.QueryRow(ctx, query, reconciliationID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find reconciliation %s: %w", reconciliationID, err)
	}
	return rec, nil
}

// FindLatestByAccount retrieves the most recently created reconciliation for
// the account.
func (r *PgxReconciliationRepository) FindLatestByAccount(ctx context.Context, accountID string) (*domain.BankReconciliation, error) {
	query := `
		SELECT ` + reconciliationColumns + ` FROM bank_reconciliations
		WHERE account_id = $1 ORDER BY created_at DESC LIMIT 1;
	`
	rec, err := scanReconciliation(r.Pool.QueryRow(ctx, query, accountID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find latest reconciliation for account %s: %w", accountID, err)
	}
	return rec, nil
}

// FindLatest retrieves the most recently created reconciliation overall.
func (r *PgxReconciliationRepository) FindLatest(ctx context.Context) (*domain.BankReconciliation, error) {
	query := `SELECT ` + reconciliationColumns + ` FROM bank_reconciliations ORDER BY created_at DESC LIMIT 1;`
	rec, err := scanReconciliation(r.Pool.QueryRow(ctx, query))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find latest reconciliation: %w", err)
	}
	return rec, nil
}

// ListByAccount retrieves all reconciliations for an account, newest first.
func (r *PgxReconciliationRepository) ListByAccount(ctx context.Context, accountID string) ([]domain.BankReconciliation, error) {
	query := `
		SELECT ` + reconciliationColumns + ` FROM bank_reconciliations
		WHERE account_id = $1 ORDER BY created_at DESC;
	`
	rows, err := r.Pool.Query(ctx, query, accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to list reconciliations for account %s: %w", accountID, err)
	}
	defer rows.Close()

	var recs []domain.BankReconciliation
	for rows.Next() {
		rec, err := scanReconciliation(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan reconciliation row: %w", err)
		}
		recs = append(recs, *rec)
	}
	return recs, rows.Err()
}

// UpdateBookBalance persists the book balance and manual adjustment flag
// together; they always change as a pair.
func (r *PgxReconciliationRepository) UpdateBookBalance(ctx context.Context, reconciliationID string, bookBalance decimal.Decimal, hasManualAdjustments bool, now time.Time) error {
	query := `
		UPDATE bank_reconciliations
		SET book_balance = $2, has_manual_adjustments = $3, last_updated_at = $4
		WHERE reconciliation_id = $1;
	`
	tag, err := r.Pool.Exec(ctx, query, reconciliationID, bookBalance, hasManualAdjustments, now)
	if err != nil {
		return fmt.Errorf("failed to update book balance for reconciliation %s: %w", reconciliationID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// MarkReconciled finalizes a reconciliation.
func (r *PgxReconciliationRepository) MarkReconciled(ctx context.Context, reconciliationID string, now time.Time) error {
	query := `
		UPDATE bank_reconciliations
		SET reconciled = TRUE, last_updated_at = $2
		WHERE reconciliation_id = $1;
	`
	tag, err := r.Pool.Exec(ctx, query, reconciliationID, now)
	if err != nil {
		return fmt.Errorf("failed to mark reconciliation %s reconciled: %w", reconciliationID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// SaveLink records the authoritative entry-to-reconciliation linkage.
func (r *PgxReconciliationRepository) SaveLink(ctx context.Context, link domain.TransactionReconciliationLink) error {
	query := `
		INSERT INTO transaction_reconciliation_links (link_id, entry_id, entry_table, reconciliation_id, created_at)
		VALUES ($1, $2, $3, $4, $5);
	`
	_, err := r.Pool.Exec(ctx, query,
		link.LinkID,
		link.EntryID,
		link.Table,
		link.ReconciliationID,
		link.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save reconciliation link for entry %s: %w", link.EntryID, err)
	}
	return nil
}

// FindLinkByEntryID retrieves the link row for an entry, if one was recorded.
func (r *PgxReconciliationRepository) FindLinkByEntryID(ctx context.Context, entryID string) (*domain.TransactionReconciliationLink, error) {
	query := `
		SELECT link_id, entry_id, entry_table, reconciliation_id, created_at
		FROM transaction_reconciliation_links WHERE entry_id = $1 LIMIT 1;
	`
	var link domain.TransactionReconciliationLink
	err := r.Pool.QueryRow(ctx, query, entryID).Scan(
		&link.LinkID, &link.EntryID, &link.Table, &link.ReconciliationID, &link.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find reconciliation link for entry %s: %w", entryID, err)
	}
	return &link, nil
}

// DeleteLinksForEntry removes link rows for an entry. Zero rows affected is
// fine; most entries were never linked.
func (r *PgxReconciliationRepository) DeleteLinksForEntry(ctx context.Context, entryID string) error {
	query := `DELETE FROM transaction_reconciliation_links WHERE entry_id = $1;`
	if _, err := r.Pool.Exec(ctx, query, entryID); err != nil {
		return fmt.Errorf("failed to delete reconciliation links for entry %s: %w", entryID, err)
	}
	return nil
}

// FindLegacyItemReconciliationID consults the reconciliation_items table kept
// from before the link table existed. Databases migrated from scratch may not
// have it at all; undefined_table is treated the same as no row.
func (r *PgxReconciliationRepository) FindLegacyItemReconciliationID(ctx context.Context, entryID string) (string, error) {
	query := `SELECT reconciliation_id FROM reconciliation_items WHERE transaction_id = $1 LIMIT 1;`
	var reconciliationID string
	err := r.Pool.QueryRow(ctx, query, entryID).Scan(&reconciliationID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", apperrors.ErrNotFound
		}
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "42P01" { // undefined_table
			return "", apperrors.ErrNotFound
		}
		return "", fmt.Errorf("failed to consult reconciliation_items for entry %s: %w", entryID, err)
	}
	return reconciliationID, nil
}
