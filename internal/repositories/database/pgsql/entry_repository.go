package pgsql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/chapelworks/chms_backend/internal/apperrors"
	"github.com/chapelworks/chms_backend/internal/core/domain"
	portsrepo "github.com/chapelworks/chms_backend/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgxEntryRepository struct {
	BaseRepository
}

// NewPgxEntryRepository creates a new repository for income and expenditure
// rows. Both ledger tables share the same column layout; the table name is
// always one of the domain.EntryTable constants, never caller input.
func NewPgxEntryRepository(pool *pgxpool.Pool) portsrepo.EntryRepository {
	return &PgxEntryRepository{BaseRepository{Pool: pool}}
}

var _ portsrepo.EntryRepository = (*PgxEntryRepository)(nil)

const entryColumns = `entry_id, entry_date, amount, category, account_id, budget_item_id, liability_id, reconciliation_id, is_adjustment, payment_method, description, created_at, created_by, last_updated_at, last_updated_by`

func nullable(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

func scanEntry(row pgx.Row, table domain.EntryTable) (*domain.FinancialEntry, error) {
	var e domain.FinancialEntry
	var accountID, budgetItemID, liabilityID, reconciliationID sql.NullString
	err := row.Scan(
		&e.EntryID,
		&e.EntryDate,
		&e.Amount,
		&e.Category,
		&accountID,
		&budgetItemID,
		&liabilityID,
		&reconciliationID,
		&e.IsAdjustment,
		&e.PaymentMethod,
		&e.Description,
		&e.CreatedAt,
		&e.CreatedBy,
		&e.LastUpdatedAt,
		&e.LastUpdatedBy,
	)
	if err != nil {
		return nil, err
	}
	e.Table = table
	e.AccountID = accountID.String
	e.BudgetItemID = budgetItemID.String
	e.LiabilityID = liabilityID.String
	e.ReconciliationID = reconciliationID.String
	return &e, nil
}

func requireTable(table domain.EntryTable) error {
	if !table.Valid() {
		return fmt.Errorf("%w: unknown entry table %q", apperrors.ErrValidation, table)
	}
	return nil
}

// SaveEntry inserts a new entry into its ledger table.
func (r *PgxEntryRepository) SaveEntry(ctx context.Context, entry domain.FinancialEntry) error {
	if err := requireTable(entry.Table); err != nil {
		return err
	}
	query := fmt.Sprintf(`
		INSERT INTO %s (%s)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15);
	`, entry.Table, entryColumns)

	_, err := r.Pool.Exec(ctx, query,
		entry.EntryID,
		entry.EntryDate,
		entry.Amount,
		entry.Category,
		nullable(entry.AccountID),
		nullable(entry.BudgetItemID),
		nullable(entry.LiabilityID),
		nullable(entry.ReconciliationID),
		entry.IsAdjustment,
		entry.PaymentMethod,
		entry.Description,
		entry.CreatedAt,
		entry.CreatedBy,
		entry.LastUpdatedAt,
		entry.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to save entry %s to %s: %w", entry.EntryID, entry.Table, err)
	}
	return nil
}

// FindEntryByID retrieves a single entry from the given ledger table.
func (r *PgxEntryRepository) FindEntryByID(ctx context.Context, table domain.EntryTable, entryID string) (*domain.FinancialEntry, error) {
	if err := requireTable(table); err != nil {
		return nil, err
	}
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE entry_id = $1;`, entryColumns, table)
	entry, err := scanEntry(r.Pool.QueryRow(ctx, query, entryID), table)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find entry %s in %s: %w", entryID, table, err)
	}
	return entry, nil
}

// DeleteEntry removes an entry row.
func (r *PgxEntryRepository) DeleteEntry(ctx context.Context, table domain.EntryTable, entryID string) error {
	if err := requireTable(table); err != nil {
		return err
	}
	query := fmt.Sprintf(`DELETE FROM %s WHERE entry_id = $1;`, table)
	tag, err := r.Pool.Exec(ctx, query, entryID)
	if err != nil {
		return fmt.Errorf("failed to delete entry %s from %s: %w", entryID, table, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// FindEntriesByAccount returns every entry, across both ledger tables,
// referencing the account.
func (r *PgxEntryRepository) FindEntriesByAccount(ctx context.Context, accountID string) ([]domain.FinancialEntry, error) {
	var entries []domain.FinancialEntry
	for _, table := range []domain.EntryTable{domain.TableIncome, domain.TableExpenditure} {
		query := fmt.Sprintf(`SELECT %s FROM %s WHERE account_id = $1 ORDER BY entry_date, entry_id;`, entryColumns, table)
		batch, err := r.queryEntries(ctx, query, table, accountID)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch %s for account %s: %w", table, accountID, err)
		}
		entries = append(entries, batch...)
	}
	return entries, nil
}

// FindEntriesByBudgetItem returns every entry, across both ledger tables,
// linked to the budget item.
func (r *PgxEntryRepository) FindEntriesByBudgetItem(ctx context.Context, budgetItemID string) ([]domain.FinancialEntry, error) {
	var entries []domain.FinancialEntry
	for _, table := range []domain.EntryTable{domain.TableIncome, domain.TableExpenditure} {
		query := fmt.Sprintf(`SELECT %s FROM %s WHERE budget_item_id = $1 ORDER BY entry_date, entry_id;`, entryColumns, table)
		batch, err := r.queryEntries(ctx, query, table, budgetItemID)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch %s for budget item %s: %w", table, budgetItemID, err)
		}
		entries = append(entries, batch...)
	}
	return entries, nil
}

// FindAdjustmentsByReconciliation returns entries in one ledger table still
// recognizable as adjustments for the reconciliation, excluding the entry
// being deleted. The predicate mirrors the broad classifier: explicit link,
// adjustment flag, payment method, or description text.
func (r *PgxEntryRepository) FindAdjustmentsByReconciliation(ctx context.Context, table domain.EntryTable, reconciliationID string, excludeEntryID string) ([]domain.FinancialEntry, error) {
	if err := requireTable(table); err != nil {
		return nil, err
	}
	query := fmt.Sprintf(`
		SELECT %s FROM %s
		WHERE (reconciliation_id = $1 OR description ILIKE '%%' || $1 || '%%')
		  AND (is_adjustment = TRUE OR payment_method = $2 OR description ILIKE '%%reconcil%%')
		  AND entry_id <> $3;
	`, entryColumns, table)
	entries, err := r.queryEntries(ctx, query, table, reconciliationID, domain.PaymentMethodReconciliation, excludeEntryID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch adjustments in %s for reconciliation %s: %w", table, reconciliationID, err)
	}
	return entries, nil
}

func (r *PgxEntryRepository) queryEntries(ctx context.Context, query string, table domain.EntryTable, args ...any) ([]domain.FinancialEntry, error) {
	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []domain.FinancialEntry
	for rows.Next() {
		entry, err := scanEntry(rows, table)
		if err != nil {
			return nil, err
		}
		entries = append(entries, *entry)
	}
	return entries, rows.Err()
}
