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
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

type PgxLiabilityRepository struct {
	BaseRepository
}

// NewPgxLiabilityRepository creates a new repository for liabilities.
func NewPgxLiabilityRepository(pool *pgxpool.Pool) portsrepo.LiabilityRepository {
	return &PgxLiabilityRepository{BaseRepository{Pool: pool}}
}

var _ portsrepo.LiabilityRepository = (*PgxLiabilityRepository)(nil)

const liabilityColumns = `liability_id, creditor, total_amount, amount_paid, amount_remaining, due_date, status, description, created_at, created_by, last_updated_at, last_updated_by`

func scanLiability(row pgx.Row) (*domain.Liability, error) {
	var l domain.Liability
	err := row.Scan(
		&l.LiabilityID,
		&l.Creditor,
		&l.TotalAmount,
		&l.AmountPaid,
		&l.AmountRemaining,
		&l.DueDate,
		&l.Status,
		&l.Description,
		&l.CreatedAt,
		&l.CreatedBy,
		&l.LastUpdatedAt,
		&l.LastUpdatedBy,
	)
	if err != nil {
		return nil, err
	}
	return &l, nil
}

// SaveLiability inserts a new liability.
func (r *PgxLiabilityRepository) SaveLiability(ctx context.Context, liability domain.Liability) error {
	query := `
		INSERT INTO liabilities (` + liabilityColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12);
	`
	_, err := r.Pool.Exec(ctx, query,
		liability.LiabilityID,
		liability.Creditor,
		liability.TotalAmount,
		liability.AmountPaid,
		liability.AmountRemaining,
		liability.DueDate,
		liability.Status,
		liability.Description,
		liability.CreatedAt,
		liability.CreatedBy,
		liability.LastUpdatedAt,
		liability.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to save liability %s: %w", liability.LiabilityID, err)
	}
	return nil
}

// FindLiabilityByID retrieves a liability by its ID.
func (r *PgxLiabilityRepository) FindLiabilityByID(ctx context.Context, liabilityID string) (*domain.Liability, error) {
	query := `SELECT ` + liabilityColumns + ` FROM liabilities WHERE liability_id = $1;`
	liability, err := scanLiability(r.Pool.QueryRow(ctx, query, liabilityID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find liability %s: %w", liabilityID, err)
	}
	return liability, nil
}

// ListLiabilities retrieves a page of liabilities ordered by due date.
func (r *PgxLiabilityRepository) ListLiabilities(ctx context.Context, limit int, offset int) ([]domain.Liability, error) {
	query := `SELECT ` + liabilityColumns + ` FROM liabilities ORDER BY due_date, liability_id LIMIT $1 OFFSET $2;`
	rows, err := r.Pool.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list liabilities: %w", err)
	}
	defer rows.Close()

	var liabilities []domain.Liability
	for rows.Next() {
		l, err := scanLiability(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan liability row: %w", err)
		}
		liabilities = append(liabilities, *l)
	}
	return liabilities, rows.Err()
}

// UpdatePaymentTotals persists rederived payment figures and status.
func (r *PgxLiabilityRepository) UpdatePaymentTotals(ctx context.Context, liabilityID string, paid, remaining decimal.Decimal, status domain.LiabilityStatus, updatedBy string, now time.Time) error {
	query := `
		UPDATE liabilities
		SET amount_paid = $2, amount_remaining = $3, status = $4, last_updated_at = $5, last_updated_by = $6
		WHERE liability_id = $1;
	`
	tag, err := r.Pool.Exec(ctx, query, liabilityID, paid, remaining, status, now, updatedBy)
	if err != nil {
		return fmt.Errorf("failed to update payment totals for liability %s: %w", liabilityID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
