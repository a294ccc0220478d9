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
)

type PgxMemberRepository struct {
	BaseRepository
}

// NewPgxMemberRepository creates a new repository for member records.
func NewPgxMemberRepository(pool *pgxpool.Pool) portsrepo.MemberRepository {
	return &PgxMemberRepository{BaseRepository{Pool: pool}}
}

var _ portsrepo.MemberRepository = (*PgxMemberRepository)(nil)

const memberColumns = `member_id, first_name, last_name, phone, email, joined_at, is_active, created_at, created_by, last_updated_at, last_updated_by`

func scanMember(row pgx.Row) (*domain.Member, error) {
	var m domain.Member
	err := row.Scan(
		&m.MemberID,
		&m.FirstName,
		&m.LastName,
		&m.Phone,
		&m.Email,
		&m.JoinedAt,
		&m.IsActive,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// SaveMember inserts a new member.
func (r *PgxMemberRepository) SaveMember(ctx context.Context, member domain.Member) error {
	query := `
		INSERT INTO members (` + memberColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11);
	`
	_, err := r.Pool.Exec(ctx, query,
		member.MemberID,
		member.FirstName,
		member.LastName,
		member.Phone,
		member.Email,
		member.JoinedAt,
		member.IsActive,
		member.CreatedAt,
		member.CreatedBy,
		member.LastUpdatedAt,
		member.LastUpdatedBy,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return fmt.Errorf("%w: member with ID %s already exists", apperrors.ErrDuplicate, member.MemberID)
		}
		return fmt.Errorf("failed to save member %s: %w", member.MemberID, err)
	}
	return nil
}

// FindMemberByID retrieves a member by ID.
func (r *PgxMemberRepository) FindMemberByID(ctx context.Context, memberID string) (*domain.Member, error) {
	query := `SELECT ` + memberColumns + ` FROM members WHERE member_id = $1;`
	member, err := scanMember(r.Pool.QueryRow(ctx, query, memberID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find member %s: %w", memberID, err)
	}
	return member, nil
}

// ListMembers retrieves a page of members ordered by name.
func (r *PgxMemberRepository) ListMembers(ctx context.Context, limit int, offset int) ([]domain.Member, error) {
	query := `SELECT ` + memberColumns + ` FROM members ORDER BY last_name, first_name, member_id LIMIT $1 OFFSET $2;`
	rows, err := r.Pool.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list members: %w", err)
	}
	defer rows.Close()

	var members []domain.Member
	for rows.Next() {
		m, err := scanMember(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan member row: %w", err)
		}
		members = append(members, *m)
	}
	return members, rows.Err()
}

// UpdateMember persists edits to a member record.
func (r *PgxMemberRepository) UpdateMember(ctx context.Context, member domain.Member) error {
	query := `
		UPDATE members
		SET first_name = $2, last_name = $3, phone = $4, email = $5, is_active = $6, last_updated_at = $7, last_updated_by = $8
		WHERE member_id = $1;
	`
	tag, err := r.Pool.Exec(ctx, query,
		member.MemberID,
		member.FirstName,
		member.LastName,
		member.Phone,
		member.Email,
		member.IsActive,
		member.LastUpdatedAt,
		member.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to update member %s: %w", member.MemberID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// DeactivateMember marks a member inactive.
func (r *PgxMemberRepository) DeactivateMember(ctx context.Context, memberID string, userID string, now time.Time) error {
	query := `
		UPDATE members
		SET is_active = FALSE, last_updated_at = $2, last_updated_by = $3
		WHERE member_id = $1 AND is_active = TRUE;
	`
	tag, err := r.Pool.Exec(ctx, query, memberID, now, userID)
	if err != nil {
		return fmt.Errorf("failed to deactivate member %s: %w", memberID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
