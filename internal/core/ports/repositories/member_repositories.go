package repositories

import (
	"context"
	"time"

	"github.com/chapelworks/chms_backend/internal/core/domain"
)

// MemberRepository persists member records.
type MemberRepository interface {
	SaveMember(ctx context.Context, member domain.Member) error
	FindMemberByID(ctx context.Context, memberID string) (*domain.Member, error)
	ListMembers(ctx context.Context, limit int, offset int) ([]domain.Member, error)
	UpdateMember(ctx context.Context, member domain.Member) error
	DeactivateMember(ctx context.Context, memberID string, userID string, now time.Time) error
}
