package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/chapelworks/chms_backend/internal/apperrors"
	"github.com/chapelworks/chms_backend/internal/core/domain"
	portsrepo "github.com/chapelworks/chms_backend/internal/core/ports/repositories"
	portssvc "github.com/chapelworks/chms_backend/internal/core/ports/services"
	"github.com/chapelworks/chms_backend/internal/dto"
	"github.com/chapelworks/chms_backend/internal/middleware"
	"github.com/google/uuid"
)

// MemberService manages the member registry.
type MemberService struct {
	memberRepo portsrepo.MemberRepository
}

// NewMemberService creates a new MemberService.
func NewMemberService(memberRepo portsrepo.MemberRepository) *MemberService {
	return &MemberService{memberRepo: memberRepo}
}

var _ portssvc.MemberSvcFacade = (*MemberService)(nil)

// CreateMember registers a new member.
func (s *MemberService) CreateMember(ctx context.Context, req dto.CreateMemberRequest, userID string) (*domain.Member, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	now := time.Now().UTC()
	joinedAt := req.JoinedAt
	if joinedAt.IsZero() {
		joinedAt = now
	}

	member := domain.Member{
		MemberID:  uuid.NewString(),
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Phone:     req.Phone,
		Email:     req.Email,
		JoinedAt:  joinedAt,
		IsActive:  true,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		},
	}

	if err := s.memberRepo.SaveMember(ctx, member); err != nil {
		logger.Error("Failed to save member", slog.String("error", err.Error()))
		return nil, err
	}

	logger.Info("Member created", slog.String("member_id", member.MemberID))
	return &member, nil
}

// GetMemberByID retrieves a single member.
func (s *MemberService) GetMemberByID(ctx context.Context, memberID string) (*domain.Member, error) {
	return s.memberRepo.FindMemberByID(ctx, memberID)
}

// ListMembers retrieves a page of members.
func (s *MemberService) ListMembers(ctx context.Context, limit int, offset int) ([]domain.Member, error) {
	members, err := s.memberRepo.ListMembers(ctx, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list members: %w", err)
	}
	if members == nil {
		return []domain.Member{}, nil
	}
	return members, nil
}

// UpdateMember applies the provided field changes to a member.
func (s *MemberService) UpdateMember(ctx context.Context, memberID string, req dto.UpdateMemberRequest, userID string) (*domain.Member, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	member, err := s.memberRepo.FindMemberByID(ctx, memberID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			logger.Error("Failed to fetch member for update", slog.String("error", err.Error()), slog.String("member_id", memberID))
		}
		return nil, err
	}

	if req.FirstName != nil {
		member.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		member.LastName = *req.LastName
	}
	if req.Phone != nil {
		member.Phone = *req.Phone
	}
	if req.Email != nil {
		member.Email = *req.Email
	}
	member.LastUpdatedAt = time.Now().UTC()
	member.LastUpdatedBy = userID

	if err := s.memberRepo.UpdateMember(ctx, *member); err != nil {
		logger.Error("Failed to update member", slog.String("error", err.Error()), slog.String("member_id", memberID))
		return nil, err
	}

	return member, nil
}

// DeactivateMember marks a member inactive.
func (s *MemberService) DeactivateMember(ctx context.Context, memberID string, userID string) error {
	return s.memberRepo.DeactivateMember(ctx, memberID, userID, time.Now().UTC())
}
