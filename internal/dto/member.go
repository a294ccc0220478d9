package dto

import (
	"time"

	"github.com/chapelworks/chms_backend/internal/core/domain"
)

// CreateMemberRequest defines the data needed to register a member.
type CreateMemberRequest struct {
	FirstName string    `json:"firstName" binding:"required"`
	LastName  string    `json:"lastName" binding:"required"`
	Phone     string    `json:"phone"`
	Email     string    `json:"email" binding:"omitempty,email"`
	JoinedAt  time.Time `json:"joinedAt"`
}

// UpdateMemberRequest defines the fields that may be changed on a member.
// Pointers distinguish "not provided" from zero values.
type UpdateMemberRequest struct {
	FirstName *string `json:"firstName"`
	LastName  *string `json:"lastName"`
	Phone     *string `json:"phone"`
	Email     *string `json:"email" binding:"omitempty,email"`
}

// MemberResponse defines the data returned for a member.
type MemberResponse struct {
	MemberID  string    `json:"memberID"`
	FirstName string    `json:"firstName"`
	LastName  string    `json:"lastName"`
	Phone     string    `json:"phone"`
	Email     string    `json:"email"`
	JoinedAt  time.Time `json:"joinedAt"`
	IsActive  bool      `json:"isActive"`
}

// ToMemberResponse converts a domain.Member to its response DTO.
func ToMemberResponse(m *domain.Member) MemberResponse {
	return MemberResponse{
		MemberID:  m.MemberID,
		FirstName: m.FirstName,
		LastName:  m.LastName,
		Phone:     m.Phone,
		Email:     m.Email,
		JoinedAt:  m.JoinedAt,
		IsActive:  m.IsActive,
	}
}
