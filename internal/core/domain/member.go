package domain

import "time"

// Member is a church member record. Kept deliberately thin: profile forms,
// attendance views and messaging live in the client.
type Member struct {
	MemberID  string    `json:"memberID"` // Primary key (UUID)
	FirstName string    `json:"firstName"`
	LastName  string    `json:"lastName"`
	Phone     string    `json:"phone"`
	Email     string    `json:"email"`
	JoinedAt  time.Time `json:"joinedAt"`
	IsActive  bool      `json:"isActive"`
	AuditFields
}
