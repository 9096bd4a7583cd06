package domain

import "time"

type Role string

const (
	RoleMember Role = "member"
	RoleAdmin  Role = "admin"
)

type User struct {
	ID           string
	Email        string
	PasswordHash string // argon2id PHC string
	Role         Role
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Member is the guild profile created by redeeming an invitation.
type Member struct {
	ID           string
	UserID       string
	InvitationID string
	FullName     string
	Phone        string
	Active       bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// MemberProfile is what a member sees about themselves or a peer.
type MemberProfile struct {
	ID       string
	UserID   string
	Email    string
	FullName string
	Phone    string
	Active   bool
}
