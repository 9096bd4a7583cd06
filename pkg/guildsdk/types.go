package guildsdk

import "time"

// ErrorResponse is the body of every error reply.
type ErrorResponse struct {
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description,omitempty"`
}

// ============================================================================
// Health
// ============================================================================

type HealthResponse struct {
	Status  string        `json:"status"`
	Uptime  string        `json:"uptime"`
	Version string        `json:"version"`
	Checks  *HealthChecks `json:"checks,omitempty"`
}

// HealthChecks reports the readiness of each dependency.
type HealthChecks struct {
	Database string `json:"database"`
	Keys     string `json:"keys"`
}

// ============================================================================
// Applications
// ============================================================================

const (
	StatusPending  = "pending"
	StatusApproved = "approved"
	StatusRejected = "rejected"
	// StatusAll lists every application regardless of status.
	StatusAll = "all"

	DecisionApprove = "approve"
	DecisionReject  = "reject"
)

// SubmitApplicationRequest is a prospective member's application.
// Company and Reason are optional.
type SubmitApplicationRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Company string `json:"company,omitempty"`
	Reason  string `json:"reason,omitempty"`
}

type Application struct {
	ID         string     `json:"id"`
	Name       string     `json:"name"`
	Email      string     `json:"email"`
	Company    string     `json:"company,omitempty"`
	Reason     string     `json:"reason,omitempty"`
	Status     string     `json:"status"`
	ReviewerID string     `json:"reviewer_id,omitempty"`
	DecidedAt  *time.Time `json:"decided_at,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

type ApplicationList struct {
	Applications []Application `json:"applications"`
}

// DecisionRequest carries an admin's review of a pending application.
type DecisionRequest struct {
	Decision string `json:"decision"`
}

// DecisionResponse is returned by the decision endpoint. Invitation and
// Token are only present when the application was approved.
type DecisionResponse struct {
	Application Application `json:"application"`
	Invitation  *Invitation `json:"invitation,omitempty"`
	Token       string      `json:"token,omitempty"`
}

// ============================================================================
// Invitations
// ============================================================================

type Invitation struct {
	ID        string    `json:"id"`
	ExpiresAt time.Time `json:"expires_at"`
}

type LookupInvitationRequest struct {
	Token string `json:"token"`
}

// LookupInvitationResponse says whether a token can be redeemed. Email is
// only set when Valid is true.
type LookupInvitationResponse struct {
	Valid bool   `json:"valid"`
	Email string `json:"email,omitempty"`
}

type RedeemInvitationRequest struct {
	Token    string `json:"token"`
	FullName string `json:"full_name"`
	Phone    string `json:"phone"`
	Password string `json:"password"`
}

// ============================================================================
// Members
// ============================================================================

type Member struct {
	ID       string `json:"id"`
	UserID   string `json:"user_id"`
	Email    string `json:"email"`
	FullName string `json:"full_name"`
	Phone    string `json:"phone"`
	Active   bool   `json:"active"`
}

type MemberList struct {
	Members []Member `json:"members"`
}

type SetActiveRequest struct {
	Active bool `json:"active"`
}

// ============================================================================
// Referrals
// ============================================================================

const (
	ReferralSent        = "sent"
	ReferralNegotiating = "negotiating"
	ReferralClosed      = "closed"
	ReferralRejected    = "rejected"
)

type CreateReferralRequest struct {
	ToMemberID     string `json:"to_member_id"`
	ContactName    string `json:"contact_name"`
	ContactCompany string `json:"contact_company,omitempty"`
	Description    string `json:"description,omitempty"`
}

type Referral struct {
	ID             string    `json:"id"`
	FromMemberID   string    `json:"from_member_id"`
	ToMemberID     string    `json:"to_member_id"`
	ContactName    string    `json:"contact_name"`
	ContactCompany string    `json:"contact_company,omitempty"`
	Description    string    `json:"description,omitempty"`
	Status         string    `json:"status"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// ReferralList splits the caller's referrals by direction.
type ReferralList struct {
	Made     []Referral `json:"made"`
	Received []Referral `json:"received"`
}

type UpdateReferralStatusRequest struct {
	Status string `json:"status"`
}
