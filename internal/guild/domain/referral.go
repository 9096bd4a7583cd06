package domain

import "time"

type ReferralStatus string

const (
	ReferralSent        ReferralStatus = "sent"
	ReferralNegotiating ReferralStatus = "negotiating"
	ReferralClosed      ReferralStatus = "closed"
	ReferralRejected    ReferralStatus = "rejected"
)

// referralTransitions is the complete set of legal status moves. Anything
// not listed is illegal, including sent -> closed.
var referralTransitions = map[ReferralStatus][]ReferralStatus{
	ReferralSent:        {ReferralNegotiating, ReferralRejected},
	ReferralNegotiating: {ReferralClosed, ReferralRejected},
}

func (s ReferralStatus) Valid() bool {
	switch s {
	case ReferralSent, ReferralNegotiating, ReferralClosed, ReferralRejected:
		return true
	}
	return false
}

// Terminal statuses accept no further transitions.
func (s ReferralStatus) Terminal() bool {
	return s == ReferralClosed || s == ReferralRejected
}

// CanTransition reports whether from -> to is in the transition table.
func CanTransition(from, to ReferralStatus) bool {
	for _, next := range referralTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// Referral is a business lead passed from one member to another.
type Referral struct {
	ID             string
	FromMemberID   string
	ToMemberID     string
	ContactName    string
	ContactCompany string
	Description    string
	Status         ReferralStatus
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// Involves reports whether memberID is the sender or the recipient.
func (r Referral) Involves(memberID string) bool {
	return r.FromMemberID == memberID || r.ToMemberID == memberID
}
