package domain

import "time"

// Invitation is the single-use credential issued when an application is
// approved. Only the token fingerprint is kept.
type Invitation struct {
	ID            string
	ApplicationID string
	TokenHash     string
	Used          bool
	UsedAt        *time.Time
	ExpiresAt     time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Expired is true strictly after ExpiresAt; a token presented at the exact
// expiry instant is still accepted.
func (i Invitation) Expired(now time.Time) bool {
	return now.After(i.ExpiresAt)
}

// Redeemable reports whether the invitation can still become a membership.
func (i Invitation) Redeemable(now time.Time) bool {
	return !i.Used && !i.Expired(now)
}
