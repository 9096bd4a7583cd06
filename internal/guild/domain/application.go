package domain

import "time"

type ApplicationStatus string

const (
	ApplicationPending  ApplicationStatus = "pending"
	ApplicationApproved ApplicationStatus = "approved"
	ApplicationRejected ApplicationStatus = "rejected"
)

// Valid reports whether s is one of the known statuses.
func (s ApplicationStatus) Valid() bool {
	switch s {
	case ApplicationPending, ApplicationApproved, ApplicationRejected:
		return true
	}
	return false
}

// Application is a prospective member's request to join. It leaves pending
// exactly once and never comes back.
type Application struct {
	ID         string
	Name       string
	Email      string // lower-cased at submission
	Company    string
	Reason     string
	Status     ApplicationStatus
	ReviewerID string     // empty while pending
	DecidedAt  *time.Time // nil while pending
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// Decided reports whether a reviewer has already ruled on the application.
func (a Application) Decided() bool { return a.Status != ApplicationPending }

// Decision is a reviewer's ruling on a pending application.
type Decision string

const (
	DecisionApprove Decision = "approve"
	DecisionReject  Decision = "reject"
)

func (d Decision) Valid() bool {
	return d == DecisionApprove || d == DecisionReject
}

// Outcome is the status an application moves to under d.
func (d Decision) Outcome() ApplicationStatus {
	if d == DecisionApprove {
		return ApplicationApproved
	}
	return ApplicationRejected
}
