package store

import (
	"context"
	"errors"
	"time"

	"github.com/aussiebroadwan/guild/internal/guild/domain"
)

var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")
	// ErrConflict means a compare-and-set update matched no row because the
	// record moved on since it was read.
	ErrConflict = errors.New("store: conflicting update")
)

// Store is the root data access interface. Concrete drivers (sqlite, postgres)
// implement this. Sub-repositories obtained from a Tx run inside that
// transaction; the ones obtained from the Store do not.
type Store interface {
	Applications() Applications
	Invitations() Invitations
	Users() Users
	Members() Members
	Referrals() Referrals

	ApplyMigrations() error

	// Tx starts a read/write transaction and returns a Tx-scoped Store.
	// The caller MUST call Commit() or Rollback() on the returned Tx.
	Tx(ctx context.Context) (Tx, error)

	// WithTx runs fn in a transaction, committing when fn returns nil and
	// rolling back otherwise. Inside fn only use the repos from tx.
	WithTx(ctx context.Context, fn func(tx Tx) error) error

	Close() error

	// Ping verifies the database connection is still alive.
	Ping(ctx context.Context) error
}

// Tx is a transactional store. It embeds the same repos but adds Commit/Rollback.
type Tx interface {
	Store
	Commit() error
	Rollback() error
}

type Applications interface {
	CreateApplication(ctx context.Context, a domain.Application) error

	GetApplicationByID(ctx context.Context, id string) (domain.Application, error)

	// ListApplications returns applications ordered by id. An empty status
	// lists every application.
	ListApplications(ctx context.Context, status domain.ApplicationStatus) ([]domain.Application, error)

	// DecideApplication moves a pending application to status. It returns
	// ErrConflict when the application is no longer pending and ErrNotFound
	// when it does not exist.
	DecideApplication(ctx context.Context, id string, status domain.ApplicationStatus, reviewerID string, at time.Time) error
}

type Invitations interface {
	CreateInvitation(ctx context.Context, inv domain.Invitation) error

	GetInvitationByID(ctx context.Context, id string) (domain.Invitation, error)

	// GetInvitationByTokenHash looks an invitation up by token fingerprint,
	// used or not.
	GetInvitationByTokenHash(ctx context.Context, hash string) (domain.Invitation, error)

	GetInvitationByApplicationID(ctx context.Context, applicationID string) (domain.Invitation, error)

	// MarkInvitationUsed flips used false -> true. ErrConflict means somebody
	// else got there first.
	MarkInvitationUsed(ctx context.Context, id string, at time.Time) error

	// ListUnusedInvitations returns every invitation not yet redeemed,
	// expired or not.
	ListUnusedInvitations(ctx context.Context) ([]domain.Invitation, error)
}

type Users interface {
	// CreateUser returns ErrAlreadyExists when the email is taken.
	CreateUser(ctx context.Context, u domain.User) error

	GetUserByID(ctx context.Context, id string) (domain.User, error)

	GetUserByEmail(ctx context.Context, email string) (domain.User, error)
}

type Members interface {
	CreateMember(ctx context.Context, m domain.Member) error

	GetMemberByID(ctx context.Context, id string) (domain.Member, error)

	GetMemberByUserID(ctx context.Context, userID string) (domain.Member, error)

	// GetMemberProfile joins the member with its user record.
	GetMemberProfile(ctx context.Context, id string) (domain.MemberProfile, error)

	// ListMemberProfiles returns profiles ordered by member id.
	ListMemberProfiles(ctx context.Context, activeOnly bool) ([]domain.MemberProfile, error)

	SetMemberActive(ctx context.Context, id string, active bool, at time.Time) error
}

type Referrals interface {
	CreateReferral(ctx context.Context, r domain.Referral) error

	GetReferralByID(ctx context.Context, id string) (domain.Referral, error)

	// ListReferralsFrom returns referrals the member sent, ordered by id.
	ListReferralsFrom(ctx context.Context, memberID string) ([]domain.Referral, error)

	// ListReferralsTo returns referrals the member received, ordered by id.
	ListReferralsTo(ctx context.Context, memberID string) ([]domain.Referral, error)

	// UpdateReferralStatus moves the referral from -> to only if it is still
	// in from. ErrConflict otherwise.
	UpdateReferralStatus(ctx context.Context, id string, from, to domain.ReferralStatus, at time.Time) error
}
