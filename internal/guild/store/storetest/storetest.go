// Package storetest holds behaviour every store driver must share.
package storetest

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/aussiebroadwan/guild/internal/guild/domain"
	"github.com/aussiebroadwan/guild/internal/guild/store"
	"github.com/aussiebroadwan/guild/pkg/idx"
	"github.com/stretchr/testify/require"
)

// Opener returns a freshly migrated, empty store.
type Opener func(t *testing.T) store.Store

var base = time.Date(2026, 5, 4, 9, 30, 0, 0, time.UTC)

// Run exercises a driver against the store contract.
func Run(t *testing.T, open Opener) {
	t.Run("Applications", func(t *testing.T) { testApplications(t, open(t)) })
	t.Run("Invitations", func(t *testing.T) { testInvitations(t, open(t)) })
	t.Run("UsersAndMembers", func(t *testing.T) { testUsersAndMembers(t, open(t)) })
	t.Run("Referrals", func(t *testing.T) { testReferrals(t, open(t)) })
	t.Run("WithTxRollsBack", func(t *testing.T) { testRollback(t, open(t)) })
}

// SeedApplication inserts a pending application.
func SeedApplication(t *testing.T, s store.Store, email string) domain.Application {
	t.Helper()
	a := domain.Application{
		ID:        idx.New().String(),
		Name:      "Applicant " + email,
		Email:     email,
		Company:   "Acme",
		Reason:    "growth",
		Status:    domain.ApplicationPending,
		CreatedAt: base,
		UpdatedAt: base,
	}
	require.NoError(t, s.Applications().CreateApplication(context.Background(), a))
	return a
}

// SeedMember creates an approved application, a used invitation, a user and
// an active member.
func SeedMember(t *testing.T, s store.Store, email string) domain.Member {
	t.Helper()
	ctx := context.Background()

	a := SeedApplication(t, s, email)
	require.NoError(t, s.Applications().DecideApplication(ctx, a.ID, domain.ApplicationApproved, "admin", base))

	inv := domain.Invitation{
		ID:            idx.New().String(),
		ApplicationID: a.ID,
		TokenHash:     "hash-" + a.ID,
		ExpiresAt:     base.Add(time.Hour),
		CreatedAt:     base,
		UpdatedAt:     base,
	}
	require.NoError(t, s.Invitations().CreateInvitation(ctx, inv))
	require.NoError(t, s.Invitations().MarkInvitationUsed(ctx, inv.ID, base))

	u := domain.User{
		ID:           idx.New().String(),
		Email:        email,
		PasswordHash: "$argon2id$test",
		Role:         domain.RoleMember,
		CreatedAt:    base,
		UpdatedAt:    base,
	}
	require.NoError(t, s.Users().CreateUser(ctx, u))

	m := domain.Member{
		ID:           idx.New().String(),
		UserID:       u.ID,
		InvitationID: inv.ID,
		FullName:     "Member " + email,
		Phone:        "+61 400 000 000",
		Active:       true,
		CreatedAt:    base,
		UpdatedAt:    base,
	}
	require.NoError(t, s.Members().CreateMember(ctx, m))
	return m
}

func testApplications(t *testing.T, s store.Store) {
	ctx := context.Background()
	repo := s.Applications()

	a1 := SeedApplication(t, s, "one@example.com")
	a2 := SeedApplication(t, s, "two@example.com")

	got, err := repo.GetApplicationByID(ctx, a1.ID)
	require.NoError(t, err)
	require.Equal(t, a1, got)
	require.Nil(t, got.DecidedAt)

	_, err = repo.GetApplicationByID(ctx, "missing")
	require.ErrorIs(t, err, store.ErrNotFound)

	decidedAt := base.Add(time.Minute)
	require.NoError(t, repo.DecideApplication(ctx, a1.ID, domain.ApplicationRejected, "admin-1", decidedAt))

	err = repo.DecideApplication(ctx, a1.ID, domain.ApplicationApproved, "admin-2", decidedAt)
	require.ErrorIs(t, err, store.ErrConflict)

	err = repo.DecideApplication(ctx, "missing", domain.ApplicationApproved, "admin-2", decidedAt)
	require.ErrorIs(t, err, store.ErrNotFound)

	got, err = repo.GetApplicationByID(ctx, a1.ID)
	require.NoError(t, err)
	require.Equal(t, domain.ApplicationRejected, got.Status)
	require.Equal(t, "admin-1", got.ReviewerID)
	require.NotNil(t, got.DecidedAt)
	require.True(t, got.DecidedAt.Equal(decidedAt))

	pending, err := repo.ListApplications(ctx, domain.ApplicationPending)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	require.Equal(t, a2.ID, pending[0].ID)

	all, err := repo.ListApplications(ctx, "")
	require.NoError(t, err)
	require.Len(t, all, 2)
	require.Equal(t, a1.ID, all[0].ID)
}

func testInvitations(t *testing.T, s store.Store) {
	ctx := context.Background()
	repo := s.Invitations()

	a := SeedApplication(t, s, "inv@example.com")
	inv := domain.Invitation{
		ID:            idx.New().String(),
		ApplicationID: a.ID,
		TokenHash:     "fingerprint",
		ExpiresAt:     base.Add(7 * 24 * time.Hour),
		CreatedAt:     base,
		UpdatedAt:     base,
	}
	require.NoError(t, repo.CreateInvitation(ctx, inv))

	dup := inv
	dup.ID = idx.New().String()
	dup.TokenHash = "other"
	require.ErrorIs(t, repo.CreateInvitation(ctx, dup), store.ErrAlreadyExists, "one invitation per application")

	got, err := repo.GetInvitationByTokenHash(ctx, "fingerprint")
	require.NoError(t, err)
	require.Equal(t, inv.ID, got.ID)
	require.False(t, got.Used)
	require.True(t, got.ExpiresAt.Equal(inv.ExpiresAt))

	got, err = repo.GetInvitationByApplicationID(ctx, a.ID)
	require.NoError(t, err)
	require.Equal(t, inv.ID, got.ID)

	_, err = repo.GetInvitationByTokenHash(ctx, "nope")
	require.ErrorIs(t, err, store.ErrNotFound)

	unused, err := repo.ListUnusedInvitations(ctx)
	require.NoError(t, err)
	require.Len(t, unused, 1)

	require.NoError(t, repo.MarkInvitationUsed(ctx, inv.ID, base.Add(time.Hour)))
	require.ErrorIs(t, repo.MarkInvitationUsed(ctx, inv.ID, base.Add(2*time.Hour)), store.ErrConflict)
	require.ErrorIs(t, repo.MarkInvitationUsed(ctx, "missing", base), store.ErrNotFound)

	got, err = repo.GetInvitationByID(ctx, inv.ID)
	require.NoError(t, err)
	require.True(t, got.Used)
	require.NotNil(t, got.UsedAt)

	unused, err = repo.ListUnusedInvitations(ctx)
	require.NoError(t, err)
	require.Empty(t, unused)
}

func testUsersAndMembers(t *testing.T, s store.Store) {
	ctx := context.Background()

	m := SeedMember(t, s, "member@example.com")

	u, err := s.Users().GetUserByEmail(ctx, "member@example.com")
	require.NoError(t, err)
	require.Equal(t, m.UserID, u.ID)
	require.Equal(t, domain.RoleMember, u.Role)

	_, err = s.Users().GetUserByID(ctx, u.ID)
	require.NoError(t, err)

	clash := u
	clash.ID = idx.New().String()
	require.ErrorIs(t, s.Users().CreateUser(ctx, clash), store.ErrAlreadyExists)

	byUser, err := s.Members().GetMemberByUserID(ctx, u.ID)
	require.NoError(t, err)
	require.Equal(t, m, byUser)

	p, err := s.Members().GetMemberProfile(ctx, m.ID)
	require.NoError(t, err)
	require.Equal(t, "member@example.com", p.Email)
	require.True(t, p.Active)

	other := SeedMember(t, s, "other@example.com")
	require.NoError(t, s.Members().SetMemberActive(ctx, other.ID, false, base.Add(time.Minute)))
	require.ErrorIs(t, s.Members().SetMemberActive(ctx, "missing", false, base), store.ErrNotFound)

	active, err := s.Members().ListMemberProfiles(ctx, true)
	require.NoError(t, err)
	require.Len(t, active, 1)
	require.Equal(t, m.ID, active[0].ID)

	all, err := s.Members().ListMemberProfiles(ctx, false)
	require.NoError(t, err)
	require.Len(t, all, 2)

	_, err = s.Members().GetMemberByID(ctx, "missing")
	require.ErrorIs(t, err, store.ErrNotFound)
}

func testReferrals(t *testing.T, s store.Store) {
	ctx := context.Background()
	repo := s.Referrals()

	alice := SeedMember(t, s, "alice@example.com")
	bob := SeedMember(t, s, "bob@example.com")

	ref := domain.Referral{
		ID:             idx.New().String(),
		FromMemberID:   alice.ID,
		ToMemberID:     bob.ID,
		ContactName:    "Carol",
		ContactCompany: "Carol Co",
		Description:    "needs accounting",
		Status:         domain.ReferralSent,
		CreatedAt:      base,
		UpdatedAt:      base,
	}
	require.NoError(t, repo.CreateReferral(ctx, ref))

	got, err := repo.GetReferralByID(ctx, ref.ID)
	require.NoError(t, err)
	require.Equal(t, ref, got)

	made, err := repo.ListReferralsFrom(ctx, alice.ID)
	require.NoError(t, err)
	require.Len(t, made, 1)
	received, err := repo.ListReferralsTo(ctx, alice.ID)
	require.NoError(t, err)
	require.Empty(t, received)

	require.NoError(t, repo.UpdateReferralStatus(ctx, ref.ID, domain.ReferralSent, domain.ReferralNegotiating, base.Add(time.Minute)))
	err = repo.UpdateReferralStatus(ctx, ref.ID, domain.ReferralSent, domain.ReferralRejected, base.Add(time.Minute))
	require.ErrorIs(t, err, store.ErrConflict, "stale read status must not match")
	err = repo.UpdateReferralStatus(ctx, "missing", domain.ReferralSent, domain.ReferralRejected, base)
	require.ErrorIs(t, err, store.ErrNotFound)

	got, err = repo.GetReferralByID(ctx, ref.ID)
	require.NoError(t, err)
	require.Equal(t, domain.ReferralNegotiating, got.Status)
}

func testRollback(t *testing.T, s store.Store) {
	ctx := context.Background()
	boom := errors.New("boom")

	var id string
	err := s.WithTx(ctx, func(tx store.Tx) error {
		a := SeedApplication(t, tx, "rollback@example.com")
		id = a.ID
		return boom
	})
	require.ErrorIs(t, err, boom)

	_, err = s.Applications().GetApplicationByID(ctx, id)
	require.ErrorIs(t, err, store.ErrNotFound)

	require.NoError(t, s.WithTx(ctx, func(tx store.Tx) error {
		SeedApplication(t, tx, "commit@example.com")
		return nil
	}))
	all, err := s.Applications().ListApplications(ctx, "")
	require.NoError(t, err)
	require.Len(t, all, 1)
	require.NoError(t, s.Ping(ctx))
}
