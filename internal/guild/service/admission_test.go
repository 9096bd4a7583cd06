package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/aussiebroadwan/guild/internal/guild/domain"
	"github.com/aussiebroadwan/guild/internal/guild/notify"
	"github.com/aussiebroadwan/guild/internal/guild/store"
	"github.com/aussiebroadwan/guild/pkg/cryptox"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"
)

func TestSubmit(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	app, err := h.apps.Submit(ctx, ApplicationInput{
		Name:  "  Dana Reyes ",
		Email: "Dana@Example.COM",
	})
	require.NoError(t, err)
	require.Equal(t, "Dana Reyes", app.Name)
	require.Equal(t, "dana@example.com", app.Email)
	require.Equal(t, domain.ApplicationPending, app.Status)
	require.Empty(t, app.ReviewerID)
	require.Nil(t, app.DecidedAt)

	// Same email may apply again.
	_, err = h.apps.Submit(ctx, ApplicationInput{Name: "Dana", Email: "dana@example.com"})
	require.NoError(t, err)

	pending, err := h.apps.ListPending(ctx)
	require.NoError(t, err)
	require.Len(t, pending, 2)
	require.Equal(t, app.ID, pending[0].ID)
}

func TestSubmit_Validation(t *testing.T) {
	h := newHarness(t)

	long := make([]byte, maxReasonLen+1)
	for i := range long {
		long[i] = 'x'
	}

	tests := []struct {
		name string
		in   ApplicationInput
	}{
		{"missing name", ApplicationInput{Email: "a@example.com"}},
		{"missing email", ApplicationInput{Name: "A"}},
		{"malformed email", ApplicationInput{Name: "A", Email: "not-an-email"}},
		{"display name", ApplicationInput{Name: "A", Email: "A <a@example.com>"}},
		{"reason too long", ApplicationInput{Name: "A", Email: "a@example.com", Reason: string(long)}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := h.apps.Submit(context.Background(), tt.in)
			require.ErrorIs(t, err, ErrValidation)
		})
	}

	all, err := h.apps.ListAll(context.Background())
	require.NoError(t, err)
	require.Empty(t, all)
}

func TestApprove_IssuesInvitation(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	app := h.submit(t, "Dana Reyes", "dana@example.com")
	res := h.approve(t, app.ID)

	require.Equal(t, domain.ApplicationApproved, res.Application.Status)
	require.Equal(t, "reviewer-1", res.Application.ReviewerID)
	require.NotNil(t, res.Application.DecidedAt)
	require.NotEmpty(t, res.Token)
	require.NotNil(t, res.Invitation)
	require.Equal(t, t0.Add(48*time.Hour), res.Invitation.ExpiresAt)

	stored, err := h.store.Invitations().GetInvitationByApplicationID(ctx, app.ID)
	require.NoError(t, err)
	require.Equal(t, cryptox.FingerprintToken(res.Token), stored.TokenHash)
	require.NotEqual(t, res.Token, stored.TokenHash)
	require.False(t, stored.Used)

	sent := h.notes.ofKind(notify.KindInvitationCreated)
	require.Len(t, sent, 1)
	require.Equal(t, "dana@example.com", sent[0].To)
	require.Equal(t, res.Token, sent[0].Payload[notify.KeyToken])
	require.Equal(t, "Dana Reyes", sent[0].Payload[notify.KeyName])

	pending, err := h.apps.ListPending(ctx)
	require.NoError(t, err)
	require.Empty(t, pending)
	require.Equal(t, 1.0, testutil.ToFloat64(h.metrics.Decisions.WithLabelValues("approve")))
}

func TestReject(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	app := h.submit(t, "Sam Li", "sam@example.com")
	rejected, err := h.admission.Reject(ctx, app.ID, "reviewer-1")
	require.NoError(t, err)
	require.Equal(t, domain.ApplicationRejected, rejected.Status)

	_, err = h.store.Invitations().GetInvitationByApplicationID(ctx, app.ID)
	require.ErrorIs(t, err, store.ErrNotFound)

	sent := h.notes.ofKind(notify.KindApplicationRejected)
	require.Len(t, sent, 1)
	require.Equal(t, "sam@example.com", sent[0].To)
}

func TestDecide_Twice(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	app := h.submit(t, "Dana Reyes", "dana@example.com")
	first := h.approve(t, app.ID)

	_, err := h.admission.Decide(ctx, app.ID, "reviewer-2", domain.DecisionReject)
	require.ErrorIs(t, err, ErrAlreadyDecided)
	_, err = h.admission.Decide(ctx, app.ID, "reviewer-2", domain.DecisionApprove)
	require.ErrorIs(t, err, ErrAlreadyDecided)

	got, err := h.apps.Get(ctx, app.ID)
	require.NoError(t, err)
	require.Equal(t, domain.ApplicationApproved, got.Status)
	require.Equal(t, "reviewer-1", got.ReviewerID)

	inv, err := h.store.Invitations().GetInvitationByApplicationID(ctx, app.ID)
	require.NoError(t, err)
	require.Equal(t, first.Invitation.ID, inv.ID)
	require.Len(t, h.notes.ofKind(notify.KindInvitationCreated), 1)
}

func TestDecide_Errors(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	_, err := h.admission.Decide(ctx, "01HZZZZZZZZZZZZZZZZZZZZZZZ", "reviewer-1", domain.DecisionApprove)
	require.ErrorIs(t, err, ErrNotFound)

	app := h.submit(t, "Dana Reyes", "dana@example.com")
	_, err = h.admission.Decide(ctx, app.ID, "reviewer-1", domain.Decision("maybe"))
	require.ErrorIs(t, err, ErrValidation)
	_, err = h.admission.Decide(ctx, app.ID, "", domain.DecisionApprove)
	require.ErrorIs(t, err, ErrValidation)

	got, err := h.apps.Get(ctx, app.ID)
	require.NoError(t, err)
	require.Equal(t, domain.ApplicationPending, got.Status)
}

func TestDecide_Concurrent(t *testing.T) {
	h := newHarness(t)
	app := h.submit(t, "Dana Reyes", "dana@example.com")

	const n = 8
	var (
		mu        sync.Mutex
		succeeded int
		decided   int
	)
	var g errgroup.Group
	for i := range n {
		decision := domain.DecisionApprove
		if i%2 == 1 {
			decision = domain.DecisionReject
		}
		g.Go(func() error {
			_, err := h.admission.Decide(context.Background(), app.ID, "reviewer", decision)
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				succeeded++
			case errors.Is(err, ErrAlreadyDecided):
				decided++
			default:
				return err
			}
			return nil
		})
	}
	require.NoError(t, g.Wait())
	require.Equal(t, 1, succeeded)
	require.Equal(t, n-1, decided)
}

func TestApprove_EntropyFailure(t *testing.T) {
	h := newHarness(t, WithTokenSource(func() (string, error) {
		return "", errors.New("entropy source exhausted")
	}))
	app := h.submit(t, "Dana Reyes", "dana@example.com")

	_, err := h.admission.Approve(context.Background(), app.ID, "reviewer-1")
	require.ErrorIs(t, err, ErrInfrastructure)

	got, err := h.apps.Get(context.Background(), app.ID)
	require.NoError(t, err)
	require.Equal(t, domain.ApplicationPending, got.Status)
	require.Empty(t, h.notes.ofKind(notify.KindInvitationCreated))
}

func TestLookupInvitation(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	app := h.submit(t, "Dana Reyes", "dana@example.com")
	res := h.approve(t, app.ID)

	t.Run("valid and idempotent", func(t *testing.T) {
		for range 3 {
			got, err := h.admission.LookupInvitation(ctx, res.Token)
			require.NoError(t, err)
			require.Equal(t, InvitationLookup{Valid: true, Email: "dana@example.com"}, got)
		}
		inv, err := h.store.Invitations().GetInvitationByApplicationID(ctx, app.ID)
		require.NoError(t, err)
		require.False(t, inv.Used)
	})

	t.Run("unknown", func(t *testing.T) {
		for _, tok := range []string{"", "   ", "definitely-not-a-token"} {
			got, err := h.admission.LookupInvitation(ctx, tok)
			require.NoError(t, err)
			require.False(t, got.Valid)
			require.Empty(t, got.Email)
		}
	})

	t.Run("expiry boundary", func(t *testing.T) {
		h.clock.Set(res.Invitation.ExpiresAt)
		got, err := h.admission.LookupInvitation(ctx, res.Token)
		require.NoError(t, err)
		require.True(t, got.Valid)

		h.clock.Set(res.Invitation.ExpiresAt.Add(time.Nanosecond))
		got, err = h.admission.LookupInvitation(ctx, res.Token)
		require.NoError(t, err)
		require.False(t, got.Valid)
	})
}

func TestRegister(t *testing.T) {
	h := newHarness(t, WithPasswordHasher(cryptox.HashPassword))
	ctx := context.Background()

	app := h.submit(t, "Dana Reyes", "dana@example.com")
	res := h.approve(t, app.ID)

	p, err := h.admission.Register(ctx, RegistrationInput{
		Token:    res.Token,
		FullName: "Dana Reyes",
		Phone:    "+61 (2) 9000-0000",
		Password: "correct-horse-battery",
	})
	require.NoError(t, err)
	require.Equal(t, "dana@example.com", p.Email)
	require.Equal(t, "Dana Reyes", p.FullName)
	require.True(t, p.Active)

	user, err := h.store.Users().GetUserByID(ctx, p.UserID)
	require.NoError(t, err)
	require.Equal(t, domain.RoleMember, user.Role)
	require.NoError(t, cryptox.VerifyPassword("correct-horse-battery", user.PasswordHash))

	inv, err := h.store.Invitations().GetInvitationByApplicationID(ctx, app.ID)
	require.NoError(t, err)
	require.True(t, inv.Used)
	require.NotNil(t, inv.UsedAt)

	lookup, err := h.admission.LookupInvitation(ctx, res.Token)
	require.NoError(t, err)
	require.False(t, lookup.Valid)

	_, err = h.admission.Register(ctx, RegistrationInput{
		Token:    res.Token,
		FullName: "Someone Else",
		Phone:    "0400 000 000",
		Password: "another-long-password",
	})
	require.ErrorIs(t, err, ErrInvalidToken)

	require.Len(t, h.notes.ofKind(notify.KindMemberWelcome), 1)
	require.Equal(t, 1.0, testutil.ToFloat64(h.metrics.Registrations.WithLabelValues("ok")))
	require.Equal(t, 1.0, testutil.ToFloat64(h.metrics.Registrations.WithLabelValues("invalid_token")))
}

func TestRegister_Validation(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	app := h.submit(t, "Dana Reyes", "dana@example.com")
	res := h.approve(t, app.ID)

	valid := RegistrationInput{
		Token:    res.Token,
		FullName: "Dana Reyes",
		Phone:    "0400 000 000",
		Password: "correct-horse-battery",
	}
	tests := []struct {
		name   string
		mutate func(*RegistrationInput)
	}{
		{"missing name", func(in *RegistrationInput) { in.FullName = " " }},
		{"missing phone", func(in *RegistrationInput) { in.Phone = "" }},
		{"phone letters", func(in *RegistrationInput) { in.Phone = "call me" }},
		{"phone no digits", func(in *RegistrationInput) { in.Phone = "+()" }},
		{"short password", func(in *RegistrationInput) { in.Password = "short" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := valid
			tt.mutate(&in)
			_, err := h.admission.Register(ctx, in)
			require.ErrorIs(t, err, ErrValidation)
		})
	}

	// Nothing above consumed the invitation.
	_, err := h.admission.Register(ctx, valid)
	require.NoError(t, err)
}

func TestRegister_ExpiredToken(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	app := h.submit(t, "Dana Reyes", "dana@example.com")
	res := h.approve(t, app.ID)

	h.clock.Advance(48*time.Hour + time.Second)
	_, err := h.admission.Register(ctx, RegistrationInput{
		Token:    res.Token,
		FullName: "Dana Reyes",
		Phone:    "0400 000 000",
		Password: "correct-horse-battery",
	})
	require.ErrorIs(t, err, ErrInvalidToken)

	inv, err := h.store.Invitations().GetInvitationByApplicationID(ctx, app.ID)
	require.NoError(t, err)
	require.False(t, inv.Used)
}

func TestRegister_ConcurrentRedemption(t *testing.T) {
	h := newHarness(t)
	app := h.submit(t, "Dana Reyes", "dana@example.com")
	res := h.approve(t, app.ID)

	const n = 10
	var (
		mu      sync.Mutex
		ok      int
		invalid int
	)
	var g errgroup.Group
	for range n {
		g.Go(func() error {
			_, err := h.admission.Register(context.Background(), RegistrationInput{
				Token:    res.Token,
				FullName: "Dana Reyes",
				Phone:    "0400 000 000",
				Password: "correct-horse-battery",
			})
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				ok++
			case errors.Is(err, ErrInvalidToken):
				invalid++
			default:
				return err
			}
			return nil
		})
	}
	require.NoError(t, g.Wait())
	require.Equal(t, 1, ok)
	require.Equal(t, n-1, invalid)

	members, err := h.members.ListAll(context.Background())
	require.NoError(t, err)
	require.Len(t, members, 1)
}

func TestRegister_EmailAlreadyRegistered(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	h.admit(t, "Dana Reyes", "dana@example.com")

	again := h.submit(t, "Dana Reyes", "dana@example.com")
	res := h.approve(t, again.ID)
	_, err := h.admission.Register(ctx, RegistrationInput{
		Token:    res.Token,
		FullName: "Dana Reyes",
		Phone:    "0400 000 000",
		Password: "correct-horse-battery",
	})
	require.ErrorIs(t, err, ErrValidation)

	inv, err := h.store.Invitations().GetInvitationByApplicationID(ctx, again.ID)
	require.NoError(t, err)
	require.False(t, inv.Used, "failed registration must not consume the invitation")
}
