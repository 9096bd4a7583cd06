package service

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/aussiebroadwan/guild/internal/guild/domain"
	"github.com/aussiebroadwan/guild/internal/guild/notify"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"
)

func TestReferralCreate(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	m1 := h.admit(t, "Member One", "one@example.com")
	m2 := h.admit(t, "Member Two", "two@example.com")

	ref, err := h.referrals.Create(ctx, m1.ID, ReferralInput{
		ToMemberID:     m2.ID,
		ContactName:    " Pat Client ",
		ContactCompany: "Client Co",
		Description:    "Needs a new fit-out for their office",
	})
	require.NoError(t, err)
	require.Equal(t, m1.ID, ref.FromMemberID)
	require.Equal(t, m2.ID, ref.ToMemberID)
	require.Equal(t, "Pat Client", ref.ContactName)
	require.Equal(t, domain.ReferralSent, ref.Status)

	sent := h.notes.ofKind(notify.KindReferralReceived)
	require.Len(t, sent, 1)
	require.Equal(t, "two@example.com", sent[0].To)
	require.Equal(t, "Member One", sent[0].Payload[notify.KeyFromName])
	require.Equal(t, ref.ID, sent[0].Payload[notify.KeyReferralID])
	require.Equal(t, 1.0, testutil.ToFloat64(h.metrics.Referrals.WithLabelValues("sent")))
}

func TestReferralCreate_Refusals(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	m1 := h.admit(t, "Member One", "one@example.com")
	m2 := h.admit(t, "Member Two", "two@example.com")
	m3 := h.admit(t, "Member Three", "three@example.com")
	_, err := h.members.SetActive(ctx, m3.ID, false)
	require.NoError(t, err)

	tests := []struct {
		name string
		from string
		in   ReferralInput
		want error
	}{
		{"self", m1.ID, ReferralInput{ToMemberID: m1.ID, ContactName: "Pat"}, ErrSelfReferral},
		{"unknown recipient", m1.ID, ReferralInput{ToMemberID: "01HZZZZZZZZZZZZZZZZZZZZZZZ", ContactName: "Pat"}, ErrNotFound},
		{"unknown sender", "01HZZZZZZZZZZZZZZZZZZZZZZZ", ReferralInput{ToMemberID: m1.ID, ContactName: "Pat"}, ErrNotFound},
		{"inactive recipient", m1.ID, ReferralInput{ToMemberID: m3.ID, ContactName: "Pat"}, ErrMemberInactive},
		{"inactive sender", m3.ID, ReferralInput{ToMemberID: m1.ID, ContactName: "Pat"}, ErrMemberInactive},
		{"missing contact", m1.ID, ReferralInput{ToMemberID: m2.ID, ContactName: "  "}, ErrValidation},
		{"description too long", m1.ID, ReferralInput{
			ToMemberID:  m2.ID,
			ContactName: "Pat",
			Description: strings.Repeat("d", maxDescriptionLen+1),
		}, ErrValidation},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := h.referrals.Create(ctx, tt.from, tt.in)
			require.ErrorIs(t, err, tt.want)
		})
	}

	lists, err := h.referrals.ListForMember(ctx, m1.ID)
	require.NoError(t, err)
	require.Empty(t, lists.Made)
	require.Empty(t, lists.Received)
	require.Empty(t, h.notes.ofKind(notify.KindReferralReceived))
}

func TestReferralListForMember(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	m1 := h.admit(t, "Member One", "one@example.com")
	m2 := h.admit(t, "Member Two", "two@example.com")
	m3 := h.admit(t, "Member Three", "three@example.com")

	create := func(from, to string) domain.Referral {
		ref, err := h.referrals.Create(ctx, from, ReferralInput{ToMemberID: to, ContactName: "Pat"})
		require.NoError(t, err)
		return ref
	}
	a := create(m1.ID, m2.ID)
	b := create(m1.ID, m3.ID)
	c := create(m2.ID, m1.ID)

	lists, err := h.referrals.ListForMember(ctx, m1.ID)
	require.NoError(t, err)
	require.Equal(t, []string{a.ID, b.ID}, referralIDs(lists.Made))
	require.Equal(t, []string{c.ID}, referralIDs(lists.Received))

	lists, err = h.referrals.ListForMember(ctx, m3.ID)
	require.NoError(t, err)
	require.Empty(t, lists.Made)
	require.Equal(t, []string{b.ID}, referralIDs(lists.Received))
}

func referralIDs(refs []domain.Referral) []string {
	ids := make([]string, 0, len(refs))
	for _, r := range refs {
		ids = append(ids, r.ID)
	}
	return ids
}

func TestReferralGet(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	m1 := h.admit(t, "Member One", "one@example.com")
	m2 := h.admit(t, "Member Two", "two@example.com")
	m3 := h.admit(t, "Member Three", "three@example.com")

	ref, err := h.referrals.Create(ctx, m1.ID, ReferralInput{ToMemberID: m2.ID, ContactName: "Pat"})
	require.NoError(t, err)

	for _, actor := range []string{m1.ID, m2.ID} {
		got, err := h.referrals.Get(ctx, ref.ID, actor)
		require.NoError(t, err)
		require.Equal(t, ref.ID, got.ID)
	}

	_, err = h.referrals.Get(ctx, ref.ID, m3.ID)
	require.ErrorIs(t, err, ErrForbidden)
	_, err = h.referrals.Get(ctx, "01HZZZZZZZZZZZZZZZZZZZZZZZ", m1.ID)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestReferralUpdateStatus_Graph(t *testing.T) {
	statuses := []domain.ReferralStatus{
		domain.ReferralSent,
		domain.ReferralNegotiating,
		domain.ReferralClosed,
		domain.ReferralRejected,
	}
	// paths reach each starting status from sent.
	paths := map[domain.ReferralStatus][]domain.ReferralStatus{
		domain.ReferralSent:        nil,
		domain.ReferralNegotiating: {domain.ReferralNegotiating},
		domain.ReferralClosed:      {domain.ReferralNegotiating, domain.ReferralClosed},
		domain.ReferralRejected:    {domain.ReferralRejected},
	}

	for _, from := range statuses {
		for _, to := range statuses {
			t.Run(string(from)+"->"+string(to), func(t *testing.T) {
				h := newHarness(t)
				ctx := context.Background()
				m1 := h.admit(t, "Member One", "one@example.com")
				m2 := h.admit(t, "Member Two", "two@example.com")

				ref, err := h.referrals.Create(ctx, m1.ID, ReferralInput{ToMemberID: m2.ID, ContactName: "Pat"})
				require.NoError(t, err)
				for _, step := range paths[from] {
					_, err := h.referrals.UpdateStatus(ctx, ref.ID, m2.ID, step)
					require.NoError(t, err)
				}

				got, err := h.referrals.UpdateStatus(ctx, ref.ID, m2.ID, to)
				switch {
				case from.Terminal():
					require.ErrorIs(t, err, ErrAlreadyTerminal)
				case domain.CanTransition(from, to):
					require.NoError(t, err)
					require.Equal(t, to, got.Status)
				default:
					require.ErrorIs(t, err, ErrIllegalTransition)
				}
			})
		}
	}
}

func TestReferralUpdateStatus_SentToClosedIsIllegal(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	m1 := h.admit(t, "Member One", "one@example.com")
	m2 := h.admit(t, "Member Two", "two@example.com")

	ref, err := h.referrals.Create(ctx, m1.ID, ReferralInput{ToMemberID: m2.ID, ContactName: "Pat"})
	require.NoError(t, err)

	_, err = h.referrals.UpdateStatus(ctx, ref.ID, m2.ID, domain.ReferralClosed)
	require.ErrorIs(t, err, ErrIllegalTransition)

	got, err := h.referrals.Get(ctx, ref.ID, m2.ID)
	require.NoError(t, err)
	require.Equal(t, domain.ReferralSent, got.Status)
}

func TestReferralUpdateStatus_Refusals(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	m1 := h.admit(t, "Member One", "one@example.com")
	m2 := h.admit(t, "Member Two", "two@example.com")
	m3 := h.admit(t, "Member Three", "three@example.com")

	ref, err := h.referrals.Create(ctx, m1.ID, ReferralInput{ToMemberID: m2.ID, ContactName: "Pat"})
	require.NoError(t, err)

	_, err = h.referrals.UpdateStatus(ctx, ref.ID, m1.ID, domain.ReferralNegotiating)
	require.ErrorIs(t, err, ErrForbidden, "sender cannot move their own referral")
	_, err = h.referrals.UpdateStatus(ctx, ref.ID, m3.ID, domain.ReferralNegotiating)
	require.ErrorIs(t, err, ErrForbidden)
	_, err = h.referrals.UpdateStatus(ctx, "01HZZZZZZZZZZZZZZZZZZZZZZZ", m2.ID, domain.ReferralNegotiating)
	require.ErrorIs(t, err, ErrNotFound)
	_, err = h.referrals.UpdateStatus(ctx, ref.ID, m2.ID, domain.ReferralStatus("won"))
	require.ErrorIs(t, err, ErrValidation)

	require.Empty(t, h.notes.ofKind(notify.KindReferralStatusChanged))
}

func TestReferralUpdateStatus_NotifiesSender(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	m1 := h.admit(t, "Member One", "one@example.com")
	m2 := h.admit(t, "Member Two", "two@example.com")

	ref, err := h.referrals.Create(ctx, m1.ID, ReferralInput{ToMemberID: m2.ID, ContactName: "Pat"})
	require.NoError(t, err)
	_, err = h.referrals.UpdateStatus(ctx, ref.ID, m2.ID, domain.ReferralNegotiating)
	require.NoError(t, err)

	sent := h.notes.ofKind(notify.KindReferralStatusChanged)
	require.Len(t, sent, 1)
	require.Equal(t, "one@example.com", sent[0].To)
	require.Equal(t, "negotiating", sent[0].Payload[notify.KeyStatus])
}

func TestReferralUpdateStatus_Concurrent(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	m1 := h.admit(t, "Member One", "one@example.com")
	m2 := h.admit(t, "Member Two", "two@example.com")

	ref, err := h.referrals.Create(ctx, m1.ID, ReferralInput{ToMemberID: m2.ID, ContactName: "Pat"})
	require.NoError(t, err)

	const n = 6
	var (
		mu      sync.Mutex
		ok      int
		refused int
	)
	var g errgroup.Group
	for range n {
		g.Go(func() error {
			_, err := h.referrals.UpdateStatus(ctx, ref.ID, m2.ID, domain.ReferralNegotiating)
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				ok++
			case errors.Is(err, ErrIllegalTransition):
				refused++
			default:
				return err
			}
			return nil
		})
	}
	require.NoError(t, g.Wait())
	require.Equal(t, 1, ok)
	require.Equal(t, n-1, refused)
}

func TestReferralUpdateStatus_InactiveMembersCanFinish(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	m1 := h.admit(t, "Member One", "one@example.com")
	m2 := h.admit(t, "Member Two", "two@example.com")

	ref, err := h.referrals.Create(ctx, m1.ID, ReferralInput{ToMemberID: m2.ID, ContactName: "Pat"})
	require.NoError(t, err)
	_, err = h.members.SetActive(ctx, m1.ID, false)
	require.NoError(t, err)

	got, err := h.referrals.UpdateStatus(ctx, ref.ID, m2.ID, domain.ReferralRejected)
	require.NoError(t, err)
	require.Equal(t, domain.ReferralRejected, got.Status)
}
