package service

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/aussiebroadwan/guild/internal/guild/domain"
	"github.com/aussiebroadwan/guild/internal/guild/metrics"
	"github.com/aussiebroadwan/guild/internal/guild/notify"
	"github.com/aussiebroadwan/guild/internal/guild/store"
	"github.com/aussiebroadwan/guild/internal/guild/store/drivers/sqlite"
	"github.com/aussiebroadwan/guild/pkg/cryptox"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	dir, err := os.MkdirTemp("", "guild-service-pepper")
	if err != nil {
		panic(err)
	}
	cryptox.SetPepperPath(filepath.Join(dir, "pepper"))

	code := m.Run()
	_ = os.RemoveAll(dir)
	os.Exit(code)
}

var t0 = time.Date(2026, 5, 4, 9, 30, 0, 0, time.UTC)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = t
}

func (c *fakeClock) Advance(d time.Duration) { c.Set(c.Now().Add(d)) }

// recorder is a Notifier that keeps every message.
type recorder struct {
	mu   sync.Mutex
	msgs []notify.Message
}

func (r *recorder) Notify(_ context.Context, msg notify.Message) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.msgs = append(r.msgs, msg)
}

func (r *recorder) ofKind(k notify.Kind) []notify.Message {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []notify.Message
	for _, m := range r.msgs {
		if m.Kind == k {
			out = append(out, m)
		}
	}
	return out
}

type harness struct {
	store   store.Store
	clock   *fakeClock
	notes   *recorder
	metrics *metrics.Metrics
	deps    Deps

	apps      *ApplicationService
	admission *AdmissionService
	members   *MemberService
	referrals *ReferralService
}

// plainHasher skips argon2 so tests that are not about passwords stay fast.
func plainHasher(pw string) (string, error) { return "plain:" + pw, nil }

func newHarness(t *testing.T, opts ...AdmissionOption) *harness {
	t.Helper()

	s, err := sqlite.NewStore(":memory:")
	require.NoError(t, err)
	require.NoError(t, s.ApplyMigrations())
	t.Cleanup(func() { _ = s.Close() })

	h := &harness{
		store:   s,
		clock:   &fakeClock{now: t0},
		notes:   &recorder{},
		metrics: metrics.New(),
	}
	deps := Deps{
		Store:    s,
		Notifier: h.notes,
		Metrics:  h.metrics,
		Retry:    Retrier{MaxRetries: 2, InitialInterval: time.Millisecond, MaxInterval: 5 * time.Millisecond},
		Now:      h.clock.Now,
	}

	h.deps = deps

	opts = append([]AdmissionOption{WithPasswordHasher(plainHasher)}, opts...)
	h.apps = NewApplicationService(deps)
	h.admission = NewAdmissionService(deps, AdmissionConfig{
		InvitationTTL:     48 * time.Hour,
		PasswordMinLength: 10,
		Now:               h.clock.Now,
	}, opts...)
	h.members = NewMemberService(deps)
	h.referrals = NewReferralService(deps)
	return h
}

func (h *harness) submit(t *testing.T, name, email string) domain.Application {
	t.Helper()
	app, err := h.apps.Submit(context.Background(), ApplicationInput{
		Name:    name,
		Email:   email,
		Company: "Acme Pty Ltd",
		Reason:  "Looking for local partners",
	})
	require.NoError(t, err)
	return app
}

func (h *harness) approve(t *testing.T, appID string) DecisionResult {
	t.Helper()
	res, err := h.admission.Approve(context.Background(), appID, "reviewer-1")
	require.NoError(t, err)
	return res
}

// admit runs an applicant all the way through to an active member.
func (h *harness) admit(t *testing.T, name, email string) domain.MemberProfile {
	t.Helper()
	app := h.submit(t, name, email)
	res := h.approve(t, app.ID)
	p, err := h.admission.Register(context.Background(), RegistrationInput{
		Token:    res.Token,
		FullName: name,
		Phone:    "+61 400 000 000",
		Password: "correct-horse-battery",
	})
	require.NoError(t, err)
	return p
}
