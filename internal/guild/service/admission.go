package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/aussiebroadwan/guild/internal/guild/domain"
	"github.com/aussiebroadwan/guild/internal/guild/notify"
	"github.com/aussiebroadwan/guild/internal/guild/store"
	"github.com/aussiebroadwan/guild/pkg/cryptox"
	"github.com/aussiebroadwan/guild/pkg/idx"
	"github.com/aussiebroadwan/guild/pkg/slogx"
)

// AdmissionConfig is the admission policy handed to NewAdmissionService.
// Zero fields fall back to DefaultAdmissionConfig.
type AdmissionConfig struct {
	// InvitationTTL is how long an invitation can be redeemed for.
	InvitationTTL time.Duration
	// PasswordMinLength is the minimum password length in characters.
	PasswordMinLength int
	// Now is the clock used for decisions, expiry and redemption.
	Now func() time.Time
}

// DefaultAdmissionConfig is a seven day TTL and ten character passwords.
func DefaultAdmissionConfig() AdmissionConfig {
	return AdmissionConfig{
		InvitationTTL:     7 * 24 * time.Hour,
		PasswordMinLength: 10,
		Now:               time.Now,
	}
}

// DecisionResult is the outcome of a review. Invitation and Token are only
// set for approvals; Token is the raw invitation token and is never stored.
type DecisionResult struct {
	Application domain.Application
	Invitation  *domain.Invitation
	Token       string
}

// InvitationLookup answers "is this token usable, and for whom".
type InvitationLookup struct {
	Valid bool
	Email string
}

// RegistrationInput is what an approved applicant submits with their token.
type RegistrationInput struct {
	Token    string
	FullName string
	Phone    string
	Password string
}

// AdmissionService drives applications from review to membership.
type AdmissionService struct {
	deps Deps
	cfg  AdmissionConfig

	newToken     func() (string, error)
	hashPassword func(string) (string, error)
}

type AdmissionOption func(*AdmissionService)

// WithTokenSource replaces the invitation token generator.
func WithTokenSource(fn func() (string, error)) AdmissionOption {
	return func(s *AdmissionService) { s.newToken = fn }
}

// WithPasswordHasher replaces the password hasher.
func WithPasswordHasher(fn func(string) (string, error)) AdmissionOption {
	return func(s *AdmissionService) { s.hashPassword = fn }
}

func NewAdmissionService(d Deps, cfg AdmissionConfig, opts ...AdmissionOption) *AdmissionService {
	def := DefaultAdmissionConfig()
	if cfg.InvitationTTL <= 0 {
		cfg.InvitationTTL = def.InvitationTTL
	}
	if cfg.PasswordMinLength <= 0 {
		cfg.PasswordMinLength = def.PasswordMinLength
	}
	if cfg.Now == nil {
		cfg.Now = def.Now
	}

	s := &AdmissionService{
		deps: d.withDefaults(),
		cfg:  cfg,
		newToken: func() (string, error) {
			return cryptox.GenerateToken(cryptox.InvitationTokenSize)
		},
		hashPassword: cryptox.HashPassword,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *AdmissionService) now() time.Time { return s.cfg.Now().UTC() }

// Decide applies a reviewer's decision to a pending application.
func (s *AdmissionService) Decide(
	ctx context.Context,
	applicationID, reviewerID string,
	decision domain.Decision,
) (DecisionResult, error) {
	switch decision {
	case domain.DecisionApprove:
		return s.Approve(ctx, applicationID, reviewerID)
	case domain.DecisionReject:
		app, err := s.Reject(ctx, applicationID, reviewerID)
		return DecisionResult{Application: app}, err
	default:
		return DecisionResult{}, fmt.Errorf("%w: unknown decision %q", ErrValidation, decision)
	}
}

// Approve marks a pending application approved and issues its invitation in
// the same transaction. The token is generated up front so an entropy
// failure never leaves a half-approved application behind.
func (s *AdmissionService) Approve(ctx context.Context, applicationID, reviewerID string) (DecisionResult, error) {
	log := slogx.FromContext(ctx).With(slog.String("application_id", applicationID))
	defer s.deps.Metrics.ObserveOperation("approve_application", time.Now())

	if reviewerID == "" {
		return DecisionResult{}, fmt.Errorf("%w: reviewer is required", ErrValidation)
	}

	// 1. Generate the token before touching the database.
	token, err := s.newToken()
	if err != nil {
		log.Error("failed to generate invitation token", slog.Any("error", err))
		return DecisionResult{}, fmt.Errorf("%w: generate invitation token: %w", ErrInfrastructure, err)
	}

	now := s.now()
	inv := domain.Invitation{
		ID:            idx.NewAt(now).String(),
		ApplicationID: applicationID,
		TokenHash:     cryptox.FingerprintToken(token),
		ExpiresAt:     now.Add(s.cfg.InvitationTTL),
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	// 2. Flip the application and create the invitation atomically.
	var app domain.Application
	err = s.deps.Retry.Do(ctx, "approve_application", func() error {
		return s.deps.Store.WithTx(ctx, func(tx store.Tx) error {
			var err error
			app, err = decideInTx(ctx, tx, applicationID, domain.ApplicationApproved, reviewerID, now)
			if err != nil {
				return err
			}
			return tx.Invitations().CreateInvitation(ctx, inv)
		})
	})
	if err != nil {
		logDecisionFailure(log, err)
		return DecisionResult{}, infra(err)
	}

	s.deps.Metrics.IncDecision(string(domain.DecisionApprove))
	log.Info("application approved",
		slog.String("reviewer_id", reviewerID),
		slog.String("invitation_id", inv.ID),
		slog.Time("expires_at", inv.ExpiresAt),
	)

	// 3. Tell the applicant. Delivery failures never undo the approval.
	s.deps.Notifier.Notify(ctx, notify.Message{
		To:   app.Email,
		Kind: notify.KindInvitationCreated,
		Payload: map[string]string{
			notify.KeyName:      app.Name,
			notify.KeyToken:     token,
			notify.KeyExpiresAt: inv.ExpiresAt.Format(time.RFC3339),
		},
	})

	return DecisionResult{Application: app, Invitation: &inv, Token: token}, nil
}

// Reject marks a pending application rejected.
func (s *AdmissionService) Reject(ctx context.Context, applicationID, reviewerID string) (domain.Application, error) {
	log := slogx.FromContext(ctx).With(slog.String("application_id", applicationID))
	defer s.deps.Metrics.ObserveOperation("reject_application", time.Now())

	if reviewerID == "" {
		return domain.Application{}, fmt.Errorf("%w: reviewer is required", ErrValidation)
	}

	now := s.now()
	var app domain.Application
	err := s.deps.Retry.Do(ctx, "reject_application", func() error {
		return s.deps.Store.WithTx(ctx, func(tx store.Tx) error {
			var err error
			app, err = decideInTx(ctx, tx, applicationID, domain.ApplicationRejected, reviewerID, now)
			return err
		})
	})
	if err != nil {
		logDecisionFailure(log, err)
		return domain.Application{}, infra(err)
	}

	s.deps.Metrics.IncDecision(string(domain.DecisionReject))
	log.Info("application rejected", slog.String("reviewer_id", reviewerID))

	s.deps.Notifier.Notify(ctx, notify.Message{
		To:      app.Email,
		Kind:    notify.KindApplicationRejected,
		Payload: map[string]string{notify.KeyName: app.Name},
	})
	return app, nil
}

// decideInTx moves the application out of pending with a compare-and-set so
// exactly one decision ever wins.
func decideInTx(
	ctx context.Context,
	tx store.Tx,
	id string,
	status domain.ApplicationStatus,
	reviewerID string,
	now time.Time,
) (domain.Application, error) {
	app, err := tx.Applications().GetApplicationByID(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return domain.Application{}, fmt.Errorf("%w: application %s", ErrNotFound, id)
	}
	if err != nil {
		return domain.Application{}, err
	}
	if app.Decided() {
		return domain.Application{}, fmt.Errorf("%w: application is %s", ErrAlreadyDecided, app.Status)
	}

	err = tx.Applications().DecideApplication(ctx, id, status, reviewerID, now)
	switch {
	case errors.Is(err, store.ErrConflict):
		return domain.Application{}, ErrAlreadyDecided
	case errors.Is(err, store.ErrNotFound):
		return domain.Application{}, fmt.Errorf("%w: application %s", ErrNotFound, id)
	case err != nil:
		return domain.Application{}, err
	}

	app.Status = status
	app.ReviewerID = reviewerID
	app.DecidedAt = &now
	app.UpdatedAt = now
	return app, nil
}

func logDecisionFailure(log *slog.Logger, err error) {
	if IsDomainError(err) && !errors.Is(err, ErrInfrastructure) {
		log.Warn("decision refused", slog.Any("error", err))
		return
	}
	log.Error("decision failed", slog.Any("error", err))
}

// LookupInvitation reports whether token can still be redeemed and, if so,
// the email it was issued to. It has no side effects and never returns a
// domain error: unknown, used and expired tokens are simply not valid.
func (s *AdmissionService) LookupInvitation(ctx context.Context, token string) (InvitationLookup, error) {
	_, app, err := s.findRedeemable(ctx, token)
	if errors.Is(err, ErrInvalidToken) {
		return InvitationLookup{}, nil
	}
	if err != nil {
		slogx.FromContext(ctx).Error("invitation lookup failed", slog.Any("error", err))
		return InvitationLookup{}, infra(err)
	}
	return InvitationLookup{Valid: true, Email: app.Email}, nil
}

// findRedeemable resolves token to its invitation and application, or
// ErrInvalidToken.
func (s *AdmissionService) findRedeemable(ctx context.Context, token string) (domain.Invitation, domain.Application, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return domain.Invitation{}, domain.Application{}, ErrInvalidToken
	}
	hash := cryptox.FingerprintToken(token)

	var (
		inv domain.Invitation
		app domain.Application
	)
	err := s.deps.Retry.Do(ctx, "lookup_invitation", func() error {
		var err error
		inv, err = s.deps.Store.Invitations().GetInvitationByTokenHash(ctx, hash)
		if errors.Is(err, store.ErrNotFound) {
			return ErrInvalidToken
		}
		if err != nil {
			return err
		}
		if !inv.Redeemable(s.now()) {
			return ErrInvalidToken
		}
		app, err = s.deps.Store.Applications().GetApplicationByID(ctx, inv.ApplicationID)
		return err
	})
	return inv, app, err
}

// Register redeems an invitation token into a user account and an active
// membership. The invitation is consumed with a compare-and-set inside the
// same transaction that creates the records, so of any number of concurrent
// redemptions exactly one succeeds.
func (s *AdmissionService) Register(ctx context.Context, in RegistrationInput) (domain.MemberProfile, error) {
	log := slogx.FromContext(ctx)
	defer s.deps.Metrics.ObserveOperation("register_member", time.Now())

	// 1. Validate input.
	fullName := strings.TrimSpace(in.FullName)
	phone := strings.TrimSpace(in.Phone)
	err := firstErr(
		required("full_name", fullName),
		maxLen("full_name", fullName, maxNameLen),
		validPhone(phone),
		s.validPassword(in.Password),
	)
	if err != nil {
		log.Warn("registration rejected by validation", slog.Any("error", err))
		return domain.MemberProfile{}, err
	}

	// 2. Pre-check the token so bad tokens never pay for a password hash.
	if _, _, err := s.findRedeemable(ctx, in.Token); err != nil {
		return domain.MemberProfile{}, s.registrationFailed(log, err)
	}

	// 3. Hash the password outside the transaction.
	hash, err := s.hashPassword(in.Password)
	if err != nil {
		log.Error("failed to hash password", slog.Any("error", err))
		s.deps.Metrics.IncRegistration("error")
		return domain.MemberProfile{}, fmt.Errorf("%w: hash password: %w", ErrInfrastructure, err)
	}

	// 4. Consume the invitation and create the member atomically.
	tokenHash := cryptox.FingerprintToken(strings.TrimSpace(in.Token))
	var profile domain.MemberProfile
	err = s.deps.Retry.Do(ctx, "register_member", func() error {
		return s.deps.Store.WithTx(ctx, func(tx store.Tx) error {
			var err error
			profile, err = s.redeemInTx(ctx, tx, tokenHash, fullName, phone, hash)
			return err
		})
	})
	if err != nil {
		return domain.MemberProfile{}, s.registrationFailed(log, err)
	}

	s.deps.Metrics.IncRegistration("ok")
	log.Info("member registered",
		slog.String("member_id", profile.ID),
		slog.String("user_id", profile.UserID),
	)

	// 5. Welcome them.
	s.deps.Notifier.Notify(ctx, notify.Message{
		To:      profile.Email,
		Kind:    notify.KindMemberWelcome,
		Payload: map[string]string{notify.KeyName: profile.FullName},
	})
	return profile, nil
}

func (s *AdmissionService) redeemInTx(
	ctx context.Context,
	tx store.Tx,
	tokenHash, fullName, phone, passwordHash string,
) (domain.MemberProfile, error) {
	now := s.now()

	inv, err := tx.Invitations().GetInvitationByTokenHash(ctx, tokenHash)
	if errors.Is(err, store.ErrNotFound) {
		return domain.MemberProfile{}, ErrInvalidToken
	}
	if err != nil {
		return domain.MemberProfile{}, err
	}
	if !inv.Redeemable(now) {
		return domain.MemberProfile{}, ErrInvalidToken
	}

	app, err := tx.Applications().GetApplicationByID(ctx, inv.ApplicationID)
	if err != nil {
		return domain.MemberProfile{}, err
	}

	switch err := tx.Invitations().MarkInvitationUsed(ctx, inv.ID, now); {
	case errors.Is(err, store.ErrConflict), errors.Is(err, store.ErrNotFound):
		return domain.MemberProfile{}, ErrInvalidToken
	case err != nil:
		return domain.MemberProfile{}, err
	}

	user := domain.User{
		ID:           idx.NewAt(now).String(),
		Email:        app.Email,
		PasswordHash: passwordHash,
		Role:         domain.RoleMember,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := tx.Users().CreateUser(ctx, user); err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			return domain.MemberProfile{}, fmt.Errorf("%w: email is already registered", ErrValidation)
		}
		return domain.MemberProfile{}, err
	}

	member := domain.Member{
		ID:           idx.NewAt(now).String(),
		UserID:       user.ID,
		InvitationID: inv.ID,
		FullName:     fullName,
		Phone:        phone,
		Active:       true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := tx.Members().CreateMember(ctx, member); err != nil {
		return domain.MemberProfile{}, err
	}

	return domain.MemberProfile{
		ID:       member.ID,
		UserID:   user.ID,
		Email:    user.Email,
		FullName: member.FullName,
		Phone:    member.Phone,
		Active:   true,
	}, nil
}

func (s *AdmissionService) validPassword(pw string) error {
	n := utf8.RuneCountInString(pw)
	if n < s.cfg.PasswordMinLength {
		return fmt.Errorf("%w: password must be at least %d characters", ErrValidation, s.cfg.PasswordMinLength)
	}
	if n > maxPasswordLen {
		return fmt.Errorf("%w: password exceeds %d characters", ErrValidation, maxPasswordLen)
	}
	return nil
}

func (s *AdmissionService) registrationFailed(log *slog.Logger, err error) error {
	switch {
	case errors.Is(err, ErrInvalidToken):
		s.deps.Metrics.IncRegistration("invalid_token")
		log.Warn("registration with unusable invitation token")
		return ErrInvalidToken
	case IsDomainError(err) && !errors.Is(err, ErrInfrastructure):
		s.deps.Metrics.IncRegistration("rejected")
		log.Warn("registration refused", slog.Any("error", err))
		return err
	default:
		s.deps.Metrics.IncRegistration("error")
		log.Error("registration failed", slog.Any("error", err))
		return infra(err)
	}
}
