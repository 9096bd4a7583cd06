package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/aussiebroadwan/guild/internal/guild/domain"
	"github.com/aussiebroadwan/guild/internal/guild/notify"
	"github.com/aussiebroadwan/guild/internal/guild/store"
	"github.com/aussiebroadwan/guild/pkg/idx"
	"github.com/aussiebroadwan/guild/pkg/slogx"
)

// ReferralInput describes a lead one member passes to another.
type ReferralInput struct {
	ToMemberID     string
	ContactName    string
	ContactCompany string
	Description    string
}

// ReferralLists splits a member's referrals by direction.
type ReferralLists struct {
	Made     []domain.Referral
	Received []domain.Referral
}

// ReferralService records referrals between members and moves them through
// the referral status table.
type ReferralService struct {
	deps Deps
}

func NewReferralService(d Deps) *ReferralService {
	return &ReferralService{deps: d.withDefaults()}
}

// Create sends a referral from one active member to another.
func (s *ReferralService) Create(ctx context.Context, fromMemberID string, in ReferralInput) (domain.Referral, error) {
	log := slogx.FromContext(ctx)
	defer s.deps.Metrics.ObserveOperation("create_referral", time.Now())

	toMemberID := strings.TrimSpace(in.ToMemberID)
	if fromMemberID == toMemberID {
		log.Warn("self referral refused", slog.String("member_id", fromMemberID))
		return domain.Referral{}, ErrSelfReferral
	}

	contactName := strings.TrimSpace(in.ContactName)
	contactCompany := strings.TrimSpace(in.ContactCompany)
	description := strings.TrimSpace(in.Description)
	err := firstErr(
		required("to_member_id", toMemberID),
		required("contact_name", contactName),
		maxLen("contact_name", contactName, maxNameLen),
		maxLen("contact_company", contactCompany, maxCompanyLen),
		maxLen("description", description, maxDescriptionLen),
	)
	if err != nil {
		log.Warn("referral rejected by validation", slog.Any("error", err))
		return domain.Referral{}, err
	}

	now := s.deps.now()
	ref := domain.Referral{
		ID:             idx.NewAt(now).String(),
		FromMemberID:   fromMemberID,
		ToMemberID:     toMemberID,
		ContactName:    contactName,
		ContactCompany: contactCompany,
		Description:    description,
		Status:         domain.ReferralSent,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	var from, to domain.MemberProfile
	err = s.deps.Retry.Do(ctx, "create_referral", func() error {
		return s.deps.Store.WithTx(ctx, func(tx store.Tx) error {
			var err error
			if from, err = memberProfile(ctx, tx, fromMemberID); err != nil {
				return err
			}
			if to, err = memberProfile(ctx, tx, toMemberID); err != nil {
				return err
			}
			for _, p := range []domain.MemberProfile{from, to} {
				if !p.Active {
					return fmt.Errorf("%w: member %s", ErrMemberInactive, p.ID)
				}
			}
			return tx.Referrals().CreateReferral(ctx, ref)
		})
	})
	if err != nil {
		logRefusal(log, "referral refused", err)
		return domain.Referral{}, infra(err)
	}

	s.deps.Metrics.IncReferral(string(ref.Status))
	log.Info("referral created",
		slog.String("referral_id", ref.ID),
		slog.String("from_member_id", ref.FromMemberID),
		slog.String("to_member_id", ref.ToMemberID),
	)

	s.deps.Notifier.Notify(ctx, notify.Message{
		To:   to.Email,
		Kind: notify.KindReferralReceived,
		Payload: map[string]string{
			notify.KeyName:        to.FullName,
			notify.KeyFromName:    from.FullName,
			notify.KeyContactName: ref.ContactName,
			notify.KeyReferralID:  ref.ID,
		},
	})
	return ref, nil
}

func memberProfile(ctx context.Context, tx store.Tx, memberID string) (domain.MemberProfile, error) {
	p, err := tx.Members().GetMemberProfile(ctx, memberID)
	if errors.Is(err, store.ErrNotFound) {
		return domain.MemberProfile{}, fmt.Errorf("%w: member %s", ErrNotFound, memberID)
	}
	return p, err
}

// ListForMember returns the referrals a member made and received.
func (s *ReferralService) ListForMember(ctx context.Context, memberID string) (ReferralLists, error) {
	var out ReferralLists
	err := s.deps.Retry.Do(ctx, "list_referrals", func() error {
		made, err := s.deps.Store.Referrals().ListReferralsFrom(ctx, memberID)
		if err != nil {
			return err
		}
		received, err := s.deps.Store.Referrals().ListReferralsTo(ctx, memberID)
		if err != nil {
			return err
		}
		out = ReferralLists{Made: made, Received: received}
		return nil
	})
	if err != nil {
		return ReferralLists{}, infra(err)
	}
	return out, nil
}

// Get returns a referral to either party.
func (s *ReferralService) Get(ctx context.Context, referralID, actorMemberID string) (domain.Referral, error) {
	var ref domain.Referral
	err := s.deps.Retry.Do(ctx, "get_referral", func() error {
		var err error
		ref, err = s.deps.Store.Referrals().GetReferralByID(ctx, referralID)
		return err
	})
	if errors.Is(err, store.ErrNotFound) {
		return domain.Referral{}, fmt.Errorf("%w: referral %s", ErrNotFound, referralID)
	}
	if err != nil {
		return domain.Referral{}, infra(err)
	}
	if !ref.Involves(actorMemberID) {
		return domain.Referral{}, ErrForbidden
	}
	return ref, nil
}

// UpdateStatus lets the receiving member move a referral along the status
// table. The write is a compare-and-set on the status that was read; losing
// a race re-reads and re-evaluates the move.
func (s *ReferralService) UpdateStatus(
	ctx context.Context,
	referralID, actorMemberID string,
	next domain.ReferralStatus,
) (domain.Referral, error) {
	log := slogx.FromContext(ctx).With(slog.String("referral_id", referralID))
	defer s.deps.Metrics.ObserveOperation("update_referral_status", time.Now())

	if !next.Valid() {
		return domain.Referral{}, fmt.Errorf("%w: unknown status %q", ErrValidation, next)
	}

	var (
		ref    domain.Referral
		sender domain.MemberProfile
	)
	err := s.deps.Retry.Do(ctx, "update_referral_status", func() error {
		return s.deps.Store.WithTx(ctx, func(tx store.Tx) error {
			var err error
			ref, err = tx.Referrals().GetReferralByID(ctx, referralID)
			if errors.Is(err, store.ErrNotFound) {
				return fmt.Errorf("%w: referral %s", ErrNotFound, referralID)
			}
			if err != nil {
				return err
			}

			switch {
			case ref.ToMemberID != actorMemberID:
				return fmt.Errorf("%w: only the receiving member may update a referral", ErrForbidden)
			case ref.Status.Terminal():
				return fmt.Errorf("%w: referral is %s", ErrAlreadyTerminal, ref.Status)
			case !domain.CanTransition(ref.Status, next):
				return fmt.Errorf("%w: %s -> %s", ErrIllegalTransition, ref.Status, next)
			}

			now := s.deps.now()
			// ErrConflict is retried: the next attempt sees the new status.
			if err := tx.Referrals().UpdateReferralStatus(ctx, ref.ID, ref.Status, next, now); err != nil {
				return err
			}
			ref.Status = next
			ref.UpdatedAt = now

			sender, err = tx.Members().GetMemberProfile(ctx, ref.FromMemberID)
			return err
		})
	})
	if err != nil {
		logRefusal(log, "referral status change refused", err)
		return domain.Referral{}, infra(err)
	}

	s.deps.Metrics.IncReferral(string(next))
	log.Info("referral status changed", slog.String("status", string(next)))

	s.deps.Notifier.Notify(ctx, notify.Message{
		To:   sender.Email,
		Kind: notify.KindReferralStatusChanged,
		Payload: map[string]string{
			notify.KeyName:        sender.FullName,
			notify.KeyContactName: ref.ContactName,
			notify.KeyReferralID:  ref.ID,
			notify.KeyStatus:      string(ref.Status),
		},
	})
	return ref, nil
}

func logRefusal(log *slog.Logger, msg string, err error) {
	if IsDomainError(err) && !errors.Is(err, ErrInfrastructure) {
		log.Warn(msg, slog.Any("error", err))
		return
	}
	log.Error(msg, slog.Any("error", err))
}
