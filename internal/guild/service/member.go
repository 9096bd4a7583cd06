package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/aussiebroadwan/guild/internal/guild/domain"
	"github.com/aussiebroadwan/guild/internal/guild/store"
	"github.com/aussiebroadwan/guild/pkg/slogx"
)

// MemberService is the member directory.
type MemberService struct {
	deps Deps
}

func NewMemberService(d Deps) *MemberService {
	return &MemberService{deps: d.withDefaults()}
}

// GetByUserID resolves an authenticated user to their membership.
func (s *MemberService) GetByUserID(ctx context.Context, userID string) (domain.MemberProfile, error) {
	var p domain.MemberProfile
	err := s.deps.Retry.Do(ctx, "get_member_by_user", func() error {
		m, err := s.deps.Store.Members().GetMemberByUserID(ctx, userID)
		if err != nil {
			return err
		}
		p, err = s.deps.Store.Members().GetMemberProfile(ctx, m.ID)
		return err
	})
	if errors.Is(err, store.ErrNotFound) {
		return domain.MemberProfile{}, fmt.Errorf("%w: no membership for user %s", ErrNotFound, userID)
	}
	return p, infra(err)
}

func (s *MemberService) Get(ctx context.Context, memberID string) (domain.MemberProfile, error) {
	var p domain.MemberProfile
	err := s.deps.Retry.Do(ctx, "get_member", func() error {
		var err error
		p, err = s.deps.Store.Members().GetMemberProfile(ctx, memberID)
		return err
	})
	if errors.Is(err, store.ErrNotFound) {
		return domain.MemberProfile{}, fmt.Errorf("%w: member %s", ErrNotFound, memberID)
	}
	return p, infra(err)
}

// ListActive returns active members ordered by join time.
func (s *MemberService) ListActive(ctx context.Context) ([]domain.MemberProfile, error) {
	return s.list(ctx, true)
}

// ListAll includes deactivated members.
func (s *MemberService) ListAll(ctx context.Context) ([]domain.MemberProfile, error) {
	return s.list(ctx, false)
}

func (s *MemberService) list(ctx context.Context, activeOnly bool) ([]domain.MemberProfile, error) {
	var out []domain.MemberProfile
	err := s.deps.Retry.Do(ctx, "list_members", func() error {
		var err error
		out, err = s.deps.Store.Members().ListMemberProfiles(ctx, activeOnly)
		return err
	})
	if err != nil {
		return nil, infra(err)
	}
	return out, nil
}

// SetActive deactivates or reactivates a member. Inactive members cannot
// send or receive new referrals.
func (s *MemberService) SetActive(ctx context.Context, memberID string, active bool) (domain.MemberProfile, error) {
	log := slogx.FromContext(ctx)

	var p domain.MemberProfile
	err := s.deps.Retry.Do(ctx, "set_member_active", func() error {
		return s.deps.Store.WithTx(ctx, func(tx store.Tx) error {
			if err := tx.Members().SetMemberActive(ctx, memberID, active, s.deps.now()); err != nil {
				return err
			}
			var err error
			p, err = tx.Members().GetMemberProfile(ctx, memberID)
			return err
		})
	})
	if errors.Is(err, store.ErrNotFound) {
		return domain.MemberProfile{}, fmt.Errorf("%w: member %s", ErrNotFound, memberID)
	}
	if err != nil {
		log.Error("failed to update member", slog.Any("error", err))
		return domain.MemberProfile{}, infra(err)
	}

	log.Info("member activation changed",
		slog.String("member_id", memberID),
		slog.Bool("active", active),
	)
	return p, nil
}
