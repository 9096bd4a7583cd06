package sqlstore

import (
	"context"
	"errors"
	"time"

	"github.com/aussiebroadwan/guild/internal/guild/domain"
	"github.com/aussiebroadwan/guild/internal/guild/store"
)

const referralColumns = `id, from_member_id, to_member_id, contact_name, contact_company, description, status, created_at, updated_at`

type referralsRepo struct {
	q *Queries
}

func scanReferral(s scanner) (domain.Referral, error) {
	var (
		ref    domain.Referral
		status string
	)
	err := s.Scan(&ref.ID, &ref.FromMemberID, &ref.ToMemberID, &ref.ContactName, &ref.ContactCompany,
		&ref.Description, &status, &ref.CreatedAt, &ref.UpdatedAt)
	if err != nil {
		return domain.Referral{}, err
	}
	ref.Status = domain.ReferralStatus(status)
	ref.CreatedAt = ref.CreatedAt.UTC()
	ref.UpdatedAt = ref.UpdatedAt.UTC()
	return ref, nil
}

func (r *referralsRepo) CreateReferral(ctx context.Context, ref domain.Referral) error {
	_, err := r.q.exec(ctx,
		`INSERT INTO referrals (`+referralColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		ref.ID, ref.FromMemberID, ref.ToMemberID, ref.ContactName, ref.ContactCompany,
		ref.Description, string(ref.Status), utc(ref.CreatedAt), utc(ref.UpdatedAt),
	)
	return err
}

func (r *referralsRepo) GetReferralByID(ctx context.Context, id string) (domain.Referral, error) {
	ref, err := scanReferral(r.q.queryRow(ctx, `SELECT `+referralColumns+` FROM referrals WHERE id = ?`, id))
	if err != nil {
		return domain.Referral{}, mapNotFound(err)
	}
	return ref, nil
}

func (r *referralsRepo) ListReferralsFrom(ctx context.Context, memberID string) ([]domain.Referral, error) {
	rows, err := r.q.query(ctx, `SELECT `+referralColumns+` FROM referrals WHERE from_member_id = ? ORDER BY id`, memberID)
	if err != nil {
		return nil, err
	}
	return collect(rows, scanReferral)
}

func (r *referralsRepo) ListReferralsTo(ctx context.Context, memberID string) ([]domain.Referral, error) {
	rows, err := r.q.query(ctx, `SELECT `+referralColumns+` FROM referrals WHERE to_member_id = ? ORDER BY id`, memberID)
	if err != nil {
		return nil, err
	}
	return collect(rows, scanReferral)
}

func (r *referralsRepo) UpdateReferralStatus(
	ctx context.Context,
	id string,
	from, to domain.ReferralStatus,
	at time.Time,
) error {
	err := r.q.execOne(ctx, store.ErrConflict,
		`UPDATE referrals SET status = ?, updated_at = ? WHERE id = ? AND status = ?`,
		string(to), utc(at), id, string(from),
	)
	if errors.Is(err, store.ErrConflict) {
		if _, getErr := r.GetReferralByID(ctx, id); errors.Is(getErr, store.ErrNotFound) {
			return store.ErrNotFound
		}
	}
	return err
}
