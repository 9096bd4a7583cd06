package sqlstore

import (
	"context"
	"time"

	"github.com/aussiebroadwan/guild/internal/guild/domain"
	"github.com/aussiebroadwan/guild/internal/guild/store"
)

const memberColumns = `id, user_id, invitation_id, full_name, phone, active, created_at, updated_at`

const profileSelect = `SELECT m.id, m.user_id, u.email, m.full_name, m.phone, m.active
	FROM members m JOIN users u ON u.id = m.user_id`

type membersRepo struct {
	q *Queries
}

func scanMember(s scanner) (domain.Member, error) {
	var m domain.Member
	err := s.Scan(&m.ID, &m.UserID, &m.InvitationID, &m.FullName, &m.Phone, &m.Active, &m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		return domain.Member{}, err
	}
	m.CreatedAt = m.CreatedAt.UTC()
	m.UpdatedAt = m.UpdatedAt.UTC()
	return m, nil
}

func scanProfile(s scanner) (domain.MemberProfile, error) {
	var p domain.MemberProfile
	if err := s.Scan(&p.ID, &p.UserID, &p.Email, &p.FullName, &p.Phone, &p.Active); err != nil {
		return domain.MemberProfile{}, err
	}
	return p, nil
}

func (r *membersRepo) CreateMember(ctx context.Context, m domain.Member) error {
	_, err := r.q.exec(ctx,
		`INSERT INTO members (`+memberColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		m.ID, m.UserID, m.InvitationID, m.FullName, m.Phone, m.Active, utc(m.CreatedAt), utc(m.UpdatedAt),
	)
	return err
}

func (r *membersRepo) GetMemberByID(ctx context.Context, id string) (domain.Member, error) {
	m, err := scanMember(r.q.queryRow(ctx, `SELECT `+memberColumns+` FROM members WHERE id = ?`, id))
	if err != nil {
		return domain.Member{}, mapNotFound(err)
	}
	return m, nil
}

func (r *membersRepo) GetMemberByUserID(ctx context.Context, userID string) (domain.Member, error) {
	m, err := scanMember(r.q.queryRow(ctx, `SELECT `+memberColumns+` FROM members WHERE user_id = ?`, userID))
	if err != nil {
		return domain.Member{}, mapNotFound(err)
	}
	return m, nil
}

func (r *membersRepo) GetMemberProfile(ctx context.Context, id string) (domain.MemberProfile, error) {
	p, err := scanProfile(r.q.queryRow(ctx, profileSelect+` WHERE m.id = ?`, id))
	if err != nil {
		return domain.MemberProfile{}, mapNotFound(err)
	}
	return p, nil
}

func (r *membersRepo) ListMemberProfiles(ctx context.Context, activeOnly bool) ([]domain.MemberProfile, error) {
	query := profileSelect + ` ORDER BY m.id`
	var args []any
	if activeOnly {
		query = profileSelect + ` WHERE m.active = ? ORDER BY m.id`
		args = append(args, true)
	}
	rows, err := r.q.query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	return collect(rows, scanProfile)
}

func (r *membersRepo) SetMemberActive(ctx context.Context, id string, active bool, at time.Time) error {
	return r.q.execOne(ctx, store.ErrNotFound,
		`UPDATE members SET active = ?, updated_at = ? WHERE id = ?`,
		active, utc(at), id,
	)
}
