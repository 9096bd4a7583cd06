package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/aussiebroadwan/guild/internal/guild/domain"
	"github.com/aussiebroadwan/guild/internal/guild/store"
)

const invitationColumns = `id, application_id, token_hash, used, used_at, expires_at, created_at, updated_at`

type invitationsRepo struct {
	q *Queries
}

func scanInvitation(s scanner) (domain.Invitation, error) {
	var (
		inv    domain.Invitation
		usedAt sql.NullTime
	)
	err := s.Scan(&inv.ID, &inv.ApplicationID, &inv.TokenHash, &inv.Used, &usedAt, &inv.ExpiresAt, &inv.CreatedAt, &inv.UpdatedAt)
	if err != nil {
		return domain.Invitation{}, err
	}
	inv.UsedAt = mapNullTimePtr(usedAt)
	inv.ExpiresAt = inv.ExpiresAt.UTC()
	inv.CreatedAt = inv.CreatedAt.UTC()
	inv.UpdatedAt = inv.UpdatedAt.UTC()
	return inv, nil
}

func (r *invitationsRepo) CreateInvitation(ctx context.Context, inv domain.Invitation) error {
	_, err := r.q.exec(ctx,
		`INSERT INTO invitations (`+invitationColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		inv.ID, inv.ApplicationID, inv.TokenHash, false, nil,
		utc(inv.ExpiresAt), utc(inv.CreatedAt), utc(inv.UpdatedAt),
	)
	return err
}

func (r *invitationsRepo) getOne(ctx context.Context, where string, arg any) (domain.Invitation, error) {
	row := r.q.queryRow(ctx, `SELECT `+invitationColumns+` FROM invitations WHERE `+where+` = ?`, arg)
	inv, err := scanInvitation(row)
	if err != nil {
		return domain.Invitation{}, mapNotFound(err)
	}
	return inv, nil
}

func (r *invitationsRepo) GetInvitationByID(ctx context.Context, id string) (domain.Invitation, error) {
	return r.getOne(ctx, "id", id)
}

func (r *invitationsRepo) GetInvitationByTokenHash(ctx context.Context, hash string) (domain.Invitation, error) {
	return r.getOne(ctx, "token_hash", hash)
}

func (r *invitationsRepo) GetInvitationByApplicationID(ctx context.Context, applicationID string) (domain.Invitation, error) {
	return r.getOne(ctx, "application_id", applicationID)
}

func (r *invitationsRepo) MarkInvitationUsed(ctx context.Context, id string, at time.Time) error {
	err := r.q.execOne(ctx, store.ErrConflict,
		`UPDATE invitations SET used = ?, used_at = ?, updated_at = ? WHERE id = ? AND used = ?`,
		true, utc(at), utc(at), id, false,
	)
	if errors.Is(err, store.ErrConflict) {
		if _, getErr := r.GetInvitationByID(ctx, id); errors.Is(getErr, store.ErrNotFound) {
			return store.ErrNotFound
		}
	}
	return err
}

func (r *invitationsRepo) ListUnusedInvitations(ctx context.Context) ([]domain.Invitation, error) {
	rows, err := r.q.query(ctx, `SELECT `+invitationColumns+` FROM invitations WHERE used = ? ORDER BY id`, false)
	if err != nil {
		return nil, err
	}
	return collect(rows, scanInvitation)
}
