package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/aussiebroadwan/guild/internal/guild/domain"
	"github.com/aussiebroadwan/guild/internal/guild/store"
)

const applicationColumns = `id, name, email, company, reason, status, reviewer_id, decided_at, created_at, updated_at`

type applicationsRepo struct {
	q *Queries
}

func scanApplication(s scanner) (domain.Application, error) {
	var (
		a        domain.Application
		status   string
		reviewer sql.NullString
		decided  sql.NullTime
	)
	err := s.Scan(&a.ID, &a.Name, &a.Email, &a.Company, &a.Reason, &status, &reviewer, &decided, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return domain.Application{}, err
	}
	a.Status = domain.ApplicationStatus(status)
	a.ReviewerID = mapNullString(reviewer)
	a.DecidedAt = mapNullTimePtr(decided)
	a.CreatedAt = a.CreatedAt.UTC()
	a.UpdatedAt = a.UpdatedAt.UTC()
	return a, nil
}

func (r *applicationsRepo) CreateApplication(ctx context.Context, a domain.Application) error {
	_, err := r.q.exec(ctx,
		`INSERT INTO applications (`+applicationColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		a.ID, a.Name, a.Email, a.Company, a.Reason, string(a.Status),
		mapStringNull(a.ReviewerID), nil, utc(a.CreatedAt), utc(a.UpdatedAt),
	)
	return err
}

func (r *applicationsRepo) GetApplicationByID(ctx context.Context, id string) (domain.Application, error) {
	row := r.q.queryRow(ctx, `SELECT `+applicationColumns+` FROM applications WHERE id = ?`, id)
	a, err := scanApplication(row)
	if err != nil {
		return domain.Application{}, mapNotFound(err)
	}
	return a, nil
}

func (r *applicationsRepo) ListApplications(ctx context.Context, status domain.ApplicationStatus) ([]domain.Application, error) {
	var (
		rows *sql.Rows
		err  error
	)
	if status == "" {
		rows, err = r.q.query(ctx, `SELECT `+applicationColumns+` FROM applications ORDER BY id`)
	} else {
		rows, err = r.q.query(ctx, `SELECT `+applicationColumns+` FROM applications WHERE status = ? ORDER BY id`, string(status))
	}
	if err != nil {
		return nil, err
	}
	return collect(rows, scanApplication)
}

func (r *applicationsRepo) DecideApplication(
	ctx context.Context,
	id string,
	status domain.ApplicationStatus,
	reviewerID string,
	at time.Time,
) error {
	err := r.q.execOne(ctx, store.ErrConflict,
		`UPDATE applications SET status = ?, reviewer_id = ?, decided_at = ?, updated_at = ?
		 WHERE id = ? AND status = ?`,
		string(status), reviewerID, utc(at), utc(at), id, string(domain.ApplicationPending),
	)
	if errors.Is(err, store.ErrConflict) {
		if _, getErr := r.GetApplicationByID(ctx, id); errors.Is(getErr, store.ErrNotFound) {
			return store.ErrNotFound
		}
	}
	return err
}
