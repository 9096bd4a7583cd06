package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/aussiebroadwan/guild/internal/guild/domain"
	"github.com/aussiebroadwan/guild/internal/guild/store"
	"github.com/aussiebroadwan/guild/pkg/idx"
	"github.com/aussiebroadwan/guild/pkg/slogx"
)

// ApplicationInput is what a prospective member fills in.
type ApplicationInput struct {
	Name    string
	Email   string
	Company string
	Reason  string
}

// ApplicationService owns application intake and the admin read side.
// Decisions live on AdmissionService because approval issues an invitation.
type ApplicationService struct {
	deps Deps
}

func NewApplicationService(d Deps) *ApplicationService {
	return &ApplicationService{deps: d.withDefaults()}
}

// Submit records a new pending application. Emails are not required to be
// unique; a person may apply again after a rejection.
func (s *ApplicationService) Submit(ctx context.Context, in ApplicationInput) (domain.Application, error) {
	log := slogx.FromContext(ctx)
	defer s.deps.Metrics.ObserveOperation("submit_application", time.Now())

	name := strings.TrimSpace(in.Name)
	company := strings.TrimSpace(in.Company)
	reason := strings.TrimSpace(in.Reason)
	email, err := normalizeEmail(in.Email)
	if err == nil {
		err = firstErr(
			required("name", name),
			maxLen("name", name, maxNameLen),
			maxLen("company", company, maxCompanyLen),
			maxLen("reason", reason, maxReasonLen),
		)
	}
	if err != nil {
		log.Warn("application rejected by validation", slog.Any("error", err))
		return domain.Application{}, err
	}

	now := s.deps.now()
	app := domain.Application{
		ID:        idx.NewAt(now).String(),
		Name:      name,
		Email:     email,
		Company:   company,
		Reason:    reason,
		Status:    domain.ApplicationPending,
		CreatedAt: now,
		UpdatedAt: now,
	}

	err = s.deps.Retry.Do(ctx, "submit_application", func() error {
		return s.deps.Store.Applications().CreateApplication(ctx, app)
	})
	if err != nil {
		log.Error("failed to store application", slog.Any("error", err))
		return domain.Application{}, infra(err)
	}

	s.deps.Metrics.IncApplicationSubmitted()
	log.Info("application submitted", slog.String("application_id", app.ID))
	return app, nil
}

// ListPending returns applications awaiting review, oldest first.
func (s *ApplicationService) ListPending(ctx context.Context) ([]domain.Application, error) {
	return s.list(ctx, domain.ApplicationPending)
}

// ListAll returns every application, oldest first.
func (s *ApplicationService) ListAll(ctx context.Context) ([]domain.Application, error) {
	return s.list(ctx, "")
}

func (s *ApplicationService) list(ctx context.Context, status domain.ApplicationStatus) ([]domain.Application, error) {
	var out []domain.Application
	err := s.deps.Retry.Do(ctx, "list_applications", func() error {
		var err error
		out, err = s.deps.Store.Applications().ListApplications(ctx, status)
		return err
	})
	if err != nil {
		return nil, infra(err)
	}
	return out, nil
}

func (s *ApplicationService) Get(ctx context.Context, id string) (domain.Application, error) {
	var app domain.Application
	err := s.deps.Retry.Do(ctx, "get_application", func() error {
		var err error
		app, err = s.deps.Store.Applications().GetApplicationByID(ctx, id)
		return err
	})
	if errors.Is(err, store.ErrNotFound) {
		return domain.Application{}, fmt.Errorf("%w: application %s", ErrNotFound, id)
	}
	if err != nil {
		return domain.Application{}, infra(err)
	}
	return app, nil
}

// infra makes sure an error escaping a service is either a domain error or
// wrapped in ErrInfrastructure.
func infra(err error) error {
	if err == nil || IsDomainError(err) {
		return err
	}
	return fmt.Errorf("%w: %w", ErrInfrastructure, err)
}
