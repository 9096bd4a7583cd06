package http

import (
	"net/http"

	"github.com/aussiebroadwan/guild/internal/guild/domain"
	"github.com/aussiebroadwan/guild/internal/guild/service"
	"github.com/aussiebroadwan/guild/pkg/guildsdk"
	"github.com/aussiebroadwan/guild/pkg/httpx"
)

type ApplicationsHandler struct {
	Applications *service.ApplicationService
	Admission    *service.AdmissionService
}

// HandleSubmit godoc
//
//	@Summary		Submit Application
//	@Description	Apply for membership. The application waits for an admin decision.
//	@Tags			Applications
//	@Accept			json
//	@Produce		json
//	@Param			request	body		guildsdk.SubmitApplicationRequest	true	"name, email, company, reason"
//	@Success		201		{object}	guildsdk.Application
//	@Failure		400		{object}	guildsdk.ErrorResponse	"invalid_request"
//	@Failure		429		{object}	guildsdk.ErrorResponse	"rate_limit_exceeded"
//	@Failure		503		{object}	guildsdk.ErrorResponse	"temporarily_unavailable"
//	@Router			/v1/applications [post].
func (h *ApplicationsHandler) HandleSubmit(w http.ResponseWriter, r *http.Request) {
	var req guildsdk.SubmitApplicationRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		writeBadBody(w, err)
		return
	}

	app, err := h.Applications.Submit(r.Context(), service.ApplicationInput{
		Name:    req.Name,
		Email:   req.Email,
		Company: req.Company,
		Reason:  req.Reason,
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, toApplication(app))
}

// HandleList godoc
//
//	@Summary		List Applications
//	@Description	List applications, oldest first. Defaults to pending ones.
//	@Tags			Applications
//	@Produce		json
//	@Security		BearerAuth
//	@Param			status	query		string	false	"pending (default) or all"	Enums(pending, all)
//	@Success		200		{object}	guildsdk.ApplicationList
//	@Failure		400		{object}	guildsdk.ErrorResponse	"invalid_request"
//	@Failure		401		{object}	guildsdk.ErrorResponse	"invalid_token"
//	@Failure		403		{object}	guildsdk.ErrorResponse	"forbidden"
//	@Router			/v1/applications [get].
func (h *ApplicationsHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	var (
		apps []domain.Application
		err  error
	)
	switch r.URL.Query().Get("status") {
	case "", guildsdk.StatusPending:
		apps, err = h.Applications.ListPending(r.Context())
	case guildsdk.StatusAll:
		apps, err = h.Applications.ListAll(r.Context())
	default:
		httpx.WriteError(w, http.StatusBadRequest, guildsdk.ErrorCodeInvalidRequest, "status must be pending or all")
		return
	}
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, guildsdk.ApplicationList{
		Applications: mapSlice(apps, toApplication),
	})
}

// HandleGet godoc
//
//	@Summary	Get Application
//	@Tags		Applications
//	@Produce	json
//	@Security	BearerAuth
//	@Param		id	path		string	true	"Application ID"
//	@Success	200	{object}	guildsdk.Application
//	@Failure	404	{object}	guildsdk.ErrorResponse	"not_found"
//	@Router		/v1/applications/{id} [get].
func (h *ApplicationsHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	app, err := h.Applications.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toApplication(app))
}

// HandleDecide godoc
//
//	@Summary		Decide Application
//	@Description	Approve or reject a pending application. Approval issues a single-use
//	@Description	invitation and returns its raw token; the token is not retrievable later.
//	@Tags			Applications
//	@Accept			json
//	@Produce		json
//	@Security		BearerAuth
//	@Param			id		path		string						true	"Application ID"
//	@Param			request	body		guildsdk.DecisionRequest	true	"approve or reject"
//	@Success		200		{object}	guildsdk.DecisionResponse
//	@Failure		400		{object}	guildsdk.ErrorResponse	"invalid_request"
//	@Failure		404		{object}	guildsdk.ErrorResponse	"not_found"
//	@Failure		409		{object}	guildsdk.ErrorResponse	"already_decided"
//	@Failure		503		{object}	guildsdk.ErrorResponse	"temporarily_unavailable"
//	@Router			/v1/applications/{id}/decision [post].
func (h *ApplicationsHandler) HandleDecide(w http.ResponseWriter, r *http.Request) {
	actor, _ := httpx.ActorFrom(r.Context())

	var req guildsdk.DecisionRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		writeBadBody(w, err)
		return
	}

	res, err := h.Admission.Decide(r.Context(), r.PathValue("id"), actor.UserID, domain.Decision(req.Decision))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	resp := guildsdk.DecisionResponse{Application: toApplication(res.Application)}
	if res.Invitation != nil {
		resp.Invitation = &guildsdk.Invitation{
			ID:        res.Invitation.ID,
			ExpiresAt: res.Invitation.ExpiresAt,
		}
		resp.Token = res.Token
	}
	httpx.WriteJSON(w, http.StatusOK, resp)
}
