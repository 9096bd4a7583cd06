package http

import (
	"net/http"

	"github.com/aussiebroadwan/guild/internal/guild/service"
	"github.com/aussiebroadwan/guild/pkg/guildsdk"
	"github.com/aussiebroadwan/guild/pkg/httpx"
)

type InvitationsHandler struct {
	Admission *service.AdmissionService
}

// HandleLookup godoc
//
//	@Summary		Lookup Invitation
//	@Description	Check whether an invitation token can still be redeemed. Unknown, used and
//	@Description	expired tokens all answer valid=false.
//	@Tags			Invitations
//	@Accept			json
//	@Produce		json
//	@Param			request	body		guildsdk.LookupInvitationRequest	true	"token"
//	@Success		200		{object}	guildsdk.LookupInvitationResponse
//	@Failure		400		{object}	guildsdk.ErrorResponse	"invalid_request"
//	@Failure		503		{object}	guildsdk.ErrorResponse	"temporarily_unavailable"
//	@Router			/v1/invitations/lookup [post].
func (h *InvitationsHandler) HandleLookup(w http.ResponseWriter, r *http.Request) {
	var req guildsdk.LookupInvitationRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		writeBadBody(w, err)
		return
	}

	res, err := h.Admission.LookupInvitation(r.Context(), req.Token)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, guildsdk.LookupInvitationResponse{
		Valid: res.Valid,
		Email: res.Email,
	})
}

// HandleRedeem godoc
//
//	@Summary		Redeem Invitation
//	@Description	Redeem an invitation token into a user account and an active membership.
//	@Tags			Invitations
//	@Accept			json
//	@Produce		json
//	@Param			request	body		guildsdk.RedeemInvitationRequest	true	"token, full_name, phone, password"
//	@Success		201		{object}	guildsdk.Member
//	@Failure		400		{object}	guildsdk.ErrorResponse	"invalid_request or invalid_token"
//	@Failure		503		{object}	guildsdk.ErrorResponse	"temporarily_unavailable"
//	@Router			/v1/invitations/redeem [post].
func (h *InvitationsHandler) HandleRedeem(w http.ResponseWriter, r *http.Request) {
	var req guildsdk.RedeemInvitationRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		writeBadBody(w, err)
		return
	}

	member, err := h.Admission.Register(r.Context(), service.RegistrationInput{
		Token:    req.Token,
		FullName: req.FullName,
		Phone:    req.Phone,
		Password: req.Password,
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, toMember(member))
}
