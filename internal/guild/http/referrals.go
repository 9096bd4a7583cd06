package http

import (
	"net/http"

	"github.com/aussiebroadwan/guild/internal/guild/domain"
	"github.com/aussiebroadwan/guild/internal/guild/service"
	"github.com/aussiebroadwan/guild/pkg/guildsdk"
	"github.com/aussiebroadwan/guild/pkg/httpx"
)

// ReferralsHandler serves the referral endpoints. Every call acts as the
// caller's own membership.
type ReferralsHandler struct {
	Referrals *service.ReferralService
	Members   *service.MemberService
}

// HandleCreate godoc
//
//	@Summary		Create Referral
//	@Description	Pass a business lead to another active member.
//	@Tags			Referrals
//	@Accept			json
//	@Produce		json
//	@Security		BearerAuth
//	@Param			request	body		guildsdk.CreateReferralRequest	true	"to_member_id, contact_name, contact_company, description"
//	@Success		201		{object}	guildsdk.Referral
//	@Failure		400		{object}	guildsdk.ErrorResponse	"invalid_request"
//	@Failure		404		{object}	guildsdk.ErrorResponse	"not_found"
//	@Failure		422		{object}	guildsdk.ErrorResponse	"self_referral or member_inactive"
//	@Router			/v1/referrals [post].
func (h *ReferralsHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	me, ok := currentMember(w, r, h.Members)
	if !ok {
		return
	}

	var req guildsdk.CreateReferralRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		writeBadBody(w, err)
		return
	}

	ref, err := h.Referrals.Create(r.Context(), me.ID, service.ReferralInput{
		ToMemberID:     req.ToMemberID,
		ContactName:    req.ContactName,
		ContactCompany: req.ContactCompany,
		Description:    req.Description,
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, toReferral(ref))
}

// HandleList godoc
//
//	@Summary	List My Referrals
//	@Tags		Referrals
//	@Produce	json
//	@Security	BearerAuth
//	@Success	200	{object}	guildsdk.ReferralList
//	@Router		/v1/referrals [get].
func (h *ReferralsHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	me, ok := currentMember(w, r, h.Members)
	if !ok {
		return
	}

	lists, err := h.Referrals.ListForMember(r.Context(), me.ID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, guildsdk.ReferralList{
		Made:     mapSlice(lists.Made, toReferral),
		Received: mapSlice(lists.Received, toReferral),
	})
}

// HandleGet godoc
//
//	@Summary	Get Referral
//	@Tags		Referrals
//	@Produce	json
//	@Security	BearerAuth
//	@Param		id	path		string	true	"Referral ID"
//	@Success	200	{object}	guildsdk.Referral
//	@Failure	403	{object}	guildsdk.ErrorResponse	"forbidden"
//	@Failure	404	{object}	guildsdk.ErrorResponse	"not_found"
//	@Router		/v1/referrals/{id} [get].
func (h *ReferralsHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	me, ok := currentMember(w, r, h.Members)
	if !ok {
		return
	}

	ref, err := h.Referrals.Get(r.Context(), r.PathValue("id"), me.ID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toReferral(ref))
}

// HandleUpdateStatus godoc
//
//	@Summary		Update Referral Status
//	@Description	The receiving member moves a referral: sent to negotiating or rejected,
//	@Description	negotiating to closed or rejected.
//	@Tags			Referrals
//	@Accept			json
//	@Produce		json
//	@Security		BearerAuth
//	@Param			id		path		string								true	"Referral ID"
//	@Param			request	body		guildsdk.UpdateReferralStatusRequest	true	"status"
//	@Success		200		{object}	guildsdk.Referral
//	@Failure		403		{object}	guildsdk.ErrorResponse	"forbidden"
//	@Failure		404		{object}	guildsdk.ErrorResponse	"not_found"
//	@Failure		409		{object}	guildsdk.ErrorResponse	"already_terminal"
//	@Failure		422		{object}	guildsdk.ErrorResponse	"illegal_transition"
//	@Router			/v1/referrals/{id}/status [put].
func (h *ReferralsHandler) HandleUpdateStatus(w http.ResponseWriter, r *http.Request) {
	me, ok := currentMember(w, r, h.Members)
	if !ok {
		return
	}

	var req guildsdk.UpdateReferralStatusRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		writeBadBody(w, err)
		return
	}

	ref, err := h.Referrals.UpdateStatus(r.Context(), r.PathValue("id"), me.ID, domain.ReferralStatus(req.Status))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toReferral(ref))
}
