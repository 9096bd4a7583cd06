package http

import (
	"errors"
	"net/http"

	"github.com/aussiebroadwan/guild/internal/guild/domain"
	"github.com/aussiebroadwan/guild/internal/guild/service"
	"github.com/aussiebroadwan/guild/pkg/guildsdk"
	"github.com/aussiebroadwan/guild/pkg/httpx"
)

type MembersHandler struct {
	Members *service.MemberService
}

// HandleList godoc
//
//	@Summary	List Members
//	@Tags		Members
//	@Produce	json
//	@Security	BearerAuth
//	@Success	200	{object}	guildsdk.MemberList
//	@Failure	401	{object}	guildsdk.ErrorResponse	"invalid_token"
//	@Router		/v1/members [get].
func (h *MembersHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	members, err := h.Members.ListActive(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, guildsdk.MemberList{Members: mapSlice(members, toMember)})
}

// HandleMe godoc
//
//	@Summary	Current Member
//	@Tags		Members
//	@Produce	json
//	@Security	BearerAuth
//	@Success	200	{object}	guildsdk.Member
//	@Failure	401	{object}	guildsdk.ErrorResponse	"invalid_token"
//	@Failure	403	{object}	guildsdk.ErrorResponse	"forbidden"
//	@Router		/v1/members/me [get].
func (h *MembersHandler) HandleMe(w http.ResponseWriter, r *http.Request) {
	me, ok := currentMember(w, r, h.Members)
	if !ok {
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toMember(me))
}

// HandleSetActive godoc
//
//	@Summary		Set Member Active
//	@Description	Deactivate or reactivate a member. Inactive members cannot send or receive referrals.
//	@Tags			Members
//	@Accept			json
//	@Produce		json
//	@Security		BearerAuth
//	@Param			id		path		string						true	"Member ID"
//	@Param			request	body		guildsdk.SetActiveRequest	true	"active"
//	@Success		200		{object}	guildsdk.Member
//	@Failure		404		{object}	guildsdk.ErrorResponse	"not_found"
//	@Router			/v1/members/{id}/active [put].
func (h *MembersHandler) HandleSetActive(w http.ResponseWriter, r *http.Request) {
	var req guildsdk.SetActiveRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		writeBadBody(w, err)
		return
	}

	p, err := h.Members.SetActive(r.Context(), r.PathValue("id"), req.Active)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toMember(p))
}

// currentMember resolves the authenticated caller to their membership. An
// admin without one is refused.
func currentMember(w http.ResponseWriter, r *http.Request, members *service.MemberService) (domain.MemberProfile, bool) {
	actor, _ := httpx.ActorFrom(r.Context())

	p, err := members.GetByUserID(r.Context(), actor.UserID)
	if errors.Is(err, service.ErrNotFound) {
		httpx.WriteError(w, http.StatusForbidden, guildsdk.ErrorCodeForbidden, "caller has no membership")
		return domain.MemberProfile{}, false
	}
	if err != nil {
		writeServiceError(w, r, err)
		return domain.MemberProfile{}, false
	}
	return p, true
}
