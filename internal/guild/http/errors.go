package http

import (
	"errors"
	"net/http"

	"github.com/aussiebroadwan/guild/internal/guild/service"
	"github.com/aussiebroadwan/guild/pkg/guildsdk"
	"github.com/aussiebroadwan/guild/pkg/httpx"
	"github.com/aussiebroadwan/guild/pkg/slogx"
)

// invalidTokenDescription is shared by every unusable-token case so unknown,
// used and expired tokens cannot be told apart.
const invalidTokenDescription = "invitation token is invalid, used, or expired"

type errorMapping struct {
	target error
	status int
	code   string
}

var serviceErrors = []errorMapping{
	{service.ErrValidation, http.StatusBadRequest, guildsdk.ErrorCodeInvalidRequest},
	{service.ErrNotFound, http.StatusNotFound, guildsdk.ErrorCodeNotFound},
	{service.ErrAlreadyDecided, http.StatusConflict, guildsdk.ErrorCodeAlreadyDecided},
	{service.ErrAlreadyTerminal, http.StatusConflict, guildsdk.ErrorCodeAlreadyTerminal},
	{service.ErrForbidden, http.StatusForbidden, guildsdk.ErrorCodeForbidden},
	{service.ErrSelfReferral, http.StatusUnprocessableEntity, guildsdk.ErrorCodeSelfReferral},
	{service.ErrMemberInactive, http.StatusUnprocessableEntity, guildsdk.ErrorCodeMemberInactive},
	{service.ErrIllegalTransition, http.StatusUnprocessableEntity, guildsdk.ErrorCodeIllegalTransition},
}

// writeServiceError maps a service error onto the HTTP error contract.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidToken):
		httpx.WriteError(w, http.StatusBadRequest, guildsdk.ErrorCodeInvalidToken, invalidTokenDescription)
		return
	case errors.Is(err, service.ErrInfrastructure):
		w.Header().Set("Retry-After", "1")
		httpx.WriteError(w, http.StatusServiceUnavailable, guildsdk.ErrorCodeTemporarilyUnavailable,
			"the service is temporarily unavailable, try again shortly")
		return
	}

	for _, m := range serviceErrors {
		if errors.Is(err, m.target) {
			httpx.WriteError(w, m.status, m.code, err.Error())
			return
		}
	}

	slogx.FromContext(r.Context()).Error("unhandled service error", "error", err)
	httpx.WriteError(w, http.StatusInternalServerError, guildsdk.ErrorCodeServerError, "internal server error")
}

func writeBadBody(w http.ResponseWriter, err error) {
	httpx.WriteError(w, http.StatusBadRequest, guildsdk.ErrorCodeInvalidRequest, err.Error())
}
