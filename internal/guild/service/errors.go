package service

import "errors"

// Domain failures. They are permanent: retrying the same call yields the
// same answer. Details are attached with fmt.Errorf("%w: ...").
var (
	ErrValidation        = errors.New("validation failed")
	ErrNotFound          = errors.New("not found")
	ErrAlreadyDecided    = errors.New("application already decided")
	ErrAlreadyTerminal   = errors.New("referral already in a terminal status")
	ErrInvalidToken      = errors.New("invitation token is invalid, used, or expired")
	ErrForbidden         = errors.New("forbidden")
	ErrSelfReferral      = errors.New("members cannot refer to themselves")
	ErrMemberInactive    = errors.New("member is inactive")
	ErrIllegalTransition = errors.New("illegal referral status transition")
)

// ErrInfrastructure wraps store, network and entropy failures that survived
// retrying. Callers report these as temporary.
var ErrInfrastructure = errors.New("infrastructure failure")

var domainErrors = []error{
	ErrValidation,
	ErrNotFound,
	ErrAlreadyDecided,
	ErrAlreadyTerminal,
	ErrInvalidToken,
	ErrForbidden,
	ErrSelfReferral,
	ErrMemberInactive,
	ErrIllegalTransition,
	ErrInfrastructure,
}

// IsDomainError reports whether err carries one of the service sentinels.
func IsDomainError(err error) bool {
	for _, target := range domainErrors {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
