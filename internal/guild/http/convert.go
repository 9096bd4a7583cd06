package http

import (
	"github.com/aussiebroadwan/guild/internal/guild/domain"
	"github.com/aussiebroadwan/guild/pkg/guildsdk"
)

func toApplication(a domain.Application) guildsdk.Application {
	return guildsdk.Application{
		ID:         a.ID,
		Name:       a.Name,
		Email:      a.Email,
		Company:    a.Company,
		Reason:     a.Reason,
		Status:     string(a.Status),
		ReviewerID: a.ReviewerID,
		DecidedAt:  a.DecidedAt,
		CreatedAt:  a.CreatedAt,
		UpdatedAt:  a.UpdatedAt,
	}
}

func toMember(p domain.MemberProfile) guildsdk.Member {
	return guildsdk.Member{
		ID:       p.ID,
		UserID:   p.UserID,
		Email:    p.Email,
		FullName: p.FullName,
		Phone:    p.Phone,
		Active:   p.Active,
	}
}

func toReferral(r domain.Referral) guildsdk.Referral {
	return guildsdk.Referral{
		ID:             r.ID,
		FromMemberID:   r.FromMemberID,
		ToMemberID:     r.ToMemberID,
		ContactName:    r.ContactName,
		ContactCompany: r.ContactCompany,
		Description:    r.Description,
		Status:         string(r.Status),
		CreatedAt:      r.CreatedAt,
		UpdatedAt:      r.UpdatedAt,
	}
}

// mapSlice never returns nil so empty lists encode as [].
func mapSlice[T, U any](in []T, fn func(T) U) []U {
	out := make([]U, 0, len(in))
	for _, v := range in {
		out = append(out, fn(v))
	}
	return out
}
