package guildsdk

import (
	"context"
	"net/http"
	"net/url"
)

// Me returns the caller's own membership.
func (c *Client) Me(ctx context.Context) (*Member, error) {
	var out Member
	if err := c.do(ctx, http.MethodGet, "/v1/members/me", nil, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

// ListMembers returns the active member directory.
func (c *Client) ListMembers(ctx context.Context) ([]Member, error) {
	var out MemberList
	if err := c.do(ctx, http.MethodGet, "/v1/members", nil, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return out.Members, nil
}

// CreateReferral passes a lead to another member.
func (c *Client) CreateReferral(ctx context.Context, req CreateReferralRequest) (*Referral, error) {
	var out Referral
	if err := c.do(ctx, http.MethodPost, "/v1/referrals", req, &out, http.StatusCreated); err != nil {
		return nil, err
	}
	return &out, nil
}

// ListReferrals returns the referrals the caller made and received.
func (c *Client) ListReferrals(ctx context.Context) (*ReferralList, error) {
	var out ReferralList
	if err := c.do(ctx, http.MethodGet, "/v1/referrals", nil, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) GetReferral(ctx context.Context, id string) (*Referral, error) {
	var out Referral
	if err := c.do(ctx, http.MethodGet, "/v1/referrals/"+url.PathEscape(id), nil, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateReferralStatus moves a received referral along its lifecycle.
func (c *Client) UpdateReferralStatus(ctx context.Context, id, status string) (*Referral, error) {
	var out Referral
	err := c.do(ctx, http.MethodPut, "/v1/referrals/"+url.PathEscape(id)+"/status",
		UpdateReferralStatusRequest{Status: status}, &out, http.StatusOK)
	if err != nil {
		return nil, err
	}
	return &out, nil
}
