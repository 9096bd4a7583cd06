package guildsdk

import (
	"context"
	"net/http"
)

// GetLiveness checks if the service is alive.
func (c *Client) GetLiveness(ctx context.Context) (*HealthResponse, error) {
	var out HealthResponse
	if err := c.do(ctx, http.MethodGet, "/livez", nil, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetReadiness checks if the service and its dependencies are ready.
func (c *Client) GetReadiness(ctx context.Context) (*HealthResponse, error) {
	var out HealthResponse
	if err := c.do(ctx, http.MethodGet, "/readyz", nil, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

// SubmitApplication applies for membership.
func (c *Client) SubmitApplication(ctx context.Context, req SubmitApplicationRequest) (*Application, error) {
	var out Application
	if err := c.do(ctx, http.MethodPost, "/v1/applications", req, &out, http.StatusCreated); err != nil {
		return nil, err
	}
	return &out, nil
}

// LookupInvitation checks whether an invitation token can still be
// redeemed. Unknown, used and expired tokens all answer Valid=false.
func (c *Client) LookupInvitation(ctx context.Context, token string) (*LookupInvitationResponse, error) {
	var out LookupInvitationResponse
	err := c.do(ctx, http.MethodPost, "/v1/invitations/lookup",
		LookupInvitationRequest{Token: token}, &out, http.StatusOK)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// RedeemInvitation turns an invitation token into a membership.
func (c *Client) RedeemInvitation(ctx context.Context, req RedeemInvitationRequest) (*Member, error) {
	var out Member
	if err := c.do(ctx, http.MethodPost, "/v1/invitations/redeem", req, &out, http.StatusCreated); err != nil {
		return nil, err
	}
	return &out, nil
}
