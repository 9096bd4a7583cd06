package guildsdk

import (
	"context"
	"net/http"
	"net/url"
)

// ListApplications lists applications by status: StatusPending (the
// default when empty) or StatusAll.
// Requires: admin role
func (c *Client) ListApplications(ctx context.Context, status string) ([]Application, error) {
	path := "/v1/applications"
	if status != "" {
		path += "?status=" + url.QueryEscape(status)
	}
	var out ApplicationList
	if err := c.do(ctx, http.MethodGet, path, nil, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return out.Applications, nil
}

// GetApplication fetches one application.
// Requires: admin role
func (c *Client) GetApplication(ctx context.Context, id string) (*Application, error) {
	var out Application
	if err := c.do(ctx, http.MethodGet, "/v1/applications/"+url.PathEscape(id), nil, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

// DecideApplication approves or rejects a pending application. Approvals
// return the raw invitation token.
// Requires: admin role
func (c *Client) DecideApplication(ctx context.Context, id, decision string) (*DecisionResponse, error) {
	var out DecisionResponse
	err := c.do(ctx, http.MethodPost, "/v1/applications/"+url.PathEscape(id)+"/decision",
		DecisionRequest{Decision: decision}, &out, http.StatusOK)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// SetMemberActive deactivates or reactivates a member.
// Requires: admin role
func (c *Client) SetMemberActive(ctx context.Context, memberID string, active bool) (*Member, error) {
	var out Member
	err := c.do(ctx, http.MethodPut, "/v1/members/"+url.PathEscape(memberID)+"/active",
		SetActiveRequest{Active: active}, &out, http.StatusOK)
	if err != nil {
		return nil, err
	}
	return &out, nil
}
