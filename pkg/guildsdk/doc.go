// Package guildsdk is the Go client for the guild admission and referral
// service.
//
// Public endpoints (applying, checking and redeeming an invitation) are
// available on a bare Client:
//
//	c := guildsdk.NewClient("https://guild.example.com")
//	app, err := c.SubmitApplication(ctx, guildsdk.SubmitApplicationRequest{
//		Name:  "Ana",
//		Email: "ana@example.com",
//	})
//
// Member and admin endpoints need a bearer token minted by the identity
// provider:
//
//	admin := c.WithToken(accessToken)
//	res, err := admin.DecideApplication(ctx, app.ID, guildsdk.DecisionApprove)
//
// Failed calls return an *APIError carrying the HTTP status and the error
// code from the response body:
//
//	var apiErr *guildsdk.APIError
//	if errors.As(err, &apiErr) && apiErr.Code == guildsdk.ErrorCodeInvalidToken {
//		// unknown, used, or expired invitation
//	}
package guildsdk
