// Package notify delivers the guild's outbound notifications. The admission
// and referral services hand messages to a Dispatcher after their
// transactions commit; delivery happens in the background.
package notify

import "context"

// Kind selects the template a message is rendered with.
type Kind string

const (
	KindInvitationCreated     Kind = "invitation_created"
	KindApplicationRejected   Kind = "application_rejected"
	KindMemberWelcome         Kind = "member_welcome"
	KindReferralReceived      Kind = "referral_received"
	KindReferralStatusChanged Kind = "referral_status_changed"
)

// Payload keys shared by the services and the templates.
const (
	KeyName        = "name"
	KeyToken       = "token"
	KeyExpiresAt   = "expires_at"
	KeyFromName    = "from_name"
	KeyContactName = "contact_name"
	KeyReferralID  = "referral_id"
	KeyStatus      = "status"
)

// sensitiveKeys never leave the process except through a Sender that
// delivers to the recipient.
var sensitiveKeys = map[string]bool{KeyToken: true}

// Message is one delivery request.
type Message struct {
	To      string
	Kind    Kind
	Payload map[string]string
}

// Notifier accepts messages for delivery. Implementations must not block on
// delivery.
type Notifier interface {
	Notify(ctx context.Context, msg Message)
}

// Sender performs the actual delivery of a single message.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// SenderFunc adapts a function to Sender.
type SenderFunc func(ctx context.Context, msg Message) error

func (f SenderFunc) Send(ctx context.Context, msg Message) error { return f(ctx, msg) }

// Discard drops every message.
var Discard Notifier = discard{}

type discard struct{}

func (discard) Notify(context.Context, Message) {}
