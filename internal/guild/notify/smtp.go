package notify

import (
	"bytes"
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"net"
	"net/smtp"
	"strconv"
	"strings"
	"text/template"
	"time"
)

// SMTPConfig holds the outbound mail settings.
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
	// PublicURL is where applicants redeem invitations, e.g.
	// https://guild.example.com. Templates build links from it.
	PublicURL string
}

// SMTPSender renders messages with text/template and delivers them over SMTP.
type SMTPSender struct {
	cfg       SMTPConfig
	addr      string
	templates map[Kind]*template.Template
}

// NewSMTPSender validates cfg and parses the built-in templates.
func NewSMTPSender(cfg SMTPConfig) (*SMTPSender, error) {
	cfg.Host = strings.TrimSpace(cfg.Host)
	cfg.From = strings.TrimSpace(cfg.From)
	if cfg.Host == "" {
		return nil, errors.New("notify: smtp host is required")
	}
	if cfg.From == "" {
		return nil, errors.New("notify: smtp from address is required")
	}
	if cfg.Port == 0 {
		cfg.Port = 587
	}
	cfg.PublicURL = strings.TrimRight(cfg.PublicURL, "/")

	tmpls, err := parseTemplates()
	if err != nil {
		return nil, err
	}

	return &SMTPSender{
		cfg:       cfg,
		addr:      net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port)),
		templates: tmpls,
	}, nil
}

// Render produces the full RFC 5322 message for msg.
func (s *SMTPSender) Render(msg Message) ([]byte, error) {
	tmpl, ok := s.templates[msg.Kind]
	if !ok {
		return nil, fmt.Errorf("notify: no template for %q", msg.Kind)
	}

	data := templateData{To: msg.To, PublicURL: s.cfg.PublicURL, P: msg.Payload}

	var subject, body bytes.Buffer
	if err := tmpl.ExecuteTemplate(&subject, "subject", data); err != nil {
		return nil, fmt.Errorf("notify: render subject: %w", err)
	}
	if err := tmpl.ExecuteTemplate(&body, "body", data); err != nil {
		return nil, fmt.Errorf("notify: render body: %w", err)
	}

	var out bytes.Buffer
	fmt.Fprintf(&out, "From: %s\r\n", s.cfg.From)
	fmt.Fprintf(&out, "To: %s\r\n", msg.To)
	fmt.Fprintf(&out, "Subject: %s\r\n", strings.TrimSpace(subject.String()))
	fmt.Fprintf(&out, "Date: %s\r\n", time.Now().UTC().Format(time.RFC1123Z))
	out.WriteString("MIME-Version: 1.0\r\n")
	out.WriteString("Content-Type: text/plain; charset=\"UTF-8\"\r\n\r\n")
	out.WriteString(strings.ReplaceAll(body.String(), "\n", "\r\n"))
	return out.Bytes(), nil
}

// Send delivers msg, honouring ctx's deadline for the whole SMTP exchange.
func (s *SMTPSender) Send(ctx context.Context, msg Message) error {
	raw, err := s.Render(msg)
	if err != nil {
		return err
	}

	var d net.Dialer
	conn, err := d.DialContext(ctx, "tcp", s.addr)
	if err != nil {
		return fmt.Errorf("notify: dial smtp: %w", err)
	}
	if deadline, ok := ctx.Deadline(); ok {
		_ = conn.SetDeadline(deadline)
	}

	c, err := smtp.NewClient(conn, s.cfg.Host)
	if err != nil {
		_ = conn.Close()
		return fmt.Errorf("notify: smtp handshake: %w", err)
	}
	defer c.Close()

	if ok, _ := c.Extension("STARTTLS"); ok {
		if err := c.StartTLS(&tls.Config{ServerName: s.cfg.Host, MinVersion: tls.VersionTLS12}); err != nil {
			return fmt.Errorf("notify: starttls: %w", err)
		}
	}
	if s.cfg.Username != "" {
		auth := smtp.PlainAuth("", s.cfg.Username, s.cfg.Password, s.cfg.Host)
		if err := c.Auth(auth); err != nil {
			return fmt.Errorf("notify: smtp auth: %w", err)
		}
	}

	if err := c.Mail(s.cfg.From); err != nil {
		return fmt.Errorf("notify: mail from: %w", err)
	}
	if err := c.Rcpt(msg.To); err != nil {
		return fmt.Errorf("notify: rcpt to: %w", err)
	}
	w, err := c.Data()
	if err != nil {
		return fmt.Errorf("notify: data: %w", err)
	}
	if _, err := w.Write(raw); err != nil {
		_ = w.Close()
		return fmt.Errorf("notify: write body: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("notify: finish body: %w", err)
	}
	return c.Quit()
}

type templateData struct {
	To        string
	PublicURL string
	P         map[string]string
}

var templateSources = map[Kind]string{
	KindInvitationCreated: `
{{define "subject"}}Your guild application was approved{{end}}
{{define "body"}}Hello {{.P.name}},

Your application to join the guild has been approved.

Complete your registration here:

{{.PublicURL}}/join?token={{.P.token}}

This link works once and expires at {{.P.expires_at}}.
{{end}}`,

	KindApplicationRejected: `
{{define "subject"}}Your guild application{{end}}
{{define "body"}}Hello {{.P.name}},

Thank you for applying. After review we are unable to offer membership at
this time.
{{end}}`,

	KindMemberWelcome: `
{{define "subject"}}Welcome to the guild{{end}}
{{define "body"}}Hello {{.P.name}},

Your membership is active. Sign in at {{.PublicURL}} to start exchanging
referrals with other members.
{{end}}`,

	KindReferralReceived: `
{{define "subject"}}New referral from {{.P.from_name}}{{end}}
{{define "body"}}Hello {{.P.name}},

{{.P.from_name}} referred {{.P.contact_name}} to you.

View it at {{.PublicURL}}/referrals/{{.P.referral_id}}
{{end}}`,

	KindReferralStatusChanged: `
{{define "subject"}}Referral update: {{.P.status}}{{end}}
{{define "body"}}Hello {{.P.name}},

Your referral of {{.P.contact_name}} is now {{.P.status}}.

View it at {{.PublicURL}}/referrals/{{.P.referral_id}}
{{end}}`,
}

func parseTemplates() (map[Kind]*template.Template, error) {
	out := make(map[Kind]*template.Template, len(templateSources))
	for kind, src := range templateSources {
		t, err := template.New(string(kind)).Option("missingkey=zero").Parse(src)
		if err != nil {
			return nil, fmt.Errorf("notify: parse %s template: %w", kind, err)
		}
		out[kind] = t
	}
	return out, nil
}
