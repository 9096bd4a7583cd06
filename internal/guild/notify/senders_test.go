package notify_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"github.com/aussiebroadwan/guild/internal/guild/notify"
	"github.com/stretchr/testify/require"
)

func TestLogSender_NeverLogsToken(t *testing.T) {
	var buf bytes.Buffer
	s := notify.LogSender{Logger: slog.New(slog.NewJSONHandler(&buf, nil))}

	err := s.Send(context.Background(), notify.Message{
		To:   "applicant@example.com",
		Kind: notify.KindInvitationCreated,
		Payload: map[string]string{
			notify.KeyName:  "Ada",
			notify.KeyToken: "super-secret-token",
		},
	})
	require.NoError(t, err)
	require.Contains(t, buf.String(), "invitation_created")
	require.Contains(t, buf.String(), "Ada")
	require.NotContains(t, buf.String(), "super-secret-token")
}

func TestMultiSender_JoinsErrors(t *testing.T) {
	rec := &recorder{}
	errA := errors.New("a failed")
	m := notify.MultiSender{
		notify.SenderFunc(func(context.Context, notify.Message) error { return errA }),
		rec,
	}

	err := m.Send(context.Background(), notify.Message{Kind: notify.KindMemberWelcome})
	require.ErrorIs(t, err, errA)
	require.Len(t, rec.all(), 1, "later senders still run")
}

func TestSMTPSender_Render(t *testing.T) {
	s, err := notify.NewSMTPSender(notify.SMTPConfig{
		Host:      "mail.example.com",
		From:      "guild@example.com",
		PublicURL: "https://guild.example.com/",
	})
	require.NoError(t, err)

	raw, err := s.Render(notify.Message{
		To:   "ada@example.com",
		Kind: notify.KindInvitationCreated,
		Payload: map[string]string{
			notify.KeyName:      "Ada",
			notify.KeyToken:     "tok123",
			notify.KeyExpiresAt: "2026-05-11T09:30:00Z",
		},
	})
	require.NoError(t, err)

	text := string(raw)
	require.Contains(t, text, "To: ada@example.com\r\n")
	require.Contains(t, text, "Subject: Your guild application was approved\r\n")
	require.Contains(t, text, "https://guild.example.com/join?token=tok123")
	require.Contains(t, text, "2026-05-11T09:30:00Z")
	require.NotContains(t, text, "<no value>")
}

func TestSMTPSender_RendersEveryKind(t *testing.T) {
	s, err := notify.NewSMTPSender(notify.SMTPConfig{Host: "localhost", From: "guild@example.com"})
	require.NoError(t, err)

	for _, kind := range []notify.Kind{
		notify.KindInvitationCreated,
		notify.KindApplicationRejected,
		notify.KindMemberWelcome,
		notify.KindReferralReceived,
		notify.KindReferralStatusChanged,
	} {
		raw, err := s.Render(notify.Message{To: "x@example.com", Kind: kind})
		require.NoError(t, err, kind)
		require.True(t, strings.HasPrefix(string(raw), "From: guild@example.com"), kind)
	}

	_, err = s.Render(notify.Message{Kind: "unknown"})
	require.Error(t, err)
}

func TestNewSMTPSender_RequiresHostAndFrom(t *testing.T) {
	_, err := notify.NewSMTPSender(notify.SMTPConfig{From: "a@b.c"})
	require.Error(t, err)
	_, err = notify.NewSMTPSender(notify.SMTPConfig{Host: "localhost"})
	require.Error(t, err)
}
