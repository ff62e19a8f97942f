package services

import (
	"context"
	"testing"

	"brightnest/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordedEmail struct {
	template  string
	recipient string
	subject   string
	data      map[string]any
}

type fakeEmailSender struct {
	sent []recordedEmail
	err  error
}

func (f *fakeEmailSender) SendEmail(
	_ context.Context,
	template, recipient, subject string,
	data map[string]any,
) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, recordedEmail{template, recipient, subject, data})
	return nil
}

func TestDemoRedirectEmailSender(t *testing.T) {
	cfg := config.Config{
		DemoAccountEmail: "demo@brightnest.app",
		DemoPreviewEmail: "owner@brightnest.app",
	}

	t.Run("redirects demo recipient and rewrites subject", func(t *testing.T) {
		inner := &fakeEmailSender{}
		sender := NewDemoRedirectEmailSender(inner, cfg)

		err := sender.SendEmail(
			context.Background(),
			EmailTemplateUrgentJob,
			"demo@brightnest.app",
			"Urgent job nearby",
			map[string]any{"price": "120"},
		)
		require.NoError(t, err)

		require.Len(t, inner.sent, 1)
		assert.Equal(t, "owner@brightnest.app", inner.sent[0].recipient)
		assert.Equal(t, "[Demo] Urgent job nearby", inner.sent[0].subject)
		assert.Equal(t, EmailTemplateUrgentJob, inner.sent[0].template)
	})

	t.Run("passes through other recipients untouched", func(t *testing.T) {
		inner := &fakeEmailSender{}
		sender := NewDemoRedirectEmailSender(inner, cfg)

		err := sender.SendEmail(
			context.Background(),
			EmailTemplateUrgentJob,
			"cleaner@example.com",
			"Urgent job nearby",
			nil,
		)
		require.NoError(t, err)

		require.Len(t, inner.sent, 1)
		assert.Equal(t, "cleaner@example.com", inner.sent[0].recipient)
		assert.Equal(t, "Urgent job nearby", inner.sent[0].subject)
	})

	t.Run("no demo account configured returns inner sender", func(t *testing.T) {
		inner := &fakeEmailSender{}
		sender := NewDemoRedirectEmailSender(inner, config.Config{})
		assert.Same(t, inner, sender)
	})
}
