package services

import (
	"context"

	"brightnest/config"
	"brightnest/internal/events"
	"brightnest/internal/logger"
)

// Email template names consumed by the delivery worker.
const (
	EmailTemplateUrgentJob        = "urgent_job"
	EmailTemplatePreferredCleaner = "preferred_cleaner"
)

// EmailSender delivers templated email. Delivery is fire-and-forget; an error
// means the handoff failed, not that the mail bounced.
type EmailSender interface {
	SendEmail(ctx context.Context, template, recipient, subject string, data map[string]any) error
}

// PushSender delivers a push notification to a device token.
type PushSender interface {
	SendPush(ctx context.Context, token, title, body string, data map[string]any) error
}

// eventBusEmailSender hands email off to the delivery worker via the outbound
// pub/sub channel. The SMTP relay itself lives outside this service.
type eventBusEmailSender struct {
	eventBus *events.EventBus
	log      logger.Logger
}

func NewEmailSender(eventBus *events.EventBus) EmailSender {
	return &eventBusEmailSender{
		eventBus: eventBus,
		log:      logger.New("emailSender"),
	}
}

func (s *eventBusEmailSender) SendEmail(
	ctx context.Context,
	template, recipient, subject string,
	data map[string]any,
) error {
	log := s.log.Function("SendEmail")

	err := s.eventBus.Publish(events.EMAIL_OUTBOUND_CHANNEL, events.Event{
		Type: events.EMAIL_SEND,
		Data: map[string]any{
			"template":  template,
			"recipient": recipient,
			"subject":   subject,
			"fields":    data,
		},
	})
	if err != nil {
		return log.Err("failed to enqueue email", err, "template", template)
	}

	return nil
}

type eventBusPushSender struct {
	eventBus *events.EventBus
	log      logger.Logger
}

func NewPushSender(eventBus *events.EventBus) PushSender {
	return &eventBusPushSender{
		eventBus: eventBus,
		log:      logger.New("pushSender"),
	}
}

func (s *eventBusPushSender) SendPush(
	ctx context.Context,
	token, title, body string,
	data map[string]any,
) error {
	log := s.log.Function("SendPush")

	err := s.eventBus.Publish(events.PUSH_OUTBOUND_CHANNEL, events.Event{
		Type: events.PUSH_SEND,
		Data: map[string]any{
			"token": token,
			"title": title,
			"body":  body,
			"data":  data,
		},
	})
	if err != nil {
		return log.Err("failed to enqueue push", err)
	}

	return nil
}

// demoRedirectEmailSender reroutes mail addressed to the demo account to the
// preview owner, rewriting the subject so the owner can tell it apart from
// their own mail. Wrapping the sender keeps the redirect out of every call
// site.
type demoRedirectEmailSender struct {
	inner        EmailSender
	demoEmail    string
	previewEmail string
	log          logger.Logger
}

func NewDemoRedirectEmailSender(inner EmailSender, config config.Config) EmailSender {
	if config.DemoAccountEmail == "" {
		return inner
	}

	return &demoRedirectEmailSender{
		inner:        inner,
		demoEmail:    config.DemoAccountEmail,
		previewEmail: config.DemoPreviewEmail,
		log:          logger.New("demoRedirectEmailSender"),
	}
}

func (s *demoRedirectEmailSender) SendEmail(
	ctx context.Context,
	template, recipient, subject string,
	data map[string]any,
) error {
	if recipient == s.demoEmail {
		s.log.Function("SendEmail").Info("redirecting demo account email",
			"template", template, "previewRecipient", s.previewEmail)
		recipient = s.previewEmail
		subject = "[Demo] " + subject
	}

	return s.inner.SendEmail(ctx, template, recipient, subject, data)
}
