package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/spec-kit/idea-portal/internal/config"
	"github.com/spec-kit/idea-portal/internal/events"
)

func TestNotificationService_Handle(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	svc := NewNotificationService(zap.New(core), config.NotificationConfig{
		EmailFrom:  "noreply@example.edu",
		WebhookURL: "https://hooks.example.edu/ideas",
	})

	assert.NoError(t, svc.Handle(context.Background(), events.Event{Type: events.EventIdeaReviewed, IdeaID: "i-1"}))
	assert.Equal(t, 1, logs.FilterMessage("sendEmailNotificationStub").Len())
	assert.Equal(t, 1, logs.FilterMessage("sendWebhookNotificationStub").Len())

	assert.NoError(t, svc.Handle(context.Background(), events.Event{Type: events.EventIdeaSubmitted, IdeaID: "i-2"}))
	assert.Equal(t, 1, logs.FilterMessage("sendEmailNotificationStub").Len())
	assert.Equal(t, 2, logs.FilterMessage("sendWebhookNotificationStub").Len())

	assert.Error(t, svc.Handle(context.Background(), events.Event{Type: "unknown"}))
}
