package service

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/sitecms/internal/db"
	sitemail "github.com/sitecms/internal/mail"
	"github.com/sitecms/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

type recordingMailer struct {
	mu   sync.Mutex
	sent []sitemail.Message
	err  error
}

func (m *recordingMailer) Send(_ context.Context, msg sitemail.Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, msg)
	return nil
}

func validContact() ContactInput {
	return ContactInput{
		Name:    "Grace",
		Email:   "grace@example.org",
		Company: "Navy",
		Subject: "Project inquiry",
		Message: "We would like a quote for a new website.",
	}
}

func TestContactServiceSubmitDelivers(t *testing.T) {
	ctx := context.Background()
	repos := newTestRepositories(t)
	settings := NewSystemSettingService(repos.Settings)
	mailer := &recordingMailer{}
	svc := NewContactService(repos.ContactMessages, mailer, settings, "default@example.com")

	msg, err := svc.Submit(ctx, validContact())
	require.NoError(t, err)
	assert.True(t, msg.Delivered)
	require.Len(t, mailer.sent, 1)
	assert.Equal(t, "default@example.com", mailer.sent[0].To)
	assert.Equal(t, "grace@example.org", mailer.sent[0].ReplyTo)
	assert.Equal(t, "[Contact] Project inquiry", mailer.sent[0].Subject)
	assert.True(t, strings.Contains(mailer.sent[0].Body, "Company: Navy"))

	_, err = settings.UpdateSettings(ctx, SystemSettingsInput{ContactRecipient: "sales@example.com"})
	require.NoError(t, err)
	_, err = svc.Submit(ctx, validContact())
	require.NoError(t, err)
	assert.Equal(t, "sales@example.com", mailer.sent[1].To)

	page, err := svc.List(ctx, 1, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(2), page.Total)
}

func TestContactServiceRecordsDeliveryFailure(t *testing.T) {
	ctx := context.Background()
	repos := newTestRepositories(t)
	mailer := &recordingMailer{err: errors.New("connection refused")}
	svc := NewContactService(repos.ContactMessages, mailer, nil, "default@example.com")

	msg, err := svc.Submit(ctx, validContact())
	require.ErrorIs(t, err, ErrDeliveryFailed)
	require.NotNil(t, msg)
	assert.False(t, msg.Delivered)
	assert.Equal(t, "connection refused", msg.DeliveryError)

	stored, err := repos.ContactMessages.Get(ctx, msg.ID)
	require.NoError(t, err)
	assert.Equal(t, "connection refused", stored.DeliveryError)
}

// lockedUpdates accepts inserts but fails every update.
type lockedUpdates struct {
	store.Repository[db.ContactMessage]
}

func (lockedUpdates) Update(context.Context, *db.ContactMessage) error {
	return errors.New("database is locked")
}

func TestContactServiceKeepsMessageWhenStatusUpdateFails(t *testing.T) {
	ctx := context.Background()
	repos := newTestRepositories(t)
	mailer := &recordingMailer{}
	core, logs := observer.New(zapcore.WarnLevel)
	svc := NewContactService(lockedUpdates{repos.ContactMessages}, mailer, nil, "owner@example.com")
	svc.logger = zap.New(core)

	msg, err := svc.Submit(ctx, validContact())
	require.NoError(t, err)
	require.NotNil(t, msg)
	assert.NotZero(t, msg.ID)
	assert.True(t, msg.Delivered)
	require.Len(t, mailer.sent, 1, "the mail went out exactly once")
	assert.Equal(t, 1, logs.FilterMessage("record contact delivery status").Len())

	stored, err := repos.ContactMessages.Get(ctx, msg.ID)
	require.NoError(t, err)
	assert.False(t, stored.Delivered)

	mailer.err = errors.New("connection refused")
	msg, err = svc.Submit(ctx, validContact())
	require.ErrorIs(t, err, ErrDeliveryFailed)
	require.NotNil(t, msg)
	assert.Equal(t, 2, logs.FilterMessage("record contact delivery status").Len())
}

func TestContactServiceValidation(t *testing.T) {
	svc := NewContactService(newTestRepositories(t).ContactMessages, &recordingMailer{}, nil, "x@example.com")

	cases := map[string]func(*ContactInput){
		"missing name":  func(in *ContactInput) { in.Name = " " },
		"bad email":     func(in *ContactInput) { in.Email = "grace" },
		"display email": func(in *ContactInput) { in.Email = "Grace <grace@example.org>" },
		"short message": func(in *ContactInput) { in.Message = "hi" },
		"long message":  func(in *ContactInput) { in.Message = strings.Repeat("a", 5001) },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			input := validContact()
			mutate(&input)
			_, err := svc.Submit(context.Background(), input)
			assert.ErrorIs(t, err, ErrInvalidInput)
		})
	}
}
