package notifier

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeEmail struct {
	calls []string
	err   error
}

func (f *fakeEmail) SendEmail(_ context.Context, to, subject, html string) error {
	f.calls = append(f.calls, to)
	return f.err
}

type fakeSMS struct {
	calls  []string
	bodies []string
	err    error
}

func (f *fakeSMS) SendSMS(_ context.Context, to, body string) error {
	f.calls = append(f.calls, to)
	f.bodies = append(f.bodies, body)
	return f.err
}

func TestNotifyEmailSuccess(t *testing.T) {
	email := &fakeEmail{}
	n := New(email, &fakeSMS{}, zap.NewNop())

	results := n.Notify(context.Background(), Request{
		Type:     TypeBirthdayReminder,
		Channels: []Channel{ChannelEmail},
		Data:     Data{Email: "maria@example.com", Subject: "s", HTML: "<p>hi</p>"},
	})

	require.Len(t, results, 1)
	assert.True(t, results[0].Success)
	assert.Equal(t, ChannelEmail, results[0].Channel)
	assert.Equal(t, []string{"maria@example.com"}, email.calls)
	assert.True(t, Succeeded(results))
}

func TestNotifyAttemptsAllChannels(t *testing.T) {
	email := &fakeEmail{err: errors.New("smtp down")}
	sms := &fakeSMS{}
	n := New(email, sms, zap.NewNop())

	results := n.Notify(context.Background(), Request{
		Type:     TypeBirthdayReminder,
		Channels: []Channel{ChannelEmail, ChannelSMS},
		Data:     Data{Email: "maria@example.com", Phone: "+15550100", Subject: "s"},
	})

	// Email failure does not short-circuit the sms attempt.
	require.Len(t, results, 2)
	assert.False(t, results[0].Success)
	assert.Equal(t, "smtp down", results[0].Error)
	assert.True(t, results[1].Success)
	assert.Len(t, sms.calls, 1)
	assert.True(t, Succeeded(results))
}

func TestNotifyMissingEmailAddress(t *testing.T) {
	n := New(&fakeEmail{}, &fakeSMS{}, zap.NewNop())

	results := n.Notify(context.Background(), Request{
		Type:     TypeBirthdayReminder,
		Channels: []Channel{ChannelEmail},
		Data:     Data{Subject: "s"},
	})

	require.Len(t, results, 1)
	assert.False(t, results[0].Success)
	assert.Equal(t, "email address required for email notifications", results[0].Error)
}

func TestNotifySMSFallback(t *testing.T) {
	email := &fakeEmail{err: errors.New("smtp down")}
	sms := &fakeSMS{}
	n := New(email, sms, zap.NewNop())

	results := n.Notify(context.Background(), Request{
		Type:     TypeBirthdayReminder,
		Channels: []Channel{ChannelEmail},
		Fallback: true,
		Data:     Data{FirstName: "Maria", Email: "maria@example.com", Phone: "+15550100", Subject: "Your birthday is coming up", ShopName: "Bloom"},
	})

	require.Len(t, results, 2)
	assert.False(t, results[0].Success)
	assert.Equal(t, ChannelSMS, results[1].Channel)
	assert.True(t, results[1].Success)
	require.Len(t, sms.bodies, 1)
	assert.Contains(t, sms.bodies[0], "Hi Maria!")
	assert.Contains(t, sms.bodies[0], "- Bloom")
}

func TestNotifyFallbackRequiresMissingPhone(t *testing.T) {
	email := &fakeEmail{err: errors.New("smtp down")}
	sms := &fakeSMS{}
	n := New(email, sms, zap.NewNop())

	results := n.Notify(context.Background(), Request{
		Type:     TypeBirthdayReminder,
		Channels: []Channel{ChannelEmail},
		Fallback: true,
		Data:     Data{Email: "maria@example.com", Subject: "s"},
	})

	require.Len(t, results, 2)
	assert.Equal(t, "phone number required for sms notifications", results[1].Error)
	assert.Empty(t, sms.calls)
	assert.False(t, Succeeded(results))
}

func TestNotifyNoFallbackWhenPrimarySucceeds(t *testing.T) {
	sms := &fakeSMS{}
	n := New(&fakeEmail{}, sms, zap.NewNop())

	results := n.Notify(context.Background(), Request{
		Type:     TypeBirthdayReminder,
		Channels: []Channel{ChannelEmail},
		Fallback: true,
		Data:     Data{Email: "maria@example.com", Phone: "+15550100", Subject: "s"},
	})

	require.Len(t, results, 1)
	assert.Empty(t, sms.calls)
}

func TestNotifyNoFallbackWhenSMSAlreadyRequested(t *testing.T) {
	sms := &fakeSMS{err: errors.New("gateway down")}
	n := New(&fakeEmail{err: errors.New("smtp down")}, sms, zap.NewNop())

	results := n.Notify(context.Background(), Request{
		Type:     TypeBirthdayReminder,
		Channels: []Channel{ChannelEmail, ChannelSMS},
		Fallback: true,
		Data:     Data{Email: "maria@example.com", Phone: "+15550100", Subject: "s"},
	})

	// sms already attempted as a requested channel, not retried as fallback.
	require.Len(t, results, 2)
	assert.Len(t, sms.calls, 1)
}

func TestNotifyUnimplementedChannels(t *testing.T) {
	n := New(&fakeEmail{}, &fakeSMS{}, zap.NewNop())

	results := n.Notify(context.Background(), Request{
		Type:     TypeBirthdayReminder,
		Channels: []Channel{ChannelPush, ChannelWebhook},
		Data:     Data{Email: "maria@example.com"},
	})

	require.Len(t, results, 2)
	assert.Equal(t, "push notifications not implemented", results[0].Error)
	assert.Equal(t, "webhook notifications not implemented", results[1].Error)
}

func TestNotifyUnregisteredCombination(t *testing.T) {
	n := New(&fakeEmail{}, &fakeSMS{}, zap.NewNop())

	// Order confirmations ship over sms only.
	results := n.Notify(context.Background(), Request{
		Type:     TypeOrderConfirmation,
		Channels: []Channel{ChannelEmail},
		Data:     Data{Email: "maria@example.com"},
	})

	require.Len(t, results, 1)
	assert.False(t, results[0].Success)
	assert.Equal(t, "email template not implemented for type order_confirmation", results[0].Error)
}

func TestOrderConfirmationSMSBody(t *testing.T) {
	sms := &fakeSMS{}
	n := New(&fakeEmail{}, sms, zap.NewNop())

	results := n.Notify(context.Background(), Request{
		Type:     TypeOrderConfirmation,
		Channels: []Channel{ChannelSMS},
		Data: Data{
			FirstName:    "Maria",
			Phone:        "+15550100",
			OrderNumber:  "1042",
			OrderTotal:   59.99,
			DeliveryDate: "2026-05-10",
			DeliveryTime: "2pm",
			ShopName:     "Bloom",
		},
	})

	require.True(t, Succeeded(results))
	require.Len(t, sms.bodies, 1)
	assert.Equal(t, "Hi Maria! Your order #1042 ($59.99) is confirmed for 2026-05-10 at 2pm. - Bloom", sms.bodies[0])
}

func TestStatusUpdateRequiresStatus(t *testing.T) {
	n := New(&fakeEmail{}, &fakeSMS{}, zap.NewNop())

	results := n.Notify(context.Background(), Request{
		Type:     TypeStatusUpdate,
		Channels: []Channel{ChannelSMS},
		Data:     Data{Phone: "+15550100"},
	})

	require.Len(t, results, 1)
	assert.False(t, results[0].Success)
	assert.Contains(t, results[0].Error, "requires a new status")
}

func TestSucceededEmpty(t *testing.T) {
	assert.False(t, Succeeded(nil))
	assert.False(t, Succeeded([]Result{{Success: false}}))
}
