// Package notifier is the channel-abstracted dispatch layer. Message shaping
// is a registry keyed by (type, channel) so adding a notification type is
// additive; an unregistered combination is a per-channel failure, never a
// crash.
package notifier

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
)

type Channel string

const (
	ChannelEmail   Channel = "email"
	ChannelSMS     Channel = "sms"
	ChannelPush    Channel = "push"
	ChannelWebhook Channel = "webhook"
)

type NotificationType string

const (
	TypeReceipt             NotificationType = "receipt"
	TypeOrderConfirmation   NotificationType = "order_confirmation"
	TypeStatusUpdate        NotificationType = "status_update"
	TypeBirthdayReminder    NotificationType = "birthday_reminder"
	TypeAnniversaryReminder NotificationType = "anniversary_reminder"
	TypeOccasionReminder    NotificationType = "occasion_reminder"
)

// Data carries everything a formatter may need. Reminder types arrive with
// Subject/HTML already rendered; transactional types are shaped here.
type Data struct {
	FirstName string
	LastName  string
	Email     string
	Phone     string

	// Pre-rendered payload (reminder types)
	Subject string
	HTML    string

	// Transactional fields
	OrderNumber       string
	OrderTotal        float64
	TransactionNumber string
	DeliveryDate      string
	DeliveryTime      string
	NewStatus         string

	ShopName string
}

type Request struct {
	Type     NotificationType
	Channels []Channel
	Data     Data
	Fallback bool
}

type Result struct {
	Channel Channel `json:"channel"`
	Success bool    `json:"success"`
	Error   string  `json:"error,omitempty"`
}

// Succeeded reports the caller-facing overall outcome: at least one channel
// got the message out.
func Succeeded(results []Result) bool {
	for _, r := range results {
		if r.Success {
			return true
		}
	}
	return false
}

// EmailSender is the external email transport capability.
type EmailSender interface {
	SendEmail(ctx context.Context, to, subject, html string) error
}

// SMSSender is the external SMS transport capability.
type SMSSender interface {
	SendSMS(ctx context.Context, to, body string) error
}

// formatFunc shapes Data into a channel payload. For email the first return
// is the subject; for sms it is unused.
type formatFunc func(d Data) (subject, body string, err error)

type Notifier struct {
	email   EmailSender
	sms     SMSSender
	logger  *zap.Logger
	timeout time.Duration
	formats map[NotificationType]map[Channel]formatFunc
}

// New builds a Notifier with the default format registry.
func New(email EmailSender, sms SMSSender, logger *zap.Logger) *Notifier {
	n := &Notifier{
		email:   email,
		sms:     sms,
		logger:  logger,
		timeout: 10 * time.Second,
		formats: make(map[NotificationType]map[Channel]formatFunc),
	}
	n.registerDefaults()
	return n
}

// Register adds or replaces the formatter for one (type, channel) pair.
func (n *Notifier) Register(t NotificationType, c Channel, f formatFunc) {
	if n.formats[t] == nil {
		n.formats[t] = make(map[Channel]formatFunc)
	}
	n.formats[t][c] = f
}

// Notify attempts every requested channel and records each outcome
// independently. If fallback is enabled, nothing succeeded, and sms was not
// among the requested channels, one extra sms attempt is made.
func (n *Notifier) Notify(ctx context.Context, req Request) []Result {
	results := make([]Result, 0, len(req.Channels)+1)

	for _, ch := range req.Channels {
		results = append(results, n.send(ctx, req.Type, ch, req.Data))
	}

	if req.Fallback && !Succeeded(results) && !containsChannel(req.Channels, ChannelSMS) {
		n.logger.Info("all requested channels failed, attempting sms fallback",
			zap.String("type", string(req.Type)))
		results = append(results, n.send(ctx, req.Type, ChannelSMS, req.Data))
	}

	return results
}

func (n *Notifier) send(ctx context.Context, t NotificationType, ch Channel, d Data) Result {
	fail := func(msg string) Result {
		return Result{Channel: ch, Success: false, Error: msg}
	}

	format, ok := n.formats[t][ch]
	if !ok {
		if ch == ChannelPush || ch == ChannelWebhook {
			return fail(fmt.Sprintf("%s notifications not implemented", ch))
		}
		return fail(fmt.Sprintf("%s template not implemented for type %s", ch, t))
	}

	subject, body, err := format(d)
	if err != nil {
		return fail(err.Error())
	}

	sendCtx, cancel := context.WithTimeout(ctx, n.timeout)
	defer cancel()

	switch ch {
	case ChannelEmail:
		if d.Email == "" {
			return fail("email address required for email notifications")
		}
		if n.email == nil {
			return fail("email sender not configured")
		}
		if err := n.email.SendEmail(sendCtx, d.Email, subject, body); err != nil {
			n.logger.Warn("email send failed",
				zap.String("type", string(t)),
				zap.String("recipient", d.Email),
				zap.Error(err))
			return fail(err.Error())
		}
	case ChannelSMS:
		if d.Phone == "" {
			return fail("phone number required for sms notifications")
		}
		if n.sms == nil {
			return fail("sms sender not configured")
		}
		if err := n.sms.SendSMS(sendCtx, d.Phone, body); err != nil {
			n.logger.Warn("sms send failed",
				zap.String("type", string(t)),
				zap.String("recipient", d.Phone),
				zap.Error(err))
			return fail(err.Error())
		}
	default:
		return fail(fmt.Sprintf("unsupported channel: %s", ch))
	}

	return Result{Channel: ch, Success: true}
}

func containsChannel(channels []Channel, target Channel) bool {
	for _, c := range channels {
		if c == target {
			return true
		}
	}
	return false
}
