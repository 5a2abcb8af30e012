package notifier

import "fmt"

// Default format registry. Reminder types are pre-rendered upstream and pass
// through; transactional types are shaped here. Combinations the original
// stack never shipped (e.g. order confirmation email) stay unregistered on
// purpose so callers get the descriptive per-channel failure.
func (n *Notifier) registerDefaults() {
	passthrough := func(d Data) (string, string, error) {
		return d.Subject, d.HTML, nil
	}
	reminderSMS := func(d Data) (string, string, error) {
		return "", fmt.Sprintf("Hi %s! %s. - %s", firstNameOr(d, "there"), d.Subject, d.ShopName), nil
	}

	for _, t := range []NotificationType{TypeBirthdayReminder, TypeAnniversaryReminder, TypeOccasionReminder} {
		n.Register(t, ChannelEmail, passthrough)
		n.Register(t, ChannelSMS, reminderSMS)
	}

	n.Register(TypeReceipt, ChannelEmail, func(d Data) (string, string, error) {
		subject := fmt.Sprintf("Receipt for %s", d.TransactionNumber)
		body := fmt.Sprintf(
			"<p>Hi %s,</p><p>Thank you for your purchase. Transaction %s, total $%.2f.</p><p>- %s</p>",
			customerNameOr(d, "Customer"), d.TransactionNumber, d.OrderTotal, d.ShopName)
		return subject, body, nil
	})

	n.Register(TypeReceipt, ChannelSMS, func(d Data) (string, string, error) {
		return "", fmt.Sprintf("Hi %s! Thank you for your purchase. Transaction: %s, Total: $%.2f. - %s",
			firstNameOr(d, "there"), d.TransactionNumber, d.OrderTotal, d.ShopName), nil
	})

	n.Register(TypeOrderConfirmation, ChannelSMS, func(d Data) (string, string, error) {
		msg := fmt.Sprintf("Hi %s! Your order #%s ($%.2f) is confirmed",
			firstNameOr(d, "there"), d.OrderNumber, d.OrderTotal)
		if d.DeliveryDate != "" {
			msg += " for " + d.DeliveryDate
			if d.DeliveryTime != "" {
				msg += " at " + d.DeliveryTime
			}
		}
		return "", msg + ". - " + d.ShopName, nil
	})

	n.Register(TypeStatusUpdate, ChannelSMS, func(d Data) (string, string, error) {
		if d.NewStatus == "" {
			return "", "", fmt.Errorf("status update requires a new status")
		}
		return "", fmt.Sprintf("Hi %s! Order #%s is now %s. - %s",
			firstNameOr(d, "there"), d.OrderNumber, d.NewStatus, d.ShopName), nil
	})
}

func firstNameOr(d Data, fallback string) string {
	if d.FirstName != "" {
		return d.FirstName
	}
	return fallback
}

func customerNameOr(d Data, fallback string) string {
	name := d.FirstName
	if d.LastName != "" {
		if name != "" {
			name += " "
		}
		name += d.LastName
	}
	if name == "" {
		return fallback
	}
	return name
}
