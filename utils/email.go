package utils

import (
	"bytes"
	"fmt"

	"booking-service/data"

	"github.com/sirupsen/logrus"
	"gopkg.in/gomail.v2"
)

// EmailNotifier sends guest-facing booking emails. Best effort: the caller
// logs failures and moves on.
type EmailNotifier struct {
	smtpHost string
	smtpPort int
	smtpUser string
	smtpPass string
	from     string
	logger   *logrus.Logger
}

func NewEmailNotifier(smtpHost string, smtpPort int, smtpUser, smtpPass, from string, logger *logrus.Logger) *EmailNotifier {
	return &EmailNotifier{
		smtpHost: smtpHost,
		smtpPort: smtpPort,
		smtpUser: smtpUser,
		smtpPass: smtpPass,
		from:     from,
		logger:   logger,
	}
}

func (n *EmailNotifier) BookingConfirmed(booking *data.Booking) error {
	subject := fmt.Sprintf("Booking %s confirmed", booking.BookingReference)
	text := fmt.Sprintf(
		"Dear %s,\n\nYour booking %s is confirmed.\nCheck-in: %s\nCheck-out: %s\nTotal: %.2f\n",
		booking.GuestDetails.FullName,
		booking.BookingReference,
		booking.CheckInDate.Format(data.DateLayout),
		booking.CheckOutDate.Format(data.DateLayout),
		booking.Pricing.Total,
	)
	return n.send(subject, text, booking.GuestDetails.Email)
}

func (n *EmailNotifier) BookingCancelled(booking *data.Booking) error {
	subject := fmt.Sprintf("Booking %s cancelled", booking.BookingReference)
	text := fmt.Sprintf(
		"Dear %s,\n\nYour booking %s has been cancelled and the payment refunded.\n",
		booking.GuestDetails.FullName,
		booking.BookingReference,
	)
	return n.send(subject, text, booking.GuestDetails.Email)
}

func (n *EmailNotifier) send(subject, text, to string) error {
	var body bytes.Buffer
	body.WriteString(text)

	m := gomail.NewMessage()
	m.SetHeader("From", n.from)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", body.String())

	d := gomail.NewDialer(n.smtpHost, n.smtpPort, n.smtpUser, n.smtpPass)

	err := d.DialAndSend(m)
	if err != nil {
		n.logger.Warnf("Could not send email: %v", err)
		return err
	}
	return nil
}
