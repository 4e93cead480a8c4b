package mailer

import (
	"fmt"
	"os"

	"mixlab/src/config"
	"mixlab/src/lib"
	"mixlab/src/models"
)

func statusBadge(status string) string {
	switch status {
	case "paid":
		return "PAID"
	case "cash":
		return "PAY AT STUDIO"
	default:
		return "PENDING PAYMENT"
	}
}

// SendBookingConfirmation mails the reservation summary with the
// check-in QR embedded. Callers treat failures as non-fatal.
func SendBookingConfirmation(booking *models.Booking, qrDataURL string) error {
	if booking.Email == nil || *booking.Email == "" {
		return fmt.Errorf("no email on booking [%s]", booking.BookingID)
	}
	subject := fmt.Sprintf("Booking Confirmed - %s | MixLab Studio", booking.BookingID)
	body := fmt.Sprintf(`
	<h1>Booking Confirmed!</h1>
	<p>Hello %s,</p>
	<p>Your studio booking has been confirmed. Present the QR code below at check-in.</p>
	<table>
		<tr><td>Booking ID</td><td><strong>%s</strong></td></tr>
		<tr><td>Service</td><td>%s</td></tr>
		<tr><td>Date</td><td>%s</td></tr>
		<tr><td>Time</td><td>%s (%d hour/s)</td></tr>
		<tr><td>Amount</td><td>%s %d</td></tr>
		<tr><td>Status</td><td>%s</td></tr>
	</table>
	<p><img src="%s" alt="check-in QR" width="300" /></p>
	`,
		booking.Name,
		booking.BookingID,
		booking.ServiceType,
		booking.BookingDate,
		booking.BookingTime,
		booking.Hours,
		config.Currency(),
		booking.Amount,
		statusBadge(string(booking.PaymentStatus)),
		qrDataURL,
	)
	return lib.SendMail(&lib.SendMailInput{
		From:     os.Getenv("SMTP_FROM"),
		FromName: "MixLab Studio",
		To:       []string{*booking.Email},
		Subject:  subject,
		Body:     body,
		Html:     true,
	})
}
