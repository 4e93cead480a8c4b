package common

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"mixlab/src/config"
	"mixlab/src/db"
	"mixlab/src/lib"
	"mixlab/src/lib/mailer"
	"mixlab/src/models"
	"mixlab/src/types"

	"gorm.io/gorm"
)

// ApplyPaymentPaid transitions a reservation to paid, assigning the
// provider correlation ids and generating the check-in artifact if it
// does not exist yet. Replays are no-ops on the artifact; the
// confirmation email is only sent when the artifact was created in
// this call.
func ApplyPaymentPaid(externalId, invoiceId, paymentId string) error {
	var booking models.Booking
	artifactCreated := false
	var qrDataURL string

	gdb := db.GetDb()
	err := gdb.Transaction(func(tx *gorm.DB) error {
		if err := tx.
			Model(&models.Booking{}).
			Where("booking_id = ?", externalId).
			First(&booking).
			Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrBookingNotFound
			}
			return err
		}

		// Correlation ids are assign-only: the manual update path calls
		// in without provider ids and must not blank what the invoice
		// flow already stored.
		updates := &models.Booking{
			PaymentStatus: types.PAYMENT_PAID,
		}
		if paymentId != "" {
			updates.XenditPaymentID = &paymentId
		}
		if invoiceId != "" {
			updates.ReferenceNumber = &invoiceId
		}
		if err := tx.
			Model(&models.Booking{}).
			Where("booking_id = ?", externalId).
			Updates(updates).
			Error; err != nil {
			return err
		}
		booking.PaymentStatus = types.PAYMENT_PAID
		if invoiceId != "" {
			booking.ReferenceNumber = &invoiceId
		}

		if booking.QRCodeData == nil || *booking.QRCodeData == "" {
			qr, err := lib.GenerateBookingQR(map[string]any{
				"booking_id":   booking.BookingID,
				"name":         booking.Name,
				"booking_date": booking.BookingDate,
				"booking_time": booking.BookingTime,
				"hours":        booking.Hours,
			}, booking.BookingID)
			if err != nil {
				log.Printf("Failed to generate QR code for [%s]: %s\n", booking.BookingID, err.Error())
				return nil
			}
			if err := tx.
				Model(&models.Booking{}).
				Where("booking_id = ?", externalId).
				Updates(&models.Booking{QRCodePath: &qr.Path, QRCodeData: &qr.DataURL}).
				Error; err != nil {
				return err
			}
			booking.QRCodePath = &qr.Path
			booking.QRCodeData = &qr.DataURL
			artifactCreated = true
		}
		if booking.QRCodeData != nil {
			qrDataURL = *booking.QRCodeData
		}
		return nil
	})
	if err != nil {
		return err
	}

	if artifactCreated && booking.Email != nil {
		go func(b models.Booking, qr string) {
			if err := mailer.SendBookingConfirmation(&b, qr); err != nil {
				log.Printf("Failed to send booking email for [%s]: %s\n", b.BookingID, err.Error())
			}
		}(booking, qrDataURL)
	}
	if booking.UserID != nil {
		go NotifyUser(*booking.UserID, "booking", fmt.Sprintf("Payment received for booking %s", booking.BookingID), strPtr(fmt.Sprintf("/bookings/%s", booking.BookingID)))
	}
	log.Printf("Payment successful for booking [%s]\n", externalId)
	return nil
}

// ApplyPaymentExpired marks a still-pending reservation failed. Paid or
// cash reservations are left alone.
func ApplyPaymentExpired(externalId string) error {
	err := db.GetDb().
		Model(&models.Booking{}).
		Where("booking_id = ? AND payment_status = ?", externalId, types.PAYMENT_PENDING).
		Update("payment_status", types.PAYMENT_FAILED).
		Error
	if err != nil {
		return err
	}
	log.Printf("Payment expired for booking [%s]\n", externalId)
	return nil
}

func ApplyPaymentFailed(externalId string) error {
	err := db.GetDb().
		Model(&models.Booking{}).
		Where("booking_id = ? AND payment_status = ?", externalId, types.PAYMENT_PENDING).
		Update("payment_status", types.PAYMENT_FAILED).
		Error
	if err != nil {
		return err
	}
	log.Printf("Payment failed for booking [%s]\n", externalId)
	return nil
}

// VerifyPayment pulls the live invoice status from the provider and
// applies the same transitions the webhook would, correcting state if
// a callback was missed. Returns the reservation as stored afterwards.
func VerifyPayment(ctx context.Context, bookingId string) (*models.Booking, error) {
	booking, err := GetBooking(bookingId)
	if err != nil {
		return nil, err
	}
	if booking.XenditInvoiceID != nil {
		invoice, err := lib.XenditGetInvoiceStatus(ctx, *booking.XenditInvoiceID)
		if err != nil {
			log.Printf("Could not verify invoice for [%s]: %s\n", bookingId, err.Error())
		} else {
			switch invoice.Status {
			case "PAID", "SETTLED":
				if err := ApplyPaymentPaid(bookingId, invoice.ID, invoice.PaymentID); err != nil {
					return nil, err
				}
			case "EXPIRED":
				if err := ApplyPaymentExpired(bookingId); err != nil {
					return nil, err
				}
			}
		}
	}
	return GetBooking(bookingId)
}

// ExpireStalePendingBookings sweeps reservations whose invoice validity
// window has passed without a callback, applying the EXPIRED transition
// in bulk. Run on a schedule.
func ExpireStalePendingBookings() {
	cutoff := time.Now().Add(-time.Duration(config.PaymentExpiryHours()) * time.Hour)
	res := db.GetDb().
		Model(&models.Booking{}).
		Where("payment_status = ?", types.PAYMENT_PENDING).
		Where("created_at < ?", cutoff).
		Update("payment_status", types.PAYMENT_FAILED)
	if res.Error != nil {
		log.Printf("Error while expiring stale pending bookings: %s\n", res.Error.Error())
		return
	}
	if res.RowsAffected > 0 {
		log.Printf("Expired %d stale pending booking/s\n", res.RowsAffected)
	}
}
