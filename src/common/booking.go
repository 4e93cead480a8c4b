package common

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	"mixlab/src/config"
	"mixlab/src/db"
	"mixlab/src/lib"
	"mixlab/src/lib/mailer"
	"mixlab/src/models"
	"mixlab/src/types"

	"gorm.io/gorm"
)

var (
	ErrInvalidInput    = errors.New("missing or invalid booking fields")
	ErrSlotConflict    = errors.New("time slot is already booked")
	ErrUpstreamPayment = errors.New("failed to create payment invoice")
	ErrBookingNotFound = errors.New("booking not found")
)

// GenerateBookingID builds the shareable booking id: a base36 timestamp
// plus a random suffix. Assigned once, never reused.
func GenerateBookingID() string {
	timestamp := strings.ToUpper(strconv.FormatInt(time.Now().UnixMilli(), 36))
	random := make([]byte, 4)
	rand.Read(random)
	return fmt.Sprintf("%s-%s-%s", config.BOOKING_ID_PREFIX, timestamp, strings.ToUpper(hex.EncodeToString(random)))
}

// CalculateAmount prices a booking from the rate table. Unknown service
// types fall back to the default service rate.
func CalculateAmount(serviceType string, hours int) int64 {
	rates := config.ServiceRates()
	rate, ok := rates[serviceType]
	if !ok {
		rate = rates[config.DEFAULT_SERVICE]
	}
	return rate * int64(hours)
}

// ParseMinutes converts "HH:MM" (or "HH:MM:SS") to minute-of-day.
func ParseMinutes(t string) (int, error) {
	parts := strings.Split(t, ":")
	if len(parts) < 2 {
		return 0, fmt.Errorf("invalid time %q", t)
	}
	hours, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, err
	}
	minutes, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, err
	}
	if hours < 0 || hours > 23 || minutes < 0 || minutes > 59 {
		return 0, fmt.Errorf("invalid time %q", t)
	}
	return hours*60 + minutes, nil
}

func FormatMinutes(min int) string {
	return fmt.Sprintf("%02d:%02d", min/60, min%60)
}

// IntervalsOverlap reports whether two half-open minute ranges
// intersect. Boundary-touching intervals do not overlap.
func IntervalsOverlap(aStart, aEnd, bStart, bEnd int) bool {
	return aStart < bEnd && bStart < aEnd
}

// holdingBookings returns the reservations on a date that count toward
// conflict detection: holding payment state and not cancelled.
func holdingBookings(tx *gorm.DB, date string) ([]models.Booking, error) {
	var bookings []models.Booking
	err := tx.
		Model(&models.Booking{}).
		Select("booking_id", "booking_time", "hours").
		Where("booking_date = ?", date).
		Where("payment_status IN ?", types.HoldingPaymentStatuses).
		Where("check_in_status <> ?", types.CHECKIN_CANCELED).
		Find(&bookings).
		Error
	if err != nil {
		return nil, err
	}
	return bookings, nil
}

// HasConflict reports whether the candidate interval overlaps any
// holding reservation on the date. excludeBookingID skips that
// reservation's own interval (admin reschedule path). A storage error
// propagates so callers reject instead of double-booking.
func HasConflict(tx *gorm.DB, date, startTime string, hours int, excludeBookingID string) (bool, error) {
	start, err := ParseMinutes(startTime)
	if err != nil {
		return false, err
	}
	end := start + hours*60

	bookings, err := holdingBookings(tx, date)
	if err != nil {
		return false, err
	}
	for _, b := range bookings {
		if excludeBookingID != "" && b.BookingID == excludeBookingID {
			continue
		}
		bStart, err := ParseMinutes(b.BookingTime)
		if err != nil {
			log.Printf("Skipping booking [%s] with bad time %q: %s\n", b.BookingID, b.BookingTime, err.Error())
			continue
		}
		if IntervalsOverlap(start, end, bStart, bStart+b.Hours*60) {
			return true, nil
		}
	}
	return false, nil
}

// OccupiedStamps marks every 30-minute mark covered by the holding
// reservations.
func OccupiedStamps(bookings []models.Booking) map[int]bool {
	occupied := make(map[int]bool)
	for _, b := range bookings {
		start, err := ParseMinutes(b.BookingTime)
		if err != nil {
			continue
		}
		end := start + b.Hours*60
		for min := start; min < end; min += config.SLOT_STEP_MINUTES {
			occupied[min] = true
		}
	}
	return occupied
}

// EnumerateSlots lists the start times within operating hours where a
// booking of the given duration fits: the interval stays inside closing
// time and touches no occupied stamp. Ascending order.
func EnumerateSlots(occupied map[int]bool, hoursNeeded int) []string {
	opening := config.OPENING_HOUR * 60
	closing := config.CLOSING_HOUR * 60
	duration := hoursNeeded * 60

	slots := make([]string, 0)
	for t := opening; t < closing; t += config.SLOT_STEP_MINUTES {
		if t+duration > closing {
			break
		}
		free := true
		for min := t; min < t+duration; min += config.SLOT_STEP_MINUTES {
			if occupied[min] {
				free = false
				break
			}
		}
		if free {
			slots = append(slots, FormatMinutes(t))
		}
	}
	return slots
}

// AvailableSlots recomputes availability for a date on every call; slot
// state changes with every booking so nothing is cached.
func AvailableSlots(date string, hoursNeeded int) ([]string, error) {
	if hoursNeeded < config.MIN_BOOKING_HOURS {
		hoursNeeded = config.MIN_BOOKING_HOURS
	}
	bookings, err := holdingBookings(db.GetDb(), date)
	if err != nil {
		return nil, err
	}
	return EnumerateSlots(OccupiedStamps(bookings), hoursNeeded), nil
}

// BookingResult is what the orchestrator hands back: the persisted
// reservation, its check-in artifact, and the hosted payment page for
// non-cash methods.
type BookingResult struct {
	Booking    *models.Booking
	QRDataURL  string
	PaymentURL string
}

func withinOperatingHours(startTime string, hours int) error {
	start, err := ParseMinutes(startTime)
	if err != nil {
		return err
	}
	if start < config.OPENING_HOUR*60 || start+hours*60 > config.CLOSING_HOUR*60 {
		return fmt.Errorf("booking falls outside operating hours %02d:00-%02d:00", config.OPENING_HOUR, config.CLOSING_HOUR)
	}
	return nil
}

// CreateBooking runs the whole booking unit of work. The provider
// invoice is requested before the transaction opens so no lock is held
// across the network call; the conflict check is then repeated under a
// per-date advisory lock in the same transaction that persists the row.
// An invoice issued for a booking that subsequently fails is abandoned.
func CreateBooking(ctx context.Context, body *types.CreateBookingRequestBody, userID *uint) (*BookingResult, error) {
	if err := withinOperatingHours(body.BookingTime, body.Hours); err != nil {
		log.Printf("Rejecting booking request: %s\n", err.Error())
		return nil, ErrInvalidInput
	}
	serviceType := body.ServiceType
	if serviceType == "" {
		serviceType = config.DEFAULT_SERVICE
	}

	gdb := db.GetDb()

	// Cheap reject before any side effect.
	conflict, err := HasConflict(gdb, body.BookingDate, body.BookingTime, body.Hours, "")
	if err != nil {
		return nil, err
	}
	if conflict {
		return nil, ErrSlotConflict
	}

	amount := CalculateAmount(serviceType, body.Hours)
	bookingId := GenerateBookingID()

	paymentStatus := types.PAYMENT_PENDING
	var referenceNumber *string
	var invoiceId *string
	var paymentURL string

	if types.PaymentMethod(body.PaymentMethod) == types.METHOD_CASH {
		paymentStatus = types.PAYMENT_CASH
		ref := fmt.Sprintf("CASH-%s", bookingId)
		referenceNumber = &ref
	} else {
		payerEmail := body.Email
		if payerEmail == "" {
			payerEmail = "guest@mixlab.com"
		}
		methods := []string{"CREDIT_CARD", "DEBIT_CARD"}
		if types.PaymentMethod(body.PaymentMethod) == types.METHOD_GCASH {
			methods = []string{"GCASH"}
		}
		invoice, err := lib.XenditCreateInvoice(ctx, &lib.XenditInvoiceParams{
			ExternalID:     bookingId,
			Amount:         amount,
			PayerEmail:     payerEmail,
			Description:    fmt.Sprintf("MixLab Studio Booking - %s", serviceType),
			Duration:       config.PaymentExpiryHours() * 3600,
			Currency:       config.Currency(),
			PaymentMethods: methods,
			Metadata: map[string]any{
				"bookingId":   bookingId,
				"serviceType": serviceType,
				"hours":       body.Hours,
			},
		})
		if err != nil {
			return nil, ErrUpstreamPayment
		}
		invoiceId = &invoice.ID
		referenceNumber = &invoice.ExternalID
		paymentURL = invoice.InvoiceURL
	}

	booking := models.Booking{
		BookingID:       bookingId,
		UserID:          userID,
		Name:            body.Name,
		ServiceType:     serviceType,
		BookingDate:     body.BookingDate,
		BookingTime:     body.BookingTime,
		Hours:           body.Hours,
		Members:         body.Members,
		PaymentMethod:   types.PaymentMethod(body.PaymentMethod),
		Amount:          amount,
		PaymentStatus:   paymentStatus,
		CheckInStatus:   types.CHECKIN_NOT_ARRIVED,
		ReferenceNumber: referenceNumber,
		XenditInvoiceID: invoiceId,
	}
	if body.Birthday != "" {
		booking.Birthday = &body.Birthday
	}
	if body.Email != "" {
		booking.Email = &body.Email
	}
	if body.Contact != "" {
		booking.Contact = &body.Contact
	}
	if body.HomeAddress != "" {
		booking.HomeAddress = &body.HomeAddress
	}
	if booking.Members == 0 {
		booking.Members = 1
	}

	var qrDataURL string
	err = gdb.Transaction(func(tx *gorm.DB) error {
		// Serialize check+persist per date so two concurrent requests
		// for the same slot cannot both pass the conflict scan.
		if err := tx.Exec("SELECT pg_advisory_xact_lock(hashtext(?))", body.BookingDate).Error; err != nil {
			return err
		}
		conflict, err := HasConflict(tx, body.BookingDate, body.BookingTime, body.Hours, "")
		if err != nil {
			return err
		}
		if conflict {
			return ErrSlotConflict
		}
		if err := tx.Create(&booking).Error; err != nil {
			return err
		}

		qr, err := lib.GenerateBookingQR(map[string]any{
			"booking_id":   bookingId,
			"name":         body.Name,
			"booking_date": body.BookingDate,
			"booking_time": body.BookingTime,
			"hours":        body.Hours,
		}, bookingId)
		if err != nil {
			// The artifact can be regenerated by the reconciler.
			log.Printf("Failed to generate QR code for [%s]: %s\n", bookingId, err.Error())
			return nil
		}
		if err := tx.
			Model(&models.Booking{}).
			Where("id = ?", booking.ID).
			Updates(&models.Booking{QRCodePath: &qr.Path, QRCodeData: &qr.DataURL}).
			Error; err != nil {
			log.Printf("Failed to store QR code for [%s]: %s\n", bookingId, err.Error())
			return nil
		}
		booking.QRCodePath = &qr.Path
		booking.QRCodeData = &qr.DataURL
		qrDataURL = qr.DataURL
		return nil
	})
	if err != nil {
		return nil, err
	}

	// Post-commit side effects, each best-effort.
	if booking.Email != nil && qrDataURL != "" {
		go func(b models.Booking, qr string) {
			if err := mailer.SendBookingConfirmation(&b, qr); err != nil {
				log.Printf("Failed to send booking email for [%s]: %s\n", b.BookingID, err.Error())
			}
		}(booking, qrDataURL)
	}
	if userID != nil {
		go NotifyUser(*userID, "booking", fmt.Sprintf("Your booking %s for %s at %s is confirmed", bookingId, body.BookingDate, body.BookingTime), strPtr(fmt.Sprintf("/bookings/%s", bookingId)))
	}
	go NotifyAdmins("booking", fmt.Sprintf("New booking %s: %s on %s at %s (%dh)", bookingId, serviceType, body.BookingDate, body.BookingTime, body.Hours), strPtr("/frontend/views/admin/bookings.html"))

	return &BookingResult{
		Booking:    &booking,
		QRDataURL:  qrDataURL,
		PaymentURL: paymentURL,
	}, nil
}

// GetBooking looks a reservation up by its shareable id.
func GetBooking(bookingId string) (*models.Booking, error) {
	var booking models.Booking
	if err := db.GetDb().
		Model(&models.Booking{}).
		Where("booking_id = ?", bookingId).
		First(&booking).
		Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBookingNotFound
		}
		return nil, err
	}
	return &booking, nil
}

func strPtr(s string) *string { return &s }
