package types

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	"gorm.io/gorm"
)

type Timestamps struct {
	CreatedAt time.Time      `gorm:"autoCreateTime:nano" json:"created_at,omitempty"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime:nano" json:"updated_at,omitempty"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty,omitnil"`
}

type JSONB map[string]any

func (a JSONB) Value() (driver.Value, error) {
	valueString, err := json.Marshal(a)
	return string(valueString), err
}
func (a *JSONB) Scan(value any) error {
	b, ok := value.([]byte)
	if !ok {
		return errors.New("type assertion to []byte failed")
	}
	if err := json.Unmarshal(b, &a); err != nil {
		return err
	}
	return nil
}

type PaymentStatus string

const (
	PAYMENT_PENDING  PaymentStatus = "pending"
	PAYMENT_PAID     PaymentStatus = "paid"
	PAYMENT_CASH     PaymentStatus = "cash"
	PAYMENT_FAILED   PaymentStatus = "failed"
	PAYMENT_CANCELED PaymentStatus = "cancelled"
)

// HoldingPaymentStatuses are the payment states that reserve a slot for
// conflict detection.
var HoldingPaymentStatuses = []PaymentStatus{PAYMENT_PENDING, PAYMENT_PAID, PAYMENT_CASH}

type CheckInStatus string

const (
	CHECKIN_NOT_ARRIVED CheckInStatus = "not_arrived"
	CHECKIN_ARRIVED     CheckInStatus = "checked_in"
	CHECKIN_CANCELED    CheckInStatus = "cancelled"
)

type PaymentMethod string

const (
	METHOD_CASH  PaymentMethod = "cash"
	METHOD_CARD  PaymentMethod = "card"
	METHOD_GCASH PaymentMethod = "gcash"
)

type AppointmentStatus string

const (
	APPOINTMENT_SCHEDULED AppointmentStatus = "scheduled"
	APPOINTMENT_COMPLETED AppointmentStatus = "completed"
	APPOINTMENT_CANCELED  AppointmentStatus = "cancelled"
)

type RegisterUserRequestBody struct {
	FirstName string `json:"first_name" binding:"required"`
	LastName  string `json:"last_name" binding:"required"`
	Email     string `json:"email" binding:"required,email"`
	Password  string `json:"password" binding:"required,min=8"`
	Birthday  string `json:"birthday,omitempty"`
	Contact   string `json:"contact,omitempty"`
}

type LoginRequestBody struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type CreateInitialBookingRequestBody struct {
	Name     string `json:"name" binding:"required"`
	Birthday string `json:"birthday" binding:"required"`
	Hours    int    `json:"hours" binding:"required,min=1,max=8"`
}

type CreateBookingRequestBody struct {
	Name          string `json:"name" binding:"required"`
	Birthday      string `json:"birthday,omitempty"`
	Email         string `json:"email,omitempty" binding:"omitempty,email"`
	Contact       string `json:"contact,omitempty"`
	HomeAddress   string `json:"homeAddress,omitempty"`
	ServiceType   string `json:"serviceType,omitempty"`
	BookingDate   string `json:"bookingDate" binding:"required,bookabledate"`
	BookingTime   string `json:"bookingTime" binding:"required"`
	Hours         int    `json:"hours" binding:"required,min=1,max=8"`
	Members       int    `json:"members,omitempty"`
	PaymentMethod string `json:"paymentMethod" binding:"required,oneof=cash card gcash"`
}

type AvailableSlotsRequestQuery struct {
	Date  string `form:"date" binding:"required,bookabledate"`
	Hours int    `form:"hours" binding:"omitempty,min=1,max=8"`
}

type UpdatePaymentRequestBody struct {
	BookingID       string `json:"bookingId" binding:"required"`
	PaymentStatus   string `json:"paymentStatus" binding:"required,oneof=pending paid cash failed cancelled"`
	XenditPaymentID string `json:"xenditPaymentId,omitempty"`
}

type CreateAppointmentRequestBody struct {
	StudentID    uint   `json:"student_id" binding:"required"`
	InstructorID uint   `json:"instructor_id" binding:"required"`
	BookingID    string `json:"booking_id,omitempty"`
	Date         string `json:"date" binding:"required"`
	Time         string `json:"time" binding:"required"`
	ServiceType  string `json:"service_type,omitempty"`
	Notes        string `json:"notes,omitempty"`
}
