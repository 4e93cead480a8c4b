package models

import "mixlab/src/types"

// Booking is a reserved studio time interval together with its payment
// and check-in state. BookingID is the external correlation key shared
// with the payment provider and encoded into the check-in QR.
type Booking struct {
	ID        uint   `gorm:"primarykey" json:"id"`
	BookingID string `gorm:"uniqueIndex;not null" json:"booking_id"`
	UserID    *uint  `json:"user_id,omitempty"`

	Name        string  `gorm:"not null" json:"name"`
	Birthday    *string `json:"birthday,omitempty"`
	Email       *string `json:"email,omitempty"`
	Contact     *string `json:"contact,omitempty"`
	HomeAddress *string `json:"home_address,omitempty"`

	ServiceType string `gorm:"default:'rehearsal'" json:"service_type"`
	BookingDate string `gorm:"index;not null" json:"booking_date"`
	BookingTime string `gorm:"not null" json:"booking_time"`
	Hours       int    `gorm:"not null" json:"hours"`
	Members     int    `gorm:"default:1" json:"members"`

	PaymentMethod types.PaymentMethod `json:"payment_method"`
	Amount        int64               `json:"amount"`
	PaymentStatus types.PaymentStatus `gorm:"default:'pending'" json:"payment_status"`
	CheckInStatus types.CheckInStatus `gorm:"default:'not_arrived'" json:"check_in_status"`

	ReferenceNumber *string `json:"reference_number,omitempty"`
	XenditInvoiceID *string `json:"xendit_invoice_id,omitempty"`
	XenditPaymentID *string `json:"xendit_payment_id,omitempty"`

	QRCodePath *string `json:"qr_code_path,omitempty"`
	QRCodeData *string `json:"qr_code_data,omitempty"`

	User *User `gorm:"foreignKey:user_id" json:"user,omitempty"`

	types.Timestamps
}
