package models

import "mixlab/src/types"

// Appointment is an admin-scheduled lesson session. The hourly slot
// view matches appointment times exactly; it does not do interval
// arithmetic like the public booking engine.
type Appointment struct {
	ID           uint                    `gorm:"primarykey" json:"id"`
	StudentID    uint                    `json:"student_id"`
	InstructorID uint                    `json:"instructor_id"`
	BookingID    *string                 `json:"booking_id,omitempty"`
	Date         string                  `gorm:"index;not null" json:"date"`
	Time         string                  `gorm:"not null" json:"time"`
	ServiceType  string                  `json:"service_type"`
	Notes        *string                 `json:"notes,omitempty"`
	Status       types.AppointmentStatus `gorm:"default:'scheduled'" json:"status"`

	Student    *User `gorm:"foreignKey:student_id" json:"student,omitempty"`
	Instructor *User `gorm:"foreignKey:instructor_id" json:"instructor,omitempty"`

	types.Timestamps
}
