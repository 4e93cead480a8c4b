package common

import (
	"fmt"

	"mixlab/src/config"
	"mixlab/src/db"
	"mixlab/src/models"
	"mixlab/src/types"

	"gorm.io/gorm"
)

// BookedSlot is an occupied hourly mark in the admin view.
type BookedSlot struct {
	Time  string `json:"time"`
	Hours int    `json:"hours"`
}

// HourlySlotView lists every whole-hour mark in the operating window
// flagged booked or free by exact start-time match against scheduled
// appointments and holding reservations. No interval arithmetic: this
// view is coarser than the public 30-minute availability engine and
// the two must not be conflated.
func HourlySlotView(date string, instructorId *uint) (available []string, booked []BookedSlot, err error) {
	gdb := db.GetDb()

	var appointments []models.Appointment
	q := gdb.
		Model(&models.Appointment{}).
		Select("time").
		Where("date = ?", date).
		Where("status <> ?", types.APPOINTMENT_CANCELED)
	if instructorId != nil {
		q = q.Where("instructor_id = ?", *instructorId)
	}
	if err = q.Find(&appointments).Error; err != nil {
		return nil, nil, err
	}

	bookings, err := holdingBookings(gdb, date)
	if err != nil {
		return nil, nil, err
	}

	bookedTimes := make(map[string]int)
	for _, a := range appointments {
		bookedTimes[a.Time] = 1
	}
	for _, b := range bookings {
		bookedTimes[b.BookingTime] = b.Hours
	}

	available = make([]string, 0)
	booked = make([]BookedSlot, 0)
	for hour := config.OPENING_HOUR; hour < config.CLOSING_HOUR; hour++ {
		slot := fmt.Sprintf("%02d:00", hour)
		if hours, ok := bookedTimes[slot]; ok {
			booked = append(booked, BookedSlot{Time: slot, Hours: hours})
			continue
		}
		available = append(available, slot)
	}
	return available, booked, nil
}

// CreateAppointment schedules a lesson session and notifies the student
// and the admin observers.
func CreateAppointment(body *types.CreateAppointmentRequestBody) (*models.Appointment, error) {
	appointment := models.Appointment{
		StudentID:    body.StudentID,
		InstructorID: body.InstructorID,
		Date:         body.Date,
		Time:         body.Time,
		ServiceType:  body.ServiceType,
		Status:       types.APPOINTMENT_SCHEDULED,
	}
	if body.BookingID != "" {
		appointment.BookingID = &body.BookingID
	}
	if body.Notes != "" {
		appointment.Notes = &body.Notes
	}
	err := db.GetDb().Transaction(func(tx *gorm.DB) error {
		return tx.Create(&appointment).Error
	})
	if err != nil {
		return nil, err
	}

	go NotifyUser(
		appointment.StudentID,
		"appointment",
		fmt.Sprintf("New appointment scheduled for %s at %s", appointment.Date, appointment.Time),
		strPtr(fmt.Sprintf("/appointments/%d", appointment.ID)),
	)
	go NotifyAdmins(
		"appointment",
		fmt.Sprintf("New appointment created: %s at %s", appointment.Date, appointment.Time),
		strPtr("/frontend/views/admin/appointments.html"),
	)
	return &appointment, nil
}
