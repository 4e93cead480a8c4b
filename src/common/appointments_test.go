package common

import (
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
)

func TestHourlySlotView(t *testing.T) {
	mock := newMockDb(t)

	mock.ExpectQuery(`SELECT (.+) FROM "appointments"`).
		WillReturnRows(sqlmock.NewRows([]string{"time"}).AddRow("14:00"))
	mock.ExpectQuery(`SELECT (.+) FROM "bookings"`).
		WillReturnRows(sqlmock.NewRows([]string{"booking_id", "booking_time", "hours"}).
			AddRow("MIX-TEST-CCCC3333", "10:00", 2))

	available, booked, err := HourlySlotView("2026-09-10", nil)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())

	// Exact start-time match only: the two-hour reservation flags its
	// own hour mark and nothing after it.
	assert.Contains(t, booked, BookedSlot{Time: "10:00", Hours: 2})
	assert.Contains(t, booked, BookedSlot{Time: "14:00", Hours: 1})
	assert.Len(t, booked, 2)
	assert.Contains(t, available, "09:00")
	assert.Contains(t, available, "11:00")
	assert.NotContains(t, available, "10:00")
	assert.Len(t, available, 10)
}

func TestHourlySlotViewInstructorFilter(t *testing.T) {
	mock := newMockDb(t)

	mock.ExpectQuery(`SELECT (.+) FROM "appointments" WHERE date = \$1 AND status <> \$2 AND instructor_id = \$3`).
		WithArgs("2026-09-10", "cancelled", 7).
		WillReturnRows(sqlmock.NewRows([]string{"time"}))
	mock.ExpectQuery(`SELECT (.+) FROM "bookings"`).
		WillReturnRows(sqlmock.NewRows([]string{"booking_id", "booking_time", "hours"}))

	instructorId := uint(7)
	available, booked, err := HourlySlotView("2026-09-10", &instructorId)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
	assert.Empty(t, booked)
	assert.Len(t, available, 12)
}
