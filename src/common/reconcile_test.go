package common

import (
	"strings"
	"testing"

	"mixlab/src/db"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func newMockDb(t *testing.T) sqlmock.Sqlmock {
	t.Helper()
	sqldb, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("An error '%s' was not expected when opening a stub database connection", err)
	}
	gormDB, err := gorm.Open(postgres.New(postgres.Config{
		Conn: sqldb,
	}), &gorm.Config{})
	if err != nil {
		t.Fatalf("An error '%s' was not expected when opening gorm database", err)
	}
	db.NewDB(gormDB)
	return mock
}

func paidBookingColumns() []string {
	return []string{"id", "booking_id", "user_id", "name", "email", "booking_date", "booking_time", "hours", "payment_status", "reference_number", "xendit_payment_id", "qr_code_data"}
}

func TestApplyPaymentPaidKeepsCorrelationIds(t *testing.T) {
	mock := newMockDb(t)

	// The manual status update path carries no provider ids; the ones
	// stored by the invoice flow must survive the transition.
	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT (.+) FROM "bookings" WHERE booking_id = \$1`).
		WillReturnRows(sqlmock.NewRows(paidBookingColumns()).
			AddRow(1, "MIX-TEST-AAAA1111", nil, "Ana Reyes", nil, "2026-09-10", "10:00", 2, "pending", "inv-seeded", "pay-seeded", "data:image/jpeg;base64,seeded"))
	mock.ExpectExec(`UPDATE "bookings" SET "payment_status"=\$1,"updated_at"=\$2 WHERE booking_id = \$3`).
		WithArgs("paid", sqlmock.AnyArg(), "MIX-TEST-AAAA1111").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := ApplyPaymentPaid("MIX-TEST-AAAA1111", "", "")
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestApplyPaymentPaidGeneratesArtifact(t *testing.T) {
	t.Setenv("API_QRC_SECRET", strings.Repeat("ab", 32))
	t.Setenv("TEMP_DIR", t.TempDir())
	mock := newMockDb(t)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT (.+) FROM "bookings" WHERE booking_id = \$1`).
		WillReturnRows(sqlmock.NewRows(paidBookingColumns()).
			AddRow(1, "MIX-TEST-BBBB2222", nil, "Ben Cruz", nil, "2026-09-10", "10:00", 2, "pending", nil, nil, nil))
	mock.ExpectExec(`UPDATE "bookings" SET (.+) WHERE booking_id = \$\d`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`UPDATE "bookings" SET (.+) WHERE booking_id = \$\d`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := ApplyPaymentPaid("MIX-TEST-BBBB2222", "inv-1", "pay-1")
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestApplyPaymentPaidReplayKeepsArtifact(t *testing.T) {
	t.Setenv("API_QRC_SECRET", strings.Repeat("ab", 32))
	t.Setenv("TEMP_DIR", t.TempDir())
	mock := newMockDb(t)

	// A replayed PAID callback re-applies the status but must not
	// render a second artifact or send another confirmation.
	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT (.+) FROM "bookings" WHERE booking_id = \$1`).
		WillReturnRows(sqlmock.NewRows(paidBookingColumns()).
			AddRow(1, "MIX-TEST-BBBB2222", nil, "Ben Cruz", "ben@example.com", "2026-09-10", "10:00", 2, "paid", "inv-1", "pay-1", "data:image/jpeg;base64,first"))
	mock.ExpectExec(`UPDATE "bookings" SET (.+) WHERE booking_id = \$\d`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := ApplyPaymentPaid("MIX-TEST-BBBB2222", "inv-1", "pay-1")
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestExpireStalePendingBookings(t *testing.T) {
	mock := newMockDb(t)

	// Only pending reservations older than the invoice validity window
	// are flipped; paid, cash and fresh pending rows stay untouched.
	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "bookings" SET "payment_status"=\$1,"updated_at"=\$2 WHERE payment_status = \$3 AND created_at < \$4`).
		WithArgs("failed", sqlmock.AnyArg(), "pending", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectCommit()

	ExpireStalePendingBookings()
	assert.NoError(t, mock.ExpectationsWereMet())
}
