package common

import (
	"strings"
	"testing"

	"mixlab/src/config"
	"mixlab/src/models"

	"github.com/stretchr/testify/assert"
)

func TestGenerateBookingID(t *testing.T) {
	id := GenerateBookingID()
	parts := strings.Split(id, "-")
	assert.Len(t, parts, 3)
	assert.Equal(t, config.BOOKING_ID_PREFIX, parts[0])
	assert.Len(t, parts[2], 8)
	assert.Equal(t, strings.ToUpper(id), id)

	other := GenerateBookingID()
	assert.NotEqual(t, id, other)
}

func TestCalculateAmount(t *testing.T) {
	assert.Equal(t, int64(1000), CalculateAmount("music_lesson", 2))
	assert.Equal(t, int64(1500), CalculateAmount("recording", 1))
	assert.Equal(t, int64(6000), CalculateAmount("dance", 10))

	// Unknown service types are priced at the default service rate.
	assert.Equal(t, CalculateAmount(config.DEFAULT_SERVICE, 3), CalculateAmount("underwater_basket_weaving", 3))
}

func TestCalculateAmountWithCustomRates(t *testing.T) {
	old := config.ServiceRates()
	defer config.SetServiceRates(old)

	config.SetServiceRates(map[string]int64{
		"podcast":   1200,
		"rehearsal": 900,
	})
	assert.Equal(t, int64(2400), CalculateAmount("podcast", 2))
	assert.Equal(t, int64(1800), CalculateAmount("unknown", 2))
}

func TestParseMinutes(t *testing.T) {
	cases := []struct {
		in      string
		want    int
		wantErr bool
	}{
		{"09:00", 540, false},
		{"10:30", 630, false},
		{"21:00", 1260, false},
		{"00:00", 0, false},
		{"14:30:00", 870, false},
		{"24:00", 0, true},
		{"09:60", 0, true},
		{"0900", 0, true},
		{"", 0, true},
		{"ab:cd", 0, true},
	}
	for _, c := range cases {
		got, err := ParseMinutes(c.in)
		if c.wantErr {
			assert.Errorf(t, err, "expected error for %q", c.in)
			continue
		}
		assert.NoErrorf(t, err, "unexpected error for %q", c.in)
		assert.Equalf(t, c.want, got, "ParseMinutes(%q)", c.in)
	}
}

func TestFormatMinutes(t *testing.T) {
	assert.Equal(t, "09:00", FormatMinutes(540))
	assert.Equal(t, "10:30", FormatMinutes(630))
	assert.Equal(t, "20:30", FormatMinutes(1230))
}

func TestIntervalsOverlap(t *testing.T) {
	cases := []struct {
		name                       string
		aStart, aEnd, bStart, bEnd int
		want                       bool
	}{
		{"identical", 600, 720, 600, 720, true},
		{"contained", 600, 720, 630, 660, true},
		{"partial overlap", 600, 720, 660, 780, true},
		{"back to back, earlier first", 600, 720, 720, 780, false},
		{"back to back, later first", 720, 780, 600, 720, false},
		{"disjoint", 540, 600, 720, 780, false},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			assert.Equal(t, c.want, IntervalsOverlap(c.aStart, c.aEnd, c.bStart, c.bEnd))
			assert.Equal(t, c.want, IntervalsOverlap(c.bStart, c.bEnd, c.aStart, c.aEnd))
		})
	}
}

func TestOccupiedStamps(t *testing.T) {
	bookings := []models.Booking{
		{BookingID: "A", BookingTime: "10:00", Hours: 2},
		{BookingID: "B", BookingTime: "14:30", Hours: 1},
	}
	occupied := OccupiedStamps(bookings)

	for _, min := range []int{600, 630, 660, 690, 870, 900} {
		assert.Truef(t, occupied[min], "expected %s occupied", FormatMinutes(min))
	}
	// Interval ends are open: the slot starting at the end is free.
	assert.False(t, occupied[720])
	assert.False(t, occupied[930])
	assert.False(t, occupied[570])
}

func TestEnumerateSlotsEmptyDay(t *testing.T) {
	slots := EnumerateSlots(map[int]bool{}, 1)
	assert.Equal(t, "09:00", slots[0])
	assert.Equal(t, "20:00", slots[len(slots)-1])
	// 09:00 through 20:00 on the half hour.
	assert.Len(t, slots, 23)
}

func TestEnumerateSlotsRespectsClosing(t *testing.T) {
	slots := EnumerateSlots(map[int]bool{}, 8)
	assert.Equal(t, "09:00", slots[0])
	assert.Equal(t, "13:00", slots[len(slots)-1])

	for _, s := range slots {
		start, err := ParseMinutes(s)
		assert.NoError(t, err)
		assert.LessOrEqual(t, start+8*60, config.CLOSING_HOUR*60)
	}
}

func TestEnumerateSlotsAroundBooking(t *testing.T) {
	// Two hour booking at 10:00 occupies [10:00, 12:00).
	occupied := OccupiedStamps([]models.Booking{
		{BookingID: "A", BookingTime: "10:00", Hours: 2},
	})

	oneHour := EnumerateSlots(occupied, 1)
	assert.Contains(t, oneHour, "09:00")
	assert.NotContains(t, oneHour, "09:30")
	assert.NotContains(t, oneHour, "10:00")
	assert.NotContains(t, oneHour, "10:30")
	assert.NotContains(t, oneHour, "11:30")
	assert.Contains(t, oneHour, "12:00")

	twoHours := EnumerateSlots(occupied, 2)
	assert.NotContains(t, twoHours, "09:00")
	assert.NotContains(t, twoHours, "11:30")
	assert.Contains(t, twoHours, "12:00")
	assert.Contains(t, twoHours, "19:00")
	assert.NotContains(t, twoHours, "19:30")
}

func TestEnumerateSlotsOrdering(t *testing.T) {
	occupied := OccupiedStamps([]models.Booking{
		{BookingID: "A", BookingTime: "12:00", Hours: 1},
	})
	slots := EnumerateSlots(occupied, 1)
	for i := 1; i < len(slots); i++ {
		prev, _ := ParseMinutes(slots[i-1])
		cur, _ := ParseMinutes(slots[i])
		assert.Greater(t, cur, prev)
	}
}

func TestWithinOperatingHours(t *testing.T) {
	assert.NoError(t, withinOperatingHours("09:00", 1))
	assert.NoError(t, withinOperatingHours("13:00", 8))
	assert.NoError(t, withinOperatingHours("20:00", 1))
	assert.Error(t, withinOperatingHours("08:30", 1))
	assert.Error(t, withinOperatingHours("20:30", 1))
	assert.Error(t, withinOperatingHours("14:00", 8))
	assert.Error(t, withinOperatingHours("garbage", 1))
}

func TestSanitizeMessage(t *testing.T) {
	assert.Equal(t, "plain text", sanitizeMessage("plain text"))
	assert.NotContains(t, sanitizeMessage(`<script>alert("x")</script>`), "<script>")
	assert.NotContains(t, sanitizeMessage(`<script>alert("x")</script>`), `"`)
}
