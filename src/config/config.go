package config

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
)

func GetDSN() string {
	DATABASE_HOST := os.Getenv("DATABASE_HOST")
	DATABASE_PORT := os.Getenv("DATABASE_PORT")
	DATABASE_SSLMODE := os.Getenv("DATABASE_SSLMODE")
	DATABASE_TIMEZONE := os.Getenv("DATABASE_TIMEZONE")
	DATABASE_USER := os.Getenv("DATABASE_USER")
	DATABASE_PASSWORD := os.Getenv("DATABASE_PASSWORD")
	DATABASE_NAME := os.Getenv("DATABASE_NAME")
	dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s TimeZone=%s", DATABASE_HOST, DATABASE_USER, DATABASE_PASSWORD, DATABASE_NAME, DATABASE_PORT, DATABASE_SSLMODE, DATABASE_TIMEZONE)
	return dsn
}

const (
	DATE_PARSE_FORMAT = "2006-01-02"
	TIME_PARSE_FORMAT = "15:04"

	// Studio operating hours.
	OPENING_HOUR = 9
	CLOSING_HOUR = 21

	// Public availability is computed on 30-minute marks. The admin
	// appointment view lists whole hours only.
	SLOT_STEP_MINUTES = 30

	MIN_BOOKING_HOURS = 1
	MAX_BOOKING_HOURS = 8

	BOOKING_ID_PREFIX = "MIX"

	DEFAULT_SERVICE = "rehearsal"
)

var serviceRates = map[string]int64{
	"music_lesson": 500,
	"recording":    1500,
	"rehearsal":    800,
	"dance":        600,
	"arrangement":  2000,
	"voiceover":    1000,
}

func init() {
	if v := os.Getenv("SERVICE_RATES"); v != "" {
		var rates map[string]int64
		if err := json.Unmarshal([]byte(v), &rates); err != nil {
			log.Printf("Error parsing SERVICE_RATES, keeping defaults: %s\n", err.Error())
			return
		}
		serviceRates = rates
	}
}

// ServiceRates returns the hourly rate table keyed by service type.
func ServiceRates() map[string]int64 {
	return serviceRates
}

// SetServiceRates replaces the rate table. Used by tests to inject fixture rates.
func SetServiceRates(rates map[string]int64) {
	serviceRates = rates
}

func Currency() string {
	if c := os.Getenv("CURRENCY"); c != "" {
		return c
	}
	return "PHP"
}

func PaymentExpiryHours() int {
	var hours int
	if _, err := fmt.Sscanf(os.Getenv("PAYMENT_EXPIRY_HOURS"), "%d", &hours); err != nil || hours <= 0 {
		return 24
	}
	return hours
}
