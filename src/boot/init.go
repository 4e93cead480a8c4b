package boot

import (
	"log"
	"time"

	"mixlab/src/common"
	"mixlab/src/db"
	"mixlab/src/lib"
	"mixlab/src/models"

	"gorm.io/gorm"
)

func InitDb() *gorm.DB {
	db := db.GetDb()

	err := db.AutoMigrate(
		&models.User{},
		&models.Booking{},
		&models.Notification{},
		&models.Appointment{},
	)
	if err != nil {
		log.Fatalf("error migration: %s", err.Error())
	}

	return db
}

// InitScheduler starts the background sweep that fails pending
// bookings whose payment window has lapsed.
func InitScheduler() {
	id, err := lib.CreateCronJob(common.ExpireStalePendingBookings, 10*time.Minute)
	if err != nil {
		log.Printf("Error scheduling expiry sweep: %s\n", err.Error())
		return
	}
	log.Printf("Job ID: %s\n", *id)

	sched, err := lib.GetScheduler()
	if err != nil {
		log.Println("An error has occurred. Check logs for info")
		return
	}
	sched.Start()
}

func StopScheduler() {
	sched, err := lib.GetScheduler()
	if err != nil {
		log.Println("Error retrieving Scheduler. Check logs for info")
		return
	}
	if err = sched.Shutdown(); err != nil {
		log.Println("An error has occurred while stopping Scheduler. Check logs for info")
	}
}
