package common

import (
	"log"
	"strings"

	"mixlab/src/db"
	"mixlab/src/lib"
	"mixlab/src/models"

	"gorm.io/gorm"
)

var messageSanitizer = strings.NewReplacer(
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&#x27;",
	"/", "&#x2F;",
)

func sanitizeMessage(message string) string {
	return strings.TrimSpace(messageSanitizer.Replace(message))
}

// CreateNotification stores a notification row and pushes it over the
// socket channel: to the user's room when userId is set, otherwise as
// an admin broadcast.
func CreateNotification(userId *uint, ntype, message string, link *string) (*models.Notification, error) {
	notification := models.Notification{
		UserID:  userId,
		Type:    ntype,
		Message: sanitizeMessage(message),
		Link:    link,
	}
	err := db.GetDb().Transaction(func(tx *gorm.DB) error {
		return tx.Create(&notification).Error
	})
	if err != nil {
		return nil, err
	}

	if userId != nil {
		lib.SocketNotifyUser(*userId, &notification)
	} else {
		lib.SocketNotifyAdmins(&notification)
	}
	return &notification, nil
}

// NotifyAdmins broadcasts to all admin observers. Best-effort.
func NotifyAdmins(ntype, message string, link *string) {
	if _, err := CreateNotification(nil, ntype, message, link); err != nil {
		log.Printf("Error creating admin notification: %s\n", err.Error())
	}
}

// NotifyUser delivers to a single user's room. Best-effort.
func NotifyUser(userId uint, ntype, message string, link *string) {
	if _, err := CreateNotification(&userId, ntype, message, link); err != nil {
		log.Printf("Error creating notification for user [%d]: %s\n", userId, err.Error())
	}
}
