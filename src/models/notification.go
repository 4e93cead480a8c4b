package models

import (
	"mixlab/src/types"

	"github.com/google/uuid"
)

// Notification rows with a nil UserID are broadcast to every admin
// observer; rows with a UserID are delivered to that user's room only.
type Notification struct {
	ID      uuid.UUID `gorm:"primarykey;type:uuid;default:gen_random_uuid()" json:"id"`
	UserID  *uint     `json:"user_id,omitempty"`
	Type    string    `json:"type"`
	Message string    `json:"message"`
	Link    *string   `json:"link,omitempty"`
	IsRead  bool      `gorm:"default:false" json:"is_read"`

	types.Timestamps
}
