package models

import "mixlab/src/types"

type User struct {
	ID          uint    `gorm:"primarykey" json:"id"`
	FirstName   string  `json:"first_name"`
	LastName    string  `json:"last_name"`
	Email       string  `gorm:"uniqueIndex;not null" json:"email"`
	Birthday    *string `json:"birthday,omitempty"`
	Contact     *string `json:"contact,omitempty"`
	HomeAddress *string `json:"home_address,omitempty"`
	Role        string  `gorm:"default:'student'" json:"role"`
	UID         string  `json:"uid,omitempty"`

	HashedPassword *string `json:"-"`

	types.Timestamps
}
