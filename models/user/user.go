package user

import (
	"time"
)

// User is the slim profile record the settlement engine references for
// customer/chef names. Full profile management lives in an external service;
// only the fields the engine reads are modeled here.
type User struct {
	ID            uint    `gorm:"primaryKey;autoIncrement" json:"id"`
	Uuid          string  `gorm:"type:varchar(36);not null;unique" json:"uuid"`
	LegalName     string  `gorm:"type:varchar(255);not null" json:"legal_name"`
	Role          string  `gorm:"type:varchar(20);not null" json:"role"` // customer, chef, admin
	Phone         string  `gorm:"type:varchar(20)" json:"phone"`
	Email         *string `gorm:"type:varchar(255);unique" json:"email"`

	CreatedAt time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt *time.Time `gorm:"index" json:"deleted_at,omitempty"`
}
