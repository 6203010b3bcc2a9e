package booking

import (
	"time"
)

// BookingStatusEvent represents a status change event for a booking
type BookingStatusEvent struct {
	ID uint `gorm:"primaryKey;autoIncrement" json:"id"`

	// DO NOT make this unique here (events are many per booking)
	BookingID string `gorm:"type:varchar(36);not null;index" json:"booking_id"`

	Status    BookingStatus `gorm:"size:30;not null" json:"status"`
	EventType string        `gorm:"type:varchar(50);not null;index" json:"event_type"` // payment_confirmed, completed, cancelled, payment_failed
	CreatedBy string        `gorm:"type:varchar(255);not null" json:"created_by"`
	CreatedAt time.Time     `gorm:"autoCreateTime" json:"created_at"`
}

// TableName sets the table name for the BookingStatusEvent model
func (BookingStatusEvent) TableName() string {
	return "booking_status_events"
}
