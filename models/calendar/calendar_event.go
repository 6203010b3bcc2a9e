package calendar

import (
	"time"
)

// CalendarEvent is the chef-facing projection of a Booking, or a standalone
// public event post created by the chef. Booking-backed rows are a read-side
// materialization only: they can be discarded and rebuilt from the bookings
// table at any time.
type CalendarEvent struct {
	ID string `gorm:"type:varchar(36);primaryKey" json:"id"`

	ChefID string `gorm:"type:varchar(36);not null;index" json:"chef_id"`

	// Nil for standalone posts. One booking maps to exactly one calendar
	// event, keyed by the booking id.
	BookingID *string `gorm:"type:varchar(36);uniqueIndex" json:"booking_id,omitempty"`

	Source EventSource `gorm:"type:varchar(20);not null" json:"source"`

	Title      string    `gorm:"type:varchar(255);not null" json:"title"`
	EventDate  time.Time `gorm:"not null;index" json:"event_date"`
	Pax        int       `gorm:"" json:"pax"`
	PriceCents int64     `gorm:"" json:"price_cents"`

	// Denormalized copy of the booking status; informational only.
	Status string `gorm:"type:varchar(30)" json:"status"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// EventSource distinguishes booking projections from chef-authored posts.
type EventSource string

const (
	EventSourceBooking EventSource = "booking"
	EventSourcePost    EventSource = "post"
)

// TableName sets the table name for the CalendarEvent model
func (CalendarEvent) TableName() string {
	return "calendar_events"
}
