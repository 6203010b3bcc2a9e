package booking

import (
	"time"
)

// Booking is the authoritative settlement record for a confirmed event.
// It is created exactly once per successful payment notification and is
// never deleted, only transitioned to a terminal status.
type Booking struct {
	// The booking id doubles as the completion verification secret: a
	// non-guessable UUID rendered as a QR code on the customer's device.
	ID string `gorm:"type:varchar(36);primaryKey" json:"id"`

	CustomerID   string `gorm:"type:varchar(36);not null;index" json:"customer_id"`
	CustomerName string `gorm:"type:varchar(255);not null" json:"customer_name"`
	ChefID       string `gorm:"type:varchar(36);not null;index" json:"chef_id"`
	ChefName     string `gorm:"type:varchar(255);not null" json:"chef_name"`

	EventTitle string    `gorm:"type:varchar(255);not null" json:"event_title"`
	Menu       string    `gorm:"type:text" json:"menu"`
	EventDate  time.Time `gorm:"not null" json:"event_date"`
	Pax        int       `gorm:"not null" json:"pax"`

	// All money amounts are integer minor currency units (cents).
	// TotalPriceCents = PricePerHeadCents * Pax, immutable after creation.
	PricePerHeadCents int64 `gorm:"not null" json:"price_per_head_cents"`
	TotalPriceCents   int64 `gorm:"not null" json:"total_price_cents"`

	Status BookingStatus `gorm:"type:varchar(30);not null;index" json:"status"`

	// Originating customer request. Unique: a request converts into at most
	// one booking ever, even after that booking reaches a terminal status.
	RequestID string `gorm:"type:varchar(36);not null;uniqueIndex" json:"request_id"`

	// External processor reference. The unique constraint is the idempotency
	// key: at most one booking per successful payment, duplicate webhook
	// deliveries race on this index and exactly one insert wins.
	PaymentIntentID string `gorm:"type:varchar(255);not null;uniqueIndex" json:"payment_intent_id"`

	QRCodeScannedAt *time.Time `gorm:"" json:"qr_code_scanned_at,omitempty"`

	// Completion verification attempt tracking.
	CompletionAttempts         int        `gorm:"default:0" json:"completion_attempts"`
	CompletionBlockedUntil     *time.Time `gorm:"" json:"completion_blocked_until,omitempty"`
	ScannedIdentifierEncrypted *string    `gorm:"type:text" json:"-"`

	CancelledBy *string    `gorm:"type:varchar(36)" json:"cancelled_by,omitempty"`
	CancelledAt *time.Time `gorm:"" json:"cancelled_at,omitempty"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// TableName sets the table name for the Booking model
func (Booking) TableName() string {
	return "bookings"
}
