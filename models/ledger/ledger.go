package ledger

import (
	"time"
)

// LedgerEntry is the auditable record of the intended fund split for one
// booking. It does not itself move money across external accounts; the
// processor's transfer primitives act on it downstream.
type LedgerEntry struct {
	ID uint `gorm:"primaryKey;autoIncrement" json:"id"`

	// One ledger entry per booking.
	BookingID string `gorm:"type:varchar(36);not null;uniqueIndex" json:"booking_id"`

	TotalPriceCents int64 `gorm:"not null" json:"total_price_cents"`

	// Initial three-way split computed at confirmation. The components
	// always sum exactly to TotalPriceCents.
	ImmediateChefCents     int64 `gorm:"not null" json:"immediate_chef_cents"`
	ImmediatePlatformCents int64 `gorm:"not null" json:"immediate_platform_cents"`
	HeldEscrowCents        int64 `gorm:"not null" json:"held_escrow_cents"`

	// Stamped when the held escrow is released on completion. Non-null means
	// released; ReleaseEscrow is a no-op once set.
	ReleasedAt *time.Time `gorm:"" json:"released_at,omitempty"`

	// Cancellation settlement amounts, written once when a booking is
	// cancelled.
	RefundToCustomerCents     int64 `gorm:"default:0" json:"refund_to_customer_cents"`
	ChefCompensationCents     int64 `gorm:"default:0" json:"chef_compensation_cents"`
	PlatformCompensationCents int64 `gorm:"default:0" json:"platform_compensation_cents"`

	// Residual funds a cancellation leaves undistributed. They are never
	// auto-distributed; an operator settles them explicitly.
	HeldForDispositionCents int64              `gorm:"default:0" json:"held_for_disposition_cents"`
	DispositionStatus       *DispositionStatus `gorm:"type:varchar(30)" json:"disposition_status,omitempty"`
	DispositionSettledBy    *string            `gorm:"type:varchar(36)" json:"disposition_settled_by,omitempty"`
	DispositionSettledAt    *time.Time         `gorm:"" json:"disposition_settled_at,omitempty"`

	// Raised on chef-initiated cancellation for manual admin review.
	PenaltyFlag bool `gorm:"default:false" json:"penalty_flag"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// DispositionStatus tracks operator settlement of held-for-disposition funds.
type DispositionStatus string

const (
	DispositionPending DispositionStatus = "disposition_pending"
	DispositionSettled DispositionStatus = "disposition_settled"
)

// TableName sets the table name for the LedgerEntry model
func (LedgerEntry) TableName() string {
	return "ledger_entries"
}
