package request

import (
	"time"
)

// CustomerRequest is a customer's event ask. It carries at most one active
// chef proposal and becomes immutable once a Booking exists for it.
type CustomerRequest struct {
	ID string `gorm:"type:varchar(36);primaryKey" json:"id"`

	CustomerID   string `gorm:"type:varchar(36);not null;index" json:"customer_id"`
	CustomerName string `gorm:"type:varchar(255);not null" json:"customer_name"`

	EventType   string    `gorm:"type:varchar(100);not null" json:"event_type"`
	BudgetCents int64     `gorm:"" json:"budget_cents"`
	GuestCount  int       `gorm:"not null" json:"guest_count"`
	EventDate   time.Time `gorm:"not null" json:"event_date"`
	Cuisine     string    `gorm:"type:varchar(100)" json:"cuisine"`

	Status RequestStatus `gorm:"type:varchar(20);not null;default:new" json:"status"`

	// ActiveProposal is set by the proposal-acceptance flow and read-only
	// from the settlement engine's perspective.
	ActiveProposal *Proposal `gorm:"embedded;embeddedPrefix:proposal_" json:"active_proposal,omitempty"`

	// Best-effort marker stamped when the processor reports a failed payment
	// attempt for this request. The request stays proposed so the customer
	// can retry.
	PaymentFailedAt *time.Time `gorm:"" json:"payment_failed_at,omitempty"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// Proposal is a chef's offer against a customer request.
type Proposal struct {
	ChefID            string `gorm:"type:varchar(36)" json:"chef_id"`
	ChefName          string `gorm:"type:varchar(255)" json:"chef_name"`
	Menu              string `gorm:"type:text" json:"menu"`
	PricePerHeadCents int64  `gorm:"" json:"price_per_head_cents"`
}

// TableName sets the table name for the CustomerRequest model
func (CustomerRequest) TableName() string {
	return "customer_requests"
}
