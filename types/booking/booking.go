package booking

import (
	"fmt"
)

// InitiateConfirmationRequest asks the payment processor for an intent
// against an accepted proposal.
type InitiateConfirmationRequest struct {
	RequestID string `json:"request_id" validate:"required,min=1,max=36"`
}

func (r InitiateConfirmationRequest) Validate() error {
	if r.RequestID == "" {
		return fmt.Errorf("request_id is required")
	}
	return nil
}

// CompleteBookingRequest carries the event-day identifier, either scanned
// from the customer's QR code or typed manually.
type CompleteBookingRequest struct {
	BookingID           string `json:"booking_id" validate:"required,min=1,max=36"`
	PresentedIdentifier string `json:"presented_identifier" validate:"required,min=1,max=255"`
}

func (r CompleteBookingRequest) Validate() error {
	if r.BookingID == "" {
		return fmt.Errorf("booking_id is required")
	}
	if r.PresentedIdentifier == "" {
		return fmt.Errorf("presented_identifier is required")
	}
	return nil
}

// CancelBookingRequest asks for a policy-evaluated cancellation.
type CancelBookingRequest struct {
	BookingID string `json:"booking_id" validate:"required,min=1,max=36"`
}

func (r CancelBookingRequest) Validate() error {
	if r.BookingID == "" {
		return fmt.Errorf("booking_id is required")
	}
	return nil
}

// CancellationResponse is what the initiator sees: their terminal status and
// their own figure only, never ledger internals.
type CancellationResponse struct {
	BookingID    string `json:"booking_id"`
	Status       string `json:"status"`
	RefundAmount string `json:"refund_amount"`
	Compensation string `json:"compensation,omitempty"`
}

// CalendarPostRequest creates a standalone public event on a chef's calendar.
type CalendarPostRequest struct {
	Title      string `json:"title" validate:"required,min=1,max=255"`
	EventDate  string `json:"event_date" validate:"required"` // RFC3339
	Pax        int    `json:"pax" validate:"omitempty,min=0"`
	PriceCents int64  `json:"price_cents" validate:"omitempty,min=0"`
}

func (r CalendarPostRequest) Validate() error {
	if r.Title == "" {
		return fmt.Errorf("title is required")
	}
	if r.EventDate == "" {
		return fmt.Errorf("event_date is required")
	}
	return nil
}

// SettleDispositionRequest is the admin action that resolves funds a
// cancellation left undistributed.
type SettleDispositionRequest struct {
	BookingID string `json:"booking_id" validate:"required,min=1,max=36"`
}

func (r SettleDispositionRequest) Validate() error {
	if r.BookingID == "" {
		return fmt.Errorf("booking_id is required")
	}
	return nil
}
