// Package booking owns the canonical booking lifecycle. Every money-moving
// transition and its bookkeeping writes happen in one gorm transaction, so a
// booking is never observable in an inconsistent status.
package booking

import (
	"errors"
	"fmt"
	"time"

	"chefmarket-booking/logger"
	bookingModel "chefmarket-booking/models/booking"
	requestModel "chefmarket-booking/models/request"
	"chefmarket-booking/services/booking_event"
	"chefmarket-booking/services/calendar"
	ledgerService "chefmarket-booking/services/ledger"
	"chefmarket-booking/services/policy"
	"chefmarket-booking/services/verifier"
	"chefmarket-booking/utils"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	// ErrInvalidTransition means the attempted state change is not
	// permitted from the booking's current status.
	ErrInvalidTransition = errors.New("invalid booking state transition")

	// ErrPolicyViolation means cancellation was attempted on a booking
	// that is not in confirmed state.
	ErrPolicyViolation = errors.New("cancellation not permitted for booking state")

	// ErrRequestNotBookable means the originating customer request is
	// missing, already booked, or carries no active proposal.
	ErrRequestNotBookable = errors.New("customer request has no bookable proposal")
)

// Service is the booking state machine.
type Service struct {
	DB       *gorm.DB
	Ledger   *ledgerService.Service
	Verifier *verifier.Service
}

// NewService creates a new booking state machine service
func NewService(db *gorm.DB) *Service {
	return &Service{
		DB:       db,
		Ledger:   ledgerService.NewService(db),
		Verifier: verifier.NewService(db),
	}
}

// ConfirmPayment transitions a paid customer request into a confirmed
// Booking. It is the only writer that creates bookings, and creates at most
// one per paymentIntentID: re-invocation with a known intent returns the
// existing booking unchanged. Concurrent duplicate deliveries race on the
// unique payment_intent_id index; the loser re-reads the winner's row.
func (s *Service) ConfirmPayment(requestID, customerID, paymentIntentID string) (*bookingModel.Booking, error) {
	// Fast path for redelivered notifications.
	if existing, err := s.GetByPaymentIntentID(paymentIntentID); err == nil {
		logger.Info(fmt.Sprintf("Booking for payment intent %s already exists, returning booking %s", paymentIntentID, existing.ID))
		return existing, nil
	} else if err != gorm.ErrRecordNotFound {
		return nil, fmt.Errorf("failed to check existing booking: %w", err)
	}

	var req requestModel.CustomerRequest
	if err := s.DB.Where("id = ?", requestID).First(&req).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrRequestNotBookable
		}
		return nil, fmt.Errorf("failed to load customer request: %w", err)
	}

	if req.ActiveProposal == nil || req.ActiveProposal.ChefID == "" {
		return nil, ErrRequestNotBookable
	}
	if req.Status == requestModel.RequestStatusBooked {
		// The request is booked but the intent is unknown: a second
		// payment slipped through for an already-settled request. Treated
		// as not bookable rather than creating a duplicate booking.
		return nil, ErrRequestNotBookable
	}
	if !req.Status.CanBeBooked() {
		return nil, ErrRequestNotBookable
	}

	totalPriceCents := req.ActiveProposal.PricePerHeadCents * int64(req.GuestCount)

	b := bookingModel.Booking{
		ID:                uuid.NewString(),
		CustomerID:        req.CustomerID,
		CustomerName:      req.CustomerName,
		ChefID:            req.ActiveProposal.ChefID,
		ChefName:          req.ActiveProposal.ChefName,
		EventTitle:        req.EventType,
		Menu:              req.ActiveProposal.Menu,
		EventDate:         req.EventDate,
		Pax:               req.GuestCount,
		PricePerHeadCents: req.ActiveProposal.PricePerHeadCents,
		TotalPriceCents:   totalPriceCents,
		Status:            bookingModel.BookingStatusConfirmed,
		RequestID:         req.ID,
		PaymentIntentID:   paymentIntentID,
	}

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&b).Error; err != nil {
			return fmt.Errorf("failed to create booking: %w", err)
		}

		if _, err := s.Ledger.RecordInitialSplit(tx, b.ID, totalPriceCents); err != nil {
			return err
		}

		// Compare-and-swap on the request status: a concurrent confirmation
		// with a different payment intent may have booked the request between
		// the pre-check and this transaction. Exactly one writer flips
		// proposed to booked; the loser rolls back its booking insert.
		res := tx.Model(&requestModel.CustomerRequest{}).
			Where("id = ? AND status = ?", req.ID, requestModel.RequestStatusProposed).
			Update("status", requestModel.RequestStatusBooked)
		if res.Error != nil {
			return fmt.Errorf("failed to update customer request: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return ErrRequestNotBookable
		}

		if err := calendar.UpsertFromBooking(tx, &b); err != nil {
			return err
		}

		return booking_event.RecordStatusEvent(tx, b.ID, b.Status, "payment_confirmed", customerID)
	})
	if err != nil {
		// A concurrent delivery may have won the insert race on the
		// unique payment_intent_id index. If so, its booking is the
		// canonical one.
		if existing, lookupErr := s.GetByPaymentIntentID(paymentIntentID); lookupErr == nil {
			logger.Info(fmt.Sprintf("Concurrent confirmation won for payment intent %s, returning booking %s", paymentIntentID, existing.ID))
			return existing, nil
		}
		return nil, err
	}

	split := ledgerService.ComputeInitialSplit(totalPriceCents)
	logger.Success(fmt.Sprintf("Booking %s confirmed: total %s, chef %s, platform %s, escrow %s",
		b.ID,
		utils.FormatCents(totalPriceCents),
		utils.FormatCents(split.ImmediateChefCents),
		utils.FormatCents(split.ImmediatePlatformCents),
		utils.FormatCents(split.HeldEscrowCents)))

	return &b, nil
}

// RecordCompletion verifies the presented event-day identifier and, on a
// match, transitions the booking to completed and releases the held escrow.
// On mismatch nothing changes and the caller sees the mismatch error only.
func (s *Service) RecordCompletion(bookingID, presentedIdentifier, actorID string) (*bookingModel.Booking, error) {
	b, err := s.GetByID(bookingID)
	if err != nil {
		return nil, err
	}

	if !b.Status.CanTransitionTo(bookingModel.BookingStatusCompleted) {
		return nil, ErrInvalidTransition
	}

	if err := s.Verifier.Verify(b, presentedIdentifier); err != nil {
		return nil, err
	}

	scannedAt := time.Now()

	// The verified identifier is kept encrypted at rest as the audit trail
	// of what was presented.
	identifierEncrypted, err := utils.EncryptData(presentedIdentifier)
	if err != nil {
		logger.Error("Failed to encrypt presented identifier", err)
		identifierEncrypted = ""
	}

	err = s.DB.Transaction(func(tx *gorm.DB) error {
		updates := map[string]interface{}{
			"status":             bookingModel.BookingStatusCompleted,
			"qr_code_scanned_at": scannedAt,
		}
		if identifierEncrypted != "" {
			updates["scanned_identifier_encrypted"] = identifierEncrypted
		}

		// Compare-and-swap on status: a near-simultaneous completion or
		// cancellation already applied means zero rows here.
		res := tx.Model(&bookingModel.Booking{}).
			Where("id = ? AND status = ?", b.ID, bookingModel.BookingStatusConfirmed).
			Updates(updates)
		if res.Error != nil {
			return fmt.Errorf("failed to complete booking: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return ErrInvalidTransition
		}

		if err := s.Ledger.ReleaseEscrow(tx, b.ID); err != nil {
			return err
		}

		b.Status = bookingModel.BookingStatusCompleted
		b.QRCodeScannedAt = &scannedAt

		if err := calendar.UpsertFromBooking(tx, b); err != nil {
			return err
		}

		return booking_event.RecordStatusEvent(tx, b.ID, b.Status, "completed", actorID)
	})
	if err != nil {
		return nil, err
	}

	logger.Success(fmt.Sprintf("Booking %s completed, escrow released", b.ID))
	return b, nil
}

// Cancel evaluates the cancellation policy for a confirmed booking and
// transitions it to the initiator's terminal cancelled state. Not permitted
// once completed.
func (s *Service) Cancel(bookingID string, initiator policy.Initiator, actorID string, nowTime time.Time) (*bookingModel.Booking, policy.CancellationSplit, error) {
	var split policy.CancellationSplit

	b, err := s.GetByID(bookingID)
	if err != nil {
		return nil, split, err
	}

	if b.Status != bookingModel.BookingStatusConfirmed {
		return nil, split, ErrPolicyViolation
	}

	var target bookingModel.BookingStatus
	switch initiator {
	case policy.InitiatorCustomer:
		target = bookingModel.BookingStatusCancelledByCustomer
	case policy.InitiatorChef:
		target = bookingModel.BookingStatusCancelledByChef
	default:
		return nil, split, fmt.Errorf("unknown cancellation initiator: %s", initiator)
	}

	daysUntil := utils.DaysUntilEvent(nowTime, b.EventDate)
	split = policy.EvaluateCancellation(initiator, daysUntil, b.TotalPriceCents)

	cancelledAt := nowTime

	err = s.DB.Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&bookingModel.Booking{}).
			Where("id = ? AND status = ?", b.ID, bookingModel.BookingStatusConfirmed).
			Updates(map[string]interface{}{
				"status":       target,
				"cancelled_by": actorID,
				"cancelled_at": cancelledAt,
			})
		if res.Error != nil {
			return fmt.Errorf("failed to cancel booking: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return ErrInvalidTransition
		}

		if err := s.Ledger.RecordCancellation(tx, b.ID, split); err != nil {
			return err
		}

		b.Status = target
		b.CancelledBy = &actorID
		b.CancelledAt = &cancelledAt

		if err := calendar.UpsertFromBooking(tx, b); err != nil {
			return err
		}

		return booking_event.RecordStatusEvent(tx, b.ID, b.Status, "cancelled", actorID)
	})
	if err != nil {
		return nil, split, err
	}

	if split.PenaltyFlag {
		logger.Warning(fmt.Sprintf("Chef-initiated cancellation of booking %s flagged for admin review", b.ID))
	}
	logger.Success(fmt.Sprintf("Booking %s cancelled (%d days before event): refund %s to customer",
		b.ID, daysUntil, utils.FormatCents(split.RefundToCustomerCents)))

	return b, split, nil
}

// MarkPaymentFailed records a failed payment attempt against the originating
// request. Best effort: no money moved, so this does not need to be atomic
// with anything else. The request stays proposed so the customer can retry.
func (s *Service) MarkPaymentFailed(requestID string) error {
	res := s.DB.Model(&requestModel.CustomerRequest{}).
		Where("id = ? AND status = ?", requestID, requestModel.RequestStatusProposed).
		Update("payment_failed_at", time.Now())
	if res.Error != nil {
		return fmt.Errorf("failed to mark payment failure: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		logger.Warning(fmt.Sprintf("Payment failure for request %s ignored: request not in proposed state", requestID))
	}
	return nil
}

// GetByID loads a booking by its id.
func (s *Service) GetByID(bookingID string) (*bookingModel.Booking, error) {
	var b bookingModel.Booking
	if err := s.DB.Where("id = ?", bookingID).First(&b).Error; err != nil {
		return nil, err
	}
	return &b, nil
}

// GetByPaymentIntentID loads a booking by its processor reference.
func (s *Service) GetByPaymentIntentID(paymentIntentID string) (*bookingModel.Booking, error) {
	var b bookingModel.Booking
	if err := s.DB.Where("payment_intent_id = ?", paymentIntentID).First(&b).Error; err != nil {
		return nil, err
	}
	return &b, nil
}
