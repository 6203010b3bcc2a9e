package booking

import (
	"testing"
)

func TestCanTransitionToHappyPath(t *testing.T) {
	if !BookingStatusPendingPayment.CanTransitionTo(BookingStatusConfirmed) {
		t.Error("pending_payment -> confirmed should be allowed")
	}
	if !BookingStatusPendingPayment.CanTransitionTo(BookingStatusPaymentFailed) {
		t.Error("pending_payment -> payment_failed should be allowed")
	}
	if !BookingStatusConfirmed.CanTransitionTo(BookingStatusCompleted) {
		t.Error("confirmed -> completed should be allowed")
	}
	if !BookingStatusConfirmed.CanTransitionTo(BookingStatusCancelledByCustomer) {
		t.Error("confirmed -> cancelled_by_customer should be allowed")
	}
	if !BookingStatusConfirmed.CanTransitionTo(BookingStatusCancelledByChef) {
		t.Error("confirmed -> cancelled_by_chef should be allowed")
	}
}

func TestTerminalStatesAcceptNothing(t *testing.T) {
	terminals := []BookingStatus{
		BookingStatusCompleted,
		BookingStatusCancelledByCustomer,
		BookingStatusCancelledByChef,
		BookingStatusPaymentFailed,
	}

	for _, from := range terminals {
		if !from.IsTerminal() {
			t.Errorf("%s should be terminal", from)
		}
		for _, to := range GetAllBookingStatuses() {
			if from.CanTransitionTo(to) {
				t.Errorf("terminal %s must not transition to %s", from, to)
			}
		}
	}
}

func TestNonTerminalStates(t *testing.T) {
	if BookingStatusPendingPayment.IsTerminal() {
		t.Error("pending_payment is not terminal")
	}
	if BookingStatusConfirmed.IsTerminal() {
		t.Error("confirmed is not terminal")
	}
}

func TestForbiddenShortcuts(t *testing.T) {
	// Completion and cancellation require payment confirmation first.
	if BookingStatusPendingPayment.CanTransitionTo(BookingStatusCompleted) {
		t.Error("pending_payment must not skip to completed")
	}
	if BookingStatusPendingPayment.CanTransitionTo(BookingStatusCancelledByCustomer) {
		t.Error("pending_payment must not skip to cancelled_by_customer")
	}
	if BookingStatusConfirmed.CanTransitionTo(BookingStatusPendingPayment) {
		t.Error("confirmed must not move back to pending_payment")
	}
	if BookingStatusConfirmed.CanTransitionTo(BookingStatusPaymentFailed) {
		t.Error("confirmed must not move to payment_failed")
	}
}

func TestIsValid(t *testing.T) {
	for _, s := range GetAllBookingStatuses() {
		if !s.IsValid() {
			t.Errorf("%s should be valid", s)
		}
	}
	if BookingStatus("delivered").IsValid() {
		t.Error("unknown status should not be valid")
	}
	if BookingStatus("delivered").IsTerminal() {
		t.Error("unknown status should not report terminal")
	}
}

func TestIsCancelled(t *testing.T) {
	if !BookingStatusCancelledByCustomer.IsCancelled() || !BookingStatusCancelledByChef.IsCancelled() {
		t.Error("cancelled statuses should report cancelled")
	}
	if BookingStatusCompleted.IsCancelled() {
		t.Error("completed is not a cancelled status")
	}
}
