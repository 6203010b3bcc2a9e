package booking

// BookingStatus is the canonical booking lifecycle status.
type BookingStatus string

const (
	BookingStatusPendingPayment      BookingStatus = "pending_payment"
	BookingStatusConfirmed           BookingStatus = "confirmed"
	BookingStatusCompleted           BookingStatus = "completed"
	BookingStatusCancelledByCustomer BookingStatus = "cancelled_by_customer"
	BookingStatusCancelledByChef     BookingStatus = "cancelled_by_chef"
	BookingStatusPaymentFailed       BookingStatus = "payment_failed"
)

// allowedTransitions defines the valid lifecycle transitions. The key is the
// current status, the value the set of statuses it may move to. Terminal
// statuses map to an empty slice so that no transition out of them validates.
var allowedTransitions = map[BookingStatus][]BookingStatus{
	BookingStatusPendingPayment: {
		BookingStatusConfirmed,
		BookingStatusPaymentFailed,
	},
	BookingStatusConfirmed: {
		BookingStatusCompleted,
		BookingStatusCancelledByCustomer,
		BookingStatusCancelledByChef,
	},
	BookingStatusCompleted:           {},
	BookingStatusCancelledByCustomer: {},
	BookingStatusCancelledByChef:     {},
	BookingStatusPaymentFailed:       {},
}

func (bs BookingStatus) String() string {
	return string(bs)
}

func (bs BookingStatus) IsValid() bool {
	_, ok := allowedTransitions[bs]
	return ok
}

// IsTerminal returns true if no further transitions are accepted from this status.
func (bs BookingStatus) IsTerminal() bool {
	targets, ok := allowedTransitions[bs]
	return ok && len(targets) == 0
}

// CanTransitionTo reports whether moving from bs to target is a valid
// lifecycle transition.
func (bs BookingStatus) CanTransitionTo(target BookingStatus) bool {
	for _, t := range allowedTransitions[bs] {
		if t == target {
			return true
		}
	}
	return false
}

// IsCancelled returns true for either cancellation terminal status
func (bs BookingStatus) IsCancelled() bool {
	return bs == BookingStatusCancelledByCustomer || bs == BookingStatusCancelledByChef
}

// GetAllBookingStatuses returns all valid booking statuses
func GetAllBookingStatuses() []BookingStatus {
	return []BookingStatus{
		BookingStatusPendingPayment,
		BookingStatusConfirmed,
		BookingStatusCompleted,
		BookingStatusCancelledByCustomer,
		BookingStatusCancelledByChef,
		BookingStatusPaymentFailed,
	}
}
