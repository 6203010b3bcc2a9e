// Package policy computes refund and compensation splits for booking
// cancellations. All functions are pure; persistence and state transitions
// belong to the booking service.
package policy

import (
	"chefmarket-booking/utils"
)

// Initiator identifies which party requested the cancellation.
type Initiator string

const (
	InitiatorCustomer Initiator = "customer"
	InitiatorChef     Initiator = "chef"
)

// Cancellations more than this many days before the event fall under the
// lenient refund branch.
const earlyCancellationDays = 20

// CancellationSplit is the policy outcome for a cancellation. All amounts
// are percentages of the booking's total price applied in integer cents;
// HeldForDispositionCents is whatever the named shares leave undistributed
// and requires manual operator settlement.
type CancellationSplit struct {
	RefundToCustomerCents     int64 `json:"refund_to_customer_cents"`
	ChefCompensationCents     int64 `json:"chef_compensation_cents"`
	PlatformCompensationCents int64 `json:"platform_compensation_cents"`
	HeldForDispositionCents   int64 `json:"held_for_disposition_cents"`

	// PenaltyFlag is raised on chef-initiated cancellations for manual
	// admin review. Penalty enforcement itself is out of band.
	PenaltyFlag bool `json:"penalty_flag"`
}

// EvaluateCancellation computes the refund split for cancelling a confirmed
// booking. daysUntilEvent is the floor-rounded whole-day distance to the
// event date; a negative value (event already passed) gets no grace period
// and is treated like a late cancellation.
//
// The percentages always apply to the full total price. The policy assumes
// the held escrow is still intact: completed bookings are rejected before
// evaluation ever happens.
func EvaluateCancellation(initiator Initiator, daysUntilEvent int, totalPriceCents int64) CancellationSplit {
	if initiator == InitiatorChef {
		return CancellationSplit{
			RefundToCustomerCents: totalPriceCents,
			PenaltyFlag:           true,
		}
	}

	if daysUntilEvent > earlyCancellationDays {
		refund := utils.PercentOfCents(totalPriceCents, 50)
		return CancellationSplit{
			RefundToCustomerCents:   refund,
			HeldForDispositionCents: totalPriceCents - refund,
		}
	}

	refund := utils.PercentOfCents(totalPriceCents, 20)
	chef := utils.PercentOfCents(totalPriceCents, 15)
	platform := utils.PercentOfCents(totalPriceCents, 15)
	return CancellationSplit{
		RefundToCustomerCents:     refund,
		ChefCompensationCents:     chef,
		PlatformCompensationCents: platform,
		HeldForDispositionCents:   totalPriceCents - refund - chef - platform,
	}
}

// InitiatorFromRole maps an actor role onto a cancellation initiator.
func InitiatorFromRole(role string) (Initiator, bool) {
	switch role {
	case string(InitiatorCustomer):
		return InitiatorCustomer, true
	case string(InitiatorChef):
		return InitiatorChef, true
	default:
		return "", false
	}
}
