// Package ledger computes and records the escrow fund splits for bookings.
// It never moves money across external accounts; it writes the auditable
// intended split that downstream transfer tooling acts on.
package ledger

import (
	"fmt"
	"time"

	ledgerModel "chefmarket-booking/models/ledger"
	"chefmarket-booking/services/policy"
	"chefmarket-booking/utils"

	"gorm.io/gorm"
)

// Immediate release percentages applied at confirmation time. The held
// escrow share absorbs any rounding residual so the three components always
// sum exactly to the total price.
const (
	immediateChefPercent     = 46
	immediatePlatformPercent = 4
)

// Split is the three-way division of a confirmed booking's total price.
type Split struct {
	ImmediateChefCents     int64 `json:"immediate_chef_cents"`
	ImmediatePlatformCents int64 `json:"immediate_platform_cents"`
	HeldEscrowCents        int64 `json:"held_escrow_cents"`
}

// ComputeInitialSplit divides totalPriceCents into the immediate chef share,
// the immediate platform fee and the held escrow remainder. Each named share
// is rounded banker's-style per component; the escrow share is defined as
// the exact remainder, so ImmediateChefCents + ImmediatePlatformCents +
// HeldEscrowCents == totalPriceCents for every input.
func ComputeInitialSplit(totalPriceCents int64) Split {
	chef := utils.PercentOfCents(totalPriceCents, immediateChefPercent)
	platform := utils.PercentOfCents(totalPriceCents, immediatePlatformPercent)
	return Split{
		ImmediateChefCents:     chef,
		ImmediatePlatformCents: platform,
		HeldEscrowCents:        totalPriceCents - chef - platform,
	}
}

// Service persists ledger entries.
type Service struct {
	DB *gorm.DB
}

// NewService creates a new ledger service
func NewService(db *gorm.DB) *Service {
	return &Service{DB: db}
}

// RecordInitialSplit writes the confirmation-time ledger entry for a booking
// inside the caller's transaction.
func (s *Service) RecordInitialSplit(tx *gorm.DB, bookingID string, totalPriceCents int64) (*ledgerModel.LedgerEntry, error) {
	split := ComputeInitialSplit(totalPriceCents)

	entry := ledgerModel.LedgerEntry{
		BookingID:              bookingID,
		TotalPriceCents:        totalPriceCents,
		ImmediateChefCents:     split.ImmediateChefCents,
		ImmediatePlatformCents: split.ImmediatePlatformCents,
		HeldEscrowCents:        split.HeldEscrowCents,
	}

	if err := tx.Create(&entry).Error; err != nil {
		return nil, fmt.Errorf("failed to create ledger entry: %w", err)
	}

	return &entry, nil
}

// ReleaseEscrow stamps the held escrow of a booking as released. Idempotent:
// releasing an already-released entry changes nothing. Only the state
// machine's completed transition calls this.
func (s *Service) ReleaseEscrow(tx *gorm.DB, bookingID string) error {
	res := tx.Model(&ledgerModel.LedgerEntry{}).
		Where("booking_id = ? AND released_at IS NULL", bookingID).
		Update("released_at", time.Now())
	if res.Error != nil {
		return fmt.Errorf("failed to release escrow: %w", res.Error)
	}
	return nil
}

// RecordCancellation writes the policy outcome of a cancellation onto the
// booking's ledger entry. Residual funds enter disposition_pending and stay
// there until an operator settles them.
func (s *Service) RecordCancellation(tx *gorm.DB, bookingID string, split policy.CancellationSplit) error {
	updates := map[string]interface{}{
		"refund_to_customer_cents":    split.RefundToCustomerCents,
		"chef_compensation_cents":     split.ChefCompensationCents,
		"platform_compensation_cents": split.PlatformCompensationCents,
		"held_for_disposition_cents":  split.HeldForDispositionCents,
		"penalty_flag":                split.PenaltyFlag,
	}
	if split.HeldForDispositionCents > 0 {
		updates["disposition_status"] = ledgerModel.DispositionPending
	}

	res := tx.Model(&ledgerModel.LedgerEntry{}).
		Where("booking_id = ?", bookingID).
		Updates(updates)
	if res.Error != nil {
		return fmt.Errorf("failed to record cancellation split: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("no ledger entry found for booking %s", bookingID)
	}
	return nil
}

// SettleDisposition marks a pending held-for-disposition amount as settled
// by an operator. Funds are never auto-distributed.
func (s *Service) SettleDisposition(bookingID, settledBy string) (*ledgerModel.LedgerEntry, error) {
	var entry ledgerModel.LedgerEntry
	if err := s.DB.Where("booking_id = ?", bookingID).First(&entry).Error; err != nil {
		return nil, err
	}

	if entry.DispositionStatus == nil || *entry.DispositionStatus != ledgerModel.DispositionPending {
		return nil, fmt.Errorf("no pending disposition for booking %s", bookingID)
	}

	settled := ledgerModel.DispositionSettled
	nowTime := time.Now()
	entry.DispositionStatus = &settled
	entry.DispositionSettledBy = &settledBy
	entry.DispositionSettledAt = &nowTime

	if err := s.DB.Save(&entry).Error; err != nil {
		return nil, fmt.Errorf("failed to settle disposition: %w", err)
	}

	return &entry, nil
}

// GetByBookingID returns the ledger entry for a booking.
func (s *Service) GetByBookingID(bookingID string) (*ledgerModel.LedgerEntry, error) {
	var entry ledgerModel.LedgerEntry
	if err := s.DB.Where("booking_id = ?", bookingID).First(&entry).Error; err != nil {
		return nil, err
	}
	return &entry, nil
}
