// Package verifier validates a presented event-day identifier against the
// authoritative booking identifier. The identifier arrives either from a QR
// scan or manual text entry; both funnel into the same comparison.
package verifier

import (
	"crypto/subtle"
	"errors"
	"time"

	bookingModel "chefmarket-booking/models/booking"

	"gorm.io/gorm"
)

var (
	// ErrIdentifierMismatch is reported to the presenting actor without
	// revealing the correct identifier.
	ErrIdentifierMismatch = errors.New("presented identifier does not match booking")

	// ErrVerificationBlocked is returned while the attempt limit cooldown
	// is active.
	ErrVerificationBlocked = errors.New("verification attempts are temporarily blocked")
)

const (
	maxAttempts = 5
	blockWindow = 15 * time.Minute
)

// Service checks presented identifiers and tracks failed attempts.
type Service struct {
	DB *gorm.DB
}

// NewService creates a new verifier service
func NewService(db *gorm.DB) *Service {
	return &Service{DB: db}
}

// Verify compares the presented identifier against the booking's own id.
// The comparison is exact, case-sensitive and constant-time. On mismatch the
// attempt counter is incremented and, past the limit, further attempts are
// blocked for a cooldown window.
func (s *Service) Verify(b *bookingModel.Booking, presentedIdentifier string) error {
	nowTime := time.Now()

	if b.CompletionBlockedUntil != nil && b.CompletionBlockedUntil.After(nowTime) {
		return ErrVerificationBlocked
	}

	if subtle.ConstantTimeCompare([]byte(b.ID), []byte(presentedIdentifier)) == 1 {
		return nil
	}

	b.CompletionAttempts++
	updates := map[string]interface{}{
		"completion_attempts": b.CompletionAttempts,
	}
	if b.CompletionAttempts >= maxAttempts {
		blockedUntil := nowTime.Add(blockWindow)
		b.CompletionBlockedUntil = &blockedUntil
		updates["completion_blocked_until"] = blockedUntil
		// Counter restarts after the block expires.
		b.CompletionAttempts = 0
		updates["completion_attempts"] = 0
	}

	if err := s.DB.Model(&bookingModel.Booking{}).
		Where("id = ?", b.ID).
		Updates(updates).Error; err != nil {
		return err
	}

	return ErrIdentifierMismatch
}

// Match reports whether the presented identifier equals the booking id,
// without any attempt accounting. Exposed for read-only checks.
func Match(bookingID, presentedIdentifier string) bool {
	return subtle.ConstantTimeCompare([]byte(bookingID), []byte(presentedIdentifier)) == 1
}
